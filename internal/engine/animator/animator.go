// Package animator ties the skeletal rig, facial animation, mesh
// deformation and layer renderer into one per-frame pipeline.
package animator

import (
	"image"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/Faultbox/animestudio/internal/config"
	"github.com/Faultbox/animestudio/internal/engine/layers"
	"github.com/Faultbox/animestudio/internal/engine/mesh"
	"github.com/Faultbox/animestudio/pkg/face"
	"github.com/Faultbox/animestudio/pkg/math"
	"github.com/Faultbox/animestudio/pkg/rig"
)

// Animator is the frame-driven orchestrator. It is single-threaded:
// all command setters and Update must run on the same goroutine, so a
// host dispatching commands from another thread has to serialize them
// onto the render loop first.
type Animator struct {
	skel *rig.Skeleton
	face *face.Animator
	mesh *mesh.Mesh
	view *layers.Renderer

	currentPose   string
	speakingSpeed float64
	rotationSpeed float64
	ikIterations  int
	breathing     bool
	autoBlink     bool

	metrics Metrics
	log     *zap.Logger
}

// New builds a ready-to-run animator: default humanoid rig, neutral
// face, bound grid mesh, empty layer stack. Pass nil for defaults.
func New(cfg *config.Config, log *zap.Logger) *Animator {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = zap.NewNop()
	}

	skel := rig.NewHumanoid()
	skel.SetLogger(log)
	skel.SetRotationSpeed(cfg.Animation.RotationSpeed)
	skel.EnableBreathing(cfg.Animation.Breathing)

	fa := face.NewAnimator()
	fa.SetLogger(log)
	fa.EnableAutoBlink(cfg.Face.AutoBlink)

	m := mesh.NewGrid(cfg.Animation.MeshDensity, mesh.DefaultWidth, mesh.DefaultHeight)
	m.Bind(skel, cfg.Animation.InfluenceRadius)

	view := layers.New(cfg.Graphics.Width, cfg.Graphics.Height, log)

	a := &Animator{
		skel:          skel,
		face:          fa,
		mesh:          m,
		view:          view,
		currentPose:   "idle",
		speakingSpeed: cfg.Face.SpeakingSpeed,
		rotationSpeed: cfg.Animation.RotationSpeed,
		ikIterations:  cfg.Animation.IKIterations,
		breathing:     cfg.Animation.Breathing,
		autoBlink:     cfg.Face.AutoBlink,
		log:           log,
	}
	a.skel.ApplyPose("idle", 1)

	log.Info("animator ready",
		zap.Int("bones", skel.Count()),
		zap.Int("vertices", m.VertexCount()))
	return a
}

// LoadPortrait slices a character portrait into the default layer
// stack.
func (a *Animator) LoadPortrait(img image.Image) {
	a.view.ExtractDefault(img)
}

// Skeleton exposes the rig for IK targeting and inspection.
func (a *Animator) Skeleton() *rig.Skeleton { return a.skel }

// Face exposes the facial animator.
func (a *Animator) Face() *face.Animator { return a.face }

// Mesh exposes the bound deformation mesh.
func (a *Animator) Mesh() *mesh.Mesh { return a.mesh }

// View exposes the layer renderer.
func (a *Animator) View() *layers.Renderer { return a.view }

// SetPose applies a named pose. A positive transitionTime sets how
// many seconds the listed bones take to reach their targets; zero or
// negative falls back to the configured rotation speed. Unknown names
// warn and do nothing.
func (a *Animator) SetPose(name string, transitionTime float64) {
	if !a.skel.HasPose(name) {
		a.skel.ApplyPose(name, 1) // warns
		return
	}
	a.currentPose = name
	a.skel.ApplyPose(name, 1)

	speed := a.rotationSpeed
	if transitionTime > 0 {
		speed = 1 / transitionTime
	}
	for _, bn := range a.skel.PoseBones(name) {
		if b, ok := a.skel.BoneByName(bn); ok {
			b.RotationSpeed = speed
		}
	}
}

// Pose returns the name of the last applied pose.
func (a *Animator) Pose() string { return a.currentPose }

// SetEmotion applies a named emotion preset at the given intensity.
func (a *Animator) SetEmotion(name string, intensity, transitionTime float64) {
	a.face.SetEmotion(name, intensity, transitionTime)
}

// Speak starts lip sync for the given text.
func (a *Animator) Speak(text string) {
	a.face.Speak(text, a.speakingSpeed)
}

// StopSpeaking ends lip sync.
func (a *Animator) StopSpeaking() {
	a.face.StopSpeaking()
}

// TriggerGesture plays a named gesture.
func (a *Animator) TriggerGesture(name string) {
	a.skel.TriggerGesture(name)
}

// SolveIK aims a named chain at a world-space target using the
// configured iteration budget.
func (a *Animator) SolveIK(chain string, target mgl64.Vec3) []mgl64.Vec3 {
	return a.skel.SolveIK(chain, target, a.ikIterations)
}

// SetHeadRotation sets the head bone target in degrees and steers the
// 2.5D view to match the yaw and pitch.
func (a *Animator) SetHeadRotation(pitch, yaw, roll float64) {
	a.skel.SetBoneRotation("head",
		math.Deg2Rad(pitch), math.Deg2Rad(yaw), math.Deg2Rad(roll))
	a.view.SetViewAngle(yaw, pitch)
}

// SetLookingDirection sets the eye direction, each axis in [-1, 1].
func (a *Animator) SetLookingDirection(h, v float64) {
	a.face.SetEyeDirection(h, v)
	a.view.SetEyeDirection(h, v)
}

// SetViewAngle steers the 2.5D view without moving the head bone.
func (a *Animator) SetViewAngle(yaw, pitch float64) {
	a.view.SetViewAngle(yaw, pitch)
}

// EnableBreathing toggles the idle breathing oscillation.
func (a *Animator) EnableBreathing(enabled bool) {
	a.breathing = enabled
	a.skel.EnableBreathing(enabled)
}

// EnableAutoBlink toggles randomized blinking.
func (a *Animator) EnableAutoBlink(enabled bool) {
	a.autoBlink = enabled
	a.face.EnableAutoBlink(enabled)
}

// Update advances the whole pipeline by dt seconds and returns the
// composited frame. Call once per rendered frame.
func (a *Animator) Update(dt float64) *image.NRGBA {
	frameStart := time.Now()

	facialStart := time.Now()
	a.face.Update(dt)
	a.metrics.FacialMS = msSince(facialStart)

	skeletalStart := time.Now()
	a.skel.Update(dt)
	a.mesh.Deform(a.skel, a.face)
	a.metrics.SkeletalMS = msSince(skeletalStart)

	renderStart := time.Now()
	a.view.Update(dt)
	frame := a.view.Render()
	a.metrics.RenderMS = msSince(renderStart)

	a.metrics.FrameMS = msSince(frameStart)
	a.metrics.Bones = a.skel.Count()
	a.metrics.ActiveShapes = a.face.ActiveCount(0.01)
	a.metrics.record(a.metrics.FrameMS)

	return frame
}

// Metrics returns the latest per-frame performance record.
func (a *Animator) Metrics() Metrics { return a.metrics }

func msSince(t time.Time) float64 {
	return float64(time.Since(t)) / float64(time.Millisecond)
}
