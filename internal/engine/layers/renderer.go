package layers

import (
	stdmath "math"

	"go.uber.org/zap"

	"github.com/Faultbox/animestudio/pkg/math"
)

// Viewing angle limits in degrees.
const (
	MaxYaw   = 85.0
	MaxPitch = 40.0
)

const defaultRotationSpeed = 3.0

// irisTravel is the iris offset at full eye deflection, as a fraction
// of the output width.
const irisTravel = 0.02

// Renderer owns the layer stack and the smoothed viewing angle.
// Single-threaded like the rest of the pipeline: mutate and Update
// from one goroutine only.
type Renderer struct {
	layers []*Layer

	width, height int

	yaw, pitch             float64
	targetYaw, targetPitch float64
	rotationSpeed          float64

	eyeH, eyeV float64

	log *zap.Logger
}

// New builds a renderer compositing to width x height. The layer stack
// starts empty; use SetLayers or ExtractDefault.
func New(width, height int, log *zap.Logger) *Renderer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Renderer{
		width:         width,
		height:        height,
		rotationSpeed: defaultRotationSpeed,
		log:           log,
	}
}

// SetLayers replaces the layer stack.
func (r *Renderer) SetLayers(layers []*Layer) {
	r.layers = layers
	r.log.Debug("layer stack replaced", zap.Int("layers", len(layers)))
}

// Layers returns the current layer stack.
func (r *Renderer) Layers() []*Layer { return r.layers }

// SetViewAngle sets the target viewing angle in degrees, clamped to
// the supported range.
func (r *Renderer) SetViewAngle(yaw, pitch float64) {
	r.targetYaw = math.Clamp(yaw, -MaxYaw, MaxYaw)
	r.targetPitch = math.Clamp(pitch, -MaxPitch, MaxPitch)
}

// Angle returns the current smoothed viewing angle in degrees.
func (r *Renderer) Angle() (yaw, pitch float64) { return r.yaw, r.pitch }

// TargetAngle returns the viewing angle the renderer is approaching.
func (r *Renderer) TargetAngle() (yaw, pitch float64) { return r.targetYaw, r.targetPitch }

// SetEyeDirection sets the iris offset, each axis in [-1, 1].
func (r *Renderer) SetEyeDirection(h, v float64) {
	r.eyeH = math.Clamp(h, -1, 1)
	r.eyeV = math.Clamp(v, -1, 1)
}

// Update advances the viewing angle toward its target and recomputes
// every layer's transform and opacity.
func (r *Renderer) Update(dt float64) {
	step := math.Clamp01(r.rotationSpeed * dt)
	r.yaw += (r.targetYaw - r.yaw) * step
	r.pitch += (r.targetPitch - r.pitch) * step

	absYaw := stdmath.Abs(r.yaw)
	absPitch := stdmath.Abs(r.pitch)
	front := 1 - absYaw/90
	side := absYaw / 90

	for _, l := range r.layers {
		depth := l.Kind.Depth()

		l.OffsetX = r.yaw * depth * 0.01
		l.OffsetY = r.pitch * depth * 0.005
		l.ScaleX = 1 - absYaw*0.001*depth
		l.ScaleY = 1 - absPitch*0.001*depth
		if l.Kind == Ears || l.Kind == Nose {
			l.Rotation = r.yaw * 0.02 * depth
		} else {
			l.Rotation = 0
		}

		if l.Kind == FaceShadow {
			l.Opacity = absYaw / 90 * 0.4
		} else {
			l.Opacity = math.Clamp01(visibility(l.Kind, front, side))
		}

		if l.Kind == EyesIris {
			l.OffsetX += r.eyeH * float64(r.width) * irisTravel
			l.OffsetY += r.eyeV * float64(r.width) * irisTravel
		}
	}
}
