package animator

import (
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/animestudio/pkg/face"
)

// ErrBadState marks an animation state document that cannot be parsed.
var ErrBadState = errors.New("malformed animation state")

// State is the exportable animation snapshot: every target the command
// API can set, but none of the smoothed current values, so importing
// into a fresh animator reproduces the same convergence.
type State struct {
	Pose      string  `json:"pose"`
	Emotion   string  `json:"emotion"`
	Intensity float64 `json:"intensity"`

	BoneTargets  map[string][3]float64 `json:"bone_targets"`
	ShapeTargets map[string]float64    `json:"shape_targets"`

	ViewYaw   float64 `json:"view_yaw"`
	ViewPitch float64 `json:"view_pitch"`
	EyeH      float64 `json:"eye_h"`
	EyeV      float64 `json:"eye_v"`

	Breathing bool `json:"breathing"`
	AutoBlink bool `json:"auto_blink"`
}

// Export snapshots the animator's targets.
func (a *Animator) Export() State {
	st := State{
		Pose:         a.currentPose,
		BoneTargets:  make(map[string][3]float64, a.skel.Count()),
		ShapeTargets: make(map[string]float64),
		Breathing:    a.breathing,
		AutoBlink:    a.autoBlink,
	}
	st.Emotion, st.Intensity = a.face.Emotion()

	for _, name := range a.skel.Names() {
		b, _ := a.skel.BoneByName(name)
		t := b.TargetRotation
		st.BoneTargets[name] = [3]float64{t.X(), t.Y(), t.Z()}
	}

	for id := face.ShapeID(0); id < face.ShapeCount; id++ {
		if w := a.face.Shape(id).TargetWeight; w != 0 {
			st.ShapeTargets[id.String()] = w
		}
	}

	st.ViewYaw, st.ViewPitch = a.view.TargetAngle()
	st.EyeH, st.EyeV = a.face.EyeDirection()
	return st
}

// ExportJSON serializes the snapshot as an indented JSON document.
func (a *Animator) ExportJSON() ([]byte, error) {
	return json.MarshalIndent(a.Export(), "", "  ")
}

// Import applies a snapshot onto this animator. Unknown bone or shape
// names warn and are skipped.
func (a *Animator) Import(st State) {
	if st.Pose != "" {
		a.currentPose = st.Pose
	}

	for name, rot := range st.BoneTargets {
		b, ok := a.skel.BoneByName(name)
		if !ok {
			a.log.Warn("state references unknown bone", zap.String("bone", name))
			continue
		}
		b.TargetRotation[0] = rot[0]
		b.TargetRotation[1] = rot[1]
		b.TargetRotation[2] = rot[2]
	}

	for id := face.ShapeID(0); id < face.ShapeCount; id++ {
		a.face.Shape(id).TargetWeight = 0
	}
	for name, w := range st.ShapeTargets {
		id, ok := face.ShapeByName(name)
		if !ok {
			a.log.Warn("state references unknown shape", zap.String("shape", name))
			continue
		}
		a.face.SetWeight(id, w)
	}

	a.view.SetViewAngle(st.ViewYaw, st.ViewPitch)
	a.SetLookingDirection(st.EyeH, st.EyeV)
	a.EnableBreathing(st.Breathing)
	a.EnableAutoBlink(st.AutoBlink)
}

// ImportJSON parses and applies a JSON snapshot.
func (a *Animator) ImportJSON(data []byte) error {
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return fmt.Errorf("%w: %v", ErrBadState, err)
	}
	a.Import(st)
	return nil
}
