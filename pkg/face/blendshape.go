// Package face implements facial animation: a table of smoothed blend
// shape weights, named emotion presets, automatic blinking and a
// text-driven viseme lip sync processor.
package face

import (
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/animestudio/pkg/math"
)

// ShapeID identifies one facial morph target.
type ShapeID int

const (
	EyeBlinkL ShapeID = iota
	EyeBlinkR
	EyeWideL
	EyeWideR
	EyeSquintL
	EyeSquintR
	EyeHappyL
	EyeHappyR

	BrowUpL
	BrowUpR
	BrowDownL
	BrowDownR
	BrowAngryL
	BrowAngryR

	MouthSmileL
	MouthSmileR
	MouthFrownL
	MouthFrownR
	MouthOpen
	MouthPucker
	JawOpen

	VisemeA
	VisemeE
	VisemeI
	VisemeO
	VisemeU
	VisemeM
	VisemeF
	VisemeTH
	VisemeS
	VisemeT
	VisemeR

	CheekPuffL
	CheekPuffR
	CheekSuck

	ShapeCount
)

var shapeNames = [ShapeCount]string{
	"eye_blink_L", "eye_blink_R", "eye_wide_L", "eye_wide_R",
	"eye_squint_L", "eye_squint_R", "eye_happy_L", "eye_happy_R",
	"brow_up_L", "brow_up_R", "brow_down_L", "brow_down_R",
	"brow_angry_L", "brow_angry_R",
	"mouth_smile_L", "mouth_smile_R", "mouth_frown_L", "mouth_frown_R",
	"mouth_open", "mouth_pucker", "jaw_open",
	"viseme_a", "viseme_e", "viseme_i", "viseme_o", "viseme_u",
	"viseme_m", "viseme_f", "viseme_th", "viseme_s", "viseme_t", "viseme_r",
	"cheek_puff_L", "cheek_puff_R", "cheek_suck",
}

// String returns the stable shape name used in exported state.
func (id ShapeID) String() string {
	if id < 0 || id >= ShapeCount {
		return "unknown"
	}
	return shapeNames[id]
}

// ShapeByName resolves a shape name back to its ID.
func ShapeByName(name string) (ShapeID, bool) {
	for i, n := range shapeNames {
		if n == name {
			return ShapeID(i), true
		}
	}
	return 0, false
}

// IsViseme reports whether the shape is a lip sync viseme.
func (id ShapeID) IsViseme() bool {
	return id >= VisemeA && id <= VisemeR
}

// BlendShape is a single morph target with smoothed weight state and
// an optional per-vertex deformation delta used by the mesh deformer.
type BlendShape struct {
	ID              ShapeID
	Weight          float64
	TargetWeight    float64
	TransitionSpeed float64

	// Deltas holds one XY offset per mesh vertex, or nil.
	Deltas [][2]float64
}

// transitionSpeed returns the default smoothing rate per shape class:
// blinks snap, visemes are quick, expressions ease in.
func transitionSpeed(id ShapeID) float64 {
	switch {
	case id == EyeBlinkL || id == EyeBlinkR:
		return 20
	case id.IsViseme():
		return 8
	default:
		return 5
	}
}

// Animator owns the blend shape table and all facial animation state.
// Like the skeleton it is single-threaded: mutate and Update from one
// goroutine only.
type Animator struct {
	shapes [ShapeCount]BlendShape

	time      float64
	emotion   string
	intensity float64

	speaking    bool
	speechStart float64
	sequence    []VisemeEvent

	autoBlink    bool
	blinkTimer   float64
	nextBlinkIn  float64
	blinkEndAt   float64
	blinkPending bool

	eyeH, eyeV float64

	rng *rand.Rand
	log *zap.Logger
}

// NewAnimator returns a facial animator with every weight at rest and
// auto-blink disabled.
func NewAnimator() *Animator {
	a := &Animator{
		emotion:     "neutral",
		intensity:   1,
		nextBlinkIn: 3,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		log:         zap.NewNop(),
	}
	for i := range a.shapes {
		a.shapes[i] = BlendShape{
			ID:              ShapeID(i),
			TransitionSpeed: transitionSpeed(ShapeID(i)),
		}
	}
	return a
}

// SetLogger replaces the no-op logger used for warnings.
func (a *Animator) SetLogger(log *zap.Logger) {
	if log != nil {
		a.log = log
	}
}

// Shape returns the blend shape record for id.
func (a *Animator) Shape(id ShapeID) *BlendShape { return &a.shapes[id] }

// Weight returns the current smoothed weight of a shape.
func (a *Animator) Weight(id ShapeID) float64 { return a.shapes[id].Weight }

// SetWeight sets the target weight of a shape, clamped to [0, 1].
func (a *Animator) SetWeight(id ShapeID, w float64) {
	a.shapes[id].TargetWeight = math.Clamp01(w)
}

// SetDeltas attaches per-vertex deformation offsets to a shape.
func (a *Animator) SetDeltas(id ShapeID, deltas [][2]float64) {
	a.shapes[id].Deltas = deltas
}

// ActiveShapes returns the shapes whose current weight exceeds the
// threshold.
func (a *Animator) ActiveShapes(threshold float64) []*BlendShape {
	var out []*BlendShape
	for i := range a.shapes {
		if a.shapes[i].Weight > threshold {
			out = append(out, &a.shapes[i])
		}
	}
	return out
}

// ActiveCount returns how many shapes are above the threshold.
func (a *Animator) ActiveCount(threshold float64) int {
	n := 0
	for i := range a.shapes {
		if a.shapes[i].Weight > threshold {
			n++
		}
	}
	return n
}

// SetEyeDirection stores the looking direction, each axis in [-1, 1].
// The layer renderer consumes it as an iris offset.
func (a *Animator) SetEyeDirection(h, v float64) {
	a.eyeH = math.Clamp(h, -1, 1)
	a.eyeV = math.Clamp(v, -1, 1)
}

// EyeDirection returns the stored looking direction.
func (a *Animator) EyeDirection() (h, v float64) { return a.eyeH, a.eyeV }

// EnableAutoBlink toggles randomized automatic blinking.
func (a *Animator) EnableAutoBlink(enabled bool) {
	a.autoBlink = enabled
	a.blinkTimer = 0
}

// TriggerBlink closes both eyelids for the given duration in seconds.
func (a *Animator) TriggerBlink(duration float64) {
	a.shapes[EyeBlinkL].TargetWeight = 1
	a.shapes[EyeBlinkR].TargetWeight = 1
	a.blinkEndAt = a.time + duration
	a.blinkPending = true
}

// Update advances every blend shape toward its target, runs lip sync
// while speaking, and drives the auto-blink timer.
func (a *Animator) Update(dt float64) {
	a.time += dt

	if a.speaking {
		elapsed := a.time - a.speechStart
		weights := UpdateVisemes(a.sequence, elapsed)
		for id, w := range weights {
			a.shapes[id].TargetWeight = w
		}
		if elapsed > sequenceEnd(a.sequence)+0.5 {
			a.StopSpeaking()
		}
	}

	if a.autoBlink {
		a.blinkTimer += dt
		if a.blinkTimer >= a.nextBlinkIn {
			a.TriggerBlink(0.15)
			a.blinkTimer = 0
			a.nextBlinkIn = 2 + a.rng.Float64()*3
		}
	}
	if a.blinkPending && a.time >= a.blinkEndAt {
		a.shapes[EyeBlinkL].TargetWeight = 0
		a.shapes[EyeBlinkR].TargetWeight = 0
		a.blinkPending = false
	}

	for i := range a.shapes {
		sh := &a.shapes[i]
		diff := sh.TargetWeight - sh.Weight
		if diff > -0.001 && diff < 0.001 {
			continue
		}
		step := math.Clamp01(sh.TransitionSpeed * dt)
		sh.Weight = math.Clamp01(sh.Weight + diff*step)
	}
}

// Time returns the accumulated animation time in seconds.
func (a *Animator) Time() float64 { return a.time }
