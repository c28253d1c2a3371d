package face

import (
	"sort"

	"go.uber.org/zap"

	"github.com/Faultbox/animestudio/pkg/math"
)

// emotionPresets maps emotion names to target weight sets. Applying a
// preset resets every other shape, so presets never leak into each
// other.
var emotionPresets = map[string]map[ShapeID]float64{
	"happy": {
		EyeHappyL:   0.7,
		EyeHappyR:   0.7,
		MouthSmileL: 0.8,
		MouthSmileR: 0.8,
		CheekPuffL:  0.3,
		CheekPuffR:  0.3,
		BrowUpL:     0.2,
		BrowUpR:     0.2,
	},
	"excited": {
		EyeWideL:    0.9,
		EyeWideR:    0.9,
		BrowUpL:     0.8,
		BrowUpR:     0.8,
		MouthOpen:   0.6,
		MouthSmileL: 0.9,
		MouthSmileR: 0.9,
	},
	"sad": {
		BrowDownL:   0.6,
		BrowDownR:   0.6,
		EyeSquintL:  0.4,
		EyeSquintR:  0.4,
		MouthFrownL: 0.7,
		MouthFrownR: 0.7,
	},
	"surprised": {
		EyeWideL:  1.0,
		EyeWideR:  1.0,
		BrowUpL:   1.0,
		BrowUpR:   1.0,
		MouthOpen: 0.8,
		JawOpen:   0.5,
	},
	"angry": {
		BrowAngryL:  0.9,
		BrowAngryR:  0.9,
		EyeSquintL:  0.6,
		EyeSquintR:  0.6,
		MouthFrownL: 0.8,
		MouthFrownR: 0.8,
	},
}

// SetEmotion resets every blend shape target to zero, then applies the
// named preset scaled by intensity (clamped to [0, 1]). The weights
// transition at a speed derived from transitionTime. Unknown emotions
// warn and leave the current expression untouched.
func (a *Animator) SetEmotion(name string, intensity, transitionTime float64) {
	preset, ok := emotionPresets[name]
	if !ok && name != "neutral" {
		a.log.Warn("unknown emotion", zap.String("emotion", name))
		return
	}

	a.emotion = name
	a.intensity = math.Clamp01(intensity)

	for i := range a.shapes {
		a.shapes[i].TargetWeight = 0
	}

	speed := 5.0
	if transitionTime > 0 {
		speed = 1 / transitionTime
	}
	for id, w := range preset {
		a.shapes[id].TargetWeight = w * a.intensity
		a.shapes[id].TransitionSpeed = speed
	}
}

// Emotion returns the current emotion name and intensity.
func (a *Animator) Emotion() (string, float64) {
	return a.emotion, a.intensity
}

// EmotionNames lists the available presets, sorted.
func EmotionNames() []string {
	names := make([]string, 0, len(emotionPresets))
	for n := range emotionPresets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
