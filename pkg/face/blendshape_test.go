package face

import (
	stdmath "math"
	"testing"
)

func step(a *Animator, seconds float64) {
	const dt = 1.0 / 60.0
	for t := 0.0; t < seconds; t += dt {
		a.Update(dt)
	}
}

func TestWeightsApproachTargets(t *testing.T) {
	a := NewAnimator()
	a.SetWeight(MouthSmileL, 0.8)

	step(a, 2)

	if w := a.Weight(MouthSmileL); stdmath.Abs(w-0.8) > 0.01 {
		t.Errorf("smile weight = %v, want ~0.8", w)
	}
	if w := a.Weight(MouthFrownL); w != 0 {
		t.Errorf("untouched shape moved: %v", w)
	}
}

func TestSetWeightClamps(t *testing.T) {
	a := NewAnimator()
	a.SetWeight(JawOpen, 3.5)
	if got := a.Shape(JawOpen).TargetWeight; got != 1 {
		t.Errorf("target = %v, want clamp to 1", got)
	}
	a.SetWeight(JawOpen, -2)
	if got := a.Shape(JawOpen).TargetWeight; got != 0 {
		t.Errorf("target = %v, want clamp to 0", got)
	}
}

func TestEmotionResetLaw(t *testing.T) {
	// Switching from happy to sad must zero every target the sad
	// preset does not set: no leakage across emotions.
	a := NewAnimator()
	a.SetEmotion("happy", 1, 0.3)
	step(a, 1)
	a.SetEmotion("sad", 1, 0.3)

	sad := emotionPresets["sad"]
	for id := ShapeID(0); id < ShapeCount; id++ {
		want, inSad := sad[id]
		got := a.Shape(id).TargetWeight
		if inSad {
			if stdmath.Abs(got-want) > 1e-9 {
				t.Errorf("%v target = %v, want %v", id, got, want)
			}
		} else if got != 0 {
			t.Errorf("%v target leaked from happy: %v", id, got)
		}
	}
}

func TestEmotionIntensityScalesAndClamps(t *testing.T) {
	a := NewAnimator()
	a.SetEmotion("surprised", 0.5, 0.3)
	if got := a.Shape(EyeWideL).TargetWeight; stdmath.Abs(got-0.5) > 1e-9 {
		t.Errorf("half intensity EyeWideL = %v, want 0.5", got)
	}

	a.SetEmotion("surprised", 7, 0.3)
	if got := a.Shape(EyeWideL).TargetWeight; got != 1 {
		t.Errorf("over-intensity EyeWideL = %v, want clamp to 1", got)
	}
}

func TestUnknownEmotionIsNoop(t *testing.T) {
	a := NewAnimator()
	a.SetEmotion("happy", 1, 0.3)
	before := a.Shape(MouthSmileL).TargetWeight

	a.SetEmotion("melancholy", 1, 0.3)
	if got := a.Shape(MouthSmileL).TargetWeight; got != before {
		t.Errorf("unknown emotion changed targets: %v", got)
	}
	if name, _ := a.Emotion(); name != "happy" {
		t.Errorf("emotion name = %q, want happy", name)
	}
}

func TestNeutralClearsExpression(t *testing.T) {
	a := NewAnimator()
	a.SetEmotion("angry", 1, 0.3)
	a.SetEmotion("neutral", 1, 0.3)

	for id := ShapeID(0); id < ShapeCount; id++ {
		if got := a.Shape(id).TargetWeight; got != 0 {
			t.Errorf("%v target = %v after neutral, want 0", id, got)
		}
	}
}

func TestTriggerBlinkOpensAgain(t *testing.T) {
	a := NewAnimator()
	a.TriggerBlink(0.15)

	step(a, 0.1)
	if w := a.Weight(EyeBlinkL); w < 0.5 {
		t.Errorf("mid-blink lid weight = %v, want mostly closed", w)
	}

	step(a, 1)
	if w := a.Weight(EyeBlinkL); w > 0.05 {
		t.Errorf("post-blink lid weight = %v, want open", w)
	}
}

func TestAutoBlinkFires(t *testing.T) {
	a := NewAnimator()
	a.EnableAutoBlink(true)

	blinked := false
	const dt = 1.0 / 60.0
	for i := 0; i < 6*60; i++ {
		a.Update(dt)
		if a.Weight(EyeBlinkL) > 0.3 {
			blinked = true
			break
		}
	}
	if !blinked {
		t.Error("no blink within six seconds of auto-blink")
	}
}

func TestActiveCount(t *testing.T) {
	a := NewAnimator()
	if n := a.ActiveCount(0.01); n != 0 {
		t.Fatalf("fresh animator has %d active shapes", n)
	}
	a.SetEmotion("sad", 1, 0.1)
	step(a, 1)
	if n := a.ActiveCount(0.01); n != len(emotionPresets["sad"]) {
		t.Errorf("active count = %d, want %d", n, len(emotionPresets["sad"]))
	}
}
