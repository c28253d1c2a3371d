package layers

import (
	"image"
	"image/color"
	stdmath "math"
	"testing"
)

func allKindsStack() []*Layer {
	stack := make([]*Layer, 0, int(kindCount))
	for k := LayerKind(0); k < kindCount; k++ {
		stack = append(stack, &Layer{Kind: k, ScaleX: 1, ScaleY: 1, Opacity: 1})
	}
	return stack
}

func settle(r *Renderer) {
	for i := 0; i < 300; i++ {
		r.Update(1.0 / 60.0)
	}
}

func TestOpacityBoundsAcrossYawSweep(t *testing.T) {
	r := New(512, 768, nil)
	r.SetLayers(allKindsStack())

	for yaw := -85.0; yaw <= 85.0; yaw += 5 {
		r.SetViewAngle(yaw, 0)
		settle(r)
		for _, l := range r.Layers() {
			if l.Opacity < 0 || l.Opacity > 1 {
				t.Fatalf("yaw %.0f: %v opacity = %v, out of [0,1]", yaw, l.Kind, l.Opacity)
			}
		}
	}
}

func TestViewAngleClamping(t *testing.T) {
	r := New(512, 768, nil)
	r.SetViewAngle(200, -90)
	settle(r)

	yaw, pitch := r.Angle()
	if yaw > MaxYaw+1e-6 {
		t.Errorf("yaw = %v, want clamped to %v", yaw, MaxYaw)
	}
	if pitch < -MaxPitch-1e-6 {
		t.Errorf("pitch = %v, want clamped to %v", pitch, -MaxPitch)
	}
}

func TestVisibilityFunctions(t *testing.T) {
	r := New(512, 768, nil)
	r.SetLayers(allKindsStack())

	find := func(k LayerKind) *Layer {
		for _, l := range r.Layers() {
			if l.Kind == k {
				return l
			}
		}
		t.Fatalf("kind %v missing", k)
		return nil
	}

	// Front view: ears vanish, mouth fully visible, no shadow.
	r.SetViewAngle(0, 0)
	settle(r)
	if got := find(Ears).Opacity; got > 0.01 {
		t.Errorf("front ears opacity = %v, want ~0", got)
	}
	if got := find(Mouth).Opacity; got < 0.99 {
		t.Errorf("front mouth opacity = %v, want ~1", got)
	}
	if got := find(FaceShadow).Opacity; got > 0.01 {
		t.Errorf("front shadow opacity = %v, want ~0", got)
	}

	// Near profile: ears strong, mouth floored at 0.5, shadow law.
	r.SetViewAngle(85, 0)
	settle(r)
	if got := find(Ears).Opacity; got < 0.9 {
		t.Errorf("profile ears opacity = %v, want near 85/90", got)
	}
	if got := find(Mouth).Opacity; stdmath.Abs(got-0.5) > 1e-6 {
		t.Errorf("profile mouth opacity = %v, want 0.5 floor", got)
	}
	yaw, _ := r.Angle()
	wantShadow := stdmath.Abs(yaw) / 90 * 0.4
	if got := find(FaceShadow).Opacity; stdmath.Abs(got-wantShadow) > 1e-6 {
		t.Errorf("profile shadow opacity = %v, want %v", got, wantShadow)
	}
}

func TestParallaxDirection(t *testing.T) {
	r := New(512, 768, nil)
	r.SetLayers(allKindsStack())
	r.SetViewAngle(40, 0)
	settle(r)

	var fg, bg *Layer
	for _, l := range r.Layers() {
		switch l.Kind {
		case ForegroundHair:
			fg = l
		case BackgroundHair:
			bg = l
		}
	}

	// Depth 0 means no parallax; the deepest layer shifts the most.
	if bg.OffsetX != 0 {
		t.Errorf("background hair offset = %v, want 0", bg.OffsetX)
	}
	if fg.OffsetX <= 0 {
		t.Errorf("foreground hair offset = %v, want positive at right yaw", fg.OffsetX)
	}
}

func TestExtractDefaultAndRender(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 64, 96))
	for y := 0; y < 96; y++ {
		for x := 0; x < 64; x++ {
			src.SetNRGBA(x, y, color.NRGBA{R: 200, G: 150, B: 130, A: 255})
		}
	}

	r := New(64, 96, nil)
	r.ExtractDefault(src)

	if got := len(r.Layers()); got != 6 {
		t.Fatalf("extracted %d layers, want 6", got)
	}

	r.SetViewAngle(30, 10)
	settle(r)
	frame := r.Render()

	if frame.Bounds().Dx() != 64 || frame.Bounds().Dy() != 96 {
		t.Fatalf("frame bounds = %v, want 64x96", frame.Bounds())
	}

	// The face base is opaque, so the center pixel must not be empty.
	if a := frame.NRGBAAt(32, 48).A; a == 0 {
		t.Error("center pixel fully transparent after composite")
	}
}

func TestIrisFollowsEyeDirection(t *testing.T) {
	r := New(512, 768, nil)
	r.SetLayers(allKindsStack())
	r.SetEyeDirection(1, 0)
	settle(r)

	for _, l := range r.Layers() {
		if l.Kind == EyesIris {
			if l.OffsetX <= 0 {
				t.Errorf("iris offset = %v, want positive for rightward look", l.OffsetX)
			}
			return
		}
	}
	t.Fatal("no iris layer")
}
