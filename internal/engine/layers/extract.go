package layers

import (
	"image"
	"image/color"
	"image/draw"
	stdmath "math"
)

// ExtractDefault slices a character portrait into the default layer
// stack using fixed elliptical region masks. A real pipeline feeds
// segmentation masks from upstream; this fallback keeps the renderer
// working with nothing but a portrait.
func (r *Renderer) ExtractDefault(src image.Image) {
	img := toNRGBA(src)
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	var stack []*Layer

	add := func(kind LayerKind, tex *image.NRGBA) {
		stack = append(stack, &Layer{
			Kind:    kind,
			Texture: tex,
			ScaleX:  1,
			ScaleY:  1,
			Opacity: 1,
		})
	}

	add(FaceBase, img)

	// Background hair covers the crown, foreground hair the bangs.
	add(BackgroundHair, masked(img, ellipseMask(w, h, w/2, h/4, w/3, h/6)))
	add(ForegroundHair, masked(img, ellipseMask(w, h, w/2, h/3, w/4, h/8)))

	eyes := ellipseMask(w, h, w/3, h/3, w/12, h/20)
	orEllipse(eyes, 2*w/3, h/3, w/12, h/20)
	add(EyesBase, masked(img, eyes))

	add(Mouth, masked(img, ellipseMask(w, h, w/2, h*6/10, w/12, h/30)))

	shadow := &Layer{
		Kind:    FaceShadow,
		Texture: shadowTexture(w, h),
		ScaleX:  1,
		ScaleY:  1,
		Opacity: 0, // driven by yaw
	}
	stack = append(stack, shadow)

	r.SetLayers(stack)
}

func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

// ellipseMask returns an alpha mask with one filled ellipse.
func ellipseMask(w, h, cx, cy, rx, ry int) *image.Alpha {
	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	orEllipse(mask, cx, cy, rx, ry)
	return mask
}

// orEllipse fills an additional ellipse into an existing mask.
func orEllipse(mask *image.Alpha, cx, cy, rx, ry int) {
	if rx < 1 || ry < 1 {
		return
	}
	b := mask.Bounds()
	for y := cy - ry; y <= cy+ry; y++ {
		if y < b.Min.Y || y >= b.Max.Y {
			continue
		}
		for x := cx - rx; x <= cx+rx; x++ {
			if x < b.Min.X || x >= b.Max.X {
				continue
			}
			dx := float64(x-cx) / float64(rx)
			dy := float64(y-cy) / float64(ry)
			if dx*dx+dy*dy <= 1 {
				mask.SetAlpha(x, y, color.Alpha{A: 255})
			}
		}
	}
}

// masked copies the image with the mask as its alpha channel.
func masked(img *image.NRGBA, mask *image.Alpha) *image.NRGBA {
	b := img.Bounds()
	out := image.NewNRGBA(b)
	copy(out.Pix, img.Pix)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out.Pix[out.PixOffset(x, y)+3] = mask.AlphaAt(x, y).A
		}
	}
	return out
}

// shadowTexture builds a radial gradient used for the side shadow.
func shadowTexture(w, h int) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	cx, cy := float64(w)/2, float64(h)/2
	maxDist := stdmath.Hypot(cx, cy)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dist := stdmath.Hypot(float64(x)-cx, float64(y)-cy)
			a := (1 - dist/maxDist) * 0.3 * 255
			if a < 0 {
				a = 0
			}
			out.SetNRGBA(x, y, color.NRGBA{A: uint8(a)})
		}
	}
	return out
}
