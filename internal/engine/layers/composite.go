package layers

import (
	"image"
	stdmath "math"
	"sort"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// Render composites the layer stack into a fresh output buffer. Layers
// are drawn back to front in z-order with the standard alpha over
// operator, each transformed scale, then rotate, then translate.
func (r *Renderer) Render() *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, r.width, r.height))

	stack := make([]*Layer, len(r.layers))
	copy(stack, r.layers)
	sort.SliceStable(stack, func(a, b int) bool {
		return stack[a].Kind.zOrder() < stack[b].Kind.zOrder()
	})

	for _, l := range stack {
		if l.Texture == nil || l.Opacity <= 0.01 {
			continue
		}
		tex := l.Texture
		if l.Opacity < 1 {
			tex = fadeAlpha(tex, l.Opacity)
		}
		xdraw.ApproxBiLinear.Transform(out, r.layerAffine(l, tex), tex, tex.Bounds(), xdraw.Over, nil)
	}

	return out
}

// layerAffine builds the src-to-dst matrix placing the texture center
// at the output center plus the layer's parallax offset.
func (r *Renderer) layerAffine(l *Layer, tex *image.NRGBA) f64.Aff3 {
	tb := tex.Bounds()
	srcCX := float64(tb.Min.X+tb.Max.X) / 2
	srcCY := float64(tb.Min.Y+tb.Max.Y) / 2
	dstCX := float64(r.width)/2 + l.OffsetX
	dstCY := float64(r.height)/2 + l.OffsetY

	theta := l.Rotation * stdmath.Pi / 180
	cos, sin := stdmath.Cos(theta), stdmath.Sin(theta)

	a := cos * l.ScaleX
	b := -sin * l.ScaleY
	d := sin * l.ScaleX
	e := cos * l.ScaleY

	return f64.Aff3{
		a, b, dstCX - a*srcCX - b*srcCY,
		d, e, dstCY - d*srcCX - e*srcCY,
	}
}

// fadeAlpha returns a copy of the texture with its alpha channel
// scaled by opacity.
func fadeAlpha(src *image.NRGBA, opacity float64) *image.NRGBA {
	out := image.NewNRGBA(src.Bounds())
	copy(out.Pix, src.Pix)
	for i := 3; i < len(out.Pix); i += 4 {
		out.Pix[i] = uint8(float64(out.Pix[i]) * opacity)
	}
	return out
}
