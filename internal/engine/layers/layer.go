// Package layers implements the 2.5D multi-angle renderer: a character
// portrait split into depth-tagged slices whose offset, scale,
// rotation and opacity follow the viewing angle, composited back to
// front with alpha blending.
package layers

import "image"

// LayerKind tags the semantic role of a layer. The kind selects the
// layer's depth, z-order and angle-dependent visibility.
type LayerKind int

const (
	BackgroundHair LayerKind = iota
	FaceBase
	FaceShadow
	EyesBase
	EyesIris
	EyesHighlight
	Eyebrows
	Nose
	Mouth
	Ears
	ForegroundHair
	Accessories
	Clothing

	kindCount
)

var kindNames = [kindCount]string{
	"background_hair", "face_base", "face_shadow",
	"eyes_base", "eyes_iris", "eyes_highlight",
	"eyebrows", "nose", "mouth", "ears",
	"foreground_hair", "accessories", "clothing",
}

func (k LayerKind) String() string {
	if k < 0 || k >= kindCount {
		return "unknown"
	}
	return kindNames[k]
}

// Depth returns the relative depth constant of the kind. Deeper layers
// (higher values) shift more with the viewing angle.
func (k LayerKind) Depth() float64 {
	switch k {
	case BackgroundHair:
		return 0.0
	case FaceBase:
		return 1.0
	case FaceShadow:
		return 1.1
	case EyesBase:
		return 2.0
	case EyesIris:
		return 2.5
	case EyesHighlight:
		return 3.0
	case Eyebrows:
		return 2.2
	case Nose:
		return 3.5
	case Mouth:
		return 2.8
	case Ears:
		return 0.5
	case ForegroundHair:
		return 5.0
	case Accessories:
		return 4.0
	case Clothing:
		return -1.0
	default:
		return 1.0
	}
}

// zOrder returns the compositing order of the kind, back first.
func (k LayerKind) zOrder() float64 {
	switch k {
	case BackgroundHair:
		return 0
	case Clothing:
		return 5
	case FaceBase:
		return 10
	case FaceShadow:
		return 11
	case Ears:
		return 12
	case EyesBase:
		return 20
	case EyesIris:
		return 21
	case EyesHighlight:
		return 22
	case Eyebrows:
		return 23
	case Nose:
		return 25
	case Mouth:
		return 28
	case Accessories:
		return 40
	case ForegroundHair:
		return 50
	default:
		return 10
	}
}

// Layer is one renderable depth slice. Texture and kind are fixed at
// extraction; the transform fields are recomputed every update.
type Layer struct {
	Kind    LayerKind
	Texture *image.NRGBA

	OffsetX  float64
	OffsetY  float64
	ScaleX   float64
	ScaleY   float64
	Rotation float64 // degrees
	Opacity  float64
}

// visibility returns the angle-dependent opacity of the kind given the
// front and side view factors. The shadow layer is special-cased in
// the renderer update.
func visibility(k LayerKind, front, side float64) float64 {
	switch k {
	case BackgroundHair, ForegroundHair, Clothing:
		return 1.0
	case FaceBase:
		return max2(0.3, front)
	case FaceShadow:
		return side * 0.6
	case EyesBase, EyesIris:
		return max2(0.2, front)
	case EyesHighlight:
		return front
	case Eyebrows:
		return max2(0.4, front)
	case Nose:
		return front*0.8 + side*0.4
	case Mouth:
		return max2(0.5, front)
	case Ears:
		return side
	case Accessories:
		return max2(0.6, front)
	default:
		return front
	}
}

func max2(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
