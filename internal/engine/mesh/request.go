package mesh

import (
	stdmath "math"

	"go.uber.org/zap"

	"github.com/go-gl/mathgl/mgl64"
)

// BindRequest carries mesh data from an upstream feature extraction
// stage. Every field is optional; missing or malformed fields fall
// back to the defaults so the pipeline always has a mesh to draw.
type BindRequest struct {
	// Vertices replaces the generated grid when non-empty.
	Vertices []mgl64.Vec2

	// Landmarks are named feature groups (face, hands, pose) used to
	// tune binding radii. Unknown group names are ignored.
	Landmarks map[string][]mgl64.Vec2

	Density         int
	Width, Height   float64
	InfluenceRadius float64
}

// DefaultInfluenceRadius is the bone to vertex binding radius in
// skeleton units.
const DefaultInfluenceRadius = 0.3

// withDefaults validates the request and fills in fallback values.
func (r BindRequest) withDefaults() BindRequest {
	if r.Density < 1 {
		r.Density = DefaultDensity
	}
	if r.Width <= 0 {
		r.Width = DefaultWidth
	}
	if r.Height <= 0 {
		r.Height = DefaultHeight
	}
	if r.InfluenceRadius <= 0 {
		r.InfluenceRadius = DefaultInfluenceRadius
	}
	for _, v := range r.Vertices {
		bad := stdmath.IsNaN(v.X()) || stdmath.IsNaN(v.Y()) ||
			stdmath.IsInf(v.X(), 0) || stdmath.IsInf(v.Y(), 0)
		if bad {
			r.Vertices = nil
			break
		}
	}
	return r
}

// FromRequest builds a mesh from an external bind request. Custom
// vertices are used verbatim when present (with degenerate input
// discarded by withDefaults); otherwise a regular grid is generated.
func FromRequest(req BindRequest, log *zap.Logger) *Mesh {
	if log == nil {
		log = zap.NewNop()
	}
	req = req.withDefaults()

	// Face landmarks tell us the facial region is well localized, so
	// facial bones bind with a tighter radius.
	facialScale := 1.0
	if len(req.Landmarks["face"]) > 0 {
		facialScale = 0.5
	}

	if len(req.Vertices) > 0 {
		m := &Mesh{
			Rest:              append([]mgl64.Vec2(nil), req.Vertices...),
			Positions:         append([]mgl64.Vec2(nil), req.Vertices...),
			UVs:               make([]mgl64.Vec2, len(req.Vertices)),
			Weights:           make([][4]float64, len(req.Vertices)),
			Indices:           make([][4]int, len(req.Vertices)),
			facialRadiusScale: facialScale,
		}
		for i, v := range req.Vertices {
			m.UVs[i] = mgl64.Vec2{
				v.X()/req.Width + 0.5,
				1 - v.Y()/req.Height,
			}
		}
		log.Debug("mesh built from vertex cloud", zap.Int("vertices", len(req.Vertices)))
		return m
	}

	log.Debug("mesh built from default grid", zap.Int("density", req.Density))
	m := NewGrid(req.Density, req.Width, req.Height)
	m.facialRadiusScale = facialScale
	return m
}
