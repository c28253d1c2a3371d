// Package mesh builds the deformable character grid and maps skeletal
// motion and facial blend shapes onto its vertices.
package mesh

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Default grid extents in skeleton units. The humanoid rig stands at
// the origin and is about 1.8 units tall.
const (
	DefaultDensity = 10
	DefaultWidth   = 1.2
	DefaultHeight  = 1.8
)

// Mesh is a dense 2D vertex grid bound to a skeleton. Rest positions
// are fixed at build time; Positions holds the last deformed result.
type Mesh struct {
	Rest      []mgl64.Vec2
	Positions []mgl64.Vec2
	Triangles [][3]int
	UVs       []mgl64.Vec2

	// Per-vertex binding, fixed width 4 influences.
	Weights [][4]float64
	Indices [][4]int

	bindInv []mgl64.Mat4
	bound   bool

	// facialRadiusScale tightens the binding radius of facial bones
	// when face landmarks were supplied with the bind request.
	facialRadiusScale float64
}

// NewGrid builds a regular grid mesh of density cells per side,
// spanning x in [-width/2, width/2] and y in [0, height]. A density n
// yields (n+1)^2 vertices and 2n^2 triangles.
func NewGrid(density int, width, height float64) *Mesh {
	if density < 1 {
		density = DefaultDensity
	}
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}

	side := density + 1
	m := &Mesh{
		Rest:              make([]mgl64.Vec2, 0, side*side),
		UVs:               make([]mgl64.Vec2, 0, side*side),
		Triangles:         make([][3]int, 0, 2*density*density),
		facialRadiusScale: 1,
	}

	for row := 0; row < side; row++ {
		for col := 0; col < side; col++ {
			u := float64(col) / float64(density)
			v := float64(row) / float64(density)
			m.Rest = append(m.Rest, mgl64.Vec2{(u - 0.5) * width, (1 - v) * height})
			m.UVs = append(m.UVs, mgl64.Vec2{u, v})
		}
	}

	for row := 0; row < density; row++ {
		for col := 0; col < density; col++ {
			i := row*side + col
			m.Triangles = append(m.Triangles,
				[3]int{i, i + 1, i + side},
				[3]int{i + 1, i + side + 1, i + side})
		}
	}

	m.Positions = make([]mgl64.Vec2, len(m.Rest))
	copy(m.Positions, m.Rest)
	m.Weights = make([][4]float64, len(m.Rest))
	m.Indices = make([][4]int, len(m.Rest))
	return m
}

// VertexCount returns the number of vertices in the mesh.
func (m *Mesh) VertexCount() int { return len(m.Rest) }

// Bound reports whether Bind has been called.
func (m *Mesh) Bound() bool { return m.bound }
