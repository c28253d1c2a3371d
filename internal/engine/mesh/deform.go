package mesh

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/animestudio/pkg/face"
	"github.com/Faultbox/animestudio/pkg/rig"
)

// negligibleWeight skips influences and blend shapes that contribute
// nothing visible.
const negligibleWeight = 0.001

// Deform recomputes vertex positions from the skeleton's current
// world transforms, then adds active blend shape deltas on top. The
// skeletal and facial passes are independent and additive. An unbound
// mesh, or a vertex with all-zero weights, stays at rest.
//
// The result is stored in Positions and returned.
func (m *Mesh) Deform(s *rig.Skeleton, anim *face.Animator) []mgl64.Vec2 {
	copy(m.Positions, m.Rest)

	if m.bound {
		mats := s.BoneMatrices()
		for vi, rest := range m.Rest {
			total := 0.0
			for _, w := range m.Weights[vi] {
				total += w
			}
			if total < negligibleWeight {
				continue
			}

			v4 := mgl64.Vec4{rest.X(), rest.Y(), 0, 1}
			var acc mgl64.Vec4
			used := 0.0
			for j := 0; j < 4; j++ {
				w := m.Weights[vi][j]
				if w < negligibleWeight {
					continue
				}
				bi := m.Indices[vi][j]
				if bi < 0 || bi >= len(mats) || bi >= len(m.bindInv) {
					continue
				}
				skinned := mats[bi].Mul4(m.bindInv[bi]).Mul4x1(v4)
				acc = acc.Add(skinned.Mul(w))
				used += w
			}
			if used < negligibleWeight {
				continue
			}
			// Renormalize over the influences that actually applied so
			// skipped near-zero weights do not shrink the vertex.
			m.Positions[vi] = mgl64.Vec2{acc.X() / used, acc.Y() / used}
		}
	}

	if anim != nil {
		for _, sh := range anim.ActiveShapes(negligibleWeight) {
			if len(sh.Deltas) != len(m.Positions) {
				continue
			}
			for vi := range m.Positions {
				d := sh.Deltas[vi]
				m.Positions[vi] = m.Positions[vi].Add(
					mgl64.Vec2{d[0] * sh.Weight, d[1] * sh.Weight})
			}
		}
	}

	return m.Positions
}
