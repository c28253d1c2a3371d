package mesh

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/animestudio/pkg/rig"
)

type influence struct {
	weight float64
	bone   int
}

// Bind computes per-vertex bone weights from rest-pose proximity and
// stores the inverse bind matrices, so a rest-pose skeleton deforms
// the mesh to itself. Call once, with the skeleton in its rest pose.
//
// Each vertex takes its 4 nearest bones within radius, weighted
// 1 - distance/radius and normalized to sum to 1. A vertex outside
// every bone's radius keeps all-zero weights and falls back to its
// rest position during Deform.
func (m *Mesh) Bind(s *rig.Skeleton, radius float64) {
	if radius <= 0 {
		radius = DefaultInfluenceRadius
	}

	s.UpdateWorldTransforms()
	mats := s.BoneMatrices()
	m.bindInv = make([]mgl64.Mat4, len(mats))
	for i, mat := range mats {
		m.bindInv[i] = mat.Inv()
	}

	type boneRef struct {
		pos    mgl64.Vec2
		radius float64
	}
	bones := make([]boneRef, s.Count())
	for i := 0; i < s.Count(); i++ {
		wp := s.WorldPosition(i)
		r := radius
		if s.Bone(i).Type == rig.BoneFacial {
			r *= m.facialRadiusScale
		}
		bones[i] = boneRef{pos: mgl64.Vec2{wp.X(), wp.Y()}, radius: r}
	}

	scratch := make([]influence, 0, len(bones))
	for vi, v := range m.Rest {
		scratch = scratch[:0]
		for bi, b := range bones {
			d := v.Sub(b.pos).Len()
			if d < b.radius {
				scratch = append(scratch, influence{weight: 1 - d/b.radius, bone: bi})
			}
		}

		sort.Slice(scratch, func(a, b int) bool {
			return scratch[a].weight > scratch[b].weight
		})
		if len(scratch) > 4 {
			scratch = scratch[:4]
		}

		var weights [4]float64
		var indices [4]int
		total := 0.0
		for _, inf := range scratch {
			total += inf.weight
		}
		if total > 0 {
			for j, inf := range scratch {
				weights[j] = inf.weight / total
				indices[j] = inf.bone
			}
		}
		m.Weights[vi] = weights
		m.Indices[vi] = indices
	}

	m.bound = true
}
