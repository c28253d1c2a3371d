package rig

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
)

var fingerNames = []string{"thumb", "index", "middle", "ring", "pinky"}
var fingerLengths = []float64{0.05, 0.06, 0.065, 0.06, 0.05}

// NewHumanoid builds the fixed humanoid template: spine chain, two
// arms with fully articulated fingers (three joints each), two legs,
// and the standard IK chains for arms and legs.
func NewHumanoid() *Skeleton {
	s := New()

	// Spine chain.
	s.AddBone("root", BoneRoot, "", 0)
	s.AddBone("spine", BoneSpine, "root", 0.3)
	s.AddBone("chest", BoneSpine, "spine", 0.25)
	s.AddBone("neck", BoneSpine, "chest", 0.1)
	s.AddBone("head", BoneFacial, "neck", 0.15)

	// Arms hang from the chest with a lateral offset.
	for _, side := range []string{"left", "right"} {
		sign := 1.0
		if side == "left" {
			sign = -1.0
		}

		shoulder := s.AddBone(side+"_shoulder", BoneLimb, "chest", 0.05)
		s.bones[shoulder].LocalPosition = mgl64.Vec3{sign * 0.15, 0, 0}
		s.AddBone(side+"_upper_arm", BoneLimb, side+"_shoulder", 0.3)
		s.AddBone(side+"_forearm", BoneLimb, side+"_upper_arm", 0.25)
		s.AddBone(side+"_hand", BoneLimb, side+"_forearm", 0.1)

		// Three joints per finger, each a third of the finger length.
		for f, finger := range fingerNames {
			parent := side + "_hand"
			for j := 0; j < 3; j++ {
				name := fmt.Sprintf("%s_%s_%d", side, finger, j)
				s.AddBone(name, BoneFinger, parent, fingerLengths[f]/3)
				parent = name
			}
		}

		hip := s.AddBone(side+"_hip", BoneLimb, "root", 0.1)
		s.bones[hip].LocalPosition = mgl64.Vec3{sign * 0.08, 0, 0}
		s.AddBone(side+"_thigh", BoneLimb, side+"_hip", 0.4)
		s.AddBone(side+"_shin", BoneLimb, side+"_thigh", 0.4)
		s.AddBone(side+"_foot", BoneLimb, side+"_shin", 0.15)

		s.SetChain(side+"_arm", []string{
			side + "_shoulder", side + "_upper_arm", side + "_forearm", side + "_hand",
		})
		s.SetChain(side+"_leg", []string{
			side + "_hip", side + "_thigh", side + "_shin", side + "_foot",
		})
	}

	s.UpdateWorldTransforms()
	return s
}

// SetChain registers a named IK chain as an ordered list of bone
// names. Unknown bone names invalidate the chain and warn.
func (s *Skeleton) SetChain(name string, boneNames []string) {
	chain := make([]int, 0, len(boneNames))
	for _, bn := range boneNames {
		i, ok := s.byName[bn]
		if !ok {
			s.log.Warn("ik chain references unknown bone",
				zap.String("chain", name), zap.String("bone", bn))
			return
		}
		chain = append(chain, i)
	}
	s.chains[name] = chain
}

// Chain returns the bone indices of a named IK chain.
func (s *Skeleton) Chain(name string) ([]int, bool) {
	c, ok := s.chains[name]
	return c, ok
}

// ChainNames lists the registered IK chains, sorted.
func (s *Skeleton) ChainNames() []string {
	names := make([]string, 0, len(s.chains))
	for n := range s.chains {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
