package rig

import (
	stdmath "math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/animestudio/pkg/math"
)

func vecAlmostEqual(a, b mgl64.Vec3, eps float64) bool {
	for i := 0; i < 3; i++ {
		if stdmath.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}

func TestHumanoidBoneCount(t *testing.T) {
	s := NewHumanoid()

	// 5 spine + 2*(4 arm + 15 finger + 4 leg) bones.
	want := 5 + 2*(4+15+4)
	if s.Count() != want {
		t.Errorf("bone count = %d, want %d", s.Count(), want)
	}

	for _, name := range []string{
		"root", "spine", "chest", "neck", "head",
		"left_hand", "right_hand", "left_foot", "right_foot",
		"left_index_2", "right_pinky_0",
	} {
		if _, ok := s.BoneByName(name); !ok {
			t.Errorf("missing bone %q", name)
		}
	}
}

func TestSpineChainWorldPositions(t *testing.T) {
	// root -> spine(0.3) -> head(0.15), all rotations zero:
	// the head must sit at [0, 0.45, 0].
	s := New()
	s.AddBone("root", BoneRoot, "", 0)
	s.AddBone("spine", BoneSpine, "root", 0.3)
	s.AddBone("head", BoneFacial, "spine", 0.15)
	s.UpdateWorldTransforms()

	head := s.WorldPosition(s.Index("head"))
	if !vecAlmostEqual(head, mgl64.Vec3{0, 0.45, 0}, 1e-9) {
		t.Errorf("head world position = %v, want [0, 0.45, 0]", head)
	}
}

func TestHierarchyInvariant(t *testing.T) {
	s := NewHumanoid()
	s.ApplyPose("dancing", 1)
	// Converge onto the pose so rotations are non-trivial.
	for i := 0; i < 120; i++ {
		s.Update(1.0 / 60.0)
	}

	for i := 0; i < s.Count(); i++ {
		b := s.Bone(i)
		if b.Parent < 0 {
			continue
		}
		parentPos := s.WorldPosition(b.Parent)
		parentRot := math.EulerXYZ(splat3(s.WorldRotation(b.Parent)))
		want := parentPos.
			Add(parentRot.Mul3x1(mgl64.Vec3{0, b.Length, 0})).
			Add(parentRot.Mul3x1(b.LocalPosition))

		if !vecAlmostEqual(s.WorldPosition(i), want, 1e-9) {
			t.Errorf("bone %q violates hierarchy invariant: got %v, want %v",
				b.Name, s.WorldPosition(i), want)
		}
	}
}

func TestCachedWorldMatchesRecursive(t *testing.T) {
	s := NewHumanoid()
	s.ApplyPose("wave", 1)
	for i := 0; i < 60; i++ {
		s.Update(1.0 / 60.0)
	}

	for i := 0; i < s.Count(); i++ {
		b := s.Bone(i)
		if !vecAlmostEqual(b.WorldPosition(), s.WorldPosition(i), 1e-9) {
			t.Errorf("bone %q cached position %v != recursive %v",
				b.Name, b.WorldPosition(), s.WorldPosition(i))
		}
		if !vecAlmostEqual(b.WorldRotation(), s.WorldRotation(i), 1e-9) {
			t.Errorf("bone %q cached rotation %v != recursive %v",
				b.Name, b.WorldRotation(), s.WorldRotation(i))
		}
	}
}

func TestSkeletonNonDegenerate(t *testing.T) {
	// Regression guard for the bone-length-offset bug class: after one
	// transform refresh nearly every bone must be away from the origin.
	s := NewHumanoid()
	s.UpdateWorldTransforms()

	nonZero := 0
	for i := 0; i < s.Count(); i++ {
		if s.Bone(i).WorldPosition().Len() > 1e-6 {
			nonZero++
		}
	}
	if ratio := float64(nonZero) / float64(s.Count()); ratio < 0.9 {
		t.Errorf("only %.0f%% of bones away from origin, want >= 90%%", ratio*100)
	}
}

func TestBreathingOscillatesChest(t *testing.T) {
	s := NewHumanoid()
	s.EnableBreathing(true)

	varied := false
	for i := 0; i < 120; i++ {
		s.Update(1.0 / 60.0)
		chest, _ := s.BoneByName("chest")
		sy := chest.LocalScale[1]
		if sy < 0.97 || sy > 1.03 {
			t.Fatalf("chest scale %v outside breathing envelope", sy)
		}
		if stdmath.Abs(sy-1) > 1e-4 {
			varied = true
		}
	}
	if !varied {
		t.Error("breathing enabled but chest scale never moved")
	}

	s.EnableBreathing(false)
	chest, _ := s.BoneByName("chest")
	if chest.LocalScale[1] != 1 {
		t.Errorf("chest scale = %v after disabling breathing, want 1", chest.LocalScale[1])
	}
}

func TestSetBoneRotationUnknownIsNoop(t *testing.T) {
	s := NewHumanoid()
	before := s.Bone(0).TargetRotation
	s.SetBoneRotation("no_such_bone", 1, 2, 3)
	if s.Bone(0).TargetRotation != before {
		t.Error("unknown bone mutation leaked into skeleton")
	}
}
