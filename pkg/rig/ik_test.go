package rig

import (
	stdmath "math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/animestudio/pkg/math"
)

func TestSolveIKReachableTarget(t *testing.T) {
	s := NewHumanoid()
	chain, _ := s.Chain("right_arm")
	rootPos := s.WorldPosition(chain[0])

	// Comfortably inside the arm's total reach.
	target := rootPos.Add(mgl64.Vec3{0.3, 0.2, 0.1})
	positions := s.SolveIK("right_arm", target, DefaultIKIterations)
	if positions == nil {
		t.Fatal("solver returned no positions")
	}

	effector := positions[len(positions)-1]
	if dist := effector.Sub(target).Len(); dist > 1e-2 {
		t.Errorf("effector distance to target = %v, want <= 1e-2", dist)
	}
}

func TestSolveIKUnreachableTargetStretches(t *testing.T) {
	s := NewHumanoid()
	chain, _ := s.Chain("right_arm")
	rootPos := s.WorldPosition(chain[0])
	reach := s.ChainReach("right_arm")

	target := rootPos.Add(mgl64.Vec3{5, 0, 0})
	positions := s.SolveIK("right_arm", target, DefaultIKIterations)

	effector := positions[len(positions)-1]
	if dist := effector.Sub(rootPos).Len(); stdmath.Abs(dist-reach) > 1e-9 {
		t.Errorf("stretched effector at distance %v from root, want %v", dist, reach)
	}

	// Effector lies on the ray from the chain root to the target.
	dir, _ := math.SafeNormalize(target.Sub(rootPos))
	want := rootPos.Add(dir.Mul(reach))
	if !vecAlmostEqual(effector, want, 1e-9) {
		t.Errorf("effector = %v, want on-ray point %v", effector, want)
	}
}

func TestSolveIKSegmentLengthsPreserved(t *testing.T) {
	s := NewHumanoid()
	chain, _ := s.Chain("left_arm")
	rootPos := s.WorldPosition(chain[0])

	target := rootPos.Add(mgl64.Vec3{-0.2, 0.3, 0})
	positions := s.SolveIK("left_arm", target, DefaultIKIterations)

	for i := 0; i < len(positions)-1; i++ {
		wantLen := s.Bone(chain[i+1]).Length
		gotLen := positions[i+1].Sub(positions[i]).Len()
		if stdmath.Abs(gotLen-wantLen) > 1e-6 {
			t.Errorf("segment %d length = %v, want %v", i, gotLen, wantLen)
		}
	}
}

func TestSolveIKNeverProducesNaN(t *testing.T) {
	s := NewHumanoid()
	rng := rand.New(rand.NewSource(42))
	chain, _ := s.Chain("right_arm")

	check := func(target mgl64.Vec3) {
		t.Helper()
		positions := s.SolveIK("right_arm", target, DefaultIKIterations)
		for i, p := range positions {
			if !math.IsFinite(p) {
				t.Fatalf("non-finite joint %d = %v for target %v", i, p, target)
			}
		}
		for _, bi := range chain {
			if !math.IsFinite(s.Bone(bi).LocalRotation) {
				t.Fatalf("non-finite rotation on %q for target %v",
					s.Bone(bi).Name, target)
			}
		}
	}

	// Degenerate targets first: the origin and every joint position.
	check(mgl64.Vec3{})
	for _, bi := range chain {
		check(s.WorldPosition(bi))
	}

	for i := 0; i < 1000; i++ {
		check(mgl64.Vec3{
			rng.Float64()*4 - 2,
			rng.Float64()*4 - 2,
			rng.Float64()*4 - 2,
		})
	}
}

func TestSolveIKUnknownChainIsNoop(t *testing.T) {
	s := NewHumanoid()
	if got := s.SolveIK("tail", mgl64.Vec3{1, 1, 1}, 10); got != nil {
		t.Errorf("unknown chain returned positions: %v", got)
	}
}
