package rig

import (
	stdmath "math"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/Faultbox/animestudio/pkg/math"
)

// minSegmentLength replaces degenerate inter-joint distances so the
// solver never divides by zero.
const minSegmentLength = 0.1

// DefaultIKIterations is the FABRIK iteration budget used when the
// caller passes a non-positive count. A heuristic, not a convergence
// guarantee.
const DefaultIKIterations = 10

// SolveIK runs FABRIK on a named chain toward a world-space target and
// returns the solved joint positions. Unreachable targets stretch the
// chain in a straight line toward the target instead of failing. The
// solver is guarded against degenerate geometry everywhere and never
// produces NaN.
//
// Bone rotations are updated to aim each joint at its successor; the
// returned positions are the solver's authoritative output.
func (s *Skeleton) SolveIK(chainName string, target mgl64.Vec3, iterations int) []mgl64.Vec3 {
	chain, ok := s.chains[chainName]
	if !ok {
		s.log.Warn("unknown ik chain", zap.String("chain", chainName))
		return nil
	}
	if len(chain) < 2 {
		return nil
	}
	if iterations <= 0 {
		iterations = DefaultIKIterations
	}

	// Snapshot world positions and segment lengths.
	positions := make([]mgl64.Vec3, len(chain))
	for i, bi := range chain {
		positions[i] = s.WorldPosition(bi)
	}
	distances := make([]float64, len(chain)-1)
	total := 0.0
	for i := range distances {
		d := positions[i+1].Sub(positions[i]).Len()
		if d < math.Epsilon {
			d = minSegmentLength
		}
		distances[i] = d
		total += d
	}

	rootPos := positions[0]
	targetDist := target.Sub(rootPos).Len()

	if targetDist > total {
		// Out of reach: stretch straight toward the target.
		if dir, ok := math.SafeNormalize(target.Sub(rootPos)); ok {
			for i := 1; i < len(positions); i++ {
				positions[i] = positions[i-1].Add(dir.Mul(distances[i-1]))
			}
		}
	} else {
		for it := 0; it < iterations; it++ {
			// Backward pass: pin the effector to the target and walk
			// toward the root re-enforcing segment lengths.
			positions[len(positions)-1] = target
			for i := len(positions) - 2; i >= 0; i-- {
				dir, ok := math.SafeNormalize(positions[i].Sub(positions[i+1]))
				if !ok {
					continue
				}
				positions[i] = positions[i+1].Add(dir.Mul(distances[i]))
			}

			// Forward pass: re-pin the root and walk outward.
			positions[0] = rootPos
			for i := 0; i < len(positions)-1; i++ {
				dir, ok := math.SafeNormalize(positions[i+1].Sub(positions[i]))
				if !ok {
					continue
				}
				positions[i+1] = positions[i].Add(dir.Mul(distances[i]))
			}
		}
	}

	// Convert solved joint positions back into bone rotations: each
	// bone points at its successor.
	for i := 0; i < len(chain)-1; i++ {
		dir, ok := math.SafeNormalize(positions[i+1].Sub(positions[i]))
		if !ok {
			continue
		}
		pitch := stdmath.Asin(math.Clamp(-dir.Y(), -1, 1))
		yaw := stdmath.Atan2(dir.X(), dir.Z())
		s.bones[chain[i]].LocalRotation = mgl64.Vec3{pitch, yaw, 0}
	}

	return positions
}

// ChainReach returns the summed segment lengths of a chain at its
// current world configuration.
func (s *Skeleton) ChainReach(chainName string) float64 {
	chain, ok := s.chains[chainName]
	if !ok || len(chain) < 2 {
		return 0
	}
	total := 0.0
	prev := s.WorldPosition(chain[0])
	for _, bi := range chain[1:] {
		p := s.WorldPosition(bi)
		d := p.Sub(prev).Len()
		if d < math.Epsilon {
			d = minSegmentLength
		}
		total += d
		prev = p
	}
	return total
}

// ChainEffectorPosition returns the current world position of the last
// bone in a chain.
func (s *Skeleton) ChainEffectorPosition(chainName string) (mgl64.Vec3, bool) {
	chain, ok := s.chains[chainName]
	if !ok || len(chain) == 0 {
		return mgl64.Vec3{}, false
	}
	return s.WorldPosition(chain[len(chain)-1]), true
}
