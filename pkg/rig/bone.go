// Package rig implements a hierarchical skeletal animation system:
// a bone tree with forward-kinematics propagation, named pose
// application with per-frame smoothing, and a FABRIK inverse
// kinematics solver.
package rig

import (
	stdmath "math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/animestudio/pkg/math"
)

// BoneType identifies the semantic role of a bone in the hierarchy.
type BoneType int

const (
	BoneRoot BoneType = iota
	BoneSpine
	BoneLimb
	BoneFinger
	BoneFacial
)

// String returns the bone type name.
func (t BoneType) String() string {
	switch t {
	case BoneRoot:
		return "root"
	case BoneSpine:
		return "spine"
	case BoneLimb:
		return "limb"
	case BoneFinger:
		return "finger"
	case BoneFacial:
		return "facial"
	default:
		return "unknown"
	}
}

// Bone is a node in the skeleton's transform tree. Bones are owned by
// the Skeleton arena; Parent and Children are arena indices, never
// pointers.
type Bone struct {
	Name string
	Type BoneType

	Parent   int // -1 for the root
	Children []int

	// Length is the fixed rest distance along the local +Y axis to
	// the next joint.
	Length float64

	LocalPosition mgl64.Vec3
	LocalRotation mgl64.Vec3 // Euler XYZ, radians
	LocalScale    mgl64.Vec3

	// TargetRotation is the goal the bone smooths toward each frame.
	TargetRotation mgl64.Vec3
	RotationSpeed  float64

	// Per-axis rotation limits in radians.
	MinAngle mgl64.Vec3
	MaxAngle mgl64.Vec3

	// World transform cache, valid after UpdateWorldTransforms for
	// the remainder of the frame.
	worldPosition mgl64.Vec3
	worldRotation mgl64.Vec3
}

// defaultRotationSpeed matches the smoothing rate used across the
// humanoid template.
const defaultRotationSpeed = 5.0

func newBone(name string, typ BoneType, parent int, length float64) Bone {
	limit := stdmath.Pi
	return Bone{
		Name:          name,
		Type:          typ,
		Parent:        parent,
		Length:        length,
		LocalScale:    mgl64.Vec3{1, 1, 1},
		RotationSpeed: defaultRotationSpeed,
		MinAngle:      mgl64.Vec3{-limit, -limit, -limit},
		MaxAngle:      mgl64.Vec3{limit, limit, limit},
	}
}

// WorldPosition returns the cached world position. Valid after the
// skeleton's UpdateWorldTransforms call for the current frame.
func (b *Bone) WorldPosition() mgl64.Vec3 { return b.worldPosition }

// WorldRotation returns the cached world rotation (Euler XYZ, radians).
func (b *Bone) WorldRotation() mgl64.Vec3 { return b.worldRotation }

// rotateToward advances the local rotation toward the target at
// RotationSpeed per second, clamping each axis to its limits. The step
// factor never exceeds 1 so the rotation cannot overshoot the target.
func (b *Bone) rotateToward(dt float64) {
	step := math.Clamp01(b.RotationSpeed * dt)
	for i := 0; i < 3; i++ {
		r := math.Lerp(b.LocalRotation[i], b.TargetRotation[i], step)
		b.LocalRotation[i] = math.Clamp(r, b.MinAngle[i], b.MaxAngle[i])
	}
}
