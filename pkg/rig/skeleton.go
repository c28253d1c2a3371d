package rig

import (
	stdmath "math"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/Faultbox/animestudio/pkg/math"
)

// Skeleton owns the bone hierarchy as a flat arena plus a name index.
// It is built once at startup and then only retargeted; bones are
// never added or removed after construction.
//
// A Skeleton is not safe for concurrent use. All mutation must happen
// on the thread that drives Update.
type Skeleton struct {
	bones  []Bone
	byName map[string]int
	root   int

	chains map[string][]int
	poses  map[string]Pose

	time      float64
	breathing bool

	log *zap.Logger
}

// New returns an empty skeleton. Bones are added with AddBone during
// construction; the first bone added becomes the root.
func New() *Skeleton {
	return &Skeleton{
		byName: make(map[string]int),
		root:   -1,
		chains: make(map[string][]int),
		poses:  DefaultPoses(),
		log:    zap.NewNop(),
	}
}

// SetLogger replaces the no-op logger used for warnings.
func (s *Skeleton) SetLogger(log *zap.Logger) {
	if log != nil {
		s.log = log
	}
}

// AddBone appends a bone during construction and returns its index.
// parent is the parent bone name; it must already exist unless this is
// the first bone.
func (s *Skeleton) AddBone(name string, typ BoneType, parent string, length float64) int {
	idx := len(s.bones)
	parentIdx := -1
	if parent != "" {
		pi, ok := s.byName[parent]
		if !ok {
			s.log.Warn("unknown parent bone, attaching to root",
				zap.String("bone", name), zap.String("parent", parent))
			pi = s.root
		}
		parentIdx = pi
	}

	s.bones = append(s.bones, newBone(name, typ, parentIdx, length))
	s.byName[name] = idx
	if parentIdx >= 0 {
		s.bones[parentIdx].Children = append(s.bones[parentIdx].Children, idx)
	} else if s.root < 0 {
		s.root = idx
	}
	return idx
}

// Count returns the number of bones.
func (s *Skeleton) Count() int { return len(s.bones) }

// Bone returns the bone at index i.
func (s *Skeleton) Bone(i int) *Bone { return &s.bones[i] }

// BoneByName looks a bone up by name.
func (s *Skeleton) BoneByName(name string) (*Bone, bool) {
	i, ok := s.byName[name]
	if !ok {
		return nil, false
	}
	return &s.bones[i], true
}

// Index returns the arena index of a named bone, or -1.
func (s *Skeleton) Index(name string) int {
	i, ok := s.byName[name]
	if !ok {
		return -1
	}
	return i
}

// Names returns all bone names in arena order.
func (s *Skeleton) Names() []string {
	names := make([]string, len(s.bones))
	for i := range s.bones {
		names[i] = s.bones[i].Name
	}
	return names
}

// WorldPosition computes the world position of bone i by recursing to
// the root. This is the source of truth; the per-frame cache written
// by UpdateWorldTransforms is an optimization over it.
//
// For a non-root bone the position is
//
//	parent world position
//	  + parent world rotation applied to [0, length, 0]
//	  + parent world rotation applied to the local position offset
//
// The bone-length term is what keeps the chain from collapsing to the
// origin.
func (s *Skeleton) WorldPosition(i int) mgl64.Vec3 {
	b := &s.bones[i]
	if b.Parent < 0 {
		return b.LocalPosition
	}

	parentPos := s.WorldPosition(b.Parent)
	parentRot := math.EulerXYZ(splat3(s.WorldRotation(b.Parent)))

	boneDir := parentRot.Mul3x1(mgl64.Vec3{0, b.Length, 0})
	localOff := parentRot.Mul3x1(b.LocalPosition)

	return parentPos.Add(boneDir).Add(localOff)
}

// WorldRotation computes the world rotation of bone i as the sum of
// Euler rotations along the ancestor chain.
func (s *Skeleton) WorldRotation(i int) mgl64.Vec3 {
	b := &s.bones[i]
	if b.Parent < 0 {
		return b.LocalRotation
	}
	return s.WorldRotation(b.Parent).Add(b.LocalRotation)
}

// UpdateWorldTransforms refreshes every bone's cached world transform
// with one depth-first walk from the root.
func (s *Skeleton) UpdateWorldTransforms() {
	if s.root < 0 {
		return
	}
	s.updateWorldFrom(s.root)
}

func (s *Skeleton) updateWorldFrom(i int) {
	b := &s.bones[i]
	if b.Parent < 0 {
		b.worldPosition = b.LocalPosition
		b.worldRotation = b.LocalRotation
	} else {
		p := &s.bones[b.Parent]
		parentRot := math.EulerXYZ(splat3(p.worldRotation))
		boneDir := parentRot.Mul3x1(mgl64.Vec3{0, b.Length, 0})
		localOff := parentRot.Mul3x1(b.LocalPosition)
		b.worldPosition = p.worldPosition.Add(boneDir).Add(localOff)
		b.worldRotation = p.worldRotation.Add(b.LocalRotation)
	}
	for _, c := range b.Children {
		s.updateWorldFrom(c)
	}
}

// BoneMatrices returns the world transform matrix (T * R * S) of every
// bone, indexed by arena index. Call after UpdateWorldTransforms.
func (s *Skeleton) BoneMatrices() []mgl64.Mat4 {
	out := make([]mgl64.Mat4, len(s.bones))
	for i := range s.bones {
		b := &s.bones[i]
		out[i] = math.TRS(b.worldPosition, b.worldRotation, b.LocalScale)
	}
	return out
}

// SetBoneRotation sets the target rotation of a named bone in radians.
// Unknown bones warn and do nothing.
func (s *Skeleton) SetBoneRotation(name string, x, y, z float64) {
	b, ok := s.BoneByName(name)
	if !ok {
		s.log.Warn("unknown bone", zap.String("bone", name))
		return
	}
	b.TargetRotation = mgl64.Vec3{x, y, z}
}

// SetRotationSpeed sets the target-approach speed of every bone, in
// units of fraction-per-second. Non-positive speeds are ignored.
func (s *Skeleton) SetRotationSpeed(speed float64) {
	if speed <= 0 {
		return
	}
	for i := range s.bones {
		s.bones[i].RotationSpeed = speed
	}
}

// EnableBreathing toggles the additive idle oscillation on the chest
// and head.
func (s *Skeleton) EnableBreathing(enabled bool) {
	s.breathing = enabled
	if !enabled {
		if b, ok := s.BoneByName("chest"); ok {
			b.LocalScale[1] = 1
		}
	}
}

// Breathing reports whether the idle oscillation is active.
func (s *Skeleton) Breathing() bool { return s.breathing }

// Update advances the animation clock, smooths every bone toward its
// target, applies the idle oscillations and refreshes the world
// transform cache.
func (s *Skeleton) Update(dt float64) {
	s.time += dt

	for i := range s.bones {
		s.bones[i].rotateToward(dt)
	}

	if s.breathing {
		if b, ok := s.BoneByName("chest"); ok {
			b.LocalScale[1] = 1 + 0.02*stdmath.Sin(s.time*2)
		}
		if b, ok := s.BoneByName("head"); ok {
			b.LocalRotation[2] = 0.01 * stdmath.Sin(s.time*1.5)
		}
	}

	s.UpdateWorldTransforms()
}

// Time returns the accumulated animation time in seconds.
func (s *Skeleton) Time() float64 { return s.time }

func splat3(v mgl64.Vec3) (float64, float64, float64) {
	return v[0], v[1], v[2]
}
