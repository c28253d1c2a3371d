package rig

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/Faultbox/animestudio/pkg/math"
)

// Pose is a sparse mapping of bone name to target Euler rotation in
// degrees. Poses are immutable template data; applying one copies the
// scaled rotations into the live skeleton's targets.
type Pose map[string][3]float64

// DefaultPoses returns the built-in pose library.
func DefaultPoses() map[string]Pose {
	return map[string]Pose{
		"idle": {
			"spine":          {0, 0, 0},
			"chest":          {0, 0, 0},
			"head":           {0, 0, 0},
			"left_shoulder":  {0, 0, -10},
			"right_shoulder": {0, 0, 10},
		},
		"wave": {
			"right_shoulder":  {0, 0, 45},
			"right_upper_arm": {0, 0, -90},
			"right_forearm":   {0, 0, -30},
			"right_hand":      {0, 0, 20},
		},
		"peace_sign": {
			"right_shoulder":  {0, 0, 30},
			"right_upper_arm": {0, 0, -60},
			"right_forearm":   {0, 0, -45},
			"right_index_0":   {0, 0, -30},
			"right_middle_0":  {0, 0, -30},
			"right_ring_0":    {0, 0, 60},
			"right_pinky_0":   {0, 0, 60},
			"right_thumb_0":   {0, 0, 45},
		},
		"thinking": {
			"head":            {15, 0, 0},
			"right_shoulder":  {0, 0, 15},
			"right_upper_arm": {0, 45, -45},
			"right_forearm":   {0, 0, -90},
			"right_hand":      {0, 0, 0},
		},
		"crossed_arms": {
			"left_shoulder":   {0, 0, -20},
			"left_upper_arm":  {0, 45, -45},
			"left_forearm":    {0, 0, -60},
			"right_shoulder":  {0, 0, 20},
			"right_upper_arm": {0, -45, 45},
			"right_forearm":   {0, 0, 60},
		},
		"dancing": {
			"spine":           {0, 15, 0},
			"chest":           {0, -10, 0},
			"head":            {0, 5, 0},
			"left_shoulder":   {0, 0, -30},
			"left_upper_arm":  {0, 30, -60},
			"right_shoulder":  {0, 0, 30},
			"right_upper_arm": {0, -30, 60},
		},
		"pointing": {
			"right_shoulder":  {0, 0, 20},
			"right_upper_arm": {0, 0, -80},
			"right_forearm":   {0, 0, -10},
			"right_index_0":   {0, 0, 0},
			"right_middle_0":  {0, 0, 60},
			"right_ring_0":    {0, 0, 60},
			"right_pinky_0":   {0, 0, 60},
			"right_thumb_0":   {0, 0, 30},
		},
	}
}

// gestures maps gesture names onto pose templates. Gestures that move
// a single bone target (nod) are handled directly in TriggerGesture.
var gestures = map[string]string{
	"wave":  "wave",
	"peace": "peace_sign",
	"think": "thinking",
	"dance": "dancing",
	"point": "pointing",
}

// nodPitch is the head tilt applied by the nod gesture, in radians.
const nodPitch = 0.25

// ApplyPose sets the target rotations for every bone listed in the
// named pose, converted to radians and scaled by weight. Bones the
// pose does not list keep their previous targets: poses are sparse
// overrides, and ResetPose exists for an explicit return to rest.
// Unknown pose names warn and do nothing.
func (s *Skeleton) ApplyPose(name string, weight float64) {
	pose, ok := s.poses[name]
	if !ok {
		s.log.Warn("unknown pose", zap.String("pose", name))
		return
	}

	for boneName, deg := range pose {
		b, ok := s.BoneByName(boneName)
		if !ok {
			s.log.Warn("pose references unknown bone",
				zap.String("pose", name), zap.String("bone", boneName))
			continue
		}
		b.TargetRotation = mgl64.Vec3{
			math.Deg2Rad(deg[0]) * weight,
			math.Deg2Rad(deg[1]) * weight,
			math.Deg2Rad(deg[2]) * weight,
		}
	}
}

// ResetPose returns every bone's target rotation to rest.
func (s *Skeleton) ResetPose() {
	for i := range s.bones {
		s.bones[i].TargetRotation = mgl64.Vec3{}
	}
}

// TriggerGesture applies the pose mapped to a gesture name. Unknown
// gestures warn and do nothing.
func (s *Skeleton) TriggerGesture(name string) {
	if name == "nod" {
		s.SetBoneRotation("head", nodPitch, 0, 0)
		return
	}
	pose, ok := gestures[name]
	if !ok {
		s.log.Warn("unknown gesture", zap.String("gesture", name))
		return
	}
	s.ApplyPose(pose, 1)
}

// PoseNames lists the available poses, sorted.
func (s *Skeleton) PoseNames() []string {
	names := make([]string, 0, len(s.poses))
	for n := range s.poses {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// HasPose reports whether a named pose exists.
func (s *Skeleton) HasPose(name string) bool {
	_, ok := s.poses[name]
	return ok
}

// PoseBones returns the bone names a pose drives, sorted.
func (s *Skeleton) PoseBones(name string) []string {
	pose, ok := s.poses[name]
	if !ok {
		return nil
	}
	bones := make([]string, 0, len(pose))
	for bn := range pose {
		bones = append(bones, bn)
	}
	sort.Strings(bones)
	return bones
}
