package rig

import (
	"fmt"
	"math"
)

// Joint is one bone in a Skeleton. Joints are value data; playback state
// (the current local transform) lives on the Skeleton.
type Joint struct {
	Name   string
	Parent int       // index of the parent joint, -1 for a root
	Rest   Transform // bind-pose local transform; the zero value is treated as IdentityTransform
}

// Skeleton is an ordered set of joints plus their current local pose and
// cached world matrices. Joints are ordered parents-first, so world
// transforms resolve in a single forward pass.
//
// A Skeleton is the pose target of a [Composer]: actions write joint
// transforms through a [Pose], the Composer applies them here.
type Skeleton struct {
	joints []Joint
	locals []Transform
	worlds [][6]float64
	byName map[string]int
}

// NewSkeleton builds a skeleton from the given joints. Every Parent index
// must be -1 or refer to an earlier joint; names must be unique and
// non-empty. The initial pose is the rest pose.
func NewSkeleton(joints ...Joint) (*Skeleton, error) {
	s := &Skeleton{
		joints: make([]Joint, len(joints)),
		locals: make([]Transform, len(joints)),
		worlds: make([][6]float64, len(joints)),
		byName: make(map[string]int, len(joints)),
	}
	copy(s.joints, joints)
	for i := range s.joints {
		j := &s.joints[i]
		if j.Name == "" {
			return nil, fmt.Errorf("rig: joint %d has an empty name", i)
		}
		if _, dup := s.byName[j.Name]; dup {
			return nil, fmt.Errorf("rig: duplicate joint name %q", j.Name)
		}
		if j.Parent < -1 || j.Parent >= i {
			return nil, fmt.Errorf("rig: joint %q has parent index %d; parents must precede children", j.Name, j.Parent)
		}
		if (j.Rest == Transform{}) {
			j.Rest = IdentityTransform
		}
		s.byName[j.Name] = i
		s.locals[i] = j.Rest
	}
	s.UpdateWorldTransforms()
	return s, nil
}

// Len returns the number of joints.
func (s *Skeleton) Len() int {
	return len(s.joints)
}

// Joint returns the joint at index i.
func (s *Skeleton) Joint(i int) Joint {
	return s.joints[i]
}

// Joints returns a copy of the joint list.
func (s *Skeleton) Joints() []Joint {
	out := make([]Joint, len(s.joints))
	copy(out, s.joints)
	return out
}

// JointIndex returns the index of the named joint, or -1 if no joint has
// that name.
func (s *Skeleton) JointIndex(name string) int {
	if i, ok := s.byName[name]; ok {
		return i
	}
	return -1
}

// LocalTransform returns joint i's current local transform.
func (s *Skeleton) LocalTransform(i int) Transform {
	return s.locals[i]
}

// SetLocalTransform sets joint i's current local transform. World matrices
// are not refreshed until the next UpdateWorldTransforms call.
func (s *Skeleton) SetLocalTransform(i int, tr Transform) {
	s.locals[i] = tr
}

// WorldTransform returns joint i's world affine matrix as computed by the
// last UpdateWorldTransforms call. Matrix layout: [a, b, c, d, tx, ty].
func (s *Skeleton) WorldTransform(i int) [6]float64 {
	return s.worlds[i]
}

// WorldPosition returns the world-space position of joint i's origin.
func (s *Skeleton) WorldPosition(i int) (x, y float64) {
	return s.worlds[i][4], s.worlds[i][5]
}

// WorldPoint maps a point in joint i's local space to world space.
// Useful for attaching visuals at an offset from a bone origin.
func (s *Skeleton) WorldPoint(i int, lx, ly float64) (x, y float64) {
	return transformPoint(s.worlds[i], lx, ly)
}

// UpdateWorldTransforms recomputes every joint's world matrix from the
// current local pose. Call after applying poses (Composer.Update does this
// automatically when a target skeleton is set).
func (s *Skeleton) UpdateWorldTransforms() {
	for i := range s.joints {
		local := computeLocalAffine(s.locals[i])
		if p := s.joints[i].Parent; p >= 0 {
			s.worlds[i] = multiplyAffine(s.worlds[p], local)
		} else {
			s.worlds[i] = local
		}
	}
}

// ResetToRest restores every joint's local transform to its rest pose and
// refreshes world matrices.
func (s *Skeleton) ResetToRest() {
	for i := range s.joints {
		s.locals[i] = s.joints[i].Rest
	}
	s.UpdateWorldTransforms()
}

// Clone returns an independent copy of the skeleton, including its current
// pose.
func (s *Skeleton) Clone() *Skeleton {
	c := &Skeleton{
		joints: make([]Joint, len(s.joints)),
		locals: make([]Transform, len(s.locals)),
		worlds: make([][6]float64, len(s.worlds)),
		byName: make(map[string]int, len(s.byName)),
	}
	copy(c.joints, s.joints)
	copy(c.locals, s.locals)
	copy(c.worlds, s.worlds)
	for name, i := range s.byName {
		c.byName[name] = i
	}
	return c
}

// --- Affine math ---

// identityAffine is the identity affine matrix.
var identityAffine = [6]float64{1, 0, 0, 1, 0, 0}

// computeLocalAffine builds the affine matrix for a TRS transform.
// Composition order: Scale -> Rotate -> Translate.
//
//	a = cos*sx   c = -sin*sy   tx = x
//	b = sin*sx   d =  cos*sy   ty = y
func computeLocalAffine(t Transform) [6]float64 {
	sin, cos := math.Sincos(t.Rotation)
	return [6]float64{
		cos * t.ScaleX,
		sin * t.ScaleX,
		-sin * t.ScaleY,
		cos * t.ScaleY,
		t.X,
		t.Y,
	}
}

// multiplyAffine multiplies two 2D affine matrices: result = parent * child.
//
//	Matrix layout: [a, b, c, d, tx, ty]
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
func multiplyAffine(p, c [6]float64) [6]float64 {
	return [6]float64{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// transformPoint applies an affine matrix to a point.
func transformPoint(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}
