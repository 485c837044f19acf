package rig

import "fmt"

// Mask restricts which joints a pose write may affect. A nil Mask means
// unrestricted. Masks are installed on actions transiently by the layer
// that owns them, only for the duration of one interpolation call.
type Mask interface {
	// Contains reports whether the joint at the given index is affected.
	Contains(joint int) bool
}

// JointMask is a bitset Mask over joint indices.
type JointMask struct {
	bits []uint64
}

// NewJointMask creates a mask containing the given joint indices.
func NewJointMask(joints ...int) *JointMask {
	m := &JointMask{}
	m.Add(joints...)
	return m
}

// Add includes the given joint indices in the mask and returns the mask
// for chaining. Negative indices are ignored.
func (m *JointMask) Add(joints ...int) *JointMask {
	for _, j := range joints {
		if j < 0 {
			continue
		}
		word := j / 64
		for len(m.bits) <= word {
			m.bits = append(m.bits, 0)
		}
		m.bits[word] |= 1 << (j % 64)
	}
	return m
}

// Contains reports whether the joint index is in the mask.
func (m *JointMask) Contains(joint int) bool {
	if joint < 0 {
		return false
	}
	word := joint / 64
	if word >= len(m.bits) {
		return false
	}
	return m.bits[word]&(1<<(joint%64)) != 0
}

// MaskFromNames builds a mask from the named joints of a skeleton.
func MaskFromNames(sk *Skeleton, names ...string) (*JointMask, error) {
	m := &JointMask{}
	for _, name := range names {
		i := sk.JointIndex(name)
		if i < 0 {
			return nil, fmt.Errorf("rig: no joint named %q", name)
		}
		m.Add(i)
	}
	return m, nil
}

// MaskFromSubtree builds a mask containing the named joint and every
// joint beneath it. This is the usual way to scope a layer to one limb:
//
//	upper, _ := rig.MaskFromSubtree(sk, "spine")
//	composer.MakeLayer("UpperBody", upper)
func MaskFromSubtree(sk *Skeleton, root string) (*JointMask, error) {
	ri := sk.JointIndex(root)
	if ri < 0 {
		return nil, fmt.Errorf("rig: no joint named %q", root)
	}
	m := NewJointMask(ri)
	// Joints are parent-ordered, so one forward pass collects the subtree.
	in := make([]bool, sk.Len())
	in[ri] = true
	for i := ri + 1; i < sk.Len(); i++ {
		if p := sk.Joint(i).Parent; p >= 0 && in[p] {
			in[i] = true
			m.Add(i)
		}
	}
	return m, nil
}
