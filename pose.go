package rig

import "log"

// Pose is a sparse buffer of per-joint transforms. Actions write into a
// Pose during interpolation; the Composer applies the touched entries to
// its target skeleton afterwards. Entries for joints no action touched
// stay unmarked and leave the skeleton untouched, which is how a finished
// track naturally holds its last applied pose.
type Pose struct {
	transforms []Transform
	touched    []bool
	filter     Mask
}

// NewPose creates a pose buffer with room for n joints. The buffer grows
// automatically when a higher joint index is written.
func NewPose(n int) *Pose {
	return &Pose{
		transforms: make([]Transform, n),
		touched:    make([]bool, n),
	}
}

// Len returns the number of joint slots currently allocated.
func (p *Pose) Len() int {
	return len(p.transforms)
}

// Clear unmarks every entry. Capacity is retained.
func (p *Pose) Clear() {
	for i := range p.touched {
		p.touched[i] = false
	}
}

// Set records a transform for the given joint, growing the buffer if
// needed. Writes rejected by the installed mask filter are dropped, which
// is how a layer's mask restricts an action to a subset of the skeleton.
// Negative joint indices are ignored.
func (p *Pose) Set(joint int, tr Transform) {
	if joint < 0 {
		return
	}
	if p.filter != nil && !p.filter.Contains(joint) {
		return
	}
	p.grow(joint + 1)
	p.transforms[joint] = tr
	p.touched[joint] = true
}

// Transform returns the recorded transform for a joint and whether one
// was written since the last Clear.
func (p *Pose) Transform(joint int) (Transform, bool) {
	if joint < 0 || joint >= len(p.transforms) || !p.touched[joint] {
		return Transform{}, false
	}
	return p.transforms[joint], true
}

// peek returns the buffered transform for a joint whether or not it was
// marked touched. Partial-channel tracks read their base values through
// this, modify the present channels, and write the result back.
func (p *Pose) peek(joint int) Transform {
	if joint < 0 || joint >= len(p.transforms) {
		return Transform{}
	}
	return p.transforms[joint]
}

// Seed copies the skeleton's current local transforms into the buffer as
// base values without marking any entry touched. Partial-channel tracks
// modify these bases. Composer.Update seeds its scratch pose from the
// target skeleton automatically; call this yourself only when sampling
// poses by hand.
func (p *Pose) Seed(sk *Skeleton) {
	n := sk.Len()
	p.grow(n)
	for i := 0; i < n; i++ {
		p.transforms[i] = sk.LocalTransform(i)
	}
}

// seedFrom copies another pose's buffered transforms in as base values
// without marking any entry touched. Blend buffers seed from the outer
// pose so partial-channel tracks resolve against the same bases while
// blending.
func (p *Pose) seedFrom(src *Pose) {
	n := len(src.transforms)
	p.grow(n)
	copy(p.transforms[:n], src.transforms)
}

// setFilter installs a write filter and returns the previous one.
func (p *Pose) setFilter(m Mask) Mask {
	prev := p.filter
	p.filter = m
	return prev
}

// pushFilter narrows the write filter to the intersection of the current
// filter and m, returning the previous filter for restoring. A nil m
// keeps the current filter, so nested actions without masks of their own
// inherit the restriction installed above them.
func (p *Pose) pushFilter(m Mask) Mask {
	prev := p.filter
	switch {
	case m == nil:
	case prev == nil:
		p.filter = m
	default:
		p.filter = maskPair{prev, m}
	}
	return prev
}

// maskPair is the intersection of two masks.
type maskPair struct {
	a, b Mask
}

func (m maskPair) Contains(joint int) bool {
	return m.a.Contains(joint) && m.b.Contains(joint)
}

// Mix writes the interpolation of poses a and b at weight w into p.
// Joints touched in both sources are lerped; joints touched in only one
// source copy through unblended. w=0 yields a, w=1 yields b.
func (p *Pose) Mix(a, b *Pose, w float64) {
	n := len(a.transforms)
	if len(b.transforms) > n {
		n = len(b.transforms)
	}
	for i := 0; i < n; i++ {
		ta, aok := a.Transform(i)
		tb, bok := b.Transform(i)
		switch {
		case aok && bok:
			p.Set(i, ta.Lerp(tb, w))
		case aok:
			p.Set(i, ta)
		case bok:
			p.Set(i, tb)
		}
	}
}

// ApplyTo copies every touched entry onto the skeleton's local
// transforms. Joints beyond the skeleton's range are skipped; in debug
// mode the skip logs a warning.
func (p *Pose) ApplyTo(sk *Skeleton) {
	n := sk.Len()
	for i, set := range p.touched {
		if !set {
			continue
		}
		if i >= n {
			if globalDebug {
				log.Printf("rig: pose joint %d out of range (skeleton has %d joints)", i, n)
			}
			continue
		}
		sk.SetLocalTransform(i, p.transforms[i])
	}
}

func (p *Pose) grow(n int) {
	for len(p.transforms) < n {
		p.transforms = append(p.transforms, Transform{})
		p.touched = append(p.touched, false)
	}
}
