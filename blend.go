package rig

// Blendable is the capability an action needs to join a [BlendAction]:
// besides the Action surface it can evaluate its pose at a time without
// the running-state bookkeeping. [ClipAction] and [BlendAction] are
// Blendable; [BaseAction] is not, since an arbitrary tween has no
// isolated pose to hand over.
type Blendable interface {
	Action

	// SamplePose evaluates the action's pose at time t into dst.
	SamplePose(t float64, dst *Pose)
}

// BlendSpace maps a control value onto a pair of a [BlendAction]'s
// children and a blend weight between them. Weight is consulted every
// frame, so moving the value retargets the blend continuously.
type BlendSpace interface {
	// SetBlendAction hands the space its owning action. Called once
	// when the BlendAction is constructed.
	SetBlendAction(action *BlendAction)
	// Weight selects the active pair of children on the owning action
	// via SetActiveChildren and returns the second child's weight in
	// [0, 1].
	Weight() float64
	// SetValue moves the control value.
	SetValue(value float64)
	// Clone returns an independent copy, not yet bound to an action.
	Clone() BlendSpace
}

// LinearBlendSpace spreads a blend action's children evenly across the
// [min, max] value range and blends the two children nearest the
// control value. Values outside the range clamp to the nearest child.
type LinearBlendSpace struct {
	min, max float64
	value    float64
	action   *BlendAction
}

// NewLinearBlendSpace returns a linear space over [min, max] with the
// value starting at min.
func NewLinearBlendSpace(min, max float64) *LinearBlendSpace {
	return &LinearBlendSpace{min: min, max: max, value: min}
}

func (s *LinearBlendSpace) SetBlendAction(action *BlendAction) {
	s.action = action
}

func (s *LinearBlendSpace) SetValue(value float64) {
	s.value = value
}

// Value returns the current control value.
func (s *LinearBlendSpace) Value() float64 {
	return s.value
}

func (s *LinearBlendSpace) Weight() float64 {
	n := s.action.ChildCount()
	if n < 2 {
		s.action.SetActiveChildren(0, 0)
		return 0
	}
	u := 0.0
	if s.max != s.min {
		u = (s.value - s.min) / (s.max - s.min)
	}
	if u < 0 {
		u = 0
	} else if u > 1 {
		u = 1
	}
	scaled := u * float64(n-1)
	first := int(scaled)
	if first > n-2 {
		first = n - 2
	}
	s.action.SetActiveChildren(first, first+1)
	return scaled - float64(first)
}

func (s *LinearBlendSpace) Clone() BlendSpace {
	c := *s
	c.action = nil
	return &c
}

// --- BlendAction ---

// BlendAction blends the poses of the two children its [BlendSpace]
// selects each frame. Children of different lengths are stretched to the
// longest one so their cycles stay in phase. It loops by default.
type BlendAction struct {
	actionState
	space       BlendSpace
	children    []Blendable
	timeFactors []float64
	firstIndex  int
	secondIndex int
	bufA, bufB  *Pose
}

// NewBlendAction returns a looping action blending the given children
// under the given space at speed 1. It panics when space is nil or no
// children are given.
func NewBlendAction(space BlendSpace, children ...Blendable) *BlendAction {
	if space == nil {
		panic("rig: cannot make a blend action with a nil blend space")
	}
	if len(children) == 0 {
		panic("rig: cannot make a blend action with no children")
	}
	a := &BlendAction{
		actionState: actionState{speed: 1, loop: true},
		space:       space,
		children:    append([]Blendable(nil), children...),
		timeFactors: make([]float64, len(children)),
		bufA:        NewPose(0),
		bufB:        NewPose(0),
	}
	for _, c := range a.children {
		if l := c.Length(); l > a.length {
			a.length = l
		}
	}
	for i, c := range a.children {
		a.timeFactors[i] = 1
		if a.length > 0 {
			a.timeFactors[i] = c.Length() / a.length
		}
	}
	space.SetBlendAction(a)
	return a
}

// ChildCount returns the number of blended children.
func (a *BlendAction) ChildCount() int {
	return len(a.children)
}

// Child returns the i'th blended child.
func (a *BlendAction) Child(i int) Blendable {
	return a.children[i]
}

// BlendSpace returns the space steering the blend.
func (a *BlendAction) BlendSpace() BlendSpace {
	return a.space
}

// SetActiveChildren records which pair of children the space selected.
// The weight returned by the space applies to the second child. Indices
// clamp into range.
func (a *BlendAction) SetActiveChildren(first, second int) {
	max := len(a.children) - 1
	if first < 0 {
		first = 0
	} else if first > max {
		first = max
	}
	if second < 0 {
		second = 0
	} else if second > max {
		second = max
	}
	a.firstIndex, a.secondIndex = first, second
}

func (a *BlendAction) Interpolate(t float64, pose *Pose) bool {
	if pose != nil {
		prev := pose.pushFilter(a.mask)
		a.SamplePose(t, pose)
		pose.setFilter(prev)
	}
	return a.loop || t < a.length
}

// SamplePose evaluates the blended pose at time t into dst. It makes
// BlendAction itself a [Blendable], so blends nest.
func (a *BlendAction) SamplePose(t float64, dst *Pose) {
	local := a.localTime(t)
	w := a.space.Weight()
	if w < 0 {
		w = 0
	} else if w > 1 {
		w = 1
	}
	first := a.children[a.firstIndex]
	second := a.children[a.secondIndex]
	switch {
	case a.firstIndex == a.secondIndex || w <= 0:
		first.SamplePose(local*a.timeFactors[a.firstIndex], dst)
	case w >= 1:
		second.SamplePose(local*a.timeFactors[a.secondIndex], dst)
	default:
		a.bufA.Clear()
		a.bufA.seedFrom(dst)
		a.bufB.Clear()
		a.bufB.seedFrom(dst)
		first.SamplePose(local*a.timeFactors[a.firstIndex], a.bufA)
		second.SamplePose(local*a.timeFactors[a.secondIndex], a.bufB)
		dst.Mix(a.bufA, a.bufB, w)
	}
}

func (a *BlendAction) Clone() Action {
	c := *a
	c.space = a.space.Clone()
	c.children = make([]Blendable, len(a.children))
	for i, ch := range a.children {
		c.children[i] = ch.Clone().(Blendable)
	}
	c.timeFactors = append([]float64(nil), a.timeFactors...)
	c.bufA = NewPose(0)
	c.bufB = NewPose(0)
	c.space.SetBlendAction(&c)
	return &c
}
