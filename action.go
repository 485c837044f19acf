package rig

// Action is a playable animation unit. Every Action is a [Tween]
// evaluated at the owning layer's local time, carrying per-action
// playback settings on top: a speed factor multiplied into the clock
// advance, an optional joint mask narrowing which joints it may write,
// and a loop flag deciding what happens when the clock passes Length.
//
// Looping actions fold their layer clock back into [0, Length) and run
// forever. Non-looping actions clamp at the end, report not-running, and
// leave the final frame applied while the layer clock resets to zero.
type Action interface {
	Tween

	// Speed returns the action's speed factor.
	Speed() float64
	// SetSpeed sets the speed factor. Negative speeds play in reverse.
	SetSpeed(speed float64)

	// Mask returns the action's joint mask, nil when unrestricted.
	Mask() Mask
	// SetMask restricts the action to the given joints. A nil mask
	// removes the restriction.
	SetMask(mask Mask)

	// Loop reports whether the action repeats when its time passes
	// Length.
	Loop() bool
	// SetLoop sets the loop flag.
	SetLoop(loop bool)

	// Clone returns an independent copy of the action. The copy shares
	// immutable data such as clips but no mutable playback state.
	Clone() Action
}

// actionState carries the playback settings shared by all actions.
type actionState struct {
	length float64
	speed  float64
	mask   Mask
	loop   bool
}

func (a *actionState) Length() float64 {
	return a.length
}

func (a *actionState) Speed() float64 {
	return a.speed
}

func (a *actionState) SetSpeed(speed float64) {
	a.speed = speed
}

func (a *actionState) Mask() Mask {
	return a.mask
}

func (a *actionState) SetMask(mask Mask) {
	a.mask = mask
}

func (a *actionState) Loop() bool {
	return a.loop
}

func (a *actionState) SetLoop(loop bool) {
	a.loop = loop
}

// localTime folds t for evaluation: looping actions wrap into
// [0, length), non-looping actions clamp into [0, length].
func (a *actionState) localTime(t float64) float64 {
	if a.length <= 0 {
		return 0
	}
	if a.loop {
		return floorMod(t, a.length)
	}
	if t < 0 {
		return 0
	}
	if t > a.length {
		return a.length
	}
	return t
}

// --- ClipAction ---

// ClipAction plays a single [Clip]. It loops by default.
type ClipAction struct {
	actionState
	clip *Clip
}

// NewClipAction returns a looping action over the given clip at speed 1.
func NewClipAction(clip *Clip) *ClipAction {
	if clip == nil {
		panic("rig: cannot make an action from a nil clip")
	}
	return &ClipAction{
		actionState: actionState{length: clip.Length(), speed: 1, loop: true},
		clip:        clip,
	}
}

// Clip returns the clip this action plays.
func (a *ClipAction) Clip() *Clip {
	return a.clip
}

func (a *ClipAction) Interpolate(t float64, pose *Pose) bool {
	local := a.localTime(t)
	if pose != nil {
		prev := pose.pushFilter(a.mask)
		a.clip.sample(local, pose)
		pose.setFilter(prev)
	}
	return a.loop || t < a.length
}

// SamplePose evaluates the clip at time t into dst without the running
// bookkeeping. It makes ClipAction a [Blendable].
func (a *ClipAction) SamplePose(t float64, dst *Pose) {
	a.clip.sample(a.localTime(t), dst)
}

func (a *ClipAction) Clone() Action {
	c := *a
	return &c
}

// --- BaseAction ---

// BaseAction wraps an arbitrary [Tween] as an action, so sequences,
// delays and eased values can drive a layer. It does not loop by
// default: when the wrapped tween reports done the action completes and
// the layer clock resets.
type BaseAction struct {
	actionState
	tween Tween
}

// NewBaseAction returns a non-looping action over the given tween at
// speed 1.
func NewBaseAction(tw Tween) *BaseAction {
	if tw == nil {
		panic("rig: cannot make an action from a nil tween")
	}
	return &BaseAction{
		actionState: actionState{length: tw.Length(), speed: 1},
		tween:       tw,
	}
}

func (a *BaseAction) Interpolate(t float64, pose *Pose) bool {
	if a.loop {
		t = a.localTime(t)
	} else if t < 0 {
		t = 0
	}
	var running bool
	if pose != nil {
		prev := pose.pushFilter(a.mask)
		running = a.tween.Interpolate(t, pose)
		pose.setFilter(prev)
	} else {
		running = a.tween.Interpolate(t, nil)
	}
	return a.loop || running
}

func (a *BaseAction) Clone() Action {
	c := *a
	return &c
}
