package rig

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Tween is a time-driven computation over a fixed length. Interpolate
// evaluates at absolute time t, writing any pose contribution into pose
// and reporting whether it is still running. Tweens keep no internal
// clock, so the same tween replays and rewinds freely. Implementations
// that animate plain values ignore the pose. Times outside [0, Length()]
// must be tolerated: clamp, and report not-running past the end.
//
// Every [Action] is a Tween, so clip actions chain directly into
// sequences alongside delays and eased values.
type Tween interface {
	// Length returns the tween's duration in seconds.
	Length() float64
	// Interpolate evaluates the tween at time t and reports whether it
	// is still running. pose may be nil for tweens that do not need it.
	Interpolate(t float64, pose *Pose) bool
}

// --- Combinators ---

// Sequence chains tweens back to back. The active child is selected by
// accumulated length; its local time is the sequence time minus the
// lengths before it. The sequence's running flag is the active child's,
// so a looping child in the last slot keeps the sequence running
// indefinitely.
func Sequence(tweens ...Tween) Tween {
	s := &sequenceTween{children: append([]Tween(nil), tweens...)}
	for _, c := range s.children {
		s.length += c.Length()
	}
	return s
}

type sequenceTween struct {
	children []Tween
	length   float64
}

func (s *sequenceTween) Length() float64 {
	return s.length
}

func (s *sequenceTween) Interpolate(t float64, pose *Pose) bool {
	last := len(s.children) - 1
	if last < 0 {
		return false
	}
	base := 0.0
	for i, c := range s.children {
		cl := c.Length()
		if t < base+cl || i == last {
			return c.Interpolate(t-base, pose)
		}
		base += cl
	}
	return false
}

// Parallel runs tweens simultaneously. It is as long as its longest
// child and runs while any child still runs.
func Parallel(tweens ...Tween) Tween {
	p := &parallelTween{children: append([]Tween(nil), tweens...)}
	for _, c := range p.children {
		if l := c.Length(); l > p.length {
			p.length = l
		}
	}
	return p
}

type parallelTween struct {
	children []Tween
	length   float64
}

func (p *parallelTween) Length() float64 {
	return p.length
}

func (p *parallelTween) Interpolate(t float64, pose *Pose) bool {
	running := false
	for _, c := range p.children {
		if c.Interpolate(t, pose) {
			running = true
		}
	}
	return running
}

// Delay returns a Tween that does nothing for d seconds. Useful for
// spacing the elements of a sequence.
func Delay(d float64) Tween {
	return delayTween(d)
}

type delayTween float64

func (d delayTween) Length() float64 {
	return float64(d)
}

func (d delayTween) Interpolate(t float64, _ *Pose) bool {
	return t < float64(d)
}

// --- gween bridges ---

// Ease returns a Tween that eases *target from one value to another over
// duration seconds using a [gween] easing function such as
// ease.OutBounce. The pose is ignored; the value is written through the
// pointer every evaluation.
//
// [gween]: https://github.com/tanema/gween
func Ease(target *float64, from, to, duration float64, fn ease.TweenFunc) Tween {
	return &easeTween{
		target: target,
		tw:     gween.New(float32(from), float32(to), float32(duration), fn),
		length: duration,
	}
}

type easeTween struct {
	target *float64
	tw     *gween.Tween
	length float64
}

func (e *easeTween) Length() float64 {
	return e.length
}

func (e *easeTween) Interpolate(t float64, _ *Pose) bool {
	if t < 0 {
		t = 0
	}
	v, finished := e.tw.Set(float32(t))
	*e.target = float64(v)
	return !finished
}

// jointTween animates up to 2 channels of one joint via gween. Values
// write through the pose when one is supplied (so layer masks apply) and
// directly to the skeleton otherwise.
type jointTween struct {
	sk     *Skeleton
	joint  int
	tweens [2]*gween.Tween
	count  int
	apply  func(tr *Transform, v [2]float64)
	length float64
}

func (j *jointTween) Length() float64 {
	return j.length
}

func (j *jointTween) Interpolate(t float64, pose *Pose) bool {
	if t < 0 {
		t = 0
	}
	var vals [2]float64
	running := false
	for i := 0; i < j.count; i++ {
		v, finished := j.tweens[i].Set(float32(t))
		vals[i] = float64(v)
		if !finished {
			running = true
		}
	}
	var tr Transform
	if pose != nil {
		tr = pose.peek(j.joint)
	} else {
		tr = j.sk.LocalTransform(j.joint)
	}
	j.apply(&tr, vals)
	if pose != nil {
		pose.Set(j.joint, tr)
	} else {
		j.sk.SetLocalTransform(j.joint, tr)
	}
	return running
}

// TweenJointRotation returns a Tween that rotates one joint from its
// current local rotation to the target angle over duration seconds.
func TweenJointRotation(sk *Skeleton, joint int, to, duration float64, fn ease.TweenFunc) Tween {
	j := &jointTween{sk: sk, joint: joint, count: 1, length: duration}
	j.tweens[0] = gween.New(float32(sk.LocalTransform(joint).Rotation), float32(to), float32(duration), fn)
	j.apply = func(tr *Transform, v [2]float64) {
		tr.Rotation = v[0]
	}
	return j
}

// TweenJointPosition returns a Tween that moves one joint from its
// current local position to the target over duration seconds.
func TweenJointPosition(sk *Skeleton, joint int, toX, toY, duration float64, fn ease.TweenFunc) Tween {
	j := &jointTween{sk: sk, joint: joint, count: 2, length: duration}
	cur := sk.LocalTransform(joint)
	j.tweens[0] = gween.New(float32(cur.X), float32(toX), float32(duration), fn)
	j.tweens[1] = gween.New(float32(cur.Y), float32(toY), float32(duration), fn)
	j.apply = func(tr *Transform, v [2]float64) {
		tr.X, tr.Y = v[0], v[1]
	}
	return j
}

// TweenJointScale returns a Tween that scales one joint from its current
// local scale to the target over duration seconds.
func TweenJointScale(sk *Skeleton, joint int, toX, toY, duration float64, fn ease.TweenFunc) Tween {
	j := &jointTween{sk: sk, joint: joint, count: 2, length: duration}
	cur := sk.LocalTransform(joint)
	j.tweens[0] = gween.New(float32(cur.ScaleX), float32(toX), float32(duration), fn)
	j.tweens[1] = gween.New(float32(cur.ScaleY), float32(toY), float32(duration), fn)
	j.apply = func(tr *Transform, v [2]float64) {
		tr.ScaleX, tr.ScaleY = v[0], v[1]
	}
	return j
}
