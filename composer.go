package rig

import (
	"errors"
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// --- Errors ---

var (
	// ErrClipNotFound reports a clip name with nothing registered under it.
	ErrClipNotFound = errors.New("clip not found")
	// ErrLayerNotFound reports a layer name with nothing registered under it.
	ErrLayerNotFound = errors.New("layer not found")
	// ErrNoCurrentAction reports a seek on a layer with nothing playing.
	ErrNoCurrentAction = errors.New("layer has no current action")
	// ErrNotBlendable reports a blend over an action that cannot sample
	// an isolated pose.
	ErrNotBlendable = errors.New("action is not blendable")
)

// --- Events ---

// ActionEvent reports a non-looping action reaching its end on a layer.
// The action stays current on the layer with the clock reset to zero.
type ActionEvent struct {
	Layer  string
	Action Action
}

// EventSink receives completion events from a Composer. EmitEvent is
// called from inside Update, so implementations must not block.
type EventSink interface {
	EmitEvent(ev ActionEvent)
}

// EventSinkFunc adapts a plain function to the EventSink interface.
type EventSinkFunc func(ev ActionEvent)

func (f EventSinkFunc) EmitEvent(ev ActionEvent) {
	f(ev)
}

// --- Layer ---

// layer is one independently clocked playback slot.
type layer struct {
	name    string
	current Action
	mask    Mask
	time    float64
}

// advance moves the clock by dt scaled by the action and global speeds.
// Looping actions fold into [0, length) so forward overshoot keeps its
// phase remainder. Non-looping actions fold only a negative result;
// forward overshoot is left past the end for interpolation to observe as
// completion.
func (l *layer) advance(dt, globalSpeed float64) {
	l.time += dt * l.current.Speed() * globalSpeed
	length := l.current.Length()
	if length <= 0 {
		l.time = 0
		return
	}
	if l.current.Loop() || l.time < 0 {
		l.time = floorMod(l.time, length)
	}
}

// --- Composer ---

// Composer drives layered skeletal animation playback. It owns a clip
// registry, a by-name cache of actions built from those clips, and an
// ordered set of independently clocked layers; each Update advances
// every layer and applies the combined pose to the target skeleton.
//
// A Composer is single-threaded: all methods, including Update, must be
// called from the same goroutine, normally the game's update loop.
type Composer struct {
	// Clips is the composer's clip registry. Removing a clip does not
	// invalidate actions already built from it; they keep playing.
	Clips *ClipStore

	actions     map[string]Action
	layers      map[string]*layer
	layerOrder  []string
	globalSpeed float64
	targets     *Skeleton
	sink        EventSink
	pose        *Pose
	debug       bool
}

// NewComposer returns a composer with an empty clip store and a single
// idle layer named [DefaultLayer].
func NewComposer() *Composer {
	c := &Composer{
		Clips:       NewClipStore(),
		actions:     make(map[string]Action),
		layers:      make(map[string]*layer),
		globalSpeed: 1,
		pose:        NewPose(0),
	}
	c.MakeLayer(DefaultLayer, nil)
	return c
}

// --- Action cache ---

// Action returns the action registered under name, lazily building and
// caching a looping [ClipAction] from the clip of that name on first
// use. Repeated calls return the identical instance until the entry is
// removed, so playback settings stick across plays. Fails with
// ErrClipNotFound when neither an action nor a clip has the name.
func (c *Composer) Action(name string) (Action, error) {
	if a, ok := c.actions[name]; ok {
		return a, nil
	}
	a, err := c.MakeAction(name)
	if err != nil {
		return nil, err
	}
	c.actions[name] = a
	return a, nil
}

// GetAction returns the action registered under name without ever
// constructing one, nil when none is.
func (c *Composer) GetAction(name string) Action {
	return c.actions[name]
}

// MakeAction builds a fresh looping [ClipAction] from the clip of the
// given name. The action cache is not consulted or touched.
func (c *Composer) MakeAction(name string) (Action, error) {
	clip := c.Clips.Get(name)
	if clip == nil {
		return nil, fmt.Errorf("rig: no clip named %q: %w", name, ErrClipNotFound)
	}
	return NewClipAction(clip), nil
}

// AddAction registers an action under a name, overwriting any previous
// entry.
func (c *Composer) AddAction(name string, a Action) {
	if a == nil {
		panic("rig: cannot add a nil action")
	}
	c.actions[name] = a
}

// HasAction reports whether an action is registered under the name.
func (c *Composer) HasAction(name string) bool {
	_, ok := c.actions[name]
	return ok
}

// RemoveAction removes and returns the action registered under the
// name, nil when none is. Layers currently playing it keep their
// reference; the next Action call with this name builds a fresh one.
func (c *Composer) RemoveAction(name string) Action {
	a := c.actions[name]
	delete(c.actions, name)
	return a
}

// ActionSequence registers a non-looping [BaseAction] playing the given
// tweens back to back under the name and returns it.
func (c *Composer) ActionSequence(name string, tweens ...Tween) *BaseAction {
	a := NewBaseAction(Sequence(tweens...))
	c.actions[name] = a
	return a
}

// ActionBlended registers a [BlendAction] under the name, blending the
// actions of the given clip names under the space, and returns it. Each
// clip name resolves through the lazy [Composer.Action] path and must
// yield a [Blendable]; an explicitly registered action that cannot
// sample poses fails with ErrNotBlendable. On any failure the action
// cache is exactly as it was before the call.
func (c *Composer) ActionBlended(name string, space BlendSpace, clipNames ...string) (*BlendAction, error) {
	if space == nil {
		panic("rig: cannot make a blend action with a nil blend space")
	}
	if len(clipNames) == 0 {
		panic("rig: cannot make a blend action with no children")
	}
	children := make([]Blendable, len(clipNames))
	staged := make(map[string]Action)
	for i, clipName := range clipNames {
		a, ok := c.actions[clipName]
		if !ok {
			a, ok = staged[clipName]
		}
		if !ok {
			made, err := c.MakeAction(clipName)
			if err != nil {
				return nil, err
			}
			staged[clipName] = made
			a = made
		}
		b, ok := a.(Blendable)
		if !ok {
			return nil, fmt.Errorf("rig: action %q cannot blend: %w", clipName, ErrNotBlendable)
		}
		children[i] = b
	}
	for clipName, a := range staged {
		c.actions[clipName] = a
	}
	action := NewBlendAction(space, children...)
	c.actions[name] = action
	return action, nil
}

// --- Layers ---

// MakeLayer creates a playback layer restricted to the joints of mask
// (nil means unrestricted). An existing layer of that name is replaced
// in place, keeping its position in the update order but losing its
// playback state. New names append to the order.
func (c *Composer) MakeLayer(name string, mask Mask) {
	if _, ok := c.layers[name]; !ok {
		c.layerOrder = append(c.layerOrder, name)
	}
	c.layers[name] = &layer{name: name, mask: mask}
}

// RemoveLayer discards a layer along with whatever it was playing.
// Removing an absent name is a no-op. Nothing protects [DefaultLayer];
// remove it and layer-scoped calls naming it start failing.
func (c *Composer) RemoveLayer(name string) {
	if _, ok := c.layers[name]; !ok {
		return
	}
	delete(c.layers, name)
	for i, n := range c.layerOrder {
		if n == name {
			c.layerOrder = append(c.layerOrder[:i], c.layerOrder[i+1:]...)
			return
		}
	}
}

// Layers returns the layer names in update order.
func (c *Composer) Layers() []string {
	return append([]string(nil), c.layerOrder...)
}

func (c *Composer) findLayer(name string) (*layer, error) {
	l, ok := c.layers[name]
	if !ok {
		return nil, fmt.Errorf("rig: no layer named %q: %w", name, ErrLayerNotFound)
	}
	return l, nil
}

// SetCurrentAction starts the named action playing on the named layer
// and returns it. The action resolves through the lazy [Composer.Action]
// path, so a clip name works directly. The layer clock resets to zero.
func (c *Composer) SetCurrentAction(actionName, layerName string) (Action, error) {
	l, err := c.findLayer(layerName)
	if err != nil {
		return nil, err
	}
	a, err := c.Action(actionName)
	if err != nil {
		return nil, err
	}
	l.time = 0
	l.current = a
	return a, nil
}

// CurrentAction returns the action playing on the named layer, nil when
// the layer is idle.
func (c *Composer) CurrentAction(layerName string) (Action, error) {
	l, err := c.findLayer(layerName)
	if err != nil {
		return nil, err
	}
	return l.current, nil
}

// RemoveCurrentAction stops whatever the named layer is playing and
// resets its clock. The action itself stays registered in the cache.
func (c *Composer) RemoveCurrentAction(layerName string) error {
	l, err := c.findLayer(layerName)
	if err != nil {
		return err
	}
	l.current = nil
	l.time = 0
	return nil
}

// Time returns the named layer's clock in seconds.
func (c *Composer) Time(layerName string) (float64, error) {
	l, err := c.findLayer(layerName)
	if err != nil {
		return 0, err
	}
	return l.time, nil
}

// SetTime seeks the named layer's clock. The stored time is the floored
// modulo of t by the current action's length, always in [0, length), so
// a negative seek lands that far before the end. Seeking an idle layer
// fails with ErrNoCurrentAction; a zero-length action parks the clock
// at zero.
func (c *Composer) SetTime(layerName string, t float64) error {
	l, err := c.findLayer(layerName)
	if err != nil {
		return err
	}
	if l.current == nil {
		return fmt.Errorf("rig: cannot seek layer %q: %w", layerName, ErrNoCurrentAction)
	}
	if length := l.current.Length(); length > 0 {
		l.time = floorMod(t, length)
	} else {
		l.time = 0
	}
	return nil
}

// Reset stops every layer and zeroes every clock. Clips, cached
// actions, and the layers themselves all stay registered.
func (c *Composer) Reset() {
	for _, l := range c.layers {
		l.current = nil
		l.time = 0
	}
}

// --- Playback settings ---

// GlobalSpeed returns the speed factor applied to every layer.
func (c *Composer) GlobalSpeed() float64 {
	return c.globalSpeed
}

// SetGlobalSpeed scales playback on every layer on top of each action's
// own speed. 1 is natural speed, 0 freezes, negative plays in reverse.
func (c *Composer) SetGlobalSpeed(speed float64) {
	c.globalSpeed = speed
}

// SetTargets points the composer at the skeleton receiving poses each
// Update. nil detaches; clocks still advance, poses go nowhere.
func (c *Composer) SetTargets(sk *Skeleton) {
	c.targets = sk
}

// Targets returns the skeleton receiving poses, nil when detached.
func (c *Composer) Targets() *Skeleton {
	return c.targets
}

// SetEventSink sets the optional completion-event sink, nil to disable.
func (c *Composer) SetEventSink(sink EventSink) {
	c.sink = sink
}

// SetDebugMode enables or disables debug mode. When enabled, suspicious
// playback data is warned about on stderr and per-update timing stats
// are logged there too.
func (c *Composer) SetDebugMode(enabled bool) {
	c.debug = enabled
	globalDebug = enabled
}

// globalDebug mirrors the most recently set Composer debug flag so that
// pose and clip operations (which lack a Composer pointer) can check it
// cheaply. Only valid with a single Composer; multiple Composers with
// differing debug modes will reflect whichever called SetDebugMode last.
var globalDebug bool

// --- Frame advancement ---

// Update advances every layer by dt seconds and applies the results to
// the target skeleton. Layers run in creation order, each applying its
// pose before the next begins, so later layers override earlier ones on
// the joints their masks admit. A non-looping action whose end passes
// inside this call resets its layer clock to zero, stays current, and
// is reported to the event sink.
func (c *Composer) Update(dt float64) {
	var stats debugStats
	var t0 time.Time

	for _, name := range c.layerOrder {
		l := c.layers[name]
		if l.current == nil {
			continue
		}
		if c.debug {
			debugCheckZeroLength(name, l.current)
			t0 = time.Now()
		}
		l.advance(dt, c.globalSpeed)

		c.pose.Clear()
		if c.targets != nil {
			c.pose.Seed(c.targets)
		}
		l.current.SetMask(l.mask)
		running := l.current.Interpolate(l.time, c.pose)
		l.current.SetMask(nil)
		if c.debug {
			stats.interpolateTime += time.Since(t0)
			stats.layerCount++
			t0 = time.Now()
		}

		if c.targets != nil {
			c.pose.ApplyTo(c.targets)
		}
		if c.debug {
			stats.applyTime += time.Since(t0)
		}

		if !running {
			l.time = 0
			if c.sink != nil {
				c.sink.EmitEvent(ActionEvent{Layer: name, Action: l.current})
			}
			stats.eventCount++
		}
	}

	if c.targets != nil {
		if c.debug {
			t0 = time.Now()
		}
		c.targets.UpdateWorldTransforms()
		if c.debug {
			stats.worldTime = time.Since(t0)
		}
	}
	c.debugLog(stats)
}

// Step advances by one Ebitengine tick, 1/ebiten.TPS() seconds. Call it
// from your game's Update to keep playback locked to the tick rate.
func (c *Composer) Step() {
	c.Update(1 / float64(ebiten.TPS()))
}

// --- Duplicate ---

// Duplicate returns a deep copy that shares only immutable clip data
// with the original. Cached actions are cloned entry by entry, layers
// come back with the same names, order, and masks but idle with clocks
// at zero, and the global speed carries over. The target skeleton and
// event sink do not; point the copy at its own.
func (c *Composer) Duplicate() *Composer {
	d := &Composer{
		Clips:       c.Clips.clone(),
		actions:     make(map[string]Action, len(c.actions)),
		layers:      make(map[string]*layer, len(c.layers)),
		layerOrder:  append([]string(nil), c.layerOrder...),
		globalSpeed: c.globalSpeed,
		pose:        NewPose(0),
		debug:       c.debug,
	}
	for name, a := range c.actions {
		d.actions[name] = a.Clone()
	}
	for name, l := range c.layers {
		d.layers[name] = &layer{name: name, mask: l.mask}
	}
	return d
}
