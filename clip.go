package rig

import (
	"fmt"
	"sort"
)

// TrackData describes one joint's keyframe channels for NewClip.
//
// Times holds the key times in seconds, non-negative and strictly
// ascending. Each non-nil channel must have exactly len(Times) entries.
// Nil channels leave that component of the joint at its base value (the
// pose's seeded transform, normally the skeleton's current local pose),
// so a rotation-only track waves an arm without flattening its offset.
type TrackData struct {
	Joint        int       // target joint index
	Times        []float64 // key times in seconds
	Translations []Vec2    // optional translation keys
	Rotations    []float64 // optional rotation keys, radians
	Scales       []Vec2    // optional scale keys
}

// track is the validated, immutable form of a TrackData.
type track struct {
	joint        int
	times        []float64
	translations []Vec2
	rotations    []float64
	scales       []Vec2
}

// Clip is an immutable, named set of keyframe tracks. Length is the
// largest key time across all tracks. Clips are built once by [NewClip]
// and never mutated; accessors copy data out, so clips are safe to share
// between composers and their duplicates.
type Clip struct {
	name   string
	tracks []track
	length float64
}

// NewClip validates and copies the given tracks into an immutable clip.
func NewClip(name string, tracks ...TrackData) (*Clip, error) {
	if name == "" {
		return nil, fmt.Errorf("rig: clip name must not be empty")
	}
	c := &Clip{name: name, tracks: make([]track, 0, len(tracks))}
	for ti, td := range tracks {
		if td.Joint < 0 {
			return nil, fmt.Errorf("rig: clip %q track %d: negative joint index %d", name, ti, td.Joint)
		}
		if len(td.Times) == 0 {
			return nil, fmt.Errorf("rig: clip %q track %d: no key times", name, ti)
		}
		if td.Times[0] < 0 {
			return nil, fmt.Errorf("rig: clip %q track %d: negative key time %v", name, ti, td.Times[0])
		}
		for i := 1; i < len(td.Times); i++ {
			if td.Times[i] <= td.Times[i-1] {
				return nil, fmt.Errorf("rig: clip %q track %d: key times must be strictly ascending (%v then %v)",
					name, ti, td.Times[i-1], td.Times[i])
			}
		}
		if td.Translations == nil && td.Rotations == nil && td.Scales == nil {
			return nil, fmt.Errorf("rig: clip %q track %d: no channels", name, ti)
		}
		if td.Translations != nil && len(td.Translations) != len(td.Times) {
			return nil, fmt.Errorf("rig: clip %q track %d: %d translation keys for %d times",
				name, ti, len(td.Translations), len(td.Times))
		}
		if td.Rotations != nil && len(td.Rotations) != len(td.Times) {
			return nil, fmt.Errorf("rig: clip %q track %d: %d rotation keys for %d times",
				name, ti, len(td.Rotations), len(td.Times))
		}
		if td.Scales != nil && len(td.Scales) != len(td.Times) {
			return nil, fmt.Errorf("rig: clip %q track %d: %d scale keys for %d times",
				name, ti, len(td.Scales), len(td.Times))
		}

		tr := track{
			joint: td.Joint,
			times: append([]float64(nil), td.Times...),
		}
		if td.Translations != nil {
			tr.translations = append([]Vec2(nil), td.Translations...)
		}
		if td.Rotations != nil {
			tr.rotations = append([]float64(nil), td.Rotations...)
		}
		if td.Scales != nil {
			tr.scales = append([]Vec2(nil), td.Scales...)
		}
		c.tracks = append(c.tracks, tr)

		if end := tr.times[len(tr.times)-1]; end > c.length {
			c.length = end
		}
	}
	return c, nil
}

// Name returns the clip's unique name.
func (c *Clip) Name() string {
	return c.name
}

// Length returns the clip's duration in seconds: the largest key time
// across all tracks, 0 for a clip with no tracks.
func (c *Clip) Length() float64 {
	return c.length
}

// TrackCount returns the number of tracks.
func (c *Clip) TrackCount() int {
	return len(c.tracks)
}

// Tracks returns a deep copy of the clip's track data.
func (c *Clip) Tracks() []TrackData {
	out := make([]TrackData, len(c.tracks))
	for i, tr := range c.tracks {
		td := TrackData{
			Joint: tr.joint,
			Times: append([]float64(nil), tr.times...),
		}
		if tr.translations != nil {
			td.Translations = append([]Vec2(nil), tr.translations...)
		}
		if tr.rotations != nil {
			td.Rotations = append([]float64(nil), tr.rotations...)
		}
		if tr.scales != nil {
			td.Scales = append([]Vec2(nil), tr.scales...)
		}
		out[i] = td
	}
	return out
}

// sample writes the pose at time t into dst. t is clamped to the key
// range per track; between keys, values interpolate linearly (rotation
// along the shortest arc).
func (c *Clip) sample(t float64, dst *Pose) {
	for i := range c.tracks {
		c.tracks[i].sample(t, dst)
	}
}

func (tr *track) sample(t float64, dst *Pose) {
	i, w := keyWindow(tr.times, t)
	out := dst.peek(tr.joint)
	if tr.translations != nil {
		v := tr.translations[i]
		if w > 0 {
			v = v.Lerp(tr.translations[i+1], w)
		}
		out.X, out.Y = v.X, v.Y
	}
	if tr.rotations != nil {
		r := tr.rotations[i]
		if w > 0 {
			r = lerpAngle(r, tr.rotations[i+1], w)
		}
		out.Rotation = r
	}
	if tr.scales != nil {
		v := tr.scales[i]
		if w > 0 {
			v = v.Lerp(tr.scales[i+1], w)
		}
		out.ScaleX, out.ScaleY = v.X, v.Y
	}
	dst.Set(tr.joint, out)
}

// keyWindow locates the key pair bracketing time t. It returns the left
// key index and the weight toward the next key; the weight is 0 at or
// before the first key and at or past the last (index pinned to the end).
func keyWindow(times []float64, t float64) (int, float64) {
	n := len(times)
	if t <= times[0] {
		return 0, 0
	}
	if t >= times[n-1] {
		return n - 1, 0
	}
	i := sort.SearchFloat64s(times, t)
	if times[i] == t {
		return i, 0
	}
	i--
	return i, (t - times[i]) / (times[i+1] - times[i])
}

// --- ClipStore ---

// ClipStore is a keyed registry of immutable clips (name -> clip).
// A Composer owns one as its Clips field; standalone stores work too.
type ClipStore struct {
	clips map[string]*Clip
}

// NewClipStore creates an empty store.
func NewClipStore() *ClipStore {
	return &ClipStore{clips: make(map[string]*Clip)}
}

// Add inserts the clip, overwriting any existing clip of the same name.
// Panics if c is nil.
func (s *ClipStore) Add(c *Clip) {
	if c == nil {
		panic("rig: cannot add a nil clip")
	}
	s.clips[c.name] = c
}

// Remove deletes the named clip. It fails with [ErrClipNotFound] if no
// clip has that name. Actions already built from the clip are not
// removed; a cached action holding a removed clip stays usable until the
// caller removes it.
func (s *ClipStore) Remove(name string) error {
	if _, ok := s.clips[name]; !ok {
		return fmt.Errorf("rig: no clip named %q: %w", name, ErrClipNotFound)
	}
	delete(s.clips, name)
	return nil
}

// Get returns the named clip, or nil if absent.
func (s *ClipStore) Get(name string) *Clip {
	return s.clips[name]
}

// Has reports whether a clip with the given name exists.
func (s *ClipStore) Has(name string) bool {
	_, ok := s.clips[name]
	return ok
}

// Len returns the number of clips.
func (s *ClipStore) Len() int {
	return len(s.clips)
}

// Names returns the clip names, sorted, as a fresh slice.
func (s *ClipStore) Names() []string {
	names := make([]string, 0, len(s.clips))
	for name := range s.clips {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns the clips in name order as a fresh slice.
func (s *ClipStore) All() []*Clip {
	names := s.Names()
	out := make([]*Clip, len(names))
	for i, name := range names {
		out[i] = s.clips[name]
	}
	return out
}

// clone returns a store with an independent map. Clip values are shared:
// clips are immutable, so duplicates can safely alias them.
func (s *ClipStore) clone() *ClipStore {
	c := NewClipStore()
	for name, clip := range s.clips {
		c.clips[name] = clip
	}
	return c
}

// replace swaps in a new clip set wholesale. Used by Composer.Load after
// the incoming data has fully validated.
func (s *ClipStore) replace(clips map[string]*Clip) {
	s.clips = clips
}
