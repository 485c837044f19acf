package rig

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// composerSpec is the YAML document layout for Save and Load. Only the
// durable state serializes: the clip registry and the global speed.
// Actions and layers are runtime constructions the caller rebuilds.
type composerSpec struct {
	GlobalSpeed *float64   `yaml:"global_speed,omitempty"`
	Clips       []clipSpec `yaml:"clips"`
}

type clipSpec struct {
	Name   string      `yaml:"name"`
	Tracks []trackSpec `yaml:"tracks"`
}

type trackSpec struct {
	Joint        int          `yaml:"joint"`
	Times        []float64    `yaml:"times"`
	Translations [][2]float64 `yaml:"translations,omitempty"`
	Rotations    []float64    `yaml:"rotations,omitempty"`
	Scales       [][2]float64 `yaml:"scales,omitempty"`
}

// Save writes the composer's durable state to w as a YAML document:
// the clips, name-sorted, and the global speed. Layers and cached
// actions are not persisted.
func (c *Composer) Save(w io.Writer) error {
	speed := c.globalSpeed
	doc := composerSpec{GlobalSpeed: &speed}
	for _, clip := range c.Clips.All() {
		cs := clipSpec{Name: clip.Name()}
		for _, td := range clip.Tracks() {
			ts := trackSpec{Joint: td.Joint, Times: td.Times, Rotations: td.Rotations}
			for _, v := range td.Translations {
				ts.Translations = append(ts.Translations, [2]float64{v.X, v.Y})
			}
			for _, v := range td.Scales {
				ts.Scales = append(ts.Scales, [2]float64{v.X, v.Y})
			}
			cs.Tracks = append(cs.Tracks, ts)
		}
		doc.Clips = append(doc.Clips, cs)
	}
	data, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("rig: marshal composer: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("rig: save composer: %w", err)
	}
	return nil
}

// Load replaces the composer's clip registry and global speed with the
// document read from r. The swap is atomic: a document that fails to
// parse or validate leaves the composer untouched. A missing
// global_speed defaults to 1, missing clips to an empty registry.
// Cached actions and layer state are left alone.
func (c *Composer) Load(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("rig: load composer: %w", err)
	}
	var doc composerSpec
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("rig: unmarshal composer: %w", err)
	}
	clips := make(map[string]*Clip, len(doc.Clips))
	for _, cs := range doc.Clips {
		tracks := make([]TrackData, len(cs.Tracks))
		for i, ts := range cs.Tracks {
			td := TrackData{Joint: ts.Joint, Times: ts.Times, Rotations: ts.Rotations}
			for _, v := range ts.Translations {
				td.Translations = append(td.Translations, Vec2{X: v[0], Y: v[1]})
			}
			for _, v := range ts.Scales {
				td.Scales = append(td.Scales, Vec2{X: v[0], Y: v[1]})
			}
			tracks[i] = td
		}
		clip, err := NewClip(cs.Name, tracks...)
		if err != nil {
			return err
		}
		clips[clip.Name()] = clip
	}
	speed := 1.0
	if doc.GlobalSpeed != nil {
		speed = *doc.GlobalSpeed
	}
	c.Clips.replace(clips)
	c.globalSpeed = speed
	return nil
}
