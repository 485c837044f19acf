// Package rig is a layered skeletal-animation controller for [Ebitengine].
//
// Rig keeps named animation clips in a registry, exposes them as
// replayable actions, and schedules playback on independently clocked
// layers, each of which can drive a masked subset of a 2D skeleton.
// Every frame the composer advances each layer's clock, evaluates its
// current action, and applies the combined pose to the target skeleton.
//
// # Quick start
//
// Build a skeleton and a clip, hand them to a [Composer], and step it
// from your game loop:
//
//	sk, _ := rig.NewSkeleton(
//		rig.Joint{Name: "hips", Parent: -1},
//		rig.Joint{Name: "torso", Parent: 0, Rest: rig.Transform{Y: -20, ScaleX: 1, ScaleY: 1}},
//	)
//
//	composer := rig.NewComposer()
//	composer.Clips.Add(walkClip)
//	composer.SetTargets(sk)
//	composer.SetCurrentAction("Walk", rig.DefaultLayer)
//
//	type Game struct{ composer *rig.Composer }
//
//	func (g *Game) Update() error        { g.composer.Step(); return nil }
//	func (g *Game) Draw(s *ebiten.Image) { /* draw sk however you like */ }
//	func (g *Game) Layout(w, h int) (int, int) { return w, h }
//
// [Driver] is the same loop prepackaged as an [ebiten.Game] for callers
// that do not need a Draw pass of their own.
//
// # Clips and actions
//
// A [Clip] is immutable keyframe data: per-joint tracks of times plus
// translation, rotation, and scale channels. The composer's [ClipStore]
// keys clips by name. Actions are the playable layer on top:
// [Composer.Action] lazily wraps a clip in a looping [ClipAction] and
// caches it, [Composer.ActionSequence] chains tweens (clip actions,
// delays, and eased values via [gween]) into a one-shot [BaseAction],
// and [Composer.ActionBlended] mixes clips under a [BlendSpace].
// Cached actions keep their playback settings (speed, mask, loop)
// across plays until removed.
//
// # Layers and masks
//
// Each layer owns a clock and at most one current action. Layers update
// in creation order, so a later layer overrides an earlier one on the
// joints its [Mask] admits:
//
//	upper, _ := rig.MaskFromSubtree(sk, "torso")
//	composer.MakeLayer("UpperBody", upper)
//	composer.SetCurrentAction("Walk", rig.DefaultLayer)
//	composer.SetCurrentAction("Wave", "UpperBody")
//
// Seek a layer with [Composer.SetTime]; times fold into the current
// action's cycle, so seeking to -0.5 lands half a second before the
// end.
//
// # Blending
//
// [Composer.ActionBlended] spreads clips across a [LinearBlendSpace]
// and mixes the two nearest the control value, stretching children to a
// common cycle length:
//
//	blend, _ := composer.ActionBlended("Move", rig.NewLinearBlendSpace(0, 10), "Walk", "Run")
//	blend.BlendSpace().SetValue(speed)
//
// # Persistence and live reload
//
// [Composer.Save] and [Composer.Load] serialize the durable state
// (clips and global speed) as YAML. [Watcher] reports edits to clip
// documents on disk so a running game can reload them.
//
// Completion events for one-shot actions go to an [EventSink]; the
// rig/ecs package bridges them into a [Donburi] world.
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
// [Donburi]: https://github.com/yohamta/donburi
package rig
