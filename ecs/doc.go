// Package ecs provides ECS adapters for rig's completion event system.
//
// The primary adapter is [NewDonburiSink], which bridges rig action
// completion events into a [Donburi] world as typed events. Subscribe to
// [ActionEventType] in your ECS systems to react when an animation
// finishes.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	composer.SetEventSink(sink)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
