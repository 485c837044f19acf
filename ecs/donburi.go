package ecs

import (
	"github.com/phanxgames/rig"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// ActionEventType is the Donburi event type for rig action completions.
// Subscribe to this in your ECS systems to react when a non-looping
// action reaches its end.
var ActionEventType = events.NewEventType[rig.ActionEvent]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world.
// Completion events are published to ActionEventType and can be
// consumed with events.Subscribe and ProcessEvents.
func NewDonburiSink(world donburi.World) rig.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitEvent(event rig.ActionEvent) {
	ActionEventType.Publish(s.world, event)
}
