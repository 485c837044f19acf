package ecs

import (
	"testing"

	"github.com/phanxgames/rig"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

var _ rig.EventSink = (*donburiSink)(nil)

func testAction(t *testing.T, clipName string) rig.Action {
	t.Helper()
	clip, err := rig.NewClip(clipName, rig.TrackData{
		Joint:     0,
		Times:     []float64{0, 1},
		Rotations: []float64{0, 1},
	})
	if err != nil {
		t.Fatalf("NewClip: %v", err)
	}
	return rig.NewClipAction(clip)
}

func TestNewDonburiSink(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)
	if sink == nil {
		t.Fatal("NewDonburiSink returned nil")
	}
}

func TestDonburiSink_EmitEvent(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)

	var received []rig.ActionEvent
	ActionEventType.Subscribe(world, func(w donburi.World, e rig.ActionEvent) {
		received = append(received, e)
	})

	wave := testAction(t, "Wave")
	jump := testAction(t, "Jump")
	sink.EmitEvent(rig.ActionEvent{Layer: rig.DefaultLayer, Action: wave})
	sink.EmitEvent(rig.ActionEvent{Layer: "UpperBody", Action: jump})

	// Events are queued until processed.
	ActionEventType.ProcessEvents(world)

	if len(received) != 2 {
		t.Fatalf("expected 2 events, got %d", len(received))
	}

	e0 := received[0]
	if e0.Layer != rig.DefaultLayer {
		t.Errorf("event 0 layer: %q", e0.Layer)
	}
	if e0.Action != wave {
		t.Errorf("event 0 action: %+v", e0.Action)
	}

	e1 := received[1]
	if e1.Layer != "UpperBody" || e1.Action != jump {
		t.Errorf("event 1: %+v", e1)
	}
}

func TestDonburiSink_MultipleSubscribers(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)

	var count1, count2 int
	ActionEventType.Subscribe(world, func(w donburi.World, e rig.ActionEvent) {
		count1++
	})
	ActionEventType.Subscribe(world, func(w donburi.World, e rig.ActionEvent) {
		count2++
	})

	sink.EmitEvent(rig.ActionEvent{Layer: rig.DefaultLayer, Action: testAction(t, "Idle")})
	events.ProcessAllEvents(world)

	if count1 != 1 || count2 != 1 {
		t.Errorf("expected both subscribers called once, got %d and %d", count1, count2)
	}
}
