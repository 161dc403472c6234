// Package ecs provides ECS adapters for backdrop.
package ecs

import (
	"github.com/phanxgames/backdrop"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// PointerEventType is the Donburi event type for backdrop host events.
// Subscribe to this in your ECS systems to receive pointer moves, leaves and
// viewport resizes.
var PointerEventType = events.NewEventType[backdrop.PointerEvent]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world. Events are
// published to PointerEventType and can be consumed with events.Subscribe
// and ProcessEvents.
func NewDonburiSink(world donburi.World) backdrop.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitEvent(event backdrop.PointerEvent) {
	PointerEventType.Publish(s.world, event)
}
