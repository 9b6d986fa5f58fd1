// Package ecs provides ECS adapters for rigview.
package ecs

import (
	"github.com/phanxgames/rigview"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// ViewportEventType is the Donburi event type for rigview viewport events.
var ViewportEventType = events.NewEventType[rigview.ViewportEvent]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EventStore backed by a Donburi world.
// Viewport events are published to ViewportEventType and can be consumed
// with events.Subscribe and ProcessEvents.
func NewDonburiStore(world donburi.World) rigview.EventStore {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitEvent(event rigview.ViewportEvent) {
	ViewportEventType.Publish(s.world, event)
}
