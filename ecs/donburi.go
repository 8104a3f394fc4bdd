package ecs

import (
	"github.com/phanxgames/zoomgraph"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// InteractionEventType is the Donburi event type for zoomgraph interaction
// events. Events are queued on publish; drain them with ProcessEvents.
var InteractionEventType = events.NewEventType[zoomgraph.InteractionEvent]()

// DonburiStore is a zoomgraph.EventStore publishing into a Donburi world.
type DonburiStore struct {
	world donburi.World
	// accept is indexed by event type; nil accepts everything.
	accept    []bool
	published int
}

// NewDonburiStore creates a store backed by world. When types are given,
// only events of those types are published.
func NewDonburiStore(world donburi.World, types ...zoomgraph.EventType) *DonburiStore {
	s := &DonburiStore{world: world}
	for _, t := range types {
		for int(t) >= len(s.accept) {
			s.accept = append(s.accept, false)
		}
		s.accept[t] = true
	}
	return s
}

// EmitEvent implements zoomgraph.EventStore.
func (s *DonburiStore) EmitEvent(event zoomgraph.InteractionEvent) {
	if s.accept != nil && (int(event.Type) >= len(s.accept) || !s.accept[event.Type]) {
		return
	}
	s.published++
	InteractionEventType.Publish(s.world, event)
}

// Published returns the number of events published so far.
func (s *DonburiStore) Published() int {
	return s.published
}
