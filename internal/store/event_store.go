package store

import (
	"sort"

	"github.com/partycluster/partycluster/internal/models"
)

// EventStore holds the latest known event per author. It is populated
// incrementally during ingestion and read once, in full, to seed
// clustering. Merging is order-independent: the newest timestamp wins
// regardless of arrival order, so feeds may be ingested in any order.
//
// The store itself is not safe for concurrent use; ingestion merges
// batches into it sequentially.
type EventStore struct {
	events map[models.Key]models.Event
}

// NewEventStore creates an empty event store.
func NewEventStore() *EventStore {
	return &EventStore{
		events: make(map[models.Key]models.Event),
	}
}

// Update merges a batch of events into the store. For each event, an
// absent key is inserted; a present key is replaced only when the
// incoming timestamp is strictly newer. Equal timestamps keep the
// first-seen event, which makes Update idempotent.
func (s *EventStore) Update(events []models.Event) {
	for _, event := range events {
		key := event.Key()
		current, ok := s.events[key]
		if !ok || event.Timestamp.After(current.Timestamp) {
			s.events[key] = event
		}
	}
}

// Len returns the number of distinct authors in the store.
func (s *EventStore) Len() int {
	return len(s.events)
}

// Events returns the stored events sorted by key, so that downstream
// clustering sees a reproducible input order.
func (s *EventStore) Events() []models.Event {
	events := make([]models.Event, 0, len(s.events))
	for _, event := range s.events {
		events = append(events, event)
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].Key().Less(events[j].Key())
	})
	return events
}
