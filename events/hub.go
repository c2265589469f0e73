// events/hub.go

// Package events fans note changes out to any number of listeners.
package events

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/vinizap/instantnotes/domain"
)

const (
	NoteCreated = "note_created"
	NoteUpdated = "note_updated"
	NoteDeleted = "note_deleted"
)

const subscriberBuffer = 16

type Event struct {
	Type string       `json:"type"`
	Note *domain.Note `json:"note,omitempty"`
}

// Hub owns the set of subscribers. Registration, removal and delivery all
// happen on the goroutine running Run, so no lock is needed.
type Hub struct {
	clients    map[chan Event]bool
	broadcast  chan Event
	register   chan chan Event
	unregister chan chan Event
	done       chan struct{}
	log        zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[chan Event]bool),
		broadcast:  make(chan Event, 256),
		register:   make(chan chan Event),
		unregister: make(chan chan Event),
		done:       make(chan struct{}),
		log:        log,
	}
}

// Run delivers events until ctx is done, then closes every subscriber.
// It must be called once.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for ch := range h.clients {
				delete(h.clients, ch)
				close(ch)
			}
			return

		case ch := <-h.register:
			h.clients[ch] = true

		case ch := <-h.unregister:
			if _, ok := h.clients[ch]; ok {
				delete(h.clients, ch)
				close(ch)
			}

		case ev := <-h.broadcast:
			for ch := range h.clients {
				select {
				case ch <- ev:
				default:
					h.log.Warn().Str("type", ev.Type).Msg("subscriber too slow, event dropped")
				}
			}
		}
	}
}

// Broadcast queues an event for every subscriber. It never blocks; when the
// queue is full the event is dropped.
func (h *Hub) Broadcast(eventType string, note *domain.Note) {
	select {
	case h.broadcast <- Event{Type: eventType, Note: note}:
	default:
		h.log.Warn().Str("type", eventType).Msg("event queue full, event dropped")
	}
}

// Subscribe returns a channel of events and a function that stops delivery.
// The channel is closed after cancel is called or the hub stops.
func (h *Hub) Subscribe(ctx context.Context) (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)
	select {
	case h.register <- ch:
	case <-h.done:
		close(ch)
		return ch, func() {}
	case <-ctx.Done():
		close(ch)
		return ch, func() {}
	}
	cancel := func() {
		select {
		case h.unregister <- ch:
		case <-h.done:
		}
	}
	return ch, cancel
}
