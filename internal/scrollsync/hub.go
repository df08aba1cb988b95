// Package scrollsync mirrors the scroll position of one result pane onto its
// sibling panes.
package scrollsync

import (
	"sync"

	"github.com/akolanti/DocForm/internal/api"
	"github.com/akolanti/DocForm/internal/metrics"
)

type Event = api.ScrollEvent

// Subscriber receives the scroll events of one session. Only the newest event
// is kept while the subscriber is busy.
type Subscriber struct {
	session string
	events  chan Event
}

func (s *Subscriber) Events() <-chan Event {
	return s.events
}

type Hub struct {
	mu       sync.Mutex
	sessions map[string]map[*Subscriber]struct{}
}

func NewHub() *Hub {
	return &Hub{sessions: make(map[string]map[*Subscriber]struct{})}
}

func (h *Hub) Subscribe(sessionID string) *Subscriber {
	sub := &Subscriber{session: sessionID, events: make(chan Event, 1)}
	h.mu.Lock()
	defer h.mu.Unlock()
	subs, ok := h.sessions[sessionID]
	if !ok {
		subs = make(map[*Subscriber]struct{})
		h.sessions[sessionID] = subs
	}
	subs[sub] = struct{}{}
	metrics.IncrementScrollSubscribers()
	return sub
}

// Unsubscribe closes the subscriber's channel. Calling it twice is a no-op.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs, ok := h.sessions[sub.session]
	if !ok {
		return
	}
	if _, ok := subs[sub]; !ok {
		return
	}
	delete(subs, sub)
	close(sub.events)
	metrics.DecrementScrollSubscribers()
	if len(subs) == 0 {
		delete(h.sessions, sub.session)
	}
}

// Publish hands ev to every subscriber of the session. A pending event that
// was not read yet is replaced, so the last event wins.
func (h *Hub) Publish(sessionID string, ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.sessions[sessionID] {
		for {
			select {
			case sub.events <- ev:
			default:
				select {
				case <-sub.events:
				default:
				}
				continue
			}
			break
		}
	}
}

func (h *Hub) Subscribers(sessionID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions[sessionID])
}
