// Package status condenses the widget's state machines into one line for
// the tray and fans updates out to subscribers.
package status

import (
	"sync"

	"tiltclock/internal/core/clock"
)

// priority orders sources for the summary line, most urgent first.
var priority = []Source{SourceAlarm, SourceTimer, SourceStopwatch}

// Hub keeps the latest event per source.
type Hub struct {
	mu     sync.Mutex
	clock  clock.Clock
	latest map[Source]Event
	events []chan Event
	closed bool
}

// NewHub creates an empty hub. clk stamps events; it may be nil.
func NewHub(clk clock.Clock) *Hub {
	return &Hub{clock: clk, latest: map[Source]Event{}}
}

// Subscribe registers a new observer channel. Slow observers miss events
// rather than block publishers.
func (hub *Hub) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	hub.mu.Lock()
	defer hub.mu.Unlock()
	if hub.closed {
		close(ch)
		return ch
	}
	hub.events = append(hub.events, ch)
	return ch
}

// Publish records event and forwards it when it differs from the last
// event of the same source. It reports whether the event was forwarded.
func (hub *Hub) Publish(event Event) bool {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	if hub.closed {
		return false
	}
	if previous, ok := hub.latest[event.Source]; ok && sameState(previous, event) {
		return false
	}
	if hub.clock != nil {
		event.At = hub.clock.Now()
	}
	hub.latest[event.Source] = event
	hub.emitLocked(event)
	return true
}

// Latest returns the last event of source.
func (hub *Hub) Latest(source Source) (Event, bool) {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	event, ok := hub.latest[source]
	return event, ok
}

// Summary returns the status line: a ringing alarm first, then whatever is
// counting, then any remaining non-empty state, then the visible view.
func (hub *Hub) Summary() string {
	hub.mu.Lock()
	defer hub.mu.Unlock()

	for _, source := range priority {
		if event, ok := hub.latest[source]; ok && event.Active && event.Text != "" {
			return event.Text
		}
	}
	for _, source := range priority {
		if event, ok := hub.latest[source]; ok && event.Text != "" {
			return event.Text
		}
	}
	if event, ok := hub.latest[SourceView]; ok {
		return event.Text
	}
	return "idle"
}

// Close closes every subscriber channel. Later publishes are dropped.
func (hub *Hub) Close() {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	if hub.closed {
		return
	}
	hub.closed = true
	for _, ch := range hub.events {
		close(ch)
	}
	hub.events = nil
}

func (hub *Hub) emitLocked(event Event) {
	for _, ch := range hub.events {
		select {
		case ch <- event:
		default:
		}
	}
}

func sameState(a, b Event) bool {
	return a.Text == b.Text && a.Active == b.Active && a.Ringing == b.Ringing && a.View == b.View
}
