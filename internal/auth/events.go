// Package auth publishes authentication-state changes as an explicit event
// stream. Components that care about logins and logouts subscribe at
// startup and unsubscribe at teardown instead of registering callbacks.
package auth

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event kinds carried by the stream.
const (
	EventLogin  = "login"
	EventLogout = "logout"
)

// Event describes one authentication-state change.
type Event struct {
	Kind      string
	AccountID uuid.UUID
	Sub       string
	At        time.Time
}

// Events fans authentication-state changes out to subscribers. Publishing
// never blocks: a subscriber that has fallen behind misses events rather
// than stalling the login path.
type Events struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan Event
	closed bool
}

// NewEvents creates an event stream.
func NewEvents() *Events {
	return &Events{subs: make(map[int]chan Event)}
}

// Subscribe registers a new subscriber and returns its channel along with
// an unsubscribe function. The channel is closed on unsubscribe or when the
// stream shuts down.
func (e *Events) Subscribe() (<-chan Event, func()) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ch := make(chan Event, 16)
	if e.closed {
		close(ch)
		return ch, func() {}
	}

	id := e.nextID
	e.nextID++
	e.subs[id] = ch

	unsubscribe := func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if sub, ok := e.subs[id]; ok {
			delete(e.subs, id)
			close(sub)
		}
	}
	return ch, unsubscribe
}

// Publish delivers an event to every subscriber that can accept it.
func (e *Events) Publish(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	for _, ch := range e.subs {
		select {
		case ch <- ev:
		default:
			// Slow subscriber; drop rather than block the caller.
		}
	}
}

// Close shuts the stream down and closes all subscriber channels.
func (e *Events) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	for id, ch := range e.subs {
		delete(e.subs, id)
		close(ch)
	}
}
