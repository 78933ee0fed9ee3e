package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestEventsFanOut(t *testing.T) {
	events := NewEvents()
	defer events.Close()

	ch1, unsub1 := events.Subscribe()
	ch2, unsub2 := events.Subscribe()
	defer unsub1()
	defer unsub2()

	id := uuid.New()
	events.Publish(Event{Kind: EventLogin, AccountID: id, Sub: "sub-1"})

	for i, ch := range []<-chan Event{ch1, ch2} {
		select {
		case ev := <-ch:
			if ev.Kind != EventLogin || ev.AccountID != id {
				t.Errorf("subscriber %d got %+v, want login for %v", i, ev, id)
			}
			if ev.At.IsZero() {
				t.Errorf("subscriber %d: event timestamp not set", i)
			}
		case <-time.After(time.Second):
			t.Fatalf("subscriber %d did not receive the event", i)
		}
	}
}

func TestEventsUnsubscribe(t *testing.T) {
	events := NewEvents()
	defer events.Close()

	ch, unsub := events.Subscribe()
	unsub()

	if _, open := <-ch; open {
		t.Error("unsubscribed channel should be closed")
	}

	// Publishing after unsubscribe must not panic.
	events.Publish(Event{Kind: EventLogout, Sub: "sub-1"})

	// Unsubscribing twice is harmless.
	unsub()
}

func TestEventsSlowSubscriberDoesNotBlock(t *testing.T) {
	events := NewEvents()
	defer events.Close()

	_, unsub := events.Subscribe() // never drained
	defer unsub()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			events.Publish(Event{Kind: EventLogin, Sub: "sub-flood"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a slow subscriber")
	}
}

func TestEventsClose(t *testing.T) {
	events := NewEvents()
	ch, _ := events.Subscribe()

	events.Close()

	if _, open := <-ch; open {
		t.Error("channel should be closed after stream shutdown")
	}

	// Subscribe after close yields a closed channel.
	ch2, _ := events.Subscribe()
	if _, open := <-ch2; open {
		t.Error("subscription after close should be closed immediately")
	}
}
