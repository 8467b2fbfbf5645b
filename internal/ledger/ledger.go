package ledger

import (
	"sync"
	"time"
)

// Ledger is the in-memory append-only history of a single book. It is safe
// for concurrent use; appends are linearized by its mutex.
type Ledger struct {
	bookID string

	mu     sync.RWMutex
	events []Event
}

// New returns an empty ledger for bookID.
func New(bookID string) *Ledger {
	return &Ledger{bookID: bookID}
}

// Append validates d and adds it at the next position. A failed append
// leaves the ledger unchanged.
func (l *Ledger) Append(d Draft, now time.Time) (Event, error) {
	d, err := d.normalize()
	if err != nil {
		return Event{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	var prev Position
	if n := len(l.events); n > 0 {
		prev = l.events[n-1].Position()
	}
	ev := d.event(l.bookID, NextPosition(prev, now))
	l.events = append(l.events, ev)
	return ev.clone(), nil
}

// Events returns the full history, oldest first.
func (l *Ledger) Events() []Event {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return cloneAll(l.events)
}

// After returns up to limit events with Seq greater than afterSeq.
func (l *Ledger) After(afterSeq int64, limit int) []Event {
	l.mu.RLock()
	defer l.mu.RUnlock()

	// Seq n lives at index n-1.
	start := int(afterSeq)
	if start < 0 {
		start = 0
	}
	if start >= len(l.events) {
		return nil
	}
	end := len(l.events)
	if limit > 0 && start+limit < end {
		end = start + limit
	}
	return cloneAll(l.events[start:end])
}

func cloneAll(events []Event) []Event {
	out := make([]Event, len(events))
	for i, e := range events {
		out[i] = e.clone()
	}
	return out
}
