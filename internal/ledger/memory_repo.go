package ledger

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo keeps one Ledger per book in process memory.
type MemoryRepo struct {
	mu      sync.RWMutex
	ledgers map[string]*Ledger
}

// NewMemoryRepo returns an empty store. Ledgers are created on first append.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{ledgers: make(map[string]*Ledger)}
}

func (r *MemoryRepo) ledger(bookID string) *Ledger {
	r.mu.RLock()
	l, ok := r.ledgers[bookID]
	r.mu.RUnlock()
	if ok {
		return l
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok = r.ledgers[bookID]; !ok {
		l = New(bookID)
		r.ledgers[bookID] = l
	}
	return l
}

func (r *MemoryRepo) Append(_ context.Context, bookID string, d Draft, now time.Time) (Event, error) {
	return r.ledger(bookID).Append(d, now)
}

func (r *MemoryRepo) ListByBook(_ context.Context, bookID string) ([]Event, error) {
	r.mu.RLock()
	l, ok := r.ledgers[bookID]
	r.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return l.Events(), nil
}

func (r *MemoryRepo) ListByBookAfter(_ context.Context, bookID string, afterSeq int64, limit int) ([]Event, error) {
	r.mu.RLock()
	l, ok := r.ledgers[bookID]
	r.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return l.After(afterSeq, limit), nil
}

// ListByActor returns newest first across all books.
func (r *MemoryRepo) ListByActor(_ context.Context, actor string, limit int) ([]Event, error) {
	r.mu.RLock()
	ledgers := make([]*Ledger, 0, len(r.ledgers))
	for _, l := range r.ledgers {
		ledgers = append(ledgers, l)
	}
	r.mu.RUnlock()

	var out []Event
	for _, l := range ledgers {
		for _, e := range l.Events() {
			if e.Actor == actor {
				out = append(out, e)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].BookID < out[j].BookID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
