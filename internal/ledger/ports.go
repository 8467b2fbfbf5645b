package ledger

import (
	"context"
	"time"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=ledger

// Repository stores custody events. Implementations assign the position of
// each appended event atomically per book; there is no update or delete.
type Repository interface {
	Append(ctx context.Context, bookID string, d Draft, now time.Time) (Event, error)
	ListByBook(ctx context.Context, bookID string) ([]Event, error)
	ListByBookAfter(ctx context.Context, bookID string, afterSeq int64, limit int) ([]Event, error)
	ListByActor(ctx context.Context, actor string, limit int) ([]Event, error)
}

// BookChecker reports whether a book is registered.
type BookChecker interface {
	Exists(ctx context.Context, id string) error
}
