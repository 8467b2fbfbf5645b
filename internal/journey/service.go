package journey

import (
	"context"

	"bookjourney/internal/ledger"
)

// LedgerReader returns a book's full history, oldest first.
type LedgerReader interface {
	GetLedger(ctx context.Context, bookID string) ([]ledger.Event, error)
}

type Service struct {
	ledger LedgerReader
}

func NewService(l LedgerReader) *Service {
	return &Service{ledger: l}
}

// GetJourneyStatistics summarizes the ledger of bookID. Unknown books
// yield the reader's NotFound error.
func (s *Service) GetJourneyStatistics(ctx context.Context, bookID string) (Statistics, error) {
	events, err := s.ledger.GetLedger(ctx, bookID)
	if err != nil {
		return Statistics{}, err
	}
	return Summarize(events), nil
}
