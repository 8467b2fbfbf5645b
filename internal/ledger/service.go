package ledger

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"bookjourney/internal/apperr"
	"bookjourney/internal/geo"
	"bookjourney/internal/metrics"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// ReportParams is an unvalidated custody report.
type ReportParams struct {
	Type        string
	Actor       string
	Comment     string
	Latitude    *float64
	Longitude   *float64
	City        string
	Country     string
	Attachments []string
}

func (p ReportParams) draft() (Draft, error) {
	loc, err := geo.NewLocation(p.Latitude, p.Longitude, p.City, p.Country)
	if err != nil {
		if _, typeErr := ParseEventType(p.Type); typeErr != nil {
			return Draft{}, typeErr
		}
		return Draft{}, err
	}
	return NewDraft(p.Type, p.Actor, p.Comment, &loc, p.Attachments)
}

// Page is one window of a book's ledger, oldest first.
type Page struct {
	Events     []Event `json:"events"`
	NextCursor string  `json:"next_cursor,omitempty"`
}

// Service records and reads custody events.
type Service struct {
	repo    Repository
	books   BookChecker
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewService creates a new ledger service. m may be nil.
func NewService(repo Repository, books BookChecker, m *metrics.Metrics) *Service {
	return &Service{repo: repo, books: books, metrics: m, now: time.Now}
}

// RequireBook returns a NotFoundError unless bookID is registered.
func (s *Service) RequireBook(ctx context.Context, bookID string) error {
	return s.books.Exists(ctx, bookID)
}

// ReportCustody appends a FOUND or RELEASED event to a book's ledger. The
// book must exist; nothing is appended when validation fails.
func (s *Service) ReportCustody(ctx context.Context, bookID string, p ReportParams) (Event, error) {
	if err := s.RequireBook(ctx, bookID); err != nil {
		return Event{}, err
	}

	d, err := p.draft()
	if err != nil {
		s.metrics.IncValidationFailure("report_custody", apperr.ReasonOf(err))
		return Event{}, err
	}

	ev, err := s.repo.Append(ctx, bookID, d, s.now())
	if err != nil {
		if apperr.IsNotFound(err) || apperr.IsValidation(err) {
			return Event{}, err
		}
		return Event{}, fmt.Errorf("appending custody event: %w", err)
	}
	s.metrics.IncCustodyEvent(string(ev.Type))
	log.Printf("custody reported: book_id=%s seq=%d type=%s", bookID, ev.Seq, ev.Type)
	return ev, nil
}

// GetLedger returns a book's full history, oldest first.
func (s *Service) GetLedger(ctx context.Context, bookID string) ([]Event, error) {
	if err := s.books.Exists(ctx, bookID); err != nil {
		return nil, err
	}
	events, err := s.repo.ListByBook(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("listing ledger: %w", err)
	}
	return events, nil
}

// Page returns up to limit events following the cursor position.
func (s *Service) Page(ctx context.Context, bookID, cursor string, limit int) (Page, error) {
	if err := s.books.Exists(ctx, bookID); err != nil {
		return Page{}, err
	}
	c, err := DecodeCursor(cursor)
	if err != nil {
		return Page{}, err
	}
	if limit <= 0 || limit > maxPageSize {
		limit = defaultPageSize
	}

	// One extra row tells us whether another page exists.
	events, err := s.repo.ListByBookAfter(ctx, bookID, c.AfterSeq, limit+1)
	if err != nil {
		return Page{}, fmt.Errorf("paging ledger: %w", err)
	}

	page := Page{Events: events}
	if len(events) > limit {
		page.Events = events[:limit]
		page.NextCursor = EncodeCursor(CursorData{AfterSeq: page.Events[limit-1].Seq})
	}
	if page.Events == nil {
		page.Events = []Event{}
	}
	return page, nil
}

// CurrentStatus folds the ledger into the book's present state.
func (s *Service) CurrentStatus(ctx context.Context, bookID string) (Status, error) {
	events, err := s.GetLedger(ctx, bookID)
	if err != nil {
		return "", err
	}
	return CurrentStatus(events), nil
}

// ListByActor returns the most recent events an actor reported.
func (s *Service) ListByActor(ctx context.Context, actor string, limit int) ([]Event, error) {
	actor = strings.TrimSpace(actor)
	if actor == "" {
		return nil, apperr.Validation("actor", apperr.ReasonMissingAttribution)
	}
	if limit <= 0 || limit > maxPageSize {
		limit = defaultPageSize
	}
	events, err := s.repo.ListByActor(ctx, actor, limit)
	if err != nil {
		return nil, fmt.Errorf("listing events by actor: %w", err)
	}
	return events, nil
}
