package book

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"bookjourney/internal/apperr"
	"bookjourney/internal/isbn"
	"bookjourney/internal/metrics"

	"github.com/google/uuid"
)

const maxListLimit = 100

// Service provides book registration and lookup.
type Service struct {
	repo      Repository
	meta      MetadataClient
	validator isbn.Validator
	metrics   *metrics.Metrics
	now       func() time.Time
	newID     func() string
	publicURL string
}

// NewService creates a new book service. meta and m may be nil.
func NewService(repo Repository, meta MetadataClient, v isbn.Validator, m *metrics.Metrics) *Service {
	return &Service{
		repo:      repo,
		meta:      meta,
		validator: v,
		metrics:   m,
		now:       time.Now,
		newID:     func() string { return uuid.NewString() },
		publicURL: "http://localhost:8080",
	}
}

// WithPublicURL sets the site that printed labels link to.
func (s *Service) WithPublicURL(u string) *Service {
	s.publicURL = strings.TrimRight(u, "/")
	return s
}

// Create validates and registers a new book. Nothing is persisted when
// validation fails.
func (s *Service) Create(ctx context.Context, p NewParams) (Book, error) {
	b, err := New(s.validator, p, s.newID(), s.now())
	if err != nil {
		s.metrics.IncValidationFailure("create_book", apperr.ReasonOf(err))
		return Book{}, err
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return Book{}, fmt.Errorf("creating book: %w", err)
	}
	s.metrics.IncBooksCreated()
	return b, nil
}

// Get returns a book by id.
func (s *Service) Get(ctx context.Context, id string) (Book, error) {
	if strings.TrimSpace(id) == "" {
		return Book{}, apperr.NotFound("book", id)
	}
	return s.repo.GetByID(ctx, id)
}

// Exists reports whether a book with id has been registered.
func (s *Service) Exists(ctx context.Context, id string) error {
	_, err := s.Get(ctx, id)
	return err
}

// GetByLabel resolves a scanned label code to its book.
func (s *Service) GetByLabel(ctx context.Context, raw string) (Book, error) {
	code, err := ParseLabelCode(raw)
	if err != nil {
		return Book{}, err
	}
	return s.repo.GetByQRCode(ctx, code)
}

// Label renders the printable QR label of a book. The image links to the
// book's page on the public site.
func (s *Service) Label(ctx context.Context, id string, size int) ([]byte, error) {
	if size < MinLabelSize || size > MaxLabelSize {
		return nil, apperr.Validation("size", fmt.Sprintf("must be between %d and %d", MinLabelSize, MaxLabelSize))
	}
	b, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	png, err := EncodeLabelPNG(LabelURL(s.publicURL, b.ID), size)
	if err != nil {
		log.Printf("label render failed: book_id=%s error=%v", b.ID, err)
		return nil, err
	}
	return png, nil
}

// ListByCreator returns the most recent books registered by creator.
func (s *Service) ListByCreator(ctx context.Context, creator string, limit int) ([]Book, error) {
	creator = strings.TrimSpace(creator)
	if creator == "" {
		return nil, apperr.Validation("creator", apperr.ReasonMissingAttribution)
	}
	return s.repo.ListByCreator(ctx, creator, clampLimit(limit))
}

// ListByISBN returns every registered copy sharing an identifier.
func (s *Service) ListByISBN(ctx context.Context, raw string) ([]Book, error) {
	id, err := s.validator.Validate(raw)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByISBN(ctx, id)
}

// Lookup asks the external catalog for metadata to prefill a new book.
func (s *Service) Lookup(ctx context.Context, raw string) (Metadata, error) {
	id, err := s.validator.Validate(raw)
	if err != nil {
		return Metadata{}, err
	}
	if s.meta == nil {
		return Metadata{}, apperr.NotFound("metadata", id.String())
	}

	res, err := s.meta.GetBooksByISBN(ctx, []string{id.String()})
	if err != nil {
		s.metrics.IncMetadataLookup("error")
		log.Printf("metadata lookup failed: isbn=%s error=%v", id, err)
		return Metadata{}, fmt.Errorf("looking up %s: %w", id, err)
	}

	details, ok := res["ISBN:"+id.String()]
	if !ok || strings.TrimSpace(details.Title) == "" {
		s.metrics.IncMetadataLookup("miss")
		return Metadata{}, apperr.NotFound("metadata", id.String())
	}
	s.metrics.IncMetadataLookup("hit")

	title := details.Title
	if details.Subtitle != "" {
		title += ": " + details.Subtitle
	}
	cover := details.Cover.Large
	if cover == "" {
		cover = details.Cover.Medium
	}
	return Metadata{
		ISBN:        id,
		Title:       title,
		Author:      details.AuthorNames(),
		Description: details.Description(),
		CoverURL:    strings.Replace(cover, "http://", "https://", 1),
	}, nil
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > maxListLimit {
		return 20
	}
	return limit
}
