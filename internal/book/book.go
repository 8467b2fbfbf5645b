package book

import (
	"strings"
	"time"

	"bookjourney/internal/apperr"
	"bookjourney/internal/isbn"
)

// Book is a registered physical copy. It is immutable once created; its
// history lives in the custody ledger.
type Book struct {
	ID          string          `json:"id"`
	ISBN        isbn.Identifier `json:"isbn"`
	Title       string          `json:"title"`
	Author      string          `json:"author,omitempty"`
	Description string          `json:"description,omitempty"`
	CoverURL    string          `json:"cover_url,omitempty"`
	QRCode      LabelCode       `json:"qr_code"`
	CreatedBy   string          `json:"created_by"`
	CreatedAt   time.Time       `json:"created_at"`
}

// NewParams are the caller-supplied fields of a new book.
type NewParams struct {
	ISBN        string
	Title       string
	Author      string
	Description string
	CoverURL    string
	Creator     string
}

// New validates p and builds a Book with the given id and creation time. The
// book gets a fresh label code for its printed QR sticker.
func New(v isbn.Validator, p NewParams, id string, now time.Time) (Book, error) {
	identifier, err := v.Validate(p.ISBN)
	if err != nil {
		return Book{}, err
	}

	title := strings.TrimSpace(p.Title)
	if title == "" {
		return Book{}, apperr.Validation("title", apperr.ReasonMissingTitle)
	}

	creator := strings.TrimSpace(p.Creator)
	if creator == "" {
		return Book{}, apperr.Validation("creator", apperr.ReasonMissingAttribution)
	}

	return Book{
		ID:          id,
		ISBN:        identifier,
		Title:       title,
		Author:      strings.TrimSpace(p.Author),
		Description: strings.TrimSpace(p.Description),
		CoverURL:    strings.TrimSpace(p.CoverURL),
		QRCode:      newLabelCode(),
		CreatedBy:   creator,
		CreatedAt:   now.UTC().Truncate(time.Microsecond),
	}, nil
}

// Metadata is a catalog suggestion used to prefill a new book.
type Metadata struct {
	ISBN        isbn.Identifier `json:"isbn"`
	Title       string          `json:"title"`
	Author      string          `json:"author,omitempty"`
	Description string          `json:"description,omitempty"`
	CoverURL    string          `json:"cover_url,omitempty"`
}
