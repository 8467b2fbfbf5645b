package book

import (
	"context"

	"bookjourney/internal/isbn"
	"bookjourney/internal/platform/openlibrary"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=book

// Repository defines the contract for book storage. Books are insert-only.
type Repository interface {
	Create(ctx context.Context, b Book) error
	GetByID(ctx context.Context, id string) (Book, error)
	GetByQRCode(ctx context.Context, code LabelCode) (Book, error)
	ListByCreator(ctx context.Context, creator string, limit int) ([]Book, error)
	ListByISBN(ctx context.Context, id isbn.Identifier) ([]Book, error)
}

// MetadataClient looks up catalog data for an ISBN.
type MetadataClient interface {
	GetBooksByISBN(ctx context.Context, isbns []string) (map[string]openlibrary.BookDetails, error)
}
