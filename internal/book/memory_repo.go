package book

import (
	"context"
	"sync"

	"bookjourney/internal/apperr"
	"bookjourney/internal/isbn"
)

// MemoryRepo keeps books in process memory, in registration order.
type MemoryRepo struct {
	mu     sync.RWMutex
	byID   map[string]Book
	byCode map[LabelCode]string
	order  []string
}

// NewMemoryRepo returns an empty in-memory book store for local runs and tests.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]Book), byCode: make(map[LabelCode]string)}
}

func (r *MemoryRepo) Create(_ context.Context, b Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byID[b.ID]; exists {
		return apperr.Validation("id", "duplicate book id")
	}
	if _, exists := r.byCode[b.QRCode]; exists {
		return apperr.Validation("qr_code", "duplicate label code")
	}
	r.byID[b.ID] = b
	r.byCode[b.QRCode] = b.ID
	r.order = append(r.order, b.ID)
	return nil
}

func (r *MemoryRepo) GetByID(_ context.Context, id string) (Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.byID[id]
	if !ok {
		return Book{}, apperr.NotFound("book", id)
	}
	return b, nil
}

func (r *MemoryRepo) GetByQRCode(_ context.Context, code LabelCode) (Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byCode[code]
	if !ok {
		return Book{}, apperr.NotFound("book", code.String())
	}
	return r.byID[id], nil
}

// ListByCreator returns newest first.
func (r *MemoryRepo) ListByCreator(_ context.Context, creator string, limit int) ([]Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Book
	for i := len(r.order) - 1; i >= 0 && len(out) < limit; i-- {
		if b := r.byID[r.order[i]]; b.CreatedBy == creator {
			out = append(out, b)
		}
	}
	return out, nil
}

// ListByISBN returns oldest first.
func (r *MemoryRepo) ListByISBN(_ context.Context, id isbn.Identifier) ([]Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Book
	for _, bookID := range r.order {
		if b := r.byID[bookID]; b.ISBN == id {
			out = append(out, b)
		}
	}
	return out, nil
}
