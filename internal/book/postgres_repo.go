package book

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookjourney/internal/apperr"
	"bookjourney/internal/isbn"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

const selectBookColumns = `
	SELECT id::text, isbn, title, author, description, cover_url, qr_code, created_by, created_at
	FROM books`

func (r *PostgresRepo) Create(ctx context.Context, b Book) error {
	const sql = `
		INSERT INTO books (id, isbn, title, author, description, cover_url, qr_code, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	_, err := r.db.Exec(timeoutCtx, sql,
		b.ID, b.ISBN.String(), b.Title, b.Author, b.Description, b.CoverURL, b.QRCode.String(), b.CreatedBy, b.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting book: %w", err)
	}
	return nil
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (Book, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Book{}, apperr.NotFound("book", id)
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	row := r.db.QueryRow(timeoutCtx, selectBookColumns+` WHERE id = $1`, id)
	b, err := scanBook(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, apperr.NotFound("book", id)
		}
		return Book{}, fmt.Errorf("getting book: %w", err)
	}
	return b, nil
}

func (r *PostgresRepo) GetByQRCode(ctx context.Context, code LabelCode) (Book, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	row := r.db.QueryRow(timeoutCtx, selectBookColumns+` WHERE qr_code = $1`, code.String())
	b, err := scanBook(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, apperr.NotFound("book", code.String())
		}
		return Book{}, fmt.Errorf("getting book by label: %w", err)
	}
	return b, nil
}

func (r *PostgresRepo) ListByCreator(ctx context.Context, creator string, limit int) ([]Book, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Query(timeoutCtx,
		selectBookColumns+` WHERE created_by = $1 ORDER BY created_at DESC LIMIT $2`, creator, limit)
	if err != nil {
		return nil, fmt.Errorf("listing books by creator: %w", err)
	}
	return collectBooks(rows)
}

func (r *PostgresRepo) ListByISBN(ctx context.Context, id isbn.Identifier) ([]Book, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Query(timeoutCtx,
		selectBookColumns+` WHERE isbn = $1 ORDER BY created_at`, id.String())
	if err != nil {
		return nil, fmt.Errorf("listing books by isbn: %w", err)
	}
	return collectBooks(rows)
}

func scanBook(row pgx.Row) (Book, error) {
	var b Book
	var identifier, code string
	err := row.Scan(&b.ID, &identifier, &b.Title, &b.Author, &b.Description, &b.CoverURL, &code, &b.CreatedBy, &b.CreatedAt)
	b.ISBN = isbn.Identifier(identifier)
	b.QRCode = LabelCode(code)
	return b, err
}

func collectBooks(rows pgx.Rows) ([]Book, error) {
	defer rows.Close()
	var out []Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning book: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
