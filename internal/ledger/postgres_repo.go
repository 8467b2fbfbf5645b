package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookjourney/internal/apperr"
	"bookjourney/internal/geo"

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

const selectEventColumns = `
	SELECT book_id::text, seq, type, actor, comment, latitude, longitude, city, country, attachments, created_at
	FROM custody_events`

// Append locks the book row so concurrent appends to the same book are
// serialized, then writes the event at the position after the current tail.
func (r *PostgresRepo) Append(ctx context.Context, bookID string, d Draft, now time.Time) (Event, error) {
	d, err := d.normalize()
	if err != nil {
		return Event{}, err
	}
	if _, err := uuid.Parse(bookID); err != nil {
		return Event{}, apperr.NotFound("book", bookID)
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.BeginTx(timeoutCtx, pgx.TxOptions{})
	if err != nil {
		return Event{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(timeoutCtx)

	var locked string
	err = tx.QueryRow(timeoutCtx, `SELECT id::text FROM books WHERE id = $1 FOR UPDATE`, bookID).Scan(&locked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Event{}, apperr.NotFound("book", bookID)
		}
		return Event{}, fmt.Errorf("locking book: %w", err)
	}

	var prev Position
	err = tx.QueryRow(timeoutCtx,
		`SELECT seq, created_at FROM custody_events WHERE book_id = $1 ORDER BY seq DESC LIMIT 1`, bookID,
	).Scan(&prev.Seq, &prev.At)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return Event{}, fmt.Errorf("reading ledger tail: %w", err)
	}

	ev := d.event(bookID, NextPosition(prev, now))

	var lat, lon *float64
	var city, country string
	if ev.Location != nil {
		city, country = ev.Location.City, ev.Location.Country
		if ev.Location.Point != nil {
			lat, lon = &ev.Location.Point.Lat, &ev.Location.Point.Lon
		}
	}
	attachments := ev.Attachments
	if attachments == nil {
		attachments = []string{}
	}

	const insert = `
		INSERT INTO custody_events
			(book_id, seq, type, actor, comment, latitude, longitude, city, country, attachments, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err = tx.Exec(timeoutCtx, insert,
		bookID, ev.Seq, string(ev.Type), ev.Actor, ev.Comment, lat, lon, city, country, attachments, ev.CreatedAt,
	)
	if err != nil {
		return Event{}, fmt.Errorf("inserting custody event: %w", err)
	}
	if err := tx.Commit(timeoutCtx); err != nil {
		return Event{}, fmt.Errorf("committing custody event: %w", err)
	}
	return ev, nil
}

func (r *PostgresRepo) ListByBook(ctx context.Context, bookID string) ([]Event, error) {
	return r.ListByBookAfter(ctx, bookID, 0, 0)
}

// ListByBookAfter returns events with seq > afterSeq, oldest first. A limit
// of zero means no limit.
func (r *PostgresRepo) ListByBookAfter(ctx context.Context, bookID string, afterSeq int64, limit int) ([]Event, error) {
	if _, err := uuid.Parse(bookID); err != nil {
		return nil, nil
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var lim *int
	if limit > 0 {
		lim = &limit
	}
	rows, err := r.db.Query(timeoutCtx,
		selectEventColumns+` WHERE book_id = $1 AND seq > $2 ORDER BY seq LIMIT $3`, bookID, afterSeq, lim)
	if err != nil {
		return nil, fmt.Errorf("listing custody events: %w", err)
	}
	return collectEvents(rows)
}

func (r *PostgresRepo) ListByActor(ctx context.Context, actor string, limit int) ([]Event, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Query(timeoutCtx,
		selectEventColumns+` WHERE actor = $1 ORDER BY created_at DESC, book_id LIMIT $2`, actor, limit)
	if err != nil {
		return nil, fmt.Errorf("listing custody events by actor: %w", err)
	}
	return collectEvents(rows)
}

func scanEvent(row pgx.Row) (Event, error) {
	var (
		e             Event
		eventType     string
		lat, lon      *float64
		city, country string
	)
	err := row.Scan(&e.BookID, &e.Seq, &eventType, &e.Actor, &e.Comment,
		&lat, &lon, &city, &country, &e.Attachments, &e.CreatedAt)
	if err != nil {
		return Event{}, err
	}
	e.Type = EventType(eventType)
	e.CreatedAt = e.CreatedAt.UTC()
	if len(e.Attachments) == 0 {
		e.Attachments = nil
	}

	loc := geo.Location{City: city, Country: country}
	if lat != nil && lon != nil {
		loc.Point = &geo.Point{Lat: *lat, Lon: *lon}
	}
	if !loc.IsZero() {
		e.Location = &loc
	}
	return e, nil
}

func collectEvents(rows pgx.Rows) ([]Event, error) {
	defer rows.Close()
	var out []Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning custody event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
