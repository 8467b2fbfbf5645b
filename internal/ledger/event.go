// Package ledger records the append-only custody history of a book.
package ledger

import (
	"strings"
	"time"

	"bookjourney/internal/apperr"
	"bookjourney/internal/geo"
)

// EventType is what happened to the book. The set is closed.
type EventType string

const (
	Found    EventType = "FOUND"
	Released EventType = "RELEASED"
)

// ParseEventType accepts exactly FOUND or RELEASED.
func ParseEventType(s string) (EventType, error) {
	switch t := EventType(strings.TrimSpace(s)); t {
	case Found, Released:
		return t, nil
	default:
		return "", apperr.Validation("type", apperr.ReasonInvalidEventType)
	}
}

// Status is the book's current custody state, folded from its ledger.
type Status string

// StatusRegistered is the status of a book nobody has reported on yet.
const StatusRegistered Status = "REGISTERED"

// CurrentStatus returns the type of the last event, oldest-first input.
func CurrentStatus(events []Event) Status {
	if len(events) == 0 {
		return StatusRegistered
	}
	return Status(events[len(events)-1].Type)
}

// Event is one immutable entry of a book's ledger.
type Event struct {
	BookID      string        `json:"book_id"`
	Seq         int64         `json:"seq"`
	Type        EventType     `json:"type"`
	Actor       string        `json:"actor"`
	Comment     string        `json:"comment,omitempty"`
	Location    *geo.Location `json:"location,omitempty"`
	Attachments []string      `json:"attachments,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}

// Position returns the event's place in its book's total order.
func (e Event) Position() Position {
	return Position{Seq: e.Seq, At: e.CreatedAt}
}

func (e Event) clone() Event {
	if e.Location != nil {
		loc := *e.Location
		if loc.Point != nil {
			p := *loc.Point
			loc.Point = &p
		}
		e.Location = &loc
	}
	if e.Attachments != nil {
		e.Attachments = append([]string(nil), e.Attachments...)
	}
	return e
}

// Draft is a validated request to append an event.
type Draft struct {
	Type        EventType
	Actor       string
	Comment     string
	Location    *geo.Location
	Attachments []string
}

// NewDraft validates the caller's input. The location, if any, must carry
// in-range coordinates; empty locations are dropped.
func NewDraft(eventType, actor, comment string, loc *geo.Location, attachments []string) (Draft, error) {
	t, err := ParseEventType(eventType)
	if err != nil {
		return Draft{}, err
	}

	d := Draft{
		Type:    t,
		Actor:   strings.TrimSpace(actor),
		Comment: strings.TrimSpace(comment),
	}
	if d.Actor == "" {
		return Draft{}, apperr.Validation("actor", apperr.ReasonMissingAttribution)
	}

	if loc != nil && !loc.IsZero() {
		if err := loc.Validate(); err != nil {
			return Draft{}, err
		}
		l := geo.Location{
			City:    strings.TrimSpace(loc.City),
			Country: strings.TrimSpace(loc.Country),
		}
		if loc.Point != nil {
			p := *loc.Point
			l.Point = &p
		}
		d.Location = &l
	}

	for _, a := range attachments {
		if a = strings.TrimSpace(a); a != "" {
			d.Attachments = append(d.Attachments, a)
		}
	}
	return d, nil
}

// Validate re-checks a draft that may not have come from NewDraft.
func (d Draft) Validate() error {
	_, err := d.normalize()
	return err
}

func (d Draft) normalize() (Draft, error) {
	return NewDraft(string(d.Type), d.Actor, d.Comment, d.Location, d.Attachments)
}

func (d Draft) event(bookID string, pos Position) Event {
	return Event{
		BookID:      bookID,
		Seq:         pos.Seq,
		Type:        d.Type,
		Actor:       d.Actor,
		Comment:     d.Comment,
		Location:    d.Location,
		Attachments: d.Attachments,
		CreatedAt:   pos.At,
	}.clone()
}
