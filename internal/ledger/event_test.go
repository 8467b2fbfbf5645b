package ledger

import (
	"testing"
	"time"

	"bookjourney/internal/apperr"
	"bookjourney/internal/geo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEventType(t *testing.T) {
	for _, s := range []string{"FOUND", "RELEASED", " FOUND "} {
		_, err := ParseEventType(s)
		assert.NoError(t, err, s)
	}
	for _, s := range []string{"", "found", "LOST", "REGISTERED"} {
		_, err := ParseEventType(s)
		assert.Equal(t, apperr.ReasonInvalidEventType, apperr.ReasonOf(err), s)
	}
}

func TestNewDraft(t *testing.T) {
	t.Run("trims and keeps optional fields", func(t *testing.T) {
		loc := geo.Location{Point: &geo.Point{Lat: 1, Lon: 2}, City: " Lyon "}
		d, err := NewDraft("FOUND", "  ann ", " on a bench ", &loc, []string{"img-1", " ", "img-2"})
		require.NoError(t, err)
		assert.Equal(t, Found, d.Type)
		assert.Equal(t, "ann", d.Actor)
		assert.Equal(t, "on a bench", d.Comment)
		require.NotNil(t, d.Location)
		assert.Equal(t, "Lyon", d.Location.City)
		assert.Equal(t, []string{"img-1", "img-2"}, d.Attachments)

		loc.Point.Lat = 50
		assert.Equal(t, 1.0, d.Location.Point.Lat)
	})

	t.Run("empty location is dropped", func(t *testing.T) {
		d, err := NewDraft("RELEASED", "ann", "", &geo.Location{}, nil)
		require.NoError(t, err)
		assert.Nil(t, d.Location)
	})

	t.Run("failures", func(t *testing.T) {
		_, err := NewDraft("LOST", "ann", "", nil, nil)
		assert.Equal(t, apperr.ReasonInvalidEventType, apperr.ReasonOf(err))

		_, err = NewDraft("FOUND", "   ", "", nil, nil)
		assert.Equal(t, apperr.ReasonMissingAttribution, apperr.ReasonOf(err))

		_, err = NewDraft("FOUND", "ann", "", &geo.Location{Point: &geo.Point{Lat: 91}}, nil)
		assert.Equal(t, apperr.ReasonInvalidLocation, apperr.ReasonOf(err))
	})
}

func TestCurrentStatus(t *testing.T) {
	assert.Equal(t, StatusRegistered, CurrentStatus(nil))
	assert.Equal(t, Status("FOUND"), CurrentStatus([]Event{{Type: Released}, {Type: Found}}))
	assert.Equal(t, Status("RELEASED"), CurrentStatus([]Event{{Type: Found}, {Type: Released}}))
}

func TestNextPosition(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("first event", func(t *testing.T) {
		p := NextPosition(Position{}, base.Add(1500))
		assert.Equal(t, int64(1), p.Seq)
		assert.Equal(t, base.Add(time.Microsecond), p.At)
	})

	t.Run("clock moved forward", func(t *testing.T) {
		prev := Position{Seq: 3, At: base}
		p := NextPosition(prev, base.Add(time.Second))
		assert.Equal(t, int64(4), p.Seq)
		assert.Equal(t, base.Add(time.Second), p.At)
	})

	t.Run("same instant is nudged", func(t *testing.T) {
		prev := Position{Seq: 3, At: base}
		p := NextPosition(prev, base)
		assert.Equal(t, base.Add(time.Microsecond), p.At)
	})

	t.Run("clock went backwards", func(t *testing.T) {
		prev := Position{Seq: 3, At: base}
		p := NextPosition(prev, base.Add(-time.Hour))
		assert.True(t, p.At.After(prev.At))
	})

	t.Run("sub-microsecond difference", func(t *testing.T) {
		prev := Position{Seq: 1, At: base}
		p := NextPosition(prev, base.Add(400))
		assert.Equal(t, base.Add(time.Microsecond), p.At)
	})
}
