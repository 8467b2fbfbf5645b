package book

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"bookjourney/internal/apperr"
	"bookjourney/internal/isbn"
	"bookjourney/internal/metrics"
	"bookjourney/internal/platform/openlibrary"

	"github.com/golang/mock/gomock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, *MockRepository, *MockMetadataClient, *metrics.Metrics) {
	ctrl := gomock.NewController(t)
	repo := NewMockRepository(ctrl)
	meta := NewMockMetadataClient(ctrl)
	m := metrics.New(prometheus.NewRegistry())
	s := NewService(repo, meta, isbn.Default, m)
	s.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	s.newID = func() string { return "fixed-id" }
	return s, repo, meta, m
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		s, repo, _, m := newTestService(t)
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, b Book) error {
			assert.Equal(t, "fixed-id", b.ID)
			assert.Equal(t, isbn.Identifier("0306406152"), b.ISBN)
			return nil
		})

		b, err := s.Create(ctx, NewParams{ISBN: "0306406152", Title: "Waves", Creator: "ann"})
		require.NoError(t, err)
		assert.Equal(t, "Waves", b.Title)
		assert.Equal(t, 1.0, testutil.ToFloat64(m.BooksCreated))
	})

	t.Run("validation error persists nothing", func(t *testing.T) {
		s, repo, _, m := newTestService(t)
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)

		_, err := s.Create(ctx, NewParams{ISBN: "0306406152", Title: "", Creator: "ann"})
		assert.Equal(t, apperr.ReasonMissingTitle, apperr.ReasonOf(err))
		assert.Equal(t, 1.0, testutil.ToFloat64(m.ValidationFailures.WithLabelValues("create_book", apperr.ReasonMissingTitle)))
		assert.Equal(t, 0.0, testutil.ToFloat64(m.BooksCreated))
	})

	t.Run("repository error", func(t *testing.T) {
		s, repo, _, _ := newTestService(t)
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("db down"))

		_, err := s.Create(ctx, NewParams{ISBN: "0306406152", Title: "Waves", Creator: "ann"})
		assert.Error(t, err)
		assert.False(t, apperr.IsValidation(err))
	})
}

func TestService_Get(t *testing.T) {
	s, repo, _, _ := newTestService(t)
	repo.EXPECT().GetByID(gomock.Any(), "x").Return(Book{}, apperr.NotFound("book", "x"))

	_, err := s.Get(context.Background(), "x")
	assert.True(t, apperr.IsNotFound(err))

	_, err = s.Get(context.Background(), " ")
	assert.True(t, apperr.IsNotFound(err))
}

func TestService_GetByLabel(t *testing.T) {
	s, repo, _, _ := newTestService(t)
	repo.EXPECT().GetByQRCode(gomock.Any(), LabelCode("7K3MZ9Q2XW4H")).Return(Book{ID: "b1"}, nil)

	b, err := s.GetByLabel(context.Background(), "7k3mz9q2xw4h")
	require.NoError(t, err)
	assert.Equal(t, "b1", b.ID)

	_, err = s.GetByLabel(context.Background(), "not-a-code")
	assert.Equal(t, apperr.ReasonInvalidLabelCode, apperr.ReasonOf(err))
}

func TestService_Label(t *testing.T) {
	ctx := context.Background()

	t.Run("renders png", func(t *testing.T) {
		s, repo, _, _ := newTestService(t)
		s.WithPublicURL("https://books.example.org/")
		repo.EXPECT().GetByID(gomock.Any(), "b1").Return(Book{ID: "b1"}, nil)

		img, err := s.Label(ctx, "b1", DefaultLabelSize)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(img, []byte("\x89PNG")))
		assert.Equal(t, "https://books.example.org", s.publicURL)
	})

	t.Run("unknown book", func(t *testing.T) {
		s, repo, _, _ := newTestService(t)
		repo.EXPECT().GetByID(gomock.Any(), "nope").Return(Book{}, apperr.NotFound("book", "nope"))

		_, err := s.Label(ctx, "nope", DefaultLabelSize)
		assert.True(t, apperr.IsNotFound(err))
	})

	t.Run("size out of range skips lookup", func(t *testing.T) {
		s, repo, _, _ := newTestService(t)
		repo.EXPECT().GetByID(gomock.Any(), gomock.Any()).Times(0)

		for _, size := range []int{0, MinLabelSize - 1, MaxLabelSize + 1} {
			_, err := s.Label(ctx, "b1", size)
			assert.True(t, apperr.IsValidation(err), "size %d", size)
		}
	})
}

func TestService_ListByCreator(t *testing.T) {
	s, repo, _, _ := newTestService(t)
	repo.EXPECT().ListByCreator(gomock.Any(), "ann", 20).Return([]Book{{ID: "a"}}, nil)

	books, err := s.ListByCreator(context.Background(), " ann ", 0)
	require.NoError(t, err)
	assert.Len(t, books, 1)

	_, err = s.ListByCreator(context.Background(), "", 5)
	assert.Equal(t, apperr.ReasonMissingAttribution, apperr.ReasonOf(err))
}

func TestService_ListByISBN(t *testing.T) {
	s, repo, _, _ := newTestService(t)
	repo.EXPECT().ListByISBN(gomock.Any(), isbn.Identifier("9780306406157")).Return(nil, nil)

	_, err := s.ListByISBN(context.Background(), "978-0-306-40615-7")
	require.NoError(t, err)

	_, err = s.ListByISBN(context.Background(), "123")
	assert.Equal(t, apperr.ReasonInvalidIdentifier, apperr.ReasonOf(err))
}

func TestService_Lookup(t *testing.T) {
	ctx := context.Background()

	t.Run("hit", func(t *testing.T) {
		s, _, meta, m := newTestService(t)
		details := openlibrary.BookDetails{Title: "Dune", Subtitle: "Deluxe", Notes: "Spice."}
		details.Cover.Medium = "http://covers.openlibrary.org/b/id/1-M.jpg"
		meta.EXPECT().GetBooksByISBN(gomock.Any(), []string{"9780306406157"}).
			Return(map[string]openlibrary.BookDetails{"ISBN:9780306406157": details}, nil)

		md, err := s.Lookup(ctx, "9780306406157")
		require.NoError(t, err)
		assert.Equal(t, "Dune: Deluxe", md.Title)
		assert.Equal(t, "Spice.", md.Description)
		assert.Equal(t, "https://covers.openlibrary.org/b/id/1-M.jpg", md.CoverURL)
		assert.Equal(t, 1.0, testutil.ToFloat64(m.MetadataLookups.WithLabelValues("hit")))
	})

	t.Run("miss", func(t *testing.T) {
		s, _, meta, _ := newTestService(t)
		meta.EXPECT().GetBooksByISBN(gomock.Any(), gomock.Any()).Return(map[string]openlibrary.BookDetails{}, nil)

		_, err := s.Lookup(ctx, "0306406152")
		assert.True(t, apperr.IsNotFound(err))
	})

	t.Run("upstream error", func(t *testing.T) {
		s, _, meta, _ := newTestService(t)
		meta.EXPECT().GetBooksByISBN(gomock.Any(), gomock.Any()).Return(nil, errors.New("timeout"))

		_, err := s.Lookup(ctx, "0306406152")
		assert.Error(t, err)
		assert.False(t, apperr.IsNotFound(err))
	})

	t.Run("invalid isbn skips upstream", func(t *testing.T) {
		s, _, meta, _ := newTestService(t)
		meta.EXPECT().GetBooksByISBN(gomock.Any(), gomock.Any()).Times(0)

		_, err := s.Lookup(ctx, "0306406151")
		assert.True(t, apperr.IsValidation(err))
	})

	t.Run("no client configured", func(t *testing.T) {
		s := NewService(NewMemoryRepo(), nil, isbn.Default, nil)
		_, err := s.Lookup(ctx, "0306406152")
		assert.True(t, apperr.IsNotFound(err))
	})
}
