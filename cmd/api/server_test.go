package main

import (
	"context"
	"encoding/json"
	"errors"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bookjourney/internal/book"
	"bookjourney/internal/config"
	"bookjourney/internal/isbn"
	"bookjourney/internal/ledger"
	"bookjourney/internal/testutil"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("down") }

func testConfig() config.Config {
	return config.Config{
		ISBNFormats:    isbn.AllFormats,
		RateLimitRPS:   1000,
		RateLimitBurst: 1000,
		MaxBodyBytes:   1 << 20,
		JWTSecret:      "test-secret",
	}
}

func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	h := newHandler(testContext(t), testConfig(), dependencies{
		books:    book.NewMemoryRepo(),
		events:   ledger.NewMemoryRepo(),
		registry: prometheus.NewRegistry(),
	})
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func do(t *testing.T, method, url, body, token string) (int, envelope) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	_ = json.NewDecoder(resp.Body).Decode(&env)
	return resp.StatusCode, env
}

func TestServer_BookJourney(t *testing.T) {
	srv := newTestServer(t)

	code, env := do(t, http.MethodPost, srv.URL+"/books", `{"isbn":"978-0-306-40615-7","title":"Waves","guest_name":"Ann"}`, "")
	require.Equal(t, http.StatusCreated, code)
	var created book.Book
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, isbn.Identifier("9780306406157"), created.ISBN)

	eventsURL := srv.URL + "/books/" + created.ID + "/events"
	code, _ = do(t, http.MethodPost, eventsURL, `{"type":"RELEASED","guest_name":"Ann","latitude":0,"longitude":0,"city":"Accra","country":"Ghana"}`, "")
	require.Equal(t, http.StatusCreated, code)

	token := testutil.GenerateTestToken("test-secret", "acct-9", "Bob")
	code, _ = do(t, http.MethodPost, eventsURL, `{"type":"FOUND","latitude":0,"longitude":1,"city":"Lome","country":"Togo"}`, token)
	require.Equal(t, http.StatusCreated, code)

	code, env = do(t, http.MethodGet, eventsURL, "", "")
	require.Equal(t, http.StatusOK, code)
	var events []ledger.Event
	require.NoError(t, json.Unmarshal(env.Data, &events))
	require.Len(t, events, 2)
	assert.Equal(t, "Ann", events[0].Actor)
	assert.Equal(t, "Bob", events[1].Actor)

	code, env = do(t, http.MethodGet, srv.URL+"/books/"+created.ID+"/journey", "", "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"cities":2`)
	assert.Contains(t, string(env.Data), `"participants":2`)
	assert.Contains(t, string(env.Data), `"status":"FOUND"`)

	code, env = do(t, http.MethodGet, srv.URL+"/books/"+created.ID+"/status", "", "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"FOUND"`)
}

func TestServer_BookLabel(t *testing.T) {
	srv := newTestServer(t)

	code, env := do(t, http.MethodPost, srv.URL+"/books", `{"isbn":"0306406152","title":"Waves","guest_name":"Ann"}`, "")
	require.Equal(t, http.StatusCreated, code)
	var created book.Book
	require.NoError(t, json.Unmarshal(env.Data, &created))
	require.Len(t, created.QRCode.String(), book.LabelCodeLength)

	resp, err := http.Get(srv.URL + "/books/" + created.ID + "/qr")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	img, err := png.DecodeConfig(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, book.DefaultLabelSize, img.Width)

	code, env = do(t, http.MethodGet, srv.URL+"/labels/"+strings.ToLower(created.QRCode.String()), "", "")
	require.Equal(t, http.StatusOK, code)
	var resolved book.Book
	require.NoError(t, json.Unmarshal(env.Data, &resolved))
	assert.Equal(t, created.ID, resolved.ID)

	code, _ = do(t, http.MethodGet, srv.URL+"/books/does-not-exist/qr", "", "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestServer_Errors(t *testing.T) {
	srv := newTestServer(t)

	code, env := do(t, http.MethodPost, srv.URL+"/books", `{"isbn":"0306406151","title":"Waves","guest_name":"Ann"}`, "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)

	code, env = do(t, http.MethodPost, srv.URL+"/books/does-not-exist/events", `{"type":"FOUND","guest_name":"Ann"}`, "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)

	code, env = do(t, http.MethodPost, srv.URL+"/books/does-not-exist/events", `{"type":`, "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)

	code, _ = do(t, http.MethodGet, srv.URL+"/books/does-not-exist/journey", "", "")
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = do(t, http.MethodPost, srv.URL+"/books", `{}`, "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = do(t, http.MethodDelete, srv.URL+"/books/x", "", "")
	assert.Equal(t, http.StatusMethodNotAllowed, code)
}

func TestServer_Ops(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	resp, err = http.Get(srv.URL + "/readyz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_RequestIDAndEnvelope(t *testing.T) {
	srv := newTestServer(t)
	h := srv.Config.Handler

	w := httptest.NewRecorder()
	r := testutil.NewRequest(http.MethodGet, "/books/nope", nil)
	r.Header.Set("X-Request-ID", "req-123")
	h.ServeHTTP(w, r)

	resp := testutil.RecordHTTPResponse(w)
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "req-123", resp.Header.Get("X-Request-ID"))
	assert.Equal(t, false, resp.Body["success"])
	meta, ok := resp.Body["meta"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "req-123", meta["request_id"])
}

func TestServer_ReadyzReportsDatabase(t *testing.T) {
	h := newHandler(testContext(t), testConfig(), dependencies{
		books:    book.NewMemoryRepo(),
		events:   ledger.NewMemoryRepo(),
		db:       failingPinger{},
		registry: prometheus.NewRegistry(),
	})
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
