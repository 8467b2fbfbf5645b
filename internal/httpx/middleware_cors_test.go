package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newCORSHandler(called *bool) http.Handler {
	return CORSMiddleware([]string{"https://books.example.org/", "http://localhost:3000"})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			*called = true
			w.WriteHeader(http.StatusOK)
		}))
}

func TestCORSMiddleware_AllowedOrigin(t *testing.T) {
	var called bool
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/books/b1/journey", nil)
	r.Header.Set("Origin", "https://books.example.org")

	newCORSHandler(&called).ServeHTTP(w, r)

	assert.True(t, called)
	assert.Equal(t, "https://books.example.org", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	assert.Equal(t, "X-Request-ID", w.Header().Get("Access-Control-Expose-Headers"))
	assert.Equal(t, "Origin", w.Header().Get("Vary"))
}

func TestCORSMiddleware_DisallowedOrigin(t *testing.T) {
	var called bool
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/books/b1/journey", nil)
	r.Header.Set("Origin", "https://evil.example.com")

	newCORSHandler(&called).ServeHTTP(w, r)

	assert.True(t, called)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
	assert.Equal(t, "Origin", w.Header().Get("Vary"))
}

func TestCORSMiddleware_PreflightForCustodyReport(t *testing.T) {
	var called bool
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodOptions, "/books/b1/events", nil)
	r.Header.Set("Origin", "http://localhost:3000")
	r.Header.Set("Access-Control-Request-Method", http.MethodPost)
	r.Header.Set("Access-Control-Request-Headers", "Content-Type, Authorization")

	newCORSHandler(&called).ServeHTTP(w, r)

	assert.False(t, called)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "GET, POST, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type, Authorization, X-Request-ID", w.Header().Get("Access-Control-Allow-Headers"))
}

func TestCORSMiddleware_PlainOptionsReachesRouter(t *testing.T) {
	var called bool
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodOptions, "/books", nil)

	newCORSHandler(&called).ServeHTTP(w, r)

	assert.True(t, called)
}
