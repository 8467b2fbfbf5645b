package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSecurityHeadersMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name string
		hsts bool
		want string
	}{
		{name: "plain http", hsts: false, want: ""},
		{name: "behind tls", hsts: true, want: "max-age=31536000; includeSubDomains"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			SecurityHeadersMiddleware(tt.hsts)(next).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/books/b1", nil))

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
			assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
			assert.Equal(t, "no-referrer", w.Header().Get("Referrer-Policy"))
			assert.Contains(t, w.Header().Get("Content-Security-Policy"), "default-src 'none'")
			assert.Equal(t, tt.want, w.Header().Get("Strict-Transport-Security"))
		})
	}
}

func TestSecurityHeadersMiddleware_OnErrorEnvelope(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "book not found", nil)
	})

	w := httptest.NewRecorder()
	SecurityHeadersMiddleware(false)(next).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/books/missing", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}
