package httpx

import (
	"net/http"
	"strings"

	"bookjourney/internal/platform/crypto"
)

// IdentityMiddleware attaches the identity provider's assertion to the request
// when a valid bearer token is present. Requests without a token continue as
// anonymous; an invalid token is rejected so a caller never silently loses
// their attribution.
func IdentityMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || secret == "" {
				next.ServeHTTP(w, r)
				return
			}
			if !strings.HasPrefix(authHeader, "Bearer ") {
				JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
				return
			}

			claims, err := crypto.ParseToken(secret, strings.TrimPrefix(authHeader, "Bearer "))
			if err != nil {
				JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
				return
			}

			ctx := ContextWithIdentity(r.Context(), claims.Sub, strings.TrimSpace(claims.Name))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ResolveActor picks the display name a report is attributed to: the
// authenticated name when present, otherwise the guest-supplied one.
func ResolveActor(r *http.Request, guestName string) string {
	if name := DisplayNameFrom(r); name != "" {
		return name
	}
	return strings.TrimSpace(guestName)
}
