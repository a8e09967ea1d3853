package middleware

import (
	"net/http"
	"strings"

	"filedrive/internal/auth"
	"filedrive/internal/httputil"
)

// DefaultAccountID scopes requests when auth is disabled (single-tenant
// deployments)
const DefaultAccountID = "default"

// Auth resolves the account for every request. With a verifier, a valid
// bearer token is required and its subject becomes the account. Without
// one, the X-Account-ID header is honored and otherwise the default
// account is used.
func Auth(verifier auth.TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if verifier == nil {
				accountID := r.Header.Get("X-Account-ID")
				if accountID == "" {
					accountID = DefaultAccountID
				}
				next.ServeHTTP(w, httputil.WithAccountID(r, accountID))
				return
			}

			header := r.Header.Get("Authorization")
			tokenString, found := strings.CutPrefix(header, "Bearer ")
			if !found || tokenString == "" {
				httputil.RespondError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			accountID, err := verifier.VerifyToken(tokenString)
			if err != nil {
				httputil.RespondError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			next.ServeHTTP(w, httputil.WithAccountID(r, accountID))
		})
	}
}
