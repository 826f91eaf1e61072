package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/openvault/filevault/internal/ctxkeys"
	"github.com/openvault/filevault/internal/repository"
	"github.com/openvault/filevault/internal/service"
)

// TokenHeader carries the bearer token on every protected route.
const TokenHeader = "X-Token"

// TokenAuth resolves the X-Token header to an authenticated user and adds
// it to the request context. An absent, expired or dangling token simply
// leaves the request unauthenticated; RequireAuth does the rejecting.
// Failures of the cache or database themselves are surfaced as 500s, never
// folded into "unauthenticated".
func TokenAuth(sessionService *service.SessionService, userService *service.UserService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(TokenHeader)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := sessionService.Resolve(token)
			if errors.Is(err, service.ErrSessionNotFound) {
				next.ServeHTTP(w, r)
				return
			}
			if err != nil {
				internalError(w, err)
				return
			}

			// The session may outlive the user record; treat that as unauthenticated
			user, err := userService.ByID(userID)
			if errors.Is(err, repository.ErrUserNotFound) {
				next.ServeHTTP(w, r)
				return
			}
			if err != nil {
				internalError(w, err)
				return
			}

			// Security: the digest never travels past this point
			user.PasswordHash = ""

			ctx := ctxkeys.WithUser(r.Context(), user)
			ctx = ctxkeys.WithToken(ctx, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth ensures the request carries a resolved identity
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := ctxkeys.User(r.Context())
		if user == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"Unauthorized"}`))
			return
		}
		next.ServeHTTP(w, r)
	}
}

func internalError(w http.ResponseWriter, err error) {
	slog.Error("token resolution failed", "error", err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	w.Write([]byte(`{"error":"Internal server error"}`))
}
