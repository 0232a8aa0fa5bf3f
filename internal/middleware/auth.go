package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/templui/lifeplan/internal/ctxkeys"
	"github.com/templui/lifeplan/internal/model"
	"github.com/templui/lifeplan/internal/service"
)

// Authenticator resolves a bearer token to a user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.User, error)
}

// AuthMiddleware reads "Authorization: Bearer <jwt>" and stores the user in
// the request context. Missing or invalid tokens continue anonymously so
// public routes still work; deactivated accounts are rejected with 403.
func AuthMiddleware(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			user, err := auth.Authenticate(r.Context(), token)
			switch {
			case errors.Is(err, service.ErrForbidden):
				writeJSONError(w, http.StatusForbidden, err.Error())
				return
			case errors.Is(err, service.ErrUnauthenticated):
				slog.Debug("ignoring invalid bearer token", "error", err, "path", r.URL.Path)
				next.ServeHTTP(w, r)
				return
			case err != nil:
				slog.Error("failed to authenticate request", "error", err, "path", r.URL.Path)
				writeJSONError(w, http.StatusInternalServerError, "internal server error")
				return
			}

			ctx := ctxkeys.WithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// RequireAuth rejects anonymous requests with a 401 JSON body.
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ctxkeys.User(r.Context()) == nil {
			writeJSONError(w, http.StatusUnauthorized, service.ErrUnauthenticated.Error())
			return
		}
		next.ServeHTTP(w, r)
	}
}
