package middleware

import (
	"context"
	"docvault/internal/models"
	utils "docvault/internal/utils/http_errors"
	"log/slog"
	"net/http"
	"strings"
)

// sessionToken extracts the bearer value of the Authorization header.
// Sessions never travel in the query string so they cannot collide with
// the ?token= of share links.
func sessionToken(r *http.Request) string {
	header := r.Header.Get("Authorization")

	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}

	return strings.TrimSpace(strings.TrimPrefix(header, prefix))
}

// Auth requires a valid session and puts the user into the request
// context.
func Auth(log *slog.Logger, storer SessionStorer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			op := pkg + "Auth"

			log := log.With(slog.String("op", op))

			token := sessionToken(r)
			if token == "" {
				log.Warn("missing session token")
				utils.WriteJSONError(w, http.StatusForbidden, "token is invalid")
				return
			}

			requester, err := storer.UserByToken(r.Context(), token)
			if err != nil {
				log.Warn("failed get user by token", slog.String("error", err.Error()))
				utils.WriteJSONError(w, http.StatusForbidden, "token is invalid")
				return
			}

			ctx := context.WithValue(r.Context(), models.UserContextKey, requester)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth resolves a session when one is presented and otherwise
// lets the request through anonymously. Grant validation routes accept
// both logged-in and anonymous visitors.
func OptionalAuth(log *slog.Logger, storer SessionStorer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			op := pkg + "OptionalAuth"

			log := log.With(slog.String("op", op))

			token := sessionToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			requester, err := storer.UserByToken(r.Context(), token)
			if err != nil {
				log.Debug("session not resolved, continuing anonymously", slog.String("error", err.Error()))
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), models.UserContextKey, requester)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
