package auth

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// This package provides helpers for setting and getting the authenticated user id on a request context.
// Identity is established upstream by the hosted auth gateway and forwarded as a header.

// contextKey is a private type to avoid key collisions in the context.
type contextKey string

const (
	UserIDKey = contextKey("user_id")

	// UserIDHeader is set by the auth gateway after it validates the session.
	UserIDHeader = "X-User-ID"
)

// SetUserID returns a new request with the user's ID added to its context.
func SetUserID(r *http.Request, id uuid.UUID) *http.Request {
	return r.WithContext(WithUserID(r.Context(), id))
}

// WithUserID is the context form of SetUserID, for callers that are not handling a request.
func WithUserID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, UserIDKey, id)
}

// GetUserID retrieves the user's ID from the context.
func GetUserID(ctx context.Context) (uuid.UUID, error) {
	id, ok := ctx.Value(UserIDKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, fmt.Errorf("no user ID in context")
	}
	return id, nil
}

// Identify reads the forwarded identity header and, when it is a valid uuid, puts it on the context.
// Requests without a usable header pass through anonymously.
func Identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if raw := r.Header.Get(UserIDHeader); raw != "" {
			if id, err := uuid.Parse(raw); err == nil {
				r = SetUserID(r, id)
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireUser rejects requests that Identify could not attach a user to.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := GetUserID(r.Context()); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"Not authorized"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}
