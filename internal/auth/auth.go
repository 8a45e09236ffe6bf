package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
)

// ErrAuth is the identity collaborator's failure, propagated unchanged.
var ErrAuth = errors.New("not authenticated")

type ctxKey struct{}

// Middleware resolves the caller's identity. The identity provider
// itself is an external collaborator: it terminates upstream and
// forwards the verified subject in X-User-ID. Requests without a valid
// subject are rejected before reaching a handler.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(r.Header.Get("X-User-ID"))
		if err != nil {
			http.Error(w, ErrAuth.Error(), http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), ctxKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserID returns the authenticated caller, or ErrAuth when the request
// did not pass through Middleware.
func UserID(ctx context.Context) (uuid.UUID, error) {
	id, ok := ctx.Value(ctxKey{}).(uuid.UUID)
	if !ok {
		return uuid.Nil, ErrAuth
	}
	return id, nil
}
