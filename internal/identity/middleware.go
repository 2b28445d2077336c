package identity

import (
	"context"
	"net/http"
)

type contextKey string

const ctxIdentityKey contextKey = "identity"

// Middleware resolves the caller identity once and stores it in the request
// context for every downstream handler.
func Middleware(r *Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ident := r.Resolve(req)
			next.ServeHTTP(w, req.WithContext(WithIdentity(req.Context(), ident)))
		})
	}
}

// FromCtx returns the resolved identity, or an anonymous "unknown" identity
// when the middleware did not run.
func FromCtx(ctx context.Context) Identity {
	if id, ok := ctx.Value(ctxIdentityKey).(Identity); ok {
		return id
	}
	return Identity{IP: "unknown"}
}

// WithIdentity returns a context carrying the given identity.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxIdentityKey, id)
}
