package identity

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/healthscan/backend/internal/token"
)

// Identity is the resolved caller of a request: either an authenticated
// account or an anonymous IP. It is resolved fresh per request and never
// cached.
type Identity struct {
	Authenticated bool
	UserID        int64
	Role          string
	Credits       int
	IP            string
}

func (id Identity) IsAdmin() bool {
	return id.Authenticated && id.Role == "admin"
}

// CanActFor reports whether the identity may operate on userID's resources.
func (id Identity) CanActFor(userID int64) bool {
	return id.IsAdmin() || (id.Authenticated && id.UserID == userID)
}

// SubjectStore looks up the live account behind a verified credential.
// found is false when the subject no longer exists.
type SubjectStore interface {
	Subject(ctx context.Context, userID int64) (role string, credits int, found bool, err error)
}

// Resolver turns a request into an Identity. It never fails: any problem
// with the credential or the subject lookup degrades to anonymous.
type Resolver struct {
	codec *token.Codec
	users SubjectStore
}

func NewResolver(codec *token.Codec, users SubjectStore) *Resolver {
	return &Resolver{codec: codec, users: users}
}

func (r *Resolver) Resolve(req *http.Request) Identity {
	anon := Identity{IP: clientIP(req)}
	raw := extractBearer(req)
	if raw == "" {
		return anon
	}
	cl, err := r.codec.Verify(raw)
	if err != nil {
		return anon
	}
	role, credits, found, err := r.users.Subject(req.Context(), cl.UserID)
	if err != nil || !found {
		// A credential for a deleted account falls back to anonymous.
		return anon
	}
	return Identity{
		Authenticated: true,
		UserID:        cl.UserID,
		Role:          role,
		Credits:       credits,
		IP:            anon.IP,
	}
}

func extractBearer(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// clientIP picks the best available client address signal, preferring the
// edge-provided header over proxy chains over the raw connection.
func clientIP(r *http.Request) string {
	if ip := r.Header.Get("CF-Connecting-IP"); ip != "" {
		return ip
	}
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first := strings.TrimSpace(strings.SplitN(xff, ",", 2)[0])
		if first != "" {
			return first
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	return "unknown"
}
