package identity

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/healthscan/backend/internal/token"
)

type fakeSubjects struct {
	role    string
	credits int
	found   bool
	err     error
}

func (f *fakeSubjects) Subject(_ context.Context, _ int64) (string, int, bool, error) {
	return f.role, f.credits, f.found, f.err
}

func TestResolveNoCredential(t *testing.T) {
	r := NewResolver(token.NewCodec([]byte("s"), 0), &fakeSubjects{})
	req := httptest.NewRequest("POST", "/api/analyze", nil)
	req.RemoteAddr = "203.0.113.9:4242"

	id := r.Resolve(req)
	if id.Authenticated {
		t.Fatal("expected anonymous identity")
	}
	if id.IP != "203.0.113.9" {
		t.Errorf("IP = %q, want 203.0.113.9", id.IP)
	}
}

func TestResolveIPPrecedence(t *testing.T) {
	r := NewResolver(token.NewCodec([]byte("s"), 0), &fakeSubjects{})

	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.0.0.1:80"
	req.Header.Set("X-Forwarded-For", "198.51.100.7, 10.0.0.2")
	if ip := r.Resolve(req).IP; ip != "198.51.100.7" {
		t.Errorf("XFF ip = %q, want first hop", ip)
	}

	req.Header.Set("CF-Connecting-IP", "192.0.2.1")
	if ip := r.Resolve(req).IP; ip != "192.0.2.1" {
		t.Errorf("ip = %q, want CF-Connecting-IP to win", ip)
	}

	bare := httptest.NewRequest("GET", "/", nil)
	bare.RemoteAddr = ""
	if ip := r.Resolve(bare).IP; ip != "unknown" {
		t.Errorf("ip = %q, want unknown sentinel", ip)
	}
}

func TestResolveAuthenticated(t *testing.T) {
	codec := token.NewCodec([]byte("s"), 0)
	r := NewResolver(codec, &fakeSubjects{role: "user", credits: 50, found: true})

	tok, err := codec.Issue(9, "user")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	req := httptest.NewRequest("GET", "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)

	id := r.Resolve(req)
	if !id.Authenticated || id.UserID != 9 || id.Role != "user" || id.Credits != 50 {
		t.Errorf("identity = %+v", id)
	}
}

func TestResolveDeletedSubjectFallsBackToAnonymous(t *testing.T) {
	codec := token.NewCodec([]byte("s"), 0)
	r := NewResolver(codec, &fakeSubjects{found: false})

	tok, _ := codec.Issue(9, "user")
	req := httptest.NewRequest("GET", "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	req.RemoteAddr = "203.0.113.9:1"

	id := r.Resolve(req)
	if id.Authenticated {
		t.Fatal("deleted subject must resolve as anonymous")
	}
	if id.IP != "203.0.113.9" {
		t.Errorf("IP = %q", id.IP)
	}
}

func TestResolveBadCredential(t *testing.T) {
	r := NewResolver(token.NewCodec([]byte("s"), 0), &fakeSubjects{role: "user", found: true})
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer garbage.token.here")
	if r.Resolve(req).Authenticated {
		t.Fatal("garbage credential must not authenticate")
	}
}

func TestCanActFor(t *testing.T) {
	self := Identity{Authenticated: true, UserID: 3, Role: "user"}
	admin := Identity{Authenticated: true, UserID: 1, Role: "admin"}
	anon := Identity{IP: "unknown"}

	if !self.CanActFor(3) || self.CanActFor(4) {
		t.Error("self scoping broken")
	}
	if !admin.CanActFor(3) {
		t.Error("admin must act for any user")
	}
	if anon.CanActFor(3) {
		t.Error("anonymous must not act for users")
	}
}
