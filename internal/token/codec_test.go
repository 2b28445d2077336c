package token

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestIssueVerifyRoundTrip(t *testing.T) {
	c := NewCodec([]byte("test-secret"), 0)
	tok, err := c.Issue(42, "user")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if strings.Count(tok, ".") != 2 {
		t.Fatalf("credential is not three dot-separated segments: %q", tok)
	}
	cl, err := c.Verify(tok)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if cl.UserID != 42 || cl.Role != "user" {
		t.Errorf("claims = %+v, want {42 user}", cl)
	}
}

func TestVerifyExpired(t *testing.T) {
	c := NewCodec([]byte("test-secret"), time.Hour)
	tok, err := c.Issue(7, "admin")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	// Move the codec's clock past the validity window.
	c.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := c.Verify(tok); !errors.Is(err, ErrInvalidCredential) {
		t.Errorf("expired credential: err = %v, want ErrInvalidCredential", err)
	}
}

func TestVerifyTampered(t *testing.T) {
	c := NewCodec([]byte("test-secret"), 0)
	tok, err := c.Issue(42, "user")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	parts := strings.Split(tok, ".")

	// Flipping a character anywhere in payload or signature must invalidate.
	for seg := 1; seg <= 2; seg++ {
		mutated := make([]string, 3)
		copy(mutated, parts)
		b := []byte(mutated[seg])
		if b[0] == 'A' {
			b[0] = 'B'
		} else {
			b[0] = 'A'
		}
		mutated[seg] = string(b)
		if _, err := c.Verify(strings.Join(mutated, ".")); !errors.Is(err, ErrInvalidCredential) {
			t.Errorf("tampered segment %d accepted", seg)
		}
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	issuer := NewCodec([]byte("secret-a"), 0)
	verifier := NewCodec([]byte("secret-b"), 0)
	tok, err := issuer.Issue(1, "user")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := verifier.Verify(tok); !errors.Is(err, ErrInvalidCredential) {
		t.Errorf("cross-secret credential accepted")
	}
}

func TestVerifyMalformed(t *testing.T) {
	c := NewCodec([]byte("test-secret"), 0)
	for _, raw := range []string{
		"",
		"not-a-token",
		"a.b",
		"a.b.c.d",
		"%%%.%%%.%%%",
	} {
		if _, err := c.Verify(raw); !errors.Is(err, ErrInvalidCredential) {
			t.Errorf("Verify(%q): err = %v, want ErrInvalidCredential", raw, err)
		}
	}
}
