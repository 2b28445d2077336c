package quota

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/healthscan/backend/internal/identity"
	"github.com/healthscan/backend/internal/router"
)

func creditRouter(h *Handler) *router.Router {
	return router.New([]router.Route{
		{Method: http.MethodPost, Pattern: "users/{id}/credits/add", Handler: h.AddCredits},
		{Method: http.MethodPost, Pattern: "users/{id}/credits/use", Handler: h.UseCredits},
		{Method: http.MethodGet, Pattern: "anonymous-scans", Handler: h.AnonymousScans},
		{Method: http.MethodPost, Pattern: "anonymous-scans/use", Handler: h.UseAnonymousScan},
	})
}

func asUser(req *http.Request, id int64, role string) *http.Request {
	ident := identity.Identity{Authenticated: true, UserID: id, Role: role, IP: "203.0.113.9"}
	return req.WithContext(identity.WithIdentity(req.Context(), ident))
}

func TestAddCreditsSelf(t *testing.T) {
	store := newMemStore()
	store.credits[3] = 10
	h := NewHandler(NewService(store, 5), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/users/3/credits/add", strings.NewReader(`{"amount":25}`))
	rec := httptest.NewRecorder()
	creditRouter(h).ServeHTTP(rec, asUser(req, 3, "user"))

	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"credits":35`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestCreditsOtherUserRejected(t *testing.T) {
	h := NewHandler(NewService(newMemStore(), 5), nil)
	req := httptest.NewRequest(http.MethodPost, "/api/users/4/credits/add", strings.NewReader(`{"amount":1}`))
	rec := httptest.NewRecorder()
	creditRouter(h).ServeHTTP(rec, asUser(req, 3, "user"))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("code = %d, want 401", rec.Code)
	}
}

func TestCreditsAdminMayActForAnyone(t *testing.T) {
	store := newMemStore()
	store.credits[4] = 1
	h := NewHandler(NewService(store, 5), nil)
	req := httptest.NewRequest(http.MethodPost, "/api/users/4/credits/add", strings.NewReader(`{"amount":2}`))
	rec := httptest.NewRecorder()
	creditRouter(h).ServeHTTP(rec, asUser(req, 1, "admin"))
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d: %s", rec.Code, rec.Body.String())
	}
}

func TestUseCreditsOverdraw(t *testing.T) {
	store := newMemStore()
	store.credits[3] = 1
	h := NewHandler(NewService(store, 5), nil)
	req := httptest.NewRequest(http.MethodPost, "/api/users/3/credits/use", strings.NewReader(`{"amount":2}`))
	rec := httptest.NewRecorder()
	creditRouter(h).ServeHTTP(rec, asUser(req, 3, "user"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("code = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Insufficient credits") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestAnonymousScanFlow(t *testing.T) {
	h := NewHandler(NewService(newMemStore(), 2), nil)
	rt := creditRouter(h)

	anon := func(method, path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, nil)
		req = req.WithContext(identity.WithIdentity(req.Context(), identity.Identity{IP: "203.0.113.9"}))
		rec := httptest.NewRecorder()
		rt.ServeHTTP(rec, req)
		return rec
	}

	rec := anon(http.MethodGet, "/api/anonymous-scans")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"remaining":2`) {
		t.Fatalf("initial usage: %d %s", rec.Code, rec.Body.String())
	}

	for i := 0; i < 2; i++ {
		if rec := anon(http.MethodPost, "/api/anonymous-scans/use"); rec.Code != http.StatusOK {
			t.Fatalf("use %d: code = %d", i+1, rec.Code)
		}
	}
	rec = anon(http.MethodPost, "/api/anonymous-scans/use")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("over-limit use: code = %d, want 400", rec.Code)
	}
}
