package admin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/healthscan/backend/internal/analysis"
	"github.com/healthscan/backend/internal/identity"
	"github.com/healthscan/backend/internal/users"
)

type fakeUsers struct{ count int }

func (f *fakeUsers) Count(_ context.Context) (int, error) { return f.count, nil }
func (f *fakeUsers) Recent(_ context.Context, _ int) ([]*users.User, error) {
	return nil, nil
}
func (f *fakeUsers) List(_ context.Context) ([]*users.User, error) { return nil, nil }

type fakeAnalyses struct{ count int }

func (f *fakeAnalyses) Count(_ context.Context) (int, error) { return f.count, nil }
func (f *fakeAnalyses) Recent(_ context.Context, _ int) ([]*analysis.RecentAnalysis, error) {
	return nil, nil
}

type fakeBlog struct{ count int }

func (f *fakeBlog) Count(_ context.Context) (int, error) { return f.count, nil }

func newTestHandler() *Handler {
	return NewHandler(&fakeUsers{count: 3}, &fakeAnalyses{count: 9}, &fakeBlog{count: 1}, nil)
}

func TestDashboardRequiresAdmin(t *testing.T) {
	h := newTestHandler()
	for _, ident := range []identity.Identity{
		{IP: "203.0.113.9"},
		{Authenticated: true, UserID: 2, Role: "user"},
	} {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/dashboard", nil)
		req = req.WithContext(identity.WithIdentity(req.Context(), ident))
		rec := httptest.NewRecorder()
		h.Dashboard(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("identity %+v: code = %d, want 401", ident, rec.Code)
		}
	}
}

func TestDashboardStats(t *testing.T) {
	h := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/dashboard", nil)
	req = req.WithContext(identity.WithIdentity(req.Context(),
		identity.Identity{Authenticated: true, UserID: 1, Role: "admin"}))
	rec := httptest.NewRecorder()
	h.Dashboard(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d: %s", rec.Code, rec.Body.String())
	}
	for _, want := range []string{`"userCount":3`, `"analysisCount":9`, `"blogCount":1`} {
		if !strings.Contains(rec.Body.String(), want) {
			t.Errorf("body missing %s: %s", want, rec.Body.String())
		}
	}
}
