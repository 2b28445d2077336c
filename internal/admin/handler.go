package admin

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/healthscan/backend/internal/analysis"
	"github.com/healthscan/backend/internal/identity"
	"github.com/healthscan/backend/internal/users"
	"github.com/healthscan/backend/internal/web"
)

const recentLimit = 10

// UserStore, AnalysisStore and BlogStore are the reporting surfaces the
// dashboard composes.
type UserStore interface {
	Count(ctx context.Context) (int, error)
	Recent(ctx context.Context, limit int) ([]*users.User, error)
	List(ctx context.Context) ([]*users.User, error)
}

type AnalysisStore interface {
	Count(ctx context.Context) (int, error)
	Recent(ctx context.Context, limit int) ([]*analysis.RecentAnalysis, error)
}

type BlogStore interface {
	Count(ctx context.Context) (int, error)
}

type Handler struct {
	users    UserStore
	analyses AnalysisStore
	blog     BlogStore
	log      *slog.Logger
}

func NewHandler(users UserStore, analyses AnalysisStore, blog BlogStore, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{users: users, analyses: analyses, blog: blog, log: log}
}

type dashboardStats struct {
	UserCount     int `json:"userCount"`
	AnalysisCount int `json:"analysisCount"`
	BlogCount     int `json:"blogCount"`
}

type dashboardResponse struct {
	Stats          dashboardStats             `json:"stats"`
	RecentUsers    []userSummary              `json:"recentUsers"`
	RecentAnalyses []*analysis.RecentAnalysis `json:"recentAnalyses"`
}

type userSummary struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Credits   int    `json:"credits"`
	CreatedAt string `json:"createdAt"`
}

// Dashboard handles GET /api/admin/dashboard.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	if !identity.FromCtx(r.Context()).IsAdmin() {
		web.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	ctx := r.Context()

	userCount, err := h.users.Count(ctx)
	if err != nil {
		h.fail(w, "user count", err)
		return
	}
	analysisCount, err := h.analyses.Count(ctx)
	if err != nil {
		h.fail(w, "analysis count", err)
		return
	}
	blogCount, err := h.blog.Count(ctx)
	if err != nil {
		h.fail(w, "blog count", err)
		return
	}
	recentUsers, err := h.users.Recent(ctx, recentLimit)
	if err != nil {
		h.fail(w, "recent users", err)
		return
	}
	recentAnalyses, err := h.analyses.Recent(ctx, recentLimit)
	if err != nil {
		h.fail(w, "recent analyses", err)
		return
	}
	if recentAnalyses == nil {
		recentAnalyses = []*analysis.RecentAnalysis{}
	}

	summaries := make([]userSummary, 0, len(recentUsers))
	for _, u := range recentUsers {
		summaries = append(summaries, userSummary{
			ID:        u.ID,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Email:     u.Email,
			Credits:   u.Credits,
			CreatedAt: u.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	web.JSON(w, http.StatusOK, dashboardResponse{
		Stats: dashboardStats{
			UserCount:     userCount,
			AnalysisCount: analysisCount,
			BlogCount:     blogCount,
		},
		RecentUsers:    summaries,
		RecentAnalyses: recentAnalyses,
	})
}

// Users handles GET /api/admin/users.
func (h *Handler) Users(w http.ResponseWriter, r *http.Request) {
	if !identity.FromCtx(r.Context()).IsAdmin() {
		web.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	list, err := h.users.List(r.Context())
	if err != nil {
		h.fail(w, "list users", err)
		return
	}
	out := make([]map[string]any, 0, len(list))
	for _, u := range list {
		out = append(out, map[string]any{
			"id":        u.ID,
			"firstName": u.FirstName,
			"lastName":  u.LastName,
			"email":     u.Email,
			"country":   u.Country,
			"gender":    u.Gender,
			"role":      u.Role,
			"credits":   u.Credits,
			"lastLogin": u.LastLogin,
			"createdAt": u.CreatedAt,
			"updatedAt": u.UpdatedAt,
		})
	}
	web.JSON(w, http.StatusOK, out)
}

func (h *Handler) fail(w http.ResponseWriter, what string, err error) {
	h.log.Error("admin query failed", "query", what, "error", err)
	web.Error(w, http.StatusInternalServerError, "Failed to load dashboard data")
}
