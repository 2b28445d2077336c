package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/healthscan/backend/internal/identity"
	"github.com/healthscan/backend/internal/quota"
	"github.com/healthscan/backend/internal/router"
	"github.com/healthscan/backend/internal/web"
)

// Analyzer runs the pipeline.
type Analyzer interface {
	Analyze(ctx context.Context, userID *int64, ingredients string) (*Result, error)
}

// Admitter is the quota ledger surface the handler needs. Admission is
// decided, and the quota consumed, before the model call.
type Admitter interface {
	AdmitAnonymous(ctx context.Context, ip string) error
	AdmitAuthenticated(ctx context.Context, userID int64) (int, error)
}

// HistoryStore serves the persisted scan history.
type HistoryStore interface {
	ListByUser(ctx context.Context, userID int64) ([]*StoredAnalysis, error)
}

type Handler struct {
	svc     Analyzer
	ledger  Admitter
	history HistoryStore
	log     *slog.Logger
}

func NewHandler(svc Analyzer, ledger Admitter, history HistoryStore, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{svc: svc, ledger: ledger, history: history, log: log}
}

type analyzeRequest struct {
	Ingredients string `json:"ingredients"`
}

// Analyze handles POST /api/analyze. Bearer credential optional: an
// authenticated caller spends a credit, an anonymous one a daily scan slot.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.Error(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Ingredients == "" {
		web.Error(w, http.StatusBadRequest, "Ingredients are required")
		return
	}

	ident := identity.FromCtx(r.Context())
	var userID *int64
	if ident.Authenticated {
		if _, err := h.ledger.AdmitAuthenticated(r.Context(), ident.UserID); err != nil {
			if errors.Is(err, quota.ErrInsufficientCredits) {
				web.Error(w, http.StatusBadRequest, "Insufficient credits")
				return
			}
			h.log.Error("authenticated admission failed", "user_id", ident.UserID, "error", err)
			web.Error(w, http.StatusInternalServerError, "Failed to analyze product")
			return
		}
		id := ident.UserID
		userID = &id
	} else {
		if err := h.ledger.AdmitAnonymous(r.Context(), ident.IP); err != nil {
			if errors.Is(err, quota.ErrDailyLimitReached) {
				web.Error(w, http.StatusBadRequest, "Daily anonymous scan limit reached")
				return
			}
			h.log.Error("anonymous admission failed", "ip", ident.IP, "error", err)
			web.Error(w, http.StatusInternalServerError, "Failed to analyze product")
			return
		}
	}

	res, err := h.svc.Analyze(r.Context(), userID, req.Ingredients)
	if err != nil {
		h.log.Error("analysis pipeline failed", "error", err)
		web.Error(w, http.StatusInternalServerError, "Failed to analyze product")
		return
	}
	web.JSON(w, http.StatusOK, res)
}

// History handles GET /api/users/{id}/products.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := router.IDParam(r)
	if !ok {
		web.Error(w, http.StatusBadRequest, "Invalid user id")
		return
	}
	ident := identity.FromCtx(r.Context())
	if !ident.CanActFor(userID) {
		web.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	list, err := h.history.ListByUser(r.Context(), userID)
	if err != nil {
		h.log.Error("list history failed", "user_id", userID, "error", err)
		web.Error(w, http.StatusInternalServerError, "Failed to load products")
		return
	}
	if list == nil {
		list = []*StoredAnalysis{}
	}
	web.JSON(w, http.StatusOK, list)
}
