package quota

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/healthscan/backend/internal/identity"
	"github.com/healthscan/backend/internal/router"
	"github.com/healthscan/backend/internal/web"
)

// Ledger is the handler's view of the quota service.
type Ledger interface {
	AdmitAnonymous(ctx context.Context, ip string) error
	RecordCreditChange(ctx context.Context, userID int64, delta int) (int, error)
	AnonymousUsage(ctx context.Context, ip string) (used, limit int, err error)
}

type Handler struct {
	ledger Ledger
	log    *slog.Logger
}

func NewHandler(ledger Ledger, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{ledger: ledger, log: log}
}

type creditChangeRequest struct {
	Amount int `json:"amount"`
}

type balanceResponse struct {
	ID      int64 `json:"id"`
	Credits int   `json:"credits"`
}

// AddCredits handles POST /api/users/{id}/credits/add.
func (h *Handler) AddCredits(w http.ResponseWriter, r *http.Request) {
	h.changeCredits(w, r, 1)
}

// UseCredits handles POST /api/users/{id}/credits/use.
func (h *Handler) UseCredits(w http.ResponseWriter, r *http.Request) {
	h.changeCredits(w, r, -1)
}

func (h *Handler) changeCredits(w http.ResponseWriter, r *http.Request, sign int) {
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
	req := creditChangeRequest{Amount: 1}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			web.Error(w, http.StatusBadRequest, "invalid JSON")
			return
		}
	}
	if req.Amount <= 0 {
		web.Error(w, http.StatusBadRequest, "Amount must be positive")
		return
	}
	balance, err := h.ledger.RecordCreditChange(r.Context(), userID, sign*req.Amount)
	if err != nil {
		if errors.Is(err, ErrInsufficientCredits) {
			web.Error(w, http.StatusBadRequest, "Insufficient credits")
			return
		}
		h.log.Error("credit change failed", "user_id", userID, "error", err)
		web.Error(w, http.StatusInternalServerError, "Failed to update credits")
		return
	}
	web.JSON(w, http.StatusOK, balanceResponse{ID: userID, Credits: balance})
}

type anonymousUsageResponse struct {
	Used      int `json:"used"`
	Remaining int `json:"remaining"`
	Limit     int `json:"limit"`
}

// AnonymousScans handles GET /api/anonymous-scans: today's usage for the
// caller's IP.
func (h *Handler) AnonymousScans(w http.ResponseWriter, r *http.Request) {
	ident := identity.FromCtx(r.Context())
	used, limit, err := h.ledger.AnonymousUsage(r.Context(), ident.IP)
	if err != nil {
		h.log.Error("anonymous usage lookup failed", "ip", ident.IP, "error", err)
		web.Error(w, http.StatusInternalServerError, "Failed to load scan usage")
		return
	}
	remaining := limit - used
	if remaining < 0 {
		remaining = 0
	}
	web.JSON(w, http.StatusOK, anonymousUsageResponse{Used: used, Remaining: remaining, Limit: limit})
}

// UseAnonymousScan handles POST /api/anonymous-scans/use: consumes one slot
// of the caller IP's daily allowance.
func (h *Handler) UseAnonymousScan(w http.ResponseWriter, r *http.Request) {
	ident := identity.FromCtx(r.Context())
	if err := h.ledger.AdmitAnonymous(r.Context(), ident.IP); err != nil {
		if errors.Is(err, ErrDailyLimitReached) {
			web.Error(w, http.StatusBadRequest, "Daily anonymous scan limit reached")
			return
		}
		h.log.Error("anonymous scan admission failed", "ip", ident.IP, "error", err)
		web.Error(w, http.StatusInternalServerError, "Failed to record scan")
		return
	}
	used, limit, err := h.ledger.AnonymousUsage(r.Context(), ident.IP)
	if err != nil {
		h.log.Error("anonymous usage lookup failed", "ip", ident.IP, "error", err)
		web.Error(w, http.StatusInternalServerError, "Failed to load scan usage")
		return
	}
	remaining := limit - used
	if remaining < 0 {
		remaining = 0
	}
	web.JSON(w, http.StatusOK, anonymousUsageResponse{Used: used, Remaining: remaining, Limit: limit})
}
