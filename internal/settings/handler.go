package settings

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/healthscan/backend/internal/identity"
	"github.com/healthscan/backend/internal/web"
)

type Store interface {
	GetAds(ctx context.Context) (*AdSettings, error)
	SaveAds(ctx context.Context, s AdSettings) error
}

type Handler struct {
	store Store
	log   *slog.Logger
}

func NewHandler(store Store, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{store: store, log: log}
}

// GetAds handles GET /api/settings/ads (public) and GET
// /api/admin/settings/ads (admin-gated at the route level, see AdminGetAds).
func (h *Handler) GetAds(w http.ResponseWriter, r *http.Request) {
	s, err := h.store.GetAds(r.Context())
	if err != nil {
		h.log.Error("get ad settings failed", "error", err)
		web.Error(w, http.StatusInternalServerError, "Failed to load ad settings")
		return
	}
	if s == nil {
		def := DefaultAds()
		s = &def
	}
	web.JSON(w, http.StatusOK, s)
}

// AdminGetAds handles GET /api/admin/settings/ads.
func (h *Handler) AdminGetAds(w http.ResponseWriter, r *http.Request) {
	if !identity.FromCtx(r.Context()).IsAdmin() {
		web.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	h.GetAds(w, r)
}

type adsRequest struct {
	AdCode         *string `json:"adCode"`
	AdTimerSeconds *int    `json:"adTimerSeconds"`
	AdEnabled      *bool   `json:"adEnabled"`
	AdPlacement    *string `json:"adPlacement"`
}

// AdminSaveAds handles POST /api/admin/settings/ads. Absent fields keep
// their defaults.
func (h *Handler) AdminSaveAds(w http.ResponseWriter, r *http.Request) {
	if !identity.FromCtx(r.Context()).IsAdmin() {
		web.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var req adsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.Error(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	s := DefaultAds()
	if req.AdCode != nil {
		s.AdCode = *req.AdCode
	}
	if req.AdTimerSeconds != nil && *req.AdTimerSeconds > 0 {
		s.AdTimerSeconds = *req.AdTimerSeconds
	}
	if req.AdEnabled != nil {
		s.AdEnabled = *req.AdEnabled
	}
	if req.AdPlacement != nil && *req.AdPlacement != "" {
		s.AdPlacement = *req.AdPlacement
	}
	if err := h.store.SaveAds(r.Context(), s); err != nil {
		h.log.Error("save ad settings failed", "error", err)
		web.Error(w, http.StatusInternalServerError, "Failed to save ad settings")
		return
	}
	web.JSON(w, http.StatusOK, map[string]AdSettings{"settings": s})
}
