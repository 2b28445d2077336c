package blog

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/healthscan/backend/internal/identity"
	"github.com/healthscan/backend/internal/router"
	"github.com/healthscan/backend/internal/web"
)

// Store is the persistence surface the handlers need.
type Store interface {
	ListPublished(ctx context.Context) ([]*Post, error)
	ListAll(ctx context.Context) ([]*Post, error)
	GetByID(ctx context.Context, id int64) (*Post, error)
	Create(ctx context.Context, p *Post) error
	Update(ctx context.Context, p *Post) error
	Delete(ctx context.Context, id int64) error
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

// List handles GET /api/blog: published posts only.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.store.ListPublished(r.Context())
	if err != nil {
		h.log.Error("list blog posts failed", "error", err)
		web.Error(w, http.StatusInternalServerError, "Failed to load blog posts")
		return
	}
	if posts == nil {
		posts = []*Post{}
	}
	web.JSON(w, http.StatusOK, posts)
}

// Get handles GET /api/blog/{id}. Drafts are invisible to the public.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, _ := router.IDParam(r)
	p, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		h.log.Error("get blog post failed", "id", id, "error", err)
		web.Error(w, http.StatusInternalServerError, "Failed to load blog post")
		return
	}
	if p == nil || p.Status != "published" {
		web.Error(w, http.StatusNotFound, "Blog post not found")
		return
	}
	web.JSON(w, http.StatusOK, p)
}

func requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	if !identity.FromCtx(r.Context()).IsAdmin() {
		web.Error(w, http.StatusUnauthorized, "Unauthorized")
		return false
	}
	return true
}

// AdminList handles GET /api/admin/blog: every post including drafts.
func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}
	posts, err := h.store.ListAll(r.Context())
	if err != nil {
		h.log.Error("admin list blog posts failed", "error", err)
		web.Error(w, http.StatusInternalServerError, "Failed to load blog posts")
		return
	}
	if posts == nil {
		posts = []*Post{}
	}
	web.JSON(w, http.StatusOK, posts)
}

type postRequest struct {
	Title    *string `json:"title"`
	Excerpt  *string `json:"excerpt"`
	Content  *string `json:"content"`
	Category *string `json:"category"`
	ImageURL *string `json:"imageUrl"`
	Status   *string `json:"status"`
}

// AdminCreate handles POST /api/admin/blog.
func (h *Handler) AdminCreate(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}
	var req postRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.Error(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Title == nil || *req.Title == "" || req.Content == nil || *req.Content == "" {
		web.Error(w, http.StatusBadRequest, "Title and content are required")
		return
	}
	p := &Post{
		Title:    *req.Title,
		Content:  *req.Content,
		Category: "General",
		Status:   "draft",
	}
	if req.Excerpt != nil {
		p.Excerpt = *req.Excerpt
	}
	if req.Category != nil && *req.Category != "" {
		p.Category = *req.Category
	}
	if req.ImageURL != nil {
		p.ImageURL = *req.ImageURL
	}
	if req.Status != nil && *req.Status != "" {
		p.Status = *req.Status
	}
	if err := h.store.Create(r.Context(), p); err != nil {
		h.log.Error("create blog post failed", "error", err)
		web.Error(w, http.StatusInternalServerError, "Failed to create blog post")
		return
	}
	web.JSON(w, http.StatusCreated, p)
}

// AdminGet handles GET /api/admin/blog/{id}.
func (h *Handler) AdminGet(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}
	p, ok := h.loadPost(w, r)
	if !ok {
		return
	}
	web.JSON(w, http.StatusOK, p)
}

// AdminUpdate handles PUT /api/admin/blog/{id}. Absent fields keep their
// stored values.
func (h *Handler) AdminUpdate(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}
	p, ok := h.loadPost(w, r)
	if !ok {
		return
	}
	var req postRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.Error(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Title != nil && *req.Title != "" {
		p.Title = *req.Title
	}
	if req.Excerpt != nil {
		p.Excerpt = *req.Excerpt
	}
	if req.Content != nil && *req.Content != "" {
		p.Content = *req.Content
	}
	if req.Category != nil && *req.Category != "" {
		p.Category = *req.Category
	}
	if req.ImageURL != nil {
		p.ImageURL = *req.ImageURL
	}
	if req.Status != nil && *req.Status != "" {
		p.Status = *req.Status
	}
	if err := h.store.Update(r.Context(), p); err != nil {
		h.log.Error("update blog post failed", "id", p.ID, "error", err)
		web.Error(w, http.StatusInternalServerError, "Failed to update blog post")
		return
	}
	web.JSON(w, http.StatusOK, p)
}

// AdminDelete handles DELETE /api/admin/blog/{id}.
func (h *Handler) AdminDelete(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}
	p, ok := h.loadPost(w, r)
	if !ok {
		return
	}
	if err := h.store.Delete(r.Context(), p.ID); err != nil {
		h.log.Error("delete blog post failed", "id", p.ID, "error", err)
		web.Error(w, http.StatusInternalServerError, "Failed to delete blog post")
		return
	}
	web.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) loadPost(w http.ResponseWriter, r *http.Request) (*Post, bool) {
	id, _ := router.IDParam(r)
	p, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		h.log.Error("get blog post failed", "id", id, "error", err)
		web.Error(w, http.StatusInternalServerError, "Failed to load blog post")
		return nil, false
	}
	if p == nil {
		web.Error(w, http.StatusNotFound, "Blog post not found")
		return nil, false
	}
	return p, true
}
