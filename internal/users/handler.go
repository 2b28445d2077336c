package users

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/healthscan/backend/internal/identity"
	"github.com/healthscan/backend/internal/web"
)

type RegisterRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Country   string `json:"country"`
	Gender    string `json:"gender"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID        int64      `json:"id"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Email     string     `json:"email"`
	Country   string     `json:"country"`
	Gender    string     `json:"gender"`
	Role      string     `json:"role"`
	Credits   int        `json:"credits"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

type AuthResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

type Handler struct {
	svc Service
	log *slog.Logger
}

func NewHandler(svc Service, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{svc: svc, log: log}
}

// Register handles POST /api/auth/register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.Error(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.FirstName == "" || req.LastName == "" || req.Email == "" ||
		req.Password == "" || req.Country == "" || req.Gender == "" {
		web.Error(w, http.StatusBadRequest, "All fields are required")
		return
	}
	u, tok, err := h.svc.Register(r.Context(), RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Country:   req.Country,
		Gender:    req.Gender,
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			web.Error(w, http.StatusConflict, "User with this email already exists")
			return
		}
		h.log.Error("register failed", "error", err)
		web.Error(w, http.StatusInternalServerError, "Registration failed")
		return
	}
	web.JSON(w, http.StatusCreated, AuthResponse{User: toResponse(u), Token: tok})
}

// Login handles POST /api/auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.Error(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Email == "" || req.Password == "" {
		web.Error(w, http.StatusBadRequest, "Email and password are required")
		return
	}
	u, tok, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			web.Error(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		h.log.Error("login failed", "error", err)
		web.Error(w, http.StatusInternalServerError, "Login failed")
		return
	}
	web.JSON(w, http.StatusOK, AuthResponse{User: toResponse(u), Token: tok})
}

// Me handles GET /api/auth/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	ident := identity.FromCtx(r.Context())
	if !ident.Authenticated {
		web.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	u, err := h.svc.GetByID(r.Context(), ident.UserID)
	if err != nil {
		h.log.Error("get current user failed", "error", err)
		web.Error(w, http.StatusInternalServerError, "Failed to load user")
		return
	}
	if u == nil {
		web.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	web.JSON(w, http.StatusOK, toResponse(u))
}

func toResponse(u *User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Country:   u.Country,
		Gender:    u.Gender,
		Role:      u.Role,
		Credits:   u.Credits,
		LastLogin: u.LastLogin,
		CreatedAt: u.CreatedAt,
	}
}
