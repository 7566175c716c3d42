package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"

	"github.com/farmstead-erp/farmstead-erp/internal/platform/httpx"
)

// Handler exposes the login and session endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// LoginRequest carries sign-in credentials.
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required,max=200"`
}

// LoginResponse returns the bearer token and the signed-in user.
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// MountPublicRoutes registers the unauthenticated endpoints. Login gets a
// tighter rate limit than the global one.
func (h *Handler) MountPublicRoutes(r chi.Router) {
	r.With(httprate.Limit(10, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP))).
		Post("/auth/login", h.login)
}

// MountProtectedRoutes registers the endpoints that require a valid token.
func (h *Handler) MountProtectedRoutes(r chi.Router) {
	r.Post("/auth/logout", h.logout)
	r.Get("/auth/me", h.me)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Msg(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.ValidationFailed(w, err)
		return
	}
	token, user, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			httpx.Msg(w, http.StatusUnauthorized, err.Error())
			return
		}
		h.logger.Error("login", "error", err)
		httpx.Internal(w)
		return
	}
	httpx.JSON(w, http.StatusOK, LoginResponse{Token: token, User: user})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		httpx.Msg(w, http.StatusUnauthorized, ErrUnauthorized.Error())
		return
	}
	if err := h.service.Logout(r.Context(), token); err != nil {
		h.logger.Error("logout", "error", err)
		httpx.Internal(w)
		return
	}
	httpx.Msg(w, http.StatusOK, "Logged out")
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFrom(r.Context())
	if !ok {
		httpx.Msg(w, http.StatusUnauthorized, ErrUnauthorized.Error())
		return
	}
	user, err := h.service.CurrentUser(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			httpx.Msg(w, http.StatusUnauthorized, ErrUnauthorized.Error())
			return
		}
		h.logger.Error("current user", "error", err)
		httpx.Internal(w)
		return
	}
	httpx.JSON(w, http.StatusOK, user)
}
