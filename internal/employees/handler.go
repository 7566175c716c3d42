package employees

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/farmstead-erp/farmstead-erp/internal/platform/httpx"
)

// Handler exposes employee CRUD over HTTP.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler creates a new handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		validate: validator.New(),
	}
}

// MountRoutes registers employee endpoints on the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Get("/{id}", h.get)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	list, total, err := h.service.List(r.Context(), r.URL.Query().Get("search"), limit, offset)
	if err != nil {
		h.respondError(w, "list employees", err)
		return
	}
	httpx.JSON(w, http.StatusOK, ListResponse{Employees: list, Total: total})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Msg(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.ValidationFailed(w, err)
		return
	}

	employee, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.respondError(w, "create employee", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, employee)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Msg(w, http.StatusNotFound, ErrNotFound.Error())
		return
	}
	employee, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, "get employee", err)
		return
	}
	httpx.JSON(w, http.StatusOK, employee)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Msg(w, http.StatusNotFound, ErrNotFound.Error())
		return
	}
	var req UpdateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Msg(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.ValidationFailed(w, err)
		return
	}

	employee, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		h.respondError(w, "update employee", err)
		return
	}
	httpx.JSON(w, http.StatusOK, employee)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Msg(w, http.StatusNotFound, ErrNotFound.Error())
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.respondError(w, "delete employee", err)
		return
	}
	httpx.Msg(w, http.StatusOK, "Employee deleted")
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, ErrNotFound) {
		httpx.Msg(w, http.StatusNotFound, ErrNotFound.Error())
		return
	}
	h.logger.Error(op+" failed", "error", err)
	httpx.Internal(w)
}
