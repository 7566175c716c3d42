package stock

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/farmstead-erp/farmstead-erp/internal/platform/httpx"
)

// Handler exposes stock record CRUD over HTTP.
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

// segment → pool type for URL routing.
var segmentTypes = map[string]Type{
	"inventory": TypeInventory,
	"chickens":  TypeChicken,
	"chicks":    TypeChick,
	"eggs":      TypeEgg,
}

// MountRoutes registers stock endpoints on the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/stock/{poolType}", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Get("/{id}", h.get)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
		r.Patch("/{id}/quantity", h.adjustQuantity)
	})
}

func (h *Handler) poolRef(r *http.Request) (Ref, bool) {
	t, ok := segmentTypes[chi.URLParam(r, "poolType")]
	if !ok {
		return Ref{}, false
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return Ref{}, false
	}
	return Ref{Type: t, ID: id}, true
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	t, ok := segmentTypes[chi.URLParam(r, "poolType")]
	if !ok {
		httpx.Msg(w, http.StatusNotFound, "Unknown stock type")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	records, total, err := h.service.List(r.Context(), t, r.URL.Query().Get("search"), limit, offset)
	if err != nil {
		h.respondError(w, "list stock", err)
		return
	}
	httpx.JSON(w, http.StatusOK, ListResponse{Records: records, Total: total})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	t, ok := segmentTypes[chi.URLParam(r, "poolType")]
	if !ok {
		httpx.Msg(w, http.StatusNotFound, "Unknown stock type")
		return
	}
	var req CreateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Msg(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.ValidationFailed(w, err)
		return
	}

	rec, err := h.service.Create(r.Context(), t, req)
	if err != nil {
		h.respondError(w, "create stock", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, rec)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	ref, ok := h.poolRef(r)
	if !ok {
		httpx.Msg(w, http.StatusNotFound, "Stock record not found")
		return
	}
	rec, err := h.service.Get(r.Context(), ref)
	if err != nil {
		h.respondError(w, "get stock", err)
		return
	}
	httpx.JSON(w, http.StatusOK, rec)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	ref, ok := h.poolRef(r)
	if !ok {
		httpx.Msg(w, http.StatusNotFound, "Stock record not found")
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

	rec, err := h.service.Update(r.Context(), ref, req)
	if err != nil {
		h.respondError(w, "update stock", err)
		return
	}
	httpx.JSON(w, http.StatusOK, rec)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	ref, ok := h.poolRef(r)
	if !ok {
		httpx.Msg(w, http.StatusNotFound, "Stock record not found")
		return
	}
	if err := h.service.Delete(r.Context(), ref); err != nil {
		h.respondError(w, "delete stock", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"msg": "Stock record deleted"})
}

func (h *Handler) adjustQuantity(w http.ResponseWriter, r *http.Request) {
	ref, ok := h.poolRef(r)
	if !ok {
		httpx.Msg(w, http.StatusNotFound, "Stock record not found")
		return
	}
	var req AdjustRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Msg(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.ValidationFailed(w, err)
		return
	}

	rec, err := h.service.AdjustQuantity(r.Context(), ref, req.Delta)
	if err != nil {
		h.respondError(w, "adjust stock", err)
		return
	}
	httpx.JSON(w, http.StatusOK, rec)
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.Msg(w, http.StatusNotFound, ErrNotFound.Error())
	case errors.Is(err, ErrInvalidType):
		httpx.Msg(w, http.StatusNotFound, ErrInvalidType.Error())
	case errors.Is(err, ErrInvalidQuantity):
		httpx.Msg(w, http.StatusBadRequest, ErrInvalidQuantity.Error())
	case errors.Is(err, ErrInsufficientStock):
		httpx.Msg(w, http.StatusBadRequest, ErrInsufficientStock.Error())
	default:
		h.logger.Error(op+" failed", "error", err)
		httpx.Internal(w)
	}
}
