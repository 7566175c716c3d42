package transactions

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/farmstead-erp/farmstead-erp/internal/orders"
	"github.com/farmstead-erp/farmstead-erp/internal/platform/httpx"
)

// Handler exposes ledger CRUD over HTTP.
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

// MountRoutes registers transaction endpoints on the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/transactions", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Get("/{id}", h.get)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
	})
}

func parseFilter(r *http.Request) (ListFilter, error) {
	q := r.URL.Query()
	filter := ListFilter{Limit: 50}

	if v := q.Get("type"); v != "" {
		t := Type(v)
		filter.Type = &t
	}
	if v := q.Get("startDate"); v != "" {
		var d orders.Date
		if err := d.UnmarshalJSON([]byte(`"` + v + `"`)); err != nil {
			return ListFilter{}, errors.New("Invalid startDate filter")
		}
		filter.StartDate = &d
	}
	if v := q.Get("endDate"); v != "" {
		var d orders.Date
		if err := d.UnmarshalJSON([]byte(`"` + v + `"`)); err != nil {
			return ListFilter{}, errors.New("Invalid endDate filter")
		}
		filter.EndDate = &d
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 200 {
			return ListFilter{}, errors.New("Invalid limit")
		}
		filter.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return ListFilter{}, errors.New("Invalid offset")
		}
		filter.Offset = n
	}
	return filter, nil
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		httpx.Msg(w, http.StatusBadRequest, err.Error())
		return
	}
	resp, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.respondError(w, "list transactions", err)
		return
	}
	httpx.JSON(w, http.StatusOK, resp)
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
	txn, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.respondError(w, "create transaction", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, txn)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Msg(w, http.StatusNotFound, ErrNotFound.Error())
		return
	}
	txn, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, "get transaction", err)
		return
	}
	httpx.JSON(w, http.StatusOK, txn)
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
	txn, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		h.respondError(w, "update transaction", err)
		return
	}
	httpx.JSON(w, http.StatusOK, txn)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Msg(w, http.StatusNotFound, ErrNotFound.Error())
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.respondError(w, "delete transaction", err)
		return
	}
	httpx.Msg(w, http.StatusOK, "Transaction deleted")
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrOrderNotFound):
		httpx.Msg(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidType):
		httpx.Msg(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error(op+" failed", "error", err)
		httpx.Internal(w)
	}
}
