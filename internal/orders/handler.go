package orders

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/farmstead-erp/farmstead-erp/internal/platform/httpx"
)

// Handler exposes the order workflow over HTTP.
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

// MountRoutes registers the order routes. Order deletion is destructive
// enough to gate behind adminOnly.
func (h *Handler) MountRoutes(r chi.Router, adminOnly func(http.Handler) http.Handler) {
	r.Route("/orders", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Route("/{orderID}", func(r chi.Router) {
			r.Get("/", h.get)
			r.Put("/", h.update)
			r.Patch("/status", h.updateStatus)
			r.With(adminOnly).Delete("/", h.delete)

			r.Route("/items", func(r chi.Router) {
				r.Get("/", h.listItems)
				r.Post("/", h.addItem)
				r.Get("/{itemID}", h.getItem)
				r.Put("/{itemID}", h.updateItem)
				r.Delete("/{itemID}", h.removeItem)
			})
		})
	})
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func parseListFilter(r *http.Request) (ListFilter, error) {
	q := r.URL.Query()
	filter := ListFilter{Limit: 50}

	if v := q.Get("status"); v != "" {
		status := Status(v)
		filter.Status = &status
	}
	if v := q.Get("buyer_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			return ListFilter{}, errors.New("Invalid buyer_id filter")
		}
		filter.BuyerID = &id
	}
	if v := q.Get("startDate"); v != "" {
		var d Date
		if err := d.UnmarshalJSON([]byte(`"` + v + `"`)); err != nil {
			return ListFilter{}, errors.New("Invalid startDate filter")
		}
		filter.StartDate = &d
	}
	if v := q.Get("endDate"); v != "" {
		var d Date
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
	filter, err := parseListFilter(r)
	if err != nil {
		httpx.Msg(w, http.StatusBadRequest, err.Error())
		return
	}
	resp, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.respondError(w, "list orders", err)
		return
	}
	// the documented response is the bare array; the page total travels in
	// a header so clients can still paginate
	w.Header().Set("X-Total-Count", strconv.Itoa(resp.Total))
	httpx.JSON(w, http.StatusOK, resp.Orders)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Msg(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.ValidationFailed(w, err)
		return
	}
	order, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.respondError(w, "create order", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, order)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "orderID")
	if !ok {
		httpx.Msg(w, http.StatusBadRequest, "Invalid order id")
		return
	}
	order, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, "get order", err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "orderID")
	if !ok {
		httpx.Msg(w, http.StatusBadRequest, "Invalid order id")
		return
	}
	var req UpdateOrderRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Msg(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.ValidationFailed(w, err)
		return
	}
	order, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		h.respondError(w, "update order", err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "orderID")
	if !ok {
		httpx.Msg(w, http.StatusBadRequest, "Invalid order id")
		return
	}
	var req UpdateStatusRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Msg(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.ValidationFailed(w, err)
		return
	}
	order, err := h.service.UpdateStatus(r.Context(), id, req)
	if err != nil {
		h.respondError(w, "update order status", err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "orderID")
	if !ok {
		httpx.Msg(w, http.StatusBadRequest, "Invalid order id")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.respondError(w, "delete order", err)
		return
	}
	httpx.Msg(w, http.StatusOK, "Order deleted successfully")
}

func (h *Handler) listItems(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(r, "orderID")
	if !ok {
		httpx.Msg(w, http.StatusBadRequest, "Invalid order id")
		return
	}
	items, err := h.service.ListItems(r.Context(), orderID)
	if err != nil {
		h.respondError(w, "list order items", err)
		return
	}
	httpx.JSON(w, http.StatusOK, items)
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(r, "orderID")
	if !ok {
		httpx.Msg(w, http.StatusBadRequest, "Invalid order id")
		return
	}
	var req AddItemRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Msg(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.ValidationFailed(w, err)
		return
	}
	item, err := h.service.AddItem(r.Context(), orderID, req)
	if err != nil {
		h.respondError(w, "add order item", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, item)
}

func (h *Handler) getItem(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(r, "orderID")
	if !ok {
		httpx.Msg(w, http.StatusBadRequest, "Invalid order id")
		return
	}
	itemID, ok := pathID(r, "itemID")
	if !ok {
		httpx.Msg(w, http.StatusBadRequest, "Invalid item id")
		return
	}
	item, err := h.service.GetItem(r.Context(), orderID, itemID)
	if err != nil {
		h.respondError(w, "get order item", err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(r, "orderID")
	if !ok {
		httpx.Msg(w, http.StatusBadRequest, "Invalid order id")
		return
	}
	itemID, ok := pathID(r, "itemID")
	if !ok {
		httpx.Msg(w, http.StatusBadRequest, "Invalid item id")
		return
	}
	var req UpdateItemRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Msg(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.ValidationFailed(w, err)
		return
	}
	item, err := h.service.UpdateItem(r.Context(), orderID, itemID, req)
	if err != nil {
		h.respondError(w, "update order item", err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(r, "orderID")
	if !ok {
		httpx.Msg(w, http.StatusBadRequest, "Invalid order id")
		return
	}
	itemID, ok := pathID(r, "itemID")
	if !ok {
		httpx.Msg(w, http.StatusBadRequest, "Invalid item id")
		return
	}
	if err := h.service.RemoveItem(r.Context(), orderID, itemID); err != nil {
		h.respondError(w, "remove order item", err)
		return
	}
	httpx.Msg(w, http.StatusOK, "Order item deleted successfully")
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrOrderNotFound),
		errors.Is(err, ErrItemNotFound),
		errors.Is(err, ErrBuyerNotFound),
		errors.Is(err, ErrStockNotFound):
		httpx.Msg(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrDeadlineBeforeOrderDate),
		errors.Is(err, ErrInvalidStatus),
		errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrOrderNotEditable),
		errors.Is(err, ErrInvalidQuantity),
		errors.Is(err, ErrInvalidUnitPrice),
		errors.Is(err, ErrStockRefRequired),
		errors.Is(err, ErrInsufficientStock):
		httpx.Msg(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error(op, "error", err)
		httpx.Internal(w)
	}
}
