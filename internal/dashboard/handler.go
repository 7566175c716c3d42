package dashboard

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/farmstead-erp/farmstead-erp/internal/platform/httpx"
)

// Handler serves the dashboard summary.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers the dashboard endpoint.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/dashboard/summary", h.summary)
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		h.logger.Error("dashboard summary", "error", err)
		httpx.Internal(w)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}
