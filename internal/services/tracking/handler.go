package tracking

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"izakaya-order/internal/logger"
	"izakaya-order/internal/services/web"
)

// Handler handles HTTP requests for the tracking service
type Handler struct {
	service *Service
	logger  *logger.Logger
	respond web.Responder
}

// NewHandler creates a new tracking handler
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log,
		respond: web.NewResponder(log),
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/sales/daily", h.GetDailySales)
	r.Get("/orders/{orderID}", h.GetOrder)
}

// GetDailySales handles GET /sales/daily
func (h *Handler) GetDailySales(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r.Context())
	summaries := h.service.DailySales()

	h.logger.Debug("sales_requested", "Daily sales requested", requestID, map[string]interface{}{
		"days": len(summaries),
	})
	h.respond.JSON(w, http.StatusOK, summaries, requestID)
}

// GetOrder handles GET /orders/{orderID}
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r.Context())
	orderID := chi.URLParam(r, "orderID")

	order, err := h.service.Order(orderID)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			h.respond.Error(w, http.StatusNotFound, "Order not found", requestID)
			return
		}
		h.respond.Error(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}
	h.respond.JSON(w, http.StatusOK, order, requestID)
}
