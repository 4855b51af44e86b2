package kitchen

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"izakaya-order/internal/logger"
	"izakaya-order/internal/models"
	"izakaya-order/internal/orders"
	"izakaya-order/internal/services/web"
)

// changedByHeader names the staff member behind a status change
const changedByHeader = "X-Staff-Name"

// Handler handles HTTP requests for the kitchen display
type Handler struct {
	service *Service
	logger  *logger.Logger
	respond web.Responder
}

// NewHandler creates a new kitchen handler
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log,
		respond: web.NewResponder(log),
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/kitchen/pending", h.GetPending)
	r.Get("/kitchen/served", h.GetServed)
	r.Post("/orders/{orderID}/status", h.UpdateStatus)
}

// GetPending handles GET /kitchen/pending
func (h *Handler) GetPending(w http.ResponseWriter, r *http.Request) {
	h.respond.JSON(w, http.StatusOK, h.service.Pending(), web.RequestID(r.Context()))
}

// GetServed handles GET /kitchen/served
func (h *Handler) GetServed(w http.ResponseWriter, r *http.Request) {
	h.respond.JSON(w, http.StatusOK, h.service.Served(), web.RequestID(r.Context()))
}

// UpdateStatus handles POST /orders/{orderID}/status
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r.Context())
	orderID := chi.URLParam(r, "orderID")

	var req models.StatusRequest
	if err := web.DecodeJSON(r, &req); err != nil {
		h.respond.Error(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}
	if !req.Status.Valid() {
		h.respond.Error(w, http.StatusBadRequest, "Invalid status", requestID)
		return
	}

	changedBy := r.Header.Get(changedByHeader)
	if changedBy == "" {
		changedBy = "staff"
	}

	order, err := h.service.Advance(r.Context(), orderID, req.Status, changedBy, requestID)
	if err != nil {
		switch {
		case errors.Is(err, ErrOrderNotFound):
			h.respond.Error(w, http.StatusNotFound, "Order not found", requestID)
		case errors.Is(err, orders.ErrIllegalTransition):
			h.logger.Warn("illegal_transition", err.Error(), requestID, map[string]interface{}{
				"order_id": orderID,
				"to":       req.Status,
			})
			h.respond.Error(w, http.StatusConflict, err.Error(), requestID)
		default:
			h.logger.Error("status_update_failed", "Failed to update order status", requestID, err, nil)
			h.respond.Error(w, http.StatusInternalServerError, "Internal server error", requestID)
		}
		return
	}

	h.respond.JSON(w, http.StatusOK, order, requestID)
}
