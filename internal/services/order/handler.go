package order

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"izakaya-order/internal/cart"
	"izakaya-order/internal/logger"
	"izakaya-order/internal/models"
	"izakaya-order/internal/services/web"
	"izakaya-order/internal/validation"
)

// Handler handles HTTP requests for the customer tablets
type Handler struct {
	service   *Service
	logger    *logger.Logger
	respond   web.Responder
	maxTables int
}

// NewHandler creates a new order handler
func NewHandler(service *Service, log *logger.Logger, maxTables int) *Handler {
	return &Handler{
		service:   service,
		logger:    log,
		respond:   web.NewResponder(log),
		maxTables: maxTables,
	}
}

// Routes mounts the table endpoints on r
func (h *Handler) Routes(r chi.Router) {
	r.Route("/tables/{tableID}", func(r chi.Router) {
		r.Get("/menu", h.GetMenu)
		r.Get("/cart", h.GetCart)
		r.Delete("/cart", h.ClearCart)
		r.Post("/cart/items", h.AddToCart)
		r.Patch("/cart/items/{lineKey}", h.UpdateLine)
		r.Delete("/cart/items/{lineKey}", h.RemoveLine)
		r.Post("/checkout", h.Checkout)
		r.Get("/orders", h.GetOrders)
		r.Post("/call-staff", h.CallStaff)
	})
}

// tableID validates the table path parameter and writes the error response when invalid
func (h *Handler) tableID(w http.ResponseWriter, r *http.Request) (string, bool) {
	requestID := web.RequestID(r.Context())
	tableID, err := validation.ValidateTableID(chi.URLParam(r, "tableID"), h.maxTables)
	if err != nil {
		h.logger.Warn("validation_failed", "Invalid table id", requestID, map[string]interface{}{
			"table_id": chi.URLParam(r, "tableID"),
		})
		h.respond.Error(w, http.StatusBadRequest, err.Error(), requestID)
		return "", false
	}
	return tableID, true
}

func (h *Handler) lineKey(w http.ResponseWriter, r *http.Request) (cart.LineKey, bool) {
	key, err := cart.ParseLineKey(chi.URLParam(r, "lineKey"))
	if err != nil {
		h.respond.Error(w, http.StatusBadRequest, "Invalid line key", web.RequestID(r.Context()))
		return cart.LineKey{}, false
	}
	return key, true
}

// GetMenu handles GET /tables/{tableID}/menu
func (h *Handler) GetMenu(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r.Context())
	tableID, ok := h.tableID(w, r)
	if !ok {
		return
	}

	menu, err := h.service.Menu(r.Context(), tableID)
	if err != nil {
		h.logger.Error("policy_read_failed", "Failed to read table policy", requestID, err, map[string]interface{}{
			"table_id": tableID,
		})
		h.respond.Error(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}
	h.respond.JSON(w, http.StatusOK, menu, requestID)
}

// GetCart handles GET /tables/{tableID}/cart
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	tableID, ok := h.tableID(w, r)
	if !ok {
		return
	}
	h.respond.JSON(w, http.StatusOK, h.service.Cart(tableID), web.RequestID(r.Context()))
}

// AddToCart handles POST /tables/{tableID}/cart/items
func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r.Context())
	tableID, ok := h.tableID(w, r)
	if !ok {
		return
	}

	var req models.AddToCartRequest
	if err := web.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("validation_failed", "Failed to parse request body", requestID, map[string]interface{}{
			"reason": err.Error(),
		})
		h.respond.Error(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}
	if err := validation.ValidateAddToCart(&req); err != nil {
		h.respond.Error(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}

	view, err := h.service.AddToCart(r.Context(), tableID, &req)
	if err != nil {
		var custErr *cart.CustomizationError
		switch {
		case errors.Is(err, ErrItemNotFound):
			h.respond.Error(w, http.StatusNotFound, "Menu item not found", requestID)
		case errors.Is(err, ErrItemUnavailable):
			h.respond.Error(w, http.StatusConflict, "Menu item is not available", requestID)
		case errors.As(err, &custErr):
			h.respond.Error(w, http.StatusBadRequest, custErr.Error(), requestID)
		default:
			h.logger.Error("cart_add_failed", "Failed to add item to cart", requestID, err, map[string]interface{}{
				"table_id":     tableID,
				"menu_item_id": req.MenuItemID,
			})
			h.respond.Error(w, http.StatusInternalServerError, "Internal server error", requestID)
		}
		return
	}

	h.logger.Debug("cart_item_added", "Item added to cart", requestID, map[string]interface{}{
		"table_id":     tableID,
		"menu_item_id": req.MenuItemID,
		"quantity":     req.Quantity,
	})
	h.respond.JSON(w, http.StatusOK, view, requestID)
}

// UpdateLine handles PATCH /tables/{tableID}/cart/items/{lineKey}
func (h *Handler) UpdateLine(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r.Context())
	tableID, ok := h.tableID(w, r)
	if !ok {
		return
	}
	key, ok := h.lineKey(w, r)
	if !ok {
		return
	}

	var req models.UpdateQuantityRequest
	if err := web.DecodeJSON(r, &req); err != nil {
		h.respond.Error(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}
	if err := validation.ValidateDelta(req.Delta); err != nil {
		h.respond.Error(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}

	h.respond.JSON(w, http.StatusOK, h.service.UpdateLine(tableID, key, req.Delta), requestID)
}

// RemoveLine handles DELETE /tables/{tableID}/cart/items/{lineKey}
func (h *Handler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	tableID, ok := h.tableID(w, r)
	if !ok {
		return
	}
	key, ok := h.lineKey(w, r)
	if !ok {
		return
	}
	h.respond.JSON(w, http.StatusOK, h.service.RemoveLine(tableID, key), web.RequestID(r.Context()))
}

// ClearCart handles DELETE /tables/{tableID}/cart
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	tableID, ok := h.tableID(w, r)
	if !ok {
		return
	}
	h.respond.JSON(w, http.StatusOK, h.service.ClearCart(tableID), web.RequestID(r.Context()))
}

// Checkout handles POST /tables/{tableID}/checkout
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r.Context())
	tableID, ok := h.tableID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	order, err := h.service.Checkout(ctx, tableID, requestID)
	if err != nil {
		if errors.Is(err, ErrEmptyCart) {
			h.respond.Error(w, http.StatusBadRequest, "Cart is empty", requestID)
			return
		}
		h.logger.Error("order_creation_failed", "Failed to submit order", requestID, err, map[string]interface{}{
			"table_id": tableID,
		})
		h.respond.Error(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}

	h.respond.JSON(w, http.StatusCreated, order, requestID)
}

// GetOrders handles GET /tables/{tableID}/orders
func (h *Handler) GetOrders(w http.ResponseWriter, r *http.Request) {
	tableID, ok := h.tableID(w, r)
	if !ok {
		return
	}
	h.respond.JSON(w, http.StatusOK, h.service.History(tableID), web.RequestID(r.Context()))
}

// CallStaff handles POST /tables/{tableID}/call-staff
func (h *Handler) CallStaff(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r.Context())
	tableID, ok := h.tableID(w, r)
	if !ok {
		return
	}

	if err := h.service.CallStaff(r.Context(), tableID, requestID); err != nil {
		h.logger.Error("staff_call_failed", "Failed to call staff", requestID, err, map[string]interface{}{
			"table_id": tableID,
		})
		h.respond.Error(w, http.StatusServiceUnavailable, "Staff could not be notified", requestID)
		return
	}
	h.respond.JSON(w, http.StatusAccepted, map[string]string{"status": "called", "table_id": tableID}, requestID)
}
