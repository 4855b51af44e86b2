package menu

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"izakaya-order/internal/logger"
	"izakaya-order/internal/menugen"
	"izakaya-order/internal/models"
	"izakaya-order/internal/services/web"
	"izakaya-order/internal/validation"
)

// Handler handles HTTP requests for menu administration
type Handler struct {
	service   *Service
	logger    *logger.Logger
	respond   web.Responder
	maxTables int
}

// NewHandler creates a new menu handler
func NewHandler(service *Service, log *logger.Logger, maxTables int) *Handler {
	return &Handler{
		service:   service,
		logger:    log,
		respond:   web.NewResponder(log),
		maxTables: maxTables,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Route("/menu", func(r chi.Router) {
		r.Get("/items", h.ListItems)
		r.Post("/items", h.CreateItem)
		r.Put("/items/{itemID}", h.ReplaceItem)
		r.Patch("/items/{itemID}", h.PatchItem)
		r.Delete("/items/{itemID}", h.DeleteItem)
		r.Post("/items/{itemID}/sold-out", h.ToggleSoldOut)
		r.Post("/specials/generate", h.GenerateSpecial)
	})
	r.Get("/tables/{tableID}/mode", h.GetTableMode)
	r.Put("/tables/{tableID}/mode", h.SetTableMode)
	r.Get("/policy/food-acceptance", h.GetFoodAcceptance)
	r.Put("/policy/food-acceptance", h.SetFoodAcceptance)
}

// ListItems handles GET /menu/items
func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	h.respond.JSON(w, http.StatusOK, h.service.Items(), web.RequestID(r.Context()))
}

// CreateItem handles POST /menu/items
func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r.Context())

	draft, ok := h.decodeItem(w, r)
	if !ok {
		return
	}

	item, err := h.service.Create(r.Context(), draft, requestID)
	if err != nil {
		h.writeItemError(w, err, requestID)
		return
	}
	h.respond.JSON(w, http.StatusCreated, item, requestID)
}

// ReplaceItem handles PUT /menu/items/{itemID}. The form carries every editable field.
func (h *Handler) ReplaceItem(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r.Context())

	draft, ok := h.decodeItem(w, r)
	if !ok {
		return
	}

	patch := models.MenuItemPatch{
		Name:        &draft.Name,
		Price:       &draft.Price,
		Category:    &draft.Category,
		SubCategory: &draft.SubCategory,
		Description: &draft.Description,
		ImageURL:    &draft.ImageURL,
	}
	item, err := h.service.Update(r.Context(), chi.URLParam(r, "itemID"), patch, requestID)
	if err != nil {
		h.writeItemError(w, err, requestID)
		return
	}
	h.respond.JSON(w, http.StatusOK, item, requestID)
}

// PatchItem handles PATCH /menu/items/{itemID}
func (h *Handler) PatchItem(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r.Context())

	var patch models.MenuItemPatch
	if err := web.DecodeJSON(r, &patch); err != nil {
		h.respond.Error(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}

	item, err := h.service.Update(r.Context(), chi.URLParam(r, "itemID"), patch, requestID)
	if err != nil {
		h.writeItemError(w, err, requestID)
		return
	}
	h.respond.JSON(w, http.StatusOK, item, requestID)
}

// DeleteItem handles DELETE /menu/items/{itemID}
func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r.Context())
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "itemID"), requestID); err != nil {
		h.writeItemError(w, err, requestID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ToggleSoldOut handles POST /menu/items/{itemID}/sold-out
func (h *Handler) ToggleSoldOut(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r.Context())
	item, err := h.service.ToggleSoldOut(r.Context(), chi.URLParam(r, "itemID"), requestID)
	if err != nil {
		h.writeItemError(w, err, requestID)
		return
	}
	h.respond.JSON(w, http.StatusOK, item, requestID)
}

// GenerateSpecial handles POST /menu/specials/generate
func (h *Handler) GenerateSpecial(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r.Context())

	var req models.GenerateSpecialRequest
	if err := web.DecodeJSON(r, &req); err != nil {
		h.respond.Error(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}
	if err := validation.ValidateIngredients(req.Ingredients); err != nil {
		h.respond.Error(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}

	item, err := h.service.GenerateSpecial(r.Context(), req.Ingredients, requestID)
	if err != nil {
		var genErr *menugen.GenerationError
		if errors.As(err, &genErr) {
			h.respond.Error(w, http.StatusBadGateway, genErr.Message, requestID)
			return
		}
		h.writeItemError(w, err, requestID)
		return
	}
	h.respond.JSON(w, http.StatusCreated, item, requestID)
}

// GetTableMode handles GET /tables/{tableID}/mode
func (h *Handler) GetTableMode(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r.Context())
	tableID, ok := h.tableID(w, r)
	if !ok {
		return
	}

	mode, err := h.service.TableMode(r.Context(), tableID)
	if err != nil {
		h.logger.Error("policy_read_failed", "Failed to read table mode", requestID, err, map[string]interface{}{
			"table_id": tableID,
		})
		h.respond.Error(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}
	h.respond.JSON(w, http.StatusOK, models.TableModeRequest{Mode: mode}, requestID)
}

// SetTableMode handles PUT /tables/{tableID}/mode
func (h *Handler) SetTableMode(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r.Context())
	tableID, ok := h.tableID(w, r)
	if !ok {
		return
	}

	var req models.TableModeRequest
	if err := web.DecodeJSON(r, &req); err != nil {
		h.respond.Error(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}
	if !req.Mode.Valid() {
		h.respond.Error(w, http.StatusBadRequest, "Invalid table mode", requestID)
		return
	}

	if err := h.service.SetTableMode(r.Context(), tableID, req.Mode, requestID); err != nil {
		h.logger.Error("policy_write_failed", "Failed to set table mode", requestID, err, map[string]interface{}{
			"table_id": tableID,
		})
		h.respond.Error(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}
	h.respond.JSON(w, http.StatusOK, req, requestID)
}

// GetFoodAcceptance handles GET /policy/food-acceptance
func (h *Handler) GetFoodAcceptance(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r.Context())
	accepted, err := h.service.FoodAccepted(r.Context())
	if err != nil {
		h.logger.Error("policy_read_failed", "Failed to read food acceptance", requestID, err, nil)
		h.respond.Error(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}
	h.respond.JSON(w, http.StatusOK, models.FoodAcceptanceRequest{Accepted: accepted}, requestID)
}

// SetFoodAcceptance handles PUT /policy/food-acceptance
func (h *Handler) SetFoodAcceptance(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r.Context())

	var req models.FoodAcceptanceRequest
	if err := web.DecodeJSON(r, &req); err != nil {
		h.respond.Error(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}
	if err := h.service.SetFoodAccepted(r.Context(), req.Accepted, requestID); err != nil {
		h.logger.Error("policy_write_failed", "Failed to set food acceptance", requestID, err, nil)
		h.respond.Error(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}
	h.respond.JSON(w, http.StatusOK, req, requestID)
}

// decodeItem parses and validates the staff menu form
func (h *Handler) decodeItem(w http.ResponseWriter, r *http.Request) (models.MenuItemDraft, bool) {
	requestID := web.RequestID(r.Context())

	var req models.MenuItemRequest
	if err := web.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("validation_failed", "Failed to parse request body", requestID, map[string]interface{}{
			"reason": err.Error(),
		})
		h.respond.Error(w, http.StatusBadRequest, err.Error(), requestID)
		return models.MenuItemDraft{}, false
	}

	draft, err := validation.ValidateMenuItemRequest(&req)
	if err != nil {
		h.logger.Warn("validation_failed", "Menu item rejected", requestID, map[string]interface{}{
			"reason": err.Error(),
		})
		h.respond.Error(w, http.StatusBadRequest, err.Error(), requestID)
		return models.MenuItemDraft{}, false
	}
	return draft, true
}

func (h *Handler) tableID(w http.ResponseWriter, r *http.Request) (string, bool) {
	tableID, err := validation.ValidateTableID(chi.URLParam(r, "tableID"), h.maxTables)
	if err != nil {
		h.respond.Error(w, http.StatusBadRequest, err.Error(), web.RequestID(r.Context()))
		return "", false
	}
	return tableID, true
}

func (h *Handler) writeItemError(w http.ResponseWriter, err error, requestID string) {
	switch {
	case errors.Is(err, ErrItemNotFound):
		h.respond.Error(w, http.StatusNotFound, "Menu item not found", requestID)
	case errors.Is(err, ErrInvalidItem):
		h.respond.Error(w, http.StatusBadRequest, "Invalid menu item", requestID)
	default:
		h.logger.Error("menu_update_failed", "Failed to update menu", requestID, err, nil)
		h.respond.Error(w, http.StatusInternalServerError, "Internal server error", requestID)
	}
}
