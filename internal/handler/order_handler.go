package handler

import (
	"encoding/json"
	"net/http"

	"cakery/internal/middleware"
	"cakery/internal/model"
	"cakery/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// OrderHandler handles order-related HTTP requests for the calling customer.
type OrderHandler struct {
	orderService service.OrderService
	userService  service.UserService
	logger       zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(orderService service.OrderService, userService service.UserService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		userService:  userService,
		logger:       logger.With().Str("handler", "order").Logger(),
	}
}

// Create handles POST /api/orders.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	profile, ok := resolveProfile(w, r, h.userService, h.logger)
	if !ok {
		return
	}

	var req model.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload", h.logger)
		return
	}

	confirmation, err := h.orderService.CreateOrder(r.Context(), profile.ID, &req)
	middleware.RecordOrderOperation("create", err == nil)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	h.logger.Info().
		Str("order_id", confirmation.Order.ID.String()).
		Str("order_number", confirmation.Order.OrderNumber).
		Msg("order placed")
	writeJSON(w, http.StatusCreated, confirmation)
}

// List handles GET /api/orders. An optional status query parameter narrows
// the result to orders in that state.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	profile, ok := resolveProfile(w, r, h.userService, h.logger)
	if !ok {
		return
	}

	orders, err := h.orderService.ListOrders(r.Context(), profile.ID, r.URL.Query().Get("status"))
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	if orders == nil {
		orders = []model.Order{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"orders": orders})
}

// ConfirmPayment handles POST /api/orders/{id}/confirm-payment.
func (h *OrderHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	profile, ok := resolveProfile(w, r, h.userService, h.logger)
	if !ok {
		return
	}

	orderID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order ID", h.logger)
		return
	}

	order, err := h.orderService.ConfirmPayment(r.Context(), orderID, profile.ID)
	middleware.RecordOrderOperation("confirm_payment", err == nil)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	h.logger.Info().
		Str("order_id", order.ID.String()).
		Msg("payment confirmed")
	writeJSON(w, http.StatusOK, map[string]interface{}{"order": order})
}
