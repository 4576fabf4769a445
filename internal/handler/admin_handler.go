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

// AdminHandler handles the back-office order and customer endpoints. The
// router guards every route here with the admin-role middleware.
type AdminHandler struct {
	orderService service.OrderService
	userService  service.UserService
	logger       zerolog.Logger
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(orderService service.OrderService, userService service.UserService, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		orderService: orderService,
		userService:  userService,
		logger:       logger.With().Str("handler", "admin").Logger(),
	}
}

// ListOrders handles GET /api/admin/orders.
func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orderService.ListAllOrders(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	if orders == nil {
		orders = []model.Order{}
	}

	writeData(w, http.StatusOK, orders)
}

// GetOrder handles GET /api/admin/orders/{id}.
func (h *AdminHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order ID", h.logger)
		return
	}

	order, err := h.orderService.GetOrder(r.Context(), orderID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, order)
}

// UpdateOrder handles PATCH /api/admin/orders/{id}. Status and payment
// status can be moved in one request; the status transition is applied
// first and each move is recorded as its own event.
func (h *AdminHandler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveProfile(w, r, h.userService, h.logger)
	if !ok {
		return
	}

	orderID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order ID", h.logger)
		return
	}

	var req model.OrderUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload", h.logger)
		return
	}
	if req.Status == nil && req.PaymentStatus == nil {
		writeError(w, http.StatusBadRequest, "no fields to update", h.logger)
		return
	}

	var order *model.Order
	if req.Status != nil {
		order, err = h.orderService.TransitionStatus(r.Context(), orderID, *req.Status, actor.ID)
		middleware.RecordOrderOperation("transition_status", err == nil)
		if err != nil {
			writeServiceError(w, err, h.logger)
			return
		}
	}
	if req.PaymentStatus != nil {
		order, err = h.orderService.TransitionPaymentStatus(r.Context(), orderID, *req.PaymentStatus, actor.ID)
		middleware.RecordOrderOperation("transition_payment", err == nil)
		if err != nil {
			writeServiceError(w, err, h.logger)
			return
		}
	}

	h.logger.Info().
		Str("order_id", order.ID.String()).
		Str("status", string(order.Status)).
		Str("payment_status", string(order.PaymentStatus)).
		Msg("order updated")
	writeData(w, http.StatusOK, order)
}

// AppendEvent handles POST /api/admin/orders/{id}/events.
func (h *AdminHandler) AppendEvent(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveProfile(w, r, h.userService, h.logger)
	if !ok {
		return
	}

	orderID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order ID", h.logger)
		return
	}

	var req model.EventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload", h.logger)
		return
	}

	event, err := h.orderService.AppendEvent(r.Context(), orderID, &req, actor.ID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeData(w, http.StatusCreated, event)
}

// ListEvents handles GET /api/admin/orders/{id}/events.
func (h *AdminHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order ID", h.logger)
		return
	}

	events, err := h.orderService.ListEvents(r.Context(), orderID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	if events == nil {
		events = []model.OrderEvent{}
	}

	writeData(w, http.StatusOK, events)
}

// ListCustomers handles GET /api/admin/customers.
func (h *AdminHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.userService.ListCustomers(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	if customers == nil {
		customers = []model.UserProfile{}
	}

	writeData(w, http.StatusOK, customers)
}
