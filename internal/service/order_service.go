package service

import (
	"context"
	"fmt"
	"time"

	"cakery/internal/config"
	"cakery/internal/model"
	"cakery/internal/pricing"
	"cakery/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// orderService implements OrderService. Every status mutation and its audit
// event commit in a single transaction so the order row and its event log
// can never diverge.
type orderService struct {
	orderRepo repository.OrderRepository
	payment   config.PaymentConfig
	strict    bool
	logger    zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	payment config.PaymentConfig,
	orders config.OrdersConfig,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		payment:   payment,
		strict:    orders.StrictTransitions,
		logger:    logger.With().Str("service", "order").Logger(),
	}
}

// CreateOrder validates and stores a new order with its seed event.
func (s *orderService) CreateOrder(ctx context.Context, customerID uuid.UUID, req *model.OrderRequest) (*model.OrderConfirmation, error) {
	deliveryDate, err := s.validateOrderRequest(req)
	if err != nil {
		return nil, err
	}

	// The client computes the same price tables during design; recompute
	// here and reject mismatches so a tampered total can never be stored.
	quote := pricing.Quote(req.CakeConfig)
	if req.TotalAmount != quote {
		s.logger.Warn().
			Int64("submitted", req.TotalAmount).
			Int64("computed", quote).
			Msg("order total does not match computed price")
		return nil, model.ErrPriceMismatch
	}

	now := time.Now().UTC()
	order := &model.Order{
		ID:                  uuid.New(),
		OrderNumber:         model.NewOrderNumber(now),
		CustomerID:          customerID,
		CakeConfig:          req.CakeConfig,
		TotalAmount:         quote,
		Status:              model.StatusPending,
		PaymentStatus:       model.PaymentPending,
		DeliveryDate:        deliveryDate,
		DeliveryTime:        req.DeliveryTime,
		DeliveryAddress:     req.DeliveryAddress,
		SpecialInstructions: req.SpecialInstructions,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	event := &model.OrderEvent{
		ID:          uuid.New(),
		OrderID:     order.ID,
		EventType:   model.EventOrderPlaced,
		Description: "Order placed",
		CreatedBy:   &customerID,
		CreatedAt:   now,
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.orderRepo.Create(ctx, tx, order); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create order")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if err = s.orderRepo.AppendEvent(ctx, tx, event); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to append seed event")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	order.Events = []model.OrderEvent{*event}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("order_number", order.OrderNumber).
		Int64("total_amount", order.TotalAmount).
		Msg("order created successfully")

	return &model.OrderConfirmation{
		Order:               *order,
		PaymentInstructions: s.paymentInstructions(order),
	}, nil
}

// ListOrders retrieves a customer's orders with embedded events.
func (s *orderService) ListOrders(ctx context.Context, customerID uuid.UUID, status string) ([]model.Order, error) {
	filter := repository.OrderFilter{CustomerID: &customerID}

	if status != "" {
		parsed, err := model.ParseOrderStatus(status)
		if err != nil {
			return nil, err
		}
		filter.Status = &parsed
	}

	orders, err := s.orderRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	if err := s.embedEvents(ctx, orders); err != nil {
		return nil, err
	}

	return orders, nil
}

// ConfirmPayment marks a customer's order paid and confirmed.
func (s *orderService) ConfirmPayment(ctx context.Context, orderID, customerID uuid.UUID) (*model.Order, error) {
	// Ownership-scoped lookup: an order belonging to another customer is
	// reported as missing, never as forbidden.
	order, err := s.orderRepo.GetForCustomer(ctx, orderID, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to confirm payment: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	if order.PaymentStatus == model.PaymentPaid {
		return nil, model.ErrAlreadyPaid
	}

	now := time.Now().UTC()
	order.PaymentStatus = model.PaymentPaid
	order.Status = model.StatusConfirmed
	order.UpdatedAt = now

	event := &model.OrderEvent{
		ID:          uuid.New(),
		OrderID:     order.ID,
		EventType:   model.EventPaymentConfirmed,
		Description: "Payment confirmed by customer",
		CreatedBy:   &customerID,
		CreatedAt:   now,
	}

	if err := s.applyTransition(ctx, order, event); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Msg("payment confirmed")

	return order, nil
}

// GetOrder retrieves any order with events and urgency.
func (s *orderService) GetOrder(ctx context.Context, orderID uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	events, err := s.orderRepo.ListEvents(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	order.Events = events
	order.Urgency = model.OrderUrgency(order.DeliveryDate, time.Now().UTC())

	return order, nil
}

// ListAllOrders retrieves all orders with urgency for admin triage.
func (s *orderService) ListAllOrders(ctx context.Context, status string) ([]model.Order, error) {
	filter := repository.OrderFilter{}

	if status != "" {
		parsed, err := model.ParseOrderStatus(status)
		if err != nil {
			return nil, err
		}
		filter.Status = &parsed
	}

	orders, err := s.orderRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	now := time.Now().UTC()
	for i := range orders {
		orders[i].Urgency = model.OrderUrgency(orders[i].DeliveryDate, now)
	}

	return orders, nil
}

// TransitionStatus moves an order to a new production status.
func (s *orderService) TransitionStatus(ctx context.Context, orderID uuid.UUID, newStatus string, actorID uuid.UUID) (*model.Order, error) {
	status, err := model.ParseOrderStatus(newStatus)
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to transition status: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	if order.Status.Terminal() {
		return nil, model.ErrTerminalStatus
	}

	// Skipping production steps is allowed by default; real bakery
	// workflows do. The strict policy limits moves to adjacent steps and
	// cancellation.
	if s.strict && !order.Status.CanFollow(status) {
		return nil, model.ErrIllegalTransition
	}

	now := time.Now().UTC()
	order.Status = status
	order.UpdatedAt = now

	event := &model.OrderEvent{
		ID:          uuid.New(),
		OrderID:     order.ID,
		EventType:   fmt.Sprintf("Status changed to %s", status),
		Description: fmt.Sprintf("Status changed to %s", status),
		CreatedBy:   &actorID,
		CreatedAt:   now,
	}

	if err := s.applyTransition(ctx, order, event); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("status", string(status)).
		Msg("order status changed")

	return order, nil
}

// TransitionPaymentStatus moves an order to a new payment status. The
// payment axis is independent of production status; refunds remain possible
// after cancellation.
func (s *orderService) TransitionPaymentStatus(ctx context.Context, orderID uuid.UUID, newStatus string, actorID uuid.UUID) (*model.Order, error) {
	status, err := model.ParsePaymentStatus(newStatus)
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to transition payment status: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	now := time.Now().UTC()
	order.PaymentStatus = status
	order.UpdatedAt = now

	event := &model.OrderEvent{
		ID:          uuid.New(),
		OrderID:     order.ID,
		EventType:   fmt.Sprintf("Payment status changed to %s", status),
		Description: fmt.Sprintf("Payment status changed to %s", status),
		CreatedBy:   &actorID,
		CreatedAt:   now,
	}

	if err := s.applyTransition(ctx, order, event); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("payment_status", string(status)).
		Msg("order payment status changed")

	return order, nil
}

// AppendEvent appends a free-form annotation without touching status.
func (s *orderService) AppendEvent(ctx context.Context, orderID uuid.UUID, req *model.EventRequest, actorID uuid.UUID) (*model.OrderEvent, error) {
	var fields []string
	if req == nil || req.EventType == "" {
		fields = append(fields, "event_type")
	}
	if req == nil || req.Description == "" {
		fields = append(fields, "description")
	}
	if len(fields) > 0 {
		return nil, model.NewValidationError("missing required event fields", fields...)
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to append event: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	event := &model.OrderEvent{
		ID:                  uuid.New(),
		OrderID:             orderID,
		EventType:           req.EventType,
		Description:         req.Description,
		Notes:               req.Notes,
		EstimatedCompletion: req.EstimatedCompletion,
		CreatedBy:           &actorID,
		CreatedAt:           time.Now().UTC(),
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to append event: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.orderRepo.AppendEvent(ctx, tx, event); err != nil {
		return nil, fmt.Errorf("failed to append event: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to append event: %w", err)
	}

	s.logger.Info().
		Str("order_id", orderID.String()).
		Str("event_type", event.EventType).
		Msg("order event appended")

	return event, nil
}

// ListEvents retrieves an order's events, newest first.
func (s *orderService) ListEvents(ctx context.Context, orderID uuid.UUID) ([]model.OrderEvent, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	events, err := s.orderRepo.ListEvents(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	return events, nil
}

// applyTransition persists a status mutation and its audit event as one
// transaction.
func (s *orderService) applyTransition(ctx context.Context, order *model.Order, event *model.OrderEvent) error {
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to apply transition: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.orderRepo.UpdateStatuses(ctx, tx, order); err != nil {
		return fmt.Errorf("failed to apply transition: %w", err)
	}

	if err = s.orderRepo.AppendEvent(ctx, tx, event); err != nil {
		return fmt.Errorf("failed to apply transition: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return fmt.Errorf("failed to apply transition: %w", err)
	}

	return nil
}

// embedEvents attaches each order's event log, newest first.
func (s *orderService) embedEvents(ctx context.Context, orders []model.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(orders))
	for i, order := range orders {
		ids[i] = order.ID
	}

	grouped, err := s.orderRepo.ListEventsForOrders(ctx, ids)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load order events")
		return fmt.Errorf("failed to load order events: %w", err)
	}

	for i := range orders {
		orders[i].Events = grouped[orders[i].ID]
	}

	return nil
}

// validateOrderRequest checks creation preconditions and parses the
// delivery date.
func (s *orderService) validateOrderRequest(req *model.OrderRequest) (time.Time, error) {
	if req == nil {
		return time.Time{}, model.NewValidationError("order request is required")
	}

	var fields []string
	var deliveryDate time.Time

	if req.DeliveryDate == "" {
		fields = append(fields, "delivery_date")
	} else {
		parsed, err := time.Parse("2006-01-02", req.DeliveryDate)
		if err != nil {
			fields = append(fields, "delivery_date")
		} else {
			deliveryDate = parsed
		}
	}

	if req.DeliveryAddress == "" {
		fields = append(fields, "delivery_address")
	}

	if req.TotalAmount <= 0 {
		fields = append(fields, "total_amount")
	}

	if len(fields) > 0 {
		return time.Time{}, model.NewValidationError("missing required order fields", fields...)
	}

	if err := req.CakeConfig.Validate(); err != nil {
		return time.Time{}, err
	}

	return deliveryDate, nil
}

// paymentInstructions renders the manual mobile-money flow for an order.
func (s *orderService) paymentInstructions(order *model.Order) string {
	return fmt.Sprintf(
		"Send %d to %s number %s (%s) using %s as the payment reference, then confirm payment from your orders page.",
		order.TotalAmount,
		s.payment.Provider,
		s.payment.PhoneNumber,
		s.payment.AccountName,
		order.OrderNumber,
	)
}
