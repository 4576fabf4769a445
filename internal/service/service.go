package service

import (
	"context"
	"io"

	"cakery/internal/model"

	"github.com/google/uuid"
)

// OrderService owns the order lifecycle: creation, payment confirmation,
// status transitions and the append-only event log.
type OrderService interface {
	// CreateOrder validates and stores a new order in pending/pending state
	// with its seed event, returning the order and payment instructions.
	CreateOrder(ctx context.Context, customerID uuid.UUID, req *model.OrderRequest) (*model.OrderConfirmation, error)

	// ListOrders retrieves a customer's orders with embedded events,
	// optionally filtered by status.
	ListOrders(ctx context.Context, customerID uuid.UUID, status string) ([]model.Order, error)

	// ConfirmPayment marks a customer's order paid/confirmed. Not
	// idempotent: confirming an already-paid order is a conflict.
	ConfirmPayment(ctx context.Context, orderID, customerID uuid.UUID) (*model.Order, error)

	// GetOrder retrieves any order with events and urgency. Admin use.
	GetOrder(ctx context.Context, orderID uuid.UUID) (*model.Order, error)

	// ListAllOrders retrieves all orders with urgency, optionally filtered
	// by status. Admin use.
	ListAllOrders(ctx context.Context, status string) ([]model.Order, error)

	// TransitionStatus moves an order to a new production status. Admin use.
	TransitionStatus(ctx context.Context, orderID uuid.UUID, newStatus string, actorID uuid.UUID) (*model.Order, error)

	// TransitionPaymentStatus moves an order to a new payment status. Admin use.
	TransitionPaymentStatus(ctx context.Context, orderID uuid.UUID, newStatus string, actorID uuid.UUID) (*model.Order, error)

	// AppendEvent appends a free-form annotation to an order's event log
	// without touching its status. Admin use.
	AppendEvent(ctx context.Context, orderID uuid.UUID, req *model.EventRequest, actorID uuid.UUID) (*model.OrderEvent, error)

	// ListEvents retrieves an order's events, newest first. Admin use.
	ListEvents(ctx context.Context, orderID uuid.UUID) ([]model.OrderEvent, error)
}

// CakeService owns saved cake designs and price quotes.
type CakeService interface {
	// Quote prices a configuration without saving it.
	Quote(config model.CakeConfiguration) (int64, error)

	// SaveCake stores a customer's cake design with a server-computed price.
	SaveCake(ctx context.Context, customerID uuid.UUID, req *model.CakeRequest) (*model.Cake, error)

	// ListCakes retrieves a customer's saved designs.
	ListCakes(ctx context.Context, customerID uuid.UUID) ([]model.Cake, error)

	// AttachPreview stores a preview image for a customer's cake and records
	// its URL.
	AttachPreview(ctx context.Context, customerID, cakeID uuid.UUID, contentType string, body io.Reader) (*model.Cake, error)
}

// UserService owns user profiles.
type UserService interface {
	// EnsureProfile returns the profile for an identity-provider subject,
	// provisioning a customer profile on first sight.
	EnsureProfile(ctx context.Context, authID, name string) (*model.UserProfile, error)

	// ListCustomers retrieves all customer profiles. Admin use.
	ListCustomers(ctx context.Context) ([]model.UserProfile, error)
}
