package repository

import (
	"context"

	"cakery/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// OrderFilter narrows order listings. A nil field means no constraint.
type OrderFilter struct {
	CustomerID *uuid.UUID
	Status     *model.OrderStatus
}

// OrderRepository defines the interface for order data access operations.
// Mutations take an explicit transaction so a status change and its audit
// event always commit as one unit.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// Create inserts a new order within the provided transaction.
	Create(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// UpdateStatuses persists the order's status, payment status and
	// updated_at within the provided transaction.
	UpdateStatuses(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// AppendEvent inserts an order event within the provided transaction.
	// Events are append-only; no update or delete path exists.
	AppendEvent(ctx context.Context, tx pgx.Tx, event *model.OrderEvent) error

	// GetByID retrieves an order by its ID. Returns nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// GetForCustomer retrieves an order scoped to its owning customer.
	// Returns nil when the order does not exist or belongs to someone else.
	GetForCustomer(ctx context.Context, id, customerID uuid.UUID) (*model.Order, error)

	// List retrieves orders matching the filter, newest first.
	List(ctx context.Context, filter OrderFilter) ([]model.Order, error)

	// ListEvents retrieves an order's events, newest first.
	ListEvents(ctx context.Context, orderID uuid.UUID) ([]model.OrderEvent, error)

	// ListEventsForOrders retrieves events for multiple orders in one query,
	// grouped by order, each group newest first.
	ListEventsForOrders(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]model.OrderEvent, error)
}

// UserRepository defines the interface for user profile data access.
type UserRepository interface {
	// GetByAuthID retrieves a profile by identity-provider subject.
	// Returns nil when absent.
	GetByAuthID(ctx context.Context, authID string) (*model.UserProfile, error)

	// Create inserts a new profile.
	Create(ctx context.Context, profile *model.UserProfile) error

	// ListByRole retrieves all profiles with the given role, newest first.
	ListByRole(ctx context.Context, role model.Role) ([]model.UserProfile, error)
}

// CakeRepository defines the interface for saved cake design data access.
type CakeRepository interface {
	// Create inserts a new cake design.
	Create(ctx context.Context, cake *model.Cake) error

	// GetForCustomer retrieves a cake scoped to its owning customer.
	// Returns nil when the cake does not exist or belongs to someone else.
	GetForCustomer(ctx context.Context, id, customerID uuid.UUID) (*model.Cake, error)

	// ListByCustomer retrieves a customer's saved designs, newest first.
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Cake, error)

	// SetPreviewURL stores the preview image URL for a cake.
	SetPreviewURL(ctx context.Context, id uuid.UUID, previewURL string) error
}
