package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"cakery/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const orderColumns = `
	id, order_number, customer_id, cake_config, total_units, status,
	payment_status, delivery_date, delivery_time, delivery_address,
	special_instructions, created_at, updated_at
`

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *orderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// Create inserts a new order within the provided transaction.
func (r *orderRepository) Create(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	config, err := json.Marshal(order.CakeConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal cake config: %w", err)
	}

	query := `
		INSERT INTO orders (
			id, order_number, customer_id, cake_config, total_units, status,
			payment_status, delivery_date, delivery_time, delivery_address,
			special_instructions, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err = tx.Exec(ctx, query,
		order.ID,
		order.OrderNumber,
		order.CustomerID,
		config,
		order.TotalAmount,
		order.Status,
		order.PaymentStatus,
		order.DeliveryDate,
		order.DeliveryTime,
		order.DeliveryAddress,
		order.SpecialInstructions,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Debug().
		Str("order_id", order.ID.String()).
		Str("order_number", order.OrderNumber).
		Msg("order created successfully")

	return nil
}

// UpdateStatuses persists the order's status fields within the transaction.
func (r *orderRepository) UpdateStatuses(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	query := `
		UPDATE orders
		SET status = $2, payment_status = $3, updated_at = $4
		WHERE id = $1
	`

	tag, err := tx.Exec(ctx, query, order.ID, order.Status, order.PaymentStatus, order.UpdatedAt)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Msg("failed to update order statuses")
		return fmt.Errorf("failed to update order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to update order: no row for id %s", order.ID)
	}

	return nil
}

// AppendEvent inserts an order event within the provided transaction.
func (r *orderRepository) AppendEvent(ctx context.Context, tx pgx.Tx, event *model.OrderEvent) error {
	query := `
		INSERT INTO order_events (
			id, order_id, event_type, description, notes,
			estimated_completion, created_by, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := tx.Exec(ctx, query,
		event.ID,
		event.OrderID,
		event.EventType,
		event.Description,
		event.Notes,
		event.EstimatedCompletion,
		event.CreatedBy,
		event.CreatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", event.OrderID.String()).
			Str("event_type", event.EventType).
			Msg("failed to append order event")
		return fmt.Errorf("failed to append order event: %w", err)
	}

	return nil
}

// GetByID retrieves an order by its ID.
func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// GetForCustomer retrieves an order scoped to its owning customer.
func (r *orderRepository) GetForCustomer(ctx context.Context, id, customerID uuid.UUID) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 AND customer_id = $2`
	return r.getOne(ctx, query, id, customerID)
}

func (r *orderRepository) getOne(ctx context.Context, query string, args ...any) (*model.Order, error) {
	row := r.pool.QueryRow(ctx, query, args...)

	order, err := scanOrder(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Msg("failed to query order")
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	return order, nil
}

// List retrieves orders matching the filter, newest first.
func (r *orderRepository) List(ctx context.Context, filter OrderFilter) ([]model.Order, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + orderColumns + ` FROM orders`)

	args := []any{}
	conditions := []string{}

	if filter.CustomerID != nil {
		args = append(args, *filter.CustomerID)
		conditions = append(conditions, fmt.Sprintf("customer_id = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}

	if len(conditions) > 0 {
		sb.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	sb.WriteString(" ORDER BY created_at DESC")

	rows, err := r.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query orders")
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order row")
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *order)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order rows")
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}

const eventColumns = `
	id, order_id, event_type, description, notes,
	estimated_completion, created_by, created_at
`

// ListEvents retrieves an order's events, newest first.
func (r *orderRepository) ListEvents(ctx context.Context, orderID uuid.UUID) ([]model.OrderEvent, error) {
	query := `SELECT ` + eventColumns + ` FROM order_events WHERE order_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", orderID.String()).
			Msg("failed to query order events")
		return nil, fmt.Errorf("failed to query order events: %w", err)
	}
	defer rows.Close()

	return collectEvents(rows)
}

// ListEventsForOrders retrieves events for multiple orders in one query.
func (r *orderRepository) ListEventsForOrders(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]model.OrderEvent, error) {
	grouped := make(map[uuid.UUID][]model.OrderEvent, len(orderIDs))
	if len(orderIDs) == 0 {
		return grouped, nil
	}

	query := `SELECT ` + eventColumns + ` FROM order_events WHERE order_id = ANY($1) ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, orderIDs)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query order events")
		return nil, fmt.Errorf("failed to query order events: %w", err)
	}
	defer rows.Close()

	events, err := collectEvents(rows)
	if err != nil {
		return nil, err
	}

	for _, event := range events {
		grouped[event.OrderID] = append(grouped[event.OrderID], event)
	}

	return grouped, nil
}

// scanOrder reads one order row, unmarshalling the embedded cake config.
func scanOrder(row pgx.Row) (*model.Order, error) {
	var order model.Order
	var config []byte

	err := row.Scan(
		&order.ID,
		&order.OrderNumber,
		&order.CustomerID,
		&config,
		&order.TotalAmount,
		&order.Status,
		&order.PaymentStatus,
		&order.DeliveryDate,
		&order.DeliveryTime,
		&order.DeliveryAddress,
		&order.SpecialInstructions,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(config, &order.CakeConfig); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cake config: %w", err)
	}

	return &order, nil
}

func collectEvents(rows pgx.Rows) ([]model.OrderEvent, error) {
	var events []model.OrderEvent
	for rows.Next() {
		var event model.OrderEvent
		err := rows.Scan(
			&event.ID,
			&event.OrderID,
			&event.EventType,
			&event.Description,
			&event.Notes,
			&event.EstimatedCompletion,
			&event.CreatedBy,
			&event.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order event: %w", err)
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order events: %w", err)
	}

	return events, nil
}
