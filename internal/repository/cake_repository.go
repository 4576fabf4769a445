package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"cakery/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// cakeRepository implements the CakeRepository interface using PostgreSQL.
type cakeRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCakeRepository creates a new PostgreSQL-backed cake design repository.
func NewCakeRepository(pool *pgxpool.Pool, logger zerolog.Logger) CakeRepository {
	return &cakeRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "cake").Logger(),
	}
}

// Create inserts a new cake design.
func (r *cakeRepository) Create(ctx context.Context, cake *model.Cake) error {
	config, err := json.Marshal(cake.Config)
	if err != nil {
		return fmt.Errorf("failed to marshal cake config: %w", err)
	}

	query := `
		INSERT INTO cakes (id, customer_id, name, config, price_units, preview_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = r.pool.Exec(ctx, query,
		cake.ID,
		cake.CustomerID,
		cake.Name,
		config,
		cake.PriceUnits,
		cake.PreviewURL,
		cake.CreatedAt,
		cake.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("cake_id", cake.ID.String()).
			Msg("failed to create cake")
		return fmt.Errorf("failed to create cake: %w", err)
	}

	r.logger.Debug().
		Str("cake_id", cake.ID.String()).
		Msg("cake created successfully")

	return nil
}

// GetForCustomer retrieves a cake scoped to its owning customer.
func (r *cakeRepository) GetForCustomer(ctx context.Context, id, customerID uuid.UUID) (*model.Cake, error) {
	query := `
		SELECT id, customer_id, name, config, price_units, preview_url, created_at, updated_at
		FROM cakes
		WHERE id = $1 AND customer_id = $2
	`

	cake, err := scanCake(r.pool.QueryRow(ctx, query, id, customerID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("cake_id", id.String()).Msg("failed to query cake")
		return nil, fmt.Errorf("failed to query cake: %w", err)
	}

	return cake, nil
}

// ListByCustomer retrieves a customer's saved designs, newest first.
func (r *cakeRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Cake, error) {
	query := `
		SELECT id, customer_id, name, config, price_units, preview_url, created_at, updated_at
		FROM cakes
		WHERE customer_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, customerID)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query cakes")
		return nil, fmt.Errorf("failed to query cakes: %w", err)
	}
	defer rows.Close()

	var cakes []model.Cake
	for rows.Next() {
		cake, err := scanCake(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan cake row")
			return nil, fmt.Errorf("failed to scan cake: %w", err)
		}
		cakes = append(cakes, *cake)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating cake rows")
		return nil, fmt.Errorf("error iterating cakes: %w", err)
	}

	return cakes, nil
}

// SetPreviewURL stores the preview image URL for a cake.
func (r *cakeRepository) SetPreviewURL(ctx context.Context, id uuid.UUID, previewURL string) error {
	query := `UPDATE cakes SET preview_url = $2, updated_at = NOW() WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id, previewURL)
	if err != nil {
		r.logger.Error().Err(err).Str("cake_id", id.String()).Msg("failed to set preview URL")
		return fmt.Errorf("failed to set preview URL: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to set preview URL: no row for id %s", id)
	}

	return nil
}

func scanCake(row pgx.Row) (*model.Cake, error) {
	var cake model.Cake
	var config []byte

	err := row.Scan(
		&cake.ID,
		&cake.CustomerID,
		&cake.Name,
		&config,
		&cake.PriceUnits,
		&cake.PreviewURL,
		&cake.CreatedAt,
		&cake.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(config, &cake.Config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cake config: %w", err)
	}

	return &cake, nil
}
