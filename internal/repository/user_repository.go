package repository

import (
	"context"
	"fmt"

	"cakery/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// userRepository implements the UserRepository interface using PostgreSQL.
type userRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewUserRepository creates a new PostgreSQL-backed user profile repository.
func NewUserRepository(pool *pgxpool.Pool, logger zerolog.Logger) UserRepository {
	return &userRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "user").Logger(),
	}
}

// GetByAuthID retrieves a profile by identity-provider subject.
func (r *userRepository) GetByAuthID(ctx context.Context, authID string) (*model.UserProfile, error) {
	query := `
		SELECT id, auth_id, name, phone, role, created_at, updated_at
		FROM user_profiles
		WHERE auth_id = $1
	`

	var profile model.UserProfile
	err := r.pool.QueryRow(ctx, query, authID).Scan(
		&profile.ID,
		&profile.AuthID,
		&profile.Name,
		&profile.Phone,
		&profile.Role,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Msg("failed to query user profile")
		return nil, fmt.Errorf("failed to query user profile: %w", err)
	}

	return &profile, nil
}

// Create inserts a new profile.
func (r *userRepository) Create(ctx context.Context, profile *model.UserProfile) error {
	query := `
		INSERT INTO user_profiles (id, auth_id, name, phone, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		profile.ID,
		profile.AuthID,
		profile.Name,
		profile.Phone,
		profile.Role,
		profile.CreatedAt,
		profile.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("profile_id", profile.ID.String()).
			Msg("failed to create user profile")
		return fmt.Errorf("failed to create user profile: %w", err)
	}

	r.logger.Debug().
		Str("profile_id", profile.ID.String()).
		Str("role", string(profile.Role)).
		Msg("user profile created")

	return nil
}

// ListByRole retrieves all profiles with the given role, newest first.
func (r *userRepository) ListByRole(ctx context.Context, role model.Role) ([]model.UserProfile, error) {
	query := `
		SELECT id, auth_id, name, phone, role, created_at, updated_at
		FROM user_profiles
		WHERE role = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, role)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query user profiles")
		return nil, fmt.Errorf("failed to query user profiles: %w", err)
	}
	defer rows.Close()

	var profiles []model.UserProfile
	for rows.Next() {
		var profile model.UserProfile
		err := rows.Scan(
			&profile.ID,
			&profile.AuthID,
			&profile.Name,
			&profile.Phone,
			&profile.Role,
			&profile.CreatedAt,
			&profile.UpdatedAt,
		)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan user profile row")
			return nil, fmt.Errorf("failed to scan user profile: %w", err)
		}
		profiles = append(profiles, profile)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating user profile rows")
		return nil, fmt.Errorf("error iterating user profiles: %w", err)
	}

	return profiles, nil
}
