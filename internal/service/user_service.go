package service

import (
	"context"
	"fmt"
	"time"

	"cakery/internal/model"
	"cakery/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// userService implements UserService.
type userService struct {
	userRepo repository.UserRepository
	logger   zerolog.Logger
}

// NewUserService creates a new user profile service.
func NewUserService(userRepo repository.UserRepository, logger zerolog.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		logger:   logger.With().Str("service", "user").Logger(),
	}
}

// EnsureProfile returns the profile for an identity-provider subject,
// provisioning a customer profile on first sight. Admin promotion happens
// out of band.
func (s *userService) EnsureProfile(ctx context.Context, authID, name string) (*model.UserProfile, error) {
	if authID == "" {
		return nil, model.NewValidationError("caller identity is required")
	}

	profile, err := s.userRepo.GetByAuthID(ctx, authID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve profile: %w", err)
	}
	if profile != nil {
		return profile, nil
	}

	now := time.Now().UTC()
	profile = &model.UserProfile{
		ID:        uuid.New(),
		AuthID:    authID,
		Name:      name,
		Role:      model.RoleCustomer,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.userRepo.Create(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to provision profile: %w", err)
	}

	s.logger.Info().
		Str("profile_id", profile.ID.String()).
		Msg("customer profile provisioned")

	return profile, nil
}

// ListCustomers retrieves all customer profiles.
func (s *userService) ListCustomers(ctx context.Context) ([]model.UserProfile, error) {
	profiles, err := s.userRepo.ListByRole(ctx, model.RoleCustomer)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list customers")
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return profiles, nil
}
