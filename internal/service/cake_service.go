package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"cakery/internal/model"
	"cakery/internal/preview"
	"cakery/internal/pricing"
	"cakery/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// previewExtensions maps accepted upload content types to stored file
// extensions.
var previewExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
}

// cakeService implements CakeService.
type cakeService struct {
	cakeRepo repository.CakeRepository
	previews preview.Store
	logger   zerolog.Logger
}

// NewCakeService creates a new cake design service.
func NewCakeService(
	cakeRepo repository.CakeRepository,
	previews preview.Store,
	logger zerolog.Logger,
) CakeService {
	return &cakeService{
		cakeRepo: cakeRepo,
		previews: previews,
		logger:   logger.With().Str("service", "cake").Logger(),
	}
}

// Quote prices a configuration without saving it.
func (s *cakeService) Quote(config model.CakeConfiguration) (int64, error) {
	if err := config.Validate(); err != nil {
		return 0, err
	}
	return pricing.Quote(config), nil
}

// SaveCake stores a customer's cake design with a server-computed price.
func (s *cakeService) SaveCake(ctx context.Context, customerID uuid.UUID, req *model.CakeRequest) (*model.Cake, error) {
	if req == nil || req.Name == "" {
		return nil, model.NewValidationError("cake name is required", "name")
	}
	if err := req.Config.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	cake := &model.Cake{
		ID:         uuid.New(),
		CustomerID: customerID,
		Name:       req.Name,
		Config:     req.Config,
		PriceUnits: pricing.Quote(req.Config),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.cakeRepo.Create(ctx, cake); err != nil {
		s.logger.Error().Err(err).Str("cake_id", cake.ID.String()).Msg("failed to save cake")
		return nil, fmt.Errorf("failed to save cake: %w", err)
	}

	s.logger.Info().
		Str("cake_id", cake.ID.String()).
		Int64("price_units", cake.PriceUnits).
		Msg("cake design saved")

	return cake, nil
}

// ListCakes retrieves a customer's saved designs.
func (s *cakeService) ListCakes(ctx context.Context, customerID uuid.UUID) ([]model.Cake, error) {
	cakes, err := s.cakeRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list cakes")
		return nil, fmt.Errorf("failed to list cakes: %w", err)
	}
	return cakes, nil
}

// AttachPreview stores a preview image for a customer's cake.
func (s *cakeService) AttachPreview(ctx context.Context, customerID, cakeID uuid.UUID, contentType string, body io.Reader) (*model.Cake, error) {
	ext, ok := previewExtensions[contentType]
	if !ok {
		return nil, model.NewValidationError("unsupported image type", "content_type")
	}

	cake, err := s.cakeRepo.GetForCustomer(ctx, cakeID, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to attach preview: %w", err)
	}
	if cake == nil {
		return nil, model.ErrCakeNotFound
	}

	url, err := s.previews.Put(ctx, cakeID.String()+ext, contentType, body)
	if err != nil {
		s.logger.Error().Err(err).Str("cake_id", cakeID.String()).Msg("failed to store preview image")
		return nil, fmt.Errorf("failed to attach preview: %w", err)
	}

	if err := s.cakeRepo.SetPreviewURL(ctx, cakeID, url); err != nil {
		return nil, fmt.Errorf("failed to attach preview: %w", err)
	}

	cake.PreviewURL = url

	s.logger.Info().
		Str("cake_id", cakeID.String()).
		Str("preview_url", url).
		Msg("preview image attached")

	return cake, nil
}
