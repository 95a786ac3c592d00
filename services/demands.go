package services

import (
	"context"
	"strings"

	"github.com/dipanshukale/CraftCrazy/models"
	"github.com/dipanshukale/CraftCrazy/validation"
	"github.com/rs/zerolog"
)

type DemandStore interface {
	Insert(ctx context.Context, demand *models.Demand) error
	FindAll(ctx context.Context) ([]models.Demand, error)
}

// DemandService takes in requests for customised pieces.
type DemandService struct {
	store     DemandStore
	validator *validation.Validator
	logger    zerolog.Logger
}

func NewDemandService(store DemandStore, v *validation.Validator, logger zerolog.Logger) *DemandService {
	return &DemandService{
		store:     store,
		validator: v,
		logger:    logger.With().Str("component", "demand-service").Logger(),
	}
}

func (s *DemandService) Create(ctx context.Context, req validation.DemandRequest) (*models.Demand, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Product = strings.TrimSpace(req.Product)
	req.Customization = strings.TrimSpace(req.Customization)
	req.ImageURL = strings.TrimSpace(req.ImageURL)
	if err := s.validator.Validate(req); err != nil {
		return nil, invalid("%s", validation.Describe(err))
	}

	demand := &models.Demand{
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		Product:       req.Product,
		Customization: req.Customization,
		ImageURL:      req.ImageURL,
	}
	if err := s.store.Insert(ctx, demand); err != nil {
		return nil, storeError("Demand", err)
	}

	s.logger.Info().Str("demand_id", demand.ID.Hex()).Str("product", demand.Product).Msg("demand received")
	return demand, nil
}

// List returns demands newest first.
func (s *DemandService) List(ctx context.Context) ([]models.Demand, error) {
	demands, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, storeError("Demands", err)
	}
	return demands, nil
}
