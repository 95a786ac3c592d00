package services

import (
	"context"
	"strings"

	"github.com/dipanshukale/CraftCrazy/database"
	"github.com/dipanshukale/CraftCrazy/models"
	"github.com/dipanshukale/CraftCrazy/validation"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DefaultReviewLimit = 8
	maxReviewLimit     = 50
)

type ReviewStore interface {
	Insert(ctx context.Context, review *models.Review) error
	FindAll(ctx context.Context) ([]models.Review, error)
	FindByProduct(ctx context.Context, productID string, limit int64) ([]models.Review, error)
	StatsByProduct(ctx context.Context, productID string) (models.ReviewStats, error)
	Delete(ctx context.Context, id primitive.ObjectID) (bool, error)
}

type ReviewService struct {
	store     ReviewStore
	validator *validation.Validator
	logger    zerolog.Logger
}

func NewReviewService(store ReviewStore, v *validation.Validator, logger zerolog.Logger) *ReviewService {
	return &ReviewService{
		store:     store,
		validator: v,
		logger:    logger.With().Str("component", "review-service").Logger(),
	}
}

func (s *ReviewService) Add(ctx context.Context, req validation.ReviewRequest) (*models.Review, error) {
	req.ProductID = strings.TrimSpace(req.ProductID)
	req.Name = strings.TrimSpace(req.Name)
	req.Comment = strings.TrimSpace(req.Comment)
	if err := s.validator.Validate(req); err != nil {
		return nil, invalid("%s", validation.Describe(err))
	}

	review := &models.Review{
		ProductID: req.ProductID,
		VariantID: strings.TrimSpace(req.VariantID),
		Name:      req.Name,
		Email:     strings.TrimSpace(req.Email),
		Title:     strings.TrimSpace(req.Title),
		Comment:   req.Comment,
		Rating:    req.Rating,
		Image:     strings.TrimSpace(req.Image),
	}
	if err := s.store.Insert(ctx, review); err != nil {
		return nil, storeError("Review", err)
	}

	s.logger.Info().Str("review_id", review.ID.Hex()).Str("product_id", review.ProductID).Msg("review added")
	return review, nil
}

// List returns every review, latest first.
func (s *ReviewService) List(ctx context.Context) ([]models.Review, error) {
	reviews, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, storeError("Reviews", err)
	}
	return reviews, nil
}

// ListByProduct returns the latest reviews of a product together with the
// count and average rating over all of its reviews. A non-positive limit
// means DefaultReviewLimit.
func (s *ReviewService) ListByProduct(ctx context.Context, productID string, limit int) (*models.ProductReviews, error) {
	if !primitive.IsValidObjectID(productID) {
		return nil, invalid("Invalid product ID")
	}
	if limit <= 0 {
		limit = DefaultReviewLimit
	}
	if limit > maxReviewLimit {
		limit = maxReviewLimit
	}

	reviews, err := s.store.FindByProduct(ctx, productID, int64(limit))
	if err != nil {
		return nil, storeError("Reviews", err)
	}
	stats, err := s.store.StatsByProduct(ctx, productID)
	if err != nil {
		return nil, storeError("Reviews", err)
	}
	return &models.ProductReviews{
		Reviews:       reviews,
		ReviewCount:   stats.Count,
		AverageRating: decimal.NewFromFloat(stats.AverageRating).Round(1).InexactFloat64(),
	}, nil
}

// Delete reports whether a review was removed. Malformed ids remove nothing.
func (s *ReviewService) Delete(ctx context.Context, id string) (bool, error) {
	oid, err := database.ParseID(id)
	if err != nil {
		return false, nil
	}
	deleted, err := s.store.Delete(ctx, oid)
	if err != nil {
		return false, storeError("Review", err)
	}
	return deleted, nil
}
