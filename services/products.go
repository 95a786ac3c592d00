package services

import (
	"context"
	"strings"

	"github.com/dipanshukale/CraftCrazy/database"
	"github.com/dipanshukale/CraftCrazy/events"
	"github.com/dipanshukale/CraftCrazy/models"
	"github.com/dipanshukale/CraftCrazy/utils"
	"github.com/dipanshukale/CraftCrazy/validation"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProductStore interface {
	Insert(ctx context.Context, product *models.Product) error
	Replace(ctx context.Context, id primitive.ObjectID, product *models.Product) (*models.Product, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	FindAll(ctx context.Context) ([]models.Product, error)
	FindByCategory(ctx context.Context, category string) ([]models.Product, error)
	SearchByName(ctx context.Context, query string) ([]models.Product, error)
	Delete(ctx context.Context, id primitive.ObjectID) (bool, error)
}

type ProductService struct {
	store     ProductStore
	notifier  events.Notifier
	validator *validation.Validator
	logger    zerolog.Logger
}

func NewProductService(store ProductStore, notifier events.Notifier, v *validation.Validator, logger zerolog.Logger) *ProductService {
	return &ProductService{
		store:     store,
		notifier:  notifier,
		validator: v,
		logger:    logger.With().Str("component", "product-service").Logger(),
	}
}

func (s *ProductService) Create(ctx context.Context, req validation.ProductRequest) (*models.Product, error) {
	product, err := s.normalize(req)
	if err != nil {
		return nil, err
	}
	if err := s.store.Insert(ctx, product); err != nil {
		return nil, storeError("Product", err)
	}
	s.logger.Info().Str("product_id", product.ID.Hex()).Str("category", product.Category).Msg("product created")
	return product, nil
}

// Update replaces the editable fields of a product.
func (s *ProductService) Update(ctx context.Context, id string, req validation.ProductRequest) (*models.Product, error) {
	oid, err := database.ParseID(id)
	if err != nil {
		return nil, storeError("Product", err)
	}
	product, err := s.normalize(req)
	if err != nil {
		return nil, err
	}
	updated, err := s.store.Replace(ctx, oid, product)
	if err != nil {
		return nil, storeError("Product", err)
	}
	return updated, nil
}

func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	oid, err := database.ParseID(id)
	if err != nil {
		return nil, storeError("Product", err)
	}
	product, err := s.store.FindByID(ctx, oid)
	if err != nil {
		return nil, storeError("Product", err)
	}
	return product, nil
}

// List returns the newest products first.
func (s *ProductService) List(ctx context.Context) ([]models.Product, error) {
	products, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, storeError("Products", err)
	}
	return products, nil
}

func (s *ProductService) ListByCategory(ctx context.Context, category string) ([]models.Product, error) {
	key := utils.NormalizeCategory(category)
	if key == "" {
		return nil, invalid("category is required")
	}
	products, err := s.store.FindByCategory(ctx, key)
	if err != nil {
		return nil, storeError("Products", err)
	}
	return products, nil
}

// Search matches product names case-insensitively. A blank query returns an
// empty result without touching the store.
func (s *ProductService) Search(ctx context.Context, query string) ([]models.SearchHit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.SearchHit{}, nil
	}
	products, err := s.store.SearchByName(ctx, query)
	if err != nil {
		return nil, storeError("Products", err)
	}
	hits := make([]models.SearchHit, 0, len(products))
	for _, p := range products {
		hits = append(hits, models.SearchHit{
			ID:       p.ID,
			Name:     p.Name,
			Category: p.Category,
			Price:    p.Price,
			Type:     "Product",
		})
	}
	s.notifier.Emit(events.Searching, nil)
	return hits, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) (bool, error) {
	oid, err := database.ParseID(id)
	if err != nil {
		return false, nil
	}
	deleted, err := s.store.Delete(ctx, oid)
	if err != nil {
		return false, storeError("Product", err)
	}
	return deleted, nil
}

func (s *ProductService) normalize(req validation.ProductRequest) (*models.Product, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, invalid("%s", validation.Describe(err))
	}
	inStock := true
	if req.InStock != nil {
		inStock = *req.InStock
	}
	return &models.Product{
		Name:                   utils.ToTitleCase(req.Name),
		Description:            utils.FormatText(req.Description),
		Price:                  req.Price,
		Rating:                 req.Rating,
		Reviews:                req.Reviews,
		Discount:               req.Discount,
		Highlight:              utils.FormatText(req.Highlight),
		Category:               utils.NormalizeCategory(req.Category),
		Tags:                   utils.NormalizeTags(req.Tags),
		Brand:                  utils.ToTitleCase(req.Brand),
		Seller:                 utils.ToTitleCase(req.Seller),
		InStock:                inStock,
		Warranty:               utils.FormatText(req.Warranty),
		ReturnPolicy:           utils.FormatText(req.ReturnPolicy),
		ImageURL:               req.ImageURL,
		Occasion:               utils.ToTitleCase(req.Occasion),
		Material:               utils.ToTitleCase(req.Material),
		Dimensions:             utils.FormatText(req.Dimensions),
		Weight:                 utils.FormatText(req.Weight),
		CareInstructions:       utils.FormatText(req.CareInstructions),
		MaxOrderQuantity:       req.MaxOrderQuantity,
		DeliveryType:           utils.FormatText(req.DeliveryType),
		DeliveryAvailability:   utils.FormatText(req.DeliveryAvailability),
		DeliveryEstimated:      utils.FormatText(req.DeliveryEstimated),
		CustomizationAvailable: req.CustomizationAvailable,
		CustomizationOptions:   utils.NormalizeTags(req.CustomizationOptions),
	}, nil
}
