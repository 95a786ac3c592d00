package services

import (
	"context"
	"strings"

	"github.com/dipanshukale/CraftCrazy/database"
	"github.com/dipanshukale/CraftCrazy/events"
	"github.com/dipanshukale/CraftCrazy/models"
	"github.com/dipanshukale/CraftCrazy/validation"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ContactStore interface {
	Insert(ctx context.Context, contact *models.Contact) error
	FindAll(ctx context.Context) ([]models.Contact, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.ContactStatus) (*models.Contact, error)
}

type ContactService struct {
	store     ContactStore
	notifier  events.Notifier
	validator *validation.Validator
	logger    zerolog.Logger
}

func NewContactService(store ContactStore, notifier events.Notifier, v *validation.Validator, logger zerolog.Logger) *ContactService {
	return &ContactService{
		store:     store,
		notifier:  notifier,
		validator: v,
		logger:    logger.With().Str("component", "contact-service").Logger(),
	}
}

func (s *ContactService) Create(ctx context.Context, req validation.ContactRequest) (*models.Contact, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Message = strings.TrimSpace(req.Message)
	if err := s.validator.Validate(req); err != nil {
		return nil, invalid("All fields are required")
	}

	contact := &models.Contact{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Message: req.Message,
		Status:  models.ContactPending,
	}
	if err := s.store.Insert(ctx, contact); err != nil {
		return nil, storeError("Contact", err)
	}

	s.logger.Info().Str("contact_id", contact.ID.Hex()).Msg("contact received")
	s.notifier.Emit(events.ContactUpdated, contact)
	return contact, nil
}

// List returns contacts newest first.
func (s *ContactService) List(ctx context.Context) ([]models.Contact, error) {
	contacts, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, storeError("Contacts", err)
	}
	return contacts, nil
}

func (s *ContactService) UpdateStatus(ctx context.Context, id, status string) (*models.Contact, error) {
	next := models.ContactStatus(status)
	if next != models.ContactPending && next != models.ContactResolved {
		return nil, invalid("invalid contact status")
	}
	oid, err := database.ParseID(id)
	if err != nil {
		return nil, storeError("Contact", err)
	}
	contact, err := s.store.UpdateStatus(ctx, oid, next)
	if err != nil {
		return nil, storeError("Contact", err)
	}

	s.notifier.Emit(events.ContactUpdated, map[string]string{"id": id, "status": status})
	return contact, nil
}
