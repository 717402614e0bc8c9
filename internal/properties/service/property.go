package service

import (
	"context"
	"errors"

	propertieserrors "innkeep/internal/properties/errors"
	"innkeep/internal/properties/repository"
	"innkeep/internal/properties/validator"
	"innkeep/pkg/config"
	apperrors "innkeep/pkg/errors"
	"innkeep/pkg/model"
	"innkeep/pkg/sanitizer"
)

type PropertyService interface {
	Create(ctx context.Context, ownerID string, property *model.Property) error
	GetByID(ctx context.Context, ownerID, id string) (*model.Property, error)
	List(ctx context.Context, ownerID string) ([]*model.Property, error)
	Update(ctx context.Context, ownerID, id string, property *model.Property) error
	Delete(ctx context.Context, ownerID, id string) error
}

type propertyService struct {
	repo      repository.PropertyStore
	roomRepo  repository.RoomStore
	validator *validator.PropertyValidator
	cfg       *config.Config
}

func NewPropertyService(
	repo repository.PropertyStore,
	roomRepo repository.RoomStore,
	validator *validator.PropertyValidator,
	cfg *config.Config,
) PropertyService {
	return &propertyService{
		repo:      repo,
		roomRepo:  roomRepo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *propertyService) Create(ctx context.Context, ownerID string, property *model.Property) error {
	property.ID = ""
	property.OwnerID = ownerID
	s.sanitize(property)

	if err := s.validator.ValidateProperty(property); err != nil {
		s.cfg.Log.Warn("Property validation failed", "error", err)
		return apperrors.Validation("Property validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Insert(ctx, property); err != nil {
		s.cfg.Log.Error("Failed to create property", "error", err)
		return apperrors.Upstream("Failed to create property", err)
	}

	s.cfg.Log.Info("Property created", "id", property.ID, "owner_id", ownerID)
	return nil
}

func (s *propertyService) GetByID(ctx context.Context, ownerID, id string) (*model.Property, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Property ID cannot be empty")
	}

	property, err := s.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, s.mapFindError(err, id)
	}

	return property, nil
}

func (s *propertyService) List(ctx context.Context, ownerID string) ([]*model.Property, error) {
	properties, err := s.repo.List(ctx, ownerID)
	if err != nil {
		s.cfg.Log.Error("Failed to list properties", "owner_id", ownerID, "error", err)
		return nil, apperrors.Upstream("Failed to retrieve properties", err)
	}
	return properties, nil
}

func (s *propertyService) Update(ctx context.Context, ownerID, id string, property *model.Property) error {
	if id == "" {
		return apperrors.InvalidInput("Property ID cannot be empty")
	}

	property.ID = id
	property.OwnerID = ownerID
	s.sanitize(property)

	if err := s.validator.ValidateProperty(property); err != nil {
		s.cfg.Log.Warn("Property validation failed", "id", id, "error", err)
		return apperrors.Validation("Property validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Update(ctx, ownerID, id, property); err != nil {
		return s.mapFindError(err, id)
	}

	s.cfg.Log.Info("Property updated", "id", id)
	return nil
}

// Delete refuses to remove a property that still has rooms; the rooms
// must go first so no room is ever left pointing at a missing property.
func (s *propertyService) Delete(ctx context.Context, ownerID, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Property ID cannot be empty")
	}

	rooms, err := s.roomRepo.CountByProperty(ctx, ownerID, id)
	if err != nil {
		s.cfg.Log.Error("Failed to count rooms for property", "id", id, "error", err)
		return apperrors.Upstream("Failed to check property rooms", err)
	}
	if rooms > 0 {
		return apperrors.Conflict("Property still has rooms; delete them first")
	}

	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		return s.mapFindError(err, id)
	}

	s.cfg.Log.Info("Property deleted", "id", id)
	return nil
}

func (s *propertyService) sanitize(property *model.Property) {
	property.Name = sanitizer.NormalizeName(property.Name)
	if property.Description != nil {
		desc := sanitizer.TrimAndNormalize(*property.Description)
		if desc == "" {
			property.Description = nil
		} else {
			property.Description = &desc
		}
	}
}

func (s *propertyService) mapFindError(err error, id string) error {
	switch {
	case errors.Is(err, propertieserrors.ErrPropertyNotFound):
		return apperrors.NotFoundWithID("Property", id)
	case errors.Is(err, propertieserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid property ID format")
	default:
		return apperrors.Upstream("Failed to access property", err)
	}
}
