package service

import (
	"context"
	"errors"
	"sort"

	propertieserrors "innkeep/internal/properties/errors"
	"innkeep/internal/properties/repository"
	"innkeep/internal/properties/validator"
	"innkeep/pkg/config"
	apperrors "innkeep/pkg/errors"
	"innkeep/pkg/locale"
	"innkeep/pkg/model"
	"innkeep/pkg/sanitizer"
)

// ReservationCounter is the slice of the reservation store the room
// service needs to enforce delete integrity.
type ReservationCounter interface {
	Count(ctx context.Context, ownerID string, filter model.ListFilter) (int64, error)
}

type RoomService interface {
	Create(ctx context.Context, ownerID string, room *model.Room) error
	GetByID(ctx context.Context, ownerID, id string) (*model.Room, error)
	List(ctx context.Context, ownerID, propertyID string) ([]*model.Room, error)
	Update(ctx context.Context, ownerID, id string, room *model.Room) error
	Delete(ctx context.Context, ownerID, id string) error
}

type roomService struct {
	repo         repository.RoomStore
	propertyRepo repository.PropertyStore
	reservations ReservationCounter
	validator    *validator.PropertyValidator
	collator     *locale.Collator
	cfg          *config.Config
}

func NewRoomService(
	repo repository.RoomStore,
	propertyRepo repository.PropertyStore,
	reservations ReservationCounter,
	validator *validator.PropertyValidator,
	cfg *config.Config,
) RoomService {
	return &roomService{
		repo:         repo,
		propertyRepo: propertyRepo,
		reservations: reservations,
		validator:    validator,
		collator:     locale.New(cfg.CollationLocale),
		cfg:          cfg,
	}
}

func (s *roomService) Create(ctx context.Context, ownerID string, room *model.Room) error {
	room.ID = ""
	room.OwnerID = ownerID
	room.Name = sanitizer.NormalizeName(room.Name)

	if err := s.validator.ValidateRoom(room); err != nil {
		s.cfg.Log.Warn("Room validation failed", "error", err)
		return apperrors.Validation("Room validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.requireProperty(ctx, ownerID, room.PropertyID); err != nil {
		return err
	}

	if err := s.repo.Insert(ctx, room); err != nil {
		s.cfg.Log.Error("Failed to create room", "error", err)
		return apperrors.Upstream("Failed to create room", err)
	}

	s.cfg.Log.Info("Room created", "id", room.ID, "property_id", room.PropertyID)
	return nil
}

func (s *roomService) GetByID(ctx context.Context, ownerID, id string) (*model.Room, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Room ID cannot be empty")
	}

	room, err := s.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, s.mapFindError(err, id)
	}

	return room, nil
}

// List returns the owner's rooms, optionally narrowed to one property,
// ordered by name under the configured locale.
func (s *roomService) List(ctx context.Context, ownerID, propertyID string) ([]*model.Room, error) {
	var rooms []*model.Room
	var err error
	if propertyID != "" {
		rooms, err = s.repo.ListByProperty(ctx, ownerID, propertyID)
	} else {
		rooms, err = s.repo.ListByOwner(ctx, ownerID)
	}
	if err != nil {
		s.cfg.Log.Error("Failed to list rooms", "owner_id", ownerID, "error", err)
		return nil, apperrors.Upstream("Failed to retrieve rooms", err)
	}

	sort.SliceStable(rooms, func(i, j int) bool {
		return s.collator.Less(rooms[i].Name, rooms[j].Name)
	})
	return rooms, nil
}

func (s *roomService) Update(ctx context.Context, ownerID, id string, room *model.Room) error {
	if id == "" {
		return apperrors.InvalidInput("Room ID cannot be empty")
	}

	room.ID = id
	room.OwnerID = ownerID
	room.Name = sanitizer.NormalizeName(room.Name)

	if err := s.validator.ValidateRoom(room); err != nil {
		s.cfg.Log.Warn("Room validation failed", "id", id, "error", err)
		return apperrors.Validation("Room validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.requireProperty(ctx, ownerID, room.PropertyID); err != nil {
		return err
	}

	if err := s.repo.Update(ctx, ownerID, id, room); err != nil {
		return s.mapFindError(err, id)
	}

	s.cfg.Log.Info("Room updated", "id", id)
	return nil
}

// Delete refuses to remove a room that still has reservations, past
// ones included; history stays addressable.
func (s *roomService) Delete(ctx context.Context, ownerID, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Room ID cannot be empty")
	}

	count, err := s.reservations.Count(ctx, ownerID, model.ListFilter{RoomID: id})
	if err != nil {
		s.cfg.Log.Error("Failed to count reservations for room", "id", id, "error", err)
		return apperrors.Upstream("Failed to check room reservations", err)
	}
	if count > 0 {
		return apperrors.Conflict("Room still has reservations; delete them first")
	}

	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		return s.mapFindError(err, id)
	}

	s.cfg.Log.Info("Room deleted", "id", id)
	return nil
}

func (s *roomService) requireProperty(ctx context.Context, ownerID, propertyID string) error {
	if _, err := s.propertyRepo.FindByID(ctx, ownerID, propertyID); err != nil {
		switch {
		case errors.Is(err, propertieserrors.ErrPropertyNotFound):
			return apperrors.NotFoundWithID("Property", propertyID)
		case errors.Is(err, propertieserrors.ErrInvalidID):
			return apperrors.InvalidInput("Invalid property ID format")
		default:
			return apperrors.Upstream("Failed to resolve property", err)
		}
	}
	return nil
}

func (s *roomService) mapFindError(err error, id string) error {
	switch {
	case errors.Is(err, propertieserrors.ErrRoomNotFound):
		return apperrors.NotFoundWithID("Room", id)
	case errors.Is(err, propertieserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid room ID format")
	default:
		return apperrors.Upstream("Failed to access room", err)
	}
}
