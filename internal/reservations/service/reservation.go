package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	propertieserrors "innkeep/internal/properties/errors"
	propertiesrepo "innkeep/internal/properties/repository"
	reservationserrors "innkeep/internal/reservations/errors"
	"innkeep/internal/reservations/repository"
	"innkeep/internal/reservations/validator"
	"innkeep/pkg/config"
	"innkeep/pkg/daterange"
	apperrors "innkeep/pkg/errors"
	"innkeep/pkg/events"
	"innkeep/pkg/model"
	"innkeep/pkg/sanitizer"
)

type ReservationService interface {
	Create(ctx context.Context, ownerID string, reservation *model.Reservation) error
	GetByID(ctx context.Context, ownerID, id string) (*model.Reservation, error)
	List(ctx context.Context, ownerID string, filter model.ListFilter, limit int, offset int64) ([]*model.Reservation, int64, error)
	Update(ctx context.Context, ownerID, id string, reservation *model.Reservation) error
	Delete(ctx context.Context, ownerID, id string) error
	CheckAvailability(ctx context.Context, ownerID, roomID string, rng daterange.Range, excludeID string) ([]string, error)
}

type reservationService struct {
	store        repository.ReservationStore
	locker       repository.RoomLocker
	roomRepo     propertiesrepo.RoomStore
	propertyRepo propertiesrepo.PropertyStore
	validator    *validator.ReservationValidator
	publisher    events.Publisher
	cfg          *config.Config
	now          func() time.Time
}

func NewReservationService(
	store repository.ReservationStore,
	locker repository.RoomLocker,
	roomRepo propertiesrepo.RoomStore,
	propertyRepo propertiesrepo.PropertyStore,
	validator *validator.ReservationValidator,
	publisher events.Publisher,
	cfg *config.Config,
) ReservationService {
	return &reservationService{
		store:        store,
		locker:       locker,
		roomRepo:     roomRepo,
		propertyRepo: propertyRepo,
		validator:    validator,
		publisher:    publisher,
		cfg:          cfg,
		now:          time.Now,
	}
}

func (s *reservationService) Create(ctx context.Context, ownerID string, reservation *model.Reservation) error {
	reservation.ID = ""
	reservation.OwnerID = ownerID
	s.applyDefaults(reservation)
	s.sanitize(reservation)
	if err := s.validate(reservation); err != nil {
		return err
	}
	if err := s.resolveRoom(ctx, reservation); err != nil {
		return err
	}

	// Serialize the check-then-insert per room. Writers on other rooms
	// are unaffected.
	lockID, err := s.acquireRoomLock(ctx, ownerID, reservation.RoomID)
	if err != nil {
		return err
	}
	defer s.releaseRoomLock(ctx, lockID)

	err = s.store.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		if err := s.verifyAvailability(txCtx, reservation, ""); err != nil {
			return err
		}
		if err := s.store.Insert(txCtx, reservation); err != nil {
			return apperrors.Upstream("Failed to create reservation", err)
		}
		return nil
	})
	if err != nil {
		s.reportConflict(ctx, reservation, err)
		s.cfg.Log.Error("Failed to create reservation", "error", err)
		return err
	}

	s.cfg.Log.Info("Reservation created",
		"id", reservation.ID,
		"room_id", reservation.RoomID,
		"start_date", reservation.StartDate,
		"end_date", reservation.EndDate,
	)
	s.publish(ctx, events.TypeReservationCreated, reservation)
	return nil
}

func (s *reservationService) GetByID(ctx context.Context, ownerID, id string) (*model.Reservation, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Reservation ID cannot be empty")
	}

	reservation, err := s.store.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, s.mapStoreError(err, id)
	}

	s.embedRefs(ctx, ownerID, []*model.Reservation{reservation})
	s.decorate(reservation)
	return reservation, nil
}

func (s *reservationService) List(ctx context.Context, ownerID string, filter model.ListFilter, limit int, offset int64) ([]*model.Reservation, int64, error) {
	filter.LastnamePrefix = strings.TrimSpace(filter.LastnamePrefix)

	var count int64
	var reservations []*model.Reservation
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.store.Count(ctx, ownerID, filter)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count reservations", "error", errCount)
			errCount = apperrors.Upstream("Failed to count reservations", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		reservations, errFind = s.store.List(ctx, ownerID, filter, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list reservations", "error", errFind)
			errFind = apperrors.Upstream("Failed to retrieve reservations", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	s.embedRefs(ctx, ownerID, reservations)
	for _, reservation := range reservations {
		s.decorate(reservation)
	}
	return reservations, count, nil
}

func (s *reservationService) Update(ctx context.Context, ownerID, id string, reservation *model.Reservation) error {
	if id == "" {
		return apperrors.InvalidInput("Reservation ID cannot be empty")
	}

	existing, err := s.store.FindByID(ctx, ownerID, id)
	if err != nil {
		return s.mapStoreError(err, id)
	}

	reservation.ID = id
	reservation.OwnerID = ownerID
	reservation.CreatedAt = existing.CreatedAt
	if reservation.Status == "" {
		reservation.Status = existing.Status
	}
	s.sanitize(reservation)
	if err := s.validate(reservation); err != nil {
		return err
	}
	if err := s.resolveRoom(ctx, reservation); err != nil {
		return err
	}

	lockID, err := s.acquireRoomLock(ctx, ownerID, reservation.RoomID)
	if err != nil {
		return err
	}
	defer s.releaseRoomLock(ctx, lockID)

	err = s.store.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		if err := s.verifyAvailability(txCtx, reservation, id); err != nil {
			return err
		}
		if err := s.store.Update(txCtx, ownerID, id, reservation); err != nil {
			return s.mapStoreError(err, id)
		}
		return nil
	})
	if err != nil {
		s.reportConflict(ctx, reservation, err)
		s.cfg.Log.Error("Failed to update reservation", "id", id, "error", err)
		return err
	}

	s.cfg.Log.Info("Reservation updated", "id", id)
	s.publish(ctx, events.TypeReservationUpdated, reservation)
	return nil
}

func (s *reservationService) Delete(ctx context.Context, ownerID, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Reservation ID cannot be empty")
	}

	// Fetched first so the deletion event can carry the stay details.
	// A repeated delete fails here with NotFound.
	existing, err := s.store.FindByID(ctx, ownerID, id)
	if err != nil {
		return s.mapStoreError(err, id)
	}

	if err := s.store.Delete(ctx, ownerID, id); err != nil {
		return s.mapStoreError(err, id)
	}

	s.cfg.Log.Info("Reservation deleted", "id", id)
	s.publish(ctx, events.TypeReservationDeleted, existing)
	return nil
}

// CheckAvailability is the read-only pre-check behind the booking form:
// same rule as the write path, no lock, no write.
func (s *reservationService) CheckAvailability(ctx context.Context, ownerID, roomID string, rng daterange.Range, excludeID string) ([]string, error) {
	if err := s.validator.ValidateRange(rng); err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	if _, err := s.roomRepo.FindByID(ctx, ownerID, roomID); err != nil {
		return nil, s.mapRoomError(err, roomID)
	}

	overlapping, err := s.store.FindOverlapping(ctx, ownerID, roomID, rng, excludeID)
	if err != nil {
		if errors.Is(err, reservationserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid reservation ID format")
		}
		s.cfg.Log.Error("Failed to check availability", "room_id", roomID, "error", err)
		return nil, apperrors.Upstream("Failed to check availability", err)
	}

	return reservationIDs(overlapping), nil
}

// --- Helpers ---

func (s *reservationService) applyDefaults(reservation *model.Reservation) {
	if reservation.Status == "" {
		reservation.Status = model.DefaultStatus()
	}
}

func (s *reservationService) sanitize(reservation *model.Reservation) {
	reservation.Name = sanitizer.NormalizeName(reservation.Name)
	reservation.Lastname = sanitizer.NormalizeName(reservation.Lastname)

	if reservation.Phone != nil {
		phone := sanitizer.NormalizePhone(*reservation.Phone)
		if phone == "" {
			reservation.Phone = nil
		} else {
			reservation.Phone = &phone
		}
	}
	if reservation.Mail != nil {
		mail := sanitizer.NormalizeMail(*reservation.Mail)
		if mail == "" {
			reservation.Mail = nil
		} else {
			reservation.Mail = &mail
		}
	}
}

func (s *reservationService) validate(reservation *model.Reservation) error {
	if err := s.validator.Validate(reservation); err != nil {
		s.cfg.Log.Warn("Reservation validation failed", "error", err)
		return apperrors.Validation("Reservation validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

// resolveRoom checks that the room exists under this owner and belongs
// to the declared property. A room owned by someone else is
// indistinguishable from a missing one.
func (s *reservationService) resolveRoom(ctx context.Context, reservation *model.Reservation) error {
	room, err := s.roomRepo.FindByID(ctx, reservation.OwnerID, reservation.RoomID)
	if err != nil {
		return s.mapRoomError(err, reservation.RoomID)
	}
	if room.PropertyID != reservation.PropertyID {
		return apperrors.InvalidInput("Room does not belong to the given property")
	}
	return nil
}

func (s *reservationService) verifyAvailability(ctx context.Context, reservation *model.Reservation, excludeID string) error {
	overlapping, err := s.store.FindOverlapping(ctx, reservation.OwnerID, reservation.RoomID, reservation.Range(), excludeID)
	if err != nil {
		return apperrors.Upstream("Failed to check existing reservations", err)
	}
	if len(overlapping) > 0 {
		first := overlapping[0]
		return apperrors.BookingConflict(
			fmt.Sprintf("Dates overlap an existing reservation (%s)", first.Range()),
			reservationIDs(overlapping),
		)
	}
	return nil
}

func (s *reservationService) acquireRoomLock(ctx context.Context, ownerID, roomID string) (string, error) {
	lockID, err := s.locker.Acquire(ctx, ownerID, roomID)
	if err != nil {
		if errors.Is(err, reservationserrors.ErrLockContention) {
			return "", apperrors.Conflict("This room is being booked by another request. Please try again.")
		}
		return "", apperrors.Upstream("Failed to acquire room lock", err)
	}
	return lockID, nil
}

func (s *reservationService) releaseRoomLock(ctx context.Context, lockID string) {
	if err := s.locker.Release(ctx, lockID); err != nil {
		s.cfg.Log.Warn("Failed to release room lock", "lock_id", lockID, "error", err)
	}
}

// embedRefs attaches room{id,name,property_id} and property{id,name} to
// each reservation, resolved in one pass over the owner's rooms and
// properties rather than per row.
func (s *reservationService) embedRefs(ctx context.Context, ownerID string, reservations []*model.Reservation) {
	if len(reservations) == 0 {
		return
	}

	rooms, err := s.roomRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		s.cfg.Log.Warn("Failed to resolve rooms for embedding", "error", err)
		return
	}
	properties, err := s.propertyRepo.List(ctx, ownerID)
	if err != nil {
		s.cfg.Log.Warn("Failed to resolve properties for embedding", "error", err)
		return
	}

	roomRefs := make(map[string]model.RoomRef, len(rooms))
	for _, room := range rooms {
		roomRefs[room.ID] = room.Ref()
	}
	propertyRefs := make(map[string]model.PropertyRef, len(properties))
	for _, property := range properties {
		propertyRefs[property.ID] = property.Ref()
	}

	for _, reservation := range reservations {
		if ref, ok := roomRefs[reservation.RoomID]; ok {
			reservation.Room = &ref
		}
		if ref, ok := propertyRefs[reservation.PropertyID]; ok {
			reservation.Property = &ref
		}
	}
}

// decorate fills the derived read-only fields.
func (s *reservationService) decorate(reservation *model.Reservation) {
	today := daterange.Today(s.now)
	reservation.Past = reservation.IsPast(today)
	meta := model.DisplayMeta(reservation.Status, reservation.Past)
	reservation.Display = &meta
}

func (s *reservationService) publish(ctx context.Context, eventType string, reservation *model.Reservation) {
	event := events.New(eventType, reservation.RoomID, events.ReservationPayload{
		ReservationID: reservation.ID,
		OwnerID:       reservation.OwnerID,
		PropertyID:    reservation.PropertyID,
		RoomID:        reservation.RoomID,
		StartDate:     reservation.StartDate.String(),
		EndDate:       reservation.EndDate.String(),
		Status:        string(reservation.Status),
	})
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.cfg.Log.Warn("Failed to publish reservation event", "type", eventType, "error", err)
	}
}

// reportConflict emits a conflict_rejected event when a write failed on
// the overlap check. Any other failure is not an availability signal.
func (s *reservationService) reportConflict(ctx context.Context, reservation *model.Reservation, err error) {
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeConflict || appErr.Details == nil {
		return
	}
	ids, ok := appErr.Details["conflicting_ids"].([]string)
	if !ok {
		return
	}

	event := events.New(events.TypeConflictRejected, reservation.RoomID, events.ConflictPayload{
		OwnerID:        reservation.OwnerID,
		RoomID:         reservation.RoomID,
		StartDate:      reservation.StartDate.String(),
		EndDate:        reservation.EndDate.String(),
		ConflictingIDs: ids,
	})
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.cfg.Log.Warn("Failed to publish conflict event", "error", err)
	}
}

func (s *reservationService) mapStoreError(err error, id string) error {
	switch {
	case errors.Is(err, reservationserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Reservation", id)
	case errors.Is(err, reservationserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid reservation ID format")
	case apperrors.IsAppError(err):
		return err
	default:
		return apperrors.Upstream("Failed to access reservation", err)
	}
}

func (s *reservationService) mapRoomError(err error, roomID string) error {
	switch {
	case errors.Is(err, propertieserrors.ErrRoomNotFound):
		return apperrors.NotFoundWithID("Room", roomID)
	case errors.Is(err, propertieserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid room ID format")
	default:
		return apperrors.Upstream("Failed to resolve room", err)
	}
}

func reservationIDs(reservations []*model.Reservation) []string {
	ids := make([]string, 0, len(reservations))
	for _, reservation := range reservations {
		ids = append(ids, reservation.ID)
	}
	return ids
}
