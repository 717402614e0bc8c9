package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	reservationserrors "innkeep/internal/reservations/errors"
	"innkeep/pkg/daterange"
	mongotx "innkeep/pkg/db/mongo"
	"innkeep/pkg/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore is an in-process ReservationStore with the same observable
// semantics as the Mongo store: owner scoping, start_date ascending
// lists, closed-interval overlap queries. It backs the service tests.
type MemoryStore struct {
	mu           sync.RWMutex
	reservations map[string]*model.Reservation
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{reservations: make(map[string]*model.Reservation)}
}

func (s *MemoryStore) Insert(ctx context.Context, reservation *model.Reservation) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if reservation.ID == "" {
		reservation.ID = primitive.NewObjectID().Hex()
	}
	reservation.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	stored := *reservation
	s.reservations[stored.ID] = &stored
	return nil
}

func (s *MemoryStore) FindByID(ctx context.Context, ownerID, id string) (*model.Reservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, reservationserrors.ErrInvalidID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.reservations[id]
	if !ok || stored.OwnerID != ownerID {
		return nil, reservationserrors.ErrNotFound
	}

	found := *stored
	return &found, nil
}

func (s *MemoryStore) List(ctx context.Context, ownerID string, filter model.ListFilter, limit int, offset int64) ([]*model.Reservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	matched := s.matching(ownerID, filter)

	if offset >= int64(len(matched)) {
		return nil, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

func (s *MemoryStore) Count(ctx context.Context, ownerID string, filter model.ListFilter) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return int64(len(s.matching(ownerID, filter))), nil
}

func (s *MemoryStore) FindOverlapping(ctx context.Context, ownerID, roomID string, rng daterange.Range, excludeID string) ([]*model.Reservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if excludeID != "" {
		if _, err := primitive.ObjectIDFromHex(excludeID); err != nil {
			return nil, reservationserrors.ErrInvalidID
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var overlapping []*model.Reservation
	for _, stored := range s.reservations {
		if stored.OwnerID != ownerID || stored.RoomID != roomID || stored.ID == excludeID {
			continue
		}
		if stored.Range().Overlaps(rng) {
			found := *stored
			overlapping = append(overlapping, &found)
		}
	}
	sortByStartDate(overlapping)
	return overlapping, nil
}

func (s *MemoryStore) FindInWindow(ctx context.Context, ownerID string, window daterange.Range, propertyID string) ([]*model.Reservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var inWindow []*model.Reservation
	for _, stored := range s.reservations {
		if stored.OwnerID != ownerID {
			continue
		}
		if propertyID != "" && stored.PropertyID != propertyID {
			continue
		}
		if stored.Range().Overlaps(window) {
			found := *stored
			inWindow = append(inWindow, &found)
		}
	}
	sortByStartDate(inWindow)
	return inWindow, nil
}

func (s *MemoryStore) Update(ctx context.Context, ownerID, id string, reservation *model.Reservation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return reservationserrors.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.reservations[id]
	if !ok || stored.OwnerID != ownerID {
		return reservationserrors.ErrNotFound
	}

	updated := *reservation
	updated.ID = id
	updated.OwnerID = ownerID
	updated.CreatedAt = stored.CreatedAt
	s.reservations[id] = &updated
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, ownerID, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return reservationserrors.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.reservations[id]
	if !ok || stored.OwnerID != ownerID {
		return reservationserrors.ErrNotFound
	}

	delete(s.reservations, id)
	return nil
}

// ExecuteTransaction runs fn directly. The memory store has no
// multi-document atomicity to provide; the room lock supplies the
// serialization the callers rely on.
func (s *MemoryStore) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(ctx)
}

func (s *MemoryStore) matching(ownerID string, filter model.ListFilter) []*model.Reservation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*model.Reservation
	for _, stored := range s.reservations {
		if stored.OwnerID != ownerID {
			continue
		}
		if filter.PropertyID != "" && stored.PropertyID != filter.PropertyID {
			continue
		}
		if filter.RoomID != "" && stored.RoomID != filter.RoomID {
			continue
		}
		if !filter.StartDateFrom.IsZero() && stored.StartDate.Before(filter.StartDateFrom) {
			continue
		}
		if filter.LastnamePrefix != "" &&
			!strings.HasPrefix(strings.ToLower(stored.Lastname), strings.ToLower(filter.LastnamePrefix)) {
			continue
		}
		found := *stored
		matched = append(matched, &found)
	}
	sortByStartDate(matched)
	return matched
}

func sortByStartDate(reservations []*model.Reservation) {
	sort.SliceStable(reservations, func(i, j int) bool {
		if reservations[i].StartDate.Equal(reservations[j].StartDate) {
			return reservations[i].ID < reservations[j].ID
		}
		return reservations[i].StartDate.Before(reservations[j].StartDate)
	})
}
