package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	propertieserrors "innkeep/internal/properties/errors"
	"innkeep/pkg/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryPropertyStore is the in-process PropertyStore used in tests.
type MemoryPropertyStore struct {
	mu         sync.RWMutex
	properties map[string]*model.Property
}

func NewMemoryPropertyStore() *MemoryPropertyStore {
	return &MemoryPropertyStore{properties: make(map[string]*model.Property)}
}

func (s *MemoryPropertyStore) Insert(ctx context.Context, property *model.Property) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if property.ID == "" {
		property.ID = primitive.NewObjectID().Hex()
	}
	property.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	stored := *property
	s.properties[stored.ID] = &stored
	return nil
}

func (s *MemoryPropertyStore) FindByID(ctx context.Context, ownerID, id string) (*model.Property, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, propertieserrors.ErrInvalidID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.properties[id]
	if !ok || stored.OwnerID != ownerID {
		return nil, propertieserrors.ErrPropertyNotFound
	}

	found := *stored
	return &found, nil
}

func (s *MemoryPropertyStore) List(ctx context.Context, ownerID string) ([]*model.Property, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var properties []*model.Property
	for _, stored := range s.properties {
		if stored.OwnerID != ownerID {
			continue
		}
		found := *stored
		properties = append(properties, &found)
	}
	sort.Slice(properties, func(i, j int) bool {
		if properties[i].CreatedAt.Equal(properties[j].CreatedAt) {
			return properties[i].ID < properties[j].ID
		}
		return properties[i].CreatedAt.Before(properties[j].CreatedAt)
	})
	return properties, nil
}

func (s *MemoryPropertyStore) Update(ctx context.Context, ownerID, id string, property *model.Property) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.properties[id]
	if !ok || stored.OwnerID != ownerID {
		return propertieserrors.ErrPropertyNotFound
	}

	stored.Name = property.Name
	stored.Description = property.Description
	return nil
}

func (s *MemoryPropertyStore) Delete(ctx context.Context, ownerID, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.properties[id]
	if !ok || stored.OwnerID != ownerID {
		return propertieserrors.ErrPropertyNotFound
	}

	delete(s.properties, id)
	return nil
}

// MemoryRoomStore is the in-process RoomStore used in tests.
type MemoryRoomStore struct {
	mu    sync.RWMutex
	rooms map[string]*model.Room
}

func NewMemoryRoomStore() *MemoryRoomStore {
	return &MemoryRoomStore{rooms: make(map[string]*model.Room)}
}

func (s *MemoryRoomStore) Insert(ctx context.Context, room *model.Room) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if room.ID == "" {
		room.ID = primitive.NewObjectID().Hex()
	}
	room.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	stored := *room
	s.rooms[stored.ID] = &stored
	return nil
}

func (s *MemoryRoomStore) FindByID(ctx context.Context, ownerID, id string) (*model.Room, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, propertieserrors.ErrInvalidID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.rooms[id]
	if !ok || stored.OwnerID != ownerID {
		return nil, propertieserrors.ErrRoomNotFound
	}

	found := *stored
	return &found, nil
}

func (s *MemoryRoomStore) ListByOwner(ctx context.Context, ownerID string) ([]*model.Room, error) {
	return s.list(ctx, ownerID, "")
}

func (s *MemoryRoomStore) ListByProperty(ctx context.Context, ownerID, propertyID string) ([]*model.Room, error) {
	return s.list(ctx, ownerID, propertyID)
}

func (s *MemoryRoomStore) list(ctx context.Context, ownerID, propertyID string) ([]*model.Room, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var rooms []*model.Room
	for _, stored := range s.rooms {
		if stored.OwnerID != ownerID {
			continue
		}
		if propertyID != "" && stored.PropertyID != propertyID {
			continue
		}
		found := *stored
		rooms = append(rooms, &found)
	}
	sort.Slice(rooms, func(i, j int) bool {
		if rooms[i].CreatedAt.Equal(rooms[j].CreatedAt) {
			return rooms[i].ID < rooms[j].ID
		}
		return rooms[i].CreatedAt.Before(rooms[j].CreatedAt)
	})
	return rooms, nil
}

func (s *MemoryRoomStore) CountByProperty(ctx context.Context, ownerID, propertyID string) (int64, error) {
	rooms, err := s.list(ctx, ownerID, propertyID)
	if err != nil {
		return 0, err
	}
	return int64(len(rooms)), nil
}

func (s *MemoryRoomStore) Update(ctx context.Context, ownerID, id string, room *model.Room) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.rooms[id]
	if !ok || stored.OwnerID != ownerID {
		return propertieserrors.ErrRoomNotFound
	}

	stored.Name = room.Name
	stored.PropertyID = room.PropertyID
	return nil
}

func (s *MemoryRoomStore) Delete(ctx context.Context, ownerID, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.rooms[id]
	if !ok || stored.OwnerID != ownerID {
		return propertieserrors.ErrRoomNotFound
	}

	delete(s.rooms, id)
	return nil
}
