package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	reservationserrors "innkeep/internal/reservations/errors"
	"innkeep/pkg/config"
	"innkeep/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// RoomLocker serializes the check-then-write sequence per room. Two
// concurrent writes to the same room must never both pass the overlap
// check; writes to different rooms must not serialize against each
// other.
type RoomLocker interface {
	// Acquire takes the room's lock and returns a handle for Release.
	// Contention surfaces as ErrLockContention.
	Acquire(ctx context.Context, ownerID, roomID string) (string, error)
	Release(ctx context.Context, lockID string) error
}

const lockCollectionName = "Room_locks"

type mongoRoomLocker struct {
	collection *mongo.Collection
	ttl        time.Duration
}

// NewMongoRoomLocker builds the production locker: an advisory-lock
// collection where the lock id doubles as the unique _id. Inserting an
// already-held lock fails with a duplicate key error, which maps to
// contention. A TTL index on expires_at reaps locks abandoned by a
// crashed process.
func NewMongoRoomLocker(cfg *config.Config) RoomLocker {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoRoomLocker{
		collection: db.Collection(lockCollectionName),
		ttl:        cfg.RoomLockTTL,
	}
}

func (r *mongoRoomLocker) Acquire(ctx context.Context, ownerID, roomID string) (string, error) {
	lockID := fmt.Sprintf("room_lock_%s_%s", ownerID, roomID)

	lock := &model.RoomLock{
		ID:        lockID,
		OwnerID:   ownerID,
		RoomID:    roomID,
		ExpiresAt: time.Now().Add(r.ttl),
		CreatedAt: time.Now(),
	}

	if _, err := r.collection.InsertOne(ctx, lock); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", reservationserrors.ErrLockContention
		}
		return "", fmt.Errorf("failed to acquire room lock: %w", err)
	}

	return lockID, nil
}

func (r *mongoRoomLocker) Release(ctx context.Context, lockID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": lockID})
	return err
}

// memoryRoomLocker is the in-process counterpart used with MemoryStore.
// Instead of failing on contention it blocks until the holder releases,
// which keeps concurrency tests deterministic.
type memoryRoomLocker struct {
	mu    sync.Mutex
	locks map[string]chan struct{}
}

func NewMemoryRoomLocker() RoomLocker {
	return &memoryRoomLocker{locks: make(map[string]chan struct{})}
}

func (m *memoryRoomLocker) slot(lockID string) chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch, ok := m.locks[lockID]
	if !ok {
		ch = make(chan struct{}, 1)
		m.locks[lockID] = ch
	}
	return ch
}

func (m *memoryRoomLocker) Acquire(ctx context.Context, ownerID, roomID string) (string, error) {
	lockID := fmt.Sprintf("room_lock_%s_%s", ownerID, roomID)

	select {
	case m.slot(lockID) <- struct{}{}:
		return lockID, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (m *memoryRoomLocker) Release(_ context.Context, lockID string) error {
	select {
	case <-m.slot(lockID):
		return nil
	default:
		return fmt.Errorf("lock %s is not held", lockID)
	}
}
