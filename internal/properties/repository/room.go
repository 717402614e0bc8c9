package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	propertieserrors "innkeep/internal/properties/errors"
	"innkeep/pkg/config"
	"innkeep/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	RoomCollectionName = "Rooms"
)

// RoomStore is the owner-scoped persistence surface for rooms.
type RoomStore interface {
	Insert(ctx context.Context, room *model.Room) error
	FindByID(ctx context.Context, ownerID, id string) (*model.Room, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*model.Room, error)
	ListByProperty(ctx context.Context, ownerID, propertyID string) ([]*model.Room, error)
	CountByProperty(ctx context.Context, ownerID, propertyID string) (int64, error)
	Update(ctx context.Context, ownerID, id string, room *model.Room) error
	Delete(ctx context.Context, ownerID, id string) error
}

type mongoRoomStore struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoRoomStore(cfg *config.Config) RoomStore {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoRoomStore{
		cfg:        cfg,
		collection: db.Collection(RoomCollectionName),
	}
}

func (r *mongoRoomStore) Insert(ctx context.Context, room *model.Room) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	room.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, room)
	if err != nil {
		return fmt.Errorf("failed to insert room: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		room.ID = oid.Hex()
	}
	return nil
}

func (r *mongoRoomStore) FindByID(ctx context.Context, ownerID, id string) (*model.Room, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", propertieserrors.ErrInvalidID, id)
	}

	var room model.Room
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID, "owner_id": ownerID}).Decode(&room)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, propertieserrors.ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to find room: %w", err)
	}

	return &room, nil
}

func (r *mongoRoomStore) ListByOwner(ctx context.Context, ownerID string) ([]*model.Room, error) {
	return r.list(ctx, bson.M{"owner_id": ownerID})
}

func (r *mongoRoomStore) ListByProperty(ctx context.Context, ownerID, propertyID string) ([]*model.Room, error) {
	return r.list(ctx, bson.M{"owner_id": ownerID, "property_id": propertyID})
}

func (r *mongoRoomStore) list(ctx context.Context, filter bson.M) ([]*model.Room, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	defer cursor.Close(ctx)

	var rooms []*model.Room
	if err = cursor.All(ctx, &rooms); err != nil {
		return nil, fmt.Errorf("failed to decode rooms: %w", err)
	}

	return rooms, nil
}

func (r *mongoRoomStore) CountByProperty(ctx context.Context, ownerID, propertyID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"owner_id": ownerID, "property_id": propertyID})
	if err != nil {
		return 0, fmt.Errorf("failed to count rooms: %w", err)
	}
	return count, nil
}

func (r *mongoRoomStore) Update(ctx context.Context, ownerID, id string, room *model.Room) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", propertieserrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"name":        room.Name,
			"property_id": room.PropertyID,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID, "owner_id": ownerID}, update)
	if err != nil {
		return fmt.Errorf("failed to update room: %w", err)
	}

	if result.MatchedCount == 0 {
		return propertieserrors.ErrRoomNotFound
	}

	return nil
}

func (r *mongoRoomStore) Delete(ctx context.Context, ownerID, id string) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", propertieserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID, "owner_id": ownerID})
	if err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}

	if result.DeletedCount == 0 {
		return propertieserrors.ErrRoomNotFound
	}

	return nil
}
