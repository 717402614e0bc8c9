package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	reservationserrors "innkeep/internal/reservations/errors"
	"innkeep/pkg/config"
	"innkeep/pkg/daterange"
	mongotx "innkeep/pkg/db/mongo"
	"innkeep/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Reservations"
)

// ReservationStore is the owner-scoped persistence surface for
// reservations. Every read and write carries the owner id; a record
// owned by someone else behaves exactly like a missing record.
type ReservationStore interface {
	Insert(ctx context.Context, reservation *model.Reservation) error
	FindByID(ctx context.Context, ownerID, id string) (*model.Reservation, error)
	List(ctx context.Context, ownerID string, filter model.ListFilter, limit int, offset int64) ([]*model.Reservation, error)
	Count(ctx context.Context, ownerID string, filter model.ListFilter) (int64, error)
	FindOverlapping(ctx context.Context, ownerID, roomID string, rng daterange.Range, excludeID string) ([]*model.Reservation, error)
	FindInWindow(ctx context.Context, ownerID string, window daterange.Range, propertyID string) ([]*model.Reservation, error)
	Update(ctx context.Context, ownerID, id string, reservation *model.Reservation) error
	Delete(ctx context.Context, ownerID, id string) error
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoReservationStore struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoReservationStore(cfg *config.Config) ReservationStore {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoReservationStore{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// withTimeout wraps the context with a timeout if not already in a transaction.
// When inside a transaction (SessionContext), returns the original context
// unchanged with a no-op cancel function, as wrapping a SessionContext breaks
// transaction semantics.
func (r *mongoReservationStore) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func (r *mongoReservationStore) Insert(ctx context.Context, reservation *model.Reservation) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	reservation.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, reservation)
	if err != nil {
		return fmt.Errorf("failed to insert reservation: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		reservation.ID = oid.Hex()
	}
	return nil
}

func (r *mongoReservationStore) FindByID(ctx context.Context, ownerID, id string) (*model.Reservation, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", reservationserrors.ErrInvalidID, id)
	}

	filter := bson.M{"_id": objectID, "owner_id": ownerID}

	var reservation model.Reservation
	err = r.collection.FindOne(ctx, filter).Decode(&reservation)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, reservationserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find reservation: %w", err)
	}

	return &reservation, nil
}

func (r *mongoReservationStore) List(ctx context.Context, ownerID string, filter model.ListFilter, limit int, offset int64) ([]*model.Reservation, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "start_date", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, buildListFilter(ownerID, filter), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	defer cursor.Close(ctx)

	var reservations []*model.Reservation
	if err = cursor.All(ctx, &reservations); err != nil {
		return nil, fmt.Errorf("failed to decode reservations: %w", err)
	}

	return reservations, nil
}

func (r *mongoReservationStore) Count(ctx context.Context, ownerID string, filter model.ListFilter) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, buildListFilter(ownerID, filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count reservations: %w", err)
	}

	return count, nil
}

func (r *mongoReservationStore) FindOverlapping(ctx context.Context, ownerID, roomID string, rng daterange.Range, excludeID string) ([]*model.Reservation, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	// Closed-interval overlap: an existing stay whose start is on or
	// before the candidate's end, and whose end is on or after the
	// candidate's start. Touching boundary dates collide.
	filter := bson.M{
		"owner_id":   ownerID,
		"room_id":    roomID,
		"start_date": bson.M{"$lte": rng.End.Time()},
		"end_date":   bson.M{"$gte": rng.Start.Time()},
	}
	if excludeID != "" {
		objectID, err := primitive.ObjectIDFromHex(excludeID)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", reservationserrors.ErrInvalidID, excludeID)
		}
		filter["_id"] = bson.M{"$ne": objectID}
	}

	opts := options.Find().SetSort(bson.D{{Key: "start_date", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find overlapping reservations: %w", err)
	}
	defer cursor.Close(ctx)

	var reservations []*model.Reservation
	if err = cursor.All(ctx, &reservations); err != nil {
		return nil, fmt.Errorf("failed to decode overlapping reservations: %w", err)
	}

	return reservations, nil
}

// FindInWindow returns every reservation whose stay touches the window,
// across all of the owner's rooms. Feeds the calendar projection.
func (r *mongoReservationStore) FindInWindow(ctx context.Context, ownerID string, window daterange.Range, propertyID string) ([]*model.Reservation, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"owner_id":   ownerID,
		"start_date": bson.M{"$lte": window.End.Time()},
		"end_date":   bson.M{"$gte": window.Start.Time()},
	}
	if propertyID != "" {
		filter["property_id"] = propertyID
	}

	opts := options.Find().SetSort(bson.D{{Key: "start_date", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find reservations in window: %w", err)
	}
	defer cursor.Close(ctx)

	var reservations []*model.Reservation
	if err = cursor.All(ctx, &reservations); err != nil {
		return nil, fmt.Errorf("failed to decode reservations in window: %w", err)
	}

	return reservations, nil
}

func (r *mongoReservationStore) Update(ctx context.Context, ownerID, id string, reservation *model.Reservation) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", reservationserrors.ErrInvalidID, id)
	}

	filter := bson.M{"_id": objectID, "owner_id": ownerID}
	update := bson.M{
		"$set": bson.M{
			"property_id": reservation.PropertyID,
			"room_id":     reservation.RoomID,
			"name":        reservation.Name,
			"lastname":    reservation.Lastname,
			"phone":       reservation.Phone,
			"mail":        reservation.Mail,
			"start_date":  reservation.StartDate,
			"end_date":    reservation.EndDate,
			"price":       reservation.Price,
			"adults":      reservation.Adults,
			"children":    reservation.Children,
			"status":      reservation.Status,
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update reservation: %w", err)
	}

	if result.MatchedCount == 0 {
		return reservationserrors.ErrNotFound
	}

	return nil
}

func (r *mongoReservationStore) Delete(ctx context.Context, ownerID, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", reservationserrors.ErrInvalidID, id)
	}

	filter := bson.M{"_id": objectID, "owner_id": ownerID}
	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete reservation: %w", err)
	}

	if result.DeletedCount == 0 {
		return reservationserrors.ErrNotFound
	}

	return nil
}

func (r *mongoReservationStore) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}

func buildListFilter(ownerID string, filter model.ListFilter) bson.M {
	query := bson.M{"owner_id": ownerID}

	if filter.PropertyID != "" {
		query["property_id"] = filter.PropertyID
	}
	if filter.RoomID != "" {
		query["room_id"] = filter.RoomID
	}
	if !filter.StartDateFrom.IsZero() {
		query["start_date"] = bson.M{"$gte": filter.StartDateFrom.Time()}
	}
	if filter.LastnamePrefix != "" {
		// The prefix is user input; escape it so a lastname of ".*" does
		// not become a match-everything pattern.
		query["lastname"] = primitive.Regex{
			Pattern: "^" + regexp.QuoteMeta(filter.LastnamePrefix),
			Options: "i",
		}
	}

	return query
}
