package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	reservationserrors "roomly/internal/reservations/errors"
	"roomly/pkg/config"
	"roomly/pkg/model"
)

const (
	CollectionName = "Reservations"
)

type mongoReservationRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
}

type ReservationRepository interface {
	Create(ctx context.Context, res *model.Reservation) error
	FindByID(ctx context.Context, id string) (*model.Reservation, error)
	Update(ctx context.Context, id string, res *model.Reservation) error
	Archive(ctx context.Context, id string) error

	FindOverlapping(ctx context.Context, roomName string, start, end time.Time) ([]*model.Reservation, error)
	FindByStartRange(ctx context.Context, from, to time.Time) ([]*model.Reservation, error)
}

func NewMongoReservationRepository(cfg *config.Config) ReservationRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoReservationRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
	}
}

// withTimeout bounds the operation with the repository-level timeout unless
// the caller's deadline is already tighter.
func (r *mongoReservationRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
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

func (r *mongoReservationRepository) Create(ctx context.Context, res *model.Reservation) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	res.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, res)
	if err != nil {
		return fmt.Errorf("failed to create reservation: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		res.ID = oid.Hex()
	}

	return nil
}

func (r *mongoReservationRepository) FindByID(ctx context.Context, id string) (*model.Reservation, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", reservationserrors.ErrInvalidID, id)
	}

	var res model.Reservation
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&res)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", reservationserrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find reservation: %w", err)
	}
	res.ID = id
	return &res, nil
}

func (r *mongoReservationRepository) Update(ctx context.Context, id string, res *model.Reservation) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", reservationserrors.ErrInvalidID, id)
	}

	update := bson.M{"$set": bson.M{
		"title":        res.Title,
		"room_id":      res.RoomID,
		"room_name":    res.RoomName,
		"start_time":   res.StartTime,
		"end_time":     res.EndTime,
		"team_id":      res.TeamID,
		"team_name":    res.TeamName,
		"requester_id": res.RequesterID,
		"recurring_id": res.RecurringID,
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update reservation: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", reservationserrors.ErrNotFound, id)
	}
	return nil
}

// Archive soft-deletes the record. Archiving an already-archived record is a
// no-op, not an error.
func (r *mongoReservationRepository) Archive(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", reservationserrors.ErrInvalidID, id)
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": bson.M{"archived": true}})
	if err != nil {
		return fmt.Errorf("failed to archive reservation: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", reservationserrors.ErrNotFound, id)
	}
	return nil
}

// FindOverlapping returns active reservations in roomName whose interval
// overlaps [start, end). Bounds are strict so back-to-back reservations do
// not collide.
func (r *mongoReservationRepository) FindOverlapping(ctx context.Context, roomName string, start, end time.Time) ([]*model.Reservation, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := overlapFilter(roomName, start, end)
	opts := options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}})

	return r.findAll(ctx, filter, opts)
}

// FindByStartRange returns active reservations starting within [from, to],
// across all rooms, ordered by start time.
func (r *mongoReservationRepository) FindByStartRange(ctx context.Context, from, to time.Time) ([]*model.Reservation, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"start_time": bson.M{"$gte": from, "$lte": to},
		"archived":   false,
	}
	opts := options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}})

	return r.findAll(ctx, filter, opts)
}

func (r *mongoReservationRepository) findAll(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*model.Reservation, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query reservations: %w", err)
	}
	defer cursor.Close(ctx)

	reservations := []*model.Reservation{}
	for cursor.Next(ctx) {
		var res model.Reservation
		if err := cursor.Decode(&res); err != nil {
			return nil, fmt.Errorf("failed to decode reservation: %w", err)
		}
		reservations = append(reservations, &res)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error while reading reservations: %w", err)
	}
	return reservations, nil
}

func overlapFilter(roomName string, start, end time.Time) bson.M {
	return bson.M{
		"room_name":  roomName,
		"start_time": bson.M{"$lt": end},
		"end_time":   bson.M{"$gt": start},
		"archived":   false,
	}
}
