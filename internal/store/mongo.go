package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/schedulewise/backend/internal/models"
)

// MongoStore handles event and profile CRUD in MongoDB. Every query against
// an owned resource takes the owner id as a required filter parameter; there
// is deliberately no way to fetch a record by id alone.
type MongoStore struct {
	events   *mongo.Collection
	profiles *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{
		events:   db.Collection("events"),
		profiles: db.Collection("profiles"),
	}
}

// EnsureIndexes creates the owner indexes: events are listed by owner, and
// each account has at most one profile.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.events.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("events index: %w", err)
	}
	_, err = s.profiles.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("profiles index: %w", err)
	}
	return nil
}

func (s *MongoStore) InsertEvent(ctx context.Context, ev *models.Event) (string, error) {
	ev.CreatedAt = time.Now()
	res, err := s.events.InsertOne(ctx, ev)
	if err != nil {
		return "", fmt.Errorf("insert event: %w", err)
	}
	oid := res.InsertedID.(primitive.ObjectID)
	return oid.Hex(), nil
}

func (s *MongoStore) ListEvents(ctx context.Context, ownerID string) ([]models.Event, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.events.Find(ctx, bson.M{"user_id": ownerID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var evs []models.Event
	if err := cur.All(ctx, &evs); err != nil {
		return nil, err
	}
	return evs, nil
}

// GetEvent fetches one event scoped to its owner. An id that exists but
// belongs to someone else is indistinguishable from one that doesn't exist.
func (s *MongoStore) GetEvent(ctx context.Context, ownerID, id string) (*models.Event, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.ErrNotFound
	}
	var ev models.Event
	err = s.events.FindOne(ctx, bson.M{"_id": oid, "user_id": ownerID}).Decode(&ev)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &ev, nil
}

// UpdateEvent applies the non-nil fields of upd to the owner's event and
// returns the updated document. Omitted fields keep their prior values.
func (s *MongoStore) UpdateEvent(ctx context.Context, ownerID, id string, upd *models.EventUpdate) (*models.Event, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.ErrNotFound
	}

	set := eventSet(upd)
	if len(set) == 0 {
		return s.GetEvent(ctx, ownerID, id)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var ev models.Event
	err = s.events.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "user_id": ownerID},
		bson.M{"$set": set},
		opts,
	).Decode(&ev)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &ev, nil
}

func (s *MongoStore) DeleteEvent(ctx context.Context, ownerID, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.ErrNotFound
	}
	res, err := s.events.DeleteOne(ctx, bson.M{"_id": oid, "user_id": ownerID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

// GetOrCreateProfile returns the owner's profile, atomically creating it
// from the default payload on first access.
func (s *MongoStore) GetOrCreateProfile(ctx context.Context, ownerID string) (*models.Profile, error) {
	def := models.DefaultProfile(ownerID)
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var p models.Profile
	err := s.profiles.FindOneAndUpdate(ctx,
		bson.M{"user_id": ownerID},
		bson.M{"$setOnInsert": bson.M{
			"user_id":          def.UserID,
			"energy_curve":     def.EnergyCurve,
			"remaining_energy": def.RemainingEnergy,
			"start_hour":       def.StartHour,
			"end_hour":         def.EndHour,
		}},
		opts,
	).Decode(&p)
	if err != nil {
		return nil, fmt.Errorf("get or create profile: %w", err)
	}
	return &p, nil
}

// UpdateProfile merges the non-nil fields of upd into the owner's profile,
// creating it from defaults first when absent.
func (s *MongoStore) UpdateProfile(ctx context.Context, ownerID string, upd *models.ProfileUpdate) (*models.Profile, error) {
	current, err := s.GetOrCreateProfile(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	set := bson.M{}
	if upd.EnergyCurve != nil {
		set["energy_curve"] = *upd.EnergyCurve
	}
	if upd.RemainingEnergy != nil {
		set["remaining_energy"] = *upd.RemainingEnergy
	}
	if upd.StartHour != nil {
		set["start_hour"] = *upd.StartHour
	}
	if upd.EndHour != nil {
		set["end_hour"] = *upd.EndHour
	}
	if len(set) == 0 {
		return current, nil
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var p models.Profile
	err = s.profiles.FindOneAndUpdate(ctx,
		bson.M{"user_id": ownerID},
		bson.M{"$set": set},
		opts,
	).Decode(&p)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return &p, nil
}

func eventSet(upd *models.EventUpdate) bson.M {
	set := bson.M{}
	if upd.Title != nil {
		set["title"] = *upd.Title
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.Date != nil {
		set["date"] = *upd.Date
	}
	if upd.StartTime != nil {
		set["start_time"] = *upd.StartTime
	}
	if upd.EndTime != nil {
		set["end_time"] = *upd.EndTime
	}
	if upd.Type != nil {
		set["type"] = *upd.Type
	}
	if upd.Location != nil {
		set["location"] = *upd.Location
	}
	if upd.IsScheduled != nil {
		set["is_scheduled"] = *upd.IsScheduled
	}
	if upd.Completed != nil {
		set["completed"] = *upd.Completed
	}
	if upd.PriorityScore != nil {
		set["priority_score"] = *upd.PriorityScore
	}
	if upd.EstimatedEnergyCost != nil {
		set["estimated_energy_cost"] = *upd.EstimatedEnergyCost
	}
	if upd.TimeRequired != nil {
		set["time_required"] = *upd.TimeRequired
	}
	return set
}
