package imagestore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/imagehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when no image group holds the requested key.
var ErrNotFound = errors.New("image not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("images")}
}

// InsertGroups stores key triples for userID in one round trip.
// ID, UserID and CreatedAt are filled in; the passed slice is updated.
func (s *Store) InsertGroups(ctx context.Context, userID primitive.ObjectID, groups []models.ImageGroup) error {
	if len(groups) == 0 {
		return nil
	}

	now := time.Now().UTC()
	docs := make([]interface{}, len(groups))
	for i := range groups {
		groups[i].ID = primitive.NewObjectID()
		groups[i].UserID = userID
		groups[i].CreatedAt = now
		docs[i] = groups[i]
	}

	// Ordered so a failure leaves a prefix of the batch, never a gap.
	_, err := s.c.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true))
	return err
}

// ListByUser returns all of the user's groups, oldest first.
func (s *Store) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.ImageGroup, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.ImageGroup{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FindByKey returns the user's group that has key as any of its renditions.
func (s *Store) FindByKey(ctx context.Context, userID primitive.ObjectID, key string) (*models.ImageGroup, error) {
	filter := bson.M{
		"user_id": userID,
		"$or": bson.A{
			bson.M{"small": key},
			bson.M{"medium": key},
			bson.M{"original": key},
		},
	}

	var g models.ImageGroup
	if err := s.c.FindOne(ctx, filter).Decode(&g); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &g, nil
}
