package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/imagehub/internal/app/system/normalize"
	"github.com/dalemusser/imagehub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrNotFound is returned when no user matches.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateUsername is returned when the username is taken.
	ErrDuplicateUsername = errors.New("a user with this username already exists")
	// ErrEmptyUsername is returned when a username normalizes to "".
	ErrEmptyUsername = errors.New("username is required")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// Create inserts a user with a normalized username.
func (s *Store) Create(ctx context.Context, username string) (models.User, error) {
	username = normalize.Username(username)
	if username == "" {
		return models.User{}, ErrEmptyUsername
	}

	now := time.Now().UTC()
	u := models.User{
		ID:        primitive.NewObjectID(),
		Username:  username,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateUsername
		}
		return models.User{}, err
	}
	return u, nil
}

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

// GetByUsername looks a user up by (normalized) username.
func (s *Store) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"username": normalize.Username(username)})
}

// Ensure returns the user with username, creating it if missing.
// created reports whether an insert happened.
func (s *Store) Ensure(ctx context.Context, username string) (u models.User, created bool, err error) {
	existing, err := s.GetByUsername(ctx, username)
	if err == nil {
		return *existing, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return models.User{}, false, err
	}

	u, err = s.Create(ctx, username)
	if errors.Is(err, ErrDuplicateUsername) {
		// Lost a race with another instance; read the winner.
		existing, err := s.GetByUsername(ctx, username)
		if err != nil {
			return models.User{}, false, err
		}
		return *existing, false, nil
	}
	if err != nil {
		return models.User{}, false, err
	}
	return u, true, nil
}

// SetStorage replaces the user's S3 settings.
func (s *Store) SetStorage(ctx context.Context, id primitive.ObjectID, cfg models.StorageConfig) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"storage":    cfg,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, filter).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}
