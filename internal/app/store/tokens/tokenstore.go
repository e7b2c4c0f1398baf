// Package tokenstore persists API bearer tokens.
//
// A token is an opaque string. Its first PrefixLen characters are stored
// in clear and indexed so a presented token can be found; the whole token
// is kept only as a bcrypt hash.
package tokenstore

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/imagehub/internal/app/system/auth"
	"github.com/dalemusser/imagehub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/gorilla/securecookie"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

const (
	PrefixLen   = 12
	MinTokenLen = 32
	MaxTokenLen = 72 // bcrypt ignores bytes past 72
)

var (
	ErrNotFound        = errors.New("token not found")
	ErrInvalidToken    = auth.ErrInvalidToken
	ErrDuplicatePrefix = errors.New("a token with this prefix already exists")
)

type Store struct {
	c *mongo.Collection
	// Cost is the bcrypt cost for new hashes.
	Cost int
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("api_tokens"), Cost: bcrypt.DefaultCost}
}

// Generate returns a new random token.
func Generate() (string, error) {
	key := securecookie.GenerateRandomKey(32)
	if key == nil {
		return "", errors.New("generate token: random source failed")
	}
	return base64.RawURLEncoding.EncodeToString(key), nil
}

// PrefixOf returns the lookup prefix of token, or ErrInvalidToken when the
// token's length is out of range.
func PrefixOf(token string) (string, error) {
	if len(token) < MinTokenLen || len(token) > MaxTokenLen {
		return "", ErrInvalidToken
	}
	return token[:PrefixLen], nil
}

// Register stores an already-known token for userID.
func (s *Store) Register(ctx context.Context, userID primitive.ObjectID, token, label string) (models.APIToken, error) {
	prefix, err := PrefixOf(token)
	if err != nil {
		return models.APIToken{}, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(token), s.Cost)
	if err != nil {
		return models.APIToken{}, fmt.Errorf("hash token: %w", err)
	}

	rec := models.APIToken{
		ID:         primitive.NewObjectID(),
		UserID:     userID,
		Prefix:     prefix,
		SecretHash: hash,
		Label:      label,
		CreatedAt:  time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, rec); err != nil {
		if wafflemongo.IsDup(err) {
			return models.APIToken{}, ErrDuplicatePrefix
		}
		return models.APIToken{}, err
	}
	return rec, nil
}

// Issue generates and registers a fresh token. The clear token is returned
// once and never stored.
func (s *Store) Issue(ctx context.Context, userID primitive.ObjectID, label string) (string, models.APIToken, error) {
	token, err := Generate()
	if err != nil {
		return "", models.APIToken{}, err
	}
	rec, err := s.Register(ctx, userID, token, label)
	if err != nil {
		return "", models.APIToken{}, err
	}
	return token, rec, nil
}

// Verify finds the record for token and checks it against the stored hash.
// Any mismatch yields ErrInvalidToken.
func (s *Store) Verify(ctx context.Context, token string) (*models.APIToken, error) {
	prefix, err := PrefixOf(token)
	if err != nil {
		return nil, err
	}

	var rec models.APIToken
	if err := s.c.FindOne(ctx, bson.M{"prefix": prefix}).Decode(&rec); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword(rec.SecretHash, []byte(token)) != nil {
		return nil, ErrInvalidToken
	}
	return &rec, nil
}

// HasPrefix reports whether a token with prefix is registered.
func (s *Store) HasPrefix(ctx context.Context, prefix string) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{"prefix": prefix}).Err()
	if err == nil {
		return true, nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	return false, err
}

// Touch records that the token was just used.
func (s *Store) Touch(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"last_used_at": time.Now().UTC()}})
	return err
}

// Revoke deletes the user's token with prefix.
func (s *Store) Revoke(ctx context.Context, userID primitive.ObjectID, prefix string) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"user_id": userID, "prefix": prefix})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByUser returns the user's tokens, newest first.
func (s *Store) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.APIToken, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.APIToken
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
