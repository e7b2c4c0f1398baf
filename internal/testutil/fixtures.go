package testutil

import (
	"context"
	"testing"

	imagestore "github.com/dalemusser/imagehub/internal/app/store/images"
	tokenstore "github.com/dalemusser/imagehub/internal/app/store/tokens"
	userstore "github.com/dalemusser/imagehub/internal/app/store/users"
	"github.com/dalemusser/imagehub/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// Fixtures creates test records, failing the test on any error.
type Fixtures struct {
	t  *testing.T
	db *mongo.Database
}

func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{t: t, db: db}
}

// DB returns the fixture database.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// TestStorage is a complete config pointing at a fake S3 endpoint.
// Presigning never contacts it.
func TestStorage() models.StorageConfig {
	return models.StorageConfig{
		Endpoint:  "https://s3.example.com",
		Region:    "us-east-1",
		Bucket:    "photos",
		AccessKey: "AKIAEXAMPLE",
		SecretKey: "supersecretvalue",
	}
}

// CreateUser inserts a user without storage.
func (f *Fixtures) CreateUser(ctx context.Context, username string) models.User {
	f.t.Helper()
	u, err := userstore.New(f.db).Create(ctx, username)
	if err != nil {
		f.t.Fatalf("create user %q: %v", username, err)
	}
	return u
}

// CreateUserWithStorage inserts a user with TestStorage.
func (f *Fixtures) CreateUserWithStorage(ctx context.Context, username string) models.User {
	f.t.Helper()
	u := f.CreateUser(ctx, username)
	cfg := TestStorage()
	if err := userstore.New(f.db).SetStorage(ctx, u.ID, cfg); err != nil {
		f.t.Fatalf("set storage for %q: %v", username, err)
	}
	u.Storage = &cfg
	return u
}

// IssueToken mints a token for u at the cheapest bcrypt cost.
func (f *Fixtures) IssueToken(ctx context.Context, u models.User, label string) (string, models.APIToken) {
	f.t.Helper()
	store := tokenstore.New(f.db)
	store.Cost = bcrypt.MinCost
	tok, rec, err := store.Issue(ctx, u.ID, label)
	if err != nil {
		f.t.Fatalf("issue token: %v", err)
	}
	return tok, rec
}

// CreateImageGroups reserves n key triples for u.
func (f *Fixtures) CreateImageGroups(ctx context.Context, u models.User, n int) []models.ImageGroup {
	f.t.Helper()
	groups := make([]models.ImageGroup, n)
	for i := range groups {
		groups[i] = models.ImageGroup{
			Small:    uuid.NewString(),
			Medium:   uuid.NewString(),
			Original: uuid.NewString(),
		}
	}
	if err := imagestore.New(f.db).InsertGroups(ctx, u.ID, groups); err != nil {
		f.t.Fatalf("insert image groups: %v", err)
	}
	return groups
}
