package tokenstore_test

import (
	"errors"
	"strings"
	"testing"

	tokenstore "github.com/dalemusser/imagehub/internal/app/store/tokens"
	"github.com/dalemusser/imagehub/internal/app/system/indexes"
	"github.com/dalemusser/imagehub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

func newStore(t *testing.T) *tokenstore.Store {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}
	s := tokenstore.New(db)
	s.Cost = bcrypt.MinCost
	return s
}

func TestGenerate(t *testing.T) {
	a, err := tokenstore.Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	b, err := tokenstore.Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if a == b {
		t.Error("expected distinct tokens")
	}
	if _, err := tokenstore.PrefixOf(a); err != nil {
		t.Errorf("generated token rejected by PrefixOf: %v", err)
	}
}

func TestPrefixOf(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		wantErr bool
	}{
		{"too short", "abc", true},
		{"min length", strings.Repeat("a", tokenstore.MinTokenLen), false},
		{"max length", strings.Repeat("b", tokenstore.MaxTokenLen), false},
		{"too long", strings.Repeat("c", tokenstore.MaxTokenLen+1), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := tokenstore.PrefixOf(tt.token)
			if (err != nil) != tt.wantErr {
				t.Fatalf("PrefixOf error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && len(p) != tokenstore.PrefixLen {
				t.Errorf("prefix length = %d, want %d", len(p), tokenstore.PrefixLen)
			}
		})
	}
}

func TestIssueAndVerify(t *testing.T) {
	store := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	token, rec, err := store.Issue(ctx, userID, "laptop")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if rec.Prefix != token[:tokenstore.PrefixLen] {
		t.Errorf("Prefix = %q, want %q", rec.Prefix, token[:tokenstore.PrefixLen])
	}

	got, err := store.Verify(ctx, token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if got.UserID != userID {
		t.Errorf("UserID = %v, want %v", got.UserID, userID)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	store := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	token, _, err := store.Issue(ctx, primitive.NewObjectID(), "")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	// Same prefix, different tail.
	forged := token[:tokenstore.PrefixLen] + strings.Repeat("x", len(token)-tokenstore.PrefixLen)
	if _, err := store.Verify(ctx, forged); !errors.Is(err, tokenstore.ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerify_Unknown(t *testing.T) {
	store := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tok, _ := tokenstore.Generate()
	if _, err := store.Verify(ctx, tok); !errors.Is(err, tokenstore.ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestRegister_DuplicatePrefix(t *testing.T) {
	store := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tok := strings.Repeat("p", 40)
	if _, err := store.Register(ctx, primitive.NewObjectID(), tok, "a"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	_, err := store.Register(ctx, primitive.NewObjectID(), tok+"zz", "b")
	if !errors.Is(err, tokenstore.ErrDuplicatePrefix) {
		t.Errorf("expected ErrDuplicatePrefix, got %v", err)
	}

	ok, err := store.HasPrefix(ctx, tok[:tokenstore.PrefixLen])
	if err != nil || !ok {
		t.Errorf("HasPrefix = %v, %v; want true, nil", ok, err)
	}
}

func TestRevoke(t *testing.T) {
	store := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := primitive.NewObjectID()
	token, rec, err := store.Issue(ctx, owner, "")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	// Another user cannot revoke it.
	if err := store.Revoke(ctx, primitive.NewObjectID(), rec.Prefix); !errors.Is(err, tokenstore.ErrNotFound) {
		t.Errorf("foreign revoke: expected ErrNotFound, got %v", err)
	}

	if err := store.Revoke(ctx, owner, rec.Prefix); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if _, err := store.Verify(ctx, token); !errors.Is(err, tokenstore.ErrInvalidToken) {
		t.Errorf("revoked token still verifies: %v", err)
	}
}

func TestTouchAndList(t *testing.T) {
	store := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := primitive.NewObjectID()
	_, rec, err := store.Issue(ctx, owner, "one")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, _, err := store.Issue(ctx, owner, "two"); err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if err := store.Touch(ctx, rec.ID); err != nil {
		t.Fatalf("Touch: %v", err)
	}

	list, err := store.ListByUser(ctx, owner)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len = %d, want 2", len(list))
	}
	var touched bool
	for _, tk := range list {
		if tk.ID == rec.ID && tk.LastUsedAt != nil {
			touched = true
		}
	}
	if !touched {
		t.Error("expected LastUsedAt to be set on touched token")
	}
}
