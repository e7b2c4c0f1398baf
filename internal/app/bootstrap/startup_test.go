package bootstrap

import (
	"strings"
	"testing"

	"github.com/dalemusser/imagehub/internal/app/store/audit"
	tokenstore "github.com/dalemusser/imagehub/internal/app/store/tokens"
	userstore "github.com/dalemusser/imagehub/internal/app/store/users"
	"github.com/dalemusser/imagehub/internal/app/system/auditlog"
	"github.com/dalemusser/imagehub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

const ownerToken = "owner-token-0123456789abcdefghijklmnop"

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func TestEnsureOwner_CreatesUserAndToken(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	events := audit.New(db)
	auditLog := auditlog.New(events, testLogger(), auditlog.Config{Auth: auditlog.ModeDB, API: auditlog.ModeDB})

	if err := ensureOwner(ctx, db, "  Owner ", ownerToken, auditLog, testLogger()); err != nil {
		t.Fatalf("ensureOwner failed: %v", err)
	}

	u, err := userstore.New(db).GetByUsername(ctx, "owner")
	if err != nil {
		t.Fatalf("owner not created: %v", err)
	}

	rec, err := tokenstore.New(db).Verify(ctx, ownerToken)
	if err != nil {
		t.Fatalf("owner token does not verify: %v", err)
	}
	if rec.UserID != u.ID {
		t.Errorf("token belongs to %v, want %v", rec.UserID, u.ID)
	}

	n, err := events.Count(ctx, audit.QueryFilter{UserID: &u.ID})
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 2 {
		t.Errorf("audit events = %d, want 2 (owner_created, token_registered)", n)
	}
}

func TestEnsureOwner_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for i := 0; i < 3; i++ {
		if err := ensureOwner(ctx, db, "owner", ownerToken, nil, testLogger()); err != nil {
			t.Fatalf("run %d: ensureOwner failed: %v", i+1, err)
		}
	}

	users, err := db.Collection("users").CountDocuments(ctx, bson.M{})
	if err != nil {
		t.Fatalf("count users: %v", err)
	}
	if users != 1 {
		t.Errorf("users = %d, want 1", users)
	}
	tokens, err := db.Collection("api_tokens").CountDocuments(ctx, bson.M{})
	if err != nil {
		t.Fatalf("count tokens: %v", err)
	}
	if tokens != 1 {
		t.Errorf("tokens = %d, want 1", tokens)
	}
}

func TestEnsureOwner_SecondTokenForSameOwner(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := ensureOwner(ctx, db, "owner", ownerToken, nil, testLogger()); err != nil {
		t.Fatalf("first: %v", err)
	}
	rotated := "rotated-token-0123456789abcdefghijklmn"
	if err := ensureOwner(ctx, db, "owner", rotated, nil, testLogger()); err != nil {
		t.Fatalf("second: %v", err)
	}

	store := tokenstore.New(db)
	for _, tok := range []string{ownerToken, rotated} {
		if _, err := store.Verify(ctx, tok); err != nil {
			t.Errorf("token %q does not verify: %v", tok[:8], err)
		}
	}
}

func TestEnsureOwner_BadToken(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := ensureOwner(ctx, db, "owner", "short", nil, testLogger())
	if err == nil || !strings.Contains(err.Error(), "owner token") {
		t.Errorf("err = %v, want owner token error", err)
	}
}
