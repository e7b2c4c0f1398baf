package imagestore_test

import (
	"errors"
	"testing"

	imagestore "github.com/dalemusser/imagehub/internal/app/store/images"
	"github.com/dalemusser/imagehub/internal/domain/models"
	"github.com/dalemusser/imagehub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestInsertAndList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := imagestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := primitive.NewObjectID()
	groups := []models.ImageGroup{
		{Small: "s1", Medium: "m1", Original: "o1"},
		{Small: "s2", Medium: "m2", Original: "o2"},
	}
	if err := store.InsertGroups(ctx, user, groups); err != nil {
		t.Fatalf("InsertGroups: %v", err)
	}
	for i, g := range groups {
		if g.ID.IsZero() || g.UserID != user {
			t.Errorf("group %d not filled in: %+v", i, g)
		}
	}

	// Someone else's images stay out of the list.
	if err := store.InsertGroups(ctx, primitive.NewObjectID(), []models.ImageGroup{{Small: "x", Medium: "y", Original: "z"}}); err != nil {
		t.Fatalf("InsertGroups other: %v", err)
	}

	got, err := store.ListByUser(ctx, user)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Small != "s1" || got[1].Small != "s2" {
		t.Errorf("unexpected order: %q, %q", got[0].Small, got[1].Small)
	}
}

func TestListByUser_Empty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := imagestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	got, err := store.ListByUser(ctx, primitive.NewObjectID())
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
}

func TestInsertGroups_Empty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := imagestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.InsertGroups(ctx, primitive.NewObjectID(), nil); err != nil {
		t.Errorf("InsertGroups(nil) = %v, want nil", err)
	}
}

func TestFindByKey(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := imagestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := primitive.NewObjectID()
	if err := store.InsertGroups(ctx, user, []models.ImageGroup{{Small: "s", Medium: "m", Original: "o"}}); err != nil {
		t.Fatalf("InsertGroups: %v", err)
	}

	for _, key := range []string{"s", "m", "o"} {
		g, err := store.FindByKey(ctx, user, key)
		if err != nil {
			t.Fatalf("FindByKey(%q): %v", key, err)
		}
		if !g.Has(key) {
			t.Errorf("group for %q does not contain it", key)
		}
	}

	if _, err := store.FindByKey(ctx, user, "nope"); !errors.Is(err, imagestore.ErrNotFound) {
		t.Errorf("unknown key: expected ErrNotFound, got %v", err)
	}
	if _, err := store.FindByKey(ctx, primitive.NewObjectID(), "s"); !errors.Is(err, imagestore.ErrNotFound) {
		t.Errorf("other user: expected ErrNotFound, got %v", err)
	}
}
