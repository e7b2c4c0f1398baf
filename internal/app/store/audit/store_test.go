package audit_test

import (
	"testing"
	"time"

	"github.com/dalemusser/imagehub/internal/app/store/audit"
	"github.com/dalemusser/imagehub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Log(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	err := store.Log(ctx, audit.Event{
		Category:    audit.CategoryAPI,
		EventType:   audit.EventTokenIssued,
		UserID:      &userID,
		TokenPrefix: "abcdefghijkl",
		IP:          "192.168.1.1",
		UserAgent:   "curl/8.0",
		Success:     true,
	})
	if err != nil {
		t.Fatalf("Log failed: %v", err)
	}

	events, err := store.GetByUser(ctx, userID, 10)
	if err != nil {
		t.Fatalf("GetByUser failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].ID.IsZero() {
		t.Error("expected ID to be auto-generated")
	}
	if events[0].TokenPrefix != "abcdefghijkl" {
		t.Errorf("TokenPrefix = %q", events[0].TokenPrefix)
	}
}

func TestStore_Log_AutoSetsTimestamp(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	before := time.Now().Add(-time.Second)
	userID := primitive.NewObjectID()
	if err := store.Log(ctx, audit.Event{
		Category:  audit.CategoryAPI,
		EventType: audit.EventStorageUpdated,
		UserID:    &userID,
		Success:   true,
	}); err != nil {
		t.Fatalf("Log failed: %v", err)
	}
	after := time.Now().Add(time.Second)

	events, err := store.GetByUser(ctx, userID, 1)
	if err != nil {
		t.Fatalf("GetByUser failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	ts := events[0].Timestamp
	if ts.Before(before) || ts.After(after) {
		t.Errorf("timestamp %v outside [%v, %v]", ts, before, after)
	}
}

func TestStore_Log_WithDetails(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	if err := store.Log(ctx, audit.Event{
		Category:  audit.CategoryAPI,
		EventType: audit.EventUploadURLsIssued,
		UserID:    &userID,
		Success:   true,
		Details:   map[string]string{"count": "4"},
	}); err != nil {
		t.Fatalf("Log failed: %v", err)
	}

	events, err := store.GetByUser(ctx, userID, 10)
	if err != nil {
		t.Fatalf("GetByUser failed: %v", err)
	}
	if len(events) != 1 || events[0].Details["count"] != "4" {
		t.Errorf("details not stored: %+v", events)
	}
}

func TestStore_GetByUser_NewestFirstAndLimit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	otherID := primitive.NewObjectID()
	base := time.Now().UTC().Add(-time.Hour)

	for i := 0; i < 5; i++ {
		if err := store.Log(ctx, audit.Event{
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Category:  audit.CategoryAPI,
			EventType: audit.EventUploadURLsIssued,
			UserID:    &userID,
			Success:   true,
		}); err != nil {
			t.Fatalf("Log failed: %v", err)
		}
	}
	if err := store.Log(ctx, audit.Event{Category: audit.CategoryAPI, EventType: audit.EventStorageUpdated, UserID: &otherID}); err != nil {
		t.Fatalf("Log failed: %v", err)
	}

	events, err := store.GetByUser(ctx, userID, 3)
	if err != nil {
		t.Fatalf("GetByUser failed: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	for i := 1; i < len(events); i++ {
		if events[i].Timestamp.After(events[i-1].Timestamp) {
			t.Errorf("events not newest first at %d", i)
		}
	}
}

func TestStore_Query_ByCategoryAndType(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	for _, e := range []audit.Event{
		{Category: audit.CategoryAuth, EventType: audit.EventAuthFailed, FailureReason: "invalid"},
		{Category: audit.CategoryAPI, EventType: audit.EventTokenIssued, UserID: &userID, Success: true},
		{Category: audit.CategoryAPI, EventType: audit.EventStorageUpdated, UserID: &userID, Success: true},
	} {
		if err := store.Log(ctx, e); err != nil {
			t.Fatalf("Log failed: %v", err)
		}
	}

	api, err := store.Query(ctx, audit.QueryFilter{Category: audit.CategoryAPI})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(api) != 2 {
		t.Errorf("api events = %d, want 2", len(api))
	}

	failed, err := store.Query(ctx, audit.QueryFilter{EventType: audit.EventAuthFailed})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(failed) != 1 || failed[0].FailureReason != "invalid" {
		t.Errorf("failed events = %+v", failed)
	}

	n, err := store.Count(ctx, audit.QueryFilter{UserID: &userID})
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 2 {
		t.Errorf("Count = %d, want 2", n)
	}
}

func TestStore_Query_Empty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	events, err := store.Query(ctx, audit.QueryFilter{})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if events == nil || len(events) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", events)
	}
}
