package auditlog_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/imagehub/internal/app/features/auditlog"
	uierrors "github.com/dalemusser/imagehub/internal/app/features/errors"
	"github.com/dalemusser/imagehub/internal/app/store/audit"
	"github.com/dalemusser/imagehub/internal/app/system/auth"
	"github.com/dalemusser/imagehub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type listBody struct {
	Events []struct {
		EventType string `json:"event_type"`
	} `json:"events"`
	Page  int   `json:"page"`
	Total int64 `json:"total"`
}

func seed(t *testing.T, h *auditlog.Handler, userID primitive.ObjectID) {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	day := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	for i, e := range []audit.Event{
		{Category: audit.CategoryAPI, EventType: audit.EventTokenIssued},
		{Category: audit.CategoryAPI, EventType: audit.EventStorageUpdated},
		{Category: audit.CategoryAPI, EventType: audit.EventUploadURLsIssued},
	} {
		e.UserID = &userID
		e.Success = true
		e.Timestamp = day.Add(time.Duration(i) * 24 * time.Hour)
		if err := h.Events.Log(ctx, e); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
}

func get(t *testing.T, h *auditlog.Handler, u *auth.APIUser, target string) (*httptest.ResponseRecorder, listBody) {
	t.Helper()
	req := httptest.NewRequest("GET", target, nil)
	if u != nil {
		req = auth.WithTestUser(req, u)
	}
	rec := httptest.NewRecorder()
	h.ServeList(rec, req)

	var body listBody
	if rec.Code == http.StatusOK {
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
	}
	return rec, body
}

func newTestHandler(t *testing.T) *auditlog.Handler {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	return auditlog.NewHandler(db, uierrors.NewErrorLogger(logger), logger)
}

func TestServeList_OwnEventsOnly(t *testing.T) {
	h := newTestHandler(t)
	u := &auth.APIUser{ID: primitive.NewObjectID()}
	seed(t, h, u.ID)
	seed(t, h, primitive.NewObjectID())

	rec, body := get(t, h, u, "/api/audit")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body.Total != 3 || len(body.Events) != 3 {
		t.Fatalf("total=%d events=%d, want 3/3", body.Total, len(body.Events))
	}
	if body.Events[0].EventType != audit.EventUploadURLsIssued {
		t.Errorf("first event = %q, want newest first", body.Events[0].EventType)
	}
}

func TestServeList_Filters(t *testing.T) {
	h := newTestHandler(t)
	u := &auth.APIUser{ID: primitive.NewObjectID()}
	seed(t, h, u.ID)

	tests := []struct {
		query string
		want  int64
	}{
		{"?category=api", 3},
		{"?category=auth", 0},
		{"?event_type=token_issued", 1},
		{"?start_date=2026-03-11", 2},
		{"?end_date=2026-03-11", 2},
		{"?start_date=2026-03-11&end_date=2026-03-11", 1},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec, body := get(t, h, u, "/api/audit"+tt.query)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d", rec.Code)
			}
			if body.Total != tt.want {
				t.Errorf("total = %d, want %d", body.Total, tt.want)
			}
		})
	}
}

func TestServeList_Paging(t *testing.T) {
	h := newTestHandler(t)
	u := &auth.APIUser{ID: primitive.NewObjectID()}
	seed(t, h, u.ID)

	_, body := get(t, h, u, "/api/audit?limit=2&page=2")
	if body.Page != 2 || len(body.Events) != 1 || body.Total != 3 {
		t.Errorf("page=%d events=%d total=%d", body.Page, len(body.Events), body.Total)
	}
}

func TestServeList_BadDate(t *testing.T) {
	h := newTestHandler(t)
	u := &auth.APIUser{ID: primitive.NewObjectID()}

	if rec, _ := get(t, h, u, "/api/audit?start_date=yesterday"); rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestServeList_NoUser(t *testing.T) {
	h := newTestHandler(t)
	if rec, _ := get(t, h, nil, "/api/audit"); rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}
