// internal/app/features/auditlog/list.go
package auditlog

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	uierrors "github.com/dalemusser/imagehub/internal/app/features/errors"
	"github.com/dalemusser/imagehub/internal/app/store/audit"
	"github.com/dalemusser/imagehub/internal/app/system/auth"
	"github.com/dalemusser/imagehub/internal/app/system/timeouts"
)

const (
	pageSize    = 50
	maxPageSize = 200
)

type listResponse struct {
	Events []audit.Event `json:"events"`
	Page   int           `json:"page"`
	Total  int64         `json:"total"`
}

// ServeList handles GET /api/audit.
//
// Query parameters: category, event_type, start_date and end_date
// (YYYY-MM-DD, UTC), page (1-based), limit (default 50, max 200).
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.WriteJSON(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "audit log list")
	defer cancel()

	q := r.URL.Query()
	page := 1
	if p, err := strconv.Atoi(q.Get("page")); err == nil && p > 0 {
		page = p
	}
	limit := pageSize
	if l, err := strconv.Atoi(q.Get("limit")); err == nil && l > 0 {
		limit = min(l, maxPageSize)
	}

	filter := audit.QueryFilter{
		UserID:    &u.ID,
		Category:  strings.TrimSpace(q.Get("category")),
		EventType: strings.TrimSpace(q.Get("event_type")),
		Limit:     int64(limit),
		Offset:    int64((page - 1) * limit),
	}
	if s := strings.TrimSpace(q.Get("start_date")); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			h.ErrLog.LogBadRequest(w, r, "audit: bad start_date", err, "start_date must be YYYY-MM-DD")
			return
		}
		filter.StartTime = &t
	}
	if s := strings.TrimSpace(q.Get("end_date")); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			h.ErrLog.LogBadRequest(w, r, "audit: bad end_date", err, "end_date must be YYYY-MM-DD")
			return
		}
		endOfDay := t.Add(24*time.Hour - time.Nanosecond)
		filter.EndTime = &endOfDay
	}

	events, err := h.Events.Query(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "audit: query failed", err, "a database error occurred")
		return
	}
	total, err := h.Events.Count(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "audit: count failed", err, "a database error occurred")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(listResponse{Events: events, Page: page, Total: total})
}
