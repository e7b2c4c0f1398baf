// internal/app/features/images/upload.go
package images

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	uierrors "github.com/dalemusser/imagehub/internal/app/features/errors"
	"github.com/dalemusser/imagehub/internal/app/system/auth"
	"github.com/dalemusser/imagehub/internal/app/system/s3presign"
	"github.com/dalemusser/imagehub/internal/app/system/timeouts"
	"github.com/dalemusser/imagehub/internal/domain/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type uploadRequest struct {
	Number *int `json:"number"`
}

// urlGroup carries presigned PUT URLs for one image's renditions.
type urlGroup struct {
	Small    string `json:"small"`
	Medium   string `json:"medium"`
	Original string `json:"original"`
}

// newKey names an object. Keys are opaque and never reused.
func newKey() string {
	return uuid.NewString()
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /api/images                                                            |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleUpload reserves Number key triples and answers with upload URLs.
// Links are signed before anything is stored, so a signing failure
// leaves no orphaned keys. Number 0 is valid and yields an empty array.
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.WriteJSON(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 4<<10)
	var in uploadRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "images: bad body", err, `request body must be {"number": n}`)
		return
	}
	if in.Number == nil || *in.Number < 0 || *in.Number > h.maxFiles {
		h.ErrLog.LogBadRequest(w, r, "images: number out of range", nil,
			fmt.Sprintf("number must be between 0 and %d", h.maxFiles))
		return
	}
	n := *in.Number
	if u.Storage == nil {
		h.ErrLog.LogBadRequest(w, r, "images: no storage configured", nil, "storage is not configured")
		return
	}

	signer, err := s3presign.New(*u.Storage, h.expiry)
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "images: unusable storage config", err, "storage config is invalid")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if n == 0 {
		_ = json.NewEncoder(w).Encode([]urlGroup{})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	groups := make([]models.ImageGroup, n)
	urls := make([]urlGroup, n)
	for i := range groups {
		g := models.ImageGroup{Small: newKey(), Medium: newKey(), Original: newKey()}
		var ug urlGroup
		for _, p := range []struct {
			key string
			dst *string
		}{
			{g.Small, &ug.Small},
			{g.Medium, &ug.Medium},
			{g.Original, &ug.Original},
		} {
			if *p.dst, err = signer.PutURL(ctx, p.key); err != nil {
				h.ErrLog.LogServerError(w, r, "images: presign put failed", err, "could not sign upload URL")
				return
			}
		}
		groups[i] = g
		urls[i] = ug
	}

	if err := h.Images.InsertGroups(ctx, u.ID, groups); err != nil {
		h.ErrLog.LogServerError(w, r, "images: insert groups failed", err, "a database error occurred")
		return
	}

	h.Metrics.PresignedURLs.WithLabelValues(http.MethodPut).Add(float64(3 * n))
	h.Metrics.ImageGroups.Add(float64(n))
	h.AuditLog.UploadURLsIssued(ctx, r, u.ID, u.TokenPrefix, n)
	h.Log.Debug("upload urls issued",
		zap.String("user_id", u.ID.Hex()),
		zap.Int("groups", n))

	_ = json.NewEncoder(w).Encode(urls)
}
