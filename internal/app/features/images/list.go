// internal/app/features/images/list.go
package images

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/imagehub/internal/app/features/errors"
	imagestore "github.com/dalemusser/imagehub/internal/app/store/images"
	"github.com/dalemusser/imagehub/internal/app/system/auth"
	"github.com/dalemusser/imagehub/internal/app/system/s3presign"
	"github.com/dalemusser/imagehub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
)

/*─────────────────────────────────────────────────────────────────────────────*
| GET /api/images                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeList returns the caller's key triples, oldest first.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.WriteJSON(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	groups, err := h.Images.ListByUser(ctx, u.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "images: list failed", err, "a database error occurred")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(groups)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /api/images/{name}                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeImage redirects to a presigned download of name when name is one
// of the caller's keys.
func (h *Handler) ServeImage(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.WriteJSON(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	name := chi.URLParam(r, "name")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	g, err := h.Images.FindByKey(ctx, u.ID, name)
	if err != nil {
		if errors.Is(err, imagestore.ErrNotFound) {
			h.ErrLog.LogNotFound(w, r, "images: unknown key", "image not found")
			return
		}
		h.ErrLog.LogServerError(w, r, "images: lookup failed", err, "a database error occurred")
		return
	}
	if !g.Has(name) {
		h.ErrLog.LogNotFound(w, r, "images: unknown key", "image not found")
		return
	}
	if u.Storage == nil {
		h.ErrLog.LogNotFound(w, r, "images: no storage configured", "image not found")
		return
	}

	signer, err := s3presign.New(*u.Storage, h.expiry)
	if err != nil {
		h.ErrLog.LogNotFound(w, r, "images: unusable storage config", "image not found")
		return
	}
	url, err := signer.GetURL(ctx, name)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "images: presign get failed", err, "could not sign download URL")
		return
	}

	h.Metrics.PresignedURLs.WithLabelValues(http.MethodGet).Inc()
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}
