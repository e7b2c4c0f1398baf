// internal/app/features/storageconfig/config.go
package storageconfig

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/imagehub/internal/app/features/errors"
	userstore "github.com/dalemusser/imagehub/internal/app/store/users"
	"github.com/dalemusser/imagehub/internal/app/system/auth"
	"github.com/dalemusser/imagehub/internal/app/system/normalize"
	"github.com/dalemusser/imagehub/internal/app/system/s3presign"
	"github.com/dalemusser/imagehub/internal/app/system/timeouts"
	"github.com/dalemusser/imagehub/internal/domain/models"
	"go.uber.org/zap"
)

// configView is what GET /api/config returns. The secret is masked.
type configView struct {
	Endpoint  string `json:"endpoint"`
	Region    string `json:"region"`
	Bucket    string `json:"bucket"`
	AccessKey string `json:"access_key"`
	SecretKey string `json:"secret_key"`
}

// MaskSecret keeps the last four characters of s.
func MaskSecret(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	return "****" + s[len(s)-4:]
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /api/config                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeConfig(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.WriteJSON(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, err := h.Users.GetByID(ctx, u.ID)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			h.ErrLog.LogNotFound(w, r, "config: user vanished", "user not found")
			return
		}
		h.ErrLog.LogServerError(w, r, "config: load user failed", err, "a database error occurred")
		return
	}
	if user.Storage == nil {
		h.ErrLog.LogNotFound(w, r, "config: no storage configured", "storage is not configured")
		return
	}

	cfg := user.Storage
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(configView{
		Endpoint:  cfg.Endpoint,
		Region:    cfg.Region,
		Bucket:    cfg.Bucket,
		AccessKey: cfg.AccessKey,
		SecretKey: MaskSecret(cfg.SecretKey),
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| PUT /api/config                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.WriteJSON(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	var in models.StorageConfig
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "config: bad body", err, "request body must be a JSON storage config")
		return
	}

	cfg := models.StorageConfig{
		Endpoint:  normalize.Endpoint(in.Endpoint),
		Region:    strings.TrimSpace(in.Region),
		Bucket:    strings.TrimSpace(in.Bucket),
		AccessKey: strings.TrimSpace(in.AccessKey),
		SecretKey: strings.TrimSpace(in.SecretKey),
	}
	if err := s3presign.Validate(cfg); err != nil {
		h.ErrLog.LogBadRequest(w, r, "config: invalid storage config", err, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Users.SetStorage(ctx, u.ID, cfg); err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			h.ErrLog.LogNotFound(w, r, "config: user vanished", "user not found")
			return
		}
		h.ErrLog.LogServerError(w, r, "config: save failed", err, "a database error occurred")
		return
	}

	h.Metrics.StorageUpdates.Inc()
	h.AuditLog.StorageUpdated(ctx, r, u.ID, u.TokenPrefix, cfg.Endpoint, cfg.Bucket)
	h.Log.Info("storage config updated",
		zap.String("user_id", u.ID.Hex()),
		zap.String("endpoint", cfg.Endpoint),
		zap.String("bucket", cfg.Bucket))

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
