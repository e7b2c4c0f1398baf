// internal/app/features/images/handler.go
package images

import (
	"time"

	uierrors "github.com/dalemusser/imagehub/internal/app/features/errors"
	imagestore "github.com/dalemusser/imagehub/internal/app/store/images"
	"github.com/dalemusser/imagehub/internal/app/system/auditlog"
	"github.com/dalemusser/imagehub/internal/app/system/metrics"
	"github.com/dalemusser/imagehub/internal/app/system/s3presign"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// DefaultMaxFiles is the largest "number" POST /api/images accepts.
const DefaultMaxFiles = 32

// Options tune the image endpoints. Zero values fall back to defaults.
type Options struct {
	MaxFiles int
	Expiry   time.Duration
}

// Handler issues upload links, lists reserved keys and redirects
// downloads for the caller's bucket.
type Handler struct {
	Images   *imagestore.Store
	Metrics  *metrics.Metrics
	AuditLog *auditlog.Logger
	ErrLog   *uierrors.ErrorLogger
	Log      *zap.Logger

	maxFiles int
	expiry   time.Duration
}

func NewHandler(db *mongo.Database, opts Options, m *metrics.Metrics, audit *auditlog.Logger, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	if opts.MaxFiles <= 0 {
		opts.MaxFiles = DefaultMaxFiles
	}
	if opts.Expiry <= 0 {
		opts.Expiry = s3presign.DefaultExpiry
	}
	return &Handler{
		Images:   imagestore.New(db),
		Metrics:  m,
		AuditLog: audit,
		ErrLog:   errLog,
		Log:      logger,
		maxFiles: opts.MaxFiles,
		expiry:   opts.Expiry,
	}
}

// MaxFiles is the per-request cap in effect.
func (h *Handler) MaxFiles() int { return h.maxFiles }
