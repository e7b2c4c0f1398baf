// internal/app/features/storageconfig/handler.go
package storageconfig

import (
	uierrors "github.com/dalemusser/imagehub/internal/app/features/errors"
	userstore "github.com/dalemusser/imagehub/internal/app/store/users"
	"github.com/dalemusser/imagehub/internal/app/system/auditlog"
	"github.com/dalemusser/imagehub/internal/app/system/metrics"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// maxBody bounds a PUT /api/config payload.
const maxBody = 64 << 10

// Handler reads and replaces the caller's S3 settings.
type Handler struct {
	Users    *userstore.Store
	Metrics  *metrics.Metrics
	AuditLog *auditlog.Logger
	ErrLog   *uierrors.ErrorLogger
	Log      *zap.Logger
}

func NewHandler(db *mongo.Database, m *metrics.Metrics, audit *auditlog.Logger, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:    userstore.New(db),
		Metrics:  m,
		AuditLog: audit,
		ErrLog:   errLog,
		Log:      logger,
	}
}
