// internal/app/features/auditlog/handler.go
package auditlog

import (
	uierrors "github.com/dalemusser/imagehub/internal/app/features/errors"
	"github.com/dalemusser/imagehub/internal/app/store/audit"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the caller's own audit trail.
type Handler struct {
	Events *audit.Store
	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Events: audit.New(db),
		ErrLog: errLog,
		Log:    logger,
	}
}
