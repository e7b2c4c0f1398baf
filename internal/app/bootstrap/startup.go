// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/imagehub/internal/app/resources"
	"github.com/dalemusser/imagehub/internal/app/store/audit"
	tokenstore "github.com/dalemusser/imagehub/internal/app/store/tokens"
	userstore "github.com/dalemusser/imagehub/internal/app/store/users"
	"github.com/dalemusser/imagehub/internal/app/system/auditlog"
	"github.com/dalemusser/imagehub/internal/app/system/timeouts"
	"github.com/dalemusser/imagehub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{
		Short:  appCfg.TimeoutShort,
		Medium: appCfg.TimeoutMedium,
	})
	cur := timeouts.Current()
	logger.Info("timeouts configured",
		zap.Duration("ping", cur.Ping),
		zap.Duration("short", cur.Short),
		zap.Duration("medium", cur.Medium),
		zap.Duration("long", cur.Long))

	viewdata.Init(appCfg.SiteName)
	resources.LoadSharedTemplates()

	if appCfg.OwnerUsername == "" {
		logger.Info("owner bootstrap disabled (owner_username not set)")
		return nil
	}
	auditLog := newAuditLogger(appCfg, deps.MongoDatabase, logger)
	return ensureOwner(ctx, deps.MongoDatabase, appCfg.OwnerUsername, appCfg.OwnerToken, auditLog, logger)
}

func newAuditLogger(appCfg AppConfig, db *mongo.Database, logger *zap.Logger) *auditlog.Logger {
	return auditlog.New(audit.New(db), logger, auditlog.Config{
		Auth: appCfg.AuditLogAuth,
		API:  appCfg.AuditLogAPI,
	})
}

// ensureOwner creates the owner account if missing and registers the
// configured token unless its prefix is already known. Safe to run on
// every start.
func ensureOwner(ctx context.Context, db *mongo.Database, username, token string, auditLog *auditlog.Logger, logger *zap.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()

	users := userstore.New(db)
	tokens := tokenstore.New(db)

	owner, created, err := users.Ensure(ctx, username)
	if err != nil {
		return fmt.Errorf("ensure owner %q: %w", username, err)
	}
	if created {
		auditLog.OwnerCreated(ctx, owner.ID, owner.Username)
		logger.Info("owner account created", zap.String("username", owner.Username))
	}

	prefix, err := tokenstore.PrefixOf(token)
	if err != nil {
		return fmt.Errorf("owner token: %w", err)
	}
	exists, err := tokens.HasPrefix(ctx, prefix)
	if err != nil {
		return fmt.Errorf("look up owner token: %w", err)
	}
	if exists {
		logger.Debug("owner token already registered", zap.String("token_prefix", prefix))
		return nil
	}

	if _, err := tokens.Register(ctx, owner.ID, token, "owner (config)"); err != nil {
		// A concurrent start may have registered it first.
		if errors.Is(err, tokenstore.ErrDuplicatePrefix) {
			return nil
		}
		return fmt.Errorf("register owner token: %w", err)
	}
	auditLog.TokenRegistered(ctx, owner.ID, prefix)
	logger.Info("owner token registered", zap.String("token_prefix", prefix))
	return nil
}
