// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	tokenstore "github.com/dalemusser/imagehub/internal/app/store/tokens"
	"github.com/dalemusser/imagehub/internal/app/system/auditlog"
	"github.com/dalemusser/imagehub/internal/app/system/normalize"
	"github.com/dalemusser/imagehub/internal/app/system/s3presign"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for imagehub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, owner_username, etc.
//   - Environment variables: IMAGEHUB_MONGO_URI, IMAGEHUB_OWNER_TOKEN, etc.
//   - Command-line flags: --mongo_uri, --owner_token, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "imagehub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 0, Desc: "MongoDB min connection pool size"},

	{Name: "site_name", Default: "imagehub", Desc: "Site name shown in page titles"},

	// Owner bootstrap
	{Name: "owner_username", Default: "", Desc: "Username of the owner account (created on startup)"},
	{Name: "owner_token", Default: "", Desc: "API token registered for the owner on startup (32-72 characters)"},

	// Image API
	{Name: "presign_expiry", Default: "600s", Desc: "Lifetime of presigned URLs (e.g., 600s, 10m)"},
	{Name: "max_files_per_request", Default: 32, Desc: "Maximum images per upload request"},

	// Rate limiting
	{Name: "api_rate_per_minute", Default: 120, Desc: "Sustained API requests per minute per token"},
	{Name: "api_rate_burst", Default: 20, Desc: "API request burst per token"},

	// Observability
	{Name: "metrics_enabled", Default: true, Desc: "Serve Prometheus metrics at /metrics"},
	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_api", Default: "all", Desc: "API event logging: 'all' (db+log), 'db', 'log', or 'off'"},

	// Timeouts
	{Name: "timeout_short", Default: "5s", Desc: "Deadline for single-document DB operations"},
	{Name: "timeout_medium", Default: "10s", Desc: "Deadline for multi-document DB operations"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig merges with precedence
// flags > env (IMAGEHUB_*) > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "IMAGEHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		SiteName: appValues.String("site_name"),

		OwnerUsername: appValues.String("owner_username"),
		OwnerToken:    appValues.String("owner_token"),

		PresignExpiry:      appValues.Duration("presign_expiry", s3presign.DefaultExpiry),
		MaxFilesPerRequest: appValues.Int("max_files_per_request"),

		APIRatePerMinute: appValues.Int("api_rate_per_minute"),
		APIRateBurst:     appValues.Int("api_rate_burst"),

		MetricsEnabled: appValues.Bool("metrics_enabled"),
		AuditLogAuth:   appValues.String("audit_log_auth"),
		AuditLogAPI:    appValues.String("audit_log_api"),

		TimeoutShort:  appValues.Duration("timeout_short", 5*time.Second),
		TimeoutMedium: appValues.Duration("timeout_medium", 10*time.Second),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if appCfg.MongoDatabase == "" {
		return fmt.Errorf("mongo_database is required")
	}
	return validateAppConfig(appCfg)
}

// validateAppConfig holds the checks that need no logger, so tests can
// drive them directly.
func validateAppConfig(appCfg AppConfig) error {
	hasUser := normalize.Username(appCfg.OwnerUsername) != ""
	hasToken := appCfg.OwnerToken != ""
	if hasUser != hasToken {
		return fmt.Errorf("owner_username and owner_token must be set together")
	}
	if hasToken {
		if _, err := tokenstore.PrefixOf(appCfg.OwnerToken); err != nil {
			return fmt.Errorf("owner_token must be %d-%d characters", tokenstore.MinTokenLen, tokenstore.MaxTokenLen)
		}
	}

	if appCfg.PresignExpiry <= 0 || appCfg.PresignExpiry > 7*24*time.Hour {
		return fmt.Errorf("presign_expiry must be between 1s and 7 days, got %s", appCfg.PresignExpiry)
	}
	if appCfg.MaxFilesPerRequest < 1 {
		return fmt.Errorf("max_files_per_request must be at least 1")
	}
	if appCfg.APIRatePerMinute < 1 || appCfg.APIRateBurst < 1 {
		return fmt.Errorf("api_rate_per_minute and api_rate_burst must be at least 1")
	}
	for name, mode := range map[string]string{"audit_log_auth": appCfg.AuditLogAuth, "audit_log_api": appCfg.AuditLogAPI} {
		if !auditlog.ValidMode(mode) {
			return fmt.Errorf("%s must be one of all, db, log, off; got %q", name, mode)
		}
	}
	return nil
}
