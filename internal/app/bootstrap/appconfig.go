// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers
// ports, TLS, logging and CORS; everything specific to imagehub lives here.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Page chrome
	SiteName string // shown in page titles

	// Owner bootstrap. Both blank disables it.
	OwnerUsername string
	OwnerToken    string

	// Image API
	PresignExpiry      time.Duration // lifetime of presigned upload/download URLs
	MaxFilesPerRequest int           // cap on "number" in POST /api/images

	// API throttling, per token
	APIRatePerMinute int
	APIRateBurst     int

	// Observability
	MetricsEnabled bool   // serve GET /metrics
	AuditLogAuth   string // token and auth-failure events: all, db, log, off
	AuditLogAPI    string // storage and upload events: all, db, log, off

	// Context deadlines for DB work (zero keeps the default)
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
}
