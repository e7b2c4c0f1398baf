// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/dalemusser/imagehub/internal/app/store/audit"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Destinations for a category of events.
const (
	ModeAll = "all" // MongoDB + zap
	ModeDB  = "db"  // MongoDB only
	ModeLog = "log" // zap only
	ModeOff = "off" // disabled
)

// Config holds audit logging configuration.
type Config struct {
	// Auth covers rejected API requests.
	Auth string
	// API covers token lifecycle, owner bootstrap, storage changes and upload grants.
	API string
}

// ValidMode reports whether m is one of the Mode constants.
func ValidMode(m string) bool {
	switch m {
	case ModeAll, ModeDB, ModeLog, ModeOff:
		return true
	}
	return false
}

// Logger records audit events to MongoDB (via audit.Store) and to
// structured logs (via zap).
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

// clientIP prefers the first X-Forwarded-For hop, then X-Real-IP.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}
	if event.UserID != nil {
		fields = append(fields, zap.String("user_id", event.UserID.Hex()))
	}
	if event.TokenPrefix != "" {
		fields = append(fields, zap.String("token_prefix", event.TokenPrefix))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event according to the category's mode.
// A nil Logger is a no-op.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var mode string
	switch event.Category {
	case audit.CategoryAuth:
		mode = l.config.Auth
	case audit.CategoryAPI:
		mode = l.config.API
	default:
		mode = ModeAll
	}

	if mode == ModeOff {
		return
	}
	if mode == ModeAll || mode == ModeLog || mode == "" {
		l.logToZap(event)
	}
	if mode == ModeAll || mode == ModeDB || mode == "" {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

// --- Auth events ---

// AuthFailed logs a rejected API request.
func (l *Logger) AuthFailed(ctx context.Context, r *http.Request, reason string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventAuthFailed,
		IP:            clientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       false,
		FailureReason: reason,
		Details:       map[string]string{"path": r.URL.Path},
	})
}

// --- API events ---

// TokenIssued logs a token minted through the API by actorPrefix's holder.
func (l *Logger) TokenIssued(ctx context.Context, r *http.Request, userID primitive.ObjectID, actorPrefix, newPrefix, label string) {
	l.Log(ctx, audit.Event{
		Category:    audit.CategoryAPI,
		EventType:   audit.EventTokenIssued,
		UserID:      &userID,
		TokenPrefix: actorPrefix,
		IP:          clientIP(r),
		UserAgent:   r.UserAgent(),
		Success:     true,
		Details: map[string]string{
			"new_prefix": newPrefix,
			"label":      label,
		},
	})
}

// TokenRevoked logs a revoked token.
func (l *Logger) TokenRevoked(ctx context.Context, r *http.Request, userID primitive.ObjectID, actorPrefix, revokedPrefix string) {
	l.Log(ctx, audit.Event{
		Category:    audit.CategoryAPI,
		EventType:   audit.EventTokenRevoked,
		UserID:      &userID,
		TokenPrefix: actorPrefix,
		IP:          clientIP(r),
		UserAgent:   r.UserAgent(),
		Success:     true,
		Details:     map[string]string{"revoked_prefix": revokedPrefix},
	})
}

// TokenRegistered logs a configured token registered at startup.
func (l *Logger) TokenRegistered(ctx context.Context, userID primitive.ObjectID, prefix string) {
	l.Log(ctx, audit.Event{
		Category:    audit.CategoryAPI,
		EventType:   audit.EventTokenRegistered,
		UserID:      &userID,
		TokenPrefix: prefix,
		IP:          "startup",
		Success:     true,
	})
}

// OwnerCreated logs the owner account created at startup.
func (l *Logger) OwnerCreated(ctx context.Context, userID primitive.ObjectID, username string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAPI,
		EventType: audit.EventOwnerCreated,
		UserID:    &userID,
		IP:        "startup",
		Success:   true,
		Details:   map[string]string{"username": username},
	})
}

// StorageUpdated logs a change to a user's storage settings. The secret
// is never recorded.
func (l *Logger) StorageUpdated(ctx context.Context, r *http.Request, userID primitive.ObjectID, actorPrefix, endpoint, bucket string) {
	l.Log(ctx, audit.Event{
		Category:    audit.CategoryAPI,
		EventType:   audit.EventStorageUpdated,
		UserID:      &userID,
		TokenPrefix: actorPrefix,
		IP:          clientIP(r),
		UserAgent:   r.UserAgent(),
		Success:     true,
		Details: map[string]string{
			"endpoint": endpoint,
			"bucket":   bucket,
		},
	})
}

// UploadURLsIssued logs a batch of presigned upload links.
func (l *Logger) UploadURLsIssued(ctx context.Context, r *http.Request, userID primitive.ObjectID, actorPrefix string, groups int) {
	l.Log(ctx, audit.Event{
		Category:    audit.CategoryAPI,
		EventType:   audit.EventUploadURLsIssued,
		UserID:      &userID,
		TokenPrefix: actorPrefix,
		IP:          clientIP(r),
		UserAgent:   r.UserAgent(),
		Success:     true,
		Details:     map[string]string{"groups": strconv.Itoa(groups)},
	})
}
