// Package timeouts holds the context deadlines used around database and
// other I/O work in handlers and startup code.
//
// Pick by the shape of the work:
//   - Ping: connectivity checks (health endpoint)
//   - Short: single-document reads and writes, token checks
//   - Medium: list queries and multi-document inserts
//   - Long: index reconciliation and other startup work
package timeouts

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultPing   = 2 * time.Second
	DefaultShort  = 5 * time.Second
	DefaultMedium = 10 * time.Second
	DefaultLong   = 30 * time.Second
)

// Config is one full set of deadlines. In Configure, zero fields mean
// "leave unchanged".
type Config struct {
	Ping   time.Duration
	Short  time.Duration
	Medium time.Duration
	Long   time.Duration
}

func defaults() *Config {
	return &Config{Ping: DefaultPing, Short: DefaultShort, Medium: DefaultMedium, Long: DefaultLong}
}

var current atomic.Pointer[Config]

func init() { current.Store(defaults()) }

func Ping() time.Duration   { return current.Load().Ping }
func Short() time.Duration  { return current.Load().Short }
func Medium() time.Duration { return current.Load().Medium }
func Long() time.Duration   { return current.Load().Long }

// Configure merges the positive values of cfg over the current set.
// Called once from startup, after config validation.
func Configure(cfg Config) {
	next := *current.Load()
	pick := func(dst *time.Duration, v time.Duration) {
		if v > 0 {
			*dst = v
		}
	}
	pick(&next.Ping, cfg.Ping)
	pick(&next.Short, cfg.Short)
	pick(&next.Medium, cfg.Medium)
	pick(&next.Long, cfg.Long)
	current.Store(&next)
}

// Reset restores the defaults.
func Reset() { current.Store(defaults()) }

// Current returns a copy of the deadlines in effect.
func Current() Config { return *current.Load() }

// WithTimeout derives a context bounded by d. Its cancel func logs a
// warning when the deadline, not the caller, ended the operation.
//
//	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "reserve image keys")
//	defer cancel()
func WithTimeout(parent context.Context, d time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, d)
	if log == nil {
		return ctx, cancel
	}
	return ctx, func() {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			log.Warn("deadline exceeded",
				zap.String("operation", operation),
				zap.Duration("timeout", d),
			)
		}
		cancel()
	}
}
