// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"sync"

	auditlogfeature "github.com/dalemusser/imagehub/internal/app/features/auditlog"
	errorsfeature "github.com/dalemusser/imagehub/internal/app/features/errors"
	healthfeature "github.com/dalemusser/imagehub/internal/app/features/health"
	homefeature "github.com/dalemusser/imagehub/internal/app/features/home"
	imagesfeature "github.com/dalemusser/imagehub/internal/app/features/images"
	loginfeature "github.com/dalemusser/imagehub/internal/app/features/login"
	_ "github.com/dalemusser/imagehub/internal/app/features/login/views"
	signupfeature "github.com/dalemusser/imagehub/internal/app/features/signup"
	_ "github.com/dalemusser/imagehub/internal/app/features/signup/views"
	storageconfigfeature "github.com/dalemusser/imagehub/internal/app/features/storageconfig"
	tokensfeature "github.com/dalemusser/imagehub/internal/app/features/tokens"
	userinfofeature "github.com/dalemusser/imagehub/internal/app/features/userinfo"
	tokenstore "github.com/dalemusser/imagehub/internal/app/store/tokens"
	userstore "github.com/dalemusser/imagehub/internal/app/store/users"
	"github.com/dalemusser/imagehub/internal/app/system/auth"
	"github.com/dalemusser/imagehub/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

var (
	limiterMu  sync.Mutex
	apiLimiter *ratelimit.Limiter
)

// stopLimiter ends the limiter's sweeper. Called from Shutdown.
func stopLimiter() {
	limiterMu.Lock()
	defer limiterMu.Unlock()
	if apiLimiter != nil {
		apiLimiter.Close()
		apiLimiter = nil
	}
}

func newLimiter(appCfg AppConfig) *ratelimit.Limiter {
	limiterMu.Lock()
	defer limiterMu.Unlock()
	if apiLimiter != nil {
		apiLimiter.Close()
	}
	apiLimiter = ratelimit.New(appCfg.APIRatePerMinute, appCfg.APIRateBurst)
	return apiLimiter
}

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// Startup have completed.
//
// Pages (/, /login, /signup) are public. Everything under /api needs a
// bearer token and is rate limited per token.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	db := deps.MongoDatabase
	m := deps.Metrics
	errLog := errorsfeature.NewErrorLogger(logger)
	auditLog := newAuditLogger(appCfg, db, logger)

	authn := auth.NewAuthenticator(tokenstore.New(db), userstore.New(db), logger)
	authn.OnFailure = func(r *http.Request, reason string) {
		m.AuthFailures.WithLabelValues(reason).Inc()
		auditLog.AuthFailed(r.Context(), r, reason)
	}
	limiter := newLimiter(appCfg)

	r := chi.NewRouter()

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	if appCfg.MetricsEnabled {
		r.Handle("/metrics", m.Handler())
	}

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	// Pages
	homeHandler := homefeature.NewHandler(logger)
	r.Mount("/", homefeature.Routes(homeHandler))

	loginHandler := loginfeature.NewHandler(logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	signupHandler := signupfeature.NewHandler(logger)
	r.Mount("/signup", signupfeature.Routes(signupHandler))

	// JSON API
	r.Route("/api", func(api chi.Router) {
		api.Use(authn.RequireToken)
		api.Use(limiter.Middleware(auth.TokenPrefixKey, m.RateLimited.Inc))

		configHandler := storageconfigfeature.NewHandler(db, m, auditLog, errLog, logger)
		api.Mount("/config", storageconfigfeature.Routes(configHandler))

		imagesHandler := imagesfeature.NewHandler(db, imagesfeature.Options{
			MaxFiles: appCfg.MaxFilesPerRequest,
			Expiry:   appCfg.PresignExpiry,
		}, m, auditLog, errLog, logger)
		api.Mount("/images", imagesfeature.Routes(imagesHandler))

		tokensHandler := tokensfeature.NewHandler(db, auditLog, errLog, logger)
		api.Mount("/tokens", tokensfeature.Routes(tokensHandler))

		auditHandler := auditlogfeature.NewHandler(db, errLog, logger)
		api.Mount("/audit", auditlogfeature.Routes(auditHandler))

		userinfofeature.MountRoutes(api, userinfofeature.NewHandler())

		api.NotFound(func(w http.ResponseWriter, r *http.Request) {
			errorsfeature.WriteJSON(w, http.StatusNotFound, "not found")
		})
	})

	// Error pages
	errorsHandler := errorsfeature.NewHandler()
	r.NotFound(errorsHandler.NotFound)

	return r, nil
}
