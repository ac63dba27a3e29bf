package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/medicare/billing-console/internal/config"
	"github.com/medicare/billing-console/internal/domain/account"
	"github.com/medicare/billing-console/internal/domain/billing"
	"github.com/medicare/billing-console/internal/domain/catalog"
	"github.com/medicare/billing-console/internal/domain/dashboard"
	"github.com/medicare/billing-console/internal/domain/insurance"
	"github.com/medicare/billing-console/internal/domain/patient"
	"github.com/medicare/billing-console/internal/domain/payment"
	"github.com/medicare/billing-console/internal/domain/report"
	"github.com/medicare/billing-console/internal/domain/user"
	"github.com/medicare/billing-console/internal/platform/apiclient"
	"github.com/medicare/billing-console/internal/platform/auth"
	"github.com/medicare/billing-console/internal/platform/cache"
	"github.com/medicare/billing-console/internal/platform/db"
	"github.com/medicare/billing-console/internal/platform/middleware"
	"github.com/medicare/billing-console/internal/platform/session"
)

// backends holds the optional infrastructure picked by configuration.
type backends struct {
	pool   *pgxpool.Pool
	redis  *redis.Client
	checks []db.Check
}

func (b *backends) close() {
	if b.redis != nil {
		b.redis.Close()
	}
	if b.pool != nil {
		b.pool.Close()
	}
}

func openBackends(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*backends, error) {
	b := &backends{}

	if cfg.SessionStore == config.StorePostgres || (cfg.DatabaseURL != "" && cfg.AuditEnabled) {
		pool, err := db.NewPool(ctx, db.PoolConfig{URL: cfg.DatabaseURL, MaxConns: cfg.DBMaxConns, MinConns: cfg.DBMinConns})
		if err != nil {
			return nil, err
		}
		b.pool = pool
		b.checks = append(b.checks, db.PoolCheck(pool))
		logger.Info().Msg("connected to database")
	}

	if cfg.SessionStore == config.StoreRedis || cfg.CacheBackend == config.StoreRedis {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			b.close()
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			b.close()
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		b.redis = client
		b.checks = append(b.checks, db.Check{Name: "redis", Ping: func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		}})
		logger.Info().Msg("connected to redis")
	}

	return b, nil
}

func newSessionStore(ctx context.Context, cfg *config.Config, b *backends, logger zerolog.Logger) (session.Store, func()) {
	switch cfg.SessionStore {
	case config.StoreRedis:
		return session.NewRedisStore(b.redis), func() {}
	case config.StorePostgres:
		store := session.NewPostgresStore(b.pool)
		purgeCtx, cancel := context.WithCancel(ctx)
		go purgeSessions(purgeCtx, store, logger)
		return store, cancel
	}
	store := session.NewMemoryStore(time.Minute)
	return store, store.Close
}

// purgeSessions deletes expired rows every 10 minutes until ctx ends.
func purgeSessions(ctx context.Context, store *session.PostgresStore, logger zerolog.Logger) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := store.Purge(ctx, now)
			if err != nil {
				logger.Warn().Err(err).Msg("purge expired sessions")
				continue
			}
			if n > 0 {
				logger.Debug().Int64("purged", n).Msg("expired sessions removed")
			}
		}
	}
}

func newCache(ctx context.Context, cfg *config.Config, b *backends) cache.Cache {
	if cfg.CacheBackend == config.StoreRedis {
		return cache.NewRedis(b.redis)
	}
	mem := cache.NewMemory()
	mem.StartCleanup(ctx, time.Minute)
	return mem
}

// newEcho builds the HTTP server with the full middleware chain. Routes are
// registered by the caller.
func newEcho(cfg *config.Config, logger zerolog.Logger, sessions *session.Manager, recorder middleware.AuditRecorder) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = goccyJSON{}
	e.HTTPErrorHandler = middleware.ErrorHandler(logger, sessions)

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
		IdleTTL:           10 * time.Minute,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}

	// Global middleware
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.SecurityHeaders(cfg.SessionCookieSecure))
	e.Use(middleware.Sanitize(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders:     []string{"Content-Type", middleware.RequestIDHeader},
		AllowCredentials: true,
	}))
	e.Use(middleware.BodyLimit(cfg.BodyLimit))
	e.Use(middleware.RateLimit(rateLimitCfg))
	e.Use(middleware.RequestTimeout(cfg.RequestTimeout))

	// Session and auth
	e.Use(session.Middleware(sessions, logger))
	e.Use(auth.RequireSession(auth.SessionSkipper))

	if cfg.AuditEnabled {
		e.Use(middleware.Audit(logger, recorder))
	}

	return e
}

// registerRoutes wires every domain package onto /api. The insurance
// service doubles as the billing policy source so patient coverage goes
// through the same client; dashboard reads the raw upstream lists.
func registerRoutes(e *echo.Echo, client *apiclient.Client, sessions *session.Manager, c cache.Cache, cfg *config.Config, logger zerolog.Logger) {
	api := e.Group("/api")

	patientRepo := patient.NewAPIRepo(client)
	patientSvc := patient.NewService(patientRepo)

	catalogSvc := catalog.NewService(catalog.NewAPIRepo(client))
	insuranceSvc := insurance.NewService(insurance.NewAPIRepo(client), c, cfg.CacheTTL, logger)
	paymentSvc := payment.NewService(payment.NewAPIRepo(client))

	billingRepo := billing.NewAPIRepo(client)
	billingSvc := billing.NewService(billingRepo, catalogSvc, insuranceSvc, paymentSvc, logger)

	account.NewHandler(account.NewAPIAuthenticator(client), sessions, logger).RegisterRoutes(api)
	dashboard.NewHandler(dashboard.NewService(patientRepo, billingRepo, insuranceSvc, logger)).RegisterRoutes(api)
	patient.NewHandler(patientSvc).RegisterRoutes(api)
	catalog.NewHandler(catalogSvc).RegisterRoutes(api)
	insurance.NewHandler(insuranceSvc).RegisterRoutes(api)
	payment.NewHandler(paymentSvc).RegisterRoutes(api)
	billing.NewHandler(billingSvc).RegisterRoutes(api)
	user.NewHandler(user.NewService(user.NewAPIRepo(client))).RegisterRoutes(api)
	report.NewHandler(report.NewService(report.NewAPIRepo(client), logger)).RegisterRoutes(api)
}

// registerProbes mounts liveness and readiness. Readiness pings every
// configured backend.
func registerProbes(e *echo.Echo, checks []db.Check) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/readyz", db.HealthHandler(checks...))
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := newLogger(cfg)
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	key, generated, err := cfg.SigningKey()
	if err != nil {
		logger.Fatal().Err(err).Msg("session signing key")
	}
	if generated {
		logger.Warn().Msg("SESSION_SIGNING_KEY not set, using a random key; sessions end on restart")
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	b, err := openBackends(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open backends")
	}
	defer b.close()

	store, closeStore := newSessionStore(ctx, cfg, b, logger)
	defer closeStore()

	sessions, err := session.NewManager(store, session.Options{
		SigningKey:   key,
		TTL:          cfg.SessionTTL,
		CookieName:   cfg.SessionCookieName,
		CookieSecure: cfg.SessionCookieSecure,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create session manager")
	}

	var recorder middleware.AuditRecorder
	if b.pool != nil {
		recorder = middleware.NewPostgresAuditRecorder(b.pool)
	}

	client := apiclient.New(cfg.APIBaseURL,
		apiclient.WithTimeout(cfg.APITimeout),
		apiclient.WithLogger(logger))

	e := newEcho(cfg, logger, sessions, recorder)

	registerProbes(e, b.checks)

	registerRoutes(e, client, sessions, newCache(ctx, cfg, b), cfg, logger)

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("upstream", cfg.APIBaseURL).Msg("starting server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
