package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coleta_portal_backend/internal/audit"
	"coleta_portal_backend/internal/catalog"
	"coleta_portal_backend/internal/events"
	"coleta_portal_backend/internal/form"
	"coleta_portal_backend/internal/geo"
	apphttp "coleta_portal_backend/internal/http"
	"coleta_portal_backend/internal/http/router"
	"coleta_portal_backend/internal/regiondir"
	"coleta_portal_backend/internal/registration"
	"coleta_portal_backend/internal/sessions"
	"coleta_portal_backend/platform/config"
	"coleta_portal_backend/platform/logger"
	"coleta_portal_backend/platform/validator"

	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()

	// Region directory client, optionally wrapped with a Redis cache. The
	// directory upstream changes a few times a year at most, so cache misses
	// are rare once warm (see cmd/region-cache-warm).
	var directory form.Directory = regiondir.New(cfg.GetRegionDirectoryBaseURL(), log)
	if cfg.IsRedisEnabled() {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.GetRedisAddr(),
			Password: cfg.GetRedisPassword(),
			DB:       cfg.GetRedisDB(),
		})
		defer func() { _ = rdb.Close() }()

		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("redis unreachable, region directory cache disabled", "error", err)
		} else {
			directory = regiondir.NewCached(directory, rdb, cfg.GetRegionCacheTTL(), log)
			log.Info("region directory cache enabled", "addr", cfg.GetRedisAddr())
		}
	}

	catalogClient := catalog.New(cfg.GetCatalogBaseURL(), log)
	registrar := registration.New(cfg.GetRegistrationBaseURL(), log)

	// IP geolocation is optional; without a provider every session falls back
	// to the configured default coordinate until the operator picks a spot.
	var geoProvider geo.Provider
	if cfg.IsGeolocationEnabled() {
		geoProvider = geo.NewClient(cfg.GetGeolocationBaseURL(), log)
		log.Info("ip geolocation enabled", "url", cfg.GetGeolocationBaseURL())
	}
	fallback := form.Coordinate{Latitude: cfg.GetDefaultLatitude(), Longitude: cfg.GetDefaultLongitude()}
	locator := geo.NewLocator(geoProvider, fallback, log)

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	// Audit subscriber records session activity (not HTTP-facing)
	auditSubscriber := audit.NewSubscriber(log)
	auditSubscriber.RegisterHandlers(eventBus)

	sessionsModule := sessions.NewModule(
		cfg.GetSessionTTL(),
		directory,
		catalogClient,
		registrar,
		locator,
		eventBus,
		val,
		log,
	)

	// Expiry janitor for abandoned sessions
	go sessionsModule.Registry().Run(ctx, cfg.GetSessionSweepInterval())

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		EventBus: eventBus,
		Modules: []apphttp.Module{
			sessionsModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = shutdownCtx
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}
