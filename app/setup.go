package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joemans3/TandemLaunch-Scouting-DB/api"
	"github.com/joemans3/TandemLaunch-Scouting-DB/config"
	"github.com/joemans3/TandemLaunch-Scouting-DB/database"
	"github.com/joemans3/TandemLaunch-Scouting-DB/router"
	"github.com/joemans3/TandemLaunch-Scouting-DB/services"
	"github.com/joemans3/TandemLaunch-Scouting-DB/services/cron"
	"github.com/joemans3/TandemLaunch-Scouting-DB/utils"
	"github.com/joemans3/TandemLaunch-Scouting-DB/utils/auth"
	"github.com/joemans3/TandemLaunch-Scouting-DB/utils/cache"
	"github.com/joemans3/TandemLaunch-Scouting-DB/utils/metrics"
	"github.com/joemans3/TandemLaunch-Scouting-DB/utils/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func SetupAndRunServer() error {

	// Load ENV
	if err := config.LoadENV(); err != nil {
		return err
	}

	cfg, err := config.Get()
	if err != nil {
		return err
	}

	log, err := utils.NewLogger(cfg.GoEnv)
	if err != nil {
		return err
	}
	defer log.Sync()

	// Initialize GORM database connection
	store, err := database.StartGORM(cfg, log)
	if err != nil {
		log.Error("Failed to open database", "driver", cfg.DBDriver, "path", cfg.DBPath)
		return err
	}

	if err := store.Init(); err != nil {
		log.Error("Failed to initialize database tables", "error", err)
		return err
	}

	// Metrics registry
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	// Registry lookups, cached in Redis when configured
	registryClient := services.NewRegistryClient(cfg.RORAPIURL, cfg.CountriesAPIURL, cfg.LookupTimeout, m)
	var universityLookup services.UniversityLookup = registryClient.LookupUniversity
	var countryLookup services.CountryLookup = registryClient.LookupCountry

	var redisCache *cache.RedisCache
	if cfg.RedisURL != "" {
		redisCache, err = cache.NewRedisCache(cfg.RedisURL)
		if err != nil {
			log.Warn("Failed to connect to Redis, registry lookups will not be cached", "error", err)
		} else {
			universityLookup = services.CachedUniversityLookup(redisCache, cfg.LookupTTL, universityLookup, m, log)
			countryLookup = services.CachedCountryLookup(redisCache, cfg.LookupTTL, countryLookup, m, log)
		}
	}

	// ROR dump for suggestions; a failed download leaves the server running without them
	dump := services.NewRORDump(cfg.RORDumpURL, cfg.RORDumpPath, log)
	go func() {
		if err := dump.EnsureDump(context.Background()); err != nil {
			log.Warn("ROR dump unavailable, suggestions disabled until the next refresh", "error", err)
		}
	}()

	// Initialize Cron Manager (only if enabled via environment variable)
	var cronManager *cron.CronManager
	if cfg.CronEnabled {
		cronManager = cron.NewCronManager(store.DB(), dump, cfg.RORRefreshCron, log)
		if err := cronManager.Start(); err != nil {
			// Don't fail the app, just log the warning
			log.Warn("Failed to start cron jobs", "error", err)
			cronManager = nil
		}
	}

	// Optional write guard
	var jwtManager *auth.JWTManager
	if cfg.JWTSecret != "" {
		jwtManager = auth.NewJWTManager(auth.JWTConfig{
			Secret: cfg.JWTSecret,
			Expiry: cfg.JWTExpiry,
			Issuer: cfg.JWTIssuer,
		})
	} else {
		log.Warn("JWT_SECRET is not set, write routes are open")
	}

	// Defer Closing DB, Redis and stopping cron jobs
	defer func() {
		if cronManager != nil {
			cronManager.Stop()
		}
		if redisCache != nil {
			redisCache.Close()
		}
		store.Close()
	}()

	// Init API
	server := api.NewAPIServer(fmt.Sprintf(":%d", cfg.Port), log)

	router.SetupRoutes(server.GetEngine(), router.Dependencies{
		Store:            store,
		UniversityLookup: universityLookup,
		CountryLookup:    countryLookup,
		Dump:             dump,
		JWT:              jwtManager,
		Metrics:          m,
		Gatherer:         registry,
		Security: middleware.SecurityConfig{
			AllowedOrigins:    cfg.AllowedOrigins,
			RateLimitRequests: cfg.RateLimitRequests,
			RateLimitWindow:   cfg.RateLimitWindow,
			AccessLog:         true,
		},
		Log: log,
	})

	// Stop gracefully on SIGINT / SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-quit
		if err := server.Shutdown(); err != nil {
			log.Error("Server shutdown failed", "error", err)
		}
	}()

	return server.Run()
}
