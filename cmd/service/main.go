package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kjstillabower/weathercom-service/internal/cache"
	"github.com/kjstillabower/weathercom-service/internal/config"
	"github.com/kjstillabower/weathercom-service/internal/coordinator"
	httphandler "github.com/kjstillabower/weathercom-service/internal/http"
	"github.com/kjstillabower/weathercom-service/internal/models"
	"github.com/kjstillabower/weathercom-service/internal/observability"
	"github.com/kjstillabower/weathercom-service/internal/scheduler"
)

func main() {
	logger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config", zap.Error(err))
	}

	// One long-lived client shared by every refresh; per-call timeouts are
	// the coordinator's job.
	httpClient := &http.Client{}

	coord := coordinator.New(coordinator.Config{
		APIKey:           cfg.WeatherAPIKey,
		LocationName:     cfg.LocationName,
		NumericPrecision: cfg.NumericPrecision,
		UnitSystemAPI:    cfg.UnitSystemAPI,
		UnitSystem:       cfg.UnitSystem,
		Lang:             cfg.Language,
		CalendarDay:      cfg.CalendarDay,
		Latitude:         cfg.Latitude,
		Longitude:        cfg.Longitude,
		ForecastMode:     cfg.ForecastMode,
		ForecastEnable:   cfg.ForecastEnable,
		UpdateInterval:   cfg.UpdateInterval,
		APIBaseURL:       cfg.WeatherAPIBaseURL,
		Timeout:          cfg.WeatherAPITimeout,
		TranslationsDir:  cfg.TranslationsDir,
	}, httpClient, logger)

	var store cache.SnapshotStore
	var memcacheCloser *cache.MemcachedStore
	geocode := cfg.Latitude + "," + cfg.Longitude
	switch cfg.CacheBackend {
	case "memcached":
		mc, err := cache.NewMemcachedStore(cfg.MemcachedAddrs, geocode, cfg.MemcachedTimeout, cfg.MemcachedMaxIdleConns)
		if err != nil {
			logger.Fatal("memcached store", zap.Error(err))
		}
		memcacheCloser = mc
		store = mc
		logger.Info("snapshot mirror: memcached", zap.String("addrs", cfg.MemcachedAddrs))
	default:
		store = cache.NewInMemoryStore()
		logger.Info("snapshot mirror: in_memory")
	}

	// Warm start: serve the mirrored snapshot until the first refresh lands.
	primeCtx, primeCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if snap, ok, err := store.Load(primeCtx); err != nil {
		logger.Warn("snapshot mirror load failed", zap.Error(err))
	} else if ok {
		coord.Prime(snap)
		logger.Info("primed from snapshot mirror", zap.Int("fields", len(snap)))
	}
	primeCancel()

	mirror := func(ctx context.Context, snap models.Snapshot) {
		if err := store.Save(ctx, snap, cfg.SnapshotTTL); err != nil {
			logger.Warn("snapshot mirror save failed", zap.Error(err))
		}
	}

	// Initial refresh before the interval scheduler takes over; a failure
	// here degrades to the primed/absent snapshot and the next tick.
	initCtx, initCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if snap, err := coord.Refresh(initCtx); err == nil {
		mirror(initCtx, snap)
	}
	initCancel()

	sched := scheduler.New(coord, coord.UpdateInterval(), logger, mirror)
	if err := sched.Start(); err != nil {
		logger.Fatal("scheduler", zap.Error(err))
	}

	var limiter *rate.Limiter
	if cfg.RateLimitRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	}

	var cachePing func() error
	if memcacheCloser != nil {
		cachePing = memcacheCloser.Ping
	}
	handler := httphandler.NewHandler(coord, logger, cachePing)

	router := mux.NewRouter()
	router.Use(httphandler.CorrelationIDMiddleware(logger))
	router.Use(httphandler.MetricsMiddleware)
	router.HandleFunc("/health", handler.GetHealth).Methods("GET")
	router.Handle("/metrics", observability.MetricsHandler())
	apiRouter := router.PathPrefix("/v1").Subrouter()
	apiRouter.Use(httphandler.RateLimitMiddleware(limiter))
	apiRouter.Use(httphandler.TimeoutMiddleware(cfg.RequestTimeout))
	apiRouter.HandleFunc("/conditions/{field}", handler.GetCondition).Methods("GET")
	apiRouter.HandleFunc("/forecast/{field}", handler.GetForecast).Methods("GET")
	apiRouter.HandleFunc("/snapshot", handler.GetSnapshot).Methods("GET")
	apiRouter.HandleFunc("/condition", handler.GetConditionLabel).Methods("GET")
	refreshRouter := router.PathPrefix("/v1/refresh").Subrouter()
	refreshRouter.Use(httphandler.RateLimitMiddleware(limiter))
	refreshRouter.Use(httphandler.TimeoutMiddleware(30 * time.Second))
	refreshRouter.HandleFunc("", handler.PostRefresh).Methods("POST")

	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 35 * time.Second,
	}

	go func() {
		logger.Info("server starting",
			zap.String("addr", ":"+cfg.ServerPort),
			zap.String("location", cfg.LocationName),
			zap.Duration("update_interval", cfg.UpdateInterval))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	<-ctx.Done()
	stop()

	logger.Info("graceful shutdown triggered")
	sched.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}

	if memcacheCloser != nil {
		if err := memcacheCloser.Close(); err != nil {
			logger.Error("memcached close", zap.Error(err))
		}
	}
	logger.Info("shutdown complete")
}
