package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"van-route-service/internal/adapters/cache"
	"van-route-service/internal/adapters/distance"
	"van-route-service/internal/api"
	"van-route-service/internal/api/handlers"
	"van-route-service/internal/config"
	"van-route-service/internal/platform/db"
	"van-route-service/internal/platform/logging"
	"van-route-service/internal/platform/metrics"
	"van-route-service/internal/ports"
	"van-route-service/internal/services"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// main is the application composition root.
// It wires concrete adapters (ORS or offline table, geocode caches) behind
// ports and starts the HTTP server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("parsing configuration")
	}

	log := logging.New(cfg.LogLevel, cfg.LogFormat)
	mcol := metrics.NewCollector()

	backend, err := openGeocodeCache(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("opening geocode cache")
	}
	defer backend.close()

	provider, err := newProvider(cfg, backend.cache, log)
	if err != nil {
		log.WithError(err).Fatal("creating travel-time provider")
	}

	optimizer, err := services.NewOptimizer(provider, cfg.OptimizerOptions(), log, wrapOptimizerMetrics(mcol))
	if err != nil {
		log.WithError(err).Fatal("creating optimizer")
	}

	router := api.NewRouter(api.Deps{
		Optimizer:            optimizer,
		DefaultReturnToDepot: cfg.ReturnToDepot,
		HealthChecks:         backend.checks,
		Metrics:              mcol,
		Log:                  log,
	})

	// Write timeout leaves room for a full request timeout plus encoding.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 10*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.WithField("addr", srv.Addr).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}

// newProvider picks ORS when an API key is configured, then an offline
// travel table, and falls back to straight-line estimates.
func newProvider(cfg config.Config, geocodeCache ports.GeocodeCache, log logrus.FieldLogger) (ports.DistanceProvider, error) {
	switch {
	case strings.TrimSpace(cfg.ORSAPIKey) != "":
		log.WithField("profile", cfg.ORSProfile).Info("using OpenRouteService provider")
		return distance.NewORSDistanceProvider(distance.ORSConfig{
			APIKey:     cfg.ORSAPIKey,
			BaseURL:    cfg.ORSBaseURL,
			Profile:    cfg.ORSProfile,
			RatePerSec: cfg.ORSRatePerSec,
			Burst:      cfg.ORSBurst,
			Timeout:    cfg.ProviderCallTimeout,
		}, geocodeCache, log)

	case strings.TrimSpace(cfg.TravelTablePath) != "":
		p, err := distance.LoadTableProvider(cfg.TravelTablePath)
		if err != nil {
			return nil, err
		}
		log.WithFields(logrus.Fields{"path": cfg.TravelTablePath, "entries": p.Len()}).Info("using offline travel table")
		return p, nil

	default:
		log.WithField("speed_kph", cfg.AverageSpeedKPH).Warn("no ORS key or travel table configured, using straight-line provider")
		return distance.NewStraightLineProvider(cfg.AverageSpeedKPH)
	}
}

type geocodeBackend struct {
	cache  ports.GeocodeCache
	checks []handlers.HealthCheck
	close  func()
}

// openGeocodeCache prefers Postgres, then Redis. Without either, geocodes
// are resolved on every request.
func openGeocodeCache(cfg config.Config, log logrus.FieldLogger) (geocodeBackend, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	switch {
	case strings.TrimSpace(cfg.DatabaseURL) != "":
		sqlDB, err := db.Open(ctx, cfg.DatabaseURL, cfg.PoolOptions())
		if err != nil {
			return geocodeBackend{}, err
		}
		if err := cache.InitSchema(ctx, sqlDB); err != nil {
			_ = sqlDB.Close()
			return geocodeBackend{}, err
		}
		log.Info("geocode cache: postgres")
		return geocodeBackend{
			cache:  cache.NewSQLGeocodeCache(sqlDB, log),
			checks: []handlers.HealthCheck{{Name: "postgres", Check: sqlDB.PingContext}},
			close: func() {
				if err := sqlDB.Close(); err != nil {
					log.WithError(err).Warn("closing database")
				}
			},
		}, nil

	case strings.TrimSpace(cfg.RedisURL) != "":
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return geocodeBackend{}, err
		}
		rdb := redis.NewClient(opts)
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return geocodeBackend{}, err
		}
		log.WithField("ttl", cfg.GeocodeCacheTTL).Info("geocode cache: redis")
		return geocodeBackend{
			cache: cache.NewRedisGeocodeCache(rdb, cfg.GeocodeCacheTTL, log),
			checks: []handlers.HealthCheck{{Name: "redis", Check: func(ctx context.Context) error {
				return rdb.Ping(ctx).Err()
			}}},
			close: func() { _ = rdb.Close() },
		}, nil

	default:
		return geocodeBackend{close: func() {}}, nil
	}
}
