package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"van-route-service/internal/adapters/cache"
	"van-route-service/internal/config"
	"van-route-service/internal/platform/db"
	"van-route-service/internal/platform/logging"

	"github.com/sirupsen/logrus"
)

// dbtool prepares the Postgres geocode cache: it creates the schema and
// optionally preloads known addresses (depots, regular pickup points).
func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("parsing configuration")
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	sqlDB, err := db.Open(ctx, cfg.DatabaseURL, cfg.PoolOptions())
	if err != nil {
		log.WithError(err).Fatal("opening database")
	}
	defer sqlDB.Close()

	seedPath := config.Get("SEED_PATH", "data/seeds/geocodes.json")
	if err := initAndSeed(ctx, sqlDB, seedPath, log); err != nil {
		log.WithError(err).Fatal("dbtool failed")
	}
}

func initAndSeed(ctx context.Context, sqlDB *sql.DB, seedPath string, log logrus.FieldLogger) error {
	log.Info("initializing database schema")
	if err := cache.InitSchema(ctx, sqlDB); err != nil {
		return fmt.Errorf("schema initialization: %w", err)
	}
	log.Info("schema ready")

	if _, err := os.Stat(seedPath); errors.Is(err, os.ErrNotExist) {
		log.WithField("path", seedPath).Info("no seed file, skipping geocode preload")
		return nil
	}

	seeds, err := cache.LoadGeocodeSeeds(seedPath)
	if err != nil {
		return err
	}
	if err := cache.NewSQLGeocodeCache(sqlDB, log).PutMany(ctx, seeds); err != nil {
		return fmt.Errorf("seeding geocode cache: %w", err)
	}
	log.WithField("addresses", len(seeds)).Info("geocode cache seeded")

	return nil
}
