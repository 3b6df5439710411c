package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"van-route-service/internal/platform/db"
	"van-route-service/internal/services"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config is the process configuration, read from the environment and an
// optional .env file.
type Config struct {
	Port      string `envconfig:"PORT" default:"8080"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`

	ORSAPIKey     string  `envconfig:"ORS_API_KEY"`
	ORSBaseURL    string  `envconfig:"ORS_BASE_URL" default:"https://api.openrouteservice.org"`
	ORSProfile    string  `envconfig:"ORS_PROFILE" default:"driving-car"`
	ORSRatePerSec float64 `envconfig:"ORS_RATE_PER_SEC" default:"10"`
	ORSBurst      int     `envconfig:"ORS_BURST" default:"5"`

	TravelTablePath string `envconfig:"TRAVEL_TABLE_PATH"`

	DatabaseURL       string        `envconfig:"DATABASE_URL"`
	DBMaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"10"`
	DBConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"30m"`
	RedisURL          string        `envconfig:"REDIS_URL"`
	GeocodeCacheTTL   time.Duration `envconfig:"GEOCODE_CACHE_TTL" default:"720h"`

	MatrixConcurrency      int           `envconfig:"MATRIX_CONCURRENCY" default:"5"`
	ProviderMaxAttempts    int           `envconfig:"PROVIDER_MAX_ATTEMPTS" default:"4"`
	ProviderInitialBackoff time.Duration `envconfig:"PROVIDER_INITIAL_BACKOFF" default:"200ms"`
	ProviderMaxBackoff     time.Duration `envconfig:"PROVIDER_MAX_BACKOFF" default:"2s"`
	ProviderCallTimeout    time.Duration `envconfig:"PROVIDER_CALL_TIMEOUT" default:"10s"`
	AverageSpeedKPH        float64       `envconfig:"AVERAGE_SPEED_KPH" default:"40"`
	FallbackMinutes        float64       `envconfig:"FALLBACK_MINUTES" default:"30"`

	ImproveMaxIterations int           `envconfig:"IMPROVE_MAX_ITERATIONS" default:"1000"`
	ImproveBudget        time.Duration `envconfig:"IMPROVE_BUDGET" default:"2s"`
	RequestTimeout       time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s"`

	ReturnToDepot bool    `envconfig:"RETURN_TO_DEPOT" default:"false"`
	DwellMinutes  float64 `envconfig:"DWELL_MINUTES" default:"0"`
}

// Load reads .env when present, then the process environment.
func Load() (Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(strings.TrimSpace(c.Port) != "", "PORT must not be empty")
	check(c.ORSRatePerSec >= 0, "ORS_RATE_PER_SEC must be non-negative, got %v", c.ORSRatePerSec)
	check(c.ORSBurst >= 1, "ORS_BURST must be at least 1, got %d", c.ORSBurst)
	check(c.DBMaxOpenConns >= 1, "DB_MAX_OPEN_CONNS must be at least 1, got %d", c.DBMaxOpenConns)
	check(c.GeocodeCacheTTL >= 0, "GEOCODE_CACHE_TTL must be non-negative, got %v", c.GeocodeCacheTTL)
	check(c.MatrixConcurrency >= 1, "MATRIX_CONCURRENCY must be at least 1, got %d", c.MatrixConcurrency)
	check(c.ProviderMaxAttempts >= 1, "PROVIDER_MAX_ATTEMPTS must be at least 1, got %d", c.ProviderMaxAttempts)
	check(c.ProviderInitialBackoff > 0, "PROVIDER_INITIAL_BACKOFF must be positive, got %v", c.ProviderInitialBackoff)
	check(c.ProviderMaxBackoff >= c.ProviderInitialBackoff,
		"PROVIDER_MAX_BACKOFF (%v) must not be below PROVIDER_INITIAL_BACKOFF (%v)", c.ProviderMaxBackoff, c.ProviderInitialBackoff)
	check(c.ProviderCallTimeout > 0, "PROVIDER_CALL_TIMEOUT must be positive, got %v", c.ProviderCallTimeout)
	check(c.AverageSpeedKPH > 0, "AVERAGE_SPEED_KPH must be positive, got %v", c.AverageSpeedKPH)
	check(c.FallbackMinutes > 0, "FALLBACK_MINUTES must be positive, got %v", c.FallbackMinutes)
	check(c.ImproveMaxIterations >= 1, "IMPROVE_MAX_ITERATIONS must be at least 1, got %d", c.ImproveMaxIterations)
	check(c.ImproveBudget > 0, "IMPROVE_BUDGET must be positive, got %v", c.ImproveBudget)
	check(c.RequestTimeout > 0, "REQUEST_TIMEOUT must be positive, got %v", c.RequestTimeout)
	check(c.DwellMinutes >= 0, "DWELL_MINUTES must be non-negative, got %v", c.DwellMinutes)

	return errors.Join(errs...)
}

// PoolOptions maps the database settings onto db.PoolOptions.
func (c Config) PoolOptions() db.PoolOptions {
	return db.PoolOptions{
		MaxOpenConns:    c.DBMaxOpenConns,
		MaxIdleConns:    c.DBMaxOpenConns,
		ConnMaxLifetime: c.DBConnMaxLifetime,
	}
}

// OptimizerOptions maps the settings onto services.Options.
func (c Config) OptimizerOptions() services.Options {
	return services.Options{
		Mode:            c.ORSProfile,
		Concurrency:     c.MatrixConcurrency,
		MaxAttempts:     c.ProviderMaxAttempts,
		InitialBackoff:  c.ProviderInitialBackoff,
		MaxBackoff:      c.ProviderMaxBackoff,
		CallTimeout:     c.ProviderCallTimeout,
		AverageSpeedKPH: c.AverageSpeedKPH,
		FallbackMinutes: c.FallbackMinutes,
		MaxIterations:   c.ImproveMaxIterations,
		ImproveBudget:   c.ImproveBudget,
		Timeout:         c.RequestTimeout,
		DwellMinutes:    c.DwellMinutes,
		ReturnToDepot:   c.ReturnToDepot,
	}
}

// Get returns the environment value for key, or fallback when unset.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
