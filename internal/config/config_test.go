package config

import (
	"strings"
	"testing"
	"time"

	"github.com/kelseyhightower/envconfig"
)

func TestDefaults(t *testing.T) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should be valid: %v", err)
	}

	if cfg.Port != "8080" || cfg.MatrixConcurrency != 5 || cfg.ProviderMaxAttempts != 4 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.ProviderInitialBackoff != 200*time.Millisecond {
		t.Fatalf("initial backoff = %v, want 200ms", cfg.ProviderInitialBackoff)
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("MATRIX_CONCURRENCY", "12")
	t.Setenv("RETURN_TO_DEPOT", "true")
	t.Setenv("DWELL_MINUTES", "5")
	t.Setenv("IMPROVE_BUDGET", "750ms")
	t.Setenv("DB_MAX_OPEN_CONNS", "3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	opts := cfg.OptimizerOptions()
	if opts.Concurrency != 12 || !opts.ReturnToDepot || opts.DwellMinutes != 5 {
		t.Fatalf("options = %+v", opts)
	}
	if opts.ImproveBudget != 750*time.Millisecond {
		t.Fatalf("improve budget = %v, want 750ms", opts.ImproveBudget)
	}
	if pool := cfg.PoolOptions(); pool.MaxOpenConns != 3 || pool.ConnMaxLifetime != 30*time.Minute {
		t.Fatalf("pool = %+v", pool)
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg.MatrixConcurrency = 0
	cfg.AverageSpeedKPH = -1
	cfg.ProviderMaxBackoff = time.Millisecond

	err := cfg.Validate()
	if err == nil {
		t.Fatalf("expected validation error")
	}
	for _, want := range []string{"MATRIX_CONCURRENCY", "AVERAGE_SPEED_KPH", "PROVIDER_MAX_BACKOFF"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error %q does not mention %s", err, want)
		}
	}
}

func TestGet(t *testing.T) {
	t.Setenv("VAN_ROUTE_TEST_KEY", "set")
	if got := Get("VAN_ROUTE_TEST_KEY", "fallback"); got != "set" {
		t.Fatalf("Get = %q, want set", got)
	}
	if got := Get("VAN_ROUTE_TEST_MISSING", "fallback"); got != "fallback" {
		t.Fatalf("Get = %q, want fallback", got)
	}
}
