package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Solver.Budget != 150_000_000 || cfg.Solver.KillerSize != 10 || cfg.Solver.SeparatorLimit != 1000 {
		t.Errorf("solver = %+v", cfg.Solver)
	}
	if cfg.Server.Addr != ":5176" || cfg.Server.TokenTTL != 24*time.Hour || cfg.Server.CacheMaxCost != 1<<30 {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Data.Universe != "data/universe.bin" || cfg.Log.Level != "info" {
		t.Errorf("data = %+v log = %+v", cfg.Data, cfg.Log)
	}
	if err := cfg.Validate(1000); err != nil {
		t.Errorf("defaults invalid: %v", err)
	}
}

func TestFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "handle.yaml")
	body := "solver:\n  budget: 5000\n  killerSize: 3\nserver:\n  tokenTTL: 90m\nlog:\n  level: debug\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("HANDLE_DAILY_SALT", "from-env")
	t.Setenv("HANDLE_SOLVER_KILLERSIZE", "7")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Solver.Budget != 5000 {
		t.Errorf("budget = %d", cfg.Solver.Budget)
	}
	if cfg.Solver.KillerSize != 7 {
		t.Errorf("env should override file: killerSize = %d", cfg.Solver.KillerSize)
	}
	if cfg.Server.TokenTTL != 90*time.Minute {
		t.Errorf("tokenTTL = %s", cfg.Server.TokenTTL)
	}
	if cfg.Daily.Salt != "from-env" || cfg.Log.Level != "debug" {
		t.Errorf("daily = %+v log = %+v", cfg.Daily, cfg.Log)
	}
	opts := cfg.SolverOptions()
	if opts.Budget != 5000 || opts.KillerSize != 7 {
		t.Errorf("options = %+v", opts)
	}
}

func TestValidate(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.Validate(cfg.Solver.Budget + 1); !errors.Is(err, ErrBudgetTooSmall) {
		t.Errorf("oversized universe: %v", err)
	}
	cfg.Log.Level = "loud"
	if err := cfg.Validate(1); err == nil {
		t.Error("bad log level accepted")
	}
	cfg.Log.Level = "info"
	cfg.Solver.KillerSize = 0
	if err := cfg.Validate(1); err == nil {
		t.Error("zero killer size accepted")
	}
}

func TestWatchReappliesLogLevel(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)
	path := filepath.Join(t.TempDir(), "handle.yaml")
	if err := os.WriteFile(path, []byte("log:\n  level: info\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	changed := make(chan *Config, 4)
	cfg.Watch(func(c *Config) { changed <- c })

	if err := os.WriteFile(path, []byte("log:\n  level: warn\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	timeout := time.After(10 * time.Second)
	for {
		select {
		case c := <-changed:
			if c.Log.Level == "warn" {
				if zerolog.GlobalLevel() != zerolog.WarnLevel {
					t.Fatalf("global level = %s", zerolog.GlobalLevel())
				}
				return
			}
		case <-timeout:
			t.Fatal("no reload observed")
		}
	}
}
