// apps/handle-solver/internal/config/config.go
//
// Configuration for every command.
// Sources, lowest precedence first:
//   - built-in defaults (setDefaults)
//   - an optional YAML file (--config, default handle.yaml; a missing file is fine)
//   - environment: HANDLE_<SECTION>_<KEY>, e.g. HANDLE_SOLVER_BUDGET; LOG_LEVEL is also read
//
// In serve mode the file is watched and log.level is re-applied on change.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"runtime"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/robalobadob/wordle/apps/handle-solver/internal/solver"
)

// ErrBudgetTooSmall means the killer budget could leave the shortlist empty.
var ErrBudgetTooSmall = errors.New("solver budget below universe size")

type Config struct {
	Data   DataConf   `mapstructure:"data"`
	Solver SolverConf `mapstructure:"solver"`
	Server ServerConf `mapstructure:"server"`
	Daily  DailyConf  `mapstructure:"daily"`
	Log    LogConf    `mapstructure:"log"`

	v        *viper.Viper
	fromFile bool
}

type DataConf struct {
	Universe string `mapstructure:"universe"`
	Index    string `mapstructure:"index"`
	DB       string `mapstructure:"db"`
}

type SolverConf struct {
	Budget         int `mapstructure:"budget"`
	MaxShortlist   int `mapstructure:"maxShortlist"`
	SeparatorLimit int `mapstructure:"separatorLimit"`
	KillerSize     int `mapstructure:"killerSize"`
	Workers        int `mapstructure:"workers"`
}

type ServerConf struct {
	Addr         string        `mapstructure:"addr"`
	JwtSecret    string        `mapstructure:"jwtSecret"`
	TokenTTL     time.Duration `mapstructure:"tokenTTL"`
	CacheMaxCost int64         `mapstructure:"cacheMaxCost"`
	CacheTTL     time.Duration `mapstructure:"cacheTTL"`
	CORSOrigin   string        `mapstructure:"corsOrigin"`
	Timeout      time.Duration `mapstructure:"timeout"`
	Monitor      bool          `mapstructure:"monitor"`
}

type DailyConf struct {
	Salt string `mapstructure:"salt"`
}

type LogConf struct {
	Level string `mapstructure:"level"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data.universe", "data/universe.bin")
	v.SetDefault("data.index", "data/index.bin")
	v.SetDefault("data.db", "data/handle.db")

	v.SetDefault("solver.budget", 150_000_000)
	v.SetDefault("solver.maxShortlist", 1_000_000)
	v.SetDefault("solver.separatorLimit", 1000)
	v.SetDefault("solver.killerSize", 10)
	v.SetDefault("solver.workers", runtime.NumCPU())

	v.SetDefault("server.addr", ":5176")
	v.SetDefault("server.jwtSecret", "dev_secret_change_me")
	v.SetDefault("server.tokenTTL", 24*time.Hour)
	v.SetDefault("server.cacheMaxCost", int64(1<<30))
	v.SetDefault("server.cacheTTL", time.Hour)
	v.SetDefault("server.corsOrigin", "http://localhost:5173")
	v.SetDefault("server.timeout", 2*time.Minute)
	v.SetDefault("server.monitor", false)

	v.SetDefault("daily.salt", "local_dev_salt")
	v.SetDefault("log.level", "info")
}

// Load reads defaults, the file at path (if present) and the environment.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("HANDLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("log.level", "HANDLE_LOG_LEVEL", "LOG_LEVEL"); err != nil {
		return nil, err
	}

	fromFile := false
	if path != "" {
		v.SetConfigFile(path)
		switch err := v.ReadInConfig(); {
		case err == nil:
			fromFile = true
		case errors.Is(err, fs.ErrNotExist):
			log.Debug().Str("config", path).Msg("no config file, using defaults and environment")
		default:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := &Config{v: v, fromFile: fromFile}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// Validate checks the settings against the size of the universe in use.
func (c *Config) Validate(universeSize int) error {
	s := c.Solver
	if s.Budget < universeSize {
		return fmt.Errorf("%w: budget %d, universe %d", ErrBudgetTooSmall, s.Budget, universeSize)
	}
	if s.KillerSize < 1 || s.SeparatorLimit < 0 || s.MaxShortlist < 0 {
		return fmt.Errorf("solver: killerSize %d, separatorLimit %d, maxShortlist %d",
			s.KillerSize, s.SeparatorLimit, s.MaxShortlist)
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

// SolverOptions converts the solver section for the engine.
func (c *Config) SolverOptions() solver.Options {
	return solver.Options{
		Budget:         c.Solver.Budget,
		MaxShortlist:   c.Solver.MaxShortlist,
		SeparatorLimit: c.Solver.SeparatorLimit,
		KillerSize:     c.Solver.KillerSize,
		Workers:        c.Solver.Workers,
	}
}

// ApplyLogLevel sets the global zerolog level.
func ApplyLogLevel(level string) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(lvl)
	return nil
}

// Watch re-reads the config file on change, applies log.level and hands the new
// config to onChange. It does nothing when no file was read.
func (c *Config) Watch(onChange func(*Config)) {
	if !c.fromFile {
		return
	}
	c.v.OnConfigChange(func(in fsnotify.Event) {
		next := &Config{v: c.v, fromFile: true}
		if err := c.v.Unmarshal(next); err != nil {
			log.Error().Err(err).Str("file", in.Name).Msg("config reload failed")
			return
		}
		if err := ApplyLogLevel(next.Log.Level); err != nil {
			log.Error().Err(err).Str("level", next.Log.Level).Msg("bad log level in reloaded config")
		}
		log.Info().Str("file", in.Name).Str("op", in.Op.String()).Str("level", next.Log.Level).Msg("config reloaded")
		if onChange != nil {
			onChange(next)
		}
	})
	c.v.WatchConfig()
}
