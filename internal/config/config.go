// Package config loads the simulator configuration from defaults, an optional
// YAML file, PEDSIM_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/brca-pedigree-sim/internal/domain"
)

// EnvPrefix is prepended to every environment variable, with dots in keys
// replaced by underscores (PEDSIM_SIMULATION_TRIALS).
const EnvPrefix = "PEDSIM"

var (
	validLogLevels  = map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "error": true}
	validLogFormats = map[string]bool{"json": true, "text": true}
	validSinks      = map[string]bool{"fs": true, "s3": true, "none": true}
	validDrivers    = map[string]bool{"none": true, "sqlite": true, "postgres": true}
)

// flagKeys maps command-line flag names to configuration keys.
var flagKeys = map[string]string{
	"trials":        "simulation.trials",
	"seed":          "simulation.seed",
	"workers":       "simulation.workers",
	"max-attempts":  "simulation.max_attempts",
	"summarize":     "simulation.summarize",
	"output-dir":    "output.dir",
	"pedigree-file": "output.pedigree_file",
	"history-file":  "output.history_file",
	"xlsx":          "output.xlsx",
	"sink":          "output.sink",
	"store":         "store.driver",
	"log-level":     "logging.level",
	"log-format":    "logging.format",
}

// RegisterFlags adds the configuration flags understood by NewManager to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "path to a YAML configuration file")
	fs.Int("trials", 0, "number of pedigrees to generate")
	fs.Int64("seed", 0, "random seed, 0 picks a time-based seed")
	fs.Int("workers", 0, "number of parallel trial workers")
	fs.Int("max-attempts", 0, "maximum trials drawn in carrier mode")
	fs.Bool("summarize", true, "write the family history summary file")
	fs.String("output-dir", "", "directory for exported files")
	fs.String("pedigree-file", "", "pedigree file name")
	fs.String("history-file", "", "family history file name")
	fs.Bool("xlsx", false, "also write an XLSX workbook")
	fs.String("sink", "", "output sink: fs, s3 or none")
	fs.String("store", "", "run store: none, sqlite or postgres")
	fs.String("log-level", "", "log level: trace, debug, info, warn, error")
	fs.String("log-format", "", "log format: json or text")
}

// Manager holds the loaded configuration.
type Manager struct {
	v      *viper.Viper
	flags  *pflag.FlagSet
	config *domain.Config
}

// NewManager loads the configuration. flags may be nil; only flags that
// were set on the command line override other sources.
func NewManager(flags *pflag.FlagSet) (*Manager, error) {
	m := &Manager{flags: flags}
	if err := m.loadConfig(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return m, nil
}

func (m *Manager) loadConfig() error {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/pedigree-sim/")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if m.flags != nil {
		if f := m.flags.Lookup("config"); f != nil && f.Value.String() != "" {
			v.SetConfigFile(f.Value.String())
		}
		for name, key := range flagKeys {
			f := m.flags.Lookup(name)
			if f == nil || !f.Changed {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return fmt.Errorf("binding flag %s: %w", name, err)
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	config := &domain.Config{}
	if err := v.Unmarshal(config); err != nil {
		return fmt.Errorf("error unmarshaling config: %w", err)
	}

	m.v = v
	m.config = config
	return nil
}

// DefaultDataDir is the directory holding the default SQLite run store.
func DefaultDataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".pedigree-sim"
	}
	return filepath.Join(homeDir, ".pedigree-sim")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("simulation.trials", 100)
	v.SetDefault("simulation.seed", 0)
	v.SetDefault("simulation.workers", 1)
	v.SetDefault("simulation.carriers_only", false)
	v.SetDefault("simulation.max_attempts", 1_000_000)
	v.SetDefault("simulation.summarize", true)

	v.SetDefault("output.dir", ".")
	v.SetDefault("output.pedigree_file", "pedigree.txt")
	v.SetDefault("output.history_file", "familyhistory.txt")
	v.SetDefault("output.workbook_file", "pedigrees.xlsx")
	v.SetDefault("output.xlsx", false)
	v.SetDefault("output.sink", "fs")
	v.SetDefault("output.s3.bucket", "")
	v.SetDefault("output.s3.region", "us-east-1")
	v.SetDefault("output.s3.endpoint", "")
	v.SetDefault("output.s3.path_style", false)
	v.SetDefault("output.s3.prefix", "")
	v.SetDefault("output.s3.timeout", "30s")
	v.SetDefault("output.s3.breaker_timeout", "60s")

	v.SetDefault("store.driver", "none")
	v.SetDefault("store.sqlite_path", filepath.Join(DefaultDataDir(), "runs.db"))
	v.SetDefault("store.postgres_url", "")
	v.SetDefault("store.cache_size", 128)

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.database", "pedigree_sim")
	v.SetDefault("database.username", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 1)
	v.SetDefault("database.conn_max_lifetime", "1h")
	v.SetDefault("database.conn_max_idle_time", "30m")
	v.SetDefault("database.migrations_path", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stderr")
}

// GetConfig returns the complete configuration
func (m *Manager) GetConfig() *domain.Config {
	return m.config
}

// ConfigFileUsed returns the configuration file that was read, if any.
func (m *Manager) ConfigFileUsed() string {
	return m.v.ConfigFileUsed()
}

// Reload reloads the configuration
func (m *Manager) Reload() error {
	return m.loadConfig()
}

// Validate checks the loaded configuration.
func (m *Manager) Validate() error {
	return Validate(m.config)
}

// Validate returns a *domain.ValidationError for the first invalid setting.
func Validate(config *domain.Config) error {
	sim := config.Simulation
	if sim.Trials < 1 {
		return domain.NewValidationError("simulation.trials", "must be at least 1", sim.Trials)
	}
	if sim.Workers < 1 {
		return domain.NewValidationError("simulation.workers", "must be at least 1", sim.Workers)
	}
	if sim.MaxAttempts < 1 {
		return domain.NewValidationError("simulation.max_attempts", "must be at least 1", sim.MaxAttempts)
	}

	out := config.Output
	if !validSinks[out.Sink] {
		return domain.NewValidationError("output.sink", "must be fs, s3 or none", out.Sink)
	}
	if out.Sink == "s3" && out.S3.Bucket == "" {
		return domain.NewValidationError("output.s3.bucket", "required for the s3 sink", out.S3.Bucket)
	}
	if out.PedigreeFile == "" {
		return domain.NewValidationError("output.pedigree_file", "is required", out.PedigreeFile)
	}
	if sim.Summarize && out.HistoryFile == "" {
		return domain.NewValidationError("output.history_file", "is required when summarizing", out.HistoryFile)
	}

	store := config.Store
	if !validDrivers[store.Driver] {
		return domain.NewValidationError("store.driver", "must be none, sqlite or postgres", store.Driver)
	}
	if store.Driver == "postgres" && store.PostgresURL == "" {
		return domain.NewValidationError("store.postgres_url", "required for the postgres store", store.PostgresURL)
	}

	db := config.Database
	if db.Enabled {
		if db.Host == "" {
			return domain.NewValidationError("database.host", "is required", db.Host)
		}
		if db.Port <= 0 || db.Port > 65535 {
			return domain.NewValidationError("database.port", "must be a valid port", db.Port)
		}
		if db.Database == "" {
			return domain.NewValidationError("database.database", "is required", db.Database)
		}
	}

	logging := config.Logging
	if !validLogLevels[strings.ToLower(logging.Level)] {
		return domain.NewValidationError("logging.level", "unknown log level", logging.Level)
	}
	if !validLogFormats[strings.ToLower(logging.Format)] {
		return domain.NewValidationError("logging.format", "must be json or text", logging.Format)
	}
	return nil
}
