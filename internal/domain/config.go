package domain

import (
	"time"
)

// Config represents the main application configuration
type Config struct {
	Simulation SimulationConfig `mapstructure:"simulation"`
	Output     OutputConfig     `mapstructure:"output"`
	Store      StoreConfig      `mapstructure:"store"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// SimulationConfig controls the trial driver
type SimulationConfig struct {
	Trials       int   `mapstructure:"trials"`
	Seed         int64 `mapstructure:"seed"` // 0 picks a time-based seed
	Workers      int   `mapstructure:"workers"`
	CarriersOnly bool  `mapstructure:"carriers_only"`
	MaxAttempts  int   `mapstructure:"max_attempts"` // carrier mode bound
	Summarize    bool  `mapstructure:"summarize"`
}

// OutputConfig controls where exported files go
type OutputConfig struct {
	Dir          string   `mapstructure:"dir"`
	PedigreeFile string   `mapstructure:"pedigree_file"`
	HistoryFile  string   `mapstructure:"history_file"`
	WorkbookFile string   `mapstructure:"workbook_file"`
	XLSX         bool     `mapstructure:"xlsx"`
	Sink         string   `mapstructure:"sink"` // "fs", "s3", "none"
	S3           S3Config `mapstructure:"s3"`
}

// S3Config represents S3 output sink configuration
type S3Config struct {
	Bucket         string        `mapstructure:"bucket"`
	Region         string        `mapstructure:"region"`
	Endpoint       string        `mapstructure:"endpoint"` // optional, for MinIO
	PathStyle      bool          `mapstructure:"path_style"`
	Prefix         string        `mapstructure:"prefix"`
	Timeout        time.Duration `mapstructure:"timeout"`
	BreakerTimeout time.Duration `mapstructure:"breaker_timeout"`
}

// StoreConfig selects the simulation run store
type StoreConfig struct {
	Driver      string `mapstructure:"driver"` // "none", "sqlite", "postgres"
	SQLitePath  string `mapstructure:"sqlite_path"`
	PostgresURL string `mapstructure:"postgres_url"`
	CacheSize   int    `mapstructure:"cache_size"`
}

// DatabaseConfig represents the normalized pedigree database configuration
type DatabaseConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Database        string        `mapstructure:"database"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	MigrationsPath  string        `mapstructure:"migrations_path"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"` // "stdout", "stderr" or a file path
}
