// Package config provides the configuration for colseries tools.
// A single Config structure covers the document store, the row codec,
// logging and observability.
//
// Example usage:
//
//	cfg := config.Default()
//	cfg.Store.Driver = config.DriverMongo
//	cfg.Store.URI = "mongodb://localhost:27017"
//
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config

import (
	"runtime"
	"time"

	"github.com/ajitpratap0/colseries/pkg/errors"
	"github.com/ajitpratap0/colseries/pkg/logger"
)

// Store drivers
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverMongo  = "mongodb"
)

// Config is the top-level configuration.
type Config struct {
	// Name identifies this instance in logs and metrics
	Name string `yaml:"name" json:"name"`

	// Store selects and configures the document store holding row buffers
	Store StoreConfig `yaml:"store" json:"store"`

	// Codec controls frame encoding and decoding
	Codec CodecConfig `yaml:"codec" json:"codec"`

	// Logging configures the global zap logger
	Logging logger.Config `yaml:"logging" json:"logging"`

	// Observability toggles metrics and tracing
	Observability ObservabilityConfig `yaml:"observability" json:"observability"`
}

// StoreConfig configures the document store.
type StoreConfig struct {
	// Driver is "memory", "file" or "mongodb"
	Driver string `yaml:"driver" json:"driver"`

	// Path is the directory used by the file driver
	Path string `yaml:"path" json:"path"`

	URI              string        `yaml:"uri" json:"uri"`
	Database         string        `yaml:"database" json:"database"`
	Collection       string        `yaml:"collection" json:"collection"`
	ConnectTimeout   time.Duration `yaml:"connect_timeout" json:"connect_timeout"`
	OperationTimeout time.Duration `yaml:"operation_timeout" json:"operation_timeout"`

	// MaxRetries is how many times a remote operation failing with a timeout
	// or connection error is retried
	MaxRetries int `yaml:"max_retries" json:"max_retries"`

	// RetryBackoff is the delay before the first retry; it doubles after each
	RetryBackoff time.Duration `yaml:"retry_backoff" json:"retry_backoff"`
}

// CodecConfig controls frame encoding and decoding.
type CodecConfig struct {
	// Workers bounds how many fields are encoded or decoded concurrently.
	// Zero means one per CPU.
	Workers int `yaml:"workers" json:"workers"`
}

// ObservabilityConfig contains monitoring settings.
type ObservabilityConfig struct {
	EnableMetrics bool   `yaml:"enable_metrics" json:"enable_metrics"`
	MetricsAddr   string `yaml:"metrics_addr" json:"metrics_addr"`
	EnableTracing bool   `yaml:"enable_tracing" json:"enable_tracing"`

	// SampleRate is the fraction of traces kept when tracing is enabled
	SampleRate float64 `yaml:"sample_rate" json:"sample_rate"`
}

// Default returns a configuration using the in-memory store.
func Default() *Config {
	return &Config{
		Name: "colseries",
		Store: StoreConfig{
			Driver:           DriverMemory,
			Path:             ".colseries",
			Database:         "colseries",
			Collection:       "frames",
			ConnectTimeout:   10 * time.Second,
			OperationTimeout: 30 * time.Second,
			MaxRetries:       2,
			RetryBackoff:     200 * time.Millisecond,
		},
		Codec: CodecConfig{
			Workers: runtime.NumCPU(),
		},
		Logging: logger.DefaultConfig(),
		Observability: ObservabilityConfig{
			EnableMetrics: false,
			MetricsAddr:   ":9090",
			SampleRate:    1.0,
		},
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.Name == "" {
		return errors.New(errors.ErrorTypeConfig, "name is required")
	}
	switch c.Store.Driver {
	case DriverMemory:
	case DriverFile:
		if c.Store.Path == "" {
			return errors.New(errors.ErrorTypeConfig, "store.path is required for the file driver")
		}
	case DriverMongo:
		if c.Store.URI == "" {
			return errors.New(errors.ErrorTypeConfig, "store.uri is required for the mongodb driver")
		}
		if c.Store.Database == "" || c.Store.Collection == "" {
			return errors.New(errors.ErrorTypeConfig, "store.database and store.collection are required")
		}
	default:
		return errors.Newf(errors.ErrorTypeConfig, "unknown store driver %q", c.Store.Driver)
	}
	if c.Store.ConnectTimeout < 0 || c.Store.OperationTimeout < 0 {
		return errors.New(errors.ErrorTypeConfig, "store timeouts cannot be negative")
	}
	if c.Store.MaxRetries < 0 || c.Store.RetryBackoff < 0 {
		return errors.New(errors.ErrorTypeConfig, "store retries and backoff cannot be negative")
	}
	if c.Observability.SampleRate < 0 || c.Observability.SampleRate > 1 {
		return errors.New(errors.ErrorTypeConfig, "observability.sample_rate must be within [0, 1]")
	}
	if c.Codec.Workers < 0 {
		return errors.New(errors.ErrorTypeConfig, "codec.workers cannot be negative")
	}
	return nil
}

// GetWorkers returns the number of codec workers, ensuring it's at least 1
func (c *CodecConfig) GetWorkers() int {
	if c.Workers <= 0 {
		return runtime.NumCPU()
	}
	return c.Workers
}
