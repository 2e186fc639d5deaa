// Package config defines process configuration and how it is loaded.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/okian/eventboard/internal/domain/model"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DataFile is a JSON or YAML events document. Empty uses the bundled dataset.
	DataFile string `koanf:"data_file"`

	// Locale selects the label catalog, e.g. "ja" or "en".
	Locale string `koanf:"locale"`

	// Surface is the logical name of the board's display container.
	Surface string `koanf:"surface"`

	// InitialFilter is the filter in effect before any selection.
	InitialFilter string `koanf:"initial_filter"`

	// StaggerMS, TransitionMS and OffsetPX tune the entrance animation.
	StaggerMS    int `koanf:"stagger_ms"`
	TransitionMS int `koanf:"transition_ms"`
	OffsetPX     int `koanf:"offset_px"`

	// IdempotencyKeys bounds how many add keys are remembered. Zero or less
	// means unbounded.
	IdempotencyKeys int `koanf:"idempotency_keys"`

	// Metrics naming and tuning. Empty or zero values keep the defaults.
	MetricsNamespace     string    `koanf:"metrics_namespace"`
	MetricsSubsystem     string    `koanf:"metrics_subsystem"`
	MetricsRefreshMS     int       `koanf:"metrics_refresh_ms"`
	MetricsRenderBuckets []float64 `koanf:"metrics_render_buckets"`
	MetricsHTTPBuckets   []float64 `koanf:"metrics_http_buckets"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:      "info",
		Addr:          ":8080",
		Locale:        "ja",
		Surface:       "schedule-container",
		InitialFilter: string(model.FilterAll),
		StaggerMS:     100,
		TransitionMS:  500,
		OffsetPX:      20,

		IdempotencyKeys: 1024,

		MetricsNamespace: "eventboard",
		MetricsSubsystem: "board",
		MetricsRefreshMS: 10000,
	}
}

// Stagger returns the per-item entrance delay.
func (c *Config) Stagger() time.Duration { return time.Duration(c.StaggerMS) * time.Millisecond }

// Transition returns the entrance transition duration.
func (c *Config) Transition() time.Duration {
	return time.Duration(c.TransitionMS) * time.Millisecond
}

// MetricsRefresh returns how often system gauges are refreshed.
func (c *Config) MetricsRefresh() time.Duration {
	return time.Duration(c.MetricsRefreshMS) * time.Millisecond
}

// Filter returns the initial filter as a domain value.
func (c *Config) Filter() model.Filter { return model.ParseFilter(c.InitialFilter) }

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.Surface) == "":
		return fmt.Errorf("%w: surface must not be empty", ErrInvalidConfig)
	case c.StaggerMS < 0:
		return fmt.Errorf("%w: stagger_ms must not be negative", ErrInvalidConfig)
	case c.TransitionMS < 0:
		return fmt.Errorf("%w: transition_ms must not be negative", ErrInvalidConfig)
	case c.MetricsRefreshMS < 0:
		return fmt.Errorf("%w: metrics_refresh_ms must not be negative", ErrInvalidConfig)
	case !c.Filter().Known():
		return fmt.Errorf("%w: unknown initial_filter %q", ErrInvalidConfig, c.InitialFilter)
	}
	return nil
}
