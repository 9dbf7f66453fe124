// internal/config/types.go

// Package config provides configuration types for ShopScrapexter extraction
// jobs. It covers fetch behavior, output destinations, per-platform selector
// overrides, and the HTTP API server.
package config

import (
	"time"

	"github.com/valpere/ShopScrapexter/internal/extract"
	"github.com/valpere/ShopScrapexter/internal/platform"
)

// Config is the top-level configuration for an extraction job.
type Config struct {
	// Name identifies this configuration
	Name string `yaml:"name" json:"name"`

	// Description provides human-readable information about this config
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Platform forces a platform instead of detecting it from the page.
	// Empty means auto-detect.
	Platform string `yaml:"platform,omitempty" json:"platform,omitempty"`

	// ReviewLimit caps the number of reviews collected per page
	ReviewLimit int `yaml:"review_limit" json:"review_limit"`

	// Fetch controls how product pages are retrieved
	Fetch FetchConfig `yaml:"fetch" json:"fetch"`

	// Output configuration
	Output OutputConfig `yaml:"output" json:"output"`

	// Rulesets overrides the built-in selector rulesets per platform.
	// Keys are platform names ("amazon", "shopify", ...); only the
	// selector categories present in an override replace the built-ins.
	Rulesets map[string]extract.Ruleset `yaml:"rulesets,omitempty" json:"rulesets,omitempty"`

	// Server settings for serve mode
	Server ServerConfig `yaml:"server" json:"server"`

	// LogLevel controls logging verbosity (debug, info, warn, error)
	LogLevel string `yaml:"log_level" json:"log_level"`
}

// FetchConfig defines how product pages are retrieved.
type FetchConfig struct {
	// Timeout for a single page fetch
	Timeout time.Duration `yaml:"timeout" json:"timeout"`

	// UserAgents to rotate through; a default pool is used when empty
	UserAgents []string `yaml:"user_agents,omitempty" json:"user_agents,omitempty"`

	// Headers sent with every request
	Headers map[string]string `yaml:"headers,omitempty" json:"headers,omitempty"`

	// RequestsPerSecond limits the request rate per client
	RequestsPerSecond float64 `yaml:"requests_per_second" json:"requests_per_second"`

	// Burst allows temporary exceeding of the rate
	Burst int `yaml:"burst" json:"burst"`

	// Retries is the number of attempts after a failed fetch
	Retries int `yaml:"retries" json:"retries"`

	// RetryDelay is the base delay between attempts
	RetryDelay time.Duration `yaml:"retry_delay" json:"retry_delay"`

	// Browser enables a headless browser for script-rendered pages
	Browser *BrowserConfig `yaml:"browser,omitempty" json:"browser,omitempty"`
}

// BrowserConfig defines headless browser settings.
type BrowserConfig struct {
	// Headless mode; disable for debugging only
	Headless bool `yaml:"headless" json:"headless"`

	// Timeout for page rendering
	Timeout time.Duration `yaml:"timeout" json:"timeout"`

	// WaitSelector delays capture until the selector matches
	WaitSelector string `yaml:"wait_selector,omitempty" json:"wait_selector,omitempty"`

	// ViewportWidth and ViewportHeight set the emulated viewport
	ViewportWidth  int `yaml:"viewport_width" json:"viewport_width"`
	ViewportHeight int `yaml:"viewport_height" json:"viewport_height"`

	// DisableImages skips image loading to speed up rendering
	DisableImages bool `yaml:"disable_images" json:"disable_images"`
}

// OutputConfig defines where extraction results are written.
type OutputConfig struct {
	// Format of the output (json, csv, excel)
	Format string `yaml:"format" json:"format"`

	// File path; stdout when empty
	File string `yaml:"file,omitempty" json:"file,omitempty"`

	// Sheet name for excel output
	Sheet string `yaml:"sheet,omitempty" json:"sheet,omitempty"`

	// Pretty enables indented JSON
	Pretty bool `yaml:"pretty" json:"pretty"`
}

// ServerConfig defines the HTTP API server settings.
type ServerConfig struct {
	// Address to listen on
	Address string `yaml:"address" json:"address"`

	// MetricsPath serves Prometheus metrics
	MetricsPath string `yaml:"metrics_path" json:"metrics_path"`

	// ReadTimeout and WriteTimeout bound request handling
	ReadTimeout  time.Duration `yaml:"read_timeout" json:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" json:"write_timeout"`
}

// RulesetOverrides converts the configured overrides into the keyed form
// the extractor consumes. Unknown platform names are skipped here; Validate
// reports them.
func (c *Config) RulesetOverrides() map[platform.Platform]extract.Ruleset {
	if len(c.Rulesets) == 0 {
		return nil
	}

	overrides := make(map[platform.Platform]extract.Ruleset, len(c.Rulesets))
	for name, rules := range c.Rulesets {
		p := platform.Platform(name)
		if !p.IsKnown() {
			continue
		}
		overrides[p] = rules
	}
	return overrides
}

// ForcedPlatform returns the configured platform, or empty when detection
// should run.
func (c *Config) ForcedPlatform() platform.Platform {
	return platform.Platform(c.Platform)
}
