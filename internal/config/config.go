// internal/config/config.go
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/valpere/ShopScrapexter/internal/extract"
)

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(filename string) (*Config, error) {
	if filename == "" {
		return nil, fmt.Errorf("configuration filename cannot be empty")
	}

	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", filename)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file: %v", err)
	}

	return LoadFromBytes(data)
}

// LoadFromBytes loads configuration from YAML bytes
func LoadFromBytes(data []byte) (*Config, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("configuration data cannot be empty")
	}

	// Substitute environment variables
	expanded := os.ExpandEnv(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expanded), &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML configuration: %v", err)
	}

	applyDefaults(&config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %v", err)
	}

	return &config, nil
}

// LoadUnvalidated parses a configuration file without validating it, for
// tooling that reports validation details itself.
func LoadUnvalidated(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file: %v", err)
	}

	expanded := os.ExpandEnv(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expanded), &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML configuration: %v", err)
	}

	applyDefaults(&config)
	return &config, nil
}

// LoadFromReader loads configuration from an io.Reader
func LoadFromReader(reader io.Reader) (*Config, error) {
	if reader == nil {
		return nil, fmt.Errorf("reader cannot be nil")
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read from reader: %v", err)
	}

	return LoadFromBytes(data)
}

// SaveToFile saves configuration to a YAML file
func SaveToFile(config *Config, filename string) error {
	if config == nil {
		return fmt.Errorf("configuration cannot be nil")
	}
	if filename == "" {
		return fmt.Errorf("filename cannot be empty")
	}

	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %v", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration to YAML: %v", err)
	}

	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %v", dir, err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write configuration file: %v", err)
	}

	return nil
}

// SaveToWriter saves configuration to an io.Writer
func SaveToWriter(config *Config, writer io.Writer) error {
	if config == nil {
		return fmt.Errorf("configuration cannot be nil")
	}
	if writer == nil {
		return fmt.Errorf("writer cannot be nil")
	}

	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %v", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration to YAML: %v", err)
	}

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write configuration: %v", err)
	}

	return nil
}

// Default returns a configuration with all defaults applied, suitable for
// running without a config file.
func Default() *Config {
	config := &Config{Name: "shopscrapexter"}
	applyDefaults(config)
	return config
}

// applyDefaults applies default values to the configuration
func applyDefaults(config *Config) {
	if config.ReviewLimit == 0 {
		config.ReviewLimit = extract.DefaultReviewLimit
	}

	if config.Fetch.Timeout == 0 {
		config.Fetch.Timeout = 30 * time.Second
	}
	if config.Fetch.RequestsPerSecond == 0 {
		config.Fetch.RequestsPerSecond = 1.0
	}
	if config.Fetch.Burst == 0 {
		config.Fetch.Burst = 5
	}
	if config.Fetch.Retries == 0 {
		config.Fetch.Retries = 3
	}
	if config.Fetch.RetryDelay == 0 {
		config.Fetch.RetryDelay = 1 * time.Second
	}

	if config.Fetch.Browser != nil {
		if config.Fetch.Browser.Timeout == 0 {
			config.Fetch.Browser.Timeout = 30 * time.Second
		}
		if config.Fetch.Browser.ViewportWidth == 0 {
			config.Fetch.Browser.ViewportWidth = 1920
		}
		if config.Fetch.Browser.ViewportHeight == 0 {
			config.Fetch.Browser.ViewportHeight = 1080
		}
	}

	if config.Output.Format == "" {
		config.Output.Format = "json"
	}
	if config.Output.Sheet == "" {
		config.Output.Sheet = "Products"
	}

	if config.Server.Address == "" {
		config.Server.Address = ":8080"
	}
	if config.Server.MetricsPath == "" {
		config.Server.MetricsPath = "/metrics"
	}
	if config.Server.ReadTimeout == 0 {
		config.Server.ReadTimeout = 30 * time.Second
	}
	if config.Server.WriteTimeout == 0 {
		config.Server.WriteTimeout = 60 * time.Second
	}

	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
}

// GenerateTemplate generates a template configuration for the specified type
func GenerateTemplate(templateType string) Config {
	switch strings.ToLower(templateType) {
	case "marketplace":
		return generateMarketplaceTemplate()
	case "shopify":
		return generateShopifyTemplate()
	case "basic":
		return generateBasicTemplate()
	default:
		return generateBasicTemplate()
	}
}

func generateBasicTemplate() Config {
	config := Config{
		Name:        "basic_extractor",
		Description: "Extract product data from any product page",
		Output: OutputConfig{
			Format: "json",
			File:   "products.json",
			Pretty: true,
		},
	}
	applyDefaults(&config)
	return config
}

func generateMarketplaceTemplate() Config {
	config := Config{
		Name:        "marketplace_extractor",
		Description: "Extract product data from marketplace listings with reviews",
		ReviewLimit: 100,
		Fetch: FetchConfig{
			Timeout:           45 * time.Second,
			RequestsPerSecond: 0.5,
			Burst:             2,
			UserAgents: []string{
				"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
				"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36",
			},
		},
		Output: OutputConfig{
			Format: "excel",
			File:   "marketplace_products.xlsx",
			Sheet:  "Products",
		},
	}
	applyDefaults(&config)
	return config
}

func generateShopifyTemplate() Config {
	config := Config{
		Name:        "shopify_extractor",
		Description: "Extract product data from Shopify storefronts",
		Platform:    "shopify",
		Fetch: FetchConfig{
			Browser: &BrowserConfig{
				Headless:      true,
				WaitSelector:  ".product",
				DisableImages: true,
			},
		},
		Output: OutputConfig{
			Format: "json",
			File:   "shopify_products.json",
			Pretty: true,
		},
	}
	applyDefaults(&config)
	return config
}
