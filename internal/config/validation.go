// internal/config/validation.go
package config

import (
	"fmt"
	"strings"

	"github.com/valpere/ShopScrapexter/internal/platform"
)

// ValidationError represents a detailed validation error
type ValidationError struct {
	Field   string `json:"field"`
	Value   string `json:"value"`
	Message string `json:"message"`
}

// Error implements the error interface
func (ve ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ve.Field, ve.Message)
}

// ValidationResult holds validation results
type ValidationResult struct {
	Valid    bool              `json:"valid"`
	Errors   []ValidationError `json:"errors"`
	Warnings []string          `json:"warnings"`
}

var validFormats = []string{"json", "csv", "excel"}
var validLogLevels = []string{"debug", "info", "warn", "error"}

// Validate checks the configuration and returns a single error describing
// every problem found.
func (c *Config) Validate() error {
	result := c.ValidateWithDetails()
	if len(result.Errors) > 0 {
		return formatValidationError(result)
	}
	return nil
}

// ValidateWithDetails provides detailed validation results
func (c *Config) ValidateWithDetails() *ValidationResult {
	result := &ValidationResult{
		Valid:    true,
		Errors:   make([]ValidationError, 0),
		Warnings: make([]string, 0),
	}

	c.validateBasicFields(result)
	c.validatePlatforms(result)
	c.validateFetch(result)
	c.validateOutput(result)
	c.validateServer(result)

	result.Valid = len(result.Errors) == 0
	return result
}

func (c *Config) validateBasicFields(result *ValidationResult) {
	if c.Name == "" {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "name",
			Message: "configuration name is required",
		})
	}

	if c.ReviewLimit < 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "review_limit",
			Value:   fmt.Sprintf("%d", c.ReviewLimit),
			Message: "review limit cannot be negative",
		})
	}

	if c.LogLevel != "" && !contains(validLogLevels, c.LogLevel) {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "log_level",
			Value:   c.LogLevel,
			Message: fmt.Sprintf("invalid log level, valid levels: %s", strings.Join(validLogLevels, ", ")),
		})
	}
}

func (c *Config) validatePlatforms(result *ValidationResult) {
	if c.Platform != "" && !platform.Platform(c.Platform).IsKnown() {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "platform",
			Value:   c.Platform,
			Message: "unknown platform name",
		})
	}

	for name := range c.Rulesets {
		if !platform.Platform(name).IsKnown() {
			result.Errors = append(result.Errors, ValidationError{
				Field:   fmt.Sprintf("rulesets.%s", name),
				Value:   name,
				Message: "ruleset override names an unknown platform",
			})
		}
	}
}

func (c *Config) validateFetch(result *ValidationResult) {
	if c.Fetch.Timeout < 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "fetch.timeout",
			Value:   c.Fetch.Timeout.String(),
			Message: "timeout cannot be negative",
		})
	}

	if c.Fetch.RequestsPerSecond < 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "fetch.requests_per_second",
			Value:   fmt.Sprintf("%g", c.Fetch.RequestsPerSecond),
			Message: "request rate cannot be negative",
		})
	} else if c.Fetch.RequestsPerSecond > 10 {
		result.Warnings = append(result.Warnings,
			"request rates above 10/s may overwhelm target servers")
	}

	if c.Fetch.Retries < 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "fetch.retries",
			Value:   fmt.Sprintf("%d", c.Fetch.Retries),
			Message: "retries cannot be negative",
		})
	}

	if c.Fetch.Browser != nil {
		if c.Fetch.Browser.Timeout < 0 {
			result.Errors = append(result.Errors, ValidationError{
				Field:   "fetch.browser.timeout",
				Value:   c.Fetch.Browser.Timeout.String(),
				Message: "browser timeout cannot be negative",
			})
		}
		if c.Fetch.Browser.ViewportWidth < 0 || c.Fetch.Browser.ViewportHeight < 0 {
			result.Errors = append(result.Errors, ValidationError{
				Field:   "fetch.browser",
				Message: "viewport dimensions cannot be negative",
			})
		}
	}
}

func (c *Config) validateOutput(result *ValidationResult) {
	if !contains(validFormats, c.Output.Format) {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "output.format",
			Value:   c.Output.Format,
			Message: fmt.Sprintf("invalid output format, valid formats: %s", strings.Join(validFormats, ", ")),
		})
	}

	if c.Output.Format == "excel" && c.Output.File == "" {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "output.file",
			Message: "excel output requires a file path",
		})
	}

	if c.Output.File == "" && c.Output.Format != "excel" {
		result.Warnings = append(result.Warnings,
			"no output file specified, results will be written to stdout")
	}
}

func (c *Config) validateServer(result *ValidationResult) {
	if c.Server.MetricsPath != "" && !strings.HasPrefix(c.Server.MetricsPath, "/") {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "server.metrics_path",
			Value:   c.Server.MetricsPath,
			Message: "metrics path must start with /",
		})
	}
}

// formatValidationError creates a comprehensive error message
func formatValidationError(result *ValidationResult) error {
	var errorMsg strings.Builder

	errorMsg.WriteString("configuration validation failed:\n")
	for i, err := range result.Errors {
		errorMsg.WriteString(fmt.Sprintf("  %d. %s", i+1, err.Message))
		if err.Field != "" {
			errorMsg.WriteString(fmt.Sprintf(" (field: %s)", err.Field))
		}
		if err.Value != "" {
			errorMsg.WriteString(fmt.Sprintf(" (value: %s)", err.Value))
		}
		errorMsg.WriteString("\n")
	}

	if len(result.Warnings) > 0 {
		errorMsg.WriteString("\nwarnings:\n")
		for i, warning := range result.Warnings {
			errorMsg.WriteString(fmt.Sprintf("  %d. %s\n", i+1, warning))
		}
	}

	return fmt.Errorf("%s", errorMsg.String())
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
