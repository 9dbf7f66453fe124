// internal/errors/service.go

// Package errors turns failures from the fetch and output layers into
// retried operations and user-facing messages for the CLI.
package errors

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"
)

// Exit codes returned by the CLI.
const (
	ExitOK         = 0
	ExitUsage      = 2
	ExitConfig     = 3
	ExitFetch      = 4
	ExitExtraction = 5
	ExitOutput     = 6
)

// Service wraps operations with retry logic and converts technical
// errors into user-friendly messages.
type Service struct {
	retryConfig   RetryConfig
	showTechnical bool
}

// RetryConfig defines retry behavior
type RetryConfig struct {
	MaxRetries    int           `yaml:"max_retries" json:"max_retries"`
	BaseDelay     time.Duration `yaml:"base_delay" json:"base_delay"`
	BackoffFactor float64       `yaml:"backoff_factor" json:"backoff_factor"`
	MaxDelay      time.Duration `yaml:"max_delay" json:"max_delay"`
}

// NewService creates an error recovery service with default retry
// settings.
func NewService() *Service {
	return &Service{
		retryConfig: RetryConfig{
			MaxRetries:    3,
			BaseDelay:     2 * time.Second,
			BackoffFactor: 2.0,
			MaxDelay:      5 * time.Minute,
		},
	}
}

// WithVerbose enables technical error details in messages
func (s *Service) WithVerbose(verbose bool) *Service {
	s.showTechnical = verbose
	return s
}

// WithRetryConfig overrides the retry settings
func (s *Service) WithRetryConfig(cfg RetryConfig) *Service {
	if cfg.MaxRetries > 0 {
		s.retryConfig.MaxRetries = cfg.MaxRetries
	}
	if cfg.BaseDelay > 0 {
		s.retryConfig.BaseDelay = cfg.BaseDelay
	}
	if cfg.BackoffFactor > 0 {
		s.retryConfig.BackoffFactor = cfg.BackoffFactor
	}
	if cfg.MaxDelay > 0 {
		s.retryConfig.MaxDelay = cfg.MaxDelay
	}
	return s
}

// ExecuteWithRetry runs the operation, retrying transient failures with
// exponential backoff.
func (s *Service) ExecuteWithRetry(ctx context.Context, operation func() error, operationName string) error {
	var lastErr error

	for attempt := 0; attempt <= s.retryConfig.MaxRetries; attempt++ {
		err := operation()
		if err == nil {
			return nil
		}
		lastErr = err

		if !s.shouldRetry(err, attempt) {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.calculateDelay(attempt)):
		}
	}

	return fmt.Errorf("operation %s failed after retries: %w", operationName, lastErr)
}

// shouldRetry determines if an error is transient
func (s *Service) shouldRetry(err error, attempt int) bool {
	if attempt >= s.retryConfig.MaxRetries {
		return false
	}

	errStr := strings.ToLower(err.Error())
	retryableErrors := []string{
		"timeout", "connection refused", "connection reset", "no such host",
		"429", "500", "502", "503", "504",
		"temporary", "service unavailable",
	}

	for _, retryable := range retryableErrors {
		if strings.Contains(errStr, retryable) {
			return true
		}
	}
	return false
}

// calculateDelay computes exponential backoff delay
func (s *Service) calculateDelay(attempt int) time.Duration {
	delay := time.Duration(float64(s.retryConfig.BaseDelay) * math.Pow(s.retryConfig.BackoffFactor, float64(attempt)))
	if delay > s.retryConfig.MaxDelay {
		delay = s.retryConfig.MaxDelay
	}
	return delay
}

// GetUserFriendlyError converts technical errors to user-friendly
// messages with suggestions.
func (s *Service) GetUserFriendlyError(err error) (title, message string, suggestions []string) {
	if err == nil {
		return "", "", nil
	}

	errStr := strings.ToLower(err.Error())

	switch {
	case strings.Contains(errStr, "timeout"):
		title = "Connection Timeout"
		message = "The request timed out while trying to reach the product page."
		suggestions = []string{
			"Check your internet connection",
			"Increase fetch.timeout in the configuration",
			"The site might be slow or blocking automated requests",
		}

	case strings.Contains(errStr, "no such host"):
		title = "Domain Not Found"
		message = "Could not resolve the product page domain."
		suggestions = []string{
			"Check if the URL is spelled correctly",
			"Verify the domain exists by opening it in a browser",
		}

	case strings.Contains(errStr, "connection refused"):
		title = "Connection Refused"
		message = "The server refused the connection."
		suggestions = []string{
			"The site may be down, try again later",
			"A proxy or firewall may be blocking the request",
		}

	case strings.Contains(errStr, "403") || strings.Contains(errStr, "429"):
		title = "Access Blocked"
		message = "The site is rejecting automated requests."
		suggestions = []string{
			"Lower fetch.requests_per_second in the configuration",
			"Configure custom user agents",
			"Enable the headless browser for this site",
		}

	case strings.Contains(errStr, "404"):
		title = "Page Not Found"
		message = "The product page does not exist."
		suggestions = []string{
			"Check if the product URL is still valid",
			"The listing may have been removed",
		}

	case strings.Contains(errStr, "configuration") || strings.Contains(errStr, "yaml"):
		title = "Configuration Error"
		message = "The configuration file could not be used."
		suggestions = []string{
			"Check YAML indentation and formatting",
			"Run the validate command for details",
		}

	default:
		title = "Extraction Failed"
		message = "An unexpected error occurred."
		suggestions = []string{
			"Run with --verbose for technical details",
			"Try the extraction again",
		}
	}

	if s.showTechnical {
		message = fmt.Sprintf("%s (%v)", message, err)
	}
	return title, message, suggestions
}

// ExitCodeFor maps an error to a CLI exit code by its origin.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitOK
	}

	errStr := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errStr, "configuration"):
		return ExitConfig
	case strings.Contains(errStr, "fetch") || strings.Contains(errStr, "http"):
		return ExitFetch
	case strings.Contains(errStr, "output") || strings.Contains(errStr, "write"):
		return ExitOutput
	default:
		return ExitExtraction
	}
}
