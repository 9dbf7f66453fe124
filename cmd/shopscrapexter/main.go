// cmd/shopscrapexter/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/valpere/ShopScrapexter/internal/config"
	"github.com/valpere/ShopScrapexter/internal/errors"
	"github.com/valpere/ShopScrapexter/internal/extract"
	"github.com/valpere/ShopScrapexter/internal/fetch"
	"github.com/valpere/ShopScrapexter/internal/monitoring"
	"github.com/valpere/ShopScrapexter/internal/output"
	"github.com/valpere/ShopScrapexter/internal/server"
)

// Version information (set by build flags)
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

// Global error service instance
var errorService = errors.NewService()

// extractWorkers bounds concurrent page extractions in the CLI.
const extractWorkers = 4

// main handles CLI arguments and routes to the appropriate command.
func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(errors.ExitUsage)
	}

	command := os.Args[1]

	switch command {
	case "extract":
		urls := positionalArgs(os.Args[2:])
		if len(urls) == 0 {
			fmt.Fprintf(os.Stderr, "Error: at least one product URL required\n")
			fmt.Fprintf(os.Stderr, "Usage: shopscrapexter extract [-c config.yaml] <url> [url...]\n")
			os.Exit(errors.ExitUsage)
		}
		runExtract(urls)

	case "serve":
		runServe()

	case "validate":
		if len(os.Args) < 3 {
			fmt.Fprintf(os.Stderr, "Error: config file required\n")
			fmt.Fprintf(os.Stderr, "Usage: shopscrapexter validate <config.yaml>\n")
			os.Exit(errors.ExitUsage)
		}
		validateConfig(os.Args[2])

	case "template":
		template, err := generateTemplate(os.Args[2:])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(errors.ExitUsage)
		}
		fmt.Print(template)

	case "version", "--version":
		printVersion()

	case "help", "--help", "-h":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command '%s'\n", command)
		printUsage()
		os.Exit(errors.ExitUsage)
	}
}

// runExtract fetches each product URL and writes the extracted records to
// the configured output.
func runExtract(urls []string) {
	verbose := hasFlag("-v") || hasFlag("--verbose")
	errorService = errorService.WithVerbose(verbose)

	cfg, err := loadConfig()
	if err != nil {
		exitWithError(err)
	}

	logger := newLogger(cfg.LogLevel, verbose)
	metrics := monitoring.NewMetricsManager(monitoring.MetricsConfig{})
	fetcher := fetch.NewClient(cfg.Fetch, logger).WithMetrics(metrics)
	defer fetcher.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	records := extractAll(ctx, cfg, fetcher, metrics, logger, urls)
	if len(records) == 0 {
		exitWithError(fmt.Errorf("extraction produced no records"))
	}

	if err := writeRecords(cfg, metrics, records); err != nil {
		exitWithError(err)
	}

	destination := cfg.Output.File
	if destination == "" {
		destination = "stdout"
	}
	if cfg.Output.File != "" || verbose {
		fmt.Fprintf(os.Stderr, "Extracted %d of %d pages. Results written to %s\n",
			len(records), len(urls), destination)
	}
}

// extractAll runs page extractions through a bounded worker pool,
// preserving the input URL order in the results.
func extractAll(ctx context.Context, cfg *config.Config, fetcher *fetch.Client, metrics *monitoring.MetricsManager, logger logrus.FieldLogger, urls []string) []extract.ProductRecord {
	results := make([]*extract.ProductRecord, len(urls))

	var wg sync.WaitGroup
	sem := make(chan struct{}, extractWorkers)

	for i, pageURL := range urls {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, pageURL string) {
			defer wg.Done()
			defer func() { <-sem }()

			record, err := extractOne(ctx, cfg, fetcher, metrics, logger, pageURL)
			if err != nil {
				printUserError(err)
				return
			}
			results[i] = record
		}(i, pageURL)
	}
	wg.Wait()

	records := make([]extract.ProductRecord, 0, len(urls))
	for _, record := range results {
		if record != nil {
			records = append(records, *record)
		}
	}
	return records
}

func extractOne(ctx context.Context, cfg *config.Config, fetcher *fetch.Client, metrics *monitoring.MetricsManager, logger logrus.FieldLogger, pageURL string) (*extract.ProductRecord, error) {
	var record *extract.ProductRecord

	err := errorService.ExecuteWithRetry(ctx, func() error {
		doc, err := fetcher.FetchDocument(ctx, pageURL)
		if err != nil {
			return err
		}

		extractor := extract.New(doc, pageURL, &extract.Config{
			Platform:         cfg.ForcedPlatform(),
			ReviewLimit:      cfg.ReviewLimit,
			RulesetOverrides: cfg.RulesetOverrides(),
			Logger:           logger,
		})

		start := time.Now()
		record = extractor.Extract(ctx)
		metrics.RecordExtraction(string(record.Platform), time.Since(start), ctx.Err())
		return nil
	}, pageURL)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func writeRecords(cfg *config.Config, metrics *monitoring.MetricsManager, records []extract.ProductRecord) error {
	manager, err := output.NewManager(&cfg.Output)
	if err != nil {
		return err
	}
	if err := manager.Write(records); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	metrics.RecordRecordsWritten(cfg.Output.Format, len(records))
	return nil
}

// runServe starts the HTTP extraction API, reloading extraction settings
// when the config file changes on disk.
func runServe() {
	verbose := hasFlag("-v") || hasFlag("--verbose")
	errorService = errorService.WithVerbose(verbose)

	cfg, err := loadConfig()
	if err != nil {
		exitWithError(err)
	}

	logger := newLogger(cfg.LogLevel, verbose)
	metrics := monitoring.NewMetricsManager(monitoring.MetricsConfig{})
	fetcher := fetch.NewClient(cfg.Fetch, logger).WithMetrics(metrics)
	defer fetcher.Close()

	srv := server.New(cfg, metrics, fetcher, logger)

	if path := flagValue("-c", "--config"); path != "" {
		watcher, err := config.NewWatcher(path, logger)
		if err != nil {
			logger.WithError(err).Warn("config hot reload disabled")
		} else {
			watcher.OnChange(srv.UpdateConfig)
			defer watcher.Close()
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.ListenAndServe(ctx); err != nil {
		exitWithError(err)
	}
}

// validateConfig checks a configuration file and reports problems.
func validateConfig(configFile string) {
	cfg, err := config.LoadUnvalidated(configFile)
	if err != nil {
		printUserError(err)
		os.Exit(errors.ExitConfig)
	}

	result := cfg.ValidateWithDetails()
	for _, warning := range result.Warnings {
		fmt.Printf("⚠ %s\n", warning)
	}
	if !result.Valid {
		for _, e := range result.Errors {
			fmt.Fprintf(os.Stderr, "✗ %s\n", e.Error())
		}
		os.Exit(errors.ExitConfig)
	}

	fmt.Printf("✓ Configuration file '%s' is valid\n", configFile)
}

// generateTemplate renders a starter configuration as YAML.
func generateTemplate(args []string) (string, error) {
	templateType := "basic"
	if len(args) > 0 && args[0] == "--type" && len(args) > 1 {
		templateType = args[1]
	}

	template := config.GenerateTemplate(templateType)

	yamlData, err := yaml.Marshal(template)
	if err != nil {
		return "", fmt.Errorf("failed to marshal template to YAML: %w", err)
	}

	return string(yamlData), nil
}

// loadConfig reads the file named by -c/--config, or falls back to
// defaults when no file is given.
func loadConfig() (*config.Config, error) {
	path := flagValue("-c", "--config")
	if path == "" {
		return config.Default(), nil
	}

	cfg, err := config.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

func newLogger(level string, verbose bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	if verbose && parsed < logrus.DebugLevel {
		parsed = logrus.DebugLevel
	}
	logger.SetLevel(parsed)
	return logger
}

func printUserError(err error) {
	title, message, suggestions := errorService.GetUserFriendlyError(err)
	fmt.Fprintf(os.Stderr, "✗ %s: %s\n", title, message)
	for _, suggestion := range suggestions {
		fmt.Fprintf(os.Stderr, "  - %s\n", suggestion)
	}
}

func exitWithError(err error) {
	printUserError(err)
	os.Exit(errors.ExitCodeFor(err))
}

// hasFlag checks if a flag is present in command line arguments
func hasFlag(flag string) bool {
	for _, arg := range os.Args {
		if arg == flag {
			return true
		}
	}
	return false
}

// flagValue returns the value following any of the given flag names.
func flagValue(names ...string) string {
	for i, arg := range os.Args {
		for _, name := range names {
			if arg == name && i+1 < len(os.Args) {
				return os.Args[i+1]
			}
		}
	}
	return ""
}

// positionalArgs strips flags and flag values from the argument list.
func positionalArgs(args []string) []string {
	var positional []string
	skip := false
	for _, arg := range args {
		if skip {
			skip = false
			continue
		}
		switch arg {
		case "-c", "--config":
			skip = true
		case "-v", "--verbose":
		default:
			positional = append(positional, arg)
		}
	}
	return positional
}

// printUsage displays help information
func printUsage() {
	fmt.Println("ShopScrapexter - E-commerce Product Extraction Tool")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  shopscrapexter extract [-c config.yaml] <url> [url...]  Extract product data from pages")
	fmt.Println("  shopscrapexter serve [-c config.yaml]                   Run the HTTP extraction API")
	fmt.Println("  shopscrapexter validate <config.yaml>                   Validate configuration file")
	fmt.Println("  shopscrapexter template [--type <type>]                 Generate configuration template")
	fmt.Println("  shopscrapexter version                                  Show version information")
	fmt.Println("  shopscrapexter help                                     Show this help message")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -c, --config <file>                                     Configuration file")
	fmt.Println("  -v, --verbose                                           Enable verbose output")
	fmt.Println()
	fmt.Println("Template types:")
	fmt.Println("  basic        Single-site extraction template (default)")
	fmt.Println("  marketplace  Marketplace extraction with Excel output")
	fmt.Println("  shopify      Shopify storefront with headless browser")
	fmt.Println()
	fmt.Println("Without a configuration file, extract writes JSON to stdout using defaults.")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  shopscrapexter extract https://www.amazon.com/dp/B000TEST01")
	fmt.Println("  shopscrapexter extract -c shop.yaml https://www.etsy.com/listing/123")
	fmt.Println("  shopscrapexter serve -c shop.yaml")
}

// printVersion displays version information
func printVersion() {
	fmt.Printf("ShopScrapexter %s\n", version)
	fmt.Printf("Build time: %s\n", buildTime)
	fmt.Printf("Git commit: %s\n", gitCommit)
}
