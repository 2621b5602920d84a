package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"noon-sync/adapters"
	"noon-sync/extractor"
	"noon-sync/internal/catalog"
	"noon-sync/internal/normalize"
	"noon-sync/internal/types"
	"noon-sync/utils"
)

func main() {
	// Load .env file if present
	_ = godotenv.Load()

	// Parse command line flags
	var (
		captureFlag  = flag.String("capture", "", "Capture products from a rendered store page URL and copy them to the clipboard")
		syncFlag     = flag.Bool("sync", false, "Run a catalog sync against the configured source")
		endpointFlag = flag.String("endpoint", "", "Fetch products from a sync endpoint URL through the fallback orchestrator")
		outputFlag   = flag.String("output", "", "Output file path for -sync (default: stdout)")
		requestDelay = flag.Duration("delay", 1*time.Second, "Delay between requests")
		timeout      = flag.Duration("timeout", 30*time.Second, "Request timeout")
		verbose      = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	modes := 0
	for _, set := range []bool{*captureFlag != "", *syncFlag, *endpointFlag != ""} {
		if set {
			modes++
		}
	}
	if modes != 1 {
		log.Fatal("Exactly one of -capture, -sync or -endpoint is required")
	}

	// Setup logging
	logger := logrus.New()

	// Set timestamp format with milliseconds
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})

	// Set log level from LOG_LEVEL env if present
	if levelStr := os.Getenv("LOG_LEVEL"); levelStr != "" {
		if level, err := logrus.ParseLevel(levelStr); err == nil {
			logger.SetLevel(level)
		}
	} else if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}

	config := loadConfig()
	config.RequestDelay = *requestDelay
	config.Timeout = *timeout

	unit := adapters.ResolveBusinessUnit(config.BusinessUnit, logger)
	norm := normalize.New(config.Currency, unit.Locale)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	switch {
	case *captureFlag != "":
		runCapture(ctx, *captureFlag, config, norm, logger)
	case *endpointFlag != "":
		runFetch(ctx, *endpointFlag, config, logger)
	default:
		runSync(ctx, *outputFlag, config, norm, logger)
	}
}

func loadConfig() *types.Config {
	config := types.DefaultConfig()
	if v := os.Getenv("STORE_URL"); v != "" {
		config.StoreURL = v
	}
	if v := os.Getenv("SELLER_API_URL"); v != "" {
		config.SellerAPIURL = v
	}
	if v := os.Getenv("STORE_CURRENCY"); v != "" {
		config.Currency = v
	}
	if v := os.Getenv("SYNC_SOURCE"); v != "" {
		config.SyncSource = v
	}
	config.AppID = os.Getenv("NOON_APP_ID")
	config.AppSecret = os.Getenv("NOON_APP_SECRET")
	if v := os.Getenv("NOON_BUSINESS_UNIT"); v != "" {
		config.BusinessUnit = v
	}
	return config
}

// runCapture renders the page in a headless browser and runs the
// capture strategies over the live DOM, copying the result to the
// system clipboard for manual import.
func runCapture(ctx context.Context, pageURL string, config *types.Config, norm *normalize.Normalizer, logger *logrus.Logger) {
	logger.Infof("Analyzing page %s", pageURL)

	browser := utils.NewBrowserClient(config, logger)
	html, err := browser.GetPageContent(ctx, pageURL)
	if err != nil {
		log.Fatalf("Failed to load page: %v", err)
	}

	capture := extractor.NewCaptureExtractor(norm, utils.SystemClipboard{}, logger)
	result := capture.Capture(html, pageURL)
	if !result.Success {
		log.Fatalf("Capture failed: %s", result.Message)
	}

	logger.Infof("Found %d products! Copied to clipboard.", result.Count)
}

// runFetch goes through the fallback orchestrator: on any sync
// failure it prints the compiled-in fallback catalog and reports the
// suppressed cause instead of exiting.
func runFetch(ctx context.Context, endpoint string, config *types.Config, logger *logrus.Logger) {
	service := catalog.NewService(endpoint, config.Timeout, logger)

	result := service.GetProducts(ctx)
	if result.Fallback {
		logger.Warnf("Showing fallback catalog, sync failed: %v", result.Diagnostic)
	}

	data, err := json.MarshalIndent(result.Products, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode products: %v", err)
	}
	fmt.Println(string(data))
}

// runSync fetches the configured catalog source once and writes the
// normalized batch as JSON.
func runSync(ctx context.Context, outputPath string, config *types.Config, norm *normalize.Normalizer, logger *logrus.Logger) {
	var source adapters.CatalogSource
	if config.SyncSource == "seller" {
		source = adapters.NewSellerClient(config, norm, logger)
	} else {
		scraper := adapters.NewStorefrontScraper(config, norm, logger)
		defer scraper.Close()
		source = scraper
	}

	products, err := source.FetchCatalog(ctx)
	if err != nil {
		log.Fatalf("Sync failed: %v", err)
	}

	data, err := json.MarshalIndent(products, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode products: %v", err)
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, data, 0644); err != nil {
			log.Fatalf("Failed to write output file: %v", err)
		}
		logger.Infof("Wrote %d products to %s", len(products), outputPath)
		return
	}

	fmt.Println(string(data))
}
