package types

import (
	"errors"
	"fmt"
	"time"
)

// Performance holds engagement metrics for a product. CTR is always
// recomputed during normalization from Views and Clicks; upstream
// values are ignored.
type Performance struct {
	Views  int     `json:"views"`
	Clicks int     `json:"clicks"`
	CTR    float64 `json:"ctr"`
}

// Product is the canonical catalog record. Every extraction strategy
// emits it through the normalizer, so consumers never observe a
// missing required field. A product is never mutated in place; updates
// replace the whole record.
type Product struct {
	ID          string      `json:"id"`
	SKU         string      `json:"sku"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Price       float64     `json:"price"`
	Currency    string      `json:"currency"`
	Stock       int         `json:"stock"`
	Category    string      `json:"category"`
	Tags        []string    `json:"tags"`
	ImageURL    string      `json:"imageUrl"`
	SourceURL   string      `json:"sourceUrl"`
	SyncedAt    time.Time   `json:"syncedAt"`
	Performance Performance `json:"performance"`
}

// Source identifies which extraction strategy produced a raw item.
// The normalizer uses it to pick provenance defaults (tags, stock).
type Source string

const (
	SourceStructured Source = "structured"
	SourceScraped    Source = "scraped"
	SourceSellerAPI  Source = "seller_api"
	SourceImport     Source = "import"
)

// Config holds the configuration for the sync pipeline.
type Config struct {
	StoreURL     string
	SellerAPIURL string
	AppID        string
	AppSecret    string
	BusinessUnit string
	Currency     string
	SyncSource   string // "storefront" or "seller"

	RequestDelay time.Duration
	Timeout      time.Duration
	UserAgent    string
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		StoreURL:     "https://www.noon.com/uae-en/p-476641/",
		SellerAPIURL: "https://api.noon.com/seller/v1",
		BusinessUnit: "uae",
		Currency:     "AED",
		SyncSource:   "storefront",
		RequestDelay: 1 * time.Second,
		Timeout:      30 * time.Second,
		UserAgent:    "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36",
	}
}

// Logger defines the logging interface
type Logger interface {
	Debug(args ...interface{})
	Info(args ...interface{})
	Warn(args ...interface{})
	Error(args ...interface{})
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// Extraction misses are recoverable results, not failures: the caller
// decides whether to fall through to the next strategy or report an
// empty state. Check with errors.Is.
var (
	// ErrNoStructuredData means the hydration block is missing,
	// unparsable, or none of the known paths held a product list.
	ErrNoStructuredData = errors.New("no structured data found")

	// ErrNoProducts means zero anchors survived heuristic filtering.
	ErrNoProducts = errors.New("no products found")

	// ErrProductNotFound is returned by catalog updates for unknown IDs.
	ErrProductNotFound = errors.New("product not found")
)

// ConfigurationError reports missing credentials for the authenticated
// path. It is raised before any network call and never retried.
type ConfigurationError struct {
	Field string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("missing credentials: %s is not set", e.Field)
}

// UpstreamRejection is a non-success HTTP response from the storefront
// or the seller API.
type UpstreamRejection struct {
	StatusCode int
	Message    string
}

func (e *UpstreamRejection) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("upstream rejected request with status %d", e.StatusCode)
	}
	return fmt.Sprintf("upstream rejected request with status %d: %s", e.StatusCode, e.Message)
}

// TransportFailure wraps a network-level failure.
type TransportFailure struct {
	Err error
}

func (e *TransportFailure) Error() string {
	return fmt.Sprintf("connection failed: %v", e.Err)
}

func (e *TransportFailure) Unwrap() error { return e.Err }

// MalformedImport rejects a manual import payload before any catalog
// state changes.
type MalformedImport struct {
	Reason string
}

func (e *MalformedImport) Error() string {
	return fmt.Sprintf("invalid import payload: %s", e.Reason)
}
