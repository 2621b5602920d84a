package adapters

import (
	"context"
	"fmt"

	"noon-sync/extractor"
	"noon-sync/internal/normalize"
	"noon-sync/internal/types"
	"noon-sync/utils"
)

// StorefrontScraper is the credential-free source: it fetches the
// public storefront page and runs structured extraction over it. There
// is no DOM server-side, so the heuristic strategy never applies here,
// and no mock data is substituted; both are the caller's concern.
type StorefrontScraper struct {
	http       *utils.HTTPClient
	structured *extractor.StructuredExtractor
	config     *types.Config
	logger     types.Logger
}

// NewStorefrontScraper creates a new storefront scraper
func NewStorefrontScraper(config *types.Config, norm *normalize.Normalizer, logger types.Logger) *StorefrontScraper {
	return &StorefrontScraper{
		http:       utils.NewHTTPClient(config, logger),
		structured: extractor.NewStructuredExtractor(norm, logger),
		config:     config,
		logger:     logger,
	}
}

// FetchCatalog fetches the storefront page and extracts its embedded
// product list. Upstream rejections and extraction misses propagate
// typed so the serving layer can build its failure payload.
func (s *StorefrontScraper) FetchCatalog(ctx context.Context) ([]types.Product, error) {
	s.logger.Infof("Starting public sync for store: %s", s.config.StoreURL)

	body, err := s.http.Get(ctx, s.config.StoreURL)
	if err != nil {
		return nil, err
	}

	doc, err := extractor.ParseHTML(string(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse store page: %w", err)
	}

	return s.structured.Extract(doc)
}

// Close cleans up resources
func (s *StorefrontScraper) Close() {
	s.http.Close()
}
