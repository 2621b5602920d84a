package adapters

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/go-resty/resty/v2"

	"noon-sync/internal/normalize"
	"noon-sync/internal/types"
)

// CatalogSource is one configured sync source. The seller API and the
// public storefront expose the same contract, so the serving layer
// treats them uniformly.
type CatalogSource interface {
	FetchCatalog(ctx context.Context) ([]types.Product, error)
}

// BusinessUnit selects the catalog partition served by the seller API.
type BusinessUnit struct {
	Code   string
	Locale string
}

// businessUnits is the fixed enumeration of supported partitions; the
// first entry is the default.
var businessUnits = []BusinessUnit{
	{Code: "uae", Locale: "uae-en"},
	{Code: "ksa", Locale: "saudi-en"},
	{Code: "egy", Locale: "egypt-en"},
}

// ResolveBusinessUnit maps a configured code to its unit. Unrecognized
// codes fall back to the default unit rather than failing the sync.
func ResolveBusinessUnit(code string, logger types.Logger) BusinessUnit {
	for _, bu := range businessUnits {
		if bu.Code == code {
			return bu
		}
	}
	if code != "" {
		logger.Warnf("Unrecognized business unit %q, using default %q", code, businessUnits[0].Code)
	}
	return businessUnits[0]
}

type sellerCatalogResponse struct {
	Items []map[string]interface{} `json:"items"`
}

type sellerErrorResponse struct {
	Message string `json:"message"`
}

// SellerClient is the authenticated catalog source. It requires an
// application identifier and secret; each fetch performs exactly one
// outbound call and one transform, with no cross-request state.
type SellerClient struct {
	client *resty.Client
	config *types.Config
	norm   *normalize.Normalizer
	logger types.Logger
}

// NewSellerClient creates a new seller API client
func NewSellerClient(config *types.Config, norm *normalize.Normalizer, logger types.Logger) *SellerClient {
	client := resty.New().
		SetBaseURL(config.SellerAPIURL).
		SetTimeout(config.Timeout).
		SetHeader("User-Agent", config.UserAgent).
		SetHeader("Accept", "application/json")

	return &SellerClient{
		client: client,
		config: config,
		norm:   norm,
		logger: logger,
	}
}

// FetchCatalog calls the seller catalog endpoint for the resolved
// business unit and maps each item through the normalizer. Missing
// credentials fail fast before any network call.
func (s *SellerClient) FetchCatalog(ctx context.Context) ([]types.Product, error) {
	if s.config.AppID == "" {
		return nil, &types.ConfigurationError{Field: "NOON_APP_ID"}
	}
	if s.config.AppSecret == "" {
		return nil, &types.ConfigurationError{Field: "NOON_APP_SECRET"}
	}

	bu := ResolveBusinessUnit(s.config.BusinessUnit, s.logger)
	credential := base64.StdEncoding.EncodeToString([]byte(s.config.AppID + ":" + s.config.AppSecret))

	s.logger.Infof("Fetching seller catalog for business unit %s", bu.Code)

	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Basic "+credential).
		Get(fmt.Sprintf("/%s/catalog", bu.Code))
	if err != nil {
		return nil, &types.TransportFailure{Err: err}
	}

	if resp.IsError() {
		var upstream sellerErrorResponse
		_ = json.Unmarshal(resp.Body(), &upstream)
		return nil, &types.UpstreamRejection{
			StatusCode: resp.StatusCode(),
			Message:    upstream.Message,
		}
	}

	var catalog sellerCatalogResponse
	if err := json.Unmarshal(resp.Body(), &catalog); err != nil {
		return nil, fmt.Errorf("failed to decode seller catalog: %w", err)
	}

	s.logger.Infof("Seller API returned %d items for %s", len(catalog.Items), bu.Code)
	return s.norm.NormalizeBatch(catalog.Items, types.SourceSellerAPI), nil
}
