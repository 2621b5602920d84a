package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"noon-sync/internal/types"
)

// SyncResult carries the catalog to render plus, when the live sync
// failed, the suppressed cause. The UI never blocks on a sync failure,
// but operators can still see that the data on screen is the fallback
// set instead of a live batch.
type SyncResult struct {
	Products []types.Product
	// Fallback is true when Products is the compiled-in set.
	Fallback bool
	// Diagnostic is the failure that triggered the substitution.
	Diagnostic error
}

// Service is the fallback orchestrator. It calls one configured sync
// endpoint and treats a non-success status, a transport failure, and a
// success response carrying an error object as the same condition:
// substitute the fallback set and keep rendering.
type Service struct {
	client   *resty.Client
	endpoint string
	logger   types.Logger
	now      func() time.Time
}

// NewService creates a new catalog service for the given sync endpoint
func NewService(endpoint string, timeout time.Duration, logger types.Logger) *Service {
	return &Service{
		client:   resty.New().SetTimeout(timeout),
		endpoint: endpoint,
		logger:   logger,
		now:      time.Now,
	}
}

type errorEnvelope struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// GetProducts performs one sync attempt. It never returns an error:
// every failure path yields the fallback set with the cause attached
// as the result's diagnostic.
func (s *Service) GetProducts(ctx context.Context) SyncResult {
	resp, err := s.client.R().SetContext(ctx).Get(s.endpoint)
	if err != nil {
		return s.fallback(&types.TransportFailure{Err: err})
	}

	if resp.IsError() {
		var envelope errorEnvelope
		_ = json.Unmarshal(resp.Body(), &envelope)
		return s.fallback(&types.UpstreamRejection{
			StatusCode: resp.StatusCode(),
			Message:    envelope.Message,
		})
	}

	body := bytes.TrimSpace(resp.Body())
	if len(body) > 0 && body[0] == '{' {
		// A success status wrapping an error object is still a failure.
		var envelope errorEnvelope
		if json.Unmarshal(body, &envelope) == nil && envelope.Error != "" {
			return s.fallback(fmt.Errorf("sync endpoint reported: %s", envelope.Error))
		}
		return s.fallback(errors.New("sync endpoint returned an object instead of a product array"))
	}

	var products []types.Product
	if err := json.Unmarshal(body, &products); err != nil {
		return s.fallback(fmt.Errorf("failed to decode sync payload: %w", err))
	}

	s.logger.Infof("Sync succeeded with %d products", len(products))
	return SyncResult{Products: products}
}

func (s *Service) fallback(cause error) SyncResult {
	s.logger.Warnf("Sync failed, substituting fallback catalog: %v", cause)
	return SyncResult{
		Products:   FallbackProducts(s.now()),
		Fallback:   true,
		Diagnostic: cause,
	}
}
