package extractor

import (
	"encoding/json"
	"errors"

	"noon-sync/internal/normalize"
	"noon-sync/internal/types"
)

// CaptureResult is the one-shot response returned to the capture
// control surface.
type CaptureResult struct {
	Success bool   `json:"success"`
	Count   int    `json:"count,omitempty"`
	Message string `json:"message,omitempty"`
}

// Clipboard transfers the captured catalog out of band; the user
// pastes it into the manual importer themselves.
type Clipboard interface {
	WriteAll(text string) error
}

// strategy is one self-contained extraction algorithm. Strategies run
// in a fixed precedence order; a miss falls through to the next one.
type strategy struct {
	name string
	run  func() ([]types.Product, error)
}

// CaptureExtractor runs over an already-rendered page: structured data
// first, heuristic DOM scan second, result to the clipboard.
type CaptureExtractor struct {
	structured *StructuredExtractor
	heuristic  *HeuristicExtractor
	clipboard  Clipboard
	logger     types.Logger
}

// NewCaptureExtractor creates a new capture extractor
func NewCaptureExtractor(norm *normalize.Normalizer, clipboard Clipboard, logger types.Logger) *CaptureExtractor {
	return &CaptureExtractor{
		structured: NewStructuredExtractor(norm, logger),
		heuristic:  NewHeuristicExtractor(norm, logger),
		clipboard:  clipboard,
		logger:     logger,
	}
}

// Capture extracts products from the rendered page HTML and copies the
// canonical JSON batch to the clipboard. It never panics; every
// outcome is reported through the CaptureResult.
func (c *CaptureExtractor) Capture(html, pageURL string) CaptureResult {
	doc, err := ParseHTML(html)
	if err != nil {
		return CaptureResult{Success: false, Message: "failed to parse page: " + err.Error()}
	}

	strategies := []strategy{
		{name: "structured", run: func() ([]types.Product, error) { return c.structured.Extract(doc) }},
		{name: "heuristic", run: func() ([]types.Product, error) { return c.heuristic.Extract(doc, pageURL) }},
	}

	var products []types.Product
	for _, s := range strategies {
		result, err := s.run()
		if err != nil {
			if errors.Is(err, types.ErrNoStructuredData) || errors.Is(err, types.ErrNoProducts) {
				c.logger.Debugf("%s strategy found nothing, trying next", s.name)
				continue
			}
			return CaptureResult{Success: false, Message: err.Error()}
		}
		products = result
		break
	}

	if len(products) == 0 {
		return CaptureResult{
			Success: false,
			Message: "No products found. Please ensure you are on a page showing products grid.",
		}
	}

	data, err := json.Marshal(products)
	if err != nil {
		return CaptureResult{Success: false, Message: "failed to encode products: " + err.Error()}
	}
	if err := c.clipboard.WriteAll(string(data)); err != nil {
		return CaptureResult{Success: false, Message: "failed to copy to clipboard: " + err.Error()}
	}

	return CaptureResult{Success: true, Count: len(products)}
}
