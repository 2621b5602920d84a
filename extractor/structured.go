package extractor

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"noon-sync/internal/normalize"
	"noon-sync/internal/types"
)

// hydrationBlockID is the fixed identifier of the embedded JSON
// payload the storefront ships with every server-rendered page.
const hydrationBlockID = "__NEXT_DATA__"

// productListPaths are probed in order; the first path holding a
// non-empty array wins. Later paths are only consulted when earlier
// ones are absent or empty, tracking schema drift across storefront
// versions.
var productListPaths = [][]string{
	{"props", "pageProps", "catalog", "hits"},
	{"props", "pageProps", "initialState", "catalog", "hits"},
	{"props", "pageProps", "initialState", "products"},
}

// StructuredExtractor locates the hydration block in a rendered or
// fetched page and maps its product list through the normalizer.
type StructuredExtractor struct {
	norm   *normalize.Normalizer
	logger types.Logger
}

// NewStructuredExtractor creates a new structured-data extractor
func NewStructuredExtractor(norm *normalize.Normalizer, logger types.Logger) *StructuredExtractor {
	return &StructuredExtractor{norm: norm, logger: logger}
}

// ParseHTML parses HTML content into a goquery document
func ParseHTML(html string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

// Extract returns the normalized product list found in the document's
// hydration block. A missing or unparsable block, and known paths that
// are all absent or empty, report ErrNoStructuredData so the caller
// can fall through to the next strategy.
func (e *StructuredExtractor) Extract(doc *goquery.Document) ([]types.Product, error) {
	payload := doc.Find("script#" + hydrationBlockID).First().Text()
	if strings.TrimSpace(payload) == "" {
		e.logger.Debug("hydration block not present in document")
		return nil, types.ErrNoStructuredData
	}

	var data map[string]interface{}
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		e.logger.Debugf("hydration block is not valid JSON: %v", err)
		return nil, types.ErrNoStructuredData
	}

	hits := probeProductList(data)
	if len(hits) == 0 {
		e.logger.Debug("no known path held a product list")
		return nil, types.ErrNoStructuredData
	}

	items := make([]map[string]interface{}, 0, len(hits))
	for _, hit := range hits {
		if item, ok := hit.(map[string]interface{}); ok {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return nil, types.ErrNoStructuredData
	}

	e.logger.Infof("structured extraction found %d products", len(items))
	return e.norm.NormalizeBatch(items, types.SourceStructured), nil
}

func probeProductList(data map[string]interface{}) []interface{} {
	for _, path := range productListPaths {
		if hits := walkPath(data, path); len(hits) > 0 {
			return hits
		}
	}
	return nil
}

func walkPath(data map[string]interface{}, path []string) []interface{} {
	var node interface{} = data
	for _, key := range path {
		m, ok := node.(map[string]interface{})
		if !ok {
			return nil
		}
		node = m[key]
	}
	hits, _ := node.([]interface{})
	return hits
}
