package extractor

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"noon-sync/internal/normalize"
	"noon-sync/internal/types"
)

// productLinkSelector matches anchors that point at a product page.
const productLinkSelector = `a[href*="/p/"]`

// placeholderAlt is the alt text some product images carry instead of
// a real name.
const placeholderAlt = "product"

// pricePatterns are currency-anchored; the first numeric value
// adjacent to the currency code wins. Amount-before-currency is the
// common layout, so it is tried first.
var pricePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d{1,4}(?:\.\d{1,2})?)\s*AED`),
	regexp.MustCompile(`AED\s*(\d{1,4}(?:\.\d{1,2})?)`),
}

// HeuristicExtractor is the visual fallback: it scans a rendered DOM
// for product-card anchors when no structured data is present. It only
// runs over a live page capture, never server-side.
type HeuristicExtractor struct {
	norm   *normalize.Normalizer
	logger types.Logger
}

// NewHeuristicExtractor creates a new heuristic DOM extractor
func NewHeuristicExtractor(norm *normalize.Normalizer, logger types.Logger) *HeuristicExtractor {
	return &HeuristicExtractor{norm: norm, logger: logger}
}

// Extract scans the document for product anchors, deduplicating by
// absolute URL: upstream pages render the same product in multiple
// surfaces (grid plus recommendation rail) under one link. Output is
// guaranteed to have no duplicate source URLs. Zero surviving anchors
// report ErrNoProducts so the caller can present an actionable empty
// state.
func (e *HeuristicExtractor) Extract(doc *goquery.Document, pageURL string) ([]types.Product, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		base = nil
	}

	seen := make(map[string]bool)
	var items []map[string]interface{}

	doc.Find(productLinkSelector).Each(func(i int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return
		}

		// Anchors without an image are navigation links, not cards.
		img := s.Find("img").First()
		if img.Length() == 0 {
			return
		}

		abs := absoluteURL(base, href)
		if abs == "" || seen[abs] {
			return
		}
		seen[abs] = true

		name := strings.TrimSpace(img.AttrOr("alt", ""))
		if name == "" || strings.EqualFold(name, placeholderAlt) {
			name = slugName(abs)
		}

		items = append(items, map[string]interface{}{
			"sku":         "N-" + skuSuffix(e.norm.NewID()),
			"name":        name,
			"description": "Imported via Visual Scraper",
			"price":       extractPrice(s.Text()),
			"category":    "Imported",
			"image_url":   absoluteURL(base, img.AttrOr("src", "")),
			"url":         abs,
		})
	})

	if len(items) == 0 {
		e.logger.Debug("no product anchors survived filtering")
		return nil, types.ErrNoProducts
	}

	e.logger.Infof("heuristic extraction found %d products", len(items))
	return e.norm.NormalizeBatch(items, types.SourceScraped), nil
}

func absoluteURL(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if base != nil {
		ref = base.ResolveReference(ref)
	}
	if ref.Host == "" {
		return ""
	}
	return ref.String()
}

func extractPrice(text string) float64 {
	for _, pattern := range pricePatterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			if price, err := strconv.ParseFloat(m[1], 64); err == nil {
				return price
			}
		}
	}
	return 0
}

// slugName derives a display name from the URL path when no usable alt
// text exists: the product slug sits one segment before the trailing
// page marker.
func slugName(productURL string) string {
	u, err := url.Parse(productURL)
	if err != nil {
		return ""
	}
	var segments []string
	for _, seg := range strings.Split(u.Path, "/") {
		if seg != "" {
			segments = append(segments, seg)
		}
	}
	if len(segments) < 2 {
		return ""
	}
	return strings.ReplaceAll(segments[len(segments)-2], "-", " ")
}

func skuSuffix(id string) string {
	cleaned := strings.ToUpper(strings.ReplaceAll(id, "-", ""))
	if len(cleaned) > 6 {
		cleaned = cleaned[:6]
	}
	return cleaned
}
