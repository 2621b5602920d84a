package normalize

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"noon-sync/internal/types"
)

const (
	imageTemplate    = "https://f.nooncdn.com/products/tr:n-t_400/%s.jpg"
	placeholderImage = "https://via.placeholder.com/400?text=No+Image"
	productURLFormat = "https://www.noon.com/%s/%s/p?o=%s"

	skuSentinel     = "N/A"
	defaultCategory = "General"
	defaultName     = "Unknown Product"

	// Stock shown for items whose upstream only reports a "live" flag.
	liveStock = 50
	// Stock assigned to heuristically scraped items, where true stock
	// is unknowable.
	scrapedStock = 10
)

// priceKeys are probed in order; the first key present wins. The order
// tracks schema drift across storefront versions.
var priceKeys = []string{"price", "offer_price", "sale_price"}

// descriptionKeys mirror the upstream preference for the long English
// description, then the meta description, then the brand name.
var descriptionKeys = []string{"description", "long_description_en", "meta_description", "brand"}

// Normalizer maps arbitrary upstream item shapes into the canonical
// Product record. Normalize never fails: unresolvable fields fall back
// to documented defaults so a sync always yields a displayable catalog
// instead of aborting on a single malformed item.
type Normalizer struct {
	Currency string
	Locale   string

	// Now and NewID are injectable so normalization stays
	// deterministic under test. NewID is only consulted when the
	// upstream item carries no stable identifier.
	Now   func() time.Time
	NewID func() string
}

// New returns a Normalizer with the production clock and ID generator.
func New(currency, locale string) *Normalizer {
	return &Normalizer{
		Currency: currency,
		Locale:   locale,
		Now:      time.Now,
		NewID:    uuid.NewString,
	}
}

// Normalize converts one raw upstream item into a Product. The source
// kind selects provenance defaults for stock and tags.
func (n *Normalizer) Normalize(raw map[string]interface{}, source types.Source) types.Product {
	sku := stringField(raw, "sku")
	if sku == "" {
		sku = skuSentinel
	}

	id := stringField(raw, "id")
	if id == "" {
		id = stringField(raw, "sku")
	}
	if id == "" {
		id = stringField(raw, "offer_code")
	}
	if id == "" {
		id = n.NewID()
	}

	name := stringField(raw, "name")
	if name == "" {
		name = defaultName
	}

	var description string
	for _, key := range descriptionKeys {
		if v := stringField(raw, key); v != "" {
			description = v
			break
		}
	}

	var price float64
	for _, key := range priceKeys {
		if v, ok := numberField(raw, key); ok {
			price = v
			break
		}
	}
	if price < 0 {
		price = 0
	}

	currency := stringField(raw, "currency")
	if currency == "" {
		currency = n.Currency
	}

	category := stringField(raw, "category")
	if category == "" {
		category = stringField(raw, "brand")
	}
	if category == "" {
		category = defaultCategory
	}

	return types.Product{
		ID:          id,
		SKU:         sku,
		Name:        name,
		Description: description,
		Price:       price,
		Currency:    currency,
		Stock:       n.stock(raw, source),
		Category:    category,
		Tags:        n.tags(raw, source),
		ImageURL:    n.imageURL(raw),
		SourceURL:   n.sourceURL(raw),
		SyncedAt:    n.Now(),
		Performance: performance(raw),
	}
}

// NormalizeBatch maps a slice of raw upstream items in order.
func (n *Normalizer) NormalizeBatch(items []map[string]interface{}, source types.Source) []types.Product {
	products := make([]types.Product, 0, len(items))
	for _, item := range items {
		products = append(products, n.Normalize(item, source))
	}
	return products
}

func (n *Normalizer) stock(raw map[string]interface{}, source types.Source) int {
	if v, ok := numberField(raw, "stock"); ok && v >= 0 {
		return int(v)
	}
	if v, ok := numberField(raw, "stock_gross"); ok && v >= 0 {
		return int(v)
	}
	if boolField(raw, "is_live") {
		return liveStock
	}
	if source == types.SourceScraped {
		return scrapedStock
	}
	return 0
}

func (n *Normalizer) tags(raw map[string]interface{}, source types.Source) []string {
	if tags := stringsField(raw, "tags"); len(tags) > 0 {
		return tags
	}
	switch source {
	case types.SourceScraped:
		return []string{"Scraped"}
	case types.SourceSellerAPI:
		if boolField(raw, "is_active") {
			return []string{"Active"}
		}
		return []string{"Inactive"}
	default:
		if boolField(raw, "is_express") {
			return []string{"Express", "Live"}
		}
		return []string{"Live"}
	}
}

func (n *Normalizer) imageURL(raw map[string]interface{}) string {
	if v := stringField(raw, "imageUrl"); v != "" {
		return v
	}
	if v := stringField(raw, "image_url"); v != "" {
		return v
	}
	if key := stringField(raw, "image_key"); key != "" {
		return fmt.Sprintf(imageTemplate, key)
	}
	return placeholderImage
}

func (n *Normalizer) sourceURL(raw map[string]interface{}) string {
	if v := stringField(raw, "sourceUrl"); v != "" {
		return v
	}
	if v := stringField(raw, "url"); v != "" {
		return v
	}
	if urlKey := stringField(raw, "url_key"); urlKey != "" {
		return fmt.Sprintf(productURLFormat, n.Locale, urlKey, stringField(raw, "offer_code"))
	}
	return "https://www.noon.com/" + n.Locale + "/"
}

// performance keeps upstream views and clicks but always recomputes
// CTR, so a stale or bogus upstream ratio never survives a sync.
func performance(raw map[string]interface{}) types.Performance {
	var views, clicks int
	if perf, ok := raw["performance"].(map[string]interface{}); ok {
		if v, ok := numberField(perf, "views"); ok && v > 0 {
			views = int(v)
		}
		if v, ok := numberField(perf, "clicks"); ok && v > 0 {
			clicks = int(v)
		}
	}
	var ctr float64
	if views > 0 {
		ctr = float64(clicks) / float64(views)
	}
	return types.Performance{Views: views, Clicks: clicks, CTR: ctr}
}

func stringField(raw map[string]interface{}, key string) string {
	if v, ok := raw[key].(string); ok {
		return v
	}
	return ""
}

func numberField(raw map[string]interface{}, key string) (float64, bool) {
	switch v := raw[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}

func boolField(raw map[string]interface{}, key string) bool {
	v, _ := raw[key].(bool)
	return v
}

func stringsField(raw map[string]interface{}, key string) []string {
	switch v := raw[key].(type) {
	case []string:
		return v
	case []interface{}:
		var out []string
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
