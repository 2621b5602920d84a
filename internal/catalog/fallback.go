package catalog

import (
	"time"

	"noon-sync/internal/types"
)

// fallbackSet is the compiled-in catalog shown when every live source
// fails. It is read-only, process-wide, and never mutated after
// initialization; CTR values are the plain clicks/views ratio, kept
// consistent with what normalization would derive.
var fallbackSet = []types.Product{
	{
		ID:          "1",
		SKU:         "NOON-001",
		Name:        "Ultra-HD Smart Camera Pro",
		Description: "4K Resolution, Night Vision, and AI motion detection for home security.",
		Price:       299.00,
		Currency:    "AED",
		Stock:       45,
		Category:    "Electronics",
		Tags:        []string{"New", "Security"},
		ImageURL:    "https://picsum.photos/seed/camera/400/400",
		SourceURL:   "https://noon.com/uae-en/p-12345",
		Performance: types.Performance{Views: 1200, Clicks: 150, CTR: 0.125},
	},
	{
		ID:          "2",
		SKU:         "NOON-002",
		Name:        "Ergonomic Mesh Office Chair",
		Description: "High-back desk chair with lumbar support and adjustable armrests.",
		Price:       549.00,
		Currency:    "AED",
		Stock:       8,
		Category:    "Home & Office",
		Tags:        []string{"Best Seller"},
		ImageURL:    "https://picsum.photos/seed/chair/400/400",
		SourceURL:   "https://noon.com/uae-en/p-67890",
		Performance: types.Performance{Views: 800, Clicks: 80, CTR: 0.1},
	},
	{
		ID:          "3",
		SKU:         "NOON-003",
		Name:        "Wireless Noise Cancelling Earbuds",
		Description: "Crystal clear sound with active noise cancellation and 24-hour battery life.",
		Price:       199.00,
		Currency:    "AED",
		Stock:       120,
		Category:    "Electronics",
		Tags:        []string{"Audio", "Premium"},
		ImageURL:    "https://picsum.photos/seed/audio/400/400",
		SourceURL:   "https://noon.com/uae-en/p-11223",
		Performance: types.Performance{Views: 2500, Clicks: 400, CTR: 0.16},
	},
}

// FallbackProducts returns a fresh copy of the compiled-in set stamped
// with the given sync time, so callers can never write through to the
// shared data.
func FallbackProducts(syncedAt time.Time) []types.Product {
	products := make([]types.Product, len(fallbackSet))
	copy(products, fallbackSet)
	for i := range products {
		products[i].SyncedAt = syncedAt
		products[i].Tags = append([]string(nil), fallbackSet[i].Tags...)
	}
	return products
}
