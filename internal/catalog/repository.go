package catalog

import (
	"encoding/json"
	"sync"

	"noon-sync/internal/normalize"
	"noon-sync/internal/types"
)

// Repository is a caller-owned catalog value: whoever constructs it
// decides who may read or replace it. It exists so no component relies
// on a hidden process-wide product list. The mutex only covers the
// serving layer's concurrent reads against whole-batch replacement.
type Repository struct {
	mu       sync.RWMutex
	norm     *normalize.Normalizer
	products []types.Product
}

// NewRepository creates a repository seeded with an initial batch.
func NewRepository(norm *normalize.Normalizer, initial []types.Product) *Repository {
	r := &Repository{norm: norm}
	r.Replace(initial)
	return r
}

// Products returns a copy of the current batch.
func (r *Repository) Products() []types.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()
	products := make([]types.Product, len(r.products))
	copy(products, r.products)
	return products
}

// Replace swaps in a new batch wholesale; the previous batch is
// discarded, never merged.
func (r *Repository) Replace(batch []types.Product) {
	products := make([]types.Product, len(batch))
	copy(products, batch)
	r.mu.Lock()
	r.products = products
	r.mu.Unlock()
}

// ImportJSON accepts a manually pasted JSON array matching the Product
// schema and replaces the catalog with it. A payload that is not an
// array is rejected before any state changes; per-item shape
// mismatches are tolerated through normalizer defaults instead.
func (r *Repository) ImportJSON(data []byte) (int, error) {
	var payload interface{}
	if err := json.Unmarshal(data, &payload); err != nil {
		return 0, &types.MalformedImport{Reason: "invalid JSON"}
	}

	items, ok := payload.([]interface{})
	if !ok {
		return 0, &types.MalformedImport{Reason: "expected an array of products"}
	}

	products := make([]types.Product, 0, len(items))
	for _, item := range items {
		raw, _ := item.(map[string]interface{})
		if raw == nil {
			raw = map[string]interface{}{}
		}
		products = append(products, r.norm.Normalize(raw, types.SourceImport))
	}

	r.Replace(products)
	return len(products), nil
}

// Update replaces the record with the same ID and returns the stored
// copy. Records are replaced whole, never patched in place.
func (r *Repository) Update(updated types.Product) (types.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, p := range r.products {
		if p.ID == updated.ID {
			r.products[i] = updated
			return updated, nil
		}
	}
	return types.Product{}, types.ErrProductNotFound
}
