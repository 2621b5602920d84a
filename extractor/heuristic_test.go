package extractor

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"noon-sync/internal/types"
)

const pageURL = "https://www.noon.com/uae-en/"

func TestHeuristicExtract_DedupeByURL(t *testing.T) {
	// Same product rendered in the grid and the recommendation rail:
	// identical href, different surrounding markup.
	fixture := `<html><body>
	  <div class="grid">
	    <a href="/uae-en/smart-camera-pro/p/"><img src="/img/cam.jpg" alt="Smart Camera Pro"><span>299.00 AED</span></a>
	  </div>
	  <div class="rail">
	    <a href="/uae-en/smart-camera-pro/p/"><img src="/img/cam-small.jpg" alt="Smart Camera Pro"><b>AED 299</b></a>
	  </div>
	</body></html>`

	e := NewHeuristicExtractor(newTestNormalizer(), logrus.New())
	doc, err := ParseHTML(fixture)
	require.NoError(t, err)

	products, err := e.Extract(doc, pageURL)

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "https://www.noon.com/uae-en/smart-camera-pro/p/", products[0].SourceURL)
	assert.Equal(t, "Smart Camera Pro", products[0].Name)
	assert.Equal(t, 299.0, products[0].Price)
}

func TestHeuristicExtract_DiscardsAnchorsWithoutImage(t *testing.T) {
	fixture := `<html><body>
	  <a href="/uae-en/nav-link/p/">See all products</a>
	  <a href="/uae-en/real-product/p/"><img src="/img/x.jpg" alt="Real Product">59 AED</a>
	</body></html>`

	e := NewHeuristicExtractor(newTestNormalizer(), logrus.New())
	doc, err := ParseHTML(fixture)
	require.NoError(t, err)

	products, err := e.Extract(doc, pageURL)

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Real Product", products[0].Name)
}

func TestHeuristicExtract_PriceCurrencyBeforeAmount(t *testing.T) {
	fixture := `<html><body>
	  <a href="/uae-en/earbuds/p/"><img src="/img/e.jpg" alt="Earbuds">AED 199.50</a>
	</body></html>`

	e := NewHeuristicExtractor(newTestNormalizer(), logrus.New())
	doc, err := ParseHTML(fixture)
	require.NoError(t, err)

	products, err := e.Extract(doc, pageURL)

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, 199.5, products[0].Price)
}

func TestHeuristicExtract_NoPriceDefaultsToZero(t *testing.T) {
	fixture := `<html><body>
	  <a href="/uae-en/mystery-item/p/"><img src="/img/m.jpg" alt="Mystery Item">Great deal!</a>
	</body></html>`

	e := NewHeuristicExtractor(newTestNormalizer(), logrus.New())
	doc, err := ParseHTML(fixture)
	require.NoError(t, err)

	products, err := e.Extract(doc, pageURL)

	require.NoError(t, err)
	assert.Equal(t, 0.0, products[0].Price)
}

func TestHeuristicExtract_NameFromSlugWhenAltIsPlaceholder(t *testing.T) {
	fixture := `<html><body>
	  <a href="/uae-en/wireless-noise-cancelling-earbuds/p/"><img src="/img/e.jpg" alt="product">199 AED</a>
	</body></html>`

	e := NewHeuristicExtractor(newTestNormalizer(), logrus.New())
	doc, err := ParseHTML(fixture)
	require.NoError(t, err)

	products, err := e.Extract(doc, pageURL)

	require.NoError(t, err)
	assert.Equal(t, "wireless noise cancelling earbuds", products[0].Name)
}

func TestHeuristicExtract_ScrapedProvenance(t *testing.T) {
	fixture := `<html><body>
	  <a href="/uae-en/office-chair/p/"><img src="/img/c.jpg" alt="Office Chair">549 AED</a>
	</body></html>`

	e := NewHeuristicExtractor(newTestNormalizer(), logrus.New())
	doc, err := ParseHTML(fixture)
	require.NoError(t, err)

	products, err := e.Extract(doc, pageURL)

	require.NoError(t, err)
	p := products[0]
	assert.Equal(t, []string{"Scraped"}, p.Tags)
	assert.Equal(t, 10, p.Stock)
	assert.Equal(t, "Imported", p.Category)
	assert.Equal(t, "Imported via Visual Scraper", p.Description)
	assert.Equal(t, "N-AABBCC", p.SKU)
	assert.Equal(t, "https://www.noon.com/img/c.jpg", p.ImageURL)
}

func TestHeuristicExtract_NoMatchesReportsMiss(t *testing.T) {
	e := NewHeuristicExtractor(newTestNormalizer(), logrus.New())
	doc, err := ParseHTML(`<html><body><a href="/uae-en/about">About us</a></body></html>`)
	require.NoError(t, err)

	products, err := e.Extract(doc, pageURL)

	assert.Nil(t, products)
	assert.ErrorIs(t, err, types.ErrNoProducts)
}
