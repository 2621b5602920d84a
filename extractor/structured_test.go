package extractor

import (
	"fmt"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"noon-sync/internal/normalize"
	"noon-sync/internal/types"
)

func newTestNormalizer() *normalize.Normalizer {
	n := normalize.New("AED", "uae-en")
	n.Now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	counter := 0
	n.NewID = func() string {
		counter++
		return fmt.Sprintf("aabbcc%02d", counter)
	}
	return n
}

const storefrontFixture = `<html><head>
<script id="__NEXT_DATA__" type="application/json">{
  "props": {"pageProps": {"catalog": {"hits": [
    {"sku": "Z-1", "name": "Smart Camera", "price": 299.0, "image_key": "cam1",
     "url_key": "smart-camera", "offer_code": "OFF1", "is_live": true},
    {"sku": "Z-2", "name": "Office Chair", "offer_price": 549.0, "is_express": true,
     "url_key": "office-chair", "offer_code": "OFF2"}
  ]}}}
}</script>
</head><body></body></html>`

func TestStructuredExtract_Success(t *testing.T) {
	e := NewStructuredExtractor(newTestNormalizer(), logrus.New())
	doc, err := ParseHTML(storefrontFixture)
	require.NoError(t, err)

	products, err := e.Extract(doc)

	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, "Z-1", products[0].ID)
	assert.Equal(t, "Smart Camera", products[0].Name)
	assert.Equal(t, 299.0, products[0].Price)
	assert.Equal(t, "AED", products[0].Currency)
	assert.Equal(t, 50, products[0].Stock)
	assert.Equal(t, "https://f.nooncdn.com/products/tr:n-t_400/cam1.jpg", products[0].ImageURL)
	assert.Equal(t, "https://www.noon.com/uae-en/smart-camera/p?o=OFF1", products[0].SourceURL)
	assert.Equal(t, []string{"Live"}, products[0].Tags)

	assert.Equal(t, 549.0, products[1].Price)
	assert.Equal(t, []string{"Express", "Live"}, products[1].Tags)
}

func TestStructuredExtract_NoHydrationBlock(t *testing.T) {
	e := NewStructuredExtractor(newTestNormalizer(), logrus.New())
	doc, err := ParseHTML(`<html><body><p>Access denied</p></body></html>`)
	require.NoError(t, err)

	products, err := e.Extract(doc)

	assert.Nil(t, products)
	assert.ErrorIs(t, err, types.ErrNoStructuredData)
}

func TestStructuredExtract_UnparsableBlock(t *testing.T) {
	e := NewStructuredExtractor(newTestNormalizer(), logrus.New())
	doc, err := ParseHTML(`<html><head><script id="__NEXT_DATA__" type="application/json">{not json</script></head></html>`)
	require.NoError(t, err)

	_, err = e.Extract(doc)

	assert.ErrorIs(t, err, types.ErrNoStructuredData)
}

func TestStructuredExtract_AllPathsEmpty(t *testing.T) {
	e := NewStructuredExtractor(newTestNormalizer(), logrus.New())
	doc, err := ParseHTML(`<html><head><script id="__NEXT_DATA__" type="application/json">{"props":{"pageProps":{"catalog":{"hits":[]}}}}</script></head></html>`)
	require.NoError(t, err)

	_, err = e.Extract(doc)

	assert.ErrorIs(t, err, types.ErrNoStructuredData)
}

func TestStructuredExtract_PathPrecedence(t *testing.T) {
	// Primary path empty, second path populated: the second one wins.
	fixture := `<html><head><script id="__NEXT_DATA__" type="application/json">{
	  "props": {"pageProps": {
	    "catalog": {"hits": []},
	    "initialState": {"catalog": {"hits": [{"sku": "FROM-FALLBACK-PATH", "name": "Earbuds"}]}}
	  }}
	}</script></head></html>`

	e := NewStructuredExtractor(newTestNormalizer(), logrus.New())
	doc, err := ParseHTML(fixture)
	require.NoError(t, err)

	products, err := e.Extract(doc)

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "FROM-FALLBACK-PATH", products[0].ID)
}

func TestStructuredExtract_FirstNonEmptyPathWins(t *testing.T) {
	fixture := `<html><head><script id="__NEXT_DATA__" type="application/json">{
	  "props": {"pageProps": {
	    "catalog": {"hits": [{"sku": "PRIMARY"}]},
	    "initialState": {"products": [{"sku": "SECONDARY"}]}
	  }}
	}</script></head></html>`

	e := NewStructuredExtractor(newTestNormalizer(), logrus.New())
	doc, err := ParseHTML(fixture)
	require.NoError(t, err)

	products, err := e.Extract(doc)

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "PRIMARY", products[0].ID)
}
