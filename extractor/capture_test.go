package extractor

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"noon-sync/internal/types"
)

type fakeClipboard struct {
	text string
	err  error
}

func (f *fakeClipboard) WriteAll(text string) error {
	if f.err != nil {
		return f.err
	}
	f.text = text
	return nil
}

func TestCapture_StructuredDataPreferred(t *testing.T) {
	clip := &fakeClipboard{}
	c := NewCaptureExtractor(newTestNormalizer(), clip, logrus.New())

	result := c.Capture(storefrontFixture, pageURL)

	assert.True(t, result.Success)
	assert.Equal(t, 2, result.Count)
	assert.Empty(t, result.Message)

	var copied []types.Product
	require.NoError(t, json.Unmarshal([]byte(clip.text), &copied))
	require.Len(t, copied, 2)
	assert.Equal(t, "Smart Camera", copied[0].Name)
}

func TestCapture_FallsThroughToHeuristic(t *testing.T) {
	// No hydration block, but the rendered grid still has product cards.
	fixture := `<html><body>
	  <a href="/uae-en/office-chair/p/"><img src="/img/c.jpg" alt="Office Chair">549 AED</a>
	</body></html>`

	clip := &fakeClipboard{}
	c := NewCaptureExtractor(newTestNormalizer(), clip, logrus.New())

	result := c.Capture(fixture, pageURL)

	assert.True(t, result.Success)
	assert.Equal(t, 1, result.Count)

	var copied []types.Product
	require.NoError(t, json.Unmarshal([]byte(clip.text), &copied))
	assert.Equal(t, []string{"Scraped"}, copied[0].Tags)
}

func TestCapture_NothingFound(t *testing.T) {
	clip := &fakeClipboard{}
	c := NewCaptureExtractor(newTestNormalizer(), clip, logrus.New())

	result := c.Capture(`<html><body><p>maintenance page</p></body></html>`, pageURL)

	assert.False(t, result.Success)
	assert.Equal(t, 0, result.Count)
	assert.Contains(t, result.Message, "No products found")
	assert.Empty(t, clip.text)
}

func TestCapture_ClipboardFailure(t *testing.T) {
	clip := &fakeClipboard{err: errors.New("clipboard unavailable")}
	c := NewCaptureExtractor(newTestNormalizer(), clip, logrus.New())

	result := c.Capture(storefrontFixture, pageURL)

	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "clipboard unavailable")
}
