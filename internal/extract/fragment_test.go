package extract

import (
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cardSelection(t *testing.T, html string) *goquery.Selection {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	card := doc.Find(".card")
	require.Equal(t, 1, card.Length())
	return card
}

func testBuilder(t *testing.T, title string) *Builder {
	t.Helper()
	base, err := url.Parse("https://shop.example.com/collections/all")
	require.NoError(t, err)
	return NewBuilder(PageInfo{Base: base, Title: title}, CardSelectors{})
}

func TestFromElementFullCard(t *testing.T) {
	card := cardSelection(t, `<div class="card">
		<a href="/products/summer-dress"><img src="/img/dress.jpg"></a>
		<h3 class="product-title">Summer Dress</h3>
		<span class="price">€ 19,99</span>
		<p class="description">A breezy summer dress in organic cotton.</p>
	</div>`)

	frag := testBuilder(t, "Shop").FromElement(card)
	require.NotNil(t, frag)

	assert.Equal(t, "Summer Dress", frag.Name)
	assert.Equal(t, 19.99, frag.Price)
	assert.Equal(t, "https://shop.example.com/img/dress.jpg", frag.ImageURL)
	assert.Equal(t, "https://shop.example.com/products/summer-dress", frag.ProductURL)
	assert.Equal(t, "A breezy summer dress in organic cotton.", frag.Description)
	assert.True(t, frag.NeedsEnrichment, "DOM extraction is the low-confidence path")
}

func TestFromElementLazyImage(t *testing.T) {
	card := cardSelection(t, `<div class="card">
		<h3>Classic Tee</h3>
		<img src="data:image/gif;base64,R0lGOD" data-src="/img/tee.jpg">
	</div>`)

	frag := testBuilder(t, "Shop").FromElement(card)
	require.NotNil(t, frag)
	assert.Equal(t, "https://shop.example.com/img/tee.jpg", frag.ImageURL, "data: URI placeholder skipped in favor of data-src")
}

func TestFromElementNoName(t *testing.T) {
	card := cardSelection(t, `<div class="card"><img src="/img/banner.jpg"></div>`)
	assert.Nil(t, testBuilder(t, "").FromElement(card))
}

func TestCameraNameRecoveryFromDescription(t *testing.T) {
	card := cardSelection(t, `<div class="card">
		<h3>IMG_1234</h3>
		<p class="description">Handmade ceramic vase with blue glaze. Ships worldwide.</p>
	</div>`)

	frag := testBuilder(t, "Shop").FromElement(card)
	require.NotNil(t, frag)
	assert.Equal(t, "Handmade ceramic vase with blue glaze.", frag.Name)
}

func TestCameraNameRecoveryFromPageTitle(t *testing.T) {
	card := cardSelection(t, `<div class="card"><h3>DSC_0042</h3></div>`)

	frag := testBuilder(t, "Handmade Vase – Atelier Example").FromElement(card)
	require.NotNil(t, frag)
	assert.Equal(t, "Handmade Vase", frag.Name, "site-name suffix trimmed from page title")
}

func TestCameraNameRecoverySkipsPlaceholderTitle(t *testing.T) {
	card := cardSelection(t, `<div class="card">
		<h3>042.jpg</h3>
		<span class="brand">Acme</span>
	</div>`)

	frag := testBuilder(t, "Home").FromElement(card)
	require.NotNil(t, frag)
	assert.Equal(t, "Acme Product", frag.Name, "generic page title rejected, brand synthesis used")
}

func TestCameraNameRecoveryKeepsLiteralAsLastResort(t *testing.T) {
	card := cardSelection(t, `<div class="card"><h3>P1234</h3><span class="price">$5</span></div>`)

	frag := testBuilder(t, "Home").FromElement(card)
	require.NotNil(t, frag, "placeholder-named fragments are retained, not discarded")
	assert.Equal(t, "P1234", frag.Name)
	assert.Equal(t, 5.0, frag.Price)
}

func TestSelectorOverride(t *testing.T) {
	card := cardSelection(t, `<div class="card">
		<h3>Wrong Name</h3>
		<span class="custom-name">Right Name</span>
	</div>`)

	base, _ := url.Parse("https://shop.example.com/")
	builder := NewBuilder(PageInfo{Base: base}, CardSelectors{Name: []string{".custom-name"}})

	frag := builder.FromElement(card)
	require.NotNil(t, frag)
	assert.Equal(t, "Right Name", frag.Name)
}
