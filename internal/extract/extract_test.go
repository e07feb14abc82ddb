package extract

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func selection(t *testing.T, html string) *goquery.Selection {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc.Selection
}

func TestTextFromSelectorsPriority(t *testing.T) {
	s := selection(t, `<div>
		<h3>Generic Heading</h3>
		<span class="product-title">Summer Dress</span>
	</div>`)

	// The more specific candidate comes first and wins over the heading
	got := TextFromSelectors(s, []string{".product-title", "h3"})
	assert.Equal(t, "Summer Dress", got)

	got = TextFromSelectors(s, []string{".missing", "h3"})
	assert.Equal(t, "Generic Heading", got)

	assert.Equal(t, "", TextFromSelectors(s, []string{".missing"}))
}

func TestOwnTextFallback(t *testing.T) {
	s := selection(t, "<div>  Summer Dress\nSecond line that should be ignored</div>")
	assert.Equal(t, "Summer Dress", OwnTextFallback(s, 80))

	long := selection(t, "<div>"+strings.Repeat("x", 100)+"</div>")
	assert.Len(t, OwnTextFallback(long, 80), 80)
}

func TestAttrFromSelectorsNestedTag(t *testing.T) {
	s := selection(t, `<div>
		<a class="card-link" href="/products/dress"><img src="/img/dress.jpg"></a>
	</div>`)

	assert.Equal(t, "/products/dress", AttrFromSelectors(s, []string{".card-link"}, "href", "a"))
	// The matched element has no src; the nested img supplies it
	assert.Equal(t, "/img/dress.jpg", AttrFromSelectors(s, []string{".card-link"}, "src", "img"))
	assert.Equal(t, "", AttrFromSelectors(s, []string{".card-link"}, "data-id", "img"))
}

func TestOptionsFromSelect(t *testing.T) {
	s := selection(t, `<div>
		<select name="size">
			<option value="">Choose your size</option>
			<option>S</option>
			<option>M</option>
			<option>S</option>
		</select>
		<ul class="sizes"><li>XL</li></ul>
	</div>`)

	got := Options(s, []string{"select[name*=size]"}, []string{".sizes li"})
	assert.Equal(t, []string{"S", "M"}, got, "select strategy wins, placeholder and duplicate dropped")
}

func TestOptionsFromSwatchList(t *testing.T) {
	s := selection(t, `<div>
		<ul class="color-swatches">
			<li title="Navy"></li>
			<li>Red</li>
			<li title="--"></li>
		</ul>
	</div>`)

	got := Options(s, []string{"select[name*=color]"}, []string{".color-swatches li"})
	assert.Equal(t, []string{"Navy", "Red"}, got)
}

func TestOptionsNoConcatenationAcrossStrategies(t *testing.T) {
	s := selection(t, `<div>
		<select name="size"><option>S</option></select>
		<ul class="sizes"><li>M</li><li>L</li></ul>
	</div>`)

	got := Options(s, []string{"select[name*=size]"}, []string{".sizes li"})
	assert.Equal(t, []string{"S"}, got, "lists from different strategies must never concatenate")
}

func TestStripHTML(t *testing.T) {
	got := StripHTML("<p>A  breezy\n<b>summer</b> dress</p>")
	assert.Equal(t, "A breezy summer dress", got)
	assert.Equal(t, "plain", StripHTML("plain"))
}
