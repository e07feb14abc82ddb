package extract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"vendora/storescraper/helpers"
	"vendora/storescraper/internal/product"
)

const nameFallbackMaxLen = 80

// placeholderTitles are page titles too generic to recover a product name
// from
var placeholderTitles = []string{"page", "home", "accueil", "index", "shop", "store"}

// CardSelectors carries the prioritized CSS selector candidates for each
// product field, most specific first. Callers override individual lists to
// tune extraction for one storefront; zero-valued lists fall back to the
// defaults.
type CardSelectors struct {
	Name        []string
	Price       []string
	Image       []string
	Link        []string
	Description []string
	SKU         []string
	Brand       []string
	Category    []string

	SizeSelects  []string
	SizeLists    []string
	ColorSelects []string
	ColorLists   []string
}

// DefaultCardSelectors returns the selector candidates that cover common
// storefront themes
func DefaultCardSelectors() CardSelectors {
	return CardSelectors{
		Name: []string{
			"[itemprop=name]",
			".product-title", ".product-name", ".product__title",
			".card__heading", ".card-title",
			"h1", "h2", "h3",
			"a[href*='/product']",
		},
		Price: []string{
			"[itemprop=price]",
			".price__current", ".price-item--regular", ".product-price",
			".price", ".amount", "[data-price]",
		},
		Image: []string{
			"img[itemprop=image]",
			".product-image", ".product__media", ".card__media",
			"picture", "img",
		},
		Link: []string{
			"a[href*='/products/']", "a[href*='/product/']", "a[href]",
		},
		Description: []string{
			"[itemprop=description]",
			".product-description", ".product__description",
			".description", ".card__description", "p",
		},
		SKU: []string{
			"[itemprop=sku]", ".sku", "[data-sku]",
		},
		Brand: []string{
			"[itemprop=brand]", ".product-vendor", ".brand", ".vendor",
		},
		Category: []string{
			"[itemprop=category]", ".product-category", ".category", ".breadcrumb li:last-child",
		},
		SizeSelects: []string{
			"select[name*=size]", "select[name*=Size]", "select[id*=size]", "select[data-option*=size]",
		},
		SizeLists: []string{
			".size-options li", ".sizes li", "[data-option-name*=size] li",
			".swatch--size label", "fieldset[name*=size] label",
		},
		ColorSelects: []string{
			"select[name*=color]", "select[name*=Color]", "select[id*=color]",
		},
		ColorLists: []string{
			".color-swatches li", ".colors li", ".swatch--color label",
			"[data-option-name*=color] li",
		},
	}
}

// merged fills zero-valued lists from the defaults
func (c CardSelectors) merged() CardSelectors {
	defaults := DefaultCardSelectors()
	pick := func(override, fallback []string) []string {
		if len(override) > 0 {
			return override
		}
		return fallback
	}
	return CardSelectors{
		Name:         pick(c.Name, defaults.Name),
		Price:        pick(c.Price, defaults.Price),
		Image:        pick(c.Image, defaults.Image),
		Link:         pick(c.Link, defaults.Link),
		Description:  pick(c.Description, defaults.Description),
		SKU:          pick(c.SKU, defaults.SKU),
		Brand:        pick(c.Brand, defaults.Brand),
		Category:     pick(c.Category, defaults.Category),
		SizeSelects:  pick(c.SizeSelects, defaults.SizeSelects),
		SizeLists:    pick(c.SizeLists, defaults.SizeLists),
		ColorSelects: pick(c.ColorSelects, defaults.ColorSelects),
		ColorLists:   pick(c.ColorLists, defaults.ColorLists),
	}
}

// PageInfo is the page-level context a builder needs beyond the element
// itself
type PageInfo struct {
	Base  *url.URL
	Title string
}

// Builder assembles one ProductFragment per discovered DOM element. The
// field extractors do the individual lookups; the builder sequences them,
// applies post-processing and decides whether the element yielded a valid
// observation.
type Builder struct {
	selectors CardSelectors
	page      PageInfo
}

// NewBuilder creates a fragment builder for one loaded page
func NewBuilder(page PageInfo, selectors CardSelectors) *Builder {
	return &Builder{
		selectors: selectors.merged(),
		page:      page,
	}
}

// FromElement extracts a fragment from one product-card element. Returns
// nil when no name could be resolved, placeholder recovery included.
// Fragments built this way are flagged for enrichment since the DOM path is
// the lowest-confidence source.
func (b *Builder) FromElement(s *goquery.Selection) *product.ProductFragment {
	frag := &product.ProductFragment{
		NeedsEnrichment: true,
	}

	frag.Description = collapseWhitespace(TextFromSelectors(s, b.selectors.Description))
	frag.SKU = TextFromSelectors(s, b.selectors.SKU)
	frag.Brand = TextFromSelectors(s, b.selectors.Brand)
	frag.Category = TextFromSelectors(s, b.selectors.Category)

	priceText := FirstMatch(s, []TextStrategy{
		func(s *goquery.Selection) string { return TextFromSelectors(s, b.selectors.Price) },
		func(s *goquery.Selection) string {
			return AttrFromSelectors(s, []string{"[data-price]"}, "data-price", "")
		},
	})
	frag.Price = ParsePrice(priceText)

	if src := b.imageSource(s); src != "" {
		frag.ImageURL = helpers.ResolveURL(b.page.Base, src)
		frag.ImageURLs = []string{frag.ImageURL}
	}

	if href := AttrFromSelectors(s, b.selectors.Link, "href", "a"); href != "" {
		frag.ProductURL = helpers.ResolveURL(b.page.Base, href)
	}

	frag.Sizes = Options(s, b.selectors.SizeSelects, b.selectors.SizeLists)
	frag.Colors = Options(s, b.selectors.ColorSelects, b.selectors.ColorLists)

	name := FirstMatch(s, []TextStrategy{
		func(s *goquery.Selection) string { return TextFromSelectors(s, b.selectors.Name) },
		func(s *goquery.Selection) string { return OwnTextFallback(s, nameFallbackMaxLen) },
	})
	name = collapseWhitespace(name)
	frag.Name = b.recoverName(name, frag)
	if strings.TrimSpace(frag.Name) == "" {
		return nil
	}

	return frag
}

// imageSource tries src first, then the lazy-load attribute conventions
func (b *Builder) imageSource(s *goquery.Selection) string {
	if src := AttrFromSelectors(s, b.selectors.Image, "src", "img"); src != "" && !strings.HasPrefix(src, "data:") {
		return src
	}
	for _, attr := range []string{"data-src", "data-lazy-src", "data-original"} {
		if src := AttrFromSelectors(s, b.selectors.Image, attr, "img"); src != "" {
			return src
		}
	}
	if srcset := AttrFromSelectors(s, b.selectors.Image, "srcset", "img"); srcset != "" {
		first := strings.Fields(strings.Split(srcset, ",")[0])
		if len(first) > 0 {
			return first[0]
		}
	}
	return ""
}

// recoverName substitutes a better name when the extracted one looks like a
// camera filename (IMG_123, DSC_042, 17.jpg). Recovery order: first sentence
// of the description, the page title unless it is a generic placeholder, a
// name synthesized from the brand, finally the literal placeholder. The
// fragment is never discarded here; a placeholder-named fragment may still
// merge into a properly named group during reconciliation.
func (b *Builder) recoverName(name string, frag *product.ProductFragment) string {
	if name != "" && !product.IsPlaceholderName(name) {
		return name
	}

	if sentence := helpers.FirstSentence(frag.Description, nameFallbackMaxLen); sentence != "" {
		return sentence
	}
	if title := usablePageTitle(b.page.Title); title != "" {
		return title
	}
	if frag.Brand != "" {
		return frag.Brand + " Product"
	}
	return name
}

// usablePageTitle trims a site-name suffix off the page title and rejects
// generic placeholders
func usablePageTitle(title string) string {
	title = strings.TrimSpace(title)
	for _, sep := range []string{" | ", " – ", " - "} {
		if idx := strings.Index(title, sep); idx > 0 {
			title = strings.TrimSpace(title[:idx])
			break
		}
	}
	if title == "" {
		return ""
	}
	lower := strings.ToLower(title)
	for _, placeholder := range placeholderTitles {
		if lower == placeholder {
			return ""
		}
	}
	return title
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
