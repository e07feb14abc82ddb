package extract

import (
	"encoding/json"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"vendora/storescraper/helpers"
	"vendora/storescraper/internal/product"
)

// analyticsMeta mirrors the analytics global that one storefront platform
// family exposes on every page (window.ShopifyAnalytics.meta). Variant
// prices are integer cents and variant names carry the product title as a
// "Title - VariantTitle" prefix.
type analyticsMeta struct {
	Page struct {
		PageType   string      `json:"pageType"`
		ResourceID json.Number `json:"resourceId"`
	} `json:"page"`
	Product  *analyticsProduct  `json:"product"`
	Products []analyticsProduct `json:"products"`
}

type analyticsProduct struct {
	ID       json.Number        `json:"id"`
	Gid      string             `json:"gid"`
	Vendor   string             `json:"vendor"`
	Type     string             `json:"type"`
	Variants []analyticsVariant `json:"variants"`
}

type analyticsVariant struct {
	ID          json.Number `json:"id"`
	Price       float64     `json:"price"`
	Name        string      `json:"name"`
	PublicTitle string      `json:"public_title"`
	SKU         string      `json:"sku"`
}

// catalogPayload mirrors the /products.json catalog endpoint the same
// platform family serves. Prices here are decimal strings.
type catalogPayload struct {
	Products []catalogProduct `json:"products"`
	Product  *catalogProduct  `json:"product"`
}

type catalogProduct struct {
	ID          json.Number      `json:"id"`
	Title       string           `json:"title"`
	Handle      string           `json:"handle"`
	BodyHTML    string           `json:"body_html"`
	Vendor      string           `json:"vendor"`
	ProductType string           `json:"product_type"`
	Variants    []catalogVariant `json:"variants"`
	Images      []struct {
		Src string `json:"src"`
	} `json:"images"`
	Options []struct {
		Name   string   `json:"name"`
		Values []string `json:"values"`
	} `json:"options"`
}

type catalogVariant struct {
	ID        json.Number `json:"id"`
	Title     string      `json:"title"`
	Option1   string      `json:"option1"`
	Option2   string      `json:"option2"`
	SKU       string      `json:"sku"`
	Price     string      `json:"price"`
	Available *bool       `json:"available"`
}

// MetaFragments parses the analytics global read out of the page context.
// Returns nil when the payload does not carry the expected shape; malformed
// JSON is treated the same as an absent global.
func MetaFragments(data []byte) []product.ProductFragment {
	if len(data) == 0 {
		return nil
	}
	var meta analyticsMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil
	}

	records := meta.Products
	if meta.Product != nil {
		records = append(records, *meta.Product)
	}

	var fragments []product.ProductFragment
	for _, rec := range records {
		if frag, ok := metaFragment(rec); ok {
			fragments = append(fragments, frag)
		}
	}
	return fragments
}

func metaFragment(rec analyticsProduct) (product.ProductFragment, bool) {
	frag := product.ProductFragment{
		ExternalID: rec.ID.String(),
		Brand:      strings.TrimSpace(rec.Vendor),
		Category:   strings.TrimSpace(rec.Type),
	}
	if frag.ExternalID == "" && rec.Gid != "" {
		frag.ExternalID = lastSegment(rec.Gid)
	}

	for _, v := range rec.Variants {
		name, option := splitVariantName(v.Name, v.PublicTitle)
		if frag.Name == "" {
			frag.Name = name
		}
		price := v.Price / 100
		if frag.Price == 0 && price > 0 {
			frag.Price = price
		}
		if frag.SKU == "" {
			frag.SKU = strings.TrimSpace(v.SKU)
		}
		variant := product.Variant{
			ID:    v.ID.String(),
			SKU:   strings.TrimSpace(v.SKU),
			Size:  option,
			Price: price,
		}
		if variant.ID != "" || variant.SKU != "" || variant.Size != "" {
			frag.Variants = append(frag.Variants, variant)
		}
	}

	if strings.TrimSpace(frag.Name) == "" && frag.ExternalID == "" {
		return product.ProductFragment{}, false
	}
	return frag, true
}

// splitVariantName separates "Product Title - Variant Title" into the
// product name and the variant option label
func splitVariantName(name, publicTitle string) (string, string) {
	name = strings.TrimSpace(name)
	publicTitle = strings.TrimSpace(publicTitle)
	if publicTitle != "" && strings.HasSuffix(name, " - "+publicTitle) {
		return strings.TrimSpace(strings.TrimSuffix(name, " - "+publicTitle)), publicTitle
	}
	return name, publicTitle
}

func lastSegment(gid string) string {
	if idx := strings.LastIndex(gid, "/"); idx >= 0 {
		return gid[idx+1:]
	}
	return gid
}

// CatalogFragments parses a /products.json catalog payload into fragments.
// base supplies scheme and host for the product URLs built from handles.
func CatalogFragments(data []byte, base *url.URL) []product.ProductFragment {
	if len(data) == 0 {
		return nil
	}
	var payload catalogPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil
	}

	records := payload.Products
	if payload.Product != nil {
		records = append(records, *payload.Product)
	}

	var fragments []product.ProductFragment
	for _, rec := range records {
		if strings.TrimSpace(rec.Title) == "" {
			continue
		}
		fragments = append(fragments, catalogFragment(rec, base))
	}
	return fragments
}

func catalogFragment(rec catalogProduct, base *url.URL) product.ProductFragment {
	frag := product.ProductFragment{
		ExternalID:  rec.ID.String(),
		Name:        strings.TrimSpace(rec.Title),
		Description: StripHTML(rec.BodyHTML),
		Brand:       strings.TrimSpace(rec.Vendor),
		Category:    strings.TrimSpace(rec.ProductType),
	}

	if rec.Handle != "" && base != nil {
		frag.ProductURL = (&url.URL{Scheme: base.Scheme, Host: base.Host, Path: "/products/" + rec.Handle}).String()
	}

	for _, img := range rec.Images {
		if src := strings.TrimSpace(img.Src); src != "" {
			if frag.ImageURL == "" {
				frag.ImageURL = src
			}
			frag.ImageURLs = append(frag.ImageURLs, src)
		}
	}

	for _, opt := range rec.Options {
		switch strings.ToLower(strings.TrimSpace(opt.Name)) {
		case "size", "sizes", "taille":
			frag.Sizes = append(frag.Sizes, opt.Values...)
		case "color", "colour", "couleur":
			frag.Colors = append(frag.Colors, opt.Values...)
		}
	}

	inStock := 0
	hasAvailability := false
	for _, v := range rec.Variants {
		price := ParsePrice(v.Price)
		if frag.Price == 0 && price > 0 {
			frag.Price = price
		}
		if frag.SKU == "" {
			frag.SKU = strings.TrimSpace(v.SKU)
		}
		if v.Available != nil {
			hasAvailability = true
			if *v.Available {
				inStock++
			}
		}
		variant := product.Variant{
			ID:    v.ID.String(),
			SKU:   strings.TrimSpace(v.SKU),
			Size:  strings.TrimSpace(v.Option1),
			Color: strings.TrimSpace(v.Option2),
			Price: price,
		}
		if variant.ID != "" || variant.SKU != "" || variant.Size != "" || variant.Color != "" {
			frag.Variants = append(frag.Variants, variant)
		}
	}
	// stock only when the catalog actually reports availability
	if hasAvailability {
		frag.Stock = &inStock
	}

	return frag
}

// ScriptFragments scans the document for <script type="application/json">
// and <script type="application/ld+json"> blocks and converts every
// recognizable product shape into fragments. Unparseable blocks are skipped.
func ScriptFragments(doc *goquery.Document, base *url.URL) []product.ProductFragment {
	var fragments []product.ProductFragment

	doc.Find(`script[type="application/json"]`).Each(func(i int, s *goquery.Selection) {
		data := []byte(s.Text())
		if frags := CatalogFragments(data, base); len(frags) > 0 {
			fragments = append(fragments, frags...)
			return
		}
		fragments = append(fragments, MetaFragments(data)...)
	})

	doc.Find(`script[type="application/ld+json"]`).Each(func(i int, s *goquery.Selection) {
		fragments = append(fragments, linkedDataFragments([]byte(s.Text()), base)...)
	})

	return fragments
}

// linkedDataFragments handles schema.org Product, ItemList and @graph
// containers. The markup in the wild is loose, so fields are read
// defensively from generic maps.
func linkedDataFragments(data []byte, base *url.URL) []product.ProductFragment {
	var root interface{}
	if err := json.Unmarshal(data, &root); err != nil {
		return nil
	}

	var fragments []product.ProductFragment
	walkLinkedData(root, base, &fragments)
	return fragments
}

func walkLinkedData(node interface{}, base *url.URL, out *[]product.ProductFragment) {
	switch v := node.(type) {
	case []interface{}:
		for _, item := range v {
			walkLinkedData(item, base, out)
		}
	case map[string]interface{}:
		switch jsonString(v["@type"]) {
		case "Product":
			if frag, ok := linkedDataProduct(v, base); ok {
				*out = append(*out, frag)
			}
		case "ItemList":
			if items, ok := v["itemListElement"].([]interface{}); ok {
				for _, item := range items {
					entry, ok := item.(map[string]interface{})
					if !ok {
						continue
					}
					if nested, ok := entry["item"]; ok {
						walkLinkedData(nested, base, out)
					} else {
						walkLinkedData(entry, base, out)
					}
				}
			}
		default:
			if graph, ok := v["@graph"]; ok {
				walkLinkedData(graph, base, out)
			}
		}
	}
}

func linkedDataProduct(obj map[string]interface{}, base *url.URL) (product.ProductFragment, bool) {
	frag := product.ProductFragment{
		Name:        jsonString(obj["name"]),
		Description: StripHTML(jsonString(obj["description"])),
		SKU:         jsonString(obj["sku"]),
		Category:    jsonString(obj["category"]),
	}
	if strings.TrimSpace(frag.Name) == "" {
		return product.ProductFragment{}, false
	}

	switch img := obj["image"].(type) {
	case string:
		frag.ImageURL = resolveAgainst(base, img)
	case []interface{}:
		for _, item := range img {
			if src := jsonString(item); src != "" {
				resolved := resolveAgainst(base, src)
				if frag.ImageURL == "" {
					frag.ImageURL = resolved
				}
				frag.ImageURLs = append(frag.ImageURLs, resolved)
			}
		}
	case map[string]interface{}:
		frag.ImageURL = resolveAgainst(base, jsonString(img["url"]))
	}

	switch brand := obj["brand"].(type) {
	case string:
		frag.Brand = brand
	case map[string]interface{}:
		frag.Brand = jsonString(brand["name"])
	}

	if link := jsonString(obj["url"]); link != "" {
		frag.ProductURL = resolveAgainst(base, link)
	}

	switch offers := obj["offers"].(type) {
	case map[string]interface{}:
		frag.Price = offerPrice(offers)
	case []interface{}:
		for _, item := range offers {
			if offer, ok := item.(map[string]interface{}); ok {
				if price := offerPrice(offer); price > 0 {
					frag.Price = price
					break
				}
			}
		}
	}

	return frag, true
}

func offerPrice(offer map[string]interface{}) float64 {
	for _, key := range []string{"price", "lowPrice"} {
		switch v := offer[key].(type) {
		case float64:
			if v > 0 {
				return v
			}
		case string:
			if price := ParsePrice(v); price > 0 {
				return price
			}
		}
	}
	return 0
}

func jsonString(v interface{}) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func resolveAgainst(base *url.URL, href string) string {
	if base == nil {
		return href
	}
	return helpers.ResolveURL(base, href)
}
