package product

import (
	"regexp"
	"strings"
)

// Patterns that identify names which are almost certainly camera or asset
// filenames leaking through a storefront theme (IMG_1234, DSC_0042, P123,
// 0042.jpg).
var placeholderNameRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(?:IMG|DSC|PIC|P)[-_ ]?\d+$`),
	regexp.MustCompile(`(?i)^\d+\.(?:jpe?g|png|gif|webp)$`),
}

// IsPlaceholderName reports whether a name matches a known camera or
// file-name pattern rather than a plausible product name
func IsPlaceholderName(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return true
	}
	for _, re := range placeholderNameRes {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}

// preferNonEmpty returns a unless it is empty, then b
func preferNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

// preferLonger returns whichever string is longer, a winning ties
func preferLonger(a, b string) string {
	if len(b) > len(a) {
		return b
	}
	return a
}

// preferPositive returns a unless it is non-positive, then b
func preferPositive(a, b float64) float64 {
	if a > 0 {
		return a
	}
	return b
}

// preferRealName prefers whichever name is not a camera/file-name match;
// when both or neither are, the first non-empty operand wins
func preferRealName(a, b string) string {
	aPlaceholder := IsPlaceholderName(a)
	bPlaceholder := IsPlaceholderName(b)
	if aPlaceholder && !bPlaceholder {
		return b
	}
	if bPlaceholder && !aPlaceholder {
		return a
	}
	return preferNonEmpty(a, b)
}

// unionStrings unions two string lists, deduplicated, preserving first-seen order
func unionStrings(a, b []string) []string {
	if len(a) == 0 {
		return append([]string(nil), b...)
	}
	seen := make(map[string]bool, len(a)+len(b))
	var out []string
	for _, list := range [][]string{a, b} {
		for _, v := range list {
			if v == "" || seen[v] {
				continue
			}
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

// unionVariants unions two variant lists, deduplicating by id when present
// and by sku/color/size otherwise
func unionVariants(a, b []Variant) []Variant {
	if len(a) == 0 {
		return append([]Variant(nil), b...)
	}
	seen := make(map[string]bool, len(a)+len(b))
	key := func(v Variant) string {
		if v.ID != "" {
			return "id:" + v.ID
		}
		return v.SKU + "|" + v.Color + "|" + v.Size
	}
	var out []Variant
	for _, list := range [][]Variant{a, b} {
		for _, v := range list {
			k := key(v)
			if seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, v)
		}
	}
	return out
}

// Merge folds a fragment into the canonical record. First-populated wins per
// field, except: names avoid camera/file-name patterns, descriptions prefer
// the longer text, prices prefer the first non-zero value, and list fields
// are unioned.
func (p *CanonicalProduct) Merge(f ProductFragment) {
	p.ExternalID = preferNonEmpty(p.ExternalID, f.ExternalID)
	p.Name = preferRealName(p.Name, f.Name)
	p.Price = preferPositive(p.Price, f.Price)
	p.Description = preferLonger(p.Description, f.Description)
	p.ImageURL = preferNonEmpty(p.ImageURL, f.ImageURL)
	p.ImageURLs = unionStrings(p.ImageURLs, f.ImageURLs)
	p.ProductURL = preferNonEmpty(p.ProductURL, f.ProductURL)
	p.SKU = preferNonEmpty(p.SKU, f.SKU)
	p.Brand = preferNonEmpty(p.Brand, f.Brand)
	p.Category = preferNonEmpty(p.Category, f.Category)
	p.Colors = unionStrings(p.Colors, f.Colors)
	p.Sizes = unionStrings(p.Sizes, f.Sizes)
	p.Variants = unionVariants(p.Variants, f.Variants)
	if p.Stock == nil {
		p.Stock = f.Stock
	}
	p.NeedsEnrichment = p.NeedsEnrichment || f.NeedsEnrichment
}
