// Package extract implements the heuristic field lookups that pull single
// product fields out of DOM elements and page-global JSON structures.
//
// Every lookup takes a prioritized list of strategies and returns the first
// non-empty result. Strategies fail silently: a selector that matches
// nothing yields an empty value, never an error.
package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// placeholderOptions are option values that name the control, not a choice
var placeholderOptions = []string{"choose", "select", "--", "---", "size", "color", "colour", "quantity"}

// TextStrategy is one attempt at extracting a string from an element
type TextStrategy func(s *goquery.Selection) string

// FirstMatch applies strategies in order and returns the first non-empty
// result
func FirstMatch(s *goquery.Selection, strategies []TextStrategy) string {
	for _, strategy := range strategies {
		if strategy == nil {
			continue
		}
		if result := strategy(s); result != "" {
			return result
		}
	}
	return ""
}

// TextFromSelectors returns the trimmed text content of the first candidate
// selector that matches, most specific candidates first
func TextFromSelectors(s *goquery.Selection, selectors []string) string {
	for _, selector := range selectors {
		found := s.Find(selector)
		if found.Length() == 0 {
			continue
		}
		if text := strings.TrimSpace(found.First().Text()); text != "" {
			return text
		}
	}
	return ""
}

// OwnTextFallback returns the element's own first line of text, capped at
// maxLen runes. Used when no selector candidate matched.
func OwnTextFallback(s *goquery.Selection, maxLen int) string {
	text := strings.TrimSpace(s.Text())
	if text == "" {
		return ""
	}
	if idx := strings.IndexAny(text, "\n\r"); idx > 0 {
		text = strings.TrimSpace(text[:idx])
	}
	runes := []rune(text)
	if len(runes) > maxLen {
		return strings.TrimSpace(string(runes[:maxLen]))
	}
	return text
}

// AttrFromSelectors reads a named attribute from the first candidate
// selector that matches. When the matched element lacks the attribute, a
// nested tag of the given name inside it is consulted instead.
func AttrFromSelectors(s *goquery.Selection, selectors []string, attr, nestedTag string) string {
	for _, selector := range selectors {
		found := s.Find(selector)
		if found.Length() == 0 {
			continue
		}
		first := found.First()
		if value, exists := first.Attr(attr); exists && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
		if nestedTag != "" {
			nested := first.Find(nestedTag)
			if nested.Length() > 0 {
				if value, exists := nested.First().Attr(attr); exists && strings.TrimSpace(value) != "" {
					return strings.TrimSpace(value)
				}
			}
		}
	}
	return ""
}

// Options extracts a list of option values (sizes, colors) from an element.
// Strategies, in order: option values of a select-like control, then text or
// title/data-value/value attributes of list/swatch children. The first
// strategy producing a non-empty list wins; lists from different strategies
// are never concatenated.
func Options(s *goquery.Selection, selectCandidates, listCandidates []string) []string {
	for _, selector := range selectCandidates {
		var values []string
		s.Find(selector + " option").Each(func(i int, opt *goquery.Selection) {
			value := strings.TrimSpace(opt.Text())
			if value == "" {
				value, _ = opt.Attr("value")
				value = strings.TrimSpace(value)
			}
			if isRealOption(value) {
				values = append(values, value)
			}
		})
		if len(values) > 0 {
			return dedupe(values)
		}
	}

	for _, selector := range listCandidates {
		var values []string
		s.Find(selector).Each(func(i int, item *goquery.Selection) {
			value := strings.TrimSpace(item.Text())
			if value == "" {
				for _, attr := range []string{"title", "data-value", "value"} {
					if v, exists := item.Attr(attr); exists && strings.TrimSpace(v) != "" {
						value = strings.TrimSpace(v)
						break
					}
				}
			}
			if isRealOption(value) {
				values = append(values, value)
			}
		})
		if len(values) > 0 {
			return dedupe(values)
		}
	}

	return nil
}

// isRealOption filters out placeholder entries like "Choose..." or "--"
func isRealOption(value string) bool {
	if value == "" || len(value) > 40 {
		return false
	}
	lower := strings.ToLower(value)
	for _, placeholder := range placeholderOptions {
		if lower == placeholder || strings.HasPrefix(lower, placeholder+" ") || strings.HasPrefix(lower, placeholder+"...") {
			return false
		}
	}
	return true
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	var out []string
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// StripHTML removes markup from an HTML snippet and collapses whitespace
func StripHTML(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return strings.TrimSpace(html)
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
