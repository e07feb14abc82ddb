package product

import (
	"fmt"
	"strings"

	"vendora/storescraper/helpers"
)

// similarityThreshold is the minimum token-overlap ratio for two names to be
// considered the same product.
const similarityThreshold = 0.7

// Reconciler groups fragments that describe the same underlying product and
// merges them into canonical records. The clustering is greedy and
// single-pass: earlier fragments seed groups that later fragments join, so
// fragment order decides which value wins ties. Accepted trade-off for this
// domain; see NameSimilarity for the matching rule.
type Reconciler struct {
	domain    string
	slugsUsed map[string]int
}

// NewReconciler creates a reconciler for products discovered on one domain.
// The domain feeds synthetic external identifiers.
func NewReconciler(domain string) *Reconciler {
	return &Reconciler{
		domain:    domain,
		slugsUsed: make(map[string]int),
	}
}

// Reconcile merges the given fragments into canonical products. Fragments
// with no name and no identifying URL are dropped. Fragments with a name but
// a non-positive price only seed a group when no existing group matches and
// they carry supplementary detail worth keeping; otherwise they act purely
// as merge donors.
func (r *Reconciler) Reconcile(fragments []ProductFragment) []CanonicalProduct {
	var canonical []CanonicalProduct
	var donors []ProductFragment

	for _, frag := range fragments {
		if strings.TrimSpace(frag.Name) == "" && frag.ExternalID == "" && frag.ProductURL == "" {
			// Not a valid observation and nothing to match it by
			continue
		}

		idx := r.match(canonical, frag)
		if idx >= 0 {
			canonical[idx].Merge(frag)
			continue
		}

		if strings.TrimSpace(frag.Name) == "" || frag.Price <= 0 {
			if frag.HasDetail() {
				// Hold back as a merge donor; it may match a group seeded
				// by a later fragment
				donors = append(donors, frag)
			}
			continue
		}

		seed := CanonicalProduct(frag)
		if seed.ExternalID == "" {
			seed.ExternalID = r.syntheticID(seed.Name)
		}
		canonical = append(canonical, seed)
	}

	// Second pass: donors merge into whichever group they match; unmatched
	// donors are discarded, never promoted to canonical seeds
	for _, donor := range donors {
		if idx := r.match(canonical, donor); idx >= 0 {
			canonical[idx].Merge(donor)
		}
	}

	return canonical
}

// match finds the index of the canonical group the fragment belongs to, or
// -1. Matching rules in precedence order: identical external id, identical
// product URL, name similarity.
func (r *Reconciler) match(canonical []CanonicalProduct, frag ProductFragment) int {
	if frag.ExternalID != "" {
		for i := range canonical {
			if canonical[i].ExternalID == frag.ExternalID {
				return i
			}
		}
	}
	if frag.ProductURL != "" {
		for i := range canonical {
			if canonical[i].ProductURL == frag.ProductURL {
				return i
			}
		}
	}
	if strings.TrimSpace(frag.Name) != "" {
		for i := range canonical {
			if NamesMatch(canonical[i].Name, frag.Name) {
				return i
			}
		}
	}
	return -1
}

// syntheticID builds a deterministic identifier from the domain and the
// slugified name, suffixed when the same slug recurs on one page
func (r *Reconciler) syntheticID(name string) string {
	slug := helpers.Slugify(name)
	if slug == "" {
		slug = "product"
	}
	r.slugsUsed[slug]++
	if n := r.slugsUsed[slug]; n > 1 {
		return fmt.Sprintf("%s-%s-%d", r.domain, slug, n)
	}
	return fmt.Sprintf("%s-%s", r.domain, slug)
}

// NameSimilarity computes the count of case-normalized whitespace tokens
// common to both names divided by the larger token count of the two
func NameSimilarity(a, b string) float64 {
	tokensA := nameTokens(a)
	tokensB := nameTokens(b)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}

	set := make(map[string]bool, len(tokensA))
	for _, tok := range tokensA {
		set[tok] = true
	}
	common := 0
	seen := make(map[string]bool, len(tokensB))
	for _, tok := range tokensB {
		if set[tok] && !seen[tok] {
			common++
			seen[tok] = true
		}
	}

	larger := len(tokensA)
	if len(tokensB) > larger {
		larger = len(tokensB)
	}
	return float64(common) / float64(larger)
}

// nameTokens splits a name into lowercase words, skipping tokens with no
// letters or digits ("-", "|" and similar separators)
func nameTokens(name string) []string {
	var tokens []string
	for _, tok := range strings.Fields(strings.ToLower(name)) {
		if strings.IndexFunc(tok, func(r rune) bool {
			return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r > 127
		}) >= 0 {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// NamesMatch reports whether two product names are similar enough to merge:
// token overlap above the threshold, or one normalized name containing the
// other
func NamesMatch(a, b string) bool {
	normA := strings.ToLower(strings.TrimSpace(a))
	normB := strings.ToLower(strings.TrimSpace(b))
	if normA == "" || normB == "" {
		return false
	}
	if normA == normB {
		return true
	}
	if strings.Contains(normA, normB) || strings.Contains(normB, normA) {
		return true
	}
	return NameSimilarity(a, b) >= similarityThreshold
}
