package scraper

import (
	"context"
	"net/url"

	"github.com/PuerkitoBio/goquery"

	"vendora/storescraper/internal/browser"
	"vendora/storescraper/internal/extract"
	"vendora/storescraper/internal/product"
)

// enrich visits the detail pages of records flagged for enrichment and
// merges whatever the full pipeline finds there. The candidate set is
// capped to bound total scrape latency. Returns the number of records whose
// quality score improved.
func (s *Scraper) enrich(ctx context.Context, canonical []product.CanonicalProduct) int {
	attempted := 0
	improved := 0
	for i := range canonical {
		if attempted >= s.cfg.EnrichLimit {
			break
		}
		candidate := &canonical[i]
		if !candidate.NeedsEnrichment || candidate.ProductURL == "" {
			continue
		}
		attempted++
		if s.enrichOne(ctx, candidate) {
			improved++
		}
	}
	if attempted > 0 {
		s.enrichLog.Info().Int("attempted", attempted).Int("improved", improved).Msg("Enrichment pass done")
	}
	return improved
}

// enrichOne re-runs the extraction pipeline on the record's detail page and
// merges matching results in. Server-rendered metadata fetched over plain
// HTTP is tried before paying for a browser load. Every failure mode leaves
// the record at its pre-enrichment state; enrichment is best effort.
func (s *Scraper) enrichOne(ctx context.Context, candidate *product.CanonicalProduct) bool {
	base, err := url.Parse(candidate.ProductURL)
	if err != nil || base.Hostname() == "" {
		return false
	}

	fragments := s.staticFragments(candidate.ProductURL, base)
	if len(fragments) == 0 {
		page, err := s.driver.Load(ctx, candidate.ProductURL, browser.LoadOptions{})
		if err != nil {
			s.enrichLog.Warn().Str("url", candidate.ProductURL).Err(err).Msg("Detail page load failed, keeping record as is")
			return false
		}
		defer page.Close()
		fragments = s.collectFragments(ctx, page, base, Options{}, false)
	}
	if len(fragments) == 0 {
		s.enrichLog.Warn().Str("url", candidate.ProductURL).Msg("Detail page yielded nothing")
		return false
	}

	results := product.NewReconciler(base.Hostname()).Reconcile(fragments)

	before := candidate.QualityScore
	merged := false
	for _, result := range results {
		frag := product.ProductFragment(result)
		if frag.ProductURL == candidate.ProductURL || product.NamesMatch(frag.Name, candidate.Name) {
			candidate.Merge(frag)
			merged = true
		}
	}
	// A detail page describes one product; when nothing matched by name or
	// URL (placeholder names, redirects), a sole result is still trusted
	if !merged && len(results) == 1 {
		candidate.Merge(product.ProductFragment(results[0]))
	}

	candidate.Rescore(s.cfg.EnrichThreshold)
	return candidate.QualityScore > before
}

// staticFragments fetches a detail page over plain HTTP and extracts only
// the embedded JSON fragments. Storefronts that render product metadata
// server side make the browser round trip unnecessary.
func (s *Scraper) staticFragments(rawURL string, base *url.URL) []product.ProductFragment {
	if s.fetchHTML == nil {
		return nil
	}
	reader, err := s.fetchHTML(rawURL)
	if err != nil {
		s.enrichLog.Debug().Str("url", rawURL).Err(err).Msg("Static fetch failed, falling back to browser")
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return nil
	}
	return extract.ScriptFragments(doc, base)
}
