// Package scraper orchestrates the extraction pipeline: navigate, stimulate
// lazy loading, gather fragments from structured data and the DOM, reconcile
// them into canonical products, then enrich the weakest records.
package scraper

import (
	"context"
	"io"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"vendora/storescraper/config"
	"vendora/storescraper/helpers"
	"vendora/storescraper/internal/browser"
	"vendora/storescraper/internal/extract"
	"vendora/storescraper/internal/product"
	"vendora/storescraper/logger"
	"vendora/storescraper/pkg/errors"
	"vendora/storescraper/services/cache"
)

// jsAnalyticsMeta reads the analytics-metadata global some storefront
// platforms expose. The try block keeps a broken page script from failing
// the whole lookup.
const jsAnalyticsMeta = `() => {
	try {
		if (window.ShopifyAnalytics && window.ShopifyAnalytics.meta) {
			return JSON.stringify(window.ShopifyAnalytics.meta);
		}
	} catch (e) {}
	return "";
}`

// defaultCardContainers are the container selectors tried, in order, to
// locate product cards on a listing page
var defaultCardContainers = []string{
	"[data-product-id]",
	".product-card",
	".product-item",
	".card-wrapper",
	"li.grid__item",
	"article.card",
	".product",
}

// PageLoader is the browser surface the scraper drives. Satisfied by
// browser.Driver.
type PageLoader interface {
	Load(ctx context.Context, rawURL string, opts browser.LoadOptions) (browser.Page, error)
}

// Options tunes one scrape invocation
type Options struct {
	// ProductSelector overrides the card container selector candidates
	ProductSelector string
	// MaxProducts caps the result size; 0 means the configured default
	MaxProducts int
	// PreScroll triggers lazy-load stimulation before DOM extraction
	PreScroll bool
	// WaitSelector delays extraction until the selector appears
	WaitSelector string
	// Selectors overrides individual field selector candidates
	Selectors extract.CardSelectors
}

// Result is the outcome of one scrape invocation
type Result struct {
	URL       string
	Host      string
	Products  []product.CanonicalProduct
	Fragments int
	Enriched  int
	Duration  time.Duration
}

// Scraper runs the extraction pipeline against one URL at a time. Safe to
// reuse across invocations; not safe for concurrent use of one instance.
type Scraper struct {
	driver PageLoader
	guard  *cache.NavGuard
	cfg    *config.Config

	log       *logger.Logger
	enrichLog *logger.Logger

	// fetchJSON and fetchHTML fetch platform endpoints and detail pages
	// over plain HTTP, bypassing the browser. Swappable in tests; nil
	// disables the respective fast path.
	fetchJSON func(url string) ([]byte, error)
	fetchHTML func(url string) (io.Reader, error)
}

// New creates a scraper. guard may be nil when navigation rate limiting is
// not configured.
func New(driver PageLoader, guard *cache.NavGuard, cfg *config.Config) *Scraper {
	return &Scraper{
		driver:    driver,
		guard:     guard,
		cfg:       cfg,
		log:       logger.ForScraper(),
		enrichLog: logger.ForEnricher(),
		fetchJSON: helpers.FetchJSON,
		fetchHTML: helpers.FetchWithRandomHeaders,
	}
}

// Scrape extracts canonical products from one storefront URL. Only the
// initial navigation failure aborts the operation; every later failure
// degrades to incomplete fields or a smaller result.
func (s *Scraper) Scrape(ctx context.Context, rawURL string, opts Options) (*Result, error) {
	start := time.Now()

	base, err := url.Parse(rawURL)
	if err != nil || base.Hostname() == "" {
		return nil, errors.NewValidation(rawURL, "target is not an absolute URL")
	}
	host := base.Hostname()

	if s.guard.Blocked(host) {
		return nil, errors.NewRateLimit(rawURL, time.Duration(s.cfg.NavBlockSeconds)*time.Second)
	}

	page, err := s.driver.Load(ctx, rawURL, browser.LoadOptions{WaitSelector: opts.WaitSelector})
	if err != nil {
		s.guard.Block(host)
		return nil, err
	}
	defer page.Close()

	fragments := s.collectFragments(ctx, page, base, opts, opts.PreScroll)
	s.log.Debug().Str("url", rawURL).Int("fragments", len(fragments)).Msg("Fragments collected")

	canonical := product.NewReconciler(host).Reconcile(fragments)
	for i := range canonical {
		canonical[i].Rescore(s.cfg.EnrichThreshold)
	}

	enriched := s.enrich(ctx, canonical)

	sort.SliceStable(canonical, func(i, j int) bool {
		return canonical[i].QualityScore > canonical[j].QualityScore
	})

	maxProducts := opts.MaxProducts
	if maxProducts <= 0 {
		maxProducts = s.cfg.MaxProducts
	}
	if maxProducts > 0 && len(canonical) > maxProducts {
		canonical = canonical[:maxProducts]
	}

	return &Result{
		URL:       rawURL,
		Host:      host,
		Products:  canonical,
		Fragments: len(fragments),
		Enriched:  enriched,
		Duration:  time.Since(start),
	}, nil
}

// collectFragments gathers fragments from every source on one loaded page,
// highest-confidence sources first: the platform analytics global, the
// platform catalog endpoint, embedded JSON script blocks, then DOM cards.
func (s *Scraper) collectFragments(ctx context.Context, page browser.Page, base *url.URL, opts Options, preScroll bool) []product.ProductFragment {
	var fragments []product.ProductFragment

	var metaJSON string
	if err := page.Eval(ctx, jsAnalyticsMeta, &metaJSON); err != nil {
		s.log.Debug().Str("url", base.String()).Err(err).Msg("Analytics global lookup failed")
	}
	if metaJSON != "" {
		metaFrags := extract.MetaFragments([]byte(metaJSON))
		fragments = append(fragments, metaFrags...)

		if len(metaFrags) > 0 && s.fetchJSON != nil {
			catalogURL := (&url.URL{Scheme: base.Scheme, Host: base.Host, Path: "/products.json"}).String()
			if data, err := s.fetchJSON(catalogURL); err == nil {
				fragments = append(fragments, extract.CatalogFragments(data, base)...)
			} else {
				s.log.Debug().Str("url", catalogURL).Err(err).Msg("Catalog endpoint unavailable")
			}
		}
	}

	if preScroll {
		steps := browser.StimulateLazyLoad(ctx, page, s.cfg.ScrollMaxSteps, s.cfg.ScrollStepPx, s.cfg.ScrollDelay)
		s.log.Debug().Str("url", base.String()).Int("steps", steps).Msg("Lazy-load stimulation done")
	}

	html, err := page.HTML(ctx)
	if err != nil {
		s.log.Warn().Str("url", base.String()).Err(err).Msg("DOM serialization failed, structured fragments only")
		return fragments
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		s.log.Warn().Str("url", base.String()).Err(err).Msg("DOM parse failed, structured fragments only")
		return fragments
	}

	fragments = append(fragments, extract.ScriptFragments(doc, base)...)

	builder := extract.NewBuilder(extract.PageInfo{Base: base, Title: page.Title(ctx)}, opts.Selectors)

	cards := s.findCards(doc, opts.ProductSelector)
	if cards != nil && cards.Length() > 0 {
		cards.Each(func(i int, card *goquery.Selection) {
			if frag := builder.FromElement(card); frag != nil {
				fragments = append(fragments, *frag)
			}
		})
		return fragments
	}

	// No card containers: treat the page as a single-product page
	root := doc.Find("main")
	if root.Length() == 0 {
		root = doc.Find("body")
	}
	if root.Length() > 0 {
		if frag := builder.FromElement(root.First()); frag != nil {
			fragments = append(fragments, *frag)
		}
	}
	return fragments
}

// findCards locates product-card containers. An explicit override is used
// as-is; otherwise the default candidates are tried in order and the first
// one that matches wins.
func (s *Scraper) findCards(doc *goquery.Document, override string) *goquery.Selection {
	if override != "" {
		return doc.Find(override)
	}
	for _, selector := range defaultCardContainers {
		if cards := doc.Find(selector); cards.Length() > 0 {
			return cards
		}
	}
	return nil
}
