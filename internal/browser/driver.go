// Package browser wraps the headless-browser automation layer. The driver
// owns the browser process; pages it hands out implement the Page surface
// the extraction pipeline consumes.
package browser

import (
	"context"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"vendora/storescraper/config"
	"vendora/storescraper/logger"
	"vendora/storescraper/pkg/errors"
)

// LoadOptions tunes one page load
type LoadOptions struct {
	// WaitSelector, when set, delays the load result until the selector
	// appears. A miss is logged, not fatal.
	WaitSelector string
}

// Driver owns one browser instance shared across page loads
type Driver struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	cfg      *config.Config
	log      *logger.Logger

	closeOnce sync.Once
	closeErr  error
}

// New launches a headless browser, or connects to a remote debugging
// endpoint when one is configured
func New(cfg *config.Config) (*Driver, error) {
	log := logger.ForBrowser()

	if cfg.BrowserRemoteURL != "" {
		browser := rod.New().ControlURL(cfg.BrowserRemoteURL)
		if err := browser.Connect(); err != nil {
			return nil, errors.NewConfiguration("cannot connect to remote browser", err)
		}
		log.Info().Str("url", cfg.BrowserRemoteURL).Msg("Connected to remote browser")
		return &Driver{browser: browser, cfg: cfg, log: log}, nil
	}

	l := launcher.New().
		Headless(true).
		Set("no-sandbox").
		Set("disable-gpu").
		Set("disable-dev-shm-usage")
	if cfg.BrowserBin != "" {
		l = l.Bin(cfg.BrowserBin)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, errors.NewConfiguration("cannot launch browser", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Cleanup()
		return nil, errors.NewConfiguration("cannot connect to launched browser", err)
	}

	log.Debug().Msg("Launched headless browser")
	return &Driver{browser: browser, launcher: l, cfg: cfg, log: log}, nil
}

// Load navigates a fresh tab to the URL and waits for DOM ready, then
// separately for network idle. Navigation failures and HTTP error statuses
// propagate as navigation errors; an idle-wait timeout is tolerated since
// storefronts with long-polling never go fully idle.
func (d *Driver) Load(ctx context.Context, rawURL string, opts LoadOptions) (Page, error) {
	tab, err := d.browser.Page(proto.TargetCreateTarget{URL: ""})
	if err != nil {
		return nil, errors.NewNavigation(rawURL, "cannot open tab", err)
	}

	navCtx, cancel := context.WithTimeout(ctx, d.cfg.NavTimeout)
	defer cancel()

	if err := tab.Context(navCtx).Navigate(rawURL); err != nil {
		_ = tab.Close()
		return nil, errors.NewNavigation(rawURL, "navigation failed", err)
	}
	if err := tab.Context(navCtx).WaitLoad(); err != nil {
		_ = tab.Close()
		return nil, errors.NewNavigation(rawURL, "page did not reach DOM ready", err)
	}

	page := &rodPage{page: tab, url: rawURL}

	if status := d.responseStatus(ctx, page); status >= 400 {
		_ = tab.Close()
		return nil, errors.NewNavigation(rawURL, "server returned error status", nil)
	}

	idleCtx, cancelIdle := context.WithTimeout(ctx, d.cfg.IdleTimeout)
	if err := tab.Context(idleCtx).WaitIdle(d.cfg.IdleTimeout); err != nil {
		d.log.Warn().Str("url", rawURL).Err(err).Msg("Network idle wait timed out, continuing")
	}
	cancelIdle()

	if opts.WaitSelector != "" {
		waitCtx, cancelWait := context.WithTimeout(ctx, d.cfg.IdleTimeout)
		if _, err := tab.Context(waitCtx).Element(opts.WaitSelector); err != nil {
			d.log.Warn().Str("url", rawURL).Str("selector", opts.WaitSelector).Msg("Wait selector never appeared, continuing")
		}
		cancelWait()
	}

	d.log.Debug().Str("url", rawURL).Msg("Page loaded")
	return page, nil
}

// responseStatus reads the navigation entry's HTTP status from the page.
// Returns 0 when the browser does not expose it.
func (d *Driver) responseStatus(ctx context.Context, page Page) int {
	var status int
	err := page.Eval(ctx, `() => {
		const nav = performance.getEntriesByType('navigation')[0];
		return (nav && nav.responseStatus) || 0;
	}`, &status)
	if err != nil {
		return 0
	}
	return status
}

// Close releases the browser and the launched process; idempotent
func (d *Driver) Close() error {
	d.closeOnce.Do(func() {
		if d.browser != nil {
			d.closeErr = d.browser.Close()
		}
		if d.launcher != nil {
			d.launcher.Cleanup()
		}
	})
	return d.closeErr
}
