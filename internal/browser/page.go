package browser

import (
	"context"
	"encoding/json"

	"github.com/go-rod/rod"

	"vendora/storescraper/pkg/errors"
)

// Page is the loaded-page surface the extraction pipeline works against.
// Implementations must make Eval safe to call after in-page script errors:
// a failing script yields an error result, never a crashed page.
type Page interface {
	// Eval runs a JavaScript function in the page context and decodes its
	// JSON-serializable return value into out. Pass nil out to discard the
	// result.
	Eval(ctx context.Context, js string, out interface{}, args ...interface{}) error
	// HTML returns the current serialized DOM
	HTML(ctx context.Context) (string, error)
	// Title returns the document title, empty on failure
	Title(ctx context.Context) string
	// URL returns the page's current URL after any redirects
	URL() string
	// Close releases the underlying tab; idempotent
	Close() error
}

// rodPage adapts a rod tab to the Page interface
type rodPage struct {
	page   *rod.Page
	url    string
	closed bool
}

func (p *rodPage) Eval(ctx context.Context, js string, out interface{}, args ...interface{}) error {
	res, err := p.page.Context(ctx).Eval(js, args...)
	if err != nil {
		return errors.NewParsing(p.url, "page script evaluation failed", err)
	}
	if out == nil {
		return nil
	}
	data, err := json.Marshal(res.Value.Val())
	if err != nil {
		return errors.NewParsing(p.url, "page script result not serializable", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.NewParsing(p.url, "page script result shape mismatch", err)
	}
	return nil
}

func (p *rodPage) HTML(ctx context.Context) (string, error) {
	res, err := p.page.Context(ctx).Eval(`() => document.documentElement.outerHTML`)
	if err != nil {
		return "", errors.NewParsing(p.url, "dom serialization failed", err)
	}
	return res.Value.Str(), nil
}

func (p *rodPage) Title(ctx context.Context) string {
	res, err := p.page.Context(ctx).Eval(`() => document.title`)
	if err != nil {
		return ""
	}
	return res.Value.Str()
}

func (p *rodPage) URL() string {
	if info, err := p.page.Info(); err == nil && info.URL != "" {
		return info.URL
	}
	return p.url
}

func (p *rodPage) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	return p.page.Close()
}
