package browser

import (
	"context"
	"time"
)

// In-page scripts used by the lazy-load stimulation. Kept as named
// constants so tests can fake a page by switching on them.
const (
	jsScrollHeight = `() => document.scrollingElement ? document.scrollingElement.scrollHeight : document.body.scrollHeight`
	jsScrollBy     = `(step) => window.scrollBy(0, step)`
	jsScrollBottom = `() => window.scrollY + window.innerHeight`
	jsScrollTop    = `() => window.scrollTo(0, 0)`
)

// StimulateLazyLoad scrolls the page down in fixed increments to trigger
// lazy-loaded content, re-measuring the scrollable height after each step.
// It stops when the height stops growing, when the viewport bottom has
// reached the last measured height, or after maxSteps increments, whichever
// comes first; infinite-scroll pages that keep growing are therefore still
// bounded. The page is scrolled back to top before returning. Returns the
// number of scroll increments performed.
func StimulateLazyLoad(ctx context.Context, page Page, maxSteps, stepPx int, delay time.Duration) int {
	steps := 0
	lastHeight := -1.0

	for steps < maxSteps {
		var height float64
		if err := page.Eval(ctx, jsScrollHeight, &height); err != nil {
			break
		}
		if lastHeight >= 0 && height <= lastHeight {
			break
		}
		lastHeight = height

		if err := page.Eval(ctx, jsScrollBy, nil, stepPx); err != nil {
			break
		}
		steps++

		select {
		case <-ctx.Done():
			_ = page.Eval(ctx, jsScrollTop, nil)
			return steps
		case <-time.After(delay):
		}

		var bottom float64
		if err := page.Eval(ctx, jsScrollBottom, &bottom); err != nil {
			break
		}
		if bottom >= lastHeight {
			break
		}
	}

	_ = page.Eval(ctx, jsScrollTop, nil)
	return steps
}
