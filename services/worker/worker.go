// Package worker implements watch mode: periodic scrapes of a fixed URL
// list with results published to the configured sink.
package worker

import (
	"context"
	"sync"
	"time"

	"vendora/storescraper/internal/scraper"
	"vendora/storescraper/logger"
	"vendora/storescraper/services/publisher"
)

// Scraper is the scrape surface the worker drives. Satisfied by
// scraper.Scraper.
type Scraper interface {
	Scrape(ctx context.Context, rawURL string, opts scraper.Options) (*scraper.Result, error)
}

// Worker scrapes every target URL on a fixed interval and publishes the
// results
type Worker struct {
	ctx       context.Context
	scraper   Scraper
	publisher publisher.Publisher
	targets   []string
	opts      scraper.Options
	interval  time.Duration
	log       *logger.Logger
}

// NewWorker creates a new worker. pub may be nil when no sink is
// configured; results are then scraped for their side effects only (logs,
// downstream file output handled by the caller).
func NewWorker(
	ctx context.Context,
	s Scraper,
	pub publisher.Publisher,
	targets []string,
	opts scraper.Options,
	interval time.Duration,
) *Worker {
	return &Worker{
		ctx:       ctx,
		scraper:   s,
		publisher: pub,
		targets:   targets,
		opts:      opts,
		interval:  interval,
		log:       logger.ForWorker(),
	}
}

// Start runs scrape rounds until the context is cancelled
func (w *Worker) Start() {
	for {
		start := time.Now()
		w.runRound()
		w.log.Info().Dur("elapsed", time.Since(start)).Int("targets", len(w.targets)).Msg("Scrape round done")

		select {
		case <-w.ctx.Done():
			return
		case <-time.After(w.interval):
		}
	}
}

// runRound scrapes all targets in parallel, then trims the streams once
func (w *Worker) runRound() {
	var wg sync.WaitGroup
	for _, target := range w.targets {
		wg.Add(1)
		go func(target string) {
			defer wg.Done()
			w.scrapeAndPublish(target)
		}(target)
	}
	wg.Wait()

	if w.publisher != nil {
		if err := w.publisher.TrimStreams(); err != nil {
			w.log.Error().Err(err).Msg("Stream trimming failed")
		}
	}
}

// scrapeAndPublish runs one target end to end. Failures are logged and
// never stop the round; the next interval retries naturally.
func (w *Worker) scrapeAndPublish(target string) {
	result, err := w.scraper.Scrape(w.ctx, target, w.opts)
	if err != nil {
		w.log.Error().Str("url", target).Err(err).Msg("Scrape failed")
		return
	}

	w.log.Info().
		Str("url", target).
		Int("products", len(result.Products)).
		Int("fragments", result.Fragments).
		Int("enriched", result.Enriched).
		Dur("duration", result.Duration).
		Msg("Scrape done")

	if w.publisher == nil || len(result.Products) == 0 {
		return
	}
	if err := w.publisher.PublishProducts(result.Host, result.Products); err != nil {
		w.log.Error().Str("url", target).Err(err).Msg("Publish failed")
	}
}
