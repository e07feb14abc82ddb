package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"vendora/storescraper/config"
	"vendora/storescraper/helpers"
	"vendora/storescraper/internal/browser"
	"vendora/storescraper/internal/extract"
	"vendora/storescraper/internal/scraper"
	"vendora/storescraper/logger"
	"vendora/storescraper/services/cache"
	"vendora/storescraper/services/publisher"
	"vendora/storescraper/services/worker"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	var (
		selectorFlag  = flag.String("selector", "", "CSS selector override for product card containers")
		maxFlag       = flag.Int("max", 0, "maximum number of products (0 = configured default)")
		preScrollFlag = flag.Bool("prescroll", true, "stimulate lazy loading by scrolling before extraction")
		waitFlag      = flag.String("wait", "", "CSS selector to wait for before extraction")
		saveFlag      = flag.Bool("save", true, "persist the result as a JSON file")
		outputFlag    = flag.String("output", "", "output directory (default from OUTPUT_DIR)")
		watchFlag     = flag.Bool("watch", false, "scrape TARGET_URLS on an interval instead of a one-shot run")
	)
	flag.Parse()

	// Load and validate configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	if *outputFlag != "" {
		cfg.OutputDir = *outputFlag
	}

	opts := scraper.Options{
		ProductSelector: *selectorFlag,
		MaxProducts:     *maxFlag,
		PreScroll:       *preScrollFlag,
		WaitSelector:    *waitFlag,
		Selectors:       extract.CardSelectors{},
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	driver, err := browser.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to start browser")
	}
	defer driver.Close()

	var guard *cache.NavGuard
	if cfg.CacheEnabled() {
		guard = cache.NewNavGuard(cache.NewMemcacheService(cfg.MemcacheAddr), cfg.NavBlockSeconds)
		logger.Info("Connected to Memcache at %s", cfg.MemcacheAddr)
	}

	s := scraper.New(driver, guard, cfg)

	if *watchFlag {
		runWatch(ctx, cancel, s, cfg, opts, log)
		return
	}

	target := flag.Arg(0)
	if target == "" {
		fmt.Fprintln(os.Stderr, "usage: storescraper [flags] <url>")
		flag.PrintDefaults()
		return
	}

	runOnce(ctx, s, cfg, opts, target, *saveFlag)
}

// runOnce scrapes one URL, prints a summary and optionally persists the
// result. Failures are logged; a zero-length result is not a process
// failure since this is a best-effort diagnostic tool.
func runOnce(ctx context.Context, s *scraper.Scraper, cfg *config.Config, opts scraper.Options, target string, save bool) {
	log := logger.Default

	result, err := s.Scrape(ctx, target, opts)
	if err != nil {
		log.Error().Str("url", target).Err(err).Msg("Scrape failed")
		return
	}

	fmt.Printf("Scraped %s in %s\n", result.URL, result.Duration.Round(time.Millisecond))
	fmt.Printf("  fragments: %d, products: %d, enriched: %d\n", result.Fragments, len(result.Products), result.Enriched)
	for _, p := range result.Products {
		complete := " "
		if p.IsComplete {
			complete = "*"
		}
		fmt.Printf("  [%3d]%s %s (%.2f)\n", p.QualityScore, complete, p.Name, p.Price)
	}

	if !save || len(result.Products) == 0 {
		return
	}

	path, err := writeProducts(cfg.OutputDir, result)
	if err != nil {
		log.Error().Err(err).Msg("Failed to write output file")
		return
	}
	fmt.Printf("Wrote %s\n", path)
}

// runWatch runs the interval worker until a shutdown signal arrives
func runWatch(ctx context.Context, cancel context.CancelFunc, s *scraper.Scraper, cfg *config.Config, opts scraper.Options, log *logger.Logger) {
	if len(cfg.TargetURLs) == 0 {
		log.Fatal().Msg("Watch mode needs TARGET_URLS")
	}

	var pub publisher.Publisher
	if cfg.PublishEnabled() {
		pub = publisher.NewRedisPublisher(ctx, cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream, cfg.RedisStreamCount, cfg.RedisStreamMaxLength)
		defer pub.Close()
		logger.Info("Connected to Redis at %s (DB: %d, Stream: %s)", cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream)
	}

	log.Info().
		Str("environment", cfg.Environment).
		Dur("interval", cfg.ScrapeInterval).
		Int("targets", len(cfg.TargetURLs)).
		Msg("Starting watch mode")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	w := worker.NewWorker(ctx, s, pub, cfg.TargetURLs, opts, cfg.ScrapeInterval)

	workerDone := make(chan struct{})
	go func() {
		w.Start()
		close(workerDone)
	}()

	select {
	case sig := <-sigChan:
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
		<-workerDone
	case <-workerDone:
	}

	log.Info().Msg("Shutting down gracefully...")
}

// writeProducts persists the canonical products as pretty-printed JSON. The
// file name combines the sanitized host with an ISO-8601 timestamp whose
// ':' and '.' are replaced for filesystem safety.
func writeProducts(dir string, result *scraper.Result) (string, error) {
	data, err := json.MarshalIndent(result.Products, "", "  ")
	if err != nil {
		return "", err
	}

	timestamp := strings.NewReplacer(":", "-", ".", "-").Replace(time.Now().UTC().Format(time.RFC3339))
	name := fmt.Sprintf("products_%s_%s.json", helpers.SanitizeHostname(result.Host), timestamp)
	path := filepath.Join(dir, name)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
