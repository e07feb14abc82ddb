package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"vendora/storescraper/helpers"
	"vendora/storescraper/internal/product"
	"vendora/storescraper/internal/scraper"
	"vendora/storescraper/pkg/errors"
)

// mockScraper returns canned results per URL
type mockScraper struct {
	mu      sync.Mutex
	results map[string][]product.CanonicalProduct
	calls   []string
}

func (m *mockScraper) Scrape(ctx context.Context, rawURL string, opts scraper.Options) (*scraper.Result, error) {
	m.mu.Lock()
	m.calls = append(m.calls, rawURL)
	m.mu.Unlock()

	products, ok := m.results[rawURL]
	if !ok {
		return nil, errors.NewNavigation(rawURL, "navigation failed", nil)
	}
	return &scraper.Result{
		URL:      rawURL,
		Host:     helpers.HostOf(rawURL),
		Products: products,
	}, nil
}

// mockPublisher records published batches
type mockPublisher struct {
	mu      sync.Mutex
	batches map[string][]product.CanonicalProduct
	trims   int
}

func newMockPublisher() *mockPublisher {
	return &mockPublisher{batches: make(map[string][]product.CanonicalProduct)}
}

func (m *mockPublisher) PublishProducts(host string, products []product.CanonicalProduct) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batches[host] = products
	return nil
}

func (m *mockPublisher) TrimStreams() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trims++
	return nil
}

func (m *mockPublisher) Close() error { return nil }

func TestWorkerRoundPublishesAllTargets(t *testing.T) {
	s := &mockScraper{results: map[string][]product.CanonicalProduct{
		"https://a.example.com/": {{Name: "Red Mug", Price: 8}},
		"https://b.example.com/": {{Name: "Blue Mug", Price: 9}},
	}}
	pub := newMockPublisher()

	w := NewWorker(context.Background(), s, pub,
		[]string{"https://a.example.com/", "https://b.example.com/"},
		scraper.Options{}, time.Minute)
	w.runRound()

	assert.Len(t, s.calls, 2)
	assert.Len(t, pub.batches["a.example.com"], 1)
	assert.Len(t, pub.batches["b.example.com"], 1)
	assert.Equal(t, 1, pub.trims, "streams trimmed once per round")
}

func TestWorkerRoundToleratesFailedTarget(t *testing.T) {
	s := &mockScraper{results: map[string][]product.CanonicalProduct{
		"https://a.example.com/": {{Name: "Red Mug", Price: 8}},
	}}
	pub := newMockPublisher()

	w := NewWorker(context.Background(), s, pub,
		[]string{"https://a.example.com/", "https://down.example.com/"},
		scraper.Options{}, time.Minute)
	w.runRound()

	assert.Len(t, pub.batches, 1, "only the successful target publishes")
	assert.Equal(t, 1, pub.trims)
}

func TestWorkerStartStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := &mockScraper{results: map[string][]product.CanonicalProduct{}}

	w := NewWorker(ctx, s, nil, []string{"https://a.example.com/"}, scraper.Options{}, time.Hour)

	done := make(chan struct{})
	go func() {
		w.Start()
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop on context cancellation")
	}
}

func TestWorkerNilPublisher(t *testing.T) {
	s := &mockScraper{results: map[string][]product.CanonicalProduct{
		"https://a.example.com/": {{Name: "Red Mug", Price: 8}},
	}}

	w := NewWorker(context.Background(), s, nil, []string{"https://a.example.com/"}, scraper.Options{}, time.Minute)
	w.runRound()

	assert.Len(t, s.calls, 1)
}
