package publisher

import (
	"vendora/storescraper/internal/product"
)

// Publisher represents a sink for scraped product batches
type Publisher interface {
	// PublishProducts publishes one scrape's canonical products, keyed by
	// the storefront host they came from
	PublishProducts(host string, products []product.CanonicalProduct) error

	// TrimStreams trims all streams to the configured maximum length
	TrimStreams() error

	// Close closes the publisher connection
	Close() error
}
