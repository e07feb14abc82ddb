package publisher

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strconv"

	"math/rand"

	"github.com/redis/go-redis/v9"

	"vendora/storescraper/internal/product"
	"vendora/storescraper/pkg/errors"
)

// RedisPublisher implements Publisher using Redis streams. Product batches
// are JSON-encoded, then base64-encoded so downstream consumers never deal
// with stream-field escaping.
type RedisPublisher struct {
	client          *redis.Client
	ctx             context.Context
	streamPrefix    string
	streamCount     int
	streamMaxLength int
}

// NewRedisPublisher creates a new Redis publisher
func NewRedisPublisher(ctx context.Context, addr string, db int, streamPrefix string, streamCount int, streamMaxLength int) *RedisPublisher {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	return &RedisPublisher{
		client:          client,
		ctx:             ctx,
		streamPrefix:    streamPrefix,
		streamCount:     streamCount,
		streamMaxLength: streamMaxLength,
	}
}

// PublishProducts publishes one scrape's canonical products to a Redis
// stream, keyed by storefront host
func (p *RedisPublisher) PublishProducts(host string, products []product.CanonicalProduct) error {
	if len(products) == 0 {
		return nil
	}

	message, err := json.Marshal(products)
	if err != nil {
		return errors.NewPublisher(host, "cannot encode products", err)
	}
	encodedMessage := base64.StdEncoding.EncodeToString(message)

	// random stream name by streamCount
	// if streamCount is 10, stream name will be products:0 ~ products:9
	stream := p.streamPrefix + ":" + strconv.Itoa(rand.Intn(p.streamCount))

	err = p.client.XAdd(p.ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]interface{}{
			host: encodedMessage,
		},
	}).Err()
	if err != nil {
		return errors.NewPublisher(host, "stream append failed", err)
	}
	return nil
}

// TrimStreams trims all streams to the configured maximum length
func (p *RedisPublisher) TrimStreams() error {
	pattern := p.streamPrefix + ":*"
	streams, err := p.client.Keys(p.ctx, pattern).Result()
	if err != nil {
		return err
	}

	for _, stream := range streams {
		err := p.client.XTrimMaxLen(p.ctx, stream, int64(p.streamMaxLength)).Err()
		if err != nil {
			return err
		}
	}

	return nil
}

// Close closes the Redis connection
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
