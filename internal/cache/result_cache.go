package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/andresuchdata/cesto-ai/backend-go/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	// Namespaces of the derived text stored by the service.
	InsightsKeyPrefix       = "ai_insights"
	DemandInsightsKeyPrefix = "demand_insights"

	resultScanBatchSize = 100
	defaultResultTTL    = time.Hour
	redisTimeout        = 5 * time.Second
)

var keyPrefixes = []string{InsightsKeyPrefix, DemandInsightsKeyPrefix}

// ResultCache stores generated text with a time-to-live. Writes are plain
// overwrites; a miss only costs a recomputation.
type ResultCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	InvalidateAll(ctx context.Context) error
	Ping(ctx context.Context) error
}

type redisResultCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopResultCache struct{}

// NewResultCache connects to redis when caching is enabled and returns a
// no-op cache otherwise.
func NewResultCache(cfg config.CacheConfig) (ResultCache, error) {
	if !cfg.Enabled {
		return &noopResultCache{}, nil
	}

	opts, err := resultCacheOptions(cfg)
	if err != nil {
		return nil, err
	}
	c := &redisResultCache{
		client: redis.NewClient(opts),
		ttl:    resultTTL(cfg.TTLSeconds),
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()
	if err := c.Ping(ctx); err != nil {
		_ = c.client.Close()
		return nil, fmt.Errorf("result cache unreachable at %s: %w", opts.Addr, err)
	}
	return c, nil
}

// resultCacheOptions prefers REDIS_URL and falls back to the discrete
// host, port and DB settings.
func resultCacheOptions(cfg config.CacheConfig) (*redis.Options, error) {
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("parse REDIS_URL: %w", err)
		}
		return opts, nil
	}

	host, port := cfg.RedisHost, cfg.RedisPort
	if host == "" {
		host = "127.0.0.1"
	}
	if port == "" {
		port = "6379"
	}
	return &redis.Options{
		Addr:         net.JoinHostPort(host, port),
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  redisTimeout,
		ReadTimeout:  redisTimeout,
		WriteTimeout: redisTimeout,
	}, nil
}

func resultTTL(seconds int) time.Duration {
	if seconds <= 0 {
		return defaultResultTTL
	}
	return time.Duration(seconds) * time.Second
}

func NewNoopResultCache() ResultCache {
	return &noopResultCache{}
}

func (c *redisResultCache) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get failed: %w", err)
	}
	return value, true, nil
}

func (c *redisResultCache) Set(ctx context.Context, key, value string) error {
	if err := c.client.Set(ctx, key, value, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// InvalidateAll removes every key in the result namespaces, leaving the
// rest of the redis DB alone.
func (c *redisResultCache) InvalidateAll(ctx context.Context) error {
	for _, prefix := range keyPrefixes {
		removed, err := c.unlinkNamespace(ctx, prefix)
		if err != nil {
			return err
		}
		log.Debug().Str("prefix", prefix).Int("keys", removed).Msg("cache: namespace cleared")
	}
	return nil
}

// unlinkNamespace walks prefix:* with SCAN and unlinks keys in batches.
func (c *redisResultCache) unlinkNamespace(ctx context.Context, prefix string) (int, error) {
	batch := make([]string, 0, resultScanBatchSize)
	removed := 0
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := c.client.Unlink(ctx, batch...).Err(); err != nil {
			return fmt.Errorf("unlink %s keys: %w", prefix, err)
		}
		removed += len(batch)
		batch = batch[:0]
		return nil
	}

	iter := c.client.Scan(ctx, 0, prefix+":*", resultScanBatchSize).Iterator()
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == resultScanBatchSize {
			if err := flush(); err != nil {
				return removed, err
			}
		}
	}
	if err := iter.Err(); err != nil {
		return removed, fmt.Errorf("scan %s keys: %w", prefix, err)
	}
	return removed, flush()
}

func (c *redisResultCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (n *noopResultCache) Get(ctx context.Context, key string) (string, bool, error) {
	return "", false, nil
}

func (n *noopResultCache) Set(ctx context.Context, key, value string) error {
	return nil
}

func (n *noopResultCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func (n *noopResultCache) Ping(ctx context.Context) error {
	return errors.New("cache disabled")
}

// DemandInsightsKey is the key of the insight text for a product forecast.
func DemandInsightsKey(productID string) string {
	return fmt.Sprintf("%s:%s", DemandInsightsKeyPrefix, strings.TrimSpace(productID))
}

// InsightsKey hashes the full prompt so equal prompts share an entry.
func InsightsKey(prompt string) string {
	sum := sha1.Sum([]byte(prompt))
	return fmt.Sprintf("%s:%s", InsightsKeyPrefix, hex.EncodeToString(sum[:]))
}
