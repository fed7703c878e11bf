package companyintel

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const cacheKeyPrefix = "companyintel:"

// Cache is a read-through Redis cache in front of another Verifier.
// Company legitimacy changes slowly, so verifications are cached by
// normalized company name with a TTL. Cache failures degrade to the
// inner verifier, never to an error.
type Cache struct {
	inner  Verifier
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCache wraps inner with a Redis cache.
func NewCache(inner Verifier, client *redis.Client, ttl time.Duration, logger *zap.Logger) *Cache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Cache{
		inner:  inner,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func cacheKey(companyName string) string {
	return cacheKeyPrefix + strings.ToLower(strings.TrimSpace(companyName))
}

// Verify returns a cached verification when present, otherwise asks
// the inner verifier and stores its answer.
func (c *Cache) Verify(ctx context.Context, companyName string) (Verification, error) {
	key := cacheKey(companyName)

	if raw, err := c.client.Get(ctx, key).Result(); err == nil {
		var cached Verification
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			c.logger.Debug("Company verification cache hit", zap.String("company", companyName))
			return cached, nil
		}
		c.logger.Warn("Discarding corrupt cached verification", zap.String("key", key))
	} else if err != redis.Nil {
		c.logger.Warn("Company verification cache unavailable", zap.Error(err))
	}

	verification, err := c.inner.Verify(ctx, companyName)
	if err != nil {
		return Verification{}, err
	}

	if raw, err := json.Marshal(verification); err == nil {
		if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			c.logger.Warn("Failed to cache company verification", zap.Error(err))
		}
	}

	return verification, nil
}

var _ Verifier = (*Cache)(nil)
