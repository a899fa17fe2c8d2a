package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	appmoderation "github.com/ContentGuard/ModGate/pkg/app/moderation"
	domain "github.com/ContentGuard/ModGate/pkg/domain/moderation"
)

const (
	verdictKeyPattern = "verdict:%s:%s"

	DefaultVerdictTTL = time.Hour
	defaultLocalTTL   = time.Minute
)

type verdictCache struct {
	client Client
	local  *TTLMap
	ttl    time.Duration
}

// NewVerdictCache builds the two-layer verdict cache: a short-lived local
// map in front of redis. A zero ttl uses the default.
func NewVerdictCache(client Client, ttl time.Duration) appmoderation.VerdictCache {
	if ttl <= 0 {
		ttl = DefaultVerdictTTL
	}
	return &verdictCache{
		client: client,
		local:  NewTTLMap(defaultLocalTTL),
		ttl:    ttl,
	}
}

func (c *verdictCache) GetVerdict(ctx context.Context, kind domain.ContentKind, fingerprint string) (*appmoderation.CachedVerdict, error) {
	key := fmt.Sprintf(verdictKeyPattern, kind, fingerprint)

	if value, ok := c.local.Get(key); ok {
		if entry, ok := value.(*appmoderation.CachedVerdict); ok {
			return entry, nil
		}
	}

	raw, err := c.client.Get(ctx, key)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("verdict cache read failed: %w", err)
	}

	entry := new(appmoderation.CachedVerdict)
	if err := json.Unmarshal([]byte(raw), entry); err != nil {
		// A corrupt entry is treated as a miss; the store remains the
		// source of truth.
		_ = c.client.Delete(ctx, key)
		return nil, nil
	}

	c.local.Set(key, entry)
	return entry, nil
}

func (c *verdictCache) SaveVerdict(ctx context.Context, kind domain.ContentKind, fingerprint string, entry *appmoderation.CachedVerdict) error {
	key := fmt.Sprintf(verdictKeyPattern, kind, fingerprint)

	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal verdict cache entry: %w", err)
	}
	if err := c.client.Set(ctx, key, string(raw), c.ttl); err != nil {
		return fmt.Errorf("verdict cache write failed: %w", err)
	}
	c.local.Set(key, entry)
	return nil
}
