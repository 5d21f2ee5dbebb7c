package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ballotworks/election-api/internal/core/domain"
)

const (
	defaultResultTTL = 5 * time.Minute
	// generationTTL must outlive any request that read the generation.
	generationTTL = 24 * time.Hour
)

// ResultCache stores published results as JSON.
// Key format: result:<id>, generation counter at result:<id>:gen
type ResultCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewResultCache creates a ResultCache whose entries expire after ttl.
func NewResultCache(client *redis.Client, ttl time.Duration) *ResultCache {
	if ttl <= 0 {
		ttl = defaultResultTTL
	}
	return &ResultCache{client: client, ttl: ttl}
}

// Get returns (nil, nil) on a miss.
func (c *ResultCache) Get(ctx context.Context, id string) (*domain.Result, error) {
	raw, err := c.client.Get(ctx, c.key(id)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("result cache get: %w", err)
	}
	var result domain.Result
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("result cache decode: %w", err)
	}
	return &result, nil
}

// Generation returns the invalidation counter for id, zero if never bumped.
func (c *ResultCache) Generation(ctx context.Context, id string) (int64, error) {
	gen, err := c.client.Get(ctx, c.genKey(id)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("result cache generation: %w", err)
	}
	return gen, nil
}

// Set stores result only while the generation still equals generation. A
// bump between the read and the write drops the entry silently.
func (c *ResultCache) Set(ctx context.Context, result *domain.Result, generation int64) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("result cache encode: %w", err)
	}

	genKey := c.genKey(result.ID)
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, genKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != generation {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, c.key(result.ID), raw, c.ttl)
			return nil
		})
		return err
	}, genKey)
	if errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("result cache set: %w", err)
	}
	return nil
}

// Invalidate drops the entry and bumps the generation in one transaction.
func (c *ResultCache) Invalidate(ctx context.Context, id string) error {
	genKey := c.genKey(id)
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKey)
		pipe.Expire(ctx, genKey, generationTTL)
		pipe.Del(ctx, c.key(id))
		return nil
	})
	if err != nil {
		return fmt.Errorf("result cache invalidate: %w", err)
	}
	return nil
}

func (c *ResultCache) key(id string) string {
	return "result:" + id
}

func (c *ResultCache) genKey(id string) string {
	return "result:" + id + ":gen"
}
