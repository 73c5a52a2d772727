package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"mochi-games/internal/app"
	"mochi-games/internal/domain"
)

// CatalogCache caches catalog reads in Redis and falls back to a loader on cache miss.
// Categories are stored as JSON under mochi:catalog:categories, questions under
// mochi:catalog:questions:{categoryID}.
type CatalogCache struct {
	client *redis.Client
	loader app.CatalogLoader
	ttl    time.Duration
	sf     singleflight.Group

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewCatalogCache(client *redis.Client, loader app.CatalogLoader, ttl time.Duration) *CatalogCache {
	return &CatalogCache{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *CatalogCache) LoadCategories(ctx context.Context) ([]domain.Category, error) {
	var cats []domain.Category
	err := c.load(ctx, categoriesKey(), &cats, func(loadCtx context.Context) (any, error) {
		return c.loader.LoadCategories(loadCtx)
	})
	return cats, err
}

func (c *CatalogCache) LoadQuestions(ctx context.Context, categoryID string) ([]domain.Question, error) {
	var qs []domain.Question
	err := c.load(ctx, questionsKey(categoryID), &qs, func(loadCtx context.Context) (any, error) {
		return c.loader.LoadQuestions(loadCtx, categoryID)
	})
	if qs == nil && err == nil {
		qs = []domain.Question{}
	}
	return qs, err
}

// Invalidate drops every cached catalog entry, e.g. after reseeding.
func (c *CatalogCache) Invalidate(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, "mochi:catalog:*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// load serves key from Redis or runs fetch once for all concurrent callers. The
// shared fetch is detached from any single caller's cancellation; each caller
// still stops waiting when its own ctx ends.
func (c *CatalogCache) load(ctx context.Context, key string, dst any, fetch func(context.Context) (any, error)) error {
	if ok, err := c.get(ctx, key, dst); ok || err != nil {
		return err
	}

	loadCtx := context.WithoutCancel(ctx)
	ch := c.sf.DoChan(key, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if data, err := c.client.Get(loadCtx, key).Bytes(); err == nil {
			return data, nil
		}
		value, err := fetch(loadCtx)
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		// Cache writes are best-effort; a failure only costs another load.
		_ = c.client.Set(loadCtx, key, data, c.ttlWithJitter()).Err()
		return data, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return res.Err
		}
		return json.Unmarshal(res.Val.([]byte), dst)
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *CatalogCache) get(ctx context.Context, key string, dst any) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		// redis.Nil or an unreachable cache both count as a miss.
		return false, nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		_ = c.client.Del(ctx, key).Err()
		return false, nil
	}
	return true, nil
}

func (c *CatalogCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}

func categoriesKey() string {
	return "mochi:catalog:categories"
}

func questionsKey(categoryID string) string {
	return "mochi:catalog:questions:" + categoryID
}
