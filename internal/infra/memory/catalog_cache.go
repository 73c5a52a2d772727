package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"mochi-games/internal/app"
	"mochi-games/internal/domain"
)

const categoriesKey = "\x00categories"

// CatalogCache caches a CatalogLoader with TTL to avoid repeated backing-store hits.
type CatalogCache struct {
	loader app.CatalogLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu         sync.RWMutex
	categories cachedEntry[[]domain.Category]
	questions  map[string]cachedEntry[[]domain.Question]
}

type cachedEntry[T any] struct {
	value     T
	expiresAt time.Time
}

func NewCatalogCache(loader app.CatalogLoader, ttl time.Duration) *CatalogCache {
	return &CatalogCache{
		loader:    loader,
		ttl:       ttl,
		clock:     time.Now,
		rnd:       rand.New(rand.NewSource(time.Now().UnixNano())),
		questions: make(map[string]cachedEntry[[]domain.Question]),
	}
}

func (c *CatalogCache) LoadCategories(ctx context.Context) ([]domain.Category, error) {
	now := c.clock()
	c.mu.RLock()
	if c.categories.expiresAt.After(now) {
		cats := c.categories.value
		c.mu.RUnlock()
		return cats, nil
	}
	c.mu.RUnlock()

	// The load is shared by every waiter, so one caller going away must not cancel it.
	loadCtx := context.WithoutCancel(ctx)
	result, err := c.wait(ctx, categoriesKey, func() (interface{}, error) {
		cats, err := c.loader.LoadCategories(loadCtx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.categories = cachedEntry[[]domain.Category]{value: cats, expiresAt: c.clock().Add(c.ttlWithJitter())}
		c.mu.Unlock()
		return cats, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Category), nil
}

func (c *CatalogCache) LoadQuestions(ctx context.Context, categoryID string) ([]domain.Question, error) {
	now := c.clock()
	c.mu.RLock()
	if entry, ok := c.questions[categoryID]; ok && entry.expiresAt.After(now) {
		c.mu.RUnlock()
		return entry.value, nil
	}
	c.mu.RUnlock()

	loadCtx := context.WithoutCancel(ctx)
	result, err := c.wait(ctx, categoryID, func() (interface{}, error) {
		now := c.clock()
		c.mu.RLock()
		if entry, ok := c.questions[categoryID]; ok && entry.expiresAt.After(now) {
			c.mu.RUnlock()
			return entry.value, nil
		}
		c.mu.RUnlock()

		qs, err := c.loader.LoadQuestions(loadCtx, categoryID)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.questions[categoryID] = cachedEntry[[]domain.Question]{value: qs, expiresAt: now.Add(c.ttlWithJitter())}
		c.mu.Unlock()
		return qs, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

// wait joins the in-flight load for key and returns early if ctx ends first.
func (c *CatalogCache) wait(ctx context.Context, key string, fn func() (interface{}, error)) (interface{}, error) {
	select {
	case res := <-c.sf.DoChan(key, fn):
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *CatalogCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
