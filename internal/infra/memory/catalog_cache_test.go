package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"mochi-games/internal/app"
	"mochi-games/internal/domain"
)

func TestCatalogCacheCachesQuestions(t *testing.T) {
	loader := &countingLoader{CatalogLoader: NewBuiltinCatalog(nil, 0)}
	cache := NewCatalogCache(loader, time.Minute)

	qs, err := cache.LoadQuestions(context.Background(), "1")
	if err != nil {
		t.Fatalf("load questions: %v", err)
	}
	if len(qs) != 3 {
		t.Fatalf("expected 3 fruit questions, got %d", len(qs))
	}
	if loader.questionCalls != 1 {
		t.Fatalf("expected loader once, got %d", loader.questionCalls)
	}

	if _, err := cache.LoadQuestions(context.Background(), "1"); err != nil {
		t.Fatalf("load questions 2: %v", err)
	}
	if loader.questionCalls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.questionCalls)
	}
}

func TestCatalogCacheExpires(t *testing.T) {
	loader := &countingLoader{CatalogLoader: NewBuiltinCatalog(nil, 0)}
	cache := NewCatalogCache(loader, time.Minute)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	cache.clock = func() time.Time { return now }

	if _, err := cache.LoadCategories(context.Background()); err != nil {
		t.Fatalf("load categories: %v", err)
	}
	now = now.Add(2 * time.Minute)
	cats, err := cache.LoadCategories(context.Background())
	if err != nil {
		t.Fatalf("load categories 2: %v", err)
	}
	if len(cats) != 6 {
		t.Fatalf("expected 6 built-in categories, got %d", len(cats))
	}
	if loader.categoryCalls != 2 {
		t.Fatalf("expected reload after ttl, loader calls %d", loader.categoryCalls)
	}
}

func TestStaticCatalogUnknownCategoryIsEmpty(t *testing.T) {
	qs, err := NewBuiltinCatalog(nil, 0).LoadQuestions(context.Background(), "404")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(qs) != 0 {
		t.Fatalf("expected no questions, got %d", len(qs))
	}
}

func TestStaticCatalogHonoursCancellation(t *testing.T) {
	catalog := NewBuiltinCatalog(app.SystemClock{}, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := catalog.LoadCategories(ctx); err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestCatalogCacheSurvivesWaiterCancellation(t *testing.T) {
	loader := newGatedLoader()
	cache := NewCatalogCache(loader, time.Minute)

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := cache.LoadQuestions(ctxA, "1")
		errA <- err
	}()
	<-loader.entered

	type outcome struct {
		qs  []domain.Question
		err error
	}
	resB := make(chan outcome, 1)
	go func() {
		qs, err := cache.LoadQuestions(context.Background(), "1")
		resB <- outcome{qs, err}
	}()

	// A disconnects while the shared load is still running.
	cancelA()
	if err := <-errA; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected the leaving caller to see cancellation, got %v", err)
	}
	close(loader.release)

	got := <-resB
	if got.err != nil {
		t.Fatalf("caller with a live context failed: %v", got.err)
	}
	if len(got.qs) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(got.qs))
	}
}

// gatedLoader blocks question loads until release is closed, honouring ctx.
type gatedLoader struct {
	*StaticCatalog
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func newGatedLoader() *gatedLoader {
	return &gatedLoader{
		StaticCatalog: NewBuiltinCatalog(nil, 0),
		entered:       make(chan struct{}),
		release:       make(chan struct{}),
	}
}

func (l *gatedLoader) LoadQuestions(ctx context.Context, categoryID string) ([]domain.Question, error) {
	l.once.Do(func() { close(l.entered) })
	select {
	case <-l.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return l.StaticCatalog.LoadQuestions(ctx, categoryID)
}

type countingLoader struct {
	app.CatalogLoader
	categoryCalls int
	questionCalls int
}

func (l *countingLoader) LoadCategories(ctx context.Context) ([]domain.Category, error) {
	l.categoryCalls++
	return l.CatalogLoader.LoadCategories(ctx)
}

func (l *countingLoader) LoadQuestions(ctx context.Context, categoryID string) ([]domain.Question, error) {
	l.questionCalls++
	return l.CatalogLoader.LoadQuestions(ctx, categoryID)
}
