package app_test

import (
	"sync"
	"time"

	"mochi-games/internal/domain"
)

// fakeClock fires After channels only when Advance is called.
type fakeClock struct {
	mu      sync.Mutex
	now     time.Time
	waiters []waiter
	waiting chan struct{}
}

type waiter struct {
	at time.Time
	ch chan time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{
		now:     time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC),
		waiting: make(chan struct{}, 16),
	}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch := make(chan time.Time, 1)
	c.waiters = append(c.waiters, waiter{at: c.now.Add(d), ch: ch})
	c.waiting <- struct{}{}
	return ch
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	pending := c.waiters[:0]
	for _, w := range c.waiters {
		if !w.at.After(c.now) {
			w.ch <- c.now
			continue
		}
		pending = append(pending, w)
	}
	c.waiters = pending
}

func fruitQuestions() []domain.Question {
	opts := func(a, b, c string) []domain.Option {
		return []domain.Option{
			{ID: 1, Label: a, ImageURL: a + ".png"},
			{ID: 2, Label: b, ImageURL: b + ".png"},
			{ID: 3, Label: c, ImageURL: c + ".png"},
		}
	}
	return []domain.Question{
		{ID: 1, CategoryID: "1", TargetItem: "Apple", Options: opts("Apple", "Banana", "Grapes"), CorrectAnswer: "Apple"},
		{ID: 2, CategoryID: "1", TargetItem: "Banana", Options: opts("Orange", "Banana", "Strawberry"), CorrectAnswer: "Banana"},
		{ID: 3, CategoryID: "1", TargetItem: "Orange", Options: opts("Apple", "Orange", "Grapes"), CorrectAnswer: "Orange"},
	}
}
