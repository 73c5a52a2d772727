package memory

import (
	"context"
	"sync"

	"mochi-games/internal/domain"
)

// ResultLog keeps completed-session results in process. With a positive limit only
// the most recent results are retained.
type ResultLog struct {
	mu      sync.Mutex
	limit   int
	results []domain.Result
}

func NewResultLog() *ResultLog {
	return &ResultLog{}
}

// NewRecentResults keeps at most limit results.
func NewRecentResults(limit int) *ResultLog {
	return &ResultLog{limit: limit}
}

func (l *ResultLog) Record(_ context.Context, result domain.Result) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.results = append(l.results, result)
	if l.limit > 0 && len(l.results) > l.limit {
		l.results = append(l.results[:0:0], l.results[len(l.results)-l.limit:]...)
	}
	return nil
}

// Results returns a copy of everything retained, oldest first.
func (l *ResultLog) Results() []domain.Result {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]domain.Result(nil), l.results...)
}
