package memory

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"mochi-games/internal/domain"
)

// ContentStore keeps saved games in a single serialized slot, the way the browser
// kept them in local storage. Useful for tests and single-process demos.
type ContentStore struct {
	log  *zap.Logger
	mu   sync.Mutex
	slot []byte
}

func NewContentStore(log *zap.Logger) *ContentStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &ContentStore{log: log}
}

// NewContentStoreFromSlot seeds the store with a previously serialized slot value.
func NewContentStoreFromSlot(slot []byte, log *zap.Logger) *ContentStore {
	s := NewContentStore(log)
	s.slot = append([]byte(nil), slot...)
	return s
}

func (s *ContentStore) List(_ context.Context) ([]domain.SavedGame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readLocked()
}

func (s *ContentStore) Save(_ context.Context, game domain.SavedGame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	updated, err := domain.PrependSavedGame(s.slot, game)
	if err != nil {
		return err
	}
	s.slot = updated
	return nil
}

func (s *ContentStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	updated, removed, err := domain.RemoveSavedGame(s.slot, id)
	if err != nil || !removed {
		return err
	}
	s.slot = updated
	return nil
}

// Slot returns the raw serialized value.
func (s *ContentStore) Slot() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.slot...)
}

func (s *ContentStore) readLocked() ([]domain.SavedGame, error) {
	games, skipped, err := domain.DecodeSavedGames(s.slot)
	if err != nil {
		return nil, err
	}
	for _, e := range skipped {
		s.log.Warn("skipping saved game", zap.Error(e))
	}
	return games, nil
}
