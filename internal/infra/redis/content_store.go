package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"mochi-games/internal/domain"
)

const maxSlotRetries = 5

// ContentStore keeps saved games in a single Redis string, serialized the same way
// as the browser slot. Writes use WATCH so concurrent editors never lose records.
type ContentStore struct {
	client *redis.Client
	key    string
	log    *zap.Logger
}

func NewContentStore(client *redis.Client, slot string, log *zap.Logger) *ContentStore {
	if slot == "" {
		slot = domain.DefaultSlot
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ContentStore{client: client, key: "mochi:slot:" + slot, log: log}
}

func (s *ContentStore) List(ctx context.Context) ([]domain.SavedGame, error) {
	data, err := s.read(ctx, s.client)
	if err != nil {
		return nil, err
	}
	games, skipped, err := domain.DecodeSavedGames(data)
	if err != nil {
		return nil, err
	}
	for _, e := range skipped {
		s.log.Warn("skipping saved game", zap.String("key", s.key), zap.Error(e))
	}
	return games, nil
}

func (s *ContentStore) Save(ctx context.Context, game domain.SavedGame) error {
	return s.update(ctx, func(slot []byte) ([]byte, bool, error) {
		updated, err := domain.PrependSavedGame(slot, game)
		return updated, true, err
	})
}

func (s *ContentStore) Delete(ctx context.Context, id string) error {
	return s.update(ctx, func(slot []byte) ([]byte, bool, error) {
		return domain.RemoveSavedGame(slot, id)
	})
}

func (s *ContentStore) update(ctx context.Context, apply func([]byte) ([]byte, bool, error)) error {
	txf := func(tx *redis.Tx) error {
		slot, err := s.read(ctx, tx)
		if err != nil {
			return err
		}
		updated, changed, err := apply(slot)
		if err != nil || !changed {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, s.key, updated, 0)
			return nil
		})
		return err
	}

	for i := 0; i < maxSlotRetries; i++ {
		err := s.client.Watch(ctx, txf, s.key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return fmt.Errorf("update %s: too much contention", s.key)
}

func (s *ContentStore) read(ctx context.Context, c redis.Cmdable) ([]byte, error) {
	data, err := c.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return data, err
}
