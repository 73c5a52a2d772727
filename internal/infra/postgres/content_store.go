package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
	"go.uber.org/zap"

	"mochi-games/internal/domain"
)

// ContentStore persists saved games as JSONB rows. Rows are decoded with the same
// normalization as the slot stores, so hand-inserted legacy documents still play.
type ContentStore struct {
	pool *pgxpool.Pool
	log  *zap.Logger
}

func NewContentStore(pool *pgxpool.Pool, log *zap.Logger) *ContentStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &ContentStore{pool: pool, log: log}
}

func (s *ContentStore) List(ctx context.Context) ([]domain.SavedGame, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, data FROM saved_games ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list saved games: %w", err)
	}
	defer rows.Close()

	games := []domain.SavedGame{}
	for rows.Next() {
		var (
			id  string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("scan saved game: %w", err)
		}
		game, err := domain.DecodeSavedGame(raw)
		if err != nil {
			s.log.Warn("skipping saved game", zap.String("id", id), zap.Error(err))
			continue
		}
		games = append(games, game)
	}
	return games, rows.Err()
}

func (s *ContentStore) Save(ctx context.Context, game domain.SavedGame) error {
	data, err := json.Marshal(game)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO saved_games (id, data, created_at) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, created_at = EXCLUDED.created_at`,
		game.ID, data, game.CreatedAt)
	if err != nil {
		return fmt.Errorf("save game: %w", err)
	}
	return nil
}

// Delete is idempotent.
func (s *ContentStore) Delete(ctx context.Context, id string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM saved_games WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete game: %w", err)
	}
	return nil
}
