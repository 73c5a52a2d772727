package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"mochi-games/internal/domain"
)

// ContentStore emulates browser local storage: a slots table of named string
// values, with saved games kept under a single slot.
type ContentStore struct {
	db   *sql.DB
	slot string
	log  *zap.Logger
}

// Open opens (or creates) the database at path and prepares the slots table.
func Open(ctx context.Context, path, slot string, log *zap.Logger) (*ContentStore, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, err
	}
	// Serialize writers; read-modify-write of the slot relies on it.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS slots (
			name  TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create slots table: %w", err)
	}

	if slot == "" {
		slot = domain.DefaultSlot
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ContentStore{db: db, slot: slot, log: log}, nil
}

func (s *ContentStore) Close() error {
	return s.db.Close()
}

func (s *ContentStore) List(ctx context.Context) ([]domain.SavedGame, error) {
	data, err := s.read(ctx, s.db)
	if err != nil {
		return nil, err
	}
	games, skipped, err := domain.DecodeSavedGames(data)
	if err != nil {
		return nil, err
	}
	for _, e := range skipped {
		s.log.Warn("skipping saved game", zap.String("slot", s.slot), zap.Error(e))
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

// SetRaw overwrites the slot value as is.
func (s *ContentStore) SetRaw(ctx context.Context, value string) error {
	_, err := s.db.ExecContext(ctx, "INSERT OR REPLACE INTO slots (name, value) VALUES (?, ?)", s.slot, value)
	return err
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *ContentStore) read(ctx context.Context, q querier) ([]byte, error) {
	var value string
	err := q.QueryRowContext(ctx, "SELECT value FROM slots WHERE name = ?", s.slot).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read slot %s: %w", s.slot, err)
	}
	return []byte(value), nil
}

func (s *ContentStore) update(ctx context.Context, apply func([]byte) ([]byte, bool, error)) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	slot, err := s.read(ctx, tx)
	if err != nil {
		return err
	}
	updated, changed, err := apply(slot)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	if _, err := tx.ExecContext(ctx, "INSERT OR REPLACE INTO slots (name, value) VALUES (?, ?)", s.slot, string(updated)); err != nil {
		return fmt.Errorf("write slot %s: %w", s.slot, err)
	}
	return tx.Commit()
}
