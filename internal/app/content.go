package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mochi-games/internal/domain"
)

// CatalogLoader supplies the built-in categories and their questions.
type CatalogLoader interface {
	LoadCategories(ctx context.Context) ([]domain.Category, error)
	LoadQuestions(ctx context.Context, categoryID string) ([]domain.Question, error)
}

// ContentStore persists user-authored games (in-memory, Redis, SQLite, Postgres).
// List returns games most recent first; Delete of an unknown id is a no-op.
type ContentStore interface {
	List(ctx context.Context) ([]domain.SavedGame, error)
	Save(ctx context.Context, game domain.SavedGame) error
	Delete(ctx context.Context, id string) error
}

// ContentService merges the built-in catalog with saved games.
type ContentService struct {
	catalog CatalogLoader
	store   ContentStore
	newID   func() string
	now     func() time.Time
	log     *zap.Logger
}

func NewContentService(catalog CatalogLoader, store ContentStore, log *zap.Logger) *ContentService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ContentService{
		catalog: catalog,
		store:   store,
		newID:   uuid.NewString,
		now:     time.Now,
		log:     log,
	}
}

// NewContentServiceWithClock is test-only for deterministic ids and timestamps.
func NewContentServiceWithClock(catalog CatalogLoader, store ContentStore, log *zap.Logger, newID func() string, now func() time.Time) *ContentService {
	s := NewContentService(catalog, store, log)
	s.newID = newID
	s.now = now
	return s
}

// ListCategories returns built-in categories followed by saved games in store order.
// When a source fails the remaining categories are still returned together with
// an error wrapping domain.ErrContentUnavailable.
func (s *ContentService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var errs []error

	builtin, err := s.catalog.LoadCategories(ctx)
	if err != nil {
		s.log.Warn("load built-in categories", zap.Error(err))
		errs = append(errs, err)
	}
	games, err := s.store.List(ctx)
	if err != nil {
		s.log.Warn("list saved games", zap.Error(err))
		errs = append(errs, err)
	}

	out := make([]domain.Category, 0, len(builtin)+len(games))
	out = append(out, builtin...)
	for _, g := range games {
		out = append(out, g.Category())
	}
	if len(errs) > 0 {
		return out, fmt.Errorf("%w: %w", domain.ErrContentUnavailable, errors.Join(errs...))
	}
	return out, nil
}

// ListQuestions resolves a saved game first, then the built-in catalog. An unknown
// category yields an empty list; a failed fetch yields an empty list and an error
// wrapping domain.ErrContentUnavailable.
func (s *ContentService) ListQuestions(ctx context.Context, categoryID string) ([]domain.Question, error) {
	game, err := s.Game(ctx, categoryID)
	switch {
	case err == nil:
		return game.PlayableQuestions(), nil
	case !errors.Is(err, domain.ErrGameNotFound):
		// Saved games are unavailable; the built-in catalog may still answer.
		s.log.Warn("lookup saved game", zap.String("category", categoryID), zap.Error(err))
	}

	questions, err := s.catalog.LoadQuestions(ctx, categoryID)
	if err != nil {
		s.log.Warn("load questions", zap.String("category", categoryID), zap.Error(err))
		return []domain.Question{}, fmt.Errorf("%w: %w", domain.ErrContentUnavailable, err)
	}
	if questions == nil {
		questions = []domain.Question{}
	}
	return questions, nil
}

// SavedGames lists stored games in store order, which is newest first.
func (s *ContentService) SavedGames(ctx context.Context) ([]domain.SavedGame, error) {
	games, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	return games, nil
}

func (s *ContentService) Game(ctx context.Context, id string) (domain.SavedGame, error) {
	games, err := s.store.List(ctx)
	if err != nil {
		return domain.SavedGame{}, err
	}
	for _, g := range games {
		if g.ID == id {
			return g, nil
		}
	}
	return domain.SavedGame{}, domain.ErrGameNotFound
}

// SaveGame validates and persists a new game under a fresh id.
func (s *ContentService) SaveGame(ctx context.Context, name, description string, questions []domain.AuthoredQuestion) (domain.SavedGame, error) {
	normalized, err := ValidateQuestions(questions)
	if err != nil {
		return domain.SavedGame{}, err
	}
	if strings.TrimSpace(name) == "" {
		name = defaultGameName
	}
	if strings.TrimSpace(description) == "" {
		description = defaultGameDescription
	}

	game := domain.SavedGame{
		ID:            s.newID(),
		Name:          name,
		Description:   description,
		QuestionCount: len(normalized),
		Questions:     normalized,
		CreatedAt:     s.now().UTC(),
	}
	if err := s.store.Save(ctx, game); err != nil {
		return domain.SavedGame{}, fmt.Errorf("save game: %w", err)
	}
	s.log.Info("saved game", zap.String("id", game.ID), zap.Int("questions", game.QuestionCount))
	return game, nil
}

// DeleteGame removes a saved game; unknown ids are ignored.
func (s *ContentService) DeleteGame(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}
