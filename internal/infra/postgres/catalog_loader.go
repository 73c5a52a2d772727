package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"mochi-games/internal/domain"
)

// CatalogLoader reads the built-in catalog from the categories, questions and
// question_options tables.
type CatalogLoader struct {
	pool *pgxpool.Pool
}

func NewCatalogLoader(pool *pgxpool.Pool) *CatalogLoader {
	return &CatalogLoader{pool: pool}
}

func (l *CatalogLoader) LoadCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := l.pool.Query(ctx, `
		SELECT id, name, description, icon_url, color
		FROM categories
		ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	defer rows.Close()

	cats := []domain.Category{}
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.IconURL, &c.Color); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// LoadQuestions returns an empty list for unknown categories.
func (l *CatalogLoader) LoadQuestions(ctx context.Context, categoryID string) ([]domain.Question, error) {
	rows, err := l.pool.Query(ctx, `
		SELECT q.id, q.target_item, q.prompt, q.correct_answer, q.correct_option, q.audio_url,
		       o.position, o.label, o.image_url
		FROM questions q
		JOIN question_options o ON o.question_id = q.id
		WHERE q.category_id = $1
		ORDER BY q.position, q.id, o.position`, categoryID)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	defer rows.Close()

	questions := []domain.Question{}
	for rows.Next() {
		var (
			id            int
			q             domain.Question
			correctOption sql.NullInt32
			audio         sql.NullString
			opt           domain.Option
		)
		if err := rows.Scan(&id, &q.TargetItem, &q.Prompt, &q.CorrectAnswer, &correctOption, &audio,
			&opt.ID, &opt.Label, &opt.ImageURL); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		if n := len(questions); n == 0 || questions[n-1].ID != id {
			q.ID = id
			q.CategoryID = categoryID
			q.CorrectAnswerID = int(correctOption.Int32)
			q.AudioURL = audio.String
			questions = append(questions, q)
		}
		last := &questions[len(questions)-1]
		last.Options = append(last.Options, opt)
	}
	return questions, rows.Err()
}
