package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"mochi-games/internal/domain"
)

// Seed inserts the given catalog unless categories already exist. It reports
// whether anything was written.
func Seed(ctx context.Context, pool *pgxpool.Pool, categories []domain.Category, questions map[string][]domain.Question) (bool, error) {
	var seeded bool
	err := pool.BeginFunc(ctx, func(tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM categories)`).Scan(&exists); err != nil {
			return fmt.Errorf("check categories: %w", err)
		}
		if exists {
			return nil
		}

		for pos, c := range categories {
			if _, err := tx.Exec(ctx, `
				INSERT INTO categories (id, name, description, icon_url, color, position)
				VALUES ($1, $2, $3, $4, $5, $6)`,
				c.ID, c.Name, c.Description, c.IconURL, c.Color, pos); err != nil {
				return fmt.Errorf("insert category %s: %w", c.ID, err)
			}
			for qpos, q := range questions[c.ID] {
				if err := insertQuestion(ctx, tx, c.ID, qpos, q); err != nil {
					return err
				}
			}
		}
		seeded = true
		return nil
	})
	return seeded, err
}

func insertQuestion(ctx context.Context, tx pgx.Tx, categoryID string, pos int, q domain.Question) error {
	var correct *int
	if q.CorrectAnswerID != 0 {
		correct = &q.CorrectAnswerID
	}
	var audio *string
	if q.AudioURL != "" {
		audio = &q.AudioURL
	}

	var id int
	err := tx.QueryRow(ctx, `
		INSERT INTO questions (category_id, position, target_item, prompt, correct_answer, correct_option, audio_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		categoryID, pos, q.TargetItem, q.Prompt, q.CorrectAnswer, correct, audio).Scan(&id)
	if err != nil {
		return fmt.Errorf("insert question %q: %w", q.TargetItem, err)
	}

	batch := &pgx.Batch{}
	for _, opt := range q.Options {
		batch.Queue(`INSERT INTO question_options (question_id, position, label, image_url) VALUES ($1, $2, $3, $4)`,
			id, opt.ID, opt.Label, opt.ImageURL)
	}
	br := tx.SendBatch(ctx, batch)
	for range q.Options {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("insert options of %q: %w", q.TargetItem, err)
		}
	}
	return br.Close()
}
