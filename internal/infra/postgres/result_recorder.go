package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"mochi-games/internal/domain"
)

// ResultRecorder writes completed sessions to game_progress.
type ResultRecorder struct {
	pool *pgxpool.Pool
}

func NewResultRecorder(pool *pgxpool.Pool) *ResultRecorder {
	return &ResultRecorder{pool: pool}
}

func (r *ResultRecorder) Record(ctx context.Context, result domain.Result) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO game_progress (category_id, student_session, score, total_questions, completed_at)
		VALUES ($1, $2, $3, $4, $5)`,
		result.CategoryID, result.SessionID, result.Score, result.Total, result.CompletedAt)
	if err != nil {
		return fmt.Errorf("record result: %w", err)
	}
	return nil
}

// Progress lists the recorded results of a session, oldest first.
func (r *ResultRecorder) Progress(ctx context.Context, sessionID string) ([]domain.Result, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT category_id, score, total_questions, completed_at
		FROM game_progress
		WHERE student_session = $1
		ORDER BY completed_at, id`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	defer rows.Close()

	var out []domain.Result
	for rows.Next() {
		res := domain.Result{SessionID: sessionID}
		if err := rows.Scan(&res.CategoryID, &res.Score, &res.Total, &res.CompletedAt); err != nil {
			return nil, fmt.Errorf("scan progress: %w", err)
		}
		out = append(out, res)
	}
	return out, rows.Err()
}
