package storage

import (
	"context"
	"fmt"

	"github.com/claude/fitplanner/internal/models"
)

// Record inserts one advice attempt.
func (db *DB) Record(ctx context.Context, r models.AdviceResult) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO advice_log (id, goal, prompt, text, error, kind, status, model, duration_ms, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		r.ID, string(r.Goal), r.Prompt, r.Text, r.Error, string(r.Kind), statusOf(r),
		r.Model, r.DurationMs, r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting advice log: %w", err)
	}
	return nil
}

// Recent returns the most recent advice attempts, newest first.
func (db *DB) Recent(ctx context.Context, limit int) ([]models.AdviceResult, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	rows, err := db.Pool.Query(ctx,
		`SELECT id, goal, prompt, text, error, kind, model, duration_ms, created_at
		 FROM advice_log
		 ORDER BY created_at DESC, seq DESC
		 LIMIT $1`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("querying advice log: %w", err)
	}
	defer rows.Close()

	result := []models.AdviceResult{}
	for rows.Next() {
		var (
			r          models.AdviceResult
			goal, kind string
		)
		if err := rows.Scan(&r.ID, &goal, &r.Prompt, &r.Text, &r.Error, &kind,
			&r.Model, &r.DurationMs, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning advice log: %w", err)
		}
		r.Goal = models.Goal(goal)
		r.Kind = models.ErrorKind(kind)
		result = append(result, r)
	}
	return result, rows.Err()
}
