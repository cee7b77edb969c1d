package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/claude/fitplanner/internal/models"
	_ "modernc.org/sqlite"
)

const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z"

// SQLiteJournal stores advice in a local SQLite file.
type SQLiteJournal struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the journal database at path and applies
// migrations.
func OpenSQLite(path string) (*SQLiteJournal, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite journal path is empty")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving journal path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return nil, fmt.Errorf("creating journal dir: %w", err)
	}

	if err := RunMigrations(DriverSQLite, "sqlite://"+filepath.ToSlash(abs)); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", abs)
	if err != nil {
		return nil, fmt.Errorf("opening journal db: %w", err)
	}
	db.SetMaxOpenConns(1)
	return &SQLiteJournal{db: db}, nil
}

// Record stores one advice attempt.
func (j *SQLiteJournal) Record(ctx context.Context, r models.AdviceResult) error {
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO advice_log (id, goal, prompt, text, error, kind, status, model, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, string(r.Goal), r.Prompt, r.Text, r.Error, string(r.Kind), statusOf(r),
		r.Model, r.DurationMs, r.CreatedAt.UTC().Format(sqliteTimeLayout),
	)
	if err != nil {
		return fmt.Errorf("inserting advice log: %w", err)
	}
	return nil
}

// Recent returns up to limit advice attempts, newest first.
func (j *SQLiteJournal) Recent(ctx context.Context, limit int) ([]models.AdviceResult, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	rows, err := j.db.QueryContext(ctx,
		`SELECT id, goal, prompt, text, error, kind, model, duration_ms, created_at
		 FROM advice_log
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying advice log: %w", err)
	}
	defer rows.Close()

	result := []models.AdviceResult{}
	for rows.Next() {
		var (
			r              models.AdviceResult
			goal, kind, ts string
		)
		if err := rows.Scan(&r.ID, &goal, &r.Prompt, &r.Text, &r.Error, &kind,
			&r.Model, &r.DurationMs, &ts); err != nil {
			return nil, fmt.Errorf("scanning advice log: %w", err)
		}
		r.Goal = models.Goal(goal)
		r.Kind = models.ErrorKind(kind)
		if r.CreatedAt, err = time.Parse(sqliteTimeLayout, ts); err != nil {
			return nil, fmt.Errorf("parsing advice log time %q: %w", ts, err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// Close closes the database.
func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
