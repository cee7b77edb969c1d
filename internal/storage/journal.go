package storage

import (
	"context"
	"embed"
	"fmt"

	"github.com/claude/fitplanner/internal/models"
)

//go:embed migrations
var migrationsFS embed.FS

// Journal drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverNone     = "none"
)

// Status values stored for each advice attempt.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// DefaultRecentLimit is used when Recent is called with a non-positive limit.
const DefaultRecentLimit = 20

// Journal records advice attempts so recent advice can be shown again.
type Journal interface {
	Record(ctx context.Context, r models.AdviceResult) error
	Recent(ctx context.Context, limit int) ([]models.AdviceResult, error)
	Close() error
}

// Open opens the journal for driver. dsn is a file path for sqlite and a
// connection string for postgres; it is ignored for none.
func Open(ctx context.Context, driver, dsn string) (Journal, error) {
	switch driver {
	case DriverSQLite, "":
		j, err := OpenSQLite(dsn)
		if err != nil {
			return nil, err
		}
		return j, nil
	case DriverPostgres:
		db, err := OpenPostgres(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return db, nil
	case DriverNone:
		return Nop{}, nil
	}
	return nil, fmt.Errorf("unknown journal driver %q", driver)
}

// Nop discards every record.
type Nop struct{}

func (Nop) Record(context.Context, models.AdviceResult) error { return nil }

func (Nop) Recent(context.Context, int) ([]models.AdviceResult, error) {
	return []models.AdviceResult{}, nil
}

func (Nop) Close() error { return nil }

func statusOf(r models.AdviceResult) string {
	if r.Failed() {
		return StatusError
	}
	return StatusSuccess
}
