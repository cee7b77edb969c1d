package mcp

import (
	"context"

	"github.com/claude/fitplanner/internal/models"
	"github.com/claude/fitplanner/internal/planner"
	"github.com/claude/fitplanner/internal/report"
)

// DataSource abstracts the planner for MCP tools. Both *planner.Service
// (local) and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	Summary(ctx context.Context, top int) (*report.Summary, error)
	BodyParts(ctx context.Context) ([]string, error)
	Sample(ctx context.Context, bodyPart string, limit int) ([]models.ExerciseRecord, error)
	Advice(ctx context.Context, goal string) (models.AdviceResult, error)
	History(ctx context.Context, limit int) ([]models.AdviceResult, error)
}

// Compile-time check: *planner.Service satisfies DataSource.
var _ DataSource = (*planner.Service)(nil)
