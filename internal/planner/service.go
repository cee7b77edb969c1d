// Package planner wires the dataset, sampler, advice adapter and journal into
// the operations behind the dashboard.
package planner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/claude/fitplanner/internal/advice"
	"github.com/claude/fitplanner/internal/dataset"
	"github.com/claude/fitplanner/internal/metrics"
	"github.com/claude/fitplanner/internal/models"
	"github.com/claude/fitplanner/internal/report"
	"github.com/claude/fitplanner/internal/sampler"
	"github.com/claude/fitplanner/internal/storage"
)

// Deps are the collaborators of a Service. Sampler, Journal, Metrics and Log
// may be nil.
type Deps struct {
	Dataset *dataset.Source
	Sampler *sampler.Sampler
	Advice  *advice.Adapter
	Journal storage.Journal
	Metrics *metrics.Manager
	Log     *slog.Logger
}

// Service is the process-wide application context shared by the HTTP
// server, the MCP server and the CLI.
type Service struct {
	data    *dataset.Source
	sampler *sampler.Sampler
	advice  *advice.Adapter
	journal storage.Journal
	metrics *metrics.Manager
	log     *slog.Logger
}

// New creates a Service.
func New(d Deps) *Service {
	if d.Sampler == nil {
		d.Sampler = sampler.New()
	}
	if d.Journal == nil {
		d.Journal = storage.Nop{}
	}
	if d.Log == nil {
		d.Log = slog.Default()
	}
	return &Service{
		data:    d.Dataset,
		sampler: d.Sampler,
		advice:  d.Advice,
		journal: d.Journal,
		metrics: d.Metrics,
		log:     d.Log,
	}
}

// table returns the cleaned dataset or an error wrapping
// models.ErrDataUnavailable.
func (s *Service) table(ctx context.Context) (*dataset.Table, error) {
	t, err := s.data.Get(ctx)
	if err != nil {
		if errors.Is(err, models.ErrDataUnavailable) || ctx.Err() != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", models.ErrDataUnavailable, err)
	}
	if s.metrics != nil {
		s.metrics.GaugeDatasetRows.Set(float64(t.Len()))
		s.metrics.GaugeDatasetDropped.Set(float64(t.Dropped()))
	}
	return t, nil
}

// Summary returns the record count and the top n body parts. n <= 0 uses
// report.DefaultTopN.
func (s *Service) Summary(ctx context.Context, n int) (*report.Summary, error) {
	t, err := s.table(ctx)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		n = report.DefaultTopN
	}
	return report.Summarize(t, n)
}

// Preview returns the first n records. n <= 0 uses report.DefaultPreviewRows.
func (s *Service) Preview(ctx context.Context, n int) ([]models.ExerciseRecord, error) {
	t, err := s.table(ctx)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		n = report.DefaultPreviewRows
	}
	return report.Preview(t, n), nil
}

// BodyParts returns the distinct body parts in first-seen order. This is the
// legal set of values for Sample.
func (s *Service) BodyParts(ctx context.Context) ([]string, error) {
	t, err := s.table(ctx)
	if err != nil {
		return nil, err
	}
	return t.BodyParts(), nil
}

// Sample returns up to limit random exercises for bodyPart. A body part with
// no exercises yields models.ErrNoMatch.
func (s *Service) Sample(ctx context.Context, bodyPart string, limit int) ([]models.ExerciseRecord, error) {
	t, err := s.table(ctx)
	if err != nil {
		return nil, err
	}

	recs, err := s.sampler.FilterAndSample(t, bodyPart, limit)
	if err != nil {
		if errors.Is(err, models.ErrNoMatch) {
			s.log.Warn("no exercises for body part", "body_part", bodyPart)
			if s.metrics != nil {
				s.metrics.CounterNoMatch.Inc()
			}
		}
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.CounterSamples.WithLabelValues(bodyPart).Add(float64(len(recs)))
	}
	return recs, nil
}

// Goals returns the selectable fitness goals.
func (s *Service) Goals() []models.Goal {
	return models.Goals()
}

// Advice generates motivational advice for the named goal. The only error is
// models.ErrUnknownGoal; generation failures are reported inside the result.
func (s *Service) Advice(ctx context.Context, goalName string) (models.AdviceResult, error) {
	goal, err := models.ParseGoal(goalName)
	if err != nil {
		return models.AdviceResult{}, err
	}

	res := s.advice.Generate(ctx, goal)

	if s.metrics != nil {
		outcome := "success"
		if res.Failed() {
			outcome = "error"
		}
		s.metrics.CounterAdvice.WithLabelValues(string(goal), outcome).Inc()
		s.metrics.HistogramAdviceDuration.Observe(float64(res.DurationMs) / 1000)
	}

	// The journal write must not be cut short by a client disconnect.
	jctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.journal.Record(jctx, res); err != nil {
		s.log.Error("recording advice", "id", res.ID, "error", err)
		if s.metrics != nil {
			s.metrics.CounterJournalErrors.Inc()
		}
	}
	return res, nil
}

// History returns recent advice, newest first.
func (s *Service) History(ctx context.Context, limit int) ([]models.AdviceResult, error) {
	out, err := s.journal.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("reading advice history: %w", err)
	}
	return out, nil
}

// DatasetLoaded reports whether the dataset load has completed.
func (s *Service) DatasetLoaded() bool {
	return s.data.Loaded()
}

// AdviceReady reports whether the text generator has been loaded.
func (s *Service) AdviceReady() bool {
	return s.advice.Ready()
}
