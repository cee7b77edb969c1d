package dataset

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Source lazily loads the dataset file once per process. Concurrent first
// callers share a single load; the outcome, success or failure, is kept for
// the lifetime of the Source since the file is static.
type Source struct {
	path  string
	load  func(path string) (*Table, error)
	log   *slog.Logger
	group singleflight.Group

	mu     sync.RWMutex
	loaded bool
	table  *Table
	err    error
}

// NewSource creates a Source for the dataset at path.
func NewSource(path string, log *slog.Logger) *Source {
	return &Source{path: path, load: Load, log: log}
}

// NewStaticSource returns a Source already holding t. Used by tests and by
// callers that build tables in memory.
func NewStaticSource(t *Table, log *slog.Logger) *Source {
	return &Source{table: t, loaded: true, log: log}
}

// Path returns the configured dataset path.
func (s *Source) Path() string { return s.path }

// Get returns the cleaned table, loading it on first use. The returned error
// wraps models.ErrDataUnavailable when the file could not be loaded.
func (s *Source) Get(ctx context.Context) (*Table, error) {
	if t, ok, err := s.cached(); ok {
		return t, err
	}

	ch := s.group.DoChan("load", func() (any, error) {
		if t, ok, err := s.cached(); ok {
			return t, err
		}
		start := time.Now()
		t, err := s.load(s.path)

		s.mu.Lock()
		s.loaded = true
		s.table, s.err = t, err
		s.mu.Unlock()

		if err != nil {
			s.log.Error("dataset load failed", "path", s.path, "error", err)
			return nil, err
		}
		s.log.Info("dataset loaded",
			"path", s.path,
			"rows", t.Len(),
			"dropped", t.Dropped(),
			"duration", time.Since(start).String(),
		)
		return t, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Table), nil
	}
}

// Loaded reports whether a load has completed.
func (s *Source) Loaded() bool {
	_, ok, _ := s.cached()
	return ok
}

func (s *Source) cached() (*Table, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table, s.loaded, s.err
}
