package advice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/claude/fitplanner/internal/models"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// Options tunes the adapter. Zero values fall back to defaults.
type Options struct {
	Model     string
	Timeout   time.Duration
	Retries   int
	BaseDelay time.Duration
	MaxDelay  time.Duration
	Params    Params
}

func (o *Options) applyDefaults() {
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	if o.Retries < 0 {
		o.Retries = 0
	}
	if o.BaseDelay <= 0 {
		o.BaseDelay = 200 * time.Millisecond
	}
	if o.MaxDelay <= 0 {
		o.MaxDelay = 2 * time.Second
	}
	if o.Params.MaxLength <= 0 {
		o.Params.MaxLength = DefaultMaxLength
	}
	if o.Params.NumSequences <= 0 {
		o.Params.NumSequences = DefaultNumSequences
	}
}

// Adapter turns a goal into motivational advice using an external Generator.
// The Generator is loaded once and shared; a failed load is retried on the
// next request.
type Adapter struct {
	load  Loader
	opts  Options
	log   *slog.Logger
	now   func() time.Time
	group singleflight.Group

	mu  sync.RWMutex
	gen Generator
}

// NewAdapter creates an Adapter that obtains its Generator from load.
func NewAdapter(load Loader, opts Options, log *slog.Logger) *Adapter {
	opts.applyDefaults()
	return &Adapter{load: load, opts: opts, log: log, now: time.Now}
}

// Warmup loads the generator ahead of the first request.
func (a *Adapter) Warmup(ctx context.Context) error {
	_, err := a.generator(ctx)
	return err
}

// Ready reports whether the generator has been loaded.
func (a *Adapter) Ready() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.gen != nil
}

// Generate builds the prompt for goal and returns the generated advice.
// It always returns a result; failures are reported with
// Kind == models.KindGenerationFailed and never as a Go error.
func (a *Adapter) Generate(ctx context.Context, goal models.Goal) models.AdviceResult {
	start := a.now()
	res := models.AdviceResult{
		ID:        uuid.NewString(),
		Goal:      goal,
		Prompt:    BuildPrompt(goal),
		Model:     a.opts.Model,
		CreatedAt: start.UTC(),
	}

	text, err := a.generate(ctx, res.Prompt)
	res.DurationMs = int(a.now().Sub(start).Milliseconds())
	if err != nil {
		res.Kind = models.KindGenerationFailed
		res.Error = "AI Error: " + err.Error()
		a.log.Warn("advice generation failed", "goal", goal, "error", err, "duration_ms", res.DurationMs)
		return res
	}

	res.Text = text
	a.log.Info("advice generated", "goal", goal, "duration_ms", res.DurationMs)
	return res
}

func (a *Adapter) generate(ctx context.Context, prompt string) (string, error) {
	gen, err := a.generator(ctx)
	if err != nil {
		return "", fmt.Errorf("loading model: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, a.opts.Timeout)
	defer cancel()

	var seqs []Sequence
	op := func() error {
		var err error
		seqs, err = safeGenerate(ctx, gen, prompt, a.opts.Params)
		if err != nil && !Retryable(err) {
			return backoff.Permanent(err)
		}
		if err != nil {
			a.log.Debug("advice generation attempt failed", "error", err)
		}
		return err
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = a.opts.BaseDelay
	b.MaxInterval = a.opts.MaxDelay
	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(a.opts.Retries)), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		return "", err
	}

	return firstText(prompt, seqs)
}

// firstText extracts the first sequence and makes sure it reads as the
// prompt followed by its continuation.
func firstText(prompt string, seqs []Sequence) (string, error) {
	if len(seqs) == 0 {
		return "", fmt.Errorf("%w: no sequences returned", ErrEmptyGeneration)
	}
	text := seqs[0].GeneratedText
	if !strings.HasPrefix(text, prompt) {
		text = prompt + text
	}
	if strings.TrimSpace(strings.TrimPrefix(text, prompt)) == "" {
		return "", fmt.Errorf("%w: continuation is blank", ErrEmptyGeneration)
	}
	return text, nil
}

// safeGenerate converts a panicking backend into an error.
func safeGenerate(ctx context.Context, gen Generator, prompt string, p Params) (seqs []Sequence, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("generator panic: %v", r)
		}
	}()
	return gen.Generate(ctx, prompt, p)
}

// generator returns the loaded Generator, loading it once across concurrent
// callers. Failures are not remembered.
func (a *Adapter) generator(ctx context.Context) (Generator, error) {
	a.mu.RLock()
	gen := a.gen
	a.mu.RUnlock()
	if gen != nil {
		return gen, nil
	}

	ch := a.group.DoChan("load", func() (v any, err error) {
		a.mu.RLock()
		gen := a.gen
		a.mu.RUnlock()
		if gen != nil {
			return gen, nil
		}

		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("loader panic: %v", r)
			}
		}()

		start := a.now()
		// Detached from the caller so one cancelled request does not fail
		// the load for everyone waiting on it.
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.opts.Timeout)
		defer cancel()
		gen, err = a.load(loadCtx)
		if err != nil {
			a.log.Error("model load failed", "model", a.opts.Model, "error", err)
			return nil, err
		}
		if gen == nil {
			return nil, errors.New("loader returned no generator")
		}

		a.mu.Lock()
		a.gen = gen
		a.mu.Unlock()
		a.log.Info("model loaded", "model", a.opts.Model, "duration", a.now().Sub(start).String())
		return gen, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(Generator), nil
	}
}
