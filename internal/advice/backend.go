package advice

import (
	"context"
	"fmt"
	"time"
)

// Backend kinds accepted by NewLoader.
const (
	BackendOllama = "ollama"
	BackendOpenAI = "openai"
	BackendStatic = "static"
)

// Backend describes where text generation runs.
type Backend struct {
	Kind        string
	Host        string
	Model       string
	APIKey      string
	HTTPTimeout time.Duration
}

// NewLoader returns a Loader for the configured backend. The loader verifies
// the model is available before handing out the Generator.
func NewLoader(b Backend) (Loader, error) {
	switch b.Kind {
	case BackendOllama:
		return func(ctx context.Context) (Generator, error) {
			g := NewOllama(b.Host, b.Model, b.HTTPTimeout)
			if err := g.Load(ctx); err != nil {
				return nil, err
			}
			return g, nil
		}, nil
	case BackendOpenAI:
		return func(ctx context.Context) (Generator, error) {
			g := NewOpenAI(b.Host, b.APIKey, b.Model, b.HTTPTimeout)
			if err := g.Load(ctx); err != nil {
				return nil, err
			}
			return g, nil
		}, nil
	case BackendStatic:
		return func(context.Context) (Generator, error) {
			return StaticGenerator{}, nil
		}, nil
	}
	return nil, fmt.Errorf("unknown generator backend %q", b.Kind)
}
