package advice

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIGenerator calls an OpenAI-compatible completions endpoint. Most
// self-hosted inference servers (vLLM, TGI, llama.cpp) expose this API.
type OpenAIGenerator struct {
	client openai.Client
	model  string
}

// NewOpenAI creates a generator for model. baseURL may be empty for the
// public OpenAI API.
func NewOpenAI(baseURL, apiKey, model string, httpTimeout time.Duration) *OpenAIGenerator {
	if httpTimeout <= 0 {
		httpTimeout = 60 * time.Second
	}
	opts := []option.RequestOption{
		option.WithHTTPClient(&http.Client{Timeout: httpTimeout}),
		option.WithMaxRetries(0),
	}
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimRight(baseURL, "/")+"/"))
	}
	return &OpenAIGenerator{client: openai.NewClient(opts...), model: model}
}

// Load checks that the model is served by the endpoint.
func (g *OpenAIGenerator) Load(ctx context.Context) error {
	if g.model == "" {
		return errors.New("openai: model cannot be empty")
	}
	if _, err := g.client.Models.Get(ctx, g.model); err != nil {
		return mapOpenAIError(err)
	}
	return nil
}

// Generate requests p.NumSequences completions of prompt.
func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string, p Params) ([]Sequence, error) {
	if prompt == "" {
		return nil, errors.New("openai: prompt cannot be empty")
	}
	completion, err := g.client.Completions.New(ctx, openai.CompletionNewParams{
		Model:     openai.CompletionNewParamsModel(g.model),
		Prompt:    openai.CompletionNewParamsPromptUnion{OfString: openai.String(prompt)},
		MaxTokens: openai.Int(int64(maxNewTokens(prompt, p.MaxLength))),
		N:         openai.Int(int64(max(p.NumSequences, 1))),
	})
	if err != nil {
		return nil, mapOpenAIError(err)
	}

	seqs := make([]Sequence, 0, len(completion.Choices))
	for _, c := range completion.Choices {
		seqs = append(seqs, Sequence{GeneratedText: prompt + c.Text})
	}
	return seqs, nil
}

// mapOpenAIError converts SDK errors into the package's typed errors.
func mapOpenAIError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return classifyStatus(apiErr.StatusCode, apiErr.Message)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return &UnreachableError{Err: fmt.Errorf("openai: %w", err)}
}
