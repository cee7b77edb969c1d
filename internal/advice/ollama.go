package advice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// OllamaGenerator calls a local Ollama runtime (POST /api/generate).
type OllamaGenerator struct {
	httpClient *http.Client
	host       string
	model      string
}

// NewOllama creates a generator for model on host (e.g. http://127.0.0.1:11434).
func NewOllama(host, model string, httpTimeout time.Duration) *OllamaGenerator {
	if host == "" {
		host = "http://127.0.0.1:11434"
	}
	if httpTimeout <= 0 {
		httpTimeout = 60 * time.Second
	}
	return &OllamaGenerator{
		httpClient: &http.Client{Timeout: httpTimeout},
		host:       strings.TrimRight(host, "/"),
		model:      model,
	}
}

type ollamaGenerateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Raw     bool           `json:"raw"`
	Options map[string]any `json:"options,omitempty"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

type ollamaShowRequest struct {
	Model string `json:"model"`
}

// Load checks that the model is available on the runtime. A missing model
// yields *ModelNotFoundError.
func (g *OllamaGenerator) Load(ctx context.Context) error {
	if g.model == "" {
		return errors.New("ollama: model cannot be empty")
	}
	return g.post(ctx, "/api/show", ollamaShowRequest{Model: g.model}, nil)
}

// Generate produces p.NumSequences raw continuations of prompt.
func (g *OllamaGenerator) Generate(ctx context.Context, prompt string, p Params) ([]Sequence, error) {
	if prompt == "" {
		return nil, errors.New("ollama: prompt cannot be empty")
	}
	n := max(p.NumSequences, 1)

	req := ollamaGenerateRequest{
		Model:   g.model,
		Prompt:  prompt,
		Stream:  false,
		Raw:     true,
		Options: map[string]any{"num_predict": maxNewTokens(prompt, p.MaxLength)},
	}

	seqs := make([]Sequence, 0, n)
	for i := 0; i < n; i++ {
		var resp ollamaGenerateResponse
		if err := g.post(ctx, "/api/generate", req, &resp); err != nil {
			return nil, err
		}
		seqs = append(seqs, Sequence{GeneratedText: prompt + resp.Response})
	}
	return seqs, nil
}

func (g *OllamaGenerator) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("ollama: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.host+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("ollama: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &UnreachableError{Host: g.host, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 8<<10))
		var msg struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(raw, &msg)
		return classifyStatus(resp.StatusCode, msg.Error)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("ollama: decode response: %w", err)
	}
	return nil
}
