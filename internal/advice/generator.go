package advice

import (
	"context"
	"fmt"

	"github.com/claude/fitplanner/internal/models"
)

// Fixed generation parameters for motivational advice.
const (
	DefaultMaxLength    = 50
	DefaultNumSequences = 1
)

// Params controls a single generation call. MaxLength counts prompt and
// continuation together.
type Params struct {
	MaxLength    int
	NumSequences int
}

// DefaultParams returns the parameters used for every advice request.
func DefaultParams() Params {
	return Params{MaxLength: DefaultMaxLength, NumSequences: DefaultNumSequences}
}

// Sequence is one generated text. GeneratedText may or may not repeat the prompt.
type Sequence struct {
	GeneratedText string `json:"generated_text"`
}

// Generator is the external text-generation capability.
type Generator interface {
	Generate(ctx context.Context, prompt string, p Params) ([]Sequence, error)
}

// Loader prepares a Generator, e.g. by checking the model is available.
// It is expensive and runs once per process on success.
type Loader func(ctx context.Context) (Generator, error)

// BuildPrompt returns the prompt for a goal.
func BuildPrompt(goal models.Goal) string {
	return fmt.Sprintf("To achieve %s, the most important mindset is", goal)
}

// maxNewTokens converts a total-length budget into a continuation budget
// using a rough four-characters-per-token estimate of the prompt.
func maxNewTokens(prompt string, maxLength int) int {
	n := maxLength - (len(prompt)+3)/4
	if n < 1 {
		n = 1
	}
	return n
}
