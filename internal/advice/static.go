package advice

import (
	"context"
	"strings"
)

// StaticGenerator returns a fixed continuation. It needs no model and is
// used for offline development.
type StaticGenerator struct {
	Continuation string
}

const defaultContinuation = " consistency: show up, do the work, and trust the process."

// Generate returns prompt followed by the fixed continuation.
func (g StaticGenerator) Generate(_ context.Context, prompt string, p Params) ([]Sequence, error) {
	cont := g.Continuation
	if cont == "" {
		cont = defaultContinuation
	}
	n := max(p.NumSequences, 1)
	seqs := make([]Sequence, n)
	for i := range seqs {
		seqs[i] = Sequence{GeneratedText: strings.TrimRight(prompt, " ") + cont}
	}
	return seqs, nil
}
