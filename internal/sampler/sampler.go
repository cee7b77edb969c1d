package sampler

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/claude/fitplanner/internal/dataset"
	"github.com/claude/fitplanner/internal/models"
)

// DefaultMaxSamples is the number of exercises shown per body part.
const DefaultMaxSamples = 5

// Sampler draws random exercises for a body part. Samples differ between
// calls unless the Sampler was created with a fixed seed.
type Sampler struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New returns a Sampler seeded from the runtime's random source.
func New() *Sampler {
	return &Sampler{rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// NewSeeded returns a Sampler with a reproducible sequence.
func NewSeeded(seed uint64) *Sampler {
	return &Sampler{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// FilterAndSample selects every record whose BodyPart equals bodyPart exactly
// and returns min(maxSamples, matches) of them drawn without replacement.
// It returns models.ErrNoMatch when nothing matches.
func (s *Sampler) FilterAndSample(t *dataset.Table, bodyPart string, maxSamples int) ([]models.ExerciseRecord, error) {
	if maxSamples <= 0 {
		maxSamples = DefaultMaxSamples
	}

	idx := t.Indexes(bodyPart)
	if len(idx) == 0 {
		return nil, fmt.Errorf("%w: %q", models.ErrNoMatch, bodyPart)
	}

	k := min(maxSamples, len(idx))
	s.shuffleHead(idx, k)

	out := make([]models.ExerciseRecord, k)
	for i := 0; i < k; i++ {
		out[i] = t.Record(idx[i])
	}
	return out, nil
}

// shuffleHead performs the first k steps of a Fisher-Yates shuffle so that
// idx[:k] is a uniform sample without replacement.
func (s *Sampler) shuffleHead(idx []int, k int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := 0; i < k; i++ {
		j := i + s.rng.IntN(len(idx)-i)
		idx[i], idx[j] = idx[j], idx[i]
	}
}
