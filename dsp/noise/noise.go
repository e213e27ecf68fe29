package noise

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
)

// Kind selects the excitation noise colour.
type Kind int

const (
	// White is uniform noise in [0, 1).
	White Kind = iota
	// Pink is 1/f noise normalised to [-1, 1].
	Pink
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case White:
		return "white"
	case Pink:
		return "pink"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind converts "white" or "pink" (case-insensitive) to a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "white":
		return White, nil
	case "pink":
		return Pink, nil
	default:
		return 0, fmt.Errorf("noise: unknown kind %q", s)
	}
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == White || k == Pink
}

// Source draws noise sequences from a seeded pseudo-random generator.
//
// A Source is not safe for concurrent use; give each goroutine its own.
type Source struct {
	rng  *rand.Rand
	seed int64
}

// Option configures a Source.
type Option func(*Source)

// WithSeed sets the deterministic random seed.
func WithSeed(seed int64) Option {
	return func(s *Source) {
		s.seed = seed
		s.rng = rand.New(rand.NewSource(seed))
	}
}

// WithRand makes the Source draw from an externally owned generator.
func WithRand(rng *rand.Rand) Option {
	return func(s *Source) {
		if rng != nil {
			s.rng = rng
		}
	}
}

// NewSource creates a noise source. Without options it is seeded with 1.
func NewSource(opts ...Option) *Source {
	s := &Source{seed: 1}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(s.seed))
	}
	return s
}

// Seed returns the seed the source was created with.
func (s *Source) Seed() int64 { return s.seed }

// White returns n independent samples uniformly distributed over [0, 1).
func (s *Source) White(n int) []float64 {
	if n <= 0 {
		return []float64{}
	}

	out := make([]float64, n)
	for i := range out {
		out[i] = s.rng.Float64()
	}
	return out
}

// Gaussian returns n standard-normal samples.
func (s *Source) Gaussian(n int) []float64 {
	if n <= 0 {
		return []float64{}
	}

	out := make([]float64, n)
	for i := range out {
		out[i] = s.rng.NormFloat64()
	}
	return out
}

// Pink returns n pink-noise samples, peak-normalised to [-1, 1].
//
// state carries the filter memory across calls of one continuous stream and
// is updated in place. A nil state starts from silence and is discarded.
func (s *Source) Pink(n int, state *PinkState) []float64 {
	if n <= 0 {
		return []float64{}
	}
	if state == nil {
		state = &PinkState{}
	}

	out := make([]float64, n)
	for i := range out {
		out[i] = state.Next(s.rng.NormFloat64())
	}

	NormalizePeak(out)
	return out
}

// Generate dispatches to White or Pink. state is ignored for White.
func (s *Source) Generate(kind Kind, n int, state *PinkState) ([]float64, error) {
	switch kind {
	case White:
		return s.White(n), nil
	case Pink:
		return s.Pink(n, state), nil
	default:
		return nil, fmt.Errorf("noise: invalid kind: %d", kind)
	}
}

// NormalizePeak divides data in place by its maximum absolute value and
// returns that value. All-zero input is left untouched.
func NormalizePeak(data []float64) float64 {
	peak := 0.0
	for _, v := range data {
		if av := math.Abs(v); av > peak {
			peak = av
		}
	}

	if peak == 0 {
		return 0
	}

	for i := range data {
		data[i] /= peak
	}
	return peak
}
