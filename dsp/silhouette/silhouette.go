// Package silhouette implements the Phantom Silhouette transform: the pitch
// contour of a vocoder analysis is replaced by a noise sequence of the same
// length and the spectral envelope is reshaped towards whispered speech.
//
// The returned contour is no longer a pitch in Hz. Resynthesis consumes it as
// the new excitation, and because every value lies far below any plausible
// fundamental, every frame is rendered from noise.
package silhouette

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/cwbudde/algo-whisper/dsp/noise"
	"github.com/cwbudde/algo-whisper/dsp/reshape"
)

// DefaultEnvelopeFloor is the value substituted for zero envelope bins when
// a floor is enabled.
const DefaultEnvelopeFloor = 1e-8

var errNegativeFloor = errors.New("silhouette: envelope floor must be >= 0")

// Option configures a Transformer.
type Option func(*config) error

type config struct {
	kind  noise.Kind
	seed  int64
	pink  *noise.PinkState
	floor float64
}

func defaultConfig() config {
	return config{
		kind: noise.White,
		seed: 1,
	}
}

// WithNoiseKind selects the excitation noise. The default is white noise.
func WithNoiseKind(kind noise.Kind) Option {
	return func(cfg *config) error {
		if !kind.Valid() {
			return fmt.Errorf("silhouette: invalid noise kind: %d", kind)
		}
		cfg.kind = kind
		return nil
	}
}

// WithSeed sets the noise seed.
func WithSeed(seed int64) Option {
	return func(cfg *config) error {
		cfg.seed = seed
		return nil
	}
}

// WithPinkState makes pink-noise draws continue the given filter memory
// instead of starting from silence on every call. The caller owns state and
// must not share it between concurrently used transformers.
func WithPinkState(state *noise.PinkState) Option {
	return func(cfg *config) error {
		cfg.pink = state
		return nil
	}
}

// WithEnvelopeFloor replaces zero bins of the reshaped envelope with floor.
// Zero disables flooring, which is the default.
func WithEnvelopeFloor(floor float64) Option {
	return func(cfg *config) error {
		if floor < 0 || math.IsNaN(floor) || math.IsInf(floor, 0) {
			return fmt.Errorf("%w: %v", errNegativeFloor, floor)
		}
		cfg.floor = floor
		return nil
	}
}

// Transformer applies the Phantom Silhouette transform with a fixed noise
// configuration. It is not safe for concurrent use.
type Transformer struct {
	kind  noise.Kind
	src   *noise.Source
	pink  *noise.PinkState
	floor float64
}

// NewTransformer creates a Transformer.
func NewTransformer(opts ...Option) (*Transformer, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	return &Transformer{
		kind:  cfg.kind,
		src:   noise.NewSource(noise.WithSeed(cfg.seed)),
		pink:  cfg.pink,
		floor: cfg.floor,
	}, nil
}

// NoiseKind returns the configured excitation noise.
func (t *Transformer) NoiseKind() noise.Kind { return t.kind }

// EnvelopeFloor returns the configured envelope floor (0 when disabled).
func (t *Transformer) EnvelopeFloor() float64 { return t.floor }

// Transform returns a noise contour with len(f0) samples and the reshaped
// envelope. Neither input is modified. sp must not be ragged.
func (t *Transformer) Transform(f0 []float64, sp [][]float64, sampleRate float64) ([]float64, [][]float64) {
	var excitation []float64
	if t.kind == noise.Pink {
		excitation = t.src.Pink(len(f0), t.pink)
	} else {
		excitation = t.src.White(len(f0))
	}

	envelope := reshape.Whisper(sp, sampleRate)
	if t.floor > 0 {
		envelope = reshape.Floor(envelope, t.floor)
	}

	return excitation, envelope
}

// Transform applies the Phantom Silhouette transform with a freshly seeded
// noise source and, for pink noise, a filter state local to this call. It is
// safe for concurrent use.
func Transform(f0 []float64, sp [][]float64, sampleRate float64, kind noise.Kind) ([]float64, [][]float64) {
	if !kind.Valid() {
		panic(fmt.Sprintf("silhouette: invalid noise kind: %d", kind))
	}

	t := &Transformer{
		kind: kind,
		src:  noise.NewSource(noise.WithSeed(rand.Int63())),
	}
	return t.Transform(f0, sp, sampleRate)
}
