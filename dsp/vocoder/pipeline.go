package vocoder

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-whisper/dsp/reshape"
)

const (
	defaultF0Floor          = 71.0
	defaultF0Ceil           = 800.0
	defaultFramePeriod      = 5.0
	defaultVoicingThreshold = 0.45
	defaultUnvoicedF0       = 500.0
)

var (
	// ErrEmptyInput is returned when analysis receives no samples.
	ErrEmptyInput = errors.New("vocoder: input must not be empty")
	// ErrSampleRate is returned for non-positive sample rates.
	ErrSampleRate = errors.New("vocoder: sample rate must be > 0")
	// ErrShapeMismatch is returned when f0, envelope and aperiodicity disagree
	// in frame or bin count.
	ErrShapeMismatch = errors.New("vocoder: parameter shapes do not match")
)

// Analysis is the decomposition of one waveform. All four sequences have
// one entry per frame; Envelope and Aperiodicity share the bin count.
type Analysis struct {
	F0           []float64
	TimeAxis     []float64
	Envelope     [][]float64
	Aperiodicity [][]float64

	// FramePeriod is the frame spacing in milliseconds.
	FramePeriod float64
	SampleRate  int
	FFTSize     int
}

// Frames returns the number of analysis frames.
func (a *Analysis) Frames() int { return len(a.F0) }

// Bins returns the number of envelope bins per frame.
func (a *Analysis) Bins() int {
	if len(a.Envelope) == 0 {
		return 0
	}
	return len(a.Envelope[0])
}

// Validate checks that the four sequences are mutually consistent.
func (a *Analysis) Validate() error {
	return validateShapes(a.F0, a.Envelope, a.Aperiodicity)
}

// Pipeline analyses a waveform and synthesises a waveform from (possibly
// modified) analysis parameters.
type Pipeline interface {
	Analyze(x []float64, sampleRate int) (*Analysis, error)
	Synthesize(f0 []float64, sp, ap [][]float64, framePeriod float64, sampleRate int) ([]float64, error)
}

// Option configures a World vocoder.
type Option func(*config) error

type config struct {
	f0Floor          float64
	f0Ceil           float64
	framePeriod      float64
	voicingThreshold float64
	seed             int64
}

func defaultConfig() config {
	return config{
		f0Floor:          defaultF0Floor,
		f0Ceil:           defaultF0Ceil,
		framePeriod:      defaultFramePeriod,
		voicingThreshold: defaultVoicingThreshold,
		seed:             1,
	}
}

// WithF0Range sets the pitch search range in Hz.
func WithF0Range(floor, ceil float64) Option {
	return func(cfg *config) error {
		if floor <= 0 || ceil <= floor || math.IsInf(ceil, 0) || math.IsNaN(floor) {
			return fmt.Errorf("vocoder: invalid f0 range [%g, %g]", floor, ceil)
		}
		cfg.f0Floor = floor
		cfg.f0Ceil = ceil
		return nil
	}
}

// WithFramePeriod sets the analysis frame period in milliseconds.
func WithFramePeriod(ms float64) Option {
	return func(cfg *config) error {
		if ms <= 0 || math.IsNaN(ms) || math.IsInf(ms, 0) {
			return fmt.Errorf("vocoder: frame period must be > 0: %g", ms)
		}
		cfg.framePeriod = ms
		return nil
	}
}

// WithVoicingThreshold sets the normalised autocorrelation peak required
// for a frame to count as voiced.
func WithVoicingThreshold(th float64) Option {
	return func(cfg *config) error {
		if th <= 0 || th >= 1 || math.IsNaN(th) {
			return fmt.Errorf("vocoder: voicing threshold must be in (0, 1): %g", th)
		}
		cfg.voicingThreshold = th
		return nil
	}
}

// WithSeed sets the seed of the synthesis noise excitation.
func WithSeed(seed int64) Option {
	return func(cfg *config) error {
		cfg.seed = seed
		return nil
	}
}

// World is the native WORLD-style vocoder. It is safe for concurrent use:
// every call allocates its own FFT plans and scratch buffers.
type World struct {
	cfg   config
	calls atomic.Int64
}

var _ Pipeline = (*World)(nil)

// NewWorld creates a World vocoder.
func NewWorld(opts ...Option) (*World, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	return &World{cfg: cfg}, nil
}

// FramePeriod returns the analysis frame period in milliseconds.
func (w *World) FramePeriod() float64 { return w.cfg.framePeriod }

// F0Floor returns the lowest F0 treated as voiced.
func (w *World) F0Floor() float64 { return w.cfg.f0Floor }

// Analyze extracts and refines F0, then estimates the spectral envelope and
// aperiodicity for every frame.
func (w *World) Analyze(x []float64, sampleRate int) (*Analysis, error) {
	f0, timeAxis, err := w.ExtractF0(x, sampleRate)
	if err != nil {
		return nil, err
	}

	fs := float64(sampleRate)
	fftSize := FFTSize(fs, w.cfg.f0Floor)

	sa, err := newSpectralAnalyzer(fs, fftSize)
	if err != nil {
		return nil, err
	}

	envelope := make([][]float64, len(f0))
	aperiodicity := make([][]float64, len(f0))

	for i, t := range timeAxis {
		center := int(math.Round(t * fs))

		voiced := f0[i] >= w.cfg.f0Floor
		frameF0 := f0[i]
		if !voiced {
			frameF0 = defaultUnvoicedF0
		}

		if err := sa.analyzeFrame(x, center, frameF0); err != nil {
			return nil, err
		}

		envelope[i], err = sa.envelope(frameF0)
		if err != nil {
			return nil, err
		}

		if voiced {
			aperiodicity[i] = sa.aperiodicity(frameF0)
		} else {
			aperiodicity[i] = unvoicedAperiodicity(sa.bins)
		}
	}

	return &Analysis{
		F0:           f0,
		TimeAxis:     timeAxis,
		Envelope:     envelope,
		Aperiodicity: aperiodicity,
		FramePeriod:  w.cfg.framePeriod,
		SampleRate:   sampleRate,
		FFTSize:      fftSize,
	}, nil
}

// FFTSize returns the analysis FFT length for a sample rate and F0 floor:
// the smallest power of two above three periods of the lowest pitch, doubled.
func FFTSize(sampleRate, f0Floor float64) int {
	return 1 << (1 + int(math.Floor(math.Log2(3*sampleRate/f0Floor))))
}

// FrameCount returns the number of analysis frames for n samples.
func FrameCount(n int, sampleRate, framePeriod float64) int {
	return int(float64(n)/sampleRate*1000/framePeriod) + 1
}

// SynthesisLength returns the number of samples synthesised from frames
// analysis frames.
func SynthesisLength(frames int, sampleRate, framePeriod float64) int {
	if frames <= 0 {
		return 0
	}
	return int(float64(frames-1)*framePeriod/1000*sampleRate) + 1
}

func validateShapes(f0 []float64, sp, ap [][]float64) error {
	if len(sp) != len(f0) || len(ap) != len(f0) {
		return fmt.Errorf("%w: %d f0 frames, %d envelope frames, %d aperiodicity frames",
			ErrShapeMismatch, len(f0), len(sp), len(ap))
	}

	spBins, err := reshape.Bins(sp)
	if err != nil {
		return fmt.Errorf("%w: envelope: %v", ErrShapeMismatch, err)
	}
	apBins, err := reshape.Bins(ap)
	if err != nil {
		return fmt.Errorf("%w: aperiodicity: %v", ErrShapeMismatch, err)
	}
	if spBins != apBins {
		return fmt.Errorf("%w: envelope has %d bins, aperiodicity %d", ErrShapeMismatch, spBins, apBins)
	}
	return nil
}

func validateSampleRate(sampleRate int) error {
	if sampleRate <= 0 {
		return fmt.Errorf("%w: %d", ErrSampleRate, sampleRate)
	}
	return nil
}
