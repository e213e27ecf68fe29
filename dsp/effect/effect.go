package effect

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-whisper/dsp/core"
	"github.com/cwbudde/algo-whisper/dsp/noise"
	"github.com/cwbudde/algo-whisper/dsp/silhouette"
	"github.com/cwbudde/algo-whisper/dsp/vocoder"
)

var (
	// ErrMixRange is returned for a dry/wet mix outside [0, 1].
	ErrMixRange = errors.New("effect: mix must be in [0, 1]")
	// ErrChannelLength is returned when channels of one block differ in length.
	ErrChannelLength = errors.New("effect: channel lengths differ")
)

// Option configures an Effect.
type Option func(*config) error

type config struct {
	processor core.ProcessorConfig
	pipeline  vocoder.Pipeline
	kind      noise.Kind
	seed      int64
	shortfall ShortfallPolicy
	floor     float64
	logger    logrus.FieldLogger
}

func defaultConfig() config {
	return config{
		processor: core.DefaultProcessorConfig(),
		kind:      noise.Pink,
		seed:      1,
		shortfall: ShortfallZeroPad,
		floor:     silhouette.DefaultEnvelopeFloor,
		logger:    logrus.StandardLogger(),
	}
}

// WithProcessorOptions applies sample rate, block size and frame period
// settings.
func WithProcessorOptions(opts ...core.ProcessorOption) Option {
	return func(cfg *config) error {
		for _, opt := range opts {
			if opt != nil {
				opt(&cfg.processor)
			}
		}
		return nil
	}
}

// WithPipeline replaces the default native vocoder.
func WithPipeline(p vocoder.Pipeline) Option {
	return func(cfg *config) error {
		if p == nil {
			return errors.New("effect: pipeline must not be nil")
		}
		cfg.pipeline = p
		return nil
	}
}

// WithNoiseKind selects the excitation noise. The default is pink.
func WithNoiseKind(kind noise.Kind) Option {
	return func(cfg *config) error {
		if !kind.Valid() {
			return fmt.Errorf("effect: invalid noise kind: %d", kind)
		}
		cfg.kind = kind
		return nil
	}
}

// WithSeed seeds both the excitation noise and the default vocoder.
func WithSeed(seed int64) Option {
	return func(cfg *config) error {
		cfg.seed = seed
		return nil
	}
}

// WithShortfallPolicy selects how short synthesis results are extended.
func WithShortfallPolicy(p ShortfallPolicy) Option {
	return func(cfg *config) error {
		if !p.Valid() {
			return fmt.Errorf("effect: invalid shortfall policy: %d", p)
		}
		cfg.shortfall = p
		return nil
	}
}

// WithEnvelopeFloor sets the value substituted for zero envelope bins
// before synthesis. Zero disables flooring.
func WithEnvelopeFloor(floor float64) Option {
	return func(cfg *config) error {
		if floor < 0 || math.IsNaN(floor) || math.IsInf(floor, 0) {
			return fmt.Errorf("effect: envelope floor must be >= 0: %v", floor)
		}
		cfg.floor = floor
		return nil
	}
}

// WithLogger routes state transitions and length corrections to l.
func WithLogger(l logrus.FieldLogger) Option {
	return func(cfg *config) error {
		if l == nil {
			return errors.New("effect: logger must not be nil")
		}
		cfg.logger = l
		return nil
	}
}

// Effect is the whisper effect. It owns one pink-noise filter state, so
// pink excitation continues across blocks until Reset.
//
// Effect is not safe for concurrent use.
type Effect struct {
	cfg         config
	sampleRate  int
	pipeline    vocoder.Pipeline
	transformer *silhouette.Transformer
	pink        noise.PinkState
	state       State
	blocks      int64
	scratch     []float64
	log         logrus.FieldLogger
}

// New creates an Effect.
func New(opts ...Option) (*Effect, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	sr := cfg.processor.SampleRate
	if sr != math.Trunc(sr) || sr < 1 {
		return nil, fmt.Errorf("effect: sample rate must be a positive integer: %v", sr)
	}

	e := &Effect{
		cfg:        cfg,
		sampleRate: int(sr),
		pipeline:   cfg.pipeline,
		log:        cfg.logger.WithField("component", "whisper"),
	}

	if e.pipeline == nil {
		w, err := vocoder.NewWorld(
			vocoder.WithFramePeriod(cfg.processor.FramePeriod),
			vocoder.WithSeed(cfg.seed),
		)
		if err != nil {
			return nil, fmt.Errorf("effect: failed to create vocoder: %w", err)
		}
		e.pipeline = w
	}

	if err := e.resetTransformer(); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Effect) resetTransformer() error {
	t, err := silhouette.NewTransformer(
		silhouette.WithNoiseKind(e.cfg.kind),
		silhouette.WithSeed(e.cfg.seed),
		silhouette.WithPinkState(&e.pink),
		silhouette.WithEnvelopeFloor(e.cfg.floor),
	)
	if err != nil {
		return fmt.Errorf("effect: failed to create transformer: %w", err)
	}
	e.transformer = t
	return nil
}

// State returns the current processing stage.
func (e *Effect) State() State { return e.state }

// Config returns the processor configuration.
func (e *Effect) Config() core.ProcessorConfig { return e.cfg.processor }

// NoiseKind returns the excitation noise kind.
func (e *Effect) NoiseKind() noise.Kind { return e.cfg.kind }

// ShortfallPolicy returns the configured shortfall policy.
func (e *Effect) ShortfallPolicy() ShortfallPolicy { return e.cfg.shortfall }

// Blocks returns the number of non-empty blocks processed since creation
// or the last Reset.
func (e *Effect) Blocks() int64 { return e.blocks }

// Reset clears the pink-noise state and restarts the noise sequence.
func (e *Effect) Reset() {
	e.pink.Reset()
	e.blocks = 0
	e.setState(StateIdle)
	// Options were validated in New.
	_ = e.resetTransformer()
}

func (e *Effect) setState(s State) {
	if s == e.state {
		return
	}
	e.log.WithFields(logrus.Fields{
		"from":  e.state.String(),
		"to":    s.String(),
		"block": e.blocks,
	}).Debug("state transition")
	e.state = s
}

// Process whispers one block and returns a new slice of exactly len(block)
// samples. Empty blocks return an empty result without touching the
// pipeline.
func (e *Effect) Process(block []float64) ([]float64, error) {
	if len(block) == 0 {
		return []float64{}, nil
	}
	defer e.setState(StateIdle)

	e.setState(StateAnalyzing)
	a, err := e.pipeline.Analyze(block, e.sampleRate)
	if err != nil {
		return nil, fmt.Errorf("effect: analysis failed: %w", err)
	}
	if a == nil {
		return nil, errors.New("effect: analysis returned no result")
	}
	if err := a.Validate(); err != nil {
		return nil, fmt.Errorf("effect: analysis: %w", err)
	}

	e.setState(StateTransforming)
	excitation, envelope := e.transformer.Transform(a.F0, a.Envelope, float64(e.sampleRate))

	e.setState(StateSynthesizing)
	framePeriod := a.FramePeriod
	if framePeriod <= 0 {
		framePeriod = e.cfg.processor.FramePeriod
	}
	wet, err := e.pipeline.Synthesize(excitation, envelope, a.Aperiodicity, framePeriod, e.sampleRate)
	if err != nil {
		return nil, fmt.Errorf("effect: synthesis failed: %w", err)
	}

	if len(wet) != len(block) {
		e.log.WithFields(logrus.Fields{
			"block":       e.blocks,
			"input":       len(block),
			"synthesized": len(wet),
			"policy":      e.cfg.shortfall.String(),
		}).Debug("fitting synthesized length")
	}
	e.blocks++

	return core.FitLength(wet, len(block), e.cfg.shortfall == ShortfallHoldLast), nil
}

// ProcessBuffer splits x into blocks of the configured block size (the
// whole buffer when it is 0), processes each and concatenates the results.
func (e *Effect) ProcessBuffer(x []float64) ([]float64, error) {
	size := e.cfg.processor.BlockSize
	if size <= 0 || size >= len(x) {
		return e.Process(x)
	}

	out := make([]float64, 0, len(x))
	for start := 0; start < len(x); start += size {
		end := min(start+size, len(x))
		y, err := e.Process(x[start:end])
		if err != nil {
			return nil, fmt.Errorf("effect: block at sample %d: %w", start, err)
		}
		out = append(out, y...)
	}
	return out, nil
}

// ProcessChannels applies the effect to one multichannel block in place:
// channel 0 is whispered and the result is mixed into every channel with
// out = mix*dry + (1-mix)*wet.
func (e *Effect) ProcessChannels(channels [][]float64, mix float64) error {
	if err := validateMix(mix); err != nil {
		return err
	}
	if len(channels) == 0 {
		return nil
	}

	n := len(channels[0])
	for i, ch := range channels {
		if len(ch) != n {
			return fmt.Errorf("%w: channel %d has %d samples, channel 0 has %d", ErrChannelLength, i, len(ch), n)
		}
	}

	wet, err := e.Process(channels[0])
	if err != nil {
		return err
	}

	e.scratch = core.EnsureLen(e.scratch, n)
	for _, ch := range channels {
		mixInto(ch, ch, wet, mix, e.scratch)
	}
	return nil
}

// Mix returns mix*dry + (1-mix)*wet. mix=1 passes the dry signal, mix=0
// the fully whispered one.
func Mix(dry, wet []float64, mix float64) ([]float64, error) {
	if err := validateMix(mix); err != nil {
		return nil, err
	}
	if len(dry) != len(wet) {
		return nil, fmt.Errorf("effect: dry has %d samples, wet %d", len(dry), len(wet))
	}

	out := make([]float64, len(dry))
	mixInto(out, dry, wet, mix, make([]float64, len(dry)))
	return out, nil
}

func mixInto(dst, dry, wet []float64, mix float64, scratch []float64) {
	vecmath.ScaleBlock(scratch, wet, 1-mix)
	vecmath.ScaleBlock(dst, dry, mix)
	vecmath.AddBlockInPlace(dst, scratch)
}

func validateMix(mix float64) error {
	if mix < 0 || mix > 1 || math.IsNaN(mix) {
		return fmt.Errorf("%w: %v", ErrMixRange, mix)
	}
	return nil
}
