package core

import "math"

// ProcessorConfig defines the processing settings shared by the analysis,
// transform and synthesis stages.
type ProcessorConfig struct {
	SampleRate float64
	// BlockSize is the host block length in samples. Zero means whole-buffer
	// processing.
	BlockSize int
	// FramePeriod is the spacing of analysis frames in milliseconds.
	FramePeriod float64
}

// ProcessorOption mutates a ProcessorConfig.
type ProcessorOption func(*ProcessorConfig)

// DefaultProcessorConfig returns the defaults used by the whisper effect.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		SampleRate:  48000,
		BlockSize:   1024,
		FramePeriod: 5,
	}
}

// WithSampleRate sets the processing sample rate.
func WithSampleRate(sampleRate float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if sampleRate > 0 && !math.IsInf(sampleRate, 0) {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithBlockSize sets the processing block size. Zero selects whole-buffer
// processing; negative values are ignored.
func WithBlockSize(blockSize int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if blockSize >= 0 {
			cfg.BlockSize = blockSize
		}
	}
}

// WithFramePeriod sets the analysis frame period in milliseconds.
func WithFramePeriod(ms float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if ms > 0 && !math.IsInf(ms, 0) {
			cfg.FramePeriod = ms
		}
	}
}

// ApplyProcessorOptions applies zero or more options to the default config.
func ApplyProcessorOptions(opts ...ProcessorOption) ProcessorConfig {
	cfg := DefaultProcessorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// FrameHop returns the frame period expressed in samples (at least 1).
func (c ProcessorConfig) FrameHop() int {
	hop := int(math.Round(c.SampleRate * c.FramePeriod / 1000))
	if hop < 1 {
		return 1
	}
	return hop
}
