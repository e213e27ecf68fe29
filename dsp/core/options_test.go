package core

import (
	"math"
	"testing"
)

func TestApplyProcessorOptions(t *testing.T) {
	cfg := ApplyProcessorOptions(WithSampleRate(96000), WithBlockSize(2048), WithFramePeriod(10))
	if cfg.SampleRate != 96000 {
		t.Fatalf("sample rate = %v, want 96000", cfg.SampleRate)
	}
	if cfg.BlockSize != 2048 {
		t.Fatalf("block size = %d, want 2048", cfg.BlockSize)
	}
	if cfg.FramePeriod != 10 {
		t.Fatalf("frame period = %v, want 10", cfg.FramePeriod)
	}
}

func TestInvalidOptionsIgnored(t *testing.T) {
	cfg := ApplyProcessorOptions(
		WithSampleRate(0),
		WithBlockSize(-1),
		WithFramePeriod(math.Inf(1)),
		nil,
	)
	def := DefaultProcessorConfig()
	if cfg != def {
		t.Fatalf("cfg = %#v, want %#v", cfg, def)
	}
}

func TestWholeBufferBlockSize(t *testing.T) {
	cfg := ApplyProcessorOptions(WithBlockSize(0))
	if cfg.BlockSize != 0 {
		t.Fatalf("block size = %d, want 0", cfg.BlockSize)
	}
}

func TestFrameHop(t *testing.T) {
	tests := []struct {
		name string
		cfg  ProcessorConfig
		want int
	}{
		{name: "48k 5ms", cfg: ProcessorConfig{SampleRate: 48000, FramePeriod: 5}, want: 240},
		{name: "44k1 5ms", cfg: ProcessorConfig{SampleRate: 44100, FramePeriod: 5}, want: 221},
		{name: "tiny", cfg: ProcessorConfig{SampleRate: 100, FramePeriod: 1}, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.FrameHop(); got != tt.want {
				t.Fatalf("FrameHop() = %d, want %d", got, tt.want)
			}
		})
	}
}
