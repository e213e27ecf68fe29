package vocoder

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-whisper/internal/testutil"
)

func newTestWorld(t *testing.T, opts ...Option) *World {
	t.Helper()
	w, err := NewWorld(opts...)
	if err != nil {
		t.Fatalf("NewWorld() error = %v", err)
	}
	return w
}

func TestExtractF0Vowel(t *testing.T) {
	const fs = 16000

	for _, pitch := range []float64{130, 200} {
		x := testutil.Vowel(pitch, fs, 0.5, 8000)
		f0, timeAxis, err := newTestWorld(t).ExtractF0(x, fs)
		if err != nil {
			t.Fatalf("ExtractF0() error = %v", err)
		}
		if len(f0) != 101 || len(timeAxis) != 101 {
			t.Fatalf("frames = %d/%d, want 101", len(f0), len(timeAxis))
		}

		// Skip frames whose analysis segment leaves the signal.
		for i := 10; i <= 90; i++ {
			if math.Abs(f0[i]-pitch)/pitch > 0.01 {
				t.Fatalf("pitch %g: f0[%d] = %v", pitch, i, f0[i])
			}
		}
	}
}

func TestExtractF0TimeAxis(t *testing.T) {
	_, timeAxis, err := newTestWorld(t).ExtractF0(make([]float64, 4800), 48000)
	if err != nil {
		t.Fatalf("ExtractF0() error = %v", err)
	}
	if len(timeAxis) != 21 {
		t.Fatalf("frames = %d, want 21", len(timeAxis))
	}
	for i, v := range timeAxis {
		if math.Abs(v-float64(i)*0.005) > 1e-12 {
			t.Fatalf("timeAxis[%d] = %v, want %v", i, v, float64(i)*0.005)
		}
	}
}

func TestExtractF0SilenceIsUnvoiced(t *testing.T) {
	f0, _, err := newTestWorld(t).ExtractF0(make([]float64, 8000), 16000)
	if err != nil {
		t.Fatalf("ExtractF0() error = %v", err)
	}
	for i, v := range f0 {
		if v != 0 {
			t.Fatalf("f0[%d] = %v, want 0", i, v)
		}
	}
}

func TestExtractF0NoiseMostlyUnvoiced(t *testing.T) {
	x := testutil.DeterministicNoise(7, 0.5, 8000)
	f0, _, err := newTestWorld(t).ExtractF0(x, 16000)
	if err != nil {
		t.Fatalf("ExtractF0() error = %v", err)
	}

	voiced := 0
	for _, v := range f0 {
		if v > 0 {
			voiced++
		}
	}
	if voiced > len(f0)/5 {
		t.Fatalf("%d of %d noise frames voiced", voiced, len(f0))
	}
}

func TestExtractF0Errors(t *testing.T) {
	w := newTestWorld(t)

	if _, _, err := w.ExtractF0(nil, 16000); !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("empty input error = %v, want ErrEmptyInput", err)
	}
	if _, _, err := w.ExtractF0([]float64{1}, 0); !errors.Is(err, ErrSampleRate) {
		t.Fatalf("zero sample rate error = %v, want ErrSampleRate", err)
	}
}

func TestRefinePitchRemovesIsolatedFrames(t *testing.T) {
	w := newTestWorld(t)
	c := pitchCandidate{lag: 80, score: 0.9, prev: 0.8, next: 0.8, voiced: true}

	f0 := w.refinePitch([]pitchCandidate{{}, c, {}, c, c, {}}, 16000)
	want := []float64{0, 0, 0, 200, 200, 0}
	testutil.RequireSliceNearlyEqual(t, f0, want, 1e-9)
}

func TestRefinePitchInterpolates(t *testing.T) {
	w := newTestWorld(t)
	// Peak leaning towards lag+1.
	c := pitchCandidate{lag: 80, score: 0.9, prev: 0.7, next: 0.85, voiced: true}

	f0 := w.refinePitch([]pitchCandidate{c, c}, 16000)
	if !(f0[0] < 200 && f0[0] > 16000.0/81) {
		t.Fatalf("f0 = %v, want between %v and 200", f0[0], 16000.0/81)
	}
}

func TestRefinePitchDropsOutOfRange(t *testing.T) {
	w := newTestWorld(t, WithF0Range(100, 400))
	c := pitchCandidate{lag: 300, score: 0.9, prev: 0.8, next: 0.8, voiced: true}

	f0 := w.refinePitch([]pitchCandidate{c, c}, 16000)
	if f0[0] != 0 || f0[1] != 0 {
		t.Fatalf("f0 = %v, want unvoiced (53 Hz below the floor)", f0)
	}
}

func BenchmarkExtractF0(b *testing.B) {
	x := testutil.Vowel(200, 16000, 0.5, 16000)
	w, err := NewWorld()
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for b.Loop() {
		if _, _, err := w.ExtractF0(x, 16000); err != nil {
			b.Fatal(err)
		}
	}
}
