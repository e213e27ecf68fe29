package vocoder

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-whisper/dsp/noise"
	"github.com/cwbudde/algo-whisper/dsp/window"
)

const synthesisNormFloor = 1e-12

// Synthesize renders a waveform from per-frame F0, spectral envelope and
// aperiodicity. The output holds SynthesisLength(len(f0), ...) samples,
// which is generally not the length of the analysed input.
//
// Frames with f0 below the F0 floor are rendered from Gaussian noise shaped
// by the envelope. Voiced frames mix a pulse train and noise per bin,
// weighted by sqrt(1-ap) and sqrt(ap).
func (w *World) Synthesize(f0 []float64, sp, ap [][]float64, framePeriod float64, sampleRate int) ([]float64, error) {
	if err := validateSampleRate(sampleRate); err != nil {
		return nil, err
	}
	if framePeriod <= 0 || math.IsNaN(framePeriod) || math.IsInf(framePeriod, 0) {
		return nil, fmt.Errorf("vocoder: frame period must be > 0: %g", framePeriod)
	}
	if err := validateShapes(f0, sp, ap); err != nil {
		return nil, err
	}
	if len(f0) == 0 {
		return []float64{}, nil
	}

	bins := len(sp[0])
	fftSize := 2 * (bins - 1)
	if bins < 2 || fftSize&(fftSize-1) != 0 {
		return nil, fmt.Errorf("%w: %d bins is not a power-of-two half spectrum", ErrShapeMismatch, bins)
	}

	fs := float64(sampleRate)
	outLen := SynthesisLength(len(f0), fs, framePeriod)
	hop := framePeriod / 1000 * fs

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("vocoder: failed to create synthesis FFT plan: %w", err)
	}

	seed := w.cfg.seed + w.calls.Add(1) - 1
	pulses := w.pulseExcitation(f0, hop, fs, outLen)
	aperiodic := noise.NewSource(noise.WithSeed(seed)).Gaussian(outLen)

	win := window.Generate(window.TypeHann, fftSize, window.WithPeriodic())
	winSq := make([]float64, fftSize)
	vecmath.MulBlock(winSq, win, win)

	out := make([]float64, outLen)
	norm := make([]float64, outLen)

	periodicSpec := make([]complex128, fftSize)
	noiseSpec := make([]complex128, fftSize)
	frame := make([]float64, fftSize)

	for i := range f0 {
		start := int(math.Round(float64(i)*hop)) - fftSize/2
		voiced := f0[i] >= w.cfg.f0Floor

		fillWindowed(noiseSpec, aperiodic, start, win)
		if err := plan.Forward(noiseSpec, noiseSpec); err != nil {
			return nil, fmt.Errorf("vocoder: forward FFT failed: %w", err)
		}
		if voiced {
			fillWindowed(periodicSpec, pulses, start, win)
			if err := plan.Forward(periodicSpec, periodicSpec); err != nil {
				return nil, fmt.Errorf("vocoder: forward FFT failed: %w", err)
			}
		}

		half := fftSize / 2
		for k := 0; k <= half; k++ {
			amp := math.Sqrt(math.Max(sp[i][k], 0))

			var y complex128
			if voiced {
				a := math.Min(math.Max(ap[i][k], 0), 1)
				y = periodicSpec[k]*complex(amp*math.Sqrt(1-a), 0) + noiseSpec[k]*complex(amp*math.Sqrt(a), 0)
			} else {
				y = noiseSpec[k] * complex(amp, 0)
			}

			if k == 0 || k == half {
				y = complex(real(y), 0)
			}
			noiseSpec[k] = y
		}
		for k := 1; k < half; k++ {
			v := noiseSpec[k]
			noiseSpec[fftSize-k] = complex(real(v), -imag(v))
		}

		if err := plan.Inverse(noiseSpec, noiseSpec); err != nil {
			return nil, fmt.Errorf("vocoder: inverse FFT failed: %w", err)
		}

		for j := range frame {
			frame[j] = real(noiseSpec[j]) * win[j]
		}

		lo := max(start, 0)
		hi := min(start+fftSize, outLen)
		if lo < hi {
			vecmath.AddBlockInPlace(out[lo:hi], frame[lo-start:hi-start])
			vecmath.AddBlockInPlace(norm[lo:hi], winSq[lo-start:hi-start])
		}
	}

	for i := range out {
		if norm[i] > synthesisNormFloor {
			out[i] /= norm[i]
		}
	}
	return out, nil
}

// pulseExcitation builds a unit-power pulse train following the voiced
// frames of f0. Unvoiced stretches stay silent.
func (w *World) pulseExcitation(f0 []float64, hop, fs float64, n int) []float64 {
	out := make([]float64, n)
	phase := 0.0

	for i := range out {
		frame := int(math.Round(float64(i) / hop))
		if frame >= len(f0) {
			frame = len(f0) - 1
		}

		v := f0[frame]
		if v < w.cfg.f0Floor {
			phase = 0
			continue
		}

		phase += v / fs
		if phase >= 1 || i == 0 {
			phase -= math.Floor(phase)
			out[i] = math.Sqrt(fs / v)
		}
	}
	return out
}

func fillWindowed(dst []complex128, src []float64, start int, win []float64) {
	for j := range dst {
		idx := start + j
		if idx >= 0 && idx < len(src) {
			dst[j] = complex(src[idx]*win[j], 0)
		} else {
			dst[j] = 0
		}
	}
}
