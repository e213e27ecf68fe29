package vocoder

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-whisper/dsp/core"
	"github.com/cwbudde/algo-whisper/dsp/window"
)

const (
	envelopeFloor = 1e-12

	minAperiodicity = 0.001
	maxAperiodicity = 0.999999

	// flatnessOfNoise is exp(-γ), the expected geometric-to-arithmetic mean
	// ratio of a white-noise power spectrum.
	flatnessOfNoise = 0.5614594835668851
)

// spectralAnalyzer holds the FFT plan and scratch for per-frame envelope
// and aperiodicity estimation.
type spectralAnalyzer struct {
	fs      float64
	fftSize int
	bins    int

	plan  *algofft.Plan[complex128]
	buf   []complex128
	cep   []complex128
	re    []float64
	im    []float64
	power []float64

	windows map[int][]float64
}

func newSpectralAnalyzer(fs float64, fftSize int) (*spectralAnalyzer, error) {
	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("vocoder: failed to create spectral FFT plan: %w", err)
	}

	bins := fftSize/2 + 1
	return &spectralAnalyzer{
		fs:      fs,
		fftSize: fftSize,
		bins:    bins,
		plan:    plan,
		buf:     make([]complex128, fftSize),
		cep:     make([]complex128, fftSize),
		re:      make([]float64, bins),
		im:      make([]float64, bins),
		power:   make([]float64, bins),
		windows: make(map[int][]float64),
	}, nil
}

// windowFor returns an odd-length Hann window spanning three periods of f0.
func (s *spectralAnalyzer) windowFor(f0 float64) []float64 {
	wl := int(math.Round(3 * s.fs / f0))
	if wl%2 == 0 {
		wl++
	}
	if wl > s.fftSize {
		wl = s.fftSize - 1
	}
	if wl < 3 {
		wl = 3
	}

	if w, ok := s.windows[wl]; ok {
		return w
	}
	w := window.Generate(window.TypeHann, wl)
	s.windows[wl] = w
	return w
}

// analyzeFrame computes the power spectral density of the pitch-adaptive
// frame centred at center into s.power.
func (s *spectralAnalyzer) analyzeFrame(x []float64, center int, f0 float64) error {
	w := s.windowFor(f0)
	start := center - len(w)/2

	for i := range s.buf {
		s.buf[i] = 0
	}
	for i, wv := range w {
		idx := start + i
		if idx >= 0 && idx < len(x) {
			s.buf[i] = complex(x[idx]*wv, 0)
		}
	}

	if err := s.plan.Forward(s.buf, s.buf); err != nil {
		return fmt.Errorf("vocoder: forward FFT failed: %w", err)
	}

	for k := range s.bins {
		s.re[k] = real(s.buf[k])
		s.im[k] = imag(s.buf[k])
	}
	vecmath.Power(s.power, s.re, s.im)
	vecmath.ScaleBlock(s.power, s.power, 1/window.Energy(w))

	return nil
}

// envelope smooths s.power by liftering its real cepstrum below the pitch
// period and returns the result as a new slice.
func (s *spectralAnalyzer) envelope(f0 float64) ([]float64, error) {
	n := s.fftSize
	half := n / 2

	for k := 0; k <= half; k++ {
		l := math.Log(math.Max(s.power[k], envelopeFloor))
		s.cep[k] = complex(l, 0)
		if k > 0 && k < half {
			s.cep[n-k] = complex(l, 0)
		}
	}

	if err := s.plan.Inverse(s.cep, s.cep); err != nil {
		return nil, fmt.Errorf("vocoder: inverse FFT failed: %w", err)
	}

	// Sinc lifter: smooths over one harmonic spacing and reaches zero at the
	// pitch period, removing the harmonic comb.
	period := s.fs / f0
	for q := 1; q <= half; q++ {
		lift := 0.0
		if float64(q) < period {
			x := math.Pi * float64(q) / period
			lift = math.Sin(x) / x
		}
		s.cep[q] = complex(real(s.cep[q])*lift, 0)
		if q < half {
			s.cep[n-q] = complex(real(s.cep[n-q])*lift, 0)
		}
	}
	s.cep[0] = complex(real(s.cep[0]), 0)

	if err := s.plan.Forward(s.cep, s.cep); err != nil {
		return nil, fmt.Errorf("vocoder: forward FFT failed: %w", err)
	}

	out := make([]float64, s.bins)
	for k := range out {
		out[k] = math.Max(math.Exp(real(s.cep[k])), envelopeFloor)
	}
	return out, nil
}

// aperiodicity estimates, per bin, how noise-like the power spectrum is
// within one harmonic spacing: the local spectral flatness relative to that
// of white noise.
func (s *spectralAnalyzer) aperiodicity(f0 float64) []float64 {
	binWidth := s.fs / float64(s.fftSize)
	halfSpan := int(math.Round(f0 / binWidth / 2))
	if halfSpan < 1 {
		halfSpan = 1
	}

	logPower := make([]float64, s.bins)
	for k, p := range s.power {
		logPower[k] = math.Log(math.Max(p, envelopeFloor))
	}

	out := make([]float64, s.bins)
	for k := range out {
		lo := max(0, k-halfSpan)
		hi := min(s.bins-1, k+halfSpan)

		sumLog, sum := 0.0, 0.0
		for j := lo; j <= hi; j++ {
			sumLog += logPower[j]
			sum += math.Max(s.power[j], envelopeFloor)
		}
		count := float64(hi - lo + 1)
		flatness := math.Exp(sumLog/count) / (sum / count)

		out[k] = core.Clamp(flatness/flatnessOfNoise, minAperiodicity, maxAperiodicity)
	}
	return out
}

func unvoicedAperiodicity(bins int) []float64 {
	out := make([]float64, bins)
	for i := range out {
		out[i] = maxAperiodicity
	}
	return out
}
