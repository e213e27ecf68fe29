// Package spectral summarises the long-term spectrum of a signal. The
// descriptors make the whisper reshaping measurable: suppression of the
// voicing band lowers LowBandRatio, high-band emphasis raises Centroid.
package spectral

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-whisper/dsp/window"
)

const (
	// DefaultFFTSize is the analysis frame length used when none is given.
	DefaultFFTSize = 2048
	// LowBandEdge separates the voicing band from the rest of the spectrum.
	LowBandEdge = 1000.0
	// RolloffFraction is the energy share below the reported rolloff.
	RolloffFraction = 0.85

	minFFTSize = 16
)

var errSampleRate = errors.New("spectral: sample rate must be > 0")

// Profile holds descriptors of the averaged magnitude spectrum.
type Profile struct {
	Frames int
	// Centroid is the magnitude-weighted mean frequency in Hz.
	Centroid float64
	// Flatness is the geometric over arithmetic mean of the magnitudes, 0..1.
	Flatness float64
	// Rolloff is the frequency below which RolloffFraction of the energy lies.
	Rolloff float64
	// LowBandRatio is the energy share below LowBandEdge.
	LowBandRatio float64
}

// Analyze averages Hann-windowed power spectra of x with 50% overlap and
// derives a Profile. fftSize 0 selects DefaultFFTSize; other values must be
// powers of two of at least 16. Signals shorter than one frame are
// zero-padded.
func Analyze(x []float64, sampleRate float64, fftSize int) (Profile, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return Profile{}, fmt.Errorf("%w: %v", errSampleRate, sampleRate)
	}
	if fftSize == 0 {
		fftSize = DefaultFFTSize
	}
	if fftSize < minFFTSize || fftSize&(fftSize-1) != 0 {
		return Profile{}, fmt.Errorf("spectral: fft size must be a power of two >= %d: %d", minFFTSize, fftSize)
	}
	if len(x) == 0 {
		return Profile{}, nil
	}

	power, frames, err := averagePower(x, fftSize)
	if err != nil {
		return Profile{}, err
	}

	mag := make([]float64, len(power))
	for i, p := range power {
		mag[i] = math.Sqrt(p)
	}

	return Profile{
		Frames:       frames,
		Centroid:     Centroid(mag, sampleRate),
		Flatness:     Flatness(mag),
		Rolloff:      Rolloff(mag, sampleRate, RolloffFraction),
		LowBandRatio: BandEnergyRatio(mag, sampleRate, LowBandEdge),
	}, nil
}

func averagePower(x []float64, fftSize int) ([]float64, int, error) {
	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, 0, fmt.Errorf("spectral: failed to create FFT plan: %w", err)
	}

	bins := fftSize/2 + 1
	win := window.Generate(window.TypeHann, fftSize, window.WithPeriodic())
	buf := make([]complex128, fftSize)
	re := make([]float64, bins)
	im := make([]float64, bins)
	framePower := make([]float64, bins)
	sum := make([]float64, bins)

	hop := fftSize / 2
	frames := 0
	for start := 0; start == 0 || start+fftSize <= len(x); start += hop {
		for i := range buf {
			v := 0.0
			if start+i < len(x) {
				v = x[start+i] * win[i]
			}
			buf[i] = complex(v, 0)
		}

		if err := plan.Forward(buf, buf); err != nil {
			return nil, 0, fmt.Errorf("spectral: forward FFT failed: %w", err)
		}
		for k := range bins {
			re[k] = real(buf[k])
			im[k] = imag(buf[k])
		}
		vecmath.Power(framePower, re, im)
		vecmath.AddBlockInPlace(sum, framePower)
		frames++
	}

	vecmath.ScaleBlock(sum, sum, 1/float64(frames))
	return sum, frames, nil
}

func binFreq(i int, sampleRate float64, binCount int) float64 {
	return float64(i) * sampleRate / float64(2*(binCount-1))
}

// Centroid returns the spectral centroid in Hz of a one-sided magnitude
// spectrum.
//
//	centroid = sum(f_i * |X_i|) / sum(|X_i|)
func Centroid(magnitude []float64, sampleRate float64) float64 {
	n := len(magnitude)
	if n < 2 {
		return 0
	}

	sum, weighted := 0.0, 0.0
	for i, v := range magnitude {
		sum += v
		weighted += binFreq(i, sampleRate, n) * v
	}
	if sum == 0 {
		return 0
	}
	return weighted / sum
}

// Flatness returns exp(mean(log|X|)) / mean(|X|) over all bins but DC.
// Any zero bin makes the result 0.
func Flatness(magnitude []float64) float64 {
	n := len(magnitude)
	if n < 2 {
		return 0
	}

	sumLin, sumLog := 0.0, 0.0
	for _, v := range magnitude[1:] {
		if v <= 0 {
			return 0
		}
		sumLin += v
		sumLog += math.Log(v)
	}

	count := float64(n - 1)
	return math.Exp(sumLog/count) / (sumLin / count)
}

// Rolloff returns the frequency below which fraction of the spectral energy
// lies.
func Rolloff(magnitude []float64, sampleRate, fraction float64) float64 {
	n := len(magnitude)
	if n < 2 {
		return 0
	}

	total := 0.0
	for _, v := range magnitude {
		total += v * v
	}
	if total == 0 {
		return 0
	}

	threshold := fraction * total
	cum := 0.0
	for i, v := range magnitude {
		cum += v * v
		if cum >= threshold {
			return binFreq(i, sampleRate, n)
		}
	}
	return binFreq(n-1, sampleRate, n)
}

// BandEnergyRatio returns the share of spectral energy in bins below edge Hz.
func BandEnergyRatio(magnitude []float64, sampleRate, edge float64) float64 {
	n := len(magnitude)
	if n < 2 {
		return 0
	}

	total, low := 0.0, 0.0
	for i, v := range magnitude {
		e := v * v
		total += e
		if binFreq(i, sampleRate, n) < edge {
			low += e
		}
	}
	if total == 0 {
		return 0
	}
	return low / total
}
