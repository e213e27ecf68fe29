package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// PulseTrain generates a naive (not band-limited) impulse train at freqHz, a
// crude stand-in for glottal excitation.
func PulseTrain(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	if freqHz <= 0 {
		return out
	}
	period := sampleRate / freqHz
	for pos := 0.0; int(pos) < length; pos += period {
		out[int(pos)] = amplitude
	}
	return out
}

// Vowel generates a harmonic-rich voiced test signal: the first harmonics of
// f0 with 1/k amplitude roll-off.
func Vowel(f0, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	harmonics := int(sampleRate / 2 / f0)
	if harmonics > 40 {
		harmonics = 40
	}
	for k := 1; k <= harmonics; k++ {
		step := 2 * math.Pi * f0 * float64(k) / sampleRate
		gain := amplitude / float64(k)
		for i := range out {
			out[i] += gain * math.Sin(step*float64(i))
		}
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// Ones returns a slice of length n filled with 1.0.
func Ones(n int) []float64 {
	return DC(1.0, n)
}

// Matrix returns a frames x bins matrix filled with value.
func Matrix(frames, bins int, value float64) [][]float64 {
	out := make([][]float64, frames)
	for i := range out {
		out[i] = DC(value, bins)
	}
	return out
}
