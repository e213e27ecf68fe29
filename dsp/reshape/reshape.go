package reshape

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
)

const (
	suppressStopHz = 550.0
	suppressPassHz = 1350.0

	emphasisStartHz = 1000.0
	emphasisEndHz   = 10000.0
	emphasisMaxGain = 2.0
)

// SuppressionWeight returns the low-frequency suppression weight at freqHz.
func SuppressionWeight(freqHz float64) float64 {
	switch {
	case freqHz > suppressPassHz:
		return 1
	case freqHz > suppressStopHz:
		return math.Pow(math.Abs((freqHz-suppressStopHz)/(suppressPassHz-suppressStopHz)), math.E)
	default:
		return 0
	}
}

// EmphasisWeight returns the high-frequency emphasis weight at freqHz.
func EmphasisWeight(freqHz float64) float64 {
	switch {
	case freqHz < emphasisStartHz:
		return 1
	case freqHz < emphasisEndHz:
		return (freqHz-emphasisStartHz)/(emphasisEndHz-emphasisStartHz) + 1
	default:
		return emphasisMaxGain
	}
}

// BinFrequencies returns the frequency in Hz assigned to each of bins bins.
func BinFrequencies(bins int, sampleRate float64) []float64 {
	if bins <= 0 {
		return nil
	}

	step := sampleRate / 2 / float64(bins)
	out := make([]float64, bins)
	for i := range out {
		out[i] = float64(i+1) * step
	}
	return out
}

// Weights evaluates weight at every bin frequency of an n-bin frame.
func Weights(bins int, sampleRate float64, weight func(float64) float64) []float64 {
	freqs := BinFrequencies(bins, sampleRate)
	for i, f := range freqs {
		freqs[i] = weight(f)
	}
	return freqs
}

// SuppressLowFrequencies returns a copy of envelope with every bin scaled by
// [SuppressionWeight].
func SuppressLowFrequencies(envelope [][]float64, sampleRate float64) [][]float64 {
	return Apply(envelope, sampleRate, SuppressionWeight)
}

// EmphasizeHighFrequencies returns a copy of envelope with every bin scaled
// by [EmphasisWeight].
func EmphasizeHighFrequencies(envelope [][]float64, sampleRate float64) [][]float64 {
	return Apply(envelope, sampleRate, EmphasisWeight)
}

// Whisper applies suppression followed by emphasis.
func Whisper(envelope [][]float64, sampleRate float64) [][]float64 {
	return EmphasizeHighFrequencies(SuppressLowFrequencies(envelope, sampleRate), sampleRate)
}

// Apply multiplies every frame of envelope by the per-bin weight curve and
// returns the result as a new envelope of identical shape. An envelope with
// no frames is returned as is.
func Apply(envelope [][]float64, sampleRate float64, weight func(float64) float64) [][]float64 {
	if len(envelope) == 0 {
		return envelope
	}

	bins := MustBins(envelope)
	w := Weights(bins, sampleRate, weight)

	out := make([][]float64, len(envelope))
	for i, frame := range envelope {
		out[i] = make([]float64, bins)
		vecmath.MulBlock(out[i], frame, w)
	}
	return out
}

// Floor returns a copy of envelope in which every bin equal to zero is
// replaced by floor. Log-domain synthesis needs strictly positive bins.
func Floor(envelope [][]float64, floor float64) [][]float64 {
	if len(envelope) == 0 {
		return envelope
	}

	bins := MustBins(envelope)
	out := make([][]float64, len(envelope))
	for i, frame := range envelope {
		row := make([]float64, bins)
		for k, v := range frame {
			if v == 0 {
				v = floor
			}
			row[k] = v
		}
		out[i] = row
	}
	return out
}

// Bins returns the common bin count of envelope, or an error when frames
// disagree. An empty envelope has zero bins.
func Bins(envelope [][]float64) (int, error) {
	if len(envelope) == 0 {
		return 0, nil
	}

	bins := len(envelope[0])
	for i, frame := range envelope {
		if len(frame) != bins {
			return 0, fmt.Errorf("reshape: frame %d has %d bins, want %d", i, len(frame), bins)
		}
	}
	return bins, nil
}

// MustBins is like [Bins] but panics on a ragged envelope.
func MustBins(envelope [][]float64) int {
	bins, err := Bins(envelope)
	if err != nil {
		panic(err)
	}
	return bins
}

// Clone returns a deep copy of envelope.
func Clone(envelope [][]float64) [][]float64 {
	if envelope == nil {
		return nil
	}

	out := make([][]float64, len(envelope))
	for i, frame := range envelope {
		out[i] = append([]float64(nil), frame...)
	}
	return out
}
