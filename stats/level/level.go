// Package level measures the loudness figures reported before and after the
// whisper effect: peak, RMS, crest factor, DC offset and clipping.
package level

import (
	"math"

	"github.com/cwbudde/algo-whisper/dsp/core"
)

// ClipThreshold is the absolute sample value counted as clipped.
const ClipThreshold = 1.0

// Stats holds level statistics of one signal. dB fields use the 20*log10
// amplitude convention and are -Inf for silence.
type Stats struct {
	Length int

	Peak   float64
	PeakDB float64
	RMS    float64
	RMSDB  float64
	DC     float64

	// CrestFactor is Peak/RMS, 0 for silence.
	CrestFactor   float64
	CrestFactorDB float64

	ZeroCrossings int
	Clipped       int
}

func emptyStats() Stats {
	return Stats{
		PeakDB:        math.Inf(-1),
		RMSDB:         math.Inf(-1),
		CrestFactorDB: math.Inf(-1),
	}
}

// Measure computes the statistics of signal in one pass.
func Measure(signal []float64) Stats {
	m := NewMeter()
	m.Update(signal)
	return m.Result()
}

// Meter accumulates level statistics across blocks. Splitting a signal into
// blocks gives the same result as measuring it whole.
type Meter struct {
	n       int
	sum     float64
	sumSq   float64
	peak    float64
	crosses int
	clipped int
	last    float64
}

// NewMeter returns an empty Meter.
func NewMeter() *Meter {
	return &Meter{}
}

// Update adds a block of samples.
func (m *Meter) Update(samples []float64) {
	for _, x := range samples {
		if m.n > 0 && m.last*x < 0 {
			m.crosses++
		}

		a := math.Abs(x)
		if a > m.peak {
			m.peak = a
		}
		if a >= ClipThreshold {
			m.clipped++
		}

		m.sum += x
		m.sumSq += x * x
		m.last = x
		m.n++
	}
}

// Reset clears the accumulated statistics.
func (m *Meter) Reset() {
	*m = Meter{}
}

// Result returns the statistics of everything passed to Update.
func (m *Meter) Result() Stats {
	if m.n == 0 {
		return emptyStats()
	}

	nf := float64(m.n)
	rms := math.Sqrt(m.sumSq / nf)

	s := Stats{
		Length:        m.n,
		Peak:          m.peak,
		PeakDB:        core.LinearToDB(m.peak),
		RMS:           rms,
		RMSDB:         core.LinearToDB(rms),
		DC:            m.sum / nf,
		CrestFactorDB: math.Inf(-1),
		ZeroCrossings: m.crosses,
		Clipped:       m.clipped,
	}
	if rms > 0 {
		s.CrestFactor = m.peak / rms
		s.CrestFactorDB = core.LinearToDB(s.CrestFactor)
	}
	return s
}

// GainDB returns the RMS level change from before to after in dB. Silence
// on either side yields ±Inf, both silent yields 0.
func GainDB(before, after Stats) float64 {
	if before.RMS == 0 && after.RMS == 0 {
		return 0
	}
	return after.RMSDB - before.RMSDB
}
