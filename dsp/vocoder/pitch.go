package vocoder

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/cwbudde/algo-whisper/dsp/core"
	"github.com/cwbudde/algo-whisper/dsp/window"
)

const (
	// silenceFloor is the mean-square level below which a frame is unvoiced.
	silenceFloor = 1e-10
	// octaveTolerance picks the shortest lag whose peak is within this
	// fraction of the best one, which suppresses sub-octave errors.
	octaveTolerance = 0.9
)

// pitchCandidate is the raw per-frame result of the autocorrelation search.
type pitchCandidate struct {
	lag    int
	score  float64
	prev   float64
	next   float64
	voiced bool
}

type pitchTracker struct {
	fs     float64
	minLag int
	maxLag int
	segLen int

	plan  *algofft.Plan[complex128]
	buf   []complex128
	win   []float64
	winAC []float64
	seg   []float64
}

func newPitchTracker(fs, f0Floor, f0Ceil float64) (*pitchTracker, error) {
	minLag := int(math.Floor(fs / f0Ceil))
	if minLag < 2 {
		minLag = 2
	}
	maxLag := int(math.Ceil(fs / f0Floor))
	if maxLag <= minLag {
		return nil, fmt.Errorf("vocoder: f0 range too narrow for %g Hz sampling", fs)
	}

	segLen := 3 * maxLag
	fftSize := core.NextPowerOf2(2 * segLen)

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("vocoder: failed to create pitch FFT plan: %w", err)
	}

	p := &pitchTracker{
		fs:     fs,
		minLag: minLag,
		maxLag: maxLag,
		segLen: segLen,
		plan:   plan,
		buf:    make([]complex128, fftSize),
		win:    window.Generate(window.TypeHann, segLen),
		seg:    make([]float64, segLen),
	}

	p.winAC, err = p.autocorrelate(p.win)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// autocorrelate returns the linear autocorrelation of seg for lags
// 0..maxLag+1, computed as the inverse transform of the power spectrum.
func (p *pitchTracker) autocorrelate(seg []float64) ([]float64, error) {
	for i := range p.buf {
		p.buf[i] = 0
	}
	for i, v := range seg {
		p.buf[i] = complex(v, 0)
	}

	if err := p.plan.Forward(p.buf, p.buf); err != nil {
		return nil, fmt.Errorf("vocoder: forward FFT failed: %w", err)
	}
	for i, c := range p.buf {
		p.buf[i] = complex(real(c)*real(c)+imag(c)*imag(c), 0)
	}
	if err := p.plan.Inverse(p.buf, p.buf); err != nil {
		return nil, fmt.Errorf("vocoder: inverse FFT failed: %w", err)
	}

	out := make([]float64, p.maxLag+2)
	for i := range out {
		out[i] = real(p.buf[i])
	}
	return out, nil
}

// candidate runs the autocorrelation search on the frame centred at center.
func (p *pitchTracker) candidate(x []float64, center int, threshold float64) (pitchCandidate, error) {
	start := center - p.segLen/2
	for i := range p.seg {
		idx := start + i
		if idx >= 0 && idx < len(x) {
			p.seg[i] = x[idx] * p.win[i]
		} else {
			p.seg[i] = 0
		}
	}

	r, err := p.autocorrelate(p.seg)
	if err != nil {
		return pitchCandidate{}, err
	}

	if r[0]/p.winAC[0] < silenceFloor {
		return pitchCandidate{}, nil
	}

	norm := func(lag int) float64 {
		return r[lag] / r[0] / (p.winAC[lag] / p.winAC[0])
	}

	best := math.Inf(-1)
	for lag := p.minLag; lag <= p.maxLag; lag++ {
		best = math.Max(best, norm(lag))
	}

	c := pitchCandidate{score: best}
	for lag := p.minLag; lag <= p.maxLag; lag++ {
		v := norm(lag)
		if v < octaveTolerance*best {
			continue
		}
		prev, next := norm(lag-1), norm(lag+1)
		if v >= prev && v >= next {
			c.lag, c.prev, c.next = lag, prev, next
			c.score = v
			break
		}
	}

	c.voiced = c.lag > 0 && c.score >= threshold
	return c, nil
}

// ExtractF0 estimates the refined F0 contour of x and returns it together
// with the frame time axis in seconds. Unvoiced frames hold 0.
func (w *World) ExtractF0(x []float64, sampleRate int) (f0, timeAxis []float64, err error) {
	if len(x) == 0 {
		return nil, nil, ErrEmptyInput
	}
	if err := validateSampleRate(sampleRate); err != nil {
		return nil, nil, err
	}

	fs := float64(sampleRate)
	candidates, timeAxis, err := w.searchPitch(x, fs)
	if err != nil {
		return nil, nil, err
	}

	return w.refinePitch(candidates, fs), timeAxis, nil
}

// searchPitch is the coarse stage: one integer-lag candidate per frame.
func (w *World) searchPitch(x []float64, fs float64) ([]pitchCandidate, []float64, error) {
	pt, err := newPitchTracker(fs, w.cfg.f0Floor, w.cfg.f0Ceil)
	if err != nil {
		return nil, nil, err
	}

	frames := FrameCount(len(x), fs, w.cfg.framePeriod)
	candidates := make([]pitchCandidate, frames)
	timeAxis := make([]float64, frames)

	for i := range frames {
		timeAxis[i] = float64(i) * w.cfg.framePeriod / 1000
		center := int(math.Round(timeAxis[i] * fs))

		candidates[i], err = pt.candidate(x, center, w.cfg.voicingThreshold)
		if err != nil {
			return nil, nil, err
		}
	}
	return candidates, timeAxis, nil
}

// refinePitch interpolates each voiced lag to sub-sample precision, drops
// estimates outside the search range and unvoices isolated frames.
func (w *World) refinePitch(candidates []pitchCandidate, fs float64) []float64 {
	f0 := make([]float64, len(candidates))
	for i, c := range candidates {
		if !c.voiced {
			continue
		}

		lag := float64(c.lag)
		den := c.prev - 2*c.score + c.next
		if den < 0 {
			delta := 0.5 * (c.prev - c.next) / den
			if math.Abs(delta) < 1 {
				lag += delta
			}
		}

		v := fs / lag
		if v >= w.cfg.f0Floor && v <= w.cfg.f0Ceil {
			f0[i] = v
		}
	}

	for i := range f0 {
		if f0[i] == 0 {
			continue
		}
		prevVoiced := i > 0 && f0[i-1] > 0
		nextVoiced := i+1 < len(f0) && f0[i+1] > 0
		if !prevVoiced && !nextVoiced && len(f0) > 1 {
			f0[i] = 0
		}
	}
	return f0
}
