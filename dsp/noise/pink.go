package noise

// PinkState is the filter memory of one pink-noise stream.
//
// The zero value is a silent filter ready for use. Calls sharing one state
// must be strictly ordered.
type PinkState struct {
	b [7]float64
}

// Next feeds one white sample through the filter bank and returns the
// unnormalised pink sample.
func (p *PinkState) Next(white float64) float64 {
	b := &p.b
	b[0] = 0.99886*b[0] + white*0.0555179
	b[1] = 0.99332*b[1] + white*0.0750759
	b[2] = 0.96900*b[2] + white*0.1538520
	b[3] = 0.86650*b[3] + white*0.3104856
	b[4] = 0.55000*b[4] + white*0.5329522
	b[5] = -0.7616*b[5] - white*0.0168980

	out := b[0] + b[1] + b[2] + b[3] + b[4] + b[5] + b[6] + white*0.5362

	// b6 is a one-sample delay of the direct path.
	b[6] = white * 0.115926

	return out
}

// Reset clears the filter memory.
func (p *PinkState) Reset() {
	p.b = [7]float64{}
}

// Accumulators returns a copy of the seven filter accumulators b0..b6.
func (p *PinkState) Accumulators() [7]float64 {
	return p.b
}
