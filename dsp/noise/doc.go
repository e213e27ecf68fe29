// Package noise generates the excitation noise used by the whisper transform.
//
// White noise is uniform in [0, 1). Pink noise is Gaussian white noise shaped
// by Paul Kellett's seven-accumulator IIR approximation of a 1/f spectrum and
// peak-normalised to [-1, 1]. The pink filter memory lives in a caller-owned
// [PinkState], so independent streams never share state.
package noise
