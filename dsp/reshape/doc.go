// Package reshape applies the frequency-dependent weights that turn a voiced
// spectral envelope into a whisper-like one.
//
// An envelope is a slice of frames, each a slice of non-negative magnitudes
// over equally spaced bins. Bin i of a frame with n bins is centred on
// (i+1) * sampleRate / 2 / n Hz. Every frame of one envelope must have the
// same bin count; a ragged envelope is a programming error and panics.
//
// [SuppressLowFrequencies] removes energy below 550 Hz and fades in up to
// 1350 Hz with an exponent of e. [EmphasizeHighFrequencies] ramps a gain
// linearly from 1 at 1 kHz to 2 at 10 kHz. Both return new envelopes and
// never modify their input.
package reshape
