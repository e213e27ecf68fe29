// Package vocoder decomposes speech into a pitch contour, a spectral envelope
// and an aperiodicity map, and resynthesises a waveform from them.
//
// [Pipeline] is the narrow boundary the whisper effect depends on. [World] is
// the native implementation, modelled on the WORLD vocoder's processing
// chain:
//
//   - pitch extraction: normalised autocorrelation search per frame,
//   - pitch refinement: parabolic peak interpolation and removal of isolated
//     voiced frames,
//   - spectral envelope: pitch-adaptive Hann window, power spectrum and
//     cepstral liftering below the pitch period,
//   - aperiodicity: local spectral flatness per bin,
//   - synthesis: pulse and noise excitation shaped per frame in the frequency
//     domain and overlap-added.
//
// Envelopes are power spectral densities with FFTSize/2+1 bins. Frames whose
// F0 lies below the analysis floor, including zero and any noise-valued
// contour, are synthesised from noise excitation only.
//
// Analysis and synthesis work on whole buffers; they are not causal.
package vocoder
