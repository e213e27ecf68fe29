// Package effect drives the whisper transformation block by block, the way
// an audio plugin host calls it: each block is analysed by a vocoder
// pipeline, passed through the Phantom Silhouette transform, resynthesised
// and fitted back to the block length.
//
// Every block is processed as an independent utterance. No analysis history
// crosses block boundaries, so very short blocks produce few frames and
// audible seams; whole-buffer processing avoids both.
package effect
