package main

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// pcmAudio is a decoded PCM file as one float slice per channel in [-1, 1].
type pcmAudio struct {
	sampleRate int
	bitDepth   int
	channels   [][]float64
}

func (p *pcmAudio) frames() int {
	if len(p.channels) == 0 {
		return 0
	}
	return len(p.channels[0])
}

func readWAV(path string) (*pcmAudio, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%s: not a valid WAV file", path)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if buf.Format == nil || buf.Format.NumChannels < 1 {
		return nil, fmt.Errorf("%s: missing channel information", path)
	}
	if buf.SourceBitDepth < 8 || buf.SourceBitDepth > 32 {
		return nil, fmt.Errorf("%s: unsupported bit depth %d", path, buf.SourceBitDepth)
	}

	return &pcmAudio{
		sampleRate: buf.Format.SampleRate,
		bitDepth:   buf.SourceBitDepth,
		channels:   deinterleave(buf.Data, buf.Format.NumChannels, buf.SourceBitDepth),
	}, nil
}

func writeWAV(path string, p *pcmAudio) (err error) {
	if len(p.channels) == 0 {
		return errors.New("no channels to write")
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	enc := wav.NewEncoder(f, p.sampleRate, p.bitDepth, len(p.channels), 1)
	if err := enc.Write(&audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: len(p.channels),
			SampleRate:  p.sampleRate,
		},
		SourceBitDepth: p.bitDepth,
		Data:           interleave(p.channels, p.bitDepth),
	}); err != nil {
		return err
	}
	return enc.Close()
}

func fullScale(bitDepth int) float64 {
	return float64(int64(1) << (bitDepth - 1))
}

// deinterleave splits interleaved integer PCM into per-channel floats. 8-bit
// WAV data is unsigned and centred on 128.
func deinterleave(data []int, numChannels, bitDepth int) [][]float64 {
	frames := len(data) / numChannels
	scale := fullScale(bitDepth)

	out := make([][]float64, numChannels)
	for ch := range out {
		out[ch] = make([]float64, frames)
	}
	for i := range frames {
		for ch := range out {
			v := data[i*numChannels+ch]
			if bitDepth == 8 {
				v -= 128
			}
			out[ch][i] = float64(v) / scale
		}
	}
	return out
}

// interleave quantises per-channel floats to integer PCM with clipping.
func interleave(channels [][]float64, bitDepth int) []int {
	scale := fullScale(bitDepth)
	maxInt := scale - 1

	frames := len(channels[0])
	out := make([]int, frames*len(channels))
	for i := range frames {
		for ch, samples := range channels {
			v := math.Round(samples[i] * scale)
			v = math.Max(-scale, math.Min(maxInt, v))
			q := int(v)
			if bitDepth == 8 {
				q += 128
			}
			out[i*len(channels)+ch] = q
		}
	}
	return out
}
