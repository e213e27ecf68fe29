package noise_test

import (
	"fmt"

	"github.com/cwbudde/algo-whisper/dsp/noise"
)

func ExampleSource_Pink() {
	src := noise.NewSource(noise.WithSeed(1))
	var state noise.PinkState

	x := src.Pink(256, &state)

	peak := 0.0
	for _, v := range x {
		if v > peak {
			peak = v
		} else if -v > peak {
			peak = -v
		}
	}
	fmt.Println(len(x), peak)

	// Output:
	// 256 1
}

func ExampleNormalizePeak() {
	x := []float64{-2, 1, 0.5}
	peak := noise.NormalizePeak(x)
	fmt.Println(peak, x)

	// Output:
	// 2 [-1 0.5 0.25]
}
