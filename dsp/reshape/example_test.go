package reshape_test

import (
	"fmt"

	"github.com/cwbudde/algo-whisper/dsp/reshape"
)

func ExampleWhisper() {
	// Eight bins at 32 kHz are centred on 2, 4, ..., 16 kHz.
	env := [][]float64{{1, 1, 1, 1, 1, 1, 1, 1}}
	out := reshape.Whisper(env, 32000)

	for _, v := range out[0] {
		fmt.Printf("%.3f ", v)
	}
	fmt.Println()

	// Output:
	// 1.111 1.333 1.556 1.778 2.000 2.000 2.000 2.000
}

func ExampleSuppressionWeight() {
	for _, f := range []float64{500, 550, 950, 1350, 2000} {
		fmt.Printf("%.0f Hz: %.4f\n", f, reshape.SuppressionWeight(f))
	}

	// Output:
	// 500 Hz: 0.0000
	// 550 Hz: 0.0000
	// 950 Hz: 0.1520
	// 1350 Hz: 1.0000
	// 2000 Hz: 1.0000
}
