package f0_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-retune/dsp/f0"
)

func ExampleEstimateF0() {
	const rate = 48000
	samples := make([]float32, 2048)
	for i := range samples {
		samples[i] = float32(0.5 * math.Sin(2*math.Pi*440*float64(i)/rate))
	}

	freq, conf := f0.EstimateF0(samples, rate, f0.DefaultThreshold)
	fmt.Println(math.Abs(freq-440) < 2, conf > 0.9)
	// Output:
	// true true
}
