package signal_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-retune/dsp/signal"
)

func ExampleGenerator_Sine() {
	g := signal.NewGenerator(signal.WithSampleRate(1000))
	x, err := g.Sine(250, 1, 5)
	if err != nil {
		panic(err)
	}

	r := func(i int) int { return int(math.Round(float64(x.Samples[i]))) }
	fmt.Println(r(0), r(1), r(2), r(3), r(4))

	// Output:
	// 0 1 0 -1 0
}

func ExampleNormalizePeak() {
	x := []float32{-0.5, 0.2, 1}
	signal.NormalizePeak(x, signal.TargetPeak, signal.SilenceFloor)
	fmt.Printf("%.2f %.2f %.2f\n", x[0], x[1], x[2])

	// Output:
	// -0.45 0.18 0.90
}
