package buffer_test

import (
	"fmt"

	"github.com/cwbudde/algo-retune/dsp/buffer"
)

func ExampleAudioBuffer() {
	b := buffer.NewAudio(22050, 44100)
	fmt.Println(b.Len(), b.Duration(), b.Validate())

	// Output:
	// 22050 500ms <nil>
}
