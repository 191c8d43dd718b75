package fft

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
	"math/cmplx"
)

var (
	// ErrNotPowerOfTwo is returned for transform lengths that are not 2^k.
	ErrNotPowerOfTwo = errors.New("fft: length must be a power of two")
	// ErrLengthMismatch is returned when a slice does not match the plan length.
	ErrLengthMismatch = errors.New("fft: length mismatch")
)

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// Plan holds the precomputed tables for one transform length.
type Plan struct {
	n       int
	twiddle []complex128
	rev     []int
}

// NewPlan builds a plan for length n.
func NewPlan(n int) (*Plan, error) {
	if !IsPowerOfTwo(n) {
		return nil, fmt.Errorf("%w: %d", ErrNotPowerOfTwo, n)
	}

	p := &Plan{
		n:       n,
		twiddle: make([]complex128, n/2),
		rev:     make([]int, n),
	}
	for k := range p.twiddle {
		angle := -2 * math.Pi * float64(k) / float64(n)
		p.twiddle[k] = complex(math.Cos(angle), math.Sin(angle))
	}

	shift := bits.UintSize - bits.TrailingZeros(uint(n))
	for i := range p.rev {
		p.rev[i] = int(bits.Reverse(uint(i)) >> shift)
	}
	return p, nil
}

// Len returns the transform length.
func (p *Plan) Len() int {
	return p.n
}

// Forward transforms x in place.
func (p *Plan) Forward(x []complex128) error {
	if len(x) != p.n {
		return fmt.Errorf("%w: got %d, plan is %d", ErrLengthMismatch, len(x), p.n)
	}
	p.transform(x)
	return nil
}

// Inverse applies the normalized inverse transform to x in place.
func (p *Plan) Inverse(x []complex128) error {
	if len(x) != p.n {
		return fmt.Errorf("%w: got %d, plan is %d", ErrLengthMismatch, len(x), p.n)
	}
	for i, v := range x {
		x[i] = cmplx.Conj(v)
	}
	p.transform(x)
	scale := 1 / float64(p.n)
	for i, v := range x {
		x[i] = complex(real(v)*scale, -imag(v)*scale)
	}
	return nil
}

// transform is the iterative decimation-in-time butterfly network.
func (p *Plan) transform(x []complex128) {
	n := p.n
	for i, j := range p.rev {
		if i < j {
			x[i], x[j] = x[j], x[i]
		}
	}

	for size := 2; size <= n; size <<= 1 {
		half := size >> 1
		step := n / size
		for start := 0; start < n; start += size {
			for k := range half {
				w := p.twiddle[k*step]
				a := start + k
				b := a + half
				t := w * x[b]
				x[b] = x[a] - t
				x[a] += t
			}
		}
	}
}

// Forward transforms x in place using a temporary plan.
func Forward(x []complex128) error {
	p, err := NewPlan(len(x))
	if err != nil {
		return err
	}
	p.transform(x)
	return nil
}

// Inverse applies the normalized inverse transform to x in place using a
// temporary plan.
func Inverse(x []complex128) error {
	p, err := NewPlan(len(x))
	if err != nil {
		return err
	}
	return p.Inverse(x)
}
