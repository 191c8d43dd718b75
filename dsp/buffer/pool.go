package buffer

import "sync"

// ScratchPool recycles float64 work areas such as PSOLA grains. The zero
// value is ready for use and safe for concurrent use.
type ScratchPool struct {
	pool sync.Pool
}

// Get returns a zeroed slice of length n. Hand the pointer back with Put
// when done.
func (p *ScratchPool) Get(n int) *[]float64 {
	n = max(n, 0)
	s, _ := p.pool.Get().(*[]float64)
	if s == nil || cap(*s) < n {
		buf := make([]float64, n)
		return &buf
	}
	*s = (*s)[:n]
	clear(*s)
	return s
}

// Put returns s to the pool. The caller must not use it afterwards.
func (p *ScratchPool) Put(s *[]float64) {
	if s != nil {
		p.pool.Put(s)
	}
}
