package pools

import "sync"

// SlicePool recycles slices of T between calls.
// Thread-safe. A slice handed out by Get belongs to the caller until it is
// returned with Put.
type SlicePool[T any] struct {
	pool   sync.Pool
	maxCap int
}

// NewSlicePool creates a pool that keeps slices with capacity up to maxCap.
// Larger slices are left to the garbage collector to prevent memory bloat.
func NewSlicePool[T any](maxCap int) *SlicePool[T] {
	return &SlicePool[T]{maxCap: maxCap}
}

// Get returns a slice of length n. Its contents are unspecified.
func (p *SlicePool[T]) Get(n int) []T {
	if v := p.pool.Get(); v != nil {
		s := *v.(*[]T)
		if cap(s) >= n {
			return s[:n]
		}
		// Too small for this request, let it go
	}
	return make([]T, n)
}

// Put returns a slice to the pool.
func (p *SlicePool[T]) Put(s []T) {
	if cap(s) == 0 || cap(s) > p.maxCap {
		return
	}
	s = s[:0]
	p.pool.Put(&s)
}

// MaxCap returns the largest capacity the pool retains.
func (p *SlicePool[T]) MaxCap() int {
	return p.maxCap
}

// Reset drops every pooled slice (useful for testing)
func (p *SlicePool[T]) Reset() {
	p.pool = sync.Pool{}
}
