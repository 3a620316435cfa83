package radix

import (
	"github.com/ChristianF88/rargsort/pools"
)

const defaultMaxPooledLen = 1 << 20

// Sorter is a reusable argsort for keys of type T. Scratch buffers are
// borrowed from pools for each call and returned afterwards, so repeated
// calls on similar sizes do not reallocate.
//
// A Sorter is safe for concurrent use; every call works on buffers it owns
// exclusively for its duration.
type Sorter[T Integer] struct {
	bits         int
	maxPooledLen int

	vals   *pools.SlicePool[T]
	idx    *pools.SlicePool[int]
	counts *pools.SlicePool[int]
}

// Option configures a Sorter.
type Option interface {
	apply(*sorterConfig)
}

type sorterConfig struct {
	bits         int
	maxPooledLen int
}

type digitWidthOption int

func (o digitWidthOption) apply(c *sorterConfig) {
	c.bits = int(o)
}

// WithDigitWidth sets the number of key bits consumed per pass.
func WithDigitWidth(bits int) Option {
	return digitWidthOption(bits)
}

type maxPooledLenOption int

func (o maxPooledLenOption) apply(c *sorterConfig) {
	if o < 0 {
		o = 0
	}
	c.maxPooledLen = int(o)
}

// WithMaxPooledLen is the longest input that uses pooled buffers; longer
// inputs allocate fresh buffers which are not retained.
func WithMaxPooledLen(n int) Option {
	return maxPooledLenOption(n)
}

// NewSorter creates a Sorter. It fails with a *ConfigError if the digit
// width is out of range.
func NewSorter[T Integer](options ...Option) (*Sorter[T], error) {
	cfg := sorterConfig{
		bits:         DefaultDigitWidth,
		maxPooledLen: defaultMaxPooledLen,
	}
	for _, opt := range options {
		opt.apply(&cfg)
	}
	if err := validateDigitWidth(cfg.bits); err != nil {
		return nil, err
	}

	bits := effectiveDigitWidth[T](cfg.bits)
	return &Sorter[T]{
		bits:         bits,
		maxPooledLen: cfg.maxPooledLen,
		vals:         pools.NewSlicePool[T](cfg.maxPooledLen),
		idx:          pools.NewSlicePool[int](cfg.maxPooledLen),
		counts:       pools.NewSlicePool[int](1 << uint(bits)),
	}, nil
}

// DigitWidth returns the effective digit width in bits.
func (s *Sorter[T]) DigitWidth() int {
	return s.bits
}

// Argsort returns the stable sorting permutation of data. See Argsort.
func (s *Sorter[T]) Argsort(data []T) []int {
	n := len(data)
	if n <= 1 {
		return Identity(n)
	}

	if n > s.maxPooledLen {
		ws := newWorkspace(data, s.bits)
		ws.run()
		return ws.result()
	}

	ws := s.borrow(n)
	defer s.release(ws)

	ws.reset(data, s.bits)
	ws.run()

	// The index buffers go back to the pool
	out := make([]int, n)
	copy(out, ws.result())
	return out
}

func (s *Sorter[T]) borrow(n int) *workspace[T] {
	return &workspace[T]{
		vals:   [2][]T{s.vals.Get(n), s.vals.Get(n)},
		idx:    [2][]int{s.idx.Get(n), s.idx.Get(n)},
		counts: s.counts.Get(1 << uint(s.bits)),
	}
}

func (s *Sorter[T]) release(ws *workspace[T]) {
	for g := 0; g < 2; g++ {
		s.vals.Put(ws.vals[g])
		s.idx.Put(ws.idx[g])
	}
	s.counts.Put(ws.counts)
}
