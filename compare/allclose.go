package compare

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/exp/slices"
)

// ErrIncomparable is returned when none of the comparison strategies apply
// to the given pair of arrays.
var ErrIncomparable = errors.New("arrays cannot be compared")

const (
	DefaultRelativeTolerance = 1e-5
	DefaultAbsoluteTolerance = 1e-8
)

type options struct {
	rtol, atol   float64
	canonicalize bool
	densify      bool
}

// Option tunes AllClose.
type Option func(*options)

// WithTolerance sets the relative and absolute tolerance. Negative values
// are taken as their magnitude.
func WithTolerance(rtol, atol float64) Option {
	return func(o *options) {
		o.rtol = math.Abs(rtol)
		o.atol = math.Abs(atol)
	}
}

// WithCanonicalize controls whether sparse inputs have their duplicates
// summed before a structural comparison.
func WithCanonicalize(enabled bool) Option {
	return func(o *options) { o.canonicalize = enabled }
}

// WithDensify controls whether arrays may be expanded to dense form when the
// structural comparison does not apply. It must be enabled to compare sparse
// with dense arrays.
func WithDensify(enabled bool) Option {
	return func(o *options) { o.densify = enabled }
}

// AllClose reports whether x and y have the same shape and element type and
// every element satisfies |x-y| <= atol + rtol*|y|.
//
// Two sparse arrays in canonical form are compared entry by entry without
// expanding them. Otherwise, if allowed, both are densified. If no strategy
// applies the error wraps ErrIncomparable.
func AllClose(x, y Array, opts ...Option) (bool, error) {
	o := options{
		rtol:         DefaultRelativeTolerance,
		atol:         DefaultAbsoluteTolerance,
		canonicalize: true,
		densify:      true,
	}
	for _, opt := range opts {
		opt(&o)
	}

	// Trivial rejects
	if !slices.Equal(x.Shape(), y.Shape()) {
		return false, nil
	}
	if x.DType() != y.DType() {
		return false, nil
	}

	xs, xSparse := x.(*COO)
	ys, ySparse := y.(*COO)
	if xSparse && ySparse {
		if o.canonicalize {
			xs, ys = xs.SumDuplicates(), ys.SumDuplicates()
			if xs.NNZ() != ys.NNZ() {
				return false, nil
			}
		}

		if isCanonical(xs) && isCanonical(ys) {
			return coordsEqual(xs, ys) && closeSlices(xs.data, ys.data, o.rtol, o.atol), nil
		}
		// Keep any canonical form computed above for densifying
		x, y = xs, ys
	}

	if o.densify {
		xd, yd := toDense(x), toDense(y)
		if xd != nil && yd != nil {
			return closeSlices(xd.data, yd.data, o.rtol, o.atol), nil
		}
	}

	// Without densifying only two dense arrays remain comparable
	xd, xDense := x.(*Dense)
	yd, yDense := y.(*Dense)
	if xDense && yDense {
		return closeSlices(xd.data, yd.data, o.rtol, o.atol), nil
	}

	return false, fmt.Errorf("%w: %T and %T", ErrIncomparable, x, y)
}

func isCanonical(c *COO) bool {
	return c.sorted && !c.hasDuplicates && c.IsLexsorted()
}

func coordsEqual(a, b *COO) bool {
	for dim := range a.coords {
		if !slices.Equal(a.coords[dim], b.coords[dim]) {
			return false
		}
	}
	return true
}

func toDense(a Array) *Dense {
	switch v := a.(type) {
	case *Dense:
		return v
	case *COO:
		return v.Densify()
	default:
		return nil
	}
}

// closeSlices is the element-wise tolerance check. NaN is never close to
// anything, infinities are close only to themselves.
func closeSlices(a, b []float64, rtol, atol float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] == b[i] {
			continue
		}
		if math.IsInf(a[i], 0) || math.IsInf(b[i], 0) {
			return false
		}
		if !(math.Abs(a[i]-b[i]) <= atol+rtol*math.Abs(b[i])) {
			return false
		}
	}
	return true
}
