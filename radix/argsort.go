package radix

import (
	"unsafe"

	"golang.org/x/exp/constraints"
)

const (
	// DefaultDigitWidth is one bit per pass, the narrowest possible digit.
	DefaultDigitWidth = 1

	// MaxDigitWidth bounds the per-pass counts array to 2^24 entries.
	MaxDigitWidth = 24
)

// Integer is any fixed-width integer key.
type Integer interface {
	constraints.Integer
}

// Signed is any fixed-width signed integer key.
type Signed interface {
	constraints.Signed
}

// Argsort returns the permutation of indices that sorts data in ascending
// order. Keys are consumed in digit groups of width bits, least significant
// group first, with a stable counting pass per group, so elements with equal
// keys keep their original relative order.
//
// Keys are ordered by their bit pattern. For signed types this means negative
// values sort after all non-negative values; use ArgsortSigned (or bias the
// keys with Bias) when numeric order of signed keys is required.
//
// data is never modified. An empty input yields an empty permutation.
func Argsort[T Integer](data []T, bits int) ([]int, error) {
	if err := validateDigitWidth(bits); err != nil {
		return nil, err
	}

	n := len(data)
	if n == 0 {
		return []int{}, nil
	}
	if n == 1 {
		return []int{0}, nil
	}

	ws := newWorkspace(data, effectiveDigitWidth[T](bits))
	ws.run()
	return ws.result(), nil
}

// ArgsortSigned returns the permutation that sorts signed keys in numeric
// order. It biases every key to an order-preserving unsigned representation
// and sorts that.
func ArgsortSigned[T Signed](data []T, bits int) ([]int, error) {
	if err := validateDigitWidth(bits); err != nil {
		return nil, err
	}

	return Argsort(BiasSlice(data), bits)
}

// KeyBits returns the bit width of T.
func KeyBits[T Integer]() int {
	var zero T
	return int(unsafe.Sizeof(zero)) * 8
}

// Passes returns the number of digit passes needed to consume a key of
// keyBits bits with digits of width bits.
func Passes(keyBits, bits int) int {
	if bits <= 0 {
		return 0
	}
	return (keyBits + bits - 1) / bits
}

// effectiveDigitWidth clamps bits to the key width. A digit wider than the
// key only grows the counts array.
func effectiveDigitWidth[T Integer](bits int) int {
	if kb := KeyBits[T](); bits > kb {
		return kb
	}
	return bits
}
