package radix

// Bias flips the sign bit of v. Read as an unsigned bit pattern, the result
// is v minus the minimum value of T, so the bit-pattern order used by
// Argsort matches the numeric order of the original keys. Bias is its own
// inverse.
func Bias[T Signed](v T) T {
	return v ^ signBit[T]()
}

// BiasSlice returns a biased copy of data.
func BiasSlice[T Signed](data []T) []T {
	sign := signBit[T]()
	out := make([]T, len(data))
	for i, v := range data {
		out[i] = v ^ sign
	}
	return out
}

func signBit[T Signed]() T {
	var one T = 1
	return one << uint(KeyBits[T]()-1)
}

// bitPattern returns the key as the unsigned integer of the same width.
func bitPattern[T Integer](v T) uint64 {
	return uint64(v) & (^uint64(0) >> uint(64-KeyBits[T]()))
}

// KeyLess orders keys the way Argsort does: by their bit pattern. For
// unsigned types this is plain numeric order.
func KeyLess[T Integer](a, b T) bool {
	return bitPattern(a) < bitPattern(b)
}
