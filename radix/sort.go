package radix

// insertionThreshold is the length at or below which Sort falls back to
// insertion sort, where radix overhead isn't worthwhile.
const insertionThreshold = 64

// Sort sorts data in place under KeyLess using 8-bit digits.
// This is O(n) per pass vs sort.Slice's O(n log n) and avoids interface
// dispatch overhead. Passes whose byte is identical for every element are
// skipped, so small values in wide types cost only the passes they need.
//
// The scratch buffer is allocated once and reused across passes.
func Sort[T Integer](data []T) {
	n := len(data)
	if n <= 1 {
		return
	}

	if n <= insertionThreshold {
		insertionSort(data)
		return
	}

	scratch := make([]T, n)
	src, dst := data, scratch

	keyBits := KeyBits[T]()
	for shift := 0; shift < keyBits; shift += 8 {
		if sortPass(src, dst, uint(shift)) {
			src, dst = dst, src
		}
	}

	// An odd number of effective passes leaves the result in scratch
	if &src[0] != &data[0] {
		copy(data, src)
	}
}

// sortPass performs one counting sort pass on the byte at shift, from src
// into dst. It reports false, leaving dst untouched, if every element shares
// the same byte.
func sortPass[T Integer](src, dst []T, shift uint) bool {
	var counts [256]int

	for _, v := range src {
		counts[digit(v, shift, 0xFF)]++
	}

	total := 0
	for i := range counts {
		count := counts[i]
		if count == len(src) {
			return false
		}
		counts[i] = total
		total += count
	}

	for _, v := range src {
		b := digit(v, shift, 0xFF)
		dst[counts[b]] = v
		counts[b]++
	}
	return true
}

func insertionSort[T Integer](data []T) {
	for i := 1; i < len(data); i++ {
		key := data[i]
		j := i - 1
		for j >= 0 && KeyLess(key, data[j]) {
			data[j+1] = data[j]
			j--
		}
		data[j+1] = key
	}
}
