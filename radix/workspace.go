package radix

// workspace owns the two generations of (value, index) arrays that the
// passes ping-pong between, plus the per-pass bucket counts.
//
// Generation src always holds the current order. A pass counts digits over
// src, places every element into generation 1-src and flips src. When one
// bucket receives every element the pass carries no information and src is
// left as is.
type workspace[T Integer] struct {
	vals   [2][]T
	idx    [2][]int
	counts []int

	src     int
	bits    int
	keyBits int
	mask    uint64
}

func newWorkspace[T Integer](data []T, bits int) *workspace[T] {
	n := len(data)
	ws := &workspace[T]{
		vals:   [2][]T{make([]T, n), make([]T, n)},
		idx:    [2][]int{make([]int, n), make([]int, n)},
		counts: make([]int, 1<<uint(bits)),
	}
	ws.reset(data, bits)
	return ws
}

// reset loads a copy of data into generation 0 together with the identity
// permutation. The buffers must already have len(data) elements and counts
// must hold at least 2^bits entries.
func (ws *workspace[T]) reset(data []T, bits int) {
	copy(ws.vals[0], data)
	for i := range ws.idx[0] {
		ws.idx[0][i] = i
	}
	ws.src = 0
	ws.bits = bits
	ws.keyBits = KeyBits[T]()
	ws.mask = 1<<uint(bits) - 1
	ws.counts = ws.counts[:1<<uint(bits)]
}

// run drives all passes from the least significant digit group upward.
func (ws *workspace[T]) run() {
	passes := Passes(ws.keyBits, ws.bits)
	for p := 0; p < passes; p++ {
		shift := uint(p * ws.bits)

		if ws.count(shift) {
			continue
		}
		ws.place(shift)
		ws.src = 1 - ws.src
	}
}

// count tallies digits at shift and turns the tallies into starting offsets
// for each bucket. It reports true when a single bucket holds every element,
// in which case the offsets are left incomplete and must not be used.
func (ws *workspace[T]) count(shift uint) bool {
	counts := ws.counts
	for i := range counts {
		counts[i] = 0
	}

	vals := ws.vals[ws.src]
	for _, v := range vals {
		counts[digit(v, shift, ws.mask)]++
	}

	n := len(vals)
	total := 0
	for i, c := range counts {
		if c == n {
			return true
		}
		counts[i] = total
		total += c
	}
	return false
}

// place scatters generation src into the other generation. Source order is
// scanned once left to right and every bucket cursor only moves forward,
// which keeps equal digits in arrival order.
func (ws *workspace[T]) place(shift uint) {
	srcVals, srcIdx := ws.vals[ws.src], ws.idx[ws.src]
	dstVals, dstIdx := ws.vals[1-ws.src], ws.idx[1-ws.src]
	counts := ws.counts

	for i, v := range srcVals {
		b := digit(v, shift, ws.mask)
		pos := counts[b]
		dstVals[pos] = v
		dstIdx[pos] = srcIdx[i]
		counts[b]++
	}
}

// result is the index array of the current generation. It aliases the
// workspace.
func (ws *workspace[T]) result() []int {
	return ws.idx[ws.src]
}

// digit extracts the bucket of v for the digit group starting at shift.
func digit[T Integer](v T, shift uint, mask uint64) uint64 {
	return uint64(v>>shift) & mask
}
