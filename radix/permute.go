package radix

// Apply returns data reordered by perm: out[i] = data[perm[i]].
func Apply[T any](data []T, perm []int) []T {
	out := make([]T, len(perm))
	for i, p := range perm {
		out[i] = data[p]
	}
	return out
}

// Identity returns [0, 1, ..., n-1].
func Identity(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// IsPermutation reports whether perm holds every index in [0, len(perm))
// exactly once.
func IsPermutation(perm []int) bool {
	seen := make([]bool, len(perm))
	for _, p := range perm {
		if p < 0 || p >= len(perm) || seen[p] {
			return false
		}
		seen[p] = true
	}
	return true
}

// IsSorted reports whether perm orders data non-decreasingly under KeyLess.
func IsSorted[T Integer](data []T, perm []int) bool {
	if len(data) != len(perm) {
		return false
	}
	for i := 1; i < len(perm); i++ {
		if KeyLess(data[perm[i]], data[perm[i-1]]) {
			return false
		}
	}
	return true
}

// IsStable reports whether equal keys appear in perm in increasing index
// order. It assumes perm already sorts data.
func IsStable[T Integer](data []T, perm []int) bool {
	for i := 1; i < len(perm); i++ {
		if data[perm[i]] == data[perm[i-1]] && perm[i] < perm[i-1] {
			return false
		}
	}
	return true
}

// Verify checks the three properties every argsort result must have.
func Verify[T Integer](data []T, perm []int) bool {
	return len(perm) == len(data) &&
		IsPermutation(perm) &&
		IsSorted(data, perm) &&
		IsStable(data, perm)
}
