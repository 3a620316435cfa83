package radix

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"
)

func TestSort_Empty(t *testing.T) {
	var data []uint32
	Sort(data)
	if len(data) != 0 {
		t.Error("empty slice should remain empty")
	}
}

func TestSort_Single(t *testing.T) {
	data := []uint32{42}
	Sort(data)
	if data[0] != 42 {
		t.Errorf("single element should remain 42, got %d", data[0])
	}
}

func TestSort_Reversed(t *testing.T) {
	data := []uint32{5, 4, 3, 2, 1}
	Sort(data)
	expected := []uint32{1, 2, 3, 4, 5}
	for i, v := range data {
		if v != expected[i] {
			t.Errorf("index %d: expected %d, got %d", i, expected[i], v)
		}
	}
}

func TestSort_LargeValues(t *testing.T) {
	data := []uint32{0xFFFFFFFF, 0, 0x80000000, 1, 0x7FFFFFFF}
	Sort(data)
	expected := []uint32{0, 1, 0x7FFFFFFF, 0x80000000, 0xFFFFFFFF}
	for i, v := range data {
		if v != expected[i] {
			t.Errorf("index %d: expected %d, got %d", i, expected[i], v)
		}
	}
}

func TestSort_MatchesStdSort(t *testing.T) {
	sizes := []int{2, 64, 65, 1000, 50000}
	for _, size := range sizes {
		t.Run(fmt.Sprintf("size_%d", size), func(t *testing.T) {
			rng := rand.New(rand.NewSource(123))
			data1 := make([]uint64, size)
			data2 := make([]uint64, size)
			for i := range data1 {
				v := rng.Uint64()
				data1[i] = v
				data2[i] = v
			}

			Sort(data1)
			sort.Slice(data2, func(i, j int) bool { return data2[i] < data2[j] })

			for i := range data1 {
				if data1[i] != data2[i] {
					t.Fatalf("mismatch at index %d: radix=%d, std=%d", i, data1[i], data2[i])
				}
			}
		})
	}
}

func TestSort_SmallValuesOddPasses(t *testing.T) {
	// Only the low byte varies, so a single pass ends in the scratch buffer
	rng := rand.New(rand.NewSource(5))
	data := make([]uint32, 1000)
	for i := range data {
		data[i] = uint32(rng.Intn(200))
	}
	Sort(data)
	for i := 1; i < len(data); i++ {
		if data[i] < data[i-1] {
			t.Fatalf("not sorted at index %d: %d < %d", i, data[i], data[i-1])
		}
	}
}

func TestSort_SignedUsesKeyOrder(t *testing.T) {
	rng := rand.New(rand.NewSource(8))
	data := make([]int16, 500)
	for i := range data {
		data[i] = int16(rng.Uint32())
	}
	Sort(data)
	for i := 1; i < len(data); i++ {
		if KeyLess(data[i], data[i-1]) {
			t.Fatalf("not in key order at index %d: %d after %d", i, data[i], data[i-1])
		}
	}
}

func TestSort_SmallSlices(t *testing.T) {
	// Sizes 2 through 64 (insertion sort boundary)
	for size := 2; size <= insertionThreshold; size++ {
		rng := rand.New(rand.NewSource(int64(size)))
		data := make([]uint32, size)
		for i := range data {
			data[i] = rng.Uint32()
		}
		Sort(data)
		for i := 1; i < len(data); i++ {
			if data[i] < data[i-1] {
				t.Fatalf("size %d: not sorted at index %d", size, i)
			}
		}
	}
}

func BenchmarkSortVsStdSort(b *testing.B) {
	sizes := []int{1000, 100000, 1000000}

	for _, size := range sizes {
		rng := rand.New(rand.NewSource(42))
		original := make([]uint32, size)
		for i := range original {
			original[i] = rng.Uint32()
		}

		b.Run(fmt.Sprintf("RadixSort_%d", size), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				data := make([]uint32, size)
				copy(data, original)
				Sort(data)
			}
		})

		b.Run(fmt.Sprintf("StdSort_%d", size), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				data := make([]uint32, size)
				copy(data, original)
				sort.Slice(data, func(a, c int) bool {
					return data[a] < data[c]
				})
			}
		})
	}
}
