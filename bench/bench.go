// Package bench times the radix argsort against a stable comparison argsort.
package bench

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/ChristianF88/rargsort/radix"
)

// Method names a timed argsort implementation.
type Method string

const (
	MethodRadix  Method = "radix"
	MethodSorter Method = "sorter"
	MethodStable Method = "stable"
)

// Options controls one benchmark run.
type Options struct {
	Sizes    []int
	BitsList []int
	MaxValue int64 // keys are drawn from [0, MaxValue)
	Repeats  int
	Seed     int64
}

// Result is the timing of one method at one size. Bits and Passes are zero
// for the stable baseline.
type Result struct {
	Method   Method        `json:"method"`
	Size     int           `json:"size"`
	Bits     int           `json:"bits"`
	Passes   int           `json:"passes"`
	Repeats  int           `json:"repeats"`
	Min      time.Duration `json:"min_ns"`
	Mean     time.Duration `json:"mean_ns"`
	Verified bool          `json:"verified"`
}

// Report is the full result grid of a run.
type Report struct {
	KeyType  string        `json:"key_type"`
	MaxValue int64         `json:"max_value"`
	Seed     int64         `json:"seed"`
	Results  []Result      `json:"results"`
	Duration time.Duration `json:"duration_ns"`
}

func (o Options) validate() error {
	if len(o.Sizes) == 0 {
		return fmt.Errorf("at least one size is required")
	}
	for _, n := range o.Sizes {
		if n < 0 {
			return fmt.Errorf("sizes must be non-negative, got %d", n)
		}
	}
	if len(o.BitsList) == 0 {
		return fmt.Errorf("at least one digit width is required")
	}
	if o.MaxValue < 1 {
		return fmt.Errorf("maxValue must be at least 1, got %d", o.MaxValue)
	}
	if o.Repeats < 1 {
		return fmt.Errorf("repeats must be at least 1, got %d", o.Repeats)
	}
	return nil
}

// Run times every (size, bits) combination. For each size one random input
// is generated and shared by all methods. Every radix result is checked
// against the stable baseline; a mismatch is reported as an error.
func Run[T radix.Integer](ctx context.Context, keyType string, opts Options) (*Report, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	rng := rand.New(rand.NewSource(opts.Seed))
	report := &Report{
		KeyType:  keyType,
		MaxValue: opts.MaxValue,
		Seed:     opts.Seed,
	}

	keyBits := radix.KeyBits[T]()

	for _, n := range opts.Sizes {
		data := RandomKeys[T](rng, n, opts.MaxValue)

		var want []int
		res := timeIt(opts.Repeats, func() {
			want = StableArgsort(data)
		})
		res.Method = MethodStable
		res.Size = n
		res.Verified = true
		report.Results = append(report.Results, res)

		for _, bits := range opts.BitsList {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			var got []int
			var runErr error
			res := timeIt(opts.Repeats, func() {
				got, runErr = radix.Argsort(data, bits)
			})
			if runErr != nil {
				return nil, fmt.Errorf("radix argsort with bits=%d: %w", bits, runErr)
			}
			res.Method = MethodRadix
			res.Size = n
			res.Bits = bits
			res.Passes = radix.Passes(keyBits, bits)
			res.Verified = equalPerm(got, want)
			if !res.Verified {
				return nil, fmt.Errorf("radix argsort with bits=%d disagrees with stable sort at n=%d", bits, n)
			}
			report.Results = append(report.Results, res)

			sorter, err := radix.NewSorter[T](radix.WithDigitWidth(bits))
			if err != nil {
				return nil, err
			}
			res = timeIt(opts.Repeats, func() {
				got = sorter.Argsort(data)
			})
			res.Method = MethodSorter
			res.Size = n
			res.Bits = bits
			res.Passes = radix.Passes(keyBits, sorter.DigitWidth())
			res.Verified = equalPerm(got, want)
			if !res.Verified {
				return nil, fmt.Errorf("pooled sorter with bits=%d disagrees with stable sort at n=%d", bits, n)
			}
			report.Results = append(report.Results, res)
		}
	}

	report.Duration = time.Since(start)
	return report, nil
}

// timeIt runs fn repeats times and records the fastest and mean duration.
func timeIt(repeats int, fn func()) Result {
	var total, best time.Duration
	for i := 0; i < repeats; i++ {
		t0 := time.Now()
		fn()
		d := time.Since(t0)
		total += d
		if i == 0 || d < best {
			best = d
		}
	}
	return Result{
		Repeats: repeats,
		Min:     best,
		Mean:    total / time.Duration(repeats),
	}
}

// RandomKeys draws n keys uniformly from [0, maxValue). Values that do not
// fit T wrap around.
func RandomKeys[T radix.Integer](rng *rand.Rand, n int, maxValue int64) []T {
	data := make([]T, n)
	for i := range data {
		data[i] = T(rng.Int63n(maxValue))
	}
	return data
}

// StableArgsort is the comparison baseline: sort.SliceStable over an index
// slice, ordered like radix.Argsort.
func StableArgsort[T radix.Integer](data []T) []int {
	idx := radix.Identity(len(data))
	sort.SliceStable(idx, func(i, j int) bool {
		return radix.KeyLess(data[idx[i]], data[idx[j]])
	})
	return idx
}

func equalPerm(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Fastest returns the radix or sorter result with the lowest mean for size
// n, and false if there is none.
func (r *Report) Fastest(n int) (Result, bool) {
	var best Result
	found := false
	for _, res := range r.Results {
		if res.Size != n || res.Method == MethodStable {
			continue
		}
		if !found || res.Mean < best.Mean {
			best = res
			found = true
		}
	}
	return best, found
}

// Baseline returns the stable result for size n.
func (r *Report) Baseline(n int) (Result, bool) {
	for _, res := range r.Results {
		if res.Size == n && res.Method == MethodStable {
			return res, true
		}
	}
	return Result{}, false
}
