package compare

import (
	"fmt"

	"github.com/ChristianF88/rargsort/radix"
	"golang.org/x/exp/slices"
)

// DType names the element type an array was built from. Values are stored
// as float64 regardless.
type DType uint8

const (
	Float64 DType = iota
	Float32
	Int64
	Int32
)

func (d DType) String() string {
	switch d {
	case Float64:
		return "float64"
	case Float32:
		return "float32"
	case Int64:
		return "int64"
	case Int32:
		return "int32"
	default:
		return fmt.Sprintf("dtype(%d)", uint8(d))
	}
}

// Array is anything AllClose can compare.
type Array interface {
	Shape() []int
	DType() DType
}

// Dense is a row-major n-dimensional array.
type Dense struct {
	shape []int
	data  []float64
	dtype DType
}

// NewDense creates a float64 dense array. len(data) must equal the product
// of shape.
func NewDense(shape []int, data []float64) (*Dense, error) {
	size, err := shapeSize(shape)
	if err != nil {
		return nil, err
	}
	if len(data) != size {
		return nil, fmt.Errorf("data length %d does not match shape %v (size %d)", len(data), shape, size)
	}
	return &Dense{
		shape: slices.Clone(shape),
		data:  slices.Clone(data),
		dtype: Float64,
	}, nil
}

func (d *Dense) Shape() []int    { return d.shape }
func (d *Dense) DType() DType    { return d.dtype }
func (d *Dense) Data() []float64 { return d.data }

// AsType returns a copy tagged with element type t.
func (d *Dense) AsType(t DType) *Dense {
	out := *d
	out.dtype = t
	return &out
}

// COO is a sparse array in coordinate format: entry k has value data[k] at
// position (coords[0][k], ..., coords[ndim-1][k]). Coordinates may repeat,
// in which case the values add up.
type COO struct {
	shape  []int
	coords [][]int
	data   []float64
	dtype  DType

	sorted        bool
	hasDuplicates bool
}

// NewCOO creates a float64 sparse array. coords holds one slice per
// dimension, each as long as data.
func NewCOO(shape []int, coords [][]int, data []float64) (*COO, error) {
	if _, err := shapeSize(shape); err != nil {
		return nil, err
	}
	if len(coords) != len(shape) {
		return nil, fmt.Errorf("got %d coordinate rows for %d dimensions", len(coords), len(shape))
	}

	c := &COO{
		shape:         slices.Clone(shape),
		coords:        make([][]int, len(coords)),
		data:          slices.Clone(data),
		dtype:         Float64,
		hasDuplicates: true,
	}
	for dim, row := range coords {
		if len(row) != len(data) {
			return nil, fmt.Errorf("coordinate row %d has %d entries, data has %d", dim, len(row), len(data))
		}
		for k, v := range row {
			if v < 0 || v >= shape[dim] {
				return nil, fmt.Errorf("coordinate %d of entry %d out of range [0, %d)", v, k, shape[dim])
			}
		}
		c.coords[dim] = slices.Clone(row)
	}
	return c, nil
}

func (c *COO) Shape() []int { return c.shape }
func (c *COO) DType() DType { return c.dtype }
func (c *COO) NNZ() int     { return len(c.data) }

// AsType returns a copy tagged with element type t.
func (c *COO) AsType(t DType) *COO {
	out := c.clone()
	out.dtype = t
	return out
}

// Sorted reports whether the entries are known to be in row-major order.
func (c *COO) Sorted() bool { return c.sorted }

// HasDuplicates is true unless the entries are known to have unique
// coordinates.
func (c *COO) HasDuplicates() bool { return c.hasDuplicates }

// LinearLoc returns the row-major flat position of every entry.
func (c *COO) LinearLoc() []int64 {
	strides := rowMajorStrides(c.shape)
	out := make([]int64, len(c.data))
	for dim, row := range c.coords {
		stride := int64(strides[dim])
		for k, v := range row {
			out[k] += int64(v) * stride
		}
	}
	return out
}

// IsLexsorted reports whether entries are in strictly increasing row-major
// order. A 0-d array is always lexsorted.
func (c *COO) IsLexsorted() bool {
	if len(c.shape) == 0 {
		return true
	}
	loc := c.LinearLoc()
	for k := 1; k < len(loc); k++ {
		if loc[k] <= loc[k-1] {
			return false
		}
	}
	return true
}

// SumDuplicates returns a canonical copy: entries sorted in row-major order
// with the values of repeated coordinates added together.
func (c *COO) SumDuplicates() *COO {
	loc := c.LinearLoc()
	// Linear locations are non-negative, so bit-pattern order is numeric order
	perm, err := radix.Argsort(loc, 8)
	if err != nil {
		panic(err)
	}

	out := &COO{
		shape:  slices.Clone(c.shape),
		coords: make([][]int, len(c.coords)),
		dtype:  c.dtype,
		sorted: true,
	}
	keep := make([]int, 0, len(perm))
	for _, k := range perm {
		if n := len(keep); n > 0 && loc[keep[n-1]] == loc[k] {
			out.data[n-1] += c.data[k]
			continue
		}
		keep = append(keep, k)
		out.data = append(out.data, c.data[k])
	}
	for dim, row := range c.coords {
		out.coords[dim] = radix.Apply(row, keep)
	}
	return out
}

// Densify expands the array into a Dense one. Repeated coordinates add up.
func (c *COO) Densify() *Dense {
	size, _ := shapeSize(c.shape)
	data := make([]float64, size)
	for k, loc := range c.LinearLoc() {
		data[loc] += c.data[k]
	}
	return &Dense{shape: slices.Clone(c.shape), data: data, dtype: c.dtype}
}

func (c *COO) clone() *COO {
	out := *c
	out.shape = slices.Clone(c.shape)
	out.data = slices.Clone(c.data)
	out.coords = make([][]int, len(c.coords))
	for dim, row := range c.coords {
		out.coords[dim] = slices.Clone(row)
	}
	return &out
}

func shapeSize(shape []int) (int, error) {
	size := 1
	for _, d := range shape {
		if d < 0 {
			return 0, fmt.Errorf("negative dimension in shape %v", shape)
		}
		size *= d
	}
	return size, nil
}

func rowMajorStrides(shape []int) []int {
	strides := make([]int, len(shape))
	stride := 1
	for dim := len(shape) - 1; dim >= 0; dim-- {
		strides[dim] = stride
		stride *= shape[dim]
	}
	return strides
}
