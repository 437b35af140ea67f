// Package sparse provides the compressed-row matrix returned by the vectorizers.
//
// A Matrix is an owned value: vectorizers build it once and never touch it
// again, so it is safe to share between goroutines for reading. Column indices
// inside a row are strictly increasing and explicit zeros are never stored,
// which makes two matrices with the same content compare Equal regardless of
// how they were built.
package sparse

import (
	"fmt"
	"iter"
	"slices"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Entry is a single stored value.
type Entry struct {
	Row   int
	Col   int
	Value float64
}

// Matrix is a CSR (compressed sparse row) matrix of float64 values.
type Matrix struct {
	rows    int
	cols    int
	indptr  []int // len rows+1, indptr[0] == 0
	indices []int
	data    []float64
}

// New validates CSR arrays and wraps them in a Matrix. The slices are owned by
// the returned matrix afterwards.
func New(rows, cols int, indptr, indices []int, data []float64) (*Matrix, error) {
	if rows < 0 || cols < 0 {
		return nil, fmt.Errorf("invalid shape %dx%d", rows, cols)
	}
	if len(indptr) != rows+1 || indptr[0] != 0 {
		return nil, fmt.Errorf("indptr length %d does not match %d rows", len(indptr), rows)
	}
	if len(indices) != len(data) || indptr[rows] != len(data) {
		return nil, fmt.Errorf("indices (%d) and data (%d) disagree with indptr (%d)", len(indices), len(data), indptr[rows])
	}
	for r := 0; r < rows; r++ {
		start, end := indptr[r], indptr[r+1]
		if start > end {
			return nil, fmt.Errorf("indptr decreases at row %d", r)
		}
		for k := start; k < end; k++ {
			if indices[k] < 0 || indices[k] >= cols {
				return nil, fmt.Errorf("column %d out of range in row %d", indices[k], r)
			}
			if k > start && indices[k] <= indices[k-1] {
				return nil, fmt.Errorf("columns not strictly increasing in row %d", r)
			}
			if data[k] == 0 {
				return nil, fmt.Errorf("explicit zero stored at (%d, %d)", r, indices[k])
			}
		}
	}
	return &Matrix{rows: rows, cols: cols, indptr: indptr, indices: indices, data: data}, nil
}

// Zeros returns an empty rows x cols matrix.
func Zeros(rows, cols int) *Matrix {
	return &Matrix{rows: rows, cols: cols, indptr: make([]int, rows+1)}
}

// Rows returns the number of rows.
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *Matrix) Cols() int { return m.cols }

// Dims returns rows and columns, matching gonum's mat.Matrix.
func (m *Matrix) Dims() (int, int) { return m.rows, m.cols }

// NNZ returns the number of stored entries.
func (m *Matrix) NNZ() int { return len(m.data) }

// Indptr returns the row pointer array. Callers must not modify it.
func (m *Matrix) Indptr() []int { return m.indptr }

// Indices returns the column index array. Callers must not modify it.
func (m *Matrix) Indices() []int { return m.indices }

// Data returns the value array. Callers must not modify it.
func (m *Matrix) Data() []float64 { return m.data }

// Row returns the column indices and values stored in row i.
func (m *Matrix) Row(i int) ([]int, []float64) {
	if i < 0 || i >= m.rows {
		panic(fmt.Sprintf("sparse: row %d out of range [0, %d)", i, m.rows))
	}
	start, end := m.indptr[i], m.indptr[i+1]
	return m.indices[start:end:end], m.data[start:end:end]
}

// At returns the value at (i, j), zero when nothing is stored there.
func (m *Matrix) At(i, j int) float64 {
	cols, vals := m.Row(i)
	if k, ok := slices.BinarySearch(cols, j); ok {
		return vals[k]
	}
	return 0
}

// All iterates stored entries in row-major order.
func (m *Matrix) All() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for r := 0; r < m.rows; r++ {
			for k := m.indptr[r]; k < m.indptr[r+1]; k++ {
				if !yield(Entry{Row: r, Col: m.indices[k], Value: m.data[k]}) {
					return
				}
			}
		}
	}
}

// RowNorm returns the L2 norm of row i.
func (m *Matrix) RowNorm(i int) float64 {
	_, vals := m.Row(i)
	if len(vals) == 0 {
		return 0
	}
	return floats.Norm(vals, 2)
}

// Dot returns the dot product of row i of m and row j of o.
func (m *Matrix) Dot(i int, o *Matrix, j int) float64 {
	ac, av := m.Row(i)
	bc, bv := o.Row(j)
	var sum float64
	for x, y := 0, 0; x < len(ac) && y < len(bc); {
		switch {
		case ac[x] == bc[y]:
			sum += av[x] * bv[y]
			x++
			y++
		case ac[x] < bc[y]:
			x++
		default:
			y++
		}
	}
	return sum
}

// Map returns a new matrix whose stored values are f(entry). Entries mapped to
// zero are dropped.
func (m *Matrix) Map(f func(Entry) float64) *Matrix {
	out := &Matrix{
		rows:    m.rows,
		cols:    m.cols,
		indptr:  make([]int, m.rows+1),
		indices: make([]int, 0, len(m.indices)),
		data:    make([]float64, 0, len(m.data)),
	}
	for r := 0; r < m.rows; r++ {
		for k := m.indptr[r]; k < m.indptr[r+1]; k++ {
			v := f(Entry{Row: r, Col: m.indices[k], Value: m.data[k]})
			if v == 0 {
				continue
			}
			out.indices = append(out.indices, m.indices[k])
			out.data = append(out.data, v)
		}
		out.indptr[r+1] = len(out.data)
	}
	return out
}

// Binarize returns a copy with every stored value set to 1.
func (m *Matrix) Binarize() *Matrix {
	return m.Map(func(Entry) float64 { return 1 })
}

// Clone returns a deep copy.
func (m *Matrix) Clone() *Matrix {
	return &Matrix{
		rows:    m.rows,
		cols:    m.cols,
		indptr:  slices.Clone(m.indptr),
		indices: slices.Clone(m.indices),
		data:    slices.Clone(m.data),
	}
}

// Equal reports whether both matrices have the same shape and stored entries.
func (m *Matrix) Equal(o *Matrix) bool {
	if m == nil || o == nil {
		return m == o
	}
	return m.rows == o.rows && m.cols == o.cols &&
		slices.Equal(m.indptr, o.indptr) &&
		slices.Equal(m.indices, o.indices) &&
		slices.Equal(m.data, o.data)
}

// Dense converts the matrix to a gonum dense matrix. A matrix with a zero
// dimension converts to an empty mat.Dense.
func (m *Matrix) Dense() *mat.Dense {
	if m.rows == 0 || m.cols == 0 {
		return &mat.Dense{}
	}
	d := mat.NewDense(m.rows, m.cols, nil)
	for e := range m.All() {
		d.Set(e.Row, e.Col, e.Value)
	}
	return d
}

// String renders stored entries as "(row, col)\tvalue" lines.
func (m *Matrix) String() string {
	var b []byte
	for e := range m.All() {
		b = fmt.Appendf(b, "(%d, %d)\t%g\n", e.Row, e.Col, e.Value)
	}
	return string(b)
}

// Builder assembles a Matrix row by row.
type Builder struct {
	cols    int
	indptr  []int
	indices []int
	data    []float64
}

// NewBuilder returns a builder for a matrix with the given number of columns.
func NewBuilder(cols int) *Builder {
	return &Builder{cols: cols, indptr: []int{0}}
}

// AppendRow appends a row given as column -> value. Zero values are dropped.
func (b *Builder) AppendRow(row map[int]float64) {
	start := len(b.indices)
	for col, v := range row {
		if v == 0 {
			continue
		}
		if col < 0 || col >= b.cols {
			panic(fmt.Sprintf("sparse: column %d out of range [0, %d)", col, b.cols))
		}
		b.indices = append(b.indices, col)
	}
	cols := b.indices[start:]
	sort.Ints(cols)
	for _, col := range cols {
		b.data = append(b.data, row[col])
	}
	b.indptr = append(b.indptr, len(b.indices))
}

// AppendEmpty appends a row with no stored entries.
func (b *Builder) AppendEmpty() {
	b.indptr = append(b.indptr, len(b.indices))
}

// Build returns the assembled matrix. The builder must not be used afterwards.
func (b *Builder) Build() *Matrix {
	m := &Matrix{
		rows:    len(b.indptr) - 1,
		cols:    b.cols,
		indptr:  b.indptr,
		indices: b.indices,
		data:    b.data,
	}
	*b = Builder{}
	return m
}

// FromRows builds a matrix from per-row column -> value maps.
func FromRows(cols int, rows []map[int]float64) *Matrix {
	b := NewBuilder(cols)
	for _, row := range rows {
		b.AppendRow(row)
	}
	return b.Build()
}
