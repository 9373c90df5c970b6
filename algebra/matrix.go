package algebra

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotSquare is returned by Det for non-square matrices.
var ErrNotSquare = errors.New("algebra: matrix is not square")

// ============================================================
// Matrix of polynomial entries
// ============================================================

// Matrix is a dense matrix of polynomials. Collinearity, concyclicity and
// conic conditions are determinants of such matrices.
type Matrix struct {
	rows, cols int
	data       [][]*Polynomial
}

// NewMatrix returns a rows×cols zero matrix.
func NewMatrix(rows, cols int) *Matrix {
	data := make([][]*Polynomial, rows)
	for i := range data {
		data[i] = make([]*Polynomial, cols)
		for j := range data[i] {
			data[i][j] = Zero()
		}
	}
	return &Matrix{rows: rows, cols: cols, data: data}
}

// MatrixFromRows builds a matrix from equally long rows.
func MatrixFromRows(rows ...[]*Polynomial) (*Matrix, error) {
	if len(rows) == 0 {
		return NewMatrix(0, 0), nil
	}
	cols := len(rows[0])
	m := NewMatrix(len(rows), cols)
	for i, r := range rows {
		if len(r) != cols {
			return nil, fmt.Errorf("algebra: row %d has %d entries, want %d", i, len(r), cols)
		}
		for j, e := range r {
			m.data[i][j] = e
		}
	}
	return m, nil
}

func (m *Matrix) checkBounds(row, col int) {
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		panic(fmt.Sprintf("algebra: index (%d,%d) out of bounds for %dx%d matrix", row, col, m.rows, m.cols))
	}
}

func (m *Matrix) Get(row, col int) *Polynomial {
	m.checkBounds(row, col)
	return m.data[row][col]
}

func (m *Matrix) Set(row, col int, val *Polynomial) {
	m.checkBounds(row, col)
	m.data[row][col] = val
}

func (m *Matrix) Rows() int { return m.rows }
func (m *Matrix) Cols() int { return m.cols }

func (m *Matrix) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, row := range m.data {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("[")
		for j, e := range row {
			if j > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(e.String())
		}
		sb.WriteString("]")
	}
	sb.WriteString("]")
	return sb.String()
}

// Det computes the determinant by Laplace expansion along the first row.
func (m *Matrix) Det() (*Polynomial, error) {
	if m.rows != m.cols {
		return nil, ErrNotSquare
	}
	return matDet(m.data, m.rows), nil
}

func matDet(data [][]*Polynomial, n int) *Polynomial {
	switch n {
	case 0:
		return Int(1)
	case 1:
		return data[0][0]
	case 2:
		return data[0][0].Mul(data[1][1]).Sub(data[0][1].Mul(data[1][0]))
	}
	parts := make([]*Polynomial, 0, n)
	for j := 0; j < n; j++ {
		if data[0][j].IsZero() {
			continue
		}
		cofactor := data[0][j].Mul(matDet(makeMinor(data, n, 0, j), n-1))
		if j%2 == 1 {
			cofactor = cofactor.Neg()
		}
		parts = append(parts, cofactor)
	}
	return Sum(parts...)
}

func makeMinor(data [][]*Polynomial, n, skipRow, skipCol int) [][]*Polynomial {
	minor := make([][]*Polynomial, 0, n-1)
	for i := 0; i < n; i++ {
		if i == skipRow {
			continue
		}
		row := make([]*Polynomial, 0, n-1)
		for j := 0; j < n; j++ {
			if j != skipCol {
				row = append(row, data[i][j])
			}
		}
		minor = append(minor, row)
	}
	return minor
}
