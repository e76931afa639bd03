package substitution

import (
	"fmt"
	"strings"

	"github.com/RowanDark/cipherlab/internal/numtheory"
)

// Matrix is a square integer matrix stored row-major.
type Matrix [][]int

// NewMatrix copies rows into a Matrix after checking that it is square.
func NewMatrix(rows [][]int) (Matrix, error) {
	n := len(rows)
	if n == 0 {
		return nil, fmt.Errorf("%w: matrix is empty", numtheory.ErrMalformedInput)
	}
	m := make(Matrix, n)
	for i, row := range rows {
		if len(row) != n {
			return nil, fmt.Errorf("%w: row %d has %d entries, expected %d", numtheory.ErrMalformedInput, i, len(row), n)
		}
		m[i] = append([]int(nil), row...)
	}
	return m, nil
}

// Size returns N for an N×N matrix.
func (m Matrix) Size() int {
	return len(m)
}

// Minor returns the matrix with row r and column c removed.
func (m Matrix) Minor(r, c int) Matrix {
	n := len(m)
	out := make(Matrix, 0, n-1)
	for i := 0; i < n; i++ {
		if i == r {
			continue
		}
		row := make([]int, 0, n-1)
		for j := 0; j < n; j++ {
			if j != c {
				row = append(row, m[i][j])
			}
		}
		out = append(out, row)
	}
	return out
}

// Det computes the determinant by cofactor expansion along the first row.
// Only integer arithmetic is used.
func (m Matrix) Det() int {
	switch len(m) {
	case 0:
		return 1
	case 1:
		return m[0][0]
	case 2:
		return m[0][0]*m[1][1] - m[0][1]*m[1][0]
	}
	det := 0
	for j := range m[0] {
		if m[0][j] == 0 {
			continue
		}
		det += cofactorSign(0, j) * m[0][j] * m.Minor(0, j).Det()
	}
	return det
}

// Adjugate returns the transpose of the cofactor matrix, so that
// m × adj(m) = det(m) × I.
func (m Matrix) Adjugate() Matrix {
	n := len(m)
	adj := make(Matrix, n)
	for i := range adj {
		adj[i] = make([]int, n)
	}
	if n == 1 {
		adj[0][0] = 1
		return adj
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			adj[j][i] = cofactorSign(i, j) * m.Minor(i, j).Det()
		}
	}
	return adj
}

// Reduce returns a copy with every entry reduced into [0, mod).
func (m Matrix) Reduce(mod int) Matrix {
	out := make(Matrix, len(m))
	for i, row := range m {
		out[i] = make([]int, len(row))
		for j, v := range row {
			out[i][j] = numtheory.Mod(v, mod)
		}
	}
	return out
}

// InverseMod returns K⁻¹ mod `mod` as adj(K) × det(K)⁻¹ with entries in [0, mod).
// It fails with numtheory.ErrNotInvertible when gcd(det(K), mod) != 1.
func (m Matrix) InverseMod(mod int) (Matrix, error) {
	det := numtheory.Mod(m.Det(), mod)
	detInv, err := numtheory.ModInverse(det, mod)
	if err != nil {
		return nil, fmt.Errorf("key matrix determinant %d: %w", det, err)
	}
	inv := m.Adjugate().Reduce(mod)
	for i := range inv {
		for j := range inv[i] {
			inv[i][j] = numtheory.MulMod(inv[i][j], detInv, mod)
		}
	}
	return inv, nil
}

// MulVecMod computes the row vector v × m reduced modulo mod.
func (m Matrix) MulVecMod(v []int, mod int) []int {
	n := len(m)
	out := make([]int, n)
	for col := 0; col < n; col++ {
		sum := 0
		for row := 0; row < n; row++ {
			sum += v[row] * m[row][col]
		}
		out[col] = numtheory.Mod(sum, mod)
	}
	return out
}

// String renders the matrix as space separated rows joined by ';'.
func (m Matrix) String() string {
	rows := make([]string, len(m))
	for i, row := range m {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = fmt.Sprint(v)
		}
		rows[i] = strings.Join(cells, " ")
	}
	return strings.Join(rows, "; ")
}

func cofactorSign(i, j int) int {
	if (i+j)%2 == 0 {
		return 1
	}
	return -1
}
