package transposition

import (
	"fmt"

	"github.com/RowanDark/cipherlab/internal/numtheory"
)

// zigzag walks rails top to bottom and back, one row per consumed character.
type zigzag struct {
	rails int
	row   int
	down  bool
}

func newZigzag(rails int) *zigzag {
	return &zigzag{rails: rails, down: true}
}

// next returns the row for the current column and advances the cursor.
func (z *zigzag) next() int {
	row := z.row
	switch {
	case z.row == 0:
		z.down = true
	case z.row == z.rails-1:
		z.down = false
	}
	if z.down {
		z.row++
	} else {
		z.row--
	}
	return row
}

// path returns the rail visited at each of n columns.
func path(rails, n int) []int {
	z := newZigzag(rails)
	rows := make([]int, n)
	for i := range rows {
		rows[i] = z.next()
	}
	return rows
}

func validateRails(rails, n int) error {
	if rails < 2 {
		return fmt.Errorf("%w: rail count must be at least 2, got %d", numtheory.ErrMalformedInput, rails)
	}
	if rails >= n {
		return fmt.Errorf("%w: rail count %d must be less than text length %d", numtheory.ErrMalformedInput, rails, n)
	}
	return nil
}
