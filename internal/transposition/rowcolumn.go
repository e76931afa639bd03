package transposition

import (
	"fmt"
	"strings"

	"github.com/RowanDark/cipherlab/internal/normalize"
	"github.com/RowanDark/cipherlab/internal/numtheory"
)

// RowColumn writes text row by row into a Rows×⌈n/Rows⌉ grid and reads it
// column by column. Filler pads the last row; zero means normalize.DefaultFiller.
type RowColumn struct {
	Rows   int
	Filler byte
}

func (r RowColumn) filler() (byte, error) {
	if r.Filler == 0 {
		return normalize.DefaultFiller, nil
	}
	if err := normalize.ValidateFiller(r.Filler); err != nil {
		return 0, fmt.Errorf("%w: %v", numtheory.ErrMalformedInput, err)
	}
	return r.Filler, nil
}

// Encrypt returns the column-order ciphertext. The caller keeps the
// scrubbed plaintext length to decrypt it later.
func (r RowColumn) Encrypt(plaintext string) (string, error) {
	text := normalize.Scrub(plaintext)
	if err := validateRails(r.Rows, len(text)); err != nil {
		return "", err
	}
	filler, err := r.filler()
	if err != nil {
		return "", err
	}

	cols := (len(text) + r.Rows - 1) / r.Rows
	grid := text + strings.Repeat(string(filler), r.Rows*cols-len(text))

	out := make([]byte, 0, len(grid))
	for c := 0; c < cols; c++ {
		for row := 0; row < r.Rows; row++ {
			out = append(out, grid[row*cols+c])
		}
	}
	return string(out), nil
}

// Decrypt rebuilds the grid from the column-order ciphertext and trims it
// to originalLength, which cannot be recovered from the ciphertext itself.
func (r RowColumn) Decrypt(ciphertext string, originalLength int) (string, error) {
	text := normalize.Scrub(ciphertext)
	n := len(text)
	if r.Rows < 2 {
		return "", fmt.Errorf("%w: row count must be at least 2, got %d", numtheory.ErrMalformedInput, r.Rows)
	}
	if n%r.Rows != 0 {
		return "", fmt.Errorf("%w: ciphertext length %d is not a multiple of %d rows", numtheory.ErrMalformedInput, n, r.Rows)
	}
	if originalLength <= r.Rows || originalLength > n || originalLength <= n-r.Rows {
		return "", fmt.Errorf("%w: original length %d does not fit a %d-row grid of %d letters",
			numtheory.ErrMalformedInput, originalLength, r.Rows, n)
	}
	if _, err := r.filler(); err != nil {
		return "", err
	}

	cols := n / r.Rows
	out := make([]byte, n)
	i := 0
	for c := 0; c < cols; c++ {
		for row := 0; row < r.Rows; row++ {
			out[row*cols+c] = text[i]
			i++
		}
	}
	return string(out[:originalLength]), nil
}
