package transposition

import (
	"github.com/RowanDark/cipherlab/internal/normalize"
)

// RailFence is the zig-zag transposition over a fixed number of rails.
type RailFence struct {
	Rails int
}

// Encrypt writes the scrubbed plaintext along the zig-zag path and reads
// the rails top to bottom.
func (r RailFence) Encrypt(plaintext string) (string, error) {
	text := normalize.Scrub(plaintext)
	if err := validateRails(r.Rails, len(text)); err != nil {
		return "", err
	}
	return zigzagEncode(text, r.Rails), nil
}

// Decrypt marks the zig-zag cells, fills them rail by rail with the
// ciphertext and reads them back in column order.
func (r RailFence) Decrypt(ciphertext string) (string, error) {
	text := normalize.Scrub(ciphertext)
	if err := validateRails(r.Rails, len(text)); err != nil {
		return "", err
	}
	return zigzagDecode(text, r.Rails), nil
}

func zigzagEncode(text string, rails int) string {
	grid := make([][]byte, rails)
	for col, row := range path(rails, len(text)) {
		grid[row] = append(grid[row], text[col])
	}
	out := make([]byte, 0, len(text))
	for _, rail := range grid {
		out = append(out, rail...)
	}
	return string(out)
}

func zigzagDecode(text string, rails int) string {
	rows := path(rails, len(text))
	counts := make([]int, rails)
	for _, row := range rows {
		counts[row]++
	}

	grid := make([][]byte, rails)
	pos := 0
	for row, n := range counts {
		grid[row] = []byte(text[pos : pos+n])
		pos += n
	}

	out := make([]byte, len(text))
	next := make([]int, rails)
	for col, row := range rows {
		out[col] = grid[row][next[row]]
		next[row]++
	}
	return string(out)
}

// DoubleRailFence applies a rail fence and then deals the intermediate text
// cyclically into Rails columns.
type DoubleRailFence struct {
	Rails int
}

// Encrypt runs the plain rail fence, then concatenates buffers built from
// every Rails-th character of the intermediate text.
func (d DoubleRailFence) Encrypt(plaintext string) (string, error) {
	text := normalize.Scrub(plaintext)
	if err := validateRails(d.Rails, len(text)); err != nil {
		return "", err
	}
	mid := zigzagEncode(text, d.Rails)

	buffers := make([][]byte, d.Rails)
	for i := 0; i < len(mid); i++ {
		buffers[i%d.Rails] = append(buffers[i%d.Rails], mid[i])
	}
	out := make([]byte, 0, len(mid))
	for _, b := range buffers {
		out = append(out, b...)
	}
	return string(out), nil
}

// Decrypt splits the ciphertext into Rails blocks, re-interleaves them and
// reverses the rail fence.
func (d DoubleRailFence) Decrypt(ciphertext string) (string, error) {
	text := normalize.Scrub(ciphertext)
	n := len(text)
	if err := validateRails(d.Rails, n); err != nil {
		return "", err
	}

	blocks := make([]string, d.Rails)
	base, extra := n/d.Rails, n%d.Rails
	pos := 0
	for i := range blocks {
		size := base
		if i < extra {
			size++
		}
		blocks[i] = text[pos : pos+size]
		pos += size
	}

	mid := make([]byte, n)
	for i := range mid {
		mid[i] = blocks[i%d.Rails][i/d.Rails]
	}
	return zigzagDecode(string(mid), d.Rails), nil
}
