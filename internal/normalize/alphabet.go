// Package normalize holds the fixed 26-letter alphabet and the text
// preparation rules shared by every classical cipher: scrubbing to A–Z,
// block padding, digraph splitting and letter merging.
package normalize

import "fmt"

// Size is the number of letters in the Latin alphabet.
const Size = 26

// DefaultFiller is the placeholder letter used for padding and doubled-letter separation.
const DefaultFiller = 'X'

// Alphabet is an immutable bijection between letters and the integers [0, Size).
type Alphabet struct {
	letters [Size]byte
	index   [256]int8
}

// Latin is the process-wide A–Z alphabet. It is built once and never mutated.
var Latin = newAlphabet("ABCDEFGHIJKLMNOPQRSTUVWXYZ")

func newAlphabet(letters string) *Alphabet {
	a := &Alphabet{}
	for i := range a.index {
		a.index[i] = -1
	}
	for i := 0; i < Size; i++ {
		a.letters[i] = letters[i]
		a.index[letters[i]] = int8(i)
	}
	return a
}

// Index returns the position of an uppercase letter.
func (a *Alphabet) Index(c byte) (int, bool) {
	i := a.index[c]
	if i < 0 {
		return 0, false
	}
	return int(i), true
}

// Letter returns the letter at position i, which is reduced modulo Size.
func (a *Alphabet) Letter(i int) byte {
	i %= Size
	if i < 0 {
		i += Size
	}
	return a.letters[i]
}

// Contains reports whether c is an uppercase member of the alphabet.
func (a *Alphabet) Contains(c byte) bool {
	return a.index[c] >= 0
}

// String returns the letters in order.
func (a *Alphabet) String() string {
	return string(a.letters[:])
}

// IsLetter reports whether c is an ASCII letter of either case.
func IsLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

// Upper folds an ASCII lowercase letter to uppercase and leaves everything else alone.
func Upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}

// ValidateFiller checks that f is a single uppercase letter.
func ValidateFiller(f byte) error {
	if !Latin.Contains(f) {
		return fmt.Errorf("filler %q is not an uppercase letter", f)
	}
	return nil
}
