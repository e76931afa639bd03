package substitution

import (
	"fmt"

	"github.com/RowanDark/cipherlab/internal/normalize"
	"github.com/RowanDark/cipherlab/internal/numtheory"
)

// Monoalphabetic substitutes each letter through a permutation of the alphabet.
type Monoalphabetic struct {
	forward [normalize.Size]byte
	inverse [normalize.Size]byte
}

// NewMonoalphabetic builds a cipher from a 26-letter permutation such as
// "XNBYHOCZTDJVSKGMELWRAPQIFU", where position i is the image of the i-th letter.
func NewMonoalphabetic(key string) (*Monoalphabetic, error) {
	if len(key) != normalize.Size {
		return nil, fmt.Errorf("%w: substitution key must have %d letters, got %d", numtheory.ErrMalformedInput, normalize.Size, len(key))
	}

	m := &Monoalphabetic{}
	var seen [normalize.Size]bool
	for i := 0; i < len(key); i++ {
		c := normalize.Upper(key[i])
		idx, ok := normalize.Latin.Index(c)
		if !ok {
			return nil, fmt.Errorf("%w: substitution key contains non-letter %q", numtheory.ErrMalformedInput, key[i])
		}
		if seen[idx] {
			return nil, fmt.Errorf("%w: substitution key repeats letter %q", numtheory.ErrMalformedInput, c)
		}
		seen[idx] = true
		m.forward[i] = c
		m.inverse[idx] = normalize.Latin.Letter(i)
	}
	return m, nil
}

// Key returns the permutation in canonical uppercase form.
func (m *Monoalphabetic) Key() string {
	return string(m.forward[:])
}

// Encrypt maps every letter through the permutation and copies everything else unchanged.
func (m *Monoalphabetic) Encrypt(plaintext string) string {
	return translate(plaintext, &m.forward)
}

// Decrypt applies the inverse permutation.
func (m *Monoalphabetic) Decrypt(ciphertext string) string {
	return translate(ciphertext, &m.inverse)
}

func translate(text string, table *[normalize.Size]byte) string {
	out := []byte(text)
	for i, c := range out {
		if idx, ok := normalize.Latin.Index(normalize.Upper(c)); ok {
			out[i] = table[idx]
		}
	}
	return string(out)
}
