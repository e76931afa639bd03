package substitution

import (
	"fmt"

	"github.com/RowanDark/cipherlab/internal/normalize"
	"github.com/RowanDark/cipherlab/internal/numtheory"
)

// Vigenere is the polyalphabetic cipher C = (P + K) mod 26 with a repeating keyword.
//
// The key stream advances only on letters of the text being processed. Encryption
// and decryption derive it independently from their own input, so inserting or
// deleting a ciphertext letter shifts the stream for everything after it.
type Vigenere struct {
	shifts []int
}

// NewVigenere builds a cipher from a keyword of one or more letters.
func NewVigenere(keyword string) (*Vigenere, error) {
	if keyword == "" {
		return nil, fmt.Errorf("%w: keyword cannot be empty", numtheory.ErrMalformedInput)
	}
	shifts := make([]int, len(keyword))
	for i := 0; i < len(keyword); i++ {
		idx, ok := normalize.Latin.Index(normalize.Upper(keyword[i]))
		if !ok {
			return nil, fmt.Errorf("%w: keyword contains non-letter %q", numtheory.ErrMalformedInput, keyword[i])
		}
		shifts[i] = idx
	}
	return &Vigenere{shifts: shifts}, nil
}

// Keyword returns the keyword in uppercase.
func (v *Vigenere) Keyword() string {
	out := make([]byte, len(v.shifts))
	for i, s := range v.shifts {
		out[i] = normalize.Latin.Letter(s)
	}
	return string(out)
}

// KeyStream returns the key letter aligned with every letter of text. Positions
// holding non-letters carry the (uppercased) character itself and consume no key.
func (v *Vigenere) KeyStream(text string) string {
	out := []byte(text)
	k := 0
	for i, c := range out {
		c = normalize.Upper(c)
		if normalize.Latin.Contains(c) {
			out[i] = normalize.Latin.Letter(v.shifts[k%len(v.shifts)])
			k++
			continue
		}
		out[i] = c
	}
	return string(out)
}

// Encrypt shifts each letter forward by its key letter.
func (v *Vigenere) Encrypt(plaintext string) string {
	return v.apply(plaintext, 1)
}

// Decrypt shifts each letter back by its key letter.
func (v *Vigenere) Decrypt(ciphertext string) string {
	return v.apply(ciphertext, -1)
}

func (v *Vigenere) apply(text string, sign int) string {
	out := []byte(text)
	k := 0
	for i, c := range out {
		c = normalize.Upper(c)
		idx, ok := normalize.Latin.Index(c)
		if !ok {
			out[i] = c
			continue
		}
		shift := v.shifts[k%len(v.shifts)]
		out[i] = normalize.Latin.Letter(idx + sign*shift + normalize.Size)
		k++
	}
	return string(out)
}
