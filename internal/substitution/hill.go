package substitution

import (
	"fmt"

	"github.com/RowanDark/cipherlab/internal/normalize"
	"github.com/RowanDark/cipherlab/internal/numtheory"
)

// Supported Hill key sizes.
const (
	MinHillSize = 2
	MaxHillSize = 4
)

// Hill encrypts N-letter blocks as row vectors: C = P × K mod 26.
type Hill struct {
	key     Matrix
	inverse Matrix
	filler  byte
}

// NewHill validates the key matrix and precomputes its inverse mod 26.
// A key whose determinant shares a factor with 26 is rejected with
// numtheory.ErrNotInvertible. filler pads the final block; zero selects 'X'.
func NewHill(key [][]int, filler byte) (*Hill, error) {
	m, err := NewMatrix(key)
	if err != nil {
		return nil, err
	}
	if n := m.Size(); n < MinHillSize || n > MaxHillSize {
		return nil, fmt.Errorf("%w: hill key must be between %dx%d and %dx%d, got %dx%d",
			numtheory.ErrMalformedInput, MinHillSize, MinHillSize, MaxHillSize, MaxHillSize, n, n)
	}
	if filler == 0 {
		filler = normalize.DefaultFiller
	}
	if err := normalize.ValidateFiller(filler); err != nil {
		return nil, fmt.Errorf("%w: %v", numtheory.ErrMalformedInput, err)
	}

	reduced := m.Reduce(normalize.Size)
	inverse, err := reduced.InverseMod(normalize.Size)
	if err != nil {
		return nil, err
	}
	return &Hill{key: reduced, inverse: inverse, filler: filler}, nil
}

// Size returns the block length N.
func (h *Hill) Size() int {
	return h.key.Size()
}

// Key returns a copy of the key reduced mod 26.
func (h *Hill) Key() Matrix {
	return h.key.Reduce(normalize.Size)
}

// Inverse returns a copy of K⁻¹ mod 26.
func (h *Hill) Inverse() Matrix {
	return h.inverse.Reduce(normalize.Size)
}

// Encrypt scrubs the plaintext, pads it to a multiple of N and multiplies each block by K.
func (h *Hill) Encrypt(plaintext string) string {
	text := normalize.Pad(normalize.Scrub(plaintext), h.Size(), h.filler)
	return h.transform(text, h.key)
}

// Decrypt multiplies each ciphertext block by K⁻¹. The ciphertext must consist
// of letters only and its length must be a multiple of N.
func (h *Hill) Decrypt(ciphertext string) (string, error) {
	text := []byte(ciphertext)
	for i, c := range text {
		c = normalize.Upper(c)
		if !normalize.Latin.Contains(c) {
			return "", fmt.Errorf("%w: ciphertext contains non-letter %q at %d", numtheory.ErrMalformedInput, ciphertext[i], i)
		}
		text[i] = c
	}
	if len(text)%h.Size() != 0 {
		return "", fmt.Errorf("%w: ciphertext length %d is not a multiple of %d", numtheory.ErrMalformedInput, len(text), h.Size())
	}
	return h.transform(string(text), h.inverse), nil
}

func (h *Hill) transform(text string, k Matrix) string {
	n := k.Size()
	out := make([]byte, 0, len(text))
	block := make([]int, n)
	for i := 0; i+n <= len(text); i += n {
		for j := 0; j < n; j++ {
			block[j], _ = normalize.Latin.Index(text[i+j])
		}
		for _, v := range k.MulVecMod(block, normalize.Size) {
			out = append(out, normalize.Latin.Letter(v))
		}
	}
	return string(out)
}
