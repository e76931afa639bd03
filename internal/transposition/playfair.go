package transposition

import (
	"fmt"
	"strings"

	"github.com/RowanDark/cipherlab/internal/normalize"
	"github.com/RowanDark/cipherlab/internal/numtheory"
)

const squareSize = 5

// KeySquare is the 5×5 Playfair grid with J folded into I.
type KeySquare struct {
	cells [squareSize][squareSize]byte
	pos   [normalize.Size]position
}

type position struct {
	row, col int
}

// NewKeySquare fills the grid with the keyword's distinct letters in order
// of first appearance followed by the rest of the alphabet.
func NewKeySquare(keyword string) (*KeySquare, error) {
	key := normalize.MergeIdentified(normalize.Scrub(keyword), 'J', 'I')
	if key == "" {
		return nil, fmt.Errorf("%w: playfair keyword has no letters", numtheory.ErrMalformedInput)
	}

	var seen [normalize.Size]bool
	seen['J'-'A'] = true
	order := make([]byte, 0, squareSize*squareSize)
	for _, src := range []string{key, normalize.Latin.String()} {
		for i := 0; i < len(src); i++ {
			idx, _ := normalize.Latin.Index(src[i])
			if seen[idx] {
				continue
			}
			seen[idx] = true
			order = append(order, src[i])
		}
	}

	ks := &KeySquare{}
	for i, c := range order {
		r, col := i/squareSize, i%squareSize
		ks.cells[r][col] = c
		idx, _ := normalize.Latin.Index(c)
		ks.pos[idx] = position{r, col}
	}
	ks.pos['J'-'A'] = ks.pos['I'-'A']
	return ks, nil
}

// FindPosition returns the row and column of letter. J is looked up as I.
func (ks *KeySquare) FindPosition(letter byte) (row, col int, err error) {
	idx, ok := normalize.Latin.Index(normalize.Upper(letter))
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q is not in the key square", numtheory.ErrMalformedInput, letter)
	}
	p := ks.pos[idx]
	return p.row, p.col, nil
}

// At returns the letter at row, col.
func (ks *KeySquare) At(row, col int) byte {
	return ks.cells[row][col]
}

// Rows returns the grid as five strings.
func (ks *KeySquare) Rows() []string {
	rows := make([]string, squareSize)
	for i := range ks.cells {
		rows[i] = string(ks.cells[i][:])
	}
	return rows
}

func (ks *KeySquare) String() string {
	return strings.Join(ks.Rows(), "\n")
}

// Playfair encrypts digraphs against a KeySquare.
type Playfair struct {
	square *KeySquare
	filler byte
}

// NewPlayfair builds the key square for keyword. A zero filler selects
// normalize.DefaultFiller.
func NewPlayfair(keyword string, filler byte) (*Playfair, error) {
	if filler == 0 {
		filler = normalize.DefaultFiller
	}
	if err := normalize.ValidateFiller(filler); err != nil {
		return nil, fmt.Errorf("%w: %v", numtheory.ErrMalformedInput, err)
	}
	if filler == 'J' {
		return nil, fmt.Errorf("%w: filler J is folded into I", numtheory.ErrMalformedInput)
	}
	sq, err := NewKeySquare(keyword)
	if err != nil {
		return nil, err
	}
	return &Playfair{square: sq, filler: filler}, nil
}

// Square returns the key square.
func (p *Playfair) Square() *KeySquare {
	return p.square
}

// Digraphs returns the pairs Encrypt would process for plaintext.
func (p *Playfair) Digraphs(plaintext string) []normalize.Digraph {
	text := normalize.MergeIdentified(normalize.Scrub(plaintext), 'J', 'I')
	return normalize.SplitDigraphs(text, p.filler)
}

// Encrypt returns the ciphertext of the prepared digraphs.
func (p *Playfair) Encrypt(plaintext string) string {
	pairs := p.Digraphs(plaintext)
	for i, d := range pairs {
		pairs[i] = p.shift(d, 1)
	}
	return normalize.JoinDigraphs(pairs)
}

// Decrypt reverses Encrypt. Inserted fillers are left in place since they
// cannot be told apart from real letters.
func (p *Playfair) Decrypt(ciphertext string) (string, error) {
	text := normalize.MergeIdentified(normalize.Scrub(ciphertext), 'J', 'I')
	if len(text)%2 != 0 {
		return "", fmt.Errorf("%w: playfair ciphertext length %d is odd", numtheory.ErrMalformedInput, len(text))
	}
	out := make([]byte, len(text))
	for i := 0; i < len(text); i += 2 {
		d := p.shift(normalize.Digraph{text[i], text[i+1]}, -1)
		out[i], out[i+1] = d[0], d[1]
	}
	return string(out), nil
}

// shift applies the row, column or rectangle rule. Inputs are scrubbed
// letters, so lookups cannot fail.
func (p *Playfair) shift(d normalize.Digraph, step int) normalize.Digraph {
	r1, c1, _ := p.square.FindPosition(d[0])
	r2, c2, _ := p.square.FindPosition(d[1])
	switch {
	case r1 == r2:
		c1 = numtheory.Mod(c1+step, squareSize)
		c2 = numtheory.Mod(c2+step, squareSize)
	case c1 == c2:
		r1 = numtheory.Mod(r1+step, squareSize)
		r2 = numtheory.Mod(r2+step, squareSize)
	default:
		c1, c2 = c2, c1
	}
	return normalize.Digraph{p.square.At(r1, c1), p.square.At(r2, c2)}
}
