package transposition

import (
	"errors"
	"testing"

	"github.com/RowanDark/cipherlab/internal/normalize"
	"github.com/RowanDark/cipherlab/internal/numtheory"
)

func TestKeySquareMonarchy(t *testing.T) {
	sq, err := NewKeySquare("monarchy")
	if err != nil {
		t.Fatalf("NewKeySquare failed: %v", err)
	}
	want := []string{"MONAR", "CHYBD", "EFGIK", "LPQST", "UVWXZ"}
	got := sq.Rows()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("row %d: expected %s, got %s", i, want[i], got[i])
		}
	}

	r, c, err := sq.FindPosition('J')
	if err != nil || r != 2 || c != 3 {
		t.Errorf("J should resolve to I at (2,3), got (%d,%d) %v", r, c, err)
	}
	if _, _, err := sq.FindPosition('3'); !errors.Is(err, numtheory.ErrMalformedInput) {
		t.Errorf("expected ErrMalformedInput for non-letter, got %v", err)
	}
}

func TestKeySquareMergesJ(t *testing.T) {
	sq, err := NewKeySquare("JIGSAW")
	if err != nil {
		t.Fatalf("NewKeySquare failed: %v", err)
	}
	if row := sq.Rows()[0]; row != "IGSAW" {
		t.Errorf("expected first row IGSAW, got %s", row)
	}
}

func TestKeySquareRejectsEmptyKeyword(t *testing.T) {
	if _, err := NewKeySquare("123 !"); !errors.Is(err, numtheory.ErrMalformedInput) {
		t.Fatalf("expected ErrMalformedInput, got %v", err)
	}
}

func TestPlayfairKnownAnswers(t *testing.T) {
	tests := []struct {
		plaintext  string
		digraphs   string
		ciphertext string
	}{
		{"INSTRUMENTS", "IN ST RU ME NT SX", "GATLMZCLRQXA"},
		{"balloon", "BA LX LO ON", "IBSUPMNA"},
		{"AAA", "AX AX AX", "BABABA"},
		{"XX", "XX XX", "ZZZZ"},
		{"Hello, World", "HE LX LO WO RL DX", "CFSUPMVNMTBZ"},
		{"JAZZ", "IA ZX ZX", "SBUZUZ"},
	}

	pf, err := NewPlayfair("MONARCHY", 0)
	if err != nil {
		t.Fatalf("NewPlayfair failed: %v", err)
	}
	for _, tt := range tests {
		t.Run(tt.plaintext, func(t *testing.T) {
			if got := joinSpaced(pf.Digraphs(tt.plaintext)); got != tt.digraphs {
				t.Fatalf("digraphs: expected %q, got %q", tt.digraphs, got)
			}
			ct := pf.Encrypt(tt.plaintext)
			if ct != tt.ciphertext {
				t.Fatalf("encrypt: expected %q, got %q", tt.ciphertext, ct)
			}
			pt, err := pf.Decrypt(ct)
			if err != nil {
				t.Fatalf("decrypt failed: %v", err)
			}
			if want := normalize.JoinDigraphs(pf.Digraphs(tt.plaintext)); pt != want {
				t.Errorf("decrypt: expected %q, got %q", want, pt)
			}
		})
	}
}

func joinSpaced(ds []normalize.Digraph) string {
	out := ""
	for i, d := range ds {
		if i > 0 {
			out += " "
		}
		out += d.String()
	}
	return out
}

func TestPlayfairDecryptRejectsOddLength(t *testing.T) {
	pf, err := NewPlayfair("MONARCHY", 0)
	if err != nil {
		t.Fatalf("NewPlayfair failed: %v", err)
	}
	if _, err := pf.Decrypt("GAT"); !errors.Is(err, numtheory.ErrMalformedInput) {
		t.Fatalf("expected ErrMalformedInput, got %v", err)
	}
}

func TestPlayfairDecryptScrubsInput(t *testing.T) {
	pf, err := NewPlayfair("MONARCHY", 0)
	if err != nil {
		t.Fatalf("NewPlayfair failed: %v", err)
	}
	got, err := pf.Decrypt("ga tl-mz cl rq xa")
	if err != nil {
		t.Fatalf("decrypt failed: %v", err)
	}
	if got != "INSTRUMENTSX" {
		t.Errorf("expected INSTRUMENTSX, got %q", got)
	}
}

func TestPlayfairFillerValidation(t *testing.T) {
	if _, err := NewPlayfair("KEY", '1'); !errors.Is(err, numtheory.ErrMalformedInput) {
		t.Errorf("expected ErrMalformedInput for digit filler, got %v", err)
	}
	if _, err := NewPlayfair("KEY", 'J'); !errors.Is(err, numtheory.ErrMalformedInput) {
		t.Errorf("expected ErrMalformedInput for J filler, got %v", err)
	}

	pf, err := NewPlayfair("MONARCHY", 'Q')
	if err != nil {
		t.Fatalf("NewPlayfair failed: %v", err)
	}
	if got := joinSpaced(pf.Digraphs("BALLOON")); got != "BA LQ LO ON" {
		t.Errorf("expected Q filler, got %q", got)
	}
}
