package substitution

import (
	"errors"
	"testing"

	"github.com/RowanDark/cipherlab/internal/numtheory"
)

const sampleKey = "XNBYHOCZTDJVSKGMELWRAPQIFU"

func TestMonoalphabeticEncrypt(t *testing.T) {
	m, err := NewMonoalphabetic(sampleKey)
	if err != nil {
		t.Fatalf("NewMonoalphabetic failed: %v", err)
	}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"mixed case with punctuation", "Hello, World!", "ZHVVG, QGLVY!"},
		{"whole alphabet", "ABCDEFGHIJKLMNOPQRSTUVWXYZ", sampleKey},
		{"digits untouched", "a1b2", "X1N2"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.Encrypt(tt.input); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestMonoalphabeticRoundTrip(t *testing.T) {
	m, err := NewMonoalphabetic(sampleKey)
	if err != nil {
		t.Fatalf("NewMonoalphabetic failed: %v", err)
	}

	for _, p := range []string{"THEQUICKBROWNFOX", "MEET ME AT NOON.", "ZZZ"} {
		if got := m.Decrypt(m.Encrypt(p)); got != p {
			t.Errorf("roundtrip failed: expected %q, got %q", p, got)
		}
	}

	if got := m.Decrypt(m.Encrypt("lower case")); got != "LOWER CASE" {
		t.Errorf("decrypt should yield uppercase letters, got %q", got)
	}
}

func TestMonoalphabeticRejectsBadKeys(t *testing.T) {
	tests := []struct {
		name string
		key  string
	}{
		{"empty", ""},
		{"too short", "ABC"},
		{"repeated letter", "AACDEFGHIJKLMNOPQRSTUVWXYZ"},
		{"non-letter", "ABCDEFGHIJKLMNOPQRSTUVWXY1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewMonoalphabetic(tt.key); !errors.Is(err, numtheory.ErrMalformedInput) {
				t.Fatalf("expected ErrMalformedInput, got %v", err)
			}
		})
	}
}

func TestMonoalphabeticLowercaseKey(t *testing.T) {
	m, err := NewMonoalphabetic("xnbyhocztdjvskgmelwrapqifu")
	if err != nil {
		t.Fatalf("lowercase key should be accepted: %v", err)
	}
	if m.Key() != sampleKey {
		t.Errorf("expected canonical key %q, got %q", sampleKey, m.Key())
	}
}
