package cipher

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/RowanDark/cipherlab/internal/numtheory"
)

func TestClassicalOperations(t *testing.T) {
	tests := []struct {
		name      string
		variant   string
		params    map[string]interface{}
		plaintext string
		expected  string
		recovered string
	}{
		{
			name:      "monoalphabetic keeps punctuation",
			variant:   "monoalphabetic",
			params:    map[string]interface{}{"key": "XNBYHOCZTDJVSKGMELWRAPQIFU"},
			plaintext: "Hello, World!",
			expected:  "ZHVVG, QGLVY!",
			recovered: "HELLO, WORLD!",
		},
		{
			name:      "vigenere",
			variant:   "vigenere",
			params:    map[string]interface{}{"key": "lemon"},
			plaintext: "ATTACK AT DAWN",
			expected:  "LXFOPV EF RNHR",
			recovered: "ATTACK AT DAWN",
		},
		{
			name:      "hill with go matrix",
			variant:   "hill",
			params:    map[string]interface{}{"matrix": [][]int{{3, 2}, {3, 5}}},
			plaintext: "help",
			expected:  "HIAT",
			recovered: "HELP",
		},
		{
			name:      "hill with string matrix",
			variant:   "hill",
			params:    map[string]interface{}{"matrix": "17 17 5; 21 18 21; 2 2 19"},
			plaintext: "PAY MORE MONEY",
			expected:  "RRLMWBKASPDH",
			recovered: "PAYMOREMONEY",
		},
		{
			name:      "playfair",
			variant:   "playfair",
			params:    map[string]interface{}{"key": "MONARCHY"},
			plaintext: "instruments",
			expected:  "GATLMZCLRQXA",
			recovered: "INSTRUMENTSX",
		},
		{
			name:      "railfence",
			variant:   "railfence",
			params:    map[string]interface{}{"rails": 3},
			plaintext: "WE ARE DISCOVERED FLEE AT ONCE",
			expected:  "WECRLTEERDSOEEFEAOCAIVDEN",
			recovered: "WEAREDISCOVEREDFLEEATONCE",
		},
		{
			name:      "double railfence with float rails",
			variant:   "double_railfence",
			params:    map[string]interface{}{"rails": float64(3)},
			plaintext: "WEAREDISCOVEREDFLEEATONCE",
			expected:  "WREDEECVNELESEAADCTROFOIE",
			recovered: "WEAREDISCOVEREDFLEEATONCE",
		},
		{
			name:      "row column with rows alias",
			variant:   "row_column",
			params:    map[string]interface{}{"rows": "4", "original_length": 15},
			plaintext: "WEAREDISCOVERED",
			expected:  "WECREDOEAIVDRSEX",
			recovered: "WEAREDISCOVERED",
		},
	}

	ctx := context.Background()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ct, err := Encrypt(ctx, tt.variant, tt.plaintext, tt.params)
			if err != nil {
				t.Fatalf("encrypt failed: %v", err)
			}
			if ct != tt.expected {
				t.Fatalf("expected %q, got %q", tt.expected, ct)
			}
			pt, err := Decrypt(ctx, tt.variant, ct, tt.params)
			if err != nil {
				t.Fatalf("decrypt failed: %v", err)
			}
			if pt != tt.recovered {
				t.Errorf("expected %q, got %q", tt.recovered, pt)
			}
		})
	}
}

func TestHillMatrixFromJSON(t *testing.T) {
	var params map[string]interface{}
	if err := json.Unmarshal([]byte(`{"matrix": [[3, 2], [3, 5]]}`), &params); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	ct, err := Encrypt(context.Background(), "hill", "HELP", params)
	if err != nil {
		t.Fatalf("encrypt failed: %v", err)
	}
	if ct != "HIAT" {
		t.Errorf("expected HIAT, got %q", ct)
	}

	if err := json.Unmarshal([]byte(`{"matrix": [3, 2, 3, 5]}`), &params); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	ct, err = Encrypt(context.Background(), "hill", "HELP", params)
	if err != nil || ct != "HIAT" {
		t.Errorf("flat matrix: expected HIAT, got %q (%v)", ct, err)
	}
}

func TestOperationErrors(t *testing.T) {
	tests := []struct {
		name    string
		variant string
		decrypt bool
		params  map[string]interface{}
		input   string
		want    error
	}{
		{"missing key", "vigenere", false, nil, "HELLO", numtheory.ErrMalformedInput},
		{"key wrong type", "vigenere", false, map[string]interface{}{"key": 42}, "HELLO", numtheory.ErrMalformedInput},
		{"short monoalphabetic key", "monoalphabetic", false, map[string]interface{}{"key": "ABC"}, "HELLO", numtheory.ErrMalformedInput},
		{"singular hill key", "hill", false, map[string]interface{}{"matrix": [][]int{{17, 17}, {5, 21}}}, "HELP", numtheory.ErrNotInvertible},
		{"non-square hill key", "hill", false, map[string]interface{}{"matrix": "1 2 3"}, "HELP", numtheory.ErrMalformedInput},
		{"fractional hill entry", "hill", false, map[string]interface{}{"matrix": []interface{}{1.5, 2.0, 3.0, 5.0}}, "HELP", numtheory.ErrMalformedInput},
		{"hill ciphertext length", "hill", true, map[string]interface{}{"matrix": [][]int{{3, 2}, {3, 5}}}, "HIA", numtheory.ErrMalformedInput},
		{"playfair odd ciphertext", "playfair", true, map[string]interface{}{"key": "MONARCHY"}, "GAT", numtheory.ErrMalformedInput},
		{"bad filler", "playfair", false, map[string]interface{}{"key": "MONARCHY", "filler": "XY"}, "BALLOON", numtheory.ErrMalformedInput},
		{"missing rails", "railfence", false, map[string]interface{}{}, "HELLO", numtheory.ErrMalformedInput},
		{"one rail", "railfence", false, map[string]interface{}{"rails": 1}, "HELLO", numtheory.ErrMalformedInput},
		{"rails too many", "double_railfence", false, map[string]interface{}{"rails": 5}, "HELLO", numtheory.ErrMalformedInput},
		{"missing original length", "row_column", true, map[string]interface{}{"rails": 4}, "WECREDOEAIVDRSEX", numtheory.ErrMalformedInput},
		{"unknown variant", "enigma", false, nil, "HELLO", ErrUnknownOperation},
	}

	ctx := context.Background()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err error
			if tt.decrypt {
				_, err = Decrypt(ctx, tt.variant, tt.input, tt.params)
			} else {
				_, err = Encrypt(ctx, tt.variant, tt.input, tt.params)
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestOperationHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	op, _ := GetOperation("vigenere_encrypt")
	_, err := op.Execute(ctx, []byte("HELLO"), map[string]interface{}{"key": "K"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
