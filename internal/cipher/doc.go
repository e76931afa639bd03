// Package cipher exposes the classical ciphers as named, chainable operations.
//
// Every cipher variant registers a "<variant>_encrypt" and a
// "<variant>_decrypt" operation that are each other's Reverse. Keys travel
// in the params map on every call:
//
//	out, err := cipher.Encrypt(ctx, "hill", "HELP", map[string]interface{}{
//	    "matrix": [][]int{{3, 2}, {3, 5}},
//	})
//	// out == "HIAT"
//
// Operations can be chained into a Pipeline, saved as a Recipe, and run
// over many inputs with ExecuteBatch:
//
//	p := &cipher.Pipeline{
//	    Operations: []cipher.OperationConfig{
//	        {Name: "vigenere_encrypt", Parameters: map[string]interface{}{"key": "LEMON"}},
//	        {Name: "railfence_encrypt", Parameters: map[string]interface{}{"rails": 3}},
//	    },
//	    Reversible: true,
//	}
//	ct, _ := p.Execute(ctx, []byte("attack at dawn"))
//	back, _ := p.Reverse()
//	pt, _ := back.Execute(ctx, ct)
//
// # Available Operations
//
//   - monoalphabetic_encrypt/decrypt - key: 26 distinct letters
//   - vigenere_encrypt/decrypt - key: keyword
//   - hill_encrypt/decrypt - matrix: N×N integers, N in 2..4; filler
//   - playfair_encrypt/decrypt - key: keyword; filler
//   - railfence_encrypt/decrypt - rails
//   - double_railfence_encrypt/decrypt - rails
//   - row_column_encrypt/decrypt - rails (or rows); filler; decrypt needs original_length
//
// Substitution ciphers keep case, spacing and punctuation in place. The
// transposition ciphers, Hill and Playfair work on scrubbed A–Z text.
//
// # Detection
//
// ClassicalDetector ranks transposition, monoalphabetic, polyalphabetic and
// Playfair candidates from the index of coincidence and a chi-squared test
// against English letter frequencies.
//
// # Thread Safety
//
// The operation registry is safe for concurrent use. Operations are
// stateless. RecipeManager uses internal locking.
package cipher
