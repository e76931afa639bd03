// Package substitution implements the classical substitution ciphers:
//
//   - Monoalphabetic: a fixed permutation of the alphabet.
//   - Vigenere: a repeating keyword shifts each letter by the aligned key letter.
//   - Hill: blocks of N letters are multiplied by an invertible N×N key matrix mod 26.
//
// Monoalphabetic and Vigenere keep non-letters in place and emit letters in
// uppercase. Hill strips non-letters and pads the final block.
//
// Keys are validated once by the constructors and are immutable afterwards,
// so a cipher value may be shared between goroutines.
package substitution
