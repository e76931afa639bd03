// Package numtheory implements the integer arithmetic shared by the classical
// ciphers: Euclid's algorithm, modular inverses, modular exponentiation and
// Chinese remainder reconstruction.
//
// All functions are pure and safe for concurrent use.
package numtheory

import (
	"fmt"
	"math/bits"
)

// GCD returns the greatest common divisor of a and b. The result is never negative.
func GCD(a, b int) int {
	a, b = abs(a), abs(b)
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// ExtendedGCD solves Bézout's identity a*x + b*y = g where g = gcd(a, b).
//
// The recursion follows the Euclidean remainder sequence with the base case
// a == 0 returning (b, 0, 1). Inputs are expected to be non-negative; callers
// normalise signs before calling.
func ExtendedGCD(a, b int) (g, x, y int) {
	if a == 0 {
		return b, 0, 1
	}
	g, x1, y1 := ExtendedGCD(b%a, a)
	return g, y1 - (b/a)*x1, x1
}

// Mod reduces a into [0, m). m must be positive.
func Mod(a, m int) int {
	r := a % m
	if r < 0 {
		r += m
	}
	return r
}

// ModInverse returns x in [0, m) such that (a*x) mod m == 1.
func ModInverse(a, m int) (int, error) {
	if m <= 0 {
		return 0, fmt.Errorf("%w: modulus must be positive, got %d", ErrMalformedInput, m)
	}
	g, x, _ := ExtendedGCD(Mod(a, m), m)
	if g != 1 {
		return 0, fmt.Errorf("%w: gcd(%d, %d) = %d", ErrNotInvertible, a, m, g)
	}
	return Mod(x, m), nil
}

// MulMod returns (a*b) mod m without overflowing for any int operands.
func MulMod(a, b, m int) int {
	a, b = Mod(a, m), Mod(b, m)
	hi, lo := bits.Mul64(uint64(a), uint64(b))
	return int(bits.Rem64(hi, lo, uint64(m)))
}

// AddMod returns (a+b) mod m for a, b already reduced into [0, m).
func AddMod(a, b, m int) int {
	if b >= m-a {
		return b - (m - a)
	}
	return a + b
}

// ModExp returns base^exp mod m by square-and-multiply. exp must be non-negative.
func ModExp(base, exp, m int) (int, error) {
	if m <= 0 {
		return 0, fmt.Errorf("%w: modulus must be positive, got %d", ErrMalformedInput, m)
	}
	if exp < 0 {
		return 0, fmt.Errorf("%w: negative exponent %d", ErrMalformedInput, exp)
	}
	result := Mod(1, m)
	b := Mod(base, m)
	for exp > 0 {
		if exp&1 == 1 {
			result = MulMod(result, b, m)
		}
		b = MulMod(b, b, m)
		exp >>= 1
	}
	return result, nil
}

func abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}
