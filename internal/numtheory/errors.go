package numtheory

import (
	"errors"
	"fmt"
)

var (
	// ErrNotInvertible reports that gcd(a, m) != 1, so no modular inverse exists.
	ErrNotInvertible = errors.New("not invertible")

	// ErrMalformedInput reports input that violates a length, range or shape precondition.
	ErrMalformedInput = errors.New("malformed input")

	// ErrNonCoprimeModuli is a warning: the CRT system was solved but the moduli
	// share factors, so the solution is only unique modulo their lcm.
	ErrNonCoprimeModuli = errors.New("moduli are not pairwise coprime")

	// ErrInconsistentSystem reports congruences with non-coprime moduli whose
	// remainders disagree on a shared factor.
	ErrInconsistentSystem = fmt.Errorf("%w: congruences have no common solution", ErrMalformedInput)
)
