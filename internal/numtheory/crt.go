package numtheory

import (
	"fmt"
	"math"
)

// CRTResult is the reconstruction of a system x ≡ r_i (mod n_i).
type CRTResult struct {
	// Solution is the least non-negative x satisfying every congruence.
	Solution int `json:"solution"`
	// Modulus is the product of all moduli.
	Modulus int `json:"modulus"`
	// LCM is the modulus the solution is unique under. It equals Modulus
	// when the moduli are pairwise coprime.
	LCM int `json:"lcm"`
	// Warning wraps ErrNonCoprimeModuli when the moduli share factors.
	Warning error `json:"-"`
}

// SolveCRT reconstructs x from its residues.
//
// For pairwise coprime moduli x = Σ r_i * M_i * (M_i⁻¹ mod n_i) mod M with
// M_i = M / n_i. Otherwise the congruences are merged pairwise and the
// result carries a Warning instead of failing; only a system whose
// remainders contradict each other is rejected.
func SolveCRT(moduli, remainders []int) (CRTResult, error) {
	if len(moduli) == 0 {
		return CRTResult{}, fmt.Errorf("%w: at least one congruence is required", ErrMalformedInput)
	}
	if len(moduli) != len(remainders) {
		return CRTResult{}, fmt.Errorf("%w: %d moduli but %d remainders", ErrMalformedInput, len(moduli), len(remainders))
	}

	product := 1
	for i, n := range moduli {
		if n <= 0 {
			return CRTResult{}, fmt.Errorf("%w: modulus %d at index %d must be positive", ErrMalformedInput, n, i)
		}
		if product > math.MaxInt/n {
			return CRTResult{}, fmt.Errorf("%w: modulus product overflows int", ErrMalformedInput)
		}
		product *= n
	}

	if !PairwiseCoprime(moduli) {
		x, lcm, err := combine(moduli, remainders)
		if err != nil {
			return CRTResult{}, err
		}
		return CRTResult{
			Solution: x,
			Modulus:  product,
			LCM:      lcm,
			Warning:  fmt.Errorf("%w: solution is unique modulo %d, not %d", ErrNonCoprimeModuli, lcm, product),
		}, nil
	}

	x := 0
	for i, n := range moduli {
		mi := product / n
		inv, err := ModInverse(mi, n)
		if err != nil {
			return CRTResult{}, err
		}
		term := MulMod(MulMod(remainders[i], mi, product), inv, product)
		x = AddMod(x, term, product)
	}

	return CRTResult{Solution: x, Modulus: product, LCM: product}, nil
}

// PairwiseCoprime reports whether gcd(n_i, n_j) == 1 for every i != j.
func PairwiseCoprime(moduli []int) bool {
	for i := 0; i < len(moduli); i++ {
		for j := i + 1; j < len(moduli); j++ {
			if GCD(moduli[i], moduli[j]) != 1 {
				return false
			}
		}
	}
	return true
}

// combine folds the congruences one at a time: x ≡ a (mod m) and
// x ≡ r (mod n) have a solution iff gcd(m, n) divides r - a.
func combine(moduli, remainders []int) (int, int, error) {
	a, m := Mod(remainders[0], moduli[0]), moduli[0]
	for i := 1; i < len(moduli); i++ {
		n, r := moduli[i], Mod(remainders[i], moduli[i])
		g := GCD(m, n)
		diff := r - a
		if Mod(diff, g) != 0 {
			return 0, 0, fmt.Errorf("%w: x ≡ %d (mod %d) contradicts x ≡ %d (mod %d)", ErrInconsistentSystem, a, m, r, n)
		}
		ng := n / g
		lcm := m * ng
		// m * t ≡ diff (mod n)  =>  t ≡ (diff/g) * (m/g)⁻¹ (mod n/g)
		inv, err := ModInverse(m/g, ng)
		if err != nil {
			return 0, 0, err
		}
		t := MulMod(Mod(diff/g, ng), inv, ng)
		a = AddMod(a, MulMod(m, t, lcm), lcm)
		m = lcm
	}
	return a, m, nil
}
