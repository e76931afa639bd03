package numtheory

import (
	"errors"
	"testing"
)

func TestSolveCRT(t *testing.T) {
	res, err := SolveCRT([]int{3, 5, 7}, []int{2, 3, 2})
	if err != nil {
		t.Fatalf("SolveCRT failed: %v", err)
	}
	if res.Solution != 23 || res.Modulus != 105 {
		t.Fatalf("expected (23, 105), got (%d, %d)", res.Solution, res.Modulus)
	}
	if res.Warning != nil {
		t.Fatalf("unexpected warning for coprime moduli: %v", res.Warning)
	}
}

func TestSolveCRTSatisfiesEveryCongruence(t *testing.T) {
	tests := []struct {
		name       string
		moduli     []int
		remainders []int
	}{
		{"two moduli", []int{11, 13}, []int{4, 9}},
		{"negative remainder", []int{5, 9}, []int{-1, 7}},
		{"single", []int{17}, []int{40}},
		{"four moduli", []int{7, 11, 13, 17}, []int{1, 2, 3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := SolveCRT(tt.moduli, tt.remainders)
			if err != nil {
				t.Fatalf("SolveCRT failed: %v", err)
			}
			if res.Solution < 0 || res.Solution >= res.Modulus {
				t.Fatalf("solution %d outside [0, %d)", res.Solution, res.Modulus)
			}
			for i, n := range tt.moduli {
				if Mod(res.Solution, n) != Mod(tt.remainders[i], n) {
					t.Errorf("x=%d does not satisfy x ≡ %d (mod %d)", res.Solution, tt.remainders[i], n)
				}
			}
		})
	}
}

func TestSolveCRTNonCoprimeWarns(t *testing.T) {
	res, err := SolveCRT([]int{4, 6}, []int{1, 3})
	if err != nil {
		t.Fatalf("SolveCRT failed: %v", err)
	}
	if !errors.Is(res.Warning, ErrNonCoprimeModuli) {
		t.Fatalf("expected ErrNonCoprimeModuli warning, got %v", res.Warning)
	}
	if res.Solution != 9 {
		t.Errorf("expected solution 9, got %d", res.Solution)
	}
	if res.LCM != 12 || res.Modulus != 24 {
		t.Errorf("expected lcm 12 and modulus 24, got %d and %d", res.LCM, res.Modulus)
	}
}

func TestSolveCRTInconsistent(t *testing.T) {
	_, err := SolveCRT([]int{4, 6}, []int{1, 2})
	if !errors.Is(err, ErrInconsistentSystem) {
		t.Fatalf("expected ErrInconsistentSystem, got %v", err)
	}
	if !errors.Is(err, ErrMalformedInput) {
		t.Fatalf("inconsistent system should also match ErrMalformedInput")
	}
}

func TestSolveCRTRejectsMalformed(t *testing.T) {
	tests := []struct {
		name       string
		moduli     []int
		remainders []int
	}{
		{"empty", nil, nil},
		{"length mismatch", []int{3, 5}, []int{1}},
		{"zero modulus", []int{0, 5}, []int{1, 2}},
		{"negative modulus", []int{-3, 5}, []int{1, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := SolveCRT(tt.moduli, tt.remainders); !errors.Is(err, ErrMalformedInput) {
				t.Fatalf("expected ErrMalformedInput, got %v", err)
			}
		})
	}
}
