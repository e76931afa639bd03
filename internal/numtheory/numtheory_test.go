package numtheory

import (
	"errors"
	"testing"
)

func TestExtendedGCD(t *testing.T) {
	tests := []struct {
		name string
		a, b int
		g    int
	}{
		{"coprime", 3, 26, 1},
		{"shared factor", 240, 46, 2},
		{"zero left", 0, 7, 7},
		{"zero right", 9, 0, 9},
		{"equal", 12, 12, 12},
		{"large", 1071, 462, 21},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, x, y := ExtendedGCD(tt.a, tt.b)
			if g != tt.g {
				t.Fatalf("gcd(%d, %d): expected %d, got %d", tt.a, tt.b, tt.g, g)
			}
			if tt.a*x+tt.b*y != g {
				t.Errorf("bezout identity failed: %d*%d + %d*%d != %d", tt.a, x, tt.b, y, g)
			}
		})
	}
}

func TestGCD(t *testing.T) {
	if got := GCD(-12, 18); got != 6 {
		t.Errorf("expected 6, got %d", got)
	}
	if got := GCD(0, 0); got != 0 {
		t.Errorf("expected 0, got %d", got)
	}
}

func TestModInverse(t *testing.T) {
	inv, err := ModInverse(3, 26)
	if err != nil {
		t.Fatalf("ModInverse(3, 26) failed: %v", err)
	}
	if inv != 9 {
		t.Fatalf("expected 9, got %d", inv)
	}

	if _, err := ModInverse(2, 26); !errors.Is(err, ErrNotInvertible) {
		t.Fatalf("expected ErrNotInvertible, got %v", err)
	}

	if _, err := ModInverse(3, 0); !errors.Is(err, ErrMalformedInput) {
		t.Fatalf("expected ErrMalformedInput for zero modulus, got %v", err)
	}
}

func TestModInverseProperty(t *testing.T) {
	for _, m := range []int{2, 7, 26, 97, 1000} {
		for a := -m; a < 2*m; a++ {
			inv, err := ModInverse(a, m)
			if GCD(a, m) != 1 {
				if !errors.Is(err, ErrNotInvertible) {
					t.Fatalf("ModInverse(%d, %d): expected ErrNotInvertible, got %v", a, m, err)
				}
				continue
			}
			if err != nil {
				t.Fatalf("ModInverse(%d, %d) failed: %v", a, m, err)
			}
			if inv < 0 || inv >= m {
				t.Fatalf("ModInverse(%d, %d) = %d outside [0, %d)", a, m, inv, m)
			}
			if Mod(a*inv, m) != 1 {
				t.Fatalf("ModInverse(%d, %d) = %d is not an inverse", a, m, inv)
			}
		}
	}
}

func TestModExp(t *testing.T) {
	tests := []struct {
		base, exp, mod, want int
	}{
		{2, 10, 1000, 24},
		{5, 0, 13, 1},
		{7, 560, 561, 1},
		{3, 200, 1, 0},
		{-2, 3, 7, 6},
	}
	for _, tt := range tests {
		got, err := ModExp(tt.base, tt.exp, tt.mod)
		if err != nil {
			t.Fatalf("ModExp(%d, %d, %d) failed: %v", tt.base, tt.exp, tt.mod, err)
		}
		if got != tt.want {
			t.Errorf("ModExp(%d, %d, %d): expected %d, got %d", tt.base, tt.exp, tt.mod, tt.want, got)
		}
	}

	if _, err := ModExp(2, -1, 5); !errors.Is(err, ErrMalformedInput) {
		t.Errorf("expected ErrMalformedInput for negative exponent, got %v", err)
	}
}

func TestMulModLargeOperands(t *testing.T) {
	const m = 1<<62 + 57
	a, b := m-1, m-1
	if got := MulMod(a, b, m); got != 1 {
		t.Fatalf("expected (-1)*(-1) mod m == 1, got %d", got)
	}
}
