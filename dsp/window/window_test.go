package window

import (
	"math"
	"testing"
)

func TestGenerateHannSymmetric(t *testing.T) {
	w := Generate(TypeHann, 5)
	want := []float64{0, 0.5, 1, 0.5, 0}
	for i := range want {
		if math.Abs(w[i]-want[i]) > 1e-12 {
			t.Fatalf("w[%d] = %v, want %v", i, w[i], want[i])
		}
	}
}

func TestGeneratePeriodicOverlapAdd(t *testing.T) {
	// A periodic Hann window summed at hop N/4 yields a constant 2.
	const n = 64
	w := Generate(TypeHann, n, WithPeriodic())
	sum := make([]float64, 4*n)
	for pos := 0; pos+n <= len(sum); pos += n / 4 {
		for i, v := range w {
			sum[pos+i] += v
		}
	}
	for i := n; i < 3*n; i++ {
		if math.Abs(sum[i]-2) > 1e-12 {
			t.Fatalf("sum[%d] = %v, want 2", i, sum[i])
		}
	}
}

func TestGenerateEdgeCases(t *testing.T) {
	if Generate(TypeHann, 0) != nil {
		t.Fatal("expected nil for zero length")
	}
	if w := Generate(TypeBlackman, 1); len(w) != 1 || w[0] != 0 {
		t.Fatalf("Generate(Blackman, 1) = %v, want [0]", w)
	}
	for i, v := range Generate(TypeBlackman, 33) {
		if v < 0 || v > 1 {
			t.Fatalf("blackman[%d] = %v out of range", i, v)
		}
	}
	for i, v := range Generate(TypeRectangular, 8) {
		if v != 1 {
			t.Fatalf("rectangular[%d] = %v, want 1", i, v)
		}
	}
}

func TestApply(t *testing.T) {
	buf := []float64{2, 2, 2, 2, 2}
	Apply(TypeHann, buf)
	if math.Abs(buf[2]-2) > 1e-12 || math.Abs(buf[0]) > 1e-12 {
		t.Fatalf("unexpected windowed buffer: %v", buf)
	}
	Apply(TypeHann, nil)
}

func TestEnergy(t *testing.T) {
	if got := Energy([]float64{1, 2, 2}); got != 9 {
		t.Fatalf("Energy = %v, want 9", got)
	}
	// Periodic Hann energy is 3N/8.
	if got := Energy(Generate(TypeHann, 1024, WithPeriodic())); math.Abs(got-384) > 1e-9 {
		t.Fatalf("Hann energy = %v, want 384", got)
	}
}

func TestTypeString(t *testing.T) {
	if TypeHann.String() != "hann" || Type(42).String() != "Type(42)" {
		t.Fatalf("unexpected names %q %q", TypeHann, Type(42))
	}
}
