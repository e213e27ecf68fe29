package testutil

import (
	"math"
	"testing"
)

func TestDeterministicSine(t *testing.T) {
	s := DeterministicSine(1000, 48000, 1.0, 48)
	if len(s) != 48 {
		t.Fatalf("len = %d, want 48", len(s))
	}
	if math.Abs(s[0]) > 1e-15 {
		t.Fatalf("s[0] = %v, want 0", s[0])
	}
	for i, v := range s {
		if v < -1 || v > 1 {
			t.Fatalf("s[%d] = %v out of range", i, v)
		}
	}
}

func TestDeterministicNoise(t *testing.T) {
	a := DeterministicNoise(42, 1.0, 64)
	b := DeterministicNoise(42, 1.0, 64)
	if len(a) != 64 {
		t.Fatalf("len = %d, want 64", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("noise not deterministic at index %d", i)
		}
	}
}

func TestPulseTrain(t *testing.T) {
	p := PulseTrain(100, 1000, 1, 35)
	for i, v := range p {
		want := 0.0
		if i%10 == 0 {
			want = 1
		}
		if v != want {
			t.Fatalf("p[%d] = %v, want %v", i, v, want)
		}
	}
}

func TestVowelFinite(t *testing.T) {
	v := Vowel(200, 16000, 0.5, 512)
	RequireFinite(t, v)
	if len(v) != 512 {
		t.Fatalf("len = %d, want 512", len(v))
	}
}

func TestMatrix(t *testing.T) {
	m := Matrix(3, 4, 0.5)
	if len(m) != 3 {
		t.Fatalf("frames = %d, want 3", len(m))
	}
	for i, row := range m {
		if len(row) != 4 {
			t.Fatalf("row %d len = %d, want 4", i, len(row))
		}
		for k, v := range row {
			if v != 0.5 {
				t.Fatalf("m[%d][%d] = %v, want 0.5", i, k, v)
			}
		}
	}
	m[0][0] = 1
	if m[1][0] != 0.5 {
		t.Fatal("rows share storage")
	}
}

func TestOnes(t *testing.T) {
	o := Ones(3)
	for i, v := range o {
		if v != 1 {
			t.Fatalf("Ones[%d] = %v, want 1", i, v)
		}
	}
}
