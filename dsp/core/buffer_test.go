package core

import "testing"

func TestEnsureLenReuse(t *testing.T) {
	buf := make([]float64, 4, 8)

	out := EnsureLen(buf, 6)
	if len(out) != 6 {
		t.Fatalf("len = %d, want 6", len(out))
	}

	if cap(out) != cap(buf) {
		t.Fatalf("cap = %d, want %d", cap(out), cap(buf))
	}
}

func TestCopyInto(t *testing.T) {
	dst := make([]float64, 2)

	n := CopyInto(dst, []float64{1, 2, 3})
	if n != 2 {
		t.Fatalf("n = %d, want 2", n)
	}

	if dst[0] != 1 || dst[1] != 2 {
		t.Fatalf("unexpected dst: %#v", dst)
	}
}

func TestZero(t *testing.T) {
	buf := []float64{1, 2, 3}
	Zero(buf)

	for i, v := range buf {
		if v != 0 {
			t.Fatalf("buf[%d] = %v, want 0", i, v)
		}
	}
}

func TestFitLength(t *testing.T) {
	tests := []struct {
		name     string
		src      []float64
		n        int
		holdLast bool
		want     []float64
	}{
		{name: "truncate", src: []float64{1, 2, 3, 4}, n: 2, want: []float64{1, 2}},
		{name: "exact", src: []float64{1, 2}, n: 2, want: []float64{1, 2}},
		{name: "zero pad", src: []float64{1, 2}, n: 4, want: []float64{1, 2, 0, 0}},
		{name: "hold last", src: []float64{1, 2}, n: 4, holdLast: true, want: []float64{1, 2, 2, 2}},
		{name: "hold empty", src: nil, n: 3, holdLast: true, want: []float64{0, 0, 0}},
		{name: "zero length", src: []float64{1}, n: 0, want: []float64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FitLength(tt.src, tt.n, tt.holdLast)
			if len(got) != len(tt.want) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestFitLengthDoesNotAlias(t *testing.T) {
	src := []float64{1, 2, 3}
	out := FitLength(src, 3, false)
	out[0] = 9

	if src[0] != 1 {
		t.Fatalf("src[0] = %v, want 1 (output aliases input)", src[0])
	}
}
