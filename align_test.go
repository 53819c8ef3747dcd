package bitable

import "testing"

func TestAlign(t *testing.T) {
	cases := []struct {
		n, a, want uint32
	}{
		{0, 8, 0},
		{1, 8, 8},
		{7, 8, 8},
		{8, 8, 8},
		{9, 8, 16},
		{100, 4, 100},
		{101, 4, 104},
	}

	for _, c := range cases {
		if got := align(c.n, c.a); got != c.want {
			t.Errorf("align(%d, %d) = %d, want %d", c.n, c.a, got, c.want)
		}
	}
}

func TestAlignUint64(t *testing.T) {
	if got := alignUint64(4097, 4096); got != 8192 {
		t.Errorf("alignUint64(4097, 4096) = %d, want 8192", got)
	}
	if got := alignUint64(4096, 4096); got != 4096 {
		t.Errorf("alignUint64(4096, 4096) = %d, want 4096", got)
	}
}

func TestIsPowerOfTwo(t *testing.T) {
	for _, n := range []uint32{1, 2, 4, 8, 512, 65536} {
		if !isPowerOfTwo(n) {
			t.Errorf("isPowerOfTwo(%d) = false, want true", n)
		}
	}
	for _, n := range []uint32{0, 3, 5, 6, 100, 768} {
		if isPowerOfTwo(n) {
			t.Errorf("isPowerOfTwo(%d) = true, want false", n)
		}
	}
}
