package trig

import "testing"

func TestSinCos(t *testing.T) {
	t.Parallel()
	tests := []struct {
		angle    uint32
		sin, cos int64
	}{
		{0, 0, 100},
		{5, 0, 100},
		{300, 50, 86},
		{450, 70, 70},
		{600, 86, 50},
		{900, 100, 0},
		{905, 100, 0},
		{1350, 70, -70},
		{1800, 0, -100},
		{2250, -70, -70},
		{2700, -100, 0},
		{3150, -70, 70},
		{3599, -1, 99},
		{3600, 0, 100},
		{3900, 50, 86},
		{0xFFFFFFFF, 19, 99},
		{0xFFFFFFFF - 899, 98, 0},
	}
	for _, tt := range tests {
		if got := Sin(tt.angle); got != tt.sin {
			t.Errorf("Sin(%d) = %d, want %d", tt.angle, got, tt.sin)
		}
		if got := Cos(tt.angle); got != tt.cos {
			t.Errorf("Cos(%d) = %d, want %d", tt.angle, got, tt.cos)
		}
	}
}

func TestSinSymmetry(t *testing.T) {
	t.Parallel()
	for a := uint32(0); a < FullTurn; a++ {
		s := Sin(a)
		if s < -100 || s > 100 {
			t.Fatalf("Sin(%d) = %d out of range", a, s)
		}
		if a%10 == 0 && a <= 1800 {
			// sin(180 - x) = sin(x) for whole degrees.
			if mirror := Sin(1800 - a); mirror != s {
				t.Errorf("Sin(%d) = %d but Sin(%d) = %d", a, s, 1800-a, mirror)
			}
		}
		if a < 1800 && Sin(a+1800) != -s {
			t.Errorf("Sin(%d) != -Sin(%d)", a+1800, a)
		}
	}
}
