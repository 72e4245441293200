package curve

import (
	"math"
	"testing"
)

// Toy curve y² = x³ + 2x + 2 over F17, generated by (5, 1) with order 19.
const (
	toyA = 2
	toyB = 2
	toyM = 17
)

func TestDoubleAndAdd(t *testing.T) {
	t.Parallel()
	p := Affine(5, 1)

	doubled, ok := Double(p, toyA, toyM)
	if !ok || doubled != Affine(6, 3) {
		t.Fatalf("Double(P) = %v, %v; want (6, 3)", doubled, ok)
	}
	added, ok := Add(p, p, toyA, toyM)
	if !ok || added != doubled {
		t.Errorf("Add(P, P) = %v, want Double(P) = %v", added, doubled)
	}
	if got, ok := Add(p, Infinity(), toyA, toyM); !ok || got != p {
		t.Errorf("Add(P, ∞) = %v", got)
	}
	if got, ok := Add(Infinity(), p, toyA, toyM); !ok || got != p {
		t.Errorf("Add(∞, P) = %v", got)
	}
	if got, ok := Add(p, Affine(5, 16), toyA, toyM); !ok || !got.IsInfinity() {
		t.Errorf("Add(P, -P) = %v, want ∞", got)
	}
	if got, ok := Add(p, Affine(6, 3), toyA, toyM); !ok || got != Affine(10, 6) {
		t.Errorf("Add(P, 2P) = %v, want (10, 6)", got)
	}
	if got, ok := Double(Infinity(), toyA, toyM); !ok || !got.IsInfinity() {
		t.Errorf("Double(∞) = %v", got)
	}
}

func TestGroupOrder(t *testing.T) {
	t.Parallel()
	g := Affine(5, 1)
	want := []Point{
		Affine(5, 1), Affine(6, 3), Affine(10, 6), Affine(3, 1), Affine(9, 16),
		Affine(16, 13), Affine(0, 6), Affine(13, 7), Affine(7, 6), Affine(7, 11),
		Affine(13, 10), Affine(0, 11), Affine(16, 4), Affine(9, 1), Affine(3, 16),
		Affine(10, 11), Affine(6, 14), Affine(5, 16), Infinity(), Affine(5, 1),
	}
	acc := g
	for i, w := range want {
		if acc != w {
			t.Fatalf("%d·G = %v, want %v", i+1, acc, w)
		}
		if !acc.OnCurve(toyA, toyB, toyM) {
			t.Errorf("%d·G = %v is not on the curve", i+1, acc)
		}
		var ok bool
		acc, ok = Add(acc, g, toyA, toyM)
		if !ok {
			t.Fatalf("Add failed at %d·G", i+2)
		}
	}
}

func TestDegenerateInputs(t *testing.T) {
	t.Parallel()
	p := Affine(5, 1)
	if got, ok := Double(Affine(5, 0), toyA, toyM); !ok || !got.IsInfinity() {
		t.Errorf("Double with y=0 = %v, %v", got, ok)
	}
	if got, ok := Double(p, toyA, 0); !ok || !got.IsInfinity() {
		t.Errorf("Double with zero modulus = %v, %v", got, ok)
	}
	if _, ok := Add(p, p, toyA, 0); ok {
		t.Error("Add with zero modulus must fail")
	}
	if _, ok := Double(p, toyA, 16); ok {
		t.Error("Double must fail when 2y has no inverse")
	}
	if _, ok := Add(Affine(1, 1), Affine(3, 5), toyA, 16); ok {
		t.Error("Add must fail when x2-x1 has no inverse")
	}
	// Near-2^64 moduli exercise the wrapping "+ m" terms.
	got, ok := Add(Affine(1, 2), Affine(3, 4), 0, math.MaxUint64)
	if !ok || got != Affine(math.MaxUint64-4, math.MaxUint64-2) {
		t.Errorf("Add near 2^64 = %v, %v", got, ok)
	}
}

func TestOnCurve(t *testing.T) {
	t.Parallel()
	if !Affine(5, 1).OnCurve(toyA, toyB, toyM) {
		t.Error("(5, 1) must be on the toy curve")
	}
	if Affine(5, 2).OnCurve(toyA, toyB, toyM) {
		t.Error("(5, 2) must not be on the toy curve")
	}
	if !Infinity().OnCurve(toyA, toyB, toyM) {
		t.Error("∞ is on every curve")
	}
	if Affine(0, 0).OnCurve(0, 0, 0) {
		t.Error("zero modulus has no points")
	}
}

func TestPointString(t *testing.T) {
	t.Parallel()
	if got := Affine(3, 4).String(); got != "(3, 4)" {
		t.Errorf("String() = %q", got)
	}
	if got := Infinity().String(); got != "∞" {
		t.Errorf("String() = %q", got)
	}
}
