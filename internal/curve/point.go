// Package curve implements affine point arithmetic on short Weierstrass
// curves y² = x³ + a·x + b over Z/mZ with 64-bit parameters.
//
// Inputs are not validated: points are assumed to lie on the curve and the
// modulus to be prime. Operations report false only when a required modular
// inverse does not exist.
package curve

import (
	"fmt"

	"github.com/agbru/detmath/internal/numtheory"
	"github.com/agbru/detmath/internal/sat"
)

// Point is either the point at infinity or an affine coordinate pair.
// The zero value is the affine point (0, 0).
type Point struct {
	x, y     uint64
	infinity bool
}

// Infinity returns the additive identity.
func Infinity() Point {
	return Point{infinity: true}
}

// Affine returns the finite point (x, y).
func Affine(x, y uint64) Point {
	return Point{x: x, y: y}
}

// IsInfinity reports whether p is the point at infinity.
func (p Point) IsInfinity() bool { return p.infinity }

// XY returns the affine coordinates of p. They are zero for Infinity.
func (p Point) XY() (x, y uint64) { return p.x, p.y }

func (p Point) String() string {
	if p.infinity {
		return "∞"
	}
	return fmt.Sprintf("(%d, %d)", p.x, p.y)
}

// OnCurve reports whether p satisfies y² ≡ x³ + a·x + b (mod m). Infinity is
// always on the curve; a zero modulus never is.
func (p Point) OnCurve(a, b, m uint64) bool {
	if p.infinity {
		return true
	}
	if m == 0 {
		return false
	}
	lhs := numtheory.ModExp(p.y, 2, m)
	x3 := numtheory.ModExp(p.x, 3, m)
	ax := numtheory.MulMod(a, p.x, m)
	rhs := numtheory.AddMod(numtheory.AddMod(x3, ax, m), b%m, m)
	return lhs == rhs
}

// Double returns 2p.
func Double(p Point, a, m uint64) (Point, bool) {
	if p.infinity {
		return p, true
	}
	if p.y == 0 || m == 0 {
		return Infinity(), true
	}
	inv, ok := numtheory.ModInv(2*int64(p.y), int64(m))
	if !ok {
		return Point{}, false
	}
	twoYInv := uint64(inv)

	threeXSq := sat.MulU64(numtheory.ModExp(p.x, 2, m), 3) % m
	lambda := sat.MulU64(sat.AddU64(threeXSq, a)%m, twoYInv) % m
	return chord(lambda, p.x, (2*p.x)%m, p.y, m), true
}

// Add returns p + q.
func Add(p, q Point, a, m uint64) (Point, bool) {
	if m == 0 {
		return Point{}, false
	}
	switch {
	case p.infinity:
		return q, true
	case q.infinity:
		return p, true
	}
	if p.x == q.x {
		if p.y == q.y {
			return Double(p, a, m)
		}
		return Infinity(), true
	}

	xDiff := (q.x + m - p.x) % m
	inv, ok := numtheory.ModInv(int64(xDiff), int64(m))
	if !ok {
		return Point{}, false
	}
	yDiff := (q.y + m - p.y) % m
	lambda := sat.MulU64(yDiff, uint64(inv)) % m
	return chord(lambda, p.x, (p.x+q.x)%m, p.y, m), true
}

// chord completes the addition formula for slope lambda through (x1, y1):
// x3 = λ² - xSum, y3 = λ(x1 - x3) - y1. The "+ m" terms wrap when m is
// close to 2^64.
func chord(lambda, x1, xSum, y1, m uint64) Point {
	lambdaSq := numtheory.ModExp(lambda, 2, m)
	x3 := (lambdaSq + m - xSum) % m
	y3 := (sat.MulU64(lambda, (x1+m-x3)%m)%m + m - y1) % m
	return Affine(x3, y3)
}
