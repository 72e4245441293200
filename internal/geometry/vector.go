// Package geometry provides 2-D vector algebra and point-in-shape
// predicates over scale-100 fixed-point coordinates.
package geometry

import (
	"github.com/agbru/detmath/internal/fixedpoint"
	"github.com/agbru/detmath/internal/sat"
	"github.com/agbru/detmath/internal/trig"
)

// Vector is an unsigned fixed-point pair used for positions and magnitudes.
type Vector struct {
	X, Y uint64
}

// SignedVector is a signed fixed-point pair, produced by rotation and reflection.
type SignedVector struct {
	X, Y int64
}

func absDiff(a, b uint64) uint64 {
	if a > b {
		return a - b
	}
	return b - a
}

// SquaredDistance returns the fixed-point squared distance between p and q.
func SquaredDistance(p, q Vector) uint64 {
	dx := absDiff(p.X, q.X)
	dy := absDiff(p.Y, q.Y)
	return sat.AddU64(fixedpoint.Mul(dx, dx), fixedpoint.Mul(dy, dy))
}

// Distance returns the fixed-point distance between p and q.
func Distance(p, q Vector) uint64 {
	return fixedpoint.Sqrt(SquaredDistance(p, q))
}

// Dot returns the fixed-point dot product of u and v.
func Dot(u, v Vector) uint64 {
	return sat.AddU64(fixedpoint.Mul(u.X, v.X), fixedpoint.Mul(u.Y, v.Y))
}

// Magnitude returns the fixed-point length of v.
func Magnitude(v Vector) uint64 {
	return fixedpoint.Sqrt(Dot(v, v))
}

// Cross returns the z component of u × v. Each scaled product is
// reinterpreted as int64 and the difference wraps.
func Cross(u, v Vector) int64 {
	return int64(fixedpoint.Mul(u.X, v.Y)) - int64(fixedpoint.Mul(u.Y, v.X))
}

// ClampMagnitude rescales v to maxLength when its magnitude exceeds it.
func ClampMagnitude(v Vector, maxLength uint64) Vector {
	mag := Magnitude(v)
	if mag <= maxLength {
		return v
	}
	ratio := fixedpoint.Div(maxLength, mag)
	return Vector{X: fixedpoint.Mul(v.X, ratio), Y: fixedpoint.Mul(v.Y, ratio)}
}

// Add returns the saturating component-wise sum.
func Add(u, v Vector) Vector {
	return Vector{X: sat.AddU64(u.X, v.X), Y: sat.AddU64(u.Y, v.Y)}
}

// Sub returns the component-wise difference, clamped at zero.
func Sub(u, v Vector) Vector {
	return Vector{X: sat.SubU64(u.X, v.X), Y: sat.SubU64(u.Y, v.Y)}
}

// Scale multiplies both components by a fixed-point scalar.
func Scale(v Vector, scalar uint64) Vector {
	return Vector{X: fixedpoint.Mul(v.X, scalar), Y: fixedpoint.Mul(v.Y, scalar)}
}

// Normalize returns v divided by its magnitude, or the zero vector when the
// magnitude is zero.
func Normalize(v Vector) Vector {
	mag := Magnitude(v)
	if mag == 0 {
		return Vector{}
	}
	return Vector{X: fixedpoint.Div(v.X, mag), Y: fixedpoint.Div(v.Y, mag)}
}

// Rotate applies the rotation matrix for angle (tenths of a degree) to v.
// Components are reinterpreted as int64; the final sums wrap.
func Rotate(v Vector, angle uint32) SignedVector {
	x, y := int64(v.X), int64(v.Y)
	cos, sin := trig.Cos(angle), trig.Sin(angle)
	return SignedVector{
		X: sat.MulI64(x, cos)/fixedpoint.Scale - sat.MulI64(y, sin)/fixedpoint.Scale,
		Y: sat.MulI64(x, sin)/fixedpoint.Scale + sat.MulI64(y, cos)/fixedpoint.Scale,
	}
}

// Reflect mirrors v across the line with normal n: v - 2(v·n)n.
func Reflect(v, n Vector) SignedVector {
	twoDot := 2 * int64(Dot(v, n))
	return SignedVector{
		X: int64(v.X) - sat.MulI64(int64(n.X), twoDot)/fixedpoint.Scale,
		Y: int64(v.Y) - sat.MulI64(int64(n.Y), twoDot)/fixedpoint.Scale,
	}
}
