package geometry

import "github.com/agbru/detmath/internal/sat"

// Rect is an axis-aligned rectangle anchored at its minimum corner.
type Rect struct {
	X, Y, Width, Height uint64
}

// Circle is centered at (CX, CY).
type Circle struct {
	CX, CY, Radius uint64
}

// Triangle is given by its three vertices in any winding order.
type Triangle struct {
	A, B, C Vector
}

// InRect reports whether p lies inside r, edges included. The far edges are
// computed with saturating addition.
func InRect(p Vector, r Rect) bool {
	return p.X >= r.X && p.X <= sat.AddU64(r.X, r.Width) &&
		p.Y >= r.Y && p.Y <= sat.AddU64(r.Y, r.Height)
}

// InCircle reports whether p lies inside c, boundary included. Squares are
// taken on the raw coordinates, without fixed-point renormalization.
func InCircle(p Vector, c Circle) bool {
	dx := absDiff(p.X, c.CX)
	dy := absDiff(p.Y, c.CY)
	dist := sat.AddU64(sat.MulU64(dx, dx), sat.MulU64(dy, dy))
	return dist <= sat.MulU64(c.Radius, c.Radius)
}

// InTriangle reports whether p lies inside t, edges included. Both windings
// are accepted: all three edge cross products must share a sign.
func InTriangle(p Vector, t Triangle) bool {
	c1 := edgeCross(t.A, t.B, p)
	c2 := edgeCross(t.B, t.C, p)
	c3 := edgeCross(t.C, t.A, p)

	allNonNegative := c1 >= 0 && c2 >= 0 && c3 >= 0
	allNonPositive := c1 <= 0 && c2 <= 0 && c3 <= 0
	return allNonNegative || allNonPositive
}

// edgeCross returns (to-from) × (p-from) on int64 reinterpretations.
// Differences wrap; products and the final difference saturate.
func edgeCross(from, to, p Vector) int64 {
	ex := int64(to.X) - int64(from.X)
	ey := int64(to.Y) - int64(from.Y)
	px := int64(p.X) - int64(from.X)
	py := int64(p.Y) - int64(from.Y)
	return sat.SubI64(sat.MulI64(ex, py), sat.MulI64(ey, px))
}
