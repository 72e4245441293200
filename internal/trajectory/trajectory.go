// Package trajectory derives the coefficients of a projectile's path
// y = c1·x + c2·x² in scale-100 fixed point.
package trajectory

import (
	"math"

	"github.com/agbru/detmath/internal/fixedpoint"
	"github.com/agbru/detmath/internal/sat"
	"github.com/agbru/detmath/internal/trig"
)

// Vertical is the c1 sentinel for a launch with zero cosine. c2 is 0 then.
const Vertical = math.MaxInt64

// Degenerate is the c2 sentinel when the denominator 2·v0²·cos² is zero.
const Degenerate = math.MinInt64

// Coefficients returns c1 = tan(angle) and c2 = -g / (2·v0²·cos²(angle)).
// angle is in tenths of a degree; v0 and g are fixed-point.
func Coefficients(angle uint32, v0, g uint64) (c1, c2 int64) {
	sin := trig.Sin(angle)
	cos := trig.Cos(angle)

	if cos == 0 {
		return Vertical, 0
	}
	c1 = fixedpoint.DivSigned(sin, cos)
	if c1 == Vertical {
		return c1, 0
	}

	v0Sq := fixedpoint.Square(v0)
	cosSq := fixedpoint.SquareSigned(cos)
	den := sat.MulI64(fixedpoint.MulSigned(int64(v0Sq), cosSq), 2)
	if den == 0 {
		return c1, Degenerate
	}
	return c1, fixedpoint.DivSigned(-int64(g), den)
}
