package dispatch

import "fmt"

// Selector identifies an operation. Valid selectors form the closed range
// 0x01 through 0x2B; every other value takes the default response.
type Selector uint32

// Fixed-point and geometry operations.
const (
	ModExp         Selector = 0x01
	Square         Selector = 0x02
	SquareRoot     Selector = 0x03
	Mul            Selector = 0x04
	Div            Selector = 0x05
	Lerp           Selector = 0x06
	Sin            Selector = 0x07
	Cos            Selector = 0x08
	SquaredDist    Selector = 0x09
	Distance       Selector = 0x0A
	Dot            Selector = 0x0B
	Magnitude      Selector = 0x0C
	Cross          Selector = 0x0D
	Clamp          Selector = 0x0E
	ClampMagnitude Selector = 0x0F
	InRect         Selector = 0x10
	InCircle       Selector = 0x11
	VecAdd         Selector = 0x12
	VecSub         Selector = 0x13
	VecScale       Selector = 0x14
	Normalize      Selector = 0x15
	Rotate         Selector = 0x16
	Reflect        Selector = 0x17
	InTriangle     Selector = 0x18
)

// Number-theory, crypto and trajectory operations.
const (
	ModInv       Selector = 0x19
	IsPrime      Selector = 0x1A
	GCD          Selector = 0x1B
	LCM          Selector = 0x1C
	Factorial    Selector = 0x1D
	NChooseK     Selector = 0x1E
	Log2Floor    Selector = 0x1F
	Log10Floor   Selector = 0x20
	Popcount     Selector = 0x21
	ReverseBits  Selector = 0x22
	Phi          Selector = 0x23
	RotateLeft   Selector = 0x24
	RotateRight  Selector = 0x25
	ConstTimeEq  Selector = 0x26
	CLMul        Selector = 0x27
	XorshiftNext Selector = 0x28
	PointAdd     Selector = 0x29
	PointDouble  Selector = 0x2A
	Trajectory   Selector = 0x2B
)

// Bounds of the selector enumeration.
const (
	MinSelector = ModExp
	MaxSelector = Trajectory
)

// Valid reports whether s names an operation.
func (s Selector) Valid() bool {
	return s >= MinSelector && s <= MaxSelector
}

func (s Selector) String() string {
	if op, ok := Lookup(s); ok {
		return op.Name
	}
	return fmt.Sprintf("Selector(%#x)", uint32(s))
}
