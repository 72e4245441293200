package dispatch

import (
	"sort"

	"github.com/agbru/detmath/internal/abi"
)

// Shape is the word layout of an operation's result.
type Shape int

const (
	// ShapeWord is a single word.
	ShapeWord Shape = iota
	// ShapePair is two words: x then y, or c1 then c2, or hi then lo.
	ShapePair
	// ShapeOption is a presence word followed by a payload word.
	ShapeOption
	// ShapePoint is a presence word followed by x and y coordinate words.
	ShapePoint
)

// Words returns the number of result words for the shape.
func (s Shape) Words() int {
	switch s {
	case ShapePair, ShapeOption:
		return 2
	case ShapePoint:
		return 3
	default:
		return 1
	}
}

func (s Shape) String() string {
	switch s {
	case ShapeWord:
		return "word"
	case ShapePair:
		return "pair"
	case ShapeOption:
		return "option"
	case ShapePoint:
		return "point"
	default:
		return "unknown"
	}
}

// Param describes one argument word. Fixed marks scale-100 fixed-point
// values.
type Param struct {
	Name  string
	Kind  abi.Kind
	Fixed bool
}

// Result describes the output encoding. Kind is the payload kind of each
// value word.
type Result struct {
	Shape Shape
	Kind  abi.Kind
	Fixed bool
}

// Size returns the result length in bytes.
func (r Result) Size() int { return r.Shape.Words() * abi.WordSize }

// Operation is one entry of the selector table.
type Operation struct {
	Selector Selector
	Name     string
	Summary  string
	Params   []Param
	Result   Result
}

func u64(name string) Param   { return Param{Name: name, Kind: abi.KindU64} }
func i64(name string) Param   { return Param{Name: name, Kind: abi.KindI64} }
func u32(name string) Param   { return Param{Name: name, Kind: abi.KindU32} }
func fixed(name string) Param { return Param{Name: name, Kind: abi.KindU64, Fixed: true} }
func raw(name string) Param   { return Param{Name: name, Kind: abi.KindWord} }

var (
	wordU64   = Result{Shape: ShapeWord, Kind: abi.KindU64}
	wordU32   = Result{Shape: ShapeWord, Kind: abi.KindU32}
	wordBool  = Result{Shape: ShapeWord, Kind: abi.KindBool}
	fixedU64  = Result{Shape: ShapeWord, Kind: abi.KindU64, Fixed: true}
	fixedI64  = Result{Shape: ShapeWord, Kind: abi.KindI64, Fixed: true}
	fixedPair = Result{Shape: ShapePair, Kind: abi.KindU64, Fixed: true}
	signedVec = Result{Shape: ShapePair, Kind: abi.KindI64, Fixed: true}
	optPoint  = Result{Shape: ShapePoint, Kind: abi.KindU64}
)

var operations = []Operation{
	{ModExp, "modexp", "base^exp mod m", []Param{u64("base"), u64("exp"), u64("m")}, wordU64},
	{Square, "square", "n² (fixed-point)", []Param{fixed("n")}, fixedU64},
	{SquareRoot, "sqrt", "square root (fixed-point)", []Param{fixed("n")}, fixedU64},
	{Mul, "mul", "a·b (fixed-point)", []Param{fixed("a"), fixed("b")}, fixedU64},
	{Div, "div", "a/b (fixed-point), 0 when b = 0", []Param{fixed("a"), fixed("b")}, fixedU64},
	{Lerp, "lerp", "interpolate start→end by t percent", []Param{fixed("start"), fixed("end"), u64("t")}, fixedU64},
	{Sin, "sin", "sine of angle in tenths of a degree", []Param{u32("angle")}, fixedI64},
	{Cos, "cos", "cosine of angle in tenths of a degree", []Param{u32("angle")}, fixedI64},
	{SquaredDist, "sq-distance", "squared distance between two points", []Param{fixed("x1"), fixed("y1"), fixed("x2"), fixed("y2")}, fixedU64},
	{Distance, "distance", "distance between two points", []Param{fixed("x1"), fixed("y1"), fixed("x2"), fixed("y2")}, fixedU64},
	{Dot, "dot", "dot product", []Param{fixed("x1"), fixed("y1"), fixed("x2"), fixed("y2")}, fixedU64},
	{Magnitude, "magnitude", "vector length", []Param{fixed("x"), fixed("y")}, fixedU64},
	{Cross, "cross", "z component of the cross product", []Param{fixed("x1"), fixed("y1"), fixed("x2"), fixed("y2")}, fixedI64},
	{Clamp, "clamp", "bound value to [min, max]", []Param{fixed("value"), fixed("min"), fixed("max")}, fixedU64},
	{ClampMagnitude, "clamp-magnitude", "shorten a vector to max length", []Param{fixed("x"), fixed("y"), fixed("max")}, fixedPair},
	{InRect, "in-rect", "point inside rectangle", []Param{fixed("px"), fixed("py"), fixed("x"), fixed("y"), fixed("width"), fixed("height")}, wordBool},
	{InCircle, "in-circle", "point inside circle", []Param{fixed("px"), fixed("py"), fixed("cx"), fixed("cy"), fixed("radius")}, wordBool},
	{VecAdd, "vec-add", "component-wise sum", []Param{fixed("x1"), fixed("y1"), fixed("x2"), fixed("y2")}, fixedPair},
	{VecSub, "vec-sub", "component-wise difference, clamped at zero", []Param{fixed("x1"), fixed("y1"), fixed("x2"), fixed("y2")}, fixedPair},
	{VecScale, "vec-scale", "scale a vector", []Param{fixed("x"), fixed("y"), fixed("scalar")}, fixedPair},
	{Normalize, "normalize", "unit vector", []Param{fixed("x"), fixed("y")}, fixedPair},
	{Rotate, "rotate", "rotate by angle in tenths of a degree", []Param{fixed("x"), fixed("y"), u32("angle")}, signedVec},
	{Reflect, "reflect", "reflect across a normal", []Param{fixed("x"), fixed("y"), fixed("nx"), fixed("ny")}, signedVec},
	{InTriangle, "in-triangle", "point inside triangle", []Param{fixed("px"), fixed("py"), fixed("ax"), fixed("ay"), fixed("bx"), fixed("by"), fixed("cx"), fixed("cy")}, wordBool},
	{ModInv, "modinv", "inverse of a mod m", []Param{i64("a"), i64("m")}, Result{Shape: ShapeOption, Kind: abi.KindI64}},
	{IsPrime, "is-prime", "deterministic Miller–Rabin", []Param{u64("n")}, wordBool},
	{GCD, "gcd", "greatest common divisor", []Param{u64("a"), u64("b")}, wordU64},
	{LCM, "lcm", "least common multiple", []Param{u64("a"), u64("b")}, wordU64},
	{Factorial, "factorial", "n!, absent for n > 20", []Param{u64("n")}, Result{Shape: ShapeOption, Kind: abi.KindU64}},
	{NChooseK, "choose", "binomial coefficient", []Param{u64("n"), u64("k")}, wordU64},
	{Log2Floor, "log2", "floor(log2 n), absent for 0", []Param{u64("n")}, Result{Shape: ShapeOption, Kind: abi.KindU32}},
	{Log10Floor, "log10", "floor(log10 n)", []Param{u64("n")}, wordU32},
	{Popcount, "popcount", "number of set bits", []Param{u64("n")}, wordU32},
	{ReverseBits, "reverse-bits", "bit-reverse", []Param{u64("n")}, wordU64},
	{Phi, "phi", "Euler's totient", []Param{u64("n")}, wordU64},
	{RotateLeft, "rotl", "rotate left", []Param{u64("n"), u32("k")}, wordU64},
	{RotateRight, "rotr", "rotate right", []Param{u64("n"), u32("k")}, wordU64},
	{ConstTimeEq, "ct-eq", "constant-time equality of two words", []Param{raw("a"), raw("b")}, wordBool},
	{CLMul, "clmul", "carry-less product (hi, lo)", []Param{u64("a"), u64("b")}, Result{Shape: ShapePair, Kind: abi.KindU64}},
	{XorshiftNext, "xorshift", "first xorshift*64 output for seed", []Param{u64("seed")}, wordU64},
	{PointAdd, "point-add", "elliptic-curve addition", []Param{u64("x1"), u64("y1"), u64("x2"), u64("y2"), u64("a"), u64("m")}, optPoint},
	{PointDouble, "point-double", "elliptic-curve doubling", []Param{u64("x"), u64("y"), u64("a"), u64("m")}, optPoint},
	{Trajectory, "trajectory", "projectile coefficients (c1, c2)", []Param{u32("angle"), fixed("v0"), fixed("g")}, Result{Shape: ShapePair, Kind: abi.KindI64, Fixed: true}},
}

var (
	bySelector = make(map[Selector]Operation, len(operations))
	byName     = make(map[string]Operation, len(operations))
)

func init() {
	for _, op := range operations {
		bySelector[op.Selector] = op
		byName[op.Name] = op
	}
}

// Operations returns the selector table ordered by selector.
func Operations() []Operation {
	out := make([]Operation, len(operations))
	copy(out, operations)
	sort.Slice(out, func(i, j int) bool { return out[i].Selector < out[j].Selector })
	return out
}

// Lookup returns the operation for a selector.
func Lookup(s Selector) (Operation, bool) {
	op, ok := bySelector[s]
	return op, ok
}

// ByName returns the operation with the given name.
func ByName(name string) (Operation, bool) {
	op, ok := byName[name]
	return op, ok
}

// Names returns every operation name ordered by selector.
func Names() []string {
	ops := Operations()
	names := make([]string, len(ops))
	for i, op := range ops {
		names[i] = op.Name
	}
	return names
}
