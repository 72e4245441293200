// Package dispatch routes a selector-prefixed call to exactly one engine
// operation and encodes its result.
//
// Call is total: unknown selectors and short call data produce defined
// outputs, and domain errors are carried in the result encoding. The only
// way Call does not return is a *Fault panic, raised when an internal
// invariant is broken.
package dispatch

import (
	"fmt"

	"github.com/agbru/detmath/internal/abi"
	"github.com/agbru/detmath/internal/curve"
	"github.com/agbru/detmath/internal/fixedpoint"
	"github.com/agbru/detmath/internal/geometry"
	"github.com/agbru/detmath/internal/numtheory"
	"github.com/agbru/detmath/internal/prng"
	"github.com/agbru/detmath/internal/trajectory"
	"github.com/agbru/detmath/internal/trig"
)

// Fault reports an internal invariant violation. It is raised with panic
// and is never returned as a value.
type Fault struct {
	Selector Selector
	Reason   string
}

func (f *Fault) Error() string {
	return fmt.Sprintf("dispatch fault in %s: %s", f.Selector, f.Reason)
}

// DefaultResult returns the response to any selector outside the
// enumeration: a single zero word.
func DefaultResult() abi.Word { return abi.Word{} }

// Call decodes the selector from calldata, runs the operation and returns
// its encoded result.
func Call(calldata []byte) []byte {
	cd := abi.Calldata(calldata)
	sel := Selector(cd.Selector())
	out := execute(sel, cd)
	if op, ok := Lookup(sel); ok && len(out) != op.Result.Size() {
		panic(&Fault{Selector: sel, Reason: fmt.Sprintf("result is %d bytes, want %d", len(out), op.Result.Size())})
	}
	return out
}

func vec(cd abi.Calldata, i int) geometry.Vector {
	return geometry.Vector{X: cd.Arg(i).U64(), Y: cd.Arg(i + 1).U64()}
}

func pair(x, y abi.Word) []byte { return abi.Concat(x, y) }

func vectorResult(v geometry.Vector) []byte { return pair(abi.U64(v.X), abi.U64(v.Y)) }

func signedResult(v geometry.SignedVector) []byte { return pair(abi.I64(v.X), abi.I64(v.Y)) }

func word(w abi.Word) []byte { return w[:] }

func execute(sel Selector, cd abi.Calldata) []byte {
	switch sel {
	case ModExp:
		return word(abi.U64(numtheory.ModExp(cd.Arg(0).U64(), cd.Arg(1).U64(), cd.Arg(2).U64())))
	case Square:
		return word(abi.U64(fixedpoint.Square(cd.Arg(0).U64())))
	case SquareRoot:
		return word(abi.U64(fixedpoint.Sqrt(cd.Arg(0).U64())))
	case Mul:
		return word(abi.U64(fixedpoint.Mul(cd.Arg(0).U64(), cd.Arg(1).U64())))
	case Div:
		return word(abi.U64(fixedpoint.Div(cd.Arg(0).U64(), cd.Arg(1).U64())))
	case Lerp:
		return word(abi.U64(fixedpoint.Lerp(cd.Arg(0).U64(), cd.Arg(1).U64(), cd.Arg(2).U64())))
	case Sin:
		return word(abi.I64(trig.Sin(cd.Arg(0).U32())))
	case Cos:
		return word(abi.I64(trig.Cos(cd.Arg(0).U32())))
	case SquaredDist:
		return word(abi.U64(geometry.SquaredDistance(vec(cd, 0), vec(cd, 2))))
	case Distance:
		return word(abi.U64(geometry.Distance(vec(cd, 0), vec(cd, 2))))
	case Dot:
		return word(abi.U64(geometry.Dot(vec(cd, 0), vec(cd, 2))))
	case Magnitude:
		return word(abi.U64(geometry.Magnitude(vec(cd, 0))))
	case Cross:
		return word(abi.I64(geometry.Cross(vec(cd, 0), vec(cd, 2))))
	case Clamp:
		return word(abi.U64(fixedpoint.Clamp(cd.Arg(0).U64(), cd.Arg(1).U64(), cd.Arg(2).U64())))
	case ClampMagnitude:
		return vectorResult(geometry.ClampMagnitude(vec(cd, 0), cd.Arg(2).U64()))
	case InRect:
		r := geometry.Rect{X: cd.Arg(2).U64(), Y: cd.Arg(3).U64(), Width: cd.Arg(4).U64(), Height: cd.Arg(5).U64()}
		return word(abi.Bool(geometry.InRect(vec(cd, 0), r)))
	case InCircle:
		c := geometry.Circle{CX: cd.Arg(2).U64(), CY: cd.Arg(3).U64(), Radius: cd.Arg(4).U64()}
		return word(abi.Bool(geometry.InCircle(vec(cd, 0), c)))
	case VecAdd:
		return vectorResult(geometry.Add(vec(cd, 0), vec(cd, 2)))
	case VecSub:
		return vectorResult(geometry.Sub(vec(cd, 0), vec(cd, 2)))
	case VecScale:
		return vectorResult(geometry.Scale(vec(cd, 0), cd.Arg(2).U64()))
	case Normalize:
		return vectorResult(geometry.Normalize(vec(cd, 0)))
	case Rotate:
		return signedResult(geometry.Rotate(vec(cd, 0), cd.Arg(2).U32()))
	case Reflect:
		return signedResult(geometry.Reflect(vec(cd, 0), vec(cd, 2)))
	case InTriangle:
		t := geometry.Triangle{A: vec(cd, 2), B: vec(cd, 4), C: vec(cd, 6)}
		return word(abi.Bool(geometry.InTriangle(vec(cd, 0), t)))

	case ModInv:
		return abi.OptionI64(numtheory.ModInv(cd.Arg(0).I64(), cd.Arg(1).I64()))
	case IsPrime:
		return word(abi.Bool(numtheory.IsPrime(cd.Arg(0).U64())))
	case GCD:
		return word(abi.U64(numtheory.GCD(cd.Arg(0).U64(), cd.Arg(1).U64())))
	case LCM:
		return word(abi.U64(numtheory.LCM(cd.Arg(0).U64(), cd.Arg(1).U64())))
	case Factorial:
		return abi.OptionU64(numtheory.Factorial(cd.Arg(0).U64()))
	case NChooseK:
		return word(abi.U64(numtheory.NChooseK(cd.Arg(0).U64(), cd.Arg(1).U64())))
	case Log2Floor:
		return abi.OptionU32(numtheory.Log2Floor(cd.Arg(0).U64()))
	case Log10Floor:
		return word(abi.U32(numtheory.Log10Floor(cd.Arg(0).U64())))
	case Popcount:
		return word(abi.U32(numtheory.Popcount(cd.Arg(0).U64())))
	case ReverseBits:
		return word(abi.U64(numtheory.ReverseBits(cd.Arg(0).U64())))
	case Phi:
		return word(abi.U64(numtheory.Phi(cd.Arg(0).U64())))
	case RotateLeft:
		return word(abi.U64(numtheory.RotateLeft(cd.Arg(0).U64(), cd.Arg(1).U32())))
	case RotateRight:
		return word(abi.U64(numtheory.RotateRight(cd.Arg(0).U64(), cd.Arg(1).U32())))
	case ConstTimeEq:
		a, b := cd.Arg(0), cd.Arg(1)
		return word(abi.Bool(numtheory.ConstantTimeEq(a[:], b[:])))
	case CLMul:
		hi, lo := numtheory.CLMul(cd.Arg(0).U64(), cd.Arg(1).U64())
		return pair(abi.U64(hi), abi.U64(lo))
	case XorshiftNext:
		return word(abi.U64(prng.Step(cd.Arg(0).U64())))
	case PointAdd:
		p := abi.DecodePoint(cd.Arg(0), cd.Arg(1))
		q := abi.DecodePoint(cd.Arg(2), cd.Arg(3))
		return abi.OptionPoint(curve.Add(p, q, cd.Arg(4).U64(), cd.Arg(5).U64()))
	case PointDouble:
		p := abi.DecodePoint(cd.Arg(0), cd.Arg(1))
		return abi.OptionPoint(curve.Double(p, cd.Arg(2).U64(), cd.Arg(3).U64()))
	case Trajectory:
		c1, c2 := trajectory.Coefficients(cd.Arg(0).U32(), cd.Arg(1).U64(), cd.Arg(2).U64())
		return pair(abi.I64(c1), abi.I64(c2))

	default:
		return word(DefaultResult())
	}
}
