package main

import (
	"math"

	"github.com/agbru/detmath/internal/abi"
	"github.com/agbru/detmath/internal/dispatch"
)

type vector struct {
	name     string
	calldata abi.Calldata
}

const max64 = math.MaxUint64

func op(name string, sel dispatch.Selector, args ...uint64) vector {
	words := make([]abi.Word, len(args))
	for i, a := range args {
		words[i] = abi.U64(a)
	}
	return vector{name, abi.Encode(uint32(sel), words...)}
}

func opWords(name string, sel dispatch.Selector, args ...abi.Word) vector {
	return vector{name, abi.Encode(uint32(sel), args...)}
}

func raw(name string, b ...byte) vector { return vector{name, abi.Calldata(b)} }

// taggedWord places 0xdeadbeef in the high bytes above a small payload.
func taggedWord(low byte) abi.Word {
	w := abi.U64(uint64(low))
	copy(w[3:7], []byte{0xde, 0xad, 0xbe, 0xef})
	return w
}

func vectors() []vector {
	highBit := abi.U64(7)
	highBit[0] = 0x80
	dirty := abi.U64(150)
	dirty[0] = 0xff

	return []vector{
		op("modexp small", dispatch.ModExp, 4, 13, 497),
		op("modexp 1e9+7", dispatch.ModExp, 3, 200, 1000000007),
		op("modexp modulus one", dispatch.ModExp, 5, 3, 1),
		op("modexp modulus zero", dispatch.ModExp, 5, 3, 0),
		op("modexp near max", dispatch.ModExp, max64, max64, max64-58),
		op("square", dispatch.Square, 150),
		op("square saturates", dispatch.Square, max64),
		op("sqrt", dispatch.SquareRoot, 225),
		op("sqrt of two", dispatch.SquareRoot, 2),
		op("sqrt saturated", dispatch.SquareRoot, max64),
		op("mul", dispatch.Mul, 150, 250),
		op("div", dispatch.Div, 150, 250),
		op("div by zero", dispatch.Div, 42, 0),
		op("lerp", dispatch.Lerp, 100, 200, 50),
		op("lerp reverse clamped t", dispatch.Lerp, 200, 100, 1000),
		op("sin 30", dispatch.Sin, 300),
		op("sin 225", dispatch.Sin, 2250),
		op("cos 0", dispatch.Cos, 0),
		op("cos wraps", dispatch.Cos, 0xffffffff),
		op("squared distance", dispatch.SquaredDist, 0, 0, 300, 400),
		op("distance", dispatch.Distance, 0, 0, 300, 400),
		op("dot", dispatch.Dot, 100, 200, 300, 400),
		op("magnitude", dispatch.Magnitude, 300, 400),
		op("cross positive", dispatch.Cross, 100, 0, 0, 100),
		op("cross negative", dispatch.Cross, 0, 100, 100, 0),
		op("clamp", dispatch.Clamp, 5, 10, 20),
		op("clamp inverted", dispatch.Clamp, 15, 20, 10),
		op("clamp magnitude", dispatch.ClampMagnitude, 300, 400, 250),
		op("in rect edge", dispatch.InRect, 10, 10, 10, 10, 0, 0),
		op("in rect outside", dispatch.InRect, 9, 10, 10, 10, 5, 5),
		op("in circle boundary", dispatch.InCircle, 3, 4, 0, 0, 5),
		op("in circle outside", dispatch.InCircle, 3, 5, 0, 0, 5),
		op("vec add saturates", dispatch.VecAdd, max64, 0, 1, 5),
		op("vec sub clamps", dispatch.VecSub, 1, 1, 300, 400),
		op("vec scale", dispatch.VecScale, 300, 400, 200),
		op("normalize", dispatch.Normalize, 300, 400),
		op("normalize zero", dispatch.Normalize, 0, 0),
		op("rotate quarter", dispatch.Rotate, 100, 0, 900),
		op("rotate half", dispatch.Rotate, 100, 200, 1800),
		op("reflect", dispatch.Reflect, 100, 100, 0, 100),
		op("in triangle centroid", dispatch.InTriangle, 333, 333, 0, 0, 1000, 0, 0, 1000),
		op("in triangle far", dispatch.InTriangle, 5000, 5000, 0, 0, 1000, 0, 0, 1000),
		op("in triangle clockwise", dispatch.InTriangle, 333, 333, 0, 0, 0, 1000, 1000, 0),
		op("modinv", dispatch.ModInv, 3, 11),
		op("modinv none", dispatch.ModInv, 2, 4),
		opWords("modinv negative modulus", dispatch.ModInv, abi.I64(3), abi.I64(-11)),
		op("modinv zero modulus", dispatch.ModInv, 5, 0),
		op("is prime 97", dispatch.IsPrime, 97),
		op("is prime 100", dispatch.IsPrime, 100),
		op("is prime 2", dispatch.IsPrime, 2),
		op("is prime 1", dispatch.IsPrime, 1),
		op("is prime near max", dispatch.IsPrime, max64-58),
		op("is prime strong pseudoprime", dispatch.IsPrime, 3215031751),
		op("gcd", dispatch.GCD, 48, 18),
		op("gcd zero", dispatch.GCD, 42, 0),
		op("lcm", dispatch.LCM, 4, 6),
		op("lcm zero", dispatch.LCM, 0, 5),
		op("factorial 20", dispatch.Factorial, 20),
		op("factorial 21", dispatch.Factorial, 21),
		op("choose", dispatch.NChooseK, 5, 2),
		op("choose k above n", dispatch.NChooseK, 3, 5),
		op("choose 62 31", dispatch.NChooseK, 62, 31),
		op("log2 zero", dispatch.Log2Floor, 0),
		op("log2 max", dispatch.Log2Floor, max64),
		op("log10", dispatch.Log10Floor, 12345),
		op("popcount", dispatch.Popcount, max64),
		op("reverse bits", dispatch.ReverseBits, 1),
		op("phi", dispatch.Phi, 36),
		op("phi prime", dispatch.Phi, 1000000007),
		op("rotl", dispatch.RotateLeft, 0x8000000000000001, 1),
		op("rotr", dispatch.RotateRight, 1, 1),
		op("rotl mod 64", dispatch.RotateLeft, 1, 65),
		opWords("ct eq equal", dispatch.ConstTimeEq, taggedWord(7), taggedWord(7)),
		opWords("ct eq high byte differs", dispatch.ConstTimeEq, highBit, abi.U64(7)),
		op("clmul", dispatch.CLMul, 5, 6),
		op("clmul max", dispatch.CLMul, max64, max64),
		op("xorshift zero seed", dispatch.XorshiftNext, 0),
		op("xorshift 42", dispatch.XorshiftNext, 42),
		op("point add", dispatch.PointAdd, 5, 1, 6, 3, 2, 17),
		op("point add identity", dispatch.PointAdd, 5, 1, max64, max64, 2, 17),
		op("point add inverse", dispatch.PointAdd, 5, 1, 5, 16, 2, 17),
		op("point add zero modulus", dispatch.PointAdd, 5, 1, 6, 3, 2, 0),
		op("point add no inverse", dispatch.PointAdd, 1, 1, 3, 5, 2, 16),
		op("point double", dispatch.PointDouble, 5, 1, 2, 17),
		op("point double infinity", dispatch.PointDouble, max64, max64, 2, 17),
		op("point double y zero", dispatch.PointDouble, 5, 0, 2, 17),
		op("trajectory 45", dispatch.Trajectory, 450, 1000, 981),
		op("trajectory vertical", dispatch.Trajectory, 900, 10, 10),
		op("trajectory zero velocity", dispatch.Trajectory, 0, 0, 5),

		raw("unknown selector 0xff", 0, 0, 0, 0xff),
		vector{"selector zero", abi.Encode(0, abi.U64(5))},
		raw("selector 0x2c", 0, 0, 0, 0x2c),
		raw("empty calldata"),
		op("modexp missing arguments", dispatch.ModExp, 4),
		opWords("square dirty high bytes", dispatch.Square, dirty),
	}
}
