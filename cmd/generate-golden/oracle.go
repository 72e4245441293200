package main

import (
	"fmt"
	"math/big"
	"math/bits"

	"github.com/agbru/detmath/internal/abi"
	"github.com/agbru/detmath/internal/dispatch"
)

var (
	maxU64  = new(big.Int).SetUint64(^uint64(0))
	hundred = big.NewInt(100)
)

func bigOf(v uint64) *big.Int { return new(big.Int).SetUint64(v) }

// saturate clamps x to the uint64 range.
func saturate(x *big.Int) uint64 {
	if x.Cmp(maxU64) > 0 {
		return ^uint64(0)
	}
	return x.Uint64()
}

// oracle recomputes the first result word of cd with math/big. It reports
// false for operations it does not model.
func oracle(cd abi.Calldata) (uint64, bool) {
	arg := func(i int) uint64 { return cd.Arg(i).U64() }
	sel := dispatch.Selector(cd.Selector())
	switch sel {
	case dispatch.ModExp:
		if arg(2) < 2 {
			return 0, true
		}
		return new(big.Int).Exp(bigOf(arg(0)), bigOf(arg(1)), bigOf(arg(2))).Uint64(), true
	case dispatch.Mul, dispatch.Square:
		b := arg(1)
		if sel == dispatch.Square {
			b = arg(0)
		}
		p := bigOf(saturate(new(big.Int).Mul(bigOf(arg(0)), bigOf(b))))
		return p.Div(p, hundred).Uint64(), true
	case dispatch.Div:
		if arg(1) == 0 {
			return 0, true
		}
		p := bigOf(saturate(new(big.Int).Mul(bigOf(arg(0)), hundred)))
		return p.Div(p, bigOf(arg(1))).Uint64(), true
	case dispatch.SquareRoot:
		s := bigOf(saturate(new(big.Int).Mul(bigOf(arg(0)), hundred)))
		return s.Sqrt(s).Uint64(), true
	case dispatch.GCD:
		return new(big.Int).GCD(nil, nil, bigOf(arg(0)), bigOf(arg(1))).Uint64(), true
	case dispatch.LCM:
		if arg(0) == 0 || arg(1) == 0 {
			return 0, true
		}
		g := new(big.Int).GCD(nil, nil, bigOf(arg(0)), bigOf(arg(1)))
		l := new(big.Int).Mul(bigOf(arg(0)), bigOf(arg(1)))
		return saturate(l.Div(l, g)), true
	case dispatch.IsPrime:
		if bigOf(arg(0)).ProbablyPrime(0) {
			return 1, true
		}
		return 0, true
	case dispatch.Popcount:
		return uint64(bits.OnesCount64(arg(0))), true
	case dispatch.ReverseBits:
		return bits.Reverse64(arg(0)), true
	case dispatch.RotateLeft:
		return bits.RotateLeft64(arg(0), int(cd.Arg(1).U32()%64)), true
	case dispatch.RotateRight:
		return bits.RotateLeft64(arg(0), -int(cd.Arg(1).U32()%64)), true
	case dispatch.CLMul:
		a, b := bigOf(arg(0)), arg(1)
		acc := new(big.Int)
		for i := 0; i < 64; i++ {
			if b>>i&1 == 1 {
				acc.Xor(acc, new(big.Int).Lsh(a, uint(i)))
			}
		}
		return new(big.Int).Rsh(acc, 64).Uint64(), true
	}
	return 0, false
}

// verify cross-checks a dispatched result against the oracle.
func verify(v vector, out []byte) error {
	want, ok := oracle(v.calldata)
	if !ok {
		return nil
	}
	words, err := abi.Split(out)
	if err != nil {
		return err
	}
	if got := words[0].U64(); got != want {
		return fmt.Errorf("%s: dispatch returned %d, oracle %d", v.name, got, want)
	}
	return nil
}
