package number

import (
	"math/big"

	"github.com/shopspring/decimal"
)

var (
	// WAD 1e18 fixed point unit
	WAD = decimal.New(1, 18)
	// MaxUint128 largest value a stored field can hold
	MaxUint128 = decimal.NewFromBigInt(new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1)), 0)

	two   = decimal.NewFromInt(2)
	three = decimal.NewFromInt(3)
)

func Decimal(v string) decimal.Decimal {
	d, _ := decimal.NewFromString(v)
	return d
}

func Ceil(d decimal.Decimal, precision int32) decimal.Decimal {
	return d.Shift(precision).Ceil().Shift(-precision)
}

// IsInteger d is a whole number
func IsInteger(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(0))
}

// IsUint128 d is a non negative integer that fits in 128 bits
func IsUint128(d decimal.Decimal) bool {
	return !d.IsNegative() && IsInteger(d) && d.LessThanOrEqual(MaxUint128)
}

// MulDivDown x * y / d rounded down
func MulDivDown(x, y, d decimal.Decimal) decimal.Decimal {
	n := new(big.Int).Mul(x.BigInt(), y.BigInt())
	q := new(big.Int).Quo(n, d.BigInt())
	return decimal.NewFromBigInt(q, 0)
}

// MulDivUp x * y / d rounded up
func MulDivUp(x, y, d decimal.Decimal) decimal.Decimal {
	den := d.BigInt()
	n := new(big.Int).Mul(x.BigInt(), y.BigInt())
	n.Add(n, new(big.Int).Sub(den, big.NewInt(1)))
	q := new(big.Int).Quo(n, den)
	return decimal.NewFromBigInt(q, 0)
}

// DivDown x / y rounded down
func DivDown(x, y decimal.Decimal) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).Quo(x.BigInt(), y.BigInt()), 0)
}

// WMulDown x * y / WAD rounded down
func WMulDown(x, y decimal.Decimal) decimal.Decimal {
	return MulDivDown(x, y, WAD)
}

// WDivDown x * WAD / y rounded down
func WDivDown(x, y decimal.Decimal) decimal.Decimal {
	return MulDivDown(x, WAD, y)
}

// WDivUp x * WAD / y rounded up
func WDivUp(x, y decimal.Decimal) decimal.Decimal {
	return MulDivUp(x, WAD, y)
}

// ZeroFloorSub max(x - y, 0)
func ZeroFloorSub(x, y decimal.Decimal) decimal.Decimal {
	if x.LessThanOrEqual(y) {
		return decimal.Zero
	}

	return x.Sub(y)
}

// WTaylorCompounded approximates e^(x*n) - 1 with the first three terms of the series.
// x is a WAD rate per second, n seconds.
func WTaylorCompounded(x decimal.Decimal, n int64) decimal.Decimal {
	first := x.Mul(decimal.NewFromInt(n))
	second := MulDivDown(first, first, two.Mul(WAD))
	third := MulDivDown(second, first, three.Mul(WAD))

	return first.Add(second).Add(third)
}

// WInverseTaylorCompounded largest per second rate r with WTaylorCompounded(r, n) <= g.
//
// WTaylorCompounded is strictly increasing in the rate, so the rate is found by
// bisection and a growth produced by WTaylorCompounded maps back to its exact rate.
func WInverseTaylorCompounded(g decimal.Decimal, n int64) decimal.Decimal {
	if n <= 0 || !g.IsPositive() {
		return decimal.Zero
	}

	one := decimal.NewFromInt(1)
	lo := decimal.Zero
	// WTaylorCompounded(hi, n) >= hi*n > g
	hi := DivDown(g, decimal.NewFromInt(n)).Add(one)
	for hi.Sub(lo).GreaterThan(one) {
		mid := DivDown(lo.Add(hi), two)
		if WTaylorCompounded(mid, n).LessThanOrEqual(g) {
			lo = mid
		} else {
			hi = mid
		}
	}

	return lo
}
