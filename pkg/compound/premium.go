package compound

import (
	"creditmarket/pkg/number"

	"github.com/shopspring/decimal"
)

// PremiumAmount premium owed by a borrower since the snapshot, elapsed seconds ago
//
// snapshot is the debt recorded at the last accrual and current the debt now, base
// interest included. The base rate applied in between is recovered from their ratio
// over the whole elapsed time. Premium is charged for at most maxElapsed seconds:
// the growth at base+premiumRate over the charged window less the base growth over
// the same window. Without a cap in effect the base growth is the one already in current.
func PremiumAmount(snapshot, current, premiumRate decimal.Decimal, elapsed, maxElapsed int64) decimal.Decimal {
	if elapsed <= 0 || !snapshot.IsPositive() || !premiumRate.IsPositive() {
		return decimal.Zero
	}

	baseRate := decimal.Zero
	if current.GreaterThan(snapshot) {
		growth := number.WDivDown(current, snapshot).Sub(number.WAD)
		baseRate = number.WInverseTaylorCompounded(growth, elapsed)
	}

	charged := elapsed
	baseGrowth := number.ZeroFloorSub(current, snapshot)
	if maxElapsed > 0 && elapsed > maxElapsed {
		charged = maxElapsed
		baseGrowth = number.WMulDown(snapshot, number.WTaylorCompounded(baseRate, charged))
	}

	totalGrowth := number.WMulDown(snapshot, number.WTaylorCompounded(baseRate.Add(premiumRate), charged))
	return number.ZeroFloorSub(totalGrowth, baseGrowth)
}
