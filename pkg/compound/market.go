package compound

import (
	"creditmarket/core"
	"creditmarket/pkg/number"
	"creditmarket/pkg/shares"

	"github.com/shopspring/decimal"
)

// Require returns err when cond fails
func Require(cond bool, err error) error {
	if cond {
		return nil
	}

	return err
}

// AccrueInterest grow the market totals by borrowRate over the seconds since LastUpdate
//
// The interest is added to both borrow and supply assets. The fee share of it is minted
// as supply shares, returned for the caller to credit to the fee recipient.
func AccrueInterest(market *core.Market, borrowRate decimal.Decimal, now int64) (interest, feeShares decimal.Decimal) {
	elapsed := now - market.LastUpdate
	if elapsed <= 0 {
		return decimal.Zero, decimal.Zero
	}

	market.LastUpdate = now

	interest = number.WMulDown(market.TotalBorrowAssets, number.WTaylorCompounded(borrowRate, elapsed))
	if !interest.IsPositive() {
		return decimal.Zero, decimal.Zero
	}

	market.TotalBorrowAssets = market.TotalBorrowAssets.Add(interest)
	market.TotalSupplyAssets = market.TotalSupplyAssets.Add(interest)

	return interest, MintFeeShares(market, number.WMulDown(interest, market.Fee))
}

// MintFeeShares mint supply shares worth feeAmount, already counted in TotalSupplyAssets
func MintFeeShares(market *core.Market, feeAmount decimal.Decimal) decimal.Decimal {
	if !feeAmount.IsPositive() {
		return decimal.Zero
	}

	feeShares := shares.ToSharesDown(feeAmount, market.TotalSupplyAssets.Sub(feeAmount), market.TotalSupplyShares)
	market.TotalSupplyShares = market.TotalSupplyShares.Add(feeShares)
	return feeShares
}
