package shares

import (
	"creditmarket/pkg/number"

	"github.com/shopspring/decimal"
)

var (
	// VirtualShares virtual shares added to total shares to mitigate share price manipulation
	VirtualShares = decimal.New(1, 6)
	// VirtualAssets virtual assets added to total assets
	VirtualAssets = decimal.NewFromInt(1)
)

// ToSharesDown assets to shares rounded down
func ToSharesDown(assets, totalAssets, totalShares decimal.Decimal) decimal.Decimal {
	return number.MulDivDown(assets, totalShares.Add(VirtualShares), totalAssets.Add(VirtualAssets))
}

// ToSharesUp assets to shares rounded up
func ToSharesUp(assets, totalAssets, totalShares decimal.Decimal) decimal.Decimal {
	return number.MulDivUp(assets, totalShares.Add(VirtualShares), totalAssets.Add(VirtualAssets))
}

// ToAssetsDown shares to assets rounded down
func ToAssetsDown(shares, totalAssets, totalShares decimal.Decimal) decimal.Decimal {
	return number.MulDivDown(shares, totalAssets.Add(VirtualAssets), totalShares.Add(VirtualShares))
}

// ToAssetsUp shares to assets rounded up
func ToAssetsUp(shares, totalAssets, totalShares decimal.Decimal) decimal.Decimal {
	return number.MulDivUp(shares, totalAssets.Add(VirtualAssets), totalShares.Add(VirtualShares))
}
