package shares

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFirstDeposit(t *testing.T) {
	s := ToSharesDown(decimal.NewFromInt(100), decimal.Zero, decimal.Zero)
	assert.Equal(t, "100000000", s.String())

	// second deposit of the same size gets the same shares
	s2 := ToSharesDown(decimal.NewFromInt(100), decimal.NewFromInt(100), s)
	assert.Equal(t, "100000000", s2.String())
}

func TestRounding(t *testing.T) {
	totalAssets := decimal.NewFromInt(3)
	totalShares := decimal.NewFromInt(1000000)

	down := ToSharesDown(decimal.NewFromInt(1), totalAssets, totalShares)
	up := ToSharesUp(decimal.NewFromInt(1), totalAssets, totalShares)
	assert.Equal(t, "500000", down.String())
	assert.Equal(t, "500000", up.String())

	down = ToAssetsDown(decimal.NewFromInt(3), totalAssets, totalShares)
	up = ToAssetsUp(decimal.NewFromInt(3), totalAssets, totalShares)
	assert.Equal(t, "0", down.String())
	assert.Equal(t, "1", up.String())
}

func TestRoundTripNeverGains(t *testing.T) {
	r := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		totalAssets := decimal.NewFromInt(r.Int63n(1e15))
		totalShares := decimal.NewFromInt(r.Int63n(1e18))
		assets := decimal.NewFromInt(r.Int63n(1e12) + 1)

		// supply then withdraw the same shares
		s := ToSharesDown(assets, totalAssets, totalShares)
		back := ToAssetsDown(s, totalAssets.Add(assets), totalShares.Add(s))
		assert.True(t, back.LessThanOrEqual(assets), "supply round trip gained %s > %s", back, assets)

		// borrow then repay the same shares
		b := ToSharesUp(assets, totalAssets, totalShares)
		owed := ToAssetsUp(b, totalAssets.Add(assets), totalShares.Add(b))
		assert.True(t, owed.GreaterThanOrEqual(assets), "borrow round trip owed %s < %s", owed, assets)
	}
}
