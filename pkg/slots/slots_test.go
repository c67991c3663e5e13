package slots

import (
	"testing"

	"creditmarket/core"
	"creditmarket/pkg/number"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPackUnpack(t *testing.T) {
	lo := number.Decimal("123456789")
	hi := number.MaxUint128

	word := Pack(lo, hi)
	l, h := Unpack(word)
	assert.Equal(t, lo.String(), l.String())
	assert.Equal(t, hi.String(), h.String())

	assert.Equal(t, common.Hash{}, Pack(decimal.Zero, decimal.Zero))
	assert.Equal(t, byte(1), Pack(decimal.NewFromInt(1), decimal.Zero)[31])
	assert.Equal(t, byte(1), Pack(decimal.Zero, decimal.NewFromInt(1))[15])
}

func TestMarketWords(t *testing.T) {
	m := &core.Market{
		TotalSupplyAssets: decimal.NewFromInt(1000),
		TotalSupplyShares: decimal.NewFromInt(1000000000),
		TotalBorrowAssets: decimal.NewFromInt(800),
		TotalBorrowShares: decimal.NewFromInt(800000000),
		LastUpdate:        1700000000,
		Fee:               number.Decimal("100000000000000000"),
	}

	words := Market(m)
	assert.Len(t, words, 3)

	l, h := Unpack(words[1])
	assert.Equal(t, "800", l.String())
	assert.Equal(t, "800000000", h.String())

	l, h = Unpack(words[2])
	assert.Equal(t, "1700000000", l.String())
	assert.Equal(t, "100000000000000000", h.String())

	assert.Equal(t, common.Hash{}, Pick(words, 3))
	assert.Equal(t, words[0], Pick(words, 0))
}

func TestPositionWords(t *testing.T) {
	p := &core.Position{
		SupplyShares: decimal.NewFromInt(7),
		BorrowShares: decimal.NewFromInt(5),
		Collateral:   decimal.NewFromInt(9),
	}

	words := Position(p)
	assert.Equal(t, byte(7), words[0][31])

	l, h := Unpack(words[1])
	assert.Equal(t, "5", l.String())
	assert.Equal(t, "9", h.String())
}
