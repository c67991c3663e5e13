package slots

import (
	"creditmarket/core"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// Kind record family a storage word belongs to
type Kind int

const (
	// KindMarket market words
	KindMarket Kind = iota + 1
	// KindPosition position words
	KindPosition
	// KindPremium borrower premium words
	KindPremium
)

// Key address of one storage word
type Key struct {
	Kind     Kind
	MarketID core.MarketID
	// position account or premium borrower
	Account common.Address
	Index   int
}

// Pack two uint128 values into one word, lo in the low half
func Pack(lo, hi decimal.Decimal) common.Hash {
	l, _ := uint256.FromBig(lo.BigInt())
	h, _ := uint256.FromBig(hi.BigInt())

	word := new(uint256.Int).Lsh(h, 128)
	word.Or(word, l)
	return word.Bytes32()
}

// Unpack split a word into its low and high uint128 halves
func Unpack(word common.Hash) (lo, hi decimal.Decimal) {
	w := new(uint256.Int).SetBytes32(word[:])
	mask := new(uint256.Int).Sub(new(uint256.Int).Lsh(uint256.NewInt(1), 128), uint256.NewInt(1))

	l := new(uint256.Int).And(w, mask)
	h := new(uint256.Int).Rsh(w, 128)
	return decimal.NewFromBigInt(l.ToBig(), 0), decimal.NewFromBigInt(h.ToBig(), 0)
}

// Word single uint256 value
func Word(v decimal.Decimal) common.Hash {
	w, _ := uint256.FromBig(v.BigInt())
	return w.Bytes32()
}

// Market words: supply assets|shares, borrow assets|shares, last update|fee
func Market(m *core.Market) []common.Hash {
	return []common.Hash{
		Pack(m.TotalSupplyAssets, m.TotalSupplyShares),
		Pack(m.TotalBorrowAssets, m.TotalBorrowShares),
		Pack(decimal.NewFromInt(m.LastUpdate), m.Fee),
	}
}

// Position words: supply shares, borrow shares|collateral
func Position(p *core.Position) []common.Hash {
	return []common.Hash{
		Word(p.SupplyShares),
		Pack(p.BorrowShares, p.Collateral),
	}
}

// Premium words: rate|last accrual time, debt snapshot
func Premium(p *core.BorrowerPremium) []common.Hash {
	return []common.Hash{
		Pack(p.Rate, decimal.NewFromInt(p.LastAccrualTime)),
		Word(p.BorrowAssetsAtLastAccrual),
	}
}

// Pick word at index, zero when out of range
func Pick(words []common.Hash, index int) common.Hash {
	if index < 0 || index >= len(words) {
		return common.Hash{}
	}

	return words[index]
}
