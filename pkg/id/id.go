package id

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gofrs/uuid"
	"github.com/holiman/uint256"
)

// MarketID keccak256 of the six params, each encoded as one 32 byte word
func MarketID(loan, collateral, oracle, rateModel common.Address, lltv *big.Int, creditLine common.Address) common.Hash {
	word, _ := uint256.FromBig(lltv)
	lltvWord := word.Bytes32()

	return crypto.Keccak256Hash(
		common.LeftPadBytes(loan.Bytes(), 32),
		common.LeftPadBytes(collateral.Bytes(), 32),
		common.LeftPadBytes(oracle.Bytes(), 32),
		common.LeftPadBytes(rateModel.Bytes(), 32),
		lltvWord[:],
		common.LeftPadBytes(creditLine.Bytes(), 32),
	)
}

// GenTraceID new normal traceID
func GenTraceID() string {
	return uuid.Must(uuid.NewV4()).String()
}
