package core

import "strconv"

// ErrorCode int
type ErrorCode int

const (
	// ErrUnknown unknown
	ErrUnknown ErrorCode = 100000

	// ErrZeroAddress zero address
	ErrZeroAddress ErrorCode = 100101
	// ErrInconsistentInput exactly one of assets and shares must be nonzero
	ErrInconsistentInput ErrorCode = 100102
	// ErrInvalidAmount negative or fractional amount
	ErrInvalidAmount ErrorCode = 100103
	// ErrEmptyBorrowers empty borrower list
	ErrEmptyBorrowers ErrorCode = 100104
	// ErrMaxFeeExceeded fee above max fee
	ErrMaxFeeExceeded ErrorCode = 100105
	// ErrInvalidRate negative premium rate
	ErrInvalidRate ErrorCode = 100106

	// ErrMarketNotCreated market not created
	ErrMarketNotCreated ErrorCode = 100201
	// ErrMarketAlreadyCreated market already created
	ErrMarketAlreadyCreated ErrorCode = 100202
	// ErrAlreadySet value already set
	ErrAlreadySet ErrorCode = 100203
	// ErrRateModelNotEnabled rate model not enabled
	ErrRateModelNotEnabled ErrorCode = 100204
	// ErrLltvNotEnabled lltv not enabled
	ErrLltvNotEnabled ErrorCode = 100205
	// ErrPremiumDisabled no premium accrual configured
	ErrPremiumDisabled ErrorCode = 100206
	// ErrRateModelNotFound rate model address not registered
	ErrRateModelNotFound ErrorCode = 100207
	// ErrOracleNotFound oracle address not registered
	ErrOracleNotFound ErrorCode = 100208

	// ErrInsufficientCollateral insufficient collateral
	ErrInsufficientCollateral ErrorCode = 100301
	// ErrInsufficientLiquidity insufficient liquidity
	ErrInsufficientLiquidity ErrorCode = 100302
	// ErrBelowMinimumBorrow debt left below min borrow
	ErrBelowMinimumBorrow ErrorCode = 100303
	// ErrInsufficientBalance position balance too small
	ErrInsufficientBalance ErrorCode = 100304
	// ErrInvalidPrice invalid price
	ErrInvalidPrice ErrorCode = 100305

	// ErrOverflow value does not fit the uint128 storage width
	ErrOverflow ErrorCode = 100401

	// ErrUnauthorized caller not authorized by account
	ErrUnauthorized ErrorCode = 100501
	// ErrNotOwner caller not owner
	ErrNotOwner ErrorCode = 100502
	// ErrNotCreditLine caller not credit line authority
	ErrNotCreditLine ErrorCode = 100503
	// ErrReentrancy reentrant call
	ErrReentrancy ErrorCode = 100504
)

var errorMessages = map[ErrorCode]string{
	ErrUnknown:                "unknown",
	ErrZeroAddress:            "zero address",
	ErrInconsistentInput:      "inconsistent input",
	ErrInvalidAmount:          "invalid amount",
	ErrEmptyBorrowers:         "empty borrowers",
	ErrMaxFeeExceeded:         "max fee exceeded",
	ErrInvalidRate:            "invalid rate",
	ErrMarketNotCreated:       "market not created",
	ErrMarketAlreadyCreated:   "market already created",
	ErrAlreadySet:             "already set",
	ErrRateModelNotEnabled:    "rate model not enabled",
	ErrLltvNotEnabled:         "lltv not enabled",
	ErrPremiumDisabled:        "premium accrual disabled",
	ErrRateModelNotFound:      "rate model not found",
	ErrOracleNotFound:         "oracle not found",
	ErrInsufficientCollateral: "insufficient collateral",
	ErrInsufficientLiquidity:  "insufficient liquidity",
	ErrBelowMinimumBorrow:     "below minimum borrow",
	ErrInsufficientBalance:    "insufficient balance",
	ErrInvalidPrice:           "invalid price",
	ErrOverflow:               "max uint128 exceeded",
	ErrUnauthorized:           "unauthorized",
	ErrNotOwner:               "not owner",
	ErrNotCreditLine:          "not credit line",
	ErrReentrancy:             "reentrant call",
}

func (e ErrorCode) String() string {
	return strconv.Itoa(int(e))
}

func (e ErrorCode) Error() string {
	if msg, ok := errorMessages[e]; ok {
		return e.String() + " " + msg
	}

	return e.String()
}

// Category groups codes the way callers handle them
func (e ErrorCode) Category() string {
	switch int(e) / 100 {
	case 1001:
		return "validation"
	case 1002:
		return "precondition"
	case 1003:
		return "solvency"
	case 1004:
		return "arithmetic"
	case 1005:
		return "authorization"
	default:
		return "unknown"
	}
}
