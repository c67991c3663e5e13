package core

// ActionType ledger action
type ActionType int

const (
	// ActionTypeDefault default
	ActionTypeDefault ActionType = iota
	// ActionTypeCreateMarket create market
	ActionTypeCreateMarket
	// ActionTypeSupply supply
	ActionTypeSupply
	// ActionTypeWithdraw withdraw
	ActionTypeWithdraw
	// ActionTypeBorrow borrow
	ActionTypeBorrow
	// ActionTypeRepay repay
	ActionTypeRepay
	// ActionTypeAccrueInterest accrue interest
	ActionTypeAccrueInterest
	// ActionTypeAccruePremium accrue borrower premium
	ActionTypeAccruePremium
	// ActionTypeSetCreditLine set credit line
	ActionTypeSetCreditLine
	// ActionTypeSetFee set fee
	ActionTypeSetFee
	// ActionTypeSetRateModel set rate model
	ActionTypeSetRateModel
	// ActionTypeSetAuthorization set authorization
	ActionTypeSetAuthorization
	// ActionTypeGovernance owner governance action
	ActionTypeGovernance
)

var actionNames = map[ActionType]string{
	ActionTypeDefault:          "default",
	ActionTypeCreateMarket:     "create_market",
	ActionTypeSupply:           "supply",
	ActionTypeWithdraw:         "withdraw",
	ActionTypeBorrow:           "borrow",
	ActionTypeRepay:            "repay",
	ActionTypeAccrueInterest:   "accrue_interest",
	ActionTypeAccruePremium:    "accrue_premium",
	ActionTypeSetCreditLine:    "set_credit_line",
	ActionTypeSetFee:           "set_fee",
	ActionTypeSetRateModel:     "set_rate_model",
	ActionTypeSetAuthorization: "set_authorization",
	ActionTypeGovernance:       "governance",
}

func (a ActionType) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}

	return "unknown"
}

// ChangesDebt action moves the borrow side of a position
func (a ActionType) ChangesDebt() bool {
	return a == ActionTypeBorrow || a == ActionTypeRepay
}
