package core

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// Config credit market config
type Config struct {
	App        App               `json:"app"`
	DB         db.Config         `json:"db"`
	Protocol   Protocol          `json:"protocol"`
	Ledger     Ledger            `json:"ledger"`
	RateModels []RateModelConfig `json:"rate_models"`
	Oracles    []OracleConfig    `json:"oracles"`
	Worker     Worker            `json:"worker"`
	Session    SessionConfig     `json:"session"`
}

// App app config
type App struct {
	// memory keeps the ledger in process instead of the database
	Memory   bool   `json:"memory"`
	Location string `json:"location"`
	// vault address holding pooled assets in the transfer book
	Vault common.Address `json:"vault"`
}

// Protocol protocol config defaults
type Protocol struct {
	Owner        common.Address    `json:"owner"`
	FeeRecipient common.Address    `json:"fee_recipient"`
	RateModels   []common.Address  `json:"rate_models"`
	Lltvs        []decimal.Decimal `json:"lltvs"`
	// persistent reads the protocol config from the property store
	Persistent bool `json:"persistent"`
}

// Ledger ledger tuning
type Ledger struct {
	MinBorrowAssets     decimal.Decimal `json:"min_borrow_assets"`
	MaxPremiumElapsed   int64           `json:"max_premium_elapsed"`
	MinPremiumThreshold decimal.Decimal `json:"min_premium_threshold"`
	ParamsCacheSize     int             `json:"params_cache_size"`
}

// RateModelConfig rate model registered at an address
type RateModelConfig struct {
	Address common.Address `json:"address"`
	// fixed or jump
	Kind string `json:"kind"`
	// annual rates in WAD
	BaseRate       decimal.Decimal `json:"base_rate"`
	Multiplier     decimal.Decimal `json:"multiplier"`
	JumpMultiplier decimal.Decimal `json:"jump_multiplier"`
	Kink           decimal.Decimal `json:"kink"`
}

// OracleConfig oracle registered at an address
type OracleConfig struct {
	Address common.Address `json:"address"`
	// static or http
	Kind     string          `json:"kind"`
	Price    decimal.Decimal `json:"price"`
	EndPoint string          `json:"end_point"`
}

// SessionConfig access token settings
type SessionConfig struct {
	// longest token lifetime accepted, seconds
	MaxTTL    int64 `json:"max_ttl"`
	CacheSize int   `json:"cache_size"`
}

// Worker worker schedules
type Worker struct {
	AccrualSpec  string `json:"accrual_spec"`
	PremiumSpec  string `json:"premium_spec"`
	PremiumBatch int    `json:"premium_batch"`
}
