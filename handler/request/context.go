package request

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

type key int

const (
	callerKey key = iota
)

// WithCaller context with the authenticated caller
func WithCaller(ctx context.Context, caller common.Address) context.Context {
	return context.WithValue(ctx, callerKey, caller)
}

// Caller authenticated caller from context
func Caller(ctx context.Context) (common.Address, bool) {
	caller, ok := ctx.Value(callerKey).(common.Address)
	return caller, ok
}
