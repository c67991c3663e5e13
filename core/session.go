package core

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

// Session resolves access tokens to the address acting
type Session interface {
	// Login return the address that signed the access token
	Login(ctx context.Context, accessToken string) (common.Address, error)
}
