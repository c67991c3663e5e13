package session

import (
	"context"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const now int64 = 1700000000

func newTestSession(capacity int) *session {
	s := New(Config{MaxTTL: time.Hour, Capacity: capacity}).(*session)
	s.now = func() int64 { return now }
	return s
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	key, err := crypto.HexToECDSA("4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318")
	require.NoError(t, err)
	address := crypto.PubkeyToAddress(key.PublicKey)

	for _, capacity := range []int{0, 16} {
		s := newTestSession(capacity)

		token, err := Sign(key, now+60)
		require.NoError(t, err)

		got, err := s.Login(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, address, got)

		// served from the cache when enabled
		got, err = s.Login(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, address, got)

		// the same token after it expired
		s.now = func() int64 { return now + 61 }
		_, err = s.Login(ctx, token)
		assert.Equal(t, ErrTokenExpired, err)
	}
}

func TestLoginRejects(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(0)

	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	expired, err := Sign(key, now)
	require.NoError(t, err)
	_, err = s.Login(ctx, expired)
	assert.Equal(t, ErrTokenExpired, err)

	tooLong, err := Sign(key, now+2*3600)
	require.NoError(t, err)
	_, err = s.Login(ctx, tooLong)
	assert.Equal(t, ErrTokenTTL, err)

	for _, token := range []string{"", "abc", "123.0x00", "x.0x00"} {
		_, err = s.Login(ctx, token)
		assert.Error(t, err, token)
	}

	// signature over another expiry recovers a different address
	token, err := Sign(key, now+60)
	require.NoError(t, err)
	forged := "1700000100" + token[len("1700000060"):]
	got, err := s.Login(ctx, forged)
	if err == nil {
		assert.NotEqual(t, crypto.PubkeyToAddress(key.PublicKey), got)
	}
}
