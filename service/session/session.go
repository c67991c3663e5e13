package session

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"strconv"
	"strings"
	"time"

	"creditmarket/core"

	"github.com/bluele/gcache"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/sync/singleflight"
)

const (
	// DefaultMaxTTL longest lifetime a token may claim
	DefaultMaxTTL = 24 * time.Hour

	loginMessage = "creditmarket login "
)

var (
	// ErrInvalidToken malformed token or bad signature
	ErrInvalidToken = errors.New("invalid access token")
	// ErrTokenExpired token past its expiry
	ErrTokenExpired = errors.New("access token expired")
	// ErrTokenTTL token expiry further out than allowed
	ErrTokenTTL = errors.New("access token lifetime too long")
)

// Config session config
type Config struct {
	MaxTTL time.Duration
	// cached tokens, zero disables the cache
	Capacity int
}

type login struct {
	address common.Address
	expires int64
}

type session struct {
	maxTTL int64
	now    func() int64
	sf     *singleflight.Group
	tokens gcache.Cache
}

// New session verifying signed access tokens.
//
// A token is "<expires>.<signature>": the unix expiry and the personal_sign
// signature of "creditmarket login <expires>" by the account key.
func New(cfg Config) core.Session {
	s := &session{
		maxTTL: int64(cfg.MaxTTL / time.Second),
		now:    func() int64 { return time.Now().Unix() },
		sf:     &singleflight.Group{},
	}

	if s.maxTTL <= 0 {
		s.maxTTL = int64(DefaultMaxTTL / time.Second)
	}

	if cfg.Capacity > 0 {
		s.tokens = gcache.New(cfg.Capacity).LRU().Build()
	}

	return s
}

// Sign access token for key, valid until expires
func Sign(key *ecdsa.PrivateKey, expires int64) (string, error) {
	sig, err := crypto.Sign(accounts.TextHash(message(expires)), key)
	if err != nil {
		return "", err
	}

	return strconv.FormatInt(expires, 10) + "." + hexutil.Encode(sig), nil
}

func message(expires int64) []byte {
	return []byte(loginMessage + strconv.FormatInt(expires, 10))
}

func (s *session) Login(ctx context.Context, accessToken string) (common.Address, error) {
	now := s.now()

	if s.tokens != nil {
		if v, err := s.tokens.Get(accessToken); err == nil {
			if l := v.(*login); l.expires > now {
				return l.address, nil
			}

			return common.Address{}, ErrTokenExpired
		}
	}

	v, err, _ := s.sf.Do(accessToken, func() (interface{}, error) {
		l, err := s.verify(accessToken, now)
		if err != nil {
			return nil, err
		}

		if s.tokens != nil {
			_ = s.tokens.SetWithExpire(accessToken, l, time.Duration(l.expires-now)*time.Second)
		}

		return l, nil
	})

	if err != nil {
		return common.Address{}, err
	}

	return v.(*login).address, nil
}

func (s *session) verify(accessToken string, now int64) (*login, error) {
	parts := strings.SplitN(accessToken, ".", 2)
	if len(parts) != 2 {
		return nil, ErrInvalidToken
	}

	expires, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if expires <= now {
		return nil, ErrTokenExpired
	}

	if expires-now > s.maxTTL {
		return nil, ErrTokenTTL
	}

	sig, err := hexutil.Decode(parts[1])
	if err != nil || len(sig) != crypto.SignatureLength {
		return nil, ErrInvalidToken
	}

	// wallets sign with v in 27/28
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}

	pub, err := crypto.SigToPub(accounts.TextHash(message(expires)), sig)
	if err != nil {
		return nil, ErrInvalidToken
	}

	return &login{address: crypto.PubkeyToAddress(*pub), expires: expires}, nil
}
