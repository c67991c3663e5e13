package rest

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"creditmarket/core"
	"creditmarket/internal/irm"
	"creditmarket/internal/oracle"
	"creditmarket/pkg/number"
	"creditmarket/service/account"
	"creditmarket/service/ledger"
	"creditmarket/service/protocol"
	"creditmarket/service/session"
	"creditmarket/service/transfer"
	storeledger "creditmarket/store/ledger"
	"creditmarket/store/raw"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	ownerKey      = testKey(1)
	creditLineKey = testKey(2)
	aliceKey      = testKey(3)
	bobKey        = testKey(4)
	malloryKey    = testKey(5)

	owner      = crypto.PubkeyToAddress(ownerKey.PublicKey)
	creditLine = crypto.PubkeyToAddress(creditLineKey.PublicKey)
	alice      = crypto.PubkeyToAddress(aliceKey.PublicKey)
	bob        = crypto.PubkeyToAddress(bobKey.PublicKey)
	mallory    = crypto.PubkeyToAddress(malloryKey.PublicKey)

	loanToken  = common.HexToAddress("0x2000")
	oracleAddr = common.HexToAddress("0x3000")
	fixedIrm   = common.HexToAddress("0x4000")
	lltv       = number.Decimal("800000000000000000")

	keys = map[common.Address]*ecdsa.PrivateKey{
		owner:      ownerKey,
		creditLine: creditLineKey,
		alice:      aliceKey,
		bob:        bobKey,
		mallory:    malloryKey,
	}
)

func testKey(seed byte) *ecdsa.PrivateKey {
	key, err := crypto.ToECDSA(common.LeftPadBytes([]byte{seed}, 32))
	if err != nil {
		panic(err)
	}

	return key
}

func accessToken(t *testing.T, account common.Address, expires int64) string {
	token, err := session.Sign(keys[account], expires)
	require.NoError(t, err)
	return token
}

type response struct {
	Data json.RawMessage `json:"data"`
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
}

type client struct {
	t    *testing.T
	srv  *httptest.Server
	book *transfer.Book
}

func newClient(t *testing.T) *client {
	store := storeledger.Memory()
	return newClientWith(t, store, raw.Store(store))
}

func newClientWith(t *testing.T, store core.LedgerStore, positions core.PositionReader) *client {
	book := transfer.New(common.HexToAddress("0x5000"))

	oracles := oracle.NewRegistry()
	oracles.Register(oracleAddr, oracle.NewStatic(oracle.PriceScale))
	models := irm.NewRegistry()
	models.Register(fixedIrm, irm.FromAPR(number.Decimal("100000000000000000")))

	svc := ledger.New(store, protocol.Static(core.Protocol{
		Owner:      owner,
		RateModels: []common.Address{fixedIrm},
		Lltvs:      []decimal.Decimal{lltv},
	}), models, book, account.New(oracles))

	srv := httptest.NewServer(Handle(svc, store, positions, session.New(session.Config{Capacity: 64})))
	t.Cleanup(srv.Close)

	return &client{t: t, srv: srv, book: book}
}

func (c *client) do(method, path string, caller common.Address, body interface{}) (int, *response) {
	header := http.Header{}
	if caller != (common.Address{}) {
		header.Set("Authorization", "Bearer "+accessToken(c.t, caller, time.Now().Add(time.Hour).Unix()))
	}

	return c.doWithHeader(method, path, header, body)
}

func (c *client) doWithHeader(method, path string, header http.Header, body interface{}) (int, *response) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, c.srv.URL+path, &buf)
	require.NoError(c.t, err)
	for k := range header {
		req.Header.Set(k, header.Get(k))
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	var r response
	require.NoError(c.t, json.NewDecoder(resp.Body).Decode(&r))
	return resp.StatusCode, &r
}

func (c *client) createMarket() string {
	status, resp := c.do(http.MethodPost, "/markets", alice, map[string]string{
		"loan_token":  loanToken.Hex(),
		"oracle":      oracleAddr.Hex(),
		"rate_model":  fixedIrm.Hex(),
		"lltv":        lltv.String(),
		"credit_line": creditLine.Hex(),
	})
	require.Equal(c.t, http.StatusOK, status, resp.Msg)

	var created struct {
		ID string `json:"id"`
	}
	require.NoError(c.t, json.Unmarshal(resp.Data, &created))
	return created.ID
}

func TestOperations(t *testing.T) {
	c := newClient(t)
	id := c.createMarket()

	c.book.Mint(loanToken, alice, decimal.NewFromInt(1000))
	status, resp := c.do(http.MethodPost, "/markets/"+id+"/supply", alice, map[string]string{"assets": "1000"})
	require.Equal(t, http.StatusOK, status, resp.Msg)

	var supplied struct {
		Assets decimal.Decimal `json:"assets"`
		Shares decimal.Decimal `json:"shares"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &supplied))
	assert.Equal(t, "1000", supplied.Assets.String())
	assert.Equal(t, "1000000000", supplied.Shares.String())

	// only the credit line authority may set credit
	status, resp = c.do(http.MethodPost, "/markets/"+id+"/credit-lines", alice, map[string]string{"borrower": bob.Hex(), "credit": "1000"})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, int(core.ErrNotCreditLine), resp.Code)

	status, _ = c.do(http.MethodPost, "/markets/"+id+"/credit-lines", creditLine, map[string]string{"borrower": bob.Hex(), "credit": "1000"})
	require.Equal(t, http.StatusOK, status)

	status, resp = c.do(http.MethodPost, "/markets/"+id+"/borrow", bob, map[string]string{"assets": "801"})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, int(core.ErrInsufficientCollateral), resp.Code)

	status, _ = c.do(http.MethodPost, "/markets/"+id+"/borrow", bob, map[string]string{"assets": "800"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "800", c.book.Balance(loanToken, bob).String())

	status, resp = c.do(http.MethodGet, "/markets/"+id+"/positions/"+bob.Hex(), common.Address{}, nil)
	require.Equal(t, http.StatusOK, status)

	var position struct {
		BorrowAssets decimal.Decimal `json:"borrow_assets"`
		Collateral   decimal.Decimal `json:"collateral"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &position))
	assert.Equal(t, "800", position.BorrowAssets.String())
	assert.Equal(t, "1000", position.Collateral.String())

	status, resp = c.do(http.MethodGet, "/markets/"+id+"/positions?account="+alice.Hex()+"&account="+bob.Hex(), common.Address{}, nil)
	require.Equal(t, http.StatusOK, status)
	var positions []json.RawMessage
	require.NoError(t, json.Unmarshal(resp.Data, &positions))
	assert.Len(t, positions, 2)
}

func TestRequestErrors(t *testing.T) {
	c := newClient(t)
	id := c.createMarket()

	status, _ := c.do(http.MethodPost, "/markets/"+id+"/supply", common.Address{}, map[string]string{"assets": "1"})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = c.do(http.MethodPost, "/markets/"+id+"/supply", alice, map[string]string{"assets": "-1"})
	assert.Equal(t, http.StatusBadRequest, status)

	missing := common.HexToHash("0x01").Hex()
	status, resp := c.do(http.MethodGet, "/markets/"+missing, common.Address{}, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, int(core.ErrMarketNotCreated), resp.Code)

	status, _ = c.do(http.MethodGet, "/markets/0x01", common.Address{}, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, resp = c.do(http.MethodPost, "/governance/lltvs", alice, map[string]string{"lltv": "900000000000000000"})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, int(core.ErrNotOwner), resp.Code)

	status, _ = c.do(http.MethodPost, "/governance/lltvs", owner, map[string]string{"lltv": "900000000000000000"})
	assert.Equal(t, http.StatusOK, status)
}

func TestViews(t *testing.T) {
	c := newClient(t)
	id := c.createMarket()

	status, resp := c.do(http.MethodGet, "/markets", common.Address{}, nil)
	require.Equal(t, http.StatusOK, status)
	var markets []json.RawMessage
	require.NoError(t, json.Unmarshal(resp.Data, &markets))
	assert.Len(t, markets, 1)

	status, resp = c.do(http.MethodGet, "/markets/"+id+"/params", common.Address{}, nil)
	require.Equal(t, http.StatusOK, status)
	var params core.MarketParams
	require.NoError(t, json.Unmarshal(resp.Data, &params))
	assert.Equal(t, creditLine, params.CreditLine)
	assert.Equal(t, id, params.ID().Hex())

	status, resp = c.do(http.MethodGet, "/markets/"+id+"/slots?kind=market&index=2", common.Address{}, nil)
	require.Equal(t, http.StatusOK, status, resp.Msg)
	var words []common.Hash
	require.NoError(t, json.Unmarshal(resp.Data, &words))
	assert.Len(t, words, 1)
}

type journalReader struct {
	core.PositionReader
	entries []*core.JournalEntry
}

func (j *journalReader) Journal(_ context.Context, after int64, limit int) ([]*core.JournalEntry, error) {
	var out []*core.JournalEntry
	for _, e := range j.entries {
		if e.ID > after && len(out) < limit {
			out = append(out, e)
		}
	}

	return out, nil
}

func TestJournal(t *testing.T) {
	c := newClient(t)
	status, _ := c.do(http.MethodGet, "/journal", common.Address{}, nil)
	assert.Equal(t, http.StatusNotFound, status)

	store := storeledger.Memory()
	j := &journalReader{PositionReader: raw.Store(store)}
	for i := int64(1); i <= 3; i++ {
		j.entries = append(j.entries, &core.JournalEntry{ID: i, Action: core.ActionTypeSupply.String(), Version: 1})
	}

	c = newClientWith(t, store, j)
	status, resp := c.do(http.MethodGet, "/journal?after=1&limit=1", common.Address{}, nil)
	require.Equal(t, http.StatusOK, status)

	var entries []*core.JournalEntry
	require.NoError(t, json.Unmarshal(resp.Data, &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, int64(2), entries[0].ID)
	assert.Equal(t, "supply", entries[0].Action)
}

func TestAuthentication(t *testing.T) {
	c := newClient(t)
	id := c.createMarket()

	c.book.Mint(loanToken, alice, decimal.NewFromInt(1000))
	status, resp := c.do(http.MethodPost, "/markets/"+id+"/supply", alice, map[string]string{"assets": "1000"})
	require.Equal(t, http.StatusOK, status, resp.Msg)

	withdraw := map[string]string{"assets": "1000", "on_behalf": alice.Hex(), "receiver": mallory.Hex()}

	// a self asserted identity is not a login
	header := http.Header{}
	header.Set("X-Caller", alice.Hex())
	status, _ = c.doWithHeader(http.MethodPost, "/markets/"+id+"/withdraw", header, withdraw)
	assert.Equal(t, http.StatusUnauthorized, status)

	header = http.Header{}
	header.Set("Authorization", "Bearer garbage")
	status, _ = c.doWithHeader(http.MethodPost, "/markets/"+id+"/withdraw", header, withdraw)
	assert.Equal(t, http.StatusUnauthorized, status)

	header = http.Header{}
	header.Set("Authorization", "Bearer "+accessToken(t, alice, time.Now().Add(-time.Minute).Unix()))
	status, _ = c.doWithHeader(http.MethodPost, "/markets/"+id+"/withdraw", header, withdraw)
	assert.Equal(t, http.StatusUnauthorized, status)

	// logged in as itself, mallory still acts for nobody else
	status, resp = c.do(http.MethodPost, "/markets/"+id+"/withdraw", mallory, withdraw)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, int(core.ErrUnauthorized), resp.Code)

	status, resp = c.do(http.MethodPost, "/markets/"+id+"/credit-lines", mallory, map[string]string{"borrower": mallory.Hex(), "credit": "1000"})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, int(core.ErrNotCreditLine), resp.Code)

	assert.True(t, c.book.Balance(loanToken, mallory).IsZero())

	// alice herself may withdraw to any receiver
	status, resp = c.do(http.MethodPost, "/markets/"+id+"/withdraw", alice, withdraw)
	require.Equal(t, http.StatusOK, status, resp.Msg)
	assert.Equal(t, "1000", c.book.Balance(loanToken, mallory).String())
}
