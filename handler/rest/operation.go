package rest

import (
	"net/http"

	"creditmarket/core"
	"creditmarket/handler/param"
	"creditmarket/handler/render"
	"creditmarket/handler/views"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

type operationRequest struct {
	Assets   string `json:"assets" valid:"amount"`
	Shares   string `json:"shares" valid:"amount"`
	OnBehalf string `json:"on_behalf" valid:"address"`
	Receiver string `json:"receiver" valid:"address"`
}

type operation struct {
	caller   common.Address
	params   core.MarketParams
	assets   decimal.Decimal
	shares   decimal.Decimal
	onBehalf common.Address
	receiver common.Address
}

// bindOperation resolve caller, market params and amounts, on behalf and receiver default to the caller
func bindOperation(w http.ResponseWriter, r *http.Request, ledger Ledger) (*operation, bool) {
	from, ok := caller(r)
	if !ok {
		render.Unauthorized(w, ErrNoCaller)
		return nil, false
	}

	id, ok := marketID(r)
	if !ok {
		render.BadRequest(w, errInvalidMarketID)
		return nil, false
	}

	var req operationRequest
	if err := param.Binding(r, &req); err != nil {
		render.BadRequest(w, err)
		return nil, false
	}

	params, err := ledger.MarketParams(r.Context(), id)
	if err != nil {
		render.Error(w, err)
		return nil, false
	}

	op := &operation{caller: from, params: *params, onBehalf: from, receiver: from}
	if op.assets, err = param.Amount(req.Assets); err == nil {
		op.shares, err = param.Amount(req.Shares)
	}
	if err != nil {
		render.BadRequest(w, err)
		return nil, false
	}

	if req.OnBehalf != "" {
		op.onBehalf = common.HexToAddress(req.OnBehalf)
	}

	if req.Receiver != "" {
		op.receiver = common.HexToAddress(req.Receiver)
	}

	return op, true
}

func renderOperation(w http.ResponseWriter, assets, shares decimal.Decimal, err error) {
	if err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, views.Operation{Assets: assets, Shares: shares})
}

func supplyHandler(ledger Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		op, ok := bindOperation(w, r, ledger)
		if !ok {
			return
		}

		assets, shares, err := ledger.Supply(r.Context(), op.caller, op.params, op.assets, op.shares, op.onBehalf)
		renderOperation(w, assets, shares, err)
	}
}

func withdrawHandler(ledger Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		op, ok := bindOperation(w, r, ledger)
		if !ok {
			return
		}

		assets, shares, err := ledger.Withdraw(r.Context(), op.caller, op.params, op.assets, op.shares, op.onBehalf, op.receiver)
		renderOperation(w, assets, shares, err)
	}
}

func borrowHandler(ledger Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		op, ok := bindOperation(w, r, ledger)
		if !ok {
			return
		}

		assets, shares, err := ledger.Borrow(r.Context(), op.caller, op.params, op.assets, op.shares, op.onBehalf, op.receiver)
		renderOperation(w, assets, shares, err)
	}
}

func repayHandler(ledger Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		op, ok := bindOperation(w, r, ledger)
		if !ok {
			return
		}

		assets, shares, err := ledger.Repay(r.Context(), op.caller, op.params, op.assets, op.shares, op.onBehalf)
		renderOperation(w, assets, shares, err)
	}
}

func accrueHandler(ledger Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := marketID(r)
		if !ok {
			render.BadRequest(w, errInvalidMarketID)
			return
		}

		params, err := ledger.MarketParams(r.Context(), id)
		if err != nil {
			render.Error(w, err)
			return
		}

		if err := ledger.AccrueInterest(r.Context(), *params); err != nil {
			render.Error(w, err)
			return
		}

		market, err := ledger.Market(r.Context(), id)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, views.MarketView(market, nil))
	}
}

func accruePremiumsHandler(ledger Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := marketID(r)
		if !ok {
			render.BadRequest(w, errInvalidMarketID)
			return
		}

		var req struct {
			Borrowers []string `json:"borrowers"`
		}
		if err := param.Binding(r, &req); err != nil {
			render.BadRequest(w, err)
			return
		}

		borrowers, err := addresses(req.Borrowers)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		if err := ledger.AccrueBorrowerPremiums(r.Context(), id, borrowers); err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, render.H{"borrowers": len(borrowers)})
	}
}

func addresses(list []string) ([]common.Address, error) {
	out := make([]common.Address, len(list))
	for i, s := range list {
		a, err := param.Address(s)
		if err != nil {
			return nil, err
		}
		out[i] = a
	}

	return out, nil
}
