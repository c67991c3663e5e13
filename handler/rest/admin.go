package rest

import (
	"net/http"

	"creditmarket/core"
	"creditmarket/handler/param"
	"creditmarket/handler/render"

	"github.com/ethereum/go-ethereum/common"
)

func createMarketHandler(ledger Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, ok := caller(r)
		if !ok {
			render.Unauthorized(w, ErrNoCaller)
			return
		}

		var req struct {
			LoanToken       string `json:"loan_token" valid:"required,address"`
			CollateralToken string `json:"collateral_token" valid:"address"`
			Oracle          string `json:"oracle" valid:"required,address"`
			RateModel       string `json:"rate_model" valid:"address"`
			LLTV            string `json:"lltv" valid:"required,amount"`
			CreditLine      string `json:"credit_line" valid:"required,address"`
		}
		if err := param.Binding(r, &req); err != nil {
			render.BadRequest(w, err)
			return
		}

		lltv, err := param.Amount(req.LLTV)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		params := core.MarketParams{
			LoanToken:       common.HexToAddress(req.LoanToken),
			CollateralToken: common.HexToAddress(req.CollateralToken),
			Oracle:          common.HexToAddress(req.Oracle),
			RateModel:       common.HexToAddress(req.RateModel),
			LLTV:            lltv,
			CreditLine:      common.HexToAddress(req.CreditLine),
		}

		id, err := ledger.CreateMarket(r.Context(), from, params)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, render.H{"id": id.Hex()})
	}
}

func creditLineHandler(ledger Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, ok := caller(r)
		if !ok {
			render.Unauthorized(w, ErrNoCaller)
			return
		}

		id, ok := marketID(r)
		if !ok {
			render.BadRequest(w, errInvalidMarketID)
			return
		}

		var req struct {
			Borrower    string `json:"borrower" valid:"required,address"`
			Credit      string `json:"credit" valid:"required,amount"`
			PremiumRate string `json:"premium_rate" valid:"amount"`
		}
		if err := param.Binding(r, &req); err != nil {
			render.BadRequest(w, err)
			return
		}

		credit, err := param.Amount(req.Credit)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		rate, err := param.Amount(req.PremiumRate)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		borrower := common.HexToAddress(req.Borrower)
		if err := ledger.SetCreditLine(r.Context(), from, id, borrower, credit, rate); err != nil {
			render.Error(w, err)
			return
		}

		position, err := ledger.Position(r.Context(), id, borrower)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, position)
	}
}

func feeHandler(ledger Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, ok := caller(r)
		if !ok {
			render.Unauthorized(w, ErrNoCaller)
			return
		}

		id, ok := marketID(r)
		if !ok {
			render.BadRequest(w, errInvalidMarketID)
			return
		}

		var req struct {
			Fee string `json:"fee" valid:"required,amount"`
		}
		if err := param.Binding(r, &req); err != nil {
			render.BadRequest(w, err)
			return
		}

		fee, err := param.Amount(req.Fee)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		params, err := ledger.MarketParams(r.Context(), id)
		if err != nil {
			render.Error(w, err)
			return
		}

		if err := ledger.SetFee(r.Context(), from, *params, fee); err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, render.H{"fee": fee})
	}
}

func rateModelHandler(ledger Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, ok := caller(r)
		if !ok {
			render.Unauthorized(w, ErrNoCaller)
			return
		}

		id, ok := marketID(r)
		if !ok {
			render.BadRequest(w, errInvalidMarketID)
			return
		}

		var req struct {
			RateModel string `json:"rate_model" valid:"address"`
		}
		if err := param.Binding(r, &req); err != nil {
			render.BadRequest(w, err)
			return
		}

		model := common.HexToAddress(req.RateModel)
		if err := ledger.SetRateModel(r.Context(), from, id, model); err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, render.H{"rate_model": model.Hex()})
	}
}

func feeRecipientHandler(ledger Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, ok := caller(r)
		if !ok {
			render.Unauthorized(w, ErrNoCaller)
			return
		}

		var req struct {
			Recipient string `json:"recipient" valid:"required,address"`
		}
		if err := param.Binding(r, &req); err != nil {
			render.BadRequest(w, err)
			return
		}

		recipient := common.HexToAddress(req.Recipient)
		if err := ledger.SetFeeRecipient(r.Context(), from, recipient); err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, render.H{"recipient": recipient.Hex()})
	}
}

func enableRateModelHandler(ledger Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, ok := caller(r)
		if !ok {
			render.Unauthorized(w, ErrNoCaller)
			return
		}

		var req struct {
			RateModel string `json:"rate_model" valid:"address"`
		}
		if err := param.Binding(r, &req); err != nil {
			render.BadRequest(w, err)
			return
		}

		model := common.HexToAddress(req.RateModel)
		if err := ledger.EnableRateModel(r.Context(), from, model); err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, render.H{"rate_model": model.Hex()})
	}
}

func enableLltvHandler(ledger Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, ok := caller(r)
		if !ok {
			render.Unauthorized(w, ErrNoCaller)
			return
		}

		var req struct {
			LLTV string `json:"lltv" valid:"required,amount"`
		}
		if err := param.Binding(r, &req); err != nil {
			render.BadRequest(w, err)
			return
		}

		lltv, err := param.Amount(req.LLTV)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		if err := ledger.EnableLltv(r.Context(), from, lltv); err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, render.H{"lltv": lltv})
	}
}

func authorizationHandler(ledger Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, ok := caller(r)
		if !ok {
			render.Unauthorized(w, ErrNoCaller)
			return
		}

		var req struct {
			Authorized string `json:"authorized" valid:"required,address"`
			Allowed    bool   `json:"allowed"`
		}
		if err := param.Binding(r, &req); err != nil {
			render.BadRequest(w, err)
			return
		}

		authorized := common.HexToAddress(req.Authorized)
		if err := ledger.SetAuthorization(r.Context(), from, authorized, req.Allowed); err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, render.H{"authorized": authorized.Hex(), "allowed": req.Allowed})
	}
}
