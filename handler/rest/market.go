package rest

import (
	"errors"
	"net/http"
	"strings"

	"creditmarket/core"
	"creditmarket/handler/param"
	"creditmarket/handler/render"
	"creditmarket/handler/views"
	"creditmarket/pkg/slots"

	"github.com/spf13/cast"
)

var errInvalidMarketID = errors.New("invalid market id")

func listMarketsHandler(ledger Ledger, store core.LedgerStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		markets, err := store.ListMarkets(ctx)
		if err != nil {
			render.Error(w, err)
			return
		}

		marketViews := make([]*views.Market, 0, len(markets))
		for _, m := range markets {
			if !m.IsCreated() {
				continue
			}
			marketViews = append(marketViews, views.MarketView(m, nil))
		}

		render.JSON(w, marketViews)
	}
}

func marketHandler(ledger Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, ok := marketID(r)
		if !ok {
			render.BadRequest(w, errInvalidMarketID)
			return
		}

		market, err := ledger.Market(ctx, id)
		if err != nil {
			render.Error(w, err)
			return
		}

		expected, err := ledger.ExpectedMarketBalances(ctx, id)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, views.MarketView(market, expected))
	}
}

func marketParamsHandler(ledger Ledger) http.HandlerFunc {
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

		render.JSON(w, params)
	}
}

func positionHandler(ledger Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, ok := marketID(r)
		if !ok {
			render.BadRequest(w, errInvalidMarketID)
			return
		}

		account, err := urlAddress(r, "account")
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		market, err := ledger.ExpectedMarketBalances(ctx, id)
		if err != nil {
			render.Error(w, err)
			return
		}

		position, err := ledger.Position(ctx, id, account)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, views.PositionView(market, position))
	}
}

func positionsHandler(ledger Ledger, positions core.PositionReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, ok := marketID(r)
		if !ok {
			render.BadRequest(w, errInvalidMarketID)
			return
		}

		var params struct {
			Accounts []string `json:"account" valid:"required"`
		}
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		accounts, err := addresses(params.Accounts)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		market, err := ledger.ExpectedMarketBalances(ctx, id)
		if err != nil {
			render.Error(w, err)
			return
		}

		list, err := positions.FindPositions(ctx, id, accounts)
		if err != nil {
			render.Error(w, err)
			return
		}

		positionViews := make([]*views.Position, len(list))
		for i, p := range list {
			positionViews[i] = views.PositionView(market, p)
		}

		render.JSON(w, positionViews)
	}
}

func premiumHandler(ledger Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := marketID(r)
		if !ok {
			render.BadRequest(w, errInvalidMarketID)
			return
		}

		borrower, err := urlAddress(r, "borrower")
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		premium, err := ledger.Premium(r.Context(), id, borrower)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, premium)
	}
}

var slotKinds = map[string]slots.Kind{
	"market":   slots.KindMarket,
	"position": slots.KindPosition,
	"premium":  slots.KindPremium,
}

func slotsHandler(ledger Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := marketID(r)
		if !ok {
			render.BadRequest(w, errInvalidMarketID)
			return
		}

		var params struct {
			Kind    string `json:"kind" valid:"required,in(market|position|premium)"`
			Account string `json:"account" valid:"address"`
			Index   string `json:"index" valid:"int"`
		}
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		account, err := param.Address(params.Account)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		key := slots.Key{
			Kind:     slotKinds[strings.ToLower(params.Kind)],
			MarketID: id,
			Account:  account,
			Index:    cast.ToInt(params.Index),
		}

		words, err := ledger.ExtSloads(r.Context(), []slots.Key{key})
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, words)
	}
}

const (
	defaultJournalLimit = 100
	maxJournalLimit     = 500
)

func journalHandler(journal core.JournalReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		after := cast.ToInt64(query.Get("after"))
		limit := cast.ToInt(query.Get("limit"))
		if limit <= 0 {
			limit = defaultJournalLimit
		} else if limit > maxJournalLimit {
			limit = maxJournalLimit
		}

		entries, err := journal.Journal(r.Context(), after, limit)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, entries)
	}
}
