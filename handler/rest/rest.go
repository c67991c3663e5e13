package rest

import (
	"context"
	"errors"
	"net/http"

	"creditmarket/core"
	"creditmarket/handler/auth"
	"creditmarket/handler/param"
	"creditmarket/handler/render"
	"creditmarket/handler/request"
	"creditmarket/pkg/slots"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi"
	"github.com/shopspring/decimal"
)

// Ledger ledger operations and views served over rest
type Ledger interface {
	core.LedgerService
	MarketParams(ctx context.Context, id core.MarketID) (*core.MarketParams, error)
	ExpectedBorrowAssets(ctx context.Context, id core.MarketID, borrower common.Address) (decimal.Decimal, error)
	ExtSloads(ctx context.Context, keys []slots.Key) ([]common.Hash, error)
}

// ErrNoCaller request without a valid access token
var ErrNoCaller = errors.New("login required")

// Handle handle rest api request
func Handle(ledger Ledger, store core.LedgerStore, positions core.PositionReader, session core.Session) http.Handler {
	router := chi.NewRouter()
	router.Use(auth.HandleAuthentication(session))

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.NotFoundRequest(w, errors.New("not found"))
	})

	router.Route("/markets", func(r chi.Router) {
		r.Get("/", listMarketsHandler(ledger, store))
		r.Post("/", createMarketHandler(ledger))

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", marketHandler(ledger))
			r.Get("/params", marketParamsHandler(ledger))
			r.Get("/slots", slotsHandler(ledger))
			r.Get("/positions", positionsHandler(ledger, positions))
			r.Get("/positions/{account}", positionHandler(ledger))
			r.Get("/premiums/{borrower}", premiumHandler(ledger))

			r.Post("/supply", supplyHandler(ledger))
			r.Post("/withdraw", withdrawHandler(ledger))
			r.Post("/borrow", borrowHandler(ledger))
			r.Post("/repay", repayHandler(ledger))
			r.Post("/accrue", accrueHandler(ledger))
			r.Post("/premiums/accrue", accruePremiumsHandler(ledger))
			r.Post("/credit-lines", creditLineHandler(ledger))
			r.Post("/fee", feeHandler(ledger))
			r.Post("/rate-model", rateModelHandler(ledger))
		})
	})

	router.Route("/governance", func(r chi.Router) {
		r.Post("/fee-recipient", feeRecipientHandler(ledger))
		r.Post("/rate-models", enableRateModelHandler(ledger))
		r.Post("/lltvs", enableLltvHandler(ledger))
	})

	router.Post("/authorizations", authorizationHandler(ledger))

	if journal, ok := positions.(core.JournalReader); ok {
		router.Get("/journal", journalHandler(journal))
	}

	return router
}

func marketID(r *http.Request) (core.MarketID, bool) {
	v := chi.URLParam(r, "id")
	if len(v) != 66 {
		return core.MarketID{}, false
	}

	return common.HexToHash(v), true
}

func urlAddress(r *http.Request, key string) (common.Address, error) {
	v := chi.URLParam(r, key)
	if v == "" {
		return common.Address{}, param.ErrInvalidAddress
	}

	return param.Address(v)
}

func caller(r *http.Request) (common.Address, bool) {
	return request.Caller(r.Context())
}
