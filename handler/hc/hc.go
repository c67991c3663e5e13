package hc

import (
	"context"
	"net/http"
	"time"

	"creditmarket/core"
	"creditmarket/handler/render"

	"github.com/fox-one/pkg/logger"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
)

const storeTimeout = 2 * time.Second

// Handle health check, reports the ledger store reachable
func Handle(ver string, store core.LedgerStore) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.NoCache)
	r.Handle("/", handle(ver, store))
	return r
}

func handle(version string, store core.LedgerStore) http.HandlerFunc {
	b := time.Now()
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
		defer cancel()

		markets, err := store.ListMarkets(ctx)
		if err != nil {
			logger.FromContext(ctx).WithError(err).Errorln("hc: ListMarkets")
			render.Unavailable(w, err)
			return
		}

		uptime := time.Since(b).Truncate(time.Millisecond)
		render.JSON(w, render.H{
			"uptime":  uptime.String(),
			"version": version,
			"markets": len(markets),
		})
	}
}
