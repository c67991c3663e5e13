package handler

import (
	"net/http"

	"creditmarket/core"
	"creditmarket/handler/hc"
	"creditmarket/handler/rest"

	"github.com/fox-one/pkg/logger"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

// Server server
type Server struct {
	ledger    rest.Ledger
	store     core.LedgerStore
	positions core.PositionReader
	session   core.Session
	version   string
}

// New new server function
func New(ledger rest.Ledger, store core.LedgerStore, positions core.PositionReader, session core.Session, version string) Server {
	return Server{
		ledger:    ledger,
		store:     store,
		positions: positions,
		session:   session,
		version:   version,
	}
}

// Handler root handler with hc, metrics and the rest api under /api
func (s Server) Handler() http.Handler {
	mux := chi.NewMux()
	mux.Use(middleware.Recoverer)
	mux.Use(middleware.StripSlashes)
	mux.Use(cors.AllowAll().Handler)
	mux.Use(logger.WithRequestID)
	mux.Use(middleware.Logger)

	mux.Mount("/hc", hc.Handle(s.version, s.store))
	mux.Handle("/metrics", promhttp.Handler())
	mux.Mount("/api", s.HandleRestAPI())

	return mux
}

// HandleRestAPI handle restful apis
func (s Server) HandleRestAPI() http.Handler {
	return rest.Handle(s.ledger, s.store, s.positions, s.session)
}
