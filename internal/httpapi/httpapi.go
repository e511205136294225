// Package httpapi is the external adapter (C8): it validates HTTP
// requests, resolves the account-id header, and calls into
// internal/market under the hood. It owns no matching-engine state of
// its own.
package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"matchbook/internal/market"
)

// Server wraps the HTTP surface over a Market.
type Server struct {
	market *market.Market
	logger zerolog.Logger
}

// NewServer builds the adapter's http.Handler: the account, order and
// quote routes plus a /metrics endpoint, wrapped in permissive CORS
// and request logging.
func NewServer(m *market.Market) http.Handler {
	s := &Server{market: m, logger: log.With().Str("component", "httpapi").Logger()}

	router := mux.NewRouter()
	router.HandleFunc("/api/account/new", s.handleNewAccount).Methods(http.MethodPost)
	router.HandleFunc("/api/account", s.handleGetAccount).Methods(http.MethodGet)
	router.HandleFunc("/api/order/new", s.handleNewOrder).Methods(http.MethodPost)
	router.HandleFunc("/api/order/{id}", s.handleGetOrder).Methods(http.MethodGet)
	router.HandleFunc("/api/order/{id}", s.handleCancelOrder).Methods(http.MethodDelete)
	router.HandleFunc("/api/order", s.handleGetOrdersByAccount).Methods(http.MethodGet)
	router.HandleFunc("/api/quote", s.handleQuote).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	router.NotFoundHandler = http.HandlerFunc(fallback)

	handler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowedHeaders: []string{"account-id", "content-type"},
	}).Handler(router)

	return s.withRequestLog(handler)
}

func fallback(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "Not found", http.StatusNotFound)
}

func (s *Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug().Str("method", r.Method).Str("path", r.URL.Path).Msg("request")
		next.ServeHTTP(w, r)
	})
}
