// Package server is the HTTP request boundary: it decodes and validates
// incoming JSON, dispatches to the services, and encodes results. No
// business rules live here.
package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mkhare/splitledger/internal/service"
)

// Server holds the services the HTTP handlers dispatch to.
type Server struct {
	users  *service.UserService
	groups *service.GroupService
	ledger *service.LedgerService
}

// New creates a Server over the given services.
func New(users *service.UserService, groups *service.GroupService, ledger *service.LedgerService) *Server {
	return &Server{users: users, groups: groups, ledger: ledger}
}

// Handler returns the fully wired HTTP handler: routes plus request-id,
// logging, CORS and metrics middleware.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(metricsMiddleware)

	r.HandleFunc("/user/", s.handleCreateUser).Methods(http.MethodPost)
	r.HandleFunc("/group/", s.handleCreateGroup).Methods(http.MethodPost)
	r.HandleFunc("/transaction/", s.handleCreateTransaction).Methods(http.MethodPost)
	r.HandleFunc("/transactions/{userId}", s.handleListBalances).Methods(http.MethodGet)

	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	return requestIDMiddleware(loggingMiddleware(corsMiddleware(r)))
}
