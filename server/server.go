// Package server provides an HTTP REST server that takes Vietnamese food
// orders for many customer sessions at once.
package server

import (
	"fmt"
	"log"
	"net/http"

	"github.com/HienLe2004/menuq/internal/menu"
	"github.com/HienLe2004/menuq/server/api"
	"github.com/HienLe2004/menuq/server/dao"
	"github.com/HienLe2004/menuq/server/mqs"
)

// MenuQServer is an HTTP REST server that interprets food orders. Each client
// creates a session and receives a token; every utterance sent with that
// token is applied to the cart of that session alone.
//
// The zero-value of a MenuQServer should not be used directly; call New() to
// get one ready for use.
type MenuQServer struct {
	db     dao.Store
	router http.Handler
	api    api.API
}

// New creates a new MenuQServer from the given config. Unset config values
// are filled with their defaults before it is validated.
func New(cfg Config) (*MenuQServer, error) {
	cfg = cfg.FillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	m, err := menu.Load(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}

	db, err := cfg.Store.Open()
	if err != nil {
		return nil, err
	}

	svc, err := mqs.New(db, m, cfg.Strategy, cfg.ParseBudget)
	if err != nil {
		db.Close()
		return nil, err
	}

	srv := &MenuQServer{
		db: db,
		api: api.API{
			Backend:     svc,
			UnauthDelay: cfg.UnauthDelay(),
			Secret:      cfg.TokenSecret,
		},
	}
	srv.router = newRouter(srv.api)

	return srv, nil
}

// Handler returns the handler that serves every route of the API.
func (srv *MenuQServer) Handler() http.Handler {
	return srv.router
}

// ServeForever begins listening on the given address and port for HTTP REST
// client requests. If address is kept as "", it will default to "localhost".
// If port is less than 1, it will default to 8080.
func (srv *MenuQServer) ServeForever(address string, port int) {
	if address == "" {
		address = "localhost"
	}
	if port < 1 {
		port = 8080
	}

	listenAddress := fmt.Sprintf("%s:%d", address, port)
	log.Printf("INFO  Listening on %s", listenAddress)
	log.Fatalf("FATAL %v", http.ListenAndServe(listenAddress, srv.router))
}

// Close closes the persistence store of the server.
func (srv *MenuQServer) Close() error {
	return srv.db.Close()
}
