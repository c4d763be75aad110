// Package mqs has services for interacting with the MenuQ server backend
// decoupled from the API that accesses it.
package mqs

import (
	"fmt"

	"github.com/HienLe2004/menuq/internal/grammar"
	"github.com/HienLe2004/menuq/internal/menu"
	"github.com/HienLe2004/menuq/internal/pipeline"
	"github.com/HienLe2004/menuq/internal/session"
	"github.com/HienLe2004/menuq/server/dao"
)

// Service is a service for interacting with the MenuQ server backend. It
// keeps the live cart of every customer session in memory and makes calls to
// server persistence to record each session and its transcript.
//
// Service must be created with New.
type Service struct {
	// DB is the persistence store of the service.
	DB dao.Store

	// DefaultStrategy is used for sessions created without naming one.
	DefaultStrategy pipeline.Strategy

	menu    *menu.Menu
	grammar grammar.Grammar
	procs   map[pipeline.Strategy]pipeline.Processor
	live    *session.Registry
}

// New creates a Service that serves orders from m and records them in db. An
// interpreter is built for every strategy so that sessions may choose one;
// parseBudget is the step budget of the grammar-based one.
func New(db dao.Store, m *menu.Menu, def pipeline.Strategy, parseBudget int) (*Service, error) {
	g, err := grammar.Build(m)
	if err != nil {
		return nil, fmt.Errorf("build grammar: %w", err)
	}

	svc := &Service{
		DB:              db,
		DefaultStrategy: def,
		menu:            m,
		grammar:         g,
		procs:           map[pipeline.Strategy]pipeline.Processor{},
		live:            &session.Registry{},
	}

	for _, strat := range []pipeline.Strategy{pipeline.Grammar, pipeline.Pattern} {
		interp, err := pipeline.NewInterpreter(strat, m, g, parseBudget)
		if err != nil {
			return nil, fmt.Errorf("initializing %s interpreter: %w", strat, err)
		}
		svc.procs[strat] = pipeline.Processor{Menu: m, Interpreter: interp}
	}

	if _, ok := svc.procs[def]; !ok {
		return nil, fmt.Errorf("unknown default strategy: %v", def)
	}

	return svc, nil
}

// Menu returns every item on the menu.
func (svc *Service) Menu() []menu.Item {
	return svc.menu.Items()
}

// Grammar returns the ordering grammar in its printed form.
func (svc *Service) Grammar() grammar.Grammar {
	return svc.grammar
}

// LiveSessions returns the number of sessions whose carts are in memory.
func (svc *Service) LiveSessions() int {
	return svc.live.Len()
}
