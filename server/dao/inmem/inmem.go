// Package inmem provides a dao.Store that keeps everything in memory and loses
// it on shutdown.
package inmem

import (
	"fmt"

	"github.com/HienLe2004/menuq/server/dao"
)

type store struct {
	sessions   *InMemorySessionsRepository
	utterances *InMemoryUtterancesRepository
}

func NewDatastore() dao.Store {
	return &store{
		sessions:   NewSessionsRepository(),
		utterances: NewUtterancesRepository(),
	}
}

func (s *store) Sessions() dao.SessionRepository {
	return s.sessions
}

func (s *store) Utterances() dao.UtteranceRepository {
	return s.utterances
}

func (s *store) Close() error {
	var err error

	if nextErr := s.sessions.Close(); nextErr != nil {
		err = nextErr
	}
	if nextErr := s.utterances.Close(); nextErr != nil {
		if err != nil {
			err = fmt.Errorf("%s\nadditionally, %w", err, nextErr)
		} else {
			err = nextErr
		}
	}

	return err
}
