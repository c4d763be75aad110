// Package sqlite provides a dao.Store backed by SQLite database files in a
// data directory.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/HienLe2004/menuq/server/dao"
	"modernc.org/sqlite"
)

type store struct {
	dbFilename string

	db *sql.DB

	sessions   *SessionsDB
	utterances *UtterancesDB
}

func NewDatastore(storageDir string) (dao.Store, error) {
	st := &store{
		dbFilename: "data.db",
	}

	fileName := filepath.Join(storageDir, st.dbFilename)

	// foreign keys are off by default in sqlite and the pragma is per
	// connection, so it goes in the DSN for every pooled connection.
	var err error
	st.db, err = sql.Open("sqlite", "file:"+fileName+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, wrapDBError(err)
	}

	st.sessions = &SessionsDB{db: st.db}
	if err := st.sessions.init(); err != nil {
		return nil, fmt.Errorf("init sessions table: %w", err)
	}

	st.utterances = &UtterancesDB{db: st.db}
	if err := st.utterances.init(true); err != nil {
		return nil, fmt.Errorf("init utterances table: %w", err)
	}

	return st, nil
}

func (s *store) Sessions() dao.SessionRepository {
	return s.sessions
}

func (s *store) Utterances() dao.UtteranceRepository {
	return s.utterances
}

func (s *store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("%s: %w", s.dbFilename, err)
	}
	return nil
}

func wrapDBError(err error) error {
	sqliteErr := &sqlite.Error{}
	if errors.As(err, &sqliteErr) {
		if sqliteErr.Code() == 19 {
			return dao.ErrConstraintViolation
		}
		return fmt.Errorf("%s", sqlite.ErrorCodeString[sqliteErr.Code()])
	} else if errors.Is(err, sql.ErrNoRows) {
		return dao.ErrNotFound
	}
	return err
}
