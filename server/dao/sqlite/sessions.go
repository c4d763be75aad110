package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/HienLe2004/menuq/server/dao"
	"github.com/google/uuid"
)

type SessionsDB struct {
	db *sql.DB
}

func (repo *SessionsDB) init() error {
	_, err := repo.db.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		id TEXT NOT NULL PRIMARY KEY,
		strategy TEXT NOT NULL,
		created INTEGER NOT NULL,
		last_active INTEGER NOT NULL
	);`)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

func (repo *SessionsDB) Create(ctx context.Context, s dao.Session) (dao.Session, error) {
	if s.ID == uuid.Nil {
		newUUID, err := uuid.NewRandom()
		if err != nil {
			return dao.Session{}, fmt.Errorf("could not generate ID: %w", err)
		}
		s.ID = newUUID
	}

	stmt, err := repo.db.Prepare(`INSERT INTO sessions (id, strategy, created, last_active) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return dao.Session{}, wrapDBError(err)
	}
	defer stmt.Close()

	now := time.Now()
	_, err = stmt.ExecContext(ctx, s.ID.String(), s.Strategy, now.Unix(), now.Unix())
	if err != nil {
		return dao.Session{}, wrapDBError(err)
	}

	return repo.GetByID(ctx, s.ID)
}

func (repo *SessionsDB) GetAll(ctx context.Context) ([]dao.Session, error) {
	rows, err := repo.db.QueryContext(ctx, `SELECT id, strategy, created, last_active FROM sessions ORDER BY id;`)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var all []dao.Session

	for rows.Next() {
		var s dao.Session
		var id string
		var created int64
		var lastActive int64
		err = rows.Scan(
			&id,
			&s.Strategy,
			&created,
			&lastActive,
		)
		if err != nil {
			return nil, wrapDBError(err)
		}

		s.ID, err = uuid.Parse(id)
		if err != nil {
			return all, fmt.Errorf("stored UUID %q is invalid: %w", id, err)
		}
		s.Created = time.Unix(created, 0)
		s.LastActive = time.Unix(lastActive, 0)

		all = append(all, s)
	}

	if err := rows.Err(); err != nil {
		return all, wrapDBError(err)
	}

	return all, nil
}

func (repo *SessionsDB) GetByID(ctx context.Context, id uuid.UUID) (dao.Session, error) {
	s := dao.Session{
		ID: id,
	}
	var created int64
	var lastActive int64

	row := repo.db.QueryRowContext(ctx, `SELECT strategy, created, last_active FROM sessions WHERE id = ?;`,
		id.String(),
	)
	err := row.Scan(
		&s.Strategy,
		&created,
		&lastActive,
	)
	if err != nil {
		return s, wrapDBError(err)
	}

	s.Created = time.Unix(created, 0)
	s.LastActive = time.Unix(lastActive, 0)

	return s, nil
}

func (repo *SessionsDB) Update(ctx context.Context, id uuid.UUID, s dao.Session) (dao.Session, error) {
	// deliberately not updating created
	res, err := repo.db.ExecContext(ctx, `UPDATE sessions SET id=?, strategy=?, last_active=? WHERE id=?;`,
		s.ID.String(),
		s.Strategy,
		s.LastActive.Unix(),
		id.String(),
	)
	if err != nil {
		return dao.Session{}, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return dao.Session{}, wrapDBError(err)
	}
	if rowsAff < 1 {
		return dao.Session{}, dao.ErrNotFound
	}

	return repo.GetByID(ctx, s.ID)
}

func (repo *SessionsDB) Delete(ctx context.Context, id uuid.UUID) (dao.Session, error) {
	curVal, err := repo.GetByID(ctx, id)
	if err != nil {
		return curVal, err
	}

	res, err := repo.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id.String())
	if err != nil {
		return curVal, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return curVal, wrapDBError(err)
	}
	if rowsAff < 1 {
		return curVal, dao.ErrNotFound
	}

	return curVal, nil
}

func (repo *SessionsDB) Close() error {
	return nil
}
