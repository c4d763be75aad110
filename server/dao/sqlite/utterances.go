package sqlite

import (
	"context"
	"database/sql"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/HienLe2004/menuq/server/dao"
	"github.com/dekarrin/rezi"
	"github.com/google/uuid"
)

type UtterancesDB struct {
	db *sql.DB
}

func (repo *UtterancesDB) init(fk bool) error {
	stmt := `CREATE TABLE IF NOT EXISTS utterances (
		id TEXT NOT NULL PRIMARY KEY,
		seq INTEGER NOT NULL,
		session_id TEXT NOT NULL`

	if fk {
		stmt += ` REFERENCES sessions(id) ON DELETE CASCADE ON UPDATE CASCADE`
	}

	stmt += `,
		input TEXT NOT NULL,
		structure TEXT NOT NULL,
		semantics TEXT NOT NULL,
		db_operation TEXT NOT NULL,
		logical_form TEXT NOT NULL,
		answer TEXT NOT NULL,
		cart TEXT NOT NULL,
		created INTEGER NOT NULL
	);`
	_, err := repo.db.Exec(stmt)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

const utteranceColumns = `id, session_id, input, structure, semantics, db_operation, logical_form, answer, cart, created`

func (repo *UtterancesDB) Create(ctx context.Context, u dao.Utterance) (dao.Utterance, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Utterance{}, fmt.Errorf("could not generate ID: %w", err)
	}

	stmt, err := repo.db.Prepare(`INSERT INTO utterances (id, seq, session_id, input, structure, semantics, db_operation, logical_form, answer, cart, created)
		VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM utterances), ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return dao.Utterance{}, wrapDBError(err)
	}
	defer stmt.Close()

	cartData := rezi.EncBinary(cartSnapshot(u.Cart))
	encCart := base64.StdEncoding.EncodeToString(cartData)

	_, err = stmt.ExecContext(
		ctx,
		newUUID.String(),
		u.SessionID.String(),
		u.Input,
		u.Structure,
		u.Semantics,
		u.DBOperation,
		u.LogicalForm,
		u.Answer,
		encCart,
		time.Now().Unix(),
	)
	if err != nil {
		return dao.Utterance{}, wrapDBError(err)
	}

	return repo.GetByID(ctx, newUUID)
}

func (repo *UtterancesDB) GetByID(ctx context.Context, id uuid.UUID) (dao.Utterance, error) {
	row := repo.db.QueryRowContext(ctx, `SELECT `+utteranceColumns+` FROM utterances WHERE id = ?;`, id.String())
	return scanUtterance(row)
}

func (repo *UtterancesDB) GetAllBySession(ctx context.Context, sessionID uuid.UUID) ([]dao.Utterance, error) {
	rows, err := repo.db.QueryContext(ctx, `SELECT `+utteranceColumns+` FROM utterances WHERE session_id = ? ORDER BY seq;`, sessionID.String())
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	all := []dao.Utterance{}
	for rows.Next() {
		u, err := scanUtterance(rows)
		if err != nil {
			return all, err
		}
		all = append(all, u)
	}

	if err := rows.Err(); err != nil {
		return all, wrapDBError(err)
	}

	return all, nil
}

func (repo *UtterancesDB) DeleteAllBySession(ctx context.Context, sessionID uuid.UUID) ([]dao.Utterance, error) {
	curVals, err := repo.GetAllBySession(ctx, sessionID)
	if err != nil {
		return curVals, err
	}

	_, err = repo.db.ExecContext(ctx, `DELETE FROM utterances WHERE session_id = ?`, sessionID.String())
	if err != nil {
		return curVals, wrapDBError(err)
	}

	return curVals, nil
}

func (repo *UtterancesDB) Close() error {
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUtterance(row scanner) (dao.Utterance, error) {
	var u dao.Utterance
	var id string
	var sessionID string
	var encCart string
	var created int64

	err := row.Scan(
		&id,
		&sessionID,
		&u.Input,
		&u.Structure,
		&u.Semantics,
		&u.DBOperation,
		&u.LogicalForm,
		&u.Answer,
		&encCart,
		&created,
	)
	if err != nil {
		return u, wrapDBError(err)
	}

	u.ID, err = uuid.Parse(id)
	if err != nil {
		return u, fmt.Errorf("stored UUID %q is invalid: %w", id, err)
	}
	u.SessionID, err = uuid.Parse(sessionID)
	if err != nil {
		return u, fmt.Errorf("stored session ID %q is invalid: %w", sessionID, err)
	}
	u.Created = time.Unix(created, 0)

	cartData, err := base64.StdEncoding.DecodeString(encCart)
	if err != nil {
		return u, fmt.Errorf("stored cart for %s is invalid: %w", u.ID.String(), err)
	}
	var snap cartSnapshot
	if _, err := rezi.DecBinary(cartData, &snap); err != nil {
		return u, fmt.Errorf("stored cart for %s could not be decoded: %w", u.ID.String(), err)
	}
	u.Cart = []dao.CartLine(snap)

	return u, nil
}
