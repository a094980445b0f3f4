package db

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

const resultWithPersonSelect = `
SELECT r.id, r.person_id, r.event_id, r.round_id, r.created_at, r.updated_at,
       p.registrant_id, p.wca_id, p.name
FROM results r
JOIN persons p ON p.id = r.person_id`

func scanResultWithPerson(row interface{ Scan(...interface{}) error }) (ResultWithPerson, error) {
	var i ResultWithPerson
	err := row.Scan(
		&i.ID,
		&i.PersonID,
		&i.EventID,
		&i.RoundID,
		&i.CreatedAt,
		&i.UpdatedAt,
		&i.PersonRegistrantID,
		&i.PersonWcaID,
		&i.PersonName,
	)
	return i, err
}

const insertResultIfMissing = `-- name: InsertResultIfMissing :exec
INSERT INTO results (id, person_id, event_id, round_id)
VALUES ($1, $2, $3, $4)
ON CONFLICT (person_id, round_id) DO NOTHING`

type InsertResultIfMissingParams struct {
	ID       uuid.UUID `json:"id"`
	PersonID uuid.UUID `json:"person_id"`
	EventID  string    `json:"event_id"`
	RoundID  string    `json:"round_id"`
}

func (q *Queries) InsertResultIfMissing(ctx context.Context, arg InsertResultIfMissingParams) error {
	_, err := q.db.ExecContext(ctx, insertResultIfMissing,
		arg.ID,
		arg.PersonID,
		arg.EventID,
		arg.RoundID,
	)
	return err
}

const getResult = `-- name: GetResult :one` + resultWithPersonSelect + `
WHERE r.id = $1`

func (q *Queries) GetResult(ctx context.Context, id uuid.UUID) (ResultWithPerson, error) {
	return scanResultWithPerson(q.db.QueryRowContext(ctx, getResult, id))
}

const getResultByPersonAndRound = `-- name: GetResultByPersonAndRound :one` + resultWithPersonSelect + `
WHERE r.person_id = $1 AND r.round_id = $2`

type GetResultByPersonAndRoundParams struct {
	PersonID uuid.UUID `json:"person_id"`
	RoundID  string    `json:"round_id"`
}

func (q *Queries) GetResultByPersonAndRound(ctx context.Context, arg GetResultByPersonAndRoundParams) (ResultWithPerson, error) {
	return scanResultWithPerson(q.db.QueryRowContext(ctx, getResultByPersonAndRound, arg.PersonID, arg.RoundID))
}

const listResultsByRound = `-- name: ListResultsByRound :many` + resultWithPersonSelect + `
WHERE r.round_id = $1
  AND ($2::text = ''
       OR p.name ILIKE '%' || $2 || '%'
       OR p.wca_id ILIKE '%' || $2 || '%'
       OR p.registrant_id = $3)
ORDER BY p.name`

type ListResultsByRoundParams struct {
	RoundID      string        `json:"round_id"`
	Search       string        `json:"search"`
	RegistrantID sql.NullInt32 `json:"registrant_id"`
}

func (q *Queries) ListResultsByRound(ctx context.Context, arg ListResultsByRoundParams) ([]ResultWithPerson, error) {
	rows, err := q.db.QueryContext(ctx, listResultsByRound, arg.RoundID, arg.Search, arg.RegistrantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ResultWithPerson
	for rows.Next() {
		i, err := scanResultWithPerson(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const touchResult = `-- name: TouchResult :exec
UPDATE results SET updated_at = now() WHERE id = $1`

func (q *Queries) TouchResult(ctx context.Context, id uuid.UUID) error {
	_, err := q.db.ExecContext(ctx, touchResult, id)
	return err
}
