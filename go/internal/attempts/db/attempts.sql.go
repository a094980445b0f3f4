package db

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const attemptColumns = `id, result_id, attempt_number, value, penalty, is_extra_attempt, extra_given, replaced_by,
judge_id, device_id, is_delegate, is_resolved, comment, inspection_time, solved_at, created_at`

func attemptDest(i *Attempt) []interface{} {
	return []interface{}{
		&i.ID,
		&i.ResultID,
		&i.AttemptNumber,
		&i.Value,
		&i.Penalty,
		&i.IsExtraAttempt,
		&i.ExtraGiven,
		&i.ReplacedBy,
		&i.JudgeID,
		&i.DeviceID,
		&i.IsDelegate,
		&i.IsResolved,
		&i.Comment,
		&i.InspectionTime,
		&i.SolvedAt,
		&i.CreatedAt,
	}
}

func scanAttempt(row interface{ Scan(...interface{}) error }) (Attempt, error) {
	var i Attempt
	err := row.Scan(attemptDest(&i)...)
	return i, err
}

const attemptDetailSelect = `
SELECT a.id, a.result_id, a.attempt_number, a.value, a.penalty, a.is_extra_attempt, a.extra_given, a.replaced_by,
       a.judge_id, a.device_id, a.is_delegate, a.is_resolved, a.comment, a.inspection_time, a.solved_at, a.created_at,
       j.registrant_id, j.wca_id, j.name,
       d.name,
       r.event_id, r.round_id,
       p.id, p.registrant_id, p.wca_id, p.name
FROM attempts a
JOIN results r ON r.id = a.result_id
JOIN persons p ON p.id = r.person_id
LEFT JOIN persons j ON j.id = a.judge_id
LEFT JOIN devices d ON d.id = a.device_id`

func scanAttemptDetail(row interface{ Scan(...interface{}) error }) (AttemptDetail, error) {
	var i AttemptDetail
	dest := append(attemptDest(&i.Attempt),
		&i.JudgeRegistrantID,
		&i.JudgeWcaID,
		&i.JudgeName,
		&i.DeviceName,
		&i.EventID,
		&i.RoundID,
		&i.PersonID,
		&i.PersonRegistrantID,
		&i.PersonWcaID,
		&i.PersonName,
	)
	err := row.Scan(dest...)
	return i, err
}

const createAttempt = `-- name: CreateAttempt :one
INSERT INTO attempts (id, result_id, attempt_number, value, penalty, is_extra_attempt, extra_given, replaced_by,
                      judge_id, device_id, is_delegate, is_resolved, comment, inspection_time, solved_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
RETURNING ` + attemptColumns

type CreateAttemptParams struct {
	ID             uuid.UUID     `json:"id"`
	ResultID       uuid.UUID     `json:"result_id"`
	AttemptNumber  int32         `json:"attempt_number"`
	Value          int32         `json:"value"`
	Penalty        int32         `json:"penalty"`
	IsExtraAttempt bool          `json:"is_extra_attempt"`
	ExtraGiven     bool          `json:"extra_given"`
	ReplacedBy     sql.NullInt32 `json:"replaced_by"`
	JudgeID        uuid.NullUUID `json:"judge_id"`
	DeviceID       uuid.NullUUID `json:"device_id"`
	IsDelegate     bool          `json:"is_delegate"`
	IsResolved     bool          `json:"is_resolved"`
	Comment        string        `json:"comment"`
	InspectionTime sql.NullInt32 `json:"inspection_time"`
	SolvedAt       sql.NullTime  `json:"solved_at"`
}

func (q *Queries) CreateAttempt(ctx context.Context, arg CreateAttemptParams) (Attempt, error) {
	row := q.db.QueryRowContext(ctx, createAttempt,
		arg.ID,
		arg.ResultID,
		arg.AttemptNumber,
		arg.Value,
		arg.Penalty,
		arg.IsExtraAttempt,
		arg.ExtraGiven,
		arg.ReplacedBy,
		arg.JudgeID,
		arg.DeviceID,
		arg.IsDelegate,
		arg.IsResolved,
		arg.Comment,
		arg.InspectionTime,
		arg.SolvedAt,
	)
	return scanAttempt(row)
}

const getAttemptForUpdate = `-- name: GetAttemptForUpdate :one
SELECT ` + attemptColumns + ` FROM attempts WHERE id = $1 FOR UPDATE`

func (q *Queries) GetAttemptForUpdate(ctx context.Context, id uuid.UUID) (Attempt, error) {
	return scanAttempt(q.db.QueryRowContext(ctx, getAttemptForUpdate, id))
}

const getAttemptDetail = `-- name: GetAttemptDetail :one` + attemptDetailSelect + `
WHERE a.id = $1`

func (q *Queries) GetAttemptDetail(ctx context.Context, id uuid.UUID) (AttemptDetail, error) {
	return scanAttemptDetail(q.db.QueryRowContext(ctx, getAttemptDetail, id))
}

const listUnresolvedAttempts = `-- name: ListUnresolvedAttempts :many` + attemptDetailSelect + `
WHERE a.is_delegate AND NOT a.is_resolved
ORDER BY a.created_at`

func (q *Queries) ListUnresolvedAttempts(ctx context.Context) ([]AttemptDetail, error) {
	rows, err := q.db.QueryContext(ctx, listUnresolvedAttempts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []AttemptDetail
	for rows.Next() {
		i, err := scanAttemptDetail(rows)
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

const listAttemptsByResults = `-- name: ListAttemptsByResults :many
SELECT ` + attemptColumns + ` FROM attempts
WHERE result_id = ANY($1::uuid[])
ORDER BY created_at, id`

// ListAttemptsByResults returns the attempts of every listed result in
// insertion order.
func (q *Queries) ListAttemptsByResults(ctx context.Context, resultIDs []uuid.UUID) ([]Attempt, error) {
	ids := make([]string, len(resultIDs))
	for i, id := range resultIDs {
		ids[i] = id.String()
	}
	rows, err := q.db.QueryContext(ctx, listAttemptsByResults, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Attempt
	for rows.Next() {
		i, err := scanAttempt(rows)
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

const updateAttempt = `-- name: UpdateAttempt :one
UPDATE attempts
SET attempt_number = $2,
    value = $3,
    penalty = $4,
    is_extra_attempt = $5,
    extra_given = $6,
    replaced_by = $7,
    judge_id = $8,
    is_delegate = $9,
    is_resolved = $10,
    comment = $11
WHERE id = $1
RETURNING ` + attemptColumns

type UpdateAttemptParams struct {
	ID             uuid.UUID     `json:"id"`
	AttemptNumber  int32         `json:"attempt_number"`
	Value          int32         `json:"value"`
	Penalty        int32         `json:"penalty"`
	IsExtraAttempt bool          `json:"is_extra_attempt"`
	ExtraGiven     bool          `json:"extra_given"`
	ReplacedBy     sql.NullInt32 `json:"replaced_by"`
	JudgeID        uuid.NullUUID `json:"judge_id"`
	IsDelegate     bool          `json:"is_delegate"`
	IsResolved     bool          `json:"is_resolved"`
	Comment        string        `json:"comment"`
}

func (q *Queries) UpdateAttempt(ctx context.Context, arg UpdateAttemptParams) (Attempt, error) {
	row := q.db.QueryRowContext(ctx, updateAttempt,
		arg.ID,
		arg.AttemptNumber,
		arg.Value,
		arg.Penalty,
		arg.IsExtraAttempt,
		arg.ExtraGiven,
		arg.ReplacedBy,
		arg.JudgeID,
		arg.IsDelegate,
		arg.IsResolved,
		arg.Comment,
	)
	return scanAttempt(row)
}

const setAttemptNumber = `-- name: SetAttemptNumber :exec
UPDATE attempts SET attempt_number = $2 WHERE id = $1`

type SetAttemptNumberParams struct {
	ID            uuid.UUID `json:"id"`
	AttemptNumber int32     `json:"attempt_number"`
}

func (q *Queries) SetAttemptNumber(ctx context.Context, arg SetAttemptNumberParams) error {
	_, err := q.db.ExecContext(ctx, setAttemptNumber, arg.ID, arg.AttemptNumber)
	return err
}

const deleteAttempt = `-- name: DeleteAttempt :execrows
DELETE FROM attempts WHERE id = $1`

func (q *Queries) DeleteAttempt(ctx context.Context, id uuid.UUID) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteAttempt, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
