package db

import (
	"context"

	"github.com/google/uuid"
)

const createAttendance = `-- name: CreateAttendance :one
INSERT INTO attendance (id, person_id, device_id, group_id, role)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, person_id, device_id, group_id, role, created_at`

type CreateAttendanceParams struct {
	ID       uuid.UUID     `json:"id"`
	PersonID uuid.UUID     `json:"person_id"`
	DeviceID uuid.NullUUID `json:"device_id"`
	GroupID  string        `json:"group_id"`
	Role     string        `json:"role"`
}

func (q *Queries) CreateAttendance(ctx context.Context, arg CreateAttendanceParams) (Attendance, error) {
	row := q.db.QueryRowContext(ctx, createAttendance, arg.ID, arg.PersonID, arg.DeviceID, arg.GroupID, arg.Role)
	var i Attendance
	err := row.Scan(&i.ID, &i.PersonID, &i.DeviceID, &i.GroupID, &i.Role, &i.CreatedAt)
	return i, err
}

const listAttendanceByGroup = `-- name: ListAttendanceByGroup :many
SELECT id, person_id, device_id, group_id, role, created_at
FROM attendance WHERE group_id = $1
ORDER BY created_at`

func (q *Queries) ListAttendanceByGroup(ctx context.Context, groupID string) ([]Attendance, error) {
	rows, err := q.db.QueryContext(ctx, listAttendanceByGroup, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Attendance
	for rows.Next() {
		var i Attendance
		if err := rows.Scan(&i.ID, &i.PersonID, &i.DeviceID, &i.GroupID, &i.Role, &i.CreatedAt); err != nil {
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
