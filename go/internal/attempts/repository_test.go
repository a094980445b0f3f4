package attempts

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fkmtimer/fkm/go/internal/attempts/db"
	"github.com/fkmtimer/fkm/go/internal/models"
)

const (
	selectForUpdate  = `SELECT .+ FROM attempts WHERE id = \$1 FOR UPDATE`
	setAttemptNumber = `UPDATE attempts SET attempt_number = \$2 WHERE id = \$1`
)

var attemptRowColumns = []string{
	"id", "result_id", "attempt_number", "value", "penalty", "is_extra_attempt", "extra_given", "replaced_by",
	"judge_id", "device_id", "is_delegate", "is_resolved", "comment", "inspection_time", "solved_at", "created_at",
}

func attemptRow(id, resultID uuid.UUID, number int) *sqlmock.Rows {
	values := []driver.Value{
		id.String(), resultID.String(), int64(number), int64(1234), int64(0), false, false, nil,
		nil, nil, false, true, "", nil, nil, time.Date(2025, 5, 17, 10, 0, 0, 0, time.UTC),
	}
	return sqlmock.NewRows(attemptRowColumns).AddRow(values...)
}

func newMockRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return NewRepository(db.New(mockDB), mockDB), mock
}

func TestSwapAttemptNumbersCommits(t *testing.T) {
	repo, mock := newMockRepository(t)
	resultID := uuid.New()
	first, second := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(selectForUpdate).WithArgs(first).WillReturnRows(attemptRow(first, resultID, 1))
	mock.ExpectQuery(selectForUpdate).WithArgs(second).WillReturnRows(attemptRow(second, resultID, 3))
	mock.ExpectExec(setAttemptNumber).WithArgs(first, int32(3)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(setAttemptNumber).WithArgs(second, int32(1)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.SwapAttemptNumbers(context.Background(), first, second))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSwapAttemptNumbersRollsBack(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(mock sqlmock.Sqlmock, first, second uuid.UUID)
		wantErr error
	}{
		{
			name: "second update fails",
			setup: func(mock sqlmock.Sqlmock, first, second uuid.UUID) {
				resultID := uuid.New()
				mock.ExpectQuery(selectForUpdate).WithArgs(first).WillReturnRows(attemptRow(first, resultID, 1))
				mock.ExpectQuery(selectForUpdate).WithArgs(second).WillReturnRows(attemptRow(second, resultID, 2))
				mock.ExpectExec(setAttemptNumber).WithArgs(first, int32(2)).WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec(setAttemptNumber).WithArgs(second, int32(1)).WillReturnError(errors.New("connection reset"))
			},
		},
		{
			name: "attempts of different results",
			setup: func(mock sqlmock.Sqlmock, first, second uuid.UUID) {
				mock.ExpectQuery(selectForUpdate).WithArgs(first).WillReturnRows(attemptRow(first, uuid.New(), 1))
				mock.ExpectQuery(selectForUpdate).WithArgs(second).WillReturnRows(attemptRow(second, uuid.New(), 2))
			},
			wantErr: models.ErrValidation,
		},
		{
			name: "missing attempt",
			setup: func(mock sqlmock.Sqlmock, first, second uuid.UUID) {
				mock.ExpectQuery(selectForUpdate).WithArgs(first).WillReturnRows(attemptRow(first, uuid.New(), 1))
				mock.ExpectQuery(selectForUpdate).WithArgs(second).WillReturnRows(sqlmock.NewRows(attemptRowColumns))
			},
			wantErr: models.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepository(t)
			first, second := uuid.New(), uuid.New()

			mock.ExpectBegin()
			tt.setup(mock, first, second)
			mock.ExpectRollback()

			err := repo.SwapAttemptNumbers(context.Background(), first, second)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
