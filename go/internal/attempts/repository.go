package attempts

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/fkmtimer/fkm/go/internal/attempts/db"
	"github.com/fkmtimer/fkm/go/internal/models"
	"github.com/fkmtimer/fkm/go/internal/sqlutil"
)

// Querier defines what the repository needs from the database layer
type Querier interface {
	CreateAttempt(ctx context.Context, arg db.CreateAttemptParams) (db.Attempt, error)
	GetAttemptDetail(ctx context.Context, id uuid.UUID) (db.AttemptDetail, error)
	ListUnresolvedAttempts(ctx context.Context) ([]db.AttemptDetail, error)
	ListAttemptsByResults(ctx context.Context, resultIDs []uuid.UUID) ([]db.Attempt, error)
	UpdateAttempt(ctx context.Context, arg db.UpdateAttemptParams) (db.Attempt, error)
	DeleteAttempt(ctx context.Context, id uuid.UUID) (int64, error)
}

// Repository implements attempt data access
type Repository struct {
	db      *sql.DB
	queries Querier
}

// NewRepository creates a new attempts repository. database is used for
// the multi-row writes that need a transaction.
func NewRepository(querier Querier, database *sql.DB) *Repository {
	return &Repository{
		db:      database,
		queries: querier,
	}
}

// CreateAttempt inserts an attempt. a.ID is ignored.
func (r *Repository) CreateAttempt(ctx context.Context, a models.Attempt) (*models.Attempt, error) {
	attempt, err := r.queries.CreateAttempt(ctx, db.CreateAttemptParams{
		ID:             uuid.New(),
		ResultID:       a.ResultID,
		AttemptNumber:  int32(a.AttemptNumber),
		Value:          int32(a.Value),
		Penalty:        int32(a.Penalty),
		IsExtraAttempt: a.IsExtraAttempt,
		ExtraGiven:     a.ExtraGiven,
		ReplacedBy:     sqlutil.ToSqlInt32(a.ReplacedBy),
		JudgeID:        sqlutil.ToNullUUID(a.JudgeID),
		DeviceID:       sqlutil.ToNullUUID(a.DeviceID),
		IsDelegate:     a.IsDelegate,
		IsResolved:     a.IsResolved,
		Comment:        a.Comment,
		InspectionTime: sqlutil.ToSqlInt32(a.InspectionTime),
		SolvedAt:       sqlutil.ToSqlTime(a.SolvedAt),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create attempt: %w", sqlutil.MapError(err))
	}
	return dbAttemptToModel(attempt), nil
}

// GetAttemptDetail retrieves an attempt with its judge, device and result
func (r *Repository) GetAttemptDetail(ctx context.Context, id uuid.UUID) (*AttemptDetail, error) {
	detail, err := r.queries.GetAttemptDetail(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get attempt: %w", sqlutil.MapError(err))
	}
	return dbDetailToModel(detail), nil
}

// ListUnresolved returns delegate incidents nobody resolved yet
func (r *Repository) ListUnresolved(ctx context.Context) ([]AttemptDetail, error) {
	details, err := r.queries.ListUnresolvedAttempts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list unresolved attempts: %w", err)
	}
	out := make([]AttemptDetail, len(details))
	for i, d := range details {
		out[i] = *dbDetailToModel(d)
	}
	return out, nil
}

// ListByResults returns the attempts of each result, in insertion order
func (r *Repository) ListByResults(ctx context.Context, resultIDs []uuid.UUID) (map[uuid.UUID][]models.Attempt, error) {
	out := make(map[uuid.UUID][]models.Attempt, len(resultIDs))
	if len(resultIDs) == 0 {
		return out, nil
	}
	attempts, err := r.queries.ListAttemptsByResults(ctx, resultIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}
	for _, a := range attempts {
		out[a.ResultID] = append(out[a.ResultID], *dbAttemptToModel(a))
	}
	return out, nil
}

// UpdateAttempt overwrites the mutable fields of an attempt
func (r *Repository) UpdateAttempt(ctx context.Context, id uuid.UUID, req UpdateAttemptRequest) (*models.Attempt, error) {
	attempt, err := r.queries.UpdateAttempt(ctx, db.UpdateAttemptParams{
		ID:             id,
		AttemptNumber:  int32(req.AttemptNumber),
		Value:          int32(req.Value),
		Penalty:        int32(req.Penalty),
		IsExtraAttempt: req.IsExtraAttempt,
		ExtraGiven:     req.ExtraGiven,
		ReplacedBy:     sqlutil.ToSqlInt32(req.ReplacedBy),
		JudgeID:        sqlutil.ToNullUUID(req.JudgeID),
		IsDelegate:     req.IsDelegate,
		IsResolved:     req.IsResolved,
		Comment:        req.Comment,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update attempt: %w", sqlutil.MapError(err))
	}
	return dbAttemptToModel(attempt), nil
}

// SwapAttemptNumbers exchanges the attempt numbers of two attempts of the
// same result in one transaction. Both rows are locked first so concurrent
// swaps of the same pair serialize.
func (r *Repository) SwapAttemptNumbers(ctx context.Context, firstID, secondID uuid.UUID) error {
	return sqlutil.Run(ctx, r.db, db.New(r.db).WithTx, func(q *db.Queries) error {
		first, err := q.GetAttemptForUpdate(ctx, firstID)
		if err != nil {
			return fmt.Errorf("failed to get attempt %s: %w", firstID, sqlutil.MapError(err))
		}
		second, err := q.GetAttemptForUpdate(ctx, secondID)
		if err != nil {
			return fmt.Errorf("failed to get attempt %s: %w", secondID, sqlutil.MapError(err))
		}
		if first.ResultID != second.ResultID {
			return fmt.Errorf("attempts belong to different results: %w", models.ErrValidation)
		}

		if err := q.SetAttemptNumber(ctx, db.SetAttemptNumberParams{ID: first.ID, AttemptNumber: second.AttemptNumber}); err != nil {
			return fmt.Errorf("failed to renumber attempt: %w", sqlutil.MapError(err))
		}
		if err := q.SetAttemptNumber(ctx, db.SetAttemptNumberParams{ID: second.ID, AttemptNumber: first.AttemptNumber}); err != nil {
			return fmt.Errorf("failed to renumber attempt: %w", sqlutil.MapError(err))
		}
		return nil
	})
}

// DeleteAttempt removes an attempt
func (r *Repository) DeleteAttempt(ctx context.Context, id uuid.UUID) error {
	n, err := r.queries.DeleteAttempt(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete attempt: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("attempt %s: %w", id, models.ErrNotFound)
	}
	return nil
}

func dbAttemptToModel(a db.Attempt) *models.Attempt {
	return &models.Attempt{
		ID:             a.ID,
		ResultID:       a.ResultID,
		AttemptNumber:  int(a.AttemptNumber),
		Value:          int(a.Value),
		Penalty:        int(a.Penalty),
		IsExtraAttempt: a.IsExtraAttempt,
		ExtraGiven:     a.ExtraGiven,
		ReplacedBy:     sqlutil.FromSqlInt32(a.ReplacedBy),
		JudgeID:        sqlutil.FromNullUUID(a.JudgeID),
		DeviceID:       sqlutil.FromNullUUID(a.DeviceID),
		IsDelegate:     a.IsDelegate,
		IsResolved:     a.IsResolved,
		Comment:        a.Comment,
		InspectionTime: sqlutil.FromSqlInt32(a.InspectionTime),
		SolvedAt:       sqlutil.FromSqlTime(a.SolvedAt),
		CreatedAt:      a.CreatedAt,
	}
}

func dbDetailToModel(d db.AttemptDetail) *AttemptDetail {
	detail := &AttemptDetail{
		Attempt: *dbAttemptToModel(d.Attempt),
		Judge:   noJudge,
		Result: ResultSummary{
			ID:      d.ResultID,
			EventID: d.EventID,
			RoundID: d.RoundID,
			Person: models.PersonSummary{
				ID:           d.PersonID,
				RegistrantID: sqlutil.FromSqlInt32(d.PersonRegistrantID),
				WcaID:        sqlutil.FromSqlString(d.PersonWcaID, ""),
				Name:         d.PersonName,
			},
		},
	}
	if d.JudgeID.Valid {
		detail.Judge = JudgeSummary{
			ID:           d.JudgeID.UUID,
			RegistrantID: int(d.JudgeRegistrantID.Int32),
			WcaID:        sqlutil.FromSqlString(d.JudgeWcaID, ""),
			Name:         sqlutil.FromSqlString(d.JudgeName, ""),
		}
	}
	if d.DeviceID.Valid {
		detail.Device = &DeviceSummary{
			ID:   d.DeviceID.UUID,
			Name: sqlutil.FromSqlString(d.DeviceName, ""),
		}
	}
	return detail
}
