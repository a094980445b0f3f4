package results

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/fkmtimer/fkm/go/internal/models"
	"github.com/fkmtimer/fkm/go/internal/results/db"
	"github.com/fkmtimer/fkm/go/internal/rounds"
	"github.com/fkmtimer/fkm/go/internal/sqlutil"
)

// Querier defines what the repository needs from the database layer
type Querier interface {
	InsertResultIfMissing(ctx context.Context, arg db.InsertResultIfMissingParams) error
	GetResult(ctx context.Context, id uuid.UUID) (db.ResultWithPerson, error)
	GetResultByPersonAndRound(ctx context.Context, arg db.GetResultByPersonAndRoundParams) (db.ResultWithPerson, error)
	ListResultsByRound(ctx context.Context, arg db.ListResultsByRoundParams) ([]db.ResultWithPerson, error)
	TouchResult(ctx context.Context, id uuid.UUID) error
}

// Repository implements result data access
type Repository struct {
	queries Querier
}

// NewRepository creates a new results repository
func NewRepository(querier Querier) *Repository {
	return &Repository{
		queries: querier,
	}
}

// FindOrCreateResult returns the result of personID in roundID, inserting
// it first when missing. The insert is a no-op when a concurrent first
// attempt already created the row, so both callers read the same result.
func (r *Repository) FindOrCreateResult(ctx context.Context, personID uuid.UUID, roundID string) (*models.Result, error) {
	eventID, _, err := rounds.ParseRoundID(roundID)
	if err != nil {
		return nil, err
	}
	err = r.queries.InsertResultIfMissing(ctx, db.InsertResultIfMissingParams{
		ID:       uuid.New(),
		PersonID: personID,
		EventID:  eventID,
		RoundID:  roundID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create result: %w", sqlutil.MapError(err))
	}

	result, err := r.queries.GetResultByPersonAndRound(ctx, db.GetResultByPersonAndRoundParams{
		PersonID: personID,
		RoundID:  roundID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get result: %w", sqlutil.MapError(err))
	}
	return dbResultToModel(result), nil
}

// GetResult retrieves a result with its competitor
func (r *Repository) GetResult(ctx context.Context, id uuid.UUID) (*models.Result, error) {
	result, err := r.queries.GetResult(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get result: %w", sqlutil.MapError(err))
	}
	return dbResultToModel(result), nil
}

// ListResultsByRound returns the results of a round, optionally filtered
// by competitor name, WCA id or registrant id
func (r *Repository) ListResultsByRound(ctx context.Context, roundID, search string) ([]models.Result, error) {
	search = strings.TrimSpace(search)
	registrantID := sql.NullInt32{}
	if n, err := strconv.Atoi(search); err == nil {
		registrantID = sqlutil.ToSqlInt32(&n)
	}

	results, err := r.queries.ListResultsByRound(ctx, db.ListResultsByRoundParams{
		RoundID:      roundID,
		Search:       search,
		RegistrantID: registrantID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	out := make([]models.Result, len(results))
	for i, res := range results {
		out[i] = *dbResultToModel(res)
	}
	return out, nil
}

// TouchResult bumps the result's update time
func (r *Repository) TouchResult(ctx context.Context, id uuid.UUID) error {
	if err := r.queries.TouchResult(ctx, id); err != nil {
		return fmt.Errorf("failed to touch result: %w", err)
	}
	return nil
}

func dbResultToModel(r db.ResultWithPerson) *models.Result {
	return &models.Result{
		ID:       r.ID,
		PersonID: r.PersonID,
		EventID:  r.EventID,
		RoundID:  r.RoundID,
		Person: &models.PersonSummary{
			ID:           r.PersonID,
			RegistrantID: sqlutil.FromSqlInt32(r.PersonRegistrantID),
			WcaID:        sqlutil.FromSqlString(r.PersonWcaID, ""),
			Name:         r.PersonName,
		},
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
