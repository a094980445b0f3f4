package competition

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"

	"github.com/fkmtimer/fkm/go/internal/competition/db"
	"github.com/fkmtimer/fkm/go/internal/models"
	"github.com/fkmtimer/fkm/go/internal/sqlutil"
)

// Querier defines what the repository needs from the database layer
type Querier interface {
	GetCompetition(ctx context.Context) (db.Competition, error)
	UpsertCompetition(ctx context.Context, arg db.UpsertCompetitionParams) (db.Competition, error)
	UpdateCompetitionWcif(ctx context.Context, arg db.UpdateCompetitionWcifParams) (db.Competition, error)
	UpdateCompetitionSettings(ctx context.Context, arg db.UpdateCompetitionSettingsParams) (db.Competition, error)
}

// Repository implements competition data access operations
type Repository struct {
	queries Querier
}

// NewRepository creates a new competition repository
func NewRepository(querier Querier) *Repository {
	return &Repository{
		queries: querier,
	}
}

// GetCompetition returns the competition being run
func (r *Repository) GetCompetition(ctx context.Context) (*models.Competition, error) {
	c, err := r.queries.GetCompetition(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get competition: %w", sqlutil.MapError(err))
	}
	return dbCompetitionToModel(c), nil
}

// UpsertCompetition stores an imported competition keyed by WCA id
func (r *Repository) UpsertCompetition(ctx context.Context, wcaID, name string, wcif json.RawMessage) (*models.Competition, error) {
	c, err := r.queries.UpsertCompetition(ctx, db.UpsertCompetitionParams{
		ID:    uuid.New(),
		Name:  name,
		WcaID: wcaID,
		Wcif:  pqtype.NullRawMessage{RawMessage: wcif, Valid: len(wcif) > 0},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upsert competition: %w", sqlutil.MapError(err))
	}
	return dbCompetitionToModel(c), nil
}

// UpdateWcif replaces the stored WCIF
func (r *Repository) UpdateWcif(ctx context.Context, id uuid.UUID, wcif json.RawMessage) (*models.Competition, error) {
	c, err := r.queries.UpdateCompetitionWcif(ctx, db.UpdateCompetitionWcifParams{
		ID:   id,
		Wcif: pqtype.NullRawMessage{RawMessage: wcif, Valid: len(wcif) > 0},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update wcif: %w", sqlutil.MapError(err))
	}
	return dbCompetitionToModel(c), nil
}

// UpdateSettings stores the WCA Live settings
func (r *Repository) UpdateSettings(ctx context.Context, id uuid.UUID, req UpdateSettingsRequest) (*models.Competition, error) {
	c, err := r.queries.UpdateCompetitionSettings(ctx, db.UpdateCompetitionSettingsParams{
		ID:                   id,
		ScoretakingToken:     sqlutil.ToSqlString(req.ScoretakingToken),
		SendResultsToWcaLive: req.SendResultsToWcaLive,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update settings: %w", sqlutil.MapError(err))
	}
	return dbCompetitionToModel(c), nil
}

func dbCompetitionToModel(c db.Competition) *models.Competition {
	var wcif json.RawMessage
	if c.Wcif.Valid {
		wcif = c.Wcif.RawMessage
	}
	return &models.Competition{
		ID:                   c.ID,
		Name:                 c.Name,
		WcaID:                c.WcaID,
		ScoretakingToken:     sqlutil.FromSqlString(c.ScoretakingToken, ""),
		SendResultsToWcaLive: c.SendResultsToWcaLive,
		Wcif:                 wcif,
		CreatedAt:            c.CreatedAt,
		UpdatedAt:            c.UpdatedAt,
	}
}
