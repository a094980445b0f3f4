package persons

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/fkmtimer/fkm/go/internal/models"
	"github.com/fkmtimer/fkm/go/internal/persons/db"
	"github.com/fkmtimer/fkm/go/internal/sqlutil"
)

// Querier defines what the repository needs from the database layer
type Querier interface {
	CreatePerson(ctx context.Context, arg db.CreatePersonParams) (db.Person, error)
	UpsertPersonByRegistrantID(ctx context.Context, arg db.UpsertPersonByRegistrantIDParams) (db.Person, error)
	GetPerson(ctx context.Context, id uuid.UUID) (db.Person, error)
	GetPersonByCardID(ctx context.Context, cardID sql.NullString) (db.Person, error)
	GetPersonByRegistrantID(ctx context.Context, registrantID sql.NullInt32) (db.Person, error)
	ListPersons(ctx context.Context, arg db.ListPersonsParams) ([]db.Person, error)
	CountPersons(ctx context.Context, arg db.CountPersonsParams) (int64, error)
	CountPersonsWithoutCard(ctx context.Context) (int64, error)
	UpdatePersonCardID(ctx context.Context, arg db.UpdatePersonCardIDParams) (db.Person, error)
}

// Repository implements person data access operations
type Repository struct {
	queries Querier
}

// NewRepository creates a new persons repository
func NewRepository(querier Querier) *Repository {
	return &Repository{
		queries: querier,
	}
}

// CreatePerson inserts a new person
func (r *Repository) CreatePerson(ctx context.Context, p CreatePersonParams) (*models.Person, error) {
	person, err := r.queries.CreatePerson(ctx, db.CreatePersonParams{
		ID:           uuid.New(),
		RegistrantID: sqlutil.ToSqlInt32(p.RegistrantID),
		WcaID:        sqlutil.ToSqlString(p.WcaID),
		Name:         p.Name,
		CountryIso2:  p.CountryISO2,
		Gender:       p.Gender,
		CardID:       sqlutil.ToSqlString(p.CardID),
		CanCompete:   p.CanCompete,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create person: %w", sqlutil.MapError(err))
	}
	return dbPersonToModel(person), nil
}

// UpsertByRegistrantID inserts or refreshes a competitor imported from WCIF
func (r *Repository) UpsertByRegistrantID(ctx context.Context, p models.WcifPerson) (*models.Person, error) {
	wcaID := ""
	if p.WcaID != nil {
		wcaID = *p.WcaID
	}
	person, err := r.queries.UpsertPersonByRegistrantID(ctx, db.UpsertPersonByRegistrantIDParams{
		ID:           uuid.New(),
		RegistrantID: sqlutil.ToSqlInt32(p.RegistrantID),
		WcaID:        sqlutil.ToSqlString(wcaID),
		Name:         p.Name,
		CountryIso2:  p.CountryISO2,
		Gender:       p.Gender,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upsert person: %w", sqlutil.MapError(err))
	}
	return dbPersonToModel(person), nil
}

// GetPerson retrieves a person by ID
func (r *Repository) GetPerson(ctx context.Context, id uuid.UUID) (*models.Person, error) {
	person, err := r.queries.GetPerson(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get person: %w", sqlutil.MapError(err))
	}
	return dbPersonToModel(person), nil
}

// GetPersonByCardID retrieves a person by the card scanned at a station
func (r *Repository) GetPersonByCardID(ctx context.Context, cardID string) (*models.Person, error) {
	person, err := r.queries.GetPersonByCardID(ctx, sqlutil.ToSqlString(cardID))
	if err != nil {
		return nil, fmt.Errorf("failed to get person by card: %w", sqlutil.MapError(err))
	}
	return dbPersonToModel(person), nil
}

// GetPersonByRegistrantID retrieves a competitor by WCIF registrant id
func (r *Repository) GetPersonByRegistrantID(ctx context.Context, registrantID int) (*models.Person, error) {
	person, err := r.queries.GetPersonByRegistrantID(ctx, sqlutil.ToSqlInt32(&registrantID))
	if err != nil {
		return nil, fmt.Errorf("failed to get person by registrant id: %w", sqlutil.MapError(err))
	}
	return dbPersonToModel(person), nil
}

// ListPersons returns one page of persons matching search and the total match count
func (r *Repository) ListPersons(ctx context.Context, search string, limit, offset int) ([]models.Person, int, error) {
	registrantID := sql.NullInt32{}
	if n, err := strconv.Atoi(search); err == nil {
		registrantID = sqlutil.ToSqlInt32(&n)
	}

	persons, err := r.queries.ListPersons(ctx, db.ListPersonsParams{
		Search:       search,
		RegistrantID: registrantID,
		Limit:        int32(limit),
		Offset:       int32(offset),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list persons: %w", err)
	}
	count, err := r.queries.CountPersons(ctx, db.CountPersonsParams{
		Search:       search,
		RegistrantID: registrantID,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count persons: %w", err)
	}
	return dbPersonsToModels(persons), int(count), nil
}

// CountPersonsWithoutCard counts persons with no usable card assigned
func (r *Repository) CountPersonsWithoutCard(ctx context.Context) (int, error) {
	count, err := r.queries.CountPersonsWithoutCard(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count persons without card: %w", err)
	}
	return int(count), nil
}

// UpdateCardID assigns a card to a person
func (r *Repository) UpdateCardID(ctx context.Context, id uuid.UUID, cardID string) (*models.Person, error) {
	person, err := r.queries.UpdatePersonCardID(ctx, db.UpdatePersonCardIDParams{
		ID:     id,
		CardID: sqlutil.ToSqlString(cardID),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update card id: %w", sqlutil.MapError(err))
	}
	return dbPersonToModel(person), nil
}

func dbPersonToModel(p db.Person) *models.Person {
	return &models.Person{
		ID:           p.ID,
		RegistrantID: sqlutil.FromSqlInt32(p.RegistrantID),
		WcaID:        sqlutil.FromSqlString(p.WcaID, ""),
		Name:         p.Name,
		CountryISO2:  p.CountryIso2,
		Gender:       p.Gender,
		CardID:       sqlutil.FromSqlString(p.CardID, ""),
		CanCompete:   p.CanCompete,
		CreatedAt:    p.CreatedAt,
	}
}

func dbPersonsToModels(persons []db.Person) []models.Person {
	out := make([]models.Person, len(persons))
	for i, p := range persons {
		out[i] = *dbPersonToModel(p)
	}
	return out
}
