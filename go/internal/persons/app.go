package persons

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/fkmtimer/fkm/go/internal/models"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// PersonsRepository defines what the app layer needs from the repository
type PersonsRepository interface {
	CreatePerson(ctx context.Context, p CreatePersonParams) (*models.Person, error)
	UpsertByRegistrantID(ctx context.Context, p models.WcifPerson) (*models.Person, error)
	GetPerson(ctx context.Context, id uuid.UUID) (*models.Person, error)
	GetPersonByCardID(ctx context.Context, cardID string) (*models.Person, error)
	GetPersonByRegistrantID(ctx context.Context, registrantID int) (*models.Person, error)
	ListPersons(ctx context.Context, search string, limit, offset int) ([]models.Person, int, error)
	CountPersonsWithoutCard(ctx context.Context) (int, error)
	UpdateCardID(ctx context.Context, id uuid.UUID, cardID string) (*models.Person, error)
}

// App handles persons business logic
type App struct {
	repo PersonsRepository
}

// NewApp creates a new persons App
func NewApp(repo PersonsRepository) *App {
	return &App{
		repo: repo,
	}
}

// GetPerson retrieves a person by ID
func (a *App) GetPerson(ctx context.Context, id uuid.UUID) (*models.Person, error) {
	person, err := a.repo.GetPerson(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get person: %w", err)
	}
	return person, nil
}

// GetPersonByCard looks up the person holding cardID. The name is folded
// to ASCII for the station display.
func (a *App) GetPersonByCard(ctx context.Context, cardID string) (*models.Person, error) {
	if strings.TrimSpace(cardID) == "" {
		return nil, fmt.Errorf("card id is required: %w", models.ErrValidation)
	}
	person, err := a.repo.GetPersonByCardID(ctx, cardID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("competitor not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get person by card: %w", err)
	}
	person.Name = Latinize(person.Name)
	return person, nil
}

// GetPersonByRegistrantID retrieves a competitor by WCIF registrant id
func (a *App) GetPersonByRegistrantID(ctx context.Context, registrantID int) (*models.Person, error) {
	person, err := a.repo.GetPersonByRegistrantID(ctx, registrantID)
	if err != nil {
		return nil, fmt.Errorf("failed to get person by registrant id: %w", err)
	}
	return person, nil
}

// ListPersons returns a page of persons
func (a *App) ListPersons(ctx context.Context, req ListPersonsRequest) (*PersonsPage, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	size := req.PageSize
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	persons, count, err := a.repo.ListPersons(ctx, strings.TrimSpace(req.Search), size, (page-1)*size)
	if err != nil {
		return nil, fmt.Errorf("failed to list persons: %w", err)
	}
	withoutCard, err := a.repo.CountPersonsWithoutCard(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list persons: %w", err)
	}

	return &PersonsPage{
		Persons:                    persons,
		Count:                      count,
		TotalPages:                 (count + size - 1) / size,
		PersonsWithoutCardAssigned: withoutCard,
	}, nil
}

// AssignCard links a card to a person. A card already used by someone
// else is a conflict.
func (a *App) AssignCard(ctx context.Context, id uuid.UUID, req AssignCardRequest) (*models.Person, error) {
	cardID := strings.TrimSpace(req.CardID)
	if cardID == "" {
		return nil, fmt.Errorf("card_id is required: %w", models.ErrValidation)
	}
	person, err := a.repo.UpdateCardID(ctx, id, cardID)
	if err != nil {
		return nil, fmt.Errorf("failed to assign card: %w", err)
	}
	log.Info().Str("person_id", id.String()).Str("card_id", cardID).Msg("card assigned")
	return person, nil
}

// AddStaffMember creates a person who cannot compete
func (a *App) AddStaffMember(ctx context.Context, req AddStaffMemberRequest) (*models.Person, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("name is required: %w", models.ErrValidation)
	}
	person, err := a.repo.CreatePerson(ctx, CreatePersonParams{
		Name:       strings.TrimSpace(req.Name),
		Gender:     req.Gender,
		CardID:     strings.TrimSpace(req.CardID),
		CanCompete: false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add staff member: %w", err)
	}
	log.Info().Str("person_id", person.ID.String()).Str("name", person.Name).Msg("staff member added")
	return person, nil
}

// ImportFromWcif upserts every registered competitor of the WCIF.
// Persons without a registrant id are skipped.
func (a *App) ImportFromWcif(ctx context.Context, wcif *models.Wcif) (*ImportSummary, error) {
	summary := &ImportSummary{}
	for _, p := range wcif.Persons {
		if p.RegistrantID == nil {
			summary.Skipped++
			continue
		}
		if p.Registration != nil && p.Registration.Status != "" && p.Registration.Status != "accepted" {
			summary.Skipped++
			continue
		}
		if _, err := a.repo.UpsertByRegistrantID(ctx, p); err != nil {
			return summary, fmt.Errorf("failed to import %s: %w", p.Name, err)
		}
		summary.Imported++
	}
	log.Info().
		Str("competition", wcif.ID).
		Int("imported", summary.Imported).
		Int("skipped", summary.Skipped).
		Msg("persons imported")
	return summary, nil
}
