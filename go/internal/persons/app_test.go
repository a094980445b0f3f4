package persons

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fkmtimer/fkm/go/internal/models"
)

type fakeRepo struct {
	mu      sync.Mutex
	persons []models.Person
}

func (f *fakeRepo) add(p models.Person) models.Person {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	f.persons = append(f.persons, p)
	return p
}

func (f *fakeRepo) CreatePerson(_ context.Context, p CreatePersonParams) (*models.Person, error) {
	if p.CardID != "" {
		if _, err := f.GetPersonByCardID(context.Background(), p.CardID); err == nil {
			return nil, fmt.Errorf("card: %w", models.ErrConflict)
		}
	}
	person := f.add(models.Person{
		RegistrantID: p.RegistrantID,
		WcaID:        p.WcaID,
		Name:         p.Name,
		Gender:       p.Gender,
		CardID:       p.CardID,
		CanCompete:   p.CanCompete,
	})
	return &person, nil
}

func (f *fakeRepo) UpsertByRegistrantID(_ context.Context, p models.WcifPerson) (*models.Person, error) {
	f.mu.Lock()
	for i := range f.persons {
		if f.persons[i].RegistrantID != nil && *f.persons[i].RegistrantID == *p.RegistrantID {
			f.persons[i].Name = p.Name
			out := f.persons[i]
			f.mu.Unlock()
			return &out, nil
		}
	}
	f.mu.Unlock()
	person := f.add(models.Person{RegistrantID: p.RegistrantID, Name: p.Name, CanCompete: true})
	return &person, nil
}

func (f *fakeRepo) find(match func(models.Person) bool) (*models.Person, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.persons {
		if match(p) {
			out := p
			return &out, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeRepo) GetPerson(_ context.Context, id uuid.UUID) (*models.Person, error) {
	return f.find(func(p models.Person) bool { return p.ID == id })
}

func (f *fakeRepo) GetPersonByCardID(_ context.Context, cardID string) (*models.Person, error) {
	return f.find(func(p models.Person) bool { return p.CardID == cardID })
}

func (f *fakeRepo) GetPersonByRegistrantID(_ context.Context, registrantID int) (*models.Person, error) {
	return f.find(func(p models.Person) bool { return p.RegistrantID != nil && *p.RegistrantID == registrantID })
}

func (f *fakeRepo) ListPersons(_ context.Context, search string, limit, offset int) ([]models.Person, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var matched []models.Person
	for _, p := range f.persons {
		if search == "" || strings.Contains(p.Name, search) || p.CardID == search ||
			(p.RegistrantID != nil && strconv.Itoa(*p.RegistrantID) == search) {
			matched = append(matched, p)
		}
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	if offset > len(matched) {
		offset = len(matched)
	}
	return matched[offset:end], len(matched), nil
}

func (f *fakeRepo) CountPersonsWithoutCard(_ context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, p := range f.persons {
		if p.CardID == "" || p.CardID == "0" {
			n++
		}
	}
	return n, nil
}

func (f *fakeRepo) UpdateCardID(_ context.Context, id uuid.UUID, cardID string) (*models.Person, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.persons {
		if p.CardID == cardID && p.ID != id {
			return nil, fmt.Errorf("persons_card_id_key: %w", models.ErrConflict)
		}
	}
	for i := range f.persons {
		if f.persons[i].ID == id {
			f.persons[i].CardID = cardID
			out := f.persons[i]
			return &out, nil
		}
	}
	return nil, models.ErrNotFound
}

func intPtr(v int) *int { return &v }

func TestGetPersonByCardLatinizesName(t *testing.T) {
	repo := &fakeRepo{}
	repo.add(models.Person{Name: "Michał Łęcki", CardID: "1234"})
	app := NewApp(repo)

	person, err := app.GetPersonByCard(context.Background(), "1234")
	require.NoError(t, err)
	assert.Equal(t, "Michal Lecki", person.Name)

	_, err = app.GetPersonByCard(context.Background(), "9999")
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = app.GetPersonByCard(context.Background(), " ")
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestListPersonsPaging(t *testing.T) {
	repo := &fakeRepo{}
	for i := 1; i <= 25; i++ {
		card := ""
		if i%5 == 0 {
			card = strconv.Itoa(1000 + i)
		}
		repo.add(models.Person{Name: fmt.Sprintf("Person %02d", i), RegistrantID: intPtr(i), CardID: card})
	}
	app := NewApp(repo)

	page, err := app.ListPersons(context.Background(), ListPersonsRequest{Page: 3, PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, page.Persons, 5)
	assert.Equal(t, 25, page.Count)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 20, page.PersonsWithoutCardAssigned)

	page, err = app.ListPersons(context.Background(), ListPersonsRequest{Search: "17"})
	require.NoError(t, err)
	require.Len(t, page.Persons, 1)
	assert.Equal(t, "Person 17", page.Persons[0].Name)
}

func TestAssignCard(t *testing.T) {
	repo := &fakeRepo{}
	a := repo.add(models.Person{Name: "A"})
	repo.add(models.Person{Name: "B", CardID: "42"})
	app := NewApp(repo)

	person, err := app.AssignCard(context.Background(), a.ID, AssignCardRequest{CardID: " 77 "})
	require.NoError(t, err)
	assert.Equal(t, "77", person.CardID)

	_, err = app.AssignCard(context.Background(), a.ID, AssignCardRequest{CardID: "42"})
	assert.ErrorIs(t, err, models.ErrConflict)

	_, err = app.AssignCard(context.Background(), uuid.New(), AssignCardRequest{CardID: "55"})
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = app.AssignCard(context.Background(), a.ID, AssignCardRequest{})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestAddStaffMember(t *testing.T) {
	app := NewApp(&fakeRepo{})

	person, err := app.AddStaffMember(context.Background(), AddStaffMemberRequest{Name: "Delegate", Gender: "f"})
	require.NoError(t, err)
	assert.False(t, person.CanCompete)

	_, err = app.AddStaffMember(context.Background(), AddStaffMemberRequest{})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestImportFromWcif(t *testing.T) {
	repo := &fakeRepo{}
	repo.add(models.Person{Name: "Old Name", RegistrantID: intPtr(1)})
	app := NewApp(repo)

	wcif := &models.Wcif{
		ID: "FKM2025",
		Persons: []models.WcifPerson{
			{Name: "New Name", RegistrantID: intPtr(1), Registration: &models.WcifRegistration{Status: "accepted"}},
			{Name: "Second", RegistrantID: intPtr(2)},
			{Name: "Pending", RegistrantID: intPtr(3), Registration: &models.WcifRegistration{Status: "pending"}},
			{Name: "Organizer"},
		},
	}

	summary, err := app.ImportFromWcif(context.Background(), wcif)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Imported)
	assert.Equal(t, 2, summary.Skipped)

	p, err := app.GetPersonByRegistrantID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "New Name", p.Name)
}
