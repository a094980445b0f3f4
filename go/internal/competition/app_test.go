package competition

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fkmtimer/fkm/go/clients/wca_api_client"
	"github.com/fkmtimer/fkm/go/internal/models"
	"github.com/fkmtimer/fkm/go/internal/persons"
)

type fakeRepo struct {
	mu          sync.Mutex
	competition *models.Competition
	gets        int
}

func (f *fakeRepo) GetCompetition(context.Context) (*models.Competition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	if f.competition == nil {
		return nil, models.ErrNotFound
	}
	c := *f.competition
	return &c, nil
}

func (f *fakeRepo) UpsertCompetition(_ context.Context, wcaID, name string, wcif json.RawMessage) (*models.Competition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.competition == nil || f.competition.WcaID != wcaID {
		f.competition = &models.Competition{ID: uuid.New(), WcaID: wcaID}
	}
	f.competition.Name = name
	f.competition.Wcif = wcif
	f.competition.UpdatedAt = time.Now()
	c := *f.competition
	return &c, nil
}

func (f *fakeRepo) UpdateWcif(_ context.Context, id uuid.UUID, wcif json.RawMessage) (*models.Competition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.competition == nil || f.competition.ID != id {
		return nil, models.ErrNotFound
	}
	f.competition.Wcif = wcif
	f.competition.UpdatedAt = f.competition.UpdatedAt.Add(time.Second)
	c := *f.competition
	return &c, nil
}

func (f *fakeRepo) UpdateSettings(_ context.Context, id uuid.UUID, req UpdateSettingsRequest) (*models.Competition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.competition == nil || f.competition.ID != id {
		return nil, models.ErrNotFound
	}
	f.competition.ScoretakingToken = req.ScoretakingToken
	f.competition.SendResultsToWcaLive = req.SendResultsToWcaLive
	c := *f.competition
	return &c, nil
}

type fakeImporter struct {
	calls int
}

func (f *fakeImporter) ImportFromWcif(_ context.Context, wcif *models.Wcif) (*persons.ImportSummary, error) {
	f.calls++
	return &persons.ImportSummary{Imported: len(wcif.Persons)}, nil
}

func wcaServer(t *testing.T) (*httptest.Server, *int) {
	t.Helper()
	body, err := os.ReadFile("testdata/wcif.json")
	require.NoError(t, err)
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if !strings.Contains(r.URL.Path, "/FKM2025/") {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func newTestApp(t *testing.T) (*App, *fakeRepo, *fakeImporter, *int) {
	srv, hits := wcaServer(t)
	repo := &fakeRepo{}
	importer := &fakeImporter{}
	return NewApp(repo, wca_api_client.NewClient(srv.URL), importer), repo, importer, hits
}

func TestImport(t *testing.T) {
	app, repo, importer, _ := newTestApp(t)

	resp, err := app.Import(context.Background(), " FKM2025 ")
	require.NoError(t, err)
	assert.Equal(t, "FKM2025", resp.WcaID)
	assert.Equal(t, "FKM 2025", resp.Name)
	assert.Equal(t, 2, resp.PersonsImported)
	assert.Equal(t, 1, importer.calls)
	assert.NotEmpty(t, repo.competition.Wcif)
}

func TestImportValidation(t *testing.T) {
	app, repo, _, hits := newTestApp(t)

	_, err := app.Import(context.Background(), "  ")
	assert.ErrorIs(t, err, models.ErrValidation)
	assert.Nil(t, repo.competition, "nothing written")
	assert.Zero(t, *hits, "nothing fetched")
}

func TestImportUnknownCompetition(t *testing.T) {
	app, repo, _, _ := newTestApp(t)

	_, err := app.Import(context.Background(), "Nope2025")
	assert.ErrorIs(t, err, models.ErrExternalSync)
	assert.Nil(t, repo.competition)
}

func TestRoundRules(t *testing.T) {
	app, _, _, _ := newTestApp(t)
	ctx := context.Background()
	_, err := app.Import(ctx, "FKM2025")
	require.NoError(t, err)

	rules, err := app.RoundRules(ctx, "333-r1")
	require.NoError(t, err)
	assert.Equal(t, 5, rules.ExpectedAttempts)
	assert.Equal(t, 3000, rules.Cutoff.AttemptResult)
	assert.Equal(t, 60000, rules.TimeLimit.Centiseconds)

	rules, err = app.RoundRules(ctx, "666-r1")
	require.NoError(t, err)
	assert.Equal(t, 3, rules.ExpectedAttempts)
	assert.True(t, rules.TimeLimit.IsCumulative())

	_, err = app.RoundRules(ctx, "444-r1")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestGetWcifCachesUntilUpdate(t *testing.T) {
	app, _, _, _ := newTestApp(t)
	ctx := context.Background()
	_, err := app.Import(ctx, "FKM2025")
	require.NoError(t, err)

	first, err := app.GetWcif(ctx)
	require.NoError(t, err)
	second, err := app.GetWcif(ctx)
	require.NoError(t, err)
	assert.Same(t, first, second)

	_, err = app.Sync(ctx)
	require.NoError(t, err)
	third, err := app.GetWcif(ctx)
	require.NoError(t, err)
	assert.NotSame(t, first, third)
}

func TestGetWcifWithoutCompetition(t *testing.T) {
	app, _, _, _ := newTestApp(t)
	_, err := app.GetWcif(context.Background())
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestSyncRefreshesRemoteResults(t *testing.T) {
	app, _, importer, hits := newTestApp(t)
	ctx := context.Background()
	_, err := app.Import(ctx, "FKM2025")
	require.NoError(t, err)

	_, err = app.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, *hits)
	assert.Equal(t, 2, importer.calls)

	round, err := app.FindRound(ctx, "333-r1")
	require.NoError(t, err)
	require.Len(t, round.Results, 1)
	assert.Equal(t, -1, round.Results[0].Attempts[1].Result)
}

func TestUpdateSettings(t *testing.T) {
	app, repo, _, _ := newTestApp(t)
	ctx := context.Background()
	_, err := app.Import(ctx, "FKM2025")
	require.NoError(t, err)
	id := repo.competition.ID

	_, err = app.UpdateSettings(ctx, id, UpdateSettingsRequest{SendResultsToWcaLive: true})
	assert.ErrorIs(t, err, models.ErrValidation)

	c, err := app.UpdateSettings(ctx, id, UpdateSettingsRequest{ScoretakingToken: " tok ", SendResultsToWcaLive: true})
	require.NoError(t, err)
	assert.Equal(t, "tok", c.ScoretakingToken)
	assert.True(t, c.SendResultsToWcaLive)

	_, err = app.UpdateSettings(ctx, uuid.New(), UpdateSettingsRequest{})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestIsRegisteredForEvent(t *testing.T) {
	app, _, _, _ := newTestApp(t)
	ctx := context.Background()
	_, err := app.Import(ctx, "FKM2025")
	require.NoError(t, err)

	ok, err := app.IsRegisteredForEvent(ctx, 1, "333")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = app.IsRegisteredForEvent(ctx, 2, "333")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = app.IsRegisteredForEvent(ctx, 99, "333")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestServiceImportEmptyID(t *testing.T) {
	app, _, _, _ := newTestApp(t)
	mux := http.NewServeMux()
	NewService(app).RegisterRoutes(mux)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/competition/import/%20", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/competition/rounds/333-r1", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
