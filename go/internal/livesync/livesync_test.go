package livesync

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fkmtimer/fkm/go/clients/wca_live_client"
	"github.com/fkmtimer/fkm/go/internal/models"
)

type fixedCompetition struct {
	c   *models.Competition
	err error
}

func (f fixedCompetition) GetCompetition(context.Context) (*models.Competition, error) {
	return f.c, f.err
}

type captured struct {
	path  string
	auth  string
	body  map[string]any
	calls int
}

func liveServer(t *testing.T, status int) (*wca_live_client.Client, *captured) {
	t.Helper()
	got := &captured{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.calls++
		got.path = r.URL.Path
		got.auth = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &got.body)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(srv.Close)
	return wca_live_client.NewClient(srv.URL), got
}

func competition(token string, send bool) fixedCompetition {
	return fixedCompetition{c: &models.Competition{WcaID: "FKM2025", ScoretakingToken: token, SendResultsToWcaLive: send}}
}

func intPtr(i int) *int { return &i }

func TestSubmitAttempt(t *testing.T) {
	client, got := liveServer(t, http.StatusOK)
	s := NewSyncer(client, competition("secret", true))

	err := s.SubmitAttempt(context.Background(), "333oh-r2", intPtr(17), 3, 1234, 2)
	require.NoError(t, err)

	assert.Equal(t, wca_live_client.EnterAttemptEndpoint, got.path)
	assert.Equal(t, "Bearer secret", got.auth)
	assert.Equal(t, "FKM2025", got.body["competitionWcaId"])
	assert.Equal(t, "333oh", got.body["eventId"])
	assert.EqualValues(t, 2, got.body["roundNumber"])
	assert.EqualValues(t, 17, got.body["registrantId"])
	assert.EqualValues(t, 3, got.body["attemptNumber"])
	assert.EqualValues(t, 1434, got.body["attemptResult"])
}

func TestSubmitAttemptEncodesDNF(t *testing.T) {
	client, got := liveServer(t, http.StatusOK)
	s := NewSyncer(client, competition("secret", true))

	require.NoError(t, s.SubmitAttempt(context.Background(), "333-r1", intPtr(1), 1, 70000, models.PenaltyDNF))
	assert.EqualValues(t, -1, got.body["attemptResult"])
}

func TestSubmitAttemptRemoteFailure(t *testing.T) {
	client, _ := liveServer(t, http.StatusUnauthorized)
	s := NewSyncer(client, competition("secret", true))

	err := s.SubmitAttempt(context.Background(), "333-r1", intPtr(1), 1, 1000, 0)
	assert.ErrorIs(t, err, models.ErrExternalSync)
	assert.Contains(t, err.Error(), "401")
}

func TestSubmitPreconditions(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name         string
		competitions CompetitionReader
		roundID      string
		registrantID *int
	}{
		{"no token", competition("  ", true), "333-r1", intPtr(1)},
		{"no registrant id", competition("secret", true), "333-r1", nil},
		{"bad round id", competition("secret", true), "333", intPtr(1)},
		{"no competition", fixedCompetition{err: models.ErrNotFound}, "333-r1", intPtr(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, got := liveServer(t, http.StatusOK)
			s := NewSyncer(client, tt.competitions)

			err := s.SubmitAttempt(ctx, tt.roundID, tt.registrantID, 1, 1000, 0)
			assert.ErrorIs(t, err, models.ErrValidation)
			assert.Zero(t, got.calls)
		})
	}
}

func TestSubmitScorecardSendsSubmittedAttempts(t *testing.T) {
	client, got := liveServer(t, http.StatusOK)
	s := NewSyncer(client, competition("secret", false))

	replaced := 1
	attempts := []models.Attempt{
		{AttemptNumber: 1, Value: 900, ExtraGiven: true, ReplacedBy: &replaced},
		{AttemptNumber: 2, Value: 1100, Penalty: 2},
		{AttemptNumber: 1, Value: 1000, IsExtraAttempt: true},
		{AttemptNumber: 3, Penalty: models.PenaltyDNS},
	}
	require.NoError(t, s.SubmitScorecard(context.Background(), "333-r1", intPtr(5), attempts))

	assert.Equal(t, wca_live_client.EnterResultsEndpoint, got.path)
	results := got.body["results"].([]any)
	require.Len(t, results, 1)
	result := results[0].(map[string]any)
	assert.EqualValues(t, 5, result["registrantId"])
	var values []float64
	for _, a := range result["attempts"].([]any) {
		values = append(values, a.(map[string]any)["result"].(float64))
	}
	assert.Equal(t, []float64{1000, 1300, -2}, values)
}

func TestEnabled(t *testing.T) {
	client, _ := liveServer(t, http.StatusOK)
	ctx := context.Background()

	assert.True(t, NewSyncer(client, competition("secret", true)).Enabled(ctx))
	assert.False(t, NewSyncer(client, competition("secret", false)).Enabled(ctx))
	assert.False(t, NewSyncer(client, fixedCompetition{err: models.ErrNotFound}).Enabled(ctx))
}
