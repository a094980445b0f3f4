package wca_live_client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fkmtimer/fkm/go/clients"
)

func TestEnterAttempt(t *testing.T) {
	var got AttemptSubmission
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, EnterAttemptEndpoint, r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get(AuthorizationHeader))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	err := c.EnterAttempt(context.Background(), "secret", AttemptSubmission{
		CompetitionWcaID: "FKM2025",
		EventID:          "333",
		RoundNumber:      1,
		RegistrantID:     12,
		AttemptNumber:    2,
		AttemptResult:    1234,
	})
	require.NoError(t, err)
	assert.Equal(t, 12, got.RegistrantID)
	assert.Equal(t, 1234, got.AttemptResult)
}

func TestEnterAttemptRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `{"message":"invalid token"}`)
	}))
	defer srv.Close()

	err := NewClient(srv.URL).EnterAttempt(context.Background(), "bad", AttemptSubmission{})
	var statusErr *clients.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusForbidden, statusErr.StatusCode)
}

func TestScorecardPayload(t *testing.T) {
	s := NewScorecard("FKM2025", "333", 2, 7, []int{1020, -1, 1433, 999, -2})

	data, err := json.MarshalIndent(s, "", "  ")
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "scorecard_payload", data)
}

func TestNewClientDefaultsBaseURL(t *testing.T) {
	assert.Equal(t, BaseURL, NewClient("").BaseURL())
}
