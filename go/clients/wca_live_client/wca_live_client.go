package wca_live_client

import (
	"context"
	"net/http"

	"github.com/fkmtimer/fkm/go/clients"
)

// Client submits results to WCA Live with a competition scoretaking token.
type Client struct {
	*clients.BaseClient
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = BaseURL
	}
	return &Client{
		BaseClient: clients.NewBaseClient(baseURL),
	}
}

// AttemptSubmission identifies a single attempt result on WCA Live.
type AttemptSubmission struct {
	CompetitionWcaID string `json:"competitionWcaId"`
	EventID          string `json:"eventId"`
	RoundNumber      int    `json:"roundNumber"`
	RegistrantID     int    `json:"registrantId"`
	AttemptNumber    int    `json:"attemptNumber"`
	AttemptResult    int    `json:"attemptResult"`
}

// ScorecardSubmission replaces every attempt of the listed competitors in a round.
type ScorecardSubmission struct {
	CompetitionWcaID string            `json:"competitionWcaId"`
	EventID          string            `json:"eventId"`
	RoundNumber      int               `json:"roundNumber"`
	Results          []ScorecardResult `json:"results"`
}

type ScorecardResult struct {
	RegistrantID int                `json:"registrantId"`
	Attempts     []ScorecardAttempt `json:"attempts"`
}

type ScorecardAttempt struct {
	Result int `json:"result"`
}

// NewScorecard builds the enter-results payload for one competitor.
func NewScorecard(competitionWcaID, eventID string, roundNumber, registrantID int, values []int) ScorecardSubmission {
	attempts := make([]ScorecardAttempt, len(values))
	for i, v := range values {
		attempts[i] = ScorecardAttempt{Result: v}
	}
	return ScorecardSubmission{
		CompetitionWcaID: competitionWcaID,
		EventID:          eventID,
		RoundNumber:      roundNumber,
		Results: []ScorecardResult{
			{RegistrantID: registrantID, Attempts: attempts},
		},
	}
}

// EnterAttempt sends a single attempt. A non-2xx answer is returned as *clients.StatusError.
func (c *Client) EnterAttempt(ctx context.Context, token string, s AttemptSubmission) error {
	return c.SendJSON(ctx, http.MethodPost, EnterAttemptEndpoint, s, nil, authHeaders(token))
}

// EnterResults sends whole scorecards.
func (c *Client) EnterResults(ctx context.Context, token string, s ScorecardSubmission) error {
	return c.SendJSON(ctx, http.MethodPost, EnterResultsEndpoint, s, nil, authHeaders(token))
}

func authHeaders(token string) map[string]string {
	return map[string]string{AuthorizationHeader: "Bearer " + token}
}
