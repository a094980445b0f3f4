// Package livesync submits locally recorded attempts to WCA Live. Local
// state is authoritative: failures are reported to the caller and never
// undo the write that triggered them.
package livesync

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/fkmtimer/fkm/go/clients/wca_live_client"
	"github.com/fkmtimer/fkm/go/internal/models"
	"github.com/fkmtimer/fkm/go/internal/rounds"
	"github.com/fkmtimer/fkm/go/internal/scorecard"
)

// LiveClient is the subset of the WCA Live API used for scoretaking.
type LiveClient interface {
	EnterAttempt(ctx context.Context, token string, s wca_live_client.AttemptSubmission) error
	EnterResults(ctx context.Context, token string, s wca_live_client.ScorecardSubmission) error
}

// CompetitionReader provides the WCA id and scoretaking credentials.
type CompetitionReader interface {
	GetCompetition(ctx context.Context) (*models.Competition, error)
}

type Syncer struct {
	client       LiveClient
	competitions CompetitionReader
}

func NewSyncer(client LiveClient, competitions CompetitionReader) *Syncer {
	return &Syncer{
		client:       client,
		competitions: competitions,
	}
}

// Enabled reports whether the competition sends results automatically.
func (s *Syncer) Enabled(ctx context.Context) bool {
	c, err := s.competitions.GetCompetition(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("cannot read competition settings, not sending to WCA Live")
		return false
	}
	return c.SendResultsToWcaLive
}

// SubmitAttempt sends one attempt result of a competitor.
func (s *Syncer) SubmitAttempt(ctx context.Context, roundID string, registrantID *int, attemptNumber, value, penalty int) error {
	c, eventID, roundNumber, err := s.target(ctx, roundID, registrantID)
	if err != nil {
		return err
	}

	submission := wca_live_client.AttemptSubmission{
		CompetitionWcaID: c.WcaID,
		EventID:          eventID,
		RoundNumber:      roundNumber,
		RegistrantID:     *registrantID,
		AttemptNumber:    attemptNumber,
		AttemptResult:    scorecard.ExternalValue(value, penalty),
	}
	if err := s.client.EnterAttempt(ctx, c.ScoretakingToken, submission); err != nil {
		log.Error().Err(err).
			Str("competition", c.WcaID).
			Str("event_id", eventID).
			Int("round", roundNumber).
			Int("registrant_id", *registrantID).
			Int("attempt_number", attemptNumber).
			Msg("failed to send attempt to WCA Live")
		return fmt.Errorf("failed to send attempt to WCA Live: %w: %w", models.ErrExternalSync, err)
	}

	log.Info().
		Str("event_id", eventID).
		Int("round", roundNumber).
		Int("registrant_id", *registrantID).
		Int("attempt_number", attemptNumber).
		Msg("attempt sent to WCA Live")
	return nil
}

// SubmitScorecard replaces every attempt of the competitor on WCA Live with
// the submitted attempts of the result.
func (s *Syncer) SubmitScorecard(ctx context.Context, roundID string, registrantID *int, attempts []models.Attempt) error {
	c, eventID, roundNumber, err := s.target(ctx, roundID, registrantID)
	if err != nil {
		return err
	}

	values := scorecard.ExternalValues(attempts)
	submission := wca_live_client.NewScorecard(c.WcaID, eventID, roundNumber, *registrantID, values)
	if err := s.client.EnterResults(ctx, c.ScoretakingToken, submission); err != nil {
		log.Error().Err(err).
			Str("competition", c.WcaID).
			Str("event_id", eventID).
			Int("round", roundNumber).
			Int("registrant_id", *registrantID).
			Msg("failed to send scorecard to WCA Live")
		return fmt.Errorf("failed to send scorecard to WCA Live: %w: %w", models.ErrExternalSync, err)
	}

	log.Info().
		Str("event_id", eventID).
		Int("round", roundNumber).
		Int("registrant_id", *registrantID).
		Ints("attempts", values).
		Msg("scorecard sent to WCA Live")
	return nil
}

func (s *Syncer) target(ctx context.Context, roundID string, registrantID *int) (*models.Competition, string, int, error) {
	if registrantID == nil {
		return nil, "", 0, fmt.Errorf("competitor has no registrant id: %w", models.ErrValidation)
	}
	eventID, roundNumber, err := rounds.ParseRoundID(roundID)
	if err != nil {
		return nil, "", 0, err
	}
	c, err := s.competitions.GetCompetition(ctx)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, "", 0, fmt.Errorf("no competition imported: %w", models.ErrValidation)
		}
		return nil, "", 0, fmt.Errorf("failed to get competition: %w", err)
	}
	if strings.TrimSpace(c.ScoretakingToken) == "" {
		return nil, "", 0, fmt.Errorf("competition %s has no scoretaking token: %w", c.WcaID, models.ErrValidation)
	}
	return c, eventID, roundNumber, nil
}
