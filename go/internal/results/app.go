package results

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/fkmtimer/fkm/go/internal/events"
	"github.com/fkmtimer/fkm/go/internal/models"
	"github.com/fkmtimer/fkm/go/internal/rounds"
	"github.com/fkmtimer/fkm/go/internal/scorecard"
)

// ResultsRepository defines what the app layer needs from the repository
type ResultsRepository interface {
	FindOrCreateResult(ctx context.Context, personID uuid.UUID, roundID string) (*models.Result, error)
	GetResult(ctx context.Context, id uuid.UUID) (*models.Result, error)
	ListResultsByRound(ctx context.Context, roundID, search string) ([]models.Result, error)
	TouchResult(ctx context.Context, id uuid.UUID) error
}

// AttemptStore reads and records the attempts of results.
type AttemptStore interface {
	ListByResults(ctx context.Context, resultIDs []uuid.UUID) (map[uuid.UUID][]models.Attempt, error)
	CreateAttempt(ctx context.Context, a models.Attempt) (*models.Attempt, error)
}

// CompetitionReader resolves round rules and what WCA Live last reported.
type CompetitionReader interface {
	RoundRules(ctx context.Context, roundID string) (*rounds.Rules, error)
	FindRound(ctx context.Context, roundID string) (*models.WcifRound, error)
	IsRegisteredForEvent(ctx context.Context, registrantID int, eventID string) (bool, error)
}

type DeviceFinder interface {
	GetDeviceByEspID(ctx context.Context, espID int) (*models.Device, error)
}

type PersonFinder interface {
	GetPersonByCard(ctx context.Context, cardID string) (*models.Person, error)
}

// LiveSubmitter sends attempts and whole scorecards to WCA Live.
type LiveSubmitter interface {
	Enabled(ctx context.Context) bool
	SubmitAttempt(ctx context.Context, roundID string, registrantID *int, attemptNumber, value, penalty int) error
	SubmitScorecard(ctx context.Context, roundID string, registrantID *int, attempts []models.Attempt) error
}

// App handles results and the station entry flow
type App struct {
	repo        ResultsRepository
	attempts    AttemptStore
	competition CompetitionReader
	devices     DeviceFinder
	persons     PersonFinder
	live        LiveSubmitter
	notifier    events.Notifier
	clock       clockwork.Clock
}

// NewApp creates a new results App
func NewApp(
	repo ResultsRepository,
	attempts AttemptStore,
	competition CompetitionReader,
	devices DeviceFinder,
	persons PersonFinder,
	live LiveSubmitter,
	notifier events.Notifier,
	clock clockwork.Clock,
) *App {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &App{
		repo:        repo,
		attempts:    attempts,
		competition: competition,
		devices:     devices,
		persons:     persons,
		live:        live,
		notifier:    notifier,
		clock:       clock,
	}
}

// GetResult returns a result with its attempts, the submitted subset and
// how it compares with WCA Live.
func (a *App) GetResult(ctx context.Context, id uuid.UUID) (*ResultDetail, error) {
	result, err := a.repo.GetResult(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get result: %w", err)
	}
	details, err := a.withAttempts(ctx, result.RoundID, []models.Result{*result})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

// ListResultsByRound returns the results of a round with their attempts
func (a *App) ListResultsByRound(ctx context.Context, roundID, search string) ([]ResultDetail, error) {
	roundID = strings.TrimSpace(roundID)
	if _, _, err := rounds.ParseRoundID(roundID); err != nil {
		return nil, err
	}
	results, err := a.repo.ListResultsByRound(ctx, roundID, search)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	return a.withAttempts(ctx, roundID, results)
}

// Resubmit sends the submitted attempts of a result to WCA Live, replacing
// whatever is stored there for the competitor.
func (a *App) Resubmit(ctx context.Context, id uuid.UUID) error {
	detail, err := a.GetResult(ctx, id)
	if err != nil {
		return err
	}
	var registrantID *int
	if detail.Person != nil {
		registrantID = detail.Person.RegistrantID
	}
	if err := a.live.SubmitScorecard(ctx, detail.RoundID, registrantID, detail.Attempts); err != nil {
		return fmt.Errorf("failed to resubmit result %s: %w", id, err)
	}
	return nil
}

// EnterAttempt records the next attempt of a competitor from a station.
// The round follows from the current group of the station's room.
func (a *App) EnterAttempt(ctx context.Context, req EnterAttemptRequest) (*EnterAttemptResponse, error) {
	if !models.ValidPenalty(req.Penalty) {
		return nil, fmt.Errorf("unknown penalty %d: %w", req.Penalty, models.ErrValidation)
	}
	if req.Value < 0 {
		return nil, fmt.Errorf("value must not be negative: %w", models.ErrValidation)
	}

	device, err := a.devices.GetDeviceByEspID(ctx, req.EspID)
	if err != nil {
		return nil, fmt.Errorf("device not found: %w", err)
	}
	competitor, err := a.persons.GetPersonByCard(ctx, req.CompetitorID)
	if err != nil {
		return nil, fmt.Errorf("competitor not found: %w", err)
	}
	judge, err := a.persons.GetPersonByCard(ctx, req.JudgeID)
	if err != nil {
		return nil, fmt.Errorf("judge not found: %w", err)
	}
	if device.Room == nil || device.Room.CurrentGroupID == "" {
		return nil, fmt.Errorf("device %s has no active group: %w", device.Name, models.ErrValidation)
	}
	roundID, err := rounds.RoundIDFromGroup(device.Room.CurrentGroupID)
	if err != nil {
		return nil, err
	}

	rules, err := a.competition.RoundRules(ctx, roundID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("round %s is not configured: %w", roundID, models.ErrValidation)
		}
		return nil, fmt.Errorf("failed to resolve round rules: %w", err)
	}
	if err := a.checkRegistration(ctx, competitor, roundID); err != nil {
		return nil, err
	}

	result, err := a.repo.FindOrCreateResult(ctx, competitor.ID, roundID)
	if err != nil {
		return nil, fmt.Errorf("failed to get result: %w", err)
	}
	byResult, err := a.attempts.ListByResults(ctx, []uuid.UUID{result.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}
	standard := scorecard.StandardAttempts(byResult[result.ID])

	if len(standard) >= rules.ExpectedAttempts {
		return nil, fmt.Errorf("%s: %w", msgNoAttemptsLeft, models.ErrValidation)
	}
	if rules.Cutoff != nil && !rounds.PassesCutoff(*rules.Cutoff, standard) {
		return nil, fmt.Errorf("%s: %w", msgCutoffNotPassed, models.ErrValidation)
	}

	resp := &EnterAttemptResponse{Message: msgAttemptEntered, ResultID: result.ID}
	penalty, forced := rounds.ApplyTimeLimit(rules.TimeLimit, req.Value, req.Penalty)
	if forced {
		resp.Warning = msgTimeLimitExceeded
		log.Warn().
			Str("round_id", roundID).
			Str("competitor", competitor.Name).
			Int("value", req.Value).
			Int("limit", rules.TimeLimit.Centiseconds).
			Msg("time limit exceeded, penalty forced to DNF")
	}

	// standard is sorted by number; numbering continues after the highest
	// one so a deleted attempt never leaves a number to collide with.
	next := 1
	if n := len(standard); n > 0 {
		next = standard[n-1].AttemptNumber + 1
	}

	solvedAt := a.clock.Now()
	attempt, err := a.attempts.CreateAttempt(ctx, models.Attempt{
		ResultID:       result.ID,
		AttemptNumber:  next,
		Value:          req.Value,
		Penalty:        penalty,
		JudgeID:        &judge.ID,
		DeviceID:       &device.ID,
		IsDelegate:     req.IsDelegate,
		InspectionTime: req.InspectionTime,
		SolvedAt:       &solvedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save attempt: %w", err)
	}
	if err := a.repo.TouchResult(ctx, result.ID); err != nil {
		log.Warn().Err(err).Str("result_id", result.ID.String()).Msg("failed to touch result")
	}
	resp.AttemptID = attempt.ID
	resp.AttemptNumber = attempt.AttemptNumber

	log.Info().
		Str("round_id", roundID).
		Str("competitor", competitor.Name).
		Str("device", device.Name).
		Int("attempt_number", attempt.AttemptNumber).
		Int("value", attempt.Value).
		Int("penalty", attempt.Penalty).
		Bool("delegate", attempt.IsDelegate).
		Msg("attempt entered from station")

	now := a.clock.Now()
	events.Emit(ctx, a.notifier, events.ResultsChannel(roundID), events.EventTypeResultEntered,
		events.ResultEnteredPayload{RoundID: roundID, ResultID: result.ID.String()}, now)

	if attempt.IsDelegate {
		resp.Message = msgDelegateCalled
		events.Emit(ctx, a.notifier, events.ChannelIncidents, events.EventTypeNewIncident,
			events.NewIncidentPayload{
				AttemptID:      attempt.ID.String(),
				DeviceName:     device.Name,
				CompetitorName: competitor.Name,
			}, now)
		return resp, nil
	}

	if a.live.Enabled(ctx) {
		err := a.live.SubmitAttempt(ctx, roundID, competitor.RegistrantID, attempt.AttemptNumber, attempt.Value, attempt.Penalty)
		if err != nil {
			resp.Warning = strings.TrimSpace(resp.Warning + " " + msgLiveSubmitFailed)
		}
	}
	return resp, nil
}

// checkRegistration rejects competitors who did not register for the
// round's event. Persons without a registrant id are staff and cannot compete.
func (a *App) checkRegistration(ctx context.Context, competitor *models.Person, roundID string) error {
	if !competitor.CanCompete || competitor.RegistrantID == nil {
		return fmt.Errorf("%s cannot compete: %w", competitor.Name, models.ErrValidation)
	}
	eventID, _, err := rounds.ParseRoundID(roundID)
	if err != nil {
		return err
	}
	ok, err := a.competition.IsRegisteredForEvent(ctx, *competitor.RegistrantID, eventID)
	if err != nil {
		return fmt.Errorf("failed to check registration: %w", err)
	}
	if !ok {
		return fmt.Errorf("%s: %w", msgNotRegistered, models.ErrValidation)
	}
	return nil
}

// withAttempts loads the attempts of results from one round and derives
// their submitted attempts and divergence. Divergence is left out when the
// round is not in the imported WCIF.
func (a *App) withAttempts(ctx context.Context, roundID string, results []models.Result) ([]ResultDetail, error) {
	ids := make([]uuid.UUID, len(results))
	for i, r := range results {
		ids[i] = r.ID
	}
	byResult, err := a.attempts.ListByResults(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}

	round, err := a.competition.FindRound(ctx, roundID)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("failed to get round: %w", err)
		}
		log.Debug().Err(err).Str("round_id", roundID).Msg("round not in wcif, skipping divergence")
		round = nil
	}

	details := make([]ResultDetail, len(results))
	for i, r := range results {
		attempts := byResult[r.ID]
		if attempts == nil {
			attempts = []models.Attempt{}
		}
		r.Attempts = attempts
		details[i] = ResultDetail{
			Result:            r,
			StandardAttempts:  scorecard.StandardAttempts(attempts),
			ExtraAttempts:     scorecard.ExtraAttempts(attempts),
			SubmittedAttempts: scorecard.SubmittedAttempts(attempts),
		}
		if round != nil && r.Person != nil && r.Person.RegistrantID != nil {
			remote, _ := scorecard.RemoteAttempts(round, *r.Person.RegistrantID)
			d := scorecard.Compare(attempts, remote)
			details[i].Divergence = &d
		}
	}
	return details, nil
}
