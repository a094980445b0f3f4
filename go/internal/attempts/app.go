package attempts

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
)

// AttemptsRepository defines what the app layer needs from the repository
type AttemptsRepository interface {
	CreateAttempt(ctx context.Context, a models.Attempt) (*models.Attempt, error)
	GetAttemptDetail(ctx context.Context, id uuid.UUID) (*AttemptDetail, error)
	ListUnresolved(ctx context.Context) ([]AttemptDetail, error)
	UpdateAttempt(ctx context.Context, id uuid.UUID, req UpdateAttemptRequest) (*models.Attempt, error)
	SwapAttemptNumbers(ctx context.Context, firstID, secondID uuid.UUID) error
	DeleteAttempt(ctx context.Context, id uuid.UUID) error
}

// ResultFinder returns the result of a competitor in a round, creating it
// on the first attempt.
type ResultFinder interface {
	FindOrCreateResult(ctx context.Context, personID uuid.UUID, roundID string) (*models.Result, error)
}

type PersonReader interface {
	GetPerson(ctx context.Context, id uuid.UUID) (*models.Person, error)
}

type RulesResolver interface {
	RoundRules(ctx context.Context, roundID string) (*rounds.Rules, error)
}

// LiveSubmitter sends single attempts to WCA Live.
type LiveSubmitter interface {
	SubmitAttempt(ctx context.Context, roundID string, registrantID *int, attemptNumber, value, penalty int) error
}

// MsgTimeLimitExceeded is the warning returned when an attempt was turned into a DNF.
const MsgTimeLimitExceeded = "Time limit exceeded, attempt recorded as DNF"

// App handles attempt entry and correction
type App struct {
	repo     AttemptsRepository
	results  ResultFinder
	persons  PersonReader
	rules    RulesResolver
	live     LiveSubmitter
	notifier events.Notifier
	clock    clockwork.Clock
}

// NewApp creates a new attempts App
func NewApp(
	repo AttemptsRepository,
	results ResultFinder,
	persons PersonReader,
	rules RulesResolver,
	live LiveSubmitter,
	notifier events.Notifier,
	clock clockwork.Clock,
) *App {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &App{
		repo:     repo,
		results:  results,
		persons:  persons,
		rules:    rules,
		live:     live,
		notifier: notifier,
		clock:    clock,
	}
}

// CreateAttempt records an attempt, creating the competitor's result for
// the round if needed. An attempt over the time limit is stored as a DNF
// and the response carries a warning. When requested, the attempt is sent
// to WCA Live afterwards; a failed submission keeps the local attempt and
// returns an ErrExternalSync error next to the response.
func (a *App) CreateAttempt(ctx context.Context, req CreateAttemptRequest) (*AttemptResponse, error) {
	if err := validateCreateRequest(&req); err != nil {
		return nil, err
	}

	person, err := a.persons.GetPerson(ctx, req.PersonID)
	if err != nil {
		return nil, fmt.Errorf("competitor not found: %w", err)
	}

	limit, err := a.timeLimit(ctx, req.RoundID)
	if err != nil {
		return nil, err
	}
	penalty, forced := rounds.ApplyTimeLimit(limit, req.Value, req.Penalty)

	result, err := a.results.FindOrCreateResult(ctx, person.ID, req.RoundID)
	if err != nil {
		return nil, fmt.Errorf("failed to get result: %w", err)
	}

	solvedAt := a.clock.Now()
	attempt, err := a.repo.CreateAttempt(ctx, models.Attempt{
		ResultID:       result.ID,
		AttemptNumber:  req.AttemptNumber,
		Value:          req.Value,
		Penalty:        penalty,
		IsExtraAttempt: req.IsExtraAttempt,
		ExtraGiven:     req.ExtraGiven,
		ReplacedBy:     req.ReplacedBy,
		JudgeID:        req.JudgeID,
		DeviceID:       req.DeviceID,
		IsDelegate:     req.IsDelegate,
		IsResolved:     req.IsResolved,
		Comment:        req.Comment,
		InspectionTime: req.InspectionTime,
		SolvedAt:       &solvedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create attempt: %w", err)
	}

	resp := &AttemptResponse{Attempt: attempt}
	if forced {
		resp.Warning = MsgTimeLimitExceeded
		log.Warn().
			Str("round_id", req.RoundID).
			Str("person_id", person.ID.String()).
			Int("value", req.Value).
			Int("limit", limit.Centiseconds).
			Msg("time limit exceeded, penalty forced to DNF")
	}

	events.Emit(ctx, a.notifier, events.ResultsChannel(req.RoundID), events.EventTypeResultEntered,
		events.ResultEnteredPayload{RoundID: req.RoundID, ResultID: result.ID.String()}, a.clock.Now())

	if req.SubmitToWcaLive {
		if err := a.live.SubmitAttempt(ctx, req.RoundID, person.RegistrantID, attempt.AttemptNumber, attempt.Value, attempt.Penalty); err != nil {
			return resp, err
		}
	}
	return resp, nil
}

// UpdateAttempt corrects an attempt. replaced_by only survives when
// extra_given is set and it is not 0. The judge is always overwritten.
// attemptUpdated is emitted for every successful update; the attempt is
// resent to WCA Live only when requested and it has not been superseded.
func (a *App) UpdateAttempt(ctx context.Context, id uuid.UUID, req UpdateAttemptRequest) (*AttemptResponse, error) {
	if err := validateUpdateRequest(&req); err != nil {
		return nil, err
	}

	attempt, err := a.repo.UpdateAttempt(ctx, id, req)
	if err != nil {
		return nil, fmt.Errorf("failed to update attempt: %w", err)
	}
	detail, err := a.repo.GetAttemptDetail(ctx, attempt.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get attempt: %w", err)
	}

	log.Info().
		Str("attempt_id", attempt.ID.String()).
		Str("round_id", detail.Result.RoundID).
		Int("attempt_number", attempt.AttemptNumber).
		Int("value", attempt.Value).
		Int("penalty", attempt.Penalty).
		Msg("attempt updated")
	a.emitAttemptUpdated(ctx, detail)

	resp := &AttemptResponse{Attempt: attempt}
	if req.SubmitToWcaLive && !attempt.ExtraGiven && attempt.ReplacedBy == nil {
		err := a.live.SubmitAttempt(ctx, detail.Result.RoundID, detail.Result.Person.RegistrantID,
			attempt.AttemptNumber, attempt.Value, attempt.Penalty)
		if err != nil {
			return resp, err
		}
	}
	return resp, nil
}

// SwapAttempts exchanges the numbers of two attempts of the same result.
func (a *App) SwapAttempts(ctx context.Context, req SwapAttemptsRequest) error {
	if req.FirstID == uuid.Nil || req.SecondID == uuid.Nil {
		return fmt.Errorf("first_id and second_id are required: %w", models.ErrValidation)
	}
	if req.FirstID == req.SecondID {
		return fmt.Errorf("cannot swap an attempt with itself: %w", models.ErrValidation)
	}

	if err := a.repo.SwapAttemptNumbers(ctx, req.FirstID, req.SecondID); err != nil {
		return fmt.Errorf("failed to swap attempts: %w", err)
	}

	for _, id := range []uuid.UUID{req.FirstID, req.SecondID} {
		detail, err := a.repo.GetAttemptDetail(ctx, id)
		if err != nil {
			log.Warn().Err(err).Str("attempt_id", id.String()).Msg("swapped attempt not readable")
			continue
		}
		a.emitAttemptUpdated(ctx, detail)
	}
	return nil
}

func (a *App) DeleteAttempt(ctx context.Context, id uuid.UUID) error {
	if err := a.repo.DeleteAttempt(ctx, id); err != nil {
		return fmt.Errorf("failed to delete attempt: %w", err)
	}
	log.Info().Str("attempt_id", id.String()).Msg("attempt deleted")
	return nil
}

// GetAttempt returns an attempt with its judge, device and result
func (a *App) GetAttempt(ctx context.Context, id uuid.UUID) (*AttemptDetail, error) {
	detail, err := a.repo.GetAttemptDetail(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get attempt: %w", err)
	}
	return detail, nil
}

// ListUnresolved returns attempts flagged for the delegate that are not resolved yet
func (a *App) ListUnresolved(ctx context.Context) ([]AttemptDetail, error) {
	attempts, err := a.repo.ListUnresolved(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list unresolved attempts: %w", err)
	}
	return attempts, nil
}

// timeLimit returns the time limit of roundID, nil when the round has
// none or is not part of the imported WCIF.
func (a *App) timeLimit(ctx context.Context, roundID string) (*models.TimeLimit, error) {
	rules, err := a.rules.RoundRules(ctx, roundID)
	if errors.Is(err, models.ErrNotFound) {
		log.Debug().Str("round_id", roundID).Msg("round not in wcif, no time limit applied")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve round rules: %w", err)
	}
	return rules.TimeLimit, nil
}

func (a *App) emitAttemptUpdated(ctx context.Context, d *AttemptDetail) {
	events.Emit(ctx, a.notifier, events.ResultsChannel(d.Result.RoundID), events.EventTypeAttemptUpdated,
		events.AttemptUpdatedPayload{AttemptID: d.ID.String(), ResultID: d.Result.ID.String()}, a.clock.Now())
}

func validateCreateRequest(req *CreateAttemptRequest) error {
	if req.PersonID == uuid.Nil {
		return fmt.Errorf("person_id is required: %w", models.ErrValidation)
	}
	req.RoundID = strings.TrimSpace(req.RoundID)
	if _, _, err := rounds.ParseRoundID(req.RoundID); err != nil {
		return err
	}
	if err := validateSolve(req.AttemptNumber, req.Value, req.Penalty); err != nil {
		return err
	}
	req.ReplacedBy = normalizeReplacedBy(req.ExtraGiven, req.ReplacedBy)
	req.Comment = strings.TrimSpace(req.Comment)
	return nil
}

func validateUpdateRequest(req *UpdateAttemptRequest) error {
	if err := validateSolve(req.AttemptNumber, req.Value, req.Penalty); err != nil {
		return err
	}
	req.ReplacedBy = normalizeReplacedBy(req.ExtraGiven, req.ReplacedBy)
	req.Comment = strings.TrimSpace(req.Comment)
	return nil
}

func validateSolve(attemptNumber, value, penalty int) error {
	if attemptNumber < 1 {
		return fmt.Errorf("attempt_number must be positive: %w", models.ErrValidation)
	}
	if value < 0 {
		return fmt.Errorf("value must not be negative: %w", models.ErrValidation)
	}
	if !models.ValidPenalty(penalty) {
		return fmt.Errorf("unknown penalty %d: %w", penalty, models.ErrValidation)
	}
	return nil
}

// normalizeReplacedBy drops a replacement that is not backed by extra_given.
// 0 is the "no replacement" value sent by operator screens.
func normalizeReplacedBy(extraGiven bool, replacedBy *int) *int {
	if !extraGiven || replacedBy == nil || *replacedBy == 0 {
		return nil
	}
	return replacedBy
}
