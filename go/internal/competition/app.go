package competition

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/fkmtimer/fkm/go/internal/models"
	"github.com/fkmtimer/fkm/go/internal/persons"
	"github.com/fkmtimer/fkm/go/internal/rounds"
)

// CompetitionRepository defines what the app layer needs from the repository
type CompetitionRepository interface {
	GetCompetition(ctx context.Context) (*models.Competition, error)
	UpsertCompetition(ctx context.Context, wcaID, name string, wcif json.RawMessage) (*models.Competition, error)
	UpdateWcif(ctx context.Context, id uuid.UUID, wcif json.RawMessage) (*models.Competition, error)
	UpdateSettings(ctx context.Context, id uuid.UUID, req UpdateSettingsRequest) (*models.Competition, error)
}

// WcifFetcher downloads the public WCIF of a competition.
type WcifFetcher interface {
	GetPublicWcif(ctx context.Context, competitionID string) (*models.Wcif, json.RawMessage, error)
}

// PersonImporter stores the competitors listed in a WCIF.
type PersonImporter interface {
	ImportFromWcif(ctx context.Context, wcif *models.Wcif) (*persons.ImportSummary, error)
}

// App handles competition settings and round configuration
type App struct {
	repo    CompetitionRepository
	fetcher WcifFetcher
	persons PersonImporter

	// decoded WCIF, keyed by the competition's last update
	mu          sync.Mutex
	cached      *models.Wcif
	cachedID    uuid.UUID
	cachedStamp time.Time
}

// NewApp creates a new competition App
func NewApp(repo CompetitionRepository, fetcher WcifFetcher, persons PersonImporter) *App {
	return &App{
		repo:    repo,
		fetcher: fetcher,
		persons: persons,
	}
}

// GetCompetition returns the competition being run
func (a *App) GetCompetition(ctx context.Context) (*models.Competition, error) {
	c, err := a.repo.GetCompetition(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get competition: %w", err)
	}
	return c, nil
}

// Import fetches a competition's public WCIF from the WCA website and
// stores it together with its competitors.
func (a *App) Import(ctx context.Context, wcaID string) (*ImportResponse, error) {
	wcaID = strings.TrimSpace(wcaID)
	if wcaID == "" {
		return nil, fmt.Errorf("competition id is required: %w", models.ErrValidation)
	}

	wcif, raw, err := a.fetcher.GetPublicWcif(ctx, wcaID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch wcif: %w: %w", models.ErrExternalSync, err)
	}

	c, err := a.repo.UpsertCompetition(ctx, wcif.ID, wcif.Name, raw)
	if err != nil {
		return nil, fmt.Errorf("failed to import competition: %w", err)
	}
	a.invalidate()

	summary, err := a.persons.ImportFromWcif(ctx, wcif)
	if err != nil {
		return nil, fmt.Errorf("failed to import persons: %w", err)
	}

	log.Info().
		Str("wca_id", c.WcaID).
		Int("persons", summary.Imported).
		Msg("competition imported")

	return &ImportResponse{
		CompetitionID:   c.ID.String(),
		WcaID:           c.WcaID,
		Name:            c.Name,
		PersonsImported: summary.Imported,
		PersonsSkipped:  summary.Skipped,
	}, nil
}

// Sync refetches the WCIF so round configuration and WCA Live results
// used for divergence checks are current. New competitors are imported.
func (a *App) Sync(ctx context.Context) (*models.Competition, error) {
	c, err := a.repo.GetCompetition(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to sync competition: %w", err)
	}

	wcif, raw, err := a.fetcher.GetPublicWcif(ctx, c.WcaID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch wcif: %w: %w", models.ErrExternalSync, err)
	}

	updated, err := a.repo.UpdateWcif(ctx, c.ID, raw)
	if err != nil {
		return nil, fmt.Errorf("failed to sync competition: %w", err)
	}
	a.invalidate()

	if _, err := a.persons.ImportFromWcif(ctx, wcif); err != nil {
		return nil, fmt.Errorf("failed to sync persons: %w", err)
	}

	log.Info().Str("wca_id", c.WcaID).Msg("competition synced")
	return updated, nil
}

// UpdateSettings changes the WCA Live token and submission toggle
func (a *App) UpdateSettings(ctx context.Context, id uuid.UUID, req UpdateSettingsRequest) (*models.Competition, error) {
	req.ScoretakingToken = strings.TrimSpace(req.ScoretakingToken)
	if req.SendResultsToWcaLive && req.ScoretakingToken == "" {
		return nil, fmt.Errorf("scoretaking_token is required to send results to WCA Live: %w", models.ErrValidation)
	}
	c, err := a.repo.UpdateSettings(ctx, id, req)
	if err != nil {
		return nil, fmt.Errorf("failed to update settings: %w", err)
	}
	log.Info().
		Str("wca_id", c.WcaID).
		Bool("send_results_to_wca_live", c.SendResultsToWcaLive).
		Msg("competition settings updated")
	return c, nil
}

// GetWcif returns the decoded WCIF of the competition.
func (a *App) GetWcif(ctx context.Context) (*models.Wcif, error) {
	c, err := a.repo.GetCompetition(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get competition: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cached != nil && a.cachedID == c.ID && a.cachedStamp.Equal(c.UpdatedAt) {
		return a.cached, nil
	}
	if len(c.Wcif) == 0 {
		return nil, fmt.Errorf("competition %s has no wcif: %w", c.WcaID, models.ErrNotFound)
	}

	var wcif models.Wcif
	if err := json.Unmarshal(c.Wcif, &wcif); err != nil {
		return nil, fmt.Errorf("failed to decode wcif: %w", err)
	}
	a.cached, a.cachedID, a.cachedStamp = &wcif, c.ID, c.UpdatedAt
	return &wcif, nil
}

// RoundRules resolves the rules of roundID. An unknown round is not found.
func (a *App) RoundRules(ctx context.Context, roundID string) (*rounds.Rules, error) {
	wcif, err := a.GetWcif(ctx)
	if err != nil {
		return nil, err
	}
	rules, ok := rounds.Resolve(wcif, roundID)
	if !ok {
		return nil, fmt.Errorf("round %s: %w", roundID, models.ErrNotFound)
	}
	return &rules, nil
}

// FindRound returns the WCIF round, including the results WCA Live last reported.
func (a *App) FindRound(ctx context.Context, roundID string) (*models.WcifRound, error) {
	wcif, err := a.GetWcif(ctx)
	if err != nil {
		return nil, err
	}
	round, ok := rounds.FindRound(wcif, roundID)
	if !ok {
		return nil, fmt.Errorf("round %s: %w", roundID, models.ErrNotFound)
	}
	return round, nil
}

// IsRegisteredForEvent reports whether the competitor registered for eventID.
// Competitors missing from the WCIF, or listed without a registration, are
// treated as registered.
func (a *App) IsRegisteredForEvent(ctx context.Context, registrantID int, eventID string) (bool, error) {
	wcif, err := a.GetWcif(ctx)
	if err != nil {
		return false, err
	}
	for _, p := range wcif.Persons {
		if p.RegistrantID == nil || *p.RegistrantID != registrantID {
			continue
		}
		if p.Registration == nil {
			return true, nil
		}
		for _, id := range p.Registration.EventIDs {
			if id == eventID {
				return true, nil
			}
		}
		return false, nil
	}
	return true, nil
}

func (a *App) invalidate() {
	a.mu.Lock()
	a.cached = nil
	a.mu.Unlock()
}
