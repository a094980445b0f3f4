package main

import (
	"database/sql"
	"net/http"

	"github.com/fkmtimer/fkm/go/clients/wca_api_client"
	"github.com/fkmtimer/fkm/go/clients/wca_live_client"
	"github.com/fkmtimer/fkm/go/internal/attempts"
	attemptsdb "github.com/fkmtimer/fkm/go/internal/attempts/db"
	"github.com/fkmtimer/fkm/go/internal/competition"
	competitiondb "github.com/fkmtimer/fkm/go/internal/competition/db"
	"github.com/fkmtimer/fkm/go/internal/events"
	"github.com/fkmtimer/fkm/go/internal/livesync"
	"github.com/fkmtimer/fkm/go/internal/persons"
	personsdb "github.com/fkmtimer/fkm/go/internal/persons/db"
	"github.com/fkmtimer/fkm/go/internal/results"
	resultsdb "github.com/fkmtimer/fkm/go/internal/results/db"
	"github.com/fkmtimer/fkm/go/internal/stations"
	stationsdb "github.com/fkmtimer/fkm/go/internal/stations/db"
)

type Services struct {
	Persons     *persons.Service
	Stations    *stations.Service
	Competition *competition.Service
	Attempts    *attempts.Service
	Results     *results.Service
}

func setupServices(database *sql.DB, config *Config, notifier events.Notifier) *Services {
	// Wire up dependency injection chain
	// Database layer → Repository layer → App layer → Service layer

	// Clients
	wcaAPI := wca_api_client.NewClient(config.WcaAPI.BaseURL)
	wcaAPI.SetTimeout(config.WcaAPI.Timeout)
	wcaLive := wca_live_client.NewClient(config.WcaLive.BaseURL)
	wcaLive.SetTimeout(config.WcaLive.Timeout)

	// Persons
	personsRepo := persons.NewRepository(personsdb.New(database))
	personsApp := persons.NewApp(personsRepo)

	// Stations
	stationsRepo := stations.NewRepository(stationsdb.New(database))
	stationsApp := stations.NewApp(stationsRepo, personsRepo, notifier, nil)

	// Competition
	competitionRepo := competition.NewRepository(competitiondb.New(database))
	competitionApp := competition.NewApp(competitionRepo, wcaAPI, personsApp)

	// WCA Live
	syncer := livesync.NewSyncer(wcaLive, competitionApp)

	// Attempts and results depend on each other's repositories only
	resultsRepo := results.NewRepository(resultsdb.New(database))
	attemptsRepo := attempts.NewRepository(attemptsdb.New(database), database)

	attemptsApp := attempts.NewApp(attemptsRepo, resultsRepo, personsApp, competitionApp, syncer, notifier, nil)
	resultsApp := results.NewApp(resultsRepo, attemptsRepo, competitionApp, stationsApp, personsApp, syncer, notifier, nil)

	return &Services{
		Persons:     persons.NewService(personsApp),
		Stations:    stations.NewService(stationsApp),
		Competition: competition.NewService(competitionApp),
		Attempts:    attempts.NewService(attemptsApp),
		Results:     results.NewService(resultsApp),
	}
}

func registerServices(mux *http.ServeMux, services *Services) {
	services.Persons.RegisterRoutes(mux)
	services.Stations.RegisterRoutes(mux)
	services.Competition.RegisterRoutes(mux)
	services.Attempts.RegisterRoutes(mux)
	services.Results.RegisterRoutes(mux)
}
