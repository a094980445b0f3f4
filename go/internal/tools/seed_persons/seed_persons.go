package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fkmtimer/fkm/go/internal/dbconfig"
	"github.com/fkmtimer/fkm/go/internal/models"
)

const upsertPerson = `
INSERT INTO persons (id, registrant_id, wca_id, name, country_iso2, gender, can_compete)
VALUES ($1, $2, $3, $4, $5, $6, TRUE)
ON CONFLICT (registrant_id) DO UPDATE
SET wca_id = EXCLUDED.wca_id,
    name = EXCLUDED.name,
    country_iso2 = EXCLUDED.country_iso2,
    gender = EXCLUDED.gender
`

type personRow struct {
	ID           uuid.UUID
	RegistrantID int
	WcaID        *string
	Name         string
	CountryISO2  string
	Gender       string
}

// personRows keeps accepted competitors that have a registrant id
func personRows(wcif *models.Wcif) (rows []personRow, skipped int) {
	for _, p := range wcif.Persons {
		if p.RegistrantID == nil {
			skipped++
			continue
		}
		if p.Registration != nil && p.Registration.Status != "" && p.Registration.Status != "accepted" {
			skipped++
			continue
		}
		rows = append(rows, personRow{
			ID:           uuid.New(),
			RegistrantID: *p.RegistrantID,
			WcaID:        p.WcaID,
			Name:         p.Name,
			CountryISO2:  p.CountryISO2,
			Gender:       p.Gender,
		})
	}
	return rows, skipped
}

func main() {
	ctx := context.Background()

	path := "wcif.json"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	// 1) Load the WCIF export
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read %s: %v\n", path, err)
		os.Exit(1)
	}
	var wcif models.Wcif
	if err := json.Unmarshal(data, &wcif); err != nil {
		fmt.Fprintf(os.Stderr, "unmarshal wcif: %v\n", err)
		os.Exit(1)
	}
	rows, skipped := personRows(&wcif)

	// 2) Connect to DB
	cfg := dbconfig.NewConfigFromEnv()
	pool, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect error: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	// 3) Upsert in one batch
	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(upsertPerson, r.ID, r.RegistrantID, r.WcaID, r.Name, r.CountryISO2, r.Gender)
	}

	results := pool.SendBatch(ctx, batch)
	upserted, errs := 0, 0
	for _, r := range rows {
		if _, err := results.Exec(); err != nil {
			fmt.Fprintf(os.Stderr, "upsert %s (%d): %v\n", r.Name, r.RegistrantID, err)
			errs++
			continue
		}
		upserted++
	}
	if err := results.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "close batch: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf(
		"Persons seed (%s): total=%d upserted=%d skipped=%d errors=%d\n",
		wcif.ID, len(wcif.Persons), upserted, skipped, errs,
	)
}
