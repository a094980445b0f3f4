package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/fkmtimer/fkm/go/internal/attempts"
	"github.com/fkmtimer/fkm/go/internal/models"
	"github.com/fkmtimer/fkm/go/internal/results"
)

// formatAttempt renders an attempt the way scorecards show it: DNF, DNS,
// 12.34 or 1:02.34 with a "+2" suffix for time penalties.
func formatAttempt(value, penalty int) string {
	switch {
	case penalty == models.PenaltyDNF:
		return "DNF"
	case penalty == models.PenaltyDNS:
		return "DNS"
	case value == 0:
		return "-"
	}

	total := value + penalty*100
	minutes := total / 6000
	seconds := (total % 6000) / 100
	centis := total % 100

	var s string
	if minutes > 0 {
		s = fmt.Sprintf("%d:%02d.%02d", minutes, seconds, centis)
	} else {
		s = fmt.Sprintf("%d.%02d", seconds, centis)
	}
	if penalty > 0 {
		s += fmt.Sprintf(" (+%d)", penalty)
	}
	return s
}

func renderResults(w io.Writer, list []results.ResultDetail) {
	if len(list) == 0 {
		color.New(color.FgYellow).Fprintln(w, "No results")
		return
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Registrant", "Name", "Attempts", "WCA Live"})
	table.SetAutoWrapText(false)

	divergent := 0
	for _, r := range list {
		registrant, name := "", ""
		if r.Person != nil {
			name = r.Person.Name
			if r.Person.RegistrantID != nil {
				registrant = strconv.Itoa(*r.Person.RegistrantID)
			}
		}

		times := make([]string, 0, len(r.SubmittedAttempts))
		for _, a := range r.SubmittedAttempts {
			times = append(times, formatAttempt(a.Value, a.Penalty))
		}

		status := "ok"
		colors := []tablewriter.Colors{{}, {}, {}, {}, {tablewriter.FgGreenColor}}
		switch {
		case r.Divergence == nil:
			status = "n/a"
			colors[4] = tablewriter.Colors{}
		case r.Divergence.Divergent:
			divergent++
			positions := make([]string, 0, len(r.Divergence.Mismatches))
			for _, m := range r.Divergence.Mismatches {
				positions = append(positions, strconv.Itoa(m.Position))
			}
			status = "differs at " + strings.Join(positions, ",")
			colors[4] = tablewriter.Colors{tablewriter.Bold, tablewriter.FgRedColor}
		}

		table.Rich([]string{r.ID.String(), registrant, name, strings.Join(times, "  "), status}, colors)
	}
	table.Render()

	if divergent > 0 {
		color.New(color.FgRed).Fprintf(w, "%d result(s) differ from WCA Live; use resubmit to fix them\n", divergent)
	}
}

func renderIncidents(w io.Writer, list []attempts.AttemptDetail) {
	if len(list) == 0 {
		color.New(color.FgGreen).Fprintln(w, "No unresolved incidents")
		return
	}

	color.New(color.FgYellow).Fprintf(w, "%d unresolved incident(s)\n", len(list))
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Attempt ID", "Round", "Competitor", "#", "Time", "Station", "Judge"})
	for _, a := range list {
		station := ""
		if a.Device != nil {
			station = a.Device.Name
		}
		table.Append([]string{
			a.ID.String(),
			a.Result.RoundID,
			a.Result.Person.Name,
			strconv.Itoa(a.AttemptNumber),
			formatAttempt(a.Value, a.Penalty),
			station,
			a.Judge.Name,
		})
	}
	table.Render()
}
