package models

// The subset of the WCA Competition Interchange Format the backend reads.
// Field names follow the WCIF format.

type Wcif struct {
	FormatVersion string       `json:"formatVersion"`
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	ShortName     string       `json:"shortName"`
	Persons       []WcifPerson `json:"persons"`
	Events        []WcifEvent  `json:"events"`
}

type WcifPerson struct {
	Name         string            `json:"name"`
	WcaUserID    int               `json:"wcaUserId"`
	WcaID        *string           `json:"wcaId"`
	RegistrantID *int              `json:"registrantId"`
	CountryISO2  string            `json:"countryIso2"`
	Gender       string            `json:"gender"`
	Registration *WcifRegistration `json:"registration"`
}

type WcifRegistration struct {
	EventIDs []string `json:"eventIds"`
	Status   string   `json:"status"`
}

type WcifEvent struct {
	ID     string      `json:"id"`
	Rounds []WcifRound `json:"rounds"`
}

type WcifRound struct {
	ID        string       `json:"id"`
	Format    string       `json:"format"`
	TimeLimit *TimeLimit   `json:"timeLimit"`
	Cutoff    *Cutoff      `json:"cutoff"`
	Results   []WcifResult `json:"results"`
}

// TimeLimit is the maximum legal time of an attempt, optionally cumulative across rounds.
type TimeLimit struct {
	Centiseconds       int      `json:"centiseconds"`
	CumulativeRoundIDs []string `json:"cumulativeRoundIds"`
}

// IsCumulative reports whether the limit is shared across attempts or rounds.
func (l TimeLimit) IsCumulative() bool {
	return len(l.CumulativeRoundIDs) > 0
}

// Cutoff requires a result better than AttemptResult within the first NumberOfAttempts attempts.
type Cutoff struct {
	NumberOfAttempts int `json:"numberOfAttempts"`
	AttemptResult    int `json:"attemptResult"`
}

type WcifResult struct {
	PersonID int           `json:"personId"` // registrant id
	Ranking  *int          `json:"ranking"`
	Attempts []WcifAttempt `json:"attempts"`
}

type WcifAttempt struct {
	Result int `json:"result"`
}
