package competition

// UpdateSettingsRequest changes the WCA Live submission settings.
type UpdateSettingsRequest struct {
	ScoretakingToken     string `json:"scoretaking_token"`
	SendResultsToWcaLive bool   `json:"send_results_to_wca_live"`
}

// ImportResponse reports a WCIF import.
type ImportResponse struct {
	CompetitionID   string `json:"competition_id"`
	WcaID           string `json:"wca_id"`
	Name            string `json:"name"`
	PersonsImported int    `json:"persons_imported"`
	PersonsSkipped  int    `json:"persons_skipped"`
}
