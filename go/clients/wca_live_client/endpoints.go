package wca_live_client

const (
	BaseURL = "https://live.worldcubeassociation.org"

	EnterAttemptEndpoint = "/api/enter-attempt"
	EnterResultsEndpoint = "/api/enter-results"

	AuthorizationHeader = "Authorization"
)
