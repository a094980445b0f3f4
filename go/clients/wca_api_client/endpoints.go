package wca_api_client

const (
	BaseURL = "https://www.worldcubeassociation.org"

	// PublicWcifEndpoint takes the competition id.
	PublicWcifEndpoint = "/api/v0/competitions/%s/wcif/public"
)
