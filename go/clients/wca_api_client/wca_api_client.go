package wca_api_client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/fkmtimer/fkm/go/clients"
	"github.com/fkmtimer/fkm/go/internal/models"
)

// Client reads public competition data from the WCA website.
type Client struct {
	*clients.BaseClient
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = BaseURL
	}
	return &Client{
		BaseClient: clients.NewBaseClient(baseURL),
	}
}

// GetPublicWcif fetches the public WCIF of a competition. The raw document
// is returned next to the decoded subset so it can be stored unchanged.
func (c *Client) GetPublicWcif(ctx context.Context, competitionID string) (*models.Wcif, json.RawMessage, error) {
	endpoint := fmt.Sprintf(PublicWcifEndpoint, url.PathEscape(competitionID))
	body, err := c.Get(ctx, endpoint)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get wcif: %w", err)
	}

	var wcif models.Wcif
	if err := json.Unmarshal(body, &wcif); err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal response: %w, raw response: %s", err, string(body))
	}
	if wcif.ID == "" {
		return nil, nil, fmt.Errorf("wcif for %s has no competition id", competitionID)
	}

	return &wcif, json.RawMessage(body), nil
}
