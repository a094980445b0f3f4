package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/fkmtimer/fkm/go/clients"
	"github.com/fkmtimer/fkm/go/internal/attempts"
	"github.com/fkmtimer/fkm/go/internal/competition"
	"github.com/fkmtimer/fkm/go/internal/middleware"
	"github.com/fkmtimer/fkm/go/internal/models"
	"github.com/fkmtimer/fkm/go/internal/results"
)

// apiClient talks to the FKM HTTP API.
type apiClient struct {
	*clients.BaseClient
}

func newAPIClient(server string) *apiClient {
	return &apiClient{BaseClient: clients.NewBaseClient(server)}
}

func (c *apiClient) ImportCompetition(ctx context.Context, wcaID string) (*competition.ImportResponse, error) {
	var out competition.ImportResponse
	endpoint := "/competition/import/" + url.PathEscape(wcaID)
	if err := c.SendJSON(ctx, http.MethodPost, endpoint, struct{}{}, &out, nil); err != nil {
		return nil, apiError(err)
	}
	return &out, nil
}

func (c *apiClient) SyncCompetition(ctx context.Context) (*models.Competition, error) {
	var out models.Competition
	if err := c.SendJSON(ctx, http.MethodPost, "/competition/sync", struct{}{}, &out, nil); err != nil {
		return nil, apiError(err)
	}
	return &out, nil
}

func (c *apiClient) RoundResults(ctx context.Context, roundID, search string) ([]results.ResultDetail, error) {
	endpoint := "/result/round/" + url.PathEscape(roundID)
	if search != "" {
		endpoint += "?search=" + url.QueryEscape(search)
	}
	var out []results.ResultDetail
	if err := c.GetJSON(ctx, endpoint, &out); err != nil {
		return nil, apiError(err)
	}
	return out, nil
}

func (c *apiClient) Resubmit(ctx context.Context, resultID string) (*middleware.MessageBody, error) {
	var out middleware.MessageBody
	endpoint := "/result/" + url.PathEscape(resultID) + "/enter"
	if err := c.SendJSON(ctx, http.MethodPost, endpoint, struct{}{}, &out, nil); err != nil {
		return nil, apiError(err)
	}
	return &out, nil
}

func (c *apiClient) UnresolvedIncidents(ctx context.Context) ([]attempts.AttemptDetail, error) {
	var out []attempts.AttemptDetail
	if err := c.GetJSON(ctx, "/attempt/unresolved", &out); err != nil {
		return nil, apiError(err)
	}
	return out, nil
}

// apiError replaces a raw status error with the message the server sent.
func apiError(err error) error {
	var statusErr *clients.StatusError
	if !errors.As(err, &statusErr) {
		return err
	}
	var body middleware.ErrorBody
	if json.Unmarshal([]byte(statusErr.Body), &body) != nil || body.Message == "" {
		return err
	}
	return fmt.Errorf("%s (%d)", body.Message, statusErr.StatusCode)
}
