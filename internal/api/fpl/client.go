// Package fpl wraps the Fantasy Premier League endpoints the ranking engine
// reads.
package fpl

import (
	"context"
	"fmt"

	"github.com/omarshaarawi/statbot/internal/api/fetch"
	"github.com/omarshaarawi/statbot/internal/config"
	"github.com/omarshaarawi/statbot/internal/models"
)

type API struct {
	fetcher *fetch.Client
	cfg     config.FPL
}

func NewAPI(fetcher *fetch.Client, cfg config.FPL) *API {
	return &API{fetcher: fetcher, cfg: cfg}
}

// Bootstrap returns the bulk listing: gameweek events, teams and players.
func (a *API) Bootstrap(ctx context.Context) (models.BootstrapResponse, error) {
	var resp models.BootstrapResponse
	url := fmt.Sprintf("%s/bootstrap-static/", a.cfg.BaseURL)
	if err := a.fetcher.GetJSON(ctx, url, nil, nil, &resp); err != nil {
		return models.BootstrapResponse{}, fmt.Errorf("fetching bootstrap: %w", err)
	}
	return resp, nil
}

// ElementSummary returns one player's per-gameweek history.
func (a *API) ElementSummary(ctx context.Context, elementID int) (models.ElementSummaryResponse, error) {
	var resp models.ElementSummaryResponse
	url := fmt.Sprintf("%s/element-summary/%d/", a.cfg.BaseURL, elementID)
	if err := a.fetcher.GetJSON(ctx, url, nil, nil, &resp); err != nil {
		return models.ElementSummaryResponse{}, fmt.Errorf("fetching element summary %d: %w", elementID, err)
	}
	return resp, nil
}
