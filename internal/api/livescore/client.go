// Package livescore wraps the API-Football live fixtures feed used by the
// live goal watcher.
package livescore

import (
	"context"
	"fmt"
	"strconv"

	"github.com/cockroachdb/errors"

	"github.com/omarshaarawi/statbot/internal/api/fetch"
	"github.com/omarshaarawi/statbot/internal/config"
	"github.com/omarshaarawi/statbot/internal/errs"
	"github.com/omarshaarawi/statbot/internal/models"
)

type API struct {
	fetcher *fetch.Client
	cfg     config.Live
}

func NewAPI(fetcher *fetch.Client, cfg config.Live) *API {
	return &API{fetcher: fetcher, cfg: cfg}
}

// Configured reports whether the feed credentials are present. Callers are
// expected to no-op when they are not.
func (a *API) Configured() bool {
	return a.cfg.APIKey != "" && a.cfg.Season != ""
}

func (a *API) headers() (map[string]string, error) {
	if !a.Configured() {
		return nil, errors.Mark(errors.New("live feed key or season not set"), errs.ErrConfig)
	}
	return map[string]string{"x-apisports-key": a.cfg.APIKey}, nil
}

// LiveFixtures returns the league's fixtures currently in play.
func (a *API) LiveFixtures(ctx context.Context) ([]models.LiveFixture, error) {
	headers, err := a.headers()
	if err != nil {
		return nil, err
	}

	params := map[string]string{
		"live":   "all",
		"league": strconv.Itoa(a.cfg.LeagueID),
		"season": a.cfg.Season,
	}

	var resp models.LiveFixturesResponse
	url := fmt.Sprintf("%s/fixtures", a.cfg.BaseURL)
	if err := a.fetcher.GetJSON(ctx, url, params, headers, &resp); err != nil {
		return nil, fmt.Errorf("fetching live fixtures: %w", err)
	}
	return resp.Response, nil
}

// FixtureEvents returns the event log of one fixture.
func (a *API) FixtureEvents(ctx context.Context, fixtureID int) ([]models.FixtureEvent, error) {
	headers, err := a.headers()
	if err != nil {
		return nil, err
	}

	params := map[string]string{"fixture": strconv.Itoa(fixtureID)}

	var resp models.FixtureEventsResponse
	url := fmt.Sprintf("%s/fixtures/events", a.cfg.BaseURL)
	if err := a.fetcher.GetJSON(ctx, url, params, headers, &resp); err != nil {
		return nil, fmt.Errorf("fetching fixture events %d: %w", fixtureID, err)
	}
	return resp.Response, nil
}
