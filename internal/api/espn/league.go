package espn

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/omarshaarawi/statbot/internal/errs"
	"github.com/omarshaarawi/statbot/internal/models"
)

type API struct {
	client *Client
}

func NewAPI(client *Client) *API {
	return &API{client: client}
}

// Scoreboard returns one matchup per event with a determinable home and away
// side for the given UTC date. The fallback scoreboard host is tried when the
// primary fails.
func (a *API) Scoreboard(ctx context.Context, date time.Time) ([]models.Matchup, error) {
	params := map[string]string{"dates": models.DateParam(date)}

	var lastErr error
	for _, url := range []string{a.client.Config.ScoreboardURL, a.client.Config.FallbackScoreboardURL} {
		if url == "" {
			continue
		}

		var resp models.ScoreboardResponse
		if err := a.client.fetcher.GetJSON(ctx, url, params, nil, &resp); err != nil {
			lastErr = err
			continue
		}

		return extractMatchups(resp), nil
	}

	if lastErr == nil {
		lastErr = errs.Fetch(errors.New("no scoreboard endpoint configured"))
	}
	return nil, fmt.Errorf("fetching scoreboard: %w", lastErr)
}

func extractMatchups(resp models.ScoreboardResponse) []models.Matchup {
	var games []models.Matchup
	for _, event := range resp.Events {
		if len(event.Competitions) == 0 {
			continue
		}

		var home, away string
		for _, c := range event.Competitions[0].Competitors {
			abbr := models.NormalizeAbbr(c.Team.Abbreviation)
			switch c.HomeAway {
			case "home":
				home = abbr
			case "away":
				away = abbr
			}
		}

		if home != "" && away != "" {
			games = append(games, models.Matchup{AwayAbbr: away, HomeAbbr: home})
		}
	}
	return games
}

// TeamList loads the full team directory. Missing nesting at any level is a
// hard error; individual entries missing an id or abbreviation are dropped.
func (a *API) TeamList(ctx context.Context) ([]models.Team, error) {
	var resp models.TeamListResponse
	if err := a.client.fetcher.GetJSON(ctx, a.client.Config.TeamsURL, nil, nil, &resp); err != nil {
		return nil, fmt.Errorf("fetching team list: %w", err)
	}

	if len(resp.Sports) == 0 {
		return nil, errors.Mark(errors.New("team list: sports missing"), errs.ErrDataUnavailable)
	}
	if len(resp.Sports[0].Leagues) == 0 {
		return nil, errors.Mark(errors.New("team list: leagues missing"), errs.ErrDataUnavailable)
	}
	entries := resp.Sports[0].Leagues[0].Teams
	if len(entries) == 0 {
		return nil, errors.Mark(errors.New("team list: teams missing"), errs.ErrDataUnavailable)
	}

	teams := make([]models.Team, 0, len(entries))
	for _, entry := range entries {
		id, err := strconv.Atoi(entry.Team.ID)
		if err != nil {
			slog.Debug("Dropping team entry", "error", errs.DataShape(fmt.Errorf("bad team id %q: %w", entry.Team.ID, err)))
			continue
		}

		abbr := models.NormalizeAbbr(entry.Team.Abbreviation)
		if abbr == "" {
			slog.Debug("Dropping team entry", "error", errs.DataShape(fmt.Errorf("team %d has no abbreviation", id)))
			continue
		}

		name := entry.Team.ShortDisplayName
		if name == "" {
			name = entry.Team.DisplayName
		}
		if name == "" {
			name = abbr
		}

		teams = append(teams, models.Team{ID: id, Abbreviation: abbr, Name: name})
	}

	return teams, nil
}

// RecentOutcomes fetches a team's season schedule and returns the win/loss
// sequence of its completed games strictly before the cutoff date, most
// recent first. Events missing a parseable date, competitions or a winner
// determination for this team are skipped.
func (a *API) RecentOutcomes(ctx context.Context, teamID, seasonYear int, cutoff time.Time) ([]bool, error) {
	url := fmt.Sprintf(a.client.Config.ScheduleURL, teamID)
	params := map[string]string{"season": strconv.Itoa(seasonYear)}

	var resp models.ScheduleResponse
	if err := a.client.fetcher.GetJSON(ctx, url, params, nil, &resp); err != nil {
		return nil, fmt.Errorf("fetching schedule for team %d: %w", teamID, err)
	}

	type outcome struct {
		playedAt time.Time
		won      bool
	}

	cutoffDay := cutoff.UTC().Truncate(24 * time.Hour)

	var outcomes []outcome
	for _, event := range resp.Events {
		playedAt, err := parseEventDate(event.Date)
		if err != nil {
			slog.Debug("Skipping schedule event", "error", errs.DataShape(err))
			continue
		}

		// Date comparison, not date-time: a game on the cutoff day is
		// excluded regardless of tip-off time.
		if !playedAt.UTC().Truncate(24 * time.Hour).Before(cutoffDay) {
			continue
		}

		if len(event.Competitions) == 0 {
			continue
		}
		comp := event.Competitions[0]
		if !comp.Status.Type.Completed {
			continue
		}

		var won *bool
		for _, c := range comp.Competitors {
			id, err := strconv.Atoi(c.Team.ID)
			if err != nil || id != teamID {
				continue
			}
			if c.Winner != nil {
				won = c.Winner
			}
			break
		}
		if won == nil {
			continue
		}

		outcomes = append(outcomes, outcome{playedAt: playedAt, won: *won})
	}

	sort.SliceStable(outcomes, func(i, j int) bool {
		return outcomes[i].playedAt.After(outcomes[j].playedAt)
	})

	flags := make([]bool, len(outcomes))
	for i, o := range outcomes {
		flags[i] = o.won
	}
	return flags, nil
}

// The schedule feed uses ISO-8601 with a literal trailing Z and sometimes no
// seconds, e.g. "2026-02-19T03:00Z".
var eventDateLayouts = []string{
	"2006-01-02T15:04Z07:00",
	time.RFC3339,
}

func parseEventDate(value string) (time.Time, error) {
	var lastErr error
	for _, layout := range eventDateLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
