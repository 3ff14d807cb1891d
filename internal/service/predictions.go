package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/omarshaarawi/statbot/internal/api/espn"
	"github.com/omarshaarawi/statbot/internal/errs"
	"github.com/omarshaarawi/statbot/internal/metrics"
	"github.com/omarshaarawi/statbot/internal/models"
	"github.com/omarshaarawi/statbot/internal/repository/memory"
)

// PredictionService owns the team directory and outcome history caches and
// runs the deterministic tie-break chain over them.
type PredictionService struct {
	api       *espn.API
	directory *memory.TeamDirectory
	outcomes  *memory.OutcomeCache
}

func NewPredictionService(api *espn.API, directory *memory.TeamDirectory, outcomes *memory.OutcomeCache) *PredictionService {
	return &PredictionService{
		api:       api,
		directory: directory,
		outcomes:  outcomes,
	}
}

// ResolveTeam resolves a team abbreviation through the directory cache,
// reloading it when stale. A failed reload falls back to the previous
// generation when one exists.
func (s *PredictionService) ResolveTeam(ctx context.Context, abbr string) (models.Team, error) {
	if s.directory.Stale() {
		if err := s.directory.Refresh(ctx, s.api.TeamList); err != nil {
			if !s.directory.Loaded() {
				return models.Team{}, errors.Mark(fmt.Errorf("loading team directory: %w", err), errs.ErrDataUnavailable)
			}
			slog.Warn("Team directory refresh failed, serving previous generation", "error", err)
		}
	}

	normalized := models.NormalizeAbbr(abbr)
	team, ok := s.directory.Lookup(normalized)
	if !ok {
		return models.Team{}, errors.Mark(fmt.Errorf("unknown team abbreviation: %s", normalized), errs.ErrUnknownTeam)
	}
	return team, nil
}

// FindTeam looks a team up by display name, tolerating partial input.
func (s *PredictionService) FindTeam(ctx context.Context, name string) (models.Team, error) {
	team, err := s.ResolveTeam(ctx, name)
	if err == nil {
		return team, nil
	}
	if !errs.IsUnknownTeam(err) {
		return models.Team{}, err
	}

	var best models.Team
	bestRank := -1
	for _, team := range s.directory.Snapshot() {
		rank := fuzzy.RankMatchNormalizedFold(name, team.Name)
		if rank < 0 {
			continue
		}
		if bestRank < 0 || rank < bestRank {
			best = team
			bestRank = rank
		}
	}

	if bestRank < 0 {
		return models.Team{}, errors.Mark(fmt.Errorf("no team matching %q", name), errs.ErrUnknownTeam)
	}
	return best, nil
}

// RecentOutcomes returns the cached win/loss sequence for the triple,
// computing it once per process.
func (s *PredictionService) RecentOutcomes(ctx context.Context, teamID, seasonYear int, cutoff time.Time) ([]bool, error) {
	key := memory.OutcomeKey{
		TeamID:     teamID,
		SeasonYear: seasonYear,
		Cutoff:     models.DateParam(cutoff),
	}
	return s.outcomes.GetOrCompute(key, func() ([]bool, error) {
		return s.api.RecentOutcomes(ctx, teamID, seasonYear, cutoff)
	})
}

// RecordLastN counts wins and losses over the most recent n outcomes, fewer
// when the history is shorter.
func (s *PredictionService) RecordLastN(ctx context.Context, teamID, seasonYear int, cutoff time.Time, n int) (models.Record, error) {
	flags, err := s.RecentOutcomes(ctx, teamID, seasonYear, cutoff)
	if err != nil {
		return models.Record{}, err
	}

	sample := flags[:min(n, len(flags))]
	record := models.Record{}
	for _, won := range sample {
		if won {
			record.Wins++
		} else {
			record.Losses++
		}
	}
	return record, nil
}

// PickWinner applies the tie-break chain: more wins over the last 10, then
// more wins over the last 5, then the home team. Identical inputs always
// yield identical output.
func (s *PredictionService) PickWinner(ctx context.Context, awayAbbr, homeAbbr string, cutoff time.Time) (models.Prediction, error) {
	awayTeam, err := s.ResolveTeam(ctx, awayAbbr)
	if err != nil {
		return models.Prediction{}, err
	}
	homeTeam, err := s.ResolveTeam(ctx, homeAbbr)
	if err != nil {
		return models.Prediction{}, err
	}

	seasonYear := models.SeasonYear(cutoff)

	away10, err := s.RecordLastN(ctx, awayTeam.ID, seasonYear, cutoff, 10)
	if err != nil {
		return models.Prediction{}, err
	}
	home10, err := s.RecordLastN(ctx, homeTeam.ID, seasonYear, cutoff, 10)
	if err != nil {
		return models.Prediction{}, err
	}

	p := models.Prediction{
		Away:       awayTeam.Abbreviation,
		Home:       homeTeam.Abbreviation,
		AwayLast10: away10,
		HomeLast10: home10,
	}

	if away10.Wins != home10.Wins {
		p.Reason = models.ReasonLast10
		p.Winner = p.Home
		if away10.Wins > home10.Wins {
			p.Winner = p.Away
		}
		return p, nil
	}

	away5, err := s.RecordLastN(ctx, awayTeam.ID, seasonYear, cutoff, 5)
	if err != nil {
		return models.Prediction{}, err
	}
	home5, err := s.RecordLastN(ctx, homeTeam.ID, seasonYear, cutoff, 5)
	if err != nil {
		return models.Prediction{}, err
	}
	p.AwayLast5 = &away5
	p.HomeLast5 = &home5

	if away5.Wins != home5.Wins {
		p.Reason = models.ReasonLast5
		p.Winner = p.Home
		if away5.Wins > home5.Wins {
			p.Winner = p.Away
		}
		return p, nil
	}

	p.Reason = models.ReasonHomeTieBreak
	p.Winner = p.Home
	return p, nil
}

// PredictionsReport builds the full report for one scoreboard date. A
// matchup that fails keeps its place as an inline error line; siblings are
// unaffected. A scoreboard that cannot be fetched at all fails the report.
func (s *PredictionService) PredictionsReport(ctx context.Context, date time.Time) (string, error) {
	games, err := s.api.Scoreboard(ctx, date)
	if err != nil {
		return "", fmt.Errorf("error fetching scoreboard: %w", err)
	}

	if len(games) == 0 {
		return fmt.Sprintf("No NBA games found for %s (UTC).", date.Format("2006-01-02")), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🏀 NBA predictions for *%s (UTC)*\nSeason start year: %d\n",
		date.Format("2006-01-02"), models.SeasonYear(date)))

	for _, game := range games {
		sb.WriteString("\n")
		prediction, err := s.PickWinner(ctx, game.AwayAbbr, game.HomeAbbr, date)
		if err != nil {
			metrics.ReportErrors.WithLabelValues("prediction").Inc()
			slog.Error("Prediction failed", "away", game.AwayAbbr, "home", game.HomeAbbr, "error", err)
			sb.WriteString(fmt.Sprintf("%s @ %s  →  (error: %v)\n",
				models.NormalizeAbbr(game.AwayAbbr), models.NormalizeAbbr(game.HomeAbbr), err))
			continue
		}
		sb.WriteString(FormatPrediction(prediction))
		sb.WriteString("\n")
	}

	return sb.String(), nil
}
