package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/sourcegraph/conc/iter"

	"github.com/omarshaarawi/statbot/internal/api/fpl"
	"github.com/omarshaarawi/statbot/internal/config"
	"github.com/omarshaarawi/statbot/internal/metrics"
	"github.com/omarshaarawi/statbot/internal/models"
)

// RankingService recomputes the top-N player rankings from freshly fetched
// per-player histories on every call. Nothing is cached between calls.
type RankingService struct {
	api *fpl.API
	cfg config.Engine
}

func NewRankingService(api *fpl.API, cfg config.Engine) *RankingService {
	return &RankingService{api: api, cfg: cfg}
}

type playerHistory struct {
	element models.FPLElement
	history []models.GameweekStat
	err     error
}

// fetchHistories fans out one element-summary fetch per player with bounded
// concurrency, preserving the provider's enumeration order.
func (s *RankingService) fetchHistories(ctx context.Context, elements []models.FPLElement) []playerHistory {
	mapper := iter.Mapper[models.FPLElement, playerHistory]{MaxGoroutines: s.cfg.FetchWorkers}
	return mapper.Map(elements, func(e *models.FPLElement) playerHistory {
		summary, err := s.api.ElementSummary(ctx, e.ID)
		return playerHistory{element: *e, history: summary.History, err: err}
	})
}

// ComputeWeeklyTop runs the rolling-window pipeline: last WindowSize
// snapshots per player, anti-cameo filters, points-per-appearance ranking
// per position, with the parallel defensive-contribution stream for
// outfield players. A player whose history cannot be fetched is skipped.
func (s *RankingService) ComputeWeeklyTop(ctx context.Context) (models.WeeklyTopReport, error) {
	boot, err := s.api.Bootstrap(ctx)
	if err != nil {
		return models.WeeklyTopReport{}, err
	}

	teamNames := teamNameIndex(boot.Teams)

	report := models.WeeklyTopReport{
		Window:      s.cfg.WindowSize,
		ByPosition:  make(map[models.Position][]models.WeeklyRanking),
		DefConByPos: make(map[models.Position][]models.DefConRanking),
	}

	for _, ph := range s.fetchHistories(ctx, boot.Elements) {
		if ph.err != nil {
			metrics.ReportErrors.WithLabelValues("player_history").Inc()
			slog.Warn("Skipping player, history fetch failed", "player", ph.element.DisplayName(), "error", ph.err)
			continue
		}

		pos, ok := models.PositionForElementType(ph.element.ElementType)
		if !ok || len(ph.history) == 0 {
			continue
		}

		window := lastN(ph.history, s.cfg.WindowSize)

		var points, minutes, appearances int
		for _, snap := range window {
			points += snap.TotalPoints
			minutes += snap.Minutes
			if snap.Minutes > 0 {
				appearances++
			}
		}

		if appearances < s.cfg.MinAppearances || minutes < s.cfg.MinTotalMinutes {
			continue
		}

		name := ph.element.DisplayName()
		team := teamNames[ph.element.Team]

		report.ByPosition[pos] = append(report.ByPosition[pos], models.WeeklyRanking{
			PlayerName:          name,
			TeamName:            team,
			Position:            pos,
			PointsPerAppearance: float64(points) / float64(appearances),
			TotalPoints:         points,
			Appearances:         appearances,
			TotalMinutes:        minutes,
		})

		if pos == models.PositionGK {
			continue
		}

		var dcTotal, dcPoints int
		for _, snap := range window {
			dcTotal += snap.DefensiveValue()
			dcPoints += snap.DefensivePoints()
		}
		report.DefConByPos[pos] = append(report.DefConByPos[pos], models.DefConRanking{
			PlayerName:    name,
			TeamName:      team,
			Position:      pos,
			PerAppearance: float64(dcTotal) / float64(appearances),
			Total:         dcTotal,
			Points:        dcPoints,
			Appearances:   appearances,
		})
	}

	for pos, rows := range report.ByPosition {
		sortWeekly(rows)
		report.ByPosition[pos] = topN(rows, s.cfg.TopN)
	}
	for pos, rows := range report.DefConByPos {
		sortDefCon(rows)
		report.DefConByPos[pos] = topN(rows, s.cfg.TopN)
	}

	return report, nil
}

// ComputeLastGWTop runs the single-window pipeline over the most recently
// finished gameweek.
func (s *RankingService) ComputeLastGWTop(ctx context.Context) (models.LastGWReport, error) {
	boot, err := s.api.Bootstrap(ctx)
	if err != nil {
		return models.LastGWReport{}, err
	}

	gameweek := LastFinishedGameweek(boot.Events)
	teamNames := teamNameIndex(boot.Teams)

	report := models.LastGWReport{
		Gameweek:   gameweek,
		ByPosition: make(map[models.Position][]models.GameweekRanking),
	}

	for _, ph := range s.fetchHistories(ctx, boot.Elements) {
		if ph.err != nil {
			metrics.ReportErrors.WithLabelValues("player_history").Inc()
			slog.Warn("Skipping player, history fetch failed", "player", ph.element.DisplayName(), "error", ph.err)
			continue
		}

		pos, ok := models.PositionForElementType(ph.element.ElementType)
		if !ok {
			continue
		}

		snap, ok := snapshotForRound(ph.history, gameweek)
		if !ok || snap.Minutes < s.cfg.MinMinutesGW {
			continue
		}

		report.ByPosition[pos] = append(report.ByPosition[pos], models.GameweekRanking{
			PlayerName: ph.element.DisplayName(),
			TeamName:   teamNames[ph.element.Team],
			Position:   pos,
			Points:     snap.TotalPoints,
			Minutes:    snap.Minutes,
			Price:      ph.element.Price(),
		})
	}

	for pos, rows := range report.ByPosition {
		sortGameweek(rows)
		report.ByPosition[pos] = topN(rows, s.cfg.TopN)
	}

	return report, nil
}

// LastFinishedGameweek is the highest-numbered finished gameweek; when none
// is finished yet it falls back to one before the current gameweek, floored
// at the first.
func LastFinishedGameweek(events []models.GameweekEvent) int {
	last := 0
	for _, e := range events {
		if e.Finished && e.ID > last {
			last = e.ID
		}
	}
	if last > 0 {
		return last
	}

	for _, e := range events {
		if e.IsCurrent && e.ID > 1 {
			return e.ID - 1
		}
	}
	return 1
}

// WeeklyTopBlocks renders the rolling-window report as one text block per
// position, the defensive-contribution stream after the points stream.
func (s *RankingService) WeeklyTopBlocks(ctx context.Context, date time.Time) ([]string, error) {
	report, err := s.ComputeWeeklyTop(ctx)
	if err != nil {
		return nil, fmt.Errorf("error computing weekly top: %w", err)
	}

	dateISO := date.Format("2006-01-02")
	blocks := make([]string, 0, len(models.RankedPositions)+len(models.OutfieldPositions))
	for _, pos := range models.RankedPositions {
		blocks = append(blocks, formatWeeklyBlock(dateISO, pos, report.ByPosition[pos], s.cfg.TopN, report.Window, s.cfg.MinAppearances))
	}
	for _, pos := range models.OutfieldPositions {
		blocks = append(blocks, formatDefConBlock(dateISO, pos, report.DefConByPos[pos], s.cfg.TopN, report.Window))
	}
	return blocks, nil
}

// Strikers first for the single-gameweek report.
var lastGWOrder = []models.Position{models.PositionFWD, models.PositionMID, models.PositionDEF, models.PositionGK}

// LastGWBlocks renders the single-gameweek report as one block per position.
func (s *RankingService) LastGWBlocks(ctx context.Context, date time.Time) ([]string, error) {
	report, err := s.ComputeLastGWTop(ctx)
	if err != nil {
		return nil, fmt.Errorf("error computing last gameweek top: %w", err)
	}

	dateISO := date.Format("2006-01-02")
	blocks := make([]string, 0, len(lastGWOrder))
	for _, pos := range lastGWOrder {
		blocks = append(blocks, formatGameweekBlock(dateISO, report.Gameweek, pos, report.ByPosition[pos], s.cfg.TopN))
	}
	return blocks, nil
}

func teamNameIndex(teams []models.FPLTeam) map[int]string {
	index := make(map[int]string, len(teams))
	for _, t := range teams {
		index[t.ID] = t.Name
	}
	return index
}

func lastN(history []models.GameweekStat, n int) []models.GameweekStat {
	if len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}

func snapshotForRound(history []models.GameweekStat, round int) (models.GameweekStat, bool) {
	for _, snap := range history {
		if snap.Round == round {
			return snap, true
		}
	}
	return models.GameweekStat{}, false
}

// Sorts are stable so ties beyond the key tuple keep the provider's
// enumeration order, keeping output reproducible.

func sortWeekly(rows []models.WeeklyRanking) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.PointsPerAppearance != b.PointsPerAppearance {
			return a.PointsPerAppearance > b.PointsPerAppearance
		}
		if a.TotalPoints != b.TotalPoints {
			return a.TotalPoints > b.TotalPoints
		}
		if a.Appearances != b.Appearances {
			return a.Appearances > b.Appearances
		}
		return a.TotalMinutes > b.TotalMinutes
	})
}

func sortDefCon(rows []models.DefConRanking) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.PerAppearance != b.PerAppearance {
			return a.PerAppearance > b.PerAppearance
		}
		if a.Total != b.Total {
			return a.Total > b.Total
		}
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		return a.Appearances > b.Appearances
	})
}

func sortGameweek(rows []models.GameweekRanking) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		return a.Minutes > b.Minutes
	})
}

func topN[T any](rows []T, n int) []T {
	if len(rows) <= n {
		return rows
	}
	return rows[:n]
}
