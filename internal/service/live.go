package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/omarshaarawi/statbot/internal/api/livescore"
	"github.com/omarshaarawi/statbot/internal/models"
	"github.com/omarshaarawi/statbot/internal/repository/seen"
)

// LiveService polls the live fixtures feed and posts each goal exactly once.
// When the feed credentials are absent the whole feature no-ops.
type LiveService struct {
	api     *livescore.API
	store   *seen.Store
	deliver func(string) error
}

func NewLiveService(api *livescore.API, store *seen.Store, deliver func(string) error) *LiveService {
	return &LiveService{
		api:     api,
		store:   store,
		deliver: deliver,
	}
}

// Poll runs one pass over the live fixtures. Per-fixture failures are
// isolated; the pass continues with the remaining fixtures.
func (s *LiveService) Poll(ctx context.Context) {
	if !s.api.Configured() {
		return
	}

	fixtures, err := s.api.LiveFixtures(ctx)
	if err != nil {
		slog.Warn("Live fixtures poll failed", "error", err)
		return
	}

	for _, fixture := range fixtures {
		events, err := s.api.FixtureEvents(ctx, fixture.Fixture.ID)
		if err != nil {
			slog.Warn("Fixture events fetch failed", "fixture", fixture.Fixture.ID, "error", err)
			continue
		}

		for _, event := range events {
			if event.Type != "Goal" {
				continue
			}

			goal := models.LiveGoal{
				FixtureID: fixture.Fixture.ID,
				HomeTeam:  fixture.Teams.Home.Name,
				AwayTeam:  fixture.Teams.Away.Name,
				HomeGoals: fixture.Goals.Home,
				AwayGoals: fixture.Goals.Away,
				Minute:    event.Time.Elapsed,
				TeamName:  event.Team.Name,
				Scorer:    event.Player.Name,
				Assist:    event.Assist.Name,
				Detail:    event.Detail,
			}

			key := fmt.Sprintf("%d:%d:%s:%s:%s", goal.FixtureID, goal.Minute, goal.Scorer, goal.Assist, goal.Detail)
			if s.store.Seen(key) {
				continue
			}

			if err := s.deliver(FormatLiveGoal(goal)); err != nil {
				slog.Error("Error delivering live goal", "error", err)
				continue
			}
			s.store.Add(key)
		}
	}

	if err := s.store.Flush(); err != nil {
		slog.Error("Error persisting seen events", "error", err)
	}
}
