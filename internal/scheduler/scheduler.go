package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/robfig/cron/v3"

	"github.com/omarshaarawi/statbot/internal/config"
	"github.com/omarshaarawi/statbot/internal/repository/seen"
	"github.com/omarshaarawi/statbot/internal/service"
)

// Scheduler drives the recurring reports. Cron expressions come from
// configuration and are validated up front so a bad expression fails startup
// instead of silently never firing.
type Scheduler struct {
	s           gocron.Scheduler
	predictions *service.PredictionService
	rankings    *service.RankingService
	live        *service.LiveService
	guard       *seen.Store
	sendMessage func(string) error
	cfg         config.Schedules
	location    *time.Location
	pollEvery   time.Duration

	ctx context.Context
}

func NewScheduler(
	cfg config.Schedules,
	pollEvery time.Duration,
	predictions *service.PredictionService,
	rankings *service.RankingService,
	live *service.LiveService,
	guard *seen.Store,
	sendMessage func(string) error,
) (*Scheduler, error) {
	location, err := time.LoadLocation(cfg.Location)
	if err != nil {
		return nil, fmt.Errorf("failed to load location %q: %w", cfg.Location, err)
	}

	for _, expr := range []string{cfg.Predictions, cfg.WeeklyTop, cfg.LastGWTop} {
		if _, err := cron.ParseStandard(expr); err != nil {
			return nil, fmt.Errorf("invalid cron expression %q: %w", expr, err)
		}
	}

	s, err := gocron.NewScheduler(
		gocron.WithLocation(location),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &Scheduler{
		s:           s,
		predictions: predictions,
		rankings:    rankings,
		live:        live,
		guard:       guard,
		sendMessage: sendMessage,
		cfg:         cfg,
		location:    location,
		pollEvery:   pollEvery,
	}, nil
}

func (s *Scheduler) Start(ctx context.Context) error {
	s.ctx = ctx

	_, err := s.s.NewJob(
		gocron.CronJob(s.cfg.Predictions, false),
		gocron.NewTask(s.sendPredictions),
	)
	if err != nil {
		return fmt.Errorf("failed to create predictions job: %w", err)
	}

	_, err = s.s.NewJob(
		gocron.CronJob(s.cfg.WeeklyTop, false),
		gocron.NewTask(s.sendWeeklyTop),
	)
	if err != nil {
		return fmt.Errorf("failed to create weekly top job: %w", err)
	}

	_, err = s.s.NewJob(
		gocron.CronJob(s.cfg.LastGWTop, false),
		gocron.NewTask(s.sendLastGWTop),
	)
	if err != nil {
		return fmt.Errorf("failed to create last gameweek job: %w", err)
	}

	_, err = s.s.NewJob(
		gocron.DurationJob(s.pollEvery),
		gocron.NewTask(s.pollLive),
	)
	if err != nil {
		return fmt.Errorf("failed to create live poll job: %w", err)
	}

	s.s.Start()
	return nil
}

func (s *Scheduler) Stop() error {
	return s.s.Shutdown()
}

func (s *Scheduler) sendPredictions() {
	date := time.Now().UTC().AddDate(0, 0, 1)
	report, err := s.predictions.PredictionsReport(s.ctx, date)
	if err != nil {
		slog.Error("Failed to build predictions report", "error", err)
		return
	}
	if err := s.sendMessage(report); err != nil {
		slog.Error("Failed to send predictions report", "error", err)
	}
}

func (s *Scheduler) sendWeeklyTop() {
	today := time.Now().In(s.location)

	// One post per calendar day even when the job misfires twice.
	key := "weekly:" + today.Format("2006-01-02")
	if s.guard.Seen(key) {
		return
	}

	blocks, err := s.rankings.WeeklyTopBlocks(s.ctx, today)
	if err != nil {
		slog.Error("Failed to build weekly top report", "error", err)
		return
	}
	for _, block := range blocks {
		if err := s.sendMessage(block); err != nil {
			slog.Error("Failed to send weekly top block", "error", err)
			return
		}
	}

	s.guard.Add(key)
	if err := s.guard.Flush(); err != nil {
		slog.Error("Failed to persist weekly guard", "error", err)
	}
}

func (s *Scheduler) sendLastGWTop() {
	blocks, err := s.rankings.LastGWBlocks(s.ctx, time.Now().In(s.location))
	if err != nil {
		slog.Error("Failed to build last gameweek report", "error", err)
		return
	}
	for _, block := range blocks {
		if err := s.sendMessage(block); err != nil {
			slog.Error("Failed to send last gameweek block", "error", err)
			return
		}
	}
}

func (s *Scheduler) pollLive() {
	s.live.Poll(s.ctx)
}
