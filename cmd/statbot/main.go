package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/omarshaarawi/statbot/internal/api/espn"
	"github.com/omarshaarawi/statbot/internal/api/fetch"
	"github.com/omarshaarawi/statbot/internal/api/fpl"
	"github.com/omarshaarawi/statbot/internal/api/livescore"
	"github.com/omarshaarawi/statbot/internal/bot"
	"github.com/omarshaarawi/statbot/internal/config"
	"github.com/omarshaarawi/statbot/internal/repository/memory"
	"github.com/omarshaarawi/statbot/internal/repository/seen"
	"github.com/omarshaarawi/statbot/internal/scheduler"
	"github.com/omarshaarawi/statbot/internal/service"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Error running application", "error", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil {
		slog.Error("Error loading .env file", "error", err)
	}

	cfg, err := config.New()
	if err != nil {
		return err
	}

	clock := clockwork.NewRealClock()
	fetcher := fetch.NewClient(cfg.Engine)

	espnAPI := espn.NewAPI(espn.NewClient(fetcher, cfg.ESPN))
	fplAPI := fpl.NewAPI(fetcher, cfg.FPL)
	liveAPI := livescore.NewAPI(fetcher, cfg.Live)

	directory := memory.NewTeamDirectory(cfg.Engine.TeamDirTTL, clock)
	outcomes := memory.NewOutcomeCache()

	predictionService := service.NewPredictionService(espnAPI, directory, outcomes)
	rankingService := service.NewRankingService(fplAPI, cfg.Engine)

	handler := bot.NewHandler(predictionService, rankingService, clock)
	telegramBot, err := bot.NewTelegramBot(cfg.TelegramBot.Token, cfg.TelegramBot.ChatID, cfg.Engine.MaxMessageLen, handler)
	if err != nil {
		return err
	}

	liveService := service.NewLiveService(liveAPI, seen.NewStore(cfg.Live.SeenFile), telegramBot.SendMessage)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sched, err := scheduler.NewScheduler(
		cfg.Schedules,
		cfg.Live.PollInterval,
		predictionService,
		rankingService,
		liveService,
		seen.NewStore(cfg.Schedules.SeenFile),
		telegramBot.SendMessage,
	)
	if err != nil {
		return err
	}

	if err := sched.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if err := sched.Stop(); err != nil {
			slog.Error("Error stopping scheduler", "error", err)
		}
	}()

	mux := http.NewServeMux()
	mux.HandleFunc("/", healthCheckHandler)
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		if err := http.ListenAndServe(cfg.HTTPAddr, mux); err != nil {
			slog.Error("Error starting HTTP server", "error", err)
		}
	}()

	go func() {
		if err := telegramBot.Start(ctx); err != nil {
			slog.Error("Error running telegram bot", "error", err)
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down gracefully...")

	return nil
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
