package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jonboulle/clockwork"

	"github.com/omarshaarawi/statbot/internal/models"
	"github.com/omarshaarawi/statbot/internal/service"
)

type Handler struct {
	predictions *service.PredictionService
	rankings    *service.RankingService
	clock       clockwork.Clock
}

func NewHandler(predictions *service.PredictionService, rankings *service.RankingService, clock clockwork.Clock) *Handler {
	return &Handler{
		predictions: predictions,
		rankings:    rankings,
		clock:       clock,
	}
}

func (h *Handler) HandleCommand(ctx context.Context, update tgbotapi.Update) []string {
	command := strings.ToLower(update.Message.Command())
	args := update.Message.CommandArguments()

	switch command {
	case "start":
		return []string{"Send /preds to get tomorrow's NBA predictions (UTC).\n" +
			"Or: /preds YYYY-MM-DD (UTC date)\n\n" +
			"Logic: last10 → last5 → home.\n" +
			"Winner has 🏆."}
	case "help":
		return []string{"Available commands:\n" +
			"/preds [YYYY-MM-DD] - NBA predictions for a UTC date (default tomorrow)\n" +
			"/top - FPL top performers over the last gameweeks\n" +
			"/gw - FPL top performers of the last finished gameweek\n" +
			"/team <name> - Look up a team\n" +
			"/chatid - Show this chat's id"}
	case "preds":
		return h.handlePredictions(ctx, args)
	case "top":
		return h.handleWeeklyTop(ctx)
	case "gw":
		return h.handleLastGW(ctx)
	case "team":
		return h.handleTeam(ctx, args)
	case "chatid":
		return []string{fmt.Sprintf("chat_id = %d", update.Message.Chat.ID)}
	default:
		return []string{"Unknown command. Use /help to see available commands."}
	}
}

func (h *Handler) handlePredictions(ctx context.Context, args string) []string {
	date := h.clock.Now().UTC().AddDate(0, 0, 1)
	if args != "" {
		parsed, err := models.ParseReportDate(strings.TrimSpace(args))
		if err != nil {
			return []string{"Use: /preds or /preds YYYY-MM-DD (UTC)"}
		}
		date = parsed
	}

	report, err := h.predictions.PredictionsReport(ctx, date)
	if err != nil {
		return []string{fmt.Sprintf("Error fetching schedule: %v", err)}
	}
	return []string{report}
}

func (h *Handler) handleWeeklyTop(ctx context.Context) []string {
	blocks, err := h.rankings.WeeklyTopBlocks(ctx, h.clock.Now().UTC())
	if err != nil {
		return []string{fmt.Sprintf("Error computing weekly top: %v", err)}
	}
	return blocks
}

func (h *Handler) handleLastGW(ctx context.Context) []string {
	blocks, err := h.rankings.LastGWBlocks(ctx, h.clock.Now().UTC())
	if err != nil {
		return []string{fmt.Sprintf("Error computing last gameweek top: %v", err)}
	}
	return blocks
}

func (h *Handler) handleTeam(ctx context.Context, args string) []string {
	if args == "" {
		return []string{"Please provide a team name. Usage: /team <name or abbreviation>"}
	}

	team, err := h.predictions.FindTeam(ctx, strings.TrimSpace(args))
	if err != nil {
		return []string{fmt.Sprintf("Error looking up team: %v", err)}
	}

	cutoff := h.clock.Now().UTC().AddDate(0, 0, 1)
	record, err := h.predictions.RecordLastN(ctx, team.ID, models.SeasonYear(cutoff), cutoff, 10)
	if err != nil {
		return []string{fmt.Sprintf("*%s* (%s)", team.Name, team.Abbreviation)}
	}

	return []string{fmt.Sprintf("*%s* (%s)\nLast10: %s", team.Name, team.Abbreviation, record)}
}
