package bot

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/omarshaarawi/statbot/internal/api/espn"
	"github.com/omarshaarawi/statbot/internal/api/fetch"
	"github.com/omarshaarawi/statbot/internal/config"
	"github.com/omarshaarawi/statbot/internal/repository/memory"
	"github.com/omarshaarawi/statbot/internal/service"
)

func commandUpdate(text string) tgbotapi.Update {
	cmdLen := len(text)
	if i := strings.Index(text, " "); i >= 0 {
		cmdLen = i
	}
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Text: text,
		Chat: &tgbotapi.Chat{ID: 42},
		Entities: []tgbotapi.MessageEntity{
			{Type: "bot_command", Offset: 0, Length: cmdLen},
		},
	}}
}

// newHandler wires a handler against a stub scoreboard that always has no
// games, which is enough for the command-routing paths under test.
func newHandler(t *testing.T) *Handler {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/scoreboard", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"events":[]}`)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	fetcher := fetch.NewClient(config.Engine{HTTPTimeout: 5 * time.Second, MaxRetries: 1, BackoffCap: time.Second}).
		WithSleep(func(context.Context, time.Duration) error { return nil })
	api := espn.NewAPI(espn.NewClient(fetcher, config.ESPN{ScoreboardURL: server.URL + "/scoreboard"}))

	clock := clockwork.NewFakeClockAt(time.Date(2026, 2, 18, 15, 0, 0, 0, time.UTC))
	predictions := service.NewPredictionService(api,
		memory.NewTeamDirectory(6*time.Hour, clock), memory.NewOutcomeCache())

	return NewHandler(predictions, nil, clock)
}

func TestHandleCommand_Routing(t *testing.T) {
	t.Parallel()

	h := newHandler(t)
	ctx := context.Background()

	replies := h.HandleCommand(ctx, commandUpdate("/start"))
	require.Len(t, replies, 1)
	require.Contains(t, replies[0], "/preds")

	replies = h.HandleCommand(ctx, commandUpdate("/help"))
	require.Len(t, replies, 1)
	require.Contains(t, replies[0], "/team <name>")

	replies = h.HandleCommand(ctx, commandUpdate("/chatid"))
	require.Equal(t, []string{"chat_id = 42"}, replies)

	replies = h.HandleCommand(ctx, commandUpdate("/bogus"))
	require.Len(t, replies, 1)
	require.Contains(t, replies[0], "Unknown command")
}

func TestHandlePredictions_DefaultsToTomorrow(t *testing.T) {
	t.Parallel()

	h := newHandler(t)
	replies := h.HandleCommand(context.Background(), commandUpdate("/preds"))
	require.Equal(t, []string{"No NBA games found for 2026-02-19 (UTC)."}, replies)
}

func TestHandlePredictions_ExplicitDate(t *testing.T) {
	t.Parallel()

	h := newHandler(t)
	replies := h.HandleCommand(context.Background(), commandUpdate("/preds 2026-03-01"))
	require.Equal(t, []string{"No NBA games found for 2026-03-01 (UTC)."}, replies)
}

func TestHandlePredictions_BadDate(t *testing.T) {
	t.Parallel()

	h := newHandler(t)
	replies := h.HandleCommand(context.Background(), commandUpdate("/preds yesterday"))
	require.Equal(t, []string{"Use: /preds or /preds YYYY-MM-DD (UTC)"}, replies)
}

func TestHandleTeam_RequiresArgument(t *testing.T) {
	t.Parallel()

	h := newHandler(t)
	replies := h.HandleCommand(context.Background(), commandUpdate("/team"))
	require.Len(t, replies, 1)
	require.Contains(t, replies[0], "Usage: /team")
}
