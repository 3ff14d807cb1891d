package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/omarshaarawi/statbot/internal/api/fetch"
	"github.com/omarshaarawi/statbot/internal/api/livescore"
	"github.com/omarshaarawi/statbot/internal/config"
	"github.com/omarshaarawi/statbot/internal/repository/seen"
)

const liveFixtureJSON = `{"response":[{
	"fixture": {"id": 7001},
	"teams": {"home": {"name": "Arsenal"}, "away": {"name": "Spurs"}},
	"goals": {"home": 1, "away": 0}
}]}`

const liveEventsJSON = `{"response":[
	{"type": "Goal", "detail": "Normal Goal",
	 "time": {"elapsed": 23},
	 "team": {"name": "Arsenal"},
	 "player": {"name": "Saka"},
	 "assist": {"name": "Odegaard"}},
	{"type": "Card", "detail": "Yellow Card",
	 "time": {"elapsed": 40},
	 "team": {"name": "Spurs"},
	 "player": {"name": "Romero"},
	 "assist": {"name": ""}}
]}`

func newLiveService(t *testing.T, deliver func(string) error) *LiveService {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/fixtures", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "secret", r.Header.Get("x-apisports-key"))
		require.Equal(t, "all", r.URL.Query().Get("live"))
		fmt.Fprint(w, liveFixtureJSON)
	})
	mux.HandleFunc("/fixtures/events", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "7001", r.URL.Query().Get("fixture"))
		fmt.Fprint(w, liveEventsJSON)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	fetcher := fetch.NewClient(config.Engine{HTTPTimeout: 5 * time.Second, MaxRetries: 1, BackoffCap: time.Second}).
		WithSleep(func(context.Context, time.Duration) error { return nil })
	api := livescore.NewAPI(fetcher, config.Live{
		APIKey:   "secret",
		BaseURL:  server.URL,
		LeagueID: 39,
		Season:   "2026",
	})

	store := seen.NewStore(filepath.Join(t.TempDir(), "seen.json"))
	return NewLiveService(api, store, deliver)
}

func TestLivePoll_DeliversEachGoalOnce(t *testing.T) {
	t.Parallel()

	var delivered []string
	svc := newLiveService(t, func(msg string) error {
		delivered = append(delivered, msg)
		return nil
	})

	svc.Poll(context.Background())
	require.Len(t, delivered, 1, "card events are not goals")
	require.Equal(t, "⚽ Arsenal 1-0 Spurs\n23' — Arsenal: Saka (assist: Odegaard)", delivered[0])

	// Second pass over the same feed: the goal is already seen.
	svc.Poll(context.Background())
	require.Len(t, delivered, 1)
}

func TestLivePoll_FailedDeliveryRetriesNextPass(t *testing.T) {
	t.Parallel()

	var attempts int
	svc := newLiveService(t, func(string) error {
		attempts++
		if attempts == 1 {
			return fmt.Errorf("telegram down")
		}
		return nil
	})

	svc.Poll(context.Background())
	require.Equal(t, 1, attempts)

	// The failed goal was not marked seen, so the next pass retries it.
	svc.Poll(context.Background())
	require.Equal(t, 2, attempts)

	svc.Poll(context.Background())
	require.Equal(t, 2, attempts)
}

func TestLivePoll_UnconfiguredIsNoOp(t *testing.T) {
	t.Parallel()

	fetcher := fetch.NewClient(config.Engine{HTTPTimeout: time.Second, MaxRetries: 1, BackoffCap: time.Second})
	api := livescore.NewAPI(fetcher, config.Live{BaseURL: "http://127.0.0.1:1"})

	store := seen.NewStore(filepath.Join(t.TempDir(), "seen.json"))
	svc := NewLiveService(api, store, func(string) error {
		t.Fatal("deliver must not be called without credentials")
		return nil
	})
	svc.Poll(context.Background())
}
