package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/omarshaarawi/statbot/internal/api/fetch"
	"github.com/omarshaarawi/statbot/internal/api/fpl"
	"github.com/omarshaarawi/statbot/internal/config"
	"github.com/omarshaarawi/statbot/internal/models"
)

func TestLastFinishedGameweek(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		events []models.GameweekEvent
		want   int
	}{
		{
			name: "highest finished wins",
			events: []models.GameweekEvent{
				{ID: 1, Finished: true},
				{ID: 3, Finished: true},
				{ID: 2, Finished: true},
				{ID: 4, IsCurrent: true},
			},
			want: 3,
		},
		{
			name: "none finished falls back to before current",
			events: []models.GameweekEvent{
				{ID: 1},
				{ID: 2},
				{ID: 3, IsCurrent: true},
			},
			want: 2,
		},
		{
			name: "first gameweek is the floor",
			events: []models.GameweekEvent{
				{ID: 1, IsCurrent: true},
			},
			want: 1,
		},
		{
			name:   "no events at all",
			events: nil,
			want:   1,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, LastFinishedGameweek(tt.events))
		})
	}
}

// fakeFPL serves the bootstrap and element-summary endpoints the ranking
// pipelines read.
type fakeFPL struct {
	bootstrap string
	summaries map[int]string
	fail      map[int]bool
	server    *httptest.Server
}

func newFakeFPL(t *testing.T) *fakeFPL {
	t.Helper()

	f := &fakeFPL{
		summaries: make(map[int]string),
		fail:      make(map[int]bool),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/bootstrap-static/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, f.bootstrap)
	})
	mux.HandleFunc("/element-summary/", func(w http.ResponseWriter, r *http.Request) {
		raw := strings.Trim(strings.TrimPrefix(r.URL.Path, "/element-summary/"), "/")
		id, err := strconv.Atoi(raw)
		require.NoError(t, err)

		if f.fail[id] {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		body, ok := f.summaries[id]
		if !ok {
			body = `{"history":[]}`
		}
		fmt.Fprint(w, body)
	})

	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeFPL) service(cfg config.Engine) *RankingService {
	if cfg.HTTPTimeout == 0 {
		cfg.HTTPTimeout = 5 * time.Second
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 1
	}
	fetcher := fetch.NewClient(cfg).
		WithSleep(func(context.Context, time.Duration) error { return nil })
	return NewRankingService(fpl.NewAPI(fetcher, config.FPL{BaseURL: f.server.URL}), cfg)
}

func rankingCfg() config.Engine {
	return config.Engine{
		TopN:           5,
		WindowSize:     5,
		MinAppearances: 2,
		MinMinutesGW:   1,
		FetchWorkers:   4,
		MaxRetries:     1,
	}
}

func histEntry(round, minutes, points int, extra string) string {
	entry := fmt.Sprintf(`{"round":%d,"minutes":%d,"total_points":%d`, round, minutes, points)
	if extra != "" {
		entry += "," + extra
	}
	return entry + "}"
}

func historyJSON(entries ...string) string {
	return fmt.Sprintf(`{"history":[%s]}`, strings.Join(entries, ","))
}

// seedLeague loads a small league: gameweeks 1..5 finished with 6 current,
// two teams, and one or two players per position with known histories.
func seedLeague(f *fakeFPL) {
	f.bootstrap = `{
		"events": [
			{"id": 1, "finished": true}, {"id": 2, "finished": true},
			{"id": 3, "finished": true}, {"id": 4, "finished": true},
			{"id": 5, "finished": true}, {"id": 6, "is_current": true}
		],
		"teams": [
			{"id": 1, "name": "Arsenal"},
			{"id": 2, "name": "Spurs"}
		],
		"elements": [
			{"id": 10, "first_name": "Bukayo", "second_name": "Saka", "element_type": 3, "team": 1, "now_cost": 103},
			{"id": 11, "first_name": "", "second_name": "Cameo", "element_type": 3, "team": 2, "now_cost": 55},
			{"id": 12, "first_name": "Steady", "second_name": "Mid", "element_type": 3, "team": 2, "now_cost": 70},
			{"id": 13, "first_name": "Safe", "second_name": "Hands", "element_type": 1, "team": 1, "now_cost": 50},
			{"id": 14, "first_name": "Wall", "second_name": "Back", "element_type": 2, "team": 1, "now_cost": 60},
			{"id": 15, "first_name": "Quiet", "second_name": "Back", "element_type": 2, "team": 2, "now_cost": 45},
			{"id": 16, "first_name": "Bench", "second_name": "Striker", "element_type": 4, "team": 2, "now_cost": 80}
		]
	}`

	// Saka: six rounds, the five-round window covers rounds 2..6.
	f.summaries[10] = historyJSON(
		histEntry(1, 90, 10, ""), histEntry(2, 90, 8, ""), histEntry(3, 90, 6, ""),
		histEntry(4, 90, 12, ""), histEntry(5, 90, 4, ""), histEntry(6, 90, 9, ""),
	)
	// One appearance only: filtered by the minimum-appearances rule.
	f.summaries[11] = historyJSON(histEntry(6, 20, 12, ""))
	f.summaries[12] = historyJSON(
		histEntry(2, 90, 5, ""), histEntry(3, 90, 5, ""), histEntry(4, 90, 5, ""),
		histEntry(5, 90, 5, ""), histEntry(6, 90, 5, ""),
	)
	f.summaries[13] = historyJSON(
		histEntry(2, 90, 4, ""), histEntry(3, 90, 4, ""), histEntry(4, 90, 4, ""),
		histEntry(5, 90, 4, ""), histEntry(6, 90, 4, ""),
	)
	// Defensive contributions under both provider spellings.
	f.summaries[14] = historyJSON(
		histEntry(2, 90, 6, `"defensive_contribution":10,"defensive_contribution_points":2`),
		histEntry(3, 90, 6, `"defensive_contribution":10,"defensive_contribution_points":2`),
		histEntry(4, 90, 6, `"defensive_contribution":10,"defensive_contribution_points":2`),
		histEntry(5, 90, 6, `"defcon":12,"defcon_points":2`),
		histEntry(6, 90, 6, `"defcon":12,"defcon_points":2`),
	)
	f.summaries[15] = historyJSON(
		histEntry(2, 90, 2, ""), histEntry(3, 90, 2, ""), histEntry(4, 90, 2, ""),
		histEntry(5, 90, 2, ""), histEntry(6, 90, 2, ""),
	)
	// Unused sub: present in round 5 with zero minutes.
	f.summaries[16] = historyJSON(histEntry(5, 0, 0, ""), histEntry(6, 0, 0, ""))
}

func TestComputeWeeklyTop(t *testing.T) {
	t.Parallel()

	f := newFakeFPL(t)
	seedLeague(f)
	svc := f.service(rankingCfg())

	report, err := svc.ComputeWeeklyTop(context.Background())
	require.NoError(t, err)
	require.Equal(t, 5, report.Window)

	mids := report.ByPosition[models.PositionMID]
	require.Len(t, mids, 2, "the single-appearance player must be filtered out")
	require.Equal(t, "Bukayo Saka", mids[0].PlayerName)
	require.Equal(t, "Arsenal", mids[0].TeamName)
	require.InDelta(t, 7.8, mids[0].PointsPerAppearance, 1e-9)
	require.Equal(t, 39, mids[0].TotalPoints)
	require.Equal(t, 5, mids[0].Appearances)
	require.Equal(t, "Steady Mid", mids[1].PlayerName)
	require.InDelta(t, 5.0, mids[1].PointsPerAppearance, 1e-9)

	gks := report.ByPosition[models.PositionGK]
	require.Len(t, gks, 1)
	require.Equal(t, "Safe Hands", gks[0].PlayerName)

	// Goalkeepers never enter the defensive-contribution stream.
	require.NotContains(t, report.DefConByPos, models.PositionGK)

	defs := report.DefConByPos[models.PositionDEF]
	require.Len(t, defs, 2)
	require.Equal(t, "Wall Back", defs[0].PlayerName)
	require.Equal(t, 54, defs[0].Total, "both defensive-contribution spellings count")
	require.Equal(t, 10, defs[0].Points)
	require.InDelta(t, 10.8, defs[0].PerAppearance, 1e-9)
	require.Equal(t, "Quiet Back", defs[1].PlayerName)
	require.Equal(t, 0, defs[1].Total)
}

func TestComputeWeeklyTop_TopNTruncates(t *testing.T) {
	t.Parallel()

	f := newFakeFPL(t)
	seedLeague(f)
	cfg := rankingCfg()
	cfg.TopN = 1
	svc := f.service(cfg)

	report, err := svc.ComputeWeeklyTop(context.Background())
	require.NoError(t, err)

	mids := report.ByPosition[models.PositionMID]
	require.Len(t, mids, 1)
	require.Equal(t, "Bukayo Saka", mids[0].PlayerName)
}

func TestComputeWeeklyTop_Deterministic(t *testing.T) {
	t.Parallel()

	f := newFakeFPL(t)
	seedLeague(f)
	svc := f.service(rankingCfg())

	first, err := svc.ComputeWeeklyTop(context.Background())
	require.NoError(t, err)
	for n := 0; n < 3; n++ {
		again, err := svc.ComputeWeeklyTop(context.Background())
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
}

func TestComputeWeeklyTop_SkipsFailedHistories(t *testing.T) {
	t.Parallel()

	f := newFakeFPL(t)
	seedLeague(f)
	f.fail[12] = true
	svc := f.service(rankingCfg())

	report, err := svc.ComputeWeeklyTop(context.Background())
	require.NoError(t, err)

	mids := report.ByPosition[models.PositionMID]
	require.Len(t, mids, 1)
	require.Equal(t, "Bukayo Saka", mids[0].PlayerName)
}

func TestComputeLastGWTop(t *testing.T) {
	t.Parallel()

	f := newFakeFPL(t)
	seedLeague(f)
	svc := f.service(rankingCfg())

	report, err := svc.ComputeLastGWTop(context.Background())
	require.NoError(t, err)
	require.Equal(t, 5, report.Gameweek)

	mids := report.ByPosition[models.PositionMID]
	require.Len(t, mids, 2, "no round-5 snapshot means no ranking entry")
	require.Equal(t, "Steady Mid", mids[0].PlayerName)
	require.Equal(t, 5, mids[0].Points)
	require.Equal(t, "Bukayo Saka", mids[1].PlayerName)
	require.Equal(t, 4, mids[1].Points)
	require.Equal(t, "10.3", mids[1].Price)

	// Zero minutes in the gameweek fails the minimum-minutes rule.
	require.Empty(t, report.ByPosition[models.PositionFWD])
}

func TestWeeklyTopBlocks_Layout(t *testing.T) {
	t.Parallel()

	f := newFakeFPL(t)
	seedLeague(f)
	svc := f.service(rankingCfg())

	blocks, err := svc.WeeklyTopBlocks(context.Background(), time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	// One points block per position, then one defensive block per outfield
	// position.
	require.Len(t, blocks, len(models.RankedPositions)+len(models.OutfieldPositions))
	require.Contains(t, blocks[2], "MID")
	require.Contains(t, blocks[2], "Bukayo Saka")
	require.Contains(t, blocks[2], "2026-09-01")
}
