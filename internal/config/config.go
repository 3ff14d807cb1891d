package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	TelegramBot TelegramBot
	ESPN        ESPN
	FPL         FPL
	Live        Live
	Engine      Engine
	Schedules   Schedules
	HTTPAddr    string `envconfig:"HTTP_ADDR" default:":8080"`
}

type TelegramBot struct {
	Token  string `envconfig:"TELEGRAM_TOKEN" required:"true"`
	ChatID int64  `envconfig:"CHAT_ID"`
}

type ESPN struct {
	ScoreboardURL         string `envconfig:"ESPN_SCOREBOARD_URL" default:"https://site.api.espn.com/apis/site/v2/sports/basketball/nba/scoreboard"`
	FallbackScoreboardURL string `envconfig:"ESPN_SCOREBOARD_FALLBACK_URL" default:"https://site.web.api.espn.com/apis/v2/sports/basketball/nba/scoreboard"`
	TeamsURL              string `envconfig:"ESPN_TEAMS_URL" default:"https://site.api.espn.com/apis/site/v2/sports/basketball/nba/teams"`
	ScheduleURL           string `envconfig:"ESPN_SCHEDULE_URL" default:"https://site.api.espn.com/apis/site/v2/sports/basketball/nba/teams/%d/schedule"`
}

type FPL struct {
	BaseURL string `envconfig:"FPL_BASE_URL" default:"https://fantasy.premierleague.com/api"`
}

// Live configures the live goal watcher. Without an API key and season the
// feature silently no-ops.
type Live struct {
	APIKey       string        `envconfig:"APIFOOTBALL_KEY"`
	BaseURL      string        `envconfig:"APIFOOTBALL_BASE_URL" default:"https://v3.football.api-sports.io"`
	LeagueID     int           `envconfig:"LIVE_LEAGUE_ID" default:"39"`
	Season       string        `envconfig:"SEASON"`
	PollInterval time.Duration `envconfig:"LIVE_POLL_INTERVAL" default:"45s"`
	SeenFile     string        `envconfig:"LIVE_SEEN_FILE" default:"state/live_seen_events.json"`
}

type Engine struct {
	HTTPTimeout     time.Duration `envconfig:"HTTP_TIMEOUT" default:"20s"`
	MaxRetries      int           `envconfig:"MAX_RETRIES" default:"4"`
	BackoffCap      time.Duration `envconfig:"BACKOFF_CAP" default:"10s"`
	TeamDirTTL      time.Duration `envconfig:"TEAM_DIR_TTL" default:"6h"`
	TopN            int           `envconfig:"TOP_N" default:"5"`
	WindowSize      int           `envconfig:"LAST_N_GWS" default:"5"`
	MinAppearances  int           `envconfig:"MIN_APPS_LAST5" default:"2"`
	MinTotalMinutes int           `envconfig:"MIN_TOTAL_MIN_LAST5" default:"0"`
	MinMinutesGW    int           `envconfig:"MIN_MINUTES_GW" default:"1"`
	MaxMessageLen   int           `envconfig:"MAX_MESSAGE_LEN" default:"3500"`
	FetchWorkers    int           `envconfig:"FETCH_WORKERS" default:"8"`
}

// Schedules holds the cron expressions for the recurring reports, evaluated
// in Location.
type Schedules struct {
	Location    string `envconfig:"SCHEDULE_TZ" default:"Asia/Riyadh"`
	Predictions string `envconfig:"PREDICTIONS_CRON" default:"0 9 * * *"`
	WeeklyTop   string `envconfig:"WEEKLY_TOP_CRON" default:"0 12 * * 2"`
	LastGWTop   string `envconfig:"LAST_GW_CRON" default:"0 12 * * 4"`
	SeenFile    string `envconfig:"WEEKLY_SEEN_FILE" default:"state/fpl_weekly_seen.json"`
}

func New() (*Config, error) {
	var c Config
	err := envconfig.Process("", &c)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
