package models

// WeeklyRanking is one row of the rolling-window points ranking. The field
// order mirrors the sort key: PPA, then total points, appearances, minutes.
type WeeklyRanking struct {
	PlayerName          string
	TeamName            string
	Position            Position
	PointsPerAppearance float64
	TotalPoints         int
	Appearances         int
	TotalMinutes        int
}

// DefConRanking is one row of the defensive-contribution stream.
type DefConRanking struct {
	PlayerName    string
	TeamName      string
	Position      Position
	PerAppearance float64
	Total         int
	Points        int
	Appearances   int
}

// GameweekRanking is one row of the single-gameweek ranking.
type GameweekRanking struct {
	PlayerName string
	TeamName   string
	Position   Position
	Points     int
	Minutes    int
	Price      string
}

// WeeklyTopReport holds both metric streams of the rolling-window pipeline.
type WeeklyTopReport struct {
	Window      int
	ByPosition  map[Position][]WeeklyRanking
	DefConByPos map[Position][]DefConRanking
}

// LastGWReport holds the single-gameweek pipeline output.
type LastGWReport struct {
	Gameweek   int
	ByPosition map[Position][]GameweekRanking
}

// LiveGoal is one goal event from the live fixtures feed.
type LiveGoal struct {
	FixtureID int
	HomeTeam  string
	AwayTeam  string
	HomeGoals int
	AwayGoals int
	Minute    int
	TeamName  string
	Scorer    string
	Assist    string
	Detail    string
}
