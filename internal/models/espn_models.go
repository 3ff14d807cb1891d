package models

// Response shapes for the ESPN site API endpoints the engine consumes.
// Optional fields are pointers so "absent" is distinguishable from zero.

type ScoreboardResponse struct {
	Events []ScoreboardEvent `json:"events"`
}

type ScoreboardEvent struct {
	Competitions []Competition `json:"competitions"`
}

type Competition struct {
	Status      CompetitionStatus `json:"status"`
	Competitors []Competitor      `json:"competitors"`
}

type CompetitionStatus struct {
	Type StatusType `json:"type"`
}

type StatusType struct {
	Completed bool `json:"completed"`
}

type Competitor struct {
	HomeAway string         `json:"homeAway"`
	Winner   *bool          `json:"winner"`
	Team     CompetitorTeam `json:"team"`
}

type CompetitorTeam struct {
	ID           string `json:"id"`
	Abbreviation string `json:"abbreviation"`
}

type TeamListResponse struct {
	Sports []SportEntry `json:"sports"`
}

type SportEntry struct {
	Leagues []LeagueEntry `json:"leagues"`
}

type LeagueEntry struct {
	Teams []TeamEntry `json:"teams"`
}

type TeamEntry struct {
	Team TeamDetail `json:"team"`
}

type TeamDetail struct {
	ID               string `json:"id"`
	Abbreviation     string `json:"abbreviation"`
	ShortDisplayName string `json:"shortDisplayName"`
	DisplayName      string `json:"displayName"`
}

type ScheduleResponse struct {
	Events []ScheduleEvent `json:"events"`
}

type ScheduleEvent struct {
	Date         string        `json:"date"`
	Competitions []Competition `json:"competitions"`
}
