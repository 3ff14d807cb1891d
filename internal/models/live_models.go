package models

// Response shapes for the API-Football style live fixtures feed.

type LiveFixturesResponse struct {
	Response []LiveFixture `json:"response"`
}

type LiveFixture struct {
	Fixture FixtureInfo  `json:"fixture"`
	Teams   FixtureTeams `json:"teams"`
	Goals   FixtureGoals `json:"goals"`
}

type FixtureInfo struct {
	ID int `json:"id"`
}

type FixtureTeams struct {
	Home NamedTeam `json:"home"`
	Away NamedTeam `json:"away"`
}

type NamedTeam struct {
	Name string `json:"name"`
}

type FixtureGoals struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

type FixtureEventsResponse struct {
	Response []FixtureEvent `json:"response"`
}

type FixtureEvent struct {
	Type   string     `json:"type"`
	Detail string     `json:"detail"`
	Time   EventTime  `json:"time"`
	Team   NamedTeam  `json:"team"`
	Player NamedActor `json:"player"`
	Assist NamedActor `json:"assist"`
}

type EventTime struct {
	Elapsed int `json:"elapsed"`
}

type NamedActor struct {
	Name string `json:"name"`
}
