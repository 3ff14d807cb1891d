package models

import "fmt"

// Position is a fantasy position category.
type Position string

const (
	PositionGK  Position = "GK"
	PositionDEF Position = "DEF"
	PositionMID Position = "MID"
	PositionFWD Position = "FWD"
)

// RankedPositions is the display order of the ranking reports.
var RankedPositions = []Position{PositionGK, PositionDEF, PositionMID, PositionFWD}

// OutfieldPositions are the categories the defensive-contribution stream
// covers. Goalkeepers are excluded.
var OutfieldPositions = []Position{PositionDEF, PositionMID, PositionFWD}

var positionByElementType = map[int]Position{
	1: PositionGK,
	2: PositionDEF,
	3: PositionMID,
	4: PositionFWD,
}

// PositionForElementType maps the provider's numeric element type to a
// position category.
func PositionForElementType(t int) (Position, bool) {
	pos, ok := positionByElementType[t]
	return pos, ok
}

type BootstrapResponse struct {
	Events   []GameweekEvent `json:"events"`
	Teams    []FPLTeam       `json:"teams"`
	Elements []FPLElement    `json:"elements"`
}

type GameweekEvent struct {
	ID        int  `json:"id"`
	Finished  bool `json:"finished"`
	IsCurrent bool `json:"is_current"`
}

type FPLTeam struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type FPLElement struct {
	ID          int    `json:"id"`
	FirstName   string `json:"first_name"`
	SecondName  string `json:"second_name"`
	ElementType int    `json:"element_type"`
	Team        int    `json:"team"`
	NowCost     int    `json:"now_cost"`
}

// DisplayName joins first and second name, tolerating either being empty.
func (e FPLElement) DisplayName() string {
	switch {
	case e.FirstName == "":
		return e.SecondName
	case e.SecondName == "":
		return e.FirstName
	}
	return e.FirstName + " " + e.SecondName
}

// Price renders now_cost, which the provider supplies in tenths of a million.
func (e FPLElement) Price() string {
	return fmt.Sprintf("%.1f", float64(e.NowCost)/10)
}

type ElementSummaryResponse struct {
	History []GameweekStat `json:"history"`
}

// GameweekStat is one per-gameweek snapshot of a player's raw stats. The
// defensive-contribution fields exist under two provider names; both are kept
// as explicit optionals and merged through the accessors below.
type GameweekStat struct {
	Round       int `json:"round"`
	Minutes     int `json:"minutes"`
	TotalPoints int `json:"total_points"`

	DefensiveContribution       *int `json:"defensive_contribution"`
	DefCon                      *int `json:"defcon"`
	DefensiveContributionPoints *int `json:"defensive_contribution_points"`
	DefConPoints                *int `json:"defcon_points"`
}

// DefensiveValue returns the defensive-contribution value under whichever
// name the provider used, zero when absent under both.
func (g GameweekStat) DefensiveValue() int {
	if g.DefensiveContribution != nil {
		return *g.DefensiveContribution
	}
	if g.DefCon != nil {
		return *g.DefCon
	}
	return 0
}

// DefensivePoints is the same compatibility shim for the points variant.
func (g GameweekStat) DefensivePoints() int {
	if g.DefensiveContributionPoints != nil {
		return *g.DefensiveContributionPoints
	}
	if g.DefConPoints != nil {
		return *g.DefConPoints
	}
	return 0
}
