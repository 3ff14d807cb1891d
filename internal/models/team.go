package models

import (
	"strings"
	"time"
)

// Team is one entry of the provider's team directory. Immutable once loaded
// into a cache generation.
type Team struct {
	ID           int
	Abbreviation string
	Name         string
}

// Matchup is one scoreboard game, consumed once by the prediction engine.
type Matchup struct {
	AwayAbbr string
	HomeAbbr string
}

// Some provider abbreviations are shorter than the standard NBA ones.
var abbrFix = map[string]string{
	"GS":  "GSW",
	"SA":  "SAS",
	"NY":  "NYK",
	"WSH": "WAS",
	"NO":  "NOP",
	"PHO": "PHX",
	"BRK": "BKN",
	"CHO": "CHA",
}

// NormalizeAbbr uppercases, trims and alias-corrects a team abbreviation so
// provider short forms and canonical forms converge to the same key. It is
// total and idempotent.
func NormalizeAbbr(abbr string) string {
	abbr = strings.ToUpper(strings.TrimSpace(abbr))
	if fixed, ok := abbrFix[abbr]; ok {
		return fixed
	}
	return abbr
}

// SeasonYear returns the season start year for a date. The season rolls over
// in October: 2026-02-19 belongs to the 2025-26 season, so the year is 2025.
func SeasonYear(d time.Time) int {
	if d.Month() >= time.October {
		return d.Year()
	}
	return d.Year() - 1
}

// DateParam encodes a date the way the scoreboard endpoint expects it.
func DateParam(d time.Time) string {
	return d.Format("20060102")
}

// ParseReportDate parses a strict YYYY-MM-DD command argument as a UTC date.
func ParseReportDate(arg string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", arg, time.UTC)
}
