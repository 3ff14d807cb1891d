package models

import "fmt"

// TieBreakReason identifies which step of the tie-break chain decided a
// prediction.
type TieBreakReason string

const (
	ReasonLast10       TieBreakReason = "last10"
	ReasonLast5        TieBreakReason = "last5"
	ReasonHomeTieBreak TieBreakReason = "home_tiebreak"
)

// Record is a win/loss count over a window of games.
type Record struct {
	Wins   int
	Losses int
}

func (r Record) String() string {
	return fmt.Sprintf("%d-%d", r.Wins, r.Losses)
}

// Prediction is the outcome of the tie-break chain for one matchup. The
// last-5 records are only populated when the last-10 step did not decide.
type Prediction struct {
	Away       string
	Home       string
	Winner     string
	Reason     TieBreakReason
	AwayLast10 Record
	HomeLast10 Record
	AwayLast5  *Record
	HomeLast5  *Record
}
