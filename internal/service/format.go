package service

import (
	"fmt"
	"strings"

	"github.com/omarshaarawi/statbot/internal/models"
)

// Chunk splits text into ordered pieces of at most maxLen runes each.
// Concatenating the result reproduces text exactly. No attempt is made to
// preserve line boundaries.
func Chunk(text string, maxLen int) []string {
	if text == "" {
		return nil
	}
	if maxLen < 1 {
		return []string{text}
	}

	runes := []rune(text)
	chunks := make([]string, 0, (len(runes)+maxLen-1)/maxLen)
	for start := 0; start < len(runes); start += maxLen {
		end := min(start+maxLen, len(runes))
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}

// FormatPrediction renders one matchup's prediction. The last-5 line only
// appears when the tie-break chain got past the last-10 comparison.
func FormatPrediction(p models.Prediction) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%s @ %s  →  🏆 *%s*", p.Away, p.Home, p.Winner))
	sb.WriteString(fmt.Sprintf("\nLast10: %s %s | %s %s", p.Away, p.AwayLast10, p.Home, p.HomeLast10))

	if p.AwayLast5 != nil && p.HomeLast5 != nil {
		sb.WriteString(fmt.Sprintf("\nLast5:  %s %s | %s %s", p.Away, *p.AwayLast5, p.Home, *p.HomeLast5))
	}

	if p.Reason == models.ReasonHomeTieBreak {
		sb.WriteString("\nTie-break: home team")
	}

	return sb.String()
}

func formatWeeklyBlock(dateISO string, pos models.Position, rows []models.WeeklyRanking, topN, window, minApps int) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🏆 FPL — Top %d %s (last %d GWs) — %s\n", topN, pos, window, dateISO))
	sb.WriteString("Ranking: Points per Appearance (apps = minutes>0)\n")
	sb.WriteString(fmt.Sprintf("Filter: min apps = %d\n\n", minApps))

	if len(rows) == 0 {
		sb.WriteString("No players matched the filter.")
		return sb.String()
	}

	for i, row := range rows {
		sb.WriteString(fmt.Sprintf("%d) %s (%s) — %.2f P/A | %d pts | %d apps\n",
			i+1, row.PlayerName, row.TeamName, row.PointsPerAppearance, row.TotalPoints, row.Appearances))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatDefConBlock(dateISO string, pos models.Position, rows []models.DefConRanking, topN, window int) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🛡️ FPL — Defensive Contributions: Top %d %s (last %d GWs) — %s\n", topN, pos, window, dateISO))
	sb.WriteString("Ranking: Defensive Contributions per Appearance\n\n")

	if len(rows) == 0 {
		sb.WriteString("No players matched the filter.")
		return sb.String()
	}

	for i, row := range rows {
		ptsTxt := ""
		if row.Points != 0 {
			ptsTxt = fmt.Sprintf(" | DefCon pts: %d", row.Points)
		}
		sb.WriteString(fmt.Sprintf("%d) %s (%s) — %.2f DC/A | DC: %d | apps: %d%s\n",
			i+1, row.PlayerName, row.TeamName, row.PerAppearance, row.Total, row.Appearances, ptsTxt))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatGameweekBlock(dateISO string, gameweek int, pos models.Position, rows []models.GameweekRanking, topN int) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🔥 FPL — Top %d %s (GW%d) — %s\n", topN, pos, gameweek, dateISO))
	sb.WriteString("Ranking: points in last finished GW\n\n")

	if len(rows) == 0 {
		sb.WriteString("No players found.")
		return sb.String()
	}

	for i, row := range rows {
		sb.WriteString(fmt.Sprintf("%d) %s (%s) — %d pts | %d mins | £%sm\n",
			i+1, row.PlayerName, row.TeamName, row.Points, row.Minutes, row.Price))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// FormatLiveGoal renders one goal notice for the live watcher.
func FormatLiveGoal(goal models.LiveGoal) string {
	assistTxt := ""
	if goal.Assist != "" {
		assistTxt = fmt.Sprintf(" (assist: %s)", goal.Assist)
	}
	return fmt.Sprintf("⚽ %s %d-%d %s\n%d' — %s: %s%s",
		goal.HomeTeam, goal.HomeGoals, goal.AwayGoals, goal.AwayTeam,
		goal.Minute, goal.TeamName, goal.Scorer, assistTxt)
}
