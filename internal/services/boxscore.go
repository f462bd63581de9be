package services

import (
	"fmt"
	"strings"

	"github.com/jstittsworth/gameday-tracker/internal/models"
)

// HittingRow is one line of a hitting box score table.
type HittingRow struct {
	Name string `json:"name"`
	H    int    `json:"h"`
	R    int    `json:"r"`
	RBI  int    `json:"rbi"`
	HR   int    `json:"hr"`
	BB   int    `json:"bb"`
	K    int    `json:"k"`
}

// PitchingRow is one line of a pitching box score table.
type PitchingRow struct {
	Name string `json:"name"`
	IP   string `json:"ip"`
	H    int    `json:"h"`
	ER   int    `json:"er"`
	BB   int    `json:"bb"`
	K    int    `json:"k"`
}

// BoxScore holds the four rendered tables for one game.
type BoxScore struct {
	HomeHitting  []HittingRow  `json:"home_hitting"`
	HomePitching []PitchingRow `json:"home_pitching"`
	AwayHitting  []HittingRow  `json:"away_hitting"`
	AwayPitching []PitchingRow `json:"away_pitching"`
}

// teamTotalsName labels the summary row appended to each hitting table.
const teamTotalsName = "TEAM TOTALS"

// BuildBoxScore splits a game's player stat lines into hitting and pitching
// tables. A player appears in a table only when they recorded something in
// that discipline; hitting tables close with a team totals row.
func BuildBoxScore(game models.Game) BoxScore {
	return BoxScore{
		HomeHitting:  hittingTable(game.PlayerStats[game.HomeTeam]),
		HomePitching: pitchingTable(game.PlayerStats[game.HomeTeam]),
		AwayHitting:  hittingTable(game.PlayerStats[game.AwayTeam]),
		AwayPitching: pitchingTable(game.PlayerStats[game.AwayTeam]),
	}
}

func hittingTable(lines []models.PlayerStatLine) []HittingRow {
	rows := make([]HittingRow, 0, len(lines))
	var totals HittingRow
	for _, l := range lines {
		if !l.HasBattingStats() {
			continue
		}
		row := HittingRow{
			Name: l.Name,
			H:    l.Hits,
			R:    l.Runs,
			RBI:  l.RBI,
			HR:   l.HomeRuns,
			BB:   l.Walks,
			K:    l.Strikeouts,
		}
		totals.H += row.H
		totals.R += row.R
		totals.RBI += row.RBI
		totals.HR += row.HR
		totals.BB += row.BB
		totals.K += row.K
		rows = append(rows, row)
	}
	if len(rows) > 0 {
		totals.Name = teamTotalsName
		rows = append(rows, totals)
	}
	return rows
}

func pitchingTable(lines []models.PlayerStatLine) []PitchingRow {
	rows := make([]PitchingRow, 0, len(lines))
	for _, l := range lines {
		if !l.HasPitchingStats() {
			continue
		}
		ip := l.InningsPitched
		if ip == "" {
			ip = "0.0"
		}
		rows = append(rows, PitchingRow{
			Name: l.Name,
			IP:   ip,
			H:    l.HitsAllowed,
			ER:   l.EarnedRuns,
			BB:   l.Walks,
			K:    l.Strikeouts,
		})
	}
	return rows
}

// TeamStatRow is one category/value pair in a team season summary.
type TeamStatRow struct {
	Category string `json:"category"`
	Value    string `json:"value"`
}

// TeamStatSummary formats both teams' most recent season splits into display
// rows, keyed by team name. Teams with no attached stats are omitted.
func TeamStatSummary(game models.Game) map[string][]TeamStatRow {
	out := make(map[string][]TeamStatRow)
	for _, team := range []string{game.AwayTeam, game.HomeTeam} {
		hitting, pitching := latestSplits(game.TeamStats, team)

		var rows []TeamStatRow
		if !hitting.IsZero() {
			rows = append(rows,
				TeamStatRow{"Batting Average", hitting.Avg},
				TeamStatRow{"OPS", hitting.OPS},
				TeamStatRow{"Runs", fmt.Sprintf("%d", hitting.Runs)},
				TeamStatRow{"Home Runs", fmt.Sprintf("%d", hitting.HomeRuns)},
				TeamStatRow{"RBI", fmt.Sprintf("%d", hitting.RBI)},
			)
		}
		if !pitching.IsZero() {
			rows = append(rows,
				TeamStatRow{"ERA", pitching.ERA},
				TeamStatRow{"WHIP", pitching.WHIP},
				TeamStatRow{"Strikeouts", fmt.Sprintf("%d", pitching.StrikeOuts)},
				TeamStatRow{"Saves", fmt.Sprintf("%d", pitching.Saves)},
			)
		}
		if len(rows) > 0 {
			out[team] = rows
		}
	}
	return out
}

// latestSplits picks the highest-season hitting and pitching entries for one
// team from the "{team}_{season}_{group}" keyed map.
func latestSplits(stats map[string]models.TeamSplitStats, team string) (hitting, pitching models.TeamSplitStats) {
	var hitSeason, pitchSeason string
	prefix := team + "_"
	for key, split := range stats {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		rest := strings.TrimPrefix(key, prefix)
		switch {
		case strings.HasSuffix(rest, "_hitting"):
			season := strings.TrimSuffix(rest, "_hitting")
			if season > hitSeason {
				hitSeason = season
				hitting = split
			}
		case strings.HasSuffix(rest, "_pitching"):
			season := strings.TrimSuffix(rest, "_pitching")
			if season > pitchSeason {
				pitchSeason = season
				pitching = split
			}
		}
	}
	return hitting, pitching
}
