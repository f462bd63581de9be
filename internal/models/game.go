package models

// GameStatus is the normalized game state. Upstream detailed states are mapped
// onto these five values before a game leaves the fetch layer.
type GameStatus string

const (
	StatusUpcoming  GameStatus = "Upcoming"
	StatusLive      GameStatus = "Live"
	StatusFinished  GameStatus = "Finished"
	StatusDelayed   GameStatus = "Delayed"
	StatusPostponed GameStatus = "Postponed"
)

// StatusFilterAll passes every game through the query facade unfiltered.
const StatusFilterAll = "All"

// ValidStatus reports whether s is one of the five canonical values.
func ValidStatus(s GameStatus) bool {
	switch s {
	case StatusUpcoming, StatusLive, StatusFinished, StatusDelayed, StatusPostponed:
		return true
	}
	return false
}

// Game is one scheduled matchup for a single date.
type Game struct {
	ID        int64      `json:"id"`
	League    string     `json:"league"`
	HomeTeam  string     `json:"home_team"`
	AwayTeam  string     `json:"away_team"`
	HomeScore int        `json:"home_score"`
	AwayScore int        `json:"away_score"`
	Status    GameStatus `json:"status"`

	// Time is the local start time formatted as HH:MM. It is the facade's sort
	// key and is only meaningful within a single date.
	Time string `json:"time"`
	// Date is the ISO date (YYYY-MM-DD) the game is scheduled on. It is also
	// the schedule cache partition key.
	Date string `json:"date"`

	Period    string `json:"period,omitempty"`
	GameClock string `json:"game_clock,omitempty"`

	// PlayerStats maps team display name to box score lines. Populated only
	// for Finished games whose live-feed enrichment succeeded.
	PlayerStats map[string][]PlayerStatLine `json:"player_stats"`
	Highlights  []Highlight                 `json:"highlights"`

	WinningPitcher string `json:"winning_pitcher,omitempty"`
	LosingPitcher  string `json:"losing_pitcher,omitempty"`
	SavePitcher    string `json:"save_pitcher,omitempty"`

	// TeamStats is keyed "{team_name}_{season}_{hitting|pitching}".
	TeamStats map[string]TeamSplitStats `json:"team_stats"`

	// Source distinguishes real upstream data ("mlb-statsapi") from the
	// degraded-mode generator ("fallback").
	Source string `json:"source"`
}

// PlayerStatLine is one player's line in a box score. Batting and pitching
// fields share the struct; a position player simply has zero pitching stats.
type PlayerStatLine struct {
	Name       string `json:"name"`
	Hits       int    `json:"hits"`
	Runs       int    `json:"runs"`
	RBI        int    `json:"rbi"`
	HomeRuns   int    `json:"homeRuns"`
	Walks      int    `json:"walks"`
	Strikeouts int    `json:"strikeouts"`

	InningsPitched string `json:"innings_pitched,omitempty"`
	HitsAllowed    int    `json:"hits_allowed"`
	EarnedRuns     int    `json:"earned_runs"`
}

// HasStats reports whether any relevant stat field is nonzero. Purely
// zero-stat appearances are omitted from box scores.
func (l PlayerStatLine) HasStats() bool {
	if l.Hits > 0 || l.Runs > 0 || l.RBI > 0 || l.HomeRuns > 0 || l.Walks > 0 || l.Strikeouts > 0 {
		return true
	}
	return l.HitsAllowed > 0 || l.EarnedRuns > 0 || pitchedInnings(l.InningsPitched)
}

// HasBattingStats gates inclusion in the hitting table. Strikeouts and walks
// are shared with the pitching line, so only unambiguous batting fields count.
func (l PlayerStatLine) HasBattingStats() bool {
	return l.Hits > 0 || l.Runs > 0 || l.RBI > 0 || l.HomeRuns > 0
}

// HasPitchingStats gates inclusion in the pitching table.
func (l PlayerStatLine) HasPitchingStats() bool {
	return l.HitsAllowed > 0 || l.EarnedRuns > 0 || pitchedInnings(l.InningsPitched)
}

func pitchedInnings(ip string) bool {
	return ip != "" && ip != "0.0" && ip != "0"
}

// Highlight is one notable play from the live feed.
type Highlight struct {
	Description string `json:"description"`
	Timestamp   string `json:"timestamp"`
}

// TeamSplitStats holds one season aggregate split (hitting or pitching) for a
// team. The upstream API reports rate stats as preformatted strings (".267",
// "3.98") and counting stats as numbers; this mirrors that shape.
type TeamSplitStats struct {
	// Hitting
	Avg      string `json:"avg,omitempty"`
	OPS      string `json:"ops,omitempty"`
	Runs     int    `json:"runs,omitempty"`
	HomeRuns int    `json:"homeRuns,omitempty"`
	RBI      int    `json:"rbi,omitempty"`

	// Pitching
	ERA        string `json:"era,omitempty"`
	WHIP       string `json:"whip,omitempty"`
	StrikeOuts int    `json:"strikeOuts,omitempty"`
	Saves      int    `json:"saves,omitempty"`
}

// IsZero reports whether the split carries no data at all.
func (s TeamSplitStats) IsZero() bool {
	return s == TeamSplitStats{}
}
