package providers

// Response shapes for the MLB stats API. Only the fields the service reads
// are declared; the feed carries far more.

type teamsResponse struct {
	Teams []Team `json:"teams"`
}

// Team is one entry from the upstream team directory.
type Team struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
}

type scheduleResponse struct {
	Dates []struct {
		Date  string          `json:"date"`
		Games []ScheduledGame `json:"games"`
	} `json:"dates"`
}

// ScheduledGame is one game record from the per-day schedule listing.
type ScheduledGame struct {
	GamePk   int64  `json:"gamePk"`
	GameDate string `json:"gameDate"`
	Status   struct {
		AbstractGameState string `json:"abstractGameState"`
		DetailedState     string `json:"detailedState"`
	} `json:"status"`
	Teams struct {
		Home ScheduledSide `json:"home"`
		Away ScheduledSide `json:"away"`
	} `json:"teams"`
	Linescore struct {
		CurrentInning        int    `json:"currentInning"`
		CurrentInningOrdinal string `json:"currentInningOrdinal"`
		InningState          string `json:"inningState"`
	} `json:"linescore"`
}

// ScheduledSide is one side (home or away) of a scheduled game.
type ScheduledSide struct {
	Score int `json:"score"`
	Team  struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"team"`
}

// LiveFeed is the box-score and play detail for a single game.
type LiveFeed struct {
	LiveData struct {
		Boxscore struct {
			Teams struct {
				Home BoxscoreTeam `json:"home"`
				Away BoxscoreTeam `json:"away"`
			} `json:"teams"`
		} `json:"boxscore"`
		Plays struct {
			AllPlays []Play `json:"allPlays"`
		} `json:"plays"`
		Decisions struct {
			Winner struct {
				FullName string `json:"fullName"`
			} `json:"winner"`
			Loser struct {
				FullName string `json:"fullName"`
			} `json:"loser"`
			Save struct {
				FullName string `json:"fullName"`
			} `json:"save"`
		} `json:"decisions"`
	} `json:"liveData"`
}

// BoxscoreTeam holds one team's player map, keyed "ID{personId}".
type BoxscoreTeam struct {
	Team struct {
		Name string `json:"name"`
	} `json:"team"`
	Players map[string]BoxscorePlayer `json:"players"`
}

// BoxscorePlayer is one player's game line from the boxscore.
type BoxscorePlayer struct {
	Person struct {
		FullName string `json:"fullName"`
	} `json:"person"`
	Stats struct {
		Batting struct {
			Hits        int `json:"hits"`
			Runs        int `json:"runs"`
			RBI         int `json:"rbi"`
			HomeRuns    int `json:"homeRuns"`
			BaseOnBalls int `json:"baseOnBalls"`
			StrikeOuts  int `json:"strikeOuts"`
		} `json:"batting"`
		Pitching struct {
			InningsPitched string `json:"inningsPitched"`
			Hits           int    `json:"hits"`
			EarnedRuns     int    `json:"earnedRuns"`
			BaseOnBalls    int    `json:"baseOnBalls"`
			StrikeOuts     int    `json:"strikeOuts"`
		} `json:"pitching"`
	} `json:"stats"`
}

// Play is one play-by-play entry; only scoring plays become highlights.
type Play struct {
	Result struct {
		Description string `json:"description"`
	} `json:"result"`
	About struct {
		Inning        int    `json:"inning"`
		HalfInning    string `json:"halfInning"`
		IsScoringPlay bool   `json:"isScoringPlay"`
	} `json:"about"`
}

// TeamStatsResponse is the season aggregate listing for one team. Each stat
// group (hitting, pitching) carries its splits.
type TeamStatsResponse struct {
	Stats []StatGroup `json:"stats"`
}

// StatGroup is one stat type/group pairing with its season splits.
type StatGroup struct {
	Group struct {
		DisplayName string `json:"displayName"`
	} `json:"group"`
	Splits []struct {
		Season string      `json:"season"`
		Stat   SeasonSplit `json:"stat"`
	} `json:"splits"`
}

// SeasonSplit mirrors the upstream stat object: rate stats arrive as
// preformatted strings, counting stats as numbers.
type SeasonSplit struct {
	Avg        string `json:"avg"`
	OPS        string `json:"ops"`
	Runs       int    `json:"runs"`
	HomeRuns   int    `json:"homeRuns"`
	RBI        int    `json:"rbi"`
	ERA        string `json:"era"`
	WHIP       string `json:"whip"`
	StrikeOuts int    `json:"strikeOuts"`
	Saves      int    `json:"saves"`
}
