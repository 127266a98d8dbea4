package entity

import "time"

const (
	GameCaro = "caro"
	GameRPS  = "rps"
)

// MatchResult is the archived record of a concluded caro game or a resolved rps round.
type MatchResult struct {
	Game       string    `json:"game"`
	Winner     string    `json:"winner,omitempty"`
	Players    []string  `json:"players"`
	Outcome    string    `json:"outcome"`
	Round      int       `json:"round,omitempty"`
	Moves      int       `json:"moves"`
	FinishedAt time.Time `json:"finished_at"`
}

func (that *MatchResult) IsDraw() bool {
	return that.Winner == ""
}

type LeaderboardEntry struct {
	Name string `json:"name"`
	Wins int64  `json:"wins"`
}
