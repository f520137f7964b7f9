package response

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/mcoot/knockout/internal/config"
	"github.com/mcoot/knockout/internal/model"
	"github.com/mcoot/knockout/internal/services/elimination"
)

// Player represents a tracked player in API responses
type Player struct {
	Login    string `json:"login"`
	Nickname string `json:"nickname"`
	Status   string `json:"status"`
	Lives    int    `json:"lives"`
}

// PlayerFromModel converts a model.PlayerRecord to a response Player
func PlayerFromModel(p model.PlayerRecord) Player {
	return Player{
		Login:    p.Login,
		Nickname: p.Nickname,
		Status:   p.Status.String(),
		Lives:    p.Lives,
	}
}

// Score is a player's result in the current round
type Score struct {
	Login    string `json:"login"`
	Nickname string `json:"nickname"`
	Value    int    `json:"value"`
	Finished bool   `json:"finished"`
}

// ScoreFromModel converts a model.ScoreEntry
func ScoreFromModel(e model.ScoreEntry) Score {
	return Score{
		Login:    e.Login,
		Nickname: e.Nickname,
		Value:    e.Value,
		Finished: e.HasFinished(),
	}
}

// Settings represents the knockout settings
type Settings struct {
	DefaultLives       int    `json:"default_lives"`
	Eliminations       string `json:"eliminations"`
	MaxFalseStarts     int    `json:"max_false_starts"`
	FalseStartWindowMs int64  `json:"false_start_window_ms"`
	Tiebreaker         bool   `json:"tiebreaker"`
	OpenWarmup         bool   `json:"open_warmup"`
	AuthorSkip         int    `json:"author_skip"`
}

// SettingsFromConfig converts config.Settings. Admin logins are not exposed.
func SettingsFromConfig(s config.Settings) Settings {
	return Settings{
		DefaultLives:       s.DefaultLives,
		Eliminations:       elimination.Describe(s.EliminationMode, s.EliminationValue),
		MaxFalseStarts:     s.MaxFalseStarts,
		FalseStartWindowMs: s.FalseStartWindow.Milliseconds(),
		Tiebreaker:         s.Tiebreaker,
		OpenWarmup:         s.OpenWarmup,
		AuthorSkip:         s.AuthorSkip,
	}
}

// KnockoutState is the response for the current knockout
type KnockoutState struct {
	Status                string   `json:"status"`
	Round                 int      `json:"round"`
	FalseStarts           int      `json:"false_starts"`
	EliminationsThisRound int      `json:"eliminations_this_round"`
	EliminationMode       string   `json:"elimination_mode"`
	Players               []Player `json:"players"`
	Scores                []Score  `json:"scores"`
	Settings              Settings `json:"settings"`
}

// KnockoutStateFromModel converts a snapshot and the settings in force
func KnockoutStateFromModel(snap model.KnockoutSnapshot, settings config.Settings) KnockoutState {
	players := make([]Player, len(snap.Players))
	for i, p := range snap.Players {
		players[i] = PlayerFromModel(p)
	}
	scores := make([]Score, len(snap.Scores))
	for i, e := range snap.Scores {
		scores[i] = ScoreFromModel(e)
	}

	return KnockoutState{
		Status:                snap.Status.String(),
		Round:                 snap.RoundNumber,
		FalseStarts:           snap.FalseStartCount,
		EliminationsThisRound: snap.EliminationsThisRound,
		EliminationMode:       snap.EliminationMode,
		Players:               players,
		Scores:                scores,
		Settings:              SettingsFromConfig(settings),
	}
}

// Elimination is one player knocked out of a finished knockout
type Elimination struct {
	Login    string `json:"login"`
	Nickname string `json:"nickname"`
	Round    int    `json:"round"`
}

// Result represents an archived knockout
type Result struct {
	ID             string        `json:"id"`
	Winner         string        `json:"winner,omitempty"`
	WinnerNickname string        `json:"winner_nickname,omitempty"`
	Rounds         int           `json:"rounds"`
	Players        int           `json:"players"`
	Eliminations   []Elimination `json:"eliminations"`
	StartedAt      time.Time     `json:"started_at"`
	EndedAt        time.Time     `json:"ended_at"`
}

// ResultFromModel converts a model.KnockoutResult
func ResultFromModel(r *model.KnockoutResult) Result {
	eliminations := make([]Elimination, len(r.Eliminations))
	for i, e := range r.Eliminations {
		eliminations[i] = Elimination{Login: e.Login, Nickname: e.Nickname, Round: e.Round}
	}
	return Result{
		ID:             string(r.ID),
		Winner:         r.Winner,
		WinnerNickname: r.WinnerNickname,
		Rounds:         r.Rounds,
		Players:        r.Players,
		Eliminations:   eliminations,
		StartedAt:      r.StartedAt,
		EndedAt:        r.EndedAt,
	}
}

// ResultList is the response for the knockout history
type ResultList struct {
	Results []Result `json:"results"`
}

// ResultListFromModel converts archived results, newest first
func ResultListFromModel(results []*model.KnockoutResult) ResultList {
	list := ResultList{Results: make([]Result, len(results))}
	for i, r := range results {
		list.Results[i] = ResultFromModel(r)
	}
	return list
}

// LeaderboardEntry is one player's win count
type LeaderboardEntry struct {
	Login    string `json:"login"`
	Nickname string `json:"nickname"`
	Wins     int    `json:"wins"`
}

// Leaderboard is the response for the all-time winners
type Leaderboard struct {
	Entries []LeaderboardEntry `json:"entries"`
}

// LeaderboardFromModel converts win counts
func LeaderboardFromModel(counts []model.WinCount) Leaderboard {
	board := Leaderboard{Entries: make([]LeaderboardEntry, len(counts))}
	for i, c := range counts {
		board.Entries[i] = LeaderboardEntry{Login: c.Login, Nickname: c.Nickname, Wins: c.Wins}
	}
	return board
}

// JSON writes a JSON response
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// NoContent writes a 204 No Content response
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
