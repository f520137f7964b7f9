package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to stdout
func NewOutput(format string) *Output {
	return &Output{format: format, w: os.Stdout}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		_, _ = fmt.Fprintln(o.w, string(data))
	} else {
		_, _ = fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case KnockoutState:
		o.printKnockoutState(v)
	case Result:
		o.printResult(v)
	case ResultList:
		o.printResultList(v)
	case Leaderboard:
		o.printLeaderboard(v)
	case HealthResult:
		_, _ = fmt.Fprintf(o.w, "Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Callback is the body of a posted callback (matches API)
type Callback struct {
	Type        string `json:"type"`
	Status      int    `json:"status,omitempty"`
	Login       string `json:"login,omitempty"`
	Nickname    string `json:"nickname,omitempty"`
	IsSpectator bool   `json:"is_spectator,omitempty"`
	Time        int    `json:"time,omitempty"`
	Text        string `json:"text,omitempty"`
	IsAdmin     bool   `json:"is_admin,omitempty"`
	PromptID    string `json:"prompt_id,omitempty"`
	Accepted    bool   `json:"accepted,omitempty"`
}

// Player response type
type Player struct {
	Login    string `json:"login"`
	Nickname string `json:"nickname"`
	Status   string `json:"status"`
	Lives    int    `json:"lives"`
}

// Score response type
type Score struct {
	Login    string `json:"login"`
	Nickname string `json:"nickname"`
	Value    int    `json:"value"`
	Finished bool   `json:"finished"`
}

// Settings response type
type Settings struct {
	DefaultLives       int    `json:"default_lives"`
	Eliminations       string `json:"eliminations"`
	MaxFalseStarts     int    `json:"max_false_starts"`
	FalseStartWindowMs int64  `json:"false_start_window_ms"`
	Tiebreaker         bool   `json:"tiebreaker"`
	OpenWarmup         bool   `json:"open_warmup"`
	AuthorSkip         int    `json:"author_skip"`
}

// KnockoutState response type
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

// Elimination response type
type Elimination struct {
	Login    string `json:"login"`
	Nickname string `json:"nickname"`
	Round    int    `json:"round"`
}

// Result response type
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

// ResultList response type
type ResultList struct {
	Results []Result `json:"results"`
}

// LeaderboardEntry response type
type LeaderboardEntry struct {
	Login    string `json:"login"`
	Nickname string `json:"nickname"`
	Wins     int    `json:"wins"`
}

// Leaderboard response type
type Leaderboard struct {
	Entries []LeaderboardEntry `json:"entries"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printKnockoutState(k KnockoutState) {
	_, _ = fmt.Fprintf(o.w, "Status: %s\n", k.Status)
	if k.Status == "Idle" {
		_, _ = fmt.Fprintf(o.w, "Eliminations: %s\n", k.Settings.Eliminations)
		return
	}
	_, _ = fmt.Fprintf(o.w, "Round: %d\n", k.Round)
	_, _ = fmt.Fprintf(o.w, "Eliminations: %s (%d this round)\n", k.EliminationMode, k.EliminationsThisRound)
	if k.FalseStarts > 0 {
		_, _ = fmt.Fprintf(o.w, "False starts: %d/%d\n", k.FalseStarts, k.Settings.MaxFalseStarts)
	}

	_, _ = fmt.Fprintf(o.w, "\nPlayers (%d):\n", len(k.Players))
	for _, p := range k.Players {
		lives := ""
		if p.Lives > 1 {
			lives = fmt.Sprintf(" [%d lives]", p.Lives)
		}
		_, _ = fmt.Fprintf(o.w, "  - %s (%s) - %s%s\n", p.Nickname, p.Login, p.Status, lives)
	}

	if len(k.Scores) > 0 {
		_, _ = fmt.Fprintln(o.w, "\nScores:")
		for i, s := range k.Scores {
			value := "DNF"
			if s.Finished {
				value = fmt.Sprint(s.Value)
			}
			_, _ = fmt.Fprintf(o.w, "  %2d. %s: %s\n", i+1, s.Nickname, value)
		}
	}
}

func (o *Output) printResult(r Result) {
	_, _ = fmt.Fprintf(o.w, "Knockout: %s\n", r.ID)
	_, _ = fmt.Fprintf(o.w, "Played: %s (%s)\n", r.StartedAt.Local().Format("2006-01-02 15:04"), r.EndedAt.Sub(r.StartedAt).Round(time.Second))
	if r.Winner != "" {
		_, _ = fmt.Fprintf(o.w, "Champ: %s (%s)\n", r.WinnerNickname, r.Winner)
	} else {
		_, _ = fmt.Fprintln(o.w, "Champ: none")
	}
	_, _ = fmt.Fprintf(o.w, "Players: %d, rounds: %d\n", r.Players, r.Rounds)

	if len(r.Eliminations) > 0 {
		_, _ = fmt.Fprintln(o.w, "\nKnocked out:")
		for _, e := range r.Eliminations {
			_, _ = fmt.Fprintf(o.w, "  round %d: %s (%s)\n", e.Round, e.Nickname, e.Login)
		}
	}
}

func (o *Output) printResultList(l ResultList) {
	if len(l.Results) == 0 {
		_, _ = fmt.Fprintln(o.w, "No knockouts played yet")
		return
	}
	for _, r := range l.Results {
		winner := r.WinnerNickname
		if winner == "" {
			winner = "-"
		}
		_, _ = fmt.Fprintf(o.w, "%s  %s  %2d players  %2d rounds  %s\n",
			r.ID, r.EndedAt.Local().Format("2006-01-02 15:04"), r.Players, r.Rounds, winner)
	}
}

func (o *Output) printLeaderboard(b Leaderboard) {
	if len(b.Entries) == 0 {
		_, _ = fmt.Fprintln(o.w, "No winners yet")
		return
	}
	width := 0
	for _, e := range b.Entries {
		width = max(width, len(e.Nickname))
	}
	for i, e := range b.Entries {
		_, _ = fmt.Fprintf(o.w, "%2d. %s%s %d\n", i+1, e.Nickname, strings.Repeat(" ", width-len(e.Nickname)), e.Wins)
	}
}
