package host

import (
	"context"
	"slices"
)

// Audience addresses presentation output to everyone or to specific players
type Audience struct {
	All    bool     `json:"all"`
	Logins []string `json:"logins,omitempty"`
}

// Everyone addresses all connected players
func Everyone() Audience {
	return Audience{All: true}
}

// To addresses the given players
func To(logins ...string) Audience {
	return Audience{Logins: logins}
}

// Includes reports whether the audience contains login
func (a Audience) Includes(login string) bool {
	return a.All || slices.Contains(a.Logins, login)
}

// StatusView is the per-round status line
type StatusView struct {
	State        string `json:"state"`
	Round        int    `json:"round"`
	PlayersLeft  int    `json:"players_left"`
	Eliminations int    `json:"eliminations"`
	Mode         string `json:"mode"`
}

// ScoreRow is one line of the scoreboard
type ScoreRow struct {
	Position int    `json:"position"`
	Login    string `json:"login"`
	Nickname string `json:"nickname"`
	Value    int    `json:"value"`
	Lives    int    `json:"lives"`
	LostLife bool   `json:"lost_life"`
	Out      bool   `json:"out"`
	Tied     bool   `json:"tied"`
}

// ScoreboardView is a ranked round result. Rows from Cutoff onwards lost a life
// or are tied at the cutoff; Cutoff equals len(Rows) when nobody was cut.
type ScoreboardView struct {
	Round  int        `json:"round"`
	Rows   []ScoreRow `json:"rows"`
	Cutoff int        `json:"cutoff"`
}

// Dialog is a multi-page text window
type Dialog struct {
	Title string   `json:"title"`
	Pages []string `json:"pages"`
}

// Prompt asks for a yes/no answer, returned as a prompt_answer callback
type Prompt struct {
	ID       string `json:"id"`
	Question string `json:"question"`
}

// Presenter shows knockout output to players
type Presenter interface {
	ShowStatus(ctx context.Context, to Audience, view StatusView)
	ShowScoreboard(ctx context.Context, to Audience, view ScoreboardView)
	ShowDialog(ctx context.Context, to Audience, dialog Dialog)
	Prompt(ctx context.Context, to Audience, prompt Prompt)
	Chat(ctx context.Context, to Audience, message string)
}

// Fanout shows everything on each of its presenters in order
type Fanout []Presenter

var _ Presenter = Fanout(nil)

func (f Fanout) ShowStatus(ctx context.Context, to Audience, view StatusView) {
	for _, p := range f {
		p.ShowStatus(ctx, to, view)
	}
}

func (f Fanout) ShowScoreboard(ctx context.Context, to Audience, view ScoreboardView) {
	for _, p := range f {
		p.ShowScoreboard(ctx, to, view)
	}
}

func (f Fanout) ShowDialog(ctx context.Context, to Audience, dialog Dialog) {
	for _, p := range f {
		p.ShowDialog(ctx, to, dialog)
	}
}

func (f Fanout) Prompt(ctx context.Context, to Audience, prompt Prompt) {
	for _, p := range f {
		p.Prompt(ctx, to, prompt)
	}
}

func (f Fanout) Chat(ctx context.Context, to Audience, message string) {
	for _, p := range f {
		p.Chat(ctx, to, message)
	}
}
