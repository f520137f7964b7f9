package knockout

import (
	"context"
	"fmt"
	"strings"

	"github.com/mcoot/knockout/internal/host"
	"github.com/mcoot/knockout/internal/model"
	"github.com/mcoot/knockout/internal/services/elimination"
)

func (c *Controller) statusView() host.StatusView {
	return host.StatusView{
		State:        c.status.String(),
		Round:        c.roundNumber,
		PlayersLeft:  c.registry.CountPlayingOrShelved(),
		Eliminations: c.planned,
		Mode:         c.scheduler.String(),
	}
}

func (c *Controller) showStatus(ctx context.Context, to host.Audience) {
	c.presenter.ShowStatus(ctx, to, c.statusView())
}

// scoreboardView marks the cutoff above the players who lost a life or are tied
func (c *Controller) scoreboardView(ranked []model.ScoreEntry, lostLife, out, tied map[string]bool) host.ScoreboardView {
	view := host.ScoreboardView{
		Round:  c.roundNumber,
		Rows:   make([]host.ScoreRow, len(ranked)),
		Cutoff: len(ranked),
	}
	for i, e := range ranked {
		row := host.ScoreRow{
			Position: i + 1,
			Login:    e.Login,
			Nickname: e.Nickname,
			Value:    e.Value,
			LostLife: lostLife[e.Login],
			Out:      out[e.Login],
			Tied:     tied[e.Login],
		}
		if p, ok := c.registry.Get(e.Login); ok {
			row.Lives = p.Lives
		}
		if (row.LostLife || row.Tied) && i < view.Cutoff {
			view.Cutoff = i
		}
		view.Rows[i] = row
	}
	return view
}

func (c *Controller) settingsText() string {
	mode, value := c.scheduler.Base()
	var b strings.Builder
	fmt.Fprintf(&b, "Lives: %d\n", c.settings.DefaultLives)
	fmt.Fprintf(&b, "Eliminations: %s\n", elimination.Describe(mode, value))
	fmt.Fprintf(&b, "False start restarts: %d\n", c.settings.MaxFalseStarts)
	fmt.Fprintf(&b, "Tiebreakers: %s\n", onOff(c.settings.Tiebreaker))
	fmt.Fprintf(&b, "Open warmup: %s\n", onOff(c.settings.OpenWarmup))
	fmt.Fprintf(&b, "Author skip: %d players\n", c.settings.AuthorSkip)
	return b.String()
}
