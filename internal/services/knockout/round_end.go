package knockout

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/mcoot/knockout/internal/host"
	"github.com/mcoot/knockout/internal/model"
	"github.com/mcoot/knockout/internal/services/elimination"
)

func (c *Controller) endRound(ctx context.Context) {
	if c.settleTiebreak(ctx) {
		c.scores.Reset()
		return
	}

	if c.scores.CountFinished() == 0 {
		c.logger.Info("nobody finished, replaying round", slog.Int("round", c.roundNumber))
		if c.tiebreak == nil {
			c.roundNumber--
		}
		c.scores.Reset()
		c.presenter.Chat(ctx, host.Everyone(), "Nobody finished, the round will be replayed.")
		return
	}

	if c.registry.CountPlayingOrShelved() <= 1 {
		c.endKnockout(ctx)
		return
	}

	ranked := c.rankContenders()
	plan := c.scheduler.PlanRound(c.roundNumber, c.registry.CountPlayingOrShelved())
	cut := elimination.SelectEliminations(ranked, plan.Count)

	c.logger.Info("round ended",
		slog.Int("round", c.roundNumber),
		slog.Int("budget", plan.Count),
		slog.Int("eliminated", len(cut.Eliminated)),
		slog.Int("tied", len(cut.Tied)),
	)

	eliminated := cut.Eliminated
	startTiebreak := cut.HasTie() && c.settings.Tiebreaker
	if cut.HasTie() && !startTiebreak {
		eliminated = append(eliminated, cut.Tied...)
	}

	lostLife := make(map[string]bool, len(eliminated))
	out := make(map[string]bool, len(eliminated))
	for _, e := range eliminated {
		lostLife[e.Login] = true
		if c.takeLife(ctx, e) {
			out[e.Login] = true
		}
	}

	var tied map[string]bool
	switch {
	case startTiebreak:
		tied = make(map[string]bool, len(cut.Tied))
		for _, e := range cut.Tied {
			tied[e.Login] = true
		}
		c.startTiebreak(ctx, cut.Tied, cut.Remaining)
	case c.tiebreak != nil:
		c.resolveTiebreak(ctx)
	}

	c.presenter.ShowScoreboard(ctx, host.Everyone(), c.scoreboardView(ranked, lostLife, out, tied))
	c.falseStarts = 0

	if c.registry.CountPlayingOrShelved() <= 1 {
		c.endKnockout(ctx)
	}
}

// rankContenders gives every contender without a result a DNF and returns the
// ranked results of players still in contention
func (c *Controller) rankContenders() []model.ScoreEntry {
	for _, p := range c.registry.Playing() {
		if _, ok := c.scores.Get(p.Login); !ok {
			c.scores.Set(p.Login, p.Nickname, model.DidNotFinish)
		}
	}

	var ranked []model.ScoreEntry
	for _, e := range c.scores.Entries() {
		if p, ok := c.registry.Get(e.Login); ok && p.Status.InContention() {
			ranked = append(ranked, e)
		}
	}
	return ranked
}

// takeLife removes a life and knocks the player out when none are left.
// It returns true if the player is out.
func (c *Controller) takeLife(ctx context.Context, e model.ScoreEntry) bool {
	p, ok := c.registry.Get(e.Login)
	if !ok {
		return false
	}
	wasDisconnected := p.Status.IsDisconnected()

	if !c.registry.SubtractLife(e.Login) {
		p, _ = c.registry.Get(e.Login)
		c.presenter.Chat(ctx, host.Everyone(), fmt.Sprintf("%s loses a life (%d left).", e.DisplayName(), p.Lives))
		return false
	}

	c.knockOut(ctx, p, wasDisconnected)
	return true
}

// knockOut records an elimination for a player who has just run out of lives
func (c *Controller) knockOut(ctx context.Context, p model.PlayerRecord, disconnected bool) {
	c.eliminations = append(c.eliminations, model.Elimination{
		Login:    p.Login,
		Nickname: p.Nickname,
		Round:    c.roundNumber,
	})
	c.logger.Info("player knocked out", slog.String("login", p.Login), slog.Int("round", c.roundNumber))
	c.presenter.Chat(ctx, host.Everyone(), p.DisplayName()+" is knocked out!")

	if disconnected {
		c.registry.Remove(p.Login)
		return
	}
	c.registry.SetLives(p.Login, 0)
	c.registry.SetStatus(p.Login, model.StatusKnockedOutSpectating)
	c.forceSpectator(ctx, p.Login, model.SpectatorForced)
}

// startTiebreak shelves everyone outside the tied group and owes the group the
// remaining eliminations
func (c *Controller) startTiebreak(ctx context.Context, tied []model.ScoreEntry, remaining int) {
	logins := make([]string, len(tied))
	names := make([]string, len(tied))
	for i, e := range tied {
		logins[i] = e.Login
		names[i] = e.DisplayName()
	}

	for _, p := range c.registry.Playing() {
		if slices.Contains(logins, p.Login) {
			continue
		}
		if p.Status.IsDisconnected() {
			c.registry.SetStatus(p.Login, model.StatusShelvedDisconnected)
			continue
		}
		c.registry.SetStatus(p.Login, model.StatusShelved)
		c.forceSpectator(ctx, p.Login, model.SpectatorForced)
	}

	if c.scheduler.IsOverridden() {
		c.scheduler.Revert()
	}
	c.scheduler.Set(elimination.ModeTiebreaker, remaining)
	c.tiebreak = &tiebreak{logins: logins, remaining: remaining}

	c.logger.Info("tiebreaker started", slog.Any("players", logins), slog.Int("remaining", remaining))
	c.presenter.Chat(ctx, host.Everyone(), fmt.Sprintf("Tie between %s! Tiebreaker for %d place(s).",
		joinNames(names), remaining))
	c.setStatus(ctx, model.MatchTiebreaker)
}

// resolveTiebreak brings the shelved players back once the tie is broken
func (c *Controller) resolveTiebreak(ctx context.Context) {
	for _, p := range c.registry.FilterByStatus(model.StatusShelved) {
		c.registry.SetStatus(p.Login, model.StatusPlaying)
		c.forceSpectator(ctx, p.Login, model.PlayerForced)
	}
	c.registry.ApplyStatusTransition(model.StatusShelvedDisconnected, model.StatusPlayingDisconnected)

	c.scheduler.Revert()
	c.tiebreak = nil

	c.logger.Info("tiebreaker resolved", slog.Int("round", c.roundNumber))
	c.presenter.Chat(ctx, host.Everyone(), "The tie is broken, the knockout continues.")
	if c.status == model.MatchTiebreaker {
		c.setStatus(ctx, model.MatchRunning)
	}
}

// leaveTiebreak accounts for a player dropping out of the knockout while a
// tiebreaker is on. A tied player leaving settles one of the owed places.
func (c *Controller) leaveTiebreak(ctx context.Context, login string) {
	if c.tiebreak == nil {
		return
	}
	i := slices.Index(c.tiebreak.logins, login)
	if i < 0 {
		return
	}
	c.tiebreak.logins = slices.Delete(c.tiebreak.logins, i, i+1)
	c.tiebreak.remaining--

	if c.settleTiebreak(ctx) {
		return
	}
	c.scheduler.Revert()
	c.scheduler.Set(elimination.ModeTiebreaker, c.tiebreak.remaining)
	c.logger.Info("tiebreaker shrunk", slog.String("login", login), slog.Int("remaining", c.tiebreak.remaining))
}

// settleTiebreak resolves the tiebreaker once no places are owed or nobody from
// the tied group is still racing. It reports whether it did.
func (c *Controller) settleTiebreak(ctx context.Context) bool {
	if c.tiebreak == nil {
		return false
	}
	if c.tiebreak.remaining > 0 && slices.ContainsFunc(c.tiebreak.logins, func(login string) bool {
		p, ok := c.registry.Get(login)
		return ok && p.Status.InContention()
	}) {
		return false
	}
	c.resolveTiebreak(ctx)
	return true
}

func joinNames(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	}
	out := ""
	for i, n := range names {
		switch {
		case i == 0:
			out = n
		case i == len(names)-1:
			out += " and " + n
		default:
			out += ", " + n
		}
	}
	return out
}
