package knockout

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mcoot/knockout/internal/dependencies/clock"
	"github.com/mcoot/knockout/internal/host"
	"github.com/mcoot/knockout/internal/model"
)

func (c *Controller) onPlayerConnect(ctx context.Context, login, nickname string, spectator bool) {
	if c.status == model.MatchIdle {
		return
	}

	p, ok := c.registry.Get(login)
	if !ok {
		c.addLatecomer(ctx, login, nickname, spectator)
		return
	}
	c.registry.SetNickname(login, nickname)

	switch {
	case p.Status.IsDisconnected():
		c.registry.SetStatus(login, p.Status.Connected())
		c.logger.Info("player reconnected", slog.String("login", login), slog.String("status", p.Status.Connected().String()))
		if p.Status.IsShelved() {
			c.forceSpectator(ctx, login, model.SpectatorForced)
		}
		c.presenter.Chat(ctx, host.To(login), "Welcome back, you are still in the knockout.")
	case p.Status.IsKnockedOut():
		c.confine(ctx, p)
	}
}

// addLatecomer tracks a player who was not around when the knockout started
func (c *Controller) addLatecomer(ctx context.Context, login, nickname string, spectator bool) {
	if (c.status == model.MatchStarting || c.status == model.MatchStartingNow) && !spectator {
		c.registry.Add(login, nickname, model.StatusPlaying, c.settings.DefaultLives)
		c.logger.Info("player joined before the first round", slog.String("login", login))
		return
	}

	c.registry.Add(login, nickname, model.StatusKnockedOutSpectating, 0)
	if c.status == model.MatchWarmup && c.settings.OpenWarmup {
		c.registry.SetStatus(login, model.StatusKnockedOut)
	} else {
		c.forceSpectator(ctx, login, model.SpectatorForced)
	}
	c.presenter.Chat(ctx, host.To(login), "A knockout is in progress, you can join the next one.")
}

func (c *Controller) onPlayerDisconnect(login string) {
	p, ok := c.registry.Get(login)
	if !ok {
		return
	}

	switch {
	case p.Status.IsKnockedOut():
		c.registry.Remove(login)
	case p.Status.InContention() || p.Status.IsShelved():
		c.registry.SetStatus(login, p.Status.Disconnected())
		c.logger.Info("player disconnected", slog.String("login", login), slog.String("status", p.Status.Disconnected().String()))
	}
}

func (c *Controller) onPlayerInfoChanged(login, nickname string) {
	if nickname == "" || !c.registry.Has(login) {
		return
	}
	c.registry.SetNickname(login, nickname)
}

func (c *Controller) onPlayerFinish(ctx context.Context, login string, time int) {
	if c.status == model.MatchWarmup {
		c.checkAuthorSkip(ctx, login, time)
		return
	}
	if c.status != model.MatchRunning && c.status != model.MatchTiebreaker {
		return
	}

	p, ok := c.registry.Get(login)
	if !ok || !p.Status.InContention() {
		return
	}

	if time > 0 {
		c.scores.SubmitScore(login, p.Nickname, time)
		return
	}

	if c.falseStartArmed() {
		c.falseStart(ctx, p)
		return
	}

	// A zero time in TimeAttack or Stunts is a respawn, not a retirement
	if c.gameMode == model.GameModeTimeAttack || c.gameMode == model.GameModeStunts {
		return
	}
	c.scores.SubmitScore(login, p.Nickname, model.DidNotFinish)
}

func (c *Controller) falseStartArmed() bool {
	return c.settings.MaxFalseStarts > 0 &&
		c.falseStarts < c.settings.MaxFalseStarts &&
		c.gameMode.IsRoundBased() &&
		!c.roundStartedAt.IsZero() &&
		clock.Since(c.clock, c.roundStartedAt) < c.settings.FalseStartWindow
}

func (c *Controller) falseStart(ctx context.Context, p model.PlayerRecord) {
	c.falseStarts++
	c.replay = true
	c.scores.Reset()
	c.setStatus(ctx, model.MatchRestartingRound)

	c.logger.Info("false start, restarting round",
		slog.String("login", p.Login),
		slog.Int("count", c.falseStarts),
		slog.Int("max", c.settings.MaxFalseStarts),
	)
	c.presenter.Chat(ctx, host.Everyone(), fmt.Sprintf("False start by %s! Restarting the round (%d/%d).",
		p.DisplayName(), c.falseStarts, c.settings.MaxFalseStarts))

	if err := c.server.RestartRound(ctx); err != nil {
		c.logger.Error("failed to restart round", slog.String("error", err.Error()))
	}
}

// checkAuthorSkip ends the warmup early once few players remain and one of
// them has beaten the author
func (c *Controller) checkAuthorSkip(ctx context.Context, login string, time int) {
	if c.settings.AuthorSkip <= 0 || c.authorTime <= 0 || time <= 0 {
		return
	}
	p, ok := c.registry.Get(login)
	if !ok || !p.Status.InContention() {
		return
	}
	if c.registry.CountPlayingOrShelved() > c.settings.AuthorSkip {
		return
	}

	beaten := time < c.authorTime
	if !c.gameMode.ScoresAscending() {
		beaten = time > c.authorTime
	}
	if !beaten {
		return
	}

	c.logger.Info("author time beaten, skipping warmup", slog.String("login", login), slog.Int("time", time))
	c.presenter.Chat(ctx, host.Everyone(), p.DisplayName()+" beat the author time, skipping the warmup.")
	c.setStatus(ctx, model.MatchSkippingWarmup)
	if err := c.server.EndWarmup(ctx); err != nil {
		c.logger.Error("failed to end warmup", slog.String("error", err.Error()))
	}
}

func (c *Controller) forceSpectator(ctx context.Context, login string, mode model.SpectatorMode) {
	if err := c.server.ForceSpectator(ctx, login, mode); err != nil {
		c.logger.Warn("failed to change spectator mode",
			slog.String("login", login),
			slog.Int("mode", int(mode)),
			slog.String("error", err.Error()),
		)
	}
}

// confine puts a knocked out player back into spectator mode unless the
// warmup is open to them
func (c *Controller) confine(ctx context.Context, p model.PlayerRecord) {
	if c.status == model.MatchWarmup && c.settings.OpenWarmup {
		c.registry.SetStatus(p.Login, model.StatusKnockedOut)
		return
	}
	c.registry.SetStatus(p.Login, model.StatusKnockedOutSpectating)
	c.forceSpectator(ctx, p.Login, model.SpectatorForced)
}

// releaseKnockedOut lets knocked out players drive during the warmup
func (c *Controller) releaseKnockedOut(ctx context.Context) {
	for _, p := range c.registry.FilterByStatus(model.StatusKnockedOutSpectating) {
		c.registry.SetStatus(p.Login, model.StatusKnockedOut)
		c.forceSpectator(ctx, p.Login, model.SpectatorUserSelectable)
	}
}

// confineKnockedOut moves released players back to spectating
func (c *Controller) confineKnockedOut(ctx context.Context) {
	for _, p := range c.registry.FilterByStatus(model.StatusKnockedOut) {
		c.registry.SetStatus(p.Login, model.StatusKnockedOutSpectating)
		c.forceSpectator(ctx, p.Login, model.SpectatorForced)
	}
}

// releaseAll gives every tracked player control of their spectator mode again
func (c *Controller) releaseAll(ctx context.Context) {
	for _, p := range c.registry.All() {
		if p.Status.IsDisconnected() || p.Status == model.StatusOptingOut || p.Status == model.StatusPlaying {
			continue
		}
		c.forceSpectator(ctx, p.Login, model.SpectatorUserSelectable)
	}
}
