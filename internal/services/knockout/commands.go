package knockout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mcoot/knockout/internal/host"
	"github.com/mcoot/knockout/internal/model"
	"github.com/mcoot/knockout/internal/services/command"
	"github.com/mcoot/knockout/internal/services/elimination"
)

func (c *Controller) onChat(ctx context.Context, login, text string, isAdmin bool) {
	cmd, err := command.Parse(text)
	if errors.Is(err, command.ErrNotCommand) {
		return
	}
	if err != nil {
		c.presenter.Chat(ctx, host.To(login), err.Error())
		return
	}

	if cmd.Kind.IsAdmin() && !isAdmin && !c.settings.IsAdmin(login) {
		c.logger.Warn("admin command refused", slog.String("login", login), slog.String("command", cmd.Kind.String()))
		c.presenter.Chat(ctx, host.To(login), model.ErrNotAdmin.Error())
		return
	}

	c.logger.Debug("command", slog.String("login", login), slog.String("command", cmd.Kind.String()))
	if err := c.execute(ctx, login, cmd); err != nil {
		c.presenter.Chat(ctx, host.To(login), err.Error())
	}
}

func (c *Controller) execute(ctx context.Context, login string, cmd command.Command) error {
	switch cmd.Kind {
	case command.KindHelp:
		c.presenter.ShowDialog(ctx, host.To(login), host.Dialog{Title: "Knockout", Pages: command.HelpPages})
	case command.KindStatus:
		c.showStatus(ctx, host.To(login))
	case command.KindSettings:
		c.presenter.ShowDialog(ctx, host.To(login), host.Dialog{Title: "Knockout settings", Pages: []string{c.settingsText()}})
	case command.KindStart:
		return c.start(ctx, cmd.Now)
	case command.KindStop:
		return c.requestStop(ctx, login)
	case command.KindSkip:
		return c.skip(ctx, cmd.Warmup)
	case command.KindRestart:
		return c.restart(ctx, cmd.Warmup)
	case command.KindAdd:
		return c.addPlayer(ctx, cmd.Login)
	case command.KindRemove:
		return c.removePlayer(ctx, cmd.Login)
	case command.KindLives:
		return c.setLives(ctx, login, cmd.Login, cmd.Lives)
	case command.KindMulti:
		c.scheduler.Configure(cmd.Mode, cmd.Value)
		c.settings.EliminationMode = cmd.Mode
		c.settings.EliminationValue = cmd.Value
		c.presenter.Chat(ctx, host.Everyone(), "Eliminations per round: "+elimination.Describe(cmd.Mode, cmd.Value))
	case command.KindRounds:
		if err := c.server.SetRoundsPerTrack(ctx, cmd.Count); err != nil {
			c.logger.Warn("failed to set rounds per track", slog.String("error", err.Error()))
			return fmt.Errorf("could not set rounds per track")
		}
		c.presenter.Chat(ctx, host.To(login), fmt.Sprintf("Rounds per track set to %d.", cmd.Count))
	case command.KindOpenWarmup:
		c.settings.OpenWarmup = cmd.Enabled
		if c.status == model.MatchWarmup {
			if cmd.Enabled {
				c.releaseKnockedOut(ctx)
			} else {
				c.confineKnockedOut(ctx)
			}
		}
		c.presenter.Chat(ctx, host.To(login), "Open warmup "+onOff(cmd.Enabled)+".")
	case command.KindFalseStart:
		c.settings.MaxFalseStarts = cmd.Count
		c.presenter.Chat(ctx, host.To(login), fmt.Sprintf("False start restarts set to %d.", cmd.Count))
	case command.KindTiebreaker:
		c.settings.Tiebreaker = cmd.Enabled
		c.presenter.Chat(ctx, host.To(login), "Tiebreakers "+onOff(cmd.Enabled)+".")
	case command.KindAuthorSkip:
		c.settings.AuthorSkip = cmd.Count
		c.presenter.Chat(ctx, host.To(login), fmt.Sprintf("Author skip set to %d players.", cmd.Count))
	case command.KindOptIn:
		c.optIn(ctx, login)
	case command.KindOptOut:
		c.optOut(ctx, login)
	default:
		return fmt.Errorf("unsupported command %s", cmd.Kind)
	}
	return nil
}

func (c *Controller) start(ctx context.Context, now bool) error {
	if c.status != model.MatchIdle {
		return model.ErrKnockoutInProgress
	}

	players, err := c.server.Players(ctx)
	if err != nil {
		c.logger.Error("failed to fetch players", slog.String("error", err.Error()))
		return fmt.Errorf("could not fetch the player list")
	}

	participants := 0
	for _, p := range players {
		if !p.IsSpectator && !c.isOptingOut(p.Login) {
			participants++
		}
	}
	if participants < 2 {
		return model.ErrInsufficientPlayers
	}

	c.clear()
	for _, p := range players {
		switch {
		case c.isOptingOut(p.Login):
			c.registry.SetNickname(p.Login, p.Nickname)
		case p.IsSpectator:
			c.registry.Add(p.Login, p.Nickname, model.StatusKnockedOutSpectating, 0)
		default:
			c.registry.Add(p.Login, p.Nickname, model.StatusPlaying, c.settings.DefaultLives)
		}
	}
	c.refreshTrack(ctx)

	c.logger.Info("knockout starting", slog.Int("players", participants), slog.Bool("now", now))
	if now {
		c.setStatus(ctx, model.MatchStartingNow)
		c.presenter.Chat(ctx, host.Everyone(), fmt.Sprintf("Knockout with %d players starting now!", participants))
		if err := c.server.RestartTrack(ctx, false); err != nil {
			c.logger.Error("failed to restart track", slog.String("error", err.Error()))
		}
		return nil
	}

	c.setStatus(ctx, model.MatchStarting)
	c.presenter.Chat(ctx, host.Everyone(), fmt.Sprintf("Knockout with %d players starts on the next track.", participants))
	return nil
}

func (c *Controller) requestStop(ctx context.Context, login string) error {
	switch {
	case c.status == model.MatchIdle:
		return model.ErrNoKnockoutInProgress
	case c.status.IsLive():
		id := c.ids.NewID()
		c.pendingStop = &pendingPrompt{id: id, login: login}
		c.presenter.Prompt(ctx, host.To(login), host.Prompt{ID: id, Question: "Stop the knockout?"})
	default:
		c.abort(ctx)
	}
	return nil
}

func (c *Controller) onPromptAnswer(ctx context.Context, login, promptID string, accepted bool) {
	pending := c.pendingStop
	if pending == nil || pending.id != promptID || pending.login != login {
		return
	}
	c.pendingStop = nil
	if !accepted || c.status == model.MatchIdle {
		return
	}
	c.abort(ctx)
}

func (c *Controller) skip(ctx context.Context, warmup bool) error {
	if !c.status.IsLive() {
		return model.ErrNoKnockoutInProgress
	}

	if warmup {
		if c.status != model.MatchWarmup {
			return model.ErrNotInWarmup
		}
		c.setStatus(ctx, model.MatchSkippingWarmup)
		if err := c.server.EndWarmup(ctx); err != nil {
			c.logger.Error("failed to end warmup", slog.String("error", err.Error()))
		}
		return nil
	}

	c.markInterrupted()
	c.setStatus(ctx, model.MatchSkippingTrack)
	if err := c.server.SkipTrack(ctx); err != nil {
		c.logger.Error("failed to skip track", slog.String("error", err.Error()))
	}
	return nil
}

func (c *Controller) restart(ctx context.Context, warmup bool) error {
	if !c.status.IsLive() {
		return model.ErrNoKnockoutInProgress
	}

	c.markInterrupted()
	c.setStatus(ctx, model.MatchRestartingTrack)
	if err := c.server.RestartTrack(ctx, warmup); err != nil {
		c.logger.Error("failed to restart track", slog.String("error", err.Error()))
	}
	return nil
}

// markInterrupted replays the current round if one is being raced
func (c *Controller) markInterrupted() {
	if c.status == model.MatchRunning || c.status == model.MatchTiebreaker {
		c.replay = true
		c.scores.Reset()
	}
}

func (c *Controller) addPlayer(ctx context.Context, login string) error {
	if c.status == model.MatchIdle || c.status == model.MatchStopping {
		return model.ErrNoKnockoutInProgress
	}
	if p, ok := c.registry.Get(login); ok && (p.Status.InContention() || p.Status.IsShelved()) {
		return model.ErrAlreadyParticipant
	}

	players, err := c.server.Players(ctx)
	if err != nil {
		return fmt.Errorf("could not fetch the player list")
	}
	var found *model.ServerPlayer
	for i := range players {
		if players[i].Login == login {
			found = &players[i]
			break
		}
	}
	if found == nil {
		return fmt.Errorf("%w: %s", model.ErrPlayerNotConnected, login)
	}

	status := model.StatusPlaying
	if c.tiebreak != nil {
		status = model.StatusShelved
	}
	c.registry.Add(login, found.Nickname, status, c.settings.DefaultLives)
	if status == model.StatusPlaying {
		c.forceSpectator(ctx, login, model.PlayerForced)
	}

	c.logger.Info("player added", slog.String("login", login))
	c.presenter.Chat(ctx, host.Everyone(), found.Nickname+" joins the knockout.")
	return nil
}

func (c *Controller) removePlayer(ctx context.Context, login string) error {
	if c.status == model.MatchIdle {
		return model.ErrNoKnockoutInProgress
	}
	p, ok := c.registry.Get(login)
	if !ok || !(p.Status.InContention() || p.Status.IsShelved()) {
		return fmt.Errorf("%w: %s", model.ErrNotParticipant, login)
	}

	c.scores.Remove(login)
	c.knockOut(ctx, p, p.Status.IsDisconnected())
	c.leaveTiebreak(ctx, login)

	if c.status.IsLive() && c.registry.CountPlayingOrShelved() <= 1 {
		c.endKnockout(ctx)
	}
	return nil
}

func (c *Controller) setLives(ctx context.Context, issuer, login string, lives int) error {
	if lives < 1 {
		return model.ErrInvalidLives
	}
	if login == "" {
		c.settings.DefaultLives = lives
		c.presenter.Chat(ctx, host.To(issuer), fmt.Sprintf("Players start with %d lives.", lives))
		return nil
	}

	p, ok := c.registry.Get(login)
	if !ok || !(p.Status.InContention() || p.Status.IsShelved()) {
		return fmt.Errorf("%w: %s", model.ErrNotParticipant, login)
	}
	c.registry.SetLives(login, lives)
	c.presenter.Chat(ctx, host.Everyone(), fmt.Sprintf("%s now has %d lives.", p.DisplayName(), lives))
	return nil
}

func (c *Controller) optIn(ctx context.Context, login string) {
	if c.isOptingOut(login) {
		if c.status == model.MatchIdle {
			c.registry.Remove(login)
		} else {
			p, _ := c.registry.Get(login)
			c.confine(ctx, p)
		}
	}
	c.presenter.Chat(ctx, host.To(login), "You will take part in the next knockout.")
}

func (c *Controller) optOut(ctx context.Context, login string) {
	p, ok := c.registry.Get(login)
	switch {
	case !ok:
		c.registry.Add(login, "", model.StatusOptingOut, 0)
	case c.status == model.MatchStarting || c.status == model.MatchStartingNow:
		// Nothing has been raced yet, so leaving is not an elimination
		c.registry.SetStatus(login, model.StatusOptingOut)
		if p.Status.InContention() {
			c.forceSpectator(ctx, login, model.SpectatorUserSelectable)
		}
	case p.Status.InContention() || p.Status.IsShelved():
		c.scores.Remove(login)
		c.knockOut(ctx, p, false)
		c.registry.SetStatus(login, model.StatusOptingOut)
		c.forceSpectator(ctx, login, model.SpectatorUserSelectable)
		c.leaveTiebreak(ctx, login)
		if c.status.IsLive() && c.registry.CountPlayingOrShelved() <= 1 {
			c.endKnockout(ctx)
		}
	default:
		c.registry.SetStatus(login, model.StatusOptingOut)
	}
	c.presenter.Chat(ctx, host.To(login), "You will sit out knockouts until you /opt in.")
}

func (c *Controller) isOptingOut(login string) bool {
	p, ok := c.registry.Get(login)
	return ok && p.Status == model.StatusOptingOut
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
