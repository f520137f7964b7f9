package knockout

import (
	"context"
	"log/slog"

	"github.com/mcoot/knockout/internal/host"
	"github.com/mcoot/knockout/internal/model"
)

func (c *Controller) onStatusChanged(ctx context.Context, status model.ServerStatus) {
	switch status {
	case model.ServerStatusSynchronization:
		c.onSynchronization(ctx)
	case model.ServerStatusPlay:
		c.roundStartedAt = c.clock.Now()
	}
}

func (c *Controller) onSynchronization(ctx context.Context) {
	switch c.status {
	case model.MatchStartingNow:
		c.beginKnockout(ctx)
	case model.MatchWarmup, model.MatchRunning, model.MatchTiebreaker,
		model.MatchRestartingRound, model.MatchRestartingTrack,
		model.MatchSkippingWarmup, model.MatchSkippingTrack:
		c.enterRound(ctx)
	}
}

func (c *Controller) onBeginMatch(ctx context.Context) {
	if c.status == model.MatchIdle {
		return
	}
	c.refreshTrack(ctx)
	if c.status == model.MatchStarting {
		c.setStatus(ctx, model.MatchStartingNow)
	}
}

func (c *Controller) onEndMatch(ctx context.Context) {
	if c.status != model.MatchStopping {
		return
	}
	c.setStatus(ctx, model.MatchIdle)
	c.clear()
}

func (c *Controller) onBeginRound() {
	if c.status.IsLive() {
		c.scores.Reset()
	}
}

func (c *Controller) onEndRound(ctx context.Context) {
	if c.status != model.MatchRunning && c.status != model.MatchTiebreaker {
		return
	}
	c.endRound(ctx)
}

func (c *Controller) beginKnockout(ctx context.Context) {
	c.roundNumber = 0
	c.replay = false
	c.eliminations = nil
	c.startedAt = c.clock.Now()
	c.startPlayers = c.registry.CountPlayingOrShelved()

	c.logger.Info("knockout started", slog.Int("players", c.startPlayers))
	c.presenter.Chat(ctx, host.Everyone(), "The knockout has begun. Good luck!")
	c.enterRound(ctx)
}

// enterRound works out what kind of round the server is about to play
func (c *Controller) enterRound(ctx context.Context) {
	c.scores.Reset()

	if c.queryWarmup(ctx) {
		c.setStatus(ctx, model.MatchWarmup)
		return
	}

	if c.tiebreak != nil {
		c.replay = false
		c.setStatus(ctx, model.MatchTiebreaker)
		c.planRound()
		c.showStatus(ctx, host.Everyone())
		return
	}

	if !c.replay {
		c.roundNumber++
	}
	c.replay = false
	c.setStatus(ctx, model.MatchRunning)
	c.planRound()
	c.showStatus(ctx, host.Everyone())
}

func (c *Controller) planRound() {
	plan := c.scheduler.PlanRound(c.roundNumber, c.registry.CountPlayingOrShelved())
	c.planned = plan.Count
	c.logger.Debug("round planned",
		slog.Int("round", c.roundNumber),
		slog.Int("eliminations", plan.Count),
		slog.String("mode", plan.Mode.String()),
	)
}

func (c *Controller) queryWarmup(ctx context.Context) bool {
	warmup, err := c.server.IsWarmup(ctx)
	if err != nil {
		c.logger.Warn("could not query warmup, assuming a race round", slog.String("error", err.Error()))
		return false
	}
	return warmup
}

// refreshTrack picks up the game mode and author time of the loaded track
func (c *Controller) refreshTrack(ctx context.Context) {
	mode, err := c.server.GameMode(ctx)
	if err != nil {
		c.logger.Warn("could not query game mode", slog.String("error", err.Error()))
	} else {
		c.gameMode = mode
	}
	c.scores.SetSortingOrder(c.gameMode.ScoresAscending())

	track, err := c.server.CurrentTrack(ctx)
	if err != nil {
		c.logger.Warn("could not query current track", slog.String("error", err.Error()))
		c.authorTime = 0
		return
	}
	c.authorTime = track.AuthorTime
}

// endKnockout announces the result, archives it and waits for the match to end
func (c *Controller) endKnockout(ctx context.Context) {
	left := c.registry.PlayingOrShelved()

	result := model.KnockoutResult{
		ID:           model.KnockoutID(c.ids.NewID()),
		Rounds:       c.roundNumber,
		Players:      c.startPlayers,
		Eliminations: append([]model.Elimination(nil), c.eliminations...),
		StartedAt:    c.startedAt,
		EndedAt:      c.clock.Now(),
	}

	if len(left) == 1 {
		champ := left[0]
		result.Winner = champ.Login
		result.WinnerNickname = champ.Nickname
		c.presenter.Chat(ctx, host.Everyone(), champ.DisplayName()+" is the Champ!")
		c.logger.Info("knockout won", slog.String("login", champ.Login), slog.Int("rounds", c.roundNumber))
	} else {
		c.presenter.Chat(ctx, host.Everyone(), "Everyone was knocked out. There is no Champ this time.")
		c.logger.Info("knockout ended without a winner", slog.Int("rounds", c.roundNumber))
	}

	if err := c.storage.SaveResult(ctx, &result); err != nil {
		c.logger.Error("failed to archive knockout result",
			slog.String("id", string(result.ID)),
			slog.String("error", err.Error()),
		)
	}

	c.releaseAll(ctx)
	c.setStatus(ctx, model.MatchStopping)
}

// abort stops the knockout without a result
func (c *Controller) abort(ctx context.Context) {
	c.logger.Info("knockout stopped", slog.String("state", c.status.String()), slog.Int("round", c.roundNumber))
	c.presenter.Chat(ctx, host.Everyone(), "The knockout has been stopped.")
	c.releaseAll(ctx)
	c.setStatus(ctx, model.MatchIdle)
	c.clear()
}
