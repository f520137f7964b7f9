package knockout

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mcoot/knockout/internal/config"
	"github.com/mcoot/knockout/internal/dependencies/clock"
	"github.com/mcoot/knockout/internal/dependencies/idgen"
	"github.com/mcoot/knockout/internal/host"
	"github.com/mcoot/knockout/internal/model"
	"github.com/mcoot/knockout/internal/services/elimination"
	"github.com/mcoot/knockout/internal/services/registry"
	"github.com/mcoot/knockout/internal/services/scoreboard"
	"github.com/mcoot/knockout/internal/storage"
)

// ControllerInterface is the knockout as seen by the host bridge
type ControllerInterface interface {
	Handle(ctx context.Context, cb model.Callback) error
	Snapshot() model.KnockoutSnapshot
	Settings() config.Settings
}

// Controller runs the knockout state machine. It is driven one callback at a
// time and is not safe for concurrent use.
type Controller struct {
	server    host.Server
	presenter host.Presenter
	storage   storage.Storage
	clock     clock.Clock
	ids       idgen.Generator
	logger    *slog.Logger

	settings  config.Settings
	registry  *registry.Registry
	scores    *scoreboard.ScoreBoard
	scheduler *elimination.Scheduler

	status         model.MatchStatus
	roundNumber    int
	gameMode       model.GameMode
	authorTime     int
	roundStartedAt time.Time
	falseStarts    int
	planned        int
	// The interrupted round is played again instead of advancing the round number
	replay   bool
	tiebreak *tiebreak

	pendingStop *pendingPrompt

	startedAt    time.Time
	startPlayers int
	eliminations []model.Elimination
}

type tiebreak struct {
	logins    []string
	remaining int
}

type pendingPrompt struct {
	id    string
	login string
}

var _ ControllerInterface = (*Controller)(nil)

// NewController creates a new knockout Controller in the Idle state
func NewController(
	server host.Server,
	presenter host.Presenter,
	storage storage.Storage,
	clock clock.Clock,
	ids idgen.Generator,
	settings config.Settings,
	logger *slog.Logger,
) *Controller {
	logger = logger.With(slog.String("component", "knockout"))
	return &Controller{
		server:    server,
		presenter: presenter,
		storage:   storage,
		clock:     clock,
		ids:       ids,
		logger:    logger,
		settings:  settings,
		registry:  registry.New(logger),
		scores:    scoreboard.New(true),
		scheduler: elimination.New(settings.EliminationMode, settings.EliminationValue, logger),
		status:    model.MatchIdle,
		gameMode:  model.GameModeRounds,
	}
}

// Handle processes one host callback. Only malformed callbacks return an error;
// everything else is handled, logged and reported to players.
func (c *Controller) Handle(ctx context.Context, cb model.Callback) error {
	switch cb.Type {
	case model.CallbackStatusChanged:
		c.onStatusChanged(ctx, cb.Status)
	case model.CallbackBeginMatch:
		c.onBeginMatch(ctx)
	case model.CallbackEndMatch:
		c.onEndMatch(ctx)
	case model.CallbackBeginRound:
		c.onBeginRound()
	case model.CallbackEndRound:
		c.onEndRound(ctx)
	case model.CallbackPlayerConnect:
		c.onPlayerConnect(ctx, cb.Login, cb.Nickname, cb.IsSpectator)
	case model.CallbackPlayerDisconnect:
		c.onPlayerDisconnect(cb.Login)
	case model.CallbackPlayerFinish:
		c.onPlayerFinish(ctx, cb.Login, cb.Time)
	case model.CallbackPlayerInfoChanged:
		c.onPlayerInfoChanged(cb.Login, cb.Nickname)
	case model.CallbackPlayerChat:
		c.onChat(ctx, cb.Login, cb.Text, cb.IsAdmin)
	case model.CallbackPromptAnswer:
		c.onPromptAnswer(ctx, cb.Login, cb.PromptID, cb.Accepted)
	default:
		return fmt.Errorf("%w: %q", model.ErrUnknownCallback, cb.Type)
	}
	return nil
}

// Snapshot returns a copy of the knockout's current state
func (c *Controller) Snapshot() model.KnockoutSnapshot {
	return model.KnockoutSnapshot{
		Status:                c.status,
		RoundNumber:           c.roundNumber,
		FalseStartCount:       c.falseStarts,
		EliminationsThisRound: c.planned,
		EliminationMode:       c.scheduler.String(),
		Players:               c.registry.All(),
		Scores:                c.scores.Entries(),
	}
}

// Settings returns the current knockout settings
func (c *Controller) Settings() config.Settings {
	s := c.settings
	s.Admins = append([]string(nil), c.settings.Admins...)
	return s
}

// Status returns the knockout's lifecycle state
func (c *Controller) Status() model.MatchStatus {
	return c.status
}

func (c *Controller) setStatus(ctx context.Context, status model.MatchStatus) {
	prev := c.status
	if prev == status {
		return
	}
	c.status = status
	c.logger.Info("knockout state changed",
		slog.String("from", prev.String()),
		slog.String("to", status.String()),
		slog.Int("round", c.roundNumber),
	)

	switch status {
	case model.MatchWarmup:
		if c.settings.OpenWarmup {
			c.releaseKnockedOut(ctx)
		}
	case model.MatchRunning, model.MatchTiebreaker:
		c.confineKnockedOut(ctx)
	}
}

// clear forgets the finished knockout, keeping only players who opted out
func (c *Controller) clear() {
	c.registry.Reset(model.StatusOptingOut)
	c.scores.Reset()
	if c.scheduler.IsOverridden() {
		c.scheduler.Revert()
	}
	c.roundNumber = 0
	c.falseStarts = 0
	c.planned = 0
	c.replay = false
	c.tiebreak = nil
	c.pendingStop = nil
	c.eliminations = nil
	c.startPlayers = 0
	c.startedAt = time.Time{}
	c.roundStartedAt = time.Time{}
}
