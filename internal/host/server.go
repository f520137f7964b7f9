package host

import (
	"context"

	"github.com/mcoot/knockout/internal/model"
)

// Server is the subset of the dedicated server's query interface the
// knockout needs. Implementations return errors wrapping model.ErrQueryFailed.
type Server interface {
	ForceSpectator(ctx context.Context, login string, mode model.SpectatorMode) error
	RestartTrack(ctx context.Context, withWarmup bool) error
	SkipTrack(ctx context.Context) error
	RestartRound(ctx context.Context) error
	EndWarmup(ctx context.Context) error

	GameMode(ctx context.Context) (model.GameMode, error)
	IsWarmup(ctx context.Context) (bool, error)
	RoundsPerTrack(ctx context.Context) (int, error)
	SetRoundsPerTrack(ctx context.Context, rounds int) error
	Players(ctx context.Context) ([]model.ServerPlayer, error)
	CurrentTrack(ctx context.Context) (model.TrackInfo, error)
	NextTrack(ctx context.Context) (model.TrackInfo, error)
}
