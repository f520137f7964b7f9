package storage

import (
	"context"

	"github.com/mcoot/knockout/internal/model"
)

// Storage archives finished knockouts
type Storage interface {
	SaveResult(ctx context.Context, result *model.KnockoutResult) error
	GetResult(ctx context.Context, id model.KnockoutID) (*model.KnockoutResult, error)
	// ListResults returns up to limit results, most recently finished first
	ListResults(ctx context.Context, limit int) ([]*model.KnockoutResult, error)
	DeleteResult(ctx context.Context, id model.KnockoutID) error

	// Leaderboard returns up to limit players ordered by wins, most first
	Leaderboard(ctx context.Context, limit int) ([]model.WinCount, error)
}
