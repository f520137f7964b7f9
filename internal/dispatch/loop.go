package dispatch

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/mcoot/knockout/internal/config"
	"github.com/mcoot/knockout/internal/model"
	"github.com/mcoot/knockout/internal/services/knockout"
)

// ErrLoopClosed is returned for work submitted after the loop has stopped
var ErrLoopClosed = errors.New("dispatch loop closed")

// Loop owns the knockout controller and runs everything that touches it on a
// single goroutine
type Loop struct {
	controller knockout.ControllerInterface
	logger     *slog.Logger

	work     chan func(context.Context)
	done     chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once
}

// New creates a Loop for the controller. Run must be called before submitting work.
func New(controller knockout.ControllerInterface, logger *slog.Logger) *Loop {
	return &Loop{
		controller: controller,
		logger:     logger.With(slog.String("component", "dispatch")),
		work:       make(chan func(context.Context)),
		done:       make(chan struct{}),
		stopped:    make(chan struct{}),
	}
}

// Run processes submitted work until ctx is cancelled or Close is called.
// The controller sees ctx, not the context of whoever submitted the work.
func (l *Loop) Run(ctx context.Context) {
	defer close(l.stopped)
	l.logger.Info("dispatch loop started")
	processed := 0
	for {
		select {
		case fn := <-l.work:
			fn(ctx)
			processed++
		case <-ctx.Done():
			l.logger.Info("dispatch loop stopped", slog.Int("processed", processed), slog.String("reason", "context"))
			return
		case <-l.done:
			l.logger.Info("dispatch loop stopped", slog.Int("processed", processed))
			return
		}
	}
}

// Close stops the loop and waits for the current piece of work to finish
func (l *Loop) Close() {
	l.stopOnce.Do(func() { close(l.done) })
	<-l.stopped
}

// Do runs fn on the loop goroutine and waits for it to return
func (l *Loop) Do(ctx context.Context, fn func(ctx context.Context, c knockout.ControllerInterface)) error {
	finished := make(chan struct{})
	job := func(loopCtx context.Context) {
		defer close(finished)
		fn(loopCtx, l.controller)
	}

	select {
	case l.work <- job:
	case <-l.stopped:
		return ErrLoopClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	// Once accepted the job always runs to completion
	<-finished
	return nil
}

// Dispatch hands one host callback to the controller
func (l *Loop) Dispatch(ctx context.Context, cb model.Callback) error {
	var handleErr error
	err := l.Do(ctx, func(ctx context.Context, c knockout.ControllerInterface) {
		handleErr = c.Handle(ctx, cb)
	})
	if err != nil {
		return err
	}
	if handleErr != nil {
		l.logger.Warn("callback rejected", slog.String("type", string(cb.Type)), slog.String("error", handleErr.Error()))
	}
	return handleErr
}

// Snapshot returns the controller's state as of the last processed callback
func (l *Loop) Snapshot(ctx context.Context) (model.KnockoutSnapshot, error) {
	var snap model.KnockoutSnapshot
	err := l.Do(ctx, func(_ context.Context, c knockout.ControllerInterface) {
		snap = c.Snapshot()
	})
	return snap, err
}

// Settings returns the controller's current knockout settings
func (l *Loop) Settings(ctx context.Context) (config.Settings, error) {
	var settings config.Settings
	err := l.Do(ctx, func(_ context.Context, c knockout.ControllerInterface) {
		settings = c.Settings()
	})
	return settings, err
}
