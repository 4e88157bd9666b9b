package in

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	sessionin "dodge/internal/modules/session/port/in"
)

// Loop owns a session usecase for surfaces with many concurrent callers.
// Every call and every tick runs on the goroutine executing Run.
type Loop struct {
	usecase  sessionin.Usecase
	interval time.Duration
	calls    chan call
	stopped  chan struct{}
	logger   *slog.Logger
}

var ErrLoopStopped = errors.New("session loop stopped")

type call struct {
	fn   func(context.Context, sessionin.Usecase)
	done chan struct{}
}

func NewLoop(usecase sessionin.Usecase, interval time.Duration, logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Loop{usecase: usecase, interval: interval, calls: make(chan call), stopped: make(chan struct{}), logger: logger}
}

// Run ticks the session at the loop interval until ctx is cancelled. A
// session still running or paused at that point is stopped and persisted.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.stopped)
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			stopped, err := stopActive(context.WithoutCancel(ctx), l.usecase)
			switch {
			case err != nil:
				l.logger.Error("stop session on shutdown failed", "error", err)
			case stopped:
				l.logger.Info("session stopped on shutdown")
			}
			return ctx.Err()
		case c := <-l.calls:
			c.fn(ctx, l.usecase)
			close(c.done)
		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now
			if _, err := l.usecase.Tick(ctx, dt); err != nil {
				l.logger.Error("session tick failed", "error", err)
			}
		}
	}
}

// Do runs fn on the loop goroutine and waits for it to return.
func (l *Loop) Do(ctx context.Context, fn func(context.Context, sessionin.Usecase)) error {
	c := call{fn: fn, done: make(chan struct{})}
	select {
	case l.calls <- c:
	case <-ctx.Done():
		return ctx.Err()
	case <-l.stopped:
		return ErrLoopStopped
	}
	<-c.done
	return nil
}

// stopActive ends a running or paused session with reason stopped.
func stopActive(ctx context.Context, usecase sessionin.Usecase) (bool, error) {
	switch usecase.Snapshot(ctx).State {
	case "running", "paused":
	default:
		return false, nil
	}
	_, err := usecase.Stop(ctx)
	return true, err
}
