package out

import (
	"context"
	"time"

	"dodge/internal/modules/session/domain"
)

type SessionStore interface {
	Save(ctx context.Context, session domain.Session) error
	List(ctx context.Context, limit int) ([]domain.Session, error)
}

// ProgressRecorder folds a finished session into the cross-session aggregate.
type ProgressRecorder interface {
	Record(ctx context.Context, session domain.Session) (newHighScore bool, err error)
}

// MindfulSink receives the played interval. Best effort: callers log failures
// and carry on.
type MindfulSink interface {
	LogMindful(ctx context.Context, sessionID string, start, end time.Time) error
}

// FocusSource delivers the gaze verdict once per tick. elapsed is the
// session's game time before the tick is applied.
type FocusSource interface {
	Sample(ctx context.Context, elapsed time.Duration) (bool, error)
	Close() error
}

// FocusSetter is implemented by sources the player drives directly.
type FocusSetter interface {
	SetFocused(focused bool)
}

// FocusSourceFactory resolves a source spec such as "manual",
// "script:on:10s,off:2s" or "plugin:gaze-sim".
type FocusSourceFactory interface {
	Open(ctx context.Context, spec string) (FocusSource, error)
}
