package domain

import (
	"fmt"
	"time"

	apperrors "dodge/internal/platform/errors"
)

const (
	SchemaVersion      = 1
	MinMindfulDuration = time.Second
)

// Interval is one block of mindful time handed to the health journal.
type Interval struct {
	SessionID string
	Start     time.Time
	End       time.Time
}

func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

func (i Interval) Validate() error {
	if i.Start.IsZero() || i.End.IsZero() {
		return fmt.Errorf("%w: interval bounds are required", apperrors.ErrInvalidInput)
	}
	if !i.End.After(i.Start) {
		return fmt.Errorf("%w: interval end must be after start", apperrors.ErrInvalidInput)
	}
	if i.Duration() < MinMindfulDuration {
		return fmt.Errorf("%w: interval shorter than %s", apperrors.ErrInvalidInput, MinMindfulDuration)
	}
	return nil
}
