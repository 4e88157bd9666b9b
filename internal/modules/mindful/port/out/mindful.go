package out

import (
	"context"

	"dodge/internal/modules/mindful/domain"
)

type Journal interface {
	Append(ctx context.Context, interval domain.Interval) (string, error)
	// List returns entries newest first.
	List(ctx context.Context, limit int) ([]Entry, error)
}

type Entry struct {
	Interval domain.Interval
	Path     string
}
