package in

import (
	"context"
	"time"

	"dodge/internal/modules/session/domain"
	"dodge/internal/modules/session/dto"
)

// MaxTickDelta is the most game time a single Tick applies.
const MaxTickDelta = domain.MaxTickDelta

type Usecase interface {
	Start(ctx context.Context, input dto.StartInput) (dto.Snapshot, error)
	Pause(ctx context.Context) (dto.Snapshot, error)
	Resume(ctx context.Context) (dto.Snapshot, error)
	Stop(ctx context.Context) (dto.Snapshot, error)
	Background(ctx context.Context) (dto.Snapshot, error)
	Tick(ctx context.Context, dt time.Duration) (dto.Snapshot, error)
	TapDistraction(ctx context.Context, id string) (dto.Snapshot, error)
	MovePointer(ctx context.Context, x, y float64) (dto.Snapshot, error)
	NudgePointer(ctx context.Context, dx, dy float64) (dto.Snapshot, error)
	SetFocused(ctx context.Context, focused bool) (dto.Snapshot, error)
	Snapshot(ctx context.Context) dto.Snapshot
	Subscribe(fn func(dto.Snapshot)) (unsubscribe func())
	History(ctx context.Context, limit int) ([]dto.SessionSummary, error)
}
