package in

import (
	"context"
	"fmt"
	"math"
	"time"

	sessiondto "dodge/internal/modules/session/dto"
	sessionin "dodge/internal/modules/session/port/in"
	apperrors "dodge/internal/platform/errors"
)

// autopilotSpeed is how far the simulated player drags the circle per second
// in catch mode.
const autopilotSpeed = 30.0

type CLIHandler struct {
	usecase sessionin.Usecase
}

func NewCLIHandler(usecase sessionin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

// Simulate plays a whole session headless with a fixed step. advance, when
// set, is called before every tick with the game time that tick will apply,
// so a manual wall clock stays in step with the session. Catch mode steers
// the pointer toward the nearest hologram.
func (h CLIHandler) Simulate(ctx context.Context, input sessiondto.StartInput, step time.Duration, advance func(time.Duration)) (sessiondto.Snapshot, error) {
	if step <= 0 || step > sessionin.MaxTickDelta {
		return sessiondto.Snapshot{}, fmt.Errorf("%w: simulation step %s must be in (0, %s]", apperrors.ErrInvalidInput, step, sessionin.MaxTickDelta)
	}
	snap, err := h.usecase.Start(ctx, input)
	if err != nil {
		return snap, err
	}
	for snap.State == "running" {
		if err := ctx.Err(); err != nil {
			return snap, err
		}
		if snap.Mode == "catch" {
			if dx, dy, ok := steer(snap, step); ok {
				if _, err := h.usecase.NudgePointer(ctx, dx, dy); err != nil {
					return snap, err
				}
			}
		}
		if advance != nil {
			dt := step
			if snap.Remaining > 0 && snap.Remaining < dt {
				dt = snap.Remaining
			}
			advance(dt)
		}
		snap, err = h.usecase.Tick(ctx, step)
		if err != nil {
			return snap, err
		}
	}
	return snap, nil
}

func (h CLIHandler) History(ctx context.Context, limit int) ([]sessiondto.SessionSummary, error) {
	return h.usecase.History(ctx, limit)
}

func steer(snap sessiondto.Snapshot, step time.Duration) (float64, float64, bool) {
	best := math.MaxFloat64
	var target sessiondto.PointView
	for _, d := range snap.Distractions {
		if d.Kind != "hologram" {
			continue
		}
		dist := math.Hypot(d.Position.X-snap.Pointer.X, d.Position.Y-snap.Pointer.Y)
		if dist < best {
			best = dist
			target = d.Position
		}
	}
	if best == math.MaxFloat64 || best == 0 {
		return 0, 0, false
	}
	reach := min(best, autopilotSpeed*step.Seconds())
	return (target.X - snap.Pointer.X) / best * reach, (target.Y - snap.Pointer.Y) / best * reach, true
}
