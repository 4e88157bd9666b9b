package in

import (
	"context"
	"fmt"
	"time"

	sessiondto "dodge/internal/modules/session/dto"
	sessionin "dodge/internal/modules/session/port/in"
	apperrors "dodge/internal/platform/errors"
)

// TUIHandler is called from the Bubble Tea update loop only.
type TUIHandler struct {
	usecase  sessionin.Usecase
	defaults sessiondto.StartInput
}

func NewTUIHandler(usecase sessionin.Usecase, defaults sessiondto.StartInput) TUIHandler {
	return TUIHandler{usecase: usecase, defaults: defaults}
}

// Start begins a session in mode, or the configured mode when empty.
func (h TUIHandler) Start(ctx context.Context, mode string) (sessiondto.Snapshot, error) {
	input := h.defaults
	if mode != "" {
		input.Mode = mode
	}
	return h.usecase.Start(ctx, input)
}

func (h TUIHandler) Pause(ctx context.Context) (sessiondto.Snapshot, error) {
	return h.usecase.Pause(ctx)
}

func (h TUIHandler) Resume(ctx context.Context) (sessiondto.Snapshot, error) {
	return h.usecase.Resume(ctx)
}

// TogglePause pauses a running session and resumes a paused one.
func (h TUIHandler) TogglePause(ctx context.Context) (sessiondto.Snapshot, error) {
	if h.usecase.Snapshot(ctx).State == "paused" {
		return h.usecase.Resume(ctx)
	}
	return h.usecase.Pause(ctx)
}

func (h TUIHandler) Stop(ctx context.Context) (sessiondto.Snapshot, error) {
	return h.usecase.Stop(ctx)
}

// StopActive stops a running or paused session; used when the TUI exits.
func (h TUIHandler) StopActive(ctx context.Context) error {
	_, err := stopActive(ctx, h.usecase)
	return err
}

func (h TUIHandler) Background(ctx context.Context) (sessiondto.Snapshot, error) {
	return h.usecase.Background(ctx)
}

func (h TUIHandler) Tick(ctx context.Context, dt time.Duration) (sessiondto.Snapshot, error) {
	return h.usecase.Tick(ctx, dt)
}

// TapSlot taps the distraction shown under the given 1-based slot number.
func (h TUIHandler) TapSlot(ctx context.Context, slot int) (sessiondto.Snapshot, error) {
	snap := h.usecase.Snapshot(ctx)
	for _, d := range snap.Distractions {
		if d.Slot == slot {
			return h.usecase.TapDistraction(ctx, d.ID)
		}
	}
	return snap, fmt.Errorf("%w: slot %d", apperrors.ErrUnknownDistraction, slot)
}

func (h TUIHandler) Nudge(ctx context.Context, dx, dy float64) (sessiondto.Snapshot, error) {
	return h.usecase.NudgePointer(ctx, dx, dy)
}

func (h TUIHandler) SetFocused(ctx context.Context, focused bool) (sessiondto.Snapshot, error) {
	return h.usecase.SetFocused(ctx, focused)
}

func (h TUIHandler) Snapshot(ctx context.Context) sessiondto.Snapshot {
	return h.usecase.Snapshot(ctx)
}

func (h TUIHandler) History(ctx context.Context, limit int) ([]sessiondto.SessionSummary, error) {
	return h.usecase.History(ctx, limit)
}
