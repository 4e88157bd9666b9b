package in

import (
	"context"
	"time"

	progressdto "dodge/internal/modules/progress/dto"
	progressin "dodge/internal/modules/progress/port/in"
	sessiondto "dodge/internal/modules/session/dto"
	apperrors "dodge/internal/platform/errors"
)

// fakeSession ends after ticksToEnd running ticks.
type fakeSession struct {
	snap       sessiondto.Snapshot
	ticksToEnd int
	ticks      int
	started    []sessiondto.StartInput
	tapped     []string
	nudges     [][2]float64
	subs       map[int]func(sessiondto.Snapshot)
	nextSub    int
	history    []sessiondto.SessionSummary
}

func newFakeSession() *fakeSession {
	return &fakeSession{snap: sessiondto.Snapshot{State: "idle"}, ticksToEnd: 3, subs: map[int]func(sessiondto.Snapshot){}}
}

func (f *fakeSession) publish() sessiondto.Snapshot {
	for _, fn := range f.subs {
		fn(f.snap)
	}
	return f.snap
}

func (f *fakeSession) Start(_ context.Context, input sessiondto.StartInput) (sessiondto.Snapshot, error) {
	if f.snap.State == "running" || f.snap.State == "paused" {
		return f.snap, apperrors.ErrActiveSessionExists
	}
	f.started = append(f.started, input)
	f.ticks = 0
	mode := input.Mode
	if mode == "" {
		mode = "gaze"
	}
	f.snap = sessiondto.Snapshot{SessionID: "s1", Mode: mode, State: "running", Distractions: []sessiondto.DistractionView{}}
	return f.publish(), nil
}

func (f *fakeSession) Pause(context.Context) (sessiondto.Snapshot, error) {
	if f.snap.State != "running" {
		return f.snap, apperrors.ErrNoActiveSession
	}
	f.snap.State = "paused"
	return f.publish(), nil
}

func (f *fakeSession) Resume(context.Context) (sessiondto.Snapshot, error) {
	if f.snap.State != "paused" {
		return f.snap, apperrors.ErrNoActiveSession
	}
	f.snap.State = "running"
	return f.publish(), nil
}

func (f *fakeSession) Stop(context.Context) (sessiondto.Snapshot, error) {
	f.snap.State = "ended"
	f.snap.EndReason = "stopped"
	return f.publish(), nil
}

func (f *fakeSession) Background(ctx context.Context) (sessiondto.Snapshot, error) {
	if f.snap.State == "running" {
		return f.Pause(ctx)
	}
	return f.snap, nil
}

func (f *fakeSession) Tick(_ context.Context, dt time.Duration) (sessiondto.Snapshot, error) {
	if f.snap.State != "running" {
		return f.snap, nil
	}
	f.ticks++
	f.snap.Elapsed += dt
	if f.ticks >= f.ticksToEnd {
		f.snap.State = "ended"
		f.snap.EndReason = "timer"
	}
	return f.publish(), nil
}

func (f *fakeSession) TapDistraction(_ context.Context, id string) (sessiondto.Snapshot, error) {
	for i, d := range f.snap.Distractions {
		if d.ID == id {
			f.tapped = append(f.tapped, id)
			f.snap.Distractions = append(f.snap.Distractions[:i:i], f.snap.Distractions[i+1:]...)
			return f.publish(), nil
		}
	}
	return f.snap, apperrors.ErrUnknownDistraction
}

func (f *fakeSession) MovePointer(_ context.Context, x, y float64) (sessiondto.Snapshot, error) {
	f.snap.Pointer = sessiondto.PointView{X: x, Y: y}
	return f.publish(), nil
}

func (f *fakeSession) NudgePointer(_ context.Context, dx, dy float64) (sessiondto.Snapshot, error) {
	f.nudges = append(f.nudges, [2]float64{dx, dy})
	f.snap.Pointer.X += dx
	f.snap.Pointer.Y += dy
	return f.publish(), nil
}

func (f *fakeSession) SetFocused(_ context.Context, focused bool) (sessiondto.Snapshot, error) {
	if f.snap.Mode != "gaze" {
		return f.snap, apperrors.ErrWrongMode
	}
	f.snap.Focused = focused
	return f.publish(), nil
}

func (f *fakeSession) Snapshot(context.Context) sessiondto.Snapshot { return f.snap }

func (f *fakeSession) Subscribe(fn func(sessiondto.Snapshot)) func() {
	id := f.nextSub
	f.nextSub++
	f.subs[id] = fn
	return func() { delete(f.subs, id) }
}

func (f *fakeSession) History(_ context.Context, limit int) ([]sessiondto.SessionSummary, error) {
	if limit > 0 && limit < len(f.history) {
		return f.history[:limit], nil
	}
	return f.history, nil
}

type fakeProgress struct {
	out progressdto.ProgressOutput
	err error
}

var _ progressin.Usecase = (*fakeProgress)(nil)

func (f *fakeProgress) Get(context.Context) (progressdto.ProgressOutput, error) { return f.out, f.err }

func (f *fakeProgress) RecordSession(context.Context, progressdto.RecordSessionInput) (progressdto.RecordSessionOutput, error) {
	return progressdto.RecordSessionOutput{}, nil
}

func (f *fakeProgress) CompleteOnboarding(context.Context) (progressdto.ProgressOutput, error) {
	return f.out, nil
}

func (f *fakeProgress) Reset(context.Context) (progressdto.ProgressOutput, error) { return f.out, nil }
