package usecase

import (
	"context"
	"time"

	sessiondto "dodge/internal/modules/session/dto"
	sessionin "dodge/internal/modules/session/port/in"
	"dodge/internal/modules/session/service"
)

const defaultHistoryLimit = 20

type Interactor struct {
	svc *service.SessionService
}

func NewInteractor(svc *service.SessionService) sessionin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Start(ctx context.Context, input sessiondto.StartInput) (sessiondto.Snapshot, error) {
	return i.svc.Start(ctx, input)
}

func (i *Interactor) Pause(ctx context.Context) (sessiondto.Snapshot, error) {
	return i.svc.Pause(ctx)
}

func (i *Interactor) Resume(ctx context.Context) (sessiondto.Snapshot, error) {
	return i.svc.Resume(ctx)
}

func (i *Interactor) Stop(ctx context.Context) (sessiondto.Snapshot, error) {
	return i.svc.Stop(ctx)
}

func (i *Interactor) Background(ctx context.Context) (sessiondto.Snapshot, error) {
	return i.svc.Background(ctx)
}

func (i *Interactor) Tick(ctx context.Context, dt time.Duration) (sessiondto.Snapshot, error) {
	return i.svc.Tick(ctx, dt)
}

func (i *Interactor) TapDistraction(ctx context.Context, id string) (sessiondto.Snapshot, error) {
	return i.svc.TapDistraction(ctx, id)
}

func (i *Interactor) MovePointer(ctx context.Context, x, y float64) (sessiondto.Snapshot, error) {
	return i.svc.MovePointer(ctx, x, y)
}

func (i *Interactor) NudgePointer(ctx context.Context, dx, dy float64) (sessiondto.Snapshot, error) {
	return i.svc.NudgePointer(ctx, dx, dy)
}

func (i *Interactor) SetFocused(ctx context.Context, focused bool) (sessiondto.Snapshot, error) {
	return i.svc.SetFocused(ctx, focused)
}

func (i *Interactor) Snapshot(context.Context) sessiondto.Snapshot {
	return i.svc.Snapshot()
}

func (i *Interactor) Subscribe(fn func(sessiondto.Snapshot)) func() {
	return i.svc.Subscribe(fn)
}

func (i *Interactor) History(ctx context.Context, limit int) ([]sessiondto.SessionSummary, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	sessions, err := i.svc.History(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]sessiondto.SessionSummary, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, sessiondto.SessionSummary{
			SessionID:       s.ID,
			Mode:            string(s.Mode),
			EndReason:       string(s.EndReason),
			Score:           s.Score,
			BestStreak:      s.BestStreak,
			TotalFocusTime:  s.TotalFocusTime,
			ResistCount:     s.DistractionResistCount,
			BestCatchStreak: s.BestCatchStreak,
			StartedAt:       s.StartTime,
			EndedAt:         s.EndTime,
		})
	}
	return out, nil
}
