package usecase

import (
	"context"

	"dodge/internal/modules/mindful/domain"
	"dodge/internal/modules/mindful/dto"
	mindfulin "dodge/internal/modules/mindful/port/in"
	"dodge/internal/modules/mindful/service"
)

type Interactor struct {
	svc *service.MindfulService
}

func NewInteractor(svc *service.MindfulService) mindfulin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Authorize(ctx context.Context) error {
	return i.svc.Authorize(ctx)
}

func (i *Interactor) Log(ctx context.Context, input dto.LogInput) (dto.IntervalOutput, error) {
	interval := domain.Interval{SessionID: input.SessionID, Start: input.Start, End: input.End}
	path, err := i.svc.Log(ctx, interval)
	if err != nil {
		return dto.IntervalOutput{}, err
	}
	out := toOutput(interval)
	out.Path = path
	return out, nil
}

func (i *Interactor) List(ctx context.Context, limit int) ([]dto.IntervalOutput, error) {
	entries, err := i.svc.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.IntervalOutput, 0, len(entries))
	for _, e := range entries {
		item := toOutput(e.Interval)
		item.Path = e.Path
		out = append(out, item)
	}
	return out, nil
}

func toOutput(i domain.Interval) dto.IntervalOutput {
	return dto.IntervalOutput{SessionID: i.SessionID, Start: i.Start, End: i.End, Duration: i.Duration()}
}
