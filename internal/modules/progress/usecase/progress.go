package usecase

import (
	"context"

	"dodge/internal/modules/progress/domain"
	"dodge/internal/modules/progress/dto"
	progressin "dodge/internal/modules/progress/port/in"
	"dodge/internal/modules/progress/service"
)

type Interactor struct {
	svc *service.ProgressService
}

func NewInteractor(svc *service.ProgressService) progressin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Get(ctx context.Context) (dto.ProgressOutput, error) {
	p, err := i.svc.Get(ctx)
	if err != nil {
		return dto.ProgressOutput{}, err
	}
	return toOutput(p), nil
}

func (i *Interactor) RecordSession(ctx context.Context, input dto.RecordSessionInput) (dto.RecordSessionOutput, error) {
	p, newHigh, err := i.svc.Record(ctx, domain.SessionResult{
		Score:           input.Score,
		BestStreak:      input.BestStreak,
		BestCatchStreak: input.BestCatchStreak,
		TotalFocusTime:  input.TotalFocusTime,
	})
	if err != nil {
		return dto.RecordSessionOutput{}, err
	}
	return dto.RecordSessionOutput{Progress: toOutput(p), NewHighScore: newHigh}, nil
}

func (i *Interactor) CompleteOnboarding(ctx context.Context) (dto.ProgressOutput, error) {
	p, err := i.svc.CompleteOnboarding(ctx)
	if err != nil {
		return dto.ProgressOutput{}, err
	}
	return toOutput(p), nil
}

func (i *Interactor) Reset(ctx context.Context) (dto.ProgressOutput, error) {
	p, err := i.svc.Reset(ctx)
	if err != nil {
		return dto.ProgressOutput{}, err
	}
	return toOutput(p), nil
}

func toOutput(p domain.Progress) dto.ProgressOutput {
	return dto.ProgressOutput{
		HasCompletedOnboarding: p.HasCompletedOnboarding,
		HighScore:              p.HighScore,
		LongestStreak:          p.LongestStreak,
		LongestCatchStreak:     p.LongestCatchStreak,
		TotalSessions:          p.TotalSessions,
		TotalFocusTime:         p.TotalFocusTime,
		UpdatedAt:              p.UpdatedAt,
	}
}
