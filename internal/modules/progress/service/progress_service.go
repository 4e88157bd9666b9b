package service

import (
	"context"
	"fmt"

	"dodge/internal/modules/progress/domain"
	progressout "dodge/internal/modules/progress/port/out"
	"dodge/internal/platform/clock"
	apperrors "dodge/internal/platform/errors"
	"dodge/internal/platform/tx"
)

type ProgressService struct {
	clock clock.Clock
	store progressout.ProgressStore
	txm   tx.Manager
}

func NewProgressService(clock clock.Clock, store progressout.ProgressStore, txm tx.Manager) *ProgressService {
	if txm == nil {
		txm = tx.NoopManager{}
	}
	return &ProgressService{clock: clock, store: store, txm: txm}
}

func (s *ProgressService) Get(ctx context.Context) (domain.Progress, error) {
	return s.store.Load(ctx)
}

func (s *ProgressService) Record(ctx context.Context, result domain.SessionResult) (domain.Progress, bool, error) {
	if result.Score < 0 || result.BestStreak < 0 || result.BestCatchStreak < 0 {
		return domain.Progress{}, false, fmt.Errorf("%w: negative session result", apperrors.ErrInvalidInput)
	}
	var (
		progress domain.Progress
		newHigh  bool
	)
	err := s.update(ctx, func(p *domain.Progress) {
		newHigh = p.Apply(result, s.clock.Now())
		progress = *p
	})
	return progress, newHigh, err
}

func (s *ProgressService) CompleteOnboarding(ctx context.Context) (domain.Progress, error) {
	var progress domain.Progress
	err := s.update(ctx, func(p *domain.Progress) {
		p.HasCompletedOnboarding = true
		p.UpdatedAt = s.clock.Now()
		progress = *p
	})
	return progress, err
}

func (s *ProgressService) Reset(ctx context.Context) (domain.Progress, error) {
	var progress domain.Progress
	err := s.update(ctx, func(p *domain.Progress) {
		p.Reset(s.clock.Now())
		progress = *p
	})
	return progress, err
}

func (s *ProgressService) update(ctx context.Context, mutate func(*domain.Progress)) error {
	return s.txm.Within(ctx, func(ctx context.Context) error {
		p, err := s.store.Load(ctx)
		if err != nil {
			return err
		}
		mutate(&p)
		return s.store.Save(ctx, p)
	})
}
