package service

import (
	"context"

	"dodge/internal/modules/mindful/domain"
	mindfulout "dodge/internal/modules/mindful/port/out"
	apperrors "dodge/internal/platform/errors"
)

type MindfulService struct {
	enabled bool
	journal mindfulout.Journal
}

func NewMindfulService(enabled bool, journal mindfulout.Journal) *MindfulService {
	return &MindfulService{enabled: enabled, journal: journal}
}

func (s *MindfulService) Authorize(context.Context) error {
	if !s.enabled || s.journal == nil {
		return apperrors.ErrNotAuthorized
	}
	return nil
}

func (s *MindfulService) Log(ctx context.Context, interval domain.Interval) (string, error) {
	if err := s.Authorize(ctx); err != nil {
		return "", err
	}
	if err := interval.Validate(); err != nil {
		return "", err
	}
	return s.journal.Append(ctx, interval)
}

func (s *MindfulService) List(ctx context.Context, limit int) ([]mindfulout.Entry, error) {
	if s.journal == nil {
		return nil, nil
	}
	return s.journal.List(ctx, limit)
}
