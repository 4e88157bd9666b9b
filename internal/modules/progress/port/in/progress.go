package in

import (
	"context"

	"dodge/internal/modules/progress/dto"
)

type Usecase interface {
	Get(ctx context.Context) (dto.ProgressOutput, error)
	RecordSession(ctx context.Context, input dto.RecordSessionInput) (dto.RecordSessionOutput, error)
	CompleteOnboarding(ctx context.Context) (dto.ProgressOutput, error)
	Reset(ctx context.Context) (dto.ProgressOutput, error)
}
