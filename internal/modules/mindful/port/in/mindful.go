package in

import (
	"context"

	"dodge/internal/modules/mindful/dto"
)

type Usecase interface {
	Authorize(ctx context.Context) error
	Log(ctx context.Context, input dto.LogInput) (dto.IntervalOutput, error)
	List(ctx context.Context, limit int) ([]dto.IntervalOutput, error)
}
