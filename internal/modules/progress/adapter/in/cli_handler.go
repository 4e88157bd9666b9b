package in

import (
	"context"

	"dodge/internal/modules/progress/dto"
	progressin "dodge/internal/modules/progress/port/in"
)

type CLIHandler struct {
	usecase progressin.Usecase
}

func NewCLIHandler(usecase progressin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Stats(ctx context.Context) (dto.ProgressOutput, error) {
	return h.usecase.Get(ctx)
}

func (h CLIHandler) Onboard(ctx context.Context) (dto.ProgressOutput, error) {
	return h.usecase.CompleteOnboarding(ctx)
}

func (h CLIHandler) Reset(ctx context.Context) (dto.ProgressOutput, error) {
	return h.usecase.Reset(ctx)
}
