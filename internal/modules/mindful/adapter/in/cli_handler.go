package in

import (
	"context"

	"dodge/internal/modules/mindful/dto"
	mindfulin "dodge/internal/modules/mindful/port/in"
)

type CLIHandler struct {
	usecase mindfulin.Usecase
}

func NewCLIHandler(usecase mindfulin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) List(ctx context.Context, limit int) ([]dto.IntervalOutput, error) {
	return h.usecase.List(ctx, limit)
}
