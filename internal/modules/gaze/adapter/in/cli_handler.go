package in

import (
	"context"

	"dodge/internal/modules/gaze/dto"
	gazein "dodge/internal/modules/gaze/port/in"
)

type CLIHandler struct {
	usecase gazein.Usecase
}

func NewCLIHandler(usecase gazein.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) List(ctx context.Context) ([]dto.PluginInfo, error) {
	return h.usecase.List(ctx)
}

func (h CLIHandler) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	return h.usecase.Doctor(ctx)
}
