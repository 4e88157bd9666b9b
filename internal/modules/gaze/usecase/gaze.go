package usecase

import (
	"context"
	"fmt"
	"time"

	"dodge/internal/modules/gaze/dto"
	gazein "dodge/internal/modules/gaze/port/in"
	gazeout "dodge/internal/modules/gaze/port/out"
	"dodge/internal/modules/gaze/service"
)

type Interactor struct {
	svc *service.GazeService
}

func NewInteractor(svc *service.GazeService) gazein.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) List(ctx context.Context) ([]dto.PluginInfo, error) {
	return i.svc.List(ctx)
}

func (i *Interactor) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	return i.svc.Doctor(ctx)
}

func (i *Interactor) Open(ctx context.Context, pluginName string) (gazein.Stream, error) {
	conn, err := i.svc.Open(ctx, pluginName)
	if err != nil {
		return nil, err
	}
	return &stream{conn: conn}, nil
}

type stream struct {
	conn gazeout.Connection
}

func (s *stream) Sample(ctx context.Context, frame int, elapsed time.Duration) (dto.SampleOutput, error) {
	sample, err := s.conn.Sample(ctx, frame, elapsed)
	if err != nil {
		return dto.SampleOutput{}, err
	}
	if err := sample.Validate(); err != nil {
		return dto.SampleOutput{}, fmt.Errorf("frame %d: %w", frame, err)
	}
	return dto.SampleOutput{
		Frame:      sample.Frame,
		Focused:    sample.OnTarget(),
		X:          sample.X,
		Y:          sample.Y,
		Confidence: sample.Confidence,
	}, nil
}

func (s *stream) Close() error {
	return s.conn.Close()
}
