package in

import (
	"context"
	"time"

	"dodge/internal/modules/gaze/dto"
)

type Usecase interface {
	List(ctx context.Context) ([]dto.PluginInfo, error)
	Doctor(ctx context.Context) ([]dto.DoctorResult, error)
	Open(ctx context.Context, pluginName string) (Stream, error)
}

// Stream is an open connection to a gaze provider. elapsed is session time,
// frame a sequence number. Focused in a returned sample already accounts for
// the provider's confidence.
type Stream interface {
	Sample(ctx context.Context, frame int, elapsed time.Duration) (dto.SampleOutput, error)
	Close() error
}
