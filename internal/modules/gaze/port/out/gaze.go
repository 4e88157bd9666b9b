package out

import (
	"context"
	"time"

	"dodge/internal/modules/gaze/domain"
)

type ManifestStore interface {
	Load(ctx context.Context) ([]domain.Manifest, error)
}

type Host interface {
	CheckLifecycle(ctx context.Context, manifest domain.Manifest) error
	Connect(ctx context.Context, manifest domain.Manifest) (Connection, error)
}

// Connection keeps a provider process alive between samples.
type Connection interface {
	Metadata(ctx context.Context) (domain.Metadata, error)
	Sample(ctx context.Context, frame int, elapsed time.Duration) (domain.Sample, error)
	Close() error
}
