package out

import (
	"context"

	"dodge/internal/modules/progress/domain"
)

// ProgressStore persists the singleton aggregate. Load returns the zero value
// when nothing was saved yet.
type ProgressStore interface {
	Load(ctx context.Context) (domain.Progress, error)
	Save(ctx context.Context, progress domain.Progress) error
}
