package out

import (
	"context"

	progressdto "dodge/internal/modules/progress/dto"
	progressin "dodge/internal/modules/progress/port/in"
	"dodge/internal/modules/session/domain"
	sessionout "dodge/internal/modules/session/port/out"
)

type ProgressAdapter struct {
	progress progressin.Usecase
}

func NewProgressAdapter(progress progressin.Usecase) sessionout.ProgressRecorder {
	return &ProgressAdapter{progress: progress}
}

func (a *ProgressAdapter) Record(ctx context.Context, session domain.Session) (bool, error) {
	out, err := a.progress.RecordSession(ctx, progressdto.RecordSessionInput{
		Score:           session.Score,
		BestStreak:      session.BestStreak,
		BestCatchStreak: session.BestCatchStreak,
		TotalFocusTime:  session.TotalFocusTime,
	})
	if err != nil {
		return false, err
	}
	return out.NewHighScore, nil
}
