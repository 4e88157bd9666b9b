package out

import (
	"context"
	"time"

	mindfuldto "dodge/internal/modules/mindful/dto"
	mindfulin "dodge/internal/modules/mindful/port/in"
	sessionout "dodge/internal/modules/session/port/out"
)

type MindfulAdapter struct {
	mindful mindfulin.Usecase
}

func NewMindfulAdapter(mindful mindfulin.Usecase) sessionout.MindfulSink {
	return &MindfulAdapter{mindful: mindful}
}

func (a *MindfulAdapter) LogMindful(ctx context.Context, sessionID string, start, end time.Time) error {
	if err := a.mindful.Authorize(ctx); err != nil {
		return err
	}
	_, err := a.mindful.Log(ctx, mindfuldto.LogInput{SessionID: sessionID, Start: start, End: end})
	return err
}
