package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"time"

	"dodge/internal/modules/session/domain"
	"dodge/internal/modules/session/dto"
	sessionout "dodge/internal/modules/session/port/out"
	"dodge/internal/platform/clock"
	apperrors "dodge/internal/platform/errors"
	"dodge/internal/platform/id"
	"dodge/internal/platform/tx"
)

// SessionService owns the single active game. It is not safe for concurrent
// use; every surface drives it from one goroutine.
type SessionService struct {
	clock    clock.Clock
	idGen    id.Generator
	store    sessionout.SessionStore
	progress sessionout.ProgressRecorder
	mindful  sessionout.MindfulSink
	sources  sessionout.FocusSourceFactory
	txm      tx.Manager
	logger   *slog.Logger

	game   *domain.Game
	source sessionout.FocusSource
	alert  string
	result *dto.EndOutput

	subscribers map[int]func(dto.Snapshot)
	nextSub     int
}

type Dependencies struct {
	Clock    clock.Clock
	IDs      id.Generator
	Store    sessionout.SessionStore
	Progress sessionout.ProgressRecorder
	Mindful  sessionout.MindfulSink
	Sources  sessionout.FocusSourceFactory
	Tx       tx.Manager
	Logger   *slog.Logger
}

func NewSessionService(deps Dependencies) *SessionService {
	s := &SessionService{
		clock:       deps.Clock,
		idGen:       deps.IDs,
		store:       deps.Store,
		progress:    deps.Progress,
		mindful:     deps.Mindful,
		sources:     deps.Sources,
		txm:         deps.Tx,
		logger:      deps.Logger,
		subscribers: map[int]func(dto.Snapshot){},
	}
	if s.clock == nil {
		s.clock = clock.SystemClock{}
	}
	if s.idGen == nil {
		s.idGen = id.UUID{}
	}
	if s.txm == nil {
		s.txm = tx.NoopManager{}
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s
}

func (s *SessionService) active() bool {
	return s.game != nil && (s.game.State == domain.StateRunning || s.game.State == domain.StatePaused)
}

func (s *SessionService) Start(ctx context.Context, input dto.StartInput) (dto.Snapshot, error) {
	if s.active() {
		return s.Snapshot(), apperrors.ErrActiveSessionExists
	}
	mode := domain.Mode(input.Mode)
	if mode == "" {
		mode = domain.ModeGaze
	}
	if err := mode.Validate(); err != nil {
		return s.Snapshot(), fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	duration := input.Duration
	if duration == 0 {
		duration = domain.DefaultDuration
	}
	arena := domain.Arena{Width: input.ArenaWidth, Height: input.ArenaHeight, Margin: domain.ArenaMargin}
	if arena.Width == 0 {
		arena.Width = domain.DefaultArenaWidth
	}
	if arena.Height == 0 {
		arena.Height = domain.DefaultArenaHeight
	}
	seed := input.Seed
	if seed == 0 {
		seed = s.clock.Now().UnixNano()
	}

	game, err := domain.NewGame(domain.GameConfig{
		ID:        s.idGen.New(),
		Mode:      mode,
		Duration:  duration,
		Arena:     arena,
		Rand:      rand.New(rand.NewSource(seed)),
		StartedAt: s.clock.Now(),
	})
	if err != nil {
		return s.Snapshot(), err
	}

	var source sessionout.FocusSource
	if mode == domain.ModeGaze && s.sources != nil {
		spec := input.FocusSource
		if spec == "" {
			spec = "manual"
		}
		source, err = s.sources.Open(ctx, spec)
		if err != nil {
			return s.Snapshot(), fmt.Errorf("open focus source %q: %w", spec, err)
		}
	}

	s.closeSource()
	s.game = game
	s.source = source
	s.alert = ""
	s.result = nil
	s.logger.Info("session started", "session_id", game.ID, "mode", string(mode), "duration", duration, "seed", seed)
	return s.publish(), nil
}

func (s *SessionService) Pause(context.Context) (dto.Snapshot, error) {
	if s.game == nil {
		return s.Snapshot(), apperrors.ErrNoActiveSession
	}
	if err := s.game.Pause(); err != nil {
		return s.Snapshot(), err
	}
	return s.publish(), nil
}

func (s *SessionService) Resume(context.Context) (dto.Snapshot, error) {
	if s.game == nil {
		return s.Snapshot(), apperrors.ErrNoActiveSession
	}
	if err := s.game.Resume(); err != nil {
		return s.Snapshot(), err
	}
	return s.publish(), nil
}

func (s *SessionService) Stop(ctx context.Context) (dto.Snapshot, error) {
	if s.game == nil {
		return s.Snapshot(), apperrors.ErrNoActiveSession
	}
	if err := s.game.Stop(); err != nil {
		return s.Snapshot(), err
	}
	err := s.finish(ctx)
	return s.publish(), err
}

// Background pauses a running session when the app leaves the foreground.
// Coming back never resumes on its own.
func (s *SessionService) Background(context.Context) (dto.Snapshot, error) {
	if s.game == nil || !s.game.Background() {
		return s.Snapshot(), nil
	}
	s.logger.Debug("session backgrounded", "session_id", s.game.ID)
	return s.publish(), nil
}

func (s *SessionService) Tick(ctx context.Context, dt time.Duration) (dto.Snapshot, error) {
	if s.game == nil || s.game.State != domain.StateRunning {
		return s.Snapshot(), nil
	}
	focused := false
	if s.game.Mode == domain.ModeGaze && s.source != nil {
		f, err := s.source.Sample(ctx, s.game.Elapsed)
		if err != nil {
			s.logger.Debug("focus sample failed", "elapsed", s.game.Elapsed, "error", err)
		} else {
			focused = f
		}
	}
	for _, ev := range domain.Step(s.game, domain.Input{Focused: focused}, dt) {
		s.logger.Debug("session event", "kind", string(ev.Kind), "distraction_id", ev.DistractionID, "points", ev.Points)
	}
	var err error
	if s.game.State == domain.StateEnded {
		err = s.finish(ctx)
	}
	return s.publish(), err
}

func (s *SessionService) TapDistraction(ctx context.Context, distractionID string) (dto.Snapshot, error) {
	if s.game == nil {
		return s.Snapshot(), apperrors.ErrNoActiveSession
	}
	if _, err := s.game.Tap(distractionID); err != nil {
		return s.Snapshot(), err
	}
	var err error
	if s.game.State == domain.StateEnded {
		err = s.finish(ctx)
	}
	return s.publish(), err
}

func (s *SessionService) MovePointer(_ context.Context, x, y float64) (dto.Snapshot, error) {
	if s.game == nil {
		return s.Snapshot(), apperrors.ErrNoActiveSession
	}
	if err := s.game.MovePointer(domain.Point{X: x, Y: y}); err != nil {
		return s.Snapshot(), err
	}
	return s.publish(), nil
}

func (s *SessionService) NudgePointer(ctx context.Context, dx, dy float64) (dto.Snapshot, error) {
	if s.game == nil {
		return s.Snapshot(), apperrors.ErrNoActiveSession
	}
	p := s.game.Pointer
	return s.MovePointer(ctx, p.X+dx, p.Y+dy)
}

// SetFocused drives a manual focus source. Other sources reject it.
func (s *SessionService) SetFocused(_ context.Context, focused bool) (dto.Snapshot, error) {
	if s.game == nil || !s.active() {
		return s.Snapshot(), apperrors.ErrNoActiveSession
	}
	if s.game.Mode != domain.ModeGaze {
		return s.Snapshot(), apperrors.ErrWrongMode
	}
	setter, ok := s.source.(sessionout.FocusSetter)
	if !ok {
		return s.Snapshot(), fmt.Errorf("%w: focus source is not manual", apperrors.ErrInvalidInput)
	}
	setter.SetFocused(focused)
	return s.Snapshot(), nil
}

func (s *SessionService) History(ctx context.Context, limit int) ([]domain.Session, error) {
	if s.store == nil {
		return nil, nil
	}
	return s.store.List(ctx, limit)
}

func (s *SessionService) Subscribe(fn func(dto.Snapshot)) func() {
	key := s.nextSub
	s.nextSub++
	s.subscribers[key] = fn
	return func() { delete(s.subscribers, key) }
}

// finish persists the ended game. Session row and progress update commit
// together; the mindful sink runs afterwards and only raises an alert.
func (s *SessionService) finish(ctx context.Context) error {
	game := s.game
	session := game.Summary(s.clock.Now())
	out := &dto.EndOutput{
		SessionID:       session.ID,
		Mode:            string(session.Mode),
		EndReason:       string(session.EndReason),
		Score:           session.Score,
		BestStreak:      session.BestStreak,
		TotalFocusTime:  session.TotalFocusTime,
		ResistCount:     session.DistractionResistCount,
		BestCatchStreak: session.BestCatchStreak,
		HeartsLeft:      session.HeartsLeft,
		StartedAt:       session.StartTime,
		EndedAt:         session.EndTime,
	}
	s.result = out
	s.closeSource()

	newHigh := false
	err := s.txm.Within(ctx, func(ctx context.Context) error {
		if s.store != nil {
			if err := s.store.Save(ctx, session); err != nil {
				return err
			}
		}
		if s.progress != nil {
			high, err := s.progress.Record(ctx, session)
			if err != nil {
				return err
			}
			newHigh = high
		}
		return nil
	})
	if err != nil {
		s.logger.Error("persist session failed", "session_id", session.ID, "error", err)
		return fmt.Errorf("persist session %s: %w", session.ID, err)
	}
	out.Persisted = true
	out.NewHighScore = newHigh
	s.logger.Info("session ended", "session_id", session.ID, "reason", out.EndReason, "score", out.Score, "best_streak", out.BestStreak)

	if s.mindful != nil {
		err := s.mindful.LogMindful(ctx, session.ID, session.StartTime, session.EndTime)
		switch {
		case err == nil:
		case errors.Is(err, apperrors.ErrInvalidInput):
			s.logger.Debug("mindful interval skipped", "session_id", session.ID, "error", err)
		default:
			s.alert = mindfulAlert(err)
			out.Alert = s.alert
			s.logger.Warn("mindful session not logged", "session_id", session.ID, "error", err)
		}
	}
	return nil
}

func mindfulAlert(err error) string {
	if errors.Is(err, apperrors.ErrNotAuthorized) {
		return "Mindful minutes are not enabled; this session was not logged."
	}
	return "Could not log mindful minutes for this session."
}

func (s *SessionService) closeSource() {
	if s.source == nil {
		return
	}
	if err := s.source.Close(); err != nil {
		s.logger.Debug("close focus source", "error", err)
	}
	s.source = nil
}

func (s *SessionService) publish() dto.Snapshot {
	snap := s.Snapshot()
	for _, fn := range s.subscribers {
		fn(snap)
	}
	return snap
}

func (s *SessionService) Snapshot() dto.Snapshot {
	g := s.game
	if g == nil {
		return dto.Snapshot{State: domain.StateIdle.String(), Distractions: []dto.DistractionView{}}
	}
	snap := dto.Snapshot{
		SessionID:       g.ID,
		Mode:            string(g.Mode),
		State:           g.State.String(),
		Score:           g.Board.Score,
		Focused:         g.Focused,
		FocusStreak:     g.Board.FocusStreak,
		BestStreak:      g.Board.BestStreak,
		TotalFocusTime:  g.Board.TotalFocusTime,
		Elapsed:         g.Elapsed,
		Remaining:       g.Remaining(),
		ResistCount:     g.Board.ResistCount,
		CatchStreak:     g.Board.CatchStreak,
		BestCatchStreak: g.Board.BestCatchStreak,
		Multiplier:      g.Board.Multiplier,
		Hearts:          g.Board.Hearts,
		ArenaWidth:      g.Arena.Width,
		ArenaHeight:     g.Arena.Height,
		Target:          dto.PointView{X: g.Target.X, Y: g.Target.Y},
		Pointer:         dto.PointView{X: g.Pointer.X, Y: g.Pointer.Y},
		Distractions:    make([]dto.DistractionView, 0, len(g.Distractions)),
		EndReason:       string(g.EndReason),
		Alert:           s.alert,
		Result:          s.result,
	}
	for i, d := range g.Distractions {
		snap.Distractions = append(snap.Distractions, dto.DistractionView{
			ID:        d.ID,
			Slot:      i + 1,
			Kind:      string(d.Kind),
			Title:     d.Title,
			Message:   d.Message,
			Icon:      d.Icon,
			Position:  dto.PointView{X: d.Position.X, Y: d.Position.Y},
			Remaining: d.Remaining(),
		})
	}
	return snap
}
