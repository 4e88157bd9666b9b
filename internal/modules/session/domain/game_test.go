package domain

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	apperrors "dodge/internal/platform/errors"
)

func newTestGame(t *testing.T, mode Mode, duration time.Duration) *Game {
	t.Helper()
	g, err := NewGame(GameConfig{
		ID:        "sess-1",
		Mode:      mode,
		Duration:  duration,
		Arena:     defaultArena(),
		Rand:      rand.New(rand.NewSource(42)),
		StartedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	return g
}

func TestContinuousFocusRunsToTimeUp(t *testing.T) {
	t.Parallel()
	g := newTestGame(t, ModeGaze, 60*time.Second)
	for i := 0; g.State == StateRunning; i++ {
		if i > 10*TickRate*60 {
			t.Fatalf("session never ended")
		}
		Step(g, Input{Focused: true}, TickInterval)
	}
	if g.EndReason != EndTimeUp {
		t.Fatalf("expected time_up, got %s", g.EndReason)
	}
	if g.Elapsed != 60*time.Second {
		t.Fatalf("expected elapsed to land on duration, got %s", g.Elapsed)
	}
	if diff := 60*time.Second - g.Board.BestStreak; diff < 0 || diff > time.Millisecond {
		t.Fatalf("expected best streak ≈ 60s, got %s", g.Board.BestStreak)
	}
	if diff := 60*time.Second - g.Board.TotalFocusTime; diff < 0 || diff > time.Millisecond {
		t.Fatalf("expected total focus ≈ 60s, got %s", g.Board.TotalFocusTime)
	}
	if len(g.Distractions) != 0 {
		t.Fatalf("distractions must be cleared at session end")
	}
	if g.Board.ResistCount == 0 {
		t.Fatalf("expected ignored notifications to count as resisted")
	}
}

func TestScoreMonotonicWhileRunning(t *testing.T) {
	t.Parallel()
	for _, mode := range []Mode{ModeGaze, ModeCatch} {
		g := newTestGame(t, mode, 45*time.Second)
		rng := rand.New(rand.NewSource(5))
		last := 0
		for g.State == StateRunning {
			if mode == ModeCatch {
				_ = g.MovePointer(Point{X: g.Pointer.X + (rng.Float64()-0.5)*6, Y: g.Pointer.Y + (rng.Float64()-0.5)*3})
			}
			Step(g, Input{Focused: rng.Intn(4) > 0}, TickInterval)
			if g.Board.Score < last {
				t.Fatalf("%s: score decreased %d -> %d", mode, last, g.Board.Score)
			}
			last = g.Board.Score
		}
	}
}

func TestGazeTapEndsSessionImmediately(t *testing.T) {
	t.Parallel()
	g := newTestGame(t, ModeGaze, 60*time.Second)
	Step(g, Input{Focused: true}, TickInterval)
	if len(g.Distractions) == 0 {
		t.Fatalf("expected an initial distraction to spawn")
	}
	events, err := g.Tap(g.Distractions[0].ID)
	if err != nil {
		t.Fatalf("tap: %v", err)
	}
	if g.State != StateEnded || g.EndReason != EndDistractionTapped {
		t.Fatalf("expected ended/distraction_tapped, got %s/%s", g.State, g.EndReason)
	}
	if g.Remaining() <= 0 {
		t.Fatalf("tap should end the session with time left")
	}
	if events[len(events)-1].Kind != EventEnded {
		t.Fatalf("expected ended event, got %+v", events)
	}
	if _, err := g.Tap("d1"); !errors.Is(err, apperrors.ErrInvalidTransition) {
		t.Fatalf("tap after end should be rejected, got %v", err)
	}
}

func TestGazeTapUnknownDistraction(t *testing.T) {
	t.Parallel()
	g := newTestGame(t, ModeGaze, time.Minute)
	if _, err := g.Tap("missing"); !errors.Is(err, apperrors.ErrUnknownDistraction) {
		t.Fatalf("expected unknown distraction, got %v", err)
	}
	if g.State != StateRunning {
		t.Fatalf("unknown tap must not end the session")
	}
}

func TestThreeHazardCollisionsDepleteHearts(t *testing.T) {
	t.Parallel()
	g := newTestGame(t, ModeCatch, 5*time.Minute)
	for hit := 1; hit <= MaxHearts; hit++ {
		if g.State != StateRunning {
			t.Fatalf("session ended early before hit %d: %s", hit, g.EndReason)
		}
		g.Distractions = append(g.Distractions, Distraction{
			ID: "hz", Kind: KindHazard, Position: g.Pointer, Lifespan: time.Minute,
		})
		events := Step(g, Input{}, TickInterval)
		damaged := false
		for _, e := range events {
			if e.Kind == EventDamaged {
				damaged = true
			}
		}
		if !damaged {
			t.Fatalf("hit %d: expected damage event, got %+v", hit, events)
		}
		if g.Board.Hearts != MaxHearts-hit {
			t.Fatalf("hit %d: hearts %d", hit, g.Board.Hearts)
		}
	}
	if g.State != StateEnded || g.EndReason != EndHeartsDepleted {
		t.Fatalf("expected hearts_depleted, got %s/%s", g.State, g.EndReason)
	}
}

func TestCatchingHologramScoresAndFocuses(t *testing.T) {
	t.Parallel()
	g := newTestGame(t, ModeCatch, time.Minute)
	g.Distractions = []Distraction{{ID: "h", Kind: KindHologram, Position: Point{X: g.Pointer.X + 1, Y: g.Pointer.Y}, Lifespan: time.Minute}}
	events := Step(g, Input{}, TickInterval)
	caught := false
	for _, e := range events {
		if e.Kind == EventCaught && e.DistractionID == "h" {
			caught = true
		}
	}
	if !caught || g.Board.Catches != 1 || g.Board.Score < CatchPoints {
		t.Fatalf("expected catch, events=%+v board=%+v", events, g.Board)
	}
	if !g.Focused {
		t.Fatalf("overlapping a hologram should count as focused")
	}
	for _, d := range g.Distractions {
		if d.ID == "h" {
			t.Fatalf("caught hologram should be removed")
		}
	}
}

func TestCatchFocusCoversApproachRadius(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name    string
		offset  float64
		focused bool
	}{
		{"inside approach radius", (CatchRadius + FocusRadius) / 2, true},
		{"at approach radius", FocusRadius, true},
		{"beyond approach radius", FocusRadius + 1, false},
	}
	for _, tc := range cases {
		g := newTestGame(t, ModeCatch, time.Minute)
		g.Distractions = []Distraction{{ID: "h", Kind: KindHologram, Position: Point{X: g.Pointer.X + tc.offset, Y: g.Pointer.Y}, Lifespan: time.Minute}}
		events := Step(g, Input{}, TickInterval)
		if g.Focused != tc.focused {
			t.Fatalf("%s: focused=%v want %v", tc.name, g.Focused, tc.focused)
		}
		for _, e := range events {
			if e.Kind == EventCaught {
				t.Fatalf("%s: hologram %v away must not be caught", tc.name, tc.offset)
			}
		}
		if len(g.Distractions) != 1 {
			t.Fatalf("%s: hologram should stay live, got %+v", tc.name, g.Distractions)
		}
	}
}

func TestExpiredHologramBreaksCatchStreak(t *testing.T) {
	t.Parallel()
	g := newTestGame(t, ModeCatch, time.Minute)
	g.Board.Catch()
	g.Board.Catch()
	g.Distractions = []Distraction{{ID: "far", Kind: KindHologram, Position: Point{X: 5, Y: 5}, Lifespan: TickInterval}}
	Step(g, Input{}, TickInterval)
	if g.Board.CatchStreak != 0 || g.Board.Misses != 1 {
		t.Fatalf("expected miss to reset streak, got %+v", g.Board)
	}
}

func TestPauseFreezesTimerAndSpawner(t *testing.T) {
	t.Parallel()
	g := newTestGame(t, ModeGaze, time.Minute)
	Step(g, Input{Focused: true}, time.Second/10)
	if err := g.Pause(); err != nil {
		t.Fatalf("pause: %v", err)
	}
	elapsed, spawned := g.Elapsed, len(g.Distractions)
	for i := 0; i < 600; i++ {
		if ev := Step(g, Input{Focused: true}, TickInterval); ev != nil {
			t.Fatalf("paused step produced events: %+v", ev)
		}
	}
	if g.Elapsed != elapsed || len(g.Distractions) != spawned {
		t.Fatalf("pause did not freeze the game")
	}
	if err := g.Pause(); !errors.Is(err, apperrors.ErrInvalidTransition) {
		t.Fatalf("double pause should fail, got %v", err)
	}
	if err := g.Resume(); err != nil {
		t.Fatalf("resume: %v", err)
	}
	Step(g, Input{Focused: true}, TickInterval)
	if g.Elapsed <= elapsed {
		t.Fatalf("resumed game should advance")
	}
}

func TestLifecycleTransitions(t *testing.T) {
	t.Parallel()
	g := newTestGame(t, ModeGaze, time.Minute)
	if err := g.Resume(); !errors.Is(err, apperrors.ErrInvalidTransition) {
		t.Fatalf("resume while running should fail, got %v", err)
	}
	if !g.Background() || g.State != StatePaused {
		t.Fatalf("background should pause a running game")
	}
	if g.Background() {
		t.Fatalf("background while paused is a no-op")
	}
	if err := g.Stop(); err != nil {
		t.Fatalf("stop from paused: %v", err)
	}
	if g.EndReason != EndStopped {
		t.Fatalf("expected stopped, got %s", g.EndReason)
	}
	if err := g.Stop(); !errors.Is(err, apperrors.ErrInvalidTransition) {
		t.Fatalf("stop after end should fail, got %v", err)
	}
	if err := g.MovePointer(Point{}); !errors.Is(err, apperrors.ErrWrongMode) {
		t.Fatalf("move in gaze mode should fail, got %v", err)
	}
}

func TestCatchModeRejectsTaps(t *testing.T) {
	t.Parallel()
	g := newTestGame(t, ModeCatch, time.Minute)
	if _, err := g.Tap("d1"); !errors.Is(err, apperrors.ErrWrongMode) {
		t.Fatalf("expected wrong mode, got %v", err)
	}
	if err := g.MovePointer(Point{X: -50, Y: 500}); err != nil {
		t.Fatalf("move: %v", err)
	}
	if g.Pointer != (Point{X: 0, Y: g.Arena.Height}) {
		t.Fatalf("pointer should clamp to arena, got %+v", g.Pointer)
	}
}

func TestNewGameValidates(t *testing.T) {
	t.Parallel()
	base := GameConfig{Mode: ModeGaze, Duration: time.Minute, Arena: defaultArena(), Rand: rand.New(rand.NewSource(1))}
	bad := []GameConfig{base, base, base, base}
	bad[0].Mode = "vr"
	bad[1].Duration = 0
	bad[2].Arena = Arena{Width: 5, Height: 5, Margin: 4}
	bad[3].Rand = nil
	for i, cfg := range bad {
		if _, err := NewGame(cfg); !errors.Is(err, apperrors.ErrInvalidInput) {
			t.Fatalf("case %d: expected invalid input, got %v", i, err)
		}
	}
}

func TestSummaryFreezesBoard(t *testing.T) {
	t.Parallel()
	g := newTestGame(t, ModeGaze, 2*time.Second)
	for g.State == StateRunning {
		Step(g, Input{Focused: true}, TickInterval)
	}
	end := g.StartedAt.Add(g.Elapsed)
	s := g.Summary(end)
	if s.ID != "sess-1" || s.EndReason != EndTimeUp || s.Score != g.Board.Score || !s.EndTime.Equal(end) {
		t.Fatalf("unexpected summary %+v", s)
	}
}
