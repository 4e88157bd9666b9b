package domain

import (
	"fmt"
	"math/rand"
	"time"

	apperrors "dodge/internal/platform/errors"
)

type EventKind string

const (
	EventSpawned     EventKind = "spawned"
	EventResisted    EventKind = "resisted"
	EventTapped      EventKind = "tapped"
	EventCaught      EventKind = "caught"
	EventMissed      EventKind = "missed"
	EventDamaged     EventKind = "damaged"
	EventFocusGained EventKind = "focus_gained"
	EventFocusLost   EventKind = "focus_lost"
	EventEnded       EventKind = "ended"
)

type Event struct {
	Kind          EventKind
	DistractionID string
	Points        int
}

type GameConfig struct {
	ID        string
	Mode      Mode
	Duration  time.Duration
	Arena     Arena
	Rand      *rand.Rand
	StartedAt time.Time
}

// Game is the explicit session state advanced by Step. It holds no clocks,
// timers or goroutines; callers own scheduling.
type Game struct {
	ID        string
	Mode      Mode
	State     State
	EndReason EndReason
	StartedAt time.Time
	Duration  time.Duration
	Elapsed   time.Duration

	Arena        Arena
	Target       Point
	Pointer      Point
	Focused      bool
	Distractions []Distraction
	Board        Scoreboard

	spawner  *Spawner
	strategy FocusStrategy
}

// NewGame creates a running game. Starting is the Idle→Running transition;
// there is no separate idle game value.
func NewGame(cfg GameConfig) (*Game, error) {
	if err := cfg.Mode.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	if cfg.Duration <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive", apperrors.ErrInvalidInput)
	}
	if !cfg.Arena.Valid() {
		return nil, fmt.Errorf("%w: arena %vx%v too small", apperrors.ErrInvalidInput, cfg.Arena.Width, cfg.Arena.Height)
	}
	if cfg.Rand == nil {
		return nil, fmt.Errorf("%w: random source is required", apperrors.ErrInvalidInput)
	}
	strategy, err := StrategyFor(cfg.Mode)
	if err != nil {
		return nil, err
	}
	g := &Game{
		ID:        cfg.ID,
		Mode:      cfg.Mode,
		State:     StateRunning,
		StartedAt: cfg.StartedAt,
		Duration:  cfg.Duration,
		Arena:     cfg.Arena,
		Pointer:   cfg.Arena.Center(),
		Board:     NewScoreboard(),
		spawner:   NewSpawner(cfg.Rand, cfg.Arena, cfg.Mode.Profile()),
		strategy:  strategy,
	}
	strategy.Track(g)
	return g, nil
}

func (g *Game) Remaining() time.Duration {
	if g.Elapsed >= g.Duration {
		return 0
	}
	return g.Duration - g.Elapsed
}

func (g *Game) SkippedSpawns() int {
	return g.spawner.Skipped
}

func (g *Game) Pause() error {
	if g.State != StateRunning {
		return fmt.Errorf("%w: pause from %s", apperrors.ErrInvalidTransition, g.State)
	}
	g.State = StatePaused
	return nil
}

func (g *Game) Resume() error {
	if g.State != StatePaused {
		return fmt.Errorf("%w: resume from %s", apperrors.ErrInvalidTransition, g.State)
	}
	g.State = StateRunning
	return nil
}

func (g *Game) Stop() error {
	if g.State != StateRunning && g.State != StatePaused {
		return fmt.Errorf("%w: stop from %s", apperrors.ErrInvalidTransition, g.State)
	}
	g.end(EndStopped)
	return nil
}

// Background pauses a running game. It is a no-op in any other state.
func (g *Game) Background() bool {
	if g.State != StateRunning {
		return false
	}
	g.State = StatePaused
	return true
}

// Tap selects a distraction. Only meaningful while running.
func (g *Game) Tap(id string) ([]Event, error) {
	if g.State != StateRunning {
		return nil, fmt.Errorf("%w: tap while %s", apperrors.ErrInvalidTransition, g.State)
	}
	events, reason, err := g.strategy.Tap(g, id)
	if err != nil {
		return nil, err
	}
	if reason != EndNone {
		g.end(reason)
		events = append(events, Event{Kind: EventEnded})
	}
	return events, nil
}

// MovePointer places the dragged circle. Catch mode only.
func (g *Game) MovePointer(p Point) error {
	if g.Mode != ModeCatch {
		return apperrors.ErrWrongMode
	}
	if g.State != StateRunning {
		return fmt.Errorf("%w: move while %s", apperrors.ErrInvalidTransition, g.State)
	}
	g.Pointer = g.Arena.Clamp(p)
	return nil
}

func (g *Game) end(reason EndReason) {
	g.State = StateEnded
	g.EndReason = reason
	g.Distractions = nil
}

// Step advances a running game by dt. Paused and ended games ignore ticks.
// The last tick is clamped so Elapsed lands exactly on Duration.
func Step(g *Game, in Input, dt time.Duration) []Event {
	if g.State != StateRunning || dt <= 0 {
		return nil
	}
	dt = min(dt, MaxTickDelta, g.Remaining())
	g.Elapsed += dt

	g.strategy.Track(g)
	focused, events, reason := g.strategy.Resolve(g, in)
	if reason != EndNone {
		g.end(reason)
		return append(events, Event{Kind: EventEnded})
	}
	if focused != g.Focused {
		kind := EventFocusLost
		if focused {
			kind = EventFocusGained
		}
		events = append(events, Event{Kind: kind})
	}
	g.Focused = focused
	g.Board.ApplyFocus(dt, focused)

	res := g.spawner.Update(dt, g.Elapsed, g.Target, g.Distractions)
	g.Distractions = res.Live
	for _, d := range res.Expired {
		events = append(events, g.strategy.Expire(g, d)...)
	}
	if res.Spawned != nil {
		events = append(events, Event{Kind: EventSpawned, DistractionID: res.Spawned.ID})
	}

	if g.Elapsed >= g.Duration {
		g.end(EndTimeUp)
		events = append(events, Event{Kind: EventEnded})
	}
	return events
}
