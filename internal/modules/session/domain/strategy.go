package domain

import (
	"fmt"
	"math"

	apperrors "dodge/internal/platform/errors"
)

// Input is the per-tick signal delivered by the focus source. Pointer moves
// arrive separately through Game.MovePointer.
type Input struct {
	Focused bool
}

// FocusStrategy is the mode-specific half of the target tracker. The game
// step calls it once per tick and treats its focus verdict as the only input
// to the scoring engine.
type FocusStrategy interface {
	Mode() Mode
	Track(g *Game)
	Resolve(g *Game, in Input) (focused bool, events []Event, reason EndReason)
	Expire(g *Game, d Distraction) []Event
	Tap(g *Game, id string) ([]Event, EndReason, error)
}

func StrategyFor(mode Mode) (FocusStrategy, error) {
	switch mode {
	case ModeGaze:
		return GazeFocusStrategy{}, nil
	case ModeCatch:
		return DragCatchStrategy{}, nil
	default:
		return nil, fmt.Errorf("%w: mode %q", apperrors.ErrInvalidInput, mode)
	}
}

// GazeFocusStrategy trusts an external gaze estimate. Ignoring a notification
// until it fades counts as a resist; selecting one ends the session.
type GazeFocusStrategy struct{}

func (GazeFocusStrategy) Mode() Mode { return ModeGaze }

func (GazeFocusStrategy) Track(g *Game) {
	t := g.Elapsed.Seconds()
	c := g.Arena.Center()
	g.Target = g.Arena.Clamp(Point{
		X: c.X + TargetAmplitudeX*g.Arena.Width*math.Sin(2*math.Pi*TargetFreqX*t),
		Y: c.Y + TargetAmplitudeY*g.Arena.Height*math.Sin(2*math.Pi*TargetFreqY*t),
	})
}

func (GazeFocusStrategy) Resolve(_ *Game, in Input) (bool, []Event, EndReason) {
	return in.Focused, nil, EndNone
}

func (GazeFocusStrategy) Expire(g *Game, d Distraction) []Event {
	points := g.Board.Resist()
	return []Event{{Kind: EventResisted, DistractionID: d.ID, Points: points}}
}

func (GazeFocusStrategy) Tap(g *Game, id string) ([]Event, EndReason, error) {
	for _, d := range g.Distractions {
		if d.ID == id {
			return []Event{{Kind: EventTapped, DistractionID: id}}, EndDistractionTapped, nil
		}
	}
	return nil, EndNone, fmt.Errorf("%w: %s", apperrors.ErrUnknownDistraction, id)
}

// DragCatchStrategy derives focus from how close the dragged circle is to the
// nearest uncaught hologram. Overlaps resolve as catches or, for hazards, as
// damage against the heart pool.
type DragCatchStrategy struct{}

func (DragCatchStrategy) Mode() Mode { return ModeCatch }

func (DragCatchStrategy) Track(g *Game) {
	g.Target = g.Pointer
}

func (DragCatchStrategy) Resolve(g *Game, _ Input) (bool, []Event, EndReason) {
	var events []Event
	nearest := math.Inf(1)
	kept := g.Distractions[:0]
	reason := EndNone
	for _, d := range g.Distractions {
		dist := d.Position.Dist(g.Pointer)
		switch d.Kind {
		case KindHologram:
			nearest = math.Min(nearest, dist)
			if dist <= CatchRadius {
				events = append(events, Event{Kind: EventCaught, DistractionID: d.ID, Points: g.Board.Catch()})
				continue
			}
		case KindHazard:
			if dist <= HazardRadius && reason == EndNone {
				events = append(events, Event{Kind: EventDamaged, DistractionID: d.ID})
				if g.Board.Damage() {
					reason = EndHeartsDepleted
				}
				continue
			}
		}
		kept = append(kept, d)
	}
	g.Distractions = kept
	if math.IsInf(nearest, 1) {
		// nothing to chase; the previous verdict stands
		return g.Focused, events, reason
	}
	// Anything inside CatchRadius is caught this tick, so focus is measured
	// against the wider approach radius.
	return nearest <= FocusRadius, events, reason
}

func (DragCatchStrategy) Expire(g *Game, d Distraction) []Event {
	if d.Kind != KindHologram {
		return nil
	}
	g.Board.Miss()
	return []Event{{Kind: EventMissed, DistractionID: d.ID}}
}

func (DragCatchStrategy) Tap(*Game, string) ([]Event, EndReason, error) {
	return nil, EndNone, apperrors.ErrWrongMode
}
