package domain

import "time"

// Session
const (
	DefaultDuration = 60 * time.Second
	TickRate        = 60
	TickInterval    = time.Second / TickRate

	// MaxTickDelta caps a single tick so a stalled frame cannot skip a session.
	MaxTickDelta = 250 * time.Millisecond
)

// Scoring
const (
	BasePointsPerSecond = 10.0
	ResistBonus         = 25
	CatchPoints         = 50
	MaxMultiplier       = 5
	CatchesPerLevel     = 3
	MaxHearts           = 3
)

// Geometry (logical arena units)
const (
	DefaultArenaWidth  = 100.0
	DefaultArenaHeight = 40.0
	ArenaMargin        = 4.0

	MinSeparation    = 12.0
	MaxSpawnAttempts = 10
	MaxConcurrent    = 4

	CatchRadius  = 4.0
	FocusRadius  = 12.0
	HazardRadius = 3.0

	PointerStep = 2.0
)

// Difficulty
const (
	RampDuration   = 60 * time.Second
	HazardMinLevel = 0.25
	HazardChance   = 0.3
)

// Target drift for gaze mode: a slow Lissajous path around the arena center.
const (
	TargetAmplitudeX = 0.30
	TargetAmplitudeY = 0.25
	TargetFreqX      = 0.11
	TargetFreqY      = 0.17
)

// SpawnProfile holds the per-mode spawn tuning. Delays shrink linearly from
// the easy range to the hard range as the difficulty level rises.
type SpawnProfile struct {
	EasyMin, EasyMax time.Duration
	HardMin, HardMax time.Duration
	Lifespan         time.Duration
	HazardLifespan   time.Duration
	Hazards          bool
}

var (
	GazeProfile = SpawnProfile{
		EasyMin:  3 * time.Second,
		EasyMax:  6 * time.Second,
		HardMin:  1 * time.Second,
		HardMax:  2500 * time.Millisecond,
		Lifespan: 5 * time.Second,
	}
	CatchProfile = SpawnProfile{
		EasyMin:        2 * time.Second,
		EasyMax:        4 * time.Second,
		HardMin:        800 * time.Millisecond,
		HardMax:        1600 * time.Millisecond,
		Lifespan:       4 * time.Second,
		HazardLifespan: 6 * time.Second,
		Hazards:        true,
	}
)

// TierMultiplier is the focus-streak bonus table. It only ever grows with the
// streak so score accrual stays monotonic.
func TierMultiplier(streak time.Duration) float64 {
	switch {
	case streak < 5*time.Second:
		return 1
	case streak < 15*time.Second:
		return 2
	case streak < 30*time.Second:
		return 3
	default:
		return 5
	}
}
