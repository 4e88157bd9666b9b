package domain

import (
	"math"
	"time"
)

// Scoreboard accumulates score, focus streaks and the catch-mode counters for
// one session. All mutation goes through its methods; Score never decreases.
type Scoreboard struct {
	Score          int
	FocusStreak    time.Duration
	BestStreak     time.Duration
	TotalFocusTime time.Duration
	ResistCount    int

	CatchStreak     int
	BestCatchStreak int
	Multiplier      int
	Catches         int
	Misses          int
	Hits            int
	Hearts          int

	// fractional points not yet credited to Score
	carry float64
}

func NewScoreboard() Scoreboard {
	return Scoreboard{Multiplier: 1, Hearts: MaxHearts}
}

// ApplyFocus advances the board by one tick of length dt. While focused the
// streak and total grow by dt and points accrue at the streak's tier rate.
// Losing focus folds the streak into BestStreak and resets it. Returns the
// whole points credited this tick.
func (b *Scoreboard) ApplyFocus(dt time.Duration, focused bool) int {
	if dt <= 0 {
		return 0
	}
	if !focused {
		b.breakStreak()
		return 0
	}
	b.FocusStreak += dt
	b.TotalFocusTime += dt
	if b.FocusStreak > b.BestStreak {
		b.BestStreak = b.FocusStreak
	}
	return b.credit(dt.Seconds() * BasePointsPerSecond * TierMultiplier(b.FocusStreak))
}

func (b *Scoreboard) breakStreak() {
	if b.FocusStreak > b.BestStreak {
		b.BestStreak = b.FocusStreak
	}
	b.FocusStreak = 0
}

// Resist credits a notification that expired without being selected.
func (b *Scoreboard) Resist() int {
	b.ResistCount++
	return b.credit(ResistBonus)
}

// Catch credits a caught hologram at the current multiplier, then raises the
// multiplier one step every CatchesPerLevel consecutive catches.
func (b *Scoreboard) Catch() int {
	b.Catches++
	b.CatchStreak++
	if b.CatchStreak > b.BestCatchStreak {
		b.BestCatchStreak = b.CatchStreak
	}
	gained := b.credit(float64(CatchPoints * b.Multiplier))
	b.Multiplier = min(1+b.CatchStreak/CatchesPerLevel, MaxMultiplier)
	return gained
}

// Miss records a hologram that expired uncaught.
func (b *Scoreboard) Miss() {
	b.Misses++
	b.resetCatchStreak()
}

// Damage removes one heart and reports whether the pool is empty.
func (b *Scoreboard) Damage() bool {
	b.Hits++
	b.resetCatchStreak()
	if b.Hearts > 0 {
		b.Hearts--
	}
	return b.Hearts == 0
}

func (b *Scoreboard) resetCatchStreak() {
	b.CatchStreak = 0
	b.Multiplier = 1
}

func (b *Scoreboard) credit(points float64) int {
	if points <= 0 {
		return 0
	}
	b.carry += points
	whole := math.Floor(b.carry)
	b.carry -= whole
	b.Score += int(whole)
	return int(whole)
}
