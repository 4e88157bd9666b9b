package domain

import (
	"errors"
	"fmt"
	"math/rand"
	"time"
)

// ErrNoRoom is returned by Place when no position satisfies the separation
// constraint within MaxSpawnAttempts.
var ErrNoRoom = errors.New("no room to place distraction")

// Spawner owns spawn timing and placement for one session. It is driven by
// the game step and never runs on its own.
type Spawner struct {
	rng        *rand.Rand
	arena      Arena
	profile    SpawnProfile
	separation float64
	attempts   int

	nextIn  time.Duration
	seq     int
	Skipped int
}

func NewSpawner(rng *rand.Rand, arena Arena, profile SpawnProfile) *Spawner {
	return &Spawner{
		rng:        rng,
		arena:      arena,
		profile:    profile,
		separation: MinSeparation,
		attempts:   MaxSpawnAttempts,
	}
}

// Level maps elapsed session time onto the 0..1 difficulty curve.
func Level(elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	if elapsed >= RampDuration {
		return 1
	}
	return float64(elapsed) / float64(RampDuration)
}

// Capacity is how many distractions may be visible at once for a level.
func Capacity(level float64) int {
	return min(1+int(level*float64(MaxConcurrent)), MaxConcurrent)
}

// Interval draws the delay until the next spawn attempt.
func (s *Spawner) Interval(level float64) time.Duration {
	lo := lerp(s.profile.EasyMin, s.profile.HardMin, level)
	hi := lerp(s.profile.EasyMax, s.profile.HardMax, level)
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(s.rng.Int63n(int64(hi-lo)+1))
}

// SpawnResult reports what one spawner update did to the live set.
type SpawnResult struct {
	Live    []Distraction
	Expired []Distraction
	Spawned *Distraction
}

// Update ages live distractions by dt, drops expired ones and, when the spawn
// timer fires and capacity allows, places one new distraction.
func (s *Spawner) Update(dt, elapsed time.Duration, target Point, live []Distraction) SpawnResult {
	res := SpawnResult{Live: live[:0]}
	for _, d := range live {
		d.Age += dt
		if d.Expired() {
			res.Expired = append(res.Expired, d)
			continue
		}
		res.Live = append(res.Live, d)
	}

	s.nextIn -= dt
	if s.nextIn > 0 {
		return res
	}
	level := Level(elapsed)
	s.nextIn = s.Interval(level)
	if len(res.Live) >= Capacity(level) {
		return res
	}
	pos, err := s.Place(target, res.Live)
	if err != nil {
		s.Skipped++
		return res
	}
	d := s.build(pos, level)
	res.Live = append(res.Live, d)
	res.Spawned = &d
	return res
}

// Place samples a position at least the minimum separation away from target
// and from every live distraction.
func (s *Spawner) Place(target Point, live []Distraction) (Point, error) {
	for n := 0; n < s.attempts; n++ {
		p := Point{
			X: s.arena.Margin + s.rng.Float64()*(s.arena.Width-2*s.arena.Margin),
			Y: s.arena.Margin + s.rng.Float64()*(s.arena.Height-2*s.arena.Margin),
		}
		if s.clear(p, target, live) {
			return p, nil
		}
	}
	return Point{}, ErrNoRoom
}

func (s *Spawner) clear(p, target Point, live []Distraction) bool {
	if p.Dist(target) < s.separation {
		return false
	}
	for _, d := range live {
		if p.Dist(d.Position) < s.separation {
			return false
		}
	}
	return true
}

func (s *Spawner) build(pos Point, level float64) Distraction {
	s.seq++
	d := Distraction{
		ID:       fmt.Sprintf("d%d", s.seq),
		Position: pos,
		Lifespan: s.profile.Lifespan,
	}
	if !s.profile.Hazards {
		tpl := notifications[s.rng.Intn(len(notifications))]
		d.Kind = KindNotification
		d.Title, d.Message, d.Icon = tpl.Title, tpl.Message, tpl.Icon
		return d
	}
	if level >= HazardMinLevel && s.rng.Float64() < HazardChance {
		d.Kind = KindHazard
		d.Title, d.Icon = "Hazard", "✖"
		d.Lifespan = s.profile.HazardLifespan
		return d
	}
	d.Kind = KindHologram
	d.Title, d.Icon = "Hologram", "◆"
	return d
}

func lerp(a, b time.Duration, t float64) time.Duration {
	return a + time.Duration(float64(b-a)*t)
}
