package domain

import (
	"errors"
	"math/rand"
	"testing"
	"time"
)

func defaultArena() Arena {
	return Arena{Width: DefaultArenaWidth, Height: DefaultArenaHeight, Margin: ArenaMargin}
}

func TestSpawnerKeepsMinimumSeparationAcrossSeeds(t *testing.T) {
	t.Parallel()
	arena := defaultArena()
	for seed := int64(1); seed <= 1000; seed++ {
		profile := GazeProfile
		if seed%2 == 0 {
			profile = CatchProfile
		}
		rng := rand.New(rand.NewSource(seed))
		sp := NewSpawner(rng, arena, profile)
		target := Point{X: arena.Margin + rng.Float64()*(arena.Width-2*arena.Margin), Y: arena.Margin + rng.Float64()*(arena.Height-2*arena.Margin)}
		var live []Distraction
		dt := 200 * time.Millisecond
		for elapsed := dt; elapsed <= 90*time.Second; elapsed += dt {
			res := sp.Update(dt, elapsed, target, live)
			live = res.Live
			if res.Spawned != nil && res.Spawned.Position.Dist(target) < MinSeparation {
				t.Fatalf("seed %d: spawn %.2f from target", seed, res.Spawned.Position.Dist(target))
			}
			if len(live) > MaxConcurrent {
				t.Fatalf("seed %d: %d live distractions exceeds cap", seed, len(live))
			}
			for i := range live {
				for j := i + 1; j < len(live); j++ {
					if d := live[i].Position.Dist(live[j].Position); d < MinSeparation {
						t.Fatalf("seed %d: %s and %s only %.2f apart", seed, live[i].ID, live[j].ID, d)
					}
				}
			}
		}
	}
}

func TestPlaceSkipsWhenNoRoom(t *testing.T) {
	t.Parallel()
	arena := Arena{Width: 20, Height: 20, Margin: 4}
	sp := NewSpawner(rand.New(rand.NewSource(1)), arena, GazeProfile)
	if _, err := sp.Place(arena.Center(), nil); !errors.Is(err, ErrNoRoom) {
		t.Fatalf("expected ErrNoRoom, got %v", err)
	}
	res := sp.Update(time.Second, time.Second, arena.Center(), nil)
	if res.Spawned != nil || len(res.Live) != 0 {
		t.Fatalf("expected skipped cycle, got %+v", res)
	}
	if sp.Skipped != 1 {
		t.Fatalf("expected one skipped spawn, got %d", sp.Skipped)
	}
}

func TestUpdateExpiresByLifespan(t *testing.T) {
	t.Parallel()
	sp := NewSpawner(rand.New(rand.NewSource(3)), defaultArena(), GazeProfile)
	sp.nextIn = time.Hour
	live := []Distraction{
		{ID: "old", Lifespan: time.Second, Age: 900 * time.Millisecond},
		{ID: "young", Lifespan: time.Second},
	}
	res := sp.Update(200*time.Millisecond, time.Second, Point{}, live)
	if len(res.Expired) != 1 || res.Expired[0].ID != "old" {
		t.Fatalf("expected old to expire, got %+v", res.Expired)
	}
	if len(res.Live) != 1 || res.Live[0].ID != "young" || res.Live[0].Age != 200*time.Millisecond {
		t.Fatalf("unexpected live set %+v", res.Live)
	}
}

func TestDifficultyCurve(t *testing.T) {
	t.Parallel()
	if Level(0) != 0 || Level(RampDuration) != 1 || Level(2*RampDuration) != 1 {
		t.Fatalf("level endpoints wrong")
	}
	if Capacity(0) != 1 || Capacity(1) != MaxConcurrent {
		t.Fatalf("capacity endpoints wrong: %d %d", Capacity(0), Capacity(1))
	}
	for l := 0.0; l < 1; l += 0.05 {
		if Capacity(l+0.05) < Capacity(l) {
			t.Fatalf("capacity shrank at %.2f", l)
		}
	}
	sp := NewSpawner(rand.New(rand.NewSource(9)), defaultArena(), GazeProfile)
	for i := 0; i < 200; i++ {
		easy := sp.Interval(0)
		if easy < GazeProfile.EasyMin || easy > GazeProfile.EasyMax {
			t.Fatalf("easy interval %s out of range", easy)
		}
		hard := sp.Interval(1)
		if hard < GazeProfile.HardMin || hard > GazeProfile.HardMax {
			t.Fatalf("hard interval %s out of range", hard)
		}
	}
}

func TestCatchProfileSpawnsHazardsOnlyAfterWarmup(t *testing.T) {
	t.Parallel()
	sp := NewSpawner(rand.New(rand.NewSource(11)), defaultArena(), CatchProfile)
	for i := 0; i < 100; i++ {
		if d := sp.build(Point{}, 0); d.Kind != KindHologram {
			t.Fatalf("expected only holograms at level 0, got %s", d.Kind)
		}
	}
	hazards := 0
	for i := 0; i < 500; i++ {
		if sp.build(Point{}, 1).Kind == KindHazard {
			hazards++
		}
	}
	if hazards == 0 || hazards == 500 {
		t.Fatalf("expected a mix of hazards and holograms, got %d hazards", hazards)
	}
}
