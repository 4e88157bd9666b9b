package domain

import (
	"math/rand"
	"testing"
	"time"
)

func TestApplyFocusGrowsStreakAndTotal(t *testing.T) {
	t.Parallel()
	b := NewScoreboard()
	dt := 100 * time.Millisecond
	for i := 0; i < 50; i++ {
		prevStreak, prevTotal := b.FocusStreak, b.TotalFocusTime
		b.ApplyFocus(dt, true)
		if b.FocusStreak != prevStreak+dt {
			t.Fatalf("tick %d: streak %s, want %s", i, b.FocusStreak, prevStreak+dt)
		}
		if b.TotalFocusTime <= prevTotal {
			t.Fatalf("tick %d: total focus did not increase", i)
		}
	}
}

func TestFocusLossFoldsStreakIntoBest(t *testing.T) {
	t.Parallel()
	b := NewScoreboard()
	b.ApplyFocus(3*time.Second, true)
	b.ApplyFocus(time.Second, false)
	if b.BestStreak != 3*time.Second || b.FocusStreak != 0 {
		t.Fatalf("after first break: best=%s streak=%s", b.BestStreak, b.FocusStreak)
	}
	b.ApplyFocus(time.Second, true)
	b.ApplyFocus(time.Second, false)
	if b.BestStreak != 3*time.Second {
		t.Fatalf("shorter streak must not lower best, got %s", b.BestStreak)
	}
	if b.TotalFocusTime != 4*time.Second {
		t.Fatalf("total focus should span streak breaks, got %s", b.TotalFocusTime)
	}
}

func TestScoreNeverDecreases(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewSource(7))
	b := NewScoreboard()
	last := 0
	for i := 0; i < 5000; i++ {
		switch rng.Intn(6) {
		case 0:
			b.Resist()
		case 1:
			b.Catch()
		case 2:
			b.Miss()
		case 3:
			b.Damage()
		default:
			b.ApplyFocus(time.Duration(rng.Intn(40))*time.Millisecond, rng.Intn(3) > 0)
		}
		if b.Score < last {
			t.Fatalf("score went down at step %d: %d -> %d", i, last, b.Score)
		}
		last = b.Score
	}
}

func TestTierMultiplierIsMonotonic(t *testing.T) {
	t.Parallel()
	prev := 0.0
	for s := time.Duration(0); s <= 2*time.Minute; s += 500 * time.Millisecond {
		m := TierMultiplier(s)
		if m < prev {
			t.Fatalf("multiplier dropped at %s", s)
		}
		prev = m
	}
	if TierMultiplier(0) != 1 || TierMultiplier(time.Minute) != 5 {
		t.Fatalf("unexpected tier endpoints")
	}
}

func TestCatchMultiplierMissAndDamage(t *testing.T) {
	t.Parallel()
	b := NewScoreboard()
	for i := 0; i < 6; i++ {
		b.Catch()
	}
	if b.CatchStreak != 6 || b.Multiplier != 3 || b.BestCatchStreak != 6 {
		t.Fatalf("unexpected catch state: %+v", b)
	}
	wantScore := CatchPoints * (1 + 1 + 1 + 2 + 2 + 2)
	if b.Score != wantScore {
		t.Fatalf("score %d, want %d", b.Score, wantScore)
	}
	b.Miss()
	if b.CatchStreak != 0 || b.Multiplier != 1 || b.Misses != 1 {
		t.Fatalf("miss should reset streak: %+v", b)
	}
	b.Catch()
	if b.Damage() || b.Hearts != MaxHearts-1 || b.CatchStreak != 0 {
		t.Fatalf("first damage: %+v", b)
	}
	b.Damage()
	if !b.Damage() || b.Hearts != 0 {
		t.Fatalf("third damage should deplete hearts: %+v", b)
	}
	b.Damage()
	if b.Hearts != 0 {
		t.Fatalf("hearts must not go below zero, got %d", b.Hearts)
	}
	if b.BestCatchStreak != 6 {
		t.Fatalf("best catch streak must survive resets, got %d", b.BestCatchStreak)
	}
}
