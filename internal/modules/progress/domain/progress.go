package domain

import "time"

// Progress is the cross-session aggregate. One per installation.
type Progress struct {
	HasCompletedOnboarding bool
	HighScore              int
	LongestStreak          time.Duration
	LongestCatchStreak     int
	TotalSessions          int
	TotalFocusTime         time.Duration
	UpdatedAt              time.Time
}

type SessionResult struct {
	Score           int
	BestStreak      time.Duration
	BestCatchStreak int
	TotalFocusTime  time.Duration
}

// Apply folds one finished session in. Records only ever grow. It reports
// whether the session set a new high score.
func (p *Progress) Apply(r SessionResult, at time.Time) bool {
	newHigh := r.Score > p.HighScore
	if newHigh {
		p.HighScore = r.Score
	}
	p.LongestStreak = max(p.LongestStreak, r.BestStreak)
	p.LongestCatchStreak = max(p.LongestCatchStreak, r.BestCatchStreak)
	p.TotalSessions++
	if r.TotalFocusTime > 0 {
		p.TotalFocusTime += r.TotalFocusTime
	}
	p.UpdatedAt = at
	return newHigh
}

// Reset clears the statistics. The onboarding flag survives.
func (p *Progress) Reset(at time.Time) {
	*p = Progress{HasCompletedOnboarding: p.HasCompletedOnboarding, UpdatedAt: at}
}
