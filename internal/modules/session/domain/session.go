package domain

import "time"

const SchemaVersion = 1

// Session is the finalized, immutable record of one played session.
type Session struct {
	ID                     string
	Mode                   Mode
	Score                  int
	BestStreak             time.Duration
	TotalFocusTime         time.Duration
	DistractionResistCount int
	BestCatchStreak        int
	Catches                int
	Misses                 int
	HeartsLeft             int
	StartTime              time.Time
	EndTime                time.Time
	Duration               time.Duration
	Elapsed                time.Duration
	EndReason              EndReason
}

// Summary freezes an ended game into its session record.
func (g *Game) Summary(endedAt time.Time) Session {
	return Session{
		ID:                     g.ID,
		Mode:                   g.Mode,
		Score:                  g.Board.Score,
		BestStreak:             g.Board.BestStreak,
		TotalFocusTime:         g.Board.TotalFocusTime,
		DistractionResistCount: g.Board.ResistCount,
		BestCatchStreak:        g.Board.BestCatchStreak,
		Catches:                g.Board.Catches,
		Misses:                 g.Board.Misses,
		HeartsLeft:             g.Board.Hearts,
		StartTime:              g.StartedAt,
		EndTime:                endedAt,
		Duration:               g.Duration,
		Elapsed:                g.Elapsed,
		EndReason:              g.EndReason,
	}
}
