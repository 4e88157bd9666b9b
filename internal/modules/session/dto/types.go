package dto

import "time"

type StartInput struct {
	Mode        string
	Duration    time.Duration
	Seed        int64
	FocusSource string
	ArenaWidth  float64
	ArenaHeight float64
}

type PointView struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type DistractionView struct {
	ID        string        `json:"id"`
	Slot      int           `json:"slot"`
	Kind      string        `json:"kind"`
	Title     string        `json:"title"`
	Message   string        `json:"message,omitempty"`
	Icon      string        `json:"icon,omitempty"`
	Position  PointView     `json:"position"`
	Remaining time.Duration `json:"remaining_ns"`
}

// Snapshot is what the presentation layer renders after every change.
type Snapshot struct {
	SessionID       string            `json:"session_id,omitempty"`
	Mode            string            `json:"mode,omitempty"`
	State           string            `json:"state"`
	Score           int               `json:"score"`
	Focused         bool              `json:"focused"`
	FocusStreak     time.Duration     `json:"focus_streak_ns"`
	BestStreak      time.Duration     `json:"best_streak_ns"`
	TotalFocusTime  time.Duration     `json:"total_focus_ns"`
	Elapsed         time.Duration     `json:"elapsed_ns"`
	Remaining       time.Duration     `json:"remaining_ns"`
	ResistCount     int               `json:"resist_count"`
	CatchStreak     int               `json:"catch_streak"`
	BestCatchStreak int               `json:"best_catch_streak"`
	Multiplier      int               `json:"multiplier"`
	Hearts          int               `json:"hearts"`
	ArenaWidth      float64           `json:"arena_width"`
	ArenaHeight     float64           `json:"arena_height"`
	Target          PointView         `json:"target"`
	Pointer         PointView         `json:"pointer"`
	Distractions    []DistractionView `json:"distractions"`
	EndReason       string            `json:"end_reason,omitempty"`
	Alert           string            `json:"alert,omitempty"`
	Result          *EndOutput        `json:"result,omitempty"`
}

type EndOutput struct {
	SessionID       string        `json:"session_id"`
	Mode            string        `json:"mode"`
	EndReason       string        `json:"end_reason"`
	Score           int           `json:"score"`
	BestStreak      time.Duration `json:"best_streak_ns"`
	TotalFocusTime  time.Duration `json:"total_focus_ns"`
	ResistCount     int           `json:"resist_count"`
	BestCatchStreak int           `json:"best_catch_streak"`
	HeartsLeft      int           `json:"hearts_left"`
	StartedAt       time.Time     `json:"started_at"`
	EndedAt         time.Time     `json:"ended_at"`
	Persisted       bool          `json:"persisted"`
	NewHighScore    bool          `json:"new_high_score"`
	Alert           string        `json:"alert,omitempty"`
}

type SessionSummary struct {
	SessionID       string        `json:"session_id"`
	Mode            string        `json:"mode"`
	EndReason       string        `json:"end_reason"`
	Score           int           `json:"score"`
	BestStreak      time.Duration `json:"best_streak_ns"`
	TotalFocusTime  time.Duration `json:"total_focus_ns"`
	ResistCount     int           `json:"resist_count"`
	BestCatchStreak int           `json:"best_catch_streak"`
	StartedAt       time.Time     `json:"started_at"`
	EndedAt         time.Time     `json:"ended_at"`
}
