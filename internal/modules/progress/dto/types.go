package dto

import "time"

type ProgressOutput struct {
	HasCompletedOnboarding bool          `json:"has_completed_onboarding"`
	HighScore              int           `json:"high_score"`
	LongestStreak          time.Duration `json:"longest_streak_ns"`
	LongestCatchStreak     int           `json:"longest_catch_streak"`
	TotalSessions          int           `json:"total_sessions"`
	TotalFocusTime         time.Duration `json:"total_focus_ns"`
	UpdatedAt              time.Time     `json:"updated_at"`
}

type RecordSessionInput struct {
	Score           int
	BestStreak      time.Duration
	BestCatchStreak int
	TotalFocusTime  time.Duration
}

type RecordSessionOutput struct {
	Progress     ProgressOutput
	NewHighScore bool
}
