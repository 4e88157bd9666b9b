package dto

import "time"

type LogInput struct {
	SessionID string
	Start     time.Time
	End       time.Time
}

type IntervalOutput struct {
	SessionID string        `json:"session_id"`
	Start     time.Time     `json:"start"`
	End       time.Time     `json:"end"`
	Duration  time.Duration `json:"duration_ns"`
	Path      string        `json:"path,omitempty"`
}
