package domain

import "fmt"

type Mode string

const (
	// ModeGaze keeps focus on a drifting target while notifications try to
	// pull attention away. Selecting a notification ends the session.
	ModeGaze Mode = "gaze"
	// ModeCatch has the player steer a circle onto holograms before they
	// expire while dodging hazards that cost hearts.
	ModeCatch Mode = "catch"
)

func (m Mode) Validate() error {
	switch m {
	case ModeGaze, ModeCatch:
		return nil
	default:
		return fmt.Errorf("unsupported mode %q", string(m))
	}
}

func (m Mode) Profile() SpawnProfile {
	if m == ModeCatch {
		return CatchProfile
	}
	return GazeProfile
}

type State int

const (
	StateIdle State = iota
	StateRunning
	StatePaused
	StateEnded
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateEnded:
		return "ended"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

type EndReason string

const (
	EndNone              EndReason = ""
	EndTimeUp            EndReason = "time_up"
	EndDistractionTapped EndReason = "distraction_tapped"
	EndHeartsDepleted    EndReason = "hearts_depleted"
	EndStopped           EndReason = "stopped"
)
