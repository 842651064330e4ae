package search

import (
	"animeid/internal/tracemoe"
	"animeid/internal/upload"
)

// State is the lifecycle position of the controller.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Snapshot is a point-in-time copy of the controller state.
type Snapshot struct {
	State         State
	Candidate     *upload.Candidate
	PreviewPath   string
	Outcome       *tracemoe.Outcome
	Message       string
	CorrelationID string
}

// Staged reports whether a candidate is ready to submit.
func (s Snapshot) Staged() bool {
	return s.Candidate != nil
}
