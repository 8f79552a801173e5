package tracking

import "errors"

// State is the lifecycle state of one subject's tracking agent
type State int

// Agent states. Stopped is distinguishable from Idle so callers can tell a
// failed/halted agent apart from one that was never started.
const (
	StateIdle State = iota
	StateRequesting
	StateActive
	StateDegraded
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRequesting:
		return "requesting"
	case StateActive:
		return "active"
	case StateDegraded:
		return "degraded"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

var (
	// ErrPermissionDenied is fatal to Start; the agent stays Idle
	ErrPermissionDenied = errors.New("positioning permission denied")

	// ErrNotTracking is returned for subjects with no running agent
	ErrNotTracking = errors.New("subject is not being tracked")

	// ErrAlreadyTracking is returned when Start is called on a live agent
	ErrAlreadyTracking = errors.New("subject is already being tracked")

	// ErrTrackingStopped wraps the persistence error that exhausted the
	// retry limit and halted the agent
	ErrTrackingStopped = errors.New("tracking stopped after repeated persistence failures")
)
