package types

// RunStatus is the status of a reasoning engine run as reported by the engine
type RunStatus string

const (
	RunStatusQueued         RunStatus = "queued"
	RunStatusInProgress     RunStatus = "in_progress"
	RunStatusRequiresAction RunStatus = "requires_action"
	RunStatusCancelling     RunStatus = "cancelling"
	RunStatusCancelled      RunStatus = "cancelled"
	RunStatusFailed         RunStatus = "failed"
	RunStatusCompleted      RunStatus = "completed"
	RunStatusIncomplete     RunStatus = "incomplete"
	RunStatusExpired        RunStatus = "expired"
)

// RunState is the state of the dispatch loop derived from a RunStatus
type RunState int

const (
	RunStateActive RunState = iota
	RunStateRequiresAction
	RunStateCompleted
	RunStateFailed
)

// State maps an engine status onto the dispatch loop state machine.
// Unknown statuses are terminal failures.
func (s RunStatus) State() RunState {
	switch s {
	case RunStatusQueued, RunStatusInProgress, RunStatusCancelling:
		return RunStateActive
	case RunStatusRequiresAction:
		return RunStateRequiresAction
	case RunStatusCompleted:
		return RunStateCompleted
	default:
		return RunStateFailed
	}
}

// IsTerminal reports whether the run will not change status anymore
func (s RunStatus) IsTerminal() bool {
	st := s.State()
	return st == RunStateCompleted || st == RunStateFailed
}

func (s RunStatus) String() string {
	return string(s)
}

func (s RunState) String() string {
	switch s {
	case RunStateActive:
		return "active"
	case RunStateRequiresAction:
		return "requires_action"
	case RunStateCompleted:
		return "completed"
	default:
		return "failed"
	}
}
