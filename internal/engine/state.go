package engine

// RunState represents the lifecycle state of a run.
type RunState string

const (
	// RunStateSeeded is the initial state: the engine is constructed and
	// holds the seed inputs but the loop has not started.
	RunStateSeeded RunState = "seeded"

	// RunStateLooping means the driver loop is iterating.
	RunStateLooping RunState = "looping"

	// RunStateDone means the thought tree was exhausted and the run
	// completed normally.
	RunStateDone RunState = "done"

	// RunStateFailed means the run stopped on a fatal error or
	// cancellation.
	RunStateFailed RunState = "failed"
)

// String returns the string representation of the state.
func (s RunState) String() string {
	return string(s)
}

// IsTerminal returns true if the state is terminal (done or failed).
// Terminal states cannot transition to other states.
func (s RunState) IsTerminal() bool {
	switch s {
	case RunStateDone, RunStateFailed:
		return true
	default:
		return false
	}
}

// CanTransitionTo validates whether a state transition is allowed.
func (s RunState) CanTransitionTo(target RunState) bool {
	if s.IsTerminal() {
		return false
	}

	switch s {
	case RunStateSeeded:
		return target == RunStateLooping
	case RunStateLooping:
		return target == RunStateDone || target == RunStateFailed
	default:
		return false
	}
}
