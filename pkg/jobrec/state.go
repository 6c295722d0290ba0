package jobrec

import "strings"

// State is a scheduler job state. Values the backend reports that are not listed here are kept
// verbatim.
type State string

const (
	StatePending     State = "PENDING"
	StateRunning     State = "RUNNING"
	StateSuspended   State = "SUSPENDED"
	StateRequeued    State = "REQUEUED"
	StateResizing    State = "RESIZING"
	StateCompleted   State = "COMPLETED"
	StateFailed      State = "FAILED"
	StateCancelled   State = "CANCELLED"
	StateTimeout     State = "TIMEOUT"
	StateOutOfMemory State = "OUT_OF_MEMORY"
	StateNodeFail    State = "NODE_FAIL"
	StatePreempted   State = "PREEMPTED"
	StateBootFail    State = "BOOT_FAIL"
	StateDeadline    State = "DEADLINE"
	StateRevoked     State = "REVOKED"
)

var terminalStates = map[State]bool{
	StateCompleted:   true,
	StateFailed:      true,
	StateCancelled:   true,
	StateTimeout:     true,
	StateOutOfMemory: true,
	StateNodeFail:    true,
	StatePreempted:   true,
	StateBootFail:    true,
	StateDeadline:    true,
	StateRevoked:     true,
}

// ParseState keeps the leading token of raw. Accounting tools append qualifiers such as
// "CANCELLED by 12345"; only "CANCELLED" survives.
func ParseState(raw string) State {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return Sentinel
	}
	return State(fields[0])
}

// IsTerminal reports whether the job has finished and its record can no longer change.
func (s State) IsTerminal() bool {
	return terminalStates[s]
}

func (s State) String() string {
	return string(s)
}
