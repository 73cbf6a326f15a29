package codegen

import "videogen/internal/domain"

// Phase is a state of the generation loop.
type Phase int

const (
	PhaseAttempting Phase = iota
	PhaseSucceeded
	PhaseSecurityAborted
	PhaseFailingOver
)

func (p Phase) String() string {
	switch p {
	case PhaseAttempting:
		return "attempting"
	case PhaseSucceeded:
		return "succeeded"
	case PhaseSecurityAborted:
		return "security_aborted"
	case PhaseFailingOver:
		return "failing_over"
	default:
		return "unknown"
	}
}

// State is the loop position plus the diagnostics carried into the next prompt.
type State struct {
	Phase       Phase
	Attempt     int
	Diagnostics []string
	Reason      domain.FallbackReason
}

// Outcome summarises one finished attempt.
type Outcome struct {
	Passed            bool
	SecurityViolation bool
	Diagnostics       []string
}

// Start is the state before the first model call.
func Start() State {
	return State{Phase: PhaseAttempting}
}

// Terminal reports whether the loop has produced a result.
func (s State) Terminal() bool {
	return s.Phase == PhaseSucceeded || s.Phase == PhaseFailingOver
}

// Next is the transition function. It is pure: the same state, outcome and
// budget always give the same successor. The outcome is ignored outside
// PhaseAttempting.
func Next(s State, o Outcome, maxAttempts int) State {
	switch s.Phase {
	case PhaseAttempting:
		switch {
		case o.Passed:
			return State{Phase: PhaseSucceeded, Attempt: s.Attempt}
		case o.SecurityViolation:
			return State{Phase: PhaseSecurityAborted, Attempt: s.Attempt, Diagnostics: o.Diagnostics}
		case s.Attempt+1 < maxAttempts:
			return State{Phase: PhaseAttempting, Attempt: s.Attempt + 1, Diagnostics: o.Diagnostics}
		default:
			return State{Phase: PhaseFailingOver, Attempt: s.Attempt, Diagnostics: o.Diagnostics, Reason: domain.FallbackAttemptsExhausted}
		}
	case PhaseSecurityAborted:
		return State{Phase: PhaseFailingOver, Attempt: s.Attempt, Diagnostics: s.Diagnostics, Reason: domain.FallbackSecurityViolation}
	default:
		return s
	}
}
