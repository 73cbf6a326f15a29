package codegen

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"videogen/internal/domain"
)

func TestNext(t *testing.T) {
	diags := []string{"[Syntax] boom"}
	tests := []struct {
		name    string
		from    State
		outcome Outcome
		want    State
	}{
		{
			name:    "pass succeeds",
			from:    State{Phase: PhaseAttempting, Attempt: 1},
			outcome: Outcome{Passed: true},
			want:    State{Phase: PhaseSucceeded, Attempt: 1},
		},
		{
			name:    "failure retries with diagnostics",
			from:    Start(),
			outcome: Outcome{Diagnostics: diags},
			want:    State{Phase: PhaseAttempting, Attempt: 1, Diagnostics: diags},
		},
		{
			name:    "security aborts",
			from:    Start(),
			outcome: Outcome{SecurityViolation: true, Diagnostics: diags},
			want:    State{Phase: PhaseSecurityAborted, Diagnostics: diags},
		},
		{
			name:    "last failure fails over",
			from:    State{Phase: PhaseAttempting, Attempt: 2},
			outcome: Outcome{Diagnostics: diags},
			want:    State{Phase: PhaseFailingOver, Attempt: 2, Diagnostics: diags, Reason: domain.FallbackAttemptsExhausted},
		},
		{
			name: "security abort fails over",
			from: State{Phase: PhaseSecurityAborted, Diagnostics: diags},
			want: State{Phase: PhaseFailingOver, Diagnostics: diags, Reason: domain.FallbackSecurityViolation},
		},
		{
			name:    "terminal states are absorbing",
			from:    State{Phase: PhaseSucceeded},
			outcome: Outcome{Diagnostics: diags},
			want:    State{Phase: PhaseSucceeded},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Next(tt.from, tt.outcome, 3)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("Next mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoopNeverExceedsBudget(t *testing.T) {
	for max := 1; max <= 5; max++ {
		st := Start()
		calls := 0
		for !st.Terminal() {
			if st.Phase == PhaseAttempting {
				calls++
			}
			st = Next(st, Outcome{Diagnostics: []string{"x"}}, max)
		}
		if calls != max {
			t.Fatalf("max=%d: got %d attempts", max, calls)
		}
		if st.Reason != domain.FallbackAttemptsExhausted {
			t.Fatalf("max=%d: reason = %q", max, st.Reason)
		}
	}
}
