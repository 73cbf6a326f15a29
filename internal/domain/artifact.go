package domain

// FallbackReason explains why the template generator produced an artifact.
type FallbackReason string

const (
	FallbackNone              FallbackReason = ""
	FallbackSecurityViolation FallbackReason = "security_violation"
	FallbackAttemptsExhausted FallbackReason = "attempts_exhausted"
)

// GeneratedCodeArtifact is the final output of a generation run. Once written
// to a job it is history: later iterations produce a new artifact.
type GeneratedCodeArtifact struct {
	JobID          string         `json:"job_id"`
	Code           string         `json:"code"`
	UsedFallback   bool           `json:"usedFallback"`
	Attempts       int            `json:"attempts"`
	FallbackReason FallbackReason `json:"fallback_reason,omitempty"`
}
