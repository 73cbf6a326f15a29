package domain

// GenerationRequest carries everything one pipeline invocation needs. It is
// built fresh for each run and never stored on its own.
type GenerationRequest struct {
	JobID          string
	ScriptID       string
	ImageURLs      []string
	Audio          *AudioDescriptor
	AspectRatio    string
	TargetDuration int
	Iteration      *Iteration
}

// AudioDescriptor describes an optional narration track.
type AudioDescriptor struct {
	URL      string          `json:"audioUrl"`
	Duration float64         `json:"duration"`
	Words    []WordTimestamp `json:"words,omitempty"`
}

// WordTimestamp is a single word-level alignment entry, in seconds.
type WordTimestamp struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Iteration asks the model to modify a previous version instead of starting over.
type Iteration struct {
	PreviousCode string
	Feedback     string
}

// Active reports whether both halves of the iteration pair are present.
func (it *Iteration) Active() bool {
	return it != nil && it.PreviousCode != "" && it.Feedback != ""
}
