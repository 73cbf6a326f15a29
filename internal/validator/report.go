// Package validator screens model-authored composition code before it is
// accepted. Every layer is a pure function from source text to a Report.
package validator

import "fmt"

// Layer names the check that produced a diagnostic.
type Layer string

const (
	LayerSyntax    Layer = "Syntax"
	LayerSecurity  Layer = "Security"
	LayerStructure Layer = "Structure"
	LayerParse     Layer = "Parse"
)

// Report is the verdict of a single layer.
type Report struct {
	Layer  Layer
	Errors []string
}

// OK reports whether the layer found nothing to complain about.
func (r Report) OK() bool {
	return len(r.Errors) == 0
}

// Prefixed returns the diagnostics tagged with the layer name, e.g. "[Syntax] ...".
func (r Report) Prefixed() []string {
	out := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		out = append(out, fmt.Sprintf("[%s] %s", r.Layer, e))
	}
	return out
}

func (r *Report) add(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Result is the combined verdict across layers.
type Result struct {
	Valid  bool
	Errors []string
}
