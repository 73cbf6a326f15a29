package validator

import (
	"context"
	"errors"

	"videogen/internal/composition"
)

// CheckParse parses the body with a real JavaScript front-end. It is opt-in
// and runs after the heuristic layers.
func CheckParse(code string) Report {
	r := Report{Layer: LayerParse}
	_, err := composition.Compile(context.Background(), code)
	switch {
	case err == nil:
	case errors.Is(err, composition.ErrNoComponent):
		r.add("body does not end by returning a component identifier")
	default:
		r.add("%v", err)
	}
	return r
}
