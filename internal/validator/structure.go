package validator

import (
	"regexp"
	"strings"
)

const minStructureLength = 500

var (
	returnIdent  = regexp.MustCompile(`(?m)\breturn\s+[A-Za-z_$][A-Za-z0-9_$]*\s*(?:;|//|$)`)
	remotionRef  = regexp.MustCompile(`\bRemotion\b`)
	layoutPrimer = regexp.MustCompile(`\b(?:AbsoluteFill|Sequence)\b`)
)

// CheckStructure confirms the code is shaped like a composition body the
// rendering host can call.
func CheckStructure(code string) Report {
	r := Report{Layer: LayerStructure}
	if !returnsComponent(code) {
		r.add("no return statement handing back a component (expected e.g. `return MyVideo;`)")
	}
	if !remotionRef.MatchString(code) {
		r.add("Remotion is never referenced (destructure primitives from the Remotion parameter)")
	}
	if !layoutPrimer.MatchString(code) {
		r.add("no AbsoluteFill/Sequence usage found")
	}
	if !strings.Contains(code, "<") {
		r.add("no JSX markup found")
	}
	if n := len(code); n <= minStructureLength {
		r.add("code is too short to be a composition (%d characters, need more than %d)", n, minStructureLength)
	}
	return r
}

// returnsComponent looks for `return <ident>` outside every brace pair, so a
// return inside a scene component does not count.
func returnsComponent(code string) bool {
	for _, loc := range returnIdent.FindAllStringIndex(code, -1) {
		prefix := code[:loc[0]]
		if strings.Count(prefix, "{") <= strings.Count(prefix, "}") {
			return true
		}
	}
	return false
}
