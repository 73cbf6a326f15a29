package codegen

import (
	"encoding/json"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

var titleCaser = cases.Title(language.Und)

// clean trims and NFC-normalises model-authored script text.
func clean(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// sceneLabel turns an id such as "social-proof" into "Social Proof".
func sceneLabel(id string) string {
	id = strings.NewReplacer("-", " ", "_", " ").Replace(clean(id))
	return titleCaser.String(id)
}

// jsString renders s as a JavaScript string literal. JSON string syntax is a
// subset of JS, and the encoder also escapes U+2028/U+2029.
func jsString(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		return `""`
	}
	return string(b)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
