package codegen

import (
	"regexp"
	"strings"
)

const fenceLang = `(?:typescript|javascript|tsx|ts|jsx|js)?`

var (
	wholeFence = regexp.MustCompile("(?s)^```" + fenceLang + "[ \\t]*\\r?\\n(.*?)\\r?\\n?[ \\t]*```$")
	firstFence = regexp.MustCompile("(?s)```" + fenceLang + "[ \\t]*\\r?\\n(.*?)```")
)

// ExtractCode recovers the code payload from a model response. A fence that
// wraps the whole response wins over the first fence found anywhere, so code
// that itself contains backticks is not cut short. Unfenced text is returned
// trimmed.
func ExtractCode(raw string) string {
	text := strings.TrimSpace(raw)
	if m := wholeFence.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := firstFence.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return text
}
