package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInlineQueriesCarryUniqueMarkers(t *testing.T) {
	violations, err := lint([]string{filepath.Join("..", "..", "sqlinline")})
	if err != nil {
		t.Fatalf("lint: %v", err)
	}
	for _, v := range violations {
		t.Errorf("%s", v)
	}
}

func TestLintReportsMissingAndDuplicateMarkers(t *testing.T) {
	dir := t.TempDir()
	src := "package q\n\n" +
		"const QOne = `--sql 0b6f1c2d-3e4a-4b5c-8d6e-7f8091a2b3c4\nselect 1;`\n\n" +
		"const QTwo = `--sql 0b6f1c2d-3e4a-4b5c-8d6e-7f8091a2b3c4\nselect 2;`\n\n" +
		"const QBare = \"select 3\"\n\n" +
		"const Label = \"plain text\"\n"
	if err := os.WriteFile(filepath.Join(dir, "q.go"), []byte(src), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	violations, err := lint([]string{dir})
	if err != nil {
		t.Fatalf("lint: %v", err)
	}
	if len(violations) != 2 {
		t.Fatalf("violations = %v", violations)
	}
	var missing, dup bool
	for _, v := range violations {
		switch {
		case v.name == "QBare" && strings.Contains(v.message, "missing"):
			missing = true
		case v.name == "QTwo" && strings.Contains(v.message, "QOne"):
			dup = true
		}
	}
	if !missing || !dup {
		t.Fatalf("unexpected violations: %v", violations)
	}
}
