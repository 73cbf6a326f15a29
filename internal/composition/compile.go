// Package composition models the executable-code contract shared with the
// rendering host: generated code is the body of a function receiving a fixed
// parameter list and returning a component.
package composition

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
)

// Params is the positional parameter list the host invokes the body with.
var Params = []string{"React", "Remotion", "Components", "Theme", "images", "audioUrl"}

const wrapperName = "__composition"

var (
	ErrSyntax      = errors.New("composition: syntax error")
	ErrNoComponent = errors.New("composition: body does not return a component")
)

// SyntaxError locates the first parse failure, in body coordinates.
type SyntaxError struct {
	Line    int
	Column  int
	Snippet string
	Missing bool
}

func (e *SyntaxError) Error() string {
	kind := "unexpected input"
	if e.Missing {
		kind = "missing token"
	}
	if e.Snippet != "" {
		return fmt.Sprintf("%s near line %d, column %d: %q", kind, e.Line, e.Column, e.Snippet)
	}
	return fmt.Sprintf("%s near line %d, column %d", kind, e.Line, e.Column)
}

func (e *SyntaxError) Unwrap() error { return ErrSyntax }

// Program is a parsed composition body.
type Program struct {
	Component  string
	Statements int
	tree       *sitter.Tree
}

// Wrap places the body inside the host's function signature.
func Wrap(code string) string {
	return fmt.Sprintf("function %s(%s) {\n%s\n}\n", wrapperName, strings.Join(Params, ", "), code)
}

// Compile parses the body with the JavaScript (JSX) grammar and resolves the
// component it returns.
func Compile(ctx context.Context, code string) (*Program, error) {
	src := []byte(Wrap(code))
	parser := sitter.NewParser()
	parser.SetLanguage(javascript.GetLanguage())
	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("composition: parse: %w", err)
	}
	root := tree.RootNode()
	if root.HasError() {
		return nil, locateError(root, src)
	}
	body := functionBody(root)
	if body == nil {
		return nil, fmt.Errorf("%w: wrapper function not found", ErrSyntax)
	}
	prog := &Program{tree: tree, Statements: int(body.NamedChildCount())}
	for i := int(body.NamedChildCount()) - 1; i >= 0; i-- {
		stmt := body.NamedChild(i)
		if stmt.Type() != "return_statement" || stmt.NamedChildCount() == 0 {
			continue
		}
		if arg := stmt.NamedChild(0); arg.Type() == "identifier" {
			prog.Component = arg.Content(src)
			break
		}
	}
	if prog.Component == "" {
		return nil, ErrNoComponent
	}
	return prog, nil
}

func functionBody(root *sitter.Node) *sitter.Node {
	for i := 0; i < int(root.NamedChildCount()); i++ {
		fn := root.NamedChild(i)
		if fn.Type() != "function_declaration" {
			continue
		}
		if body := fn.ChildByFieldName("body"); body != nil {
			return body
		}
	}
	return nil
}

func locateError(root *sitter.Node, src []byte) error {
	var found *sitter.Node
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if found != nil || n == nil {
			return
		}
		if n.Type() == "ERROR" || n.IsMissing() {
			found = n
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(root)
	if found == nil {
		return &SyntaxError{Line: 1, Column: 1}
	}
	p := found.StartPoint()
	// Row 0 is the wrapper signature, so row N is body line N.
	line := int(p.Row)
	if line < 1 {
		line = 1
	}
	snippet := clip(strings.TrimSpace(found.Content(src)), snippetRunes)
	return &SyntaxError{Line: line, Column: int(p.Column) + 1, Snippet: snippet, Missing: found.IsMissing()}
}

const snippetRunes = 40

// clip keeps at most n runes of s.
func clip(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
