package validator

import (
	"regexp"
	"strings"
)

const minSyntaxLength = 50

// jsxOpenThreshold is how many capitalised opening tags we tolerate without a
// single closing tag before flagging the markup.
const jsxOpenThreshold = 3

var (
	jsxOpenTag  = regexp.MustCompile(`<[A-Z][A-Za-z0-9_.]*(?:\s[^<>]*)?>`)
	jsxCloseTag = regexp.MustCompile(`</[A-Z][A-Za-z0-9_.]*\s*>`)
)

type pair struct {
	name  string
	open  byte
	close byte
}

var pairs = []pair{
	{name: "braces", open: '{', close: '}'},
	{name: "parentheses", open: '(', close: ')'},
	{name: "brackets", open: '[', close: ']'},
}

// CheckSyntax runs cheap balance and markup heuristics. It is not a parser: a
// brace inside a string literal will desync the counters, and that is accepted.
func CheckSyntax(code string) Report {
	r := Report{Layer: LayerSyntax}

	balance := make([]int, len(pairs))
	negative := make([]bool, len(pairs))
	for i := 0; i < len(code); i++ {
		c := code[i]
		for p := range pairs {
			switch c {
			case pairs[p].open:
				balance[p]++
			case pairs[p].close:
				balance[p]--
				if balance[p] < 0 && !negative[p] {
					negative[p] = true
					line := 1 + strings.Count(code[:i], "\n")
					r.add("unexpected closing '%c' on line %d", c, line)
				}
			}
		}
	}
	for p := range pairs {
		if balance[p] != 0 {
			r.add("unbalanced %s, off by %d", pairs[p].name, balance[p])
		}
	}

	opens := 0
	for _, tag := range jsxOpenTag.FindAllString(code, -1) {
		if !strings.HasSuffix(tag, "/>") {
			opens++
		}
	}
	closes := len(jsxCloseTag.FindAllString(code, -1))
	if opens > jsxOpenThreshold && closes == 0 {
		r.add("possible unclosed JSX tags (%d opening tags, no closing tags)", opens)
	}

	if n := len(strings.TrimSpace(code)); n < minSyntaxLength {
		r.add("code is suspiciously short (%d characters)", n)
	}
	return r
}
