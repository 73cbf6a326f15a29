package composition

import (
	"context"
	"sync"
)

// Compiled pairs validated code text with the program built from it. The
// program is constructed at most once; a construction failure is remembered
// and returned to every caller instead of resurfacing per invocation.
type Compiled struct {
	code string

	once sync.Once
	prog *Program
	err  error
}

// NewCompiled wraps code without parsing it yet.
func NewCompiled(code string) *Compiled {
	return &Compiled{code: code}
}

// Code returns the source text.
func (c *Compiled) Code() string { return c.code }

// Program constructs the program on first use.
func (c *Compiled) Program(ctx context.Context) (*Program, error) {
	c.once.Do(func() {
		c.prog, c.err = Compile(ctx, c.code)
	})
	return c.prog, c.err
}
