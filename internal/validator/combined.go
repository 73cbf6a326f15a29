package validator

import "fmt"

// Check is one validation layer.
type Check func(code string) Report

// Validator runs a fixed list of layers in order.
type Validator struct {
	checks []Check
}

// Option customises a Validator.
type Option func(*Validator)

// WithCheck appends an extra layer after the built-in three.
func WithCheck(c Check) Option {
	return func(v *Validator) {
		if c != nil {
			v.checks = append(v.checks, c)
		}
	}
}

// New returns a validator running syntax, security, and structure checks
// followed by any extra layers.
func New(opts ...Option) *Validator {
	v := &Validator{checks: []Check{CheckSyntax, CheckSecurity, CheckStructure}}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate runs every layer, even after one fails, so the caller receives the
// complete diagnostic set in a single pass.
func (v *Validator) Validate(code string) Result {
	res := Result{Valid: true}
	for _, check := range v.checks {
		rep := check(code)
		if !rep.OK() {
			res.Valid = false
			res.Errors = append(res.Errors, rep.Prefixed()...)
		}
	}
	return res
}

// ValidateAll runs the three built-in layers.
func ValidateAll(code string) Result {
	return New().Validate(code)
}

// String renders the result for logs.
func (r Result) String() string {
	if r.Valid {
		return "valid"
	}
	return fmt.Sprintf("invalid (%d issues)", len(r.Errors))
}
