package ir

import "github.com/rtohid/tiramisu/pkg/errs"

// Invariant is a named symbolic value constant over the execution of a
// function (spec.md §3). Invariants become LetStmt bindings wrapping the
// lowered body (spec.md §4.6 step 5).
type Invariant struct {
	Name string
	Body Expr

	parent *Function
}

// NewInvariant constructs an invariant and registers it with fn. Names must
// be unique across invariants, and Body must be defined (non-nil).
func NewInvariant(fn *Function, name string, body Expr) (*Invariant, error) {
	if fn == nil {
		return nil, errs.Invalid(name, "invariant requires a non-null parent function")
	}

	if name == "" {
		return nil, errs.Invalid("<invariant>", "invariant name must be non-empty")
	}

	if body == nil {
		return nil, errs.Invalid(name, "invariant body expression must be defined")
	}

	if _, exists := fn.invariants[name]; exists {
		return nil, errs.Invalid(name, "duplicate invariant name")
	}

	inv := &Invariant{Name: name, Body: body, parent: fn}
	fn.invariants[name] = inv
	fn.invariantOrder = append(fn.invariantOrder, name)

	fn.logger.WithField("invariant", name).Debug("declared invariant")

	return inv, nil
}
