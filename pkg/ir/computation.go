package ir

import (
	"github.com/rtohid/tiramisu/pkg/errs"
	"github.com/rtohid/tiramisu/pkg/isl"
)

// Computation is one statement of spec.md §3: an iteration domain, a
// schedule (initialized to identity), an optional access relation, and an
// opaque body expression.
type Computation struct {
	Name string

	IterationDomain isl.Set
	Schedule        isl.Map
	Access          *isl.Map
	TimeProcessor   *isl.Set

	Body        Expr
	Schedulable bool
	Elem        ElementType

	cachedStoreStmt interface{}
	cachedIndexExpr interface{}

	parent *Function
}

// NewComputation parses iterSpaceText, adopts its tuple name, registers the
// resulting Computation with fn, and installs the identity schedule
// (spec.md §4.3). When schedulable is false, the computation is a "wrapper"
// around an input: it carries no body and is skipped by AST lowering's
// leaf-substitution step.
func NewComputation(fn *Function, iterSpaceText string, body Expr, schedulable bool, elem ElementType) (*Computation, error) {
	if fn == nil {
		return nil, errs.Invalid("<computation>", "computation requires a non-null parent function")
	}

	domain, err := isl.NewSet(fn.Context(), iterSpaceText)
	if err != nil {
		return nil, err
	}

	name := domain.GetTupleName()
	if name == "" {
		return nil, errs.Invalid("<computation>", "iteration space must carry a non-empty tuple name")
	}

	if schedulable && body == nil {
		return nil, errs.Invalid(name, "schedulable computation requires a body expression")
	}

	c := &Computation{
		Name:            name,
		IterationDomain: domain,
		Body:            body,
		Schedulable:     schedulable,
		Elem:            elem,
		parent:          fn,
	}

	if err := fn.registerComputation(c); err != nil {
		return nil, err
	}

	c.installIdentitySchedule()

	if fn.options.AutoDataMapping {
		c.rederiveAccess()
	}

	fn.logger.WithField("computation", name).WithField("schedulable", schedulable).Debug("declared computation")

	return c, nil
}

func (c *Computation) installIdentitySchedule() {
	sched := isl.MapIdentity(c.IterationDomain.GetSpace(), c.IterationDomain.GetTupleName())
	sched = isl.RestrictDomain(sched, c.IterationDomain)
	sched = isl.SetTupleNameMap(sched, isl.Range, "")
	c.Schedule = isl.CoalesceMap(sched)
}

// rederiveAccess implements "storage follows scheduling" (spec.md §4.4): the
// access relation is recomputed as the current schedule with its range
// tuple renamed to the previously bound buffer's name. A computation that
// has never been bound has no access relation to rederive and is left
// untouched; BindTo performs the first binding explicitly.
func (c *Computation) rederiveAccess() {
	if c.Access == nil {
		return
	}

	bufName := c.Access.GetTupleName(isl.Range)
	derived := isl.SetTupleNameMap(c.Schedule, isl.Range, bufName)
	c.Access = &derived
}

// SetScheduleText installs scheduleText as c's schedule directly, bypassing
// tile/split/interchange/after. Mirrors the escape hatch the original
// implementation exposes alongside its transformation API, for callers (test
// fixtures chief among them) that already know the exact schedule map they
// want rather than a chain of transformations that produces it. The map's
// domain must name and range over exactly c's iteration space.
func (c *Computation) SetScheduleText(scheduleText string) error {
	if err := c.parent.RequireTransformable(); err != nil {
		return err
	}

	sched, err := isl.NewMap(c.parent.Context(), scheduleText)
	if err != nil {
		return err
	}

	if sched.GetTupleName(isl.Domain) != c.Name {
		return errs.Mismatch(c.Name, "schedule domain tuple %q does not name this computation", sched.GetTupleName(isl.Domain))
	}

	if len(sched.DomainSpace()) != len(c.IterationDomain.GetSpace()) {
		return errs.Mismatch(c.Name, "schedule domain has %d dims, iteration space has %d", len(sched.DomainSpace()), len(c.IterationDomain.GetSpace()))
	}

	c.Schedule = sched

	if c.parent.options.AutoDataMapping {
		c.rederiveAccess()
	}

	c.parent.logger.WithField("computation", c.Name).Debug("installed schedule from text")

	return nil
}

// Parent returns the owning function.
func (c *Computation) Parent() *Function { return c.parent }
