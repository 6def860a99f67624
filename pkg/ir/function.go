// Package ir is the data model of spec.md §3: Function, Computation,
// Buffer, and Invariant, plus the lifecycle-phase bookkeeping spec.md §5
// requires (Declaration -> Transformation -> Frozen).
package ir

import (
	"github.com/sirupsen/logrus"

	"github.com/rtohid/tiramisu/pkg/errs"
	"github.com/rtohid/tiramisu/pkg/isl"
	"github.com/rtohid/tiramisu/pkg/options"
)

// Phase is one of the three monotonic lifecycle phases spec.md §5 defines.
type Phase int

const (
	// Declaration is the phase in which computations, buffers, and
	// invariants are created.
	Declaration Phase = iota
	// Transformation is the phase in which schedules are mutated.
	Transformation
	// Frozen begins at the first call to AlignSchedules; no further
	// transformation is permitted.
	Frozen
)

// Function is the top-level entity of spec.md §3: a name, its argument
// buffers, invariants, a body of computations, per-computation parallel and
// vector tagging, and a private algebra context.
type Function struct {
	Name string

	ctx *isl.Context

	buffers       map[string]*Buffer
	argumentOrder []string

	invariants     map[string]*Invariant
	invariantOrder []string

	computations     map[string]*Computation
	computationOrder []string

	parallelDimensions map[string]int
	vectorDimensions   map[string]int

	options options.Options
	phase   Phase

	cachedAST  *isl.Node
	cachedStmt interface{}

	logger *logrus.Entry
}

// New constructs an empty function, taking a snapshot of the process-wide
// auto_data_mapping default (spec.md §4.4) that this function then owns for
// its lifetime.
func New(name string) (*Function, error) {
	if name == "" {
		return nil, errs.Invalid("<function>", "function name must be non-empty")
	}

	fn := &Function{
		Name:               name,
		ctx:                isl.NewContext(),
		buffers:            make(map[string]*Buffer),
		invariants:         make(map[string]*Invariant),
		computations:       make(map[string]*Computation),
		parallelDimensions: make(map[string]int),
		vectorDimensions:   make(map[string]int),
		options:            options.Default(),
		phase:              Declaration,
		logger:             logrus.WithField("function", name),
	}

	fn.logger.Debug("constructed function")

	return fn, nil
}

// Context returns the function's private algebra context.
func (fn *Function) Context() *isl.Context { return fn.ctx }

// Options returns the function's captured options snapshot.
func (fn *Function) Options() options.Options { return fn.options }

// Phase returns the function's current lifecycle phase.
func (fn *Function) Phase() Phase { return fn.phase }

// RequireTransformable fails with PhaseViolation once the function has
// entered Frozen.
func (fn *Function) RequireTransformable() error {
	if fn.phase == Frozen {
		return errs.Phase(fn.Name, "schedule transformation attempted on a frozen function")
	}

	fn.phase = Transformation

	return nil
}

// Freeze transitions the function into the Frozen phase. It is idempotent.
func (fn *Function) Freeze() { fn.phase = Frozen }

// ComputationByName looks up a computation by name.
func (fn *Function) ComputationByName(name string) (*Computation, bool) {
	return fn.computationByName(name)
}

func (fn *Function) computationByName(name string) (*Computation, bool) {
	c, ok := fn.computations[name]

	return c, ok
}

func (fn *Function) bufferByName(name string) (*Buffer, bool) {
	b, ok := fn.buffers[name]

	return b, ok
}

// BufferByName looks up a buffer by name.
func (fn *Function) BufferByName(name string) (*Buffer, bool) {
	return fn.bufferByName(name)
}

// InvariantByName looks up an invariant by name.
func (fn *Function) InvariantByName(name string) (*Invariant, bool) {
	i, ok := fn.invariants[name]

	return i, ok
}

// Computations returns the function's computations in declaration order.
func (fn *Function) Computations() []*Computation {
	out := make([]*Computation, len(fn.computationOrder))
	for i, name := range fn.computationOrder {
		out[i] = fn.computations[name]
	}

	return out
}

// Invariants returns the function's invariants in declaration order.
func (fn *Function) Invariants() []*Invariant {
	out := make([]*Invariant, len(fn.invariantOrder))
	for i, name := range fn.invariantOrder {
		out[i] = fn.invariants[name]
	}

	return out
}

// ArgumentBuffers returns the Input/Output buffers in declaration order.
func (fn *Function) ArgumentBuffers() []*Buffer {
	out := make([]*Buffer, len(fn.argumentOrder))
	for i, name := range fn.argumentOrder {
		out[i] = fn.buffers[name]
	}

	return out
}

// TagParallelDimension records (computation name, level) in the function's
// parallel_dimensions map. A second call naming a different level for an
// already-tagged computation is rejected (spec.md §9(b)); re-tagging the
// same level is a no-op.
func (fn *Function) TagParallelDimension(compName string, level int) error {
	return tagDimension(fn.parallelDimensions, compName, level)
}

// TagVectorDimension records (computation name, level) in the function's
// vector_dimensions map, with the same double-tagging rule as
// TagParallelDimension.
func (fn *Function) TagVectorDimension(compName string, level int) error {
	return tagDimension(fn.vectorDimensions, compName, level)
}

func tagDimension(tags map[string]int, compName string, level int) error {
	if existing, ok := tags[compName]; ok {
		if existing != level {
			return errs.Invalid(compName, "computation already tagged at level %d, cannot retag at %d", existing, level)
		}

		return nil
	}

	tags[compName] = level

	return nil
}

// ShouldParallelize reports whether loop level is the recorded parallel
// level for compName.
func (fn *Function) ShouldParallelize(compName string, level int) bool {
	l, ok := fn.parallelDimensions[compName]

	return ok && l == level
}

// ShouldVectorize reports whether loop level is the recorded vector level
// for compName.
func (fn *Function) ShouldVectorize(compName string, level int) bool {
	l, ok := fn.vectorDimensions[compName]

	return ok && l == level
}

// CachedAST returns the function's cached AST, if lowering has run.
func (fn *Function) CachedAST() (*isl.Node, bool) {
	if fn.cachedAST == nil {
		return nil, false
	}

	return fn.cachedAST, true
}

// SetCachedAST installs the function's cached AST.
func (fn *Function) SetCachedAST(n *isl.Node) { fn.cachedAST = n }

// CachedStmt returns the function's cached lowered statement, if any.
func (fn *Function) CachedStmt() (interface{}, bool) {
	if fn.cachedStmt == nil {
		return nil, false
	}

	return fn.cachedStmt, true
}

// SetCachedStmt installs the function's cached lowered statement.
func (fn *Function) SetCachedStmt(s interface{}) { fn.cachedStmt = s }

func (fn *Function) registerComputation(c *Computation) error {
	if _, exists := fn.bufferByName(c.Name); exists {
		return errs.Invalid(c.Name, "duplicate buffer or computation name")
	}

	if _, exists := fn.computationByName(c.Name); exists {
		return errs.Invalid(c.Name, "duplicate computation name")
	}

	fn.computations[c.Name] = c
	fn.computationOrder = append(fn.computationOrder, c.Name)

	return nil
}
