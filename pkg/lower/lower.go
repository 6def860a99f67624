// Package lower implements spec.md §4.6: invoking the algebra's AST
// builder, substituting leaf argument expressions into computation bodies,
// computing buffer index expressions via access-relation pullback,
// propagating parallel/vector tags onto For nodes, and converting the
// decorated AST into host statements.
//
// Grounded on pkg/asm/lower.go and pkg/asm/concretize.go's overall shape: a
// small config value, a function that walks a macro-level tree and emits a
// micro-level one, and tag-driven rewriting such as vectorizeFunction.
package lower

import (
	"math/big"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/rtohid/tiramisu/pkg/align"
	"github.com/rtohid/tiramisu/pkg/errs"
	"github.com/rtohid/tiramisu/pkg/hoststmt"
	"github.com/rtohid/tiramisu/pkg/ir"
	"github.com/rtohid/tiramisu/pkg/isl"
)

// Lower runs the full §4.6 procedure: align, materialize the time-processor
// domain, build the polyhedral AST, decorate it, and convert it into a host
// statement via builder. The result (and the AST it was built from) is
// cached on fn.
func Lower(fn *ir.Function, builder hoststmt.Builder) (ir.Stmt, error) {
	align.AlignSchedules(fn)

	union := align.GenTimeProcessorDomain(fn)
	if isl.IsEmpty(union) {
		return nil, errs.Algebra(fn.Name, "time-processor domain is empty")
	}

	for _, c := range fn.Computations() {
		if c.Schedulable && c.Access == nil {
			return nil, errs.Unbound(c.Name, "schedulable computation reached lowering without a bound access relation")
		}
	}

	leaves, err := buildLeaves(fn)
	if err != nil {
		return nil, err
	}

	ast := isl.BuildAST(leaves)
	fn.SetCachedAST(ast)

	decorate(fn, ast, 0)

	stmt, err := convert(fn, builder, ast)
	if err != nil {
		return nil, err
	}

	stmt = wrapInvariants(fn, builder, stmt)
	fn.SetCachedStmt(stmt)

	logrus.WithField("function", fn.Name).Debug("lowered function")

	return stmt, nil
}

func buildLeaves(fn *ir.Function) ([]isl.LeafDomain, error) {
	var leaves []isl.LeafDomain

	for _, c := range fn.Computations() {
		if !c.Schedulable {
			continue
		}

		if c.TimeProcessor == nil || len(c.TimeProcessor.Raw().Disjuncts) == 0 {
			return nil, errs.Algebra(c.Name, "computation has no time-processor domain")
		}

		disjunct := c.TimeProcessor.Raw().Disjuncts[0]
		domainDims := c.IterationDomain.GetSpace()

		sched := c.Schedule.Raw()
		if len(sched.Disjuncts) == 0 {
			return nil, errs.Algebra(c.Name, "computation has no schedule disjunct")
		}

		inverse := disjunctInverse(c, sched.Disjuncts[0], domainDims)

		leaves = append(leaves, isl.LeafDomain{
			Computation: c.Name,
			Disjunct:    disjunct,
			TimeDims:    c.TimeProcessor.GetSpace(),
			Inverse:     inverse,
		})
	}

	sort.Slice(leaves, func(i, j int) bool { return leaves[i].Computation < leaves[j].Computation })

	return leaves, nil
}

func disjunctInverse(c *ir.Computation, d isl.Disjunct, domainDims []string) map[string]isl.AffineExpr {
	return isl.SolveForDomainDims(d, domainDims)
}

// decorate walks For nodes top-down, tracking loop level, and marks a For
// parallel/vector when its level matches the sole enclosed computation's
// recorded tag (spec.md §4.6 step 4).
func decorate(fn *ir.Function, n *isl.Node, level int) {
	switch n.Kind {
	case isl.ForNode:
		if name := soleComputation(n); name != "" {
			n.IsParallel = fn.ShouldParallelize(name, level)
			n.IsVector = fn.ShouldVectorize(name, level)
		}

		decorate(fn, n.Body, level+1)
	case isl.IfNode:
		decorate(fn, n.Then, level)

		if n.Else != nil {
			decorate(fn, n.Else, level)
		}
	case isl.BlockNode:
		for _, c := range n.Children {
			decorate(fn, c, level)
		}
	}
}

func soleComputation(n *isl.Node) string {
	names := map[string]bool{}
	collectComputations(n, names)

	if len(names) != 1 {
		return ""
	}

	for name := range names {
		return name
	}

	return ""
}

func collectComputations(n *isl.Node, out map[string]bool) {
	switch n.Kind {
	case isl.UserLeafNode:
		out[n.Computation] = true
	case isl.ForNode:
		collectComputations(n.Body, out)
	case isl.IfNode:
		collectComputations(n.Then, out)

		if n.Else != nil {
			collectComputations(n.Else, out)
		}
	case isl.BlockNode:
		for _, c := range n.Children {
			collectComputations(c, out)
		}
	}
}

// convert walks the decorated polyhedral AST and produces the equivalent
// host statement via builder (spec.md §4.6 steps 3-4): For nodes become
// tagged for_loop calls, If nodes become guards, Block nodes sequence their
// children, and UserLeaf nodes become Store statements with the body
// expression substituted and the buffer index pulled back through the
// access relation.
func convert(fn *ir.Function, builder hoststmt.Builder, n *isl.Node) (ir.Stmt, error) {
	switch n.Kind {
	case isl.ForNode:
		body, err := convert(fn, builder, n.Body)
		if err != nil {
			return nil, err
		}

		kind := hoststmt.Serial

		switch {
		case n.IsParallel:
			kind = hoststmt.Parallel
		case n.IsVector:
			kind = hoststmt.Vectorized
		}

		lower := affineToExpr(builder, n.Lower)
		upper := affineToExpr(builder, n.Upper)

		return builder.ForLoop(n.Iterator, lower, upper, kind, body), nil
	case isl.IfNode:
		then, err := convert(fn, builder, n.Then)
		if err != nil {
			return nil, err
		}

		var els ir.Stmt

		if n.Else != nil {
			els, err = convert(fn, builder, n.Else)
			if err != nil {
				return nil, err
			}
		}

		return builder.IfThenElse(constraintExpr(builder, n.Cond), then, els), nil
	case isl.BlockNode:
		stmts := make([]ir.Stmt, len(n.Children))

		for i, c := range n.Children {
			s, err := convert(fn, builder, c)
			if err != nil {
				return nil, err
			}

			stmts[i] = s
		}

		return builder.Block(stmts), nil
	case isl.UserLeafNode:
		return convertLeaf(fn, builder, n)
	default:
		return builder.Block(nil), nil
	}
}

// convertLeaf implements spec.md §4.6 step 3: substitute the leaf's argument
// expressions into the computation's body, pull the same arguments back
// through the access relation to obtain a buffer index, and build a Store.
func convertLeaf(fn *ir.Function, builder hoststmt.Builder, n *isl.Node) (ir.Stmt, error) {
	c, ok := fn.ComputationByName(n.Computation)
	if !ok {
		return nil, errs.Algebra(n.Computation, "AST leaf names an unknown computation")
	}

	argByDomain, err := argExprsByDomainDim(c, n.ArgExprs)
	if err != nil {
		return nil, err
	}

	body := c.Body
	for name, e := range argByDomain {
		body = body.Substitute(name, affineToExpr(builder, e))
	}

	idxExprs, err := pullbackAccess(c, argByDomain)
	if err != nil {
		return nil, err
	}

	buf, ok := fn.BufferByName(c.Access.GetTupleName(isl.Range))
	if !ok {
		return nil, errs.Unbound(c.Name, "access relation names an unknown buffer")
	}

	index := flattenIndex(builder, buf, idxExprs)

	return builder.Store(buf.Name, index, body), nil
}

// argExprsByDomainDim recovers which original iteration dimension each of a
// UserLeaf's ArgExprs corresponds to. isl.BuildAST's leafNode sorts a
// LeafDomain's Inverse map by domain-dimension name before flattening it
// into the ArgExprs slice, so re-sorting the computation's own iteration
// space names reproduces the same order.
func argExprsByDomainDim(c *ir.Computation, argExprs []isl.AffineExpr) (map[string]isl.AffineExpr, error) {
	dims := append([]string{}, c.IterationDomain.GetSpace()...)
	sort.Strings(dims)

	if len(dims) != len(argExprs) {
		return nil, errs.Mismatch(c.Name, "AST leaf carries %d argument expressions for %d iteration dimensions", len(argExprs), len(dims))
	}

	out := make(map[string]isl.AffineExpr, len(dims))
	for i, name := range dims {
		out[name] = argExprs[i]
	}

	return out, nil
}

// pullbackAccess applies the computation's access relation to the argument
// vector: each access range (buffer index) dimension is solved for in terms
// of the access's domain (iteration) dimensions, then those domain
// dimensions are substituted with the corresponding argument expression.
func pullbackAccess(c *ir.Computation, argByDomain map[string]isl.AffineExpr) ([]isl.AffineExpr, error) {
	if c.Access == nil {
		return nil, errs.Unbound(c.Name, "computation has no access relation to pull back")
	}

	raw := c.Access.Raw()
	if len(raw.Disjuncts) == 0 {
		return nil, errs.Algebra(c.Name, "access relation has no disjuncts")
	}

	disjunct := raw.Disjuncts[0]
	rangeDims := c.Access.RangeSpace()
	solved := isl.SolveForDomainDims(disjunct, rangeDims)

	out := make([]isl.AffineExpr, len(rangeDims))

	for i, name := range rangeDims {
		expr, ok := solved[name]
		if !ok {
			return nil, errs.Algebra(c.Name, "access relation dimension %q could not be solved", name)
		}

		for domName, argExpr := range argByDomain {
			expr = expr.Substitute(domName, argExpr)
		}

		out[i] = expr
	}

	return out, nil
}

// affineToExpr renders a presburger.AffineExpr as host arithmetic via
// builder, one term at a time: a named dimension becomes the enclosing
// loop's own iterator expression (builder.IterExpr), scaled and summed with
// the constant term.
func affineToExpr(builder hoststmt.Builder, e isl.AffineExpr) ir.Expr {
	result := builder.ConstExpr(e.Const.Int64())

	for _, name := range e.Vars() {
		coeff := e.Coeff(name)
		term := builder.IterExpr(name)

		if coeff.Cmp(big.NewInt(1)) != 0 {
			term = builder.Mul(builder.ConstExpr(coeff.Int64()), term)
		}

		result = builder.Add(result, term)
	}

	return result
}

// constraintExpr turns a residual guard constraint (Expr = 0 or Expr >= 0)
// into a host boolean expression comparing the rendered affine expression
// against zero.
func constraintExpr(builder hoststmt.Builder, c isl.Constraint) ir.Expr {
	lhs := affineToExpr(builder, c.Expr)
	zero := builder.ConstExpr(0)

	if c.Eq {
		return builder.EqExpr(lhs, zero)
	}

	return builder.GeExpr(lhs, zero)
}

// flattenIndex linearizes a per-dimension index vector into a single
// row-major offset expression using the buffer's declared sizes, the way a
// host code generator addresses a multi-dimensional array.
func flattenIndex(builder hoststmt.Builder, buf *ir.Buffer, idxExprs []isl.AffineExpr) ir.Expr {
	strides := rowMajorStrides(buf.Sizes)

	var total ir.Expr

	for i, e := range idxExprs {
		term := affineToExpr(builder, e)

		if strides[i] != 1 {
			term = builder.Mul(term, builder.ConstExpr(strides[i]))
		}

		if total == nil {
			total = term
		} else {
			total = builder.Add(total, term)
		}
	}

	if total == nil {
		return builder.ConstExpr(0)
	}

	return total
}

func rowMajorStrides(sizes []int64) []int64 {
	strides := make([]int64, len(sizes))
	stride := int64(1)

	for i := len(sizes) - 1; i >= 0; i-- {
		strides[i] = stride
		stride *= sizes[i]
	}

	return strides
}

// wrapInvariants nests stmt inside a LetStmt per function invariant (spec.md
// §4.6 step 5), in declaration order from the outside in: the first-declared
// invariant becomes the outermost LetStmt.
func wrapInvariants(fn *ir.Function, builder hoststmt.Builder, stmt ir.Stmt) ir.Stmt {
	invariants := fn.Invariants()

	for i := len(invariants) - 1; i >= 0; i-- {
		inv := invariants[i]
		stmt = builder.LetStmt(inv.Name, inv.Body, stmt)
	}

	return stmt
}
