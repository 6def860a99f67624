// Package hoststmt is the adapter to an external imperative-statement
// builder spec.md §4.7 describes: the core consumes this interface, never
// implements it. pkg/lower is the only consumer; pkg/hoststmt/llvmstmt is a
// concrete reference implementation used by tests and by cmd/tiramisudump.
package hoststmt

import "github.com/rtohid/tiramisu/pkg/ir"

// LoopKind is the decoration a For loop carries after tag propagation
// (spec.md §4.6 step 4).
type LoopKind int

const (
	// Serial is the default, untagged loop kind.
	Serial LoopKind = iota
	// Parallel marks a loop whose level matched the enclosed computation's
	// recorded parallel level.
	Parallel
	// Vectorized marks a loop whose level matched the enclosed
	// computation's recorded vector level.
	Vectorized
	// Unrolled is available to a builder for loops it chooses to unroll;
	// the core never assigns it itself (spec.md names only Serial,
	// Parallel, Vectorized, Unrolled as the kind enum — unrolling is a
	// builder-side decision outside this core's scope).
	Unrolled
)

// Builder is the interface spec.md §4.7 names: `let_stmt`, `for_loop`,
// `if_then_else`, `block`, `store`, `load_expr`, `cast_expr`, plus integer
// arithmetic on expressions. The core makes no assumption about a
// Builder's internal representation.
type Builder interface {
	LetStmt(name string, value ir.Expr, body ir.Stmt) ir.Stmt
	ForLoop(iterName string, lower, upper ir.Expr, kind LoopKind, body ir.Stmt) ir.Stmt
	IfThenElse(cond ir.Expr, then ir.Stmt, els ir.Stmt) ir.Stmt
	Block(stmts []ir.Stmt) ir.Stmt
	Store(bufferName string, index ir.Expr, value ir.Expr) ir.Stmt
	LoadExpr(bufferName string, index ir.Expr) ir.Expr
	CastExpr(elem ir.ElementType, expr ir.Expr) ir.Expr

	// IterExpr returns the expression denoting the named For loop's own
	// iterator, used to turn an AffineExpr's symbolic dimension names into
	// concrete host expressions.
	IterExpr(iterName string) ir.Expr
	// ConstExpr returns a constant integer expression.
	ConstExpr(v int64) ir.Expr
	Add(a, b ir.Expr) ir.Expr
	Sub(a, b ir.Expr) ir.Expr
	Mul(a, b ir.Expr) ir.Expr

	// GeExpr and EqExpr build the boolean conditions if_then_else guards
	// need for a residual constraint the loop bounds alone could not
	// express (spec.md §4.6 step 2's "Extra" guard constraints).
	GeExpr(a, b ir.Expr) ir.Expr
	EqExpr(a, b ir.Expr) ir.Expr
}
