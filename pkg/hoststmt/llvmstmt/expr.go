// Package llvmstmt is a reference implementation of pkg/hoststmt.Builder
// (spec.md §4.7), used by tests and by cmd/tiramisudump's codegen dump. It
// is enrichment from ComedicChimera-chai's src/generate/generator.go, the
// only repo in the example pack that builds an imperative/SSA tree from a
// compiler IR, adapted from a single TODO-stub Generate method into a real
// expression/statement builder plus an LLVM emission pass.
//
// Builder methods never touch an *ir.Block directly: they build a small,
// substitutable expression/statement tree (so pkg/lower's leaf
// substitution and access pullback can still rewrite it), deferring actual
// instruction emission to Emit, which walks the finished tree once and
// lowers it into a real github.com/llir/llvm function body.
package llvmstmt

import (
	"math/big"

	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	tir "github.com/rtohid/tiramisu/pkg/ir"
)

// Expr is the concrete node type every llvmstmt expression implements: the
// opaque tir.Expr substitution contract, plus the ability to realize itself
// as a github.com/llir/llvm value once placed in a real block by Emit.
type Expr interface {
	tir.Expr
	build(env *emitEnv) value.Value
}

type iterRef struct{ name string }

func (e iterRef) Substitute(name string, value tir.Expr) tir.Expr {
	if e.name == name {
		return value
	}

	return e
}

func (e iterRef) build(env *emitEnv) value.Value { return env.lookup(e.name) }

type constExpr struct{ v *big.Int }

func (e constExpr) Substitute(string, tir.Expr) tir.Expr { return e }

func (e constExpr) build(*emitEnv) value.Value {
	return constant.NewInt(types.I64, e.v.Int64())
}

type binExpr struct {
	op   string
	a, b Expr
}

func (e binExpr) Substitute(name string, val tir.Expr) tir.Expr {
	return binExpr{op: e.op, a: subExpr(e.a, name, val), b: subExpr(e.b, name, val)}
}

func (e binExpr) build(env *emitEnv) value.Value {
	a, b := e.a.build(env), e.b.build(env)

	switch e.op {
	case "add":
		return env.cur.NewAdd(a, b)
	case "sub":
		return env.cur.NewSub(a, b)
	case "mul":
		return env.cur.NewMul(a, b)
	case "ge":
		return env.cur.NewICmp(enum.IPredSGE, a, b)
	case "eq":
		return env.cur.NewICmp(enum.IPredEQ, a, b)
	default:
		panic("llvmstmt: unknown binary op " + e.op)
	}
}

type castExpr struct {
	elem tir.ElementType
	a    Expr
}

func (e castExpr) Substitute(name string, val tir.Expr) tir.Expr {
	return castExpr{elem: e.elem, a: subExpr(e.a, name, val)}
}

func (e castExpr) build(env *emitEnv) value.Value {
	v := e.a.build(env)
	to := llvmType(e.elem)

	from, ok := v.Type().(*types.IntType)
	if !ok {
		return v
	}

	toInt, ok := to.(*types.IntType)
	if !ok {
		return v
	}

	switch {
	case toInt.BitSize > from.BitSize && e.elem.Signed:
		return env.cur.NewSExt(v, to)
	case toInt.BitSize > from.BitSize:
		return env.cur.NewZExt(v, to)
	case toInt.BitSize < from.BitSize:
		return env.cur.NewTrunc(v, to)
	default:
		return v
	}
}

type loadExpr struct {
	buffer string
	index  Expr
}

func (e loadExpr) Substitute(name string, val tir.Expr) tir.Expr {
	return loadExpr{buffer: e.buffer, index: subExpr(e.index, name, val)}
}

func (e loadExpr) build(env *emitEnv) value.Value {
	ptr := env.bufferElemPtr(e.buffer, e.index.build(env))

	return env.cur.NewLoad(env.bufferElemType(e.buffer), ptr)
}

func subExpr(e Expr, name string, val tir.Expr) Expr {
	out := e.Substitute(name, val)

	ex, ok := out.(Expr)
	if !ok {
		panic("llvmstmt: Substitute returned a non-llvmstmt expression")
	}

	return ex
}

// llvmType maps a Buffer/cast element type onto the matching LLVM integer or
// floating-point type.
func llvmType(elem tir.ElementType) types.Type {
	if elem.FloatPoint {
		if elem.Width <= 32 {
			return types.Float
		}

		return types.Double
	}

	switch {
	case elem.Width <= 1:
		return types.I1
	case elem.Width <= 8:
		return types.I8
	case elem.Width <= 16:
		return types.I16
	case elem.Width <= 32:
		return types.I32
	default:
		return types.I64
	}
}

// --- Builder expression methods ---

// IterExpr returns a reference to the named loop iterator (or LetStmt
// binding), resolved against the enclosing scope at Emit time.
func (b *Builder) IterExpr(iterName string) tir.Expr { return iterRef{name: iterName} }

// ConstExpr returns a constant integer expression.
func (b *Builder) ConstExpr(v int64) tir.Expr { return constExpr{v: big.NewInt(v)} }

// Add returns a + b.
func (b *Builder) Add(a, bx tir.Expr) tir.Expr { return binExpr{op: "add", a: asExpr(a), b: asExpr(bx)} }

// Sub returns a - b.
func (b *Builder) Sub(a, bx tir.Expr) tir.Expr { return binExpr{op: "sub", a: asExpr(a), b: asExpr(bx)} }

// Mul returns a * b.
func (b *Builder) Mul(a, bx tir.Expr) tir.Expr { return binExpr{op: "mul", a: asExpr(a), b: asExpr(bx)} }

// GeExpr returns the boolean expression a >= b.
func (b *Builder) GeExpr(a, bx tir.Expr) tir.Expr { return binExpr{op: "ge", a: asExpr(a), b: asExpr(bx)} }

// EqExpr returns the boolean expression a == b.
func (b *Builder) EqExpr(a, bx tir.Expr) tir.Expr { return binExpr{op: "eq", a: asExpr(a), b: asExpr(bx)} }

// CastExpr returns expr converted to elem's LLVM type. Only integer-to-integer
// conversions are emitted; any other combination yields the value unchanged.
func (b *Builder) CastExpr(elem tir.ElementType, expr tir.Expr) tir.Expr {
	return castExpr{elem: elem, a: asExpr(expr)}
}

// LoadExpr returns the value stored at index within the named buffer.
func (b *Builder) LoadExpr(bufferName string, index tir.Expr) tir.Expr {
	return loadExpr{buffer: bufferName, index: asExpr(index)}
}

func asExpr(e tir.Expr) Expr {
	ex, ok := e.(Expr)
	if !ok {
		panic("llvmstmt: expression was not built by this package's Builder")
	}

	return ex
}
