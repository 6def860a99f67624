package llvmstmt

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"

	"github.com/rtohid/tiramisu/pkg/hoststmt"
	tir "github.com/rtohid/tiramisu/pkg/ir"
)

// Stmt is the local marker every llvmstmt statement node implements: it
// only needs to realize itself against a real github.com/llir/llvm block
// once Emit has a function to build into.
type Stmt interface {
	build(env *emitEnv) *ir.Block
}

type blockStmt struct{ stmts []Stmt }

func (s blockStmt) build(env *emitEnv) *ir.Block {
	for _, c := range s.stmts {
		env.cur = c.build(env)
	}

	return env.cur
}

type storeStmt struct {
	buffer string
	index  Expr
	value  Expr
}

func (s storeStmt) build(env *emitEnv) *ir.Block {
	ptr := env.bufferElemPtr(s.buffer, s.index.build(env))
	env.cur.NewStore(s.value.build(env), ptr)

	return env.cur
}

type letStmt struct {
	name  string
	value Expr
	body  Stmt
}

func (s letStmt) build(env *emitEnv) *ir.Block {
	env.bind(s.name, s.value.build(env))

	return s.body.build(env)
}

type ifStmt struct {
	cond Expr
	then Stmt
	els  Stmt
}

func (s ifStmt) build(env *emitEnv) *ir.Block {
	cond := s.cond.build(env)

	thenBlk := env.fn.NewBlock(env.freshName("if.then"))
	mergeBlk := env.fn.NewBlock(env.freshName("if.merge"))

	var elseBlk *ir.Block
	if s.els != nil {
		elseBlk = env.fn.NewBlock(env.freshName("if.else"))
	} else {
		elseBlk = mergeBlk
	}

	env.cur.NewCondBr(cond, thenBlk, elseBlk)

	env.cur = thenBlk
	env.cur = s.then.build(env)
	env.cur.NewBr(mergeBlk)

	if s.els != nil {
		env.cur = elseBlk
		env.cur = s.els.build(env)
		env.cur.NewBr(mergeBlk)
	}

	env.cur = mergeBlk

	return env.cur
}

// forStmt is emitted with alloca-backed induction variables rather than
// phi nodes — a naive but correct lowering, the same tradeoff the teacher
// source (src/generate/generator.go) leaves as a TODO for a real backend.
// kind is stored on the node but build does not read it: no loop metadata
// is emitted, and the control flow is always a plain conditional-branch loop.
type forStmt struct {
	iter  string
	lower Expr
	upper Expr
	kind  hoststmt.LoopKind
	body  Stmt
}

func (s forStmt) build(env *emitEnv) *ir.Block {
	headerBlk := env.fn.NewBlock(env.freshName("for.header"))
	bodyBlk := env.fn.NewBlock(env.freshName("for.body"))
	exitBlk := env.fn.NewBlock(env.freshName("for.exit"))

	slot := env.cur.NewAlloca(types.I64)
	env.cur.NewStore(s.lower.build(env), slot)
	env.cur.NewBr(headerBlk)

	env.cur = headerBlk
	cur := env.cur.NewLoad(types.I64, slot)
	env.bind(s.iter, cur)
	cond := env.cur.NewICmp(enum.IPredSLT, cur, s.upper.build(env))
	env.cur.NewCondBr(cond, bodyBlk, exitBlk)

	env.cur = bodyBlk
	env.cur = s.body.build(env)

	next := env.cur.NewAdd(env.lookup(s.iter), constant.NewInt(types.I64, 1))
	env.cur.NewStore(next, slot)
	env.cur.NewBr(headerBlk)

	env.cur = exitBlk

	return env.cur
}

// --- Builder statement methods ---

// LetStmt binds name to value for the remainder of body.
func (b *Builder) LetStmt(name string, value tir.Expr, body tir.Stmt) tir.Stmt {
	return letStmt{name: name, value: asExpr(value), body: asStmt(body)}
}

// ForLoop builds a [lower, upper) loop over iterName, tagged with kind.
func (b *Builder) ForLoop(iterName string, lower, upper tir.Expr, kind hoststmt.LoopKind, body tir.Stmt) tir.Stmt {
	return forStmt{iter: iterName, lower: asExpr(lower), upper: asExpr(upper), kind: kind, body: asStmt(body)}
}

// IfThenElse builds a guarded statement; els may be nil.
func (b *Builder) IfThenElse(cond tir.Expr, then, els tir.Stmt) tir.Stmt {
	var elsStmt Stmt
	if els != nil {
		elsStmt = asStmt(els)
	}

	return ifStmt{cond: asExpr(cond), then: asStmt(then), els: elsStmt}
}

// Block sequences stmts.
func (b *Builder) Block(stmts []tir.Stmt) tir.Stmt {
	out := make([]Stmt, len(stmts))
	for i, s := range stmts {
		out[i] = asStmt(s)
	}

	return blockStmt{stmts: out}
}

// Store writes value to buffer[index].
func (b *Builder) Store(bufferName string, index, value tir.Expr) tir.Stmt {
	return storeStmt{buffer: bufferName, index: asExpr(index), value: asExpr(value)}
}

func asStmt(s tir.Stmt) Stmt {
	if s == nil {
		return blockStmt{}
	}

	st, ok := s.(Stmt)
	if !ok {
		panic("llvmstmt: statement was not built by this package's Builder")
	}

	return st
}
