package llvmstmt

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/rtohid/tiramisu/pkg/errs"
	tir "github.com/rtohid/tiramisu/pkg/ir"
)

// Builder is the reference hoststmt.Builder: its methods build a
// substitutable node tree (expr.go, stmt.go); Emit lowers a finished tree
// into a real function body.
type Builder struct{}

// NewBuilder constructs a stateless llvmstmt Builder.
func NewBuilder() *Builder { return &Builder{} }

// bufferInfo is what Emit needs about one of fn's buffers to build a
// pointer parameter and address into it.
type bufferInfo struct {
	elemType types.Type
}

type emitEnv struct {
	fn      *ir.Func
	cur     *ir.Block
	locals  map[string]value.Value
	ptrs    map[string]value.Value
	buffers map[string]bufferInfo
	counter int
}

func (e *emitEnv) bind(name string, v value.Value) { e.locals[name] = v }

func (e *emitEnv) lookup(name string) value.Value {
	v, ok := e.locals[name]
	if !ok {
		panic("llvmstmt: unbound identifier " + name)
	}

	return v
}

func (e *emitEnv) freshName(prefix string) string {
	e.counter++

	return fmt.Sprintf("%s.%d", prefix, e.counter)
}

func (e *emitEnv) bufferElemType(name string) types.Type {
	info, ok := e.buffers[name]
	if !ok {
		panic("llvmstmt: unknown buffer " + name)
	}

	return info.elemType
}

func (e *emitEnv) bufferElemPtr(name string, index value.Value) value.Value {
	ptr, ok := e.ptrs[name]
	if !ok {
		panic("llvmstmt: unknown buffer " + name)
	}

	return e.cur.NewGetElementPtr(e.bufferElemType(name), ptr, index)
}

// Emit lowers stmt (built via a Builder against fn's buffers) into a new
// void function named funcName in module, with one pointer parameter per
// argument buffer (input and output, in fn's declared order). It returns
// the constructed function, ready for module.String() or further linking.
func Emit(module *ir.Module, funcName string, fn *tir.Function, stmt tir.Stmt) (*ir.Func, error) {
	top, ok := stmt.(Stmt)
	if !ok {
		return nil, errs.Invalid(funcName, "statement was not built by pkg/hoststmt/llvmstmt")
	}

	argBufs := fn.ArgumentBuffers()
	params := make([]*ir.Param, len(argBufs))
	buffers := make(map[string]bufferInfo, len(argBufs))
	ptrs := make(map[string]value.Value, len(argBufs))

	for i, buf := range argBufs {
		elemType := llvmType(buf.Elem)
		params[i] = ir.NewParam(buf.Name, types.NewPointer(elemType))
		buffers[buf.Name] = bufferInfo{elemType: elemType}
	}

	llFunc := module.NewFunc(funcName, types.Void, params...)
	entry := llFunc.NewBlock("entry")

	for i, buf := range argBufs {
		ptrs[buf.Name] = params[i]
	}

	env := &emitEnv{
		fn:      llFunc,
		cur:     entry,
		locals:  make(map[string]value.Value),
		ptrs:    ptrs,
		buffers: buffers,
	}

	final := top.build(env)
	final.NewRet(nil)

	return llFunc, nil
}
