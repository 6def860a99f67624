package llvmstmt

import (
	"testing"

	llvmir "github.com/llir/llvm/ir"

	"github.com/rtohid/tiramisu/pkg/ir"
	"github.com/rtohid/tiramisu/pkg/lower"
	"github.com/rtohid/tiramisu/pkg/schedule"
)

func buildPointwiseAdd(t *testing.T) (*ir.Function, *Builder) {
	t.Helper()

	fn, err := ir.New("pointwise_add")
	if err != nil {
		t.Fatal(err)
	}

	elem := ir.ElementType{Width: 32, Signed: true}

	inputBuf, err := ir.NewBuffer(fn, "input", []int64{10, 20}, elem, ir.Input)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := ir.NewBuffer(fn, "output", []int64{10, 20}, elem, ir.Output); err != nil {
		t.Fatal(err)
	}

	builder := NewBuilder()

	i := builder.IterExpr("i")
	j := builder.IterExpr("j")

	flatIndex := builder.Add(builder.Mul(i, builder.ConstExpr(inputBuf.Sizes[1])), j)
	loaded := builder.LoadExpr(inputBuf.Name, flatIndex)
	body := builder.Add(loaded, builder.ConstExpr(4))

	output, err := ir.NewComputation(fn, "{ S[i,j] : 0 <= i < 10 and 0 <= j < 20 }", body, true, elem)
	if err != nil {
		t.Fatal(err)
	}

	if err := schedule.BindTo(output, "output"); err != nil {
		t.Fatal(err)
	}

	return fn, builder
}

func TestEmitProducesFunctionWithOneParamPerArgumentBuffer(t *testing.T) {
	fn, builder := buildPointwiseAdd(t)

	stmt, err := lower.Lower(fn, builder)
	if err != nil {
		t.Fatal(err)
	}

	module := llvmir.NewModule()

	llFunc, err := Emit(module, fn.Name, fn, stmt)
	if err != nil {
		t.Fatal(err)
	}

	if len(llFunc.Params) != 2 {
		t.Fatalf("expected 2 params (input, output), got %d", len(llFunc.Params))
	}

	if len(llFunc.Blocks) == 0 {
		t.Fatal("expected Emit to produce at least one basic block")
	}

	if len(module.Funcs) != 1 {
		t.Fatalf("expected the function to be registered on the module, got %d funcs", len(module.Funcs))
	}

	if module.String() == "" {
		t.Fatal("expected a non-empty textual IR rendering")
	}
}

func TestEmitRejectsStatementFromAnotherBuilder(t *testing.T) {
	fn, err := ir.New("f")
	if err != nil {
		t.Fatal(err)
	}

	module := llvmir.NewModule()

	if _, err := Emit(module, fn.Name, fn, foreignStmt{}); err == nil {
		t.Fatal("expected an error for a statement not built by this package")
	}
}

type foreignStmt struct{}
