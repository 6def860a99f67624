package lower

import (
	"reflect"
	"testing"

	"github.com/rtohid/tiramisu/pkg/hoststmt/llvmstmt"
	"github.com/rtohid/tiramisu/pkg/ir"
	"github.com/rtohid/tiramisu/pkg/isl"
	"github.com/rtohid/tiramisu/pkg/schedule"
)

func buildPointwiseAdd(t *testing.T) (*ir.Function, *ir.Computation) {
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

	builder := llvmstmt.NewBuilder()

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

	return fn, output
}

func TestLowerProducesCachedAST(t *testing.T) {
	fn, _ := buildPointwiseAdd(t)
	builder := llvmstmt.NewBuilder()

	if _, err := Lower(fn, builder); err != nil {
		t.Fatal(err)
	}

	ast, ok := fn.CachedAST()
	if !ok {
		t.Fatal("expected Lower to cache an AST on the function")
	}

	if ast.Kind != isl.ForNode {
		t.Fatalf("expected the outermost node to be a For loop, got %v", ast.Kind)
	}
}

func TestLowerRejectsMissingAccessRelation(t *testing.T) {
	fn, err := ir.New("f")
	if err != nil {
		t.Fatal(err)
	}

	elem := ir.ElementType{Width: 32, Signed: true}
	builder := llvmstmt.NewBuilder()

	if _, err := ir.NewComputation(fn, "{ S[i] : 0 <= i < 10 }", builder.ConstExpr(0), true, elem); err != nil {
		t.Fatal(err)
	}

	if _, err := Lower(fn, builder); err == nil {
		t.Fatal("expected an error: schedulable computation has no bound buffer")
	}
}

func TestLowerPropagatesParallelTag(t *testing.T) {
	fn, output := buildPointwiseAdd(t)

	if err := schedule.Tile(output, 0, 1, 2, 2); err != nil {
		t.Fatal(err)
	}

	if err := schedule.TagParallelDimension(output, 0); err != nil {
		t.Fatal(err)
	}

	builder := llvmstmt.NewBuilder()

	if _, err := Lower(fn, builder); err != nil {
		t.Fatal(err)
	}

	ast, ok := fn.CachedAST()
	if !ok {
		t.Fatal("expected a cached AST")
	}

	if !ast.IsParallel {
		t.Fatal("expected the outermost loop to carry the parallel tag after tiling level 0")
	}
}

func TestLowerIsDeterministic(t *testing.T) {
	fn, _ := buildPointwiseAdd(t)

	first, err := Lower(fn, llvmstmt.NewBuilder())
	if err != nil {
		t.Fatal(err)
	}

	second, err := Lower(fn, llvmstmt.NewBuilder())
	if err != nil {
		t.Fatal(err)
	}

	if first == nil || second == nil {
		t.Fatal("expected Lower to return a non-nil host statement both times")
	}

	if !reflect.DeepEqual(first, second) {
		t.Fatal("expected two Lower calls on the same function to produce equal host statements")
	}
}
