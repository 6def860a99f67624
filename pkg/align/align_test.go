package align

import (
	"testing"

	"github.com/rtohid/tiramisu/pkg/ir"
	"github.com/rtohid/tiramisu/pkg/isl"
	"github.com/rtohid/tiramisu/pkg/schedule"
)

type leafExpr struct{}

func (leafExpr) Substitute(string, ir.Expr) ir.Expr { return leafExpr{} }

func newTestFunction(t *testing.T) (*ir.Function, *ir.Computation, *ir.Computation) {
	t.Helper()

	fn, err := ir.New("f")
	if err != nil {
		t.Fatal(err)
	}

	elem := ir.ElementType{Width: 32, Signed: true}

	a, err := ir.NewComputation(fn, "{ A[i] : 0 <= i < 10 }", leafExpr{}, true, elem)
	if err != nil {
		t.Fatal(err)
	}

	b, err := ir.NewComputation(fn, "{ B[i,j] : 0 <= i < 10 and 0 <= j < 5 }", leafExpr{}, true, elem)
	if err != nil {
		t.Fatal(err)
	}

	return fn, a, b
}

func TestGetMaxSchedulesRangeDim(t *testing.T) {
	fn, _, _ := newTestFunction(t)

	if got := GetMaxSchedulesRangeDim(fn); got != 2 {
		t.Fatalf("expected max range dim 2, got %d", got)
	}
}

func TestAlignSchedulesPadsToCommonDimensionality(t *testing.T) {
	fn, a, b := newTestFunction(t)

	AlignSchedules(fn)

	if a.Schedule.GetDimCount() != 2 {
		t.Fatalf("expected a's schedule to be padded to 2 dims, got %d", a.Schedule.GetDimCount())
	}

	if b.Schedule.GetDimCount() != 2 {
		t.Fatalf("expected b's schedule to stay at 2 dims, got %d", b.Schedule.GetDimCount())
	}
}

func TestAlignSchedulesIsIdempotent(t *testing.T) {
	fn, a, _ := newTestFunction(t)

	AlignSchedules(fn)

	first := a.Schedule.String()

	AlignSchedules(fn)

	if a.Schedule.String() != first {
		t.Fatal("expected a second AlignSchedules call to be a no-op")
	}
}

func TestAlignSchedulesFreezesFunction(t *testing.T) {
	fn, _, _ := newTestFunction(t)

	AlignSchedules(fn)

	if fn.Phase() != ir.Frozen {
		t.Fatalf("expected AlignSchedules to freeze the function, got phase %v", fn.Phase())
	}
}

func TestGenTimeProcessorDomainUnionIsNonEmpty(t *testing.T) {
	fn, _, _ := newTestFunction(t)

	AlignSchedules(fn)

	union := GenTimeProcessorDomain(fn)
	if isl.IsEmpty(union) {
		t.Fatal("expected a non-empty time-processor domain")
	}
}

func TestAutoDataMappingRederivesAccessAfterTransform(t *testing.T) {
	fn, a, _ := newTestFunction(t)

	if !fn.Options().AutoDataMapping {
		t.Skip("auto_data_mapping disabled in this environment")
	}

	if err := schedule.BindTo(a, "bufA"); err != nil {
		t.Fatal(err)
	}

	before := a.Access.String()

	if err := schedule.Split(a, 0, 2); err != nil {
		t.Fatal(err)
	}

	if a.Access.String() == before {
		t.Fatal("expected the access relation to change after a schedule transformation under auto_data_mapping")
	}

	if a.Access.GetTupleName(isl.Range) != "bufA" {
		t.Fatal("expected the access relation's range tuple name to still be the bound buffer")
	}
}
