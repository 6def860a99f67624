package schedule

import (
	"testing"

	"github.com/rtohid/tiramisu/pkg/ir"
)

type leafExpr struct{}

func (leafExpr) Substitute(string, ir.Expr) ir.Expr { return leafExpr{} }

func newTestComputation(t *testing.T, domain string) (*ir.Function, *ir.Computation) {
	t.Helper()

	fn, err := ir.New("f")
	if err != nil {
		t.Fatal(err)
	}

	elem := ir.ElementType{Width: 32, Signed: true}

	c, err := ir.NewComputation(fn, domain, leafExpr{}, true, elem)
	if err != nil {
		t.Fatal(err)
	}

	return fn, c
}

func TestSplitAddsOneRangeDim(t *testing.T) {
	_, c := newTestComputation(t, "{ S[i,j] : 0 <= i < 10 and 0 <= j < 20 }")

	before := c.Schedule.GetDimCount()

	if err := Split(c, 0, 5); err != nil {
		t.Fatal(err)
	}

	after := c.Schedule.GetDimCount()
	if after != before+1 {
		t.Fatalf("expected split to add exactly one range dimension, got %d -> %d", before, after)
	}
}

func TestSplitRejectsOutOfRangeDimension(t *testing.T) {
	_, c := newTestComputation(t, "{ S[i] : 0 <= i < 10 }")

	if err := Split(c, 5, 2); err == nil {
		t.Fatal("expected an error for an out-of-range split dimension")
	}
}

func TestInterchangeIsInvolution(t *testing.T) {
	_, c := newTestComputation(t, "{ S[i,j] : 0 <= i < 10 and 0 <= j < 20 }")

	original := c.Schedule.String()

	if err := Interchange(c, 0, 1); err != nil {
		t.Fatal(err)
	}

	swapped := c.Schedule.String()
	if swapped == original {
		t.Fatal("expected interchange to change the schedule text")
	}

	if err := Interchange(c, 0, 1); err != nil {
		t.Fatal(err)
	}

	if c.Schedule.String() != original {
		t.Fatal("expected a second interchange of the same pair to restore the original schedule")
	}
}

func TestTileRejectsNonConsecutiveDimensions(t *testing.T) {
	_, c := newTestComputation(t, "{ S[i,j,k] : 0 <= i < 10 and 0 <= j < 10 and 0 <= k < 10 }")

	if err := Tile(c, 0, 2, 2, 2); err == nil {
		t.Fatal("expected an error: tile requires consecutive dimensions")
	}

	if err := Tile(c, 1, 0, 2, 2); err == nil {
		t.Fatal("expected an error: tile requires inDim0 < inDim1")
	}
}

func TestTileMatchesSplitSplitInterchange(t *testing.T) {
	_, viaTile := newTestComputation(t, "{ S[i,j] : 0 <= i < 10 and 0 <= j < 20 }")
	_, viaManual := newTestComputation(t, "{ S[i,j] : 0 <= i < 10 and 0 <= j < 20 }")

	if err := Tile(viaTile, 0, 1, 2, 4); err != nil {
		t.Fatal(err)
	}

	if err := Split(viaManual, 1, 4); err != nil {
		t.Fatal(err)
	}

	if err := Split(viaManual, 0, 2); err != nil {
		t.Fatal(err)
	}

	if err := Interchange(viaManual, 1, 2); err != nil {
		t.Fatal(err)
	}

	if viaTile.Schedule.String() != viaManual.Schedule.String() {
		t.Fatalf("tile should equal split(inDim1);split(inDim0);interchange(inDim0+1,inDim1+1):\n  tile:   %s\n  manual: %s",
			viaTile.Schedule.String(), viaManual.Schedule.String())
	}
}

func TestBindToAndRederiveAccessFollowsSchedule(t *testing.T) {
	_, c := newTestComputation(t, "{ S[i] : 0 <= i < 10 }")

	if err := BindTo(c, "buf"); err != nil {
		t.Fatal(err)
	}

	if c.Access == nil {
		t.Fatal("expected BindTo to install an access relation")
	}

	if c.Access.GetTupleName(1) != "buf" {
		t.Fatalf("expected access range tuple name %q, got %q", "buf", c.Access.GetTupleName(1))
	}

	if err := Split(c, 0, 2); err != nil {
		t.Fatal(err)
	}

	if c.Access.GetTupleName(1) != "buf" {
		t.Fatal("expected the access relation's range tuple name to survive a schedule transformation")
	}
}

func TestTagParallelDimensionRejectsConflictingRetag(t *testing.T) {
	_, c := newTestComputation(t, "{ S[i] : 0 <= i < 10 }")

	if err := TagParallelDimension(c, 0); err != nil {
		t.Fatal(err)
	}

	if err := TagParallelDimension(c, 0); err != nil {
		t.Fatalf("re-tagging the same level should be a no-op, got error: %v", err)
	}

	if err := TagParallelDimension(c, 1); err == nil {
		t.Fatal("expected an error when retagging a computation at a different level")
	}
}

func TestAfterAtRootDimensionRequiresNoPriorAlignment(t *testing.T) {
	fn, err := ir.New("f")
	if err != nil {
		t.Fatal(err)
	}

	elem := ir.ElementType{Width: 32, Signed: true}

	a, err := ir.NewComputation(fn, "{ A[i] : 0 <= i < 10 }", leafExpr{}, true, elem)
	if err != nil {
		t.Fatal(err)
	}

	b, err := ir.NewComputation(fn, "{ B[i] : 0 <= i < 10 }", leafExpr{}, true, elem)
	if err != nil {
		t.Fatal(err)
	}

	aBefore, bBefore := a.Schedule.GetDimCount(), b.Schedule.GetDimCount()

	if err := After(b, a, RootDimension); err != nil {
		t.Fatal(err)
	}

	if a.Schedule.GetDimCount() != aBefore+1 {
		t.Fatalf("expected a's schedule to gain one ordering dimension, got %d -> %d", aBefore, a.Schedule.GetDimCount())
	}

	if b.Schedule.GetDimCount() != bBefore+1 {
		t.Fatalf("expected b's schedule to gain one ordering dimension, got %d -> %d", bBefore, b.Schedule.GetDimCount())
	}
}

func TestAfterRejectsReusingAnAlreadyOrderedPosition(t *testing.T) {
	fn, err := ir.New("f")
	if err != nil {
		t.Fatal(err)
	}

	elem := ir.ElementType{Width: 32, Signed: true}

	a, err := ir.NewComputation(fn, "{ A[i] : 0 <= i < 10 }", leafExpr{}, true, elem)
	if err != nil {
		t.Fatal(err)
	}

	b, err := ir.NewComputation(fn, "{ B[i] : 0 <= i < 10 }", leafExpr{}, true, elem)
	if err != nil {
		t.Fatal(err)
	}

	c, err := ir.NewComputation(fn, "{ C[i] : 0 <= i < 10 }", leafExpr{}, true, elem)
	if err != nil {
		t.Fatal(err)
	}

	if err := After(b, a, RootDimension); err != nil {
		t.Fatal(err)
	}

	before := b.Schedule.GetDimCount()

	if err := After(c, b, RootDimension); err == nil {
		t.Fatal("expected an error: root position 0 was already claimed by the first After call")
	}

	if b.Schedule.GetDimCount() != before {
		t.Fatal("expected the rejected After call to leave b's schedule untouched")
	}
}

func TestAfterAtNonRootDimensionRequiresAlignment(t *testing.T) {
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

	// b has 2 range dims and a has only 1: a non-root after at dim=1 needs
	// at least dim+1 = 2 range dims in both schedules, so it is rejected.
	if err := After(b, a, 1); err == nil {
		t.Fatal("expected an error: a non-root after requires both schedules to have dim+1 range dims")
	}
}
