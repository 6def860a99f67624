package ir

import "testing"

// leafExpr is a substitution-opaque Expr stand-in: it has no free
// variables, so Substitute is always a no-op. Good enough for exercising
// Computation/Invariant/Buffer construction, which never inspects Expr's
// shape.
type leafExpr struct{ tag string }

func (e leafExpr) Substitute(string, Expr) Expr { return e }

func TestNewFunctionRejectsEmptyName(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Fatal("expected an error for an empty function name")
	}
}

func TestNewBufferValidatesDimensions(t *testing.T) {
	fn, err := New("f")
	if err != nil {
		t.Fatal(err)
	}

	elem := ElementType{Width: 32, Signed: true}

	if _, err := NewBuffer(fn, "b", nil, elem, Input); err == nil {
		t.Fatal("expected an error for a zero-dimensional buffer")
	}

	if _, err := NewBuffer(fn, "b", []int64{10, 0}, elem, Input); err == nil {
		t.Fatal("expected an error for a non-positive dimension size")
	}

	buf, err := NewBuffer(fn, "b", []int64{10, 20}, elem, Input)
	if err != nil {
		t.Fatal(err)
	}

	if buf.Kind != Input {
		t.Fatalf("expected Input, got %v", buf.Kind)
	}
}

func TestNewBufferRejectsDuplicateName(t *testing.T) {
	fn, _ := New("f")
	elem := ElementType{Width: 32, Signed: true}

	if _, err := NewBuffer(fn, "b", []int64{4}, elem, Input); err != nil {
		t.Fatal(err)
	}

	if _, err := NewBuffer(fn, "b", []int64{4}, elem, Output); err == nil {
		t.Fatal("expected an error for a duplicate buffer name")
	}
}

func TestArgumentBuffersExcludesInternal(t *testing.T) {
	fn, _ := New("f")
	elem := ElementType{Width: 32, Signed: true}

	if _, err := NewBuffer(fn, "in", []int64{4}, elem, Input); err != nil {
		t.Fatal(err)
	}

	if _, err := NewBuffer(fn, "scratch", []int64{4}, elem, Internal); err != nil {
		t.Fatal(err)
	}

	if _, err := NewBuffer(fn, "out", []int64{4}, elem, Output); err != nil {
		t.Fatal(err)
	}

	args := fn.ArgumentBuffers()
	if len(args) != 2 {
		t.Fatalf("expected 2 argument buffers, got %d", len(args))
	}

	if args[0].Name != "in" || args[1].Name != "out" {
		t.Fatalf("unexpected argument order: %v, %v", args[0].Name, args[1].Name)
	}
}

func TestNewComputationInstallsIdentitySchedule(t *testing.T) {
	fn, _ := New("f")
	elem := ElementType{Width: 32, Signed: true}

	c, err := NewComputation(fn, "{ S[i,j] : 0 <= i < 10 and 0 <= j < 20 }", leafExpr{"body"}, true, elem)
	if err != nil {
		t.Fatal(err)
	}

	if c.Name != "S" {
		t.Fatalf("expected tuple name S, got %q", c.Name)
	}

	if c.Schedule.GetDimCount() != 2 {
		t.Fatalf("expected the identity schedule to carry 2 range dims, got %d", c.Schedule.GetDimCount())
	}

	if _, ok := fn.ComputationByName("S"); !ok {
		t.Fatal("expected the computation to be registered under its tuple name")
	}
}

func TestNewComputationRequiresBodyWhenSchedulable(t *testing.T) {
	fn, _ := New("f")
	elem := ElementType{Width: 32, Signed: true}

	if _, err := NewComputation(fn, "{ S[i] : 0 <= i < 10 }", nil, true, elem); err == nil {
		t.Fatal("expected an error for a schedulable computation with no body")
	}

	if _, err := NewComputation(fn, "{ S[i] : 0 <= i < 10 }", nil, false, elem); err != nil {
		t.Fatalf("a non-schedulable computation should tolerate a nil body: %v", err)
	}
}

func TestBufferAndComputationNamesShareOneNamespace(t *testing.T) {
	fn, _ := New("f")
	elem := ElementType{Width: 32, Signed: true}

	if _, err := NewBuffer(fn, "S", []int64{4}, elem, Input); err != nil {
		t.Fatal(err)
	}

	if _, err := NewComputation(fn, "{ S[i] : 0 <= i < 4 }", leafExpr{"body"}, true, elem); err == nil {
		t.Fatal("expected an error: a buffer and a computation cannot share a name")
	}
}

func TestNewInvariantRequiresUniqueName(t *testing.T) {
	fn, _ := New("f")

	if _, err := NewInvariant(fn, "n", leafExpr{"n"}); err != nil {
		t.Fatal(err)
	}

	if _, err := NewInvariant(fn, "n", leafExpr{"n2"}); err == nil {
		t.Fatal("expected an error for a duplicate invariant name")
	}

	if _, err := NewInvariant(fn, "", leafExpr{"n"}); err == nil {
		t.Fatal("expected an error for an empty invariant name")
	}
}

func TestSetScheduleTextInstallsSchedule(t *testing.T) {
	fn, _ := New("f")
	elem := ElementType{Width: 32, Signed: true}

	c, err := NewComputation(fn, "{ S[i] : 0 <= i < 10 }", leafExpr{"body"}, true, elem)
	if err != nil {
		t.Fatal(err)
	}

	if err := c.SetScheduleText("{ S[i] -> T[i] }"); err != nil {
		t.Fatal(err)
	}

	if c.Schedule.String() != "{ S[i] -> T[i] }" {
		t.Fatalf("expected the installed schedule text to stick, got %q", c.Schedule.String())
	}
}

func TestSetScheduleTextRejectsMismatchedDomain(t *testing.T) {
	fn, _ := New("f")
	elem := ElementType{Width: 32, Signed: true}

	c, err := NewComputation(fn, "{ S[i] : 0 <= i < 10 }", leafExpr{"body"}, true, elem)
	if err != nil {
		t.Fatal(err)
	}

	if err := c.SetScheduleText("{ Other[i] -> T[i] }"); err == nil {
		t.Fatal("expected an error: schedule domain tuple does not name this computation")
	}

	if err := c.SetScheduleText("{ S[i,j] -> T[i,j] }"); err == nil {
		t.Fatal("expected an error: schedule domain dim count does not match the iteration space")
	}
}

func TestRequireTransformableFailsOnceFrozen(t *testing.T) {
	fn, _ := New("f")

	if err := fn.RequireTransformable(); err != nil {
		t.Fatal(err)
	}

	fn.Freeze()

	if err := fn.RequireTransformable(); err == nil {
		t.Fatal("expected RequireTransformable to fail once the function is frozen")
	}
}

func TestDumpJSONIncludesDeclaredEntities(t *testing.T) {
	fn, _ := New("f")
	elem := ElementType{Width: 32, Signed: true}

	if _, err := NewBuffer(fn, "in", []int64{4}, elem, Input); err != nil {
		t.Fatal(err)
	}

	if _, err := NewComputation(fn, "{ S[i] : 0 <= i < 4 }", leafExpr{"body"}, true, elem); err != nil {
		t.Fatal(err)
	}

	out, err := fn.DumpJSON()
	if err != nil {
		t.Fatal(err)
	}

	if len(out) == 0 {
		t.Fatal("expected a non-empty JSON snapshot")
	}
}
