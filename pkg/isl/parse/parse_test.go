package parse

import "testing"

func TestParseSetRoundTrips(t *testing.T) {
	text := "{ S[i,j] : 0 <= i and i < 10 and 0 <= j and j < 20 }"

	first, err := ParseSet(text)
	if err != nil {
		t.Fatal(err)
	}

	if first.Name != "S" {
		t.Fatalf("expected tuple name S, got %q", first.Name)
	}

	if len(first.Dims) != 2 {
		t.Fatalf("expected 2 dims, got %d", len(first.Dims))
	}

	serialized := SerializeSet(first)

	second, err := ParseSet(serialized)
	if err != nil {
		t.Fatalf("re-parsing the serialized text failed: %v", err)
	}

	if first.Name != second.Name {
		t.Fatalf("name changed across round trip: %q -> %q", first.Name, second.Name)
	}

	if len(first.Dims) != len(second.Dims) {
		t.Fatalf("dims changed across round trip: %v -> %v", first.Dims, second.Dims)
	}

	if len(first.Constraints) != len(second.Constraints) {
		t.Fatalf("constraint count changed across round trip: %v -> %v", first.Constraints, second.Constraints)
	}
}

func TestParseSetWithParams(t *testing.T) {
	set, err := ParseSet("[n] -> { S[i] : 0 <= i and i < n }")
	if err != nil {
		t.Fatal(err)
	}

	if len(set.Params) != 1 || set.Params[0] != "n" {
		t.Fatalf("expected params [n], got %v", set.Params)
	}
}

func TestParseMapRoundTrips(t *testing.T) {
	text := "{ S[i,j] -> buf[i,j] }"

	first, err := ParseMap(text)
	if err != nil {
		t.Fatal(err)
	}

	serialized := SerializeMap(first)

	second, err := ParseMap(serialized)
	if err != nil {
		t.Fatalf("re-parsing the serialized text failed: %v", err)
	}

	if first.DomainName != second.DomainName || first.RangeName != second.RangeName {
		t.Fatalf("tuple names changed across round trip: %+v -> %+v", first, second)
	}

	if len(first.DomainDims) != len(second.DomainDims) || len(first.RangeDims) != len(second.RangeDims) {
		t.Fatalf("dims changed across round trip: %+v -> %+v", first, second)
	}
}

func TestParseSetRejectsMissingBraces(t *testing.T) {
	if _, err := ParseSet("S[i] : 0 <= i < 10"); err == nil {
		t.Fatal("expected an error for set text missing its enclosing braces")
	}
}

func TestReplaceDim(t *testing.T) {
	dims := []string{"i", "j", "k"}

	out, err := ReplaceDim(dims, "j", "j_outer", "j_inner")
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"i", "j_outer", "j_inner", "k"}
	if len(out) != len(want) {
		t.Fatalf("expected %v, got %v", want, out)
	}

	for idx := range want {
		if out[idx] != want[idx] {
			t.Fatalf("expected %v, got %v", want, out)
		}
	}
}

func TestReplaceDimRejectsUnknownDimension(t *testing.T) {
	if _, err := ReplaceDim([]string{"i"}, "missing", "a", "b"); err == nil {
		t.Fatal("expected an error for an unknown dimension name")
	}
}

func TestParseConstraintSplitsChainedComparison(t *testing.T) {
	cs, err := ParseConstraint("0 <= i < 10")
	if err != nil {
		t.Fatal(err)
	}

	if len(cs) != 2 {
		t.Fatalf("expected a chained comparison to split into 2 constraints, got %d", len(cs))
	}

	for _, c := range cs {
		if c.Eq {
			t.Fatal("expected both halves of a <= / < chain to be inequalities")
		}
	}
}

func TestParseConstraintParsesEquality(t *testing.T) {
	cs, err := ParseConstraint("i = 3")
	if err != nil {
		t.Fatal(err)
	}

	if len(cs) != 1 || !cs[0].Eq {
		t.Fatalf("expected a single equality constraint, got %+v", cs)
	}
}

func TestParseConstraintRejectsMissingOperator(t *testing.T) {
	if _, err := ParseConstraint("i + 1"); err == nil {
		t.Fatal("expected an error for a constraint with no comparison operator")
	}
}
