package isl

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rtohid/tiramisu/pkg/isl/presburger"
)

// Set is a union of integer points satisfying a conjunction of affine
// constraints over named dimensions, carrying one tuple name and an ordered
// dimension list (spec.md §4.1).
type Set struct {
	raw presburger.Set
}

// NewSet parses text using the standard ISL syntax and returns the
// resulting Set.
func NewSet(ctx *Context, text string) (Set, error) {
	ps, err := parseSet(text)
	if err != nil {
		return Set{}, err
	}

	return Set{raw: ps}, nil
}

// GetTupleName returns the set's tuple name.
func (s Set) GetTupleName() string { return s.raw.Space.TupleName }

// GetSpace returns the ordered dimension names of the set.
func (s Set) GetSpace() []string {
	out := make([]string, len(s.raw.Space.Dims))
	copy(out, s.raw.Space.Dims)

	return out
}

// GetDimCount returns the number of dimensions in the set's space.
func (s Set) GetDimCount() int { return len(s.raw.Space.Dims) }

// SetSetTupleName returns a copy of s with a new tuple name.
func SetSetTupleName(s Set, name string) Set {
	return Set{raw: presburger.SetTupleName(s.raw, name)}
}

// Union returns the disjunctive union of two sets sharing a space.
func Union(a, b Set) Set {
	return Set{raw: presburger.Union(a.raw, b.raw)}
}

// Intersect returns the conjunction of two sets sharing a space.
func Intersect(a, b Set) Set {
	return Set{raw: presburger.Intersect(a.raw, b.raw)}
}

// ProjectOut existentially quantifies out the dimension at position i.
func ProjectOut(s Set, i int) Set {
	return Set{raw: presburger.ProjectOutSetDim(s.raw, i)}
}

// InsertDim inserts a fresh dimension named name at position, fixed to value
// in every disjunct (used for alignment padding and ordering dimensions).
func InsertDim(s Set, position int, name string, value int64) Set {
	return Set{raw: presburger.InsertSetDim(s.raw, position, name, value)}
}

// RenameDim renames dimension "from" to "to".
func RenameDim(s Set, from, to string) Set {
	return Set{raw: presburger.RenameSetDim(s.raw, from, to)}
}

// Apply computes the image of s under m.
func Apply(s Set, m Map) Set {
	return Set{raw: presburger.Apply(s.raw, m.raw)}
}

// IsEmpty reports whether s has no disjuncts.
func IsEmpty(s Set) bool { return presburger.IsEmpty(s.raw) }

// Coalesce simplifies s by removing syntactically redundant disjuncts,
// memoized per Context by structural fingerprint so repeated calls on an
// unchanged set skip recomputation entirely.
func Coalesce(ctx *Context, s Set) Set {
	key := fingerprintOf(s)
	if cached, ok := ctx.coalesceMemo[key]; ok {
		return cached
	}

	out := Set{raw: presburger.Coalesce(s.raw)}
	ctx.coalesceMemo[key] = out

	return out
}

// disjunctsOf exposes the raw disjuncts to sibling packages (align, lower)
// that need to reason about individual convex pieces, e.g. for AST bound
// derivation. It is unexported from the module's perspective in spirit only
// — callers within this module use the Raw accessor below.
func (s Set) disjunctsOf() []presburger.Disjunct { return s.raw.Disjuncts }

// Raw exposes the underlying presburger representation to the rest of this
// module (schedule/align/lower), which must reason about individual
// disjuncts and dimension names directly; external callers never see this.
func (s Set) Raw() presburger.Set { return s.raw }

// FromRaw wraps a presburger.Set constructed by a sibling package back into
// the typed facade.
func FromRaw(raw presburger.Set) Set { return Set{raw: raw} }

func serializeCanonical(s Set) string {
	parts := make([]string, len(s.raw.Disjuncts))
	for i, d := range s.raw.Disjuncts {
		cs := make([]string, len(d))
		for j, c := range d {
			cs[j] = c.String()
		}

		sort.Strings(cs)
		parts[i] = strings.Join(cs, " and ")
	}

	sort.Strings(parts)

	return fmt.Sprintf("%s[%s] : %s", s.raw.Space.TupleName, strings.Join(s.raw.Space.Dims, ","), strings.Join(parts, " or "))
}

// String serializes s using the standard ISL syntax.
func (s Set) String() string {
	params := ""
	if len(s.raw.Params) > 0 {
		params = "[" + strings.Join(s.raw.Params, ",") + "] -> "
	}

	return params + "{ " + serializeCanonical(s) + " }"
}
