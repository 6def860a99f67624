package presburger

import (
	"sort"
	"strings"
)

// Union returns the disjunctive union of two sets sharing a space.
func Union(a, b Set) Set {
	out := Set{Space: a.Space, Params: mergeParams(a.Params, b.Params)}
	out.Disjuncts = append(append([]Disjunct{}, a.Disjuncts...), b.Disjuncts...)

	return out
}

// UnionMap returns the disjunctive union of two maps sharing domain/range
// spaces.
func UnionMap(a, b Map) Map {
	out := Map{DomainSpace: a.DomainSpace, RangeSpace: a.RangeSpace, Params: mergeParams(a.Params, b.Params)}
	out.Disjuncts = append(append([]Disjunct{}, a.Disjuncts...), b.Disjuncts...)

	return out
}

// Intersect returns the pairwise conjunction of every disjunct of a with
// every disjunct of b (standard DNF intersection).
func Intersect(a, b Set) Set {
	out := Set{Space: a.Space, Params: mergeParams(a.Params, b.Params)}

	for _, da := range a.Disjuncts {
		for _, db := range b.Disjuncts {
			out.Disjuncts = append(out.Disjuncts, append(da.Clone(), db.Clone()...))
		}
	}

	return out
}

func mergeParams(a, b []string) []string {
	seen := make(map[string]bool)

	var out []string
	for _, p := range append(append([]string{}, a...), b...) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	sort.Strings(out)

	return out
}

// Apply computes the image of s under m: a new Set over m's range space,
// obtained by conjoining s's constraints with m's relating constraints and
// projecting out every domain-space dimension.
func Apply(s Set, m Map) Set {
	out := Set{Space: m.RangeSpace.Clone(), Params: mergeParams(s.Params, m.Params)}

	for _, ds := range s.Disjuncts {
		for _, dm := range m.Disjuncts {
			combined := append(ds.Clone(), dm.Clone()...)
			projected := ProjectOut([]Disjunct{combined}, m.DomainSpace.Dims)[0]
			out.Disjuncts = append(out.Disjuncts, projected)
		}
	}

	return out
}

// ApplyMap composes two maps sharing a space (m1's range space equals m2's
// domain space), producing a map from m1's domain to m2's range.
func ApplyMap(m1, m2 Map) Map {
	out := Map{DomainSpace: m1.DomainSpace.Clone(), RangeSpace: m2.RangeSpace.Clone(), Params: mergeParams(m1.Params, m2.Params)}

	for _, d1 := range m1.Disjuncts {
		for _, d2 := range m2.Disjuncts {
			combined := append(d1.Clone(), d2.Clone()...)
			projected := ProjectOut([]Disjunct{combined}, m1.RangeSpace.Dims)[0]
			out.Disjuncts = append(out.Disjuncts, projected)
		}
	}

	return out
}

// ProjectOutSetDim removes dimension at index i from the space, existentially
// quantifying it out of every disjunct.
func ProjectOutSetDim(s Set, i int) Set {
	name := s.Space.Dims[i]

	out := Set{Space: s.Space.Clone(), Params: append([]string{}, s.Params...)}
	out.Space.Dims = append(append([]string{}, s.Space.Dims[:i]...), s.Space.Dims[i+1:]...)
	out.Disjuncts = ProjectOut(s.Disjuncts, []string{name})

	return out
}

// InsertSetDim inserts a fresh dimension named name at position i, fixed to
// the given constant value in every disjunct (used for padding/ordering
// dimensions introduced by align and after).
func InsertSetDim(s Set, i int, name string, value int64) Set {
	out := Set{Space: s.Space.Clone(), Params: append([]string{}, s.Params...)}
	out.Space.Dims = append(append([]string{}, s.Space.Dims[:i]...), append([]string{name}, s.Space.Dims[i:]...)...)

	for _, d := range s.Disjuncts {
		nd := d.Clone()
		nd = append(nd, Constraint{Expr: Var(name).Add(Constant(-value)), Eq: true})
		out.Disjuncts = append(out.Disjuncts, nd)
	}

	return out
}

// RenameSetDim renames dimension "from" to "to" across the space and every
// disjunct's constraints.
func RenameSetDim(s Set, from, to string) Set {
	out := Set{Space: s.Space.Clone(), Params: append([]string{}, s.Params...)}

	for i, d := range out.Space.Dims {
		if d == from {
			out.Space.Dims[i] = to
		}
	}

	for _, d := range s.Disjuncts {
		nd := make(Disjunct, len(d))
		for i, c := range d {
			nd[i] = Constraint{Expr: c.Expr.Rename(from, to), Eq: c.Eq}
		}

		out.Disjuncts = append(out.Disjuncts, nd)
	}

	return out
}

// SetTupleName returns a copy of s with a new tuple name.
func SetTupleName(s Set, name string) Set {
	out := s
	out.Space = s.Space.Clone()
	out.Space.TupleName = name

	return out
}

// Coalesce removes syntactically duplicate disjuncts. This is a deliberately
// conservative simplification of ISL's geometric coalescing: it never grows
// the represented set (safe to call unconditionally) but also never merges
// two disjuncts that are only coalescible after seeing they tile a shared
// facet, which a true ISL coalesce would. None of the polyhedral core's own
// operations ever produce the kind of redundant-but-not-identical disjuncts
// that would require that extra geometric step.
func Coalesce(s Set) Set {
	out := Set{Space: s.Space, Params: s.Params}

	seen := make(map[string]bool)

	for _, d := range s.Disjuncts {
		key := canonicalKey(d)
		if seen[key] {
			continue
		}

		seen[key] = true
		out.Disjuncts = append(out.Disjuncts, d)
	}

	return out
}

func canonicalKey(d Disjunct) string {
	parts := make([]string, len(d))
	for i, c := range d {
		parts[i] = c.String()
	}

	sort.Strings(parts)

	return strings.Join(parts, "; ")
}

// IsEmpty reports whether s has no disjuncts at all. It does not detect a
// disjunct whose constraints are individually unsatisfiable (e.g. 1 >= 0
// with a stray "-1 >= 0").
func IsEmpty(s Set) bool {
	return len(s.Disjuncts) == 0
}
