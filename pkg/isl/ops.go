package isl

import "github.com/rtohid/tiramisu/pkg/isl/presburger"

// RestrictDomain conjoins every disjunct of s (expressed over m's domain
// dimensions) into every disjunct of m, restricting m's domain-side values
// to exactly s. Used to install the identity schedule as
// "identity(space(D)) ∩ (D × D)" (spec.md §4.4) without a general
// set-product operator.
func RestrictDomain(m Map, s Set) Map {
	out := Map{raw: presburger.Map{DomainSpace: m.raw.DomainSpace, RangeSpace: m.raw.RangeSpace, Params: m.raw.Params}}

	for _, dm := range m.raw.Disjuncts {
		for _, ds := range s.raw.Disjuncts {
			out.raw.Disjuncts = append(out.raw.Disjuncts, append(dm.Clone(), ds.Clone()...))
		}
	}

	return out
}

// CoalesceMap removes syntactically duplicate disjuncts from a map, the
// map-shaped counterpart of Coalesce (spec.md §4.4's "Coalesce" step on a
// freshly built schedule).
func CoalesceMap(m Map) Map {
	out := Map{raw: presburger.Map{DomainSpace: m.raw.DomainSpace, RangeSpace: m.raw.RangeSpace, Params: m.raw.Params}}

	seen := make(map[string]bool)

	for _, d := range m.raw.Disjuncts {
		key := mapDisjunctKey(d)
		if seen[key] {
			continue
		}

		seen[key] = true
		out.raw.Disjuncts = append(out.raw.Disjuncts, d)
	}

	return out
}

func mapDisjunctKey(d presburger.Disjunct) string {
	s := ""
	for _, c := range d {
		s += c.String() + ";"
	}

	return s
}
