package isl

import (
	"strings"

	"github.com/rtohid/tiramisu/pkg/isl/parse"
	"github.com/rtohid/tiramisu/pkg/isl/presburger"
)

// Side selects which tuple of a Map set_tuple_name addresses.
type Side int

const (
	// Domain selects the map's domain-side tuple.
	Domain Side = iota
	// Range selects the map's range-side tuple.
	Range
)

// Map is a relation between two Sets (spec.md §4.1).
type Map struct {
	raw presburger.Map
}

// NewMap parses text using the standard ISL map syntax.
func NewMap(ctx *Context, text string) (Map, error) {
	pm, err := parseMapText(text)
	if err != nil {
		return Map{}, err
	}

	return Map{raw: pm}, nil
}

// MapIdentity constructs the identity map on a space: the domain keeps the
// given dimension names, and the range is given fresh "t0", "t1", ... names
// (the conventional time-processor-space naming), related to the domain by
// one equality per dimension. Range and domain names must be distinct
// symbols in the constraint system even when they denote "the same"
// position, the same way ISL's own internal representation tracks domain
// and range as distinct positional spaces rather than a single flat
// variable namespace.
func MapIdentity(space []string, tupleName string) Map {
	domain := append([]string{}, space...)
	rangeDims := make([]string, len(space))

	d := make(presburger.Disjunct, 0, len(space))

	for i, name := range domain {
		rangeDims[i] = freshRangeName(i, domain)
		expr := presburger.Var(rangeDims[i]).Add(presburger.Var(name).Negate())
		d = append(d, presburger.Constraint{Expr: expr, Eq: true})
	}

	domSp := presburger.Space{TupleName: tupleName, Dims: domain}
	rngSp := presburger.Space{TupleName: tupleName, Dims: rangeDims}

	return Map{raw: presburger.Map{DomainSpace: domSp, RangeSpace: rngSp, Disjuncts: []presburger.Disjunct{d}}}
}

// freshRangeName picks "t<i>", disambiguated with a trailing underscore if
// it happens to collide with an existing domain dimension name.
func freshRangeName(i int, domain []string) string {
	name := presburgerTimeDimName(i)

	for _, d := range domain {
		if d == name {
			return name + "_"
		}
	}

	return name
}

func presburgerTimeDimName(i int) string {
	const letters = "t"

	return letters + itoa(i)
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}

	digits := []byte{}
	for i > 0 {
		digits = append([]byte{byte('0' + i%10)}, digits...)
		i /= 10
	}

	return string(digits)
}

// MapFromSetToSet constructs the identity relation between two sets' spaces,
// given that the sets agree dimension-for-dimension (used for bind_to and
// for the identity schedule's "identity on space(D)" step). Range dims that
// collide with a domain dim name are disambiguated the same way MapIdentity
// disambiguates them.
func MapFromSetToSet(domain, rangeSet Set) Map {
	dom := domain.raw.Space.Clone()
	rng := rangeSet.raw.Space.Clone()

	d := make(presburger.Disjunct, 0, len(dom.Dims))

	for i := range dom.Dims {
		rngName := rng.Dims[i]
		for _, dn := range dom.Dims {
			if dn == rngName {
				rngName += "_"
			}
		}

		rng.Dims[i] = rngName
		expr := presburger.Var(rngName).Add(presburger.Var(dom.Dims[i]).Negate())
		d = append(d, presburger.Constraint{Expr: expr, Eq: true})
	}

	return Map{raw: presburger.Map{DomainSpace: dom, RangeSpace: rng, Disjuncts: []presburger.Disjunct{d}}}
}

// UnionMap returns the disjunctive union of two maps sharing domain/range
// spaces.
func UnionMap(a, b Map) Map {
	return Map{raw: presburger.UnionMap(a.raw, b.raw)}
}

// ApplyMap composes two maps where m1's range space equals m2's domain
// space.
func ApplyMap(m1, m2 Map) Map {
	return Map{raw: presburger.ApplyMap(m1.raw, m2.raw)}
}

// SetTupleNameMap returns a copy of m with the named side's tuple name
// changed.
func SetTupleNameMap(m Map, side Side, name string) Map {
	out := Map{raw: m.raw}
	out.raw.DomainSpace = m.raw.DomainSpace.Clone()
	out.raw.RangeSpace = m.raw.RangeSpace.Clone()

	if side == Domain {
		out.raw.DomainSpace.TupleName = name
	} else {
		out.raw.RangeSpace.TupleName = name
	}

	return out
}

// DomainSpace returns the map's domain-side dimension names.
func (m Map) DomainSpace() []string {
	out := make([]string, len(m.raw.DomainSpace.Dims))
	copy(out, m.raw.DomainSpace.Dims)

	return out
}

// RangeSpace returns the map's range-side dimension names.
func (m Map) RangeSpace() []string {
	out := make([]string, len(m.raw.RangeSpace.Dims))
	copy(out, m.raw.RangeSpace.Dims)

	return out
}

// GetDimCount returns the number of range dimensions (the conventional
// "dimensionality" of a schedule or access map).
func (m Map) GetDimCount() int { return len(m.raw.RangeSpace.Dims) }

// GetTupleName returns the named side's tuple name.
func (m Map) GetTupleName(side Side) string {
	if side == Domain {
		return m.raw.DomainSpace.TupleName
	}

	return m.raw.RangeSpace.TupleName
}

// Raw exposes the underlying presburger representation to the rest of this
// module.
func (m Map) Raw() presburger.Map { return m.raw }

// FromRawMap wraps a presburger.Map constructed by a sibling package back
// into the typed facade.
func FromRawMap(raw presburger.Map) Map { return Map{raw: raw} }

// String serializes m using the standard ISL syntax.
func (m Map) String() string {
	var cs []string

	for _, d := range m.raw.Disjuncts {
		if len(d) == 0 {
			cs = nil

			break
		}

		parts := make([]string, len(d))
		for j, c := range d {
			parts[j] = c.String()
		}

		cs = append(cs, strings.Join(parts, " and "))
	}

	if len(cs) > 1 {
		cs = []string{strings.Join(cs, " or ")}
	}

	pm := parse.ParsedMap{
		Params:      m.raw.Params,
		DomainName:  m.raw.DomainSpace.TupleName,
		DomainDims:  m.raw.DomainSpace.Dims,
		RangeName:   m.raw.RangeSpace.TupleName,
		RangeDims:   m.raw.RangeSpace.Dims,
		Constraints: cs,
	}

	return parse.SerializeMap(pm)
}
