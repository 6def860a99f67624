package isl

import (
	"github.com/rtohid/tiramisu/pkg/errs"
	"github.com/rtohid/tiramisu/pkg/isl/parse"
	"github.com/rtohid/tiramisu/pkg/isl/presburger"
)

func parseSet(text string) (presburger.Set, error) {
	p, err := parse.ParseSet(text)
	if err != nil {
		return presburger.Set{}, err
	}

	out := presburger.Set{
		Space:  presburger.Space{TupleName: p.Name, Dims: p.Dims},
		Params: p.Params,
	}

	disjunct, err := constraintsToDisjunct(p.Constraints)
	if err != nil {
		return presburger.Set{}, errs.Invalid(p.Name, "%v", err)
	}

	out.Disjuncts = []presburger.Disjunct{disjunct}

	return out, nil
}

func parseMapText(text string) (presburger.Map, error) {
	p, err := parse.ParseMap(text)
	if err != nil {
		return presburger.Map{}, err
	}

	out := presburger.Map{
		DomainSpace: presburger.Space{TupleName: p.DomainName, Dims: p.DomainDims},
		RangeSpace:  presburger.Space{TupleName: p.RangeName, Dims: p.RangeDims},
		Params:      p.Params,
	}

	disjunct, err := constraintsToDisjunct(p.Constraints)
	if err != nil {
		return presburger.Map{}, errs.Invalid(p.DomainName, "%v", err)
	}

	out.Disjuncts = []presburger.Disjunct{disjunct}

	return out, nil
}

func constraintsToDisjunct(raw []string) (presburger.Disjunct, error) {
	var d presburger.Disjunct

	for _, text := range raw {
		cs, err := parse.ParseConstraint(text)
		if err != nil {
			return nil, err
		}

		d = append(d, cs...)
	}

	return d, nil
}
