package presburger

// SolveForDomainDims returns, for a single disjunct of a map, the affine
// expression (in terms of range-space dimensions) that each domain-space
// dimension equals — "the actual values the original iterators take as
// functions of the enclosing loop iterators" that spec.md §4.6 step 2
// requires for every UserLeaf. It relies on exactly the same definitional-
// equality shape every transformation in pkg/schedule produces: each domain
// dimension appears with unit coefficient in some equality of the disjunct.
func SolveForDomainDims(d Disjunct, domainDims []string) map[string]AffineExpr {
	out := make(map[string]AffineExpr, len(domainDims))

	for _, name := range domainDims {
		for _, c := range d {
			if !c.Eq {
				continue
			}

			coeff := c.Expr.Coeff(name)
			if coeff.CmpAbs(intOne) == 0 {
				out[name] = solveFor(c.Expr, name, coeff)

				break
			}
		}
	}

	return out
}
