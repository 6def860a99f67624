package presburger

import "math/big"

// solveFor isolates name from an equality expr = 0 with coeff = expr.Coeff(name)
// (|coeff| == 1), returning the expression equal to name: name = -rest/coeff.
func solveFor(expr AffineExpr, name string, coeff *big.Int) AffineExpr {
	rest := expr.Clone()
	delete(rest.Coeffs, name)

	if coeff.Sign() > 0 {
		return rest.Negate()
	}

	return rest
}

// substituteDisjunct replaces every occurrence of name with repl across every
// constraint of a disjunct.
func substituteDisjunct(d Disjunct, name string, repl AffineExpr) Disjunct {
	out := make(Disjunct, len(d))
	for i, c := range d {
		out[i] = Constraint{Expr: c.Expr.Substitute(name, repl), Eq: c.Eq}
	}

	return out
}

// projectOutVar eliminates name from a disjunct, returning the (possibly
// larger, never smaller in expressive power) set of constraints over the
// remaining variables that is exactly equivalent over the rationals, and
// exact over the integers whenever name appears with unit coefficient in
// some equality, as it does for identity, rename and inserted constant dims.
//
// When no such equality exists, name is eliminated via classical
// Fourier-Motzkin combination of its lower and upper inequality bounds. That
// step is exact over the rationals but can admit extra non-integer-realizable
// boundary points when name's remaining coefficients are not ±1. A split
// relates its outer dimension to the original one through a coefficient of
// sizeX, so eliminating split dimensions (as AST bound derivation does) can
// take this path.
func projectOutVar(d Disjunct, name string) Disjunct {
	for i, c := range d {
		if !c.Eq {
			continue
		}

		coeff := c.Expr.Coeff(name)
		if coeff.CmpAbs(big.NewInt(1)) == 0 {
			repl := solveFor(c.Expr, name, coeff)
			rest := make(Disjunct, 0, len(d)-1)
			rest = append(rest, d[:i]...)
			rest = append(rest, d[i+1:]...)

			return substituteDisjunct(rest, name, repl)
		}
	}

	var lowers, uppers, others Disjunct

	for _, c := range d {
		coeff := c.Expr.Coeff(name)

		switch {
		case coeff.Sign() == 0:
			others = append(others, c)
		case c.Eq:
			// Split the equality into two inequalities so the generic
			// lower/upper bucketing below handles it uniformly.
			pos := Constraint{Expr: c.Expr, Eq: false}
			neg := Constraint{Expr: c.Expr.Negate(), Eq: false}
			bucket(pos, name, &lowers, &uppers)
			bucket(neg, name, &lowers, &uppers)
		default:
			bucket(c, name, &lowers, &uppers)
		}
	}

	out := make(Disjunct, 0, len(others)+len(lowers)*len(uppers))
	out = append(out, others...)

	for _, lo := range lowers {
		a := lo.Expr.Coeff(name)
		for _, up := range uppers {
			b := up.Expr.Coeff(name)
			// combined = |b|*lo + a*up, eliminating name exactly.
			combined := lo.Expr.Scale(new(big.Int).Abs(b)).Add(up.Expr.Scale(a))
			out = append(out, Constraint{Expr: combined, Eq: false})
		}
	}

	return out
}

func bucket(c Constraint, name string, lowers, uppers *Disjunct) {
	coeff := c.Expr.Coeff(name)
	if coeff.Sign() > 0 {
		*lowers = append(*lowers, c)
	} else {
		*uppers = append(*uppers, c)
	}
}

// ProjectOut eliminates every variable in names from every disjunct of d.
func ProjectOut(disjuncts []Disjunct, names []string) []Disjunct {
	out := make([]Disjunct, len(disjuncts))

	for i, d := range disjuncts {
		cur := d
		for _, n := range names {
			cur = projectOutVar(cur, n)
		}

		out[i] = cur
	}

	return out
}

// Bound is a single-sided affine bound on a variable: var >= Expr (Lower) or
// var < Expr (!Lower), derived by isolating that variable's coefficient in a
// projected constraint.
type Bound struct {
	Expr  AffineExpr
	Lower bool
}

// BoundsFor scans a disjunct for every constraint that, once isolated, gives
// a lower or upper bound on name (a constraint whose only other variables
// have already been projected out or fixed). It does not itself perform
// projection; callers first project out every other free variable.
func BoundsFor(d Disjunct, name string) []Bound {
	var out []Bound

	for _, c := range d {
		coeff := c.Expr.Coeff(name)
		if coeff.Sign() == 0 {
			continue
		}

		rest := c.Expr.Clone()
		delete(rest.Coeffs, name)

		if c.Eq {
			expr := solveFor(c.Expr, name, coeff)
			out = append(out, Bound{Expr: expr, Lower: true})
			out = append(out, Bound{Expr: expr.Add(Constant(1)), Lower: false})

			continue
		}

		// coeff*name + rest >= 0
		if coeff.Sign() > 0 {
			// name >= -rest/coeff (coeff expected to be 1 for exact results)
			out = append(out, Bound{Expr: rest.Negate(), Lower: true})
		} else {
			// -name + rest >= 0  =>  name <= rest  =>  name < rest + 1
			// (coeff expected to be -1 for exact results)
			out = append(out, Bound{Expr: rest.Add(Constant(1)), Lower: false})
		}
	}

	return out
}
