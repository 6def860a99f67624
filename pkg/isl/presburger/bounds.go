package presburger

import (
	"math/big"

	"github.com/sirupsen/logrus"

	mathutil "github.com/rtohid/tiramisu/pkg/util/math"
)

var intOne = big.NewInt(1)

// DimBounds is what the AST builder needs to emit a single For loop over
// one dimension: its tightest lower and upper-exclusive bound, plus any
// extra bounds that could not be chosen as "the" bound and must instead be
// emitted as a guard inside the loop body.
type DimBounds struct {
	Lower AffineExpr
	Upper AffineExpr
	Extra []Constraint
}

// DeriveBounds projects innerDims (dimensions nested inside name in the loop
// order) out of d, then isolates every remaining bound on name. The first
// lower and first upper bound found become the loop's Lower/Upper; any
// further bounds of either kind are returned as Extra guard constraints,
// mirroring how a real AST builder falls back to an explicit condition once
// a dimension's feasible region isn't a single clean interval.
func DeriveBounds(d Disjunct, innerDims []string, name string) DimBounds {
	projected := d
	if len(innerDims) > 0 {
		projected = ProjectOut([]Disjunct{d}, innerDims)[0]
	}

	bounds := BoundsFor(projected, name)

	var db DimBounds

	haveLower, haveUpper := false, false

	for _, b := range bounds {
		switch {
		case b.Lower && !haveLower:
			db.Lower = b.Expr
			haveLower = true
		case !b.Lower && !haveUpper:
			db.Upper = b.Expr
			haveUpper = true
		case b.Lower:
			db.Extra = append(db.Extra, Constraint{Expr: Var(name).Add(b.Expr.Negate()), Eq: false})
		default:
			db.Extra = append(db.Extra, Constraint{Expr: b.Expr.Add(Var(name).Negate()).Add(Constant(-1)), Eq: false})
		}
	}

	if !haveLower || !haveUpper {
		logUnboundedDimension(name, db, haveLower, haveUpper)
	}

	if !haveLower {
		db.Lower = Constant(0)
	}

	if !haveUpper {
		db.Upper = Constant(0)
	}

	return db
}

// logUnboundedDimension warns that name's feasible region does not isolate
// one side of the range scanned by DeriveBounds, using an explicit
// potentially-infinite interval (rather than the zero DeriveBounds defaults
// to) so the log line distinguishes "truly unbounded here" from "bounded at
// zero" before the defaulting below collapses that distinction.
func logUnboundedDimension(name string, db DimBounds, haveLower, haveUpper bool) {
	lower, upper := mathutil.NegInfinity, mathutil.PosInfinity

	if haveLower && len(db.Lower.Vars()) == 0 {
		lower.SetInt(*db.Lower.Const)
	}

	if haveUpper && len(db.Upper.Vars()) == 0 {
		upper.SetInt(*db.Upper.Const)
	}

	interval := mathutil.NewInfInterval(lower, upper)

	logrus.WithField("dimension", name).
		Warnf("dimension bound could not be fully isolated, defaulting missing side to 0 (known range %s)", interval.String())
}

// FixedValue reports whether d pins name to a single constant via an
// equality, returning that constant's expression form when so. Used by the
// AST builder to collapse singleton ordering/padding dimensions into plain
// sequencing rather than degenerate one-iteration loops.
func FixedValue(d Disjunct, name string) (AffineExpr, bool) {
	for _, c := range d {
		if !c.Eq {
			continue
		}

		coeff := c.Expr.Coeff(name)
		if coeff.CmpAbs(intOne) == 0 {
			rest := c.Expr.Clone()
			delete(rest.Coeffs, name)

			if len(rest.Vars()) == 0 {
				return solveFor(c.Expr, name, coeff), true
			}
		}
	}

	return AffineExpr{}, false
}
