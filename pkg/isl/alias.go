package isl

import "github.com/rtohid/tiramisu/pkg/isl/presburger"

// AffineExpr and Constraint are re-exported so that pkg/lower (and any
// other consumer of a Node's Lower/Upper/ArgExprs/Cond fields) never needs
// to import pkg/isl/presburger directly — the facade is the only package
// that talks to the algebra engine by its own types.
type AffineExpr = presburger.AffineExpr

// Constraint is the re-exported constraint type; see AffineExpr.
type Constraint = presburger.Constraint

// Disjunct is the re-exported single-convex-piece type carried on a
// LeafDomain and passed to SolveForDomainDims.
type Disjunct = presburger.Disjunct

// SolveForDomainDims re-exports presburger.SolveForDomainDims: for a single
// disjunct of a map, the affine expression (in terms of the disjunct's other
// dimensions) that each named dimension equals. pkg/lower uses it both to
// invert a computation's schedule disjunct back onto its original
// iteration dimensions, and to pull an access relation's range (buffer
// index) dimensions back onto the domain side.
func SolveForDomainDims(d Disjunct, names []string) map[string]AffineExpr {
	return presburger.SolveForDomainDims(d, names)
}
