// Package presburger is the integer-set/affine-map engine that spec.md §4.1
// treats as "assumed available" (no ISL binding exists anywhere in the
// retrieved example pack). It implements the restricted slice of Presburger
// arithmetic the polyhedral core actually needs: affine equalities and
// inequalities over named integer dimensions, organised into disjunctive
// unions ("sets" and "maps" in the ISL sense).
//
// This package is internal machinery. Nothing outside pkg/isl imports it
// directly; pkg/isl is the typed facade spec.md §4.1 describes.
package presburger

import (
	"fmt"
	"math/big"
	"sort"
	"strings"
)

// AffineExpr is a linear combination of named dimensions plus a constant:
// sum(Coeffs[name] * name) + Const.
type AffineExpr struct {
	Coeffs map[string]*big.Int
	Const  *big.Int
}

// NewAffineExpr constructs an empty (zero-valued) affine expression.
func NewAffineExpr() AffineExpr {
	return AffineExpr{Coeffs: make(map[string]*big.Int), Const: big.NewInt(0)}
}

// Constant constructs a purely constant affine expression.
func Constant(v int64) AffineExpr {
	e := NewAffineExpr()
	e.Const = big.NewInt(v)

	return e
}

// Var constructs the affine expression equal to a single named dimension.
func Var(name string) AffineExpr {
	e := NewAffineExpr()
	e.Coeffs[name] = big.NewInt(1)

	return e
}

// Clone returns a deep copy of this expression.
func (e AffineExpr) Clone() AffineExpr {
	n := NewAffineExpr()
	for k, v := range e.Coeffs {
		n.Coeffs[k] = new(big.Int).Set(v)
	}

	n.Const = new(big.Int).Set(e.Const)

	return n
}

// Coeff returns the coefficient of the named dimension, or zero if absent.
func (e AffineExpr) Coeff(name string) *big.Int {
	if c, ok := e.Coeffs[name]; ok {
		return c
	}

	return big.NewInt(0)
}

// Add returns e + other, a new expression.
func (e AffineExpr) Add(other AffineExpr) AffineExpr {
	n := e.Clone()
	for k, v := range other.Coeffs {
		cur := n.Coeff(k)
		n.Coeffs[k] = new(big.Int).Add(cur, v)
	}

	n.Const.Add(n.Const, other.Const)

	return n.normalised()
}

// Scale returns e * factor, a new expression.
func (e AffineExpr) Scale(factor *big.Int) AffineExpr {
	n := NewAffineExpr()
	for k, v := range e.Coeffs {
		n.Coeffs[k] = new(big.Int).Mul(v, factor)
	}

	n.Const = new(big.Int).Mul(e.Const, factor)

	return n.normalised()
}

// Negate returns -e.
func (e AffineExpr) Negate() AffineExpr {
	return e.Scale(big.NewInt(-1))
}

// Substitute replaces every occurrence of name with the given replacement
// expression, returning a new expression.
func (e AffineExpr) Substitute(name string, repl AffineExpr) AffineExpr {
	c, ok := e.Coeffs[name]
	if !ok || c.Sign() == 0 {
		return e.Clone()
	}

	n := e.Clone()
	delete(n.Coeffs, name)

	return n.Add(repl.Scale(c))
}

// Rename replaces the dimension "from" with "to" in place (used by
// interchange, which only ever swaps dimension names).
func (e AffineExpr) Rename(from, to string) AffineExpr {
	c, ok := e.Coeffs[from]
	if !ok {
		return e.Clone()
	}

	n := e.Clone()
	delete(n.Coeffs, from)
	n.Coeffs[to] = new(big.Int).Add(n.Coeff(to), c)

	return n.normalised()
}

// Vars returns the sorted set of dimension names with non-zero coefficient.
func (e AffineExpr) Vars() []string {
	var names []string

	for k, v := range e.Coeffs {
		if v.Sign() != 0 {
			names = append(names, k)
		}
	}

	sort.Strings(names)

	return names
}

func (e AffineExpr) normalised() AffineExpr {
	for k, v := range e.Coeffs {
		if v.Sign() == 0 {
			delete(e.Coeffs, k)
		}
	}

	return e
}

// String renders the expression using ISL-ish syntax, e.g. "2*i + j - 3".
func (e AffineExpr) String() string {
	var parts []string

	for _, name := range e.Vars() {
		c := e.Coeff(name)

		switch {
		case c.Cmp(big.NewInt(1)) == 0:
			parts = append(parts, name)
		case c.Cmp(big.NewInt(-1)) == 0:
			parts = append(parts, "-"+name)
		default:
			parts = append(parts, fmt.Sprintf("%s*%s", c.String(), name))
		}
	}

	if e.Const.Sign() != 0 || len(parts) == 0 {
		parts = append(parts, e.Const.String())
	}

	return strings.Join(parts, " + ")
}

// Constraint is either Expr = 0 (Eq true) or Expr >= 0 (Eq false).
type Constraint struct {
	Expr AffineExpr
	Eq   bool
}

func (c Constraint) String() string {
	if c.Eq {
		return c.Expr.String() + " = 0"
	}

	return c.Expr.String() + " >= 0"
}

// Disjunct is a conjunction of constraints: a single convex basic set/map.
type Disjunct []Constraint

// Clone returns a deep copy.
func (d Disjunct) Clone() Disjunct {
	out := make(Disjunct, len(d))
	for i, c := range d {
		out[i] = Constraint{Expr: c.Expr.Clone(), Eq: c.Eq}
	}

	return out
}

// Space names the dimensions (and, for maps, leaves params implicit in the
// caller) of one side of a set or map.
type Space struct {
	TupleName string
	Dims      []string
}

// Clone returns a deep copy.
func (s Space) Clone() Space {
	dims := make([]string, len(s.Dims))
	copy(dims, s.Dims)

	return Space{TupleName: s.TupleName, Dims: dims}
}

// IndexOf returns the position of name within the space, or -1.
func (s Space) IndexOf(name string) int {
	for i, d := range s.Dims {
		if d == name {
			return i
		}
	}

	return -1
}

// Set is a union of disjuncts sharing one space.
type Set struct {
	Space     Space
	Params    []string
	Disjuncts []Disjunct
}

// Map is a union of disjuncts, each a conjunction over DomainSpace.Dims ∪
// RangeSpace.Dims ∪ Params.
type Map struct {
	DomainSpace Space
	RangeSpace  Space
	Params      []string
	Disjuncts   []Disjunct
}
