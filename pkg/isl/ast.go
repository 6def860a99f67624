package isl

import (
	"math/big"
	"sort"

	"github.com/rtohid/tiramisu/pkg/isl/presburger"
)

func parseBigIntText(s string) (int64, bool) {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return 0, false
	}

	return n.Int64(), true
}

// NodeKind discriminates the four AST node shapes spec.md §4.1 names.
type NodeKind int

const (
	// ForNode is a serial loop at this stage; pkg/lower decorates it with a
	// parallel/vector flag per spec.md §4.6 step 4.
	ForNode NodeKind = iota
	// IfNode guards a subtree with a residual condition the loop bounds
	// alone could not express.
	IfNode
	// UserLeafNode names a computation and the affine expressions its
	// original iterators take at this point in the tree.
	UserLeafNode
	// BlockNode sequences children, used both for genuine statement
	// sequencing and for collapsed singleton ordering/padding dimensions.
	BlockNode
)

// Node is one node of the polyhedral AST spec.md §4.1's AST builder
// produces. Only the fields relevant to Kind are populated.
type Node struct {
	Kind NodeKind

	// ForNode
	Iterator   string
	Lower      presburger.AffineExpr
	Upper      presburger.AffineExpr
	Body       *Node
	IsParallel bool
	IsVector   bool

	// IfNode
	Cond presburger.Constraint
	Then *Node
	Else *Node

	// UserLeafNode
	Computation string
	ArgExprs    []presburger.AffineExpr

	// BlockNode
	Children []*Node
}

// LeafDomain is one computation's scheduled time-processor domain (assumed
// a single convex disjunct, which is what every schedule transformation in
// pkg/schedule produces) together with the inverse map from original
// iteration dimensions to time-processor dimensions, used to fill in
// UserLeaf.ArgExprs.
type LeafDomain struct {
	Computation string
	Disjunct    presburger.Disjunct
	TimeDims    []string
	Inverse     map[string]presburger.AffineExpr
}

// BuildAST builds a deterministic polyhedral AST over a uniform time-
// processor space (spec.md §4.1's AST builder). Every LeafDomain must share
// the same TimeDims (align_schedules's job before this is called).
func BuildAST(leaves []LeafDomain) *Node {
	if len(leaves) == 0 {
		return &Node{Kind: BlockNode}
	}

	dims := leaves[0].TimeDims

	return buildLevel(leaves, 0, dims)
}

func buildLevel(leaves []LeafDomain, dimIdx int, dims []string) *Node {
	if dimIdx >= len(dims) {
		return leafNode(leaves[0])
	}

	name := dims[dimIdx]
	inner := dims[dimIdx+1:]

	fixedGroups, free := partitionByFixedValue(leaves, name)

	var children []*Node

	for _, v := range sortedKeys(fixedGroups) {
		group := substituteGroup(fixedGroups[v], name, v)
		children = append(children, buildLevel(group, dimIdx+1, dims))
	}

	if len(free) > 0 {
		bounds := presburger.DeriveBounds(free[0].Disjunct, inner, name)
		body := buildLevel(free, dimIdx+1, dims)
		body = wrapGuards(body, bounds.Extra)

		forNode := &Node{Kind: ForNode, Iterator: name, Lower: bounds.Lower, Upper: bounds.Upper, Body: body}
		children = append(children, forNode)
	}

	if len(children) == 1 {
		return children[0]
	}

	return &Node{Kind: BlockNode, Children: children}
}

func wrapGuards(body *Node, extra []presburger.Constraint) *Node {
	for i := len(extra) - 1; i >= 0; i-- {
		body = &Node{Kind: IfNode, Cond: extra[i], Then: body}
	}

	return body
}

func leafNode(l LeafDomain) *Node {
	args := make([]presburger.AffineExpr, 0, len(l.Inverse))

	names := make([]string, 0, len(l.Inverse))
	for n := range l.Inverse {
		names = append(names, n)
	}

	sort.Strings(names)

	for _, n := range names {
		args = append(args, l.Inverse[n])
	}

	return &Node{Kind: UserLeafNode, Computation: l.Computation, ArgExprs: args}
}

func partitionByFixedValue(leaves []LeafDomain, name string) (map[string][]LeafDomain, []LeafDomain) {
	groups := make(map[string][]LeafDomain)

	var free []LeafDomain

	for _, l := range leaves {
		if val, ok := presburger.FixedValue(l.Disjunct, name); ok {
			key := val.String()
			groups[key] = append(groups[key], l)
		} else {
			free = append(free, l)
		}
	}

	return groups, free
}

func sortedKeys(m map[string][]LeafDomain) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

func substituteGroup(leaves []LeafDomain, name string, value string) []LeafDomain {
	out := make([]LeafDomain, len(leaves))

	for i, l := range leaves {
		out[i] = l

		inv := make(map[string]presburger.AffineExpr, len(l.Inverse))
		for k, v := range l.Inverse {
			inv[k] = substituteConst(v, name, value)
		}

		out[i].Inverse = inv
	}

	return out
}

// substituteConst is a thin wrapper avoiding a direct dependency on the
// exact constant text format: it re-parses the fixed value's own rendered
// form back through AffineExpr construction via Substitute, since
// FixedValue already returns a constant AffineExpr whose String() is just
// the integer text.
func substituteConst(e presburger.AffineExpr, name, value string) presburger.AffineExpr {
	if e.Coeff(name).Sign() == 0 {
		return e
	}

	n, ok := parseBigIntText(value)
	if !ok {
		return e
	}

	return e.Substitute(name, presburger.Constant(n))
}
