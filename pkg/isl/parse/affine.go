package parse

import (
	"fmt"
	"math/big"
	"strings"
	"unicode"

	"github.com/rtohid/tiramisu/pkg/errs"
	"github.com/rtohid/tiramisu/pkg/isl/presburger"
)

// ParseConstraint interprets one opaque constraint substring (as produced by
// ParseSet/ParseMap) as one or more affine (in)equalities, handling chained
// comparisons like "0 <= i < n" by splitting them into the equivalent pair.
// This is a second, narrower pass than the structural parser above: the
// structural parser exists purely to preserve round-trip text; this one is
// what actually feeds pkg/isl/presburger's engine.
func ParseConstraint(text string) ([]presburger.Constraint, error) {
	operands, ops, err := splitComparisonChain(text)
	if err != nil {
		return nil, err
	}

	var out []presburger.Constraint

	for i := 0; i < len(ops); i++ {
		lhs, err := parseExpr(operands[i])
		if err != nil {
			return nil, err
		}

		rhs, err := parseExpr(operands[i+1])
		if err != nil {
			return nil, err
		}

		c, err := toConstraint(lhs, ops[i], rhs)
		if err != nil {
			return nil, err
		}

		out = append(out, c)
	}

	return out, nil
}

func toConstraint(lhs presburger.AffineExpr, op string, rhs presburger.AffineExpr) (presburger.Constraint, error) {
	diff := rhs.Add(lhs.Negate()) // rhs - lhs

	switch op {
	case "<":
		// lhs < rhs  =>  rhs - lhs - 1 >= 0
		return presburger.Constraint{Expr: diff.Add(presburger.Constant(-1)), Eq: false}, nil
	case "<=":
		// lhs <= rhs  =>  rhs - lhs >= 0
		return presburger.Constraint{Expr: diff, Eq: false}, nil
	case ">":
		// lhs > rhs  =>  lhs - rhs - 1 >= 0
		return presburger.Constraint{Expr: diff.Negate().Add(presburger.Constant(-1)), Eq: false}, nil
	case ">=":
		return presburger.Constraint{Expr: diff.Negate(), Eq: false}, nil
	case "=", "==":
		return presburger.Constraint{Expr: diff, Eq: true}, nil
	default:
		return presburger.Constraint{}, errs.Invalid("constraint", "unknown operator %q", op)
	}
}

// splitComparisonChain splits "a OP1 b OP2 c" into operands [a,b,c] and ops
// [OP1,OP2], ignoring operators inside brackets/parens.
func splitComparisonChain(s string) ([]string, []string, error) {
	runes := []rune(s)
	depth := 0

	var operands []string

	var ops []string

	last := 0

	for i := 0; i < len(runes); i++ {
		switch runes[i] {
		case '[', '(', '{':
			depth++

			continue
		case ']', ')', '}':
			depth--

			continue
		}

		if depth != 0 {
			continue
		}

		op, width := matchOperatorAt(runes, i)
		if op == "" {
			continue
		}

		operands = append(operands, string(runes[last:i]))
		ops = append(ops, op)
		i += width - 1
		last = i + 1
	}

	operands = append(operands, string(runes[last:]))

	if len(ops) == 0 {
		return nil, nil, fmt.Errorf("no comparison operator in %q", s)
	}

	return operands, ops, nil
}

func matchOperatorAt(runes []rune, i int) (string, int) {
	two := ""
	if i+2 <= len(runes) {
		two = string(runes[i : i+2])
	}

	switch two {
	case "<=", ">=", "==":
		return two, 2
	}

	switch runes[i] {
	case '<', '>', '=':
		return string(runes[i]), 1
	}

	return "", 0
}

// parseExpr parses a sum of signed terms, each optionally "coeff*name" or a
// bare integer or bare identifier.
func parseExpr(s string) (presburger.AffineExpr, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") && balanced(s[1:len(s)-1]) {
		s = s[1 : len(s)-1]
	}

	out := presburger.NewAffineExpr()
	sign := int64(1)
	i := 0
	runes := []rune(s)

	for i < len(runes) {
		for i < len(runes) && unicode.IsSpace(runes[i]) {
			i++
		}

		if i >= len(runes) {
			break
		}

		switch runes[i] {
		case '+':
			i++

			continue
		case '-':
			sign = -sign
			i++

			continue
		}

		start := i
		for i < len(runes) && !unicode.IsSpace(runes[i]) && runes[i] != '+' && runes[i] != '-' {
			i++
		}

		term := strings.TrimSpace(string(runes[start:i]))
		if term == "" {
			continue
		}

		te, err := parseTerm(term)
		if err != nil {
			return presburger.AffineExpr{}, err
		}

		out = out.Add(te.Scale(big.NewInt(sign)))
		sign = 1
	}

	return out, nil
}

func balanced(s string) bool {
	depth := 0
	for _, r := range s {
		switch r {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
			if depth < 0 {
				return false
			}
		}
	}

	return depth == 0
}

// parseTerm parses "coeff*name", "name", or a bare integer constant.
func parseTerm(s string) (presburger.AffineExpr, error) {
	if idx := strings.Index(s, "*"); idx >= 0 {
		coeffText := strings.TrimSpace(s[:idx])
		name := strings.TrimSpace(s[idx+1:])

		coeff, ok := new(big.Int).SetString(coeffText, 10)
		if !ok {
			return presburger.AffineExpr{}, errs.Invalid("constraint", "bad coefficient %q", coeffText)
		}

		return presburger.Var(name).Scale(coeff), nil
	}

	if v, ok := new(big.Int).SetString(s, 10); ok {
		e := presburger.NewAffineExpr()
		e.Const = v

		return e, nil
	}

	if !isIdentifier(s) {
		return presburger.AffineExpr{}, errs.Invalid("constraint", "cannot parse term %q", s)
	}

	return presburger.Var(s), nil
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		if unicode.IsLetter(r) || r == '_' {
			continue
		}

		if i > 0 && unicode.IsDigit(r) {
			continue
		}

		return false
	}

	return true
}
