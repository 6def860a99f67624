// Package parse is the §4.2 parser: a proper rune tokenizer — not substring
// search — for the standard ISL textual set/map syntax
// "[params] -> { Name[dims] : constraints }" (sets) and
// "[params] -> { Dom[dims] -> Rng[dims] : constraints }" (maps). It
// recognizes only the bracket/arrow/colon structure; every constraint is
// kept as an opaque, verbatim substring here, satisfying the round-trip
// property of spec.md §8 independent of whether the substring is later
// recognized as an affine constraint by ParseConstraint.
//
// Grounded on pkg/sexp/parser.go's Parser: a rune slice plus an index
// cursor, single-rune lookahead, and small per-construct parse methods.
package parse

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/rtohid/tiramisu/pkg/errs"
)

// ParsedSet is the structured form of a set's text: tuple name, dimension
// list, and opaque constraint substrings.
type ParsedSet struct {
	Params      []string
	Name        string
	Dims        []string
	Constraints []string
}

// ParsedMap is the structured form of a map's text: domain and range tuple
// names/dims, and opaque constraint substrings.
type ParsedMap struct {
	Params      []string
	DomainName  string
	DomainDims  []string
	RangeName   string
	RangeDims   []string
	Constraints []string
}

type tokenizer struct {
	runes []rune
	pos   int
}

func newTokenizer(s string) *tokenizer {
	return &tokenizer{runes: []rune(s)}
}

func (t *tokenizer) peek() (rune, bool) {
	t.skipSpace()
	if t.pos >= len(t.runes) {
		return 0, false
	}

	return t.runes[t.pos], true
}

func (t *tokenizer) skipSpace() {
	for t.pos < len(t.runes) && unicode.IsSpace(t.runes[t.pos]) {
		t.pos++
	}
}

func (t *tokenizer) expect(r rune) error {
	c, ok := t.peek()
	if !ok || c != r {
		return fmt.Errorf("expected %q at position %d", r, t.pos)
	}

	t.pos++

	return nil
}

func (t *tokenizer) tryConsume(r rune) bool {
	c, ok := t.peek()
	if ok && c == r {
		t.pos++

		return true
	}

	return false
}

func (t *tokenizer) tryConsumeString(s string) bool {
	t.skipSpace()
	rs := []rune(s)

	if t.pos+len(rs) > len(t.runes) {
		return false
	}

	for i, r := range rs {
		if t.runes[t.pos+i] != r {
			return false
		}
	}

	t.pos += len(rs)

	return true
}

func (t *tokenizer) identifier() (string, error) {
	t.skipSpace()
	start := t.pos

	for t.pos < len(t.runes) {
		r := t.runes[t.pos]
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			t.pos++

			continue
		}

		break
	}

	if t.pos == start {
		return "", fmt.Errorf("expected identifier at position %d", start)
	}

	return string(t.runes[start:t.pos]), nil
}

// identList parses "a,b,c" up to (not consuming) the next ']' or ')'.
func (t *tokenizer) identList() ([]string, error) {
	var out []string

	for {
		t.skipSpace()

		if c, ok := t.peek(); ok && (c == ']' || c == ')') {
			break
		}

		id, err := t.identifier()
		if err != nil {
			return nil, err
		}

		out = append(out, id)

		if !t.tryConsume(',') {
			break
		}
	}

	return out, nil
}

// balancedUntil reads runes, tracking bracket/paren/brace depth, until it
// finds one of the stop runes at depth 0, without consuming the stop rune.
func (t *tokenizer) balancedUntil(stops ...rune) string {
	start := t.pos
	depth := 0

	for t.pos < len(t.runes) {
		r := t.runes[t.pos]

		switch r {
		case '[', '(', '{':
			depth++
		case ']', ')', '}':
			if depth == 0 {
				goto done
			}

			depth--
		}

		if depth == 0 {
			for _, s := range stops {
				if r == s {
					goto done
				}
			}
		}

		t.pos++
	}

done:
	return strings.TrimSpace(string(t.runes[start:t.pos]))
}

func (t *tokenizer) parseParams() ([]string, error) {
	if !t.tryConsume('[') {
		return nil, nil
	}

	params, err := t.identList()
	if err != nil {
		return nil, err
	}

	if err := t.expect(']'); err != nil {
		return nil, err
	}

	if !t.tryConsumeString("->") {
		return nil, fmt.Errorf("expected -> after parameter list")
	}

	return params, nil
}

func (t *tokenizer) parseTuple() (string, []string, error) {
	name, err := t.identifier()
	if err != nil {
		name = ""
	}

	if !t.tryConsume('[') {
		return name, nil, nil
	}

	dims, err := t.identList()
	if err != nil {
		return "", nil, err
	}

	if err := t.expect(']'); err != nil {
		return "", nil, err
	}

	return name, dims, nil
}

func (t *tokenizer) parseConstraints() ([]string, error) {
	if !t.tryConsume(':') {
		return nil, nil
	}

	rest := t.balancedUntil('}')

	var out []string
	for _, part := range splitTopLevelAnd(rest) {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}

	return out, nil
}

func splitTopLevelAnd(s string) []string {
	var out []string

	depth := 0
	last := 0
	runes := []rune(s)

	for i := 0; i < len(runes); i++ {
		switch runes[i] {
		case '[', '(', '{':
			depth++
		case ']', ')', '}':
			depth--
		}

		if depth == 0 && i+3 <= len(runes) && string(runes[i:i+3]) == "and" && isWordBoundary(runes, i, i+3) {
			out = append(out, string(runes[last:i]))
			i += 3
			last = i
		}
	}

	out = append(out, string(runes[last:]))

	return out
}

func isWordBoundary(runes []rune, start, end int) bool {
	if start > 0 && !unicode.IsSpace(runes[start-1]) {
		return false
	}

	if end < len(runes) && !unicode.IsSpace(runes[end]) {
		return false
	}

	return true
}

// ParseSet parses "[params] -> { Name[dims] : constraints }".
func ParseSet(text string) (ParsedSet, error) {
	t := newTokenizer(text)

	params, err := t.parseParams()
	if err != nil {
		return ParsedSet{}, errs.Invalid("set", "malformed text: %v", err)
	}

	if err := t.expect('{'); err != nil {
		return ParsedSet{}, errs.Invalid("set", "malformed text: %v", err)
	}

	name, dims, err := t.parseTuple()
	if err != nil {
		return ParsedSet{}, errs.Invalid("set", "malformed text: %v", err)
	}

	constraints, err := t.parseConstraints()
	if err != nil {
		return ParsedSet{}, errs.Invalid("set", "malformed text: %v", err)
	}

	if err := t.expect('}'); err != nil {
		return ParsedSet{}, errs.Invalid("set", "malformed text: %v", err)
	}

	return ParsedSet{Params: params, Name: name, Dims: dims, Constraints: constraints}, nil
}

// ParseMap parses "[params] -> { Dom[dims] -> Rng[dims] : constraints }".
func ParseMap(text string) (ParsedMap, error) {
	t := newTokenizer(text)

	params, err := t.parseParams()
	if err != nil {
		return ParsedMap{}, errs.Invalid("map", "malformed text: %v", err)
	}

	if err := t.expect('{'); err != nil {
		return ParsedMap{}, errs.Invalid("map", "malformed text: %v", err)
	}

	domName, domDims, err := t.parseTuple()
	if err != nil {
		return ParsedMap{}, errs.Invalid("map", "malformed text: %v", err)
	}

	if !t.tryConsumeString("->") {
		return ParsedMap{}, errs.Invalid("map", "expected -> between domain and range tuples")
	}

	rngName, rngDims, err := t.parseTuple()
	if err != nil {
		return ParsedMap{}, errs.Invalid("map", "malformed text: %v", err)
	}

	constraints, err := t.parseConstraints()
	if err != nil {
		return ParsedMap{}, errs.Invalid("map", "malformed text: %v", err)
	}

	if err := t.expect('}'); err != nil {
		return ParsedMap{}, errs.Invalid("map", "malformed text: %v", err)
	}

	return ParsedMap{
		Params: params, DomainName: domName, DomainDims: domDims,
		RangeName: rngName, RangeDims: rngDims, Constraints: constraints,
	}, nil
}

// ReplaceDim backs the replace(in, out1, out2) operation spec.md §4.2
// describes: it replaces a single dimension name in an ordered dimension
// list with two new names at the same position, used by split/tile to grow
// a schedule range's dimensionality.
func ReplaceDim(dims []string, in, out1, out2 string) ([]string, error) {
	for i, d := range dims {
		if d == in {
			out := make([]string, 0, len(dims)+1)
			out = append(out, dims[:i]...)
			out = append(out, out1, out2)
			out = append(out, dims[i+1:]...)

			return out, nil
		}
	}

	return nil, errs.Mismatch("replace", "dimension %q not found", in)
}

// SerializeSet renders a ParsedSet back into canonical ISL text.
func SerializeSet(p ParsedSet) string {
	var b strings.Builder

	if len(p.Params) > 0 {
		b.WriteString("[" + strings.Join(p.Params, ",") + "] -> ")
	}

	b.WriteString("{ ")
	b.WriteString(p.Name)
	b.WriteString("[" + strings.Join(p.Dims, ",") + "]")

	if len(p.Constraints) > 0 {
		b.WriteString(" : " + strings.Join(p.Constraints, " and "))
	}

	b.WriteString(" }")

	return b.String()
}

// SerializeMap renders a ParsedMap back into canonical ISL text.
func SerializeMap(p ParsedMap) string {
	var b strings.Builder

	if len(p.Params) > 0 {
		b.WriteString("[" + strings.Join(p.Params, ",") + "] -> ")
	}

	b.WriteString("{ ")
	b.WriteString(p.DomainName)
	b.WriteString("[" + strings.Join(p.DomainDims, ",") + "]")
	b.WriteString(" -> ")
	b.WriteString(p.RangeName)
	b.WriteString("[" + strings.Join(p.RangeDims, ",") + "]")

	if len(p.Constraints) > 0 {
		b.WriteString(" : " + strings.Join(p.Constraints, " and "))
	}

	b.WriteString(" }")

	return b.String()
}
