// Package isl is the typed facade spec.md §4.1 describes over an integer-set/
// affine-map algebra: the "opaque Context" the data model assumes, plus Set,
// Map, text construction/serialization, the algebra operations, and the AST
// builder. Everything in here is a thin, well-documented wrapper around
// pkg/isl/presburger (the actual arithmetic) and pkg/isl/parse (the actual
// tokenizer); no caller outside this package ever touches either directly.
package isl

// Context is the algebra context spec.md §3 says every Function, Set, and
// Map handle is stamped with. It owns nothing refcounted in this
// implementation (presburger.Set/Map are plain values), but it is the home
// of the coalesce fingerprint cache, and NewSet and NewMap take it as a
// parameter so that a future, heavier backend could make it own real resources without
// changing any caller.
type Context struct {
	coalesceMemo map[fingerprint]Set
}

// NewContext constructs a fresh algebra context, one per Function per
// spec.md §5 ("the algebra context is not shared across functions").
func NewContext() *Context {
	return &Context{coalesceMemo: make(map[fingerprint]Set)}
}
