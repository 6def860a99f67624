package ir

import (
	"github.com/segmentio/encoding/json"

	"github.com/rtohid/tiramisu/pkg/errs"
)

// bufferSnapshot is the JSON-facing projection of a Buffer.
type bufferSnapshot struct {
	Name  string  `json:"name"`
	Sizes []int64 `json:"sizes"`
	Kind  string  `json:"kind"`
	Width uint    `json:"width"`
}

// computationSnapshot is the JSON-facing projection of a Computation: its
// name, iteration domain, current schedule, and access relation text, none
// of which round-trip back through ParseSet/ParseMap here — this is a
// read-only diagnostic view, not a serialization format.
type computationSnapshot struct {
	Name        string `json:"name"`
	Domain      string `json:"domain"`
	Schedule    string `json:"schedule"`
	Access      string `json:"access,omitempty"`
	Schedulable bool   `json:"schedulable"`
}

// invariantSnapshot is the JSON-facing projection of an Invariant.
type invariantSnapshot struct {
	Name string `json:"name"`
}

// functionSnapshot is the complete JSON-facing projection of a Function
// that DumpJSON marshals.
type functionSnapshot struct {
	Name         string                `json:"name"`
	Buffers      []bufferSnapshot      `json:"buffers"`
	Computations []computationSnapshot `json:"computations"`
	Invariants   []invariantSnapshot   `json:"invariants"`
}

// DumpJSON renders fn's argument buffers, computations (domain, schedule,
// access relation), and invariants as an indented JSON document, for
// tooling that wants a machine-readable snapshot of a function's
// declaration/transformation state rather than the text forms pkg/isl
// types print via String().
func (fn *Function) DumpJSON() ([]byte, error) {
	snap := functionSnapshot{Name: fn.Name}

	for _, b := range fn.ArgumentBuffers() {
		snap.Buffers = append(snap.Buffers, bufferSnapshot{
			Name:  b.Name,
			Sizes: b.Sizes,
			Kind:  b.Kind.String(),
			Width: b.Elem.Width,
		})
	}

	for _, c := range fn.Computations() {
		cs := computationSnapshot{
			Name:        c.Name,
			Domain:      c.IterationDomain.String(),
			Schedule:    c.Schedule.String(),
			Schedulable: c.Schedulable,
		}

		if c.Access != nil {
			cs.Access = c.Access.String()
		}

		snap.Computations = append(snap.Computations, cs)
	}

	for _, inv := range fn.Invariants() {
		snap.Invariants = append(snap.Invariants, invariantSnapshot{Name: inv.Name})
	}

	out, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, errs.Invalid(fn.Name, "failed to marshal function snapshot: %v", err)
	}

	return out, nil
}
