package ir

import "github.com/rtohid/tiramisu/pkg/errs"

// ArgumentKind classifies a Buffer's role in a Function's call signature
// (spec.md §3), mirroring how the teacher's register package classifies a
// Register as input/output/computed.
type ArgumentKind int

const (
	// Input buffers are read, never written by the function body, and are
	// listed exactly once in the function's argument sequence.
	Input ArgumentKind = iota
	// Output buffers are written and listed exactly once in the argument
	// sequence.
	Output
	// Internal buffers are scratch storage, never listed as an argument.
	Internal
)

func (k ArgumentKind) String() string {
	switch k {
	case Input:
		return "Input"
	case Output:
		return "Output"
	case Internal:
		return "Internal"
	default:
		return "Unknown"
	}
}

// ElementType describes a buffer's scalar storage type: bit width,
// signedness, and whether it is floating point.
type ElementType struct {
	Width      uint
	Signed     bool
	FloatPoint bool
}

// Buffer is a named, fixed-dimensionality block of typed storage (spec.md
// §3). Buffers are owned exclusively by their parent Function.
type Buffer struct {
	Name    string
	Sizes   []int64
	Elem    ElementType
	Kind    ArgumentKind
	HostPtr interface{}

	parent *Function
}

// NewBuffer constructs a buffer, performing the structural validation
// spec.md §4.3 requires (non-empty name, positive dimensionality, all sizes
// positive) and registers it with the parent function.
func NewBuffer(fn *Function, name string, sizes []int64, elem ElementType, kind ArgumentKind) (*Buffer, error) {
	if fn == nil {
		return nil, errs.Invalid(name, "buffer requires a non-null parent function")
	}

	if name == "" {
		return nil, errs.Invalid("<buffer>", "buffer name must be non-empty")
	}

	if _, exists := fn.bufferByName(name); exists {
		return nil, errs.Invalid(name, "duplicate buffer or computation name")
	}

	if _, exists := fn.computationByName(name); exists {
		return nil, errs.Invalid(name, "duplicate buffer or computation name")
	}

	if len(sizes) == 0 {
		return nil, errs.Invalid(name, "buffer dimensionality must be > 0")
	}

	for _, s := range sizes {
		if s <= 0 {
			return nil, errs.Invalid(name, "buffer dimension sizes must all be positive, got %d", s)
		}
	}

	b := &Buffer{
		Name:   name,
		Sizes:  append([]int64{}, sizes...),
		Elem:   elem,
		Kind:   kind,
		parent: fn,
	}

	fn.buffers[name] = b

	if kind != Internal {
		fn.argumentOrder = append(fn.argumentOrder, name)
	}

	fn.logger.WithField("buffer", name).WithField("kind", kind.String()).Debug("declared buffer")

	return b, nil
}

// Dims returns the buffer's dimensionality.
func (b *Buffer) Dims() int { return len(b.Sizes) }
