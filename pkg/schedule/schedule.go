// Package schedule implements the rewrites of spec.md §4.4: tile, split,
// interchange, after, parallel/vector tagging, and buffer binding. Every
// function here mutates a Computation's Schedule (or, for tagging, its
// parent Function's tag maps) and, when auto_data_mapping is on, re-derives
// the computation's access relation afterward.
//
// Grounded on pkg/asm/lower.go's rewrite-pass shape: small, focused
// functions that transform one map at a time, operating by index rather
// than by worklist.
package schedule

import (
	"github.com/bits-and-blooms/bitset"
	"github.com/sirupsen/logrus"

	"github.com/rtohid/tiramisu/pkg/errs"
	"github.com/rtohid/tiramisu/pkg/ir"
	"github.com/rtohid/tiramisu/pkg/isl"
)

// RootDimension is the sentinel "dim" value After interprets as the
// leading, depth-0 ordering position (spec.md §4.4's "root_dimension").
const RootDimension = -1

func logEntry(c *ir.Computation, op string) *logrus.Entry {
	return logrus.WithField("computation", c.Name).WithField("op", op)
}

func rangeDimAt(c *ir.Computation, i int) (string, error) {
	dims := c.Schedule.RangeSpace()
	if i < 0 || i >= len(dims) {
		return "", errs.Mismatch(c.Name, "dimension index %d out of range (schedule has %d range dims)", i, len(dims))
	}

	return dims[i], nil
}

func afterTransform(fn *ir.Function, c *ir.Computation) error {
	if err := fn.RequireTransformable(); err != nil {
		return err
	}

	if fn.Options().AutoDataMapping {
		RederiveAccess(c)
	}

	return nil
}

// Split replaces range dimension inDim0 by two dimensions
// (inDim0+"_outer", inDim0+"_inner") related by
// t_inDim0 = outer*sizeX + inner, 0 <= inner < sizeX (spec.md §4.4).
func Split(c *ir.Computation, inDim0 int, sizeX int64) error {
	fn := c.Parent()

	if err := fn.RequireTransformable(); err != nil {
		return err
	}

	name, err := rangeDimAt(c, inDim0)
	if err != nil {
		return err
	}

	outer := name + "_outer"
	inner := name + "_inner"

	sched, err := isl.SplitDim(c.Schedule, name, outer, inner, sizeX)
	if err != nil {
		return err
	}

	c.Schedule = isl.CoalesceMap(sched)

	logEntry(c, "split").WithField("dim", inDim0).WithField("size", sizeX).Debug("split schedule dimension")

	return afterTransform(fn, c)
}

// Interchange swaps the names of the two range dimensions at positions
// inDim0 and inDim1 (spec.md §4.4). No new constraints are introduced.
func Interchange(c *ir.Computation, inDim0, inDim1 int) error {
	fn := c.Parent()

	if err := fn.RequireTransformable(); err != nil {
		return err
	}

	dims := c.Schedule.RangeSpace()
	if inDim0 < 0 || inDim0 >= len(dims) || inDim1 < 0 || inDim1 >= len(dims) {
		return errs.Mismatch(c.Name, "interchange addresses an out-of-range dimension")
	}

	c.Schedule = isl.InterchangeDims(c.Schedule, inDim0, inDim1)

	logEntry(c, "interchange").WithField("a", inDim0).WithField("b", inDim1).Debug("interchanged schedule dimensions")

	return afterTransform(fn, c)
}

// Tile is defined as split(inDim1,sizeY); split(inDim0,sizeX);
// interchange(inDim0+1, inDim1+1) (spec.md §4.4). The precondition is
// inDim0 < inDim1 and the two dimensions consecutive, per spec.md's
// explicit correction of the source header's comment (§9(a)).
func Tile(c *ir.Computation, inDim0, inDim1 int, sizeX, sizeY int64) error {
	if inDim0 >= inDim1 {
		return errs.Invalid(c.Name, "tile requires inDim0 < inDim1, got %d and %d", inDim0, inDim1)
	}

	if inDim1 != inDim0+1 {
		return errs.Invalid(c.Name, "tile requires inDim0 and inDim1 to be consecutive, got %d and %d", inDim0, inDim1)
	}

	if sizeX < 1 || sizeY < 1 {
		return errs.Invalid(c.Name, "tile sizes must be >= 1, got %d and %d", sizeX, sizeY)
	}

	if err := Split(c, inDim1, sizeY); err != nil {
		return err
	}

	if err := Split(c, inDim0, sizeX); err != nil {
		return err
	}

	return Interchange(c, inDim0+1, inDim1+1)
}

// usage tracks, per computation, which range-dimension positions After has
// already inserted an ordering dimension at, using a bitset the way
// pkg/align tracks padded computations. A second After call that lands on an
// already-claimed position would silently insert a second ordering
// dimension there and corrupt the schedule's dimension count, so After
// checks ordinalAvailable for both operands before touching either
// schedule, and only then calls markOrdered.
var usage = make(map[*ir.Computation]*bitset.BitSet)

func ordinalAvailable(c *ir.Computation, pos int) bool {
	bs, ok := usage[c]

	return !ok || !bs.Test(uint(pos))
}

func markOrdered(c *ir.Computation, pos int) {
	bs, ok := usage[c]
	if !ok {
		bs = bitset.New(uint(pos + 1))
		usage[c] = bs
	}

	bs.Set(uint(pos))
}

// After imposes a lexicographic ordering: every instance of other executes
// before every instance of this at depth dim (spec.md §4.4). dim ==
// RootDimension inserts the ordering dimension at position 0; otherwise at
// dim+1. A non-root dim is rejected unless both schedules already have at
// least dim+1 range dimensions. After does not pad either schedule itself,
// and AlignSchedules freezes the function, so no After call succeeds once
// AlignSchedules has run.
func After(this, other *ir.Computation, dim int) error {
	fn := this.Parent()

	if err := fn.RequireTransformable(); err != nil {
		return err
	}

	var position int

	switch {
	case dim == RootDimension:
		position = 0
	case dim >= 0:
		if !requiresAligned(this, other, dim) {
			return errs.Phase(this.Name, "after at non-root dimension %d requires both schedules to have at least %d range dims", dim, dim+1)
		}

		position = dim + 1
	default:
		return errs.Invalid(this.Name, "invalid after dimension %d", dim)
	}

	if !ordinalAvailable(this, position) {
		return errs.Phase(this.Name, "after has already inserted an ordering dimension at position %d", position)
	}

	if !ordinalAvailable(other, position) {
		return errs.Phase(other.Name, "after has already inserted an ordering dimension at position %d", position)
	}

	this.Schedule = isl.InsertOrderingDim(this.Schedule, position, orderingDimName(this, other, position), 1)
	other.Schedule = isl.InsertOrderingDim(other.Schedule, position, orderingDimName(this, other, position), 0)

	markOrdered(this, position)
	markOrdered(other, position)

	logEntry(this, "after").WithField("other", other.Name).WithField("dim", dim).Debug("imposed ordering")

	if err := afterTransform(fn, this); err != nil {
		return err
	}

	return afterTransform(fn, other)
}

func requiresAligned(this, other *ir.Computation, dim int) bool {
	return dim+1 <= len(this.Schedule.RangeSpace()) && dim+1 <= len(other.Schedule.RangeSpace())
}

func orderingDimName(this, other *ir.Computation, position int) string {
	return "ord_" + other.Name + "_" + this.Name + "_" + itoa(position)
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}

	digits := []byte{}
	for i > 0 {
		digits = append([]byte{byte('0' + i%10)}, digits...)
		i /= 10
	}

	return string(digits)
}

// TagParallelDimension records this computation at level in the parent
// function's parallel_dimensions map (spec.md §4.4).
func TagParallelDimension(c *ir.Computation, level int) error {
	return c.Parent().TagParallelDimension(c.Name, level)
}

// TagVectorDimension records this computation at level in the parent
// function's vector_dimensions map (spec.md §4.4).
func TagVectorDimension(c *ir.Computation, level int) error {
	return c.Parent().TagVectorDimension(c.Name, level)
}

// BindTo constructs the identity map from c's iteration domain to a range
// whose tuple name equals buf.Name, and installs it as c's access relation
// (spec.md §4.4).
func BindTo(c *ir.Computation, bufName string) error {
	rangeSet := isl.SetSetTupleName(c.IterationDomain, bufName)
	access := isl.MapFromSetToSet(c.IterationDomain, rangeSet)
	c.Access = &access

	logEntry(c, "bind_to").WithField("buffer", bufName).Debug("bound access relation")

	return nil
}

// RederiveAccess recomputes c's access relation as the current schedule
// with its range tuple renamed to the previously bound buffer — "storage
// follows scheduling" (spec.md §4.4). A computation with no prior binding
// is left untouched.
func RederiveAccess(c *ir.Computation) {
	if c.Access == nil {
		return
	}

	bufName := c.Access.GetTupleName(isl.Range)
	derived := isl.SetTupleNameMap(c.Schedule, isl.Range, bufName)
	c.Access = &derived
}
