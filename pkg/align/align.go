// Package align implements spec.md §4.5: padding every computation's
// schedule range to a common dimensionality, then materializing each
// computation's time-processor domain by applying its schedule to its
// iteration domain.
//
// Grounded on pkg/ir/padding.go's shape (compute a per-entity value, then
// apply it uniformly across a collection) — generalized from "per-register
// padding value" to "per-schedule trailing zero dimensions".
package align

import (
	"github.com/bits-and-blooms/bitset"
	"github.com/sirupsen/logrus"

	"github.com/rtohid/tiramisu/pkg/ir"
	"github.com/rtohid/tiramisu/pkg/isl"
)

// aligned tracks, per function, which computations have already been
// padded to the function's current maximum range dimensionality. Every
// AlignSchedules call recomputes that maximum; a computation already marked
// is not padded again, so a second call on an unchanged function adds no
// dimensions (spec.md §8's "Alignment idempotence" property).
var aligned = make(map[*ir.Function]*bitset.BitSet)

// GetMaxSchedulesRangeDim returns the maximum range dimensionality across
// all of fn's computations' schedules (spec.md §4.5).
func GetMaxSchedulesRangeDim(fn *ir.Function) int {
	max := 0
	for _, c := range fn.Computations() {
		if n := c.Schedule.GetDimCount(); n > max {
			max = n
		}
	}

	return max
}

// padName is the canonical, purely positional name for a padding dimension
// inserted at absolute position pos. Using a position-derived name (rather
// than one derived from the computation's own transformation history)
// guarantees that two computations padded to the same target dimensionality
// end up with textually identical dimension names at every padded position
// — required for AST lowering to recognize them as the same coordinate.
func padName(pos int) string {
	return "pad_" + itoa(pos)
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

// AlignSchedules pads each computation's schedule range with trailing
// zero-valued dimensions until every range has the function-wide maximum
// dimensionality (spec.md §4.5). Idempotent: calling it twice in a row with
// no intervening transformation is a no-op the second time.
func AlignSchedules(fn *ir.Function) {
	target := GetMaxSchedulesRangeDim(fn)

	bs, ok := aligned[fn]
	if !ok {
		bs = bitset.New(uint(len(fn.Computations())))
		aligned[fn] = bs
	}

	for i, c := range fn.Computations() {
		cur := c.Schedule.GetDimCount()
		if cur >= target && bs.Test(uint(i)) {
			continue
		}

		for cur < target {
			c.Schedule = isl.InsertOrderingDim(c.Schedule, cur, padName(cur), 0)
			cur++
		}

		c.Schedule = isl.CoalesceMap(c.Schedule)
		bs.Set(uint(i))

		logrus.WithField("computation", c.Name).WithField("dims", target).Debug("aligned schedule")
	}

	fn.Freeze()
}

// GenTimeProcessorDomain computes, per computation,
// time_processor_domain = apply(iteration_domain, schedule), and returns
// the function-wide union of these sets (spec.md §4.5). Called
// automatically as a prelude to AST generation; idempotent in the sense
// that re-applying an unchanged schedule to an unchanged domain yields an
// equal set.
func GenTimeProcessorDomain(fn *ir.Function) isl.Set {
	var union isl.Set

	first := true

	for _, c := range fn.Computations() {
		tp := isl.Apply(c.IterationDomain, c.Schedule)
		c.TimeProcessor = &tp

		if first {
			union = tp
			first = false

			continue
		}

		union = isl.Union(union, tp)
	}

	return union
}
