package math

import "fmt"

// Interval is a pair of (potentially infinite) bounds. DeriveBounds uses it
// to describe a dimension's known range in a single log field rather than
// two separate lower/upper values.
type Interval struct {
	min InfInt
	max InfInt
}

// NewInfInterval creates an interval directly from a pair of (potentially
// infinite) bounds, for callers that have already determined one or both
// sides may be unbounded rather than starting from finite big.Int values.
func NewInfInterval(lower InfInt, upper InfInt) Interval {
	return Interval{lower, upper}
}

func (p *Interval) String() string {
	return fmt.Sprintf("(%s..%s)", p.min.String(), p.max.String())
}
