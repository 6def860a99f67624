// Package math holds the small potentially-infinite-integer primitives
// pkg/isl/presburger's bound diagnostics need: enough of the teacher's
// InfInt/Interval vocabulary to report a dimension as "unbounded" rather
// than silently defaulting it to a concrete value, and nothing else.
package math

import "math/big"

const (
	notAnInfinity = iota
	negativeInfinity
	positiveInfinity
)

// PosInfinity represents positive infinity.
var PosInfinity = InfInt{sign: positiveInfinity}

// NegInfinity represents negative infinity.
var NegInfinity = InfInt{sign: negativeInfinity}

// InfInt is an integer that can additionally stand for positive or negative
// infinity, for DeriveBounds to report a side of a dimension's range it
// could not isolate as genuinely unbounded rather than collapsing it into
// the same zero the loop bound itself defaults to.
type InfInt struct {
	val  big.Int
	sign uint8
}

// SetInt sets this to match a finite big integer, cloning its value.
func (p *InfInt) SetInt(other big.Int) {
	var val big.Int

	val.Set(&other)

	p.val = val
	p.sign = notAnInfinity
}

func (p *InfInt) String() string {
	switch p.sign {
	case negativeInfinity:
		return "-∞"
	case positiveInfinity:
		return "+∞"
	default:
		return p.val.String()
	}
}
