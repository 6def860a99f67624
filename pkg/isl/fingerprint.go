package isl

import (
	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
)

// fingerprint is a fixed-size structural key derived from a Set's
// canonicalized text, used only to intern/memoize coalesce results. It is
// never treated as a numeric quantity and never participates in Presburger
// arithmetic — fr.Element reduces modulo the curve's scalar field, which
// would silently misrepresent a genuine affine coefficient or bound.
type fingerprint [fr.Bytes]byte

// fingerprintOf hashes the canonical serialization of a set into an
// fr.Element-sized digest by absorbing it byte-chunk-wise and reducing with
// SetBytes, then reading the canonical (reduced) byte form back out. This
// reuses the field's own canonicalization as a cheap, fixed-width mixing
// step; nothing here relies on the field's arithmetic properties.
func fingerprintOf(s Set) fingerprint {
	text := []byte(serializeCanonical(s))

	var acc fr.Element
	acc.SetZero()

	chunk := fr.Bytes
	for i := 0; i < len(text); i += chunk {
		end := i + chunk
		if end > len(text) {
			end = len(text)
		}

		var next fr.Element
		next.SetBytes(text[i:end])
		acc.Add(&acc, &next)
	}

	var out fingerprint
	b := acc.Bytes()
	copy(out[:], b[:])

	return out
}
