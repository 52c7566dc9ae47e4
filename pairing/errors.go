// Package pairing wraps a BLS12-381 pairing-friendly curve behind a small,
// dependency-isolating interface: scalars in Zp, group elements in G1/G2,
// the target group GT, and the asymmetric pairing e: G1 x G2 -> GT. Every
// other package in this module (polynomial, vdsacc, vdscvc) talks to curve
// arithmetic only through these types, so a different curve backend can be
// swapped in without touching the accumulator or CVC math.
package pairing

import (
	"errors"
	"fmt"
)

// ErrGroup is returned for malformed group elements, bad serialization, or
// any other pairing-layer failure. It wraps vds.GroupError semantics at the
// lowest level so callers can errors.Is against it directly, or let the
// engines re-wrap it.
var ErrGroup = errors.New("pairing: group error")

// errInvalidLength reports a serialized buffer of the wrong size.
func errInvalidLength(what string, want, got int) error {
	return &groupError{msg: fmt.Sprintf("%s: invalid encoding length, want %d got %d", what, want, got)}
}

// errMalformed reports a buffer of the right size but an invalid point.
func errMalformed(what string) error {
	return &groupError{msg: what + ": malformed encoding"}
}

type groupError struct {
	msg string
}

func (e *groupError) Error() string { return "pairing: " + e.msg }

func (e *groupError) Unwrap() error { return ErrGroup }
