package polynomial

import "errors"

// ErrNonzeroRemainder is returned by DivByLinear when the linear factor does
// not divide the polynomial evenly -- in the accumulator, whose dividend is
// f(X) - f(-y), this means the stored polynomial is inconsistent.
var ErrNonzeroRemainder = errors.New("polynomial: division has nonzero remainder")

var errNonzeroRemainder = ErrNonzeroRemainder
