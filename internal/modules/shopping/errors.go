package shopping

import "errors"

// ErrEmptyCart means there is nothing to aggregate. It is a signal to the
// caller rather than a failure worth diagnosing.
var ErrEmptyCart = errors.New("empty_cart")
