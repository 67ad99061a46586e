package polar

import "errors"

// ErrLengthMismatch reports angles and values of different lengths.
var ErrLengthMismatch = errors.New("length mismatch")
