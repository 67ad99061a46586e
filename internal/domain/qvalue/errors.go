package qvalue

import "errors"

// Sentinel error kinds for dataset validation. Callers match with errors.Is.
var (
	ErrNoFactors       = errors.New("dataset has no factors")
	ErrNoSeries        = errors.New("dataset has no series")
	ErrEmptyName       = errors.New("empty name")
	ErrDuplicate       = errors.New("duplicate name")
	ErrLengthMismatch  = errors.New("series length does not match factor count")
	ErrValueOutOfRange = errors.New("q-value out of range [0,1]")
)
