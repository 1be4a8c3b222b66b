package index

import "errors"

var (
	// errIndexNotReady means a method was called on a zero-value Index
	// instead of one built with New.
	errIndexNotReady = errors.New("index: not ready")

	// errInvalidInput means a nil fingerprint or mismatched batch was passed
	// to an Index method.
	errInvalidInput = errors.New("index: invalid input")
)
