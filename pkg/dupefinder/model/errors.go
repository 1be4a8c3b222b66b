package model

import "errors"

// Sentinel errors classifying the ways a Fingerprint can fail validation.
// Callers should use errors.Is against these rather than string-matching.
var (
	ErrEmpty   = errors.New("fingerprint is empty")
	ErrTooLong = errors.New("fingerprint exceeds maximum length")
	ErrInvalid = errors.New("fingerprint is invalid")
)
