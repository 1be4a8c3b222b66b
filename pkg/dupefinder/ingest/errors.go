package ingest

import "errors"

var (
	// ErrDecoderFailure means the decoder could not open or read the file.
	ErrDecoderFailure = errors.New("ingest: decoder failure")

	// ErrEmptyAudio means zero frames were available to fingerprint.
	ErrEmptyAudio = errors.New("ingest: empty audio")

	// ErrFingerprinterFailure means start/feed/finish/get_raw failed.
	ErrFingerprinterFailure = errors.New("ingest: fingerprinter failure")
)
