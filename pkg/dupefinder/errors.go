package dupefinder

import "errors"

// Error taxonomy. Preprocessing failures are swallowed and logged (see
// preprocess.Process); everything else surfaces to the caller so that
// fingerprint generation and index operations remain fail-fast.
var (
	// ErrDecoderFailure means the decoder could not open or read a file.
	// Ingest aborts; no fingerprint is produced.
	ErrDecoderFailure = errors.New("dupefinder: decoder failure")

	// ErrEmptyAudio means the decoded or processed sample count was zero.
	ErrEmptyAudio = errors.New("dupefinder: empty audio")

	// ErrFingerprinterFailure means start/feed/finish/get-raw returned a
	// failure from the fingerprinter. Any partial fingerprint is discarded.
	ErrFingerprinterFailure = errors.New("dupefinder: fingerprinter failure")

	// ErrInvalidInput means invalid input was passed to this package; it is
	// returned by NewGenerator when a required factory is missing. Compare,
	// CompareSlidingWindow and Index report a nil or empty fingerprint with
	// their own package errors, which do not match this sentinel.
	ErrInvalidInput = errors.New("dupefinder: invalid input")

	// ErrIndexNotReady names the condition of an Index method called on a
	// zero-value Index instead of one built with NewIndex. Index (an alias
	// of index.Index) reports that condition with the index package's own
	// error, which does not match this sentinel under errors.Is.
	ErrIndexNotReady = errors.New("dupefinder: index not ready")
)
