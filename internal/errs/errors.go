package errs

import "errors"

// Sentinel errors shared by the decoding and cleanup stages.
var (
	// ErrMalformedRecord marks a single product record that cannot be decoded.
	// The record is skipped; the run continues.
	ErrMalformedRecord = errors.New("malformed record")
	// ErrInvalidDocument marks an input document that cannot be processed at all.
	ErrInvalidDocument = errors.New("invalid document")
)
