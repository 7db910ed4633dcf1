package report

import "errors"

// Pipeline failures fall into a closed set of kinds. Sparse or absent
// aggregation sections are not failures; they degrade to empty results.
var (
	// ErrUpstream signals an explicit error field in the input document.
	// The whole pipeline aborts rather than producing a partial report.
	ErrUpstream = errors.New("upstream error")

	// ErrMalformedInput signals a document that could not be decoded.
	ErrMalformedInput = errors.New("malformed input")

	// ErrCoercion signals a contract violation by the producer, such as a
	// non-numeric severity key or a non-positive day span.
	ErrCoercion = errors.New("coercion failed")
)
