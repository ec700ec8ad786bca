package bls

import "errors"

var (
	// ErrEmptyAggregation is returned when aggregation or aggregate
	// verification is invoked with no signatures or no public keys. There is
	// no meaningful aggregate of zero elements; silently returning the
	// identity would hand the caller a forgeable value.
	ErrEmptyAggregation = errors.New("bls: empty aggregation")

	// ErrPointDecoding is returned when bytes do not decode to a valid curve
	// point: wrong length, not on the curve, or outside the prime-order
	// subgroup.
	ErrPointDecoding = errors.New("bls: point decoding failed")

	// ErrKeyDerivation is returned when secret scalar material is malformed
	// or a seed is too short.
	ErrKeyDerivation = errors.New("bls: key derivation failed")

	// ErrParseLength is returned when a base64 text form, or its decoded
	// content, has the wrong fixed length. It is reported before any curve
	// validation is attempted.
	ErrParseLength = errors.New("bls: unexpected text length")

	// ErrParse is returned when a base64 text form of the right length cannot
	// be decoded.
	ErrParse = errors.New("bls: malformed base64 text")
)
