package bls

import (
	"encoding/base64"
	"fmt"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
)

// Domain separation tags for the two hash-to-curve uses, following the
// standard BLS12381G2 ciphersuite identifiers.
var (
	signatureDST = []byte("BLS_SIG_BLS12381G2_XMD:SHA-256_SSWU_RO_NUL_")
	popDST       = []byte("BLS_SIG_BLS12381G2_XMD:SHA-256_SSWU_RO_POP_")
)

var (
	g1Gen    bls12381.G1Jac
	g1GenNeg bls12381.G1Affine // -g1, folded into every pairing check
)

func init() {
	var g1Aff bls12381.G1Affine
	g1Gen, _, g1Aff, _ = bls12381.Generators()
	g1GenNeg.Neg(&g1Aff)
}

// affinePoint is the byte-level contract shared by the curve library's G1 and
// G2 affine types. Both the pubkey and the signature conversion triples are
// built on this single parameterization.
type affinePoint[T any] interface {
	*T
	SetBytes(buf []byte) (int, error)
}

// decodeAffine parses a fixed-size affine or compressed encoding into the
// curve library's affine representation. SetBytes enforces the on-curve and
// prime-order subgroup checks, so a point that made it through never needs to
// be re-validated. The reserved all-zero placeholder, and any encoding whose
// flag bits disagree with len(buf), fail here: a successful decode must
// consume the whole buffer.
func decodeAffine[T any, PT affinePoint[T]](buf []byte) (T, error) {
	var p T
	n, err := PT(&p).SetBytes(buf)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("%w: %v", ErrPointDecoding, err)
	}
	if n != len(buf) {
		var zero T
		return zero, fmt.Errorf("%w: encoding is not a %d-byte representation", ErrPointDecoding, len(buf))
	}
	return p, nil
}

// parseBase64 decodes a base64 text form against a fixed expected length.
// A wrong string length is reported as ErrParseLength before any base64 or
// curve work happens.
func parseBase64(s string, base64Size, byteSize int) ([]byte, error) {
	if len(s) != base64Size {
		return nil, fmt.Errorf("%w: expected %d base64 characters, got %d", ErrParseLength, base64Size, len(s))
	}
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if len(raw) != byteSize {
		return nil, fmt.Errorf("%w: decoded to %d bytes, expected %d", ErrParseLength, len(raw), byteSize)
	}
	return raw, nil
}
