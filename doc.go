// Package bls implements the BLS (Boneh-Lynn-Shacham) signature scheme over
// the BLS12-381 pairing-friendly curve, in the minimal-pubkey-size
// configuration: public keys are points on G1, signatures are points on G2.
//
// Every public key and signature exists in three representations:
//   - a projective form (PubkeyProjective, SignatureProjective) used for all
//     arithmetic: signing, aggregation and pairing checks
//   - an affine byte form (Pubkey, Signature) holding the fixed-size
//     uncompressed two-coordinate encoding
//   - a compressed byte form (PubkeyCompressed, SignatureCompressed) holding
//     the one-coordinate encoding
//
// The AsPubkeyProjective and AsSignatureProjective interfaces are implemented
// by all three representations, so aggregation and verification accept any
// mix of them. Decoding bytes into a projective point enforces the on-curve
// and prime-order subgroup checks exactly once; validated points are never
// re-checked.
//
// Aggregation has sequential and parallel entry points with identical
// results; the parallel variants only fan out the group-addition reduction.
package bls

import (
	"github.com/blang/semver/v4"
)

// Version of the library
var Version = semver.MustParse("0.1.0")
