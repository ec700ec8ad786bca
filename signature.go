package bls

import (
	"bytes"
	"encoding/base64"
	"sync"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"golang.org/x/sync/errgroup"

	"github.com/consensys/bls-signatures/internal/parallel"
)

const (
	// SignatureCompressedSize is the size of a signature in the compressed
	// point representation.
	SignatureCompressedSize = bls12381.SizeOfG2AffineCompressed

	// SignatureCompressedBase64Size is the size of a compressed signature in
	// base64.
	SignatureCompressedBase64Size = 128

	// SignatureAffineSize is the size of a signature in the affine point
	// representation.
	SignatureAffineSize = bls12381.SizeOfG2AffineUncompressed

	// SignatureAffineBase64Size is the size of an affine signature in base64.
	SignatureAffineBase64Size = 256
)

// AsSignatureProjective is implemented by every representation that can be
// turned into a SignatureProjective. Byte representations validate on
// conversion; the projective representation converts for free.
type AsSignatureProjective interface {
	AsProjective() (SignatureProjective, error)
}

// SignatureProjective is a BLS signature in the projective point
// representation used for arithmetic.
type SignatureProjective struct {
	p bls12381.G2Jac
}

// Signature is a BLS signature in the affine (uncompressed) point
// representation. The zero value is a structural placeholder, not a valid
// point, and fails conversion to SignatureProjective.
type Signature [SignatureAffineSize]byte

// SignatureCompressed is a BLS signature in the compressed point
// representation. The zero value is not a valid point.
type SignatureCompressed [SignatureCompressedSize]byte

// IdentitySignature returns the G2 identity element, the neutral starting
// value for aggregation. The identity is not a valid signature and must only
// be used as an aggregation seed.
func IdentitySignature() SignatureProjective {
	var inf bls12381.G2Affine
	var p bls12381.G2Jac
	p.FromAffine(&inf)
	return SignatureProjective{p}
}

// AsProjective on a projective signature is the identity conversion.
func (s SignatureProjective) AsProjective() (SignatureProjective, error) {
	return s, nil
}

// Equal reports mathematical point equality.
func (s SignatureProjective) Equal(other SignatureProjective) bool {
	return s.p.Equal(&other.p)
}

// Affine encodes the signature into its affine byte form. Every projective
// point has a valid encoding, so this never fails.
func (s SignatureProjective) Affine() Signature {
	var aff bls12381.G2Affine
	aff.FromJacobian(&s.p)
	return Signature(aff.RawBytes())
}

// Compressed encodes the signature into its compressed byte form.
func (s SignatureProjective) Compressed() SignatureCompressed {
	var aff bls12381.G2Affine
	aff.FromJacobian(&s.p)
	return SignatureCompressed(aff.Bytes())
}

// Verify checks this signature against a public key in any representation.
func (s SignatureProjective) Verify(pubkey AsPubkeyProjective, message []byte) (bool, error) {
	return VerifySignature(pubkey, s, message)
}

// AggregateSignatures sums the given signatures with the group operation.
// Inputs may mix representations; order never affects the result. An empty
// input is rejected with ErrEmptyAggregation.
func AggregateSignatures[S AsSignatureProjective](signatures []S) (SignatureProjective, error) {
	if len(signatures) == 0 {
		return SignatureProjective{}, ErrEmptyAggregation
	}
	agg, err := signatures[0].AsProjective()
	if err != nil {
		return SignatureProjective{}, err
	}
	if err := AggregateSignaturesWith(&agg, signatures[1:]); err != nil {
		return SignatureProjective{}, err
	}
	return agg, nil
}

// AggregateSignaturesWith folds additional signatures into agg in place. The
// seed may legitimately be IdentitySignature.
func AggregateSignaturesWith[S AsSignatureProjective](agg *SignatureProjective, signatures []S) error {
	for i := range signatures {
		s, err := signatures[i].AsProjective()
		if err != nil {
			return err
		}
		agg.p.AddAssign(&s.p)
	}
	return nil
}

// AggregateVerify aggregates all public keys into one point and all
// signatures into one point, then performs a single pairing check of the two
// aggregates against the message. Failure to verify is (false, nil); an
// error is only returned for empty inputs or undecodable points.
func AggregateVerify[P AsPubkeyProjective, S AsSignatureProjective](pubkeys []P, signatures []S, message []byte) (bool, error) {
	aggPubkey, err := AggregatePubkeys(pubkeys)
	if err != nil {
		return false, err
	}
	aggSignature, err := AggregateSignatures(signatures)
	if err != nil {
		return false, err
	}
	return aggPubkey.pairingCheck(aggSignature, message, signatureDST)
}

// ParAggregateSignatures is the parallel variant of AggregateSignatures,
// identical in result for the same inputs.
func ParAggregateSignatures[S AsSignatureProjective](signatures []S) (SignatureProjective, error) {
	if len(signatures) == 0 {
		return SignatureProjective{}, ErrEmptyAggregation
	}
	var (
		mu       sync.Mutex
		agg      = IdentitySignature()
		firstErr error
	)
	parallel.Execute(len(signatures), func(start, end int) {
		partial := IdentitySignature()
		for i := start; i < end; i++ {
			s, err := signatures[i].AsProjective()
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}
			partial.p.AddAssign(&s.p)
		}
		mu.Lock()
		agg.p.AddAssign(&partial.p)
		mu.Unlock()
	})
	if firstErr != nil {
		return SignatureProjective{}, firstErr
	}
	return agg, nil
}

// ParAggregateSignaturesWith folds additional signatures into agg in place,
// aggregating them in parallel first.
func ParAggregateSignaturesWith[S AsSignatureProjective](agg *SignatureProjective, signatures []S) error {
	sum, err := ParAggregateSignatures(signatures)
	if err != nil {
		return err
	}
	agg.p.AddAssign(&sum.p)
	return nil
}

// ParAggregateVerify is the parallel variant of AggregateVerify: the pubkey
// and signature aggregations run concurrently, then join before the single
// pairing check.
func ParAggregateVerify[P AsPubkeyProjective, S AsSignatureProjective](pubkeys []P, signatures []S, message []byte) (bool, error) {
	var (
		aggPubkey    PubkeyProjective
		aggSignature SignatureProjective
	)
	var g errgroup.Group
	g.Go(func() error {
		var err error
		aggPubkey, err = ParAggregatePubkeys(pubkeys)
		return err
	})
	g.Go(func() error {
		var err error
		aggSignature, err = ParAggregateSignatures(signatures)
		return err
	})
	if err := g.Wait(); err != nil {
		return false, err
	}
	return aggPubkey.pairingCheck(aggSignature, message, signatureDST)
}

// AsProjective decodes the affine byte form, enforcing on-curve and subgroup
// membership.
func (s Signature) AsProjective() (SignatureProjective, error) {
	aff, err := decodeAffine[bls12381.G2Affine](s[:])
	if err != nil {
		return SignatureProjective{}, err
	}
	var jac bls12381.G2Jac
	jac.FromAffine(&aff)
	return SignatureProjective{jac}, nil
}

// Compress re-encodes the affine form into the compressed form. The bytes
// have not necessarily been validated yet, so the conversion routes through
// the projective form and performs full validation.
func (s Signature) Compress() (SignatureCompressed, error) {
	proj, err := s.AsProjective()
	if err != nil {
		return SignatureCompressed{}, err
	}
	return proj.Compressed(), nil
}

// Verify checks this signature against a public key in any representation.
func (s Signature) Verify(pubkey AsPubkeyProjective, message []byte) (bool, error) {
	return VerifySignature(pubkey, s, message)
}

// Cmp compares byte-lexicographically.
func (s Signature) Cmp(other Signature) int {
	return bytes.Compare(s[:], other[:])
}

func (s Signature) String() string {
	return base64.StdEncoding.EncodeToString(s[:])
}

// MarshalText implements encoding.TextMarshaler.
func (s Signature) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Signature) UnmarshalText(text []byte) error {
	parsed, err := ParseSignature(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseSignature parses the base64 text form of an affine signature.
func ParseSignature(s string) (Signature, error) {
	var sig Signature
	raw, err := parseBase64(s, SignatureAffineBase64Size, SignatureAffineSize)
	if err != nil {
		return sig, err
	}
	copy(sig[:], raw)
	return sig, nil
}

// AsProjective decodes the compressed byte form, enforcing on-curve and
// subgroup membership.
func (s SignatureCompressed) AsProjective() (SignatureProjective, error) {
	aff, err := decodeAffine[bls12381.G2Affine](s[:])
	if err != nil {
		return SignatureProjective{}, err
	}
	var jac bls12381.G2Jac
	jac.FromAffine(&aff)
	return SignatureProjective{jac}, nil
}

// Uncompress re-encodes the compressed form into the affine form, validating
// the bytes along the way.
func (s SignatureCompressed) Uncompress() (Signature, error) {
	proj, err := s.AsProjective()
	if err != nil {
		return Signature{}, err
	}
	return proj.Affine(), nil
}

// Verify checks this signature against a public key in any representation.
func (s SignatureCompressed) Verify(pubkey AsPubkeyProjective, message []byte) (bool, error) {
	return VerifySignature(pubkey, s, message)
}

// Cmp compares byte-lexicographically.
func (s SignatureCompressed) Cmp(other SignatureCompressed) int {
	return bytes.Compare(s[:], other[:])
}

func (s SignatureCompressed) String() string {
	return base64.StdEncoding.EncodeToString(s[:])
}

// MarshalText implements encoding.TextMarshaler.
func (s SignatureCompressed) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *SignatureCompressed) UnmarshalText(text []byte) error {
	parsed, err := ParseSignatureCompressed(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseSignatureCompressed parses the base64 text form of a compressed
// signature.
func ParseSignatureCompressed(s string) (SignatureCompressed, error) {
	var sig SignatureCompressed
	raw, err := parseBase64(s, SignatureCompressedBase64Size, SignatureCompressedSize)
	if err != nil {
		return sig, err
	}
	copy(sig[:], raw)
	return sig, nil
}
