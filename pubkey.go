package bls

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"sync"

	"github.com/bits-and-blooms/bitset"
	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"

	"github.com/consensys/bls-signatures/internal/parallel"
)

const (
	// PubkeyCompressedSize is the size of a public key in the compressed
	// point representation.
	PubkeyCompressedSize = bls12381.SizeOfG1AffineCompressed

	// PubkeyCompressedBase64Size is the size of a compressed public key in
	// base64.
	PubkeyCompressedBase64Size = 64

	// PubkeyAffineSize is the size of a public key in the affine point
	// representation.
	PubkeyAffineSize = bls12381.SizeOfG1AffineUncompressed

	// PubkeyAffineBase64Size is the size of an affine public key in base64.
	PubkeyAffineBase64Size = 128
)

// AsPubkeyProjective is implemented by every representation that can be
// turned into a PubkeyProjective. Byte representations validate on
// conversion; the projective representation converts for free.
type AsPubkeyProjective interface {
	AsProjective() (PubkeyProjective, error)
}

// PubkeyProjective is a BLS public key in the projective point
// representation used for arithmetic. It is never serialized directly;
// convert to Pubkey or PubkeyCompressed for a wire form.
type PubkeyProjective struct {
	p bls12381.G1Jac
}

// Pubkey is a BLS public key in the affine (uncompressed) point
// representation. The zero value is a structural placeholder, not a valid
// point, and fails conversion to PubkeyProjective.
type Pubkey [PubkeyAffineSize]byte

// PubkeyCompressed is a BLS public key in the compressed point
// representation. The zero value is not a valid point.
type PubkeyCompressed [PubkeyCompressedSize]byte

// IdentityPubkey returns the G1 identity element, the neutral starting value
// for aggregation. The identity is not a valid public key and must only be
// used as an aggregation seed.
func IdentityPubkey() PubkeyProjective {
	var inf bls12381.G1Affine
	var p bls12381.G1Jac
	p.FromAffine(&inf)
	return PubkeyProjective{p}
}

// AsProjective on a projective pubkey is the identity conversion.
func (p PubkeyProjective) AsProjective() (PubkeyProjective, error) {
	return p, nil
}

// Equal reports mathematical point equality.
func (p PubkeyProjective) Equal(other PubkeyProjective) bool {
	return p.p.Equal(&other.p)
}

// Affine encodes the public key into its affine byte form. Every projective
// point has a valid encoding, so this never fails.
func (p PubkeyProjective) Affine() Pubkey {
	var aff bls12381.G1Affine
	aff.FromJacobian(&p.p)
	return Pubkey(aff.RawBytes())
}

// Compressed encodes the public key into its compressed byte form.
func (p PubkeyProjective) Compressed() PubkeyCompressed {
	var aff bls12381.G1Affine
	aff.FromJacobian(&p.p)
	return PubkeyCompressed(aff.Bytes())
}

// VerifySignature checks the signature against this public key and message.
// A signature that does not verify yields (false, nil); an error is only
// returned when an input cannot be decoded to a valid point.
func (p PubkeyProjective) VerifySignature(signature AsSignatureProjective, message []byte) (bool, error) {
	sig, err := signature.AsProjective()
	if err != nil {
		return false, err
	}
	return p.pairingCheck(sig, message, signatureDST)
}

// VerifyProofOfPossession checks that pop was produced by the holder of the
// secret key matching this public key, over the domain-separated self-message
// derived from the key itself.
func (p PubkeyProjective) VerifyProofOfPossession(pop AsSignatureProjective) (bool, error) {
	proof, err := pop.AsProjective()
	if err != nil {
		return false, err
	}
	self := p.Compressed()
	return p.pairingCheck(proof, self[:], popDST)
}

// pairingCheck evaluates e(pk, H(message)) * e(-g1, sig) == 1, which holds
// exactly when sig is a valid signature on message under pk.
func (p PubkeyProjective) pairingCheck(sig SignatureProjective, message, dst []byte) (bool, error) {
	hm, err := bls12381.HashToG2(message, dst)
	if err != nil {
		return false, err
	}
	var pkAff bls12381.G1Affine
	pkAff.FromJacobian(&p.p)
	var sigAff bls12381.G2Affine
	sigAff.FromJacobian(&sig.p)
	return bls12381.PairingCheck(
		[]bls12381.G1Affine{pkAff, g1GenNeg},
		[]bls12381.G2Affine{hm, sigAff},
	)
}

// AggregatePubkeys sums the given public keys with the group operation.
// Inputs may mix representations; order never affects the result. An empty
// input is rejected with ErrEmptyAggregation.
func AggregatePubkeys[P AsPubkeyProjective](pubkeys []P) (PubkeyProjective, error) {
	if len(pubkeys) == 0 {
		return PubkeyProjective{}, ErrEmptyAggregation
	}
	agg, err := pubkeys[0].AsProjective()
	if err != nil {
		return PubkeyProjective{}, err
	}
	if err := AggregatePubkeysWith(&agg, pubkeys[1:]); err != nil {
		return PubkeyProjective{}, err
	}
	return agg, nil
}

// AggregatePubkeysWith folds additional public keys into agg in place. The
// seed may legitimately be IdentityPubkey.
func AggregatePubkeysWith[P AsPubkeyProjective](agg *PubkeyProjective, pubkeys []P) error {
	for i := range pubkeys {
		p, err := pubkeys[i].AsProjective()
		if err != nil {
			return err
		}
		agg.p.AddAssign(&p.p)
	}
	return nil
}

// ParAggregatePubkeys is the parallel variant of AggregatePubkeys. The
// reduction fans out over chunks seeded with the identity element; since
// group addition is associative and commutative, the partitioning never
// changes the result.
func ParAggregatePubkeys[P AsPubkeyProjective](pubkeys []P) (PubkeyProjective, error) {
	if len(pubkeys) == 0 {
		return PubkeyProjective{}, ErrEmptyAggregation
	}
	var (
		mu       sync.Mutex
		agg      = IdentityPubkey()
		firstErr error
	)
	parallel.Execute(len(pubkeys), func(start, end int) {
		partial := IdentityPubkey()
		for i := start; i < end; i++ {
			p, err := pubkeys[i].AsProjective()
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}
			partial.p.AddAssign(&p.p)
		}
		mu.Lock()
		agg.p.AddAssign(&partial.p)
		mu.Unlock()
	})
	if firstErr != nil {
		return PubkeyProjective{}, firstErr
	}
	return agg, nil
}

// ParAggregatePubkeysWith folds additional public keys into agg in place,
// aggregating them in parallel first.
func ParAggregatePubkeysWith[P AsPubkeyProjective](agg *PubkeyProjective, pubkeys []P) error {
	sum, err := ParAggregatePubkeys(pubkeys)
	if err != nil {
		return err
	}
	agg.p.AddAssign(&sum.p)
	return nil
}

// AggregatePubkeysSubset aggregates the members of a known validator set
// selected by a participation bitmap. A set bit beyond len(set) is a caller
// error; an empty selection is rejected with ErrEmptyAggregation.
func AggregatePubkeysSubset(set []PubkeyProjective, signers *bitset.BitSet) (PubkeyProjective, error) {
	agg := IdentityPubkey()
	selected := 0
	for i, ok := signers.NextSet(0); ok; i, ok = signers.NextSet(i + 1) {
		if int(i) >= len(set) {
			return PubkeyProjective{}, fmt.Errorf("bls: signer bit %d out of range for set of %d", i, len(set))
		}
		agg.p.AddAssign(&set[i].p)
		selected++
	}
	if selected == 0 {
		return PubkeyProjective{}, ErrEmptyAggregation
	}
	return agg, nil
}

// VerifySignature checks a signature in any representation against a public
// key in any representation. Both sides are converted to projective form
// once, then a single pairing check runs.
func VerifySignature[P AsPubkeyProjective, S AsSignatureProjective](pubkey P, signature S, message []byte) (bool, error) {
	pk, err := pubkey.AsProjective()
	if err != nil {
		return false, err
	}
	return pk.VerifySignature(signature, message)
}

// AsProjective decodes the affine byte form, enforcing on-curve and subgroup
// membership.
func (p Pubkey) AsProjective() (PubkeyProjective, error) {
	aff, err := decodeAffine[bls12381.G1Affine](p[:])
	if err != nil {
		return PubkeyProjective{}, err
	}
	var jac bls12381.G1Jac
	jac.FromAffine(&aff)
	return PubkeyProjective{jac}, nil
}

// VerifySignature checks the signature against this public key and message,
// decoding the key first.
func (p Pubkey) VerifySignature(signature AsSignatureProjective, message []byte) (bool, error) {
	return VerifySignature(p, signature, message)
}

// VerifyProofOfPossession checks a proof of possession against this public
// key, decoding the key first.
func (p Pubkey) VerifyProofOfPossession(pop AsSignatureProjective) (bool, error) {
	proj, err := p.AsProjective()
	if err != nil {
		return false, err
	}
	return proj.VerifyProofOfPossession(pop)
}

// Compress re-encodes the affine form into the compressed form. The bytes
// have not necessarily been validated yet, so the conversion routes through
// the projective form and performs full validation.
func (p Pubkey) Compress() (PubkeyCompressed, error) {
	proj, err := p.AsProjective()
	if err != nil {
		return PubkeyCompressed{}, err
	}
	return proj.Compressed(), nil
}

// Cmp compares byte-lexicographically.
func (p Pubkey) Cmp(other Pubkey) int {
	return bytes.Compare(p[:], other[:])
}

func (p Pubkey) String() string {
	return base64.StdEncoding.EncodeToString(p[:])
}

// MarshalText implements encoding.TextMarshaler.
func (p Pubkey) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Pubkey) UnmarshalText(text []byte) error {
	parsed, err := ParsePubkey(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParsePubkey parses the base64 text form of an affine public key.
func ParsePubkey(s string) (Pubkey, error) {
	var p Pubkey
	raw, err := parseBase64(s, PubkeyAffineBase64Size, PubkeyAffineSize)
	if err != nil {
		return p, err
	}
	copy(p[:], raw)
	return p, nil
}

// AsProjective decodes the compressed byte form, enforcing on-curve and
// subgroup membership.
func (p PubkeyCompressed) AsProjective() (PubkeyProjective, error) {
	aff, err := decodeAffine[bls12381.G1Affine](p[:])
	if err != nil {
		return PubkeyProjective{}, err
	}
	var jac bls12381.G1Jac
	jac.FromAffine(&aff)
	return PubkeyProjective{jac}, nil
}

// VerifySignature checks the signature against this public key and message,
// decoding the key first.
func (p PubkeyCompressed) VerifySignature(signature AsSignatureProjective, message []byte) (bool, error) {
	return VerifySignature(p, signature, message)
}

// VerifyProofOfPossession checks a proof of possession against this public
// key, decoding the key first.
func (p PubkeyCompressed) VerifyProofOfPossession(pop AsSignatureProjective) (bool, error) {
	proj, err := p.AsProjective()
	if err != nil {
		return false, err
	}
	return proj.VerifyProofOfPossession(pop)
}

// Uncompress re-encodes the compressed form into the affine form, validating
// the bytes along the way.
func (p PubkeyCompressed) Uncompress() (Pubkey, error) {
	proj, err := p.AsProjective()
	if err != nil {
		return Pubkey{}, err
	}
	return proj.Affine(), nil
}

// Cmp compares byte-lexicographically.
func (p PubkeyCompressed) Cmp(other PubkeyCompressed) int {
	return bytes.Compare(p[:], other[:])
}

func (p PubkeyCompressed) String() string {
	return base64.StdEncoding.EncodeToString(p[:])
}

// MarshalText implements encoding.TextMarshaler.
func (p PubkeyCompressed) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *PubkeyCompressed) UnmarshalText(text []byte) error {
	parsed, err := ParsePubkeyCompressed(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParsePubkeyCompressed parses the base64 text form of a compressed public
// key.
func ParsePubkeyCompressed(s string) (PubkeyCompressed, error) {
	var p PubkeyCompressed
	raw, err := parseBase64(s, PubkeyCompressedBase64Size, PubkeyCompressedSize)
	if err != nil {
		return p, err
	}
	copy(p[:], raw)
	return p, nil
}
