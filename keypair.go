package bls

import (
	"crypto/sha256"
	"fmt"
	"io"
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"golang.org/x/crypto/hkdf"
)

// SecretKeySize is the size of a secret key scalar in bytes.
const SecretKeySize = fr.Bytes

// keygenSalt seeds the HKDF extraction in KeypairFromSeed, per the BLS
// signature draft KeyGen procedure.
var keygenSalt = []byte("BLS-SIG-KEYGEN-SALT-")

// SecretKey is a scalar of the BLS12-381 scalar field.
type SecretKey struct {
	scalar fr.Element
}

// Keypair holds a secret scalar and the public key point derived from it at
// construction time. The public key is immutable thereafter.
type Keypair struct {
	Secret SecretKey
	Public PubkeyProjective
}

// NewKeypair draws a secret scalar uniformly at random from a
// cryptographically secure source and derives the matching public key.
func NewKeypair() (*Keypair, error) {
	var sk SecretKey
	if _, err := sk.scalar.SetRandom(); err != nil {
		return nil, err
	}
	return &Keypair{Secret: sk, Public: sk.Public()}, nil
}

// KeypairFromSeed derives a keypair deterministically from input key
// material via HKDF-SHA256, following the BLS signature draft KeyGen. The
// seed must be at least 32 bytes of high-entropy material.
func KeypairFromSeed(ikm []byte) (*Keypair, error) {
	if len(ikm) < 32 {
		return nil, fmt.Errorf("%w: seed must be at least 32 bytes, got %d", ErrKeyDerivation, len(ikm))
	}
	// IKM || I2OSP(0, 1), L = 48 so that reduction mod r is unbiased.
	material := make([]byte, len(ikm)+1)
	copy(material, ikm)
	info := []byte{0, 48}
	salt := keygenSalt
	for {
		okm := make([]byte, 48)
		if _, err := io.ReadFull(hkdf.New(sha256.New, material, salt, info), okm); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrKeyDerivation, err)
		}
		var sk SecretKey
		sk.scalar.SetBigInt(new(big.Int).SetBytes(okm))
		if !sk.scalar.IsZero() {
			return &Keypair{Secret: sk, Public: sk.Public()}, nil
		}
		// keygen rejected a zero scalar; re-salt and try again
		rehash := sha256.Sum256(salt)
		salt = rehash[:]
	}
}

// SecretKeyFromBytes restores a secret key from its 32-byte big-endian
// canonical form. Material outside the scalar field is rejected with
// ErrKeyDerivation.
func SecretKeyFromBytes(b []byte) (SecretKey, error) {
	var sk SecretKey
	if len(b) != SecretKeySize {
		return sk, fmt.Errorf("%w: expected %d bytes, got %d", ErrKeyDerivation, SecretKeySize, len(b))
	}
	if err := sk.scalar.SetBytesCanonical(b); err != nil {
		return SecretKey{}, fmt.Errorf("%w: %v", ErrKeyDerivation, err)
	}
	return sk, nil
}

// Bytes returns the 32-byte big-endian canonical form of the secret key.
func (sk *SecretKey) Bytes() [SecretKeySize]byte {
	return sk.scalar.Bytes()
}

// Public derives the public key point, scalar times the G1 generator.
func (sk *SecretKey) Public() PubkeyProjective {
	var s big.Int
	sk.scalar.BigInt(&s)
	var p bls12381.G1Jac
	p.ScalarMultiplication(&g1Gen, &s)
	return PubkeyProjective{p}
}

// Sign maps the message to a G2 point with the signing domain separation tag
// and multiplies it by the secret scalar. Deterministic given (secret,
// message).
func (sk *SecretKey) Sign(message []byte) (SignatureProjective, error) {
	return sk.sign(message, signatureDST)
}

func (sk *SecretKey) sign(message, dst []byte) (SignatureProjective, error) {
	hm, err := bls12381.HashToG2(message, dst)
	if err != nil {
		return SignatureProjective{}, err
	}
	var hmJac bls12381.G2Jac
	hmJac.FromAffine(&hm)
	var s big.Int
	sk.scalar.BigInt(&s)
	var sig bls12381.G2Jac
	sig.ScalarMultiplication(&hmJac, &s)
	return SignatureProjective{sig}, nil
}

// Sign signs the message with the keypair's secret key.
func (kp *Keypair) Sign(message []byte) (SignatureProjective, error) {
	return kp.Secret.Sign(message)
}

// ProofOfPossession signs the keypair's own compressed public key under the
// proof-of-possession domain separation tag, producing a self-certifying
// proof that the holder of the secret key controls the public key. It
// defends against rogue-key attacks when keys from untrusted parties are
// aggregated.
func (kp *Keypair) ProofOfPossession() (SignatureProjective, error) {
	self := kp.Public.Compressed()
	return kp.Secret.sign(self[:], popDST)
}
