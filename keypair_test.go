package bls

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewKeypair(t *testing.T) {
	keypair := testKeypair(t)
	require.True(t, keypair.Public.Equal(keypair.Secret.Public()))

	other := testKeypair(t)
	require.False(t, keypair.Public.Equal(other.Public))
}

func TestKeypairFromSeed(t *testing.T) {
	seed := bytes.Repeat([]byte{42}, 32)

	keypair, err := KeypairFromSeed(seed)
	require.NoError(t, err)
	again, err := KeypairFromSeed(seed)
	require.NoError(t, err)
	require.True(t, keypair.Public.Equal(again.Public))
	require.Equal(t, keypair.Secret.Bytes(), again.Secret.Bytes())

	otherSeed := bytes.Repeat([]byte{43}, 32)
	other, err := KeypairFromSeed(otherSeed)
	require.NoError(t, err)
	require.False(t, keypair.Public.Equal(other.Public))

	// derived keys sign and verify like random ones
	message := []byte("seeded key message")
	signature, err := keypair.Sign(message)
	require.NoError(t, err)
	ok, err := keypair.Public.VerifySignature(signature, message)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestKeypairFromSeedTooShort(t *testing.T) {
	_, err := KeypairFromSeed(bytes.Repeat([]byte{1}, 31))
	require.ErrorIs(t, err, ErrKeyDerivation)
}

func TestSecretKeyBytesRoundTrip(t *testing.T) {
	keypair := testKeypair(t)
	raw := keypair.Secret.Bytes()

	restored, err := SecretKeyFromBytes(raw[:])
	require.NoError(t, err)
	require.True(t, keypair.Public.Equal(restored.Public()))
}

func TestSecretKeyFromBytesRejectsMalformed(t *testing.T) {
	// 2^256 - 1 is far above the scalar field modulus
	_, err := SecretKeyFromBytes(bytes.Repeat([]byte{0xff}, SecretKeySize))
	require.ErrorIs(t, err, ErrKeyDerivation)

	_, err = SecretKeyFromBytes([]byte{1, 2, 3})
	require.ErrorIs(t, err, ErrKeyDerivation)
}

func TestSignIsDeterministic(t *testing.T) {
	keypair := testKeypair(t)
	message := []byte("determinism check")

	first := testSign(t, keypair, message)
	second := testSign(t, keypair, message)
	require.True(t, first.Equal(second))
}
