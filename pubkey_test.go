package bls

import (
	"testing"

	"github.com/bits-and-blooms/bitset"
	"github.com/stretchr/testify/require"
)

func TestPubkeyAggregate(t *testing.T) {
	keypair0 := testKeypair(t)
	keypair1 := testKeypair(t)

	aggregate, err := AggregatePubkeys([]PubkeyProjective{keypair0.Public, keypair1.Public})
	require.NoError(t, err)

	// aggregating through the affine representation gives the same point
	aggregateWith := keypair0.Public
	require.NoError(t, AggregatePubkeysWith(&aggregateWith, []Pubkey{keypair1.Public.Affine()}))
	require.True(t, aggregate.Equal(aggregateWith))

	// the identity is a legitimate seed
	seeded := IdentityPubkey()
	require.NoError(t, AggregatePubkeysWith(&seeded, []PubkeyProjective{keypair0.Public, keypair1.Public}))
	require.True(t, aggregate.Equal(seeded))

	_, err = AggregatePubkeys([]PubkeyProjective{})
	require.ErrorIs(t, err, ErrEmptyAggregation)
}

func TestParallelPubkeyAggregation(t *testing.T) {
	for _, size := range []int{1, 2, 64, 1024} {
		pubkeys := make([]PubkeyProjective, size)
		seq := &messageSeq{prefix: t.Name()}
		for i := range pubkeys {
			// distinct deterministic keys, cheaper than fresh randomness
			seeded, err := KeypairFromSeed(append(seq.next(), make([]byte, 32)...))
			require.NoError(t, err)
			pubkeys[i] = seeded.Public
		}

		sequential, err := AggregatePubkeys(pubkeys)
		require.NoError(t, err)
		parallelAgg, err := ParAggregatePubkeys(pubkeys)
		require.NoError(t, err)
		require.True(t, sequential.Equal(parallelAgg), "size %d", size)
	}

	_, err := ParAggregatePubkeys([]PubkeyProjective{})
	require.ErrorIs(t, err, ErrEmptyAggregation)
}

func TestParallelPubkeyAggregateWith(t *testing.T) {
	keypair0 := testKeypair(t)
	keypair1 := testKeypair(t)
	keypair2 := testKeypair(t)

	sequential, err := AggregatePubkeys([]PubkeyProjective{keypair0.Public, keypair1.Public, keypair2.Public})
	require.NoError(t, err)

	parallelWith := keypair0.Public
	require.NoError(t, ParAggregatePubkeysWith(&parallelWith, []PubkeyProjective{keypair1.Public, keypair2.Public}))
	require.True(t, sequential.Equal(parallelWith))
}

func TestVerifySignatureWrongMessage(t *testing.T) {
	keypair := testKeypair(t)
	message := []byte("test message")
	signature := testSign(t, keypair, message)

	ok, err := keypair.Public.VerifySignature(signature, message)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = keypair.Public.VerifySignature(signature, []byte("another message"))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestProofOfPossession(t *testing.T) {
	keypair := testKeypair(t)
	proof, err := keypair.ProofOfPossession()
	require.NoError(t, err)

	ok, err := keypair.Public.VerifyProofOfPossession(proof)
	require.NoError(t, err)
	require.True(t, ok)

	// a proof over a compressed representation verifies the same way
	ok, err = keypair.Public.VerifyProofOfPossession(proof.Compressed())
	require.NoError(t, err)
	require.True(t, ok)

	// a proof by a different keypair does not certify this key
	other := testKeypair(t)
	otherProof, err := other.ProofOfPossession()
	require.NoError(t, err)
	ok, err = keypair.Public.VerifyProofOfPossession(otherProof)
	require.NoError(t, err)
	require.False(t, ok)

	// an ordinary signature over the pubkey bytes is not a proof: the
	// domain separation tags differ
	self := keypair.Public.Compressed()
	forged := testSign(t, keypair, self[:])
	ok, err = keypair.Public.VerifyProofOfPossession(forged)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestAggregatePubkeysSubset(t *testing.T) {
	set := make([]PubkeyProjective, 8)
	for i := range set {
		set[i] = testKeypair(t).Public
	}

	signers := bitset.New(8)
	signers.Set(1).Set(4).Set(6)

	subset, err := AggregatePubkeysSubset(set, signers)
	require.NoError(t, err)

	manual, err := AggregatePubkeys([]PubkeyProjective{set[1], set[4], set[6]})
	require.NoError(t, err)
	require.True(t, subset.Equal(manual))

	_, err = AggregatePubkeysSubset(set, bitset.New(8))
	require.ErrorIs(t, err, ErrEmptyAggregation)

	outOfRange := bitset.New(16)
	outOfRange.Set(12)
	_, err = AggregatePubkeysSubset(set, outOfRange)
	require.Error(t, err)
}

func TestPubkeyFromString(t *testing.T) {
	keypair := testKeypair(t)

	affine := keypair.Public.Affine()
	parsed, err := ParsePubkey(affine.String())
	require.NoError(t, err)
	require.Equal(t, affine, parsed)

	compressed := keypair.Public.Compressed()
	parsedCompressed, err := ParsePubkeyCompressed(compressed.String())
	require.NoError(t, err)
	require.Equal(t, compressed, parsedCompressed)
}
