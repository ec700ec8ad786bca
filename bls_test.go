package bls

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// messageSeq hands out unique messages to a test without relying on shared
// package state, so tests stay independent of each other.
type messageSeq struct {
	prefix string
	n      uint64
}

func (m *messageSeq) next() []byte {
	m.n++
	return fmt.Appendf(nil, "%s-%d", m.prefix, m.n)
}

func testKeypair(t *testing.T) *Keypair {
	t.Helper()
	keypair, err := NewKeypair()
	require.NoError(t, err)
	return keypair
}

func testSign(t *testing.T, keypair *Keypair, message []byte) SignatureProjective {
	t.Helper()
	signature, err := keypair.Sign(message)
	require.NoError(t, err)
	return signature
}

// testSignatureSet produces n signatures by one keypair over n distinct
// messages.
func testSignatureSet(t *testing.T, n int) []SignatureProjective {
	t.Helper()
	keypair := testKeypair(t)
	seq := &messageSeq{prefix: t.Name()}
	signatures := make([]SignatureProjective, n)
	for i := range signatures {
		signatures[i] = testSign(t, keypair, seq.next())
	}
	return signatures
}

// testSigningCommittee produces n keypairs all signing the same message.
func testSigningCommittee(t *testing.T, n int, message []byte) ([]PubkeyProjective, []SignatureProjective) {
	t.Helper()
	pubkeys := make([]PubkeyProjective, n)
	signatures := make([]SignatureProjective, n)
	for i := 0; i < n; i++ {
		keypair := testKeypair(t)
		pubkeys[i] = keypair.Public
		signatures[i] = testSign(t, keypair, message)
	}
	return pubkeys, signatures
}
