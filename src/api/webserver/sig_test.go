package webserver

import (
	"encoding/hex"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signNonce(t *testing.T, nonce string) (addr, sigHex string) {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	sig, err := crypto.Sign(personalHash(nonce), key)
	require.NoError(t, err)
	// Emit V as wallets do.
	sig[64] += 27

	return crypto.PubkeyToAddress(key.PublicKey).Hex(), "0x" + hex.EncodeToString(sig)
}

func TestVerifySignature(t *testing.T) {
	addr, sig := signNonce(t, "test-nonce")
	assert.NoError(t, verifySignature(addr, sig, "test-nonce"))
}

func TestVerifySignatureWrongNonce(t *testing.T) {
	addr, sig := signNonce(t, "test-nonce")
	assert.Error(t, verifySignature(addr, sig, "other-nonce"))
}

func TestVerifySignatureWrongAddress(t *testing.T) {
	_, sig := signNonce(t, "test-nonce")
	other, _ := signNonce(t, "test-nonce")
	assert.Error(t, verifySignature(other, sig, "test-nonce"))
}

func TestVerifySignatureMalformed(t *testing.T) {
	addr, _ := signNonce(t, "test-nonce")
	assert.Error(t, verifySignature(addr, "0xdead", "test-nonce"))
	assert.Error(t, verifySignature(addr, "not-hex", "test-nonce"))
}
