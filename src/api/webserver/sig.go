package webserver

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

func strip0x(s string) string {
	if len(s) > 1 && s[:2] == "0x" {
		return s[2:]
	}
	return s
}

// personalHash applies the eth_sign prefix before hashing, matching what
// wallets do for personal_sign requests.
func personalHash(msg string) []byte {
	prefixed := fmt.Sprintf("\x19Ethereum Signed Message:\n%d%s", len(msg), msg)
	return crypto.Keccak256([]byte(prefixed))
}

// verifySignature recovers the signer of a personal_sign over the nonce and
// compares it against the claimed address.
func verifySignature(addr, sigHex, nonce string) error {
	sig, err := hex.DecodeString(strip0x(sigHex))
	if err != nil {
		return fmt.Errorf("decode signature: %w", err)
	}
	if len(sig) != 65 {
		return fmt.Errorf("invalid signature length: %d", len(sig))
	}
	// Wallets emit V as 27/28; go-ethereum expects 0/1.
	if sig[64] >= 27 {
		sig[64] -= 27
	}

	pub, err := crypto.SigToPub(personalHash(nonce), sig)
	if err != nil {
		return fmt.Errorf("recover public key: %w", err)
	}

	recovered := crypto.PubkeyToAddress(*pub)
	if !strings.EqualFold(recovered.Hex(), common.HexToAddress(addr).Hex()) {
		return fmt.Errorf("signature verification failed")
	}
	return nil
}
