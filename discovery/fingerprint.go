package discovery

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/mama165/otr-discovery/contract"
	"golang.org/x/crypto/blake2b"
)

// HashLength is the length, in bytes, of the canonical hash and of every
// search nonce.
const HashLength = blake2b.Size256

// canonicalHash is the fixed hash function behind both fingerprinting and
// nonce sizing.
func canonicalHash(data []byte) [HashLength]byte {
	return blake2b.Sum256(data)
}

// Fingerprint is the public, collision-resistant handle for an identifier:
// the lowercase hex encoding of its canonical hash. It is a pure function
// of the identifier and is never stored separately from it.
func Fingerprint(id contract.Identifier) string {
	sum := canonicalHash(id)
	return hex.EncodeToString(sum[:])
}

// generateNonce draws a fresh, uniformly random nonce of HashLength bytes.
func generateNonce() ([]byte, error) {
	nonce := make([]byte, HashLength)
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	return nonce, nil
}
