package derive

import (
	"crypto/ed25519"

	"golang.org/x/crypto/blake2b"

	"github.com/SkynetHQ/skynet-mysky/internal/models"
)

// Domain-separation salts. A message signature can never be replayed as a
// registry-entry signature (or vice versa) because the two digests start
// from different salts.
const (
	messageSigningSalt  = "MYSKY_SIGNED_MESSAGE"
	registrySigningSalt = "MYSKY_SIGNED_REGISTRY_ENTRY"
)

// SignMessage signs an arbitrary message under the message salt.
func SignMessage(priv ed25519.PrivateKey, message []byte) ([]byte, error) {
	if len(priv) != ed25519.PrivateKeySize {
		return nil, &models.CryptoInvariantError{
			What:     "private key",
			Expected: ed25519.PrivateKeySize,
			Actual:   len(priv),
		}
	}
	return ed25519.Sign(priv, saltedDigest(messageSigningSalt, message)), nil
}

// VerifyMessageSignature checks a signature made by SignMessage. It must
// reproduce the identical salting or valid signatures would not verify.
func VerifyMessageSignature(pub ed25519.PublicKey, message, sig []byte) (bool, error) {
	if len(pub) != ed25519.PublicKeySize {
		return false, &models.CryptoInvariantError{
			What:     "public key",
			Expected: ed25519.PublicKeySize,
			Actual:   len(pub),
		}
	}
	if len(sig) != ed25519.SignatureSize {
		return false, &models.CryptoInvariantError{
			What:     "signature",
			Expected: ed25519.SignatureSize,
			Actual:   len(sig),
		}
	}
	return ed25519.Verify(pub, saltedDigest(messageSigningSalt, message), sig), nil
}

// SignRegistryDigest signs registry entry bytes under the registry salt.
func SignRegistryDigest(priv ed25519.PrivateKey, entryBytes []byte) ([]byte, error) {
	if len(priv) != ed25519.PrivateKeySize {
		return nil, &models.CryptoInvariantError{
			What:     "private key",
			Expected: ed25519.PrivateKeySize,
			Actual:   len(priv),
		}
	}
	return ed25519.Sign(priv, saltedDigest(registrySigningSalt, entryBytes)), nil
}

func saltedDigest(salt string, message []byte) []byte {
	buf := make([]byte, 0, len(salt)+len(message))
	buf = append(buf, salt...)
	buf = append(buf, message...)
	digest := blake2b.Sum256(buf)
	return digest[:]
}
