// Package derive turns root entropy into signing keypairs, path-scoped
// secrets and registry data-key tweaks. Every function here is pure and
// deterministic: identical inputs yield identical outputs forever, which
// is what makes a seed portable across sessions and implementations.
package derive

import (
	"crypto/ed25519"

	"golang.org/x/crypto/blake2b"

	"github.com/SkynetHQ/skynet-mysky/internal/models"
	"github.com/SkynetHQ/skynet-mysky/internal/seed"
)

const (
	// SecretSize is the length of the hashed secret fed to key expansion.
	SecretSize = 32

	// PublicKeySize is the ed25519 public key length.
	PublicKeySize = ed25519.PublicKeySize

	// SignatureSize is the ed25519 signature length.
	SignatureSize = ed25519.SignatureSize
)

// KeyPair holds a deterministic ed25519 signing keypair.
type KeyPair struct {
	PublicKey  ed25519.PublicKey
	PrivateKey ed25519.PrivateKey
}

// NewKeyPair derives the identity keypair from root entropy.
func NewKeyPair(entropy []byte) (KeyPair, error) {
	return NewKeyPairWithTweak(entropy, "")
}

// NewKeyPairWithTweak derives a context-specific keypair. The tweak is
// mixed in by hashing, so keys for different tweaks (and the untweaked
// identity key) can never collide even though they share one root secret.
func NewKeyPairWithTweak(entropy []byte, tweak string) (KeyPair, error) {
	if len(entropy) != seed.EntropySize {
		return KeyPair{}, &models.CryptoInvariantError{
			What:     "entropy",
			Expected: seed.EntropySize,
			Actual:   len(entropy),
		}
	}

	var secret [SecretSize]byte
	if tweak == "" {
		secret = blake2b.Sum256(entropy)
	} else {
		tweakHash := blake2b.Sum256([]byte(tweak))
		entropyHash := blake2b.Sum256(entropy)
		secret = blake2b.Sum256(append(tweakHash[:], entropyHash[:]...))
	}

	priv := ed25519.NewKeyFromSeed(secret[:])
	return KeyPair{
		PublicKey:  priv.Public().(ed25519.PublicKey),
		PrivateKey: priv,
	}, nil
}
