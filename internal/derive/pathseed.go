package derive

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/hkdf"

	"github.com/SkynetHQ/skynet-mysky/internal/models"
	"github.com/SkynetHQ/skynet-mysky/internal/seed"
)

const (
	// RootPathSeedSize is the truncated root path seed length. The
	// truncation to half the digest is historical and kept for
	// compatibility with previously derived seeds.
	RootPathSeedSize = 16

	// PathSeedSize is the length of a per-path child seed.
	PathSeedSize = 32
)

// rootPathSeedSalt domain-separates the filesystem path-seed tree from
// every other use of the root entropy.
const rootPathSeedSalt = "encrypted filesystem path seed"

// RootPathSeed derives the root of the encrypted-filesystem seed tree.
func RootPathSeed(entropy []byte) ([]byte, error) {
	if len(entropy) != seed.EntropySize {
		return nil, &models.CryptoInvariantError{
			What:     "entropy",
			Expected: seed.EntropySize,
			Actual:   len(entropy),
		}
	}

	saltHash := blake2b.Sum256([]byte(rootPathSeedSalt))
	entropyHash := blake2b.Sum256(entropy)
	root := blake2b.Sum256(append(saltHash[:], entropyHash[:]...))
	return root[:RootPathSeedSize], nil
}

// PathSeed derives the secret for one filesystem-like path. Files and
// directories at the same path get distinct seeds.
func PathSeed(entropy []byte, path string, isDirectory bool) ([]byte, error) {
	root, err := RootPathSeed(entropy)
	if err != nil {
		return nil, err
	}

	info := fmt.Sprintf("path:%s:dir:%t", path, isDirectory)
	r := hkdf.New(sha256.New, root, nil, []byte(info))

	child := make([]byte, PathSeedSize)
	if _, err := io.ReadFull(r, child); err != nil {
		return nil, fmt.Errorf("expand path seed: %w", err)
	}
	return child, nil
}

// DiscoverableTweak is the registry data key for a discoverable path: a
// direct hash of the path itself.
func DiscoverableTweak(path string) string {
	h := blake2b.Sum256([]byte(path))
	return hex.EncodeToString(h[:])
}

// HiddenTweak is the registry data key for a hidden (encrypted) path: a
// hash of the path seed, so the key reveals nothing about the path.
func HiddenTweak(pathSeed []byte) string {
	h := blake2b.Sum256(pathSeed)
	return hex.EncodeToString(h[:])
}
