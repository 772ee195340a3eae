package derive_test

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SkynetHQ/skynet-mysky/internal/derive"
	"github.com/SkynetHQ/skynet-mysky/internal/models"
	"github.com/SkynetHQ/skynet-mysky/internal/seed"
)

func testEntropy(t *testing.T) []byte {
	t.Helper()
	entropy := make([]byte, seed.EntropySize)
	_, err := rand.Read(entropy)
	require.NoError(t, err)
	return entropy
}

func TestNewKeyPairDeterministic(t *testing.T) {
	entropy := testEntropy(t)

	a, err := derive.NewKeyPair(entropy)
	require.NoError(t, err)
	b, err := derive.NewKeyPair(entropy)
	require.NoError(t, err)

	assert.Equal(t, a.PublicKey, b.PublicKey)
	assert.Equal(t, a.PrivateKey, b.PrivateKey)
}

func TestTweakedKeyPairDiverges(t *testing.T) {
	entropy := testEntropy(t)

	root, err := derive.NewKeyPair(entropy)
	require.NoError(t, err)
	tweaked, err := derive.NewKeyPairWithTweak(entropy, "foo")
	require.NoError(t, err)
	other, err := derive.NewKeyPairWithTweak(entropy, "bar")
	require.NoError(t, err)

	assert.NotEqual(t, root.PublicKey, tweaked.PublicKey)
	assert.NotEqual(t, tweaked.PublicKey, other.PublicKey)

	// Empty tweak must collapse to the untweaked derivation.
	emptyTweak, err := derive.NewKeyPairWithTweak(entropy, "")
	require.NoError(t, err)
	assert.Equal(t, root.PublicKey, emptyTweak.PublicKey)
}

func TestNewKeyPairRejectsBadEntropy(t *testing.T) {
	_, err := derive.NewKeyPair(make([]byte, 8))
	var invErr *models.CryptoInvariantError
	assert.ErrorAs(t, err, &invErr)
}

func TestSignVerifyMessage(t *testing.T) {
	entropy := testEntropy(t)
	keys, err := derive.NewKeyPair(entropy)
	require.NoError(t, err)

	msg := []byte("hello world")
	sig, err := derive.SignMessage(keys.PrivateKey, msg)
	require.NoError(t, err)

	ok, err := derive.VerifyMessageSignature(keys.PublicKey, msg, sig)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = derive.VerifyMessageSignature(keys.PublicKey, []byte("tampered"), sig)
	require.NoError(t, err)
	assert.False(t, ok)
}

// A message signature must not verify as a registry signature: the two
// domains are salted apart.
func TestSigningDomainsDisjoint(t *testing.T) {
	entropy := testEntropy(t)
	keys, err := derive.NewKeyPair(entropy)
	require.NoError(t, err)

	payload := []byte("same bytes in both domains")

	msgSig, err := derive.SignMessage(keys.PrivateKey, payload)
	require.NoError(t, err)
	regSig, err := derive.SignRegistryDigest(keys.PrivateKey, payload)
	require.NoError(t, err)

	assert.NotEqual(t, msgSig, regSig)

	ok, err := derive.VerifyMessageSignature(keys.PublicKey, payload, regSig)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyRejectsMalformedInputs(t *testing.T) {
	entropy := testEntropy(t)
	keys, err := derive.NewKeyPair(entropy)
	require.NoError(t, err)

	var invErr *models.CryptoInvariantError

	_, err = derive.VerifyMessageSignature(keys.PublicKey[:16], []byte("m"), make([]byte, derive.SignatureSize))
	assert.ErrorAs(t, err, &invErr)

	_, err = derive.VerifyMessageSignature(keys.PublicKey, []byte("m"), []byte("short"))
	assert.ErrorAs(t, err, &invErr)
}

func TestRootPathSeed(t *testing.T) {
	entropy := testEntropy(t)

	a, err := derive.RootPathSeed(entropy)
	require.NoError(t, err)
	b, err := derive.RootPathSeed(entropy)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Len(t, a, derive.RootPathSeedSize)

	_, err = derive.RootPathSeed([]byte("short"))
	var invErr *models.CryptoInvariantError
	assert.ErrorAs(t, err, &invErr)
}

func TestPathSeedSeparatesPathsAndKinds(t *testing.T) {
	entropy := testEntropy(t)

	fileSeed, err := derive.PathSeed(entropy, "app.example/data.json", false)
	require.NoError(t, err)
	dirSeed, err := derive.PathSeed(entropy, "app.example/data.json", true)
	require.NoError(t, err)
	otherSeed, err := derive.PathSeed(entropy, "app.example/other.json", false)
	require.NoError(t, err)

	assert.Len(t, fileSeed, derive.PathSeedSize)
	assert.NotEqual(t, fileSeed, dirSeed)
	assert.NotEqual(t, fileSeed, otherSeed)
}

func TestTweaks(t *testing.T) {
	entropy := testEntropy(t)

	disc := derive.DiscoverableTweak("app.example/data.json")
	assert.Len(t, disc, 64)
	assert.Equal(t, disc, derive.DiscoverableTweak("app.example/data.json"))
	assert.NotEqual(t, disc, derive.DiscoverableTweak("app.example/other.json"))

	pathSeed, err := derive.PathSeed(entropy, "app.example/data.json", false)
	require.NoError(t, err)
	hidden := derive.HiddenTweak(pathSeed)
	assert.Len(t, hidden, 64)
	assert.NotEqual(t, disc, hidden)
}
