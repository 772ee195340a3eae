package seed_test

import (
	"crypto/rand"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SkynetHQ/skynet-mysky/internal/seed"
)

// knownEntropy is the byte sequence 0x00..0x0f with its expected phrase.
// These values are fixed by the codec's bit layout and checksum offsets;
// if this test breaks, existing phrases stopped decoding.
var knownEntropy = []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}

const knownPhrase = "abbey afield bulb scoop agenda below jingle addicted " +
	"amused dagger science evaluate affair saucepan utopia"

func TestPhraseFromEntropyKnownVector(t *testing.T) {
	phrase, err := seed.PhraseFromEntropy(knownEntropy)
	require.NoError(t, err)
	assert.Equal(t, knownPhrase, phrase)
}

func TestZeroEntropyVector(t *testing.T) {
	phrase, err := seed.PhraseFromEntropy(make([]byte, seed.EntropySize))
	require.NoError(t, err)

	words := strings.Fields(phrase)
	require.Len(t, words, seed.PhraseWordCount)
	for i := 0; i < seed.SeedWordCount; i++ {
		assert.Equal(t, "abbey", words[i])
	}
	assert.Equal(t, []string{"jump", "ingested"}, words[seed.SeedWordCount:])
}

func TestRoundTrip(t *testing.T) {
	for i := 0; i < 200; i++ {
		entropy := make([]byte, seed.EntropySize)
		_, err := rand.Read(entropy)
		require.NoError(t, err)

		phrase, err := seed.PhraseFromEntropy(entropy)
		require.NoError(t, err)

		decoded, err := seed.ValidatePhrase(phrase)
		require.NoError(t, err, "phrase %q", phrase)
		assert.Equal(t, entropy, decoded)
	}
}

func TestGeneratePhraseValidates(t *testing.T) {
	phrase, err := seed.GeneratePhrase()
	require.NoError(t, err)

	entropy, err := seed.ValidatePhrase(phrase)
	require.NoError(t, err)
	assert.Len(t, entropy, seed.EntropySize)
}

func TestSanitizationIdempotence(t *testing.T) {
	variants := []string{
		knownPhrase,
		"  " + knownPhrase + "  ",
		strings.ReplaceAll(knownPhrase, " ", "   "),
		strings.ToUpper(knownPhrase),
		"Abbey Afield " + knownPhrase[len("abbey afield "):],
		strings.ReplaceAll(knownPhrase, " ", "\t"),
	}

	for _, v := range variants {
		entropy, err := seed.ValidatePhrase(v)
		require.NoError(t, err, "variant %q", v)
		assert.Equal(t, knownEntropy, entropy)
	}
}

func TestPrefixOnlyMatching(t *testing.T) {
	words := strings.Fields(knownPhrase)
	truncated := make([]string, len(words))
	for i, w := range words {
		truncated[i] = w[:3]
	}

	entropy, err := seed.ValidatePhrase(strings.Join(truncated, " "))
	require.NoError(t, err)
	assert.Equal(t, knownEntropy, entropy)
}

func TestPhraseLengthErrors(t *testing.T) {
	words := strings.Fields(knownPhrase)

	tests := []struct {
		name   string
		phrase string
		want   int
	}{
		{"fourteen words", strings.Join(words[:14], " "), 14},
		{"sixteen words", knownPhrase + " abbey", 16},
		{"empty", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := seed.ValidatePhrase(tt.phrase)
			var lenErr *seed.PhraseLengthError
			require.ErrorAs(t, err, &lenErr)
			assert.Equal(t, tt.want, lenErr.Got)
		})
	}
}

func TestUnknownWord(t *testing.T) {
	words := strings.Fields(knownPhrase)
	words[4] = "zzzzzz"

	_, err := seed.ValidatePhrase(strings.Join(words, " "))
	var wordErr *seed.WordError
	require.ErrorAs(t, err, &wordErr)
	assert.Equal(t, 4, wordErr.Index)
	assert.Contains(t, wordErr.Reason, "not found")
}

func TestThirteenthWordBoundary(t *testing.T) {
	// "films" sits beyond index 256 in the dictionary, so it can never be
	// the 13th seed word even though its prefix resolves in a full scan.
	words := strings.Fields(knownPhrase)
	words[seed.SeedWordCount-1] = "films"

	_, err := seed.ValidatePhrase(strings.Join(words, " "))
	var wordErr *seed.WordError
	require.ErrorAs(t, err, &wordErr)
	assert.Equal(t, seed.SeedWordCount-1, wordErr.Index)
	assert.Contains(t, wordErr.Reason, "first 256")
}

func TestShortWord(t *testing.T) {
	words := strings.Fields(knownPhrase)
	words[0] = "ab"

	_, err := seed.ValidatePhrase(strings.Join(words, " "))
	var wordErr *seed.WordError
	require.ErrorAs(t, err, &wordErr)
	assert.Contains(t, wordErr.Reason, "shorter")
}

func TestChecksumMismatch(t *testing.T) {
	words := strings.Fields(knownPhrase)
	words[seed.PhraseWordCount-1] = "abbey"

	_, err := seed.ValidatePhrase(strings.Join(words, " "))
	assert.ErrorIs(t, err, seed.ErrChecksumMismatch)
}

// TestChecksumSensitivity flips every bit of the known entropy and checks
// that the original checksum words no longer validate the altered seed
// words.
func TestChecksumSensitivity(t *testing.T) {
	origWords := strings.Fields(knownPhrase)
	checksum := origWords[seed.SeedWordCount:]

	for bit := 0; bit < seed.EntropySize*8; bit++ {
		flipped := make([]byte, seed.EntropySize)
		copy(flipped, knownEntropy)
		flipped[bit/8] ^= 1 << uint(7-bit%8)

		phrase, err := seed.PhraseFromEntropy(flipped)
		require.NoError(t, err)

		spliced := strings.Fields(phrase)[:seed.SeedWordCount]
		spliced = append(spliced, checksum...)

		_, err = seed.ValidatePhrase(strings.Join(spliced, " "))
		assert.ErrorIs(t, err, seed.ErrChecksumMismatch, "bit %d", bit)
	}
}

func TestPhraseFromEntropyRejectsBadLength(t *testing.T) {
	for _, n := range []int{0, 15, 17, 32} {
		_, err := seed.PhraseFromEntropy(make([]byte, n))
		assert.Error(t, err, "length %d", n)
	}
}

func TestValidatePhraseDoesNotAliasInput(t *testing.T) {
	entropy, err := seed.ValidatePhrase(knownPhrase)
	require.NoError(t, err)

	entropy[0] ^= 0xFF
	again, err := seed.ValidatePhrase(knownPhrase)
	require.NoError(t, err)
	assert.Equal(t, knownEntropy, again)
	assert.False(t, errors.Is(err, seed.ErrChecksumMismatch))
}
