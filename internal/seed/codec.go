// Package seed implements the phrase codec: 16 bytes of secret entropy
// encoded as a 15-word phrase with an embedded 20-bit checksum. The exact
// bit layout and checksum offsets are a wire-compatibility contract shared
// with other implementations; do not change them.
package seed

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/text/unicode/norm"
)

// ErrChecksumMismatch is returned when the trailing checksum words do not
// match the entropy recovered from the seed words.
var ErrChecksumMismatch = errors.New("seed checksum does not match")

const (
	// EntropySize is the length of the root secret in bytes.
	EntropySize = 16

	// SeedWordCount is the number of words carrying entropy bits.
	SeedWordCount = 13

	// ChecksumWordCount is the number of trailing checksum words.
	ChecksumWordCount = 2

	// PhraseWordCount is the total phrase length in words.
	PhraseWordCount = SeedWordCount + ChecksumWordCount

	// prefixLen is how many leading characters identify a dictionary word.
	prefixLen = 3

	// lastWordBoundary bounds the dictionary scan for the 13th seed word,
	// which carries only 8 bits.
	lastWordBoundary = 256
)

// PhraseLengthError reports a phrase with the wrong number of words.
type PhraseLengthError struct {
	Got int
}

func (e *PhraseLengthError) Error() string {
	return fmt.Sprintf("phrase must be %d words, got %d", PhraseWordCount, e.Got)
}

// WordError reports a word that cannot be resolved against the dictionary.
type WordError struct {
	Index  int // zero-based position in the phrase
	Word   string
	Reason string
}

func (e *WordError) Error() string {
	return fmt.Sprintf("word %d (%q): %s", e.Index+1, e.Word, e.Reason)
}

// GeneratePhrase draws fresh entropy from crypto/rand and encodes it.
// The returned phrase always validates.
func GeneratePhrase() (string, error) {
	var entropy [EntropySize]byte
	if _, err := rand.Read(entropy[:]); err != nil {
		return "", fmt.Errorf("draw entropy: %w", err)
	}
	return PhraseFromEntropy(entropy[:])
}

// PhraseFromEntropy encodes the given entropy as a 15-word phrase. Exported
// so callers with a deterministic entropy source get reproducible phrases.
func PhraseFromEntropy(entropy []byte) (string, error) {
	if len(entropy) != EntropySize {
		return "", fmt.Errorf("entropy must be %d bytes, got %d", EntropySize, len(entropy))
	}

	words := entropyToWords(entropy)
	cs1, cs2 := checksumWords(entropy)

	phrase := make([]string, 0, PhraseWordCount)
	for _, w := range words {
		phrase = append(phrase, dictionary[w])
	}
	phrase = append(phrase, dictionary[cs1], dictionary[cs2])

	return strings.Join(phrase, " "), nil
}

// ValidatePhrase checks a phrase and returns the entropy it encodes.
func ValidatePhrase(phrase string) ([]byte, error) {
	words := strings.Fields(sanitize(phrase))
	if len(words) != PhraseWordCount {
		return nil, &PhraseLengthError{Got: len(words)}
	}

	var indices [SeedWordCount]uint16
	for i := 0; i < SeedWordCount; i++ {
		idx, err := resolveWord(i, words[i])
		if err != nil {
			return nil, err
		}
		indices[i] = idx
	}

	entropy := wordsToEntropy(indices)

	// The checksum words are compared by prefix only, so a truncated or
	// partially typed checksum word still validates.
	cs1, cs2 := checksumWords(entropy)
	for i, want := range []uint16{cs1, cs2} {
		got := words[SeedWordCount+i]
		if len(got) < prefixLen {
			return nil, &WordError{
				Index:  SeedWordCount + i,
				Word:   got,
				Reason: fmt.Sprintf("shorter than %d characters", prefixLen),
			}
		}
		if got[:prefixLen] != dictionary[want][:prefixLen] {
			return nil, ErrChecksumMismatch
		}
	}

	return entropy, nil
}

// sanitize trims, lowercases, normalizes to NFKC and collapses runs of
// separating whitespace so re-typed phrases compare equal.
func sanitize(phrase string) string {
	phrase = norm.NFKC.String(phrase)
	phrase = strings.ToLower(strings.TrimSpace(phrase))
	return strings.Join(strings.Fields(phrase), " ")
}

// resolveWord maps a phrase word to its dictionary index. The scan stops as
// soon as it passes the word's prefix lexicographically, which the sorted
// dictionary guarantees is correct.
func resolveWord(index int, word string) (uint16, error) {
	if len(word) < prefixLen {
		return 0, &WordError{
			Index:  index,
			Word:   word,
			Reason: fmt.Sprintf("shorter than %d characters", prefixLen),
		}
	}
	prefix := word[:prefixLen]

	bound := DictionarySize
	if index == SeedWordCount-1 {
		bound = lastWordBoundary
	}

	for i := 0; i < bound; i++ {
		entryPrefix := dictionary[i][:prefixLen]
		if entryPrefix == prefix {
			return uint16(i), nil
		}
		if entryPrefix > prefix {
			break
		}
	}

	reason := "prefix not found in dictionary"
	if index == SeedWordCount-1 {
		reason = fmt.Sprintf("must match one of the first %d dictionary words", lastWordBoundary)
	}
	return 0, &WordError{Index: index, Word: word, Reason: reason}
}

// entropyToWords splits the 128-bit entropy into 13 words: twelve 10-bit
// groups and a final 8-bit group, most significant bit first.
func entropyToWords(entropy []byte) [SeedWordCount]uint16 {
	var words [SeedWordCount]uint16
	bit := 0
	for i := range words {
		bits := 10
		if i == SeedWordCount-1 {
			bits = 8
		}
		var w uint16
		for b := 0; b < bits; b++ {
			w <<= 1
			if entropy[bit/8]&(1<<uint(7-bit%8)) != 0 {
				w |= 1
			}
			bit++
		}
		words[i] = w
	}
	return words
}

// wordsToEntropy packs 13 word indices back into the 16-byte big-endian
// stream. Inverse of entropyToWords.
func wordsToEntropy(words [SeedWordCount]uint16) []byte {
	entropy := make([]byte, EntropySize)
	bit := 0
	for i, w := range words {
		bits := 10
		if i == SeedWordCount-1 {
			bits = 8
		}
		for b := bits - 1; b >= 0; b-- {
			if w&(1<<uint(b)) != 0 {
				entropy[bit/8] |= 1 << uint(7-bit%8)
			}
			bit++
		}
	}
	return entropy
}

// checksumWords derives the two 10-bit checksum words from a 512-bit hash
// of the entropy. Word one is the top 10 bits of digest bytes 0-1; word two
// is the 10 bits starting at bit offset 10. Fixed shift/mask arithmetic, a
// wire-compatibility constant.
func checksumWords(entropy []byte) (uint16, uint16) {
	h := blake2b.Sum512(entropy)
	w1 := uint16(h[0])<<2 | uint16(h[1])>>6
	w2 := (uint16(h[1])&0x3F)<<4 | uint16(h[2])>>4
	return w1, w2
}
