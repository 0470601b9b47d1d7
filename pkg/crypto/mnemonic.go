package crypto

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/tyler-smith/go-bip39"
)

// SeedSize is the length of a BIP-39 seed in bytes
const SeedSize = 64

// validWordCounts are the mnemonic lengths allowed by BIP-39
var validWordCounts = map[int]bool{
	12: true,
	15: true,
	18: true,
	21: true,
	24: true,
}

// Mnemonic is a BIP-39 phrase that passed word list and checksum validation.
// The zero value is not valid; obtain one from ValidateMnemonic.
type Mnemonic struct {
	phrase string
}

// String returns the normalized phrase
func (m Mnemonic) String() string {
	return m.phrase
}

// Words returns the number of words in the phrase
func (m Mnemonic) Words() int {
	return len(strings.Fields(m.phrase))
}

// Seed is the binary seed expanded from a mnemonic
type Seed []byte

// ValidateMnemonic normalizes a phrase and checks it against the English word list and the
// BIP-39 checksum. Any failure is reported as ErrInvalidMnemonic.
func ValidateMnemonic(phrase string) (Mnemonic, error) {
	words := strings.Fields(strings.ToLower(phrase))
	if !validWordCounts[len(words)] {
		return Mnemonic{}, errors.Wrapf(ErrInvalidMnemonic, "got %d words, must be 12, 15, 18, 21, or 24", len(words))
	}

	for i, word := range words {
		if _, ok := bip39.GetWordIndex(word); !ok {
			return Mnemonic{}, errors.Wrapf(ErrInvalidMnemonic, "word %d is not in the word list", i+1)
		}
	}

	normalized := strings.Join(words, " ")
	if _, err := bip39.EntropyFromMnemonic(normalized); err != nil {
		return Mnemonic{}, errors.Wrap(ErrInvalidMnemonic, "checksum error")
	}

	return Mnemonic{phrase: normalized}, nil
}

// SeedFromMnemonic stretches a validated mnemonic into a 64 byte seed using
// PBKDF2-HMAC-SHA512 with 2048 rounds and the salt "mnemonic"+passphrase.
func SeedFromMnemonic(m Mnemonic, passphrase string) Seed {
	return Seed(bip39.NewSeed(m.phrase, passphrase))
}
