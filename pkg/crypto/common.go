package crypto

import (
	"fmt"

	"github.com/pkg/errors"
)

// common.go - Contains common definitions used across the crypto package

// ChainType identifies a chain the prover knows how to derive keys and addresses for
type ChainType string

// Supported chains
const (
	Aura   ChainType = "aura"
	Cosmos ChainType = "cosmos"
	Evmos  ChainType = "evmos"
)

// SignatureScheme tells the two signature encodings apart
type SignatureScheme string

const (
	// SchemeAmino is a 64 byte r||s signature bundled with the signer public key
	SchemeAmino SignatureScheme = "secp256k1-amino"
	// SchemeRecoverable is an (r, s, v) signature the signer can be recovered from
	SchemeRecoverable SignatureScheme = "secp256k1-recoverable"
)

// Error kinds. Callers match them with errors.Is; the wrapped message carries the details.
var (
	ErrInvalidMnemonic             = errors.New("invalid mnemonic phrase")
	ErrInvalidDerivation           = errors.New("invalid key derivation")
	ErrAddressMismatch             = errors.New("address mismatch")
	ErrSignatureVerificationFailed = errors.New("signature verification failed")
	ErrInvalidAddress              = errors.New("invalid address")
	ErrInvalidSignature            = errors.New("invalid signature encoding")
	ErrUnsupportedChain            = errors.New("unsupported chain")
)

// MismatchError reports an equality check that failed, with both sides of the comparison
type MismatchError struct {
	Kind     error
	Chain    ChainType
	Expected string
	Actual   string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("%s: %v: expected %s but got %s", e.Chain, e.Kind, e.Expected, e.Actual)
}

// Unwrap exposes the error kind to errors.Is
func (e *MismatchError) Unwrap() error {
	return e.Kind
}

// NewAddressMismatch builds the error returned when a derived or recovered address is not the expected one
func NewAddressMismatch(chain ChainType, expected, actual string) error {
	return &MismatchError{
		Kind:     ErrAddressMismatch,
		Chain:    chain,
		Expected: expected,
		Actual:   actual,
	}
}

// BIP44CoinTypes defines the coin types used in BIP-44 derivation paths
var BIP44CoinTypes = map[ChainType]uint32{
	Aura:   118,
	Cosmos: 118,
	Evmos:  60,
}

// Bech32Prefixes defines the human readable part of each chain's account addresses
var Bech32Prefixes = map[ChainType]string{
	Aura:   "aura",
	Cosmos: "cosmos",
	Evmos:  "evmos",
}
