package crypto

import (
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/pkg/errors"
)

// PathSegment is one level of a BIP-32 derivation path
type PathSegment struct {
	Index    uint32 // 31 bit index, without the hardened bit
	Hardened bool
}

// Child returns the index passed to the child key derivation function
func (s PathSegment) Child() uint32 {
	if s.Hardened {
		return s.Index + hdkeychain.HardenedKeyStart
	}
	return s.Index
}

func (s PathSegment) String() string {
	if s.Hardened {
		return strconv.FormatUint(uint64(s.Index), 10) + "'"
	}
	return strconv.FormatUint(uint64(s.Index), 10)
}

// Hardened returns a hardened path segment
func Hardened(index uint32) PathSegment {
	return PathSegment{Index: index, Hardened: true}
}

// Normal returns a non-hardened path segment
func Normal(index uint32) PathSegment {
	return PathSegment{Index: index}
}

// Path is an ordered list of derivation segments below the master key
type Path []PathSegment

// String renders the path in BIP-32 notation, e.g. m/44'/118'/0'/0/0
func (p Path) String() string {
	var b strings.Builder
	b.WriteString("m")
	for _, s := range p {
		b.WriteByte('/')
		b.WriteString(s.String())
	}
	return b.String()
}

// PathFunc maps an account index to the derivation path a chain uses for it
type PathFunc func(account uint32) Path

// CosmosHubPath returns m/44'/118'/0'/0/account
func CosmosHubPath(account uint32) Path {
	return BIP44Path(BIP44CoinTypes[Cosmos], account)
}

// EvmosHubPath returns m/44'/60'/0'/0/account
func EvmosHubPath(account uint32) Path {
	return BIP44Path(BIP44CoinTypes[Evmos], account)
}

// BIP44Path builds m/44'/coinType'/0'/0/account
func BIP44Path(coinType, account uint32) Path {
	return Path{Hardened(44), Hardened(coinType), Hardened(0), Normal(0), Normal(account)}
}

// DeriveKeyPair walks path from the BIP-32 master key of seed and returns the key pair at
// the end of it. Each step is HMAC-SHA512 keyed by the running chain code over
// 0x00||k||i for hardened segments and serP(K)||i otherwise.
//
// A child whose scalar is zero or not below the curve order is reported as
// ErrInvalidDerivation; no alternative index is tried, so a given (seed, path) either
// always succeeds with the same key or always fails.
func DeriveKeyPair(seed Seed, path Path) (*KeyPair, error) {
	key, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidDerivation, "master key: %v", err)
	}

	for depth, segment := range path {
		key, err = key.Derive(segment.Child())
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidDerivation, "segment %d (%s) of %s: %v", depth, segment, path, err)
		}
	}

	privKey, err := key.ECPrivKey()
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidDerivation, "private key at %s: %v", path, err)
	}
	key.Zero()

	return NewKeyPair(privKey.Serialize())
}
