package wallet

import (
	"github.com/grendel/keyproof/pkg/crypto"
	"github.com/pkg/errors"
)

// Account is a key pair derived for one chain together with its address
type Account struct {
	Chain   crypto.ChainType
	Path    crypto.Path
	Keys    *crypto.KeyPair
	Address string
}

// DeriveAccount derives the key pair at the chain's path for account and computes the
// address the chain assigns to its public key. seed must be a full BIP-39 seed.
func DeriveAccount(seed crypto.Seed, chain crypto.Chain, account uint32) (*Account, error) {
	if len(seed) != crypto.SeedSize {
		return nil, errors.Wrapf(crypto.ErrInvalidDerivation, "seed must be %d bytes, got %d", crypto.SeedSize, len(seed))
	}
	path := chain.Path(account)

	keys, err := crypto.DeriveKeyPair(seed, path)
	if err != nil {
		return nil, err
	}

	address, err := chain.DeriveAddress(keys.PublicKey)
	if err != nil {
		keys.Zero()
		return nil, err
	}

	return &Account{
		Chain:   chain.Name(),
		Path:    path,
		Keys:    keys,
		Address: address,
	}, nil
}

// Zero wipes the account's private key
func (a *Account) Zero() {
	if a.Keys != nil {
		a.Keys.Zero()
	}
}
