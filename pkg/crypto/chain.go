package crypto

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Chain defines the operations a chain needs to prove control of a derived key:
// how to address a public key, how to hash a sign document, and how to sign and verify.
type Chain interface {
	// Name returns the chain identifier
	Name() ChainType

	// Prefix returns the bech32 human readable part of account addresses
	Prefix() string

	// Path returns the derivation path for the given account index
	Path(account uint32) Path

	// DeriveAddress computes the account address for a compressed public key
	DeriveAddress(pubKey []byte) (string, error)

	// Digest hashes canonical sign document bytes with the chain's native hash
	Digest(msg []byte) []byte

	// Sign signs a digest produced by Digest
	Sign(keys *KeyPair, digest []byte) (Signature, error)

	// Verify checks sig over digest and that it was produced by the key behind expected
	Verify(sig Signature, digest []byte, expected string) error
}

// Signature is a chain specific signature envelope
type Signature interface {
	// Scheme reports which encoding the signature uses
	Scheme() SignatureScheme

	// Bytes returns the raw signature bytes (r||s, followed by v for recoverable signatures)
	Bytes() []byte
}

// ChainRegistry provides access to the chains the prover can run
type ChainRegistry struct {
	chains map[ChainType]Chain
}

// NewChainRegistry creates a registry with every built-in chain registered
func NewChainRegistry() *ChainRegistry {
	registry := &ChainRegistry{
		chains: make(map[ChainType]Chain),
	}

	registry.Register(NewCosmosChain(Aura, Bech32Prefixes[Aura], CosmosHubPath))
	registry.Register(NewCosmosChain(Cosmos, Bech32Prefixes[Cosmos], CosmosHubPath))
	registry.Register(NewEthereumChain(Evmos, Bech32Prefixes[Evmos], EvmosHubPath))

	return registry
}

// Register adds a chain, replacing any chain registered under the same name
func (r *ChainRegistry) Register(chain Chain) {
	r.chains[chain.Name()] = chain
}

// GetChain returns the chain registered under name
func (r *ChainRegistry) GetChain(name ChainType) (Chain, bool) {
	chain, exists := r.chains[name]
	return chain, exists
}

// Lookup resolves a user supplied chain name, case insensitively
func (r *ChainRegistry) Lookup(name string) (Chain, error) {
	chain, exists := r.GetChain(ChainType(strings.ToLower(strings.TrimSpace(name))))
	if !exists {
		return nil, errors.Wrapf(ErrUnsupportedChain, "%q", name)
	}
	return chain, nil
}

// Names lists the registered chains in alphabetical order
func (r *ChainRegistry) Names() []ChainType {
	names := make([]ChainType, 0, len(r.chains))
	for name := range r.chains {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}
