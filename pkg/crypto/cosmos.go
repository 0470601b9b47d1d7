package crypto

import (
	"crypto/sha256"
	"encoding/base64"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/pkg/errors"
)

// PubKeyAminoType is the amino type tag of a secp256k1 public key
const PubKeyAminoType = "tendermint/PubKeySecp256k1"

// signatureSize is the length of a fixed size r||s signature
const signatureSize = 64

// Ensure our types implement the interfaces at compile time.
var _ Chain = (*CosmosChain)(nil)
var _ Signature = (*StdSignature)(nil)

// PubKey is the amino JSON form of a public key
type PubKey struct {
	Type  string `json:"type"`
	Value string `json:"value"` // base64 of the compressed key
}

// StdSignature binds a 64 byte r||s signature to the public key that produced it
type StdSignature struct {
	PubKey    PubKey `json:"pub_key"`
	Signature string `json:"signature"` // base64 of r||s
}

// NewStdSignature wraps raw signature bytes and a compressed public key in an envelope
func NewStdSignature(pubKey, sig []byte) *StdSignature {
	return &StdSignature{
		PubKey: PubKey{
			Type:  PubKeyAminoType,
			Value: base64.StdEncoding.EncodeToString(pubKey),
		},
		Signature: base64.StdEncoding.EncodeToString(sig),
	}
}

// Scheme implements Signature
func (s *StdSignature) Scheme() SignatureScheme { return SchemeAmino }

// Bytes returns the decoded r||s bytes, or nil if the envelope does not hold valid base64
func (s *StdSignature) Bytes() []byte {
	raw, err := base64.StdEncoding.DecodeString(s.Signature)
	if err != nil {
		return nil
	}
	return raw
}

// PubKeyBytes decodes the public key carried by the envelope
func (s *StdSignature) PubKeyBytes() ([]byte, error) {
	if s.PubKey.Type != PubKeyAminoType {
		return nil, errors.Wrapf(ErrInvalidSignature, "unsupported public key type %q", s.PubKey.Type)
	}
	raw, err := base64.StdEncoding.DecodeString(s.PubKey.Value)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidSignature, "public key: %v", err)
	}
	return raw, nil
}

// CosmosChain signs sha256 digests of sign documents with plain ECDSA and addresses
// accounts by bech32(ripemd160(sha256(pubkey))).
type CosmosChain struct {
	name   ChainType
	prefix string
	path   PathFunc
}

// NewCosmosChain creates a Cosmos SDK style chain
func NewCosmosChain(name ChainType, prefix string, path PathFunc) *CosmosChain {
	return &CosmosChain{name: name, prefix: prefix, path: path}
}

func (c *CosmosChain) Name() ChainType { return c.name }
func (c *CosmosChain) Prefix() string  { return c.prefix }

// Path implements Chain
func (c *CosmosChain) Path(account uint32) Path {
	return c.path(account)
}

// DeriveAddress implements Chain
func (c *CosmosChain) DeriveAddress(pubKey []byte) (string, error) {
	return CosmosAddress(c.prefix, pubKey)
}

// Digest returns sha256(msg)
func (c *CosmosChain) Digest(msg []byte) []byte {
	sum := sha256.Sum256(msg)
	return sum[:]
}

// Sign produces a deterministic (RFC6979), low-S signature and returns it as r||s together
// with the signer's compressed public key.
func (c *CosmosChain) Sign(keys *KeyPair, digest []byte) (Signature, error) {
	if len(digest) != sha256.Size {
		return nil, errors.Wrapf(ErrInvalidSignature, "digest must be %d bytes, got %d", sha256.Size, len(digest))
	}

	// The compact form is <recovery byte><r><s>; only r||s is kept.
	compact := ecdsa.SignCompact(keys.privKey(), digest, true)
	return NewStdSignature(keys.PublicKey, compact[1:]), nil
}

// Verify checks the envelope signature against its own public key, then checks that
// public key addresses to expected.
func (c *CosmosChain) Verify(sig Signature, digest []byte, expected string) error {
	if expected == "" {
		return errors.Wrap(ErrInvalidAddress, "expected address is required")
	}

	if sig == nil {
		return errors.Wrap(ErrInvalidSignature, "missing signature")
	}
	std, ok := sig.(*StdSignature)
	if !ok {
		return errors.Wrapf(ErrInvalidSignature, "%s cannot verify %s signatures", c.name, sig.Scheme())
	}
	if std == nil {
		return errors.Wrap(ErrInvalidSignature, "missing signature")
	}

	pubBytes, err := std.PubKeyBytes()
	if err != nil {
		return err
	}
	pubKey, err := btcec.ParsePubKey(pubBytes)
	if err != nil {
		return errors.Wrapf(ErrInvalidSignature, "public key: %v", err)
	}

	raw := std.Bytes()
	if len(raw) != signatureSize {
		return errors.Wrapf(ErrInvalidSignature, "signature must be %d bytes, got %d", signatureSize, len(raw))
	}

	var r, s btcec.ModNScalar
	if overflow := r.SetByteSlice(raw[:32]); overflow || r.IsZero() {
		return errors.Wrap(ErrSignatureVerificationFailed, "r is out of range")
	}
	if overflow := s.SetByteSlice(raw[32:]); overflow || s.IsZero() {
		return errors.Wrap(ErrSignatureVerificationFailed, "s is out of range")
	}
	if s.IsOverHalfOrder() {
		return errors.Wrap(ErrSignatureVerificationFailed, "s is not in the lower half of the curve order")
	}
	if !ecdsa.NewSignature(&r, &s).Verify(digest, pubKey) {
		return errors.Wrapf(ErrSignatureVerificationFailed, "%s signature does not match the sign document", c.name)
	}

	addr, err := c.DeriveAddress(pubKey.SerializeCompressed())
	if err != nil {
		return err
	}
	if addr != expected {
		return NewAddressMismatch(c.name, expected, addr)
	}
	return nil
}
