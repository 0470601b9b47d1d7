package crypto

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

// Legacy recovery id offset: V is 27 or 28
const recoveryIDOffset = 27

var _ Chain = (*EthereumChain)(nil)
var _ Signature = (*RecoverableSignature)(nil)

// RecoverableSignature is an (r, s, v) signature from which the signer's public key can
// be recovered. V carries the recovery id plus 27.
type RecoverableSignature struct {
	R [32]byte
	S [32]byte
	V byte
}

// NewRecoverableSignature splits a 65 byte r||s||v signature
func NewRecoverableSignature(sig []byte) (*RecoverableSignature, error) {
	if len(sig) != ethcrypto.SignatureLength {
		return nil, errors.Wrapf(ErrInvalidSignature, "signature must be %d bytes, got %d", ethcrypto.SignatureLength, len(sig))
	}
	rs := &RecoverableSignature{V: sig[64]}
	copy(rs.R[:], sig[:32])
	copy(rs.S[:], sig[32:64])
	return rs, nil
}

// Scheme implements Signature
func (s *RecoverableSignature) Scheme() SignatureScheme { return SchemeRecoverable }

// Bytes returns r||s||v
func (s *RecoverableSignature) Bytes() []byte {
	out := make([]byte, 0, ethcrypto.SignatureLength)
	out = append(out, s.R[:]...)
	out = append(out, s.S[:]...)
	return append(out, s.V)
}

// Hex returns the 0x prefixed r||s||v encoding
func (s *RecoverableSignature) Hex() string {
	return hexutil.Encode(s.Bytes())
}

type recoverableSignatureJSON struct {
	R hexutil.Bytes  `json:"r"`
	S hexutil.Bytes  `json:"s"`
	V hexutil.Uint64 `json:"v"`
}

func (s *RecoverableSignature) MarshalJSON() ([]byte, error) {
	return jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(recoverableSignatureJSON{
		R: s.R[:],
		S: s.S[:],
		V: hexutil.Uint64(s.V),
	})
}

func (s *RecoverableSignature) UnmarshalJSON(data []byte) error {
	var dec recoverableSignatureJSON
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(data, &dec); err != nil {
		return errors.Wrap(ErrInvalidSignature, err.Error())
	}
	if len(dec.R) != 32 || len(dec.S) != 32 || dec.V > 0xff {
		return errors.Wrap(ErrInvalidSignature, "r and s must be 32 bytes and v a single byte")
	}
	copy(s.R[:], dec.R)
	copy(s.S[:], dec.S)
	s.V = byte(dec.V)
	return nil
}

// EthereumChain addresses accounts by the keccak256 Ethereum address re-encoded as bech32
// and signs keccak256 digests with recoverable ECDSA.
type EthereumChain struct {
	name   ChainType
	prefix string
	path   PathFunc
}

// NewEthereumChain creates an Ethereum style chain with bech32 account addresses
func NewEthereumChain(name ChainType, prefix string, path PathFunc) *EthereumChain {
	return &EthereumChain{name: name, prefix: prefix, path: path}
}

func (c *EthereumChain) Name() ChainType { return c.name }
func (c *EthereumChain) Prefix() string  { return c.prefix }

// Path implements Chain
func (c *EthereumChain) Path(account uint32) Path {
	return c.path(account)
}

// DeriveAddress implements Chain
func (c *EthereumChain) DeriveAddress(pubKey []byte) (string, error) {
	addr, err := EthereumAddress(pubKey)
	if err != nil {
		return "", err
	}
	return Bech32Encode(c.prefix, addr.Bytes())
}

// Digest returns keccak256(msg)
func (c *EthereumChain) Digest(msg []byte) []byte {
	return ethcrypto.Keccak256(msg)
}

// Sign produces a low-S recoverable signature with V in {27, 28}
func (c *EthereumChain) Sign(keys *KeyPair, digest []byte) (Signature, error) {
	if len(digest) != ethcrypto.DigestLength {
		return nil, errors.Wrapf(ErrInvalidSignature, "digest must be %d bytes, got %d", ethcrypto.DigestLength, len(digest))
	}

	privKey, err := ethcrypto.ToECDSA(keys.PrivateKey[:])
	if err != nil {
		return nil, errors.Wrap(ErrInvalidDerivation, err.Error())
	}

	sig, err := ethcrypto.Sign(digest, privKey)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidSignature, "%s: %v", c.name, err)
	}
	sig[64] += recoveryIDOffset

	return NewRecoverableSignature(sig)
}

// Verify recovers the signer from sig and digest and checks that it addresses to expected
func (c *EthereumChain) Verify(sig Signature, digest []byte, expected string) error {
	if expected == "" {
		return errors.Wrap(ErrInvalidAddress, "expected address is required")
	}

	if sig == nil {
		return errors.Wrap(ErrInvalidSignature, "missing signature")
	}
	rs, ok := sig.(*RecoverableSignature)
	if !ok {
		return errors.Wrapf(ErrInvalidSignature, "%s cannot verify %s signatures", c.name, sig.Scheme())
	}
	if rs == nil {
		return errors.Wrap(ErrInvalidSignature, "missing signature")
	}
	if rs.V != recoveryIDOffset && rs.V != recoveryIDOffset+1 {
		return errors.Wrapf(ErrSignatureVerificationFailed, "v must be 27 or 28, got %d", rs.V)
	}

	raw := rs.Bytes()
	raw[64] -= recoveryIDOffset

	r := new(big.Int).SetBytes(rs.R[:])
	s := new(big.Int).SetBytes(rs.S[:])
	if !ethcrypto.ValidateSignatureValues(raw[64], r, s, true) {
		return errors.Wrap(ErrSignatureVerificationFailed, "r or s is out of range")
	}

	pub, err := ethcrypto.SigToPub(digest, raw)
	if err != nil {
		return errors.Wrapf(ErrSignatureVerificationFailed, "recover signer: %v", err)
	}

	recovered, err := EthToBech32(c.prefix, ethcrypto.PubkeyToAddress(*pub).Hex())
	if err != nil {
		return err
	}
	if recovered != expected {
		return NewAddressMismatch(c.name, expected, recovered)
	}
	return nil
}
