package crypto

import (
	"crypto/sha256"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"golang.org/x/crypto/ripemd160"
)

// AddressLength is the size of the account identifier behind every bech32 address we produce
const AddressLength = 20

// Bech32Encode encodes raw bytes as a bech32 string with the given human readable prefix
func Bech32Encode(prefix string, data []byte) (string, error) {
	converted, err := bech32.ConvertBits(data, 8, 5, true)
	if err != nil {
		return "", errors.Wrap(ErrInvalidAddress, err.Error())
	}
	addr, err := bech32.Encode(prefix, converted)
	if err != nil {
		return "", errors.Wrap(ErrInvalidAddress, err.Error())
	}
	return addr, nil
}

// Bech32Decode splits a bech32 string into its prefix and raw bytes
func Bech32Decode(addr string) (string, []byte, error) {
	prefix, data, err := bech32.Decode(addr)
	if err != nil {
		return "", nil, errors.Wrapf(ErrInvalidAddress, "%s: %v", addr, err)
	}
	converted, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return "", nil, errors.Wrapf(ErrInvalidAddress, "%s: %v", addr, err)
	}
	return prefix, converted, nil
}

// ValidateAddress checks the checksum, prefix and payload size of an account address
func ValidateAddress(prefix, addr string) error {
	got, data, err := Bech32Decode(addr)
	if err != nil {
		return err
	}
	if got != prefix {
		return errors.Wrapf(ErrInvalidAddress, "%s: prefix %q, want %q", addr, got, prefix)
	}
	if len(data) != AddressLength {
		return errors.Wrapf(ErrInvalidAddress, "%s: %d byte payload, want %d", addr, len(data), AddressLength)
	}
	return nil
}

// Hash160 returns ripemd160(sha256(data))
func Hash160(data []byte) []byte {
	sum := sha256.Sum256(data)
	hasher := ripemd160.New()
	hasher.Write(sum[:])
	return hasher.Sum(nil)
}

// CosmosAddress derives a Cosmos SDK account address: bech32(prefix, ripemd160(sha256(pubkey))).
// The public key must be in 33 byte compressed form.
func CosmosAddress(prefix string, pubKey []byte) (string, error) {
	if !btcec.IsCompressedPubKey(pubKey) {
		return "", errors.Wrapf(ErrInvalidAddress, "cosmos addresses need a compressed public key, got %d bytes", len(pubKey))
	}
	return Bech32Encode(prefix, Hash160(pubKey))
}

// EthereumAddress returns the low 20 bytes of keccak256 over the uncompressed public key
// without its 0x04 format byte. Compressed and uncompressed inputs are both accepted.
func EthereumAddress(pubKey []byte) (common.Address, error) {
	pub, err := btcec.ParsePubKey(pubKey)
	if err != nil {
		return common.Address{}, errors.Wrap(ErrInvalidAddress, err.Error())
	}
	uncompressed := pub.SerializeUncompressed()
	hash := ethcrypto.Keccak256(uncompressed[1:])
	return common.BytesToAddress(hash[len(hash)-AddressLength:]), nil
}

// EthToBech32 re-encodes a 0x prefixed hex address under a bech32 prefix
func EthToBech32(prefix, hexAddr string) (string, error) {
	if !common.IsHexAddress(hexAddr) {
		return "", errors.Wrapf(ErrInvalidAddress, "%q is not a hex address", hexAddr)
	}
	return Bech32Encode(prefix, common.HexToAddress(hexAddr).Bytes())
}

// Bech32ToEth converts a bech32 account address back to its checksummed 0x hex form
func Bech32ToEth(addr string) (string, error) {
	_, data, err := Bech32Decode(addr)
	if err != nil {
		return "", err
	}
	if len(data) != AddressLength {
		return "", errors.Wrapf(ErrInvalidAddress, "%s: %d byte payload, want %d", addr, len(data), AddressLength)
	}
	return common.BytesToAddress(data).Hex(), nil
}
